package identity

import (
	"context"
	"errors"
	"time"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/auth"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for an unknown user, an inactive user or a wrong password
var ErrInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid username or password")

// ErrNotMember is returned when the user may not act for the requested branch
var ErrNotMember = shared.NewDomainError(shared.CodeForbidden, "You are not a member of this branch")

// AuthService handles authentication operations
type AuthService struct {
	scope      appshared.TransactionScope
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	scope appshared.TransactionScope,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		scope:      scope,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login verifies the credentials and the membership in the requested branch,
// then issues an access token carrying the actor.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := logger.WithLogger(ctx, s.logger)
	log.Info("Login attempt", zap.String("username", input.Username), zap.String("branch", input.Branch))

	repos := s.scope.Repositories()
	user, err := repos.Users().FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("User not found during login", zap.String("username", input.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active || !user.VerifyPassword(input.Password) {
		log.Warn("Invalid credentials", zap.String("username", input.Username))
		return nil, ErrInvalidCredentials
	}

	b, err := repos.Branches().FindBySlug(ctx, input.Branch)
	if err != nil {
		return nil, err
	}
	member, err := repos.Users().IsMember(ctx, user.ID, b.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		log.Warn("Login for a branch the user does not belong to",
			zap.String("username", input.Username), zap.String("branch", b.Slug))
		return nil, ErrNotMember
	}

	token, err := s.jwtService.Issue(auth.TokenInput{
		UserID:        user.ID,
		Username:      user.Username,
		BranchID:      b.ID,
		IsAdminBranch: b.IsAdmin,
	})
	if err != nil {
		log.Error("Failed to issue access token", zap.Error(err))
		return nil, err
	}

	user.RecordLogin(time.Now())
	if err := repos.Users().Save(ctx, user); err != nil {
		// Don't fail the login, the token is already issued
		log.Error("Failed to record login", zap.Error(err))
	}

	log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("branch_id", b.ID.String()))

	return &LoginResult{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserInfo(user),
		Branch:      ToBranchResponse(b),
	}, nil
}

// Me returns the user and branch of the actor
func (s *AuthService) Me(ctx context.Context, actor access.Actor) (*MeResult, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	repos := s.scope.Repositories()
	user, err := repos.Users().FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	b, err := repos.Branches().FindByID(ctx, actor.BranchID)
	if err != nil {
		return nil, err
	}
	return &MeResult{User: ToUserInfo(user), Branch: ToBranchResponse(b)}, nil
}

// Logout revokes the token until it would have expired
func (s *AuthService) Logout(ctx context.Context, tokenID string, remaining time.Duration) error {
	if s.blacklist == nil || tokenID == "" {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, tokenID, remaining); err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to revoke token", zap.Error(err))
		return err
	}
	return nil
}
