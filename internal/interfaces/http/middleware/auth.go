package middleware

import (
	"errors"
	"strings"

	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/auth"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"github.com/gadgetstock/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by Authenticate
const (
	ClaimsKey     = "auth_claims"
	ActorKey      = "auth_actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	JWTService *auth.JWTService
	// Blacklist is optional; without it logged out tokens stay valid until they expire
	Blacklist auth.TokenBlacklist
	Logger    *zap.Logger
}

// Authenticate validates the bearer token and resolves the actor of the request.
// Every route behind it answers 401 without a valid token.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortWithError(c, shared.CodeUnauthorized, "Authentication required")
			return
		}
		token := strings.TrimPrefix(header, BearerPrefix)
		if token == header || token == "" {
			abortWithError(c, shared.CodeUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := cfg.JWTService.Validate(token)
		if err != nil {
			log.Debug("Token validation failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWithError(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortWithError(c, shared.CodeUnauthorized, "Invalid token")
			return
		}

		if cfg.Blacklist != nil && claims.ID != "" {
			revoked, err := cfg.Blacklist.IsRevoked(c.Request.Context(), claims.ID)
			switch {
			case err != nil:
				// fail open: a blacklist outage must not log everybody out
				log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
			case revoked:
				abortWithError(c, dto.ErrCodeTokenRevoked, "Token has been revoked")
				return
			}
		}

		actor, err := claims.Actor()
		if err != nil {
			abortWithError(c, shared.CodeUnauthorized, "Invalid token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(ActorKey, actor)
		c.Request = c.Request.WithContext(
			logger.WithActor(c.Request.Context(), claims.UserID, claims.BranchID))
		c.Next()
	}
}

// GetClaims returns the validated claims, or nil on an unauthenticated route
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetActor returns the resolved actor. On an unauthenticated route it returns the
// zero actor, which every service rejects with UNAUTHORIZED.
func GetActor(c *gin.Context) access.Actor {
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(access.Actor); ok {
			return actor
		}
	}
	return access.Actor{}
}
