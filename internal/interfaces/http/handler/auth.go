package handler

import (
	"github.com/gadgetstock/backend/internal/application/identity"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @ID           authLogin
// @Summary      User login
// @Description  Authenticate with username and password for one branch the user belongs to
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identity.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Username: req.Username,
		Password: req.Password,
		Branch:   req.Branch,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Me godoc
// @ID           authMe
// @Summary      Current actor
// @Description  Returns the user and the branch the token acts for
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.MeResult]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	result, err := h.authService.Me(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @ID           authLogout
// @Summary      User logout
// @Description  Revokes the current access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[LogoutResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims.ID, claims.RemainingTTL()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LogoutResponse{Message: "Logged out successfully"})
}

// BranchHandler handles branch endpoints
type BranchHandler struct {
	BaseHandler
	branchService *identity.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService *identity.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// CreateBranch godoc
// @ID           createBranch
// @Summary      Create branch
// @Description  Adds a regular branch. Admin branch only.
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        request body CreateBranchRequest true "Branch"
// @Success      201 {object} APIResponse[identity.BranchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /branches [post]
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var req CreateBranchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.branchService.Create(c.Request.Context(), middleware.GetActor(c), identity.CreateBranchInput{Name: req.Name})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListBranches godoc
// @ID           listBranches
// @Summary      List branches
// @Tags         branches
// @Produce      json
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Param        search    query string false "Name filter"
// @Success      200 {object} APIResponse[[]identity.BranchResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /branches [get]
func (h *BranchHandler) ListBranches(c *gin.Context) {
	var req ListBranchesRequest
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.branchService.List(c.Request.Context(), middleware.GetActor(c), shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}
