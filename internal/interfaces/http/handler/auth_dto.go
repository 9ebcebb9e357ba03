package handler

// =====================
// Auth Request DTOs
// =====================

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Branch   string `json:"branch" binding:"required,max=100" example:"shop-a"`
}

// =====================
// Branch Request DTOs
// =====================

// CreateBranchRequest represents the request body for creating a branch
type CreateBranchRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100" example:"Shop C"`
}

// ListBranchesRequest represents the query of the branch listing
type ListBranchesRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"max=100"`
}

// LogoutResponse confirms a logout
type LogoutResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}
