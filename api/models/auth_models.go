// api/models/auth_models.go
package models

// --- Auth Request/Response Structs ---

// RegisterRequest defines the structure for the register request body,
// shared by user and admin registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterResponse confirms a newly created account.
type RegisterResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// LoginRequest defines the structure for the login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse defines the structure for the login response body
type LoginResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AdminSummary is the public view of an admin account.
type AdminSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AdminListResponse wraps the admin directory listing.
type AdminListResponse struct {
	Admins []AdminSummary `json:"admins"`
}
