package dto

import "github.com/iho/authgate/internal/domain"

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries the refresh token being redeemed or revoked.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

// RefreshResponse carries the rotated token pair. The refresh token is
// always present because the server rotates on every redemption.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RoleResponse represents a role in API responses.
type RoleResponse struct {
	Name     string `json:"name"`
	IsSystem bool   `json:"is_system"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Role        RoleResponse `json:"role"`
	Permissions []string     `json:"permissions"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role: RoleResponse{
			Name:     u.Role.Name,
			IsSystem: u.Role.IsSystem,
		},
		Permissions: perms,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
