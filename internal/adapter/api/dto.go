package api

import "github.com/iho/authgate/internal/domain"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         userPayload `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refreshResponse carries the new access token. A refresh token is present
// only when the backend rotates refresh tokens; if present it is
// authoritative.
type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type rolePayload struct {
	Name     string `json:"name"`
	IsSystem bool   `json:"is_system"`
}

type userPayload struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Role        rolePayload `json:"role"`
	Permissions []string    `json:"permissions"`
}

func (p userPayload) toDomain() *domain.User {
	return &domain.User{
		ID:          p.ID,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Role:        domain.Role{Name: p.Role.Name, IsSystem: p.Role.IsSystem},
		Permissions: p.Permissions,
	}
}
