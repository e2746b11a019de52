package dto

import "github.com/spec-kit/shift-scheduler/internal/domain"

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IdentityResponse is the authenticated caller projection.
type IdentityResponse struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// FromIdentity converts a resolved identity.
func FromIdentity(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  identity.Role,
	}
}
