// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type IdentityResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	AccessScope     string    `json:"access_scope"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

// LoginResponse carries the access token only. The refresh token rides
// exclusively on the cookie.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int              `json:"expires_in"`
	User        IdentityResponse `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func ToIdentityResponse(identity Identity) IdentityResponse {
	return IdentityResponse{
		ID:              identity.ID,
		Username:        identity.Username,
		Email:           identity.Email,
		Role:            identity.Role.String(),
		AccessScope:     identity.AccessScope.String(),
		IsEmailVerified: identity.IsEmailVerified,
		CreatedAt:       identity.CreatedAt,
	}
}
