package dto

import "time"

// TokenRequest payload for internal client login.
type TokenRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IdentityTokenRequest replaces the identity platform access token.
type IdentityTokenRequest struct {
	Token string `json:"token" validate:"required,min=8"`
}
