package dto

import "time"

// LoginRequest asks for an identity token for an email address. Delivery of
// the token (emailed sign-in link) is handled outside this service.
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// TokenResponse carries the issued identity token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IdentityResponse echoes the authenticated identity.
type IdentityResponse struct {
	Email string `json:"email"`
}
