package dto

import "time"

// TokenRequest payload for caller token issuance.
type TokenRequest struct {
	CallerID string `json:"caller_id"`
}

// TokenResponse carries the issued JWT.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
