package api

import "time"

type RefreshResponse struct {
	AccessToken string    `json:"access_token"` // for non-cookie clients
	ExpiresAt   time.Time `json:"expires_at"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
