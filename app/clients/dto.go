package clients

import "time"

// ClientResponse is returned when a client identity is issued
type ClientResponse struct {
	ClientID  string    `json:"client_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
