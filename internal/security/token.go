package security

import (
	"time"
)

// TokenScopeClient marks tokens that identify a browsing client
const TokenScopeClient = "client"

// Maker makes a new token
type Maker interface {

	// CreateToken creates a new token for a client and duration
	CreateToken(clientID string, duration time.Duration, scope string) (string, *Payload, error)

	// VerifyToken checks if the token is valid or not
	VerifyToken(token string) (*Payload, error)
}
