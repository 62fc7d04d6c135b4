package clients

import "time"

type Config struct {
	SymmetricKey  string        `env:"TOKEN_SYMMETRIC_KEY" validate:"required,len=32"`
	TokenDuration time.Duration `env:"CLIENT_TOKEN_DURATION" env-default:"720h"`
}
