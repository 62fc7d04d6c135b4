package app

import (
	"fmt"

	"github.com/joefazee/atlas/app/clients"
	"github.com/joefazee/atlas/app/countries"
	"github.com/joefazee/atlas/app/database"
	"github.com/joefazee/atlas/app/preferences"
	"github.com/joefazee/atlas/internal/cache"
	"github.com/joefazee/atlas/internal/nexus"
)

type Config struct {
	DB          database.Config
	Cache       cache.Config
	Provider    countries.ProviderConfig
	Preferences preferences.Config
	Clients     clients.Config

	AppHost  string `env:"APP_HOST" env-default:"localhost"`
	AppPort  string `env:"APP_PORT" env-default:"8080"`
	Env      string `env:"APP_ENV" env-default:"development" validate:"oneof=development staging production test"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

// Validate checks settings that span sections
func (c *Config) Validate() error {
	if c.Preferences.Backend == preferences.BackendPostgres && !c.DB.Configured() {
		return fmt.Errorf("PREFERENCE_BACKEND=%s needs DB_HOST, DB_USER, DB_PASSWORD and DB_NAME", preferences.BackendPostgres)
	}
	return nil
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

// LoadConfig loads the application configuration from environment variables or a config file.
func LoadConfig(opts ...nexus.LoaderOption) (*Config, error) {
	c := &Config{}
	err := nexus.NewLoader(opts...).Load(c)
	return c, err
}
