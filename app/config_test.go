package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/atlas/app/preferences"
	"github.com/joefazee/atlas/internal/nexus"
)

const testKey = "12345678901234567890123456789012"

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("TOKEN_SYMMETRIC_KEY", testKey)

		cfg, err := LoadConfig(nexus.WithOnlyEnvironment())
		require.NoError(t, err)
		assert.Equal(t, "localhost:8080", cfg.Addr())
		assert.Equal(t, "development", cfg.Env)
		assert.Equal(t, "memory", cfg.Cache.Backend)
		assert.Equal(t, preferences.BackendCache, cfg.Preferences.Backend)
		assert.Equal(t, "https://restcountries.com/v3.1", cfg.Provider.BaseURL)
		assert.False(t, cfg.DB.Configured())
	})

	t.Run("Missing token key", func(t *testing.T) {
		t.Setenv("TOKEN_SYMMETRIC_KEY", "")

		_, err := LoadConfig(nexus.WithOnlyEnvironment())
		var cfgErr *nexus.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, nexus.ErrCodeValidation, cfgErr.Code)
	})

	t.Run("Postgres backend without database", func(t *testing.T) {
		t.Setenv("TOKEN_SYMMETRIC_KEY", testKey)
		t.Setenv("PREFERENCE_BACKEND", "postgres")

		_, err := LoadConfig(nexus.WithOnlyEnvironment())
		var cfgErr *nexus.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, nexus.ErrCodeSelfCheck, cfgErr.Code)
	})

	t.Run("Partial database settings", func(t *testing.T) {
		t.Setenv("TOKEN_SYMMETRIC_KEY", testKey)
		t.Setenv("DB_HOST", "db")

		_, err := LoadConfig(nexus.WithOnlyEnvironment())
		assert.Error(t, err)
	})
}
