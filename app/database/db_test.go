package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joefazee/atlas/models"
)

func TestConfig(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		c := &Config{Host: "localhost", User: "atlas", Password: "secret", Database: "atlas"}
		assert.NoError(t, c.Validate())

		c.Password = ""
		assert.ErrorIs(t, c.Validate(), models.ErrDatabaseCredentialNotConfigured)

		assert.NoError(t, (&Config{Port: "5432"}).Validate())
	})

	t.Run("Configured", func(t *testing.T) {
		assert.False(t, (&Config{Port: "5432"}).Configured())
		assert.True(t, (&Config{Host: "db"}).Configured())
	})

	t.Run("URL", func(t *testing.T) {
		c := &Config{Host: "db", Port: "5432", User: "atlas", Password: "p@ss", Database: "atlas"}
		assert.Equal(t, "postgres://atlas:p%40ss@db:5432/atlas?sslmode=disable", c.URL())

		c.UseSSL = true
		assert.Contains(t, c.URL(), "sslmode=require")
	})

	t.Run("New without credentials", func(t *testing.T) {
		_, err := New(&Config{})
		assert.ErrorIs(t, err, models.ErrDatabaseCredentialNotConfigured)
	})

	t.Run("Migrate without credentials", func(t *testing.T) {
		assert.ErrorIs(t, Migrate(&Config{}), models.ErrDatabaseCredentialNotConfigured)
	})
}
