package preferences

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/atlas/internal/deps"
)

const (
	StoreKey = "preference_store"

	BackendPostgres = "postgres"
	BackendCache    = "cache"
)

// Config selects where preferences live
type Config struct {
	Backend  string        `env:"PREFERENCE_BACKEND" env-default:"cache" validate:"oneof=postgres cache"`
	CacheTTL time.Duration `env:"PREFERENCE_CACHE_TTL" env-default:"24h"`
}

// InitRepositories builds the ClientStore named by cfg and registers it
func InitRepositories(container *deps.Container, cfg *Config) (ClientStore, error) {
	var store ClientStore
	switch cfg.Backend {
	case BackendPostgres:
		if container.DB == nil {
			return nil, fmt.Errorf("preferences: %s backend needs a database", BackendPostgres)
		}
		store = NewCachedStore(NewRepository(container.DB), container.Cache, cfg.CacheTTL)
	case BackendCache, "":
		store = NewCacheStore(container.Cache, 0)
	default:
		return nil, fmt.Errorf("preferences: unknown backend %q", cfg.Backend)
	}

	container.RegisterRepository(StoreKey, store)
	return store, nil
}

// Mount mounts preference routes; the group must carry the client middleware
func Mount(r *gin.RouterGroup, container *deps.Container) {
	store, err := deps.Repository[ClientStore](container, StoreKey)
	if err != nil {
		panic(fmt.Sprintf("preferences: %v", err))
	}
	handler := NewHandler(store, container.Logger)

	prefsGroup := r.Group("/preferences")
	prefsGroup.GET("", handler.GetPreferences)
	prefsGroup.DELETE("", handler.ClearPreferences)
	prefsGroup.GET("/theme", handler.GetTheme)
	prefsGroup.PUT("/theme", handler.SetTheme)
	prefsGroup.POST("/theme/toggle", handler.ToggleTheme)
	prefsGroup.GET("/sort", handler.GetSort)
	prefsGroup.PUT("/sort", handler.SetSort)
}
