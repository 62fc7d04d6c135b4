package countries

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/atlas/internal/deps"
	"github.com/joefazee/atlas/internal/logger"
)

const (
	ServiceKey = "country_service"
)

// MountPublic mounts the stateless country routes
func MountPublic(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	countriesGroup := r.Group("/countries")
	countriesGroup.GET("", handler.ListCountries)
	countriesGroup.GET("/regions", handler.GetRegions)
	countriesGroup.GET("/:code", handler.GetCountryDetail)
}

// MountSession mounts the per-client session routes; the group must carry the client middleware
func MountSession(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	sessionGroup := r.Group("/session")
	sessionGroup.GET("/view", handler.GetView)
	sessionGroup.PUT("/query", handler.UpdateQuery)
	sessionGroup.POST("/page", handler.ChangePage)
	sessionGroup.POST("/reset", handler.ResetSession)
	sessionGroup.GET("/favorites", handler.GetFavorites)
	sessionGroup.POST("/favorites/:code", handler.ToggleFavorite)
	sessionGroup.POST("/input", handler.SetInput)
	sessionGroup.GET("/suggestions", handler.GetSuggestions)
	sessionGroup.POST("/suggestions/select", handler.SelectSuggestion)
	sessionGroup.POST("/escape", handler.Escape)
	sessionGroup.GET("/modal", handler.GetModal)
	sessionGroup.POST("/modal/:code", handler.OpenModal)
	sessionGroup.DELETE("/modal", handler.CloseModal)
}

// InitServices builds the country service and registers it with the container
func InitServices(container *deps.Container, opts ServiceOptions) Service {
	if opts.Logger == nil {
		opts.Logger = container.Logger
	}
	svc := NewService(opts)
	container.RegisterService(ServiceKey, svc)
	return svc
}

// Warm loads the master list ahead of the first request. Failures are only logged.
func Warm(ctx context.Context, s Service, l logger.Logger) {
	if _, err := s.Master(ctx); err != nil {
		l.Warn("country list not preloaded", map[string]interface{}{"error": err.Error()})
	}
}

// createHandler creates a handler with all dependencies
func createHandler(container *deps.Container) *Handler {
	svc, err := deps.Service[Service](container, ServiceKey)
	if err != nil {
		panic(fmt.Sprintf("countries: %v", err))
	}
	return NewHandler(svc, container.Sanitizer, container.Logger)
}
