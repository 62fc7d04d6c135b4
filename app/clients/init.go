package clients

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/atlas/internal/deps"
)

// Mount returns a MountFunc for the public client registration route
func Mount(config *Config) func(*gin.RouterGroup, *deps.Container) {
	return func(r *gin.RouterGroup, container *deps.Container) {
		handler := NewHandler(container.TokenMaker, config, container.Logger)
		r.POST("/clients", handler.CreateClient)
	}
}

// Middleware returns the client middleware bound to the container's token maker
func Middleware(container *deps.Container) gin.HandlerFunc {
	return ClientMiddleware(container.TokenMaker)
}
