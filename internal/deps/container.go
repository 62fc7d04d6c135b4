package deps

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joefazee/atlas/internal/cache"
	"github.com/joefazee/atlas/internal/logger"
	"github.com/joefazee/atlas/internal/sanitizer"
	"github.com/joefazee/atlas/internal/security"
	"gorm.io/gorm"
)

// Container holds the shared dependencies handed to every module
type Container struct {
	// DB is nil when preferences are not kept in postgres
	DB         *gorm.DB
	TokenMaker security.Maker
	Sanitizer  sanitizer.HTMLStripperer
	Logger     logger.Logger
	Cache      cache.Cache[string]

	mu           sync.RWMutex
	repositories map[string]interface{}
	services     map[string]interface{}
	closers      []func() error
}

func NewContainer(db *gorm.DB, tokenMaker security.Maker, sanitizer sanitizer.HTMLStripperer, logger logger.Logger, cache cache.Cache[string]) *Container {
	return &Container{
		DB:           db,
		TokenMaker:   tokenMaker,
		Sanitizer:    sanitizer,
		Logger:       logger,
		Cache:        cache,
		repositories: make(map[string]interface{}),
		services:     make(map[string]interface{}),
	}
}

// RegisterRepository stores a repository with a key
func (c *Container) RegisterRepository(key string, repo interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repositories[key] = repo
}

// GetRepository retrieves a repository by key
func (c *Container) GetRepository(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.repositories[key]
}

// RegisterService stores a service with a key
func (c *Container) RegisterService(key string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[key] = service
}

// GetService retrieves a service by key
func (c *Container) GetService(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services[key]
}

// Repository returns the repository under key as T.
// It fails when nothing is registered or the type does not match.
func Repository[T any](c *Container, key string) (T, error) {
	return lookup[T]("repository", key, c.GetRepository(key))
}

// Service returns the service under key as T
func Service[T any](c *Container, key string) (T, error) {
	return lookup[T]("service", key, c.GetService(key))
}

func lookup[T any](kind, key string, v interface{}) (T, error) {
	var zero T
	if v == nil {
		return zero, fmt.Errorf("%s %q is not registered", kind, key)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s %q is %T, not %T", kind, key, v, zero)
	}
	return typed, nil
}

// OnClose registers fn to run when the container is closed.
// Closers run in reverse registration order.
func (c *Container) OnClose(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, fn)
}

// Close releases everything registered with OnClose and the cache
func (c *Container) Close() error {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	switch cc := c.Cache.(type) {
	case interface{ Close() error }:
		if err := cc.Close(); err != nil {
			errs = append(errs, err)
		}
	case interface{ Stop() }:
		cc.Stop()
	}
	return errors.Join(errs...)
}
