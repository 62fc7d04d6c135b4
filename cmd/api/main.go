package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/joefazee/atlas/app"
	"github.com/joefazee/atlas/app/api"
	"github.com/joefazee/atlas/app/clients"
	"github.com/joefazee/atlas/app/countries"
	"github.com/joefazee/atlas/app/database"
	apiDoc "github.com/joefazee/atlas/app/doc"
	"github.com/joefazee/atlas/app/preferences"
	_ "github.com/joefazee/atlas/docs"
	"github.com/joefazee/atlas/internal/cache"
	"github.com/joefazee/atlas/internal/deps"
	"github.com/joefazee/atlas/internal/logger"
	"github.com/joefazee/atlas/internal/router"
	"github.com/joefazee/atlas/internal/sanitizer"
	"github.com/joefazee/atlas/internal/security"
)

// @title Atlas API
// @version 1.0
// @description Country directory API: search, filter, sort and paginate countries, keep favorites and view details.
// @x-logo {"url": "https://go.dev/images/go-logo-white.svg", "altText": "Go API Logo"}

// @contact.name API Support Team

// @license.name MIT License
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the client token.
func main() {
	log := logger.NewZeroLogger(os.Stdout, logger.LevelInfo, logger.Fields{"service": "atlas-api"})

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal(err, map[string]interface{}{"stage": "config"})
	}
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var db *gorm.DB
	if cfg.DB.Configured() {
		if err := database.Migrate(&cfg.DB); err != nil {
			log.Fatal(err, map[string]interface{}{"stage": "migrate"})
		}
		db, err = database.New(&cfg.DB)
		if err != nil {
			log.Fatal(err, map[string]interface{}{"stage": "database"})
		}
	}

	cacheService, err := cache.NewCache[string](cfg.Cache.Backend, cfg.Cache.RedisOptions())
	if err != nil {
		log.Fatal(err, map[string]interface{}{"stage": "cache"})
	}

	tokenMaker, err := security.NewPasetoMaker(cfg.Clients.SymmetricKey)
	if err != nil {
		log.Fatal(err, map[string]interface{}{"stage": "token_maker"})
	}

	container := deps.NewContainer(db, tokenMaker, sanitizer.NewHTMLStripper(), log, cacheService)
	if db != nil {
		container.OnClose(func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
	}

	prefStore, err := preferences.InitRepositories(container, &cfg.Preferences)
	if err != nil {
		log.Fatal(err, map[string]interface{}{"stage": "preferences"})
	}

	countryService := countries.InitServices(container, countries.ServiceOptions{
		Provider:    countries.NewRESTProvider(cfg.Provider, nil),
		Preferences: preferences.Factory(prefStore, log),
	})

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), api.CorsMiddleware())
	r.NoRoute(api.NoRoute)

	mounter := router.NewMounter(container)
	mounter.Public(r).
		Mount(func(g *gin.RouterGroup, _ *deps.Container) { g.GET("/healthz", api.HealthCheck(cfg.Env)) }).
		Mount(clients.Mount(&cfg.Clients)).
		Mount(countries.MountPublic)
	mounter.Client(r, clients.Middleware(container)).
		Mount(countries.MountSession).
		Mount(preferences.Mount)
	apiDoc.Init(r, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go countries.Warm(ctx, countryService, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("starting atlas api", map[string]interface{}{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, map[string]interface{}{"stage": "listen"})
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, map[string]interface{}{"stage": "shutdown"})
	}
	if err := container.Close(); err != nil {
		log.Error(err, map[string]interface{}{"stage": "close"})
	}
}
