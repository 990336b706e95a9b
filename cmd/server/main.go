package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/home-digital/cloudee/internal/config"
	"github.com/home-digital/cloudee/internal/handlers"
	"github.com/home-digital/cloudee/internal/logging"
	"github.com/home-digital/cloudee/internal/metrics"
	customMiddleware "github.com/home-digital/cloudee/internal/middleware"
	"github.com/home-digital/cloudee/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Can't use structured logging yet
		panic("configuration error: " + err.Error())
	}

	if err := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}); err != nil {
		panic("logging init error: " + err.Error())
	}
	defer logging.Sync()

	authService := services.NewAuthService(cfg.JWTSecret)
	if !authService.Enabled() {
		logging.L().Warn("CLOUDEE_JWT_SECRET not set, API is unauthenticated")
	}

	e := newServer(services.NewClientFactory(cfg), authService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.L().Info("cloudee listening",
			logging.String("addr", cfg.ListenAddr),
			logging.String("nextcloud", cfg.Nextcloud.URL),
			logging.String("webdav", cfg.Webdav.URL),
		)
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Fatal("server failed", logging.Err(err))
		}
	}()

	<-ctx.Done()
	logging.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.L().Error("shutdown failed", logging.Err(err))
	}
}

func newServer(factory services.ClientFactory, authService *services.AuthService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Handlers
	usersHandler := handlers.NewUsersHandler(factory)
	groupsHandler := handlers.NewGroupsHandler(factory)
	sharesHandler := handlers.NewSharesHandler(factory)
	storageHandler := handlers.NewStorageHandler(factory)

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(logging.Middleware())
	e.Use(metrics.Middleware())
	e.Use(middleware.Recover())
	e.Use(customMiddleware.SecurityHeaders())
	// Apply auth middleware globally - it will skip public routes internally
	e.Use(customMiddleware.AuthMiddleware(authService))

	// Public Routes (auth middleware will skip these)
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api/cloudee")

	// Users
	api.GET("/users", usersHandler.ListUsers)
	api.POST("/user/create", usersHandler.CreateUser)
	api.POST("/user/rename", usersHandler.RenameUser)
	api.PUT("/user", usersHandler.UpdateUser)
	api.GET("/user/:userid", usersHandler.GetUser)
	api.DELETE("/user/:userid", usersHandler.DeleteUser)
	api.POST("/user/:userid/enable", usersHandler.EnableUser)
	api.POST("/user/:userid/disable", usersHandler.DisableUser)
	api.GET("/user/:userid/groups", usersHandler.GetUserGroups)

	// Groups
	api.POST("/group", groupsHandler.CreateGroup)
	api.DELETE("/group", groupsHandler.DeleteGroup)
	api.POST("/group/user", groupsHandler.AddUser)
	api.DELETE("/group/user", groupsHandler.RemoveUser)
	api.POST("/group/promote", groupsHandler.PromoteSubAdmin)
	api.POST("/group/demote", groupsHandler.DemoteSubAdmin)

	// Shares
	api.POST("/share/create-with-group", sharesHandler.CreateShareWithGroup)

	// Storage
	api.GET("/storage/folder", storageHandler.FolderContent)
	api.GET("/storage/download", storageHandler.Download)
	api.POST("/storage/archive", storageHandler.Archive)

	return e
}
