package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dkotelnikov/go-todolist/internal/config"
	v1 "github.com/dkotelnikov/go-todolist/internal/delivery/http/v1"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	v1Handler := v1.New(
		globalLogger,
		globalProjectService,
		globalTaskService,
		globalAutocloseService,
	)
	router = router.Group("/api/v1")
	router.Use(v1.RequestIDMiddleware())

	projectsRouter := router.Group("/projects")
	projectsRouter.POST("", v1Handler.HandleCreateProject)
	projectsRouter.GET("", v1Handler.HandleListProjects)
	projectsRouter.GET("/:id", v1Handler.HandleGetProject)
	projectsRouter.PATCH("/:id", v1Handler.HandleUpdateProject)
	projectsRouter.DELETE("/:id", v1Handler.HandleDeleteProject)
	projectsRouter.GET("/:id/stats", v1Handler.HandleProjectStats)

	tasksRouter := router.Group("/tasks")
	tasksRouter.POST("", v1Handler.HandleCreateTask)
	tasksRouter.GET("", v1Handler.HandleListTasks)
	tasksRouter.GET("/:id", v1Handler.HandleGetTask)
	tasksRouter.PATCH("/:id", v1Handler.HandleUpdateTask)
	tasksRouter.PUT("/:id/status", v1Handler.HandleSetTaskStatus)
	tasksRouter.DELETE("/:id", v1Handler.HandleDeleteTask)

	router.GET("/stats", v1Handler.HandleAccountStats)
	router.POST("/autoclose", v1Handler.HandleAutoclose)
}
