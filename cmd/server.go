package cmd

import (
	"context"
	"errors"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"tradein-estimator/internal/delivery/http"
	"tradein-estimator/internal/repository"
	"tradein-estimator/internal/service"
	"tradein-estimator/pkg/logger"
	"tradein-estimator/pkg/middleware"

	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the trade-in estimator API",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo, err := repository.NewRepository(ctx, appDep.cfg, os.DirFS(appDep.cfg.Historical.Dir), appDep.log, appDep.metrics)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	// Sources that fail only shrink the data set; the server still starts.
	if err := repo.HistoricalRepo.Load(ctx); err != nil {
		appDep.log.WarnContext(ctx, "Historical data not loaded", logger.ErrorField(err))
	}

	services := service.NewService(
		appDep.cfg,
		appDep.log,
		appDep.validator,
		repo,
		appDep.cache,
		appDep.notifier,
		appDep.metrics,
	)

	appDep.echo.Use(echoMiddleware.Recover())
	appDep.echo.Use(echoMiddleware.RequestID())
	appDep.echo.Use(echoMiddleware.BodyLimit(appDep.cfg.API.MaxBodySize))
	appDep.echo.Use(middleware.NewRateLimiterMiddleware(appDep.cfg.API))
	appDep.echo.Use(middleware.Session(appDep.log))

	httpHandler := http.NewHttpAPIHandler(
		appDep.echo,
		appDep.log,
		appDep.validator,
		services,
		repo.HistoricalRepo,
		appDep.metrics,
	)

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, httpNet.ErrServerClosed) {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	if err := apiServer.Stop(); err != nil {
		log.Fatalf("Failed to stop HTTP server: %v", err)
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}
