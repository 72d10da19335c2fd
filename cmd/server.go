package cmd

import (
	"context"
	"fmt"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHttp "github.com/bernardocerejo/sentinel-criptobot/internal/delivery/http"
	deliveryTelegram "github.com/bernardocerejo/sentinel-criptobot/internal/delivery/telegram"
	"github.com/bernardocerejo/sentinel-criptobot/internal/repository"
	"github.com/bernardocerejo/sentinel-criptobot/internal/service"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/logger"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run sentinel-criptobot",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Missing required configuration is startup-fatal; nothing is served.
	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo, err := repository.NewRepository(appDep.db.DB, appDep.log)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	services := service.NewService(
		ctx,
		appDep.cfg,
		appDep.log,
		repo,
		appDep.cache,
		appDep.sender,
		appDep.location,
	)

	httpHandler := deliveryHttp.NewHttpAPIHandler(ctx, appDep.echo, services, repo)
	httpHandler.SetupRoutes()

	telegramHandler := deliveryTelegram.NewTelegramBotHandler(
		ctx,
		appDep.cfg,
		appDep.log,
		appDep.bot,
		appDep.sender,
		appDep.echo,
		services,
		repo,
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		appDep.log.Info("Starting HTTP server", logger.IntField("port", appDep.cfg.API.Port))
		if err := appDep.echo.Start(fmt.Sprintf(":%d", appDep.cfg.API.Port)); err != nil && err != httpNet.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		return services.SchedulerService.RunWeekly(groupCtx)
	})

	group.Go(func() error {
		appDep.sender.StartCleanupExpired(groupCtx, appDep.cfg.Cache.CleanupInterval, appDep.cfg.Cache.DefaultExpiration)
		return nil
	})

	telegramHandler.Start()
	services.SchedulerService.ArmStartup()

	// Wait for shutdown signal
	<-groupCtx.Done()
	appDep.log.Info("Shutting down gracefully...")

	telegramHandler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := appDep.echo.Shutdown(shutdownCtx); err != nil {
		appDep.log.Error("Error when stopping HTTP server", logger.ErrorField(err))
	}

	if err := group.Wait(); err != nil {
		appDep.log.Error("Background worker exited with error", logger.ErrorField(err))
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}
