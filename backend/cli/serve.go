package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"university/backend/metrics"
	"university/backend/routes"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, logger, svc, err := bootstrap()
	if err != nil {
		return err
	}

	app := routes.NewApp(logger)
	routes.SetupRoutes(app, svc, cfg, logger, metrics.New())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
	}()

	logger.Info("University Management System API is running", "port", cfg.ServerPort, "storage", cfg.StorageDriver)
	return app.Listen(":" + cfg.ServerPort)
}
