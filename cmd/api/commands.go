package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-tasks-api/backend/internal/config"
	"go-tasks-api/backend/internal/database"
	"go-tasks-api/backend/internal/logging"
	"go-tasks-api/backend/internal/repositories"
	"go-tasks-api/backend/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "api",
		Short:         "Tasks REST API server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to an optional .env file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), envFile)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the tasks table",
			RunE: func(_ *cobra.Command, _ []string) error {
				return runMigrate(envFile)
			},
		},
	)
	return root
}

func bootstrap(envFile string) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg), nil
}

func runMigrate(envFile string) error {
	cfg, logger, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	db, err := database.InitDB(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	logger.Info("tasks table migrated")
	return nil
}

func runServe(ctx context.Context, envFile string) error {
	cfg, logger, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.IsTest():
		gin.SetMode(gin.TestMode)
	}

	// DB接続はプロセス全体で1つだけ作成し、ルーターに渡す
	db, err := database.InitDB(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	routes.Version = version
	r := routes.SetupRouter(repositories.NewTaskRepository(db), cfg, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down server: %w", err)
	}
	return nil
}
