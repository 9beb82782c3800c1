package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"sntrack/internal/core/config"
	"sntrack/internal/core/container"
	"sntrack/internal/core/logger"
	"sntrack/internal/core/routes"
	"sntrack/internal/database"
	"sntrack/internal/database/migration"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.NewLogger(cfg.Env)
		defer log.Sync()

		return serve(cmd.Context(), cfg, log)
	},
}

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run migrations manually.",
	Long:  `Applies pending migrations, or reverts the last one with --down. Uses the embedded migrations unless --dir is given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.NewLogger(cfg.Env)
		defer log.Sync()

		migrationDir, _ := cmd.Flags().GetString("dir")
		rollback, _ := cmd.Flags().GetBool("down")

		if err := runMigrate(cfg, migrationDir, rollback, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		return nil
	},
}

func runMigrate(cfg *config.Config, migrationDir string, rollback bool, log *zap.Logger) error {
	if migrationDir == "" {
		if rollback {
			return database.RollbackMigration(cfg.DBDriver, cfg.DatabaseURL, log)
		}
		return database.RunMigrations(cfg.DBDriver, cfg.DatabaseURL, log)
	}

	abs, err := filepath.Abs(migrationDir)
	if err != nil {
		return err
	}
	source := "file://" + abs
	dbURL := database.MigrationURL(cfg.DBDriver, cfg.DatabaseURL)
	if rollback {
		return migration.Rollback(dbURL, source, log)
	}
	return migration.Migrate(dbURL, source, true, log)
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DBDriver, cfg.DatabaseURL, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	db, dialect, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("Connected to the database", zap.String("driver", cfg.DBDriver))

	c, err := container.NewAppContainer(ctx, cfg, db, dialect, log)
	if err != nil {
		return err
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.RegisterMiddleware(router, c, cfg.RequestTimeout)
	routes.RegisterUtilityRoutes(router, c)
	routes.RegisterPublicRoutes(router, c)

	server := &http.Server{
		Addr:              cfg.Host,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", cfg.Host))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:   "sntrack",
		Short: "Serial number tracking service",
		RunE:  ServeCmd.RunE,
	}
	MigrateCmd.Flags().String("dir", "", "Directory containing the migration files (defaults to the embedded set)")
	MigrateCmd.Flags().Bool("down", false, "Revert the last applied migration")
	rootCmd.AddCommand(ServeCmd, MigrateCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
