package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/bioof-backend/internal/app"
	"github.com/yungbote/bioof-backend/internal/observability"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "bioof",
		Short:        "BioOF polyglot gene data API",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Optional YAML config file (env vars override it)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bioof v%s (%s)\n", version, commit)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create tables, the vector index and document indexes",
		RunE:  runMigrate,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, log, shutdownOTel, err := bootstrap(ctx, cmd)
	if err != nil {
		return err
	}
	defer log.Sync()
	defer a.Close()
	defer func() { _ = shutdownOTel(context.Background()) }()

	if err := a.Run(ctx); err != nil {
		log.Error("Server exited", "error", err)
		return err
	}
	log.Info("Server stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, log, shutdownOTel, err := bootstrap(ctx, cmd)
	if err != nil {
		return err
	}
	defer log.Sync()
	defer a.Close()
	defer func() { _ = shutdownOTel(context.Background()) }()

	if err := a.Migrate(ctx); err != nil {
		log.Error("Migration failed", "error", err)
		return err
	}
	return nil
}

func bootstrap(ctx context.Context, cmd *cobra.Command) (*app.App, *logger.Logger, func(context.Context) error, error) {
	bootLog, err := logger.New(envOr("LOG_MODE", "development"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := app.LoadConfig(bootLog, path)
	if err != nil {
		bootLog.Error("Config invalid", "error", err)
		return nil, nil, nil, err
	}

	log := bootLog
	if cfg.LogMode != "" {
		if l, err := logger.New(cfg.LogMode); err == nil {
			log = l
		}
	}

	shutdownOTel := observability.InitOTel(ctx, log, cfg.Otel)

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error("App init failed", "error", err)
		_ = shutdownOTel(context.Background())
		return nil, nil, nil, err
	}
	return a, log, shutdownOTel, nil
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
