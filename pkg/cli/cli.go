// Package cli builds the service command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cliptube/cliptube/pkg/auth"
	"github.com/cliptube/cliptube/pkg/config"
	"github.com/cliptube/cliptube/pkg/observability/logger"
	"github.com/cliptube/cliptube/pkg/observability/metrics"
	"github.com/cliptube/cliptube/pkg/server"
	"github.com/cliptube/cliptube/pkg/store/mongodb"
	"github.com/cliptube/cliptube/pkg/version"
)

const (
	serviceName = "cliptube"
	envPrefix   = "CLIPTUBE"
)

// NewRootCommand creates the cliptube CLI with serve, version and
// config validate subcommands. Running the root command serves.
func NewRootCommand() *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   serviceName,
		Short: "Content platform backend: video, comment and tweet feeds plus playlists",
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config-file", "c", "", "config file path")

	loadConfig := func() (*config.Config, logger.Logger, error) {
		cfg, err := config.NewViperLoader(cfgPath, envPrefix).Load()
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}

		level, err := logger.ParseLogLevel(cfg.Log.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
		format, err := logger.ParseLogFormat(cfg.Log.Format)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log format: %w", err)
		}
		log, err := logger.NewZapLogger(logger.Config{Level: level, Format: format})
		if err != nil {
			return nil, nil, fmt.Errorf("create logger: %w", err)
		}
		return cfg, log, nil
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, log)
		},
	}
	rootCmd.AddCommand(serveCmd)
	rootCmd.RunE = serveCmd.RunE

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Current(serviceName)
			fmt.Printf("Service:    %s\n", info.Service)
			fmt.Printf("Version:    %s\n", info.Version)
			fmt.Printf("Commit:     %s\n", info.Commit)
			fmt.Printf("Build Time: %s\n", info.BuildTime)
		},
	})

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := loadConfig(); err != nil {
				return err
			}
			fmt.Println("configuration is valid")
			return nil
		},
	})
	rootCmd.AddCommand(configCmd)

	return rootCmd
}

func runServe(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	log.Info("starting service",
		"service", cfg.Service.Name,
		"environment", cfg.Service.Environment,
		"version", version.Current(cfg.Service.Name).Version,
	)

	store, err := mongodb.NewAdapter(mongodb.Config{
		URL:              cfg.MongoDB.URL,
		Database:         cfg.MongoDB.Database,
		ConnectTimeout:   cfg.MongoDB.ConnectTimeout,
		OperationTimeout: cfg.MongoDB.OperationTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("connect to store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error("failed to close store", "error", closeErr)
		}
	}()

	validator, err := auth.NewHMACValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log)
	if err != nil {
		return fmt.Errorf("create token validator: %w", err)
	}

	router := server.BuildRouter(server.Deps{
		Config:    cfg,
		Logger:    log,
		Store:     store,
		Validator: validator,
		Metrics:   metrics.NewRegistry(),
	})

	srv := server.NewServer(server.Config{
		Host:            cfg.HTTP.Host,
		Port:            cfg.HTTP.Port,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, router, log)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(runCtx)
}

// Execute runs the command and exits with an appropriate code.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
