package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reddyfit/bodyscan/internal/cache"
	"github.com/reddyfit/bodyscan/internal/server"
	"github.com/reddyfit/bodyscan/internal/storage"
	"github.com/reddyfit/bodyscan/internal/vision"
	"github.com/reddyfit/bodyscan/internal/whoop"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the BodyScan HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "override the configured listen port")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var cacheClient *cache.Client
	if cfg.Redis.Enabled {
		cacheClient, err = cache.NewClient(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, running without cache")
		} else {
			defer cacheClient.Close()
		}
	}

	var visionAnalyzer *vision.Analyzer
	if cfg.Vision.OpenAIKey != "" {
		visionAnalyzer = vision.NewAnalyzer(cfg.Vision.OpenAIKey, logger,
			vision.WithModel(cfg.Vision.OpenAIModel),
			vision.WithMaxRetries(cfg.Vision.MaxRetries),
			vision.WithRateLimit(cfg.Vision.RateLimit, 1),
		)
	} else {
		logger.Warn("No OpenAI key configured, photo analysis disabled")
	}

	whoopClient := newWhoopClient()

	srv := server.New(cfg, store, cacheClient, visionAnalyzer, whoopClient, logger)
	return srv.Start(ctx)
}

// openStore opens the configured backend, postgres or sqlite
func openStore() (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		return storage.NewPostgresStore(cfg.Storage.PostgresDSN, logger)
	case "sqlite":
		return storage.NewSQLiteStore(cfg.Storage.LocalPath, logger)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}

func newWhoopClient() *whoop.Client {
	token := cfg.Whoop.AccessToken
	if cfg.Whoop.UseMock {
		token = ""
	}
	return whoop.NewClient(token, logger)
}
