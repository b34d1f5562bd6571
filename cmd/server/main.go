package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LAMMedina/proyecto-sincronizacion/internal/api"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/archive"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/config"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/history"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/mailchimp"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/monday"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/pkg/logger"
	"github.com/LAMMedina/proyecto-sincronizacion/internal/sync"
)

// checkPortAvailable verifies the target port is free before anything else
// starts, so a stale process doesn't surface as a confusing bind error
// halfway through initialization.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %w", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(!cfg.Logging.DisableRedaction)

	if cfg.Monday.APIKey == "" {
		logger.Error("MONDAY_API_KEY is not set")
		os.Exit(1)
	}
	if cfg.Mailchimp.APIKey == "" {
		logger.Error("MAILCHIMP_API_KEY is not set")
		os.Exit(1)
	}

	if err := checkPortAvailable(cfg.Server.Host, cfg.Server.Port); err != nil {
		logger.Error("pre-flight check failed", "err", err.Error())
		os.Exit(1)
	}

	mondayClient := monday.NewClient(cfg.Monday)
	mailchimpClient := mailchimp.NewClient(cfg.Mailchimp)
	syncService := sync.NewService(mondayClient, mailchimpClient, cfg.Sync.PaceInterval())

	ctx := context.Background()

	var historyStore *history.Store
	if cfg.History.Enabled {
		historyStore, err = history.NewStore(cfg.History.RedisURL, cfg.History.MaxRuns)
		if err != nil {
			logger.Error("connecting run history store", "err", err.Error())
			os.Exit(1)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = historyStore.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Error("run history store unreachable", "err", err.Error())
			os.Exit(1)
		}
		logger.Info("run history enabled", "max_runs", fmt.Sprintf("%d", cfg.History.MaxRuns))
	} else {
		logger.Info("run history disabled")
	}

	var archiveStore *archive.S3Store
	if cfg.Archive.Enabled {
		archiveStore, err = archive.NewS3Store(ctx, cfg.Archive.S3Bucket, cfg.Archive.S3Region)
		if err != nil {
			logger.Error("initializing run archive", "err", err.Error())
			os.Exit(1)
		}
		logger.Info("run archive enabled", "bucket", cfg.Archive.S3Bucket)
	}

	var handlers *api.Handlers
	if archiveStore != nil {
		handlers = api.NewHandlers(syncService, historyStore, archiveStore)
	} else {
		handlers = api.NewHandlers(syncService, historyStore, nil)
	}
	server := api.NewServer(cfg.Server, handlers)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "err", err.Error())
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "err", err.Error())
			os.Exit(1)
		}
	}
}
