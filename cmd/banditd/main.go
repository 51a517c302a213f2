// Banditd is a multi-armed bandit A/B testing daemon.
//
// This binary starts the banditd HTTP server: experiments assign traffic to
// content variants, ingest reward observations, and adapt arm selection via
// Epsilon-Greedy, Thompson Sampling, or UCB1 policies.
//
// Configuration is loaded from ~/.config/banditd/config.yaml and BANDITD_*
// environment variables. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults
//	banditd
//
//	# Configure via environment
//	BANDITD_SERVER_PORT=8000 BANDITD_LOGGING_LEVEL=debug banditd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/banditd/internal/bandit"
	"github.com/fyrsmithlabs/banditd/internal/config"
	banditdhttp "github.com/fyrsmithlabs/banditd/internal/http"
	"github.com/fyrsmithlabs/banditd/internal/logging"
	"github.com/fyrsmithlabs/banditd/internal/store"
	"github.com/fyrsmithlabs/banditd/internal/tracking"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default ~/.config/banditd/config.yaml)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  banditd           Start the banditd daemon\n")
			fmt.Fprintf(os.Stderr, "  banditd version   Show version information\n")
			os.Exit(1)
		}
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("banditd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the banditd server and blocks until the context is cancelled.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Build logger
//  3. Build trackers (Prometheus metrics + event log)
//  4. Create registry and restore the last snapshot, if any
//  5. Start HTTP server and the periodic snapshot loop
//  6. On shutdown, stop the server and write a final snapshot
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	tracker := tracking.NewMulti(
		tracking.NewMetrics(),
		tracking.NewLog(logger),
	)

	registry := bandit.NewRegistry(tracker, logger)

	snapshots, err := store.New(cfg.Snapshot.Path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	snap, ok, err := snapshots.Load()
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if ok {
		if err := registry.Restore(snap); err != nil {
			return fmt.Errorf("failed to restore snapshot: %w", err)
		}
		logger.Info("restored experiments from snapshot",
			zap.Int("experiments", registry.Len()),
			zap.String("path", snapshots.Path()),
		)
	}

	server, err := banditdhttp.NewServer(registry, logger, &banditdhttp.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Periodic snapshots keep restart data loss bounded by the interval.
	if cfg.Snapshot.Interval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Snapshot.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := snapshots.Save(registry.Snapshot()); err != nil {
						logger.Warn("periodic snapshot failed", zap.Error(err))
					}
				}
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}

	if err := snapshots.Save(registry.Snapshot()); err != nil {
		logger.Error("final snapshot failed", zap.Error(err))
		return err
	}
	logger.Info("saved final snapshot",
		zap.Int("experiments", registry.Len()),
		zap.String("path", snapshots.Path()),
	)
	return nil
}
