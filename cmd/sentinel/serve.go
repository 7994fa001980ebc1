package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/sentinel/internal/api"
	"github.com/newthinker/sentinel/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long:  "Run the refresh loop and serve the dashboard over HTTP and WebSocket.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Initialize logger
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	rt, err := buildRuntime(cfg, log)
	if err != nil {
		return err
	}

	log.Info("starting SENTINEL server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("session_id", rt.app.Session().ID),
	)

	apiCfg := api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		CORSOrigins: cfg.Server.CORSOrigins,
	}
	if cfg.Metrics.Enabled {
		apiCfg.MetricsPath = cfg.Metrics.Path
	}
	server, err := api.NewServer(apiCfg, api.Dependencies{
		App:     rt.app,
		Reports: rt.reports,
		Metrics: rt.metrics,
	}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	rt.app.AddPublisher(server.Hub())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- err
		}
	}()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := rt.app.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("refresh loop stopped", zap.Error(err))
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		log.Error("server error", zap.Error(serveErr))
		stop()
	}

	log.Info("shutting down SENTINEL server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	<-loopDone
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return serveErr
}
