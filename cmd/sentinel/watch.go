package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/sentinel/internal/logger"
	"github.com/newthinker/sentinel/internal/tui"
)

var watchLogFile string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the dashboard in the terminal",
	Long: `Run the refresh loop and render the dashboard in the terminal.
Press r to request a fresh analysis, q to quit.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "sentinel.log", "file receiving log output while the dashboard is on screen")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	log, err := logger.NewWithOptions(debug, logger.Options{OutputPaths: []string{watchLogFile}})
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	rt, err := buildRuntime(cfg, log)
	if err != nil {
		return err
	}

	feed := tui.NewFeed()
	rt.app.AddPublisher(feed)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := rt.app.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("refresh loop stopped", zap.Error(err))
		}
	}()

	err = tui.Run(ctx, rt.app.Latest(), feed, rt.app.RequestRefresh)
	cancel()
	<-loopDone
	feed.Close()
	return err
}
