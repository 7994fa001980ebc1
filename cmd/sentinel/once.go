package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/newthinker/sentinel/internal/logger"
)

var onceForce bool

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single refresh cycle and print the dashboard as JSON",
	RunE:  runOnce,
}

func init() {
	onceCmd.Flags().BoolVarP(&onceForce, "force", "f", false, "run the analysis regardless of the trigger rules")
	rootCmd.AddCommand(onceCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if onceForce {
		rt.app.RequestRefresh()
	}
	d := rt.app.RunOnce(ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
