package main

import (
	"os"

	"github.com/spf13/cobra"

	// The session time zone must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "SENTINEL - US100 market sentiment dashboard",
	Long: `SENTINEL watches the US100 futures and USD/SEK quotes together with the
financial news wire, and asks an LLM for a traffic-light situation report
during the trading session.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
