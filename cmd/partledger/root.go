package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose     bool
	ledgerPath  string
	adapterName string
	configPath  string
	versioned   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "partledger",
	Short: "Track consumable part purchases and cost-per-click for a printer fleet",
	Long: `partledger keeps an append-only ledger of printer part purchases
(who bought what, for how much, when it was replaced and how many clicks it printed)
and derives cost-per-click per purchase and per part.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&ledgerPath, "ledger", "l", "", "Ledger file or DSN (overrides config)")
	rootCmd.PersistentFlags().StringVar(&adapterName, "adapter", "", "Storage adapter: fs, sqlite, memory (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to partledger.yaml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().BoolVar(&versioned, "git", false, "Commit every change to git")
}
