package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/partledger/internal/platform"
)

var (
	initDir      string
	initPrinters []string
)

// initCmd writes a workspace config and prepares the store.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a partledger.yaml workspace in the current directory",
	Long: `Create partledger.yaml with the ledger location, storage adapter and printer fleet.
With --git the ledger directory is also turned into a git repository and every
purchase becomes a commit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := initDir
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			dir = cwd
		}

		cfg := platform.DefaultConfig()
		flags := cmd.Flags()
		if flags.Changed("ledger") {
			cfg.Ledger = ledgerPath
		}
		if flags.Changed("adapter") {
			cfg.Adapter = adapterName
		}
		if flags.Changed("printers") {
			cfg.Printers = initPrinters
		}
		cfg.Versioned = versioned

		path := filepath.Join(dir, platform.ConfigFilename)
		if err := platform.WriteConfig(path, cfg); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		resolved, err := platform.LoadConfig(path)
		if err != nil {
			return err
		}
		opts := append(resolved.Options(), platform.WithAutoInit(true), platform.WithLogger(slog.Default()))
		if _, err := platform.New(cmd.Context(), resolved.Ledger, opts...); err != nil {
			return fmt.Errorf("failed to initialize ledger: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Initialized partledger workspace in", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initDir, "dir", "", "Workspace directory (default: working directory)")
	initCmd.Flags().StringSliceVar(&initPrinters, "printers", platform.DefaultPrinters, "Printer fleet")
}
