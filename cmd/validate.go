package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marcosUNLP/qonscious/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config and resolve its checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			checkList, err := config.BuildChecks(cfg)
			if err != nil {
				return err
			}

			fmt.Printf("Config OK: %d check(s)\n", len(checkList))
			for i, c := range cfg.Checks {
				fmt.Printf("  %d. %s (threshold: %g, qubits: %d)\n", i+1, c.Fom, c.Threshold, c.Qubits)
			}

			recordings, err := filepath.Glob(filepath.Join(cfg.Backend.ReplayDir, "*.json"))
			if err != nil {
				return err
			}
			fmt.Printf("Replay dir %s: %d recorded histogram(s)\n", cfg.Backend.ReplayDir, len(recordings))
			if len(recordings) == 0 {
				return fmt.Errorf("no recorded histograms in %s", cfg.Backend.ReplayDir)
			}
			return nil
		},
	}
}
