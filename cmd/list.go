package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcosUNLP/qonscious/internal/config"
	"github.com/marcosUNLP/qonscious/internal/store"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured checks and recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Println("Checks:")
			for _, c := range cfg.Checks {
				fmt.Printf("  - %s (threshold: %g)\n", c.Fom, c.Threshold)
			}

			db, err := store.Open(cfg.Results.DB, newLogger())
			if err != nil {
				return err
			}
			defer db.Close()
			runs, err := db.ListRuns(10)
			if err != nil {
				return err
			}
			fmt.Println("\nRecent runs:")
			for _, r := range runs {
				fmt.Printf("  - %s  %s  [%s]\n", r.RunID, r.CreatedAt.Format("2006-01-02 15:04"), r.Condition)
			}
			return nil
		},
	}
}
