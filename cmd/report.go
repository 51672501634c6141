package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marcosUNLP/qonscious/internal/config"
	"github.com/marcosUNLP/qonscious/internal/report"
	"github.com/marcosUNLP/qonscious/internal/store"
)

var (
	flagFormat string
	flagLimit  int
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			db, err := store.Open(cfg.Results.DB, newLogger())
			if err != nil {
				return err
			}
			defer db.Close()
			runs, err := db.ListRuns(flagLimit)
			if err != nil {
				return err
			}
			return report.Generate(runs, flagFormat, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&flagFormat, "format", "table", "output format (table, markdown, json)")
	cmd.Flags().IntVar(&flagLimit, "limit", 50, "max runs to include")
	return cmd
}
