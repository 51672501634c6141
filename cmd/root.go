package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "qonscious",
		Short: "Quality-gated execution for quantum backends",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "qonscious.yaml", "config file path")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")
	root.AddCommand(newRunCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newValidateCmd())
	return root
}
