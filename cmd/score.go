package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/marcosUNLP/qonscious/backend/replay"
	"github.com/marcosUNLP/qonscious/foms"
	"github.com/marcosUNLP/qonscious/internal/worker"
)

var (
	flagCountsGlob string
	flagQubits     int
	flagParallel   int
	flagTargets    []string
	flagLambda     float64
	flagMu         float64
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score recorded histograms offline",
	}
	cmd.PersistentFlags().StringVar(&flagCountsGlob, "counts", "", "recorded histogram file or glob (*.json)")
	cmd.PersistentFlags().IntVar(&flagParallel, "parallel", 1, "max files scored concurrently")
	cmd.MarkPersistentFlagRequired("counts")
	cmd.AddCommand(newScoreCHSHCmd())
	cmd.AddCommand(newScoreGroverCmd())
	return cmd
}

func newScoreCHSHCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chsh",
		Short: "Compute the packed CHSH score of recorded histograms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return scoreFiles(func(cf *replay.CountsFile) (map[string]any, error) {
				return foms.ParallelCHSHScores(cf.Counts, flagQubits)
			})
		},
	}
	cmd.Flags().IntVar(&flagQubits, "qubits", 2, "circuit width the histograms were recorded at")
	return cmd
}

func newScoreGroverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grover",
		Short: "Compute the Grover benchmark score of recorded histograms",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(flagTargets) == 0 {
				return fmt.Errorf("at least one --target bitstring is required")
			}
			return scoreFiles(func(cf *replay.CountsFile) (map[string]any, error) {
				return foms.GroverScore(cf.Counts, flagTargets, cf.TotalShots(), flagLambda, flagMu)
			})
		},
	}
	cmd.Flags().StringSliceVar(&flagTargets, "target", nil, "target bitstring (repeatable)")
	cmd.Flags().Float64Var(&flagLambda, "lambda", 1.0, "spread penalty weight")
	cmd.Flags().Float64Var(&flagMu, "mu", 1.0, "noise-floor multiplier")
	return cmd
}

// scoreFiles scores every file matching --counts with the given reducer,
// bounded by --parallel, and prints a path-keyed JSON object.
func scoreFiles(score func(*replay.CountsFile) (map[string]any, error)) error {
	paths, err := filepath.Glob(flagCountsGlob)
	if err != nil {
		return fmt.Errorf("listing counts files: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no counts files match %s", flagCountsGlob)
	}
	sort.Strings(paths)

	scored := make([]map[string]any, len(paths))
	jobs := make([]worker.Job, len(paths))
	for i, path := range paths {
		i, path := i, path
		jobs[i] = func() error {
			cf, err := replay.LoadCountsFile(path)
			if err != nil {
				return err
			}
			props, err := score(cf)
			if err != nil {
				return fmt.Errorf("scoring %s: %w", path, err)
			}
			scored[i] = props
			return nil
		}
	}
	if failed := worker.Failed(worker.RunPool(flagParallel, jobs)); len(failed) > 0 {
		return failed[0]
	}

	out := make(map[string]map[string]any, len(paths))
	for i, path := range paths {
		out[path] = scored[i]
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
