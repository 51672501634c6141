package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/marcosUNLP/qonscious/backend"
	"github.com/marcosUNLP/qonscious/backend/replay"
	"github.com/marcosUNLP/qonscious/executor"
	"github.com/marcosUNLP/qonscious/foms"
	"github.com/marcosUNLP/qonscious/internal/config"
	"github.com/marcosUNLP/qonscious/internal/store"
	"github.com/marcosUNLP/qonscious/results"
)

var flagShots int

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured checks against the backend",
		RunE:  runChecks,
	}
	cmd.Flags().IntVar(&flagShots, "shots", 0, "override shot count for every check")
	return cmd
}

func runChecks(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cfg.Secrets.EnvFile != "" {
		if err := godotenv.Load(cfg.Secrets.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not load secrets: %v\n", err)
		}
	}

	log := newLogger()

	adapter, err := replay.Open(cfg.Backend.ReplayDir, cfg.Backend.Qubits)
	if err != nil {
		return fmt.Errorf("opening replay backend: %w", err)
	}

	checkList, err := config.BuildChecks(cfg)
	if err != nil {
		return err
	}

	shots := cfg.Shots
	if flagShots > 0 {
		shots = flagShots
	}

	onPass := func(ctx context.Context, _ backend.Adapter, fomResults []*results.FigureOfMeritResult) (any, error) {
		fmt.Println("All checks passed.")
		printScores(fomResults)
		return "pass", nil
	}
	onFail := func(ctx context.Context, _ backend.Adapter, fomResults []*results.FigureOfMeritResult) (any, error) {
		fmt.Println("One or more checks failed.")
		printScores(fomResults)
		return "fail", nil
	}

	ctx := context.Background()
	res, err := executor.RunConditionally(ctx, adapter, checkList, onPass, onFail,
		foms.Options{Shots: shots, Logger: log})
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Results.DB, log)
	if err != nil {
		return fmt.Errorf("opening results store: %w", err)
	}
	defer db.Close()
	if err := db.SaveRun(res, "replay"); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	fmt.Printf("\nRun %s: %s\n", res.RunID, res.Condition)
	return nil
}

func printScores(fomResults []*results.FigureOfMeritResult) {
	for _, r := range fomResults {
		score, _ := r.Score()
		fmt.Printf("  %s: %.4f\n", r.FigureOfMerit, score)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}
