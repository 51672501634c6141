// Package report summarizes stored run history per figure of merit.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/marcosUNLP/qonscious/internal/store"
	"github.com/marcosUNLP/qonscious/results"
)

type FomSummary struct {
	Name        string  `json:"name"`
	Evaluations int     `json:"evaluations"`
	MeanScore   float64 `json:"mean_score"`
	BestScore   float64 `json:"best_score"`
}

type Summary struct {
	Runs           int          `json:"runs"`
	Passed         int          `json:"passed"`
	PassRate       float64      `json:"pass_rate"`
	FiguresOfMerit []FomSummary `json:"figures_of_merit"`
}

// Generate aggregates stored runs and writes a summary in the requested
// format ("table", "markdown" or "json").
func Generate(runs []store.RunRecord, format string, w io.Writer) error {
	summary := aggregate(runs)
	switch format {
	case "markdown":
		return writeMarkdown(summary, w)
	case "json":
		return writeJSON(summary, w)
	default:
		return writeTable(summary, w)
	}
}

func aggregate(runs []store.RunRecord) Summary {
	type accum struct {
		count int
		total float64
		best  float64
	}
	byFom := map[string]*accum{}
	summary := Summary{Runs: len(runs)}

	for _, r := range runs {
		if r.Condition == results.ConditionPass {
			summary.Passed++
		}
		for _, c := range r.Checks {
			a, ok := byFom[c.FigureOfMerit]
			if !ok {
				a = &accum{best: c.Score}
				byFom[c.FigureOfMerit] = a
			}
			a.count++
			a.total += c.Score
			if c.Score > a.best {
				a.best = c.Score
			}
		}
	}
	if summary.Runs > 0 {
		summary.PassRate = float64(summary.Passed) / float64(summary.Runs)
	}

	for name, a := range byFom {
		summary.FiguresOfMerit = append(summary.FiguresOfMerit, FomSummary{
			Name:        name,
			Evaluations: a.count,
			MeanScore:   a.total / float64(a.count),
			BestScore:   a.best,
		})
	}
	sort.Slice(summary.FiguresOfMerit, func(i, j int) bool {
		return summary.FiguresOfMerit[i].Name < summary.FiguresOfMerit[j].Name
	})
	return summary
}

func writeTable(s Summary, w io.Writer) error {
	fmt.Fprintf(w, "Runs: %d  Passed: %d (%.0f%%)\n\n", s.Runs, s.Passed, s.PassRate*100)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIGURE OF MERIT\tEVALUATIONS\tMEAN SCORE\tBEST SCORE")
	fmt.Fprintln(tw, strings.Repeat("-", 60))
	for _, f := range s.FiguresOfMerit {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\n", f.Name, f.Evaluations, f.MeanScore, f.BestScore)
	}
	return tw.Flush()
}

func writeMarkdown(s Summary, w io.Writer) error {
	fmt.Fprintf(w, "**Runs:** %d — **Passed:** %d (%.0f%%)\n\n", s.Runs, s.Passed, s.PassRate*100)
	fmt.Fprintln(w, "| Figure of Merit | Evaluations | Mean Score | Best Score |")
	fmt.Fprintln(w, "|---|---|---|---|")
	for _, f := range s.FiguresOfMerit {
		fmt.Fprintf(w, "| %s | %d | %.3f | %.3f |\n", f.Name, f.Evaluations, f.MeanScore, f.BestScore)
	}
	return nil
}

func writeJSON(s Summary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
