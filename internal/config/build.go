package config

import (
	"fmt"

	"github.com/marcosUNLP/qonscious/checks"
	"github.com/marcosUNLP/qonscious/foms"
	"github.com/marcosUNLP/qonscious/policies"
)

// BuildChecks maps validated check entries onto merit-compliance checks.
// Figure-of-merit constructors still perform their own validation, so a
// config that passed Load can still be rejected here (e.g. odd CHSH qubit
// counts).
func BuildChecks(cfg *Config) ([]checks.MeritComplianceCheck, error) {
	built := make([]checks.MeritComplianceCheck, 0, len(cfg.Checks))
	for i, c := range cfg.Checks {
		fom, err := buildFom(c)
		if err != nil {
			return nil, fmt.Errorf("check %d (%s): %w", i, c.Fom, err)
		}
		built = append(built, checks.MeritComplianceCheck{
			FigureOfMerit: fom,
			Decision:      policies.MinimumScore{Threshold: c.Threshold},
		})
	}
	return built, nil
}

func buildFom(c Check) (foms.FigureOfMerit, error) {
	switch c.Fom {
	case FomPackedCHSH:
		return foms.NewPackedCHSH(c.Qubits)
	case FomTrueCHSH:
		return foms.NewTrueCHSH(c.Qubits)
	case FomTiltedCHSH:
		return foms.NewTiltedCHSH(c.Eta)
	case FomGrover:
		return foms.NewGrover(foms.GroverConfig{
			NumQubits:  c.Qubits,
			NumTargets: c.NumTargets,
			Targets:    c.Targets,
			Lambda:     c.Lambda,
			Mu:         c.Mu,
			Seed:       c.Seed,
		})
	}
	return nil, fmt.Errorf("unknown fom %q", c.Fom)
}
