// Package config loads and validates the YAML suite configuration for the
// qonscious CLI: which backend recording to replay, which merit-compliance
// checks to run, and where to keep run history.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend Backend `yaml:"backend"`
	Shots   int     `yaml:"shots"`
	Checks  []Check `yaml:"checks"`
	Results Results `yaml:"results"`
	Secrets Secrets `yaml:"secrets"`
}

type Backend struct {
	// ReplayDir holds recorded histograms (*.json) served in order.
	ReplayDir string `yaml:"replay_dir"`
	Qubits    int    `yaml:"qubits"`
}

// Check configures one merit-compliance check. Fom selects the figure of
// merit; the remaining fields apply to the variants that use them.
type Check struct {
	Fom       string  `yaml:"fom"`
	Threshold float64 `yaml:"threshold"`

	// Circuit width. CHSH variants require an even count; grover treats
	// zero as "infer from the targets".
	Qubits int `yaml:"qubits"`

	// Tilted CHSH.
	Eta float64 `yaml:"eta"`

	// Grover benchmark.
	NumTargets int     `yaml:"num_targets"`
	Targets    []int   `yaml:"targets"`
	Lambda     float64 `yaml:"lambda"`
	Mu         float64 `yaml:"mu"`
	Seed       int64   `yaml:"seed"`
}

type Results struct {
	DB string `yaml:"db"`
}

type Secrets struct {
	EnvFile string `yaml:"env_file"`
}

// FoM names accepted in check entries.
const (
	FomPackedCHSH = "packed-chsh"
	FomTrueCHSH   = "true-chsh"
	FomGrover     = "grover"
	FomTiltedCHSH = "tilted-chsh"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Backend.ReplayDir == "" {
		return fmt.Errorf("backend.replay_dir is required")
	}
	if cfg.Backend.Qubits < 1 {
		return fmt.Errorf("backend.qubits must be at least 1")
	}
	if len(cfg.Checks) == 0 {
		return fmt.Errorf("no checks defined")
	}
	for i := range cfg.Checks {
		c := &cfg.Checks[i]
		switch c.Fom {
		case FomPackedCHSH, FomTrueCHSH:
			if c.Qubits == 0 {
				c.Qubits = 2
			}
		case FomTiltedCHSH:
			if c.Eta == 0 {
				c.Eta = 1.0
			}
		case FomGrover:
			if c.NumTargets == 0 && len(c.Targets) == 0 {
				return fmt.Errorf("check %d: grover needs num_targets or targets", i)
			}
			if c.Lambda == 0 {
				c.Lambda = 1.0
			}
			if c.Mu == 0 {
				c.Mu = 1.0
			}
		case "":
			return fmt.Errorf("check %d: fom is required", i)
		default:
			return fmt.Errorf("check %d: unknown fom %q", i, c.Fom)
		}
	}
	if cfg.Results.DB == "" {
		cfg.Results.DB = "qonscious.db"
	}
	return nil
}
