package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qonscious.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const validConfig = `
backend:
  replay_dir: testdata/recordings
  qubits: 4
shots: 1024
checks:
  - fom: packed-chsh
    threshold: 2.0
  - fom: grover
    threshold: 0.5
    qubits: 3
    targets: [2, 5]
results:
  db: runs.db
`

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.Qubits != 4 {
		t.Errorf("qubits = %d, want 4", cfg.Backend.Qubits)
	}
	if len(cfg.Checks) != 2 {
		t.Fatalf("checks = %d, want 2", len(cfg.Checks))
	}
	// CHSH width defaults to the minimal pair.
	if cfg.Checks[0].Qubits != 2 {
		t.Errorf("chsh qubits = %d, want 2", cfg.Checks[0].Qubits)
	}
	// Grover penalty weights default to 1.
	if cfg.Checks[1].Lambda != 1.0 || cfg.Checks[1].Mu != 1.0 {
		t.Errorf("lambda/mu = %v/%v, want 1/1", cfg.Checks[1].Lambda, cfg.Checks[1].Mu)
	}
	if cfg.Results.DB != "runs.db" {
		t.Errorf("db = %q", cfg.Results.DB)
	}
}

func TestLoadDefaultsDB(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
backend:
  replay_dir: testdata/recordings
  qubits: 2
checks:
  - fom: true-chsh
    threshold: 2.0
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Results.DB != "qonscious.db" {
		t.Errorf("db = %q, want qonscious.db", cfg.Results.DB)
	}
	if cfg.Checks[0].Fom != FomTrueCHSH {
		t.Errorf("fom = %q", cfg.Checks[0].Fom)
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	cases := map[string]string{
		"missing replay dir": `
backend:
  qubits: 2
checks:
  - fom: packed-chsh
`,
		"no checks": `
backend:
  replay_dir: recordings
  qubits: 2
`,
		"unknown fom": `
backend:
  replay_dir: recordings
  qubits: 2
checks:
  - fom: bell-state-tomography
`,
		"grover without targets": `
backend:
  replay_dir: recordings
  qubits: 2
checks:
  - fom: grover
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuildChecks(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	built, err := BuildChecks(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(built) != 2 {
		t.Fatalf("built = %d checks, want 2", len(built))
	}
	if got := built[0].FigureOfMerit.Name(); got != "packed-chsh" {
		t.Errorf("first fom = %q", got)
	}
	if got := built[1].FigureOfMerit.Name(); got != "grover" {
		t.Errorf("second fom = %q", got)
	}
}

func TestBuildChecksRejectsOddWidth(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
backend:
  replay_dir: recordings
  qubits: 3
checks:
  - fom: packed-chsh
    qubits: 3
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := BuildChecks(cfg); err == nil {
		t.Fatal("expected error for odd CHSH width")
	}
}
