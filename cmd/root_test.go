package cmd

import "testing"

func TestRootCmdSubcommands(t *testing.T) {
	root := NewRootCmd()
	want := []string{"run", "score", "list", "report", "validate"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
