package results_test

import (
	"testing"

	"github.com/marcosUNLP/qonscious/results"
)

func TestBitstringRoundTrip(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for v := 0; v < 1<<n; v++ {
			s := results.FormatBitstring(v, n)
			if len(s) != n {
				t.Fatalf("FormatBitstring(%d, %d) = %q, want width %d", v, n, s, n)
			}
			got, err := results.ParseBitstring(s)
			if err != nil {
				t.Fatalf("ParseBitstring(%q): %v", s, err)
			}
			if got != v {
				t.Errorf("round trip %d -> %q -> %d", v, s, got)
			}
		}
	}
}

func TestParseBitstringRejectsGarbage(t *testing.T) {
	if _, err := results.ParseBitstring("01x1"); err == nil {
		t.Error("expected error for non-binary string")
	}
}

func TestReverseBits(t *testing.T) {
	cases := map[string]string{
		"":     "",
		"0":    "0",
		"01":   "10",
		"0011": "1100",
	}
	for in, want := range cases {
		if got := results.ReverseBits(in); got != want {
			t.Errorf("ReverseBits(%q) = %q, want %q", in, got, want)
		}
	}
	if got := results.ReverseBits(results.ReverseBits("010110")); got != "010110" {
		t.Errorf("double reverse not identity: %q", got)
	}
}
