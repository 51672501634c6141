package results

import "fmt"

// ResultFormatError reports a histogram that is malformed relative to the
// expectations of the program that produced it: missing counts, mixed or
// wrong bitstring widths, negative counts, or a zero total where a
// denominator is required.
type ResultFormatError struct {
	Reason string
}

func (e *ResultFormatError) Error() string {
	return "malformed result: " + e.Reason
}

// ValidateCounts checks that a histogram uses a uniform bitstring width and
// non-negative counts. wantWidth > 0 additionally pins the width; wantShots
// > 0 additionally requires the counts to sum to it.
func ValidateCounts(counts map[string]int, wantWidth, wantShots int) error {
	if len(counts) == 0 {
		return &ResultFormatError{Reason: "empty counts"}
	}
	width := wantWidth
	total := 0
	for bits, n := range counts {
		if n < 0 {
			return &ResultFormatError{Reason: fmt.Sprintf("negative count %d for %q", n, bits)}
		}
		if width == 0 {
			width = len(bits)
		}
		if len(bits) != width {
			return &ResultFormatError{
				Reason: fmt.Sprintf("bitstring %q has width %d, want %d", bits, len(bits), width),
			}
		}
		for i := 0; i < len(bits); i++ {
			if bits[i] != '0' && bits[i] != '1' {
				return &ResultFormatError{Reason: fmt.Sprintf("bitstring %q is not binary", bits)}
			}
		}
		total += n
	}
	if wantShots > 0 && total != wantShots {
		return &ResultFormatError{
			Reason: fmt.Sprintf("counts sum to %d, want %d shots", total, wantShots),
		}
	}
	return nil
}
