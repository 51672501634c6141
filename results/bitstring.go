package results

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatBitstring renders t as a zero-padded big-endian bitstring of width
// bits, the conventional key format for measurement histograms.
func FormatBitstring(t int, width int) string {
	return fmt.Sprintf("%0*b", width, t)
}

// ParseBitstring recovers the integer a bitstring was formatted from.
func ParseBitstring(s string) (int, error) {
	v, err := strconv.ParseInt(s, 2, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing bitstring %q: %w", s, err)
	}
	return int(v), nil
}

// ReverseBits converts between the big-endian order histograms use (most
// significant qubit first) and the little-endian order qubit indexing
// expects. Applying it twice is the identity.
func ReverseBits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := len(s) - 1; i >= 0; i-- {
		b.WriteByte(s[i])
	}
	return b.String()
}
