package foms

import (
	"math"

	"github.com/marcosUNLP/qonscious/results"
)

// The four CHSH measurement settings, realized as rotations of the second
// qubit of each Bell pair. Setting index s corresponds to the correlation
// E<s> in the canonical combination S = E00 + E01 + E10 - E11.
var settingAngles = [4]float64{-math.Pi / 4, math.Pi / 4, -math.Pi / 2, math.Pi / 2}

var settingLabels = [4]string{"E00", "E01", "E10", "E11"}

// PairCorrelation computes E = (n00 + n11 - n01 - n10) / total for a joint
// two-bit outcome histogram. An empty histogram has correlation 0.
func PairCorrelation(counts map[string]int) float64 {
	total := 0
	signed := 0
	for outcome, n := range counts {
		total += n
		if outcome == "00" || outcome == "11" {
			signed += n
		} else {
			signed -= n
		}
	}
	if total == 0 {
		return 0
	}
	return float64(signed) / float64(total)
}

// CHSHFromSettings combines the four setting correlations into the CHSH
// value S = E00 + E01 + E10 - E11. |S| <= 2 classically; quantum mechanics
// reaches 2*sqrt(2).
func CHSHFromSettings(e [4]float64) float64 {
	return e[0] + e[1] + e[2] - e[3]
}

// pairJointCounts splits a full-register histogram into per-pair joint
// outcome histograms. Bitstrings arrive most-significant-qubit first, so
// they are reversed to little-endian before qubits (2i, 2i+1) are paired.
func pairJointCounts(counts map[string]int, numPairs int) []map[string]int {
	pairs := make([]map[string]int, numPairs)
	for i := range pairs {
		pairs[i] = make(map[string]int, 4)
	}
	for bitstring, n := range counts {
		bits := results.ReverseBits(bitstring)
		for i := 0; i < numPairs; i++ {
			outcome := string([]byte{bits[2*i], bits[2*i+1]})
			pairs[i][outcome] += n
		}
	}
	return pairs
}
