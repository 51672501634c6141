package foms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairCorrelationExtremes(t *testing.T) {
	assert.Equal(t, 1.0, PairCorrelation(map[string]int{"00": 400, "11": 600}))
	assert.Equal(t, -1.0, PairCorrelation(map[string]int{"01": 300, "10": 700}))
}

func TestPairCorrelationUniform(t *testing.T) {
	counts := map[string]int{"00": 250, "01": 250, "10": 250, "11": 250}
	assert.Equal(t, 0.0, PairCorrelation(counts))
}

func TestPairCorrelationEmptyHistogram(t *testing.T) {
	assert.Equal(t, 0.0, PairCorrelation(map[string]int{}))
	assert.Equal(t, 0.0, PairCorrelation(map[string]int{"00": 0, "11": 0}))
}

func TestCHSHFromSettings(t *testing.T) {
	assert.Equal(t, 2.0, CHSHFromSettings([4]float64{1, 1, 1, 1}))
	assert.Equal(t, 4.0, CHSHFromSettings([4]float64{1, 1, 1, -1}))
}

func TestPairJointCountsLittleEndian(t *testing.T) {
	// Big-endian "0111" reversed is "1110": pair 0 reads bits (0,1) = "11",
	// pair 1 reads bits (2,3) = "10".
	pairs := pairJointCounts(map[string]int{"0111": 5}, 2)
	assert.Equal(t, map[string]int{"11": 5}, pairs[0])
	assert.Equal(t, map[string]int{"10": 5}, pairs[1])
}
