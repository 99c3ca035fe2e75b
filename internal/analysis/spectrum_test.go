package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzePeriodicHistory(t *testing.T) {
	history := make([]float64, 64)
	for i := range history {
		history[i] = 5 + math.Sin(2*math.Pi*8*float64(i)/64)
	}

	s := Analyze(history)
	require.Len(t, s.Magnitudes, 32)
	assert.Equal(t, 64, s.N)
	assert.InDelta(t, 0, s.Magnitudes[0], 1e-9, "mean should be removed")

	bin, mag := s.Peak()
	assert.Equal(t, 8, bin)
	assert.InDelta(t, 32, mag, 1e-6)
	assert.InDelta(t, 8, s.Period(bin), 1e-12)
}

func TestAnalyzePadsToPowerOfTwo(t *testing.T) {
	history := make([]float64, 50)
	for i := range history {
		if i%2 == 0 {
			history[i] = 1
		}
	}
	s := Analyze(history)
	assert.Equal(t, 64, s.N)
	assert.Len(t, s.Magnitudes, 32)
}

func TestAnalyzeFlatHistory(t *testing.T) {
	s := Analyze([]float64{3, 3, 3, 3})
	bin, mag := s.Peak()
	assert.Equal(t, 0, bin)
	assert.InDelta(t, 0, mag, 1e-12)
	assert.Zero(t, s.Period(bin))

	empty := Analyze(nil)
	assert.Empty(t, empty.Magnitudes)
	bin, _ = empty.Peak()
	assert.Zero(t, bin)
}
