package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// integrate sums the density over the range with a midpoint rule.
func integrate(d Density, lo float64, hi float64) float64 {
	const steps = 10000
	width := (hi - lo) / steps
	sum := 0.0
	for i := 0; i < steps; i++ {
		sum += d.At(lo+(float64(i)+0.5)*width) * width
	}
	return sum
}

func TestGaussianNormalization(t *testing.T) {
	// Truncation cuts a sizable tail here, so the renormalization matters.
	g, err := NewGaussian(5.0, 0.5, 4.8, 5.6)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, integrate(g, 4.8, 5.6), 1e-4)
	assert.Equal(t, 0.0, g.At(4.7))
	assert.Equal(t, 0.0, g.At(5.7))
}

func TestExponentialNormalization(t *testing.T) {
	e, err := NewExponential(2.0, 5.0, 5.6)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, integrate(e, 5.0, 5.6), 1e-4)
	assert.Equal(t, 0.0, e.At(4.9))

	// Falling shape
	assert.Greater(t, e.At(5.05), e.At(5.55))
}

func TestFlatDensity(t *testing.T) {
	f, err := NewFlat(0, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, f.At(2), 1e-12)
	assert.Equal(t, 0.0, f.At(5))
	assert.InDelta(t, 1.0, integrate(f, 0, 4), 1e-6)
}

func TestDensityInvalidParameters(t *testing.T) {
	_, err := NewGaussian(5.0, 0, 4.8, 5.6)
	assert.Error(t, err)
	_, err = NewGaussian(5.0, 0.1, 5.6, 4.8)
	assert.Error(t, err)
	_, err = NewExponential(-1, 5.0, 5.6)
	assert.Error(t, err)
	_, err = NewFlat(1, 1)
	assert.Error(t, err)
}

func TestEvalDensities(t *testing.T) {
	g, err := NewGaussian(testSigMean, testSigSigma, testFitLo, testFitHi)
	require.NoError(t, err)
	e, err := NewExponential(testBkgSlope, testFitLo, testFitHi)
	require.NoError(t, err)

	values := []float64{5.28, 5.1}
	p, err := EvalDensities(values, []Density{g, e})
	require.NoError(t, err)

	rows, cols := p.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, g.At(5.28), p.At(0, 0))
	assert.Equal(t, e.At(5.1), p.At(1, 1))

	_, err = EvalDensities(values, []Density{g})
	assert.Error(t, err)
	_, err = EvalDensities(nil, []Density{g, e})
	assert.Error(t, err)
}
