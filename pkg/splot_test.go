package analysis

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFitLo    = 5.0
	testFitHi    = 5.6
	testSigMean  = 5.28
	testSigSigma = 0.03
	testBkgSlope = 2.0
)

// sampleMixture draws a deterministic signal+background sample of the
// discriminating variable, truncated to the fit range by rejection.
func sampleMixture(nSig int, nBkg int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, 0, nSig+nBkg)
	for len(values) < nSig {
		x := testSigMean + testSigSigma*rng.NormFloat64()
		if x >= testFitLo && x <= testFitHi {
			values = append(values, x)
		}
	}
	for len(values) < nSig+nBkg {
		x := testFitLo + rng.ExpFloat64()/testBkgSlope
		if x >= testFitLo && x <= testFitHi {
			values = append(values, x)
		}
	}
	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	return values
}

func TestSWeightsRecoverYields(t *testing.T) {
	values := sampleMixture(2000, 3000, 17)

	signal, err := NewGaussian(testSigMean, testSigSigma, testFitLo, testFitHi)
	require.NoError(t, err)
	background, err := NewExponential(testBkgSlope, testFitLo, testFitHi)
	require.NoError(t, err)
	densities, err := EvalDensities(values, []Density{signal, background})
	require.NoError(t, err)

	yields, err := FitYields(densities)
	require.NoError(t, err)
	assert.InEpsilon(t, 2000.0, yields[0], 0.1)
	assert.InEpsilon(t, 3000.0, yields[1], 0.1)

	sweights, err := ComputeSWeights(densities, yields)
	require.NoError(t, err)

	// Summing the weights of a class over all events recovers its yield.
	sums := sweights.YieldSums()
	assert.InEpsilon(t, yields[0], sums[0], 0.01)
	assert.InEpsilon(t, yields[1], sums[1], 0.01)

	// The weight sum over everything equals the sample size.
	total := sums[0] + sums[1]
	assert.InEpsilon(t, float64(len(values)), total, 0.01)

	// Yield uncertainties are at least Poisson.
	uncertainties := sweights.YieldErrors()
	assert.Greater(t, uncertainties[0], 0.0)
	assert.Greater(t, uncertainties[1], 0.0)
}

func TestSWeightsScaleInvariance(t *testing.T) {
	values := sampleMixture(500, 700, 3)

	signal, err := NewGaussian(testSigMean, testSigSigma, testFitLo, testFitHi)
	require.NoError(t, err)
	background, err := NewExponential(testBkgSlope, testFitLo, testFitHi)
	require.NoError(t, err)
	densities, err := EvalDensities(values, []Density{signal, background})
	require.NoError(t, err)

	yields := []float64{500, 700}
	reference, err := ComputeSWeights(densities, yields)
	require.NoError(t, err)

	// Rescale every event's density values by a positive per-event factor.
	rng := rand.New(rand.NewSource(5))
	nEvents, nClasses := densities.Dims()
	for e := 0; e < nEvents; e++ {
		factor := 0.5 + rng.Float64()*10
		for k := 0; k < nClasses; k++ {
			densities.Set(e, k, densities.At(e, k)*factor)
		}
	}
	rescaled, err := ComputeSWeights(densities, yields)
	require.NoError(t, err)

	for e := 0; e < nEvents; e++ {
		for k := 0; k < nClasses; k++ {
			assert.InDelta(t, reference.Weights.At(e, k), rescaled.Weights.At(e, k), 1e-9)
		}
	}
}

func TestSWeightsSingularSystem(t *testing.T) {
	values := sampleMixture(100, 100, 11)

	// Two identical densities are linearly dependent over any sample.
	flat1, err := NewFlat(testFitLo, testFitHi)
	require.NoError(t, err)
	flat2, err := NewFlat(testFitLo, testFitHi)
	require.NoError(t, err)
	densities, err := EvalDensities(values, []Density{flat1, flat2})
	require.NoError(t, err)

	_, err = ComputeSWeights(densities, []float64{100, 100})
	var singular *ErrSingularSystem
	require.Error(t, err)
	assert.True(t, errors.As(err, &singular))
}

func TestSWeightsEmptyDensity(t *testing.T) {
	// One event outside the fit range has zero density for every class.
	values := []float64{5.2, 5.3, 7.5}

	signal, err := NewGaussian(testSigMean, testSigSigma, testFitLo, testFitHi)
	require.NoError(t, err)
	background, err := NewExponential(testBkgSlope, testFitLo, testFitHi)
	require.NoError(t, err)
	densities, err := EvalDensities(values, []Density{signal, background})
	require.NoError(t, err)

	_, err = ComputeSWeights(densities, []float64{2, 1})
	var empty *ErrEmptyDensity
	require.Error(t, err)
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, 2, empty.Event)
}

func TestSWeightsYieldsMismatch(t *testing.T) {
	values := sampleMixture(50, 50, 7)

	signal, err := NewGaussian(testSigMean, testSigSigma, testFitLo, testFitHi)
	require.NoError(t, err)
	background, err := NewExponential(testBkgSlope, testFitLo, testFitHi)
	require.NoError(t, err)
	densities, err := EvalDensities(values, []Density{signal, background})
	require.NoError(t, err)

	_, err = ComputeSWeights(densities, []float64{50})
	var mismatch *ErrLengthMismatch
	require.Error(t, err)
	assert.True(t, errors.As(err, &mismatch))
}

func TestSWeightsUnfoldIndependentVariable(t *testing.T) {
	// The reconstructed variable is drawn independently of the
	// discriminating one, with different distributions per class:
	// unfolding with signal weights must reproduce the signal mean.
	nSig, nBkg := 3000, 3000
	rng := rand.New(rand.NewSource(23))

	disc := make([]float64, 0, nSig+nBkg)
	reco := make([]float64, 0, nSig+nBkg)
	for len(disc) < nSig {
		x := testSigMean + testSigSigma*rng.NormFloat64()
		if x >= testFitLo && x <= testFitHi {
			disc = append(disc, x)
			reco = append(reco, 3.0+0.5*rng.NormFloat64())
		}
	}
	for len(disc) < nSig+nBkg {
		x := testFitLo + rng.ExpFloat64()/testBkgSlope
		if x >= testFitLo && x <= testFitHi {
			disc = append(disc, x)
			reco = append(reco, 6.0+0.5*rng.NormFloat64())
		}
	}

	signal, err := NewGaussian(testSigMean, testSigSigma, testFitLo, testFitHi)
	require.NoError(t, err)
	background, err := NewExponential(testBkgSlope, testFitLo, testFitHi)
	require.NoError(t, err)
	densities, err := EvalDensities(disc, []Density{signal, background})
	require.NoError(t, err)

	yields, err := FitYields(densities)
	require.NoError(t, err)
	sweights, err := ComputeSWeights(densities, yields)
	require.NoError(t, err)

	// Weighted mean of the reconstructed variable with signal weights.
	weights := sweights.Class(0)
	sumW, sumWX := 0.0, 0.0
	for e, w := range weights {
		sumW += w
		sumWX += w * reco[e]
	}
	mean := sumWX / sumW
	assert.InDelta(t, 3.0, mean, 0.1)
}
