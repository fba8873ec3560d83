package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// FitYields performs an extended maximum-likelihood fit of the class yields
// with fixed density shapes. The densities matrix is events x classes, as
// produced by EvalDensities. The minimization runs over log-yields so the
// yields stay positive without explicit bounds.
func FitYields(densities *mat.Dense) ([]float64, error) {
	nEvents, nClasses := densities.Dims()
	if nClasses < 2 {
		return nil, &ErrFitFailed{Reason: fmt.Sprintf("need at least two classes, got %d", nClasses)}
	}

	nll := func(theta []float64) float64 {
		yields := make([]float64, nClasses)
		total := 0.0
		for j := range yields {
			yields[j] = math.Exp(theta[j])
			total += yields[j]
		}

		// Extended likelihood: sum_j N_j - sum_e log(sum_j N_j P_j(x_e))
		value := total
		for e := 0; e < nEvents; e++ {
			density := 0.0
			for j := 0; j < nClasses; j++ {
				density += yields[j] * densities.At(e, j)
			}
			if density <= 0 {
				return math.Inf(1)
			}
			value -= math.Log(density)
		}
		return value
	}

	// Start from an even split of the observed event count.
	initial := make([]float64, nClasses)
	for j := range initial {
		initial[j] = math.Log(float64(nEvents) / float64(nClasses))
	}

	problem := optimize.Problem{Func: nll}
	result, err := optimize.Minimize(problem, initial, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, &ErrFitFailed{Reason: "minimization error", Err: err}
	}
	if math.IsInf(result.F, 0) || math.IsNaN(result.F) {
		return nil, &ErrFitFailed{Reason: "non-finite likelihood at minimum"}
	}

	yields := make([]float64, nClasses)
	for j := range yields {
		yields[j] = math.Exp(result.X[j])
	}
	return yields, nil
}
