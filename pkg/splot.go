package analysis

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SWeights holds the per-event, per-class sPlot weights and the covariance
// matrix of the fitted yields. Summing the weights of one class over all
// events recovers that class yield; filling a histogram of a variable
// independent of the discriminating one with these weights unfolds the
// pure-class distribution.
//
// The independence of the unfolded variable from the discriminating one is a
// statistical precondition that cannot be checked here. Violating it biases
// the unfolded distribution without any error being raised.
type SWeights struct {
	Weights  *mat.Dense
	Cov      *mat.SymDense
	Yields   []float64
	NClasses int
}

// ComputeSWeights builds and solves the sPlot linear system.
// The densities matrix is events x classes (from EvalDensities); yields are
// the fitted class yields (from FitYields). The classes x classes matrix
//
//	W_kl = sum_e P_k(x_e) P_l(x_e) / (sum_j N_j P_j(x_e))^2
//
// is symmetric positive definite when the class densities are linearly
// independent over the sample; its Cholesky factorization failing is the
// singularity signal. The weights are
//
//	w_k(e) = sum_l inv(W)_kl P_l(x_e) / (sum_j N_j P_j(x_e))
func ComputeSWeights(densities *mat.Dense, yields []float64) (*SWeights, error) {
	nEvents, nClasses := densities.Dims()
	if nClasses < 2 {
		return nil, &ErrSingularSystem{NClasses: nClasses}
	}
	if len(yields) != nClasses {
		return nil, &ErrLengthMismatch{What: "yields", Want: nClasses, Got: len(yields)}
	}

	// Total mixture density per event.
	totals := make([]float64, nEvents)
	for e := 0; e < nEvents; e++ {
		total := 0.0
		for j := 0; j < nClasses; j++ {
			total += yields[j] * densities.At(e, j)
		}
		if total <= 0 || math.IsNaN(total) {
			return nil, &ErrEmptyDensity{Event: e}
		}
		totals[e] = total
	}

	w := mat.NewSymDense(nClasses, nil)
	for k := 0; k < nClasses; k++ {
		for l := k; l < nClasses; l++ {
			sum := 0.0
			for e := 0; e < nEvents; e++ {
				sum += densities.At(e, k) * densities.At(e, l) / (totals[e] * totals[e])
			}
			w.SetSym(k, l, sum)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(w); !ok {
		return nil, &ErrSingularSystem{NClasses: nClasses}
	}
	cov := mat.NewSymDense(nClasses, nil)
	if err := chol.InverseTo(cov); err != nil {
		return nil, &ErrSingularSystem{NClasses: nClasses}
	}

	weights := mat.NewDense(nEvents, nClasses, nil)
	for e := 0; e < nEvents; e++ {
		for k := 0; k < nClasses; k++ {
			numerator := 0.0
			for l := 0; l < nClasses; l++ {
				numerator += cov.At(k, l) * densities.At(e, l)
			}
			weights.Set(e, k, numerator/totals[e])
		}
	}

	copied := make([]float64, nClasses)
	copy(copied, yields)
	return &SWeights{
		Weights:  weights,
		Cov:      cov,
		Yields:   copied,
		NClasses: nClasses,
	}, nil
}

// Class returns the weight column for one class.
func (s *SWeights) Class(k int) []float64 {
	nEvents, _ := s.Weights.Dims()
	column := make([]float64, nEvents)
	mat.Col(column, k, s.Weights)
	return column
}

// YieldSums returns the per-class sum of weights over all events. With yields
// taken at the maximum-likelihood point these reproduce the fitted yields.
func (s *SWeights) YieldSums() []float64 {
	nEvents, _ := s.Weights.Dims()
	sums := make([]float64, s.NClasses)
	for k := 0; k < s.NClasses; k++ {
		for e := 0; e < nEvents; e++ {
			sums[k] += s.Weights.At(e, k)
		}
	}
	return sums
}

// YieldErrors returns the per-class yield uncertainty from the covariance of
// the solved system.
func (s *SWeights) YieldErrors() []float64 {
	errs := make([]float64, s.NClasses)
	for k := 0; k < s.NClasses; k++ {
		errs[k] = math.Sqrt(s.Cov.At(k, k))
	}
	return errs
}
