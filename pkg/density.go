package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Density is a probability density of the discriminating variable for one
// class, normalized to unit integral over the fit range.
type Density interface {
	At(x float64) float64
	Name() string
}

// Gaussian is a signal peak truncated and renormalized to the fit range.
type Gaussian struct {
	dist distuv.Normal
	norm float64
	lo   float64
	hi   float64
}

func NewGaussian(mean float64, sigma float64, lo float64, hi float64) (*Gaussian, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("invalid gaussian sigma: %f", sigma)
	}
	if hi <= lo {
		return nil, fmt.Errorf("invalid fit range: [%f, %f]", lo, hi)
	}
	dist := distuv.Normal{Mu: mean, Sigma: sigma}
	norm := dist.CDF(hi) - dist.CDF(lo)
	if norm <= 0 {
		return nil, fmt.Errorf("gaussian has no support on [%f, %f]", lo, hi)
	}
	return &Gaussian{dist: dist, norm: norm, lo: lo, hi: hi}, nil
}

func (g *Gaussian) At(x float64) float64 {
	if x < g.lo || x > g.hi {
		return 0
	}
	return g.dist.Prob(x) / g.norm
}

func (g *Gaussian) Name() string {
	return "gaussian"
}

// Exponential is a falling background, exp(-slope*(x-lo)), truncated and
// renormalized to the fit range.
type Exponential struct {
	dist distuv.Exponential
	norm float64
	lo   float64
	hi   float64
}

func NewExponential(slope float64, lo float64, hi float64) (*Exponential, error) {
	if slope <= 0 {
		return nil, fmt.Errorf("invalid exponential slope: %f", slope)
	}
	if hi <= lo {
		return nil, fmt.Errorf("invalid fit range: [%f, %f]", lo, hi)
	}
	dist := distuv.Exponential{Rate: slope}
	norm := dist.CDF(hi - lo)
	if norm <= 0 {
		return nil, fmt.Errorf("exponential has no support on [%f, %f]", lo, hi)
	}
	return &Exponential{dist: dist, norm: norm, lo: lo, hi: hi}, nil
}

func (e *Exponential) At(x float64) float64 {
	if x < e.lo || x > e.hi {
		return 0
	}
	return e.dist.Prob(x-e.lo) / e.norm
}

func (e *Exponential) Name() string {
	return "exponential"
}

// Flat is a uniform density over the fit range.
type Flat struct {
	lo float64
	hi float64
}

func NewFlat(lo float64, hi float64) (*Flat, error) {
	if hi <= lo {
		return nil, fmt.Errorf("invalid fit range: [%f, %f]", lo, hi)
	}
	return &Flat{lo: lo, hi: hi}, nil
}

func (f *Flat) At(x float64) float64 {
	if x < f.lo || x > f.hi {
		return 0
	}
	return 1 / (f.hi - f.lo)
}

func (f *Flat) Name() string {
	return "flat"
}

// EvalDensities evaluates every class density on a data column and returns
// the events x classes matrix of density values consumed by the yield fit
// and the sWeights computation.
func EvalDensities(values []float64, densities []Density) (*mat.Dense, error) {
	if len(densities) < 2 {
		return nil, fmt.Errorf("need at least two class densities, got %d", len(densities))
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty data column")
	}
	p := mat.NewDense(len(values), len(densities), nil)
	for e, x := range values {
		for k, density := range densities {
			p.Set(e, k, density.At(x))
		}
	}
	return p, nil
}
