package analysis

import (
	"fmt"
	"math"
)

// Hist1D is a one-dimensional histogram with uniform binning on [Lo, Hi).
// It tracks the sum of squared weights per bin so that weighted fills
// (sWeights in particular) carry correct per-bin uncertainties.
type Hist1D struct {
	NBins    int
	Lo       float64
	Hi       float64
	contents []float64
	sumw2    []float64
	under    float64
	over     float64
	entries  int
}

func NewHist1D(nbins int, lo float64, hi float64) (*Hist1D, error) {
	if nbins < 1 {
		return nil, fmt.Errorf("invalid number of bins: %d", nbins)
	}
	if hi <= lo {
		return nil, fmt.Errorf("invalid histogram range: [%f, %f)", lo, hi)
	}
	return &Hist1D{
		NBins:    nbins,
		Lo:       lo,
		Hi:       hi,
		contents: make([]float64, nbins),
		sumw2:    make([]float64, nbins),
	}, nil
}

func (h *Hist1D) binIndex(x float64) int {
	bin := int(float64(h.NBins) * (x - h.Lo) / (h.Hi - h.Lo))
	// Rounding can push x just below Hi into bin NBins; clamp it into
	// the last bin so in-range values never index past the contents.
	if bin >= h.NBins {
		bin = h.NBins - 1
	}
	return bin
}

func (h *Hist1D) Fill(x float64) {
	h.FillW(x, 1)
}

func (h *Hist1D) FillW(x float64, w float64) {
	h.entries++
	if x < h.Lo {
		h.under += w
		return
	}
	if x >= h.Hi {
		h.over += w
		return
	}
	bin := h.binIndex(x)
	h.contents[bin] += w
	h.sumw2[bin] += w * w
}

func (h *Hist1D) Entries() int {
	return h.entries
}

func (h *Hist1D) Underflow() float64 {
	return h.under
}

func (h *Hist1D) Overflow() float64 {
	return h.over
}

func (h *Hist1D) Contents() []float64 {
	contents := make([]float64, h.NBins)
	copy(contents, h.contents)
	return contents
}

// Errors returns the per-bin uncertainty, sqrt of the sum of squared weights.
func (h *Hist1D) Errors() []float64 {
	errs := make([]float64, h.NBins)
	for i, w2 := range h.sumw2 {
		errs[i] = math.Sqrt(w2)
	}
	return errs
}

func (h *Hist1D) Edges() []float64 {
	edges := make([]float64, h.NBins+1)
	width := (h.Hi - h.Lo) / float64(h.NBins)
	for i := range edges {
		edges[i] = h.Lo + float64(i)*width
	}
	return edges
}

func (h *Hist1D) BinCenters() []float64 {
	centers := make([]float64, h.NBins)
	width := (h.Hi - h.Lo) / float64(h.NBins)
	for i := range centers {
		centers[i] = h.Lo + (float64(i)+0.5)*width
	}
	return centers
}

// Add merges another histogram with identical binning into this one.
func (h *Hist1D) Add(other *Hist1D) error {
	if other.NBins != h.NBins || other.Lo != h.Lo || other.Hi != h.Hi {
		return &ErrLengthMismatch{What: "histogram binning", Want: h.NBins, Got: other.NBins}
	}
	for i := range h.contents {
		h.contents[i] += other.contents[i]
		h.sumw2[i] += other.sumw2[i]
	}
	h.under += other.under
	h.over += other.over
	h.entries += other.entries
	return nil
}

func (h *Hist1D) FillFrame(f *Frame, column string) error {
	values, err := f.Column(column)
	if err != nil {
		return err
	}
	for _, x := range values {
		h.Fill(x)
	}
	return nil
}

// FillSlice fills from a value slice with per-event weights.
// A nil weight slice means unit weights.
func (h *Hist1D) FillSlice(values []float64, weights []float64) error {
	if weights != nil && len(weights) != len(values) {
		return &ErrLengthMismatch{What: "fill weights", Want: len(values), Got: len(weights)}
	}
	for i, x := range values {
		if weights == nil {
			h.Fill(x)
		} else {
			h.FillW(x, weights[i])
		}
	}
	return nil
}

// Hist2D is a two-dimensional histogram with uniform binning.
type Hist2D struct {
	NBinsX   int
	XLo      float64
	XHi      float64
	NBinsY   int
	YLo      float64
	YHi      float64
	contents []float64
	sumw2    []float64
	outside  float64
	entries  int
}

func NewHist2D(nbinsX int, xlo, xhi float64, nbinsY int, ylo, yhi float64) (*Hist2D, error) {
	if nbinsX < 1 || nbinsY < 1 {
		return nil, fmt.Errorf("invalid number of bins: %d x %d", nbinsX, nbinsY)
	}
	if xhi <= xlo || yhi <= ylo {
		return nil, fmt.Errorf("invalid histogram range: [%f, %f) x [%f, %f)", xlo, xhi, ylo, yhi)
	}
	return &Hist2D{
		NBinsX:   nbinsX,
		XLo:      xlo,
		XHi:      xhi,
		NBinsY:   nbinsY,
		YLo:      ylo,
		YHi:      yhi,
		contents: make([]float64, nbinsX*nbinsY),
		sumw2:    make([]float64, nbinsX*nbinsY),
	}, nil
}

func (h *Hist2D) Fill(x float64, y float64) {
	h.FillW(x, y, 1)
}

func (h *Hist2D) FillW(x float64, y float64, w float64) {
	h.entries++
	if x < h.XLo || x >= h.XHi || y < h.YLo || y >= h.YHi {
		h.outside += w
		return
	}
	binX := int(float64(h.NBinsX) * (x - h.XLo) / (h.XHi - h.XLo))
	binY := int(float64(h.NBinsY) * (y - h.YLo) / (h.YHi - h.YLo))
	// Same rounding guard as the 1D bin index.
	if binX >= h.NBinsX {
		binX = h.NBinsX - 1
	}
	if binY >= h.NBinsY {
		binY = h.NBinsY - 1
	}
	h.contents[binX*h.NBinsY+binY] += w
	h.sumw2[binX*h.NBinsY+binY] += w * w
}

func (h *Hist2D) Entries() int {
	return h.entries
}

func (h *Hist2D) Outside() float64 {
	return h.outside
}

// Bin returns the content of bin (i, j).
func (h *Hist2D) Bin(i int, j int) float64 {
	return h.contents[i*h.NBinsY+j]
}

// Contents returns the bin contents flattened in row-major (x-major) order.
func (h *Hist2D) Contents() []float64 {
	contents := make([]float64, len(h.contents))
	copy(contents, h.contents)
	return contents
}

func (h *Hist2D) FillFrame(f *Frame, xColumn string, yColumn string) error {
	xs, err := f.Column(xColumn)
	if err != nil {
		return err
	}
	ys, err := f.Column(yColumn)
	if err != nil {
		return err
	}
	for i := range xs {
		h.Fill(xs[i], ys[i])
	}
	return nil
}
