package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHist1DFill(t *testing.T) {
	h, err := NewHist1D(4, 0, 4)
	require.NoError(t, err)

	h.Fill(-1)  // underflow
	h.Fill(0)   // bin 0
	h.Fill(0.5) // bin 0
	h.Fill(1.5) // bin 1
	h.Fill(3.9) // bin 3
	h.Fill(4)   // overflow
	h.Fill(10)  // overflow

	assert.Equal(t, 7, h.Entries())
	assert.Equal(t, []float64{2, 1, 0, 1}, h.Contents())
	assert.Equal(t, 1.0, h.Underflow())
	assert.Equal(t, 2.0, h.Overflow())
}

func TestHist1DWeightedErrors(t *testing.T) {
	h, err := NewHist1D(2, 0, 2)
	require.NoError(t, err)

	h.FillW(0.5, 2)
	h.FillW(0.5, 3)
	h.FillW(1.5, -0.5)

	contents := h.Contents()
	assert.Equal(t, 5.0, contents[0])
	assert.Equal(t, -0.5, contents[1])

	errs := h.Errors()
	assert.InDelta(t, math.Sqrt(4+9), errs[0], 1e-12)
	assert.InDelta(t, 0.5, errs[1], 1e-12)
}

func TestHist1DFillUpperEdge(t *testing.T) {
	// An irrational-looking range where NBins*(x-Lo)/(Hi-Lo) rounds up to
	// NBins for the last representable value below Hi.
	h, err := NewHist1D(12, -3.981762788294258, 1.1703634977263961)
	require.NoError(t, err)

	inside := math.Nextafter(h.Hi, h.Lo)
	h.Fill(inside) // last bin, not overflow
	h.Fill(h.Hi)   // first value outside the range

	contents := h.Contents()
	assert.Equal(t, 1.0, contents[h.NBins-1])
	assert.Equal(t, 1.0, h.Overflow())
	assert.Equal(t, 0.0, h.Underflow())
}

func TestHist2DFillUpperEdge(t *testing.T) {
	h, err := NewHist2D(7, -3.981762788294258, 1.1703634977263961, 5, 0.1, 0.7)
	require.NoError(t, err)

	h.Fill(math.Nextafter(h.XHi, h.XLo), math.Nextafter(h.YHi, h.YLo))

	assert.Equal(t, 1.0, h.Bin(h.NBinsX-1, h.NBinsY-1))
	assert.Equal(t, 0.0, h.Outside())
}

func TestFillParallelUpperEdge(t *testing.T) {
	// A worker panic would surface here as silently dropped entries.
	h, err := NewHist1D(12, -3.981762788294258, 1.1703634977263961)
	require.NoError(t, err)

	values := make([]float64, 3*fillChunkSize)
	for i := range values {
		values[i] = math.Nextafter(h.Hi, h.Lo)
	}
	require.NoError(t, h.FillParallel(values, nil, 4))

	assert.Equal(t, len(values), h.Entries())
	assert.Equal(t, float64(len(values)), h.Contents()[h.NBins-1])
	assert.Equal(t, 0.0, h.Overflow())
}

func TestHist1DEdgesAndCenters(t *testing.T) {
	h, err := NewHist1D(4, 0, 2)
	require.NoError(t, err)

	edges := h.Edges()
	require.Len(t, edges, 5)
	assert.InDelta(t, 0.0, edges[0], 1e-12)
	assert.InDelta(t, 0.5, edges[1], 1e-12)
	assert.InDelta(t, 2.0, edges[4], 1e-12)

	centers := h.BinCenters()
	require.Len(t, centers, 4)
	assert.InDelta(t, 0.25, centers[0], 1e-12)
	assert.InDelta(t, 1.75, centers[3], 1e-12)
}

func TestHist1DAdd(t *testing.T) {
	h1, _ := NewHist1D(3, 0, 3)
	h2, _ := NewHist1D(3, 0, 3)
	h1.Fill(0.5)
	h2.Fill(0.5)
	h2.Fill(2.5)
	h2.Fill(-1)

	require.NoError(t, h1.Add(h2))
	assert.Equal(t, []float64{2, 0, 1}, h1.Contents())
	assert.Equal(t, 1.0, h1.Underflow())
	assert.Equal(t, 4, h1.Entries())

	other, _ := NewHist1D(5, 0, 3)
	assert.Error(t, h1.Add(other))
}

func TestHist1DInvalid(t *testing.T) {
	_, err := NewHist1D(0, 0, 1)
	assert.Error(t, err)
	_, err = NewHist1D(10, 1, 1)
	assert.Error(t, err)
}

func TestFillParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	values := make([]float64, 25000)
	weights := make([]float64, len(values))
	for i := range values {
		values[i] = rng.Float64() * 12
		weights[i] = rng.Float64()
	}

	serial, _ := NewHist1D(40, 0, 10)
	require.NoError(t, serial.FillSlice(values, weights))

	parallel, _ := NewHist1D(40, 0, 10)
	require.NoError(t, parallel.FillParallel(values, weights, 4))

	assert.Equal(t, serial.Entries(), parallel.Entries())
	assert.InDelta(t, serial.Overflow(), parallel.Overflow(), 1e-9)
	serialContents := serial.Contents()
	parallelContents := parallel.Contents()
	for i := range serialContents {
		assert.InDelta(t, serialContents[i], parallelContents[i], 1e-9)
	}
}

func TestFillParallelWeightMismatch(t *testing.T) {
	h, _ := NewHist1D(10, 0, 1)
	err := h.FillParallel([]float64{1, 2, 3}, []float64{1}, 2)
	assert.Error(t, err)
}

func TestHist1DFillFrame(t *testing.T) {
	frame := NewFrame()
	require.NoError(t, frame.AddColumn("mass", []float64{0.5, 1.5, 1.7}))

	h, _ := NewHist1D(2, 0, 2)
	require.NoError(t, h.FillFrame(frame, "mass"))
	assert.Equal(t, []float64{1, 2}, h.Contents())

	assert.Error(t, h.FillFrame(frame, "missing"))
}

func TestHist2DFill(t *testing.T) {
	h, err := NewHist2D(2, 0, 2, 2, 0, 2)
	require.NoError(t, err)

	h.Fill(0.5, 0.5)
	h.Fill(0.5, 1.5)
	h.Fill(1.5, 1.5)
	h.Fill(2.5, 0.5) // outside in x
	h.Fill(0.5, -1)  // outside in y

	assert.Equal(t, 5, h.Entries())
	assert.Equal(t, 2.0, h.Outside())
	assert.Equal(t, 1.0, h.Bin(0, 0))
	assert.Equal(t, 1.0, h.Bin(0, 1))
	assert.Equal(t, 1.0, h.Bin(1, 1))
	assert.Equal(t, 0.0, h.Bin(1, 0))
}

func TestHist2DFillFrame(t *testing.T) {
	frame := NewFrame()
	require.NoError(t, frame.AddColumn("x", []float64{0.5, 1.5}))
	require.NoError(t, frame.AddColumn("y", []float64{0.5, 0.5}))

	h, _ := NewHist2D(2, 0, 2, 2, 0, 2)
	require.NoError(t, h.FillFrame(frame, "x", "y"))
	assert.Equal(t, 1.0, h.Bin(0, 0))
	assert.Equal(t, 1.0, h.Bin(1, 0))

	assert.Error(t, h.FillFrame(frame, "missing", "y"))
}
