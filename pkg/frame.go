package analysis

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Frame is an in-memory columnar table with one row per event.
// All columns have the same length.
type Frame struct {
	columns map[string][]float64
	nEvents int
}

func NewFrame() *Frame {
	return &Frame{columns: make(map[string][]float64)}
}

func (f *Frame) NEvents() int {
	return f.nEvents
}

func (f *Frame) AddColumn(name string, values []float64) error {
	if len(f.columns) > 0 && len(values) != f.nEvents {
		return &ErrLengthMismatch{What: "column " + name, Want: f.nEvents, Got: len(values)}
	}
	f.columns[name] = values
	f.nEvents = len(values)
	return nil
}

func (f *Frame) Column(name string) ([]float64, error) {
	values, ok := f.columns[name]
	if !ok {
		return nil, &ErrColumnNotFound{Column: name}
	}
	return values, nil
}

func (f *Frame) HasColumn(name string) bool {
	_, ok := f.columns[name]
	return ok
}

func (f *Frame) Columns() []string {
	names := maps.Keys(f.columns)
	slices.Sort(names)
	return names
}

// Derive adds a column computed row by row from existing columns.
func (f *Frame) Derive(name string, inputs []string, fn func(...float64) float64) error {
	cols := make([][]float64, len(inputs))
	for i, input := range inputs {
		values, err := f.Column(input)
		if err != nil {
			return err
		}
		cols[i] = values
	}

	derived := make([]float64, f.nEvents)
	args := make([]float64, len(inputs))
	for row := 0; row < f.nEvents; row++ {
		for i := range cols {
			args[i] = cols[i][row]
		}
		derived[row] = fn(args...)
	}
	return f.AddColumn(name, derived)
}

// Range is a rectangular cut on one column. An event passes if Lo <= x < Hi.
type Range struct {
	Column string
	Lo     float64
	Hi     float64
}

// Select returns a new frame with the events passing all cuts.
func (f *Frame) Select(cuts ...Range) (*Frame, error) {
	cutCols := make([][]float64, len(cuts))
	for i, cut := range cuts {
		values, err := f.Column(cut.Column)
		if err != nil {
			return nil, err
		}
		cutCols[i] = values
	}

	keep := make([]int, 0, f.nEvents)
	for row := 0; row < f.nEvents; row++ {
		pass := true
		for i, cut := range cuts {
			x := cutCols[i][row]
			if x < cut.Lo || x >= cut.Hi {
				pass = false
				break
			}
		}
		if pass {
			keep = append(keep, row)
		}
	}

	selected := NewFrame()
	for _, name := range f.Columns() {
		src := f.columns[name]
		dst := make([]float64, len(keep))
		for i, row := range keep {
			dst[i] = src[row]
		}
		if err := selected.AddColumn(name, dst); err != nil {
			return nil, err
		}
	}
	selected.nEvents = len(keep)
	return selected, nil
}
