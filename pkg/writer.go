package analysis

import (
	hdf5 "github.com/jmbenlloch/go-hdf5"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Writer writes analysis results to an HDF5 file: run info and per-event
// data under /Run, yields and per-event sWeights under /SPlot, histogram
// contents under /Histograms.
type Writer struct {
	File         *hdf5.File
	Filename     string
	FirstEvt     bool
	RunGroup     *hdf5.Group
	SPlotGroup   *hdf5.Group
	HistGroup    *hdf5.Group
	EventTable   *hdf5.Dataset
	RunInfoTable *hdf5.Dataset
	YieldTable   *hdf5.Dataset
	CutTable     *hdf5.Dataset
	WeightsArray *hdf5.Dataset
	EvtCounter   int
	nClasses     int
}

func NewWriter(filename string) (*Writer, error) {
	// Set string size for HDF5
	hdf5.SetStringLength(STRLEN)

	writer := &Writer{}
	var err error
	writer.File, err = openFile(filename)
	if err != nil {
		return nil, err
	}
	writer.Filename = filename
	writer.RunGroup, err = createGroup(writer.File, "Run")
	if err != nil {
		return nil, err
	}
	writer.SPlotGroup, err = createGroup(writer.File, "SPlot")
	if err != nil {
		return nil, err
	}
	writer.HistGroup, err = createGroup(writer.File, "Histograms")
	if err != nil {
		return nil, err
	}
	writer.EventTable, err = createTable(writer.RunGroup, "events", EventDataHDF5{})
	if err != nil {
		return nil, err
	}
	writer.RunInfoTable, err = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{})
	if err != nil {
		return nil, err
	}
	writer.YieldTable, err = createTable(writer.SPlotGroup, "yields", YieldHDF5{})
	if err != nil {
		return nil, err
	}
	writer.CutTable, err = createTable(writer.RunGroup, "cuts", CutHDF5{})
	if err != nil {
		return nil, err
	}
	writer.EvtCounter = 0
	return writer, nil
}

func (w *Writer) WriteRunInfo(runNumber int) {
	writeEntryToTable(w.RunInfoTable, RunInfoHDF5{run_number: int32(runNumber)})
}

// WriteEvent writes one event: its number, the discriminating-variable value
// and the per-class sWeights. The weights array is created on the first
// event, once the number of classes is known.
func (w *Writer) WriteEvent(evtNumber int, disc float64, weights []float64) {
	if !w.FirstEvt {
		w.nClasses = len(weights)
		w.WeightsArray = createMatrixArray(w.SPlotGroup, "sweights", w.nClasses)
		w.FirstEvt = true
	}

	writeEntryToTable(w.EventTable, EventDataHDF5{
		evt_number: int32(evtNumber),
		disc:       disc,
	})
	row := make([]float64, len(weights))
	copy(row, weights)
	writeMatrixRow(w.WeightsArray, &row, w.EvtCounter, w.nClasses)
	w.EvtCounter++
}

func (w *Writer) WriteYields(names []string, yields []float64, uncertainties []float64) {
	entries := make([]YieldHDF5, len(names))
	for i, name := range names {
		entries[i] = YieldHDF5{
			classStr:    convertToHdf5String(name),
			yield:       yields[i],
			uncertainty: uncertainties[i],
		}
	}
	writeArrayToTable(w.YieldTable, &entries)
}

func (w *Writer) WriteCut(cut CutRange, passed int) {
	writeEntryToTable(w.CutTable, CutHDF5{
		columnStr: convertToHdf5String(cut.Column),
		lo:        cut.Lo,
		hi:        cut.Hi,
		passed:    int32(passed),
	})
}

func (w *Writer) WriteHist1D(name string, h *Hist1D) {
	writeFloatArray(w.HistGroup, name+"_contents", h.Contents())
	writeFloatArray(w.HistGroup, name+"_errors", h.Errors())
	writeFloatArray(w.HistGroup, name+"_edges", h.Edges())
}

func (w *Writer) WriteHist2D(name string, h *Hist2D) {
	writeFloatMatrix(w.HistGroup, name+"_contents", h.Contents(), h.NBinsX, h.NBinsY)
	xEdges := make([]float64, h.NBinsX+1)
	widthX := (h.XHi - h.XLo) / float64(h.NBinsX)
	for i := range xEdges {
		xEdges[i] = h.XLo + float64(i)*widthX
	}
	yEdges := make([]float64, h.NBinsY+1)
	widthY := (h.YHi - h.YLo) / float64(h.NBinsY)
	for i := range yEdges {
		yEdges[i] = h.YLo + float64(i)*widthY
	}
	writeFloatArray(w.HistGroup, name+"_edges_x", xEdges)
	writeFloatArray(w.HistGroup, name+"_edges_y", yEdges)
}

// WriteHistograms writes a set of named 1D histograms in name order.
func (w *Writer) WriteHistograms(hists map[string]*Hist1D) {
	names := maps.Keys(hists)
	slices.Sort(names)
	for _, name := range names {
		w.WriteHist1D(name, hists[name])
	}
}

func (w *Writer) Close() {
	w.EventTable.Close()
	w.RunInfoTable.Close()
	w.YieldTable.Close()
	w.CutTable.Close()
	if w.WeightsArray != nil {
		w.WeightsArray.Close()
	}
	w.RunGroup.Close()
	w.SPlotGroup.Close()
	w.HistGroup.Close()
	w.File.Close()
}
