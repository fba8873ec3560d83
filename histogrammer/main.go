package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	analysis "github.com/hep-ex/sweights_go/pkg"
)

var configuration analysis.Configuration

var (
	logger         analysis.DualLogger
	VerbosityLevel int
)

func init() {
	logger = analysis.NewDualLogger(os.Stdout, os.Stderr)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	analysis.SetConfiguration(configuration)
	analysis.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
	}
	if VerbosityLevel > 0 {
		printConfiguration(configuration, logger)
	}

	start := time.Now()

	frame, err := analysis.ReadDataset(configuration.FileIn, configuration.Columns)
	if err != nil {
		message := fmt.Errorf("Error reading dataset: %w", err)
		logger.Error(message.Error())
		return
	}
	fmt.Println("Number of events:", frame.NEvents())

	for _, derived := range configuration.Derived {
		if err := deriveColumn(frame, derived); err != nil {
			message := fmt.Errorf("Error deriving column %q: %w", derived.Name, err)
			logger.Error(message.Error())
			return
		}
	}

	selected, passCounts, err := applyCuts(frame, configuration.Cuts)
	if err != nil {
		message := fmt.Errorf("Error applying cuts: %w", err)
		logger.Error(message.Error())
		return
	}
	fmt.Println("Events after cuts:", selected.NEvents())

	hists, hist2d, err := fillHistograms(selected)
	if err != nil {
		message := fmt.Errorf("Error filling histograms: %w", err)
		logger.Error(message.Error())
		return
	}

	if configuration.WriteData {
		if err := writeOutput(hists, hist2d, passCounts); err != nil {
			message := fmt.Errorf("Error writing output: %w", err)
			logger.Error(message.Error())
			return
		}
	}

	duration := time.Since(start)
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
}

func deriveColumn(frame *analysis.Frame, derived analysis.DerivedColumn) error {
	var fn func(...float64) float64
	switch derived.Op {
	case "sum":
		fn = func(args ...float64) float64 {
			total := 0.0
			for _, x := range args {
				total += x
			}
			return total
		}
	case "product":
		fn = func(args ...float64) float64 {
			total := 1.0
			for _, x := range args {
				total *= x
			}
			return total
		}
	case "magnitude":
		fn = func(args ...float64) float64 {
			total := 0.0
			for _, x := range args {
				total += x * x
			}
			return math.Sqrt(total)
		}
	default:
		return fmt.Errorf("unknown derived-column op %q", derived.Op)
	}
	return frame.Derive(derived.Name, derived.Inputs, fn)
}

// applyCuts applies the rectangular cuts one by one so the number of events
// surviving each cut can be reported.
func applyCuts(frame *analysis.Frame, cuts []analysis.CutRange) (*analysis.Frame, []int, error) {
	selected := frame
	passCounts := make([]int, len(cuts))
	for i, cut := range cuts {
		var err error
		selected, err = selected.Select(analysis.Range{Column: cut.Column, Lo: cut.Lo, Hi: cut.Hi})
		if err != nil {
			return nil, nil, err
		}
		passCounts[i] = selected.NEvents()
		if VerbosityLevel > 0 {
			message := fmt.Sprintf("Cut on %s [%f, %f): %d events pass", cut.Column, cut.Lo, cut.Hi, selected.NEvents())
			logger.Info(message, "cuts")
		}
	}
	return selected, passCounts, nil
}

func fillHistograms(frame *analysis.Frame) (map[string]*analysis.Hist1D, *analysis.Hist2D, error) {
	hists := make(map[string]*analysis.Hist1D)
	for _, column := range configuration.HistColumns {
		values, err := frame.Column(column)
		if err != nil {
			return nil, nil, err
		}
		hist, err := analysis.NewHist1D(configuration.NBins, configuration.HistLo, configuration.HistHi)
		if err != nil {
			return nil, nil, err
		}
		if err := hist.FillParallel(values, nil, configuration.NumWorkers); err != nil {
			return nil, nil, err
		}
		hists[column] = hist
	}

	var hist2d *analysis.Hist2D
	if configuration.Hist2D != nil {
		c := configuration.Hist2D
		var err error
		hist2d, err = analysis.NewHist2D(c.NBinsX, c.XLo, c.XHi, c.NBinsY, c.YLo, c.YHi)
		if err != nil {
			return nil, nil, err
		}
		if err := hist2d.FillFrame(frame, c.XColumn, c.YColumn); err != nil {
			return nil, nil, err
		}
	}
	return hists, hist2d, nil
}

func writeOutput(hists map[string]*analysis.Hist1D, hist2d *analysis.Hist2D, passCounts []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("writer recovered from panic: %v", r)
		}
	}()

	writer, err := analysis.NewWriter(configuration.FileOut)
	if err != nil {
		return err
	}
	defer writer.Close()

	writer.WriteRunInfo(configuration.RunNumber)
	for i, cut := range configuration.Cuts {
		writer.WriteCut(cut, passCounts[i])
	}
	writer.WriteHistograms(hists)
	if hist2d != nil {
		name := configuration.Hist2D.XColumn + "_vs_" + configuration.Hist2D.YColumn
		writer.WriteHist2D(name, hist2d)
	}
	return nil
}
