package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	sqlx "github.com/jmoiron/sqlx"

	analysis "github.com/hep-ex/sweights_go/pkg"
)

var dbConn *sqlx.DB
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

	if !configuration.NoDB {
		dbConn, err = analysis.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
		if err != nil {
			message := fmt.Errorf("Error connecting to database: %w", err)
			logger.Error(message.Error())
			return
		}
		defer dbConn.Close()

		if err := analysis.LoadCatalog(dbConn, configuration.Dataset); err != nil {
			return
		}
		analysis.ApplyCatalogEntry(&configuration, analysis.GetCatalogEntry())
		analysis.SetConfiguration(configuration)
	}

	start := time.Now()

	frame, err := analysis.ReadDataset(configuration.FileIn, []string{configuration.DiscVar, configuration.RecoVar})
	if err != nil {
		message := fmt.Errorf("Error reading dataset: %w", err)
		logger.Error(message.Error())
		return
	}
	fmt.Println("Number of events:", frame.NEvents())

	sweights, err := unfold(frame)
	if err != nil {
		message := fmt.Errorf("Error computing sWeights: %w", err)
		logger.Error(message.Error())
		return
	}

	yields := sweights.YieldSums()
	uncertainties := sweights.YieldErrors()
	for k, name := range classNames {
		message := fmt.Sprintf("Yield %s: %.1f +- %.1f", name, yields[k], uncertainties[k])
		logger.Info(message, "main")
	}

	hists, err := unfoldedHistograms(frame, sweights)
	if err != nil {
		message := fmt.Errorf("Error filling histograms: %w", err)
		logger.Error(message.Error())
		return
	}

	if configuration.WriteData {
		if err := writeOutput(frame, sweights, hists); err != nil {
			message := fmt.Errorf("Error writing output: %w", err)
			logger.Error(message.Error())
			return
		}
	}

	duration := time.Since(start)
	fmt.Printf("Total time: %d ms\n", duration.Milliseconds())
}

var classNames = []string{"signal", "background"}

// unfold evaluates the mixture densities on the discriminating variable,
// fits the class yields and solves for the sWeights.
func unfold(frame *analysis.Frame) (*analysis.SWeights, error) {
	disc, err := frame.Column(configuration.DiscVar)
	if err != nil {
		return nil, err
	}

	signal, err := analysis.NewGaussian(configuration.SigMean, configuration.SigSigma, configuration.FitLo, configuration.FitHi)
	if err != nil {
		return nil, err
	}
	background, err := analysis.NewExponential(configuration.BkgSlope, configuration.FitLo, configuration.FitHi)
	if err != nil {
		return nil, err
	}

	densities, err := analysis.EvalDensities(disc, []analysis.Density{signal, background})
	if err != nil {
		return nil, err
	}

	yields, err := analysis.FitYields(densities)
	if err != nil {
		return nil, err
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Fitted yields: %v", yields)
		logger.Info(message, "fit")
	}

	return analysis.ComputeSWeights(densities, yields)
}

// unfoldedHistograms fills one weighted histogram of the reconstructed
// variable per class.
func unfoldedHistograms(frame *analysis.Frame, sweights *analysis.SWeights) (map[string]*analysis.Hist1D, error) {
	reco, err := frame.Column(configuration.RecoVar)
	if err != nil {
		return nil, err
	}

	hists := make(map[string]*analysis.Hist1D)
	for k, name := range classNames {
		hist, err := analysis.NewHist1D(configuration.NBins, configuration.HistLo, configuration.HistHi)
		if err != nil {
			return nil, err
		}
		if err := hist.FillParallel(reco, sweights.Class(k), configuration.NumWorkers); err != nil {
			return nil, err
		}
		hists[configuration.RecoVar+"_"+name] = hist
	}
	return hists, nil
}

func writeOutput(frame *analysis.Frame, sweights *analysis.SWeights, hists map[string]*analysis.Hist1D) (err error) {
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
	writer.WriteYields(classNames, sweights.YieldSums(), sweights.YieldErrors())

	disc, err := frame.Column(configuration.DiscVar)
	if err != nil {
		return err
	}
	weights := make([][]float64, sweights.NClasses)
	for k := range weights {
		weights[k] = sweights.Class(k)
	}
	row := make([]float64, sweights.NClasses)
	for e := 0; e < frame.NEvents(); e++ {
		for k := range row {
			row[k] = weights[k][e]
		}
		writer.WriteEvent(e, disc[e], row)
	}

	writer.WriteHistograms(hists)
	fmt.Println("Events written:", frame.NEvents())
	return nil
}
