package main

import (
	"encoding/json"
	"fmt"
	"os"

	analysis "github.com/hep-ex/sweights_go/pkg"
)

func LoadConfiguration(filename string) (analysis.Configuration, error) {
	var config analysis.Configuration

	// Set default values
	config.MaxEvents = 1000000000
	config.Verbosity = 0
	config.Skip = 0
	config.NoDB = false
	config.Discard = true
	config.Host = "catalog.hep.example.org"
	config.User = "reader"
	config.Passwd = "readonly"
	config.DBName = "ANALYSIS"
	config.NumWorkers = 1
	config.WriteData = true
	config.DiscVar = "mass"
	config.RecoVar = "momentum"
	config.FitLo = 5.0
	config.FitHi = 5.6
	config.SigMean = 5.28
	config.SigSigma = 0.03
	config.BkgSlope = 2.0
	config.NBins = 50
	config.HistLo = 0
	config.HistHi = 10

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func printConfiguration(config analysis.Configuration, logger analysis.DualLogger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Dataset: %s", config.Dataset), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Discriminating variable: %s", config.DiscVar), "config")
	logger.Info(fmt.Sprintf("Reconstructed variable: %s", config.RecoVar), "config")
	logger.Info(fmt.Sprintf("Fit range: [%f, %f]", config.FitLo, config.FitHi), "config")
	logger.Info(fmt.Sprintf("Signal mean: %f", config.SigMean), "config")
	logger.Info(fmt.Sprintf("Signal sigma: %f", config.SigSigma), "config")
	logger.Info(fmt.Sprintf("Background slope: %f", config.BkgSlope), "config")
	logger.Info(fmt.Sprintf("Bins: %d in [%f, %f]", config.NBins, config.HistLo, config.HistHi), "config")
	logger.Info(fmt.Sprintf("Discard: %t", config.Discard), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
}
