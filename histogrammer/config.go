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
	config.NoDB = true
	config.Discard = true
	config.NumWorkers = 1
	config.WriteData = true
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
	logger.Info(fmt.Sprintf("Columns: %v", config.Columns), "config")
	logger.Info(fmt.Sprintf("Histogram columns: %v", config.HistColumns), "config")
	logger.Info(fmt.Sprintf("Derived columns: %d", len(config.Derived)), "config")
	logger.Info(fmt.Sprintf("Cuts: %d", len(config.Cuts)), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Bins: %d in [%f, %f]", config.NBins, config.HistLo, config.HistHi), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
}
