package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type Configuration struct {
	CSVFile          string `json:"csv_file"`
	ZeroOutside      bool   `json:"zero_outside"`
	DebugMode        bool   `json:"debug_mode"`
	Verbosity        int    `json:"verbosity"`
	FileIn           string `json:"file_in"`
	FileOut          string `json:"file_out"`
	MaxEvents        int    `json:"max_events"`
	Skip             int    `json:"skip"`
	NumWorkers       int    `json:"num_workers"`
	CompressionLevel int    `json:"compression_level"`
	NoDB             bool   `json:"no_db"`
	Host             string `json:"host"`
	User             string `json:"user"`
	Passwd           string `json:"pass"`
	DBName           string `json:"dbname"`
	RunNumber        int    `json:"run_number"`
}

func LoadConfiguration(filename string) (Configuration, error) {
	var config Configuration

	// Set default values
	config.ZeroOutside = true
	config.DebugMode = false
	config.Verbosity = 0
	config.MaxEvents = 1000000000
	config.Skip = 0
	config.NumWorkers = 1
	config.CompressionLevel = 4
	config.NoDB = true
	config.Host = "localhost"
	config.User = "lariatreader"
	config.Passwd = "readonly"
	config.DBName = "LARIAT"
	config.RunNumber = 0

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}

	// debug_mode enables the per-box and per-wire messages.
	if config.DebugMode && config.Verbosity < 2 {
		config.Verbosity = 2
	}
	return config, nil
}

func (c Configuration) Validate() error {
	var errs []error
	if c.CSVFile == "" {
		errs = append(errs, errors.New("csv_file is required"))
	}
	if c.FileIn == "" {
		errs = append(errs, errors.New("file_in is required"))
	}
	if c.FileOut == "" {
		errs = append(errs, errors.New("file_out is required"))
	}
	if c.NumWorkers < 1 {
		errs = append(errs, fmt.Errorf("num_workers must be at least 1, got %d", c.NumWorkers))
	}
	if c.Skip < 0 {
		errs = append(errs, fmt.Errorf("skip must not be negative, got %d", c.Skip))
	}
	return errors.Join(errs...)
}

func printConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("CSV file: %s", config.CSVFile), "config")
	logger.Info(fmt.Sprintf("Zero outside: %t", config.ZeroOutside), "config")
	logger.Info(fmt.Sprintf("Debug mode: %t", config.DebugMode), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
}
