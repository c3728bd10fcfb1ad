package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	bbox "github.com/next-exp/bboxfilter_go/pkg"
)

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	logger = NewLogger(os.Stdout, os.Stderr)
}

func main() {
	if err := run(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	configuration, err := LoadConfiguration(*configFilename)
	if err != nil {
		return fmt.Errorf("Error reading configuration file: %w", err)
	}
	if err := configuration.Validate(); err != nil {
		return fmt.Errorf("Invalid configuration: %w", err)
	}

	VerbosityLevel = configuration.Verbosity
	bbox.SetLogger(logger)
	bbox.SetVerbosity(configuration.Verbosity)
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	table, err := bbox.LoadBoxTable(configuration.CSVFile)
	if err != nil {
		return fmt.Errorf("Error loading bounding boxes: %w", err)
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Loaded %d bounding boxes from %s", table.Len(), configuration.CSVFile)
		logger.Info(message, "main")
	}

	reader, err := bbox.NewReader(configuration.FileIn)
	if err != nil {
		return fmt.Errorf("Error opening input file: %w", err)
	}
	defer reader.Close()

	geometry, err := loadGeometry(configuration, reader)
	if err != nil {
		return fmt.Errorf("Error loading geometry: %w", err)
	}

	writer, err := bbox.NewWriter(configuration.FileOut, configuration.CompressionLevel)
	if err != nil {
		return fmt.Errorf("Error creating output file: %w", err)
	}

	start := time.Now()
	jobs := make(chan bbox.EventType, configuration.NumWorkers)
	results := make(chan WorkerResult, 100)

	options := bbox.FilterOptions{
		ZeroOutside: configuration.ZeroOutside,
		DebugMode:   configuration.DebugMode,
	}
	var wg sync.WaitGroup
	for w := 1; w <= configuration.NumWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(id, bbox.NewFilter(table, geometry, options), jobs, results)
		}(w)
	}
	readErr := make(chan error, 1)
	go func() {
		readErr <- sendEventsToWorkers(reader, jobs, configuration)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	summary := processWorkerResults(results, writer)
	summary.ReadErr = <-readErr
	if err := writer.Close(); err != nil {
		return fmt.Errorf("Error closing output file: %w", err)
	}

	message := fmt.Sprintf("Processed %d events (%d with bounding box, %d discarded, %d not written) in %d ms",
		summary.Events, summary.WithBox, summary.Discarded, summary.WriteErr, time.Since(start).Milliseconds())
	logger.Info(message, "main")
	message = fmt.Sprintf("Wires: %d filtered, %d zeroed, %d kept unchanged, %d unmapped",
		summary.Totals.Filtered, summary.Totals.Zeroed, summary.Totals.Kept, summary.Totals.Unmapped)
	logger.Info(message, "main")

	return summary.Err()
}

// loadGeometry returns the LArIAT layout in no-DB mode, otherwise the wire
// mapping of the run, taken from the first event when run_number is unset.
func loadGeometry(config Configuration, reader *bbox.Reader) (*bbox.ChannelMap, error) {
	if config.NoDB {
		if VerbosityLevel > 0 {
			logger.Info("Using built-in LArIAT channel map", "main")
		}
		channelMap := bbox.LArIATChannelMap()
		logChannelMap(channelMap)
		return channelMap, nil
	}

	runNumber := config.RunNumber
	if runNumber == 0 && reader.NEvents() > 0 {
		runNumber = reader.EventID(0).Run
	}

	dbConn, err := bbox.ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	if err != nil {
		return nil, fmt.Errorf("Error connection to database: %w", err)
	}
	defer dbConn.Close()

	channelMap, err := bbox.LoadChannelMapFromDB(dbConn, runNumber)
	if err != nil {
		return nil, err
	}
	logChannelMap(channelMap)
	return channelMap, nil
}

func logChannelMap(channelMap *bbox.ChannelMap) {
	if VerbosityLevel < 1 {
		return
	}
	planes := channelMap.Planes()
	message := fmt.Sprintf("Channel map: %d channels in %d planes", channelMap.NChannels(), len(planes))
	logger.Info(message, "main")
	for _, plane := range planes {
		message := fmt.Sprintf("Plane %v (%v): %d wires", plane, channelMap.PlaneSignalType(plane), channelMap.NWires(plane))
		logger.Info(message, "main")
	}
}
