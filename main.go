package main

import (
	"errors"
	"flag"
	"io/fs"
	"runtime"
	"sort"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"burst-engine/src/config"
	"burst-engine/src/logger"
	"burst-engine/src/models"
	"burst-engine/src/session"
	"burst-engine/src/writer"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to YAML config")
	dataDir := flag.String("data", "data", "directory with LOBSTER message files")
	outDir := flag.String("out", "out", "directory for burst CSV output")
	flag.Parse()

	logger.InitLogger()
	defer logger.CloseLogger()
	log := logger.GetLogger()

	log.Info().Msg("Initializing burst reconstruction pipeline")

	cfg, err := config.Load(*configPath)
	if err != nil {
		// a missing config file falls back to defaults; a broken one is fatal
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("config", *configPath).Msg("Config file not found, using defaults")
			cfg = config.Default()
		} else {
			log.Fatal().Err(err).Str("config", *configPath).Msg("Invalid configuration")
		}
	}
	logger.SetLevel(cfg.LogLevel)

	log.Info().
		Float64("silence_threshold", cfg.SilenceThreshold).
		Int64("min_volume", cfg.MinVolume).
		Float64("direction_threshold", cfg.DirectionThreshold).
		Msg("Detection parameters loaded")

	sessions, err := session.Discover(*dataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", *dataDir).Msg("Session discovery failed")
	}
	if len(sessions) == 0 {
		log.Fatal().Str("data_dir", *dataDir).Msg("No LOBSTER message files found")
	}

	log.Info().Int("sessions", len(sessions)).Msg("Sessions discovered")

	results := runSessions(cfg, sessions, log)

	perDay := make(map[string][]models.BurstRecord, len(results))
	var combined []models.BurstRecord
	totalBursts := 0
	for _, res := range results {
		name := writer.DayFileName(res.Summary.Ticker, res.Summary.Date)
		perDay[name] = res.Records
		combined = append(combined, res.Records...)
		totalBursts += res.Summary.Bursts
	}

	if err := writer.WriteAll(*outDir, perDay, combined); err != nil {
		log.Fatal().Err(err).Msg("Writing output failed")
	}

	log.Info().
		Int("sessions", len(results)).
		Int("bursts", totalBursts).
		Str("out_dir", *outDir).
		Msg("Done")
}

// runSessions fans the independent trading days out over a bounded worker
// pool. Sessions share nothing; results are re-sorted by (ticker, date)
// afterwards so output order does not depend on scheduling.
func runSessions(cfg config.Config, sessions []session.SessionFile, log zerolog.Logger) []session.Result {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(sessions) {
		workers = len(sessions)
	}

	jobs := make(chan session.SessionFile)
	out := make(chan session.Result, len(sessions))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				res, err := session.Run(cfg, file, log)
				if err != nil {
					// one broken day never aborts the others
					log.Error().Err(err).
						Str("ticker", file.Ticker).
						Str("date", file.Date).
						Msg("Session failed, skipping")
					continue
				}
				out <- res
			}
		}()
	}

	for _, file := range sessions {
		jobs <- file
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]session.Result, 0, len(sessions))
	for res := range out {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Summary.Ticker != results[j].Summary.Ticker {
			return results[i].Summary.Ticker < results[j].Summary.Ticker
		}
		return results[i].Summary.Date < results[j].Summary.Date
	})
	return results
}
