package session

import (
	"github.com/rs/zerolog"

	"burst-engine/src/analysis"
	"burst-engine/src/config"
	"burst-engine/src/engine"
	"burst-engine/src/models"
	"burst-engine/src/parser"
)

// Forward sampling horizons after a burst's close, in seconds.
const (
	Horizon1m  = 60.0
	Horizon3m  = 180.0
	Horizon5m  = 300.0
	Horizon10m = 600.0
)

// Source yields time-ordered messages for one trading day.
type Source interface {
	Next() (engine.Message, bool)
}

// Result is the outcome of replaying one session.
type Result struct {
	Records []models.BurstRecord
	Summary models.SessionSummary
}

// Run replays one LOBSTER message file end to end and returns the enriched
// burst records for that day.
func Run(cfg config.Config, file SessionFile, log zerolog.Logger) (Result, error) {
	log = log.With().Str("ticker", file.Ticker).Str("date", file.Date).Logger()

	src, err := parser.Open(file.Path, log)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	result := Replay(cfg, src, file.Ticker, file.Date)
	result.Summary.SkippedLines = src.Skipped()

	log.Info().
		Int("messages", result.Summary.Messages).
		Int("snapshots", result.Summary.Snapshots).
		Int("bursts", result.Summary.Bursts).
		Int("skipped_lines", result.Summary.SkippedLines).
		Msg("Session replayed")

	return result, nil
}

// Replay streams a session's messages through a fresh order book, mid-price
// log, and burst detector, then enriches every finished burst with forward
// mids and permanence ratios. Input exhaustion is the normal termination
// condition; it triggers the detector's end-of-session flush.
func Replay(cfg config.Config, src Source, ticker, date string) Result {
	book := engine.NewOrderBook()
	midLog := engine.NewMidLog()
	detector := engine.NewBurstDetector(cfg.SilenceThreshold, cfg.MinVolume, cfg.DirectionThreshold)

	var bursts []engine.Burst
	messages := 0

	for {
		msg, ok := src.Next()
		if !ok {
			break
		}
		messages++

		bboChanged := book.Process(msg)
		if bboChanged && book.IsValid() {
			midLog.Append(msg.Time, book.MidPrice())
		}

		if burst, finished := detector.Process(msg, book.MidPrice()); finished {
			bursts = append(bursts, burst)
		}
	}

	if burst, open := detector.Flush(); open {
		bursts = append(bursts, burst)
	}

	records := make([]models.BurstRecord, 0, len(bursts))
	for _, b := range bursts {
		records = append(records, enrich(b, midLog, ticker, date))
	}

	return Result{
		Records: records,
		Summary: models.SessionSummary{
			Ticker:    ticker,
			Date:      date,
			Messages:  messages,
			Snapshots: midLog.Len(),
			Bursts:    len(bursts),
		},
	}
}

// enrich joins a finished burst with the session close mid, the four
// forward mids, and permanence ratios for each.
func enrich(b engine.Burst, midLog *engine.MidLog, ticker, date string) models.BurstRecord {
	rec := models.BurstRecord{
		Ticker:   ticker,
		Date:     date,
		Burst:    b,
		CloseMid: midLog.Last(),
		Mid1m:    midLog.Lookup(b.EndTime + Horizon1m),
		Mid3m:    midLog.Lookup(b.EndTime + Horizon3m),
		Mid5m:    midLog.Lookup(b.EndTime + Horizon5m),
		Mid10m:   midLog.Lookup(b.EndTime + Horizon10m),
	}
	rec.PermClose = analysis.Permanence(b, rec.CloseMid)
	rec.Perm1m = analysis.Permanence(b, rec.Mid1m)
	rec.Perm3m = analysis.Permanence(b, rec.Mid3m)
	rec.Perm5m = analysis.Permanence(b, rec.Mid5m)
	rec.Perm10m = analysis.Permanence(b, rec.Mid10m)
	return rec
}
