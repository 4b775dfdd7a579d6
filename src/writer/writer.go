package writer

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"burst-engine/src/models"
)

// Header is the burst CSV column layout, shared by per-day and combined
// output files.
var Header = []string{
	"Ticker", "Date", "BurstID", "StartTime", "EndTime", "Direction",
	"Volume", "TradeCount", "StartPrice", "EndPrice", "PeakPrice",
	"CloseMid", "Mid_1m", "Mid_3m", "Mid_5m", "Mid_10m",
	"Perm_tCLOSE", "Perm_t1m", "Perm_t3m", "Perm_t5m", "Perm_t10m",
}

// WriteFile writes burst records to one CSV file, header first.
func WriteFile(path string, records []models.BurstRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(Row(rec)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// WriteAll writes one file per session day plus a combined bursts.csv in
// outDir. Records are expected pre-sorted by (ticker, date).
func WriteAll(outDir string, perDay map[string][]models.BurstRecord, combined []models.BurstRecord) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir %s: %w", outDir, err)
	}
	for name, records := range perDay {
		if err := WriteFile(filepath.Join(outDir, name), records); err != nil {
			return err
		}
	}
	return WriteFile(filepath.Join(outDir, "bursts.csv"), combined)
}

// DayFileName names the per-day output file for one session.
func DayFileName(ticker, date string) string {
	return fmt.Sprintf("%s_%s_bursts.csv", ticker, date)
}

// Row serializes one record: times with 3 decimals, prices with 4,
// direction as 1/-1/0, undefined permanence as NaN.
func Row(rec models.BurstRecord) []string {
	b := rec.Burst
	return []string{
		rec.Ticker,
		rec.Date,
		strconv.FormatInt(b.ID, 10),
		formatTime(b.StartTime),
		formatTime(b.EndTime),
		strconv.Itoa(int(b.Direction)),
		strconv.FormatInt(b.Volume, 10),
		strconv.Itoa(b.TradeCount),
		formatPrice(b.StartPrice),
		formatPrice(b.EndPrice),
		formatPrice(b.PeakPrice),
		formatPrice(rec.CloseMid),
		formatPrice(rec.Mid1m),
		formatPrice(rec.Mid3m),
		formatPrice(rec.Mid5m),
		formatPrice(rec.Mid10m),
		formatPerm(rec.PermClose),
		formatPerm(rec.Perm1m),
		formatPerm(rec.Perm3m),
		formatPerm(rec.Perm5m),
		formatPerm(rec.Perm10m),
	}
}

func formatTime(t float64) string {
	return strconv.FormatFloat(t, 'f', 3, 64)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 4, 64)
}

func formatPerm(p float64) string {
	if math.IsNaN(p) {
		return "NaN"
	}
	return strconv.FormatFloat(p, 'f', 6, 64)
}
