package writer

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"burst-engine/src/engine"
	"burst-engine/src/models"
)

func sampleRecord() models.BurstRecord {
	return models.BurstRecord{
		Ticker: "AMZN",
		Date:   "2012-06-21",
		Burst: engine.Burst{
			ID:         16113575,
			StartTime:  34200.189608173,
			EndTime:    34201.5,
			Direction:  engine.DirectionBuy,
			Volume:     1200,
			TradeCount: 7,
			StartPrice: 223.82,
			EndPrice:   223.96,
			PeakPrice:  224.01,
		},
		CloseMid:  224.5,
		Mid1m:     223.9,
		Mid3m:     223.95,
		Mid5m:     224.0,
		Mid10m:    224.1,
		PermClose: 3.578947,
		Perm1m:    0.421053,
		Perm3m:    math.NaN(),
		Perm5m:    0.947368,
		Perm10m:   1.473684,
	}
}

// TestRowFormatting pins the column layout and numeric formats.
func TestRowFormatting(t *testing.T) {
	row := Row(sampleRecord())

	if len(row) != len(Header) {
		t.Fatalf("Row has %d fields, header has %d", len(row), len(Header))
	}
	if row[0] != "AMZN" || row[1] != "2012-06-21" {
		t.Errorf("Identity columns wrong: %v", row[:2])
	}
	if row[2] != "16113575" {
		t.Errorf("Expected burst id 16113575, got: %s", row[2])
	}
	if row[3] != "34200.190" {
		t.Errorf("Times carry 3 decimals, got: %s", row[3])
	}
	if row[5] != "1" {
		t.Errorf("Buy direction serializes as 1, got: %s", row[5])
	}
	if row[8] != "223.8200" {
		t.Errorf("Prices carry 4 decimals, got: %s", row[8])
	}
	if row[18] != "NaN" {
		t.Errorf("Undefined permanence serializes as NaN, got: %s", row[18])
	}
}

// TestWriteFileRoundTrip writes and re-reads one CSV.
func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bursts.csv")

	if err := WriteFile(path, []models.BurstRecord{sampleRecord()}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header + 1 row, got %d rows", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(Header, ",") {
		t.Errorf("Header mismatch: %v", rows[0])
	}
	if rows[1][0] != "AMZN" {
		t.Errorf("Expected first column AMZN, got: %s", rows[1][0])
	}
}

// TestWriteAll produces per-day files plus the combined file.
func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	rec := sampleRecord()

	perDay := map[string][]models.BurstRecord{
		DayFileName("AMZN", "2012-06-21"): {rec},
	}
	if err := WriteAll(dir, perDay, []models.BurstRecord{rec}); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"AMZN_2012-06-21_bursts.csv", "bursts.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

// TestWriteFileEmpty still writes the header for a burst-free day.
func TestWriteFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteFile(path, nil); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "Ticker,Date,BurstID") {
		t.Errorf("Expected header-only file, got: %q", string(b))
	}
}
