package session

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// SessionFile is one discovered trading day: the LOBSTER message file plus
// the ticker and date lifted from its name.
type SessionFile struct {
	Path   string
	Ticker string
	Date   string
}

// LOBSTER naming convention, e.g.
// AMZN_2012-06-21_34200000_57600000_message_10.csv
var messageFileRe = regexp.MustCompile(`^([A-Za-z0-9.\-]+)_(\d{4}-\d{2}-\d{2})_\d+_\d+_message_\d+\.csv$`)

// ParseSessionName extracts ticker and date from a LOBSTER message file
// name. Returns ok=false for anything else, including orderbook companions.
func ParseSessionName(name string) (ticker, date string, ok bool) {
	m := messageFileRe.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Discover scans a directory for LOBSTER message files and returns one
// SessionFile per trading day, ordered by (ticker, date). Files that do not
// match the naming convention are ignored.
func Discover(dir string) ([]SessionFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", dir, err)
	}

	var sessions []SessionFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ticker, date, ok := ParseSessionName(entry.Name())
		if !ok {
			continue
		}
		sessions = append(sessions, SessionFile{
			Path:   filepath.Join(dir, entry.Name()),
			Ticker: ticker,
			Date:   date,
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Ticker != sessions[j].Ticker {
			return sessions[i].Ticker < sessions[j].Ticker
		}
		return sessions[i].Date < sessions[j].Date
	})

	return sessions, nil
}
