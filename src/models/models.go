package models

import "burst-engine/src/engine"

// BurstRecord is one finished burst joined with its session identity,
// forward mid-prices, and permanence ratios. This is the row shape the
// writer serializes.
type BurstRecord struct {
	Ticker string
	Date   string

	Burst engine.Burst

	CloseMid float64
	Mid1m    float64 // mid at end_time + 60s
	Mid3m    float64 // mid at end_time + 180s
	Mid5m    float64 // mid at end_time + 300s
	Mid10m   float64 // mid at end_time + 600s

	// Permanence = direction x (mid - start) / |peak - start|; NaN when the
	// burst had zero peak impact.
	PermClose float64
	Perm1m    float64
	Perm3m    float64
	Perm5m    float64
	Perm10m   float64
}

// SessionSummary is what one replayed day reports back to the driver.
type SessionSummary struct {
	Ticker       string
	Date         string
	Messages     int
	SkippedLines int
	Snapshots    int
	Bursts       int
}
