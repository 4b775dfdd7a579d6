package analysis

import (
	"math"

	"burst-engine/src/engine"
)

// Permanence measures how much of a burst's peak price impact survived to a
// later observation: direction x (mid - start) / |peak - start|. A value of
// 1 means the move held fully in the burst's direction, 0 means it fully
// reverted. Bursts with zero peak impact have no defined permanence and
// yield NaN.
func Permanence(b engine.Burst, mid float64) float64 {
	peakImpact := math.Abs(b.PeakPrice - b.StartPrice)
	if peakImpact == 0 {
		return math.NaN()
	}
	return float64(b.Direction) * (mid - b.StartPrice) / peakImpact
}
