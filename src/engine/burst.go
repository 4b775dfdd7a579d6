package engine

import "math"

// CloseRule decides whether the gap between the previous trade and the
// current one ends the open interval.
type CloseRule interface {
	ShouldClose(gap float64) bool
}

// SilenceGap closes an interval once the inter-trade gap strictly exceeds
// the threshold (seconds). Non-trade messages in between are ignored.
type SilenceGap struct {
	Threshold float64
}

func (s SilenceGap) ShouldClose(gap float64) bool {
	return gap > s.Threshold
}

// Classifier assigns direction and peak price to a closed interval.
type Classifier interface {
	Classify(b *Burst, buyCount, sellCount int, maxMid, minMid float64)
}

// RatioClassifier labels the interval Buy (Sell) when the buy (sell) share
// of trades meets Threshold, otherwise Mixed. Peak is the high for buys,
// the low for sells, and for mixed the extreme farthest from the start
// price, ties going to the upward extreme.
type RatioClassifier struct {
	Threshold float64
}

func (c RatioClassifier) Classify(b *Burst, buyCount, sellCount int, maxMid, minMid float64) {
	total := buyCount + sellCount
	if total == 0 {
		return
	}
	buyRatio := float64(buyCount) / float64(total)
	sellRatio := float64(sellCount) / float64(total)

	switch {
	case buyRatio >= c.Threshold:
		b.Direction = DirectionBuy
		b.PeakPrice = maxMid
	case sellRatio >= c.Threshold:
		b.Direction = DirectionSell
		b.PeakPrice = minMid
	default:
		b.Direction = DirectionMixed
		upMove := maxMid - b.StartPrice
		downMove := b.StartPrice - minMid
		if upMove >= downMove {
			b.PeakPrice = maxMid
		} else {
			b.PeakPrice = minMid
		}
	}
}

// AcceptFilter is the final gate on a closed interval.
type AcceptFilter interface {
	Accept(b *Burst) bool
}

// MinVolumeFilter accepts intervals whose traded volume meets the floor.
// A floor of 0 accepts everything.
type MinVolumeFilter struct {
	Min int64
}

func (f MinVolumeFilter) Accept(b *Burst) bool {
	return b.Volume >= f.Min
}

// BurstDetector segments the trade stream into discrete bursts under a
// silence-gap rule. Only trade messages (visible and hidden executions)
// drive state transitions; everything else just refreshes the last known
// mid. One instance serves one session.
type BurstDetector struct {
	closeRule  CloseRule
	classifier Classifier
	filter     AcceptFilter

	active        bool
	current       Burst
	lastTradeTime float64
	lastKnownMid  float64
	buyCount      int
	sellCount     int
	maxMid        float64
	minMid        float64
}

// NewBurstDetector builds a detector with the reference policies: silence
// gap closing, ratio classification, and an enforced minimum-volume gate.
func NewBurstDetector(silenceThreshold float64, minVolume int64, directionThreshold float64) *BurstDetector {
	return NewBurstDetectorWithPolicies(
		SilenceGap{Threshold: silenceThreshold},
		RatioClassifier{Threshold: directionThreshold},
		MinVolumeFilter{Min: minVolume},
	)
}

func NewBurstDetectorWithPolicies(closeRule CloseRule, classifier Classifier, filter AcceptFilter) *BurstDetector {
	return &BurstDetector{
		closeRule:  closeRule,
		classifier: classifier,
		filter:     filter,
	}
}

// Process consumes one message together with the book's current mid. When a
// trade arrives after a silence gap the open interval is closed first and,
// if accepted, returned with ok=true; the trade then opens the next
// interval. Non-trade messages only refresh the last known mid.
func (d *BurstDetector) Process(msg Message, currentMid float64) (Burst, bool) {
	if !msg.Kind.IsTrade() {
		d.lastKnownMid = currentMid
		return Burst{}, false
	}

	var finished Burst
	ok := false

	if d.active && d.closeRule.ShouldClose(msg.Time-d.lastTradeTime) {
		finished, ok = d.closeInterval()
	}

	if !d.active {
		d.openInterval(msg, currentMid)
	}

	// accumulate
	d.current.Volume += msg.Size
	if msg.Side == SideBuy {
		d.buyCount++
	} else {
		d.sellCount++
	}
	d.maxMid = math.Max(d.maxMid, currentMid)
	d.minMid = math.Min(d.minMid, currentMid)

	d.lastTradeTime = msg.Time
	d.lastKnownMid = currentMid

	return finished, ok
}

func (d *BurstDetector) openInterval(msg Message, currentMid float64) {
	d.active = true

	startPrice := currentMid
	if d.lastKnownMid != 0 {
		startPrice = d.lastKnownMid
	}

	d.current = Burst{
		ID:         msg.OrderID,
		StartTime:  msg.Time,
		Direction:  DirectionMixed, // decided at close
		StartPrice: startPrice,
	}
	d.buyCount = 0
	d.sellCount = 0
	// the opening tick is itself inside the tracked range
	d.maxMid = math.Max(startPrice, currentMid)
	d.minMid = math.Min(startPrice, currentMid)
}

// closeInterval finalizes the open interval: end markers, classification,
// acceptance. Returns the burst and whether it passed the filter.
func (d *BurstDetector) closeInterval() (Burst, bool) {
	d.current.EndTime = d.lastTradeTime
	d.current.EndPrice = d.lastKnownMid
	d.current.TradeCount = d.buyCount + d.sellCount

	d.classifier.Classify(&d.current, d.buyCount, d.sellCount, d.maxMid, d.minMid)

	d.active = false

	if !d.filter.Accept(&d.current) {
		return Burst{}, false
	}
	return d.current, true
}

// Flush closes a still-open interval at end of session. A second call
// returns ok=false.
func (d *BurstDetector) Flush() (Burst, bool) {
	if !d.active {
		return Burst{}, false
	}
	return d.closeInterval()
}

// Reset returns the detector to its idle, empty state.
func (d *BurstDetector) Reset() {
	d.active = false
	d.current = Burst{}
	d.lastTradeTime = 0
	d.lastKnownMid = 0
	d.buyCount = 0
	d.sellCount = 0
	d.maxMid = 0
	d.minMid = 0
}
