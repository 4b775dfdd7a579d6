package engine

import "sort"

// MidLog is an append-only, time-ascending log of mid-price observations.
// Entries are recorded only when the mid differs from the previously recorded
// value, so the log is sparse relative to the raw message stream. The driver
// feeds it in event order, which keeps times non-decreasing by construction.
type MidLog struct {
	snaps []MidSnapshot
}

func NewMidLog() *MidLog {
	return &MidLog{}
}

// Append records (time, mid) if mid differs from the last recorded value.
// Returns true when an entry was written.
func (l *MidLog) Append(time, mid float64) bool {
	if n := len(l.snaps); n > 0 && l.snaps[n-1].Mid == mid {
		return false
	}
	l.snaps = append(l.snaps, MidSnapshot{Time: time, Mid: mid})
	return true
}

// Lookup returns the last recorded mid at or before target. Targets before
// the first snapshot clamp to the first value, targets after the last clamp
// to the last. Returns 0 when the log is empty.
func (l *MidLog) Lookup(target float64) float64 {
	n := len(l.snaps)
	if n == 0 {
		return 0
	}
	if target < l.snaps[0].Time {
		return l.snaps[0].Mid
	}
	if target >= l.snaps[n-1].Time {
		return l.snaps[n-1].Mid
	}
	// first index with time > target; the entry before it is the answer
	idx := sort.Search(n, func(i int) bool {
		return l.snaps[i].Time > target
	})
	return l.snaps[idx-1].Mid
}

func (l *MidLog) Len() int {
	return len(l.snaps)
}

// Last returns the most recent mid, 0 when empty.
func (l *MidLog) Last() float64 {
	if len(l.snaps) == 0 {
		return 0
	}
	return l.snaps[len(l.snaps)-1].Mid
}

func (l *MidLog) Reset() {
	l.snaps = nil
}
