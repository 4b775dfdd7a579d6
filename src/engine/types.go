package engine

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// MessageKind mirrors the LOBSTER event type codes 1-7.
type MessageKind int

const (
	KindSubmission       MessageKind = 1
	KindPartialCancel    MessageKind = 2
	KindDeletion         MessageKind = 3
	KindVisibleExecution MessageKind = 4
	KindHiddenExecution  MessageKind = 5
	KindCrossTrade       MessageKind = 6
	KindHalt             MessageKind = 7
)

// IsTrade reports whether the event is an execution. Hidden executions never
// touch the visible book but still count as trades for burst segmentation.
func (k MessageKind) IsTrade() bool {
	return k == KindVisibleExecution || k == KindHiddenExecution
}

// Message is one LOBSTER event. Time is seconds after midnight with
// fractional precision; Price is dollars * 10000 (integer ticks).
type Message struct {
	Time    float64
	Kind    MessageKind
	OrderID int64
	Size    int64
	Price   int64
	Side    Side
}

// RestingOrder lives in the book between its submission and its deletion or
// full fill. It exists in the order index iff Size > 0.
type RestingOrder struct {
	Price int64
	Size  int64
	Side  Side
}

// BurstDirection classifies a finished burst: 1 buy, -1 sell, 0 mixed.
type BurstDirection int

const (
	DirectionBuy   BurstDirection = 1
	DirectionSell  BurstDirection = -1
	DirectionMixed BurstDirection = 0
)

// Burst is one contiguous run of trades with no inter-trade gap exceeding
// the silence threshold. Mutated while the interval is open, finalized
// exactly once at closure, never touched again.
type Burst struct {
	ID         int64 // order id of the trade that opened the interval
	StartTime  float64
	EndTime    float64
	Direction  BurstDirection
	Volume     int64
	TradeCount int
	StartPrice float64 // last known mid before the interval began
	EndPrice   float64 // mid at interval close
	PeakPrice  float64 // most extreme mid reached, direction-dependent
}

// MidSnapshot is one (time, mid) observation in the snapshot log.
type MidSnapshot struct {
	Time float64
	Mid  float64
}
