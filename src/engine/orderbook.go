package engine

import (
	"github.com/google/btree"
)

type priceLevel struct {
	Price int64
	Size  int64 // total resting size at this price
}

type bidLevelItem struct {
	Level *priceLevel
}

// Less is inverted so the tree's Min() is the highest bid.
func (p *bidLevelItem) Less(than btree.Item) bool {
	other := than.(*bidLevelItem)
	return p.Level.Price > other.Level.Price
}

type askLevelItem struct {
	Level *priceLevel
}

func (p *askLevelItem) Less(than btree.Item) bool {
	other := than.(*askLevelItem)
	return p.Level.Price < other.Level.Price
}

// OrderBook reconstructs the visible limit order book from an incremental
// LOBSTER event stream. The order index is authoritative; the per-side
// price-level trees are derived aggregates kept consistent on every mutation.
// One instance serves one session and is never shared, so there is no locking.
type OrderBook struct {
	Bids   *btree.BTree // sorted descending (highest first)
	Asks   *btree.BTree // sorted ascending (lowest first)
	Orders map[int64]*RestingOrder
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		Bids:   btree.New(32),
		Asks:   btree.New(32),
		Orders: make(map[int64]*RestingOrder),
	}
}

// Reset clears all state for a new trading day.
func (ob *OrderBook) Reset() {
	ob.Bids.Clear(false)
	ob.Asks.Clear(false)
	ob.Orders = make(map[int64]*RestingOrder)
}

// Process applies a single message to the book and reports whether the BBO
// (best bid or best ask) changed. Submissions with non-positive price or
// size and references to unknown order ids are dropped silently: replay
// logs legitimately reference orders submitted before the reconstruction
// window starts.
func (ob *OrderBook) Process(msg Message) bool {
	oldBid := ob.BestBid()
	oldAsk := ob.BestAsk()

	switch msg.Kind {
	case KindSubmission:
		ob.addOrder(msg.OrderID, msg.Price, msg.Size, msg.Side)
	case KindPartialCancel, KindVisibleExecution:
		ob.reduceOrder(msg.OrderID, msg.Size)
	case KindDeletion:
		ob.deleteOrder(msg.OrderID)
	default:
		// hidden exec, cross trade, halt: no visible book change
	}

	return ob.BestBid() != oldBid || ob.BestAsk() != oldAsk
}

func (ob *OrderBook) addOrder(orderID, price, size int64, side Side) {
	if price <= 0 || size <= 0 {
		return
	}

	// ids are unique among live orders; a stale entry is simply overwritten
	ob.Orders[orderID] = &RestingOrder{Price: price, Size: size, Side: side}

	level := ob.levelFor(side, price)
	if level == nil {
		level = &priceLevel{Price: price}
		if side == SideBuy {
			ob.Bids.ReplaceOrInsert(&bidLevelItem{Level: level})
		} else {
			ob.Asks.ReplaceOrInsert(&askLevelItem{Level: level})
		}
	}
	level.Size += size
}

func (ob *OrderBook) reduceOrder(orderID, sizeDelta int64) {
	order, exists := ob.Orders[orderID]
	if !exists {
		return
	}

	ob.shrinkLevel(order.Side, order.Price, sizeDelta)

	order.Size -= sizeDelta
	if order.Size <= 0 {
		delete(ob.Orders, orderID)
	}
}

func (ob *OrderBook) deleteOrder(orderID int64) {
	order, exists := ob.Orders[orderID]
	if !exists {
		return
	}

	ob.shrinkLevel(order.Side, order.Price, order.Size)
	delete(ob.Orders, orderID)
}

// shrinkLevel subtracts sizeDelta from the side's aggregate at price and
// removes the level once it drains.
func (ob *OrderBook) shrinkLevel(side Side, price, sizeDelta int64) {
	level := ob.levelFor(side, price)
	if level == nil {
		return
	}
	level.Size -= sizeDelta
	if level.Size <= 0 {
		// edge case: remove empty price level
		if side == SideBuy {
			ob.Bids.Delete(&bidLevelItem{Level: &priceLevel{Price: price}})
		} else {
			ob.Asks.Delete(&askLevelItem{Level: &priceLevel{Price: price}})
		}
	}
}

func (ob *OrderBook) levelFor(side Side, price int64) *priceLevel {
	if side == SideBuy {
		item := ob.Bids.Get(&bidLevelItem{Level: &priceLevel{Price: price}})
		if item == nil {
			return nil
		}
		return item.(*bidLevelItem).Level
	}
	item := ob.Asks.Get(&askLevelItem{Level: &priceLevel{Price: price}})
	if item == nil {
		return nil
	}
	return item.(*askLevelItem).Level
}

// BestBid returns the highest bid price in ticks, 0 when the side is empty.
func (ob *OrderBook) BestBid() int64 {
	if ob.Bids.Len() == 0 {
		return 0
	}
	return ob.Bids.Min().(*bidLevelItem).Level.Price
}

// BestAsk returns the lowest ask price in ticks, 0 when the side is empty.
func (ob *OrderBook) BestAsk() int64 {
	if ob.Asks.Len() == 0 {
		return 0
	}
	return ob.Asks.Min().(*askLevelItem).Level.Price
}

// MidPrice is the dollar mid, (bid+ask)/2/10000, or 0 while either side of
// the book is empty.
func (ob *OrderBook) MidPrice() float64 {
	bid := ob.BestBid()
	ask := ob.BestAsk()
	if bid == 0 || ask == 0 {
		return 0
	}
	return (float64(bid) + float64(ask)) / 2.0 / 10000.0
}

// IsValid reports whether both sides have at least one resting order.
func (ob *OrderBook) IsValid() bool {
	return ob.Bids.Len() > 0 && ob.Asks.Len() > 0
}

// LevelSize returns the aggregate resting size at a price on one side,
// 0 if the level is absent.
func (ob *OrderBook) LevelSize(side Side, price int64) int64 {
	level := ob.levelFor(side, price)
	if level == nil {
		return 0
	}
	return level.Size
}
