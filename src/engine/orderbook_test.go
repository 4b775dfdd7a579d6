package engine

import (
	"testing"
)

func submit(id, price, size int64, side Side) Message {
	return Message{Time: 0, Kind: KindSubmission, OrderID: id, Size: size, Price: price, Side: side}
}

// TestOrderBookSubmissionAndBBO verifies best bid/ask tracking over adds.
func TestOrderBookSubmissionAndBBO(t *testing.T) {
	book := NewOrderBook()

	book.Process(submit(1, 1505000, 100, SideBuy))
	book.Process(submit(2, 1506000, 200, SideBuy))
	book.Process(submit(3, 1504000, 300, SideBuy))
	book.Process(submit(4, 1507000, 100, SideSell))
	book.Process(submit(5, 1506500, 300, SideSell))

	if got := book.BestBid(); got != 1506000 {
		t.Errorf("Expected best bid 1506000, got: %d", got)
	}
	if got := book.BestAsk(); got != 1506500 {
		t.Errorf("Expected best ask 1506500, got: %d", got)
	}
	if !book.IsValid() {
		t.Fatal("Book with both sides populated should be valid")
	}
}

// TestOrderBookMidPrice checks mid = (bid+ask)/2/10000 and the undefined case.
func TestOrderBookMidPrice(t *testing.T) {
	book := NewOrderBook()

	if mid := book.MidPrice(); mid != 0 {
		t.Errorf("Empty book mid should be 0, got: %f", mid)
	}

	book.Process(submit(1, 1000000, 100, SideBuy))
	if mid := book.MidPrice(); mid != 0 {
		t.Errorf("One-sided book mid should be 0, got: %f", mid)
	}
	if book.IsValid() {
		t.Error("One-sided book should not be valid")
	}

	book.Process(submit(2, 1001000, 100, SideSell))
	want := (1000000.0 + 1001000.0) / 20000.0
	if mid := book.MidPrice(); mid != want {
		t.Errorf("Expected mid %f, got: %f", want, mid)
	}
}

// TestOrderBookDeletionRestoresLevel verifies a submit-then-delete round trip
// leaves the price level where it started.
func TestOrderBookDeletionRestoresLevel(t *testing.T) {
	book := NewOrderBook()

	book.Process(submit(1, 1000000, 100, SideBuy))
	book.Process(submit(2, 1001000, 50, SideSell))
	book.Process(submit(3, 1000000, 40, SideBuy))

	if got := book.LevelSize(SideBuy, 1000000); got != 140 {
		t.Fatalf("Expected level size 140, got: %d", got)
	}

	book.Process(Message{Kind: KindDeletion, OrderID: 3})

	if got := book.LevelSize(SideBuy, 1000000); got != 100 {
		t.Errorf("Expected level size back to 100, got: %d", got)
	}
	if !book.IsValid() {
		t.Error("Book should stay valid while other orders remain")
	}

	book.Process(Message{Kind: KindDeletion, OrderID: 1})
	if got := book.LevelSize(SideBuy, 1000000); got != 0 {
		t.Errorf("Drained level should be gone, got size: %d", got)
	}
	if book.BestBid() != 0 {
		t.Errorf("Expected no best bid, got: %d", book.BestBid())
	}
}

// TestOrderBookCancelToZeroRemovesOrder reduces an order to exactly zero and
// checks later references to its id are no-ops.
func TestOrderBookCancelToZeroRemovesOrder(t *testing.T) {
	book := NewOrderBook()

	book.Process(submit(1, 1000000, 100, SideBuy))
	book.Process(Message{Kind: KindPartialCancel, OrderID: 1, Size: 100})

	if _, exists := book.Orders[1]; exists {
		t.Fatal("Order reduced to zero should be removed from the index")
	}
	if book.Bids.Len() != 0 {
		t.Error("Drained bid level should be removed")
	}

	// subsequent operations against the dead id must not change anything
	if changed := book.Process(Message{Kind: KindPartialCancel, OrderID: 1, Size: 10}); changed {
		t.Error("Cancel against dead id should not change BBO")
	}
	if changed := book.Process(Message{Kind: KindVisibleExecution, OrderID: 1, Size: 10}); changed {
		t.Error("Execution against dead id should not change BBO")
	}
}

// TestOrderBookUnknownIDNoop covers the tolerance policy for references to
// orders the book never saw.
func TestOrderBookUnknownIDNoop(t *testing.T) {
	book := NewOrderBook()
	book.Process(submit(1, 1000000, 100, SideBuy))

	book.Process(Message{Kind: KindPartialCancel, OrderID: 99, Size: 10})
	book.Process(Message{Kind: KindDeletion, OrderID: 42})
	book.Process(Message{Kind: KindVisibleExecution, OrderID: 7, Size: 5})

	if got := book.LevelSize(SideBuy, 1000000); got != 100 {
		t.Errorf("Unknown-id events must leave levels untouched, got: %d", got)
	}
}

// TestOrderBookRejectsMalformedSubmissions drops non-positive price or size.
func TestOrderBookRejectsMalformedSubmissions(t *testing.T) {
	book := NewOrderBook()

	book.Process(submit(1, 0, 100, SideBuy))
	book.Process(submit(2, -5, 100, SideBuy))
	book.Process(submit(3, 1000000, 0, SideSell))
	book.Process(submit(4, 1000000, -1, SideSell))

	if len(book.Orders) != 0 {
		t.Errorf("Malformed submissions must be dropped, index has %d orders", len(book.Orders))
	}
	if book.Bids.Len() != 0 || book.Asks.Len() != 0 {
		t.Error("Malformed submissions must not create price levels")
	}
}

// TestOrderBookVisibleExecutionPartialFill reduces but keeps an order.
func TestOrderBookVisibleExecutionPartialFill(t *testing.T) {
	book := NewOrderBook()
	book.Process(submit(1, 1000000, 100, SideSell))

	book.Process(Message{Kind: KindVisibleExecution, OrderID: 1, Size: 30})

	order, exists := book.Orders[1]
	if !exists {
		t.Fatal("Partially filled order should remain in the index")
	}
	if order.Size != 70 {
		t.Errorf("Expected remaining size 70, got: %d", order.Size)
	}
	if got := book.LevelSize(SideSell, 1000000); got != 70 {
		t.Errorf("Expected level size 70, got: %d", got)
	}
}

// TestOrderBookHiddenEventsNoMutation: hidden exec, cross trade, and halt
// leave the visible book alone.
func TestOrderBookHiddenEventsNoMutation(t *testing.T) {
	book := NewOrderBook()
	book.Process(submit(1, 1000000, 100, SideBuy))
	book.Process(submit(2, 1002000, 100, SideSell))

	for _, kind := range []MessageKind{KindHiddenExecution, KindCrossTrade, KindHalt} {
		if changed := book.Process(Message{Kind: kind, OrderID: 1, Size: 50, Price: 1000000}); changed {
			t.Errorf("Kind %d should not change BBO", kind)
		}
	}
	if got := book.LevelSize(SideBuy, 1000000); got != 100 {
		t.Errorf("Hidden events must not touch aggregates, got: %d", got)
	}
}

// TestOrderBookProcessReportsBBOChange: only top-of-book moves count.
func TestOrderBookProcessReportsBBOChange(t *testing.T) {
	book := NewOrderBook()

	if changed := book.Process(submit(1, 1000000, 100, SideBuy)); !changed {
		t.Error("First bid should change BBO")
	}
	if changed := book.Process(submit(2, 999000, 100, SideBuy)); changed {
		t.Error("Bid below best should not change BBO")
	}
	if changed := book.Process(submit(3, 1001000, 100, SideBuy)); !changed {
		t.Error("New best bid should change BBO")
	}
	if changed := book.Process(submit(4, 1005000, 100, SideSell)); !changed {
		t.Error("First ask should change BBO")
	}
	if changed := book.Process(Message{Kind: KindDeletion, OrderID: 2}); changed {
		t.Error("Deleting a non-top order should not change BBO")
	}
	if changed := book.Process(Message{Kind: KindDeletion, OrderID: 3}); !changed {
		t.Error("Deleting the best bid should change BBO")
	}
}

// TestOrderBookBruteForceConsistency re-derives the BBO by scanning the
// order index after a mixed mutation sequence and compares it with the
// incrementally maintained aggregates.
func TestOrderBookBruteForceConsistency(t *testing.T) {
	book := NewOrderBook()

	msgs := []Message{
		submit(1, 1000000, 100, SideBuy),
		submit(2, 1001000, 50, SideBuy),
		submit(3, 1003000, 80, SideSell),
		submit(4, 1002500, 60, SideSell),
		{Kind: KindPartialCancel, OrderID: 2, Size: 20},
		submit(5, 1001500, 40, SideBuy),
		{Kind: KindVisibleExecution, OrderID: 4, Size: 60},
		{Kind: KindDeletion, OrderID: 1},
		submit(6, 1002800, 30, SideSell),
		{Kind: KindPartialCancel, OrderID: 5, Size: 40},
	}

	for _, msg := range msgs {
		book.Process(msg)

		var wantBid, wantAsk int64
		for _, order := range book.Orders {
			if order.Side == SideBuy {
				if order.Price > wantBid {
					wantBid = order.Price
				}
			} else {
				if wantAsk == 0 || order.Price < wantAsk {
					wantAsk = order.Price
				}
			}
		}

		if got := book.BestBid(); got != wantBid {
			t.Fatalf("After %+v: best bid %d, brute force says %d", msg, got, wantBid)
		}
		if got := book.BestAsk(); got != wantAsk {
			t.Fatalf("After %+v: best ask %d, brute force says %d", msg, got, wantAsk)
		}
	}
}

// TestOrderBookReset clears everything for a new day.
func TestOrderBookReset(t *testing.T) {
	book := NewOrderBook()
	book.Process(submit(1, 1000000, 100, SideBuy))
	book.Process(submit(2, 1002000, 100, SideSell))

	book.Reset()

	if len(book.Orders) != 0 || book.Bids.Len() != 0 || book.Asks.Len() != 0 {
		t.Error("Reset should clear index and both sides")
	}
	if book.IsValid() {
		t.Error("Reset book should not be valid")
	}
}
