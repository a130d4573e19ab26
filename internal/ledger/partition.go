package ledger

import "trading-journal/internal/types"

// Partitioned splits a journal by status. Input order is preserved.
type Partitioned struct {
	Open   []types.Trade
	Closed []types.Trade
}

// Partition separates OPEN from CLOSED trades. Only Closed may reach the
// analytics; an open position has no realized PnL. Trades with any other
// status land in neither slice.
func Partition(trades []types.Trade) Partitioned {
	p := Partitioned{
		Open:   make([]types.Trade, 0),
		Closed: make([]types.Trade, 0, len(trades)),
	}
	for _, t := range trades {
		switch t.Status {
		case types.StatusOpen:
			p.Open = append(p.Open, t)
		case types.StatusClosed:
			p.Closed = append(p.Closed, t)
		}
	}
	return p
}
