package interfaces

import (
	"context"

	"trading-journal/internal/types"
)

// Ledger is a source of journal trades, open and closed.
type Ledger interface {
	LoadTrades(ctx context.Context) ([]types.Trade, error)
}
