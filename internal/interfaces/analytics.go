package interfaces

import (
	"context"

	"trading-journal/internal/types"
)

// Engine turns a snapshot of journal trades into performance analytics.
// Implementations must not mutate the trades slice.
type Engine interface {
	// Stats returns lifetime statistics over the CLOSED trades, or nil when
	// there are none.
	Stats(ctx context.Context, trades []types.Trade) (*types.TradingStats, error)

	// View returns the equity curve of the window selected by filter.
	View(ctx context.Context, trades []types.Trade, filter types.FilterSpec) (*types.FilteredView, error)
}
