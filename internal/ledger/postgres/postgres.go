package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
	"trading-journal/internal/types"
)

const selectTrades = `
SELECT id, trade_date, close_date, trade_time, ticker, direction, asset_type,
       entry_price, exit_price, size, pnl, tags, status, notes
FROM trades
ORDER BY COALESCE(close_date, trade_date), trade_time NULLS FIRST, id`

// Ledger reads journal trades from a PostgreSQL "trades" table.
type Ledger struct {
	db *sql.DB
}

var _ interfaces.Ledger = (*Ledger)(nil)

// Open connects to dsn, retrying the initial ping with exponential backoff
// for up to maxElapsed.
func Open(ctx context.Context, dsn string, maxElapsed time.Duration) (*Ledger, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed
	operation := func() error {
		if err := db.PingContext(ctx); err != nil {
			logger.Warn(ctx, "Postgres ping failed, retrying", "error", err)
			return err
		}
		return nil
	}
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect postgres after retries: %w", err)
	}
	return &Ledger{db: db}, nil
}

// New wraps an existing connection pool.
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// row mirrors one record of the trades table.
type row struct {
	ID         string
	TradeDate  time.Time
	CloseDate  sql.NullTime
	TradeTime  sql.NullString
	Ticker     string
	Direction  string
	AssetType  string
	EntryPrice decimal.NullDecimal
	ExitPrice  decimal.NullDecimal
	Size       decimal.NullDecimal
	PnL        decimal.NullDecimal
	Tags       []string
	Status     string
	Notes      sql.NullString
}

func (l *Ledger) LoadTrades(ctx context.Context) ([]types.Trade, error) {
	rows, err := l.db.QueryContext(ctx, selectTrades)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	trades := make([]types.Trade, 0)
	for rows.Next() {
		var r row
		if err := rows.Scan(
			&r.ID, &r.TradeDate, &r.CloseDate, &r.TradeTime, &r.Ticker, &r.Direction, &r.AssetType,
			&r.EntryPrice, &r.ExitPrice, &r.Size, &r.PnL, pq.Array(&r.Tags), &r.Status, &r.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, r.trade())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	logger.Journal(ctx, "postgres", "load", "trades", len(trades))
	return trades, nil
}

// trade converts a row. Database DATE columns arrive as midnight UTC, so the
// calendar day is read in UTC.
func (r row) trade() types.Trade {
	t := types.Trade{
		ID:         r.ID,
		Date:       types.DateOf(r.TradeDate.UTC()),
		Ticker:     r.Ticker,
		Direction:  types.Direction(r.Direction),
		EntryPrice: r.EntryPrice.Decimal,
		ExitPrice:  r.ExitPrice.Decimal,
		Size:       r.Size.Decimal,
		PnL:        r.PnL.Decimal,
		Tags:       r.Tags,
		Status:     types.StatusOpen,
		Notes:      r.Notes.String,
	}
	if r.CloseDate.Valid {
		cd := types.DateOf(r.CloseDate.Time.UTC())
		t.CloseDate = &cd
	}
	if r.TradeTime.Valid {
		t.Time = r.TradeTime.String
	}
	if a, ok := types.ParseAssetType(r.AssetType); ok {
		t.AssetType = a
	}
	if types.Status(strings.ToUpper(r.Status)) == types.StatusClosed {
		t.Status = types.StatusClosed
	}
	return t
}
