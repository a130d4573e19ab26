package ledger

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
	"trading-journal/internal/metrics"
	"trading-journal/internal/types"
)

const maxLineBytes = 1 << 20

// JSONLFile is a journal stored as one JSON trade per line.
type JSONLFile struct {
	path string
	mu   sync.Mutex
}

var _ interfaces.Ledger = (*JSONLFile)(nil)

func NewJSONLFile(path string) *JSONLFile {
	return &JSONLFile{path: path}
}

func (j *JSONLFile) Path() string { return j.path }

// Append writes t as a new line, assigning an id when t has none.
func (j *JSONLFile) Append(ctx context.Context, t types.Trade) (types.Trade, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Date.IsZero() {
		return t, fmt.Errorf("trade %s: date is required", t.ID)
	}
	t.Status = normalizeStatus(string(t.Status), !t.PnL.IsZero())

	b, err := json.Marshal(t)
	if err != nil {
		return t, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return t, err
	}
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return t, err
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, string(b)); err != nil {
		return t, err
	}
	logger.Journal(ctx, "jsonl", "append", "trade_id", t.ID, "ticker", t.Ticker, "status", string(t.Status))
	return t, nil
}

// LoadTrades reads every trade. A missing file is an empty journal; lines
// that do not parse are skipped and counted.
func (j *JSONLFile) LoadTrades(ctx context.Context) ([]types.Trade, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return []types.Trade{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", j.path, err)
	}
	defer f.Close()

	trades := make([]types.Trade, 0)
	skipped := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var t types.Trade
		if err := json.Unmarshal([]byte(text), &t); err != nil || t.Date.IsZero() {
			skipped++
			logger.Warn(ctx, "Skipping malformed journal line", "path", j.path, "line", line, "error", err)
			continue
		}
		t.Status = normalizeStatus(string(t.Status), !t.PnL.IsZero())
		trades = append(trades, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read journal %s: %w", j.path, err)
	}

	recordLoad(ctx, "jsonl", trades, skipped)
	return trades, nil
}

// normalizeStatus upper-cases a status; a blank one is CLOSED when the trade
// has a realized result and OPEN otherwise.
func normalizeStatus(s string, hasPnL bool) types.Status {
	switch types.Status(strings.ToUpper(strings.TrimSpace(s))) {
	case types.StatusOpen:
		return types.StatusOpen
	case types.StatusClosed:
		return types.StatusClosed
	}
	if hasPnL {
		return types.StatusClosed
	}
	return types.StatusOpen
}

func recordLoad(ctx context.Context, source string, trades []types.Trade, skipped int) {
	p := Partition(trades)
	metrics.LedgerTradesLoaded.WithLabelValues(source, "open").Set(float64(len(p.Open)))
	metrics.LedgerTradesLoaded.WithLabelValues(source, "closed").Set(float64(len(p.Closed)))
	if skipped > 0 {
		metrics.LedgerSkippedRecords.WithLabelValues(source).Add(float64(skipped))
	}
	logger.Journal(ctx, source, "load",
		"open", len(p.Open),
		"closed", len(p.Closed),
		"skipped", skipped,
	)
}
