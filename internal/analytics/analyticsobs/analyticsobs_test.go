package analyticsobs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"trading-journal/internal/logger"
	"trading-journal/internal/types"
)

type stubEngine struct {
	stats *types.TradingStats
	view  *types.FilteredView
	err   error
	calls int
}

func (s *stubEngine) Stats(ctx context.Context, trades []types.Trade) (*types.TradingStats, error) {
	s.calls++
	return s.stats, s.err
}

func (s *stubEngine) View(ctx context.Context, trades []types.Trade, filter types.FilterSpec) (*types.FilteredView, error) {
	s.calls++
	return s.view, s.err
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := logger.InitWithConfig(logger.LogConfig{Level: "DEBUG", Format: "json", Output: &buf}); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestWrapStatsPassesThrough(t *testing.T) {
	logs := captureLogs(t)
	inner := &stubEngine{stats: &types.TradingStats{TotalTrades: 4, Consistency: types.Consistency{Score: 80, Grade: "B"}}}
	eng := Wrap(inner)

	stats, err := eng.Stats(context.Background(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stats != inner.stats || inner.calls != 1 {
		t.Error("Expected the wrapped engine's result")
	}
	if !strings.Contains(logs.String(), "Stats computed") {
		t.Errorf("Expected a stats log line, got %s", logs.String())
	}
}

func TestWrapStatsEmpty(t *testing.T) {
	logs := captureLogs(t)
	stats, err := Wrap(&stubEngine{}).Stats(context.Background(), nil)
	if err != nil || stats != nil {
		t.Errorf("Expected nil stats and no error, got %v / %v", stats, err)
	}
	if !strings.Contains(logs.String(), "No closed trades") {
		t.Errorf("Expected empty-journal log line, got %s", logs.String())
	}
}

func TestWrapViewError(t *testing.T) {
	logs := captureLogs(t)
	boom := errors.New("boom")
	_, err := Wrap(&stubEngine{err: boom}).View(context.Background(), nil, types.FilterSpec{Period: types.PeriodAll})
	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped error, got %v", err)
	}
	if !strings.Contains(logs.String(), "Filtered view failed") {
		t.Errorf("Expected failure log line, got %s", logs.String())
	}
}

func TestWrapView(t *testing.T) {
	captureLogs(t)
	inner := &stubEngine{view: &types.FilteredView{Period: types.PeriodYTD, TradeCount: 2, Data: make([]types.EquityDataPoint, 2)}}
	view, err := Wrap(inner).View(context.Background(), nil, types.FilterSpec{Period: types.PeriodYTD})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if view.TradeCount != 2 {
		t.Errorf("Expected 2 trades, got %d", view.TradeCount)
	}
}
