package analytics

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

func closedTrade(id, date string, pnl float64, tags ...string) types.Trade {
	return types.Trade{
		ID:        id,
		Date:      types.MustParseDate(date),
		Ticker:    "SPY",
		Direction: types.Long,
		AssetType: types.AssetStock,
		PnL:       decimal.NewFromFloat(pnl),
		Tags:      tags,
		Status:    types.StatusClosed,
	}
}

func openTrade(id, date string) types.Trade {
	t := closedTrade(id, date, 0)
	t.Status = types.StatusOpen
	return t
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// scenarioTrades is five consecutive trading days, one trade each.
func scenarioTrades() []types.Trade {
	return []types.Trade{
		closedTrade("a1", "2024-03-04", 100),
		closedTrade("a2", "2024-03-05", -50),
		closedTrade("a3", "2024-03-06", 200),
		closedTrade("a4", "2024-03-07", -30),
		closedTrade("a5", "2024-03-08", -20),
	}
}

func assertCurveInvariants(t *testing.T, baseline float64, points []types.EquityDataPoint) {
	t.Helper()
	prevCum, prevPeak := baseline, baseline
	for i, p := range points {
		if !approx(p.Cumulative, prevCum+p.PnL) {
			t.Errorf("point %d: expected cumulative %.2f, got %.2f", i, prevCum+p.PnL, p.Cumulative)
		}
		if p.Peak < prevPeak || p.Peak < p.Cumulative {
			t.Errorf("point %d: peak %.2f not a running maximum", i, p.Peak)
		}
		if p.Drawdown < 0 || !approx(p.Drawdown, p.Peak-p.Cumulative) {
			t.Errorf("point %d: expected drawdown %.2f, got %.2f", i, p.Peak-p.Cumulative, p.Drawdown)
		}
		if p.DrawdownPercent < 0 || p.DrawdownPercent > 100 {
			t.Errorf("point %d: drawdown percent out of range: %.2f", i, p.DrawdownPercent)
		}
		prevCum, prevPeak = p.Cumulative, p.Peak
	}
}
