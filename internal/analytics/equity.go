package analytics

import (
	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

// EquityCurve is the folded equity history of a set of trades starting from
// a baseline. Money is kept in decimal so the curve ends exactly at
// baseline + sum(pnl); points expose float64 for rendering.
type EquityCurve struct {
	Points                 []types.EquityDataPoint
	StartingEquity         decimal.Decimal
	EndingEquity           decimal.Decimal
	Peak                   decimal.Decimal
	MaxDrawdown            decimal.Decimal
	MaxDrawdownPercent     float64
	MaxDrawdownDate        *types.Date
	CurrentDrawdown        decimal.Decimal
	CurrentDrawdownPercent float64
}

// bucket is the trades folded into a single equity point.
type bucket struct {
	start, end types.Date
	pnl        decimal.Decimal
	trades     int
	wins       int
	losses     int
	index      int
	tradeID    string
}

func (b *bucket) add(t types.Trade) {
	d := t.EffectiveDate()
	if b.trades == 0 || d.Before(b.start) {
		b.start = d
	}
	if b.trades == 0 || d.After(b.end) {
		b.end = d
	}
	b.pnl = b.pnl.Add(t.PnL)
	b.trades++
	switch t.PnL.Sign() {
	case 1:
		b.wins++
	case -1:
		b.losses++
	}
}

// equityFold carries the running state of the left fold over buckets.
type equityFold struct {
	cumulative decimal.Decimal
	peak       decimal.Decimal
	maxDD      decimal.Decimal
	maxDDPct   float64
	maxDDDate  *types.Date
	lastDD     decimal.Decimal
	lastDDPct  float64
	points     []types.EquityDataPoint
}

func newEquityFold(baseline decimal.Decimal, capacity int) *equityFold {
	return &equityFold{
		cumulative: baseline,
		peak:       baseline,
		points:     make([]types.EquityDataPoint, 0, capacity),
	}
}

func (f *equityFold) step(b bucket, withEnd bool) {
	f.cumulative = f.cumulative.Add(b.pnl)
	if f.cumulative.GreaterThan(f.peak) {
		f.peak = f.cumulative
	}
	dd := f.peak.Sub(f.cumulative)
	ddPct := 0.0
	if f.peak.IsPositive() {
		ddPct = finite(dd.InexactFloat64() / f.peak.InexactFloat64() * 100)
	}
	// Strict comparison: the first occurrence of a tied maximum is kept.
	if dd.GreaterThan(f.maxDD) {
		f.maxDD = dd
		day := b.start
		f.maxDDDate = &day
	}
	if ddPct > f.maxDDPct {
		f.maxDDPct = ddPct
	}
	f.lastDD, f.lastDDPct = dd, ddPct

	p := types.EquityDataPoint{
		Date:            b.start,
		PnL:             b.pnl.InexactFloat64(),
		Cumulative:      f.cumulative.InexactFloat64(),
		Peak:            f.peak.InexactFloat64(),
		Drawdown:        dd.InexactFloat64(),
		DrawdownPercent: ddPct,
		TradeCount:      b.trades,
		WinCount:        b.wins,
		LossCount:       b.losses,
		TradeIndex:      b.index,
		TradeID:         b.tradeID,
	}
	if withEnd {
		end := b.end
		p.DateEnd = &end
	}
	f.points = append(f.points, p)
}

func (f *equityFold) curve(baseline decimal.Decimal) EquityCurve {
	return EquityCurve{
		Points:                 f.points,
		StartingEquity:         baseline,
		EndingEquity:           f.cumulative,
		Peak:                   f.peak,
		MaxDrawdown:            f.maxDD,
		MaxDrawdownPercent:     f.maxDDPct,
		MaxDrawdownDate:        f.maxDDDate,
		CurrentDrawdown:        f.lastDD,
		CurrentDrawdownPercent: f.lastDDPct,
	}
}

// BuildEquityCurve folds trades into equity points starting at baseline.
// The input is not modified; a fresh slice of points is returned every call.
func BuildEquityCurve(trades []types.Trade, baseline decimal.Decimal, granularity types.Granularity) EquityCurve {
	sorted := append([]types.Trade(nil), trades...)
	sortChronological(sorted)

	buckets := bucketize(sorted, granularity)
	withEnd := granularity == types.GranularityWeek || granularity == types.GranularityMonth
	fold := newEquityFold(baseline, len(buckets))
	for _, b := range buckets {
		fold.step(b, withEnd)
	}
	return fold.curve(baseline)
}

func bucketize(sorted []types.Trade, granularity types.Granularity) []bucket {
	if granularity == types.GranularityTrade {
		out := make([]bucket, 0, len(sorted))
		for i, t := range sorted {
			b := bucket{pnl: decimal.Zero, index: i + 1, tradeID: t.ID}
			b.add(t)
			out = append(out, b)
		}
		return out
	}

	key := func(d types.Date) types.Date { return d }
	switch granularity {
	case types.GranularityWeek:
		key = types.Date.WeekStart
	case types.GranularityMonth:
		key = types.Date.MonthStart
	}

	var out []bucket
	var current types.Date
	for _, t := range sorted {
		k := key(t.EffectiveDate())
		if len(out) == 0 || !k.Equal(current) {
			out = append(out, bucket{pnl: decimal.Zero})
			current = k
		}
		out[len(out)-1].add(t)
	}
	return out
}

// DailyPnL is the net result of one trading day.
type DailyPnL struct {
	Date types.Date
	PnL  float64
}

// DailySeries extracts the per-day net PnL from day-granularity points.
func DailySeries(points []types.EquityDataPoint) []DailyPnL {
	out := make([]DailyPnL, len(points))
	for i, p := range points {
		out[i] = DailyPnL{Date: p.Date, PnL: p.PnL}
	}
	return out
}
