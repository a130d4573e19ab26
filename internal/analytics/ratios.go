package analytics

import (
	"math"

	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

// Caps reported when a ratio's denominator is zero but its numerator is
// positive ("better than measurable"). A zero or negative numerator over a
// zero denominator reports 0 ("nothing to measure").
const (
	ProfitFactorCap   = 10.0
	RiskRewardCap     = 10.0
	RecoveryFactorCap = 10.0
)

// TradingDaysPerYear annualizes the daily Sharpe ratio.
const TradingDaysPerYear = 252

// Ratios are lifetime trade statistics over every closed trade.
type Ratios struct {
	TotalTrades     int
	WinCount        int
	LossCount       int
	BreakEvenCount  int
	SwingTrades     int
	NetPnL          float64
	GrossProfit     float64
	GrossLoss       float64
	LargestWin      float64
	LargestLoss     float64
	WinRate         float64
	ProfitFactor    float64
	AvgWin          float64
	AvgLoss         float64
	RiskRewardRatio float64
	Expectancy      float64
	RecoveryFactor  float64
	SharpeRatio     float64
	WinDays         int
	LossDays        int
}

// boundedRatio divides num by den, substituting ceiling when den is zero and num
// is positive, and 0 when den is zero otherwise.
func boundedRatio(num, den, ceiling float64) float64 {
	if den == 0 {
		if num > 0 {
			return ceiling
		}
		return 0
	}
	return finite(num / den)
}

// finite maps NaN and ±Inf to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ComputeRatios derives win/loss ratios from closed trades, the Sharpe ratio
// from day-level PnL, and the recovery factor from maxDrawdown.
func ComputeRatios(closed []types.Trade, days []DailyPnL, maxDrawdown float64) Ratios {
	var r Ratios
	gross, loss, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, t := range closed {
		if !t.IsClosed() {
			continue
		}
		r.TotalTrades++
		net = net.Add(t.PnL)
		if t.IsSwing() {
			r.SwingTrades++
		}
		switch t.PnL.Sign() {
		case 1:
			r.WinCount++
			gross = gross.Add(t.PnL)
			if v := t.PnL.InexactFloat64(); v > r.LargestWin {
				r.LargestWin = v
			}
		case -1:
			r.LossCount++
			loss = loss.Add(t.PnL.Abs())
			if v := t.PnL.InexactFloat64(); v < r.LargestLoss {
				r.LargestLoss = v
			}
		default:
			r.BreakEvenCount++
		}
	}
	r.NetPnL = net.InexactFloat64()
	r.GrossProfit = gross.InexactFloat64()
	r.GrossLoss = loss.InexactFloat64()

	if r.TotalTrades > 0 {
		r.WinRate = float64(r.WinCount) / float64(r.TotalTrades) * 100
	}
	r.ProfitFactor = boundedRatio(r.GrossProfit, r.GrossLoss, ProfitFactorCap)
	if r.WinCount > 0 {
		r.AvgWin = r.GrossProfit / float64(r.WinCount)
	}
	if r.LossCount > 0 {
		r.AvgLoss = r.GrossLoss / float64(r.LossCount)
	}
	r.RiskRewardRatio = boundedRatio(r.AvgWin, r.AvgLoss, RiskRewardCap)
	if r.TotalTrades > 0 {
		winFrac := float64(r.WinCount) / float64(r.TotalTrades)
		lossFrac := float64(r.LossCount) / float64(r.TotalTrades)
		r.Expectancy = finite(winFrac*r.AvgWin - lossFrac*r.AvgLoss)
	}
	r.RecoveryFactor = boundedRatio(r.NetPnL, maxDrawdown, RecoveryFactorCap)

	for _, d := range days {
		switch daySign(d.PnL) {
		case 1:
			r.WinDays++
		case -1:
			r.LossDays++
		}
	}
	r.SharpeRatio = SharpeRatio(days)
	return r
}

// SharpeRatio is the mean daily PnL over its sample standard deviation,
// annualized. It is 0 with fewer than two days or no variance.
func SharpeRatio(days []DailyPnL) float64 {
	n := len(days)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, d := range days {
		sum += d.PnL
	}
	mean := sum / float64(n)
	var sq float64
	for _, d := range days {
		diff := d.PnL - mean
		sq += diff * diff
	}
	std := math.Sqrt(sq / float64(n-1))
	if std == 0 {
		return 0
	}
	return finite(mean / std * math.Sqrt(TradingDaysPerYear))
}
