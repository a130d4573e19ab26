package analytics

import (
	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

// ComputeStats builds the lifetime statistics of the CLOSED trades in trades.
// It returns nil when there are none so callers can tell "no data" apart from
// a flat record.
func ComputeStats(trades []types.Trade, startingEquity decimal.Decimal, weights types.ConsistencyWeights, today types.Date) *types.TradingStats {
	closed := closedOnly(trades)
	if len(closed) == 0 {
		return nil
	}

	curve := BuildEquityCurve(closed, startingEquity, types.GranularityDay)
	days := DailySeries(curve.Points)
	streaks := AnalyzeStreaks(days)
	ratios := ComputeRatios(closed, days, curve.MaxDrawdown.InexactFloat64())

	s := &types.TradingStats{
		StartingEquity:         startingEquity.InexactFloat64(),
		CurrentEquity:          curve.EndingEquity.InexactFloat64(),
		EquityCurve:            curve.Points,
		Peak:                   curve.Peak.InexactFloat64(),
		MaxDrawdown:            curve.MaxDrawdown.InexactFloat64(),
		MaxDrawdownPercent:     curve.MaxDrawdownPercent,
		MaxDrawdownDate:        curve.MaxDrawdownDate,
		CurrentDrawdown:        curve.CurrentDrawdown.InexactFloat64(),
		CurrentDrawdownPercent: curve.CurrentDrawdownPercent,

		CurrentStreak:     streaks.Current,
		CurrentStreakType: streaks.CurrentType,
		LongestWinStreak:  streaks.LongestWin,
		LongestLossStreak: streaks.LongestLoss,

		TotalTrades:     ratios.TotalTrades,
		WinCount:        ratios.WinCount,
		LossCount:       ratios.LossCount,
		BreakEvenCount:  ratios.BreakEvenCount,
		SwingTrades:     ratios.SwingTrades,
		GrossProfit:     ratios.GrossProfit,
		GrossLoss:       ratios.GrossLoss,
		LargestWin:      ratios.LargestWin,
		LargestLoss:     ratios.LargestLoss,
		WinRate:         ratios.WinRate,
		ProfitFactor:    ratios.ProfitFactor,
		AvgWin:          ratios.AvgWin,
		AvgLoss:         ratios.AvgLoss,
		Expectancy:      ratios.Expectancy,
		RecoveryFactor:  ratios.RecoveryFactor,
		SharpeRatio:     ratios.SharpeRatio,
		RiskRewardRatio: ratios.RiskRewardRatio,
		WinDays:         ratios.WinDays,
		LossDays:        ratios.LossDays,
	}
	s.AllTime, s.YTD, s.LastYear, s.MTD, s.WTD = periodSummaries(closed, today)
	s.Consistency = ScoreConsistency(ConsistencyInputs{
		WinRate:            s.WinRate,
		ProfitFactor:       s.ProfitFactor,
		MaxDrawdownPercent: s.MaxDrawdownPercent,
		RiskRewardRatio:    s.RiskRewardRatio,
	}, weights)
	return s
}

// periodSummaries totals PnL and trade counts per calendar window relative
// to today, using each trade's effective date.
func periodSummaries(closed []types.Trade, today types.Date) (all, ytd, lastYear, mtd, wtd types.PeriodSummary) {
	week := types.DateRange{Start: today.WeekStart(), End: today.WeekStart().AddDays(6)}
	var sAll, sYTD, sLast, sMTD, sWTD decimal.Decimal
	for _, t := range closed {
		d := t.EffectiveDate()
		sAll = sAll.Add(t.PnL)
		all.Trades++
		switch d.Year() {
		case today.Year():
			sYTD = sYTD.Add(t.PnL)
			ytd.Trades++
			if d.Month() == today.Month() {
				sMTD = sMTD.Add(t.PnL)
				mtd.Trades++
			}
		case today.Year() - 1:
			sLast = sLast.Add(t.PnL)
			lastYear.Trades++
		}
		if week.Contains(d) {
			sWTD = sWTD.Add(t.PnL)
			wtd.Trades++
		}
	}
	all.PnL = sAll.InexactFloat64()
	ytd.PnL = sYTD.InexactFloat64()
	lastYear.PnL = sLast.InexactFloat64()
	mtd.PnL = sMTD.InexactFloat64()
	wtd.PnL = sWTD.InexactFloat64()
	return all, ytd, lastYear, mtd, wtd
}
