package report

import (
	"fmt"
	"io"
	"strings"

	"trading-journal/internal/types"
)

const rule = "═══════════════════════════════════════════════════════════════"

// Summary prints a human readable performance report. stats may be nil when
// the journal has no closed trades; view may be nil when no window was asked for.
func Summary(w io.Writer, stats *types.TradingStats, view *types.FilteredView) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "                    TRADING PERFORMANCE")
	fmt.Fprintln(w, rule)

	if stats == nil {
		fmt.Fprintln(w, "No closed trades yet.")
		return
	}

	fmt.Fprintf(w, "Equity:             %s → %s (peak %s)\n", money(stats.StartingEquity), money(stats.CurrentEquity), money(stats.Peak))
	fmt.Fprintf(w, "Net P&L:            all %s (%d) | ytd %s (%d) | last year %s (%d)\n",
		money(stats.AllTime.PnL), stats.AllTime.Trades,
		money(stats.YTD.PnL), stats.YTD.Trades,
		money(stats.LastYear.PnL), stats.LastYear.Trades)
	fmt.Fprintf(w, "                    mtd %s (%d) | wtd %s (%d)\n",
		money(stats.MTD.PnL), stats.MTD.Trades,
		money(stats.WTD.PnL), stats.WTD.Trades)
	fmt.Fprintf(w, "Trades:             %d (%d W / %d L / %d BE, %d swing)\n",
		stats.TotalTrades, stats.WinCount, stats.LossCount, stats.BreakEvenCount, stats.SwingTrades)
	fmt.Fprintf(w, "Win rate:           %.1f%%   Days: %d up / %d down\n", stats.WinRate, stats.WinDays, stats.LossDays)
	fmt.Fprintf(w, "Profit factor:      %.2f     Risk/reward: %.2f\n", stats.ProfitFactor, stats.RiskRewardRatio)
	fmt.Fprintf(w, "Avg win / loss:     %s / %s   Expectancy: %s\n", money(stats.AvgWin), money(stats.AvgLoss), money(stats.Expectancy))
	fmt.Fprintf(w, "Sharpe:             %.2f     Recovery factor: %.2f\n", stats.SharpeRatio, stats.RecoveryFactor)

	maxDDAt := ""
	if stats.MaxDrawdownDate != nil {
		maxDDAt = " on " + stats.MaxDrawdownDate.String()
	}
	fmt.Fprintf(w, "Max drawdown:       %s (%.2f%%)%s\n", money(stats.MaxDrawdown), stats.MaxDrawdownPercent, maxDDAt)
	fmt.Fprintf(w, "Current drawdown:   %s (%.2f%%)\n", money(stats.CurrentDrawdown), stats.CurrentDrawdownPercent)

	streak := "none"
	if stats.CurrentStreakType != types.StreakNone {
		streak = fmt.Sprintf("%d %s", stats.CurrentStreak, stats.CurrentStreakType)
	}
	fmt.Fprintf(w, "Streaks:            current %s | longest win %d | longest loss %d\n",
		streak, stats.LongestWinStreak, stats.LongestLossStreak)

	c := stats.Consistency
	fmt.Fprintf(w, "Consistency:        %d/100 (%s)  win %.1f | pf %.1f | dd %.1f | rr %.1f\n",
		c.Score, c.Grade, c.WinRateScore, c.ProfitFactorScore, c.DrawdownScore, c.RiskRewardScore)

	if view == nil {
		return
	}
	fmt.Fprintln(w, rule)
	rangeText := "n/a"
	if view.DateRange != nil {
		rangeText = view.DateRange.Start.String() + " .. " + view.DateRange.End.String()
	}
	fmt.Fprintf(w, "Window:             %s [%s] by %s\n", strings.ToUpper(string(view.Period)), rangeText, view.Granularity)
	if view.TradeCount == 0 {
		fmt.Fprintln(w, "No trades in the selected window.")
		return
	}
	fmt.Fprintf(w, "Trades in window:   %d   %s → %s (%s)\n",
		view.TradeCount, money(view.StartingEquity), money(view.EndingEquity), money(view.NetPnL))
}
