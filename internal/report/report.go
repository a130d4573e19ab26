package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"trading-journal/internal/types"
)

// EquityCSVPath is where the equity curve for period is written on day.
func EquityCSVPath(dir string, period types.Period, day types.Date) string {
	return filepath.Join(dir, "equity", fmt.Sprintf("%s-%s.csv", day, period))
}

// WriteEquityCSV writes one row per equity point followed by a TOTAL row.
// An empty view still produces the header and TOTAL rows.
func WriteEquityCSV(path string, view *types.FilteredView) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := EncodeEquityCSV(out, view); err != nil {
		return err
	}
	return out.Close()
}

func EncodeEquityCSV(w io.Writer, view *types.FilteredView) error {
	cw := csv.NewWriter(w)
	headers := []string{"date", "date_end", "trade_index", "trades", "wins", "losses", "pnl", "cumulative", "peak", "drawdown", "drawdown_pct"}
	if err := cw.Write(headers); err != nil {
		return err
	}
	var trades, wins, losses int
	for _, p := range view.Data {
		end := ""
		if p.DateEnd != nil {
			end = p.DateEnd.String()
		}
		idx := ""
		if p.TradeIndex > 0 {
			idx = strconv.Itoa(p.TradeIndex)
		}
		rec := []string{
			p.Date.String(), end, idx,
			strconv.Itoa(p.TradeCount), strconv.Itoa(p.WinCount), strconv.Itoa(p.LossCount),
			money(p.PnL), money(p.Cumulative), money(p.Peak), money(p.Drawdown),
			fmt.Sprintf("%.2f", p.DrawdownPercent),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
		trades += p.TradeCount
		wins += p.WinCount
		losses += p.LossCount
	}
	_ = cw.Write([]string{"TOTAL", "", "", strconv.Itoa(trades), strconv.Itoa(wins), strconv.Itoa(losses), money(view.NetPnL), money(view.EndingEquity), "", "", ""})
	cw.Flush()
	return cw.Error()
}

// WriteStatsJSON writes stats as indented JSON. Nil stats are written as null.
func WriteStatsJSON(path string, stats *types.TradingStats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
