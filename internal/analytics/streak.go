package analytics

import "trading-journal/internal/types"

// Streaks summarizes runs of winning and losing days.
type Streaks struct {
	Current     int
	CurrentType types.StreakType
	LongestWin  int
	LongestLoss int
}

func daySign(pnl float64) int {
	switch {
	case pnl > 0:
		return 1
	case pnl < 0:
		return -1
	}
	return 0
}

// AnalyzeStreaks works on day-level net PnL in chronological order. A flat
// day is neither a win nor a loss and breaks any running streak.
func AnalyzeStreaks(days []DailyPnL) Streaks {
	var s Streaks
	wins, losses := 0, 0
	for _, d := range days {
		switch daySign(d.PnL) {
		case 1:
			wins++
			losses = 0
		case -1:
			losses++
			wins = 0
		default:
			wins, losses = 0, 0
		}
		if wins > s.LongestWin {
			s.LongestWin = wins
		}
		if losses > s.LongestLoss {
			s.LongestLoss = losses
		}
	}

	if len(days) == 0 {
		return s
	}
	sign := daySign(days[len(days)-1].PnL)
	if sign == 0 {
		return s
	}
	s.CurrentType = types.StreakWin
	if sign < 0 {
		s.CurrentType = types.StreakLoss
	}
	for i := len(days) - 1; i >= 0 && daySign(days[i].PnL) == sign; i-- {
		s.Current++
	}
	return s
}
