package analytics

import (
	"math"
	"testing"

	"trading-journal/internal/types"
)

func TestProfitFactorWithoutLosses(t *testing.T) {
	trades := []types.Trade{
		closedTrade("t1", "2024-01-02", 200),
		closedTrade("t2", "2024-01-03", 300),
	}
	r := ComputeRatios(trades, nil, 0)

	if r.GrossProfit != 500 {
		t.Errorf("Expected gross profit 500, got %.2f", r.GrossProfit)
	}
	if r.ProfitFactor != ProfitFactorCap {
		t.Errorf("Expected profit factor %.0f, got %f", ProfitFactorCap, r.ProfitFactor)
	}
	if r.RiskRewardRatio != RiskRewardCap {
		t.Errorf("Expected risk/reward %.0f, got %f", RiskRewardCap, r.RiskRewardRatio)
	}
	if r.RecoveryFactor != RecoveryFactorCap {
		t.Errorf("Expected recovery factor %.0f, got %f", RecoveryFactorCap, r.RecoveryFactor)
	}
}

func TestRatiosWithoutWins(t *testing.T) {
	trades := []types.Trade{
		closedTrade("t1", "2024-01-02", -20),
		closedTrade("t2", "2024-01-03", -30),
	}
	r := ComputeRatios(trades, nil, 50)

	if r.ProfitFactor != 0 || r.RiskRewardRatio != 0 {
		t.Errorf("Expected zero profit factor and risk/reward, got %f / %f", r.ProfitFactor, r.RiskRewardRatio)
	}
	if r.RecoveryFactor != -1 {
		t.Errorf("Expected recovery factor -1, got %f", r.RecoveryFactor)
	}
	if r.LargestLoss != -30 {
		t.Errorf("Expected largest loss -30, got %.2f", r.LargestLoss)
	}
	if r.Expectancy != -25 {
		t.Errorf("Expected expectancy -25, got %.2f", r.Expectancy)
	}
}

func TestComputeRatiosMixed(t *testing.T) {
	swing := closedTrade("t4", "2024-01-04", 60)
	cd := types.MustParseDate("2024-01-08")
	swing.CloseDate = &cd
	trades := []types.Trade{
		closedTrade("t1", "2024-01-02", 100),
		closedTrade("t2", "2024-01-03", -50),
		closedTrade("t3", "2024-01-03", 0),
		swing,
		openTrade("o1", "2024-01-09"),
	}
	r := ComputeRatios(trades, days(100, -50, 60), 50)

	if r.TotalTrades != 4 {
		t.Errorf("Expected 4 closed trades, got %d", r.TotalTrades)
	}
	if r.WinCount != 2 || r.LossCount != 1 || r.BreakEvenCount != 1 {
		t.Errorf("Expected 2/1/1 win/loss/even, got %d/%d/%d", r.WinCount, r.LossCount, r.BreakEvenCount)
	}
	if r.SwingTrades != 1 {
		t.Errorf("Expected 1 swing trade, got %d", r.SwingTrades)
	}
	if r.WinRate != 50 {
		t.Errorf("Expected win rate 50, got %.2f", r.WinRate)
	}
	if !approx(r.ProfitFactor, 160.0/50) {
		t.Errorf("Expected profit factor 3.2, got %f", r.ProfitFactor)
	}
	if r.AvgWin != 80 || r.AvgLoss != 50 {
		t.Errorf("Expected avg win/loss 80/50, got %.2f/%.2f", r.AvgWin, r.AvgLoss)
	}
	if !approx(r.RiskRewardRatio, 1.6) {
		t.Errorf("Expected risk/reward 1.6, got %f", r.RiskRewardRatio)
	}
	// 0.5*80 - 0.25*50
	if !approx(r.Expectancy, 27.5) {
		t.Errorf("Expected expectancy 27.5, got %f", r.Expectancy)
	}
	if !approx(r.RecoveryFactor, 110.0/50) {
		t.Errorf("Expected recovery factor 2.2, got %f", r.RecoveryFactor)
	}
	if r.WinDays != 2 || r.LossDays != 1 {
		t.Errorf("Expected 2 up days and 1 down day, got %d/%d", r.WinDays, r.LossDays)
	}
}

func TestSharpeRatio(t *testing.T) {
	got := SharpeRatio(days(100, -50, 200, -30, -20))
	// mean 40, sample variance 45800/4
	want := 40 / math.Sqrt(11450) * math.Sqrt(252)
	if !approx(got, want) {
		t.Errorf("Expected sharpe %f, got %f", want, got)
	}

	if SharpeRatio(days(100)) != 0 {
		t.Error("Expected sharpe 0 for a single day")
	}
	if SharpeRatio(days(10, 10, 10)) != 0 {
		t.Error("Expected sharpe 0 without variance")
	}
}

func TestBoundedRatioIsFinite(t *testing.T) {
	tests := []struct {
		num, den, want float64
	}{
		{10, 0, 10},
		{0, 0, 0},
		{-5, 0, 0},
		{6, 3, 2},
		{math.Inf(1), 1, 0},
		{math.NaN(), 1, 0},
	}
	for _, tt := range tests {
		got := boundedRatio(tt.num, tt.den, 10)
		if got != tt.want {
			t.Errorf("boundedRatio(%v, %v): expected %v, got %v", tt.num, tt.den, tt.want, got)
		}
	}
}
