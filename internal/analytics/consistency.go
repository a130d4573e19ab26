package analytics

import (
	"math"

	"trading-journal/internal/types"
)

const subScoreMax = 25.0

// ConsistencyInputs are the measured values the score compares to targets.
type ConsistencyInputs struct {
	WinRate            float64
	ProfitFactor       float64
	MaxDrawdownPercent float64
	RiskRewardRatio    float64
}

// ScoreConsistency rates performance 0-100 from four 0-25 parts. A part whose
// target is zero or negative scores 0.
func ScoreConsistency(in ConsistencyInputs, w types.ConsistencyWeights) types.Consistency {
	c := types.Consistency{
		WinRateScore:      towardTarget(in.WinRate, w.WinRateTarget),
		ProfitFactorScore: towardTarget(in.ProfitFactor, w.ProfitFactorTarget),
		DrawdownScore:     underLimit(in.MaxDrawdownPercent, w.MaxDrawdownLimit),
		RiskRewardScore:   towardTarget(in.RiskRewardRatio, w.RiskRewardTarget),
	}
	total := c.WinRateScore + c.ProfitFactorScore + c.DrawdownScore + c.RiskRewardScore
	c.Score = int(math.Round(total))
	c.Grade = GradeFor(c.Score)
	return c
}

// towardTarget scales value/target onto 0-25.
func towardTarget(value, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return clamp(finite(value/target*subScoreMax), 0, subScoreMax)
}

// underLimit starts at 25 and loses points as drawdown approaches limit.
func underLimit(drawdownPct, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return clamp(finite(subScoreMax-drawdownPct/limit*subScoreMax), 0, subScoreMax)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// GradeFor maps a composite score to a letter. Thresholds are fixed.
func GradeFor(score int) types.Grade {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	}
	return "F"
}
