package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

type AssetType string

const (
	AssetStock   AssetType = "STOCK"
	AssetOptions AssetType = "OPTIONS"
	AssetFutures AssetType = "FUTURES"
	AssetCrypto  AssetType = "CRYPTO"
	AssetForex   AssetType = "FOREX"
)

// ParseAssetType accepts any letter case; ok is false for unknown types.
func ParseAssetType(s string) (AssetType, bool) {
	a := AssetType(strings.ToUpper(strings.TrimSpace(s)))
	switch a {
	case AssetStock, AssetOptions, AssetFutures, AssetCrypto, AssetForex:
		return a, true
	}
	return "", false
}

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// Trade is one journal entry. Only CLOSED trades carry a realized PnL that
// the analytics use.
type Trade struct {
	ID         string          `json:"id"`
	Date       Date            `json:"date"`
	CloseDate  *Date           `json:"closeDate,omitempty"`
	Time       string          `json:"time,omitempty"`
	Ticker     string          `json:"ticker"`
	Direction  Direction       `json:"direction"`
	AssetType  AssetType       `json:"assetType"`
	EntryPrice decimal.Decimal `json:"entryPrice"`
	ExitPrice  decimal.Decimal `json:"exitPrice"`
	Size       decimal.Decimal `json:"size"`
	PnL        decimal.Decimal `json:"pnl"`
	Tags       []string        `json:"tags,omitempty"`
	Status     Status          `json:"status"`
	Notes      string          `json:"notes,omitempty"`
}

// EffectiveDate is the close date when present, else the open date.
func (t Trade) EffectiveDate() Date {
	if t.CloseDate != nil && !t.CloseDate.IsZero() {
		return *t.CloseDate
	}
	return t.Date
}

// IsSwing reports whether the position was held across days.
func (t Trade) IsSwing() bool {
	return t.CloseDate != nil && !t.CloseDate.IsZero() && !t.CloseDate.Equal(t.Date)
}

func (t Trade) IsClosed() bool { return t.Status == StatusClosed }

func (t Trade) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// HasAllTags is true when every tag in want is present. An empty want matches.
func (t Trade) HasAllTags(want []string) bool {
	for _, tag := range want {
		if !t.HasTag(tag) {
			return false
		}
	}
	return true
}

// EquityDataPoint is one step of an equity curve: a single trade, a day, or
// an aggregated bucket ending at DateEnd.
type EquityDataPoint struct {
	Date            Date    `json:"date"`
	DateEnd         *Date   `json:"dateEnd,omitempty"`
	PnL             float64 `json:"pnl"`
	Cumulative      float64 `json:"cumulative"`
	Peak            float64 `json:"peak"`
	Drawdown        float64 `json:"drawdown"`
	DrawdownPercent float64 `json:"drawdownPercent"`
	TradeCount      int     `json:"tradeCount"`
	WinCount        int     `json:"winCount"`
	LossCount       int     `json:"lossCount"`
	TradeIndex      int     `json:"tradeIndex,omitempty"`
	TradeID         string  `json:"tradeId,omitempty"`
}

// Span returns the inclusive day range this point covers.
func (p EquityDataPoint) Span() DateRange {
	if p.DateEnd != nil {
		return DateRange{Start: p.Date, End: *p.DateEnd}
	}
	return DateRange{Start: p.Date, End: p.Date}
}

type StreakType string

const (
	StreakNone StreakType = ""
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
)

// PeriodSummary is net P&L and trade count for one calendar window.
type PeriodSummary struct {
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
}

type Grade string

// Consistency is the composite score and its four parts.
type Consistency struct {
	Score             int     `json:"score"`
	Grade             Grade   `json:"grade"`
	WinRateScore      float64 `json:"winRateScore"`
	ProfitFactorScore float64 `json:"profitFactorScore"`
	DrawdownScore     float64 `json:"drawdownScore"`
	RiskRewardScore   float64 `json:"riskRewardScore"`
}

// TradingStats is the full-history performance picture. It is rebuilt from
// scratch whenever trades, starting equity or weights change.
type TradingStats struct {
	AllTime  PeriodSummary `json:"allTime"`
	YTD      PeriodSummary `json:"ytd"`
	LastYear PeriodSummary `json:"lastYear"`
	MTD      PeriodSummary `json:"mtd"`
	WTD      PeriodSummary `json:"wtd"`

	StartingEquity         float64           `json:"startingEquity"`
	CurrentEquity          float64           `json:"currentEquity"`
	EquityCurve            []EquityDataPoint `json:"equityCurve"`
	Peak                   float64           `json:"peak"`
	MaxDrawdown            float64           `json:"maxDrawdown"`
	MaxDrawdownPercent     float64           `json:"maxDrawdownPercent"`
	MaxDrawdownDate        *Date             `json:"maxDrawdownDate,omitempty"`
	CurrentDrawdown        float64           `json:"currentDrawdown"`
	CurrentDrawdownPercent float64           `json:"currentDrawdownPercent"`

	CurrentStreak     int        `json:"currentStreak"`
	CurrentStreakType StreakType `json:"currentStreakType,omitempty"`
	LongestWinStreak  int        `json:"longestWinStreak"`
	LongestLossStreak int        `json:"longestLossStreak"`

	TotalTrades     int     `json:"totalTrades"`
	WinCount        int     `json:"winCount"`
	LossCount       int     `json:"lossCount"`
	BreakEvenCount  int     `json:"breakEvenCount"`
	SwingTrades     int     `json:"swingTrades"`
	GrossProfit     float64 `json:"grossProfit"`
	GrossLoss       float64 `json:"grossLoss"`
	LargestWin      float64 `json:"largestWin"`
	LargestLoss     float64 `json:"largestLoss"`
	WinRate         float64 `json:"winRate"`
	ProfitFactor    float64 `json:"profitFactor"`
	AvgWin          float64 `json:"avgWin"`
	AvgLoss         float64 `json:"avgLoss"`
	Expectancy      float64 `json:"expectancy"`
	RecoveryFactor  float64 `json:"recoveryFactor"`
	SharpeRatio     float64 `json:"sharpeRatio"`
	RiskRewardRatio float64 `json:"riskRewardRatio"`
	WinDays         int     `json:"winDays"`
	LossDays        int     `json:"lossDays"`

	Consistency Consistency `json:"consistency"`
}

// ConsistencyWeights are the targets the consistency sub-scores are measured
// against. Percentages are expressed 0-100.
type ConsistencyWeights struct {
	WinRateTarget      float64 `json:"winRateTarget" yaml:"win_rate_target"`
	ProfitFactorTarget float64 `json:"profitFactorTarget" yaml:"profit_factor_target"`
	MaxDrawdownLimit   float64 `json:"maxDrawdownLimit" yaml:"max_drawdown_limit"`
	RiskRewardTarget   float64 `json:"riskRewardTarget" yaml:"risk_reward_target"`
}

func DefaultConsistencyWeights() ConsistencyWeights {
	return ConsistencyWeights{
		WinRateTarget:      60,
		ProfitFactorTarget: 2.0,
		MaxDrawdownLimit:   25,
		RiskRewardTarget:   1.5,
	}
}

// FilteredView is the equity curve of a filtered window, ready for charting.
type FilteredView struct {
	Period         Period            `json:"period"`
	Granularity    Granularity       `json:"granularity"`
	Data           []EquityDataPoint `json:"data"`
	DateRange      *DateRange        `json:"dateRange"`
	TradeCount     int               `json:"tradeCount"`
	StartingEquity float64           `json:"startingEquity"`
	EndingEquity   float64           `json:"endingEquity"`
	NetPnL         float64           `json:"netPnl"`
}
