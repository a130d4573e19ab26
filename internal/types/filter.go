package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilter is returned for filter specs the resolver cannot interpret.
var ErrInvalidFilter = errors.New("invalid filter")

type Period string

const (
	PeriodAll    Period = "all"
	PeriodYTD    Period = "ytd"
	PeriodMTD    Period = "mtd"
	PeriodWTD    Period = "wtd"
	PeriodDaily  Period = "daily"
	PeriodCustom Period = "custom"
)

// Granularity is how trades are bucketed into equity points.
type Granularity string

const (
	GranularityTrade Granularity = "trade"
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GranularityTrade, GranularityDay, GranularityWeek, GranularityMonth:
		return g, nil
	}
	return "", fmt.Errorf("%w: unknown granularity %q", ErrInvalidFilter, s)
}

// FilterSpec selects a window of the journal. For PeriodCustom exactly one of
// DateRange, DaysBack or TradesBack is set. Tags use AND semantics, Assets OR.
type FilterSpec struct {
	Period      Period      `json:"period"`
	DateRange   *DateRange  `json:"dateRange,omitempty"`
	DaysBack    *int        `json:"daysBack,omitempty"`
	TradesBack  *int        `json:"tradesBack,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Assets      []AssetType `json:"assets,omitempty"`
	Granularity Granularity `json:"granularity,omitempty"`
}

// Validate checks that the filter is internally consistent.
func (f FilterSpec) Validate() error {
	switch f.Period {
	case PeriodAll, PeriodYTD, PeriodMTD, PeriodWTD, PeriodDaily:
	case PeriodCustom:
		n := 0
		if f.DateRange != nil {
			n++
			if f.DateRange.End.Before(f.DateRange.Start) {
				return fmt.Errorf("%w: range end %s before start %s", ErrInvalidFilter, f.DateRange.End, f.DateRange.Start)
			}
		}
		if f.DaysBack != nil {
			n++
		}
		if f.TradesBack != nil {
			n++
		}
		if n != 1 {
			return fmt.Errorf("%w: custom period needs exactly one of dateRange, daysBack, tradesBack (got %d)", ErrInvalidFilter, n)
		}
	default:
		return fmt.Errorf("%w: unknown period %q", ErrInvalidFilter, f.Period)
	}
	if f.Granularity != "" {
		if _, err := ParseGranularity(string(f.Granularity)); err != nil {
			return err
		}
	}
	return nil
}

// ParsePeriod accepts any letter case.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PeriodAll, PeriodYTD, PeriodMTD, PeriodWTD, PeriodDaily, PeriodCustom:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown period %q", ErrInvalidFilter, s)
}
