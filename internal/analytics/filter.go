package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

// Resolution is a FilterSpec applied to the closed trades: the trades inside
// the window, the calendar span to chart, and the account equity at the
// instant the window opens.
type Resolution struct {
	Filtered       []types.Trade
	DateRange      *types.DateRange
	BaselineEquity decimal.Decimal
	Granularity    types.Granularity
}

// window describes where a period starts and which days it covers.
type window struct {
	// opens is the first day of the window. Closed trades strictly before it
	// are history and feed the baseline. Nil means nothing precedes the window.
	opens *types.Date
	// span is the calendar range to chart, nil when it depends on the data.
	span     *types.DateRange
	contains func(types.Date) bool
}

// Resolve filters closed trades by asset, tags and period. Trades that are
// not CLOSED are ignored. The returned Filtered slice is chronological and
// never aliases the input.
func Resolve(closed []types.Trade, filter types.FilterSpec, startingEquity decimal.Decimal, today types.Date) (Resolution, error) {
	if err := filter.Validate(); err != nil {
		return Resolution{}, err
	}
	history := closedOnly(closed)
	candidates := filterByAssetAndTags(history, filter.Assets, filter.Tags)

	var (
		filtered []types.Trade
		w        window
	)
	if filter.Period == types.PeriodCustom && filter.TradesBack != nil {
		filtered = lastNTrades(candidates, *filter.TradesBack)
		if len(filtered) == 0 {
			// An empty selection opens after every recorded trade.
			return Resolution{
				Filtered:       filtered,
				BaselineEquity: startingEquity.Add(sumPnL(history)),
				Granularity:    granularityFor(filter),
			}, nil
		}
		first := filtered[0].EffectiveDate()
		w.opens = &first
	} else {
		w = periodWindow(filter, today)
		filtered = make([]types.Trade, 0, len(candidates))
		for _, t := range candidates {
			if w.contains(t.EffectiveDate()) {
				filtered = append(filtered, t)
			}
		}
		sortChronological(filtered)
	}

	res := Resolution{
		Filtered:       filtered,
		DateRange:      w.span,
		BaselineEquity: startingEquity.Add(sumBefore(history, w.opens)),
		Granularity:    granularityFor(filter),
	}
	if res.DateRange == nil && len(filtered) > 0 {
		res.DateRange = &types.DateRange{
			Start: filtered[0].EffectiveDate().AddDays(-1),
			End:   filtered[len(filtered)-1].EffectiveDate().AddDays(1),
		}
	}
	return res, nil
}

func periodWindow(filter types.FilterSpec, today types.Date) window {
	switch filter.Period {
	case types.PeriodYTD:
		start := today.YearStart()
		return window{
			opens:    &start,
			span:     &types.DateRange{Start: start, End: today.AddDays(1)},
			contains: func(d types.Date) bool { return d.Year() == today.Year() },
		}
	case types.PeriodMTD:
		start := today.MonthStart()
		return window{
			opens: &start,
			span:  &types.DateRange{Start: start, End: today.AddDays(1)},
			contains: func(d types.Date) bool {
				return d.Year() == today.Year() && d.Month() == today.Month()
			},
		}
	case types.PeriodWTD:
		week := types.DateRange{Start: today.WeekStart(), End: today.WeekStart().AddDays(6)}
		start := week.Start
		return window{opens: &start, span: &week, contains: week.Contains}
	case types.PeriodDaily:
		day := today
		return window{
			opens:    &day,
			span:     &types.DateRange{Start: today, End: today},
			contains: func(d types.Date) bool { return d.Equal(today) },
		}
	case types.PeriodCustom:
		switch {
		case filter.DateRange != nil:
			r := *filter.DateRange
			start := r.Start
			return window{opens: &start, span: &r, contains: r.Contains}
		case filter.DaysBack != nil:
			n := *filter.DaysBack
			cutoff := today.AddDays(-n)
			if n <= 0 {
				// Zero days back selects nothing rather than everything.
				return window{opens: &cutoff, contains: func(types.Date) bool { return false }}
			}
			return window{
				opens:    &cutoff,
				span:     &types.DateRange{Start: cutoff, End: today.AddDays(1)},
				contains: func(d types.Date) bool { return !d.Before(cutoff) },
			}
		}
	}
	return window{contains: func(types.Date) bool { return true }}
}

func granularityFor(filter types.FilterSpec) types.Granularity {
	if filter.Granularity != "" {
		return filter.Granularity
	}
	if filter.Period == types.PeriodWTD {
		return types.GranularityTrade
	}
	return types.GranularityDay
}

// filterByAssetAndTags keeps trades whose asset is any of assets and that
// carry every tag in tags. Empty selectors match everything.
func filterByAssetAndTags(trades []types.Trade, assets []types.AssetType, tags []string) []types.Trade {
	out := make([]types.Trade, 0, len(trades))
	for _, t := range trades {
		if !matchesAsset(t, assets) || !t.HasAllTags(tags) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesAsset(t types.Trade, assets []types.AssetType) bool {
	if len(assets) == 0 {
		return true
	}
	for _, a := range assets {
		if t.AssetType == a {
			return true
		}
	}
	return false
}

// lastNTrades takes the n most recent trades, newest first, and returns them
// in chronological order.
func lastNTrades(trades []types.Trade, n int) []types.Trade {
	if n <= 0 || len(trades) == 0 {
		return []types.Trade{}
	}
	newest := append([]types.Trade(nil), trades...)
	sort.SliceStable(newest, func(i, j int) bool {
		di, dj := newest[i].EffectiveDate(), newest[j].EffectiveDate()
		if c := di.Compare(dj); c != 0 {
			return c > 0
		}
		return timeKey(newest[i].Time) > timeKey(newest[j].Time)
	})
	if n > len(newest) {
		n = len(newest)
	}
	out := newest[:n:n]
	sortChronological(out)
	return out
}

func closedOnly(trades []types.Trade) []types.Trade {
	out := make([]types.Trade, 0, len(trades))
	for _, t := range trades {
		if t.IsClosed() {
			out = append(out, t)
		}
	}
	return out
}

func sumPnL(trades []types.Trade) decimal.Decimal {
	total := decimal.Zero
	for _, t := range trades {
		total = total.Add(t.PnL)
	}
	return total
}

// sumBefore totals the PnL of trades whose effective date is strictly before
// opens. A nil opens means the window has no history.
func sumBefore(trades []types.Trade, opens *types.Date) decimal.Decimal {
	total := decimal.Zero
	if opens == nil {
		return total
	}
	for _, t := range trades {
		if t.EffectiveDate().Before(*opens) {
			total = total.Add(t.PnL)
		}
	}
	return total
}

// sortChronological orders trades by effective date, then intraday time.
// Trades without a time sort before timed trades on the same day; remaining
// ties keep their input order.
func sortChronological(trades []types.Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		di, dj := trades[i].EffectiveDate(), trades[j].EffectiveDate()
		if c := di.Compare(dj); c != 0 {
			return c < 0
		}
		return timeKey(trades[i].Time) < timeKey(trades[j].Time)
	})
}

// timeKey pads "HH:MM" to "HH:MM:00" so times compare as strings.
func timeKey(s string) string {
	if len(s) == 5 {
		return s + ":00"
	}
	return s
}
