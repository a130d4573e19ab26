package analytics

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/go-faster/city"
	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

const (
	opStats = "stats"
	opView  = "view"
)

const (
	fieldSep  = 0x1f
	recordSep = 0x1e
)

// memoKey hashes every input that can change a result. Trade order is part
// of the key because same-day, same-time ties keep their input order.
func memoKey(op string, closed []types.Trade, filter *types.FilterSpec, equity decimal.Decimal, w types.ConsistencyWeights, today types.Date) city.U128 {
	var b bytes.Buffer
	field(&b, op)
	field(&b, today.String())
	field(&b, equity.String())
	for _, f := range []float64{w.WinRateTarget, w.ProfitFactorTarget, w.MaxDrawdownLimit, w.RiskRewardTarget} {
		field(&b, strconv.FormatFloat(f, 'g', -1, 64))
	}
	b.WriteByte(recordSep)

	if filter != nil {
		field(&b, string(filter.Period))
		if r := filter.DateRange; r != nil {
			field(&b, r.Start.String()+".."+r.End.String())
		} else {
			field(&b, "")
		}
		field(&b, optInt(filter.DaysBack))
		field(&b, optInt(filter.TradesBack))
		field(&b, string(filter.Granularity))
		tags := append([]string(nil), filter.Tags...)
		sort.Strings(tags)
		for _, t := range tags {
			field(&b, t)
		}
		b.WriteByte(recordSep)
		assets := make([]string, len(filter.Assets))
		for i, a := range filter.Assets {
			assets[i] = string(a)
		}
		sort.Strings(assets)
		for _, a := range assets {
			field(&b, a)
		}
		b.WriteByte(recordSep)
	}

	for _, t := range closed {
		field(&b, t.ID)
		field(&b, t.Date.String())
		field(&b, t.EffectiveDate().String())
		field(&b, t.Time)
		field(&b, string(t.AssetType))
		field(&b, string(t.Status))
		field(&b, t.PnL.String())
		tags := append([]string(nil), t.Tags...)
		sort.Strings(tags)
		for _, tag := range tags {
			field(&b, tag)
		}
		b.WriteByte(recordSep)
	}
	return city.Hash128(b.Bytes())
}

func field(b *bytes.Buffer, s string) {
	b.WriteString(s)
	b.WriteByte(fieldSep)
}

func optInt(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}
