package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
	"trading-journal/internal/types"
)

// CSVFile imports trades from a spreadsheet export. Columns are matched by
// header name, ignoring case, spaces and underscores.
type CSVFile struct {
	path string
}

var _ interfaces.Ledger = (*CSVFile)(nil)

func NewCSVFile(path string) *CSVFile {
	return &CSVFile{path: path}
}

func (c *CSVFile) LoadTrades(ctx context.Context) ([]types.Trade, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", c.path, err)
	}
	defer f.Close()

	trades, skipped, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", c.path, err)
	}
	recordLoad(ctx, "csv", trades, skipped)
	return trades, nil
}

var errMissingColumn = errors.New("missing required column")

// ReadCSV parses trades from r. UTF-8 and UTF-16 files with a byte order
// mark are decoded transparently. Rows that fail to parse are skipped and
// counted; a header without date or pnl columns is an error.
func ReadCSV(ctx context.Context, r io.Reader) ([]types.Trade, int, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []types.Trade{}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[normalizeHeader(h)] = i
	}
	for _, required := range []string{"date", "pnl"} {
		if _, ok := cols[required]; !ok {
			return nil, 0, fmt.Errorf("%w %q", errMissingColumn, required)
		}
	}

	trades := make([]types.Trade, 0)
	skipped := 0
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			skipped++
			logger.Warn(ctx, "Skipping unreadable csv row", "row", row, "error", err)
			continue
		}
		t, err := tradeFromRecord(rec, cols)
		if err != nil {
			skipped++
			logger.Warn(ctx, "Skipping malformed csv row", "row", row, "error", err)
			continue
		}
		trades = append(trades, t)
	}
	return trades, skipped, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", "")
	return strings.ReplaceAll(h, " ", "")
}

func tradeFromRecord(rec []string, cols map[string]int) (types.Trade, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var t types.Trade
	t.ID = get("id")
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	d, err := types.ParseDate(get("date"))
	if err != nil {
		return t, err
	}
	t.Date = d
	if s := get("closedate"); s != "" {
		cd, err := types.ParseDate(s)
		if err != nil {
			return t, err
		}
		t.CloseDate = &cd
	}
	t.Time = get("time")
	t.Ticker = strings.ToUpper(get("ticker"))
	t.Direction = types.Direction(strings.ToUpper(get("direction")))
	if a, ok := types.ParseAssetType(get("assettype")); ok {
		t.AssetType = a
	}

	pnl := get("pnl")
	for name, dst := range map[string]*decimal.Decimal{
		"pnl":        &t.PnL,
		"entryprice": &t.EntryPrice,
		"exitprice":  &t.ExitPrice,
		"size":       &t.Size,
	} {
		v, err := parseMoney(get(name))
		if err != nil {
			return t, fmt.Errorf("%s: %w", name, err)
		}
		*dst = v
	}
	t.Tags = splitTags(get("tags"))
	t.Status = normalizeStatus(get("status"), pnl != "")
	t.Notes = get("notes")
	return t, nil
}

// parseMoney accepts "1,234.50", "$-20" and "(20.00)" style amounts. Blank is zero.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' || r == ',' })
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
