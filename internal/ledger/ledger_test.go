package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"

	"trading-journal/internal/types"
)

func TestPartition(t *testing.T) {
	trades := []types.Trade{
		{ID: "1", Status: types.StatusClosed},
		{ID: "2", Status: types.StatusOpen},
		{ID: "3", Status: types.StatusClosed},
		{ID: "4", Status: "PENDING"},
	}
	p := Partition(trades)
	if len(p.Closed) != 2 || p.Closed[0].ID != "1" || p.Closed[1].ID != "3" {
		t.Errorf("Expected closed 1, 3 in order, got %+v", p.Closed)
	}
	if len(p.Open) != 1 || p.Open[0].ID != "2" {
		t.Errorf("Expected open 2, got %+v", p.Open)
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in     string
		hasPnL bool
		want   types.Status
	}{
		{"closed", false, types.StatusClosed},
		{" Open ", true, types.StatusOpen},
		{"", true, types.StatusClosed},
		{"", false, types.StatusOpen},
		{"weird", false, types.StatusOpen},
	}
	for _, tt := range tests {
		if got := normalizeStatus(tt.in, tt.hasPnL); got != tt.want {
			t.Errorf("normalizeStatus(%q, %v): expected %s, got %s", tt.in, tt.hasPnL, tt.want, got)
		}
	}
}

func TestJSONLAppendAndLoad(t *testing.T) {
	ctx := context.Background()
	j := NewJSONLFile(filepath.Join(t.TempDir(), "journal", "trades.jsonl"))

	saved, err := j.Append(ctx, types.Trade{
		Date:   types.MustParseDate("2024-03-04"),
		Ticker: "AAPL",
		PnL:    decimal.RequireFromString("125.50"),
		Tags:   []string{"breakout"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if saved.ID == "" {
		t.Error("Expected an id to be assigned")
	}
	if saved.Status != types.StatusClosed {
		t.Errorf("Expected status CLOSED for a trade with pnl, got %s", saved.Status)
	}
	if _, err := j.Append(ctx, types.Trade{ID: "open-1", Date: types.MustParseDate("2024-03-05"), Ticker: "MSFT"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	trades, err := j.LoadTrades(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(trades))
	}
	if !trades[0].PnL.Equal(decimal.RequireFromString("125.5")) {
		t.Errorf("Expected pnl 125.5, got %s", trades[0].PnL)
	}
	if trades[1].Status != types.StatusOpen {
		t.Errorf("Expected second trade OPEN, got %s", trades[1].Status)
	}
}

func TestJSONLAppendRequiresDate(t *testing.T) {
	j := NewJSONLFile(filepath.Join(t.TempDir(), "trades.jsonl"))
	if _, err := j.Append(context.Background(), types.Trade{Ticker: "AAPL"}); err == nil {
		t.Error("Expected error for a trade without date")
	}
}

func TestJSONLMissingFileIsEmpty(t *testing.T) {
	j := NewJSONLFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	trades, err := j.LoadTrades(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("Expected empty journal, got %d trades", len(trades))
	}
}

func TestJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.jsonl")
	content := strings.Join([]string{
		`{"id":"1","date":"2024-03-04","pnl":"10","status":"closed"}`,
		`not json`,
		``,
		`{"id":"2","date":"03/05/2024","pnl":"5"}`,
		`{"id":"3","pnl":"5"}`,
		`{"id":"4","date":"2024-03-06","pnl":-7.5}`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	trades, err := NewJSONLFile(path).LoadTrades(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("Expected 2 valid trades, got %d", len(trades))
	}
	if trades[0].Status != types.StatusClosed || trades[1].Status != types.StatusClosed {
		t.Errorf("Expected both trades CLOSED, got %s / %s", trades[0].Status, trades[1].Status)
	}
	if !trades[1].PnL.Equal(decimal.RequireFromString("-7.5")) {
		t.Errorf("Expected pnl -7.5, got %s", trades[1].PnL)
	}
}

const sampleCSV = `Date,Close Date,Time,Ticker,Direction,Asset Type,Entry Price,Exit Price,Size,PnL,Tags,Status,Notes
2024-03-04,,09:45,aapl,long,stock,170.10,171.35,100,125.00,breakout;a+,closed,gap fill
2024-03-05,2024-03-07,,btc,short,crypto,,,,"(1,250.50)",swing|fomo,,
2024-03-06,,,msft,long,stock,400,,10,,,open,
bad-date,,,x,long,stock,,,,5,,,
2024-03-08,,,es,long,futures,,,,abc,,,
`

func TestReadCSV(t *testing.T) {
	trades, skipped, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if skipped != 2 {
		t.Errorf("Expected 2 skipped rows, got %d", skipped)
	}
	if len(trades) != 3 {
		t.Fatalf("Expected 3 trades, got %d", len(trades))
	}

	first := trades[0]
	if first.Ticker != "AAPL" || first.Direction != types.Long || first.AssetType != types.AssetStock {
		t.Errorf("Unexpected first trade: %+v", first)
	}
	if !first.PnL.Equal(decimal.NewFromInt(125)) || first.Status != types.StatusClosed {
		t.Errorf("Expected closed trade with pnl 125, got %s %s", first.PnL, first.Status)
	}
	if len(first.Tags) != 2 || first.Tags[1] != "a+" {
		t.Errorf("Expected tags [breakout a+], got %v", first.Tags)
	}
	if first.ID == "" {
		t.Error("Expected generated id")
	}

	swing := trades[1]
	if !swing.PnL.Equal(decimal.RequireFromString("-1250.50")) {
		t.Errorf("Expected pnl -1250.50, got %s", swing.PnL)
	}
	if !swing.IsSwing() || swing.Status != types.StatusClosed {
		t.Errorf("Expected a closed swing trade, got swing=%v status=%s", swing.IsSwing(), swing.Status)
	}

	if trades[2].Status != types.StatusOpen {
		t.Errorf("Expected third trade OPEN, got %s", trades[2].Status)
	}
}

func TestReadCSVWithByteOrderMarks(t *testing.T) {
	body := "date,pnl,ticker\n2024-03-04,10,SPY\n"

	utf8BOM := "\ufeff" + body
	trades, _, err := ReadCSV(context.Background(), strings.NewReader(utf8BOM))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(trades) != 1 || trades[0].Ticker != "SPY" {
		t.Errorf("Expected one SPY trade from UTF-8 BOM input, got %+v", trades)
	}

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(body)
	if err != nil {
		t.Fatal(err)
	}
	trades, _, err = ReadCSV(context.Background(), strings.NewReader(utf16))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(trades) != 1 || !trades[0].PnL.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected one trade with pnl 10 from UTF-16 input, got %+v", trades)
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, _, err := ReadCSV(context.Background(), strings.NewReader("ticker,date\nSPY,2024-03-04\n"))
	if !errors.Is(err, errMissingColumn) {
		t.Errorf("Expected errMissingColumn, got %v", err)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	trades, skipped, err := ReadCSV(context.Background(), strings.NewReader(""))
	if err != nil || len(trades) != 0 || skipped != 0 {
		t.Errorf("Expected empty result, got %d trades, %d skipped, err %v", len(trades), skipped, err)
	}
}

func TestParseMoney(t *testing.T) {
	tests := map[string]string{
		"":          "0",
		"12.5":      "12.5",
		"$1,234.50": "1234.5",
		"(20.00)":   "-20",
		"$-3":       "-3",
	}
	for in, want := range tests {
		got, err := parseMoney(in)
		if err != nil {
			t.Errorf("parseMoney(%q): unexpected error %v", in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("parseMoney(%q): expected %s, got %s", in, want, got)
		}
	}
	if _, err := parseMoney("twelve"); err == nil {
		t.Error("Expected error for non-numeric amount")
	}
}

func TestCSVFileLoadTrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	trades, err := NewCSVFile(path).LoadTrades(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(trades) != 3 {
		t.Errorf("Expected 3 trades, got %d", len(trades))
	}

	if _, err := NewCSVFile(filepath.Join(t.TempDir(), "missing.csv")).LoadTrades(context.Background()); err == nil {
		t.Error("Expected error for missing csv file")
	}
}
