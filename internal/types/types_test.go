package types

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateParseAndFormat(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("Expected 2024-02-29, got %s", d)
	}
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Error("Expected error for month 13")
	}
	if _, err := ParseDate("03/08/2024"); err == nil {
		t.Error("Expected error for US date format")
	}
}

func TestDateOfUsesOwnLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	at := time.Date(2024, 3, 9, 2, 0, 0, 0, time.UTC) // still March 8th in New York
	if got := DateOf(at.In(ny)).String(); got != "2024-03-08" {
		t.Errorf("Expected 2024-03-08, got %s", got)
	}
}

func TestDateCalendarHelpers(t *testing.T) {
	d := MustParseDate("2024-03-08") // Friday
	if got := d.WeekStart().String(); got != "2024-03-03" {
		t.Errorf("Expected week start 2024-03-03, got %s", got)
	}
	if got := MustParseDate("2024-03-03").WeekStart().String(); got != "2024-03-03" {
		t.Errorf("Expected a Sunday to start its own week, got %s", got)
	}
	if got := d.MonthStart().String(); got != "2024-03-01" {
		t.Errorf("Expected month start 2024-03-01, got %s", got)
	}
	if got := d.YearStart().String(); got != "2024-01-01" {
		t.Errorf("Expected year start 2024-01-01, got %s", got)
	}
	if got := d.AddDays(-8).String(); got != "2024-02-29" {
		t.Errorf("Expected 2024-02-29, got %s", got)
	}
	if d.Compare(d.AddDays(1)) != -1 || d.Compare(d) != 0 || d.AddDays(1).Compare(d) != 1 {
		t.Error("Unexpected Compare results")
	}

	r := DateRange{Start: MustParseDate("2024-03-01"), End: MustParseDate("2024-03-08")}
	if !r.Contains(r.Start) || !r.Contains(r.End) {
		t.Error("Expected range bounds to be inclusive")
	}
	if r.Contains(MustParseDate("2024-03-09")) {
		t.Error("Expected 2024-03-09 outside the range")
	}
}

func TestDateJSON(t *testing.T) {
	cd := MustParseDate("2024-03-08")
	in := Trade{ID: "x", Date: MustParseDate("2024-03-01"), CloseDate: &cd, Status: StatusClosed}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var out Trade
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.Date.Equal(in.Date) || out.CloseDate == nil || !out.CloseDate.Equal(cd) {
		t.Errorf("Expected dates to survive JSON, got %s / %v", out.Date, out.CloseDate)
	}

	var bad Trade
	if err := json.Unmarshal([]byte(`{"date":"yesterday"}`), &bad); err == nil {
		t.Error("Expected error for malformed date")
	}
}

func TestTradeDates(t *testing.T) {
	tr := Trade{Date: MustParseDate("2024-03-01")}
	if tr.IsSwing() {
		t.Error("Expected a trade without close date not to be a swing")
	}
	if tr.EffectiveDate() != tr.Date {
		t.Error("Expected effective date to fall back to the open date")
	}

	same := MustParseDate("2024-03-01")
	tr.CloseDate = &same
	if tr.IsSwing() {
		t.Error("Expected a same-day close not to be a swing")
	}

	later := MustParseDate("2024-03-05")
	tr.CloseDate = &later
	if !tr.IsSwing() {
		t.Error("Expected a multi-day trade to be a swing")
	}
	if !tr.EffectiveDate().Equal(later) {
		t.Errorf("Expected effective date %s, got %s", later, tr.EffectiveDate())
	}
}

func TestHasAllTags(t *testing.T) {
	tr := Trade{Tags: []string{"breakout", "a+"}}
	if !tr.HasAllTags(nil) {
		t.Error("Expected empty tag list to match")
	}
	if !tr.HasAllTags([]string{"a+", "breakout"}) {
		t.Error("Expected both tags to match")
	}
	if tr.HasAllTags([]string{"breakout", "fomo"}) {
		t.Error("Expected missing tag to fail the match")
	}
}

func TestFilterSpecValidate(t *testing.T) {
	n := 5
	tests := []struct {
		name    string
		filter  FilterSpec
		wantErr bool
	}{
		{"all", FilterSpec{Period: PeriodAll}, false},
		{"ytd with week buckets", FilterSpec{Period: PeriodYTD, Granularity: GranularityWeek}, false},
		{"custom days", FilterSpec{Period: PeriodCustom, DaysBack: &n}, false},
		{"custom trades", FilterSpec{Period: PeriodCustom, TradesBack: &n}, false},
		{"custom without selector", FilterSpec{Period: PeriodCustom}, true},
		{"custom with two selectors", FilterSpec{Period: PeriodCustom, DaysBack: &n, TradesBack: &n}, true},
		{"reversed range", FilterSpec{Period: PeriodCustom, DateRange: &DateRange{Start: MustParseDate("2024-02-01"), End: MustParseDate("2024-01-01")}}, true},
		{"unknown period", FilterSpec{Period: "quarter"}, true},
		{"unknown granularity", FilterSpec{Period: PeriodAll, Granularity: "hour"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidFilter) {
				t.Errorf("Expected ErrInvalidFilter, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	if p, err := ParsePeriod(" YTD "); err != nil || p != PeriodYTD {
		t.Errorf("Expected ytd, got %q (%v)", p, err)
	}
	if g, err := ParseGranularity("Week"); err != nil || g != GranularityWeek {
		t.Errorf("Expected week, got %q (%v)", g, err)
	}
	if a, ok := ParseAssetType("crypto"); !ok || a != AssetCrypto {
		t.Errorf("Expected CRYPTO, got %q", a)
	}
	if _, ok := ParseAssetType("bonds"); ok {
		t.Error("Expected unknown asset type to be rejected")
	}
}
