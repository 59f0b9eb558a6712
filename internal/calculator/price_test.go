package calculator

import (
	"math"
	"testing"

	"github.com/guregu/null/v6"

	"TickerBoard/internal/model"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNormalize_RegularSession(t *testing.T) {
	q := &model.QuoteSnapshot{
		Symbol:                     "AAPL",
		RegularMarketPrice:         150.25,
		RegularMarketPreviousClose: 148.50,
		RegularMarketChange:        null.FloatFrom(1.75),
		MarketState:                model.MarketRegular,
		Exchange:                   "NMS",
	}
	rec := Normalize(q)
	if rec.IsExtendedHours {
		t.Error("expected regular session")
	}
	if rec.ExtendedPrice.Valid || rec.ExtendedChange.Valid {
		t.Errorf("expected null extended fields, got %v / %v", rec.ExtendedPrice, rec.ExtendedChange)
	}
	if rec.Price != 150.25 {
		t.Errorf("price = %v, want 150.25", rec.Price)
	}
	if !approx(rec.Change, 1.75) {
		t.Errorf("change = %v, want 1.75", rec.Change)
	}
	if !rec.ChangePercent.Valid || !approx(rec.ChangePercent.Float64, 1.75/148.50*100) {
		t.Errorf("changePercent = %v", rec.ChangePercent)
	}
	if rec.ExchangeName.String != "NASDAQ" || rec.Exchange.String != "NMS" {
		t.Errorf("exchange = %v / %v", rec.Exchange, rec.ExchangeName)
	}
}

func TestNormalize_PreMarketScenario(t *testing.T) {
	q := &model.QuoteSnapshot{
		Symbol:                     "AAPL",
		RegularMarketPrice:         150.25,
		RegularMarketPreviousClose: 148.50,
		RegularMarketChange:        null.FloatFrom(1.75),
		PreMarketPrice:             null.FloatFrom(151.50),
		PreMarketChange:            null.FloatFrom(1.25),
		MarketState:                model.MarketPre,
	}
	rec := Normalize(q)
	if rec.Price != 151.50 {
		t.Errorf("price = %v, want 151.50", rec.Price)
	}
	if rec.Change != 3.00 {
		t.Errorf("change = %v, want 3.00", rec.Change)
	}
	if !rec.ChangePercent.Valid || math.Abs(rec.ChangePercent.Float64-2.02) > 0.005 {
		t.Errorf("changePercent = %v, want ~2.02", rec.ChangePercent)
	}
	if !rec.IsExtendedHours || rec.Session != model.SessionPreMarket {
		t.Errorf("session = %s extended=%v", rec.Session, rec.IsExtendedHours)
	}
	if rec.RegularPrice != 150.25 {
		t.Errorf("regular price = %v", rec.RegularPrice)
	}
}

func TestNormalize_PostMarket(t *testing.T) {
	q := &model.QuoteSnapshot{
		Symbol:                     "MSFT",
		RegularMarketPrice:         400,
		RegularMarketPreviousClose: 395,
		RegularMarketChange:        null.FloatFrom(5),
		PostMarketPrice:            null.FloatFrom(398),
		PostMarketChange:           null.FloatFrom(-2),
		MarketState:                model.MarketPost,
	}
	rec := Normalize(q)
	if rec.Price != 398 {
		t.Errorf("price = %v, want 398", rec.Price)
	}
	if rec.Change != 3 {
		t.Errorf("change = %v, want 3", rec.Change)
	}
	if rec.Session != model.SessionPostMarket || !rec.IsExtendedHours {
		t.Errorf("session = %s", rec.Session)
	}
	if rec.ExtendedPrice.Float64 != 398 || rec.ExtendedChange.Float64 != -2 {
		t.Errorf("extended = %v / %v", rec.ExtendedPrice, rec.ExtendedChange)
	}
}

func TestNormalize_ZeroExtendedPriceIsHonoured(t *testing.T) {
	q := &model.QuoteSnapshot{
		Symbol:                     "ZERO",
		RegularMarketPrice:         1.5,
		RegularMarketPreviousClose: 1.5,
		PreMarketPrice:             null.FloatFrom(0),
		PreMarketChange:            null.FloatFrom(-1.5),
	}
	rec := Normalize(q)
	if rec.Price != 0 {
		t.Errorf("price = %v, want 0 (pre-market)", rec.Price)
	}
	if !rec.ExtendedPrice.Valid {
		t.Error("expected extended price to be present")
	}
}

func TestNormalize_MissingChangeCoercedToZero(t *testing.T) {
	q := &model.QuoteSnapshot{
		Symbol:                     "X",
		RegularMarketPrice:         10,
		RegularMarketPreviousClose: 10,
		PreMarketPrice:             null.FloatFrom(11),
	}
	rec := Normalize(q)
	if rec.Change != 0 {
		t.Errorf("change = %v, want 0", rec.Change)
	}
	if !rec.ChangePercent.Valid || rec.ChangePercent.Float64 != 0 {
		t.Errorf("changePercent = %v, want 0", rec.ChangePercent)
	}
}

func TestNormalize_ZeroPreviousCloseGivesNullPercent(t *testing.T) {
	q := &model.QuoteSnapshot{
		Symbol:              "NEW",
		RegularMarketPrice:  12,
		RegularMarketChange: null.FloatFrom(2),
	}
	rec := Normalize(q)
	if rec.ChangePercent.Valid {
		t.Errorf("expected null changePercent, got %v", rec.ChangePercent)
	}
}

func TestNormalize_OTCExcluded(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		fullName string
	}{
		{"pink code", "PNK", "Other OTC"},
		{"otc name", "XYZ", "OTC Markets"},
		{"pink name", "", "Pink Sheets"},
		{"lowercase code", "pnk", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Normalize(&model.QuoteSnapshot{
				Symbol:           "OTCX",
				Exchange:         tt.code,
				FullExchangeName: tt.fullName,
				MarketState:      model.MarketRegular,
			})
			if rec.Exchange.Valid || rec.ExchangeName.Valid {
				t.Errorf("expected no exchange, got %v / %v", rec.Exchange, rec.ExchangeName)
			}
		})
	}
}

func TestExchangeDisplayName(t *testing.T) {
	tests := []struct {
		code, full string
		want       string
		ok         bool
	}{
		{"NMS", "NasdaqGS", "NASDAQ", true},
		{"NGM", "NasdaqGM", "NASDAQ", true},
		{"NCM", "NasdaqCM", "NASDAQ", true},
		{"NYQ", "NYSE", "NYSE", true},
		{"XYZ", "Some Exchange", "Some Exchange", true},
		{"XYZ", "", "XYZ", true},
		{"", "", "", false},
		{"PNK", "Other OTC", "", false},
	}
	for _, tt := range tests {
		got, ok := ExchangeDisplayName(tt.code, tt.full)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExchangeDisplayName(%q, %q) = %q, %v; want %q, %v", tt.code, tt.full, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPercentOf(t *testing.T) {
	if p := PercentOf(1, 0); p.Valid {
		t.Errorf("expected null for zero base, got %v", p)
	}
	if p := PercentOf(math.NaN(), 10); p.Valid {
		t.Errorf("expected null for NaN change, got %v", p)
	}
	if p := PercentOf(5, 200); !p.Valid || p.Float64 != 2.5 {
		t.Errorf("PercentOf(5, 200) = %v, want 2.5", p)
	}
}

func TestSummarize(t *testing.T) {
	entries := []model.HistoryEntry{
		{Symbol: "AAPL", Price: 100},
		{Symbol: "AAPL", Price: 120},
		{Symbol: "AAPL", Price: 90},
		{Symbol: "AAPL", Price: 105},
	}
	st, err := Summarize(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.High != 120 || st.Low != 90 || st.Count != 4 {
		t.Errorf("unexpected stats: %+v", st)
	}
	if !approx(st.Position, 0.5) {
		t.Errorf("position = %v, want 0.5", st.Position)
	}
	if _, err := Summarize(nil); err == nil {
		t.Error("expected error for empty history")
	}
}
