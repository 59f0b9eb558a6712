package calculator

import (
	"math"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"TickerBoard/internal/model"
)

// Normalize derives the canonical price record from a quote snapshot.
//
// The extended session (pre- or post-market) wins over the regular session
// whenever its price is present, including a present price of 0. The final
// change is the extended change plus the regular change, so it always
// measures movement against the previous close.
func Normalize(q *model.QuoteSnapshot) model.PriceRecord {
	session, extPrice, extChange := selectSession(q)

	rec := model.PriceRecord{
		Symbol:               q.Symbol,
		Name:                 q.DisplayName(),
		Price:                q.RegularMarketPrice,
		RegularPrice:         q.RegularMarketPrice,
		RegularChange:        q.RegularMarketChange,
		RegularChangePercent: finiteOrNull(q.RegularMarketChangePercent),
		Session:              session,
		IsExtendedHours:      session.IsExtended(),
		ExtendedPrice:        extPrice,
		ExtendedChange:       extChange,
		MarketState:          q.MarketState,
	}
	if extPrice.Valid {
		rec.Price = extPrice.Float64
	}

	change := q.RegularMarketChange.ValueOrZero()
	if session.IsExtended() {
		change = addExact(extChange.ValueOrZero(), change)
	}
	if !isFinite(change) {
		change = 0
	}
	rec.Change = change
	rec.ChangePercent = PercentOf(change, q.RegularMarketPreviousClose)

	if name, ok := ExchangeDisplayName(q.Exchange, q.FullExchangeName); ok {
		if q.Exchange != "" {
			rec.Exchange = null.StringFrom(q.Exchange)
		}
		rec.ExchangeName = null.StringFrom(name)
	}
	return rec
}

// selectSession picks the active session once, so nothing downstream has to
// re-check which optional fields are populated.
func selectSession(q *model.QuoteSnapshot) (model.Session, null.Float, null.Float) {
	switch {
	case q.PreMarketPrice.Valid:
		return model.SessionPreMarket, q.PreMarketPrice, q.PreMarketChange
	case q.PostMarketPrice.Valid:
		return model.SessionPostMarket, q.PostMarketPrice, q.PostMarketChange
	default:
		return model.SessionRegular, null.Float{}, null.Float{}
	}
}

// PercentOf returns change as a percentage of base. The result is null when
// base is zero or the result would not be finite.
func PercentOf(change, base float64) null.Float {
	if base == 0 || !isFinite(base) || !isFinite(change) {
		return null.Float{}
	}
	pct := decimal.NewFromFloat(change).
		Div(decimal.NewFromFloat(base)).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()
	if !isFinite(pct) {
		return null.Float{}
	}
	return null.FloatFrom(pct)
}

// addExact adds two prices in decimal so that 1.25 + 1.75 is exactly 3.
func addExact(a, b float64) float64 {
	if !isFinite(a) || !isFinite(b) {
		return a + b
	}
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}

func finiteOrNull(f null.Float) null.Float {
	if f.Valid && !isFinite(f.Float64) {
		return null.Float{}
	}
	return f
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
