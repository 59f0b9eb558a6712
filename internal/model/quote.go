package model

import "github.com/guregu/null/v6"

// MarketState is the trading session reported by the quote provider.
type MarketState string

const (
	MarketPre      MarketState = "PRE"
	MarketRegular  MarketState = "REGULAR"
	MarketPost     MarketState = "POST"
	MarketPrePre   MarketState = "PREPRE"
	MarketPostPost MarketState = "POSTPOST"
	MarketClosed   MarketState = "CLOSED"
)

// IsOpen reports whether the exchange is in its regular session.
func (s MarketState) IsOpen() bool { return s == MarketRegular }

// QuoteSnapshot is a single quote as returned by the provider. Optional
// numeric fields are distinguished by presence (Valid), never by value:
// a pre-market price of exactly 0 is still a pre-market price.
type QuoteSnapshot struct {
	Symbol string `json:"symbol"`

	RegularMarketPrice         float64    `json:"regularMarketPrice"`
	RegularMarketPreviousClose float64    `json:"regularMarketPreviousClose"`
	RegularMarketChange        null.Float `json:"regularMarketChange"`
	RegularMarketChangePercent null.Float `json:"regularMarketChangePercent"`

	PreMarketPrice   null.Float `json:"preMarketPrice"`
	PreMarketChange  null.Float `json:"preMarketChange"`
	PostMarketPrice  null.Float `json:"postMarketPrice"`
	PostMarketChange null.Float `json:"postMarketChange"`

	MarketState      MarketState `json:"marketState"`
	Exchange         string      `json:"exchange"`
	FullExchangeName string      `json:"fullExchangeName"`
	LongName         string      `json:"longName"`
	ShortName        string      `json:"shortName"`
}

// DisplayName returns the long name, falling back to the short name.
func (q *QuoteSnapshot) DisplayName() string {
	if q.LongName != "" {
		return q.LongName
	}
	return q.ShortName
}
