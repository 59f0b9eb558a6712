package model

import "github.com/guregu/null/v6"

// Session identifies which part of a quote the canonical price came from.
type Session string

const (
	SessionRegular    Session = "regular"
	SessionPreMarket  Session = "pre"
	SessionPostMarket Session = "post"
)

// IsExtended reports whether the session is outside regular hours.
func (s Session) IsExtended() bool {
	return s == SessionPreMarket || s == SessionPostMarket
}

// PriceRecord is the canonical price derived from one quote. It is built once
// and replaced, never mutated, by the next successful poll of the symbol.
type PriceRecord struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`

	Price         float64    `json:"price"`
	Change        float64    `json:"change"`
	ChangePercent null.Float `json:"changePercent"`

	RegularPrice         float64    `json:"regularPrice"`
	RegularChange        null.Float `json:"regularChange"`
	RegularChangePercent null.Float `json:"regularChangePercent"`

	Session         Session    `json:"session"`
	IsExtendedHours bool       `json:"isExtendedHours"`
	ExtendedPrice   null.Float `json:"extendedPrice"`
	ExtendedChange  null.Float `json:"extendedChange"`

	MarketState  MarketState `json:"marketState"`
	Exchange     null.String `json:"exchange"`
	ExchangeName null.String `json:"exchangeName"`
}
