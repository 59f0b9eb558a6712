package collector

import (
	"context"

	"TickerBoard/internal/model"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_fetcher.go -source=fetcher.go Fetcher

// Fetcher retrieves a single quote snapshot for a symbol.
type Fetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*model.QuoteSnapshot, error)
	Name() string
}
