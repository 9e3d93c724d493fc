package market

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrPriceNotFound is returned when the provider knows nothing about a symbol.
var ErrPriceNotFound = errors.New("price not found")

// Quote is a point-in-time snapshot for one instrument.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	PreviousClose decimal.Decimal `json:"previous_close"`
	Open          decimal.Decimal `json:"open"`
	DayHigh       decimal.Decimal `json:"day_high"`
	DayLow        decimal.Decimal `json:"day_low"`
	AsOf          time.Time       `json:"as_of"`
}

// Candle is one daily close.
type Candle struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Close decimal.Decimal `json:"close"`
}

// QuoteSource provides current prices. Implementations may fail per symbol
// with ErrPriceNotFound or with transport errors; callers decide how those
// surface.
type QuoteSource interface {
	Price(ctx context.Context, symbol string) (decimal.Decimal, error)
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// HistorySource provides daily close history over [from, to].
type HistorySource interface {
	DailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]Candle, error)
}
