package risk

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/riskpulse/riskpulse/pkg/market"
	"github.com/riskpulse/riskpulse/pkg/portfolio"
)

// Options tune a risk analysis run.
type Options struct {
	Confidence   float64 // VaR confidence level, default 0.95
	LookbackDays int     // history window, default 365
}

// Window reports the trading days the metrics were computed over.
type Window struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days int    `json:"days"`
}

// Report carries the computed risk metrics for one portfolio.
type Report struct {
	PortfolioID uuid.UUID `json:"portfolio_id"`
	Confidence  float64   `json:"confidence"`
	ValueAtRisk float64   `json:"var"`
	Volatility  float64   `json:"volatility"`
	Beta        float64   `json:"beta"`
	MarketIndex string    `json:"market_index"`
	Window      Window    `json:"window"`
}

// UseCase computes historical risk metrics for persisted portfolios.
type UseCase interface {
	Analyze(ctx context.Context, portfolioID uuid.UUID, opts Options) (Report, error)
}

type service struct {
	portfolios      portfolio.UseCase
	history         market.HistorySource
	indexSymbol     string
	defaultLookback int
}

// NewService builds the analytics service. indexSymbol is the benchmark used
// for beta (e.g. ^GSPC).
func NewService(portfolios portfolio.UseCase, history market.HistorySource, indexSymbol string, defaultLookbackDays int) UseCase {
	if defaultLookbackDays <= 0 {
		defaultLookbackDays = 365
	}
	return &service{
		portfolios:      portfolios,
		history:         history,
		indexSymbol:     indexSymbol,
		defaultLookback: defaultLookbackDays,
	}
}

func (s *service) Analyze(ctx context.Context, portfolioID uuid.UUID, opts Options) (Report, error) {
	if opts.Confidence <= 0 || opts.Confidence >= 1 {
		opts.Confidence = 0.95
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = s.defaultLookback
	}

	positions, err := s.portfolios.ListPositions(ctx, portfolioID)
	if err != nil {
		return Report{}, err
	}
	if len(positions) == 0 {
		return Report{}, portfolio.ValidationError("portfolio has no positions")
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -opts.LookbackDays)

	// Net quantity per symbol; repeated symbols collapse into one series.
	quantities := map[string]float64{}
	for _, pos := range positions {
		qty, _ := pos.Quantity.Float64()
		quantities[pos.Symbol] += qty
	}
	symbols := make([]string, 0, len(quantities))
	for sym := range quantities {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	closes := map[string]map[string]float64{}
	for _, sym := range append(append([]string{}, symbols...), s.indexSymbol) {
		if _, ok := closes[sym]; ok {
			continue
		}
		candles, err := s.history.DailyCloses(ctx, sym, from, to)
		if err != nil {
			return Report{}, fmt.Errorf("%w: history for %s: %v", portfolio.ErrPricingUnavailable, sym, err)
		}
		series := make(map[string]float64, len(candles))
		for _, c := range candles {
			px, _ := c.Close.Float64()
			series[c.Date] = px
		}
		closes[sym] = series
	}

	dates := commonDates(closes)
	if len(dates) < 3 {
		return Report{}, portfolio.ValidationError("not enough overlapping price history to compute risk metrics")
	}

	// Weight each symbol by its market-value share at the most recent close.
	last := dates[len(dates)-1]
	var total float64
	values := map[string]float64{}
	for _, sym := range symbols {
		values[sym] = quantities[sym] * closes[sym][last]
		total += values[sym]
	}
	if total <= 0 {
		return Report{}, portfolio.ValidationError("portfolio market value must be positive for risk analysis")
	}

	portReturns := make([]float64, 0, len(dates)-1)
	indexReturns := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		prev, cur := dates[i-1], dates[i]
		var r float64
		for _, sym := range symbols {
			r += values[sym] / total * dailyReturn(closes[sym][prev], closes[sym][cur])
		}
		portReturns = append(portReturns, r)
		indexReturns = append(indexReturns, dailyReturn(closes[s.indexSymbol][prev], closes[s.indexSymbol][cur]))
	}

	return Report{
		PortfolioID: portfolioID,
		Confidence:  opts.Confidence,
		ValueAtRisk: HistoricalVaR(portReturns, opts.Confidence),
		Volatility:  Volatility(portReturns),
		Beta:        Beta(portReturns, indexReturns),
		MarketIndex: s.indexSymbol,
		Window:      Window{From: dates[0], To: last, Days: len(dates)},
	}, nil
}

func dailyReturn(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return cur/prev - 1
}

// commonDates returns the trading days present in every series, ascending.
func commonDates(closes map[string]map[string]float64) []string {
	var dates []string
	first := true
	for _, series := range closes {
		if first {
			for d := range series {
				dates = append(dates, d)
			}
			first = false
			continue
		}
		kept := dates[:0]
		for _, d := range dates {
			if _, ok := series[d]; ok {
				kept = append(kept, d)
			}
		}
		dates = kept
	}
	sort.Strings(dates)
	return dates
}
