package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoricalVaR(t *testing.T) {
	returns := []float64{-0.05, -0.02, 0.01, 0.03}

	// 5th percentile with linear interpolation between the two lowest
	// returns: -0.05*0.85 + -0.02*0.15 = -0.0455, negated.
	got := HistoricalVaR(returns, 0.95)
	assert.InDelta(t, 0.0455, got, 1e-9)
}

func TestHistoricalVaRExtremes(t *testing.T) {
	returns := []float64{-0.10, 0.0, 0.10}

	assert.InDelta(t, 0.10, HistoricalVaR(returns, 1.0), 1e-9)
	assert.InDelta(t, -0.10, HistoricalVaR(returns, 0.0), 1e-9)
	assert.Zero(t, HistoricalVaR(nil, 0.95))
}

func TestVolatility(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.02, 0.0}

	// Sample standard deviation, mean 0.005.
	assert.InDelta(t, 0.012909944, Volatility(returns), 1e-8)
	assert.Zero(t, Volatility([]float64{0.01}))
}

func TestBeta(t *testing.T) {
	market := []float64{0.01, -0.02, 0.015, 0.005}

	double := make([]float64, len(market))
	flat := make([]float64, len(market))
	for i, r := range market {
		double[i] = 2 * r
	}

	assert.InDelta(t, 2.0, Beta(double, market), 1e-9)
	assert.InDelta(t, 1.0, Beta(market, market), 1e-9)
	assert.InDelta(t, 0.0, Beta(flat, market), 1e-9)

	// Degenerate inputs.
	assert.Zero(t, Beta(market, flat))
	assert.Zero(t, Beta(market[:2], market))
	assert.Zero(t, Beta(nil, nil))
}
