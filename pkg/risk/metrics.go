package risk

import (
	"math"
	"sort"
)

// HistoricalVaR returns the historical value-at-risk of a daily return
// series at the given confidence level. The result is positive and
// represents a loss: the (1-confidence) percentile of returns, negated.
func HistoricalVaR(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	return -percentile(returns, (1-confidence)*100)
}

// Volatility returns the sample standard deviation of a return series.
func Volatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	m := mean(returns)
	var ss float64
	for _, r := range returns {
		d := r - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(returns)-1))
}

// Beta measures the sensitivity of portfolio returns to market returns:
// Cov(portfolio, market) / Var(market). Both series must be aligned to the
// same dates.
func Beta(portfolio, market []float64) float64 {
	n := len(portfolio)
	if n < 2 || len(market) != n {
		return 0
	}
	mp, mm := mean(portfolio), mean(market)
	var cov, varm float64
	for i := 0; i < n; i++ {
		cov += (portfolio[i] - mp) * (market[i] - mm)
		varm += (market[i] - mm) * (market[i] - mm)
	}
	if varm == 0 {
		return 0
	}
	return cov / varm
}

// percentile computes the p-th percentile with linear interpolation between
// the closest ranks.
func percentile(xs []float64, p float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
