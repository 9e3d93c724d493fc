// Package quoteapi implements the market data interfaces against an
// EODHD-style HTTP quote service: JSON bodies, API token in the query string.
package quoteapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskpulse/riskpulse/pkg/market"
)

// Client is a minimal quote API client.
type Client struct {
	BaseURL  string
	APIToken string
	httpDo   *http.Client
}

func New(baseURL, apiToken string) *Client {
	return &Client{
		BaseURL:  baseURL,
		APIToken: apiToken,
		httpDo: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type quoteResponse struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	Open          decimal.Decimal `json:"open"`
	DayHigh       decimal.Decimal `json:"dayHigh"`
	DayLow        decimal.Decimal `json:"dayLow"`
}

type candleResponse struct {
	Date  string          `json:"date"`
	Close decimal.Decimal `json:"close"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	query.Set("api_token", c.APIToken)
	endpoint := fmt.Sprintf("%s%s?%s", c.BaseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpDo.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return market.ErrPriceNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("quote api http %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) Quote(ctx context.Context, symbol string) (market.Quote, error) {
	var out quoteResponse
	path := fmt.Sprintf("/quote/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, url.Values{}, &out); err != nil {
		return market.Quote{}, err
	}
	return market.Quote{
		Symbol:        out.Symbol,
		Price:         out.Price,
		PreviousClose: out.PreviousClose,
		Open:          out.Open,
		DayHigh:       out.DayHigh,
		DayLow:        out.DayLow,
		AsOf:          time.Now().UTC(),
	}, nil
}

func (c *Client) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q, err := c.Quote(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Price, nil
}

func (c *Client) DailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]market.Candle, error) {
	query := url.Values{}
	query.Set("from", from.Format("2006-01-02"))
	query.Set("to", to.Format("2006-01-02"))
	var out []candleResponse
	path := fmt.Sprintf("/history/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	candles := make([]market.Candle, 0, len(out))
	for _, c := range out {
		candles = append(candles, market.Candle{Date: c.Date, Close: c.Close})
	}
	return candles, nil
}
