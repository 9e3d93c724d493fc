package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/riskpulse/riskpulse/api/http/presenter"
	"github.com/riskpulse/riskpulse/pkg/market"
)

type MarketHandler struct {
	quotes market.QuoteSource
}

func NewMarketHandler(quotes market.QuoteSource) *MarketHandler {
	return &MarketHandler{quotes: quotes}
}

// Quote fetches a live quote for a ticker from the upstream provider.
func (h *MarketHandler) Quote(c *fiber.Ctx) error {
	symbol := strings.ToUpper(strings.TrimSpace(c.Params("symbol")))
	if symbol == "" {
		return presenter.Error(c, http.StatusBadRequest, "symbol is required")
	}
	q, err := h.quotes.Quote(c.Context(), symbol)
	if err != nil {
		if errors.Is(err, market.ErrPriceNotFound) {
			return presenter.Error(c, http.StatusNotFound, "unknown symbol")
		}
		return presenter.Error(c, http.StatusBadGateway, "quote provider unavailable")
	}
	return presenter.JSON(c, http.StatusOK, q)
}
