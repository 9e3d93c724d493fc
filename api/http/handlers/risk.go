package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/riskpulse/riskpulse/api/http/presenter"
	"github.com/riskpulse/riskpulse/pkg/risk"
)

type RiskHandler struct {
	uc risk.UseCase
}

func NewRiskHandler(uc risk.UseCase) *RiskHandler { return &RiskHandler{uc: uc} }

// Analyze computes historical VaR, volatility and beta for a portfolio.
// Query parameters: confidence (0..1, default 0.95), lookback_days
// (default 365).
func (h *RiskHandler) Analyze(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	var opts risk.Options
	if v := c.Query("confidence"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f >= 1 {
			return presenter.Error(c, http.StatusBadRequest, "confidence must be a number in (0, 1)")
		}
		opts.Confidence = f
	}
	if v := c.Query("lookback_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return presenter.Error(c, http.StatusBadRequest, "lookback_days must be a positive integer")
		}
		opts.LookbackDays = n
	}
	report, err := h.uc.Analyze(c.Context(), id, opts)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, report)
}
