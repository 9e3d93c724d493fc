package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/riskpulse/riskpulse/api/http/presenter"
	"github.com/riskpulse/riskpulse/pkg/market"
	"github.com/riskpulse/riskpulse/pkg/portfolio"
)

type PortfolioHandler struct {
	uc     portfolio.UseCase
	prices market.QuoteSource
}

func NewPortfolioHandler(uc portfolio.UseCase, prices market.QuoteSource) *PortfolioHandler {
	return &PortfolioHandler{uc: uc, prices: prices}
}

type createPortfolioRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (h *PortfolioHandler) Create(c *fiber.Ctx) error {
	var req createPortfolioRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "user_id must be a UUID")
	}
	p, err := h.uc.CreatePortfolio(c.Context(), userID, req.Name)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, p)
}

func (h *PortfolioHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	p, err := h.uc.GetPortfolio(c.Context(), id)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, p)
}

type renamePortfolioRequest struct {
	Name string `json:"name"`
}

func (h *PortfolioHandler) Rename(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	var req renamePortfolioRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	p, err := h.uc.RenamePortfolio(c.Context(), id, req.Name)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, p)
}

func (h *PortfolioHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	if err := h.uc.DeletePortfolio(c.Context(), id); err != nil {
		return presenter.FromError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Value prices every position at the current market quote and returns the
// aggregate.
func (h *PortfolioHandler) Value(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	val, err := h.uc.Value(c.Context(), id, h.prices)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, val)
}
