package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/riskpulse/riskpulse/api/http/presenter"
	"github.com/riskpulse/riskpulse/pkg/portfolio"
)

type UserHandler struct {
	uc portfolio.UseCase
}

func NewUserHandler(uc portfolio.UseCase) *UserHandler { return &UserHandler{uc: uc} }

type createUserRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Create registers a new user account.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	u, err := h.uc.CreateUser(c.Context(), req.Name, req.Contact)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, u)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	u, err := h.uc.GetUser(c.Context(), id)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, u)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)
	users, err := h.uc.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, users)
}

// Delete removes a user; dependents are handled per the configured deletion
// policy.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	if err := h.uc.DeleteUser(c.Context(), id); err != nil {
		return presenter.FromError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Portfolios lists the portfolios owned by a user.
func (h *UserHandler) Portfolios(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid UUID")
	}
	limit, offset := parseLimitOffset(c, 50)
	portfolios, err := h.uc.ListPortfolios(c.Context(), id, limit, offset)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, portfolios)
}
