package presenter

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/riskpulse/riskpulse/pkg/portfolio"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

// FromError maps domain errors onto HTTP status codes. Handlers never
// interpret errors themselves; the taxonomy lives in the domain and the
// mapping lives here.
func FromError(c *fiber.Ctx, err error) error {
	var verr portfolio.ValidationError
	switch {
	case errors.As(err, &verr):
		return Error(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, portfolio.ErrNotFound):
		return Error(c, http.StatusNotFound, "not found")
	case errors.Is(err, portfolio.ErrConflict):
		return Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, portfolio.ErrPricingUnavailable):
		return Error(c, http.StatusBadGateway, err.Error())
	default:
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}
