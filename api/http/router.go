package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/riskpulse/riskpulse/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(
	app *fiber.App,
	health *handlers.HealthHandler,
	users *handlers.UserHandler,
	portfolios *handlers.PortfolioHandler,
	positions *handlers.PositionHandler,
	riskH *handlers.RiskHandler,
	marketH *handlers.MarketHandler,
) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	u := v1.Group("/users")
	u.Post("/", users.Create)
	u.Get("/", users.List)
	u.Get("/:id", users.Get)
	u.Delete("/:id", users.Delete)
	u.Get("/:id/portfolios", users.Portfolios)

	p := v1.Group("/portfolios")
	p.Post("/", portfolios.Create)
	p.Get("/:id", portfolios.Get)
	p.Put("/:id", portfolios.Rename)
	p.Delete("/:id", portfolios.Delete)
	p.Get("/:id/value", portfolios.Value)
	p.Get("/:id/risk", riskH.Analyze)
	p.Post("/:id/positions", positions.Add)
	p.Get("/:id/positions", positions.List)

	v1.Put("/positions/:id", positions.Update)
	v1.Delete("/positions/:id", positions.Remove)

	v1.Get("/market/quote/:symbol", marketH.Quote)
}
