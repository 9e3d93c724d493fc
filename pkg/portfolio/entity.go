package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User owns portfolios. Contact is a validated, unique e-mail address.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

// Portfolio is a named collection of positions belonging to one user.
type Portfolio struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Position is a holding of an instrument inside a portfolio. Quantity may be
// negative (short); cost basis never is.
type Position struct {
	ID          uuid.UUID       `json:"id"`
	PortfolioID uuid.UUID       `json:"portfolio_id"`
	Symbol      string          `json:"symbol"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostBasis   decimal.Decimal `json:"cost_basis"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PositionValue is one line of a portfolio valuation.
type PositionValue struct {
	PositionID uuid.UUID       `json:"position_id"`
	Symbol     string          `json:"symbol"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Value      decimal.Decimal `json:"value"`
}

// Valuation aggregates quantity × current price over a portfolio.
type Valuation struct {
	PortfolioID uuid.UUID       `json:"portfolio_id"`
	Total       decimal.Decimal `json:"total"`
	Positions   []PositionValue `json:"positions"`
	PricedAt    time.Time       `json:"priced_at"`
}
