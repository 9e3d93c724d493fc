package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/riskpulse/riskpulse/pkg/docstore"
	"github.com/riskpulse/riskpulse/pkg/market"
)

// DeletePolicy decides what happens to dependents when their owner is deleted.
type DeletePolicy string

const (
	// DeleteCascade removes a user's portfolios and their positions along
	// with the user (default).
	DeleteCascade DeletePolicy = "cascade"
	// DeleteRestrict refuses to delete an owner while dependents exist;
	// dependents must be removed explicitly first.
	DeleteRestrict DeletePolicy = "restrict"
)

// UseCase is the only write path into the persistence gateway and the home
// of every invariant over users, portfolios and positions.
type UseCase interface {
	CreateUser(ctx context.Context, name, contact string) (User, error)
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	CreatePortfolio(ctx context.Context, userID uuid.UUID, name string) (Portfolio, error)
	GetPortfolio(ctx context.Context, id uuid.UUID) (Portfolio, error)
	ListPortfolios(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Portfolio, error)
	RenamePortfolio(ctx context.Context, id uuid.UUID, name string) (Portfolio, error)
	DeletePortfolio(ctx context.Context, id uuid.UUID) error

	AddPosition(ctx context.Context, portfolioID uuid.UUID, symbol string, quantity, costBasis decimal.Decimal) (Position, error)
	UpdatePosition(ctx context.Context, id uuid.UUID, quantity, costBasis decimal.Decimal) (Position, error)
	RemovePosition(ctx context.Context, id uuid.UUID) error
	ListPositions(ctx context.Context, portfolioID uuid.UUID) ([]Position, error)

	// Value sums quantity × current price over the portfolio's positions.
	// Lookup failures surface as ErrPricingUnavailable.
	Value(ctx context.Context, portfolioID uuid.UUID, prices market.QuoteSource) (Valuation, error)
}

type service struct {
	store    docstore.Gateway
	validate *validator.Validate
	policy   DeletePolicy
}

// NewService wires the domain service onto a persistence gateway.
func NewService(store docstore.Gateway, policy DeletePolicy) UseCase {
	if policy == "" {
		policy = DeleteCascade
	}
	return &service{
		store:    store,
		validate: validator.New(),
		policy:   policy,
	}
}

func (s *service) CreateUser(ctx context.Context, name, contact string) (User, error) {
	name = strings.TrimSpace(name)
	contact = strings.ToLower(strings.TrimSpace(contact))
	if name == "" {
		return User{}, ValidationError("name is required")
	}
	if err := s.validate.Var(contact, "required,email"); err != nil {
		return User{}, ValidationError("contact must be a valid e-mail address")
	}
	existing, err := s.store.List(ctx, docstore.KindUser, docstore.Filter{Field: "contact", Value: contact, Limit: 1})
	if err != nil {
		return User{}, err
	}
	if len(existing) > 0 {
		return User{}, ErrConflict
	}

	u := User{
		ID:        uuid.New(),
		Name:      name,
		Contact:   contact,
		CreatedAt: time.Now().UTC(),
	}
	rec, err := docstore.NewRecord(docstore.KindUser, u.ID, u)
	if err != nil {
		return User{}, err
	}
	if _, err := s.store.Put(ctx, rec); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	rec, err := s.store.Get(ctx, docstore.KindUser, id)
	if err != nil {
		return User{}, err
	}
	var u User
	if err := rec.Decode(&u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *service) ListUsers(ctx context.Context, limit, offset int) ([]User, error) {
	recs, err := s.store.List(ctx, docstore.KindUser, docstore.Filter{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(recs))
	for _, rec := range recs {
		var u User
		if err := rec.Decode(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	owned := docstore.Filter{Field: "user_id", Value: id.String(), Limit: -1}
	portfolios, err := s.store.List(ctx, docstore.KindPortfolio, owned)
	if err != nil {
		return err
	}
	if s.policy == DeleteRestrict && len(portfolios) > 0 {
		return fmt.Errorf("%w: user still owns %d portfolio(s)", ErrConflict, len(portfolios))
	}
	for _, rec := range portfolios {
		if _, err := s.store.DeleteMatching(ctx, docstore.KindPosition, docstore.Eq("portfolio_id", rec.ID.String())); err != nil {
			return err
		}
	}
	if _, err := s.store.DeleteMatching(ctx, docstore.KindPortfolio, docstore.Eq("user_id", id.String())); err != nil {
		return err
	}
	return s.store.Delete(ctx, docstore.KindUser, id)
}

func (s *service) CreatePortfolio(ctx context.Context, userID uuid.UUID, name string) (Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Portfolio{}, ValidationError("name is required")
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return Portfolio{}, err
	}
	p := Portfolio{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	rec, err := docstore.NewRecord(docstore.KindPortfolio, p.ID, p)
	if err != nil {
		return Portfolio{}, err
	}
	if _, err := s.store.Put(ctx, rec); err != nil {
		return Portfolio{}, err
	}
	return p, nil
}

func (s *service) GetPortfolio(ctx context.Context, id uuid.UUID) (Portfolio, error) {
	rec, err := s.store.Get(ctx, docstore.KindPortfolio, id)
	if err != nil {
		return Portfolio{}, err
	}
	var p Portfolio
	if err := rec.Decode(&p); err != nil {
		return Portfolio{}, err
	}
	return p, nil
}

func (s *service) ListPortfolios(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Portfolio, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	f := docstore.Filter{Field: "user_id", Value: userID.String(), Limit: limit, Offset: offset}
	recs, err := s.store.List(ctx, docstore.KindPortfolio, f)
	if err != nil {
		return nil, err
	}
	out := make([]Portfolio, 0, len(recs))
	for _, rec := range recs {
		var p Portfolio
		if err := rec.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *service) RenamePortfolio(ctx context.Context, id uuid.UUID, name string) (Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Portfolio{}, ValidationError("name is required")
	}
	p, err := s.GetPortfolio(ctx, id)
	if err != nil {
		return Portfolio{}, err
	}
	p.Name = name
	rec, err := docstore.NewRecord(docstore.KindPortfolio, p.ID, p)
	if err != nil {
		return Portfolio{}, err
	}
	if _, err := s.store.Put(ctx, rec); err != nil {
		return Portfolio{}, err
	}
	return p, nil
}

func (s *service) DeletePortfolio(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPortfolio(ctx, id); err != nil {
		return err
	}
	held := docstore.Eq("portfolio_id", id.String())
	if s.policy == DeleteRestrict {
		positions, err := s.store.List(ctx, docstore.KindPosition, docstore.Filter{Field: held.Field, Value: held.Value, Limit: 1})
		if err != nil {
			return err
		}
		if len(positions) > 0 {
			return fmt.Errorf("%w: portfolio still holds positions", ErrConflict)
		}
	}
	if _, err := s.store.DeleteMatching(ctx, docstore.KindPosition, held); err != nil {
		return err
	}
	return s.store.Delete(ctx, docstore.KindPortfolio, id)
}

func (s *service) AddPosition(ctx context.Context, portfolioID uuid.UUID, symbol string, quantity, costBasis decimal.Decimal) (Position, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Position{}, ValidationError("symbol is required")
	}
	if costBasis.IsNegative() {
		return Position{}, ValidationError("cost basis must not be negative")
	}
	if _, err := s.GetPortfolio(ctx, portfolioID); err != nil {
		return Position{}, err
	}
	pos := Position{
		ID:          uuid.New(),
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Quantity:    quantity,
		CostBasis:   costBasis,
		UpdatedAt:   time.Now().UTC(),
	}
	rec, err := docstore.NewRecord(docstore.KindPosition, pos.ID, pos)
	if err != nil {
		return Position{}, err
	}
	if _, err := s.store.Put(ctx, rec); err != nil {
		return Position{}, err
	}
	return pos, nil
}

func (s *service) UpdatePosition(ctx context.Context, id uuid.UUID, quantity, costBasis decimal.Decimal) (Position, error) {
	if costBasis.IsNegative() {
		return Position{}, ValidationError("cost basis must not be negative")
	}
	rec, err := s.store.Get(ctx, docstore.KindPosition, id)
	if err != nil {
		return Position{}, err
	}
	var pos Position
	if err := rec.Decode(&pos); err != nil {
		return Position{}, err
	}
	pos.Quantity = quantity
	pos.CostBasis = costBasis
	pos.UpdatedAt = time.Now().UTC()
	updated, err := docstore.NewRecord(docstore.KindPosition, pos.ID, pos)
	if err != nil {
		return Position{}, err
	}
	if _, err := s.store.Put(ctx, updated); err != nil {
		return Position{}, err
	}
	return pos, nil
}

func (s *service) RemovePosition(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, docstore.KindPosition, id)
}

func (s *service) ListPositions(ctx context.Context, portfolioID uuid.UUID) ([]Position, error) {
	if _, err := s.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	f := docstore.Filter{Field: "portfolio_id", Value: portfolioID.String(), Limit: -1}
	recs, err := s.store.List(ctx, docstore.KindPosition, f)
	if err != nil {
		return nil, err
	}
	out := make([]Position, 0, len(recs))
	for _, rec := range recs {
		var pos Position
		if err := rec.Decode(&pos); err != nil {
			return nil, err
		}
		out = append(out, pos)
	}
	return out, nil
}

func (s *service) Value(ctx context.Context, portfolioID uuid.UUID, prices market.QuoteSource) (Valuation, error) {
	positions, err := s.ListPositions(ctx, portfolioID)
	if err != nil {
		return Valuation{}, err
	}
	val := Valuation{
		PortfolioID: portfolioID,
		Total:       decimal.Zero,
		Positions:   make([]PositionValue, 0, len(positions)),
		PricedAt:    time.Now().UTC(),
	}
	priced := map[string]decimal.Decimal{}
	for _, pos := range positions {
		price, ok := priced[pos.Symbol]
		if !ok {
			price, err = prices.Price(ctx, pos.Symbol)
			if err != nil {
				return Valuation{}, fmt.Errorf("%w: %s: %v", ErrPricingUnavailable, pos.Symbol, err)
			}
			priced[pos.Symbol] = price
		}
		line := PositionValue{
			PositionID: pos.ID,
			Symbol:     pos.Symbol,
			Quantity:   pos.Quantity,
			Price:      price,
			Value:      pos.Quantity.Mul(price),
		}
		val.Positions = append(val.Positions, line)
		val.Total = val.Total.Add(line.Value)
	}
	return val, nil
}
