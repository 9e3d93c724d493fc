package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskpulse/riskpulse/pkg/docstore"
	"github.com/riskpulse/riskpulse/pkg/market"
)

// fixedPrices is a QuoteSource backed by a static table.
type fixedPrices map[string]string

func (p fixedPrices) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	v, ok := p[symbol]
	if !ok {
		return decimal.Zero, market.ErrPriceNotFound
	}
	return decimal.RequireFromString(v), nil
}

func (p fixedPrices) Quote(ctx context.Context, symbol string) (market.Quote, error) {
	price, err := p.Price(ctx, symbol)
	if err != nil {
		return market.Quote{}, err
	}
	return market.Quote{Symbol: symbol, Price: price}, nil
}

func newTestService(t *testing.T, policy DeletePolicy) (UseCase, *docstore.MemoryStore) {
	t.Helper()
	store := docstore.NewMemoryStore()
	return NewService(store, policy), store
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateUserThenGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	u, err := svc.CreateUser(ctx, "Arthur Griffith", "arthur@example.com")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arthur Griffith", got.Name)
	assert.Equal(t, "arthur@example.com", got.Contact)
}

func TestCreateUserValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	tests := []struct {
		name    string
		user    string
		contact string
	}{
		{"empty name", "", "a@example.com"},
		{"empty contact", "A", ""},
		{"malformed contact", "A", "not-an-email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, tt.user, tt.contact)
			var verr ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestCreateUserDuplicateContact(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	_, err := svc.CreateUser(ctx, "A", "dup@example.com")
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "B", "DUP@example.com") // contact is normalized
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreatePortfolioUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, DeleteCascade)

	_, err := svc.CreatePortfolio(ctx, uuid.New(), "growth")
	assert.ErrorIs(t, err, ErrNotFound)

	// Nothing was persisted.
	recs, err := store.List(ctx, docstore.KindPortfolio, docstore.Filter{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestAddPositionNegativeCostBasis(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	u, err := svc.CreateUser(ctx, "A", "a@example.com")
	require.NoError(t, err)
	p, err := svc.CreatePortfolio(ctx, u.ID, "growth")
	require.NoError(t, err)

	_, err = svc.AddPosition(ctx, p.ID, "AAPL", dec("10"), dec("-1"))
	var verr ValidationError
	assert.ErrorAs(t, err, &verr)

	// Failure leaves the position set unchanged.
	positions, err := svc.ListPositions(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestAddPositionNormalizesSymbol(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	u, err := svc.CreateUser(ctx, "A", "a@example.com")
	require.NoError(t, err)
	p, err := svc.CreatePortfolio(ctx, u.ID, "growth")
	require.NoError(t, err)

	pos, err := svc.AddPosition(ctx, p.ID, " aapl ", dec("10"), dec("150"))
	require.NoError(t, err)
	assert.Equal(t, "AAPL", pos.Symbol)
}

func TestUpdatePositionBumpsTimestamp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	u, err := svc.CreateUser(ctx, "A", "a@example.com")
	require.NoError(t, err)
	p, err := svc.CreatePortfolio(ctx, u.ID, "growth")
	require.NoError(t, err)
	pos, err := svc.AddPosition(ctx, p.ID, "AAPL", dec("10"), dec("150"))
	require.NoError(t, err)

	updated, err := svc.UpdatePosition(ctx, pos.ID, dec("12"), dec("155"))
	require.NoError(t, err)
	assert.Equal(t, pos.ID, updated.ID)
	assert.True(t, updated.Quantity.Equal(dec("12")))
	assert.False(t, updated.UpdatedAt.Before(pos.UpdatedAt))
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, DeleteCascade)

	u, err := svc.CreateUser(ctx, "A", "a@example.com")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		p, err := svc.CreatePortfolio(ctx, u.ID, "p")
		require.NoError(t, err)
		for j := 0; j < 3; j++ {
			_, err := svc.AddPosition(ctx, p.ID, "AAPL", dec("1"), dec("1"))
			require.NoError(t, err)
		}
	}

	require.NoError(t, svc.DeleteUser(ctx, u.ID))

	_, err = svc.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	portfolios, err := store.List(ctx, docstore.KindPortfolio, docstore.Eq("user_id", u.ID.String()))
	require.NoError(t, err)
	assert.Empty(t, portfolios)

	positions, err := store.List(ctx, docstore.KindPosition, docstore.Filter{Limit: -1})
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestDeleteUserRestrict(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteRestrict)

	u, err := svc.CreateUser(ctx, "A", "a@example.com")
	require.NoError(t, err)
	p, err := svc.CreatePortfolio(ctx, u.ID, "growth")
	require.NoError(t, err)

	err = svc.DeleteUser(ctx, u.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// After removing the dependents explicitly the delete goes through.
	require.NoError(t, svc.DeletePortfolio(ctx, p.ID))
	assert.NoError(t, svc.DeleteUser(ctx, u.ID))
}

func TestDeletePortfolioRestrictWithPositions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteRestrict)

	u, err := svc.CreateUser(ctx, "A", "a@example.com")
	require.NoError(t, err)
	p, err := svc.CreatePortfolio(ctx, u.ID, "growth")
	require.NoError(t, err)
	pos, err := svc.AddPosition(ctx, p.ID, "AAPL", dec("1"), dec("1"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeletePortfolio(ctx, p.ID), ErrConflict)

	require.NoError(t, svc.RemovePosition(ctx, pos.ID))
	assert.NoError(t, svc.DeletePortfolio(ctx, p.ID))
}

func TestValueLinearity(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	u, err := svc.CreateUser(ctx, "A", "a@example.com")
	require.NoError(t, err)
	p, err := svc.CreatePortfolio(ctx, u.ID, "growth")
	require.NoError(t, err)

	_, err = svc.AddPosition(ctx, p.ID, "A", dec("10"), dec("1"))
	require.NoError(t, err)
	_, err = svc.AddPosition(ctx, p.ID, "B", dec("5"), dec("2"))
	require.NoError(t, err)

	val, err := svc.Value(ctx, p.ID, fixedPrices{"A": "1.50", "B": "2.00"})
	require.NoError(t, err)
	assert.True(t, val.Total.Equal(dec("25.00")), "got %s", val.Total)
	assert.Len(t, val.Positions, 2)
}

func TestValueEmptyPortfolio(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	u, err := svc.CreateUser(ctx, "A", "a@example.com")
	require.NoError(t, err)
	p, err := svc.CreatePortfolio(ctx, u.ID, "growth")
	require.NoError(t, err)

	val, err := svc.Value(ctx, p.ID, fixedPrices{})
	require.NoError(t, err)
	assert.True(t, val.Total.IsZero())
	assert.Empty(t, val.Positions)
}

func TestValueMissingPrice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	u, err := svc.CreateUser(ctx, "A", "a@example.com")
	require.NoError(t, err)
	p, err := svc.CreatePortfolio(ctx, u.ID, "growth")
	require.NoError(t, err)
	_, err = svc.AddPosition(ctx, p.ID, "ZZZZ", dec("10"), dec("1"))
	require.NoError(t, err)

	// A missing price is never treated as zero.
	_, err = svc.Value(ctx, p.ID, fixedPrices{})
	assert.ErrorIs(t, err, ErrPricingUnavailable)
}

func TestValueUnknownPortfolio(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	_, err := svc.Value(ctx, uuid.New(), fixedPrices{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUsersRestartable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	for _, contact := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.CreateUser(ctx, "U", contact)
		require.NoError(t, err)
	}

	first, err := svc.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	second, err := svc.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestRenamePortfolio(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	u, err := svc.CreateUser(ctx, "A", "a@example.com")
	require.NoError(t, err)
	p, err := svc.CreatePortfolio(ctx, u.ID, "old")
	require.NoError(t, err)

	renamed, err := svc.RenamePortfolio(ctx, p.ID, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", renamed.Name)
	assert.Equal(t, p.ID, renamed.ID)

	_, err = svc.RenamePortfolio(ctx, uuid.New(), "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestErrorsPassThroughUnmodified(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, DeleteCascade)

	_, err := svc.GetUser(ctx, uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}
