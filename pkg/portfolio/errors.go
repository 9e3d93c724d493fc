package portfolio

import (
	"errors"

	"github.com/riskpulse/riskpulse/pkg/docstore"
)

// Domain error taxonomy. NotFound and Conflict are the gateway sentinels so
// errors pass through the service unmodified; the API layer owns the mapping
// to status codes.
var (
	ErrNotFound = docstore.ErrNotFound
	ErrConflict = docstore.ErrConflict

	// ErrPricingUnavailable wraps price-lookup failures. A missing price is
	// never substituted with zero.
	ErrPricingUnavailable = errors.New("pricing unavailable")
)

// ValidationError reports malformed or invariant-violating input.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
