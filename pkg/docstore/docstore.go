package docstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// Common errors surfaced by every Gateway implementation.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("uniqueness conflict")
)

// Kind names a record collection. Each kind maps to one table/collection.
type Kind string

const (
	KindUser      Kind = "users"
	KindPortfolio Kind = "portfolios"
	KindPosition  Kind = "positions"
)

// Record is a single stored document keyed by (Kind, ID).
type Record struct {
	Kind Kind
	ID   uuid.UUID
	Doc  json.RawMessage
}

// NewRecord marshals v into a Record for the given kind.
func NewRecord(kind Kind, id uuid.UUID, v any) (Record, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return Record{}, err
	}
	return Record{Kind: kind, ID: id, Doc: doc}, nil
}

// Decode unmarshals the record document into v.
func (r Record) Decode(v any) error {
	return json.Unmarshal(r.Doc, v)
}

// Filter is a single equality predicate over a top-level document field.
// The zero value matches every record of a kind.
type Filter struct {
	Field  string
	Value  string
	Limit  int
	Offset int
}

// Eq builds an equality filter.
func Eq(field, value string) Filter {
	return Filter{Field: field, Value: value}
}

// Gateway abstracts durable document storage. Implementations may be
// PostgreSQL, in-memory, or a cache-decorated store.
type Gateway interface {
	// Get returns the record for (kind, id) or ErrNotFound.
	Get(ctx context.Context, kind Kind, id uuid.UUID) (Record, error)
	// Put upserts the record, assigning an ID when rec.ID is uuid.Nil.
	// Returns ErrConflict when a uniqueness invariant is violated.
	Put(ctx context.Context, rec Record) (uuid.UUID, error)
	// Delete removes the record or returns ErrNotFound.
	Delete(ctx context.Context, kind Kind, id uuid.UUID) error
	// DeleteMatching removes all records matching the filter and reports
	// how many were removed.
	DeleteMatching(ctx context.Context, kind Kind, f Filter) (int64, error)
	// List returns matching records in a deterministic order. Re-invoking
	// with the same filter re-runs the query against current state.
	List(ctx context.Context, kind Kind, f Filter) ([]Record, error)
}
