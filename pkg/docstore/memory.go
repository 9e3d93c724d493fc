package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a map-backed Gateway with the same semantics as the
// PostgreSQL store, including the unique-contact invariant. Used in tests
// and wherever a process-local store is good enough.
type MemoryStore struct {
	mu     sync.RWMutex
	kinds  map[Kind]map[uuid.UUID]Record
	unique map[Kind]string // kind -> document field that must be unique
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		kinds: map[Kind]map[uuid.UUID]Record{
			KindUser:      {},
			KindPortfolio: {},
			KindPosition:  {},
		},
		unique: map[Kind]string{KindUser: "contact"},
	}
}

func (s *MemoryStore) records(kind Kind) (map[uuid.UUID]Record, error) {
	recs, ok := s.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	return recs, nil
}

func docField(doc json.RawMessage, field string) string {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return ""
	}
	v, ok := m[field]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func (s *MemoryStore) Get(ctx context.Context, kind Kind, id uuid.UUID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, err := s.records(kind)
	if err != nil {
		return Record{}, err
	}
	rec, ok := recs[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Put(ctx context.Context, rec Record) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.records(rec.Kind)
	if err != nil {
		return uuid.Nil, err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if field := s.unique[rec.Kind]; field != "" {
		val := docField(rec.Doc, field)
		for id, other := range recs {
			if id != rec.ID && docField(other.Doc, field) == val {
				return uuid.Nil, ErrConflict
			}
		}
	}
	recs[rec.ID] = rec
	return rec.ID, nil
}

func (s *MemoryStore) Delete(ctx context.Context, kind Kind, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.records(kind)
	if err != nil {
		return err
	}
	if _, ok := recs[id]; !ok {
		return ErrNotFound
	}
	delete(recs, id)
	return nil
}

func (s *MemoryStore) DeleteMatching(ctx context.Context, kind Kind, f Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.records(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	for id, rec := range recs {
		if docField(rec.Doc, f.Field) == f.Value {
			delete(recs, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) List(ctx context.Context, kind Kind, f Filter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, err := s.records(kind)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, rec := range recs {
		if f.Field != "" && docField(rec.Doc, f.Field) != f.Value {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := docField(out[i].Doc, "created_at"), docField(out[j].Doc, "created_at")
		if ci != cj {
			return ci < cj
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}
