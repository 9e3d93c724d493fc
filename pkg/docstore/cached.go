package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by KV implementations when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// KV is the minimal key-value surface the cache decorator needs. The Redis
// adapter in pkg/storage/redis implements it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CachedStore wraps a Gateway with a read-through cache keyed "{kind}:{id}".
// The cache is advisory: entries may evict at any moment and every cache
// failure degrades to the underlying store, never to an error.
type CachedStore struct {
	next Gateway
	kv   KV
	ttl  time.Duration
	log  *zap.Logger
}

func NewCachedStore(next Gateway, kv KV, ttl time.Duration, log *zap.Logger) *CachedStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedStore{next: next, kv: kv, ttl: ttl, log: log}
}

func cacheKey(kind Kind, id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", kind, id)
}

func (s *CachedStore) Get(ctx context.Context, kind Kind, id uuid.UUID) (Record, error) {
	key := cacheKey(kind, id)
	if doc, err := s.kv.Get(ctx, key); err == nil {
		return Record{Kind: kind, ID: id, Doc: doc}, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}

	rec, err := s.next.Get(ctx, kind, id)
	if err != nil {
		return Record{}, err
	}
	if err := s.kv.Set(ctx, key, rec.Doc, s.ttl); err != nil {
		s.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return rec, nil
}

func (s *CachedStore) Put(ctx context.Context, rec Record) (uuid.UUID, error) {
	id, err := s.next.Put(ctx, rec)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.kv.Del(ctx, cacheKey(rec.Kind, id)); err != nil {
		s.log.Warn("cache invalidation failed", zap.String("key", cacheKey(rec.Kind, id)), zap.Error(err))
	}
	return id, nil
}

func (s *CachedStore) Delete(ctx context.Context, kind Kind, id uuid.UUID) error {
	if err := s.next.Delete(ctx, kind, id); err != nil {
		return err
	}
	if err := s.kv.Del(ctx, cacheKey(kind, id)); err != nil {
		s.log.Warn("cache invalidation failed", zap.String("key", cacheKey(kind, id)), zap.Error(err))
	}
	return nil
}

func (s *CachedStore) DeleteMatching(ctx context.Context, kind Kind, f Filter) (int64, error) {
	// Collect ids first so the cache entries of the removed records can be
	// dropped too.
	recs, err := s.next.List(ctx, kind, Filter{Field: f.Field, Value: f.Value, Limit: -1})
	if err != nil {
		return 0, err
	}
	n, err := s.next.DeleteMatching(ctx, kind, f)
	if err != nil {
		return n, err
	}
	keys := make([]string, 0, len(recs))
	for _, rec := range recs {
		keys = append(keys, cacheKey(kind, rec.ID))
	}
	if len(keys) > 0 {
		if err := s.kv.Del(ctx, keys...); err != nil {
			s.log.Warn("cache invalidation failed", zap.Int("keys", len(keys)), zap.Error(err))
		}
	}
	return n, nil
}

func (s *CachedStore) List(ctx context.Context, kind Kind, f Filter) ([]Record, error) {
	// Listing always hits the store; only point reads take the cache path.
	return s.next.List(ctx, kind, f)
}
