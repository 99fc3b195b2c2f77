// Package memstore provides an in-memory store implementation.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/lgbarn/chessdb/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store, safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	buckets map[store.Bucket]map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		buckets: make(map[store.Bucket]map[string][]byte),
	}
}

// Put stores a copy of value.
func (s *Store) Put(ctx context.Context, bucket store.Bucket, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(bucket, key, value)
	return nil
}

func (s *Store) put(bucket store.Bucket, key string, value []byte) {
	b, ok := s.buckets[bucket]
	if !ok {
		b = make(map[string][]byte)
		s.buckets[bucket] = b
	}
	b[key] = slices.Clone(value)
}

// PutBatch stores copies of all values.
func (s *Store) PutBatch(ctx context.Context, bucket store.Bucket, values map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.put(bucket, k, v)
	}
	return nil
}

// Get reads a value from memory.
func (s *Store) Get(ctx context.Context, bucket store.Bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.buckets[bucket][key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

// Iterate visits the bucket in key order.
func (s *Store) Iterate(ctx context.Context, bucket store.Bucket, fn func(key string, value []byte) error) error {
	s.mu.RLock()
	b := s.buckets[bucket]
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	slices.Sort(keys)

	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.mu.RLock()
		v, ok := b[k]
		s.mu.RUnlock()
		if !ok {
			continue
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
