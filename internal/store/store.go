// Package store defines the key/value backend used to persist ECO tables.
package store

import (
	"context"

	"github.com/lgbarn/chessdb/internal/errors"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.ErrNotFound

// Bucket namespaces keys inside a store.
type Bucket string

// Buckets written by the ECO parser.
const (
	BucketLookup         Bucket = "lookup"
	BucketClassification Bucket = "classification"
)

// Store defines the interface for storage backends.
type Store interface {
	// Put stores value under key in bucket, replacing any previous value.
	Put(ctx context.Context, bucket Bucket, key string, value []byte) error

	// PutBatch stores several values at once.
	PutBatch(ctx context.Context, bucket Bucket, values map[string][]byte) error

	// Get returns the value of key, or ErrNotFound.
	Get(ctx context.Context, bucket Bucket, key string) ([]byte, error)

	// Iterate calls fn for every key in bucket in key order. The value is
	// only valid during the call.
	Iterate(ctx context.Context, bucket Bucket, fn func(key string, value []byte) error) error

	// Close releases any resources held by the store.
	Close() error
}
