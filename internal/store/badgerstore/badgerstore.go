// Package badgerstore provides a store backed by BadgerDB.
package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/hashicorp/go-multierror"

	"github.com/lgbarn/chessdb/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store wraps a BadgerDB. Keys are stored as "bucket/key".
type Store struct {
	db *badger.DB
}

// Open opens or creates a database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only in memory.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &Store{db: db}, nil
}

func prefix(bucket store.Bucket) []byte {
	return []byte(string(bucket) + "/")
}

func dbKey(bucket store.Bucket, key string) []byte {
	return append(prefix(bucket), key...)
}

// Put stores value under key.
func (s *Store) Put(ctx context.Context, bucket store.Bucket, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(dbKey(bucket, key), value)
	})
}

// PutBatch writes all values through a write batch. Every failed key is
// reported in the returned error.
func (s *Store) PutBatch(ctx context.Context, bucket store.Bucket, values map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	var result *multierror.Error
	for k, v := range values {
		if err := wb.Set(dbKey(bucket, k), v); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s/%s: %w", bucket, k, err))
		}
	}
	if err := wb.Flush(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Get returns a copy of the value of key.
func (s *Store) Get(ctx context.Context, bucket store.Bucket, key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dbKey(bucket, key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrNotFound
	}
	return data, err
}

// Iterate visits every key of bucket in key order.
func (s *Store) Iterate(ctx context.Context, bucket store.Bucket, fn func(key string, value []byte) error) error {
	p := prefix(bucket)
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = p
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			key := string(item.Key()[len(p):])
			if err := item.Value(func(val []byte) error {
				return fn(key, val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
