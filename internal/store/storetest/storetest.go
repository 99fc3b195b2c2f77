// Package storetest checks that a store.Store implementation behaves like
// the interface documents.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/chessdb/internal/store"
)

// Run exercises s. The store must be empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, store.BucketLookup, "C00"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() on empty store error = %v; want ErrNotFound", err)
	}

	if err := s.Put(ctx, store.BucketLookup, "C00", []byte("first")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Put(ctx, store.BucketLookup, "C00", []byte("French")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := s.Get(ctx, store.BucketLookup, "C00")
	if err != nil || string(got) != "French" {
		t.Errorf("Get() = %q, %v; want %q", got, err, "French")
	}

	batch := map[string][]byte{
		"b": []byte("2"),
		"a": []byte("1"),
		"c": []byte("3"),
	}
	if err := s.PutBatch(ctx, store.BucketClassification, batch); err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}

	var keys []string
	values := map[string]string{}
	err = s.Iterate(ctx, store.BucketClassification, func(key string, value []byte) error {
		keys = append(keys, key)
		values[key] = string(value)
		return nil
	})
	if err != nil {
		t.Fatalf("Iterate() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys); diff != "" {
		t.Errorf("Iterate() keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"a": "1", "b": "2", "c": "3"}, values); diff != "" {
		t.Errorf("Iterate() values mismatch (-want +got):\n%s", diff)
	}

	// Buckets do not leak into each other.
	if _, err := s.Get(ctx, store.BucketLookup, "a"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() across buckets error = %v; want ErrNotFound", err)
	}

	stop := errors.New("stop")
	n := 0
	err = s.Iterate(ctx, store.BucketClassification, func(string, []byte) error {
		n++
		return stop
	})
	if !errors.Is(err, stop) || n != 1 {
		t.Errorf("Iterate() with failing callback = %v after %d calls; want stop after 1", err, n)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.Put(cancelled, store.BucketLookup, "x", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() with cancelled context error = %v; want context.Canceled", err)
	}
}
