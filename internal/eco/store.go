package eco

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lgbarn/chessdb/internal/store"
)

// HashKey formats a position hash as the 16-digit hex key used in stores and
// JSON exports.
func HashKey(h uint64) string {
	return fmt.Sprintf("%016x", h)
}

// ParseHashKey is the inverse of HashKey.
func ParseHashKey(key string) (uint64, error) {
	return strconv.ParseUint(key, 16, 64)
}

// Save writes both tables to s.
func (p *Parser) Save(ctx context.Context, s store.Store) error {
	lookup := make(map[string][]byte, len(p.lookupTable))
	for code, e := range p.lookupTable {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		lookup[code] = data
	}
	if err := s.PutBatch(ctx, store.BucketLookup, lookup); err != nil {
		return fmt.Errorf("save lookup: %w", err)
	}

	classification := make(map[string][]byte, len(p.classificationTable))
	for h, cl := range p.classificationTable {
		data, err := json.Marshal(cl)
		if err != nil {
			return err
		}
		classification[HashKey(h)] = data
	}
	if err := s.PutBatch(ctx, store.BucketClassification, classification); err != nil {
		return fmt.Errorf("save classification: %w", err)
	}
	return nil
}

// LoadFromStore rebuilds a classifier from tables saved with Save.
func LoadFromStore(ctx context.Context, s store.Store) (*Classifier, error) {
	lookup := make(map[string]LookupEntry)
	err := s.Iterate(ctx, store.BucketLookup, func(key string, value []byte) error {
		var e LookupEntry
		if err := json.Unmarshal(value, &e); err != nil {
			return fmt.Errorf("lookup %s: %w", key, err)
		}
		lookup[key] = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	classification := make(map[uint64]Classification)
	err = s.Iterate(ctx, store.BucketClassification, func(key string, value []byte) error {
		h, err := ParseHashKey(key)
		if err != nil {
			return fmt.Errorf("classification key %q: %w", key, err)
		}
		var cl Classification
		if err := json.Unmarshal(value, &cl); err != nil {
			return fmt.Errorf("classification %s: %w", key, err)
		}
		classification[h] = cl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewClassifier(classification, lookup), nil
}
