package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/lgbarn/chessdb/internal/config"
	"github.com/lgbarn/chessdb/internal/parser"
)

// ReadFileFunc returns a ProcessFunc that reads a whole PGN file with its
// own Reader. It checks ctx between games; a file interrupted part way
// keeps the games read so far and reports the cancellation cause.
func ReadFileFunc(cfg *config.Config) ProcessFunc {
	return func(ctx context.Context, item WorkItem) ProcessResult {
		res := ProcessResult{Path: item.Path, Index: item.Index}
		r := parser.NewReader(cfg)
		if err := r.Tokenize(item.Path); err != nil {
			res.Err = err
			return res
		}
		for r.HasMore() {
			if ctx.Err() != nil {
				res.Err = context.Cause(ctx)
				break
			}
			if _, err := r.ReadChunk(); err != nil {
				break
			}
		}
		res.Games = r.Games()
		res.GameErrs = r.Err()
		return res
	}
}

// ReadFiles reads paths on cfg.Workers goroutines and returns one result per
// path in input order. Files not started before ctx is cancelled report the
// cancellation cause.
func ReadFiles(ctx context.Context, cfg *config.Config, paths []string) []ProcessResult {
	cfg.Normalize()
	n := max(len(paths), 1)
	pool := NewPool(ctx, ReadFileFunc(cfg),
		WithWorkers(min(cfg.Workers, n)),
		WithBufferSize(n),
		WithStats(cfg.Stats),
	)
	pool.Start()

	go func() {
		defer pool.Close()
		for i, path := range paths {
			if err := pool.Submit(WorkItem{Path: path, Index: i}); err != nil {
				return
			}
		}
	}()

	results := make([]ProcessResult, len(paths))
	seen := make([]bool, len(paths))
	for res := range pool.Results() {
		results[res.Index] = res
		seen[res.Index] = true
		cfg.Logger.Debug("read file",
			zap.String("file", res.Path),
			zap.Int("games", len(res.Games)),
			zap.Error(res.Err),
		)
	}
	for i, ok := range seen {
		if !ok {
			results[i] = ProcessResult{Path: paths[i], Index: i, Err: context.Cause(ctx)}
		}
	}
	return results
}
