// Package stats provides a common interface for parser metrics.
package stats

// Metric names reported by the readers.
const (
	MetricGamesRead       = "chessdb_pgn_games_total"
	MetricGamesIncomplete = "chessdb_pgn_games_incomplete_total"
	MetricPliesRead       = "chessdb_pgn_plies_total"
	MetricChunkSeconds    = "chessdb_chunk_seconds"
	MetricECOEntries      = "chessdb_eco_entries_total"
	MetricECOSkipped      = "chessdb_eco_entries_skipped_total"
	MetricFENCacheHits    = "chessdb_fen_cache_hits_total"
	MetricFENCacheMisses  = "chessdb_fen_cache_misses_total"
	MetricDuplicates      = "chessdb_duplicate_games_total"
	MetricPendingChunks   = "chessdb_pending_chunks"
	MetricFilesRead       = "chessdb_files_total"
	MetricBusyWorkers     = "chessdb_busy_workers"
)

// Collector receives metric updates.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}

// Noop discards all metrics.
type Noop struct{}

var _ Collector = Noop{}

func (Noop) IncCounter(string, int64)         {}
func (Noop) SetGauge(string, int64)           {}
func (Noop) ObserveHistogram(string, float64) {}

// OrNoop returns c, or Noop when c is nil.
func OrNoop(c Collector) Collector {
	if c == nil {
		return Noop{}
	}
	return c
}
