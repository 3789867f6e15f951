// Package progress accumulates per-batch outcomes into a run-wide summary.
// It records, it never steers: batch failures are isolated by the run loop,
// not by anything in here.
package progress

import (
	"github.com/oukeidos/locstr/internal/catalog"
)

// Tracker holds the counters for one pipeline run. Created once before the
// first batch, updated after every batch, read at the end for the summary.
type Tracker struct {
	TotalBatches     int
	CompletedBatches int
	TotalStrings     int
	CompletedStrings int
	FailedPaths      []catalog.Path
}

func New(totalBatches, totalStrings int) *Tracker {
	return &Tracker{
		TotalBatches: totalBatches,
		TotalStrings: totalStrings,
	}
}

// Record accounts for one finished batch: non-error results count as
// completed strings, error results contribute their paths to the failure
// list.
func (t *Tracker) Record(results []catalog.TranslationResult) {
	t.CompletedBatches++
	for _, r := range results {
		if r.State == catalog.StateError {
			t.FailedPaths = append(t.FailedPaths, r.Path)
			continue
		}
		t.CompletedStrings++
	}
}

// RecordBatchFailure accounts for a batch whose translation never produced
// results; every path in the batch is marked failed.
func (t *Tracker) RecordBatchFailure(paths []catalog.Path) {
	t.CompletedBatches++
	t.FailedPaths = append(t.FailedPaths, paths...)
}

// Summary is the read-only view handed to reporting at end of run.
type Summary struct {
	TotalBatches     int
	CompletedBatches int
	TotalStrings     int
	CompletedStrings int
	FailedPaths      []catalog.Path
	StringRatio      float64
	BatchRatio       float64
}

func (t *Tracker) Summary() Summary {
	s := Summary{
		TotalBatches:     t.TotalBatches,
		CompletedBatches: t.CompletedBatches,
		TotalStrings:     t.TotalStrings,
		CompletedStrings: t.CompletedStrings,
		FailedPaths:      t.FailedPaths,
	}
	if t.TotalStrings > 0 {
		s.StringRatio = float64(t.CompletedStrings) / float64(t.TotalStrings)
	}
	if t.TotalBatches > 0 {
		s.BatchRatio = float64(t.CompletedBatches) / float64(t.TotalBatches)
	}
	return s
}

// Clean reports whether the run finished without any failed paths.
func (t *Tracker) Clean() bool {
	return len(t.FailedPaths) == 0
}
