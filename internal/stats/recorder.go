// Package stats records which questions were served and reports per exam and
// year counters. It never stores conversation state.
package stats

import (
	"context"
	"sort"
	"time"

	"github.com/m3rciful/jeepyq/internal/exam"
)

// Delivery is one attempt to serve a question image.
type Delivery struct {
	Kind     exam.Kind
	Year     int
	Question int
	OK       bool
	At       time.Time
}

// Bucket aggregates deliveries of one exam year.
type Bucket struct {
	Kind      exam.Kind
	Year      int
	Delivered int64
	Failed    int64
}

// Summary is the snapshot reported by /stats and /export.
type Summary struct {
	Total   int64
	Failed  int64
	Buckets []Bucket
}

// Recorder stores deliveries. Implementations are safe for concurrent use.
type Recorder interface {
	Record(ctx context.Context, d Delivery) error
	Summary(ctx context.Context) (Summary, error)
	// Prune drops deliveries recorded before the given instant and reports
	// how many were removed.
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// Nop discards every delivery.
type Nop struct{}

func (Nop) Record(context.Context, Delivery) error { return nil }
func (Nop) Summary(context.Context) (Summary, error) { return Summary{}, nil }
func (Nop) Prune(context.Context, time.Time) (int64, error) { return 0, nil }

func sortBuckets(b []Bucket) {
	sort.Slice(b, func(i, j int) bool {
		if b[i].Kind != b[j].Kind {
			return b[i].Kind < b[j].Kind
		}
		return b[i].Year < b[j].Year
	})
}
