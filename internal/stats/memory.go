package stats

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/m3rciful/jeepyq/internal/exam"
)

type bucketKey struct {
	kind exam.Kind
	year int
}

type counters struct {
	delivered atomic.Int64
	failed    atomic.Int64
}

// Memory keeps counters for the lifetime of the process.
type Memory struct {
	total  atomic.Int64
	failed atomic.Int64

	mu      sync.RWMutex
	buckets map[bucketKey]*counters
}

// NewMemory returns an empty in-process recorder.
func NewMemory() *Memory {
	return &Memory{buckets: make(map[bucketKey]*counters)}
}

// Record implements Recorder.
func (m *Memory) Record(_ context.Context, d Delivery) error {
	c := m.bucket(bucketKey{kind: d.Kind, year: d.Year})
	m.total.Inc()
	if d.OK {
		c.delivered.Inc()
		return nil
	}
	m.failed.Inc()
	c.failed.Inc()
	return nil
}

func (m *Memory) bucket(k bucketKey) *counters {
	m.mu.RLock()
	c, ok := m.buckets[k]
	m.mu.RUnlock()
	if ok {
		return c
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.buckets[k]; !ok {
		c = &counters{}
		m.buckets[k] = c
	}
	return c
}

// Summary implements Recorder.
func (m *Memory) Summary(context.Context) (Summary, error) {
	m.mu.RLock()
	out := make([]Bucket, 0, len(m.buckets))
	for k, c := range m.buckets {
		out = append(out, Bucket{
			Kind:      k.kind,
			Year:      k.year,
			Delivered: c.delivered.Load(),
			Failed:    c.failed.Load(),
		})
	}
	m.mu.RUnlock()
	sortBuckets(out)
	return Summary{Total: m.total.Load(), Failed: m.failed.Load(), Buckets: out}, nil
}

// Prune is a no-op: memory counters carry no timestamps.
func (m *Memory) Prune(context.Context, time.Time) (int64, error) { return 0, nil }
