// Package profiler - Timing statistics for repeated decoder runs.
package profiler

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultMaxSamples is the number of durations a TimeTracker keeps.
const DefaultMaxSamples = 600

// TimeTracker tracks operation timing statistics. It is safe for concurrent
// use.
type TimeTracker struct {
	mu         sync.Mutex
	name       string
	durations  []float64
	next       int
	maxSamples int
	count      int64
	totalTime  time.Duration
}

// Summary is a snapshot of a TimeTracker.
type Summary struct {
	Name   string        `json:"name"`
	Count  int64         `json:"count"`
	Total  time.Duration `json:"total"`
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"std_dev"`
	P50    time.Duration `json:"p50"`
	P95    time.Duration `json:"p95"`
	P99    time.Duration `json:"p99"`
}

// NewTimeTracker creates a tracker keeping the last maxSamples durations.
//
// Arguments:
//   - name: The operation name.
//   - maxSamples: The window size; DefaultMaxSamples when not positive.
//
// Returns:
//   - *TimeTracker: The tracker.
func NewTimeTracker(name string, maxSamples int) *TimeTracker {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &TimeTracker{
		name:       name,
		durations:  make([]float64, 0, maxSamples),
		maxSamples: maxSamples,
	}
}

// Record adds one duration. Once the window is full the oldest sample is
// replaced.
func (t *TimeTracker) Record(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++
	t.totalTime += d

	if len(t.durations) < t.maxSamples {
		t.durations = append(t.durations, float64(d))
		return
	}
	t.durations[t.next] = float64(d)
	t.next = (t.next + 1) % t.maxSamples
}

// Time runs fn and records how long it took, whether or not it failed.
func (t *TimeTracker) Time(fn func() error) error {
	start := time.Now()
	err := fn()
	t.Record(time.Since(start))
	return err
}

// Summary computes the statistics of the current window. Count and Total
// cover every recorded duration.
func (t *TimeTracker) Summary() Summary {
	t.mu.Lock()
	samples := append([]float64(nil), t.durations...)
	s := Summary{Name: t.name, Count: t.count, Total: t.totalTime}
	t.mu.Unlock()

	if len(samples) == 0 {
		return s
	}

	sort.Float64s(samples)
	mean, std := stat.MeanStdDev(samples, nil)

	s.Min = time.Duration(floats.Min(samples))
	s.Max = time.Duration(floats.Max(samples))
	s.Mean = time.Duration(mean)
	if len(samples) > 1 {
		s.StdDev = time.Duration(std)
	}
	s.P50 = time.Duration(stat.Quantile(0.50, stat.Empirical, samples, nil))
	s.P95 = time.Duration(stat.Quantile(0.95, stat.Empirical, samples, nil))
	s.P99 = time.Duration(stat.Quantile(0.99, stat.Empirical, samples, nil))
	return s
}

// Fields returns the summary as log fields.
func (s Summary) Fields() logrus.Fields {
	return logrus.Fields{
		"operation": s.Name,
		"count":     s.Count,
		"min":       s.Min,
		"max":       s.Max,
		"mean":      s.Mean,
		"std_dev":   s.StdDev,
		"p50":       s.P50,
		"p95":       s.P95,
		"p99":       s.P99,
	}
}
