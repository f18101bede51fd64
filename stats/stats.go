// Package stats collects per-cycle execution statistics for hardware
// components: execution time and periodicity of the read and write
// phases. An empty collector reports NaN for every figure, which lets
// callers tell "never ran" apart from "ran with zero variance".
package stats

import (
	"math"
	"sync"
)

// Statistics is a snapshot of one measurement series.
type Statistics struct {
	Min     float64
	Max     float64
	Average float64
	Count   uint64
}

// Collector accumulates min/avg/max over a measurement series. The zero
// value is ready to use and reports NaN until the first sample.
type Collector struct {
	mu    sync.Mutex
	min   float64
	max   float64
	sum   float64
	count uint64
}

// Add records one measurement.
func (c *Collector) Add(v float64) {
	if math.IsNaN(v) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == 0 || v < c.min {
		c.min = v
	}
	if c.count == 0 || v > c.max {
		c.max = v
	}
	c.sum += v
	c.count++
}

// Snapshot returns the current statistics. All figures are NaN while the
// collector is empty.
func (c *Collector) Snapshot() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == 0 {
		nan := math.NaN()
		return Statistics{Min: nan, Max: nan, Average: nan}
	}
	return Statistics{
		Min:     c.min,
		Max:     c.max,
		Average: c.sum / float64(c.count),
		Count:   c.count,
	}
}

// Reset discards all samples.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.min, c.max, c.sum, c.count = 0, 0, 0, 0
}

// CycleCollector tracks one direction (read or write) of a component's
// cycle: how long each executed cycle took and how often cycles actually
// happen, in Hz, measured between consecutive executions.
type CycleCollector struct {
	// ExecutionTime is sampled in seconds per executed cycle.
	ExecutionTime Collector
	// Periodicity is sampled in Hz between consecutive executed cycles.
	Periodicity Collector
}

// Reset discards both series.
func (c *CycleCollector) Reset() {
	c.ExecutionTime.Reset()
	c.Periodicity.Reset()
}
