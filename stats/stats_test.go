package stats

import (
	"math"
	"testing"
)

func TestEmptyCollectorIsNaN(t *testing.T) {
	var c Collector
	s := c.Snapshot()
	if !math.IsNaN(s.Min) || !math.IsNaN(s.Max) || !math.IsNaN(s.Average) {
		t.Errorf("empty snapshot = %+v, want all NaN", s)
	}
	if s.Count != 0 {
		t.Errorf("count = %d", s.Count)
	}
}

func TestCollectorAccumulates(t *testing.T) {
	var c Collector
	for _, v := range []float64{3, 1, 2} {
		c.Add(v)
	}
	s := c.Snapshot()
	if s.Min != 1 || s.Max != 3 || s.Average != 2 || s.Count != 3 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestNaNSamplesIgnored(t *testing.T) {
	var c Collector
	c.Add(math.NaN())
	if c.Snapshot().Count != 0 {
		t.Error("NaN sample counted")
	}
	c.Add(5)
	c.Add(math.NaN())
	if s := c.Snapshot(); s.Count != 1 || s.Average != 5 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestReset(t *testing.T) {
	var c CycleCollector
	c.ExecutionTime.Add(0.001)
	c.Periodicity.Add(100)
	c.Reset()
	if !math.IsNaN(c.ExecutionTime.Snapshot().Average) || !math.IsNaN(c.Periodicity.Snapshot().Average) {
		t.Error("reset did not empty the collectors")
	}
}
