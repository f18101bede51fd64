package handle

import (
	"math"
	"strconv"
	"sync"
)

// Handle is a named, typed, lock-protected storage cell for one interface
// value. Identity is immutable after creation; the value may be read by
// many goroutines concurrently and written by at most one at a time.
type Handle struct {
	prefix string
	name   string

	mu sync.RWMutex
	// value points either at the handle's own cell or at externally owned
	// memory (controller reference interfaces). Nil after Detach.
	value *float64
	cell  float64
}

// New creates a handle owning its own storage, initialized from the
// description. Without a declared initial value the handle reads as NaN
// until first written.
func New(desc InterfaceDescription) *Handle {
	h := &Handle{
		prefix: desc.Prefix,
		name:   desc.Info.Name,
		cell:   math.NaN(),
	}
	h.value = &h.cell
	if desc.Info.InitialValue != "" {
		if v, err := strconv.ParseFloat(desc.Info.InitialValue, 64); err == nil {
			h.cell = v
		}
	}
	return h
}

// NewBound creates a handle backed by memory owned elsewhere. The caller
// is responsible for calling Detach before the memory goes away.
func NewBound(prefix, name string, storage *float64) *Handle {
	h := &Handle{prefix: prefix, name: name, cell: math.NaN()}
	if storage != nil {
		h.value = storage
	} else {
		h.value = &h.cell
	}
	return h
}

// Prefix returns the owning joint/sensor/gpio or controller name.
func (h *Handle) Prefix() string { return h.prefix }

// InterfaceName returns the bare interface name, e.g. "position".
func (h *Handle) InterfaceName() string { return h.name }

// Name returns the full interface name, "prefix/interface".
func (h *Handle) Name() string { return h.prefix + "/" + h.name }

// Value returns the current value under a shared lock. NaN when the
// handle was never written and declared no initial value, or when the
// handle has been detached.
func (h *Handle) Value() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.value == nil {
		return math.NaN()
	}
	return *h.value
}

// SetValue stores v under the exclusive lock. It reports false when the
// backing storage has been detached; for table-owned handles it always
// succeeds. The critical section is a single store, so writers never hold
// readers up for longer than that.
func (h *Handle) SetValue(v float64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.value == nil {
		return false
	}
	*h.value = v
	return true
}

// Detach severs the binding to external storage. Subsequent reads return
// NaN and writes report false. Detaching a handle that owns its storage
// has the same effect.
func (h *Handle) Detach() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.value = nil
}
