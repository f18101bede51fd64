package async

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/robotkit/hal"
)

// CycleFunc is one phase of a hardware cycle.
type CycleFunc func(t time.Time, period time.Duration) hal.ReturnType

// Options configure a Runner.
type Options struct {
	// Name identifies the worker in logs.
	Name string

	Logger *zap.Logger

	// ThreadPriority is the SCHED_FIFO priority to request. Zero skips
	// the request.
	ThreadPriority int

	// Read runs first every cycle.
	Read CycleFunc

	// Write runs after a successful read. Nil for read-only hardware.
	Write CycleFunc
}

type request struct {
	t      time.Time
	period time.Duration
}

// Runner executes cycles on a dedicated goroutine.
type Runner struct {
	opts Options

	busy    atomic.Bool
	trigger chan request
	stop    chan struct{}
	wg      sync.WaitGroup

	readStatus  atomic.Uint32
	writeStatus atomic.Uint32
	readNanos   atomic.Int64
	writeNanos  atomic.Int64
}

// NewRunner builds a stopped Runner.
func NewRunner(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Runner{
		opts:    opts,
		trigger: make(chan request, 1),
		stop:    make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (r *Runner) Start() {
	r.wg.Add(1)
	go r.run()
}

// Trigger requests one cycle. Returns false when the previous cycle is
// still running; the request is dropped in that case.
func (r *Runner) Trigger(t time.Time, period time.Duration) bool {
	if !r.busy.CompareAndSwap(false, true) {
		return false
	}
	select {
	case <-r.stop:
		r.busy.Store(false)
		return false
	default:
	}
	r.trigger <- request{t: t, period: period}
	return true
}

// LastRead returns the most recent read status and its execution time.
// OK and zero before the first cycle.
func (r *Runner) LastRead() (hal.ReturnType, time.Duration) {
	return hal.ReturnType(r.readStatus.Load()), time.Duration(r.readNanos.Load())
}

// LastWrite returns the most recent write status and its execution time.
// OK and zero before the first cycle.
func (r *Runner) LastWrite() (hal.ReturnType, time.Duration) {
	return hal.ReturnType(r.writeStatus.Load()), time.Duration(r.writeNanos.Load())
}

// Stop joins the worker. A cycle in flight completes first. Triggers after
// Stop return false.
func (r *Runner) Stop() {
	select {
	case <-r.stop:
	default:
		close(r.stop)
	}
	r.wg.Wait()
}

func (r *Runner) run() {
	defer r.wg.Done()
	runtime.LockOSThread()

	if r.opts.ThreadPriority > 0 {
		if err := setThreadPriority(r.opts.ThreadPriority); err != nil {
			r.opts.Logger.Warn("real-time priority not acquired",
				zap.String("component", r.opts.Name),
				zap.Int("priority", r.opts.ThreadPriority),
				zap.Error(err))
		}
	}

	for {
		select {
		case <-r.stop:
			// Drain a trigger that won the race against Stop.
			select {
			case req := <-r.trigger:
				r.cycle(req)
			default:
			}
			return
		case req := <-r.trigger:
			r.cycle(req)
		}
	}
}

func (r *Runner) cycle(req request) {
	defer r.busy.Store(false)

	start := time.Now()
	status := r.opts.Read(req.t, req.period)
	r.readNanos.Store(int64(time.Since(start)))
	r.readStatus.Store(uint32(status))

	if status != hal.OK || r.opts.Write == nil {
		return
	}

	start = time.Now()
	status = r.opts.Write(req.t, req.period)
	r.writeNanos.Store(int64(time.Since(start)))
	r.writeStatus.Store(uint32(status))
}
