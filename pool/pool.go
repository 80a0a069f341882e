// Package pool implements the thread pool of §4.9: a bounded vector of
// workers dispatched round-robin, each draining its own two-lock queue
// under a wakeup signal, with cooperative shutdown via a process-wide
// rundown gate. Grounded on the reference implementation's ThreadPool.cpp
// structure (lookaside-allocated work items, round-robin Enqueue, rundown
// guard) and on the teacher's eventloop package for the surrounding
// options/logging idiom.
package pool

import (
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-catrate"

	"github.com/joeycumines/go-rtcore/alloc"
	"github.com/joeycumines/go-rtcore/internal/xplog"
	"github.com/joeycumines/go-rtcore/queue"
	"github.com/joeycumines/go-rtcore/status"
	"github.com/joeycumines/go-rtcore/syncx"
	"github.com/joeycumines/go-rtcore/thread"
)

// workItem is the thread-pool work item of §3: the user callback, the
// rundown callback, and the argument, owned by the per-worker queue until
// drained. The argument is closed over by the callbacks themselves rather
// than carried as a separate field, which is the idiomatic Go equivalent of
// the original's {callback, rundown_callback, arg} triple.
type workItem struct {
	callback func()
	rundown  func()
}

// Pool is the thread pool of §4.9 and §3 ("Thread pool"). Construct with
// New.
type Pool struct {
	workersLock syncx.RWLock
	workers     []*worker
	roundRobin  atomic.Uint64
	gate        syncx.Rundown

	items *alloc.TypedLookaside[workItem]

	maxThreads            int
	maxWorkloadBeforeGrow int
	growLimiter           *catrate.Limiter
}

// worker is the thread-pool worker of §3: a two-lock queue of work items, an
// auto-reset wakeup signal, a shutdown flag, a host thread, and a pointer
// back to the owning pool.
type worker struct {
	queue    *queue.TwoLock[*workItem]
	wakeup   *syncx.Signal
	shutdown atomic.Bool
	thread   thread.Worker
	pool     *Pool
}

// New constructs and starts a Pool with the configured number of initial
// workers (see WithInitialThreads, default 1).
func New(opts ...Option) *Pool {
	cfg := resolvePoolOptions(opts)

	p := &Pool{
		maxThreads:            cfg.maxThreads,
		maxWorkloadBeforeGrow: cfg.maxWorkloadBeforeGrow,
		// The sliding-window limiter throttles how often a worker's
		// exceeded-workload observation is allowed to actually trigger a
		// spawn, standing in for the raw "one grow per drain" heuristic the
		// original uses -- the bounded arrival-rate estimator §9 invites.
		growLimiter: catrate.NewLimiter(map[time.Duration]int{
			time.Second: 1,
		}),
	}
	p.items = alloc.NewTypedLookaside(cfg.maxCachedWorkItems,
		func() *workItem { return &workItem{} },
		func(w *workItem) { w.callback = nil; w.rundown = nil },
	)

	for i := 0; i < cfg.initialThreads; i++ {
		p.spawnWorker()
	}
	return p
}

func (p *Pool) spawnWorker() bool {
	if !p.gate.Acquire() {
		return false
	}
	defer p.gate.Release()

	w := &worker{
		queue:  queue.NewTwoLock[*workItem](),
		wakeup: syncx.NewSignal(false),
		pool:   p,
	}

	p.workersLock.LockExclusive()
	if len(p.workers) >= p.maxThreads {
		p.workersLock.UnlockExclusive()
		return false
	}
	p.workers = append(p.workers, w)
	p.workersLock.UnlockExclusive()

	if code := w.thread.Run(w.loop); !code.Ok() {
		xplog.L().Err().Log("pool: failed to spawn worker")
		return false
	}
	return true
}

// Enqueue submits callback to run on some worker, with rundown standing in
// if the pool is shutting down by the time the item is drained (§4.9).
func (p *Pool) Enqueue(callback func(), rundown func()) status.Code {
	if !p.gate.Acquire() {
		return status.ShutdownInProgress
	}
	defer p.gate.Release()

	p.workersLock.LockShared()
	n := len(p.workers)
	if n == 0 {
		p.workersLock.UnlockShared()
		return status.InsufficientResources
	}
	idx := int(p.roundRobin.Add(1)-1) % n
	w := p.workers[idx]
	p.workersLock.UnlockShared()

	item := p.items.Allocate()
	item.callback = callback
	item.rundown = rundown

	w.queue.Push(item)
	w.wakeup.Set()
	return status.OK
}

// Rundown closes the pool's gate, then drains and joins every worker
// (§4.9). After Rundown returns, no work item's callback will fire again.
func (p *Pool) Rundown() {
	p.gate.WaitForRelease()

	p.workersLock.LockExclusive()
	workers := p.workers
	p.workers = nil
	p.workersLock.UnlockExclusive()

	for _, w := range workers {
		w.shutdown.Store(true)
		w.wakeup.Set()
	}
	for _, w := range workers {
		w.thread.Join()
	}
}

// NumWorkers returns the current worker count.
func (p *Pool) NumWorkers() int {
	p.workersLock.LockShared()
	defer p.workersLock.UnlockShared()
	return len(p.workers)
}

func (w *worker) loop() {
	for {
		w.wakeup.WaitForever()

		items := w.queue.Flush()

		// The shutdown flag is re-read per item, not once per batch: a
		// Rundown racing with an in-flight drain must still guarantee that
		// every item still in the batch runs its rundown callback instead
		// of its normal one, even if earlier items in the same batch ran
		// before the flag was set.
		for _, item := range items {
			if w.shutdown.Load() {
				if item.rundown != nil {
					item.rundown()
				}
			} else {
				if item.callback != nil {
					item.callback()
				}
			}
			w.pool.items.Free(item)
		}

		shuttingDown := w.shutdown.Load()

		if !shuttingDown && len(items) > w.pool.maxWorkloadBeforeGrow {
			w.requestGrow()
		}

		if shuttingDown {
			// Drain whatever raced in after the flush above, then exit.
			for _, item := range w.queue.Flush() {
				if item.rundown != nil {
					item.rundown()
				}
				w.pool.items.Free(item)
			}
			return
		}
	}
}

func (w *worker) requestGrow() {
	if _, ok := w.pool.growLimiter.Allow("grow"); !ok {
		return
	}
	go w.pool.spawnWorker()
}
