package imbridge

import (
	"log/slog"
	"runtime"
	"sync"
)

// WorkItem is a unit of render-thread work.
type WorkItem func()

// Executor runs work items in submission order on the thread that owns the
// graphics device. Enqueue never blocks on the work itself.
type Executor interface {
	Enqueue(item WorkItem)
}

// RenderThread is an Executor backed by a goroutine locked to its OS thread.
// Graphics APIs that bind a context to a thread (OpenGL) require every call
// to come from the same thread, hence the lock.
type RenderThread struct {
	work     chan WorkItem
	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup
	logger   *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewRenderThread starts the render thread. init, when non-nil, runs first
// on the locked thread (for example to make a GL context current).
// backlog is the number of work items that may be queued before Enqueue
// has to wait for the thread to catch up.
func NewRenderThread(backlog int, init func(), logger *slog.Logger) *RenderThread {
	if backlog <= 0 {
		backlog = 64
	}
	if logger == nil {
		logger = defaultLogger
	}
	t := &RenderThread{
		work:   make(chan WorkItem, backlog),
		quit:   make(chan struct{}),
		logger: logger,
	}
	t.wg.Add(1)
	go t.loop(init)
	return t
}

func (t *RenderThread) loop(init func()) {
	defer t.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if init != nil {
		t.run(init)
	}

	for {
		select {
		case item := <-t.work:
			t.run(item)
		case <-t.quit:
			// Drain whatever was queued before Close.
			for {
				select {
				case item := <-t.work:
					t.run(item)
				default:
					return
				}
			}
		}
	}
}

// run executes one item, recovering from panics so later items still run.
func (t *RenderThread) run(item WorkItem) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("render work item panicked", "panic", r)
		}
	}()
	item()
}

// Enqueue schedules item on the render thread. Items enqueued after Close
// are dropped.
func (t *RenderThread) Enqueue(item WorkItem) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		t.logger.Warn("enqueue on closed render thread", "err", ErrExecutorClosed)
		return
	}
	t.work <- item
}

// Close runs all pending work, stops the thread and waits for it to exit.
// Safe to call multiple times.
func (t *RenderThread) Close() {
	t.quitOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()
		close(t.quit)
	})
	t.wg.Wait()
}

// Queue is an Executor drained explicitly by its owner. Hosts whose render
// callback already runs on the right thread (ebiten's Draw) pump it once per
// frame; tests use it to step the render side deterministically.
type Queue struct {
	mu    sync.Mutex
	items []WorkItem
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends item to the queue.
func (q *Queue) Enqueue(item WorkItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain runs every pending item in FIFO order and returns how many ran.
// Items enqueued while draining run in the same call.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			return n
		}
		item := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()

		item()
		n++
	}
}
