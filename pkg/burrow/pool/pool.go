// Package pool provides a bounded worker pool with an unbounded task queue.
//
// At most capacity workers run concurrently. Submit never blocks on queue
// depth: tasks wait in the queue until a worker is free. The pool gives no
// completion guarantee; callers that need to know when their tasks have
// finished must impose their own barrier (for example a sync.WaitGroup
// decremented by each task).
package pool

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Submit after Shutdown.
var ErrClosed = errors.New("pool is shut down")

// Task is a unit of work. A task reports nothing to the pool and is
// responsible for containing its own failures.
type Task func()

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Capacity  int
	Workers   int
	Queued    int
	Completed int64
}

// Pool runs submitted tasks on at most capacity goroutines.
type Pool struct {
	mu        sync.Mutex
	cond      *sync.Cond
	queue     []Task
	capacity  int
	workers   int
	completed int64
	closed    bool
	wg        sync.WaitGroup
}

// New creates a pool and starts capacity workers immediately.
// A capacity below 1 is clamped to 1.
func New(capacity int) *Pool {
	if capacity < 1 {
		capacity = 1
	}

	p := &Pool{capacity: capacity}
	p.cond = sync.NewCond(&p.mu)

	p.mu.Lock()
	for range capacity {
		p.spawnLocked()
	}
	p.mu.Unlock()

	return p
}

// Submit enqueues a task. If fewer than capacity workers are alive, one
// more worker is started first. After Shutdown the task is dropped and
// ErrClosed is returned.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	if p.workers < p.capacity {
		p.spawnLocked()
	}

	p.queue = append(p.queue, task)
	p.cond.Signal()
	return nil
}

// Shutdown stops the pool. Running tasks finish; tasks still in the queue
// are dropped. Shutdown does not wait and is not a completion signal.
// It is safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	p.queue = nil
	p.cond.Broadcast()
}

// Wait blocks until every worker has exited. It only returns after
// Shutdown has been called.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Capacity returns the maximum number of concurrent workers.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Stats returns a snapshot of the pool state.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Capacity:  p.capacity,
		Workers:   p.workers,
		Queued:    len(p.queue),
		Completed: p.completed,
	}
}

// spawnLocked starts one worker. Must be called with p.mu held.
func (p *Pool) spawnLocked() {
	p.workers++
	p.wg.Add(1)
	go p.worker()
}

// worker pulls tasks until the pool is shut down. Idle workers park on
// the condition variable.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.closed {
			p.workers--
			p.mu.Unlock()
			return
		}

		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		task()

		p.mu.Lock()
		p.completed++
		p.mu.Unlock()
	}
}
