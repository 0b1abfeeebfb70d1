// Package workerpool provides a bounded goroutine pool with backpressure.
//
// The back office uses it for fire-and-forget file cleanup: deletes are
// submitted after a request finishes and must never block or fail it.
//
//	pool := workerpool.New("cleanup", 4)
//	defer pool.Shutdown()
//
//	pool.SubmitOrRun(func() { _ = disk.Delete(ctx, path) })
package workerpool

import (
	"errors"
	"sync"

	"github.com/beautydb/backoffice/pkg/logger"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	name    string
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closeMu sync.RWMutex
	closed  bool
}

// New creates a Pool with size workers and a queue of 2×size.
func New(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		name:  name,
		tasks: make(chan func(), size*2),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking.
//   - Returns ErrPoolFull if the task queue is at capacity.
//   - Returns ErrPoolClosed if Shutdown has been called.
func (p *Pool) Submit(task func()) error {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until a queue slot is free.
func (p *Pool) SubmitWait(task func()) error {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.tasks <- task
	return nil
}

// SubmitOrRun enqueues task, or runs it on the caller's goroutine when the
// pool is full or closed. The task always runs exactly once.
func (p *Pool) SubmitOrRun(task func()) {
	if err := p.Submit(task); err != nil {
		p.safeRun(task)
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish.
// It is safe to call multiple times.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		p.closeMu.Lock()
		p.closed = true
		close(p.tasks)
		p.closeMu.Unlock()
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.safeRun(task)
	}
}

// safeRun keeps a panicking task from killing its worker.
func (p *Pool) safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "pool", p.name, "panic", r)
		}
	}()
	task()
}
