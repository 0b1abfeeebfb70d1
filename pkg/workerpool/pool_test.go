package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beautydb/backoffice/pkg/workerpool"
)

func TestPool_SubmitAndExecute(t *testing.T) {
	pool := workerpool.New("test", 4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64

	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		err := pool.SubmitWait(func() {
			defer wg.Done()
			count.Add(1)
		})
		if err != nil {
			t.Fatalf("SubmitWait returned unexpected error: %v", err)
		}
	}

	wg.Wait()

	if got := count.Load(); got != n {
		t.Errorf("expected %d tasks to run, got %d", n, got)
	}
}

func TestPool_ErrPoolFull(t *testing.T) {
	pool := workerpool.New("test", 1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})

	_ = pool.SubmitWait(func() {
		close(started)
		<-blocker
	})
	<-started

	// Queue holds 2× the worker count.
	_ = pool.Submit(func() {})
	_ = pool.Submit(func() {})

	err := pool.Submit(func() {})
	if !errors.Is(err, workerpool.ErrPoolFull) {
		t.Errorf("expected ErrPoolFull, got %v", err)
	}

	close(blocker)
}

func TestPool_SubmitOrRunFallsBackInline(t *testing.T) {
	pool := workerpool.New("test", 1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})
	_ = pool.SubmitWait(func() {
		close(started)
		<-blocker
	})
	<-started
	_ = pool.Submit(func() {})
	_ = pool.Submit(func() {})

	ran := false
	pool.SubmitOrRun(func() { ran = true })
	if !ran {
		t.Error("task should have run on the caller's goroutine while the pool was full")
	}

	close(blocker)
}

func TestPool_SubmitOrRunAfterShutdown(t *testing.T) {
	pool := workerpool.New("test", 2)
	pool.Shutdown()

	ran := false
	pool.SubmitOrRun(func() { ran = true })
	if !ran {
		t.Error("task should run inline on a closed pool")
	}
}

func TestPool_ErrPoolClosed(t *testing.T) {
	pool := workerpool.New("test", 2)
	pool.Shutdown()

	err := pool.Submit(func() {})
	if !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed after Shutdown, got %v", err)
	}
	if err := pool.SubmitWait(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed from SubmitWait, got %v", err)
	}
}

func TestPool_PanicRecovery(t *testing.T) {
	pool := workerpool.New("test", 2)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	wg.Add(1)

	_ = pool.SubmitWait(func() {
		defer wg.Done()
		panic("boom")
	})

	wg.Wait()

	normal := make(chan struct{})
	_ = pool.SubmitWait(func() { close(normal) })

	select {
	case <-normal:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not recover from panic, subsequent task never ran")
	}
}

func TestPool_ShutdownDrainsQueue(t *testing.T) {
	pool := workerpool.New("test", 2)

	var count atomic.Int64
	for i := 0; i < 4; i++ {
		_ = pool.SubmitWait(func() {
			time.Sleep(time.Millisecond)
			count.Add(1)
		})
	}

	pool.Shutdown()
	if got := count.Load(); got != 4 {
		t.Errorf("expected queued tasks to finish before Shutdown returns, got %d", got)
	}
}
