package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateZeroWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	expected := runtime.GOMAXPROCS(0)
	if pool.Workers() != expected {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), expected)
	}
}

func TestWorkerPool_CreateNegativeWorkers(t *testing.T) {
	pool := NewWorkerPool(-5)
	defer pool.Close()

	expected := runtime.GOMAXPROCS(0)
	if pool.Workers() != expected {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), expected)
	}
}

func TestWorkerPool_ExecuteAll(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numTasks := 100

	work := make([]func(), numTasks)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}

	pool.ExecuteAll(work)

	if got := counter.Load(); got != int64(numTasks) {
		t.Errorf("counter = %d, want %d", got, numTasks)
	}
}

func TestWorkerPool_ExecuteAllPreservesResultsByIndex(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	results := make([]int, 50)
	work := make([]func(), len(results))
	for i := range work {
		i := i
		work[i] = func() { results[i] = i * i }
	}

	pool.ExecuteAll(work)

	for i, v := range results {
		if v != i*i {
			t.Errorf("results[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestWorkerPool_ExecuteAllEmpty(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Must not block or panic.
	pool.ExecuteAll(nil)
}

func TestWorkerPool_ExecuteAllSlowAndFastTasksBothComplete(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var done atomic.Int64
	work := make([]func(), 20)
	for i := range work {
		i := i
		work[i] = func() {
			if i%5 == 0 {
				time.Sleep(2 * time.Millisecond)
			}
			done.Add(1)
		}
	}

	pool.ExecuteAll(work)

	if got := done.Load(); got != int64(len(work)) {
		t.Errorf("done = %d, want %d", got, len(work))
	}
}

func TestWorkerPool_CloseIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close() // must not panic or block

	if pool.IsRunning() {
		t.Error("pool should report not running after Close")
	}
}

func TestWorkerPool_ExecuteAllAfterCloseIsNoop(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	var counter atomic.Int64
	pool.ExecuteAll([]func(){func() { counter.Add(1) }})

	if counter.Load() != 0 {
		t.Error("ExecuteAll after Close should not run work")
	}
}
