package impulse

import (
	"runtime"
	"sync"
)

// JobSystem runs index-range tasks in parallel. Dispatch returns immediately;
// Wait blocks until every dispatched task has run.
type JobSystem interface {
	Dispatch(count, groupSize int, task func(i int))
	Wait()
}

// WorkerPool is the default JobSystem: each Dispatch fans its groups out to at
// most Workers goroutines.
type WorkerPool struct {
	Workers int

	wg sync.WaitGroup
}

// NewWorkerPool uses one worker per CPU when workers <= 0.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &WorkerPool{Workers: workers}
}

// Dispatch splits [0, count) into groups of groupSize indices. A groupSize <= 0
// splits the range evenly between the workers.
func (p *WorkerPool) Dispatch(count, groupSize int, task func(i int)) {
	if count <= 0 {
		return
	}
	workers := max(1, p.Workers)
	if groupSize <= 0 {
		groupSize = (count + workers - 1) / workers
	}
	groups := (count + groupSize - 1) / groupSize

	starts := make(chan int, groups)
	for start := 0; start < count; start += groupSize {
		starts <- start
	}
	close(starts)

	for n := min(workers, groups); n > 0; n-- {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for start := range starts {
				for i := start; i < min(start+groupSize, count); i++ {
					task(i)
				}
			}
		}()
	}
}

func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// SerialJobs runs every task inline, in index order. Use it for reproducible runs.
type SerialJobs struct{}

func (SerialJobs) Dispatch(count, groupSize int, task func(i int)) {
	for i := 0; i < count; i++ {
		task(i)
	}
}

func (SerialJobs) Wait() {}
