package services

import (
	"context"
	"fmt"
	"server/internal/logger"
	"sync"
)

// AnalysisTask is one unit of background work, normally the body of an
// analysis job.
type AnalysisTask func(ctx context.Context)

// AnalysisPool is a bounded worker pool for analysis bodies. Bounding
// the workers caps concurrent external-model calls; bounding the queue
// gives backpressure under bursty start-analysis traffic.
type AnalysisPool struct {
	log    logger.Logger
	tasks  chan AnalysisTask
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed sync.Once
}

func NewAnalysisPool(workers, queueDepth int) *AnalysisPool {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 1 {
		queueDepth = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool := &AnalysisPool{
		log:    logger.New("AnalysisPool"),
		tasks:  make(chan AnalysisTask, queueDepth),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	pool.log.Info("analysis pool started", "workers", workers, "queueDepth", queueDepth)
	return pool
}

func (p *AnalysisPool) worker(id int) {
	defer p.wg.Done()

	for task := range p.tasks {
		p.run(id, task)
	}
}

func (p *AnalysisPool) run(id int, task AnalysisTask) {
	log := p.log.Function("run")

	defer func() {
		if r := recover(); r != nil {
			log.ErMsg("analysis task panicked", "worker", id, "panic", fmt.Sprint(r))
		}
	}()

	task(p.ctx)
}

// Submit enqueues a task without blocking. A full queue is reported as
// an error so the caller can fail the request instead of hanging.
func (p *AnalysisPool) Submit(task AnalysisTask) error {
	select {
	case p.tasks <- task:
		return nil
	default:
		return NewConflictError("analysis queue is full")
	}
}

// Close stops accepting tasks and waits for in-flight work to finish.
func (p *AnalysisPool) Close() {
	p.closed.Do(func() {
		close(p.tasks)
		p.wg.Wait()
		p.cancel()
	})
}
