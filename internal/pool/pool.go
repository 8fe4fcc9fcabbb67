package pool

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pawkit-ai/pawkit-backend/internal/pipeline"
	"github.com/pawkit-ai/pawkit-backend/internal/worker"
)

// WorkerPool runs N dispatch workers plus a janitor goroutine sweeping the
// watchdog on a fixed cadence.
type WorkerPool struct {
	workers     []*worker.Worker
	watchdog    *pipeline.Watchdog
	timeout     time.Duration
	maxAttempts int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewWorkerPool(count int, dispatcher *pipeline.Dispatcher, watchdog *pipeline.Watchdog,
	timeout time.Duration, maxAttempts int) *WorkerPool {

	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{
		watchdog:    watchdog,
		timeout:     timeout,
		maxAttempts: maxAttempts,
		ctx:         ctx,
		cancel:      cancel,
	}

	for i := 1; i <= count; i++ {
		p.workers = append(p.workers, worker.NewWorker(i, dispatcher))
	}
	return p
}

func (p *WorkerPool) Start() {
	for _, w := range p.workers {
		w.Start(p.ctx)
	}

	p.wg.Add(1)
	go p.janitor()
}

func (p *WorkerPool) janitor() {
	defer p.wg.Done()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			res, err := p.watchdog.Sweep(p.ctx, p.timeout, p.maxAttempts)
			if err != nil {
				log.Printf("[janitor] sweep: %v", err)
				continue
			}
			if res.ResetCount > 0 || res.FailedCount > 0 {
				log.Printf("[janitor] reset %d, failed %d stuck jobs", res.ResetCount, res.FailedCount)
			}
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *WorkerPool) Stop() {
	p.cancel()
	for _, w := range p.workers {
		w.Stop()
	}
	p.wg.Wait()
}
