package worker

import (
	"context"
	"log"
	"time"

	"github.com/pawkit-ai/pawkit-backend/internal/pipeline"
)

// Worker repeatedly runs dispatch passes, backing off exponentially while
// the queue is empty. Several workers share one dispatcher safely; the job
// store's conditional claim arbitrates between them.
type Worker struct {
	ID         int
	dispatcher *pipeline.Dispatcher
	quit       chan struct{}
}

func NewWorker(id int, dispatcher *pipeline.Dispatcher) *Worker {
	return &Worker{ID: id, dispatcher: dispatcher, quit: make(chan struct{})}
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		currentDelay := 1 * time.Second
		maxDelay := 60 * time.Second

		for {
			res, err := w.dispatcher.RunOnce(ctx)
			switch {
			case err != nil:
				log.Printf("[worker %d] dispatch pass: %v", w.ID, err)
				currentDelay = min(currentDelay*2, maxDelay)
			case res.Claimed > 0:
				currentDelay = 1 * time.Second
			default:
				currentDelay = min(currentDelay*2, maxDelay)
			}

			select {
			case <-time.After(currentDelay):
			case <-w.quit:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (w *Worker) Stop() { close(w.quit) }
