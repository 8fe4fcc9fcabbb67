package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/internal/job"
)

// Watchdog reclaims jobs whose worker crashed or hung mid-step. It is the
// only mutator of the attempts counter. Sweeping is idempotent: each reset
// and fail is conditional on the row still being in processing, so two
// back-to-back sweeps change state only once.
type Watchdog struct {
	jobs job.JobRepoInterface
}

func NewWatchdog(jobs job.JobRepoInterface) *Watchdog {
	return &Watchdog{jobs: jobs}
}

// Sweep re-queues jobs stuck in processing past the timeout, incrementing
// their attempt counter, and retires those at or past the attempt ceiling.
func (w *Watchdog) Sweep(ctx context.Context, timeout time.Duration, maxAttempts int) (*dto.SweepResponseDTO, error) {
	stuck, err := w.jobs.ListStuck(ctx, timeout)
	if err != nil {
		return nil, err
	}

	res := &dto.SweepResponseDTO{Timestamp: time.Now().UTC()}
	for _, j := range stuck {
		if j.Attempts < maxAttempts {
			ok, err := w.jobs.ResetStuck(ctx, j.ID)
			if err != nil {
				return res, err
			}
			if ok {
				log.Printf("[watchdog] reset job %d (attempt %d/%d)", j.ID, j.Attempts+1, maxAttempts)
				res.ResetCount++
			}
			continue
		}

		msg := fmt.Sprintf("stuck in processing for over %s after %d attempts", timeout, j.Attempts)
		ok, err := w.jobs.FailStuck(ctx, j.ID, msg)
		if err != nil {
			return res, err
		}
		if ok {
			log.Printf("[watchdog] failed job %d: %s", j.ID, msg)
			res.FailedCount++
		}
	}
	return res, nil
}
