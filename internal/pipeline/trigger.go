package pipeline

import (
	"context"
	"time"

	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/internal/job"
)

// Trigger is the on-demand entry point combining watchdog and dispatcher for
// environments without a native scheduler. Any number of trigger sources may
// fire concurrently; all converge on the same claim-based job store, so no
// duplicate-processing hazard exists.
type Trigger struct {
	watchdog    *Watchdog
	dispatcher  *Dispatcher
	jobs        job.JobRepoInterface
	timeout     time.Duration
	maxAttempts int
}

func NewTrigger(watchdog *Watchdog, dispatcher *Dispatcher, jobs job.JobRepoInterface,
	timeout time.Duration, maxAttempts int) *Trigger {
	return &Trigger{
		watchdog:    watchdog,
		dispatcher:  dispatcher,
		jobs:        jobs,
		timeout:     timeout,
		maxAttempts: maxAttempts,
	}
}

// Run sweeps with the configured defaults, counts pending jobs, and invokes
// one dispatch pass only when there is work, keeping the idle case a cheap
// no-op.
func (t *Trigger) Run(ctx context.Context) (*dto.TriggerResponseDTO, error) {
	sweep, err := t.watchdog.Sweep(ctx, t.timeout, t.maxAttempts)
	if err != nil {
		return nil, err
	}

	resp := &dto.TriggerResponseDTO{
		OK: true,
		Watchdog: dto.SweepCountsDTO{
			ResetCount:  sweep.ResetCount,
			FailedCount: sweep.FailedCount,
		},
	}

	pending, err := t.jobs.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	resp.JobsQueued = pending

	if pending == 0 {
		resp.Message = "no pending jobs"
		return resp, nil
	}

	dispatched, err := t.dispatcher.RunOnce(ctx)
	if err != nil {
		return nil, err
	}
	resp.Dispatcher = dispatched
	resp.Message = "dispatched"
	return resp, nil
}
