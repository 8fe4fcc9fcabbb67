package pipeline_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"github.com/pawkit-ai/pawkit-backend/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ageJob pushes a processing job's started_at past the watchdog cutoff.
func ageJob(t *testing.T, f *fixture, id uint, age time.Duration) {
	t.Helper()
	old := time.Now().UTC().Add(-age)
	require.NoError(t, f.db.Model(&models.Job{}).
		Where("id = ?", id).
		Update("started_at", old).Error)
}

func claimJob(t *testing.T, f *fixture, attempts int) *models.Job {
	t.Helper()
	ctx := context.Background()
	j := &models.Job{
		Type:     string(config.JobTypeRender),
		Payload:  []byte(`{}`),
		UserID:   "user-1",
		Attempts: attempts,
	}
	require.NoError(t, f.jobs.Create(ctx, j))
	ok, err := f.jobs.Claim(ctx, j.ID)
	require.NoError(t, err)
	require.True(t, ok)
	return j
}

func TestWatchdog_ResetsStuckJobs(t *testing.T) {
	f := newFixture(t, func(path string, w http.ResponseWriter) { w.WriteHeader(http.StatusOK) })
	w := pipeline.NewWatchdog(f.jobs)
	ctx := context.Background()

	stuck := claimJob(t, f, 0)
	ageJob(t, f, stuck.ID, 30*time.Minute)

	fresh := claimJob(t, f, 0)

	res, err := w.Sweep(ctx, 15*time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ResetCount)
	assert.Equal(t, 0, res.FailedCount)

	got, err := f.jobs.Get(ctx, stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.JobStatusPending), got.Status)
	assert.Equal(t, 1, got.Attempts)

	untouched, err := f.jobs.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.JobStatusProcessing), untouched.Status)
}

func TestWatchdog_SweepIsIdempotent(t *testing.T) {
	f := newFixture(t, func(path string, w http.ResponseWriter) { w.WriteHeader(http.StatusOK) })
	w := pipeline.NewWatchdog(f.jobs)
	ctx := context.Background()

	stuck := claimJob(t, f, 0)
	ageJob(t, f, stuck.ID, 30*time.Minute)

	first, err := w.Sweep(ctx, 15*time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ResetCount)

	second, err := w.Sweep(ctx, 15*time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ResetCount, "already reset, nothing left to sweep")
	assert.Equal(t, 0, second.FailedCount)

	got, err := f.jobs.Get(ctx, stuck.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Attempts, "attempts only move once per actual reset")
}

func TestWatchdog_FailsJobsPastAttemptCeiling(t *testing.T) {
	f := newFixture(t, func(path string, w http.ResponseWriter) { w.WriteHeader(http.StatusOK) })
	w := pipeline.NewWatchdog(f.jobs)
	ctx := context.Background()

	exhausted := claimJob(t, f, 3)
	ageJob(t, f, exhausted.ID, 30*time.Minute)

	res, err := w.Sweep(ctx, 15*time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ResetCount)
	assert.Equal(t, 1, res.FailedCount)

	got, err := f.jobs.Get(ctx, exhausted.ID)
	require.NoError(t, err)
	assert.Equal(t, string(config.JobStatusFailed), got.Status)
	assert.Contains(t, got.Error, "after 3 attempts")
}

func TestTrigger_Run(t *testing.T) {
	f := newFixture(t, func(path string, w http.ResponseWriter) {
		okJSON(w, `{}`)
	})
	ctx := context.Background()
	w := pipeline.NewWatchdog(f.jobs)
	trigger := pipeline.NewTrigger(w, f.dispatcher, f.jobs, 15*time.Minute, 3)

	t.Run("idle store is a cheap no-op", func(t *testing.T) {
		resp, err := trigger.Run(ctx)
		require.NoError(t, err)
		assert.True(t, resp.OK)
		assert.Equal(t, "no pending jobs", resp.Message)
		assert.Nil(t, resp.Dispatcher)
		assert.Empty(t, f.calls)
	})

	t.Run("sweeps then dispatches pending work", func(t *testing.T) {
		stuck := claimJob(t, f, 0)
		ageJob(t, f, stuck.ID, 30*time.Minute)

		resp, err := trigger.Run(ctx)
		require.NoError(t, err)
		assert.True(t, resp.OK)
		assert.Equal(t, "dispatched", resp.Message)
		assert.Equal(t, 1, resp.Watchdog.ResetCount)
		require.NotNil(t, resp.Dispatcher)
		assert.Equal(t, 1, resp.Dispatcher.Claimed)
		assert.Equal(t, 1, resp.Dispatcher.Completed)

		got, err := f.jobs.Get(ctx, stuck.ID)
		require.NoError(t, err)
		assert.Equal(t, string(config.JobStatusCompleted), got.Status)
	})
}
