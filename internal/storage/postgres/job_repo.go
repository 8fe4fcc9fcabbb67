package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pawkit-ai/pawkit-backend/common"
	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/job"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

var _ job.JobRepoInterface = (*JobRepository)(nil)

// Create inserts a new job record in pending status.
func (r *JobRepository) Create(ctx context.Context, j *models.Job) error {
	if j.Status == "" {
		j.Status = string(config.JobStatusPending)
	}
	if err := r.db.WithContext(ctx).Create(j).Error; err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// Get retrieves a single job record by its ID.
func (r *JobRepository) Get(ctx context.Context, id uint) (*models.Job, error) {
	var j models.Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job %d: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

// Claim atomically transitions a job from pending to processing. The single
// conditional UPDATE is the only mutual-exclusion mechanism in the system:
// under concurrent claims exactly one worker sees RowsAffected == 1 and the
// rest get false, which is the expected race and not an error.
func (r *JobRepository) Claim(ctx context.Context, id uint) (bool, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status = ?", id, config.JobStatusPending).
		Updates(map[string]any{
			"status":     config.JobStatusProcessing,
			"started_at": now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("claim job: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// UpdatePayload persists the payload envelope without touching status.
func (r *JobRepository) UpdatePayload(ctx context.Context, id uint, payload datatypes.JSON) error {
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Update("payload", payload).Error; err != nil {
		return fmt.Errorf("update payload: %w", err)
	}
	return nil
}

// Complete marks a job completed. Completing an already-completed job is an
// idempotent no-op; completing a failed job is an invalid transition.
func (r *JobRepository) Complete(ctx context.Context, id uint, payload datatypes.JSON) error {
	return r.finish(ctx, id, config.JobStatusCompleted, "", payload)
}

// Fail marks a job failed with an error message. Symmetric to Complete.
func (r *JobRepository) Fail(ctx context.Context, id uint, errMsg string, payload datatypes.JSON) error {
	return r.finish(ctx, id, config.JobStatusFailed, errMsg, payload)
}

func (r *JobRepository) finish(ctx context.Context, id uint, status config.JobStatus, errMsg string, payload datatypes.JSON) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"status":      status,
		"finished_at": now,
		"error":       errMsg,
	}
	if payload != nil {
		updates["payload"] = payload
	}

	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status NOT IN ?", id, []config.JobStatus{
			config.JobStatusCompleted, config.JobStatusFailed,
		}).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("finish job: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// Nothing updated: either the job is gone or it is already terminal.
	var j models.Job
	if err := r.db.WithContext(ctx).Select("status").First(&j, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("job %d: %w", id, common.ErrNotFound)
		}
		return fmt.Errorf("finish job: %w", err)
	}
	if j.Status == string(status) {
		return nil // idempotent repeat of the same outcome
	}
	return fmt.Errorf("job %d is %s: %w", id, j.Status, common.ErrInvalidTransition)
}

// ListPending returns up to limit pending jobs, oldest first. Jobs created
// inside one transaction share a created_at, so the id tiebreak keeps their
// insert order.
func (r *JobRepository) ListPending(ctx context.Context, limit int) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.WithContext(ctx).
		Where("status = ?", config.JobStatusPending).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list pending jobs: %w", err)
	}
	return jobs, nil
}

// CountPending counts jobs waiting to be claimed.
func (r *JobRepository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("status = ?", config.JobStatusPending).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count pending jobs: %w", err)
	}
	return n, nil
}

// List retrieves jobs filtered by user and status (empty = all), newest
// first. The user predicate has to live in the query: filtering after the
// limit would truncate a caller's view on a busy system.
func (r *JobRepository) List(ctx context.Context, userID, status string, limit int) ([]models.Job, error) {
	q := r.db.WithContext(ctx).Model(&models.Job{}).Order("created_at DESC").Limit(limit)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var jobs []models.Job
	if err := q.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// ListStuck returns processing jobs whose started_at is older than olderThan.
func (r *JobRepository) ListStuck(ctx context.Context, olderThan time.Duration) ([]models.Job, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	var jobs []models.Job
	if err := r.db.WithContext(ctx).
		Where("status = ? AND started_at IS NOT NULL AND started_at < ?",
			config.JobStatusProcessing, cutoff).
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list stuck jobs: %w", err)
	}
	return jobs, nil
}

// ResetStuck re-queues one stuck job, incrementing its attempt counter in the
// same statement. Conditional on the row still being in processing, so a
// second sweep racing the first is a no-op.
func (r *JobRepository) ResetStuck(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status = ?", id, config.JobStatusProcessing).
		Updates(map[string]any{
			"status":     config.JobStatusPending,
			"attempts":   gorm.Expr("attempts + ?", 1),
			"started_at": nil,
		})
	if res.Error != nil {
		return false, fmt.Errorf("reset stuck job: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// FailStuck retires one stuck job past the attempt ceiling.
func (r *JobRepository) FailStuck(ctx context.Context, id uint, errMsg string) (bool, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status = ?", id, config.JobStatusProcessing).
		Updates(map[string]any{
			"status":      config.JobStatusFailed,
			"error":       errMsg,
			"finished_at": now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("fail stuck job: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
