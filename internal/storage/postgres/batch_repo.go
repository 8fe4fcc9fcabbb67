package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/pawkit-ai/pawkit-backend/common"
	"github.com/pawkit-ai/pawkit-backend/internal/batch"
	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"gorm.io/gorm"
)

type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

var _ batch.BatchRepoInterface = (*BatchRepository)(nil)

// CreateGraph inserts the batch, its videos, clips, texts and the clip jobs
// inside one transaction. Jobs are inserted one at a time in slice order so
// their auto-increment ids follow the caller's (video_index, clip_index)
// ordering.
func (r *BatchRepository) CreateGraph(ctx context.Context, b *models.VideoBatch,
	videos []models.BatchVideo, clips []models.BatchClip,
	texts []models.BatchClipText, jobs []models.Job) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		if len(videos) > 0 {
			if err := tx.Create(&videos).Error; err != nil {
				return err
			}
		}
		if len(clips) > 0 {
			if err := tx.Create(&clips).Error; err != nil {
				return err
			}
		}
		if len(texts) > 0 {
			if err := tx.Create(&texts).Error; err != nil {
				return err
			}
		}
		for i := range jobs {
			if err := tx.Create(&jobs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create batch graph: %w", err)
	}
	return nil
}

func (r *BatchRepository) GetBatch(ctx context.Context, id string) (*models.VideoBatch, error) {
	var b models.VideoBatch
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("batch %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

// GetGraph loads the batch with all of its videos, clips and clip texts,
// ordered by (video_index, clip_index) so read-side aggregation and exports
// are deterministic.
func (r *BatchRepository) GetGraph(ctx context.Context, batchID string) (*models.VideoBatch,
	[]models.BatchVideo, []models.BatchClip, []models.BatchClipText, error) {

	b, err := r.GetBatch(ctx, batchID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	var videos []models.BatchVideo
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("video_index ASC").
		Find(&videos).Error; err != nil {
		return nil, nil, nil, nil, fmt.Errorf("get batch videos: %w", err)
	}

	videoIDs := make([]string, len(videos))
	for i, v := range videos {
		videoIDs[i] = v.ID
	}

	var clips []models.BatchClip
	var texts []models.BatchClipText
	if len(videoIDs) > 0 {
		if err := r.db.WithContext(ctx).
			Where("video_id IN ?", videoIDs).
			Order("clip_index ASC").
			Find(&clips).Error; err != nil {
			return nil, nil, nil, nil, fmt.Errorf("get batch clips: %w", err)
		}
		if err := r.db.WithContext(ctx).
			Where("video_id IN ?", videoIDs).
			Order("clip_index ASC").
			Find(&texts).Error; err != nil {
			return nil, nil, nil, nil, fmt.Errorf("get batch clip texts: %w", err)
		}
	}

	return b, videos, clips, texts, nil
}

func (r *BatchRepository) GetClip(ctx context.Context, clipID string) (*models.BatchClip, error) {
	var c models.BatchClip
	if err := r.db.WithContext(ctx).First(&c, "id = ?", clipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("clip %s: %w", clipID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("get clip: %w", err)
	}
	return &c, nil
}

func (r *BatchRepository) GetVideo(ctx context.Context, videoID string) (*models.BatchVideo, error) {
	var v models.BatchVideo
	if err := r.db.WithContext(ctx).First(&v, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("video %s: %w", videoID, common.ErrNotFound)
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &v, nil
}

func (r *BatchRepository) SetClipProcessing(ctx context.Context, clipID string) error {
	return r.updateClip(ctx, clipID, map[string]any{
		"status": config.ClipStatusProcessing,
	})
}

func (r *BatchRepository) SetClipDone(ctx context.Context, clipID, anchorURL, clipURL string, durationSeconds float64) error {
	return r.updateClip(ctx, clipID, map[string]any{
		"status":           config.ClipStatusDone,
		"anchor_url":       anchorURL,
		"clip_url":         clipURL,
		"duration_seconds": durationSeconds,
		"error":            "",
	})
}

func (r *BatchRepository) SetClipError(ctx context.Context, clipID, errMsg string) error {
	return r.updateClip(ctx, clipID, map[string]any{
		"status": config.ClipStatusError,
		"error":  errMsg,
	})
}

func (r *BatchRepository) ResetClip(ctx context.Context, clipID string) error {
	return r.updateClip(ctx, clipID, map[string]any{
		"status":     config.ClipStatusQueued,
		"error":      "",
		"anchor_url": "",
		"clip_url":   "",
	})
}

func (r *BatchRepository) updateClip(ctx context.Context, clipID string, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.BatchClip{}).
		Where("id = ?", clipID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update clip: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("clip %s: %w", clipID, common.ErrNotFound)
	}
	return nil
}
