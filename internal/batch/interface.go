package batch

import (
	"context"

	"github.com/pawkit-ai/pawkit-backend/internal/models"
)

// BatchRepoInterface defines the contract for the batch hierarchy store.
type BatchRepoInterface interface {
	// CreateGraph inserts the whole batch -> video -> clip graph, the
	// normalized clip texts and the pre-built clip jobs in one database
	// transaction, so a partial failure leaves no orphaned rows.
	CreateGraph(ctx context.Context, b *models.VideoBatch, videos []models.BatchVideo,
		clips []models.BatchClip, texts []models.BatchClipText, jobs []models.Job) error

	GetBatch(ctx context.Context, id string) (*models.VideoBatch, error)
	GetGraph(ctx context.Context, batchID string) (*models.VideoBatch, []models.BatchVideo,
		[]models.BatchClip, []models.BatchClipText, error)

	GetClip(ctx context.Context, clipID string) (*models.BatchClip, error)
	GetVideo(ctx context.Context, videoID string) (*models.BatchVideo, error)

	// Clip status transitions driven by the clip job's lifecycle.
	SetClipProcessing(ctx context.Context, clipID string) error
	SetClipDone(ctx context.Context, clipID, anchorURL, clipURL string, durationSeconds float64) error
	SetClipError(ctx context.Context, clipID, errMsg string) error

	// ResetClip returns a failed clip to queued ahead of a manual retry.
	ResetClip(ctx context.Context, clipID string) error
}
