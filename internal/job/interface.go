package job

import (
	"context"
	"time"

	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"gorm.io/datatypes"
)

// JobRepoInterface defines the contract for job store operations.
//
// Claim, ResetStuck and FailStuck are conditional updates: they report
// whether the row actually transitioned, and a false return is the expected
// concurrent-claim race, not a failure.
type JobRepoInterface interface {
	Create(ctx context.Context, job *models.Job) error
	Get(ctx context.Context, id uint) (*models.Job, error)

	// Claim atomically moves a job from pending to processing.
	Claim(ctx context.Context, id uint) (bool, error)

	// UpdatePayload persists the payload envelope mid-step, so a crash
	// between claim and completion stays observable.
	UpdatePayload(ctx context.Context, id uint, payload datatypes.JSON) error

	// Complete and Fail are terminal writes. A job already in the opposite
	// terminal state yields common.ErrInvalidTransition.
	Complete(ctx context.Context, id uint, payload datatypes.JSON) error
	Fail(ctx context.Context, id uint, errMsg string, payload datatypes.JSON) error

	ListPending(ctx context.Context, limit int) ([]models.Job, error)
	CountPending(ctx context.Context) (int64, error)
	// List filters by user and status; empty strings mean all.
	List(ctx context.Context, userID, status string, limit int) ([]models.Job, error)

	// Watchdog primitives. ListStuck returns processing jobs whose
	// started_at is older than the timeout; ResetStuck re-queues one and
	// increments its attempt counter; FailStuck retires one past the
	// attempt ceiling.
	ListStuck(ctx context.Context, olderThan time.Duration) ([]models.Job, error)
	ResetStuck(ctx context.Context, id uint) (bool, error)
	FailStuck(ctx context.Context, id uint, errMsg string) (bool, error)
}

// OrderRepoInterface defines the contract for order persistence.
type OrderRepoInterface interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status string, errMsg string) error
	SaveMedia(ctx context.Context, media *models.MediaOutput) error
}

// OrderServiceInterface defines the contract for order intake and polling.
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, userID string, req *dto.OrderCreateDTO) (*dto.OrderCreatedDTO, error)
	GetOrder(ctx context.Context, userID, orderID string) (*dto.OrderResponseDTO, error)
	GetJob(ctx context.Context, userID string, jobID uint) (*dto.JobResponseDTO, error)
	ListJobs(ctx context.Context, userID, status string) ([]dto.JobResponseDTO, error)
}
