package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/pawkit-ai/pawkit-backend/common"
	"github.com/pawkit-ai/pawkit-backend/internal/job"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

var _ job.OrderRepoInterface = (*OrderRepository)(nil)

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// UpdateStatus writes the order's status and, when non-empty, its error
// message. Called by the dispatcher on terminal step success or any step
// failure.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status string, errMsg string) error {
	updates := map[string]any{"status": status}
	if errMsg != "" {
		updates["error"] = errMsg
	}
	if err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// SaveMedia persists the final artifact of a completed pipeline.
func (r *OrderRepository) SaveMedia(ctx context.Context, media *models.MediaOutput) error {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return fmt.Errorf("save media output: %w", err)
	}
	return nil
}
