package job

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/pawkit-ai/pawkit-backend/common"
	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"github.com/pawkit-ai/pawkit-backend/internal/payload"
)

type OrderService struct {
	orders OrderRepoInterface
	jobs   JobRepoInterface
}

func NewOrderService(orders OrderRepoInterface, jobs JobRepoInterface) *OrderService {
	return &OrderService{orders: orders, jobs: jobs}
}

var _ OrderServiceInterface = (*OrderService)(nil)

// CreateOrder validates the brief, persists the order and enqueues the
// first-stage copy job with a fresh payload envelope. The pipeline takes it
// from there.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req *dto.OrderCreateDTO) (*dto.OrderCreatedDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request canceled or timed out")
	}

	if !json.Valid(req.Brief) {
		return nil, common.Errf(http.StatusBadRequest, "brief must be valid JSON")
	}

	order := &models.Order{
		ID:      uuid.NewString(),
		UserID:  userID,
		BrandID: req.BrandID,
		Status:  string(config.OrderStatusQueued),
		Brief:   []byte(req.Brief),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, s.mapStorageError(err, "failed to create order")
	}

	raw, err := payload.New(req.Brief).Marshal()
	if err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to build job payload")
	}

	firstJob := &models.Job{
		Type:    string(config.JobTypeCopy),
		Status:  string(config.JobStatusPending),
		Payload: raw,
		UserID:  userID,
		BrandID: req.BrandID,
		OrderID: &order.ID,
	}
	if err := s.jobs.Create(ctx, firstJob); err != nil {
		return nil, s.mapStorageError(err, "failed to enqueue first job")
	}

	return &dto.OrderCreatedDTO{
		OrderID: order.ID,
		JobID:   firstJob.ID,
		Status:  order.Status,
	}, nil
}

// GetOrder retrieves an order for polling. An order the caller does not own
// reads as absent.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*dto.OrderResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errf(http.StatusNotFound, "order not found")
		}
		return nil, s.mapStorageError(err, "failed to get order")
	}
	if order.UserID != userID {
		return nil, common.Errf(http.StatusNotFound, "order not found")
	}

	return &dto.OrderResponseDTO{
		ID:        order.ID,
		UserID:    order.UserID,
		BrandID:   order.BrandID,
		Status:    order.Status,
		Brief:     json.RawMessage(order.Brief),
		Metadata:  json.RawMessage(order.Metadata),
		Error:     order.Error,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}, nil
}

// GetJob retrieves one job for polling, scoped to the caller.
func (s *OrderService) GetJob(ctx context.Context, userID string, jobID uint) (*dto.JobResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	j, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errf(http.StatusNotFound, "job not found")
		}
		return nil, s.mapStorageError(err, "failed to get job")
	}
	if j.UserID != userID {
		return nil, common.Errf(http.StatusNotFound, "job not found")
	}

	resp := jobToDTO(j)
	return &resp, nil
}

// ListJobs retrieves the caller's jobs filtered by status.
func (s *OrderService) ListJobs(ctx context.Context, userID, status string) ([]dto.JobResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	jobs, err := s.jobs.List(ctx, userID, status, 100)
	if err != nil {
		return nil, s.mapStorageError(err, "failed to list jobs")
	}

	dtos := make([]dto.JobResponseDTO, 0, len(jobs))
	for i := range jobs {
		dtos = append(dtos, jobToDTO(&jobs[i]))
	}
	return dtos, nil
}

func jobToDTO(j *models.Job) dto.JobResponseDTO {
	return dto.JobResponseDTO{
		ID:         j.ID,
		Type:       j.Type,
		Status:     j.Status,
		Payload:    json.RawMessage(j.Payload),
		UserID:     j.UserID,
		BrandID:    j.BrandID,
		OrderID:    j.OrderID,
		Attempts:   j.Attempts,
		Error:      j.Error,
		CreatedAt:  j.CreatedAt,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
	}
}

func (s *OrderService) mapStorageError(err error, fallback string) error {
	switch {
	case errors.Is(err, context.Canceled):
		return common.Errf(http.StatusRequestTimeout, "request was canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return common.Errf(http.StatusRequestTimeout, "request timeout")
	default:
		return common.Errf(http.StatusInternalServerError, "%s", fallback)
	}
}
