package mocks

import (
	"context"

	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

type OrderServiceMock struct {
	mock.Mock
}

func (m *OrderServiceMock) CreateOrder(ctx context.Context, userID string, req *dto.OrderCreateDTO) (*dto.OrderCreatedDTO, error) {
	args := m.Called(ctx, userID, req)

	resp, _ := args.Get(0).(*dto.OrderCreatedDTO)
	return resp, args.Error(1)
}

func (m *OrderServiceMock) GetOrder(ctx context.Context, userID, orderID string) (*dto.OrderResponseDTO, error) {
	args := m.Called(ctx, userID, orderID)

	resp, _ := args.Get(0).(*dto.OrderResponseDTO)
	return resp, args.Error(1)
}

func (m *OrderServiceMock) GetJob(ctx context.Context, userID string, jobID uint) (*dto.JobResponseDTO, error) {
	args := m.Called(ctx, userID, jobID)

	resp, _ := args.Get(0).(*dto.JobResponseDTO)
	return resp, args.Error(1)
}

func (m *OrderServiceMock) ListJobs(ctx context.Context, userID, status string) ([]dto.JobResponseDTO, error) {
	args := m.Called(ctx, userID, status)

	resp, _ := args.Get(0).([]dto.JobResponseDTO)
	return resp, args.Error(1)
}
