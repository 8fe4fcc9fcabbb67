package mocks

import (
	"context"

	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"github.com/stretchr/testify/mock"
)

type OrderRepoMock struct {
	mock.Mock
}

func (m *OrderRepoMock) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) Get(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)

	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, id string, status string, errMsg string) error {
	args := m.Called(ctx, id, status, errMsg)
	return args.Error(0)
}

func (m *OrderRepoMock) SaveMedia(ctx context.Context, media *models.MediaOutput) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}
