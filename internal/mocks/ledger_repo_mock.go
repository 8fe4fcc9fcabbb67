package mocks

import (
	"context"

	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

type LedgerRepoMock struct {
	mock.Mock
}

func (m *LedgerRepoMock) EnsureCounter(ctx context.Context, brandID, ownerID, period string) error {
	args := m.Called(ctx, brandID, ownerID, period)
	return args.Error(0)
}

func (m *LedgerRepoMock) GetCounter(ctx context.Context, brandID, period string) (*models.UsageCounter, error) {
	args := m.Called(ctx, brandID, period)

	c, _ := args.Get(0).(*models.UsageCounter)
	return c, args.Error(1)
}

func (m *LedgerRepoMock) Consume(ctx context.Context, brandID, period string,
	unit config.CreditUnit, amount int64, txID, reason string, meta datatypes.JSON) (*int64, error) {
	args := m.Called(ctx, brandID, period, unit, amount, txID, reason, meta)

	bal, _ := args.Get(0).(*int64)
	return bal, args.Error(1)
}

func (m *LedgerRepoMock) Refund(ctx context.Context, brandID, period string,
	unit config.CreditUnit, amount int64, txID, reason string, meta datatypes.JSON) (*int64, error) {
	args := m.Called(ctx, brandID, period, unit, amount, txID, reason, meta)

	bal, _ := args.Get(0).(*int64)
	return bal, args.Error(1)
}

func (m *LedgerRepoMock) ResetPeriod(ctx context.Context, brandID, period string) error {
	args := m.Called(ctx, brandID, period)
	return args.Error(0)
}

func (m *LedgerRepoMock) ListTransactions(ctx context.Context, brandID, period string) ([]models.LedgerTransaction, error) {
	args := m.Called(ctx, brandID, period)

	entries, _ := args.Get(0).([]models.LedgerTransaction)
	return entries, args.Error(1)
}
