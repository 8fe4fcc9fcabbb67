package mocks

import (
	"context"
	"time"

	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

type JobRepoMock struct {
	mock.Mock
}

func (m *JobRepoMock) Create(ctx context.Context, job *models.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *JobRepoMock) Get(ctx context.Context, id uint) (*models.Job, error) {
	args := m.Called(ctx, id)

	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *JobRepoMock) Claim(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *JobRepoMock) UpdatePayload(ctx context.Context, id uint, payload datatypes.JSON) error {
	args := m.Called(ctx, id, payload)
	return args.Error(0)
}

func (m *JobRepoMock) Complete(ctx context.Context, id uint, payload datatypes.JSON) error {
	args := m.Called(ctx, id, payload)
	return args.Error(0)
}

func (m *JobRepoMock) Fail(ctx context.Context, id uint, errMsg string, payload datatypes.JSON) error {
	args := m.Called(ctx, id, errMsg, payload)
	return args.Error(0)
}

func (m *JobRepoMock) ListPending(ctx context.Context, limit int) ([]models.Job, error) {
	args := m.Called(ctx, limit)

	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

func (m *JobRepoMock) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *JobRepoMock) List(ctx context.Context, userID, status string, limit int) ([]models.Job, error) {
	args := m.Called(ctx, userID, status, limit)

	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

func (m *JobRepoMock) ListStuck(ctx context.Context, olderThan time.Duration) ([]models.Job, error) {
	args := m.Called(ctx, olderThan)

	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

func (m *JobRepoMock) ResetStuck(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *JobRepoMock) FailStuck(ctx context.Context, id uint, errMsg string) (bool, error) {
	args := m.Called(ctx, id, errMsg)
	return args.Bool(0), args.Error(1)
}
