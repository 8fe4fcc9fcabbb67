package mocks

import (
	"context"

	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"github.com/stretchr/testify/mock"
)

type BatchRepoMock struct {
	mock.Mock
}

func (m *BatchRepoMock) CreateGraph(ctx context.Context, b *models.VideoBatch,
	videos []models.BatchVideo, clips []models.BatchClip,
	texts []models.BatchClipText, jobs []models.Job) error {
	args := m.Called(ctx, b, videos, clips, texts, jobs)
	return args.Error(0)
}

func (m *BatchRepoMock) GetBatch(ctx context.Context, id string) (*models.VideoBatch, error) {
	args := m.Called(ctx, id)

	b, _ := args.Get(0).(*models.VideoBatch)
	return b, args.Error(1)
}

func (m *BatchRepoMock) GetGraph(ctx context.Context, batchID string) (*models.VideoBatch,
	[]models.BatchVideo, []models.BatchClip, []models.BatchClipText, error) {
	args := m.Called(ctx, batchID)

	b, _ := args.Get(0).(*models.VideoBatch)
	videos, _ := args.Get(1).([]models.BatchVideo)
	clips, _ := args.Get(2).([]models.BatchClip)
	texts, _ := args.Get(3).([]models.BatchClipText)
	return b, videos, clips, texts, args.Error(4)
}

func (m *BatchRepoMock) GetClip(ctx context.Context, clipID string) (*models.BatchClip, error) {
	args := m.Called(ctx, clipID)

	c, _ := args.Get(0).(*models.BatchClip)
	return c, args.Error(1)
}

func (m *BatchRepoMock) GetVideo(ctx context.Context, videoID string) (*models.BatchVideo, error) {
	args := m.Called(ctx, videoID)

	v, _ := args.Get(0).(*models.BatchVideo)
	return v, args.Error(1)
}

func (m *BatchRepoMock) SetClipProcessing(ctx context.Context, clipID string) error {
	args := m.Called(ctx, clipID)
	return args.Error(0)
}

func (m *BatchRepoMock) SetClipDone(ctx context.Context, clipID, anchorURL, clipURL string, durationSeconds float64) error {
	args := m.Called(ctx, clipID, anchorURL, clipURL, durationSeconds)
	return args.Error(0)
}

func (m *BatchRepoMock) SetClipError(ctx context.Context, clipID, errMsg string) error {
	args := m.Called(ctx, clipID, errMsg)
	return args.Error(0)
}

func (m *BatchRepoMock) ResetClip(ctx context.Context, clipID string) error {
	args := m.Called(ctx, clipID)
	return args.Error(0)
}
