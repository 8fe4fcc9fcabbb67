package batch

import (
	"testing"

	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func statusFixture(clipStatuses ...string) (*models.VideoBatch, []models.BatchVideo, []models.BatchClip) {
	b := &models.VideoBatch{
		ID:          "b1",
		UserID:      "user-1",
		InputPrompt: "corgi surfing",
		Settings:    datatypes.JSON([]byte(`{"videos_count":1}`)),
		Status:      string(config.BatchStatusQueued),
	}
	videos := []models.BatchVideo{{ID: "v1", BatchID: "b1", VideoIndex: 1, Title: "Video 1"}}
	clips := make([]models.BatchClip, 0, len(clipStatuses))
	for i, st := range clipStatuses {
		clips = append(clips, models.BatchClip{
			ID: string(rune('a' + i)), VideoID: "v1", ClipIndex: i + 1, Status: st,
		})
	}
	return b, videos, clips
}

func TestBuildStatus_Aggregation(t *testing.T) {
	b, videos, clips := statusFixture("done", "done", "error", "queued")

	out := BuildStatus(b, videos, clips, nil)

	assert.Equal(t, 4, out.TotalClips)
	assert.Equal(t, 2, out.CompletedClips)
	assert.Equal(t, 1, out.ErrorClips)
	assert.Equal(t, 50, out.Progress)
	assert.Equal(t, string(config.BatchStatusQueued), out.Status, "mixed non-processing clips keep the stored status")

	require.Len(t, out.Videos, 1)
	assert.Equal(t, 50, out.Videos[0].Progress)
	require.Len(t, out.Videos[0].Clips, 4)
}

func TestBuildStatus_DerivedStatuses(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"all done", []string{"done", "done"}, string(config.BatchStatusDone)},
		{"all error", []string{"error", "error"}, string(config.BatchStatusError)},
		{"any processing", []string{"done", "processing"}, string(config.BatchStatusProcessing)},
		{"mixed terminal keeps stored", []string{"done", "error"}, string(config.BatchStatusQueued)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, videos, clips := statusFixture(tt.statuses...)
			out := BuildStatus(b, videos, clips, nil)
			assert.Equal(t, tt.want, out.Status)
		})
	}
}

func TestBuildStatus_NoClipsFallsBackToStored(t *testing.T) {
	b, videos, _ := statusFixture()

	out := BuildStatus(b, videos, nil, nil)

	assert.Equal(t, string(config.BatchStatusQueued), out.Status)
	assert.Equal(t, 0, out.Progress)
}

func TestBuildStatus_ProgressRounding(t *testing.T) {
	// 1 of 3 done rounds to 33, 2 of 3 to 67.
	b, videos, clips := statusFixture("done", "queued", "queued")
	assert.Equal(t, 33, BuildStatus(b, videos, clips, nil).Progress)

	clips[1].Status = "done"
	assert.Equal(t, 67, BuildStatus(b, videos, clips, nil).Progress)
}

func TestBuildStatus_AttachesClipTexts(t *testing.T) {
	b, videos, clips := statusFixture("queued", "queued")
	texts := []models.BatchClipText{
		{VideoID: "v1", ClipIndex: 1, Title: "Hook", Subtitle: "sub"},
	}

	out := BuildStatus(b, videos, clips, texts)

	require.Len(t, out.Videos[0].Texts, 1)
	assert.Equal(t, "Hook", out.Videos[0].Texts[0].Title)
}
