package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStep(t *testing.T) {
	tests := []struct {
		from    JobType
		want    JobType
		hasNext bool
	}{
		{JobTypeCopy, JobTypeVision, true},
		{JobTypeVision, JobTypeRender, true},
		{JobTypeRender, JobTypeUpload, true},
		{JobTypeUpload, "", false},
		{JobTypeBatchClip, "", false},
		{"unknown", "", false},
	}

	for _, tt := range tests {
		got, ok := NextStep(tt.from)
		assert.Equal(t, tt.hasNext, ok, "from %s", tt.from)
		assert.Equal(t, tt.want, got, "from %s", tt.from)
	}
}

func TestJobStatusTerminal(t *testing.T) {
	assert.True(t, JobStatusCompleted.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
	assert.False(t, JobStatusPending.Terminal())
	assert.False(t, JobStatusProcessing.Terminal())
}
