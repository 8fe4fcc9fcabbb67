package pipeline

import (
	"context"

	"github.com/pawkit-ai/pawkit-backend/internal/config"
)

// Step is one executable job type. Job types with no registered step are
// skipped rather than failed, so legacy rows stay harmless.
type Step interface {
	Type() config.JobType
	Run(ctx context.Context, req *StepRequest) (map[string]any, error)
}

type backendStep struct {
	typ    config.JobType
	path   string
	client *BackendClient
}

func (s *backendStep) Type() config.JobType { return s.typ }

func (s *backendStep) Run(ctx context.Context, req *StepRequest) (map[string]any, error) {
	return s.client.Call(ctx, s.path, req)
}

// DefaultSteps wires the four pipeline stages against the generation backend
// and the clip stage against the batch clip renderer.
func DefaultSteps(backend, renderer *BackendClient) []Step {
	return []Step{
		&backendStep{typ: config.JobTypeCopy, path: "/generate-copy", client: backend},
		&backendStep{typ: config.JobTypeVision, path: "/generate-vision", client: backend},
		&backendStep{typ: config.JobTypeRender, path: "/render-image", client: backend},
		&backendStep{typ: config.JobTypeUpload, path: "/upload-cloudinary", client: backend},
		&backendStep{typ: config.JobTypeBatchClip, path: "/render-clip", client: renderer},
	}
}
