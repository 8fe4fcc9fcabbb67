package pipeline

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"github.com/pawkit-ai/pawkit-backend/internal/job"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"github.com/pawkit-ai/pawkit-backend/internal/payload"
)

// ClipStore is the slice of the batch store the dispatcher needs to mirror a
// clip job's lifecycle onto its BatchClip row.
type ClipStore interface {
	SetClipProcessing(ctx context.Context, clipID string) error
	SetClipDone(ctx context.Context, clipID, anchorURL, clipURL string, durationSeconds float64) error
	SetClipError(ctx context.Context, clipID, errMsg string) error
}

// Dispatcher advances pending jobs one step at a time. Instances are
// stateless; any number may run concurrently against the same job store, and
// the conditional claim keeps them from colliding.
type Dispatcher struct {
	jobs      job.JobRepoInterface
	orders    job.OrderRepoInterface
	clips     ClipStore
	steps     map[config.JobType]Step
	batchSize int
}

func NewDispatcher(jobs job.JobRepoInterface, orders job.OrderRepoInterface,
	clips ClipStore, steps []Step, batchSize int) *Dispatcher {

	if batchSize < 1 {
		batchSize = config.DefaultDispatchBatch
	}
	m := make(map[config.JobType]Step, len(steps))
	for _, s := range steps {
		m[s.Type()] = s
	}
	return &Dispatcher{jobs: jobs, orders: orders, clips: clips, steps: m, batchSize: batchSize}
}

// RunOnce performs one dispatch pass: fetch a bounded batch of pending jobs,
// claim each, and process the ones won. A lost claim is another worker's
// success, not an error.
func (d *Dispatcher) RunOnce(ctx context.Context) (*dto.DispatchResultDTO, error) {
	pending, err := d.jobs.ListPending(ctx, d.batchSize)
	if err != nil {
		return nil, err
	}

	res := &dto.DispatchResultDTO{}
	for i := range pending {
		j := &pending[i]

		claimed, err := d.jobs.Claim(ctx, j.ID)
		if err != nil {
			return res, err
		}
		if !claimed {
			continue
		}
		res.Claimed++

		d.processClaimed(ctx, j, res)
	}
	return res, nil
}

func (d *Dispatcher) processClaimed(ctx context.Context, j *models.Job, res *dto.DispatchResultDTO) {
	env, err := payload.Parse(j.Payload)
	if err != nil {
		log.Printf("[dispatch] job %d: unreadable payload: %v", j.ID, err)
		_ = d.jobs.Fail(ctx, j.ID, err.Error(), nil)
		res.Failed++
		return
	}

	step, ok := d.steps[config.JobType(j.Type)]
	if !ok {
		// Unknown or legacy type: record and retire it without failing.
		env.AppendEvent(j.Type, "skipped", "")
		raw, _ := env.Marshal()
		_ = d.jobs.Complete(ctx, j.ID, raw)
		res.Skipped++
		return
	}

	// Persist the processing event before the external call so a crash
	// mid-step is observable by the watchdog.
	env.AppendEvent(j.Type, "processing", "")
	if raw, merr := env.Marshal(); merr == nil {
		if err := d.jobs.UpdatePayload(ctx, j.ID, raw); err != nil {
			log.Printf("[dispatch] job %d: persist history: %v", j.ID, err)
		}
	}

	if config.JobType(j.Type) == config.JobTypeBatchClip && d.clips != nil {
		if clip, ok := clipPayload(env); ok {
			_ = d.clips.SetClipProcessing(ctx, clip.ClipID)
		}
	}

	result, runErr := step.Run(ctx, d.buildRequest(j, env))
	if runErr != nil {
		d.finishFailed(ctx, j, env, runErr)
		res.Failed++
		return
	}

	d.finishCompleted(ctx, j, env, result)
	res.Completed++
}

func (d *Dispatcher) buildRequest(j *models.Job, env *payload.Envelope) *StepRequest {
	req := &StepRequest{
		JobID:    j.ID,
		UserID:   j.UserID,
		Step:     j.Type,
		Payload:  env.Input,
		Metadata: env.Metadata,
		History:  env.History,
	}
	if j.OrderID != nil {
		req.OrderID = *j.OrderID
	}
	if j.BrandID != nil {
		req.BrandID = *j.BrandID
	}
	return req
}

// finishCompleted records the step success and performs its side effects:
// enqueue the next pipeline step, or on the terminal step write the media
// output and complete the order, or mark the batch clip done.
func (d *Dispatcher) finishCompleted(ctx context.Context, j *models.Job, env *payload.Envelope, result map[string]any) {
	env.MergeResult(j.Type, result)
	env.AppendEvent(j.Type, "completed", "")
	raw, err := env.Marshal()
	if err != nil {
		log.Printf("[dispatch] job %d: marshal envelope: %v", j.ID, err)
	}
	if err := d.jobs.Complete(ctx, j.ID, raw); err != nil {
		log.Printf("[dispatch] job %d: complete: %v", j.ID, err)
		return
	}

	jobType := config.JobType(j.Type)

	if jobType == config.JobTypeBatchClip {
		if clip, ok := clipPayload(env); ok && d.clips != nil {
			if err := d.clips.SetClipDone(ctx, clip.ClipID,
				stringField(result, "anchorUrl"),
				stringField(result, "clipUrl"),
				floatField(result, "durationSeconds")); err != nil {
				log.Printf("[dispatch] job %d: mark clip done: %v", j.ID, err)
			}
		}
		return
	}

	next, hasNext := config.NextStep(jobType)
	if hasNext {
		nextJob := &models.Job{
			Type:    string(next),
			Payload: raw,
			UserID:  j.UserID,
			BrandID: j.BrandID,
			OrderID: j.OrderID,
		}
		if err := d.jobs.Create(ctx, nextJob); err != nil {
			log.Printf("[dispatch] job %d: enqueue %s: %v", j.ID, next, err)
			return
		}
		if next == config.JobTypeRender && j.OrderID != nil {
			_ = d.orders.UpdateStatus(ctx, *j.OrderID, string(config.OrderStatusVisualGeneration), "")
		}
		return
	}

	// Terminal step: persist the artifact and close out the order.
	if j.OrderID != nil {
		media := &models.MediaOutput{
			OrderID:  *j.OrderID,
			UserID:   j.UserID,
			URL:      stringField(result, "url"),
			PublicID: stringField(result, "publicId"),
		}
		if b, err := json.Marshal(result); err == nil {
			media.Metadata = b
		}
		if err := d.orders.SaveMedia(ctx, media); err != nil {
			log.Printf("[dispatch] job %d: save media: %v", j.ID, err)
		}
		if err := d.orders.UpdateStatus(ctx, *j.OrderID, string(config.OrderStatusCompleted), ""); err != nil {
			log.Printf("[dispatch] job %d: complete order: %v", j.ID, err)
		}
	}
}

// finishFailed records the step failure on the job and its owner. The
// pipeline is forward-only: nothing is rolled back, no next step is
// enqueued, and no quota is refunded here.
func (d *Dispatcher) finishFailed(ctx context.Context, j *models.Job, env *payload.Envelope, runErr error) {
	env.AppendEvent(j.Type, "failed", runErr.Error())
	raw, _ := env.Marshal()
	if err := d.jobs.Fail(ctx, j.ID, runErr.Error(), raw); err != nil {
		log.Printf("[dispatch] job %d: fail: %v", j.ID, err)
	}

	if config.JobType(j.Type) == config.JobTypeBatchClip {
		if clip, ok := clipPayload(env); ok && d.clips != nil {
			_ = d.clips.SetClipError(ctx, clip.ClipID, runErr.Error())
		}
		return
	}

	if j.OrderID != nil {
		_ = d.orders.UpdateStatus(ctx, *j.OrderID, string(config.OrderStatusFailed), runErr.Error())
	}
}

func clipPayload(env *payload.Envelope) (*dto.ClipJobPayload, bool) {
	if len(env.Input) == 0 {
		return nil, false
	}
	var clip dto.ClipJobPayload
	if err := json.Unmarshal(env.Input, &clip); err != nil || clip.ClipID == "" {
		return nil, false
	}
	return &clip, true
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func floatField(m map[string]any, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}
