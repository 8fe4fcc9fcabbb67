package config

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether a status may never be overwritten by another
// terminal write.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

type JobType string

const (
	JobTypeCopy      JobType = "copy"
	JobTypeVision    JobType = "vision"
	JobTypeRender    JobType = "render"
	JobTypeUpload    JobType = "upload"
	JobTypeBatchClip JobType = "video_batch_clip"
)

// PipelineSteps is the linear generation chain, in execution order. The
// terminal step writes the media output and completes the order.
var PipelineSteps = []JobType{JobTypeCopy, JobTypeVision, JobTypeRender, JobTypeUpload}

// NextStep returns the step that follows t in the pipeline chain, or false
// when t is terminal or not a pipeline step at all.
func NextStep(t JobType) (JobType, bool) {
	for i, s := range PipelineSteps {
		if s == t && i+1 < len(PipelineSteps) {
			return PipelineSteps[i+1], true
		}
	}
	return "", false
}

type OrderStatus string

const (
	OrderStatusQueued           OrderStatus = "queued"
	OrderStatusVisualGeneration OrderStatus = "visual_generation"
	OrderStatusCompleted        OrderStatus = "completed"
	OrderStatusFailed           OrderStatus = "failed"
)

type ClipStatus string

const (
	ClipStatusQueued     ClipStatus = "queued"
	ClipStatusProcessing ClipStatus = "processing"
	ClipStatusDone       ClipStatus = "done"
	ClipStatusError      ClipStatus = "error"
)

type BatchStatus string

const (
	BatchStatusQueued     BatchStatus = "queued"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusDone       BatchStatus = "done"
	BatchStatusError      BatchStatus = "error"
)

// Ledger unit types. Each is metered independently per brand and period.
type CreditUnit string

const (
	UnitWoofs   CreditUnit = "woofs"
	UnitVisuals CreditUnit = "visuals"
)

const (
	// WoofsPerClip is the fixed Woofs price of one generated clip.
	WoofsPerClip = 25

	// Batch settings are clamped to this range at creation time.
	MinBatchDimension = 1
	MaxBatchDimension = 10

	DefaultWatchdogTimeout = 15 * time.Minute
	DefaultMaxAttempts     = 3
	DefaultDispatchBatch   = 10
)
