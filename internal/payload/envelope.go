// Package payload defines the typed envelope carried in a job's payload
// column: the business input, a metadata map accumulating per-step outputs,
// and an append-only history of step events. Past entries are never mutated;
// each step only appends.
package payload

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type StepEvent struct {
	Step   string    `json:"step"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	Error  string    `json:"error,omitempty"`
}

type Envelope struct {
	Input    json.RawMessage `json:"input,omitempty"`
	Metadata map[string]any  `json:"metadata,omitempty"`
	History  []StepEvent     `json:"history,omitempty"`
}

// New builds an envelope around a fresh business input.
func New(input json.RawMessage) *Envelope {
	return &Envelope{Input: input, Metadata: map[string]any{}}
}

// Parse decodes an envelope from a job's payload column. An empty payload
// yields an empty envelope rather than an error so legacy rows stay readable.
func Parse(raw datatypes.JSON) (*Envelope, error) {
	env := &Envelope{}
	if len(raw) == 0 {
		env.Metadata = map[string]any{}
		return env, nil
	}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("parse payload envelope: %w", err)
	}
	if env.Metadata == nil {
		env.Metadata = map[string]any{}
	}
	return env, nil
}

// AppendEvent records a step transition in the history log.
func (e *Envelope) AppendEvent(step, status string, errMsg string) {
	e.History = append(e.History, StepEvent{
		Step:   step,
		Status: status,
		At:     time.Now().UTC(),
		Error:  errMsg,
	})
}

// MergeResult stores a step's output under "<step>Result" in the metadata
// map, where the next step (and the final media write) can read it.
func (e *Envelope) MergeResult(step string, result map[string]any) {
	e.Metadata[step+"Result"] = result
}

// Marshal serializes the envelope back into a payload column value.
func (e *Envelope) Marshal() (datatypes.JSON, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal payload envelope: %w", err)
	}
	return datatypes.JSON(b), nil
}
