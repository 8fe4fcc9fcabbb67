package dto

import (
	"encoding/json"
	"time"
)

type OrderCreateDTO struct {
	BrandID *string         `json:"brand_id,omitempty"`
	Brief   json.RawMessage `json:"brief" validate:"required"`
}

type OrderResponseDTO struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	BrandID   *string         `json:"brand_id,omitempty"`
	Status    string          `json:"status"`
	Brief     json.RawMessage `json:"brief,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type OrderCreatedDTO struct {
	OrderID string `json:"order_id"`
	JobID   uint   `json:"job_id"`
	Status  string `json:"status"`
}

type JobResponseDTO struct {
	ID         uint            `json:"id"`
	Type       string          `json:"type"`
	Status     string          `json:"status"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	UserID     string          `json:"user_id"`
	BrandID    *string         `json:"brand_id,omitempty"`
	OrderID    *string         `json:"order_id,omitempty"`
	Attempts   int             `json:"attempts"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}
