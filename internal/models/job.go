package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job is one durable, independently-claimable unit of background work. The
// payload column carries a payload.Envelope: the business input plus the
// metadata map and history log the pipeline accumulates step by step.
//
// Status moves pending -> processing -> completed|failed. The processing
// transition is only ever made by the conditional claim update, so at most
// one worker holds a job at a time.
type Job struct {
	ID         uint           `gorm:"primaryKey;autoIncrement"`
	Type       string         `gorm:"type:varchar(64);not null;index"`
	Status     string         `gorm:"type:varchar(32);not null;default:'pending';index"`
	Payload    datatypes.JSON `gorm:"type:jsonb"`
	UserID     string         `gorm:"type:varchar(64);not null;index"`
	BrandID    *string        `gorm:"type:varchar(64);index"`
	OrderID    *string        `gorm:"type:varchar(64);index"`
	Attempts   int            `gorm:"default:0;not null"`
	Error      string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	StartedAt  *time.Time
	FinishedAt *time.Time
}
