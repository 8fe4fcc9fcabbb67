package models

import (
	"time"

	"gorm.io/datatypes"
)

// Order is the end-user-facing unit of work spanning one linear pipeline
// chain of jobs. One order owns one active job at a time; each completed
// step enqueues the next.
type Order struct {
	ID        string         `gorm:"primaryKey;type:varchar(64)"`
	UserID    string         `gorm:"type:varchar(64);not null;index"`
	BrandID   *string        `gorm:"type:varchar(64);index"`
	Status    string         `gorm:"type:varchar(32);not null;default:'queued'"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	Brief     datatypes.JSON `gorm:"type:jsonb"`
	Error     string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

// MediaOutput is the final artifact written when the terminal upload step of
// an order's pipeline completes.
type MediaOutput struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"`
	OrderID   string         `gorm:"type:varchar(64);not null;index"`
	UserID    string         `gorm:"type:varchar(64);not null;index"`
	URL       string         `gorm:"type:text;not null"`
	PublicID  string         `gorm:"type:varchar(255)"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}
