package models

import (
	"time"

	"gorm.io/datatypes"
)

// VideoBatch is the root of the batch -> video -> clip hierarchy for bulk
// video generation. Its settings are frozen at creation; its effective status
// is derived read-side from the clips.
type VideoBatch struct {
	ID          string         `gorm:"primaryKey;type:varchar(64)"`
	UserID      string         `gorm:"type:varchar(64);not null;index"`
	BrandID     *string        `gorm:"type:varchar(64);index"`
	InputPrompt string         `gorm:"type:text;not null"`
	Settings    datatypes.JSON `gorm:"type:jsonb"`
	Status      string         `gorm:"type:varchar(32);not null;default:'queued'"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

type BatchVideo struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)"`
	BatchID    string    `gorm:"type:varchar(64);not null;index"`
	VideoIndex int       `gorm:"not null"`
	Title      string    `gorm:"type:text"`
	Status     string    `gorm:"type:varchar(32);not null;default:'queued'"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// BatchClip maps 1:1 to a video_batch_clip job. Status moves
// queued -> processing -> done|error as its job is processed.
type BatchClip struct {
	ID              string    `gorm:"primaryKey;type:varchar(64)"`
	VideoID         string    `gorm:"type:varchar(64);not null;index"`
	ClipIndex       int       `gorm:"not null"`
	Status          string    `gorm:"type:varchar(32);not null;default:'queued'"`
	Role            string    `gorm:"type:varchar(32)"`
	AnchorPrompt    string    `gorm:"type:text"`
	VeoPrompt       string    `gorm:"type:text"`
	AnchorURL       string    `gorm:"type:text"`
	ClipURL         string    `gorm:"type:text"`
	DurationSeconds float64   `gorm:"default:0"`
	Error           string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// BatchClipText is a per-clip text override supplied at batch creation,
// already normalized from whichever request format carried it.
type BatchClipText struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	VideoID   string    `gorm:"type:varchar(64);not null;index"`
	ClipIndex int       `gorm:"not null"`
	Title     string    `gorm:"type:text"`
	Subtitle  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
