package models

import (
	"time"

	"gorm.io/datatypes"
)

// UsageCounter holds one brand's consumable-unit usage for one billing
// period. A nil quota means unlimited. Counters mutate only through the
// ledger's atomic conditional increments. OwnerID is the user the brand
// belongs to; the ledger refuses writes from anyone else.
type UsageCounter struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	BrandID      string    `gorm:"type:varchar(64);not null;uniqueIndex:uniq_brand_period"`
	OwnerID      string    `gorm:"type:varchar(64);not null"`
	Period       string    `gorm:"type:varchar(7);not null;uniqueIndex:uniq_brand_period"`
	WoofsUsed    int64     `gorm:"default:0;not null"`
	VisualsUsed  int64     `gorm:"default:0;not null"`
	WoofsQuota   *int64    `gorm:""`
	VisualsQuota *int64    `gorm:""`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// LedgerTransaction is one append-only signed entry in the audit log. The id
// is a ULID so the log sorts by creation time. Rows are never updated or
// deleted.
type LedgerTransaction struct {
	ID        string         `gorm:"primaryKey;type:varchar(26)"`
	BrandID   string         `gorm:"type:varchar(64);not null;index"`
	Period    string         `gorm:"type:varchar(7);not null;index"`
	Unit      string         `gorm:"type:varchar(16);not null"`
	Delta     int64          `gorm:"not null"`
	Reason    string         `gorm:"type:varchar(64);not null"`
	Meta      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}
