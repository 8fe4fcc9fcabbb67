package dto

import "encoding/json"

// ConsumeDTO debits one unit type. Exactly one of the cost fields must be
// set; which one decides the unit.
type ConsumeDTO struct {
	CostWoofs   int             `json:"cost_woofs" validate:"gte=0"`
	CostVisuals int             `json:"cost_visuals" validate:"gte=0"`
	BrandID     string          `json:"brand_id" validate:"required"`
	Meta        json.RawMessage `json:"meta,omitempty"`
}

type RefundDTO struct {
	Amount   int             `json:"amount" validate:"required,gt=0"`
	Unit     string          `json:"unit" validate:"omitempty,oneof=woofs visuals"`
	BrandID  string          `json:"brand_id" validate:"required"`
	Reason   string          `json:"reason,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// BalanceDTO reports the remaining balance after an operation. NewBalance is
// null for unlimited quotas.
type BalanceDTO struct {
	OK         bool   `json:"ok"`
	NewBalance *int64 `json:"new_balance"`
}
