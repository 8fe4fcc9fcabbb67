package ledger

import (
	"context"

	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"gorm.io/datatypes"
)

// LedgerRepoInterface defines the contract for the quota counters and their
// append-only transaction log. Consume and Refund each run as one database
// transaction covering both the counter mutation and the log entry: either
// both happen or neither does.
type LedgerRepoInterface interface {
	// EnsureCounter creates the brand's counter row for the period if it
	// does not exist yet. The first caller to touch a brand is recorded as
	// its owner; later periods inherit that owner, and a call naming a brand
	// owned by someone else fails with common.ErrForbidden.
	EnsureCounter(ctx context.Context, brandID, ownerID, period string) error

	GetCounter(ctx context.Context, brandID, period string) (*models.UsageCounter, error)

	// Consume atomically increments the period's used counter, rejecting
	// with common.ErrQuotaExceeded when the increment would pass a finite
	// quota. Returns the remaining balance, nil for unlimited quotas.
	Consume(ctx context.Context, brandID, period string, unit config.CreditUnit,
		amount int64, txID, reason string, meta datatypes.JSON) (*int64, error)

	// Refund decrements the used counter, flooring at zero.
	Refund(ctx context.Context, brandID, period string, unit config.CreditUnit,
		amount int64, txID, reason string, meta datatypes.JSON) (*int64, error)

	// ResetPeriod zeroes the period's counters on subscription renewal.
	ResetPeriod(ctx context.Context, brandID, period string) error

	ListTransactions(ctx context.Context, brandID, period string) ([]models.LedgerTransaction, error)
}
