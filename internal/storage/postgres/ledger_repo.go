package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/pawkit-ai/pawkit-backend/common"
	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/ledger"
	"github.com/pawkit-ai/pawkit-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

var _ ledger.LedgerRepoInterface = (*LedgerRepository)(nil)

func unitColumns(unit config.CreditUnit) (used string, quota string) {
	if unit == config.UnitVisuals {
		return "visuals_used", "visuals_quota"
	}
	return "woofs_used", "woofs_quota"
}

// EnsureCounter creates the counter row for (brand, period) if absent.
// Conflicts are ignored so concurrent first consumers both proceed. The
// caller of the brand's first counter becomes the brand's owner; any call
// for a brand already owned by someone else fails with ErrForbidden. The
// re-read after the insert catches the race where two different callers
// create a fresh brand's counter at once and only one row survives.
func (r *LedgerRepository) EnsureCounter(ctx context.Context, brandID, ownerID, period string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prior models.UsageCounter
		err := tx.Where("brand_id = ?", brandID).Order("period DESC").First(&prior).Error
		if err == nil && prior.OwnerID != ownerID {
			return fmt.Errorf("brand %s: %w", brandID, common.ErrForbidden)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("ensure usage counter: %w", err)
		}

		counter := models.UsageCounter{BrandID: brandID, OwnerID: ownerID, Period: period}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error; err != nil {
			return fmt.Errorf("ensure usage counter: %w", err)
		}

		var current models.UsageCounter
		if err := tx.First(&current, "brand_id = ? AND period = ?", brandID, period).Error; err != nil {
			return fmt.Errorf("ensure usage counter: %w", err)
		}
		if current.OwnerID != ownerID {
			return fmt.Errorf("brand %s: %w", brandID, common.ErrForbidden)
		}
		return nil
	})
}

func (r *LedgerRepository) GetCounter(ctx context.Context, brandID, period string) (*models.UsageCounter, error) {
	var c models.UsageCounter
	if err := r.db.WithContext(ctx).
		First(&c, "brand_id = ? AND period = ?", brandID, period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("counter %s/%s: %w", brandID, period, common.ErrNotFound)
		}
		return nil, fmt.Errorf("get usage counter: %w", err)
	}
	return &c, nil
}

// Consume increments the used counter and appends the log entry inside one
// transaction. The sufficiency check lives inside the UPDATE's WHERE clause,
// so two concurrent consumers can never both pass a stale balance check: the
// balance is never driven negative.
func (r *LedgerRepository) Consume(ctx context.Context, brandID, period string,
	unit config.CreditUnit, amount int64, txID, reason string, meta datatypes.JSON) (*int64, error) {

	usedCol, quotaCol := unitColumns(unit)
	var balance *int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UsageCounter{}).
			Where("brand_id = ? AND period = ?", brandID, period).
			Where(quotaCol+" IS NULL OR "+usedCol+" + ? <= "+quotaCol, amount).
			Update(usedCol, gorm.Expr(usedCol+" + ?", amount))
		if res.Error != nil {
			return fmt.Errorf("consume %s: %w", unit, res.Error)
		}
		if res.RowsAffected == 0 {
			// Either the counter row is missing or the quota would be passed.
			var c models.UsageCounter
			if err := tx.First(&c, "brand_id = ? AND period = ?", brandID, period).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("counter %s/%s: %w", brandID, period, common.ErrNotFound)
				}
				return fmt.Errorf("consume %s: %w", unit, err)
			}
			return common.ErrQuotaExceeded
		}

		b, err := r.balance(tx, brandID, period, unit)
		if err != nil {
			return err
		}
		balance = b

		entry := models.LedgerTransaction{
			ID:      txID,
			BrandID: brandID,
			Period:  period,
			Unit:    string(unit),
			Delta:   -amount,
			Reason:  reason,
			Meta:    meta,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("append ledger transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// Refund decrements the used counter, flooring at zero, and appends the log
// entry in the same transaction.
func (r *LedgerRepository) Refund(ctx context.Context, brandID, period string,
	unit config.CreditUnit, amount int64, txID, reason string, meta datatypes.JSON) (*int64, error) {

	usedCol, _ := unitColumns(unit)
	var balance *int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UsageCounter{}).
			Where("brand_id = ? AND period = ?", brandID, period).
			Where(usedCol+" >= ?", amount).
			Update(usedCol, gorm.Expr(usedCol+" - ?", amount))
		if res.Error != nil {
			return fmt.Errorf("refund %s: %w", unit, res.Error)
		}
		if res.RowsAffected == 0 {
			// Less used than refunded: clamp at zero rather than go negative.
			clamp := tx.Model(&models.UsageCounter{}).
				Where("brand_id = ? AND period = ?", brandID, period).
				Update(usedCol, 0)
			if clamp.Error != nil {
				return fmt.Errorf("refund %s: %w", unit, clamp.Error)
			}
			if clamp.RowsAffected == 0 {
				return fmt.Errorf("counter %s/%s: %w", brandID, period, common.ErrNotFound)
			}
		}

		b, err := r.balance(tx, brandID, period, unit)
		if err != nil {
			return err
		}
		balance = b

		entry := models.LedgerTransaction{
			ID:      txID,
			BrandID: brandID,
			Period:  period,
			Unit:    string(unit),
			Delta:   amount,
			Reason:  reason,
			Meta:    meta,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("append ledger transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// ResetPeriod zeroes both used counters at the start of a billing period.
// The transaction log is untouched; it is the audit source of truth.
func (r *LedgerRepository) ResetPeriod(ctx context.Context, brandID, period string) error {
	if err := r.db.WithContext(ctx).Model(&models.UsageCounter{}).
		Where("brand_id = ? AND period = ?", brandID, period).
		Updates(map[string]any{"woofs_used": 0, "visuals_used": 0}).Error; err != nil {
		return fmt.Errorf("reset period: %w", err)
	}
	return nil
}

func (r *LedgerRepository) ListTransactions(ctx context.Context, brandID, period string) ([]models.LedgerTransaction, error) {
	var entries []models.LedgerTransaction
	if err := r.db.WithContext(ctx).
		Where("brand_id = ? AND period = ?", brandID, period).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list ledger transactions: %w", err)
	}
	return entries, nil
}

func (r *LedgerRepository) balance(tx *gorm.DB, brandID, period string, unit config.CreditUnit) (*int64, error) {
	var c models.UsageCounter
	if err := tx.First(&c, "brand_id = ? AND period = ?", brandID, period).Error; err != nil {
		return nil, fmt.Errorf("read counter: %w", err)
	}
	return Remaining(&c, unit), nil
}

// Remaining computes quota minus used for one unit, nil when unlimited.
func Remaining(c *models.UsageCounter, unit config.CreditUnit) *int64 {
	var used int64
	var quota *int64
	if unit == config.UnitVisuals {
		used, quota = c.VisualsUsed, c.VisualsQuota
	} else {
		used, quota = c.WoofsUsed, c.WoofsQuota
	}
	if quota == nil {
		return nil
	}
	rem := *quota - used
	return &rem
}
