package ledger

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pawkit-ai/pawkit-backend/common"
	"github.com/pawkit-ai/pawkit-backend/internal/config"
	"github.com/pawkit-ai/pawkit-backend/internal/dto"
	"gorm.io/datatypes"
)

// Service wraps the ledger repository with period handling, transaction id
// generation and API error mapping. Consume and refund always run in the
// caller's own request, never in the background dispatcher.
type Service struct {
	repo LedgerRepoInterface
	now  func() time.Time
}

func NewService(repo LedgerRepoInterface) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CurrentPeriod renders the active billing period as year-month.
func (s *Service) CurrentPeriod() string {
	return s.now().UTC().Format("2006-01")
}

func newTxID() string {
	return ulid.Make().String()
}

// Consume debits one unit type for the current period. The sufficiency check
// happens inside the repository's atomic update, so this never drives a
// balance negative. The brand must belong to the authenticated caller.
func (s *Service) Consume(ctx context.Context, userID string, req *dto.ConsumeDTO) (*dto.BalanceDTO, error) {
	unit, amount, reason, err := consumeUnit(req)
	if err != nil {
		return nil, err
	}

	period := s.CurrentPeriod()
	if err := s.ensureOwnedCounter(ctx, req.BrandID, userID, period); err != nil {
		return nil, err
	}

	balance, err := s.repo.Consume(ctx, req.BrandID, period, unit, amount, newTxID(), reason, datatypes.JSON(req.Meta))
	if err != nil {
		if errors.Is(err, common.ErrQuotaExceeded) {
			return nil, common.Errf(http.StatusPaymentRequired, "insufficient %s balance", unit)
		}
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errf(http.StatusNotFound, "no usage counter for brand")
		}
		return nil, common.Errf(http.StatusInternalServerError, "failed to consume %s", unit)
	}

	return &dto.BalanceDTO{OK: true, NewBalance: balance}, nil
}

// Refund credits one unit type back. Explicit and caller-triggered; nothing
// in the pipeline refunds automatically on failure. The brand must belong to
// the authenticated caller.
func (s *Service) Refund(ctx context.Context, userID string, req *dto.RefundDTO) (*dto.BalanceDTO, error) {
	unit := config.UnitWoofs
	if req.Unit == string(config.UnitVisuals) {
		unit = config.UnitVisuals
	}
	reason := req.Reason
	if reason == "" {
		reason = "refund"
	}

	period := s.CurrentPeriod()
	if err := s.ensureOwnedCounter(ctx, req.BrandID, userID, period); err != nil {
		return nil, err
	}

	balance, err := s.repo.Refund(ctx, req.BrandID, period, unit, int64(req.Amount), newTxID(), reason, datatypes.JSON(req.Metadata))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errf(http.StatusNotFound, "no usage counter for brand")
		}
		return nil, common.Errf(http.StatusInternalServerError, "failed to refund %s", unit)
	}

	return &dto.BalanceDTO{OK: true, NewBalance: balance}, nil
}

// ensureOwnedCounter prepares the period's counter and ties the brand to
// the caller. The repository records the first toucher as the brand's owner
// and rejects everyone else, so a caller can never move another brand's
// balance by naming its id.
func (s *Service) ensureOwnedCounter(ctx context.Context, brandID, userID, period string) error {
	if err := s.repo.EnsureCounter(ctx, brandID, userID, period); err != nil {
		if errors.Is(err, common.ErrForbidden) {
			return common.Errf(http.StatusForbidden, "brand does not belong to caller")
		}
		return common.Errf(http.StatusInternalServerError, "failed to prepare usage counter")
	}
	return nil
}

// consumeUnit decides which unit a consume request targets. Exactly one cost
// field must be positive.
func consumeUnit(req *dto.ConsumeDTO) (config.CreditUnit, int64, string, error) {
	switch {
	case req.CostWoofs > 0 && req.CostVisuals > 0:
		return "", 0, "", common.Errf(http.StatusBadRequest, "cost_woofs and cost_visuals are mutually exclusive")
	case req.CostWoofs > 0:
		return config.UnitWoofs, int64(req.CostWoofs), "render", nil
	case req.CostVisuals > 0:
		return config.UnitVisuals, int64(req.CostVisuals), "generation", nil
	default:
		return "", 0, "", common.Errf(http.StatusBadRequest, "either cost_woofs or cost_visuals must be positive")
	}
}
