package rates

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/platform/db"
)

var (
	overtimeMultiplier = decimal.NewFromFloat(1.5)
	doubleMultiplier   = decimal.NewFromInt(2)
)

type Service struct {
	store *Store
	tx    *db.TxManager
}

func NewService(store *Store, tx *db.TxManager) *Service {
	return &Service{store: store, tx: tx}
}

func (s *Service) Store() *Store {
	return s.store
}

// Resolve returns the base rate in force for the union class on asOf.
// ErrRateNotConfigured when the history has no covering interval.
func (s *Service) Resolve(ctx context.Context, companyID, unionClassID string, asOf time.Time) (BaseRate, error) {
	history, err := s.store.ListBaseRates(ctx, companyID, unionClassID)
	if err != nil {
		return BaseRate{}, err
	}
	rate, ok := EffectiveRate(history, asOf)
	if !ok {
		return BaseRate{}, ErrRateNotConfigured
	}
	return rate, nil
}

// AddBaseRate appends a rate record: the open-ended predecessor is closed at
// the new record's effective date and the new record inserted in one
// transaction. Overtime and double default to 1.5x and 2x regular when the
// caller leaves them zero.
func (s *Service) AddBaseRate(ctx context.Context, companyID string, rate BaseRate) (BaseRate, error) {
	if !rate.RegularRate.IsPositive() {
		return BaseRate{}, ErrInvalidRate
	}
	if _, err := s.store.GetUnionClass(ctx, companyID, rate.UnionClassID); err != nil {
		return BaseRate{}, err
	}

	if rate.OvertimeRate.IsZero() {
		rate.OvertimeRate = rate.RegularRate.Mul(overtimeMultiplier)
	}
	if rate.DoubleRate.IsZero() {
		rate.DoubleRate = rate.RegularRate.Mul(doubleMultiplier)
	}
	rate.EndDate = nil

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.store.CloseOpenBaseRate(ctx, tx, rate.UnionClassID, rate.EffectiveDate); err != nil {
			return err
		}
		id, err := s.store.InsertBaseRate(ctx, tx, rate)
		if err != nil {
			return err
		}
		rate.ID = id
		return nil
	})
	if err != nil {
		return BaseRate{}, err
	}
	return rate, nil
}

func (s *Service) AddCustomRate(ctx context.Context, companyID string, rate CustomRate) (CustomRate, error) {
	if _, err := s.store.GetUnionClass(ctx, companyID, rate.UnionClassID); err != nil {
		return CustomRate{}, err
	}
	id, err := s.store.CreateCustomRate(ctx, rate)
	if err != nil {
		return CustomRate{}, err
	}
	rate.ID = id
	return rate, nil
}

// CustomRateAmount evaluates a supplemental rate against a base rate: flat
// rates stand alone, percent rates scale the regular rate.
func CustomRateAmount(custom CustomRate, base BaseRate) decimal.Decimal {
	if custom.Type == CustomRatePercent {
		return base.RegularRate.Mul(custom.Value).Div(decimal.NewFromInt(100)).Round(2)
	}
	return custom.Value
}
