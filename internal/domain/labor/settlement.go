package labor

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/employees"
	"github.com/xpertfs/xpert-app-backend/internal/domain/rates"
	"github.com/xpertfs/xpert-app-backend/internal/platform/db"
)

type Service struct {
	store          *Store
	tx             *db.TxManager
	rates          *rates.Service
	employees      *employees.Store
	settleAttempts int
}

func NewService(store *Store, tx *db.TxManager, ratesSvc *rates.Service, employeeStore *employees.Store, settleAttempts int) *Service {
	if settleAttempts < 1 {
		settleAttempts = 1
	}
	return &Service{
		store:          store,
		tx:             tx,
		rates:          ratesSvc,
		employees:      employeeStore,
		settleAttempts: settleAttempts,
	}
}

func (s *Service) Store() *Store {
	return s.store
}

// Approve bulk-transitions pending entries to approved and reports how many
// rows actually moved; ids in any other state are skipped silently.
func (s *Service) Approve(ctx context.Context, companyID string, entryIDs []string) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	return s.store.ApproveEntries(ctx, companyID, entryIDs)
}

func (s *Service) Cancel(ctx context.Context, companyID string, entryIDs []string) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	return s.store.CancelEntries(ctx, companyID, entryIDs)
}

// Settle converts an employee's approved entries into one paid payment. The
// batch select, the payment insert and the entry updates run in a single
// serializable transaction: either every entry transitions and the payment
// exists, or nothing changed. A concurrent caller on an overlapping batch
// either finds no approved entries left (ErrNoPayableEntries) or aborts the
// serializable transaction; aborted attempts are retried up to the configured
// attempt count before ErrTransactionConflict surfaces.
func (s *Service) Settle(ctx context.Context, companyID, employeeID string, entryIDs []string, paymentDate time.Time, deductions decimal.Decimal) (Payment, error) {
	if len(entryIDs) == 0 {
		return Payment{}, ErrNoPayableEntries
	}

	employee, err := s.employees.Get(ctx, companyID, employeeID)
	if err != nil {
		return Payment{}, err
	}
	rate, err := s.hourlyRate(ctx, employee, paymentDate)
	if err != nil {
		return Payment{}, err
	}

	var payment Payment
	for attempt := 1; ; attempt++ {
		payment, err = s.settleOnce(ctx, companyID, employeeID, entryIDs, paymentDate, deductions, rate)
		if err == nil {
			return payment, nil
		}
		if errors.Is(err, ErrTransactionConflict) && attempt < s.settleAttempts {
			continue
		}
		return Payment{}, err
	}
}

func (s *Service) settleOnce(ctx context.Context, companyID, employeeID string, entryIDs []string, paymentDate time.Time, deductions, rate decimal.Decimal) (Payment, error) {
	var payment Payment
	err := s.tx.WithSerializableTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		entries, err := s.store.LockApprovedEntries(ctx, tx, companyID, employeeID, entryIDs)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return ErrNoPayableEntries
		}

		totals := SettlementAmounts(entries, rate, deductions)
		payment = Payment{
			CompanyID:      companyID,
			EmployeeID:     employeeID,
			PaymentDate:    paymentDate,
			RegularAmount:  totals.RegularAmount,
			OvertimeAmount: totals.OvertimeAmount,
			DoubleAmount:   totals.DoubleAmount,
			Deductions:     deductions,
			TotalAmount:    totals.TotalAmount,
			Status:         PaymentStatusPaid,
		}

		paymentID, err := s.store.InsertPayment(ctx, tx, payment)
		if err != nil {
			return err
		}
		payment.ID = paymentID

		settledIDs := make([]string, 0, len(entries))
		for _, entry := range entries {
			settledIDs = append(settledIDs, entry.ID)
		}
		if _, err := s.store.MarkEntriesPaid(ctx, tx, companyID, paymentID, settledIDs); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return Payment{}, translateConflict(err)
	}
	return payment, nil
}

// UpdateEntry applies an edit unless the entry is already paid. The one
// permitted write against a paid entry is a re-submit that itself says paid;
// that returns the entry unchanged so import retries stay idempotent.
func (s *Service) UpdateEntry(ctx context.Context, companyID, entryID string, update EntryUpdate) (TimeEntry, error) {
	entry, err := s.store.GetEntry(ctx, companyID, entryID)
	if err != nil {
		return TimeEntry{}, err
	}

	if entry.PaymentStatus == StatusPaid {
		if update.PaymentStatus == StatusPaid {
			return entry, nil
		}
		return TimeEntry{}, ErrEntryLocked
	}

	entry.Date = update.Date
	entry.RegularHours = update.RegularHours
	entry.OvertimeHours = update.OvertimeHours
	entry.DoubleHours = update.DoubleHours
	entry.ProjectID = update.ProjectID
	if err := s.store.UpdateEntry(ctx, companyID, entry); err != nil {
		return TimeEntry{}, err
	}
	return entry, nil
}

func (s *Service) DeleteEntry(ctx context.Context, companyID, entryID string) error {
	entry, err := s.store.GetEntry(ctx, companyID, entryID)
	if err != nil {
		return err
	}
	if entry.PaymentStatus == StatusPaid {
		return ErrEntryLocked
	}
	return s.store.DeleteEntry(ctx, companyID, entryID)
}

func (s *Service) CreateEntry(ctx context.Context, companyID string, entry TimeEntry) (TimeEntry, error) {
	if _, err := s.employees.Get(ctx, companyID, entry.EmployeeID); err != nil {
		return TimeEntry{}, err
	}
	id, err := s.store.CreateEntry(ctx, companyID, entry)
	if err != nil {
		return TimeEntry{}, err
	}
	entry.ID = id
	entry.CompanyID = companyID
	entry.PaymentStatus = StatusPending
	return entry, nil
}

// ImportEntries persists spreadsheet-shaped rows. Rows are created pending,
// one by one; the first failure stops the import and reports how many rows
// landed before it.
func (s *Service) ImportEntries(ctx context.Context, companyID string, entries []TimeEntry) (int, error) {
	for i, entry := range entries {
		if _, err := s.CreateEntry(ctx, companyID, entry); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}

// ProjectLaborCost prices every non-cancelled entry of a project. Rates are
// resolved per employee as of costingDate and cached for the batch.
func (s *Service) ProjectLaborCost(ctx context.Context, companyID, projectID string) (LaborCost, error) {
	entries, err := s.store.ListEntries(ctx, companyID, EntryFilter{ProjectID: projectID, ExcludeCancelled: true})
	if err != nil {
		return LaborCost{}, err
	}
	return TotalLaborCost(entries, s.cachedRateFunc(ctx, companyID, costingDate()))
}

// EntriesWithCosts returns a project's non-cancelled entries in a date range
// together with each entry's cost, for time-bucketed reporting.
func (s *Service) EntriesWithCosts(ctx context.Context, companyID, projectID string, from, to time.Time) ([]CostedEntry, error) {
	entries, err := s.store.ListEntries(ctx, companyID, EntryFilter{
		ProjectID:        projectID,
		From:             from,
		To:               to,
		ExcludeCancelled: true,
	})
	if err != nil {
		return nil, err
	}

	rateFor := s.cachedRateFunc(ctx, companyID, costingDate())
	costed := make([]CostedEntry, 0, len(entries))
	for _, entry := range entries {
		rate, err := rateFor(entry)
		if errors.Is(err, rates.ErrRateNotConfigured) {
			costed = append(costed, CostedEntry{Entry: entry, Unpriced: true})
			continue
		}
		if err != nil {
			return nil, err
		}
		costed = append(costed, CostedEntry{Entry: entry, Cost: EntryCost(entry, rate)})
	}
	return costed, nil
}

type CostedEntry struct {
	Entry    TimeEntry
	Cost     decimal.Decimal
	Unpriced bool
}

func (s *Service) hourlyRate(ctx context.Context, employee employees.Employee, asOf time.Time) (decimal.Decimal, error) {
	if employee.Type == employees.TypeUnion {
		base, err := s.rates.Resolve(ctx, employee.CompanyID, employee.UnionClassID, asOf)
		if err != nil {
			return decimal.Zero, err
		}
		return base.RegularRate, nil
	}
	return employee.Rate, nil
}

func (s *Service) cachedRateFunc(ctx context.Context, companyID string, asOf time.Time) RateFunc {
	type cached struct {
		rate decimal.Decimal
		err  error
	}
	cache := map[string]cached{}

	return func(entry TimeEntry) (decimal.Decimal, error) {
		if hit, ok := cache[entry.EmployeeID]; ok {
			return hit.rate, hit.err
		}
		employee, err := s.employees.Get(ctx, companyID, entry.EmployeeID)
		if err != nil {
			cache[entry.EmployeeID] = cached{err: err}
			return decimal.Zero, err
		}
		rate, err := s.hourlyRate(ctx, employee, asOf)
		cache[entry.EmployeeID] = cached{rate: rate, err: err}
		return rate, err
	}
}
