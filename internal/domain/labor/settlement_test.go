package labor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/employees"
	"github.com/xpertfs/xpert-app-backend/internal/domain/rates"
	"github.com/xpertfs/xpert-app-backend/internal/platform/db"
)

var entryColumnNames = []string{
	"id", "company_id", "employee_id", "entry_date", "regular_hours", "overtime_hours",
	"double_hours", "project_id", "payment_status", "payment_id", "created_at",
}

func strPtr(s string) *string { return &s }

func newSettlementService(t *testing.T, settleAttempts int) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	store := NewStore(mock)
	employeeStore := employees.NewStore(mock)
	rateService := rates.NewService(rates.NewStore(mock), db.NewTxManager(mock))
	return NewService(store, db.NewTxManager(mock), rateService, employeeStore, settleAttempts), mock
}

func expectEmployeeGet(mock pgxmock.PgxPoolIface, companyID, employeeID string, rate decimal.Decimal) {
	mock.ExpectQuery("SELECT id, company_id, first_name, last_name, type, rate, union_class_id, active, created_at").
		WithArgs(companyID, employeeID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "company_id", "first_name", "last_name", "type", "rate", "union_class_id", "active", "created_at",
		}).AddRow(employeeID, companyID, "Pat", "Lee", employees.TypeLocal, rate, nil, true, time.Now()))
}

func TestSettleMarksBatchPaidAtomically(t *testing.T) {
	service, mock := newSettlementService(t, 1)

	companyID, employeeID := "c1", "e1"
	entryIDs := []string{"t1", "t2"}
	paymentDate := time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)

	expectEmployeeGet(mock, companyID, employeeID, decimal.NewFromInt(25))

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(companyID, employeeID, entryIDs, StatusApproved).
		WillReturnRows(pgxmock.NewRows(entryColumnNames).
			AddRow("t1", companyID, employeeID, paymentDate, 8.0, 2.0, 0.0, nil, StatusApproved, nil, time.Now()).
			AddRow("t2", companyID, employeeID, paymentDate, 8.0, 0.0, 1.0, nil, StatusApproved, nil, time.Now()))
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(companyID, employeeID, paymentDate, pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), PaymentStatusPaid).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("p1"))
	mock.ExpectExec("UPDATE time_entries").
		WithArgs(companyID, entryIDs, StatusPaid, "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	payment, err := service.Settle(context.Background(), companyID, employeeID, entryIDs, paymentDate, decimal.Zero)
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}

	if payment.ID != "p1" {
		t.Fatalf("expected payment p1, got %s", payment.ID)
	}
	// 16h regular + 2h overtime at 1.5x + 1h double at 2x, all at 25/h.
	if !payment.TotalAmount.Equal(decimal.NewFromInt(525)) {
		t.Fatalf("expected total 525, got %s", payment.TotalAmount)
	}
	if payment.Status != PaymentStatusPaid {
		t.Fatalf("expected paid status, got %s", payment.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleNoApprovedEntriesRollsBack(t *testing.T) {
	service, mock := newSettlementService(t, 1)

	companyID, employeeID := "c1", "e1"
	entryIDs := []string{"t1"}
	paymentDate := time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)

	expectEmployeeGet(mock, companyID, employeeID, decimal.NewFromInt(25))

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(companyID, employeeID, entryIDs, StatusApproved).
		WillReturnRows(pgxmock.NewRows(entryColumnNames))
	mock.ExpectRollback()

	_, err := service.Settle(context.Background(), companyID, employeeID, entryIDs, paymentDate, decimal.Zero)
	if !errors.Is(err, ErrNoPayableEntries) {
		t.Fatalf("expected ErrNoPayableEntries, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleRetriesSerializationConflict(t *testing.T) {
	service, mock := newSettlementService(t, 2)

	companyID, employeeID := "c1", "e1"
	entryIDs := []string{"t1"}
	paymentDate := time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)

	expectEmployeeGet(mock, companyID, employeeID, decimal.NewFromInt(25))

	// First attempt aborts with a serialization failure and rolls back.
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(companyID, employeeID, entryIDs, StatusApproved).
		WillReturnError(&pgconn.PgError{Code: "40001"})
	mock.ExpectRollback()

	// Second attempt settles the batch.
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(companyID, employeeID, entryIDs, StatusApproved).
		WillReturnRows(pgxmock.NewRows(entryColumnNames).
			AddRow("t1", companyID, employeeID, paymentDate, 8.0, 0.0, 0.0, nil, StatusApproved, nil, time.Now()))
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(companyID, employeeID, paymentDate, pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), PaymentStatusPaid).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("p1"))
	mock.ExpectExec("UPDATE time_entries").
		WithArgs(companyID, entryIDs, StatusPaid, "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	payment, err := service.Settle(context.Background(), companyID, employeeID, entryIDs, paymentDate, decimal.Zero)
	if err != nil {
		t.Fatalf("expected the retry to settle the batch, got %v", err)
	}
	if payment.ID != "p1" {
		t.Fatalf("expected payment p1, got %s", payment.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleGivesUpAfterConfiguredAttempts(t *testing.T) {
	service, mock := newSettlementService(t, 2)

	companyID, employeeID := "c1", "e1"
	entryIDs := []string{"t1"}
	paymentDate := time.Date(2024, time.April, 5, 0, 0, 0, 0, time.UTC)

	expectEmployeeGet(mock, companyID, employeeID, decimal.NewFromInt(25))

	for attempt := 0; attempt < 2; attempt++ {
		mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
		mock.ExpectQuery("FOR UPDATE").
			WithArgs(companyID, employeeID, entryIDs, StatusApproved).
			WillReturnError(&pgconn.PgError{Code: "40001"})
		mock.ExpectRollback()
	}

	_, err := service.Settle(context.Background(), companyID, employeeID, entryIDs, paymentDate, decimal.Zero)
	if !errors.Is(err, ErrTransactionConflict) {
		t.Fatalf("expected ErrTransactionConflict after exhausting attempts, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleEmptyBatchShortCircuits(t *testing.T) {
	service, _ := newSettlementService(t, 1)

	_, err := service.Settle(context.Background(), "c1", "e1", nil, time.Now(), decimal.Zero)
	if !errors.Is(err, ErrNoPayableEntries) {
		t.Fatalf("expected ErrNoPayableEntries for empty batch, got %v", err)
	}
}

func TestTranslateConflict(t *testing.T) {
	serialization := &pgconn.PgError{Code: "40001"}
	if !errors.Is(translateConflict(serialization), ErrTransactionConflict) {
		t.Fatal("expected 40001 to map to ErrTransactionConflict")
	}

	deadlock := &pgconn.PgError{Code: "40P01"}
	if !errors.Is(translateConflict(deadlock), ErrTransactionConflict) {
		t.Fatal("expected 40P01 to map to ErrTransactionConflict")
	}

	other := errors.New("broken pipe")
	if translateConflict(other) != other {
		t.Fatal("expected unrelated errors to pass through unchanged")
	}
}

func TestUpdateEntryPaidResubmitIsNoOp(t *testing.T) {
	service, mock := newSettlementService(t, 1)

	entryDate := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM time_entries").
		WithArgs("c1", "t1").
		WillReturnRows(pgxmock.NewRows(entryColumnNames).
			AddRow("t1", "c1", "e1", entryDate, 8.0, 0.0, 0.0, nil, StatusPaid, strPtr("p1"), time.Now()))

	entry, err := service.UpdateEntry(context.Background(), "c1", "t1", EntryUpdate{
		Date:          entryDate,
		RegularHours:  8,
		PaymentStatus: StatusPaid,
	})
	if err != nil {
		t.Fatalf("expected a paid re-submit to be accepted as a no-op, got %v", err)
	}
	if entry.RegularHours != 8 || entry.PaymentStatus != StatusPaid {
		t.Fatalf("expected the stored entry back unchanged, got %+v", entry)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateEntryPaidRejectsModification(t *testing.T) {
	service, mock := newSettlementService(t, 1)

	entryDate := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM time_entries").
		WithArgs("c1", "t1").
		WillReturnRows(pgxmock.NewRows(entryColumnNames).
			AddRow("t1", "c1", "e1", entryDate, 8.0, 0.0, 0.0, nil, StatusPaid, strPtr("p1"), time.Now()))

	_, err := service.UpdateEntry(context.Background(), "c1", "t1", EntryUpdate{
		Date:         entryDate,
		RegularHours: 10,
	})
	if !errors.Is(err, ErrEntryLocked) {
		t.Fatalf("expected ErrEntryLocked, got %v", err)
	}
}

func TestDeleteEntryPaidIsRejected(t *testing.T) {
	service, mock := newSettlementService(t, 1)

	mock.ExpectQuery("FROM time_entries").
		WithArgs("c1", "t1").
		WillReturnRows(pgxmock.NewRows(entryColumnNames).
			AddRow("t1", "c1", "e1", time.Now(), 8.0, 0.0, 0.0, nil, StatusPaid, strPtr("p1"), time.Now()))

	err := service.DeleteEntry(context.Background(), "c1", "t1")
	if !errors.Is(err, ErrEntryLocked) {
		t.Fatalf("expected ErrEntryLocked, got %v", err)
	}
}

func TestApproveOnlyMovesPendingEntries(t *testing.T) {
	service, mock := newSettlementService(t, 1)

	entryIDs := []string{"t1", "t2", "t3"}
	mock.ExpectExec("UPDATE time_entries").
		WithArgs("c1", entryIDs, StatusApproved, StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	affected, err := service.Approve(context.Background(), "c1", entryIDs)
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 approved, got %d", affected)
	}
}
