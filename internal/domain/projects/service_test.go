package projects

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
)

func newProjectService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewService(NewStore(mock)), mock
}

func TestCreateQuantityRejectsCompletedOverQuantity(t *testing.T) {
	service, _ := newProjectService(t)

	_, err := service.CreateQuantity(context.Background(), "c1", WorkItemQuantity{
		SubScopeID: "ss1",
		WorkItemID: "w1",
		Quantity:   10,
		Completed:  50,
	})
	if !errors.Is(err, ErrCompletedExceedsQuantity) {
		t.Fatalf("expected ErrCompletedExceedsQuantity, got %v", err)
	}
}

func TestCreateQuantityRejectsNegativeCompleted(t *testing.T) {
	service, _ := newProjectService(t)

	_, err := service.CreateQuantity(context.Background(), "c1", WorkItemQuantity{
		SubScopeID: "ss1",
		WorkItemID: "w1",
		Quantity:   10,
		Completed:  -1,
	})
	if !errors.Is(err, ErrNegativeProgress) {
		t.Fatalf("expected ErrNegativeProgress, got %v", err)
	}
}

func TestCreateQuantityRequiresTenantOwnedWorkItem(t *testing.T) {
	service, mock := newProjectService(t)

	mock.ExpectQuery("FROM work_items").
		WithArgs("c1", "w1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_id", "code", "description", "unit", "unit_price"}))

	_, err := service.CreateQuantity(context.Background(), "c1", WorkItemQuantity{
		SubScopeID: "ss1",
		WorkItemID: "w1",
		Quantity:   10,
		Completed:  5,
	})
	if !errors.Is(err, ErrWorkItemNotFound) {
		t.Fatalf("expected ErrWorkItemNotFound, got %v", err)
	}
}

func TestCreateQuantityInsertsValidRow(t *testing.T) {
	service, mock := newProjectService(t)

	mock.ExpectQuery("FROM work_items").
		WithArgs("c1", "w1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "project_id", "code", "description", "unit", "unit_price"}).
			AddRow("w1", "pr1", "CONC-01", "Concrete pour", "m3", decimal.NewFromInt(120)))
	mock.ExpectQuery("INSERT INTO work_item_quantities").
		WithArgs("c1", "ss1", "w1", 10.0, 5.0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("q1"))

	id, err := service.CreateQuantity(context.Background(), "c1", WorkItemQuantity{
		SubScopeID: "ss1",
		WorkItemID: "w1",
		Quantity:   10,
		Completed:  5,
	})
	if err != nil {
		t.Fatalf("CreateQuantity returned error: %v", err)
	}
	if id != "q1" {
		t.Fatalf("expected q1, got %s", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportProgressBounds(t *testing.T) {
	service, mock := newProjectService(t)

	if _, err := service.ReportProgress(context.Background(), "c1", "q1", -1); !errors.Is(err, ErrNegativeProgress) {
		t.Fatalf("expected ErrNegativeProgress, got %v", err)
	}

	mock.ExpectQuery("FROM work_item_quantities").
		WithArgs("c1", "q1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "sub_scope_id", "work_item_id", "quantity", "completed"}).
			AddRow("q1", "ss1", "w1", 10.0, 2.0))

	if _, err := service.ReportProgress(context.Background(), "c1", "q1", 11); !errors.Is(err, ErrCompletedExceedsQuantity) {
		t.Fatalf("expected ErrCompletedExceedsQuantity, got %v", err)
	}
}
