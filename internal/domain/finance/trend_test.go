package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/expenses"
	"github.com/xpertfs/xpert-app-backend/internal/domain/labor"
)

func TestMonthlyTrendBucketsAndAccumulates(t *testing.T) {
	entries := []labor.CostedEntry{
		{Entry: labor.TimeEntry{Date: time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)}, Cost: decimal.NewFromInt(200)},
		{Entry: labor.TimeEntry{Date: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)}, Cost: decimal.NewFromInt(100)},
		{Entry: labor.TimeEntry{Date: time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)}, Cost: decimal.NewFromInt(50)},
	}
	expenseList := []expenses.Expense{
		{Date: time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(30)},
		{Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(70)},
	}

	series := MonthlyTrend(entries, expenseList)

	if len(series) != 3 {
		t.Fatalf("expected 3 months, got %d", len(series))
	}
	if series[0].Month != time.January || series[1].Month != time.February || series[2].Month != time.March {
		t.Fatalf("expected chronological order, got %+v", series)
	}

	if !series[0].LaborCost.Equal(decimal.NewFromInt(150)) || !series[0].ExpenseCost.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected January bucket: %+v", series[0])
	}
	if !series[0].TotalCost.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("expected January total 180, got %s", series[0].TotalCost)
	}

	if !series[1].CumulativeCost.Equal(decimal.NewFromInt(380)) {
		t.Fatalf("expected cumulative 380 through February, got %s", series[1].CumulativeCost)
	}
	if !series[2].CumulativeCost.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("expected cumulative 450 through March, got %s", series[2].CumulativeCost)
	}
}

func TestMonthlyTrendMarksUnpricedMonthsPartial(t *testing.T) {
	entries := []labor.CostedEntry{
		{Entry: labor.TimeEntry{Date: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)}, Cost: decimal.NewFromInt(100)},
		{Entry: labor.TimeEntry{Date: time.Date(2024, time.January, 16, 0, 0, 0, 0, time.UTC)}, Unpriced: true},
	}

	series := MonthlyTrend(entries, nil)

	if len(series) != 1 {
		t.Fatalf("expected 1 month, got %d", len(series))
	}
	if !series[0].Partial {
		t.Fatal("expected the month to be marked partial")
	}
	if !series[0].LaborCost.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected unpriced entries excluded from the total, got %s", series[0].LaborCost)
	}
}

func TestMonthlyTrendSpansYearBoundary(t *testing.T) {
	entries := []labor.CostedEntry{
		{Entry: labor.TimeEntry{Date: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)}, Cost: decimal.NewFromInt(10)},
		{Entry: labor.TimeEntry{Date: time.Date(2023, time.December, 30, 0, 0, 0, 0, time.UTC)}, Cost: decimal.NewFromInt(20)},
	}

	series := MonthlyTrend(entries, nil)

	if len(series) != 2 {
		t.Fatalf("expected 2 months, got %d", len(series))
	}
	if series[0].Year != 2023 || series[1].Year != 2024 {
		t.Fatalf("expected December 2023 before January 2024, got %+v", series)
	}
}

func TestMonthlyTrendEmptyInput(t *testing.T) {
	if series := MonthlyTrend(nil, nil); len(series) != 0 {
		t.Fatalf("expected an empty series, got %+v", series)
	}
}
