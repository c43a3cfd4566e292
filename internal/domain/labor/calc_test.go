package labor

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/rates"
)

func TestEntryCostTiers(t *testing.T) {
	rate := decimal.NewFromInt(20)

	cases := []struct {
		name  string
		entry TimeEntry
		want  string
	}{
		{"regular only", TimeEntry{RegularHours: 8}, "160"},
		{"overtime at 1.5x", TimeEntry{OvertimeHours: 4}, "120"},
		{"double at 2x", TimeEntry{DoubleHours: 2}, "80"},
		{"all tiers", TimeEntry{RegularHours: 8, OvertimeHours: 4, DoubleHours: 2}, "360"},
		{"zero hours", TimeEntry{}, "0"},
	}
	for _, tc := range cases {
		got := EntryCost(tc.entry, rate)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestEntryCostRoundsToCents(t *testing.T) {
	// 1.5h overtime at 33.33 = 74.9925 -> 74.99
	got := EntryCost(TimeEntry{OvertimeHours: 1.5}, decimal.RequireFromString("33.33"))
	if !got.Equal(decimal.RequireFromString("74.99")) {
		t.Fatalf("expected 74.99, got %s", got)
	}
}

func TestSettlementAmountsSumsBatchBeforePricing(t *testing.T) {
	entries := []TimeEntry{
		{RegularHours: 8, OvertimeHours: 2},
		{RegularHours: 8, DoubleHours: 1},
	}

	totals := SettlementAmounts(entries, decimal.NewFromInt(25), decimal.RequireFromString("50"))

	if totals.RegularHours != 16 || totals.OvertimeHours != 2 || totals.DoubleHours != 1 {
		t.Fatalf("unexpected hour totals: %+v", totals)
	}
	if !totals.RegularAmount.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected regular 400, got %s", totals.RegularAmount)
	}
	if !totals.OvertimeAmount.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected overtime 75, got %s", totals.OvertimeAmount)
	}
	if !totals.DoubleAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected double 50, got %s", totals.DoubleAmount)
	}
	if !totals.TotalAmount.Equal(decimal.NewFromInt(475)) {
		t.Fatalf("expected total 475 after deductions, got %s", totals.TotalAmount)
	}
}

func TestSettlementAmountsTiersAddUpToTotal(t *testing.T) {
	entries := []TimeEntry{{RegularHours: 7.3, OvertimeHours: 1.7, DoubleHours: 0.4}}
	rate := decimal.RequireFromString("41.67")

	totals := SettlementAmounts(entries, rate, decimal.Zero)

	sum := totals.RegularAmount.Add(totals.OvertimeAmount).Add(totals.DoubleAmount)
	if !sum.Equal(totals.TotalAmount) {
		t.Fatalf("tier amounts %s do not add up to total %s", sum, totals.TotalAmount)
	}
}

func TestTotalLaborCostExcludesUnpricedEmployees(t *testing.T) {
	entries := []TimeEntry{
		{EmployeeID: "e1", RegularHours: 8},
		{EmployeeID: "e2", RegularHours: 8},
		{EmployeeID: "e1", RegularHours: 4},
	}
	rateFor := func(entry TimeEntry) (decimal.Decimal, error) {
		if entry.EmployeeID == "e2" {
			return decimal.Zero, rates.ErrRateNotConfigured
		}
		return decimal.NewFromInt(10), nil
	}

	cost, err := TotalLaborCost(entries, rateFor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cost.Total.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected 120, got %s", cost.Total)
	}
	if !cost.Partial {
		t.Fatal("expected the total to be marked partial")
	}
	if len(cost.ExcludedEmployees) != 1 || cost.ExcludedEmployees[0] != "e2" {
		t.Fatalf("expected e2 excluded, got %v", cost.ExcludedEmployees)
	}
}

func TestTotalLaborCostPropagatesUnexpectedErrors(t *testing.T) {
	boom := errors.New("db down")
	rateFor := func(TimeEntry) (decimal.Decimal, error) { return decimal.Zero, boom }

	_, err := TotalLaborCost([]TimeEntry{{EmployeeID: "e1", RegularHours: 1}}, rateFor)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the rate error to propagate, got %v", err)
	}
}

func TestTotalLaborCostEmptyEntries(t *testing.T) {
	cost, err := TotalLaborCost(nil, func(TimeEntry) (decimal.Decimal, error) {
		t.Fatal("rate func must not be called")
		return decimal.Zero, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cost.Total.IsZero() || cost.Partial {
		t.Fatalf("expected zero non-partial cost, got %+v", cost)
	}
}
