package labor

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/rates"
)

var (
	overtimeMultiplier = decimal.NewFromFloat(1.5)
	doubleMultiplier   = decimal.NewFromInt(2)
)

// EntryCost prices one time entry at the given hourly rate:
// regular + overtime at 1.5x + double time at 2x, rounded to cents.
// Hours are assumed non-negative; the API boundary rejects negatives.
func EntryCost(entry TimeEntry, rate decimal.Decimal) decimal.Decimal {
	regular := decimal.NewFromFloat(entry.RegularHours).Mul(rate)
	overtime := decimal.NewFromFloat(entry.OvertimeHours).Mul(rate).Mul(overtimeMultiplier)
	double := decimal.NewFromFloat(entry.DoubleHours).Mul(rate).Mul(doubleMultiplier)
	return regular.Add(overtime).Add(double).Round(2)
}

// RateFunc returns the hourly rate for an entry's employee. It may return
// rates.ErrRateNotConfigured, which excludes the employee instead of
// contributing a silent zero.
type RateFunc func(entry TimeEntry) (decimal.Decimal, error)

// LaborCost is a labor total plus a partial-report marker: when employees had
// no configured rate their hours are left out and listed here, so report
// consumers can see the figure is incomplete.
type LaborCost struct {
	Total             decimal.Decimal `json:"total"`
	Partial           bool            `json:"partial"`
	ExcludedEmployees []string        `json:"excludedEmployees,omitempty"`
}

func TotalLaborCost(entries []TimeEntry, rateFor RateFunc) (LaborCost, error) {
	total := decimal.Zero
	excluded := map[string]struct{}{}

	for _, entry := range entries {
		rate, err := rateFor(entry)
		if errors.Is(err, rates.ErrRateNotConfigured) {
			excluded[entry.EmployeeID] = struct{}{}
			continue
		}
		if err != nil {
			return LaborCost{}, err
		}
		total = total.Add(EntryCost(entry, rate))
	}

	cost := LaborCost{Total: total, Partial: len(excluded) > 0}
	for employeeID := range excluded {
		cost.ExcludedEmployees = append(cost.ExcludedEmployees, employeeID)
	}
	sort.Strings(cost.ExcludedEmployees)
	return cost, nil
}

// costingDate is the as-of date used when pricing hours for reports. Reports
// have always priced historical hours at the current rate rather than the
// rate in force on each entry's date; if that policy ever changes, change it
// here and nowhere else.
func costingDate() time.Time {
	return time.Now().UTC()
}

// SettlementTotals is the priced summary of a settlement batch.
type SettlementTotals struct {
	RegularHours   float64
	OvertimeHours  float64
	DoubleHours    float64
	RegularAmount  decimal.Decimal
	OvertimeAmount decimal.Decimal
	DoubleAmount   decimal.Decimal
	TotalAmount    decimal.Decimal
}

// SettlementAmounts sums the batch hours and prices them at a single rate
// resolved as of the payment date. Each tier is rounded to cents before the
// total so the stored tier amounts always add up to the stored total.
func SettlementAmounts(entries []TimeEntry, rate, deductions decimal.Decimal) SettlementTotals {
	var totals SettlementTotals
	for _, entry := range entries {
		totals.RegularHours += entry.RegularHours
		totals.OvertimeHours += entry.OvertimeHours
		totals.DoubleHours += entry.DoubleHours
	}

	totals.RegularAmount = decimal.NewFromFloat(totals.RegularHours).Mul(rate).Round(2)
	totals.OvertimeAmount = decimal.NewFromFloat(totals.OvertimeHours).Mul(rate).Mul(overtimeMultiplier).Round(2)
	totals.DoubleAmount = decimal.NewFromFloat(totals.DoubleHours).Mul(rate).Mul(doubleMultiplier).Round(2)
	totals.TotalAmount = totals.RegularAmount.Add(totals.OvertimeAmount).Add(totals.DoubleAmount).Sub(deductions)
	return totals
}
