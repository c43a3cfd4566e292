package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/expenses"
	"github.com/xpertfs/xpert-app-backend/internal/domain/labor"
)

type monthKey struct {
	year  int
	month time.Month
}

// MonthlyTrend buckets costed time entries and expenses into calendar months
// (UTC boundaries) and carries a running cumulative cost through the
// chronologically ordered series. Months with unpriced entries are marked
// partial, same as the headline report.
func MonthlyTrend(entries []labor.CostedEntry, expenseList []expenses.Expense) []TrendPoint {
	buckets := map[monthKey]*TrendPoint{}

	bucketFor := func(t time.Time) *TrendPoint {
		year, month, _ := t.UTC().Date()
		key := monthKey{year: year, month: month}
		point, ok := buckets[key]
		if !ok {
			point = &TrendPoint{
				Year:        year,
				Month:       month,
				LaborCost:   decimal.Zero,
				ExpenseCost: decimal.Zero,
			}
			buckets[key] = point
		}
		return point
	}

	for _, entry := range entries {
		point := bucketFor(entry.Entry.Date)
		if entry.Unpriced {
			point.Partial = true
			continue
		}
		point.LaborCost = point.LaborCost.Add(entry.Cost)
	}
	for _, expense := range expenseList {
		point := bucketFor(expense.Date)
		point.ExpenseCost = point.ExpenseCost.Add(expense.Amount)
	}

	series := make([]TrendPoint, 0, len(buckets))
	for _, point := range buckets {
		point.TotalCost = point.LaborCost.Add(point.ExpenseCost)
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Year != series[j].Year {
			return series[i].Year < series[j].Year
		}
		return series[i].Month < series[j].Month
	})

	cumulative := decimal.Zero
	for i := range series {
		cumulative = cumulative.Add(series[i].TotalCost)
		series[i].CumulativeCost = cumulative
	}
	return series
}
