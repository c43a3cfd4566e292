package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectFinancials combines completion value with labor and expense cost.
// Partial mirrors the labor figure: when employees without a configured rate
// were excluded, every derived number here understates cost and the report
// says so instead of passing silently corrupted profit along.
type ProjectFinancials struct {
	ProjectID         string          `json:"projectId"`
	ContractValue     decimal.Decimal `json:"contractValue"`
	CompletedValue    decimal.Decimal `json:"completedValue"`
	CompletionPct     float64         `json:"completionPct"`
	LaborCost         decimal.Decimal `json:"laborCost"`
	ExpenseCost       decimal.Decimal `json:"expenseCost"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	Profit            decimal.Decimal `json:"profit"`
	ProfitMargin      float64         `json:"profitMargin"`
	Partial           bool            `json:"partial"`
	ExcludedEmployees []string        `json:"excludedEmployees,omitempty"`
}

// ProjectedFinancials extrapolates cost to completion. Projected figures are
// undefined until some completion is recorded; Valid marks that.
type ProjectedFinancials struct {
	ProjectFinancials
	Valid              bool            `json:"projectionValid"`
	ProjectedTotalCost decimal.Decimal `json:"projectedTotalCost"`
	ProjectedProfit    decimal.Decimal `json:"projectedProfit"`
	ProjectedMargin    float64         `json:"projectedMargin"`
}

// TrendPoint is one calendar-month bucket of project cost. CumulativeCost is
// the running total across the chronologically ordered series.
type TrendPoint struct {
	Year           int             `json:"year"`
	Month          time.Month      `json:"month"`
	LaborCost      decimal.Decimal `json:"laborCost"`
	ExpenseCost    decimal.Decimal `json:"expenseCost"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	CumulativeCost decimal.Decimal `json:"cumulativeCost"`
	Partial        bool            `json:"partial,omitempty"`
}
