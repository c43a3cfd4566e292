package finance

import (
	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/labor"
	"github.com/xpertfs/xpert-app-backend/internal/domain/projects"
)

var hundred = decimal.NewFromInt(100)

// Compute derives the profit figures from their three inputs. Completed value
// (completed quantity x unit price) is the authoritative earned figure;
// profit is measured against it, not against the contract value.
func Compute(completion projects.ProjectCompletion, contractValue decimal.Decimal, laborCost labor.LaborCost, expenseCost decimal.Decimal) ProjectFinancials {
	totalCost := laborCost.Total.Add(expenseCost)
	profit := completion.CompletedValue.Sub(totalCost)

	margin := float64(0)
	if completion.CompletedValue.IsPositive() {
		margin, _ = profit.Div(completion.CompletedValue).Mul(hundred).Float64()
	}

	return ProjectFinancials{
		ProjectID:         completion.ProjectID,
		ContractValue:     contractValue,
		CompletedValue:    completion.CompletedValue,
		CompletionPct:     completion.ValueCompletionPct,
		LaborCost:         laborCost.Total,
		ExpenseCost:       expenseCost,
		TotalCost:         totalCost,
		Profit:            profit,
		ProfitMargin:      margin,
		Partial:           laborCost.Partial,
		ExcludedEmployees: laborCost.ExcludedEmployees,
	}
}

// Project extrapolates total cost to 100% completion by scaling cost spent so
// far by the completion fraction. With zero completion there is nothing to
// extrapolate from; the projection is marked invalid rather than divided by
// zero.
func Project(financials ProjectFinancials) ProjectedFinancials {
	projected := ProjectedFinancials{ProjectFinancials: financials}
	if financials.CompletionPct <= 0 {
		return projected
	}

	fraction := decimal.NewFromFloat(financials.CompletionPct).Div(hundred)
	projected.Valid = true
	projected.ProjectedTotalCost = financials.TotalCost.Div(fraction).Round(2)
	projected.ProjectedProfit = financials.ContractValue.Sub(projected.ProjectedTotalCost)
	if financials.ContractValue.IsPositive() {
		projected.ProjectedMargin, _ = projected.ProjectedProfit.Div(financials.ContractValue).Mul(hundred).Float64()
	}
	return projected
}
