package finance

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/xpertfs/xpert-app-backend/internal/domain/labor"
	"github.com/xpertfs/xpert-app-backend/internal/domain/projects"
)

func TestComputeProfitAgainstCompletedValue(t *testing.T) {
	completion := projects.ProjectCompletion{
		ProjectID:          "pr1",
		CompletedValue:     decimal.NewFromInt(700),
		ValueCompletionPct: 70,
	}
	laborCost := labor.LaborCost{Total: decimal.NewFromInt(300)}

	financials := Compute(completion, decimal.NewFromInt(1000), laborCost, decimal.NewFromInt(100))

	if !financials.TotalCost.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected total cost 400, got %s", financials.TotalCost)
	}
	if !financials.Profit.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected profit 300, got %s", financials.Profit)
	}
	if diff := financials.ProfitMargin - 42.857142; diff < -0.01 || diff > 0.01 {
		t.Fatalf("expected ~42.86%% margin, got %v", financials.ProfitMargin)
	}
	if financials.CompletionPct != 70 {
		t.Fatalf("expected completion carried through, got %v", financials.CompletionPct)
	}
	if financials.Partial {
		t.Fatal("expected a complete report")
	}
}

func TestComputeZeroCompletedValueHasZeroMargin(t *testing.T) {
	completion := projects.ProjectCompletion{ProjectID: "pr1", CompletedValue: decimal.Zero}
	laborCost := labor.LaborCost{Total: decimal.NewFromInt(250)}

	financials := Compute(completion, decimal.NewFromInt(1000), laborCost, decimal.Zero)

	if !financials.Profit.Equal(decimal.NewFromInt(-250)) {
		t.Fatalf("expected profit -250, got %s", financials.Profit)
	}
	if financials.ProfitMargin != 0 {
		t.Fatalf("expected 0 margin with nothing earned, got %v", financials.ProfitMargin)
	}
}

func TestComputeCarriesPartialMarker(t *testing.T) {
	completion := projects.ProjectCompletion{ProjectID: "pr1", CompletedValue: decimal.NewFromInt(100)}
	laborCost := labor.LaborCost{
		Total:             decimal.NewFromInt(50),
		Partial:           true,
		ExcludedEmployees: []string{"e2"},
	}

	financials := Compute(completion, decimal.NewFromInt(1000), laborCost, decimal.Zero)

	if !financials.Partial {
		t.Fatal("expected the partial marker to carry through")
	}
	if len(financials.ExcludedEmployees) != 1 || financials.ExcludedEmployees[0] != "e2" {
		t.Fatalf("expected e2 listed, got %v", financials.ExcludedEmployees)
	}
}

func TestProjectExtrapolatesCostToCompletion(t *testing.T) {
	financials := ProjectFinancials{
		ContractValue: decimal.NewFromInt(1000),
		CompletionPct: 50,
		TotalCost:     decimal.NewFromInt(400),
	}

	projected := Project(financials)

	if !projected.Valid {
		t.Fatal("expected a valid projection at 50% completion")
	}
	if !projected.ProjectedTotalCost.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("expected projected cost 800, got %s", projected.ProjectedTotalCost)
	}
	if !projected.ProjectedProfit.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected projected profit 200, got %s", projected.ProjectedProfit)
	}
	if projected.ProjectedMargin != 20 {
		t.Fatalf("expected 20%% projected margin, got %v", projected.ProjectedMargin)
	}
}

func TestProjectZeroCompletionIsInvalid(t *testing.T) {
	projected := Project(ProjectFinancials{
		ContractValue: decimal.NewFromInt(1000),
		TotalCost:     decimal.NewFromInt(400),
	})

	if projected.Valid {
		t.Fatal("expected no projection without recorded completion")
	}
	if !projected.ProjectedTotalCost.IsZero() {
		t.Fatalf("expected zero projected cost, got %s", projected.ProjectedTotalCost)
	}
}
