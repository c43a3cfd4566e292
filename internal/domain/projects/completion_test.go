package projects

import (
	"testing"

	"github.com/shopspring/decimal"
)

func buildTree(value string, lines ...QuantityLine) Tree {
	return Tree{
		Project: Project{ID: "pr1", Value: decimal.RequireFromString(value)},
		Scopes: []ScopeNode{{
			Scope: Scope{ID: "s1", Name: "Structure"},
			SubScopes: []SubScopeNode{{
				SubScope: SubScope{ID: "ss1", Name: "Foundations"},
				Lines:    lines,
			}},
		}},
	}
}

func TestRollupSumsQuantitiesAndValues(t *testing.T) {
	tree := buildTree("1050",
		QuantityLine{
			Quantity:  WorkItemQuantity{ID: "q1", WorkItemID: "w1", Quantity: 100, Completed: 50},
			UnitPrice: decimal.NewFromInt(10),
		},
		QuantityLine{
			Quantity:  WorkItemQuantity{ID: "q2", WorkItemID: "w2", Quantity: 40, Completed: 20},
			UnitPrice: decimal.NewFromInt(10),
		},
	)

	result := Rollup(tree)

	if result.Quantity != 140 || result.Completed != 70 {
		t.Fatalf("expected 70/140, got %v/%v", result.Completed, result.Quantity)
	}
	if result.QuantityCompletionPct != 50 {
		t.Fatalf("expected 50%% quantity completion, got %v", result.QuantityCompletionPct)
	}
	if !result.CompletedValue.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("expected completed value 700, got %s", result.CompletedValue)
	}
	if diff := result.ValueCompletionPct - 66.666666; diff < -0.01 || diff > 0.01 {
		t.Fatalf("expected ~66.67%% value completion, got %v", result.ValueCompletionPct)
	}
}

func TestRollupSumsNotAverages(t *testing.T) {
	// A tiny 100%-complete line next to a large 0%-complete one. Averaging
	// percentages would report 50%; summing quantities reports ~1%.
	tree := buildTree("0",
		QuantityLine{
			Quantity:  WorkItemQuantity{ID: "q1", WorkItemID: "w1", Quantity: 1, Completed: 1},
			UnitPrice: decimal.Zero,
		},
		QuantityLine{
			Quantity:  WorkItemQuantity{ID: "q2", WorkItemID: "w2", Quantity: 99, Completed: 0},
			UnitPrice: decimal.Zero,
		},
	)

	result := Rollup(tree)

	if result.QuantityCompletionPct != 1 {
		t.Fatalf("expected 1%%, got %v", result.QuantityCompletionPct)
	}
}

func TestRollupZeroQuantityIsZeroPercent(t *testing.T) {
	tree := buildTree("1000")

	result := Rollup(tree)

	if result.QuantityCompletionPct != 0 || result.ValueCompletionPct != 0 {
		t.Fatalf("expected 0%% on an empty tree, got %+v", result)
	}
	if !result.CompletedValue.IsZero() {
		t.Fatalf("expected zero completed value, got %s", result.CompletedValue)
	}
}

func TestRollupZeroProjectValueSkipsValuePct(t *testing.T) {
	tree := buildTree("0",
		QuantityLine{
			Quantity:  WorkItemQuantity{ID: "q1", WorkItemID: "w1", Quantity: 10, Completed: 10},
			UnitPrice: decimal.NewFromInt(5),
		},
	)

	result := Rollup(tree)

	if result.ValueCompletionPct != 0 {
		t.Fatalf("expected 0%% value completion for a zero-value project, got %v", result.ValueCompletionPct)
	}
	if !result.CompletedValue.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected completed value 50, got %s", result.CompletedValue)
	}
}

func TestRollupOverCompleteRowsPassThrough(t *testing.T) {
	// The write boundary rejects completed > quantity; rows that slipped past
	// it roll through rather than being clamped, so the report shows the
	// inconsistency instead of hiding it.
	tree := buildTree("100",
		QuantityLine{
			Quantity:  WorkItemQuantity{ID: "q1", WorkItemID: "w1", Quantity: 10, Completed: 12},
			UnitPrice: decimal.NewFromInt(10),
		},
	)

	result := Rollup(tree)

	if result.QuantityCompletionPct != 120 {
		t.Fatalf("expected 120%%, got %v", result.QuantityCompletionPct)
	}
	if !result.CompletedValue.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected completed value 120, got %s", result.CompletedValue)
	}
}

func TestRollupProgressNeverDecreasesFigures(t *testing.T) {
	tree := buildTree("1050",
		QuantityLine{
			Quantity:  WorkItemQuantity{ID: "q1", WorkItemID: "w1", Quantity: 100, Completed: 50},
			UnitPrice: decimal.NewFromInt(10),
		},
		QuantityLine{
			Quantity:  WorkItemQuantity{ID: "q2", WorkItemID: "w2", Quantity: 40, Completed: 20},
			UnitPrice: decimal.NewFromInt(10),
		},
	)
	before := Rollup(tree)

	// Walk one line's Completed up to its Quantity; every step must leave both
	// the quantity percentage and the monetary figure at or above the last.
	for completed := 21.0; completed <= 40; completed++ {
		tree.Scopes[0].SubScopes[0].Lines[1].Quantity.Completed = completed
		after := Rollup(tree)

		if after.QuantityCompletionPct < before.QuantityCompletionPct {
			t.Fatalf("quantity pct decreased from %v to %v at completed=%v",
				before.QuantityCompletionPct, after.QuantityCompletionPct, completed)
		}
		if after.CompletedValue.LessThan(before.CompletedValue) {
			t.Fatalf("completed value decreased from %s to %s at completed=%v",
				before.CompletedValue, after.CompletedValue, completed)
		}
		if after.ValueCompletionPct < before.ValueCompletionPct {
			t.Fatalf("value pct decreased from %v to %v at completed=%v",
				before.ValueCompletionPct, after.ValueCompletionPct, completed)
		}
		before = after
	}
}

func TestRollupIntermediateLevels(t *testing.T) {
	tree := Tree{
		Project: Project{ID: "pr1", Value: decimal.NewFromInt(1000)},
		Scopes: []ScopeNode{
			{
				Scope: Scope{ID: "s1", Name: "Structure"},
				SubScopes: []SubScopeNode{
					{
						SubScope: SubScope{ID: "ss1", Name: "Foundations"},
						Lines: []QuantityLine{{
							Quantity:  WorkItemQuantity{ID: "q1", WorkItemID: "w1", Quantity: 50, Completed: 25},
							UnitPrice: decimal.NewFromInt(4),
						}},
					},
					{
						SubScope: SubScope{ID: "ss2", Name: "Columns"},
						Lines: []QuantityLine{{
							Quantity:  WorkItemQuantity{ID: "q2", WorkItemID: "w1", Quantity: 50, Completed: 50},
							UnitPrice: decimal.NewFromInt(4),
						}},
					},
				},
			},
			{
				Scope: Scope{ID: "s2", Name: "Finishes"},
			},
		},
	}

	result := Rollup(tree)

	if len(result.Scopes) != 2 {
		t.Fatalf("expected 2 scopes, got %d", len(result.Scopes))
	}

	structure := result.Scopes[0]
	if structure.CompletionPct != 75 {
		t.Fatalf("expected scope at 75%%, got %v", structure.CompletionPct)
	}
	if structure.SubScopes[0].CompletionPct != 50 || structure.SubScopes[1].CompletionPct != 100 {
		t.Fatalf("unexpected sub-scope percentages: %+v", structure.SubScopes)
	}
	if !structure.CompletedValue.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected scope value 300, got %s", structure.CompletedValue)
	}

	if result.Scopes[1].CompletionPct != 0 {
		t.Fatalf("expected empty scope at 0%%, got %v", result.Scopes[1].CompletionPct)
	}
}
