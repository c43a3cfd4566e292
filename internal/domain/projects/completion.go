package projects

import "github.com/shopspring/decimal"

// Completion figures are rolled up bottom-up by summing quantities, never by
// averaging percentages, so small sub-scopes cannot skew their parents. The
// monetary figure (completed x unit price) is carried independently of the
// quantity percentage because work items have heterogeneous unit prices.

type LineCompletion struct {
	QuantityID    string          `json:"quantityId"`
	WorkItemID    string          `json:"workItemId"`
	Quantity      float64         `json:"quantity"`
	Completed     float64         `json:"completed"`
	CompletionPct float64         `json:"completionPct"`
	Value         decimal.Decimal `json:"value"`
}

type SubScopeCompletion struct {
	SubScopeID     string           `json:"subScopeId"`
	Name           string           `json:"name"`
	Quantity       float64          `json:"quantity"`
	Completed      float64          `json:"completed"`
	CompletionPct  float64          `json:"completionPct"`
	CompletedValue decimal.Decimal  `json:"completedValue"`
	Lines          []LineCompletion `json:"lines"`
}

type ScopeCompletion struct {
	ScopeID        string               `json:"scopeId"`
	Name           string               `json:"name"`
	Quantity       float64              `json:"quantity"`
	Completed      float64              `json:"completed"`
	CompletionPct  float64              `json:"completionPct"`
	CompletedValue decimal.Decimal      `json:"completedValue"`
	SubScopes      []SubScopeCompletion `json:"subScopes"`
}

type ProjectCompletion struct {
	ProjectID             string            `json:"projectId"`
	Quantity              float64           `json:"quantity"`
	Completed             float64           `json:"completed"`
	QuantityCompletionPct float64           `json:"quantityCompletionPct"`
	CompletedValue        decimal.Decimal   `json:"completedValue"`
	ValueCompletionPct    float64           `json:"valueCompletionPct"`
	Scopes                []ScopeCompletion `json:"scopes"`
}

// Rollup computes completion for a loaded project tree. It trusts the write
// boundary's completed <= quantity invariant; rows that violate it upstream
// roll through and can push percentages past 100.
func Rollup(tree Tree) ProjectCompletion {
	result := ProjectCompletion{
		ProjectID:      tree.Project.ID,
		CompletedValue: decimal.Zero,
	}

	for _, scopeNode := range tree.Scopes {
		scope := ScopeCompletion{
			ScopeID:        scopeNode.Scope.ID,
			Name:           scopeNode.Scope.Name,
			CompletedValue: decimal.Zero,
		}

		for _, subNode := range scopeNode.SubScopes {
			sub := SubScopeCompletion{
				SubScopeID:     subNode.SubScope.ID,
				Name:           subNode.SubScope.Name,
				CompletedValue: decimal.Zero,
			}

			for _, line := range subNode.Lines {
				value := decimal.NewFromFloat(line.Quantity.Completed).Mul(line.UnitPrice).Round(2)
				sub.Lines = append(sub.Lines, LineCompletion{
					QuantityID:    line.Quantity.ID,
					WorkItemID:    line.Quantity.WorkItemID,
					Quantity:      line.Quantity.Quantity,
					Completed:     line.Quantity.Completed,
					CompletionPct: completionPct(line.Quantity.Completed, line.Quantity.Quantity),
					Value:         value,
				})
				sub.Quantity += line.Quantity.Quantity
				sub.Completed += line.Quantity.Completed
				sub.CompletedValue = sub.CompletedValue.Add(value)
			}
			sub.CompletionPct = completionPct(sub.Completed, sub.Quantity)

			scope.Quantity += sub.Quantity
			scope.Completed += sub.Completed
			scope.CompletedValue = scope.CompletedValue.Add(sub.CompletedValue)
			scope.SubScopes = append(scope.SubScopes, sub)
		}
		scope.CompletionPct = completionPct(scope.Completed, scope.Quantity)

		result.Quantity += scope.Quantity
		result.Completed += scope.Completed
		result.CompletedValue = result.CompletedValue.Add(scope.CompletedValue)
		result.Scopes = append(result.Scopes, scope)
	}

	result.QuantityCompletionPct = completionPct(result.Completed, result.Quantity)
	if tree.Project.Value.IsPositive() {
		pct, _ := result.CompletedValue.Div(tree.Project.Value).Mul(decimal.NewFromInt(100)).Float64()
		result.ValueCompletionPct = pct
	}
	return result
}

func completionPct(completed, quantity float64) float64 {
	if quantity <= 0 {
		return 0
	}
	return completed / quantity * 100
}
