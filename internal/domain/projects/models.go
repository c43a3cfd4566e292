package projects

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"companyId"`
	ClientID     string          `json:"clientId"`
	ContractorID string          `json:"contractorId,omitempty"`
	Name         string          `json:"name"`
	Value        decimal.Decimal `json:"value"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type Scope struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
}

type SubScope struct {
	ID      string `json:"id"`
	ScopeID string `json:"scopeId"`
	Name    string `json:"name"`
}

type WorkItem struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"projectId"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// WorkItemQuantity joins a sub-scope with a work item: Quantity is the planned
// total, Completed the reported progress. 0 <= Completed <= Quantity is
// enforced when progress is written, not re-checked by the roll-up.
type WorkItemQuantity struct {
	ID         string  `json:"id"`
	SubScopeID string  `json:"subScopeId"`
	WorkItemID string  `json:"workItemId"`
	Quantity   float64 `json:"quantity"`
	Completed  float64 `json:"completed"`
}

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusOnHold    = "on_hold"
)

type Filter struct {
	ClientID     string
	ContractorID string
	Status       string
}

// Tree is the fully loaded work breakdown of one project, the input to the
// completion roll-up.
type Tree struct {
	Project Project
	Scopes  []ScopeNode
}

type ScopeNode struct {
	Scope     Scope
	SubScopes []SubScopeNode
}

type SubScopeNode struct {
	SubScope SubScope
	Lines    []QuantityLine
}

// QuantityLine pairs a quantity row with its work item's unit price so the
// roll-up never has to look anything up.
type QuantityLine struct {
	Quantity  WorkItemQuantity
	UnitPrice decimal.Decimal
}
