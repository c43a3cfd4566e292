package employees

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"companyId"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Type         string          `json:"type"`
	Rate         decimal.Decimal `json:"rate"`
	UnionClassID string          `json:"unionClassId,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Filter lists the supported query parameters explicitly; equality on Type and
// UnionClassID, tri-state on Active.
type Filter struct {
	Type         string
	UnionClassID string
	Active       *bool
}
