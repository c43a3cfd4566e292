package expenses

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"companyId"`
	ProjectID   string          `json:"projectId,omitempty"`
	VendorID    string          `json:"vendorId,omitempty"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Filter: equality on project, vendor and category; Date range inclusive.
type Filter struct {
	ProjectID string
	VendorID  string
	Category  string
	From      time.Time
	To        time.Time
}
