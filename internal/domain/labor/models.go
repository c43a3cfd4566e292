package labor

import (
	"time"

	"github.com/shopspring/decimal"
)

type TimeEntry struct {
	ID            string    `json:"id"`
	CompanyID     string    `json:"companyId"`
	EmployeeID    string    `json:"employeeId"`
	Date          time.Time `json:"date"`
	RegularHours  float64   `json:"regularHours"`
	OvertimeHours float64   `json:"overtimeHours"`
	DoubleHours   float64   `json:"doubleHours"`
	ProjectID     string    `json:"projectId,omitempty"`
	PaymentStatus string    `json:"paymentStatus"`
	PaymentID     string    `json:"paymentId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Payment struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"companyId"`
	EmployeeID     string          `json:"employeeId"`
	PaymentDate    time.Time       `json:"paymentDate"`
	RegularAmount  decimal.Decimal `json:"regularAmount"`
	OvertimeAmount decimal.Decimal `json:"overtimeAmount"`
	DoubleAmount   decimal.Decimal `json:"doubleAmount"`
	Deductions     decimal.Decimal `json:"deductions"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// EntryUpdate carries the mutable fields of a time entry. PaymentStatus is
// accepted so a re-submit of an already paid entry can pass through as a
// no-op instead of tripping the paid-entry lock.
type EntryUpdate struct {
	Date          time.Time
	RegularHours  float64
	OvertimeHours float64
	DoubleHours   float64
	ProjectID     string
	PaymentStatus string
}

// EntryFilter: equality on employee, project and status; Date range is
// inclusive on both ends. Limit 0 means unbounded, which reporting relies on.
type EntryFilter struct {
	EmployeeID       string
	ProjectID        string
	Status           string
	From             time.Time
	To               time.Time
	ExcludeCancelled bool
	Limit            int
	Offset           int
}

type PaymentFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}
