package rates

import (
	"time"

	"github.com/shopspring/decimal"
)

type UnionClass struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// BaseRate is one interval of a union class's rate history. The interval is
// half-open on insert (EndDate nil means current) and closed when a successor
// is added. Overtime and double rates are stored, not recomputed, so historic
// payments stay reproducible if the multipliers ever change.
type BaseRate struct {
	ID            string          `json:"id"`
	UnionClassID  string          `json:"unionClassId"`
	RegularRate   decimal.Decimal `json:"regularRate"`
	OvertimeRate  decimal.Decimal `json:"overtimeRate"`
	DoubleRate    decimal.Decimal `json:"doubleRate"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
}

type CustomRate struct {
	ID           string          `json:"id"`
	UnionClassID string          `json:"unionClassId"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Value        decimal.Decimal `json:"value"`
}

const (
	CustomRateFlat    = "flat"
	CustomRatePercent = "percent"
)
