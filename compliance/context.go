package compliance

import (
	"time"
)

// DebtDetails holds the financial facts of the debt a letter demands payment
// for. Amounts are dollars; Interest and Fees are zero when not assessed.
type DebtDetails struct {
	Principal        float64   `json:"principal"`
	Interest         float64   `json:"interest"`
	Fees             float64   `json:"fees"`
	OriginDate       time.Time `json:"origin_date"`
	CreditorName     string    `json:"creditor_name"`
	OriginalCreditor string    `json:"original_creditor,omitempty"` // empty when same as CreditorName
	AccountNumber    string    `json:"account_number,omitempty"`
}

// TotalOwed returns the full amount demanded: principal plus any accrued
// interest and collection fees.
func (d DebtDetails) TotalOwed() float64 {
	return d.Principal + d.Interest + d.Fees
}

// Context is the immutable input to every compliance check: the governing
// jurisdiction and the debt the letter concerns. It is constructed once per
// validation run and never mutated.
type Context struct {
	StateCode string      `json:"state_code"`
	Debt      DebtDetails `json:"debt"`
}
