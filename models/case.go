package models

import (
	"time"

	"github.com/google/uuid"
)

// CaseStatus represents the status of a collection case
type CaseStatus string

const (
	CaseStatusOpen     CaseStatus = "open"
	CaseStatusActive   CaseStatus = "active"
	CaseStatusSettled  CaseStatus = "settled"
	CaseStatusClosed   CaseStatus = "closed"
	CaseStatusArchived CaseStatus = "archived"
)

// CollectionCase represents a debt-collection matter handled by the firm
type CollectionCase struct {
	ID     uuid.UUID  `json:"id"`
	UserID uuid.UUID  `json:"user_id"`
	Status CaseStatus `json:"status"`

	// Debtor
	DebtorName    string  `json:"debtor_name"`
	DebtorAddress *string `json:"debtor_address,omitempty"`
	StateCode     string  `json:"state_code"`

	// Creditor
	CreditorName     string  `json:"creditor_name"`
	OriginalCreditor *string `json:"original_creditor,omitempty"`
	AccountNumber    *string `json:"account_number,omitempty"`

	// Debt
	PrincipalAmount float64   `json:"principal_amount"`
	InterestAmount  float64   `json:"interest_amount"`
	FeesAmount      float64   `json:"fees_amount"`
	DebtOriginDate  time.Time `json:"debt_origin_date"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// TotalOwed returns the full balance on the case.
func (c *CollectionCase) TotalOwed() float64 {
	return c.PrincipalAmount + c.InterestAmount + c.FeesAmount
}
