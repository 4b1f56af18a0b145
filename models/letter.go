package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"debtdraft-backend/compliance"
)

// LetterStatus represents the review-workflow status of a demand letter
type LetterStatus string

const (
	LetterStatusDraft         LetterStatus = "draft"
	LetterStatusPendingReview LetterStatus = "pending_review"
	LetterStatusApproved      LetterStatus = "approved"
	LetterStatusRejected      LetterStatus = "rejected"
	LetterStatusSent          LetterStatus = "sent"
)

// ComplianceReport wraps a compliance validation result for JSONB storage
type ComplianceReport compliance.Result

// Value implements driver.Valuer for JSONB
func (r ComplianceReport) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *ComplianceReport) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// DemandLetter represents one generated version of a collection letter
type DemandLetter struct {
	ID      uuid.UUID    `json:"id"`
	CaseID  uuid.UUID    `json:"case_id"`
	Version int          `json:"version"`
	Status  LetterStatus `json:"status"`

	Body               string            `json:"body"`
	RefineInstructions *string           `json:"refine_instructions,omitempty"`
	ComplianceScore    *float64          `json:"compliance_score,omitempty"`
	ComplianceReport   *ComplianceReport `json:"compliance_report,omitempty"`

	ReviewedBy    *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewComment *string    `json:"review_comment,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}
