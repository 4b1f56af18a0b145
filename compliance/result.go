package compliance

import (
	"time"
)

// Check IDs, stable across releases. The UI and the disclosure generator key
// off these, so they must never be renamed.
const (
	CheckMiniMiranda          = "mini_miranda"
	CheckValidationNotice     = "validation_notice"
	CheckDebtAmount           = "debt_amount"
	CheckCreditorIdentity     = "creditor_identification"
	CheckTimeBarredDisclosure = "time_barred_disclosure"
)

// Requirement classifies when a check gates the aggregate verdict. Making the
// conditional case an explicit variant keeps "required" decisions testable
// instead of buried in control flow.
type Requirement int

const (
	// AlwaysRequired checks gate every validation run.
	AlwaysRequired Requirement = iota
	// RequiredIfTimeBarred checks gate only when the debt is past the
	// jurisdiction's statute of limitations and the state mandates disclosure.
	RequiredIfTimeBarred
	// NeverRequired checks are advisory only.
	NeverRequired
)

// CheckResult is the verdict of a single compliance check over a letter body.
type CheckResult struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Citation string `json:"citation"`
	Passed   bool   `json:"passed"`
	// Required reports whether this check gates the aggregate verdict for the
	// validated context. Checks with Required=false never fail the gate even
	// when Passed=false.
	Required    bool   `json:"required"`
	Details     string `json:"details"`
	Suggestion  string `json:"suggestion,omitempty"`
	MatchedText string `json:"matched_text,omitempty"`
	// Warning carries a non-gating advisory (missing itemization, absent
	// revival warning, unmentioned original creditor). Collected into
	// Result.Warnings by the validator.
	Warning string `json:"warning,omitempty"`
}

// Result is the aggregate outcome of one validation run. It is created fresh
// on every call and never persisted by this package; callers decide whether
// and how to store it.
type Result struct {
	// IsCompliant is true iff every required check passed.
	IsCompliant bool `json:"is_compliant"`
	// Score is the percentage of required checks that passed, 0-100.
	// Non-required checks do not enter the denominator.
	Score               float64       `json:"score"`
	Checks              []CheckResult `json:"checks"`
	MissingRequirements []string      `json:"missing_requirements"`
	Warnings            []string      `json:"warnings"`
	Suggestions         []string      `json:"suggestions"`
	ValidatedAt         time.Time     `json:"validated_at"`
}
