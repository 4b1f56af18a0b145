package compliance

import (
	"time"
)

// Validator runs the full set of compliance checks over a letter body and
// aggregates their verdicts. It holds only immutable reference data and is
// safe for concurrent use; every call produces an independent Result.
type Validator struct {
	rules   *StateRuleTable
	timebar *TimeBarAnalyzer
	now     func() time.Time
}

// NewValidator creates a validator backed by the given state rule table.
func NewValidator(rules *StateRuleTable) *Validator {
	return &Validator{
		rules:   rules,
		timebar: NewTimeBarAnalyzer(rules),
		now:     time.Now,
	}
}

// Validate inspects a letter body against every compliance check and returns
// the aggregate result. Checks run in a fixed order (Mini-Miranda, validation
// notice, debt amount, creditor identification, time-barred disclosure) so
// that result ordering is stable for the UI and for test assertions. The
// time-barred check always runs and determines its own applicability.
//
// Malformed content (empty, non-English) degrades to failed checks with
// explanations; Validate itself never fabricates a verdict. A panic from a
// check is a programming defect and is allowed to propagate.
func (v *Validator) Validate(content string, ctx Context) Result {
	checks := []CheckResult{
		v.checkMiniMiranda(content, ctx),
		v.checkValidationNotice(content, ctx),
		v.checkDebtAmount(content, ctx),
		v.checkCreditorIdentification(content, ctx),
		v.checkTimeBarredDisclosure(content, ctx),
	}

	requiredTotal := 0
	requiredPassed := 0
	missing := make([]string, 0)
	warnings := make([]string, 0)
	suggestions := make([]string, 0)
	seenSuggestions := make(map[string]bool)

	for _, c := range checks {
		if c.Required {
			requiredTotal++
			if c.Passed {
				requiredPassed++
			} else {
				missing = append(missing, c.Name)
			}
		}
		if !c.Passed && c.Suggestion != "" && !seenSuggestions[c.Suggestion] {
			seenSuggestions[c.Suggestion] = true
			suggestions = append(suggestions, c.Suggestion)
		}
		if c.Warning != "" {
			warnings = append(warnings, c.Warning)
		}
	}

	score := 100.0
	if requiredTotal > 0 {
		score = 100 * float64(requiredPassed) / float64(requiredTotal)
	}

	return Result{
		IsCompliant:         requiredPassed == requiredTotal,
		Score:               score,
		Checks:              checks,
		MissingRequirements: missing,
		Warnings:            warnings,
		Suggestions:         suggestions,
		ValidatedAt:         v.now(),
	}
}

// RequirementFor reports how a check gates validation for a given context.
// The time-barred disclosure is the only conditionally required check.
func (v *Validator) RequirementFor(checkID string, ctx Context) Requirement {
	switch checkID {
	case CheckTimeBarredDisclosure:
		return RequiredIfTimeBarred
	case CheckMiniMiranda, CheckValidationNotice, CheckDebtAmount, CheckCreditorIdentity:
		return AlwaysRequired
	default:
		return NeverRequired
	}
}

// Applies resolves a Requirement against a concrete context.
func (v *Validator) Applies(r Requirement, ctx Context) bool {
	switch r {
	case AlwaysRequired:
		return true
	case RequiredIfTimeBarred:
		return v.timebar.IsDebtTimeBarred(ctx.Debt.OriginDate, ctx.StateCode) &&
			v.rules.RequiresTimeBarredDisclosure(ctx.StateCode)
	default:
		return false
	}
}
