package compliance

import (
	"time"
)

// TimeBarAnalyzer decides whether a debt's age places it past the governing
// statute of limitations. It is stateless apart from its reference data and
// safe for concurrent use.
type TimeBarAnalyzer struct {
	rules *StateRuleTable
	now   func() time.Time // overridable in tests
}

// NewTimeBarAnalyzer creates an analyzer backed by the given rule table.
func NewTimeBarAnalyzer(rules *StateRuleTable) *TimeBarAnalyzer {
	return &TimeBarAnalyzer{
		rules: rules,
		now:   time.Now,
	}
}

// IsDebtTimeBarred reports whether the debt's origin date is at least the
// state's SOL period in the past. The boundary is inclusive: a debt exactly
// as old as the SOL period counts as time-barred. Future and zero origin
// dates are not time-barred.
func (a *TimeBarAnalyzer) IsDebtTimeBarred(originDate time.Time, stateCode string) bool {
	if originDate.IsZero() {
		return false
	}
	years := a.rules.StatuteOfLimitations(stateCode)
	boundary := originDate.AddDate(years, 0, 0)
	return !a.now().Before(boundary)
}
