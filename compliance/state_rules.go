package compliance

import (
	"strings"
)

// StateRule is per-jurisdiction reference data for consumer-debt collection:
// the statute-of-limitations period for written contracts, whether the state
// mandates a time-barred debt disclosure, and any exact sentence fragments
// state law requires the disclosure to contain.
//
// Rules are reference data loaded once at startup; they are never mutated.
type StateRule struct {
	Code                         string   `json:"code"`
	Name                         string   `json:"name"`
	StatuteOfLimitationsYears    int      `json:"statute_of_limitations_years"`
	RequiresTimeBarredDisclosure bool     `json:"requires_time_barred_disclosure"`
	DisclosureRequirements       []string `json:"disclosure_requirements,omitempty"`
	MandatedSentences            []string `json:"mandated_sentences,omitempty"`
}

// fallbackStatuteYears is used for unrecognized jurisdiction codes. It is the
// longest period in the table, so an unknown state never flags a debt as
// time-barred earlier than any supported state would.
const fallbackStatuteYears = 10

// stateRules is the supported-state table. SOL periods are for written
// contracts, the instrument type behind nearly all consumer credit.
var stateRules = []StateRule{
	{Code: "AZ", Name: "Arizona", StatuteOfLimitationsYears: 6},
	{Code: "CA", Name: "California", StatuteOfLimitationsYears: 4,
		RequiresTimeBarredDisclosure: true,
		DisclosureRequirements:       []string{"Rosenthal Act time-barred debt notice"},
		MandatedSentences: []string{
			"The law limits how long you can be sued on a debt.",
			"we will not sue you for it",
		}},
	{Code: "CO", Name: "Colorado", StatuteOfLimitationsYears: 6},
	{Code: "CT", Name: "Connecticut", StatuteOfLimitationsYears: 6},
	{Code: "FL", Name: "Florida", StatuteOfLimitationsYears: 5},
	{Code: "GA", Name: "Georgia", StatuteOfLimitationsYears: 6},
	{Code: "IL", Name: "Illinois", StatuteOfLimitationsYears: 10},
	{Code: "IN", Name: "Indiana", StatuteOfLimitationsYears: 6},
	{Code: "MA", Name: "Massachusetts", StatuteOfLimitationsYears: 6,
		RequiresTimeBarredDisclosure: true,
		DisclosureRequirements:       []string{"940 CMR 7.07(24) time-barred debt notice"}},
	{Code: "MI", Name: "Michigan", StatuteOfLimitationsYears: 6},
	{Code: "MN", Name: "Minnesota", StatuteOfLimitationsYears: 6},
	{Code: "MO", Name: "Missouri", StatuteOfLimitationsYears: 10},
	{Code: "NC", Name: "North Carolina", StatuteOfLimitationsYears: 3,
		RequiresTimeBarredDisclosure: true},
	{Code: "NJ", Name: "New Jersey", StatuteOfLimitationsYears: 6},
	{Code: "NM", Name: "New Mexico", StatuteOfLimitationsYears: 6,
		RequiresTimeBarredDisclosure: true},
	{Code: "NY", Name: "New York", StatuteOfLimitationsYears: 3,
		RequiresTimeBarredDisclosure: true,
		DisclosureRequirements:       []string{"23 NYCRR 1 statute of limitations notice"},
		MandatedSentences: []string{
			"The statute of limitations on this debt may have expired, and we cannot sue you to collect it.",
		}},
	{Code: "OH", Name: "Ohio", StatuteOfLimitationsYears: 6},
	{Code: "OR", Name: "Oregon", StatuteOfLimitationsYears: 6},
	{Code: "PA", Name: "Pennsylvania", StatuteOfLimitationsYears: 4},
	{Code: "TX", Name: "Texas", StatuteOfLimitationsYears: 4,
		RequiresTimeBarredDisclosure: true,
		DisclosureRequirements:       []string{"Tex. Fin. Code § 392.307 time-barred debt notice"},
		MandatedSentences: []string{
			"The law limits how long you can be sued on a debt.",
		}},
	{Code: "UT", Name: "Utah", StatuteOfLimitationsYears: 6},
	{Code: "VA", Name: "Virginia", StatuteOfLimitationsYears: 5},
	{Code: "WA", Name: "Washington", StatuteOfLimitationsYears: 6,
		RequiresTimeBarredDisclosure: true},
	{Code: "WI", Name: "Wisconsin", StatuteOfLimitationsYears: 6,
		RequiresTimeBarredDisclosure: true},
	{Code: "WV", Name: "West Virginia", StatuteOfLimitationsYears: 10},
}

// StateRuleTable is an immutable lookup over the per-state rules. Build it
// once at startup and share it freely; it is safe for concurrent use.
type StateRuleTable struct {
	rules map[string]StateRule
}

// NewStateRuleTable builds the lookup table from the static state rules.
func NewStateRuleTable() *StateRuleTable {
	t := &StateRuleTable{rules: make(map[string]StateRule, len(stateRules))}
	for _, r := range stateRules {
		t.rules[r.Code] = r
	}
	return t
}

// Rule returns the rule for a state code, case-insensitively. ok is false for
// unsupported jurisdictions; callers fall back to generic behavior rather
// than treating that as an error.
func (t *StateRuleTable) Rule(stateCode string) (StateRule, bool) {
	r, ok := t.rules[strings.ToUpper(strings.TrimSpace(stateCode))]
	return r, ok
}

// StatuteOfLimitations returns the SOL period in years for a state, or the
// most conservative known period when the state is unrecognized. It never
// fails: a malformed jurisdiction code must not break the compliance
// pipeline.
func (t *StateRuleTable) StatuteOfLimitations(stateCode string) int {
	if r, ok := t.Rule(stateCode); ok {
		return r.StatuteOfLimitationsYears
	}
	return fallbackStatuteYears
}

// RequiresTimeBarredDisclosure reports whether the state mandates a
// time-barred debt disclosure. This is independent of whether a particular
// debt actually is time-barred; callers combine it with the time-bar
// analyzer. Unknown states default to false.
func (t *StateRuleTable) RequiresTimeBarredDisclosure(stateCode string) bool {
	r, ok := t.Rule(stateCode)
	return ok && r.RequiresTimeBarredDisclosure
}
