package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer() *TimeBarAnalyzer {
	a := NewTimeBarAnalyzer(NewStateRuleTable())
	a.now = func() time.Time { return testNow }
	return a
}

func TestIsDebtTimeBarred_Boundary(t *testing.T) {
	a := newTestAnalyzer()

	// California SOL is 4 years.
	tests := []struct {
		name   string
		origin time.Time
		want   bool
	}{
		{"four years and one day old", time.Date(2021, time.June, 14, 12, 0, 0, 0, time.UTC), true},
		{"exactly four years old", time.Date(2021, time.June, 15, 12, 0, 0, 0, time.UTC), true},
		{"three years 364 days old", time.Date(2021, time.June, 16, 12, 0, 0, 0, time.UTC), false},
		{"recent debt", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, a.IsDebtTimeBarred(tc.origin, "CA"))
		})
	}
}

func TestIsDebtTimeBarred_FutureAndZeroDates(t *testing.T) {
	a := newTestAnalyzer()

	assert.False(t, a.IsDebtTimeBarred(testNow.AddDate(1, 0, 0), "CA"))
	assert.False(t, a.IsDebtTimeBarred(time.Time{}, "CA"))
}

func TestIsDebtTimeBarred_UnknownStateUsesFallback(t *testing.T) {
	a := newTestAnalyzer()

	// The fallback period is 10 years; a 5-year-old debt is not time-barred
	// in an unrecognized jurisdiction even though it would be in California.
	origin := time.Date(2020, time.June, 15, 12, 0, 0, 0, time.UTC)
	require.True(t, a.IsDebtTimeBarred(origin, "CA"))
	assert.False(t, a.IsDebtTimeBarred(origin, "ZZ"))

	old := time.Date(2015, time.June, 14, 12, 0, 0, 0, time.UTC)
	assert.True(t, a.IsDebtTimeBarred(old, "ZZ"))
}

func TestStateRuleTable_UnknownStateNeverErrors(t *testing.T) {
	table := NewStateRuleTable()

	for _, code := range []string{"ZZ", "", "  ", "california", "X1"} {
		assert.NotPanics(t, func() {
			table.StatuteOfLimitations(code)
			table.RequiresTimeBarredDisclosure(code)
			table.Rule(code)
		})
	}

	assert.Equal(t, fallbackStatuteYears, table.StatuteOfLimitations("ZZ"))
	assert.False(t, table.RequiresTimeBarredDisclosure("ZZ"))

	_, ok := table.Rule("ZZ")
	assert.False(t, ok)
}

func TestStateRuleTable_CaseInsensitiveLookup(t *testing.T) {
	table := NewStateRuleTable()

	rule, ok := table.Rule("ca")
	require.True(t, ok)
	assert.Equal(t, "California", rule.Name)
	assert.Equal(t, 4, rule.StatuteOfLimitationsYears)
	assert.True(t, rule.RequiresTimeBarredDisclosure)

	assert.Equal(t, 3, table.StatuteOfLimitations(" ny "))
}
