package compliance

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compliantLetter builds a body that satisfies every check for the context.
func compliantLetter(ctx Context) string {
	g := NewDisclosureGenerator(NewStateRuleTable())
	return "Dear Debtor,\n\n" + g.CompleteDisclosure(ctx) + "\n\nSincerely,\nThe Firm"
}

func TestValidate_CompliantLetter(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext()

	res := v.Validate(compliantLetter(ctx), ctx)

	assert.True(t, res.IsCompliant)
	assert.Equal(t, 100.0, res.Score)
	assert.Empty(t, res.MissingRequirements)
	assert.Empty(t, res.Suggestions)
	require.Len(t, res.Checks, 5)
}

func TestValidate_CheckOrderIsStable(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext()

	res := v.Validate("irrelevant", ctx)

	ids := make([]string, 0, len(res.Checks))
	for _, c := range res.Checks {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{
		CheckMiniMiranda,
		CheckValidationNotice,
		CheckDebtAmount,
		CheckCreditorIdentity,
		CheckTimeBarredDisclosure,
	}, ids)
}

func TestValidate_Deterministic(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext()
	ctx.Debt.OriginalCreditor = "First National Bank"
	body := "This is an attempt to collect a debt. You owe $1,000.00 to Apex Credit Union."

	first := v.Validate(body, ctx)
	second := v.Validate(body, ctx)

	assert.Equal(t, first, second)
}

func TestValidate_EmptyContentDegradesWithoutPanic(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext()

	var res Result
	require.NotPanics(t, func() { res = v.Validate("", ctx) })

	assert.False(t, res.IsCompliant)
	assert.Equal(t, 0.0, res.Score)
	assert.Len(t, res.MissingRequirements, 4)
	for _, c := range res.Checks {
		if c.Required {
			assert.False(t, c.Passed)
			assert.NotEmpty(t, c.Details)
		}
	}
}

func TestValidate_ScoreCountsOnlyRequiredChecks(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext() // not time-barred: 4 required checks

	// Satisfies Mini-Miranda and creditor identification only.
	body := "This is an attempt to collect a debt and any information obtained will be used for that purpose. This debt is owed to Apex Credit Union."

	res := v.Validate(body, ctx)

	assert.False(t, res.IsCompliant)
	assert.Equal(t, 50.0, res.Score)
	assert.Equal(t, []string{"Validation Notice", "Debt Amount Statement"}, res.MissingRequirements)
}

func TestValidate_TimeBarredMissingDisclosureBlocksCompliance(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext()
	ctx.Debt.OriginDate = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

	// Everything but the time-barred disclosure.
	body := "This is an attempt to collect a debt and any information obtained will be used for that purpose. " +
		"You have thirty (30) days to dispute the validity of this debt and may obtain verification of the debt. " +
		"The amount owed is $1,000.00, owed to Apex Credit Union, the creditor."

	res := v.Validate(body, ctx)

	assert.False(t, res.IsCompliant)
	assert.Contains(t, res.MissingRequirements, "Time-Barred Debt Disclosure")
	assert.Equal(t, 80.0, res.Score)
}

func TestValidate_NonRequiredFailureNeverFailsGate(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext()
	ctx.StateCode = "FL" // does not mandate the time-barred disclosure
	ctx.Debt.OriginDate = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

	res := v.Validate(compliantLetter(ctx), ctx)

	assert.True(t, res.IsCompliant)
	assert.Equal(t, 100.0, res.Score)
	for _, c := range res.Checks {
		if c.ID == CheckTimeBarredDisclosure {
			assert.False(t, c.Required)
		}
	}
}

func TestValidate_SuggestionsAreDeduplicatedInOrder(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext()

	res := v.Validate("", ctx)

	seen := make(map[string]bool)
	for _, s := range res.Suggestions {
		assert.False(t, seen[s], "duplicate suggestion: %s", s)
		seen[s] = true
	}
	assert.NotEmpty(t, res.Suggestions)
}

func TestValidate_WarningsCollected(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext()
	ctx.Debt.Interest = 100

	body := strings.Replace(compliantLetter(ctx), "This consists of", "It includes sums of", 1)
	// Mangle the itemization so the principal keyword disappears.
	body = strings.Replace(body, "principal", "base sum", 1)

	res := v.Validate(body, ctx)
	assert.NotEmpty(t, res.Warnings)
}

func TestRequirementResolution(t *testing.T) {
	v := newTestValidator()
	fresh := freshDebtContext()

	barred := freshDebtContext()
	barred.Debt.OriginDate = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, AlwaysRequired, v.RequirementFor(CheckMiniMiranda, fresh))
	assert.Equal(t, RequiredIfTimeBarred, v.RequirementFor(CheckTimeBarredDisclosure, fresh))
	assert.Equal(t, NeverRequired, v.RequirementFor("no_such_check", fresh))

	assert.True(t, v.Applies(AlwaysRequired, fresh))
	assert.False(t, v.Applies(RequiredIfTimeBarred, fresh))
	assert.True(t, v.Applies(RequiredIfTimeBarred, barred))
	assert.False(t, v.Applies(NeverRequired, barred))
}
