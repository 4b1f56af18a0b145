package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *Validator {
	v := NewValidator(NewStateRuleTable())
	v.now = func() time.Time { return testNow }
	v.timebar.now = func() time.Time { return testNow }
	return v
}

func freshDebtContext() Context {
	return Context{
		StateCode: "CA",
		Debt: DebtDetails{
			Principal:    1000,
			OriginDate:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			CreditorName: "Apex Credit Union",
		},
	}
}

func TestCheckMiniMiranda(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext()

	t.Run("full disclosure passes with both signals", func(t *testing.T) {
		res := v.checkMiniMiranda("This is an attempt to collect a debt and any information obtained will be used for that purpose.", ctx)
		assert.True(t, res.Passed)
		assert.True(t, res.Required)
		assert.Equal(t, "This is an attempt to collect a debt", res.MatchedText)
	})

	t.Run("missing purpose clause fails with targeted suggestion", func(t *testing.T) {
		res := v.checkMiniMiranda("This is an attempt to collect a debt.", ctx)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Details, "omits the purpose-of-information statement")
		assert.Contains(t, res.Suggestion, "will be used for that purpose")
	})

	t.Run("missing identification fails with targeted suggestion", func(t *testing.T) {
		res := v.checkMiniMiranda("Any information obtained will be used for that purpose.", ctx)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Details, "never identifies the sender as a debt collector")
		assert.Contains(t, res.Suggestion, "This is an attempt to collect a debt")
	})

	t.Run("identification synonyms are accepted", func(t *testing.T) {
		res := v.checkMiniMiranda("We are a debt collector. Any information obtained will be used for that purpose.", ctx)
		assert.True(t, res.Passed)
		assert.Equal(t, "We are a debt collector", res.MatchedText)
	})

	t.Run("empty content fails", func(t *testing.T) {
		res := v.checkMiniMiranda("", ctx)
		assert.False(t, res.Passed)
		assert.NotEmpty(t, res.Suggestion)
	})
}

func TestCheckValidationNotice(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext()

	complete := "Unless you notify this office within thirty (30) days after receiving this notice that you dispute the validity of this debt, this office will assume this debt is valid. Upon written request we will obtain verification of the debt. We will also provide the name and address of the original creditor."

	t.Run("all three core components pass", func(t *testing.T) {
		res := v.checkValidationNotice(complete, ctx)
		assert.True(t, res.Passed)
		assert.Equal(t, "thirty (30) days", res.MatchedText)
	})

	t.Run("each missing component is reported by name", func(t *testing.T) {
		res := v.checkValidationNotice("You may dispute the validity of this debt and obtain verification of the debt.", ctx)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Details, "30-day dispute window")
		assert.NotContains(t, res.Details, "dispute rights statement")
		assert.Contains(t, res.Suggestion, "30-day dispute window")
	})

	t.Run("missing original creditor does not gate", func(t *testing.T) {
		noOriginal := "You have thirty (30) days to dispute the validity of this debt and may obtain verification of the debt."
		res := v.checkValidationNotice(noOriginal, ctx)
		assert.True(t, res.Passed)
		assert.Contains(t, res.Details, "original-creditor disclosure was not found")
	})
}

func TestCheckDebtAmount(t *testing.T) {
	v := newTestValidator()
	ctx := freshDebtContext()

	t.Run("amount with context passes", func(t *testing.T) {
		res := v.checkDebtAmount("As of today the amount owed is $1,000.00.", ctx)
		assert.True(t, res.Passed)
		assert.Equal(t, "$1,000.00", res.MatchedText)
	})

	t.Run("bare amount matching the record passes", func(t *testing.T) {
		res := v.checkDebtAmount("Please remit $1,000.00 immediately.", ctx)
		assert.True(t, res.Passed)
		assert.Contains(t, res.Details, "matching the debt record")
	})

	t.Run("bare non-matching amount fails as ambiguous", func(t *testing.T) {
		res := v.checkDebtAmount("We reference the figure $750.00 herein.", ctx)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Details, "no context identifies it as the amount owed")
		assert.Contains(t, res.Suggestion, "$1,000.00")
	})

	t.Run("no currency amount fails", func(t *testing.T) {
		res := v.checkDebtAmount("You owe us a considerable sum.", ctx)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Details, "no currency-formatted amount")
	})

	t.Run("exact total match includes interest and fees", func(t *testing.T) {
		withInterest := freshDebtContext()
		withInterest.Debt.Interest = 150.50
		withInterest.Debt.Fees = 25
		res := v.checkDebtAmount("The total amount due is $1,175.50, itemized as principal of $1,000.00 plus interest of $150.50 and fees of $25.00.", withInterest)
		assert.True(t, res.Passed)
		assert.Empty(t, res.Warning)
	})

	t.Run("missing itemization warns without gating", func(t *testing.T) {
		withInterest := freshDebtContext()
		withInterest.Debt.Interest = 200
		res := v.checkDebtAmount("The amount owed is $1,200.00.", withInterest)
		assert.True(t, res.Passed)
		assert.Contains(t, res.Warning, "itemize")
	})
}

func TestCheckCreditorIdentification(t *testing.T) {
	v := newTestValidator()

	t.Run("name plus relationship language passes", func(t *testing.T) {
		ctx := freshDebtContext()
		res := v.checkCreditorIdentification("This debt is owed to Apex Credit Union, the current creditor.", ctx)
		assert.True(t, res.Passed)
		assert.Equal(t, "Apex Credit Union", res.MatchedText)
	})

	t.Run("name match is case-insensitive", func(t *testing.T) {
		ctx := freshDebtContext()
		res := v.checkCreditorIdentification("The creditor APEX CREDIT UNION demands payment.", ctx)
		assert.True(t, res.Passed)
		assert.Equal(t, "APEX CREDIT UNION", res.MatchedText)
	})

	t.Run("name without relationship language fails", func(t *testing.T) {
		ctx := freshDebtContext()
		res := v.checkCreditorIdentification("Apex Credit Union has retained this firm.", ctx)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Suggestion, "owed to Apex Credit Union")
	})

	t.Run("unmentioned original creditor degrades without failing", func(t *testing.T) {
		ctx := freshDebtContext()
		ctx.Debt.OriginalCreditor = "First National Bank"
		res := v.checkCreditorIdentification("This debt is owed to Apex Credit Union.", ctx)
		assert.True(t, res.Passed)
		assert.Contains(t, res.Details, `"First National Bank" is not mentioned`)
		assert.NotEmpty(t, res.Warning)
	})

	t.Run("empty creditor name in context fails with explanation", func(t *testing.T) {
		ctx := freshDebtContext()
		ctx.Debt.CreditorName = ""
		res := v.checkCreditorIdentification("This debt is owed to somebody.", ctx)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Details, "No creditor name is recorded")
	})
}

func TestCheckTimeBarredDisclosure(t *testing.T) {
	v := newTestValidator()

	timeBarred := func(state string) Context {
		ctx := freshDebtContext()
		ctx.StateCode = state
		ctx.Debt.OriginDate = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
		return ctx
	}

	t.Run("not time-barred short-circuits to pass, not required", func(t *testing.T) {
		res := v.checkTimeBarredDisclosure("any text", freshDebtContext())
		assert.True(t, res.Passed)
		assert.False(t, res.Required)
	})

	t.Run("time-barred in non-mandating state passes with advisory", func(t *testing.T) {
		res := v.checkTimeBarredDisclosure("Pay up.", timeBarred("FL"))
		assert.True(t, res.Passed)
		assert.False(t, res.Required)
		assert.Contains(t, res.Warning, "consider adding")
	})

	t.Run("time-barred in mandating state requires the phrase", func(t *testing.T) {
		res := v.checkTimeBarredDisclosure("Pay up.", timeBarred("CA"))
		assert.False(t, res.Passed)
		assert.True(t, res.Required)
		assert.Contains(t, res.Suggestion, "law limits how long you can be sued")
	})

	t.Run("canonical phrases are matched in order", func(t *testing.T) {
		res := v.checkTimeBarredDisclosure("The law limits how long you can be sued on a debt. This debt is time-barred.", timeBarred("CA"))
		assert.True(t, res.Passed)
		assert.True(t, res.Required)
		assert.Equal(t, "law limits how long you can be sued", res.MatchedText)
	})

	t.Run("missing revival warning is advisory only", func(t *testing.T) {
		res := v.checkTimeBarredDisclosure("Because of the statute of limitations we will not sue you for it.", timeBarred("CA"))
		assert.True(t, res.Passed)
		assert.Contains(t, res.Warning, "restart the limitations period")
	})
}

func TestFormatUSD(t *testing.T) {
	require.Equal(t, "$1,000.00", formatUSD(1000))
	require.Equal(t, "$175.50", formatUSD(175.5))
	require.Equal(t, "$1,234,567.89", formatUSD(1234567.89))
	require.Equal(t, "$0.00", formatUSD(0))
}

func TestParseCurrency(t *testing.T) {
	val, err := parseCurrency("$1,000.00")
	require.NoError(t, err)
	require.Equal(t, 1000.0, val)

	val, err = parseCurrency("$ 12,345.6")
	require.NoError(t, err)
	require.Equal(t, 12345.6, val)
}
