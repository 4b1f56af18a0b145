package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator() *DisclosureGenerator {
	g := NewDisclosureGenerator(NewStateRuleTable())
	g.timebar.now = func() time.Time { return testNow }
	return g
}

func TestRequiredDisclosures_MirrorRequiredChecks(t *testing.T) {
	v := newTestValidator()
	g := newTestGenerator()

	contexts := map[string]Context{
		"fresh debt":                   freshDebtContext(),
		"time-barred, mandating state": {StateCode: "CA", Debt: DebtDetails{Principal: 500, OriginDate: time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC), CreditorName: "Apex Credit Union"}},
		"time-barred, silent state":    {StateCode: "FL", Debt: DebtDetails{Principal: 500, OriginDate: time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC), CreditorName: "Apex Credit Union"}},
		"unknown state":                {StateCode: "ZZ", Debt: DebtDetails{Principal: 500, OriginDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), CreditorName: "Apex Credit Union"}},
	}

	for name, ctx := range contexts {
		t.Run(name, func(t *testing.T) {
			blockIDs := make(map[string]bool)
			for _, b := range g.RequiredDisclosures(ctx) {
				require.True(t, b.Required)
				blockIDs[b.ID] = true
			}

			res := v.Validate("", ctx)
			checkIDs := make(map[string]bool)
			for _, c := range res.Checks {
				if c.Required {
					checkIDs[c.ID] = true
				}
			}

			assert.Equal(t, checkIDs, blockIDs)
		})
	}
}

func TestGeneratedDisclosuresSatisfyTheirChecks(t *testing.T) {
	v := newTestValidator()
	g := newTestGenerator()

	ctx := Context{
		StateCode: "CA",
		Debt: DebtDetails{
			Principal:        2500,
			Interest:         340.25,
			Fees:             60,
			OriginDate:       time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
			CreditorName:     "Apex Credit Union",
			OriginalCreditor: "First National Bank",
			AccountNumber:    "4417-8821",
		},
	}

	body := g.CompleteDisclosure(ctx)
	res := v.Validate(body, ctx)

	assert.True(t, res.IsCompliant, "generated disclosure must pass its own checks: %+v", res.MissingRequirements)
	assert.Equal(t, 100.0, res.Score)
	assert.Empty(t, res.Warnings)
}

func TestTimeBarredBlock(t *testing.T) {
	g := newTestGenerator()

	t.Run("not emitted for fresh debt", func(t *testing.T) {
		_, ok := g.TimeBarred(freshDebtContext())
		assert.False(t, ok)
	})

	t.Run("emitted but not required in a silent state", func(t *testing.T) {
		ctx := freshDebtContext()
		ctx.StateCode = "FL"
		ctx.Debt.OriginDate = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

		block, ok := g.TimeBarred(ctx)
		require.True(t, ok)
		assert.False(t, block.Required)
		assert.Contains(t, block.Content, "law limits how long you can be sued")
	})

	t.Run("required with state wording in a mandating state", func(t *testing.T) {
		ctx := freshDebtContext()
		ctx.StateCode = "NY"
		ctx.Debt.OriginDate = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

		block, ok := g.TimeBarred(ctx)
		require.True(t, ok)
		assert.True(t, block.Required)
		assert.Contains(t, block.Content, "statute of limitations on this debt may have expired")
	})
}

func TestDebtAmountBlockItemization(t *testing.T) {
	g := newTestGenerator()

	plain := freshDebtContext()
	block := g.DebtAmount(plain)
	assert.Contains(t, block.Content, "$1,000.00")
	assert.NotContains(t, block.Content, "principal")

	itemized := freshDebtContext()
	itemized.Debt.Interest = 99.95
	itemized.Debt.Fees = 10
	block = g.DebtAmount(itemized)
	assert.Contains(t, block.Content, "$1,109.95")
	assert.Contains(t, block.Content, "$99.95 in interest")
}

func TestCompleteDisclosure_StableSeparator(t *testing.T) {
	g := newTestGenerator()
	ctx := freshDebtContext()

	text := g.CompleteDisclosure(ctx)
	assert.Equal(t, g.CompleteDisclosure(ctx), text)
	assert.Contains(t, text, "\n\n")
}
