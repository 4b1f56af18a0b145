package service

import (
	"testing"
	"time"

	"debtdraft-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCase() *models.CollectionCase {
	return &models.CollectionCase{
		DebtorName:      "Jordan Miles",
		StateCode:       "ca",
		CreditorName:    "Apex Credit Union",
		PrincipalAmount: 1200,
		InterestAmount:  80.50,
		FeesAmount:      19.50,
		DebtOriginDate:  time.Date(2023, time.May, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateCase(t *testing.T) {
	s := NewCaseService()

	t.Run("complete intake passes", func(t *testing.T) {
		assert.NoError(t, s.validateCase(sampleCase()))
	})

	t.Run("missing debtor name rejected", func(t *testing.T) {
		c := sampleCase()
		c.DebtorName = ""
		assert.ErrorIs(t, s.validateCase(c), ErrInvalidCaseData)
	})

	t.Run("missing creditor name rejected", func(t *testing.T) {
		c := sampleCase()
		c.CreditorName = ""
		assert.ErrorIs(t, s.validateCase(c), ErrInvalidCaseData)
	})

	t.Run("blank state code rejected", func(t *testing.T) {
		c := sampleCase()
		c.StateCode = "   "
		assert.ErrorIs(t, s.validateCase(c), ErrInvalidCaseData)
	})

	t.Run("negative amounts rejected", func(t *testing.T) {
		c := sampleCase()
		c.InterestAmount = -1
		assert.ErrorIs(t, s.validateCase(c), ErrNegativeAmount)
	})

	t.Run("unrecognized state code is allowed", func(t *testing.T) {
		c := sampleCase()
		c.StateCode = "ZZ"
		assert.NoError(t, s.validateCase(c))
	})
}

func TestComplianceContext(t *testing.T) {
	c := sampleCase()
	original := "First National Bank"
	account := "4417-8821"
	c.OriginalCreditor = &original
	c.AccountNumber = &account

	ctx := ComplianceContext(c)

	assert.Equal(t, "ca", ctx.StateCode)
	assert.Equal(t, 1200.0, ctx.Debt.Principal)
	assert.Equal(t, 80.50, ctx.Debt.Interest)
	assert.Equal(t, 19.50, ctx.Debt.Fees)
	assert.Equal(t, c.DebtOriginDate, ctx.Debt.OriginDate)
	assert.Equal(t, "Apex Credit Union", ctx.Debt.CreditorName)
	assert.Equal(t, "First National Bank", ctx.Debt.OriginalCreditor)
	assert.Equal(t, "4417-8821", ctx.Debt.AccountNumber)

	require.Equal(t, c.TotalOwed(), ctx.Debt.TotalOwed())
}

func TestComplianceContext_NilOptionalFields(t *testing.T) {
	ctx := ComplianceContext(sampleCase())

	assert.Empty(t, ctx.Debt.OriginalCreditor)
	assert.Empty(t, ctx.Debt.AccountNumber)
}
