package service

import (
	"strings"
	"testing"
	"time"

	"debtdraft-backend/compliance"
	"debtdraft-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptCase() *models.CollectionCase {
	original := "First National Bank"
	account := "4417-8821"
	return &models.CollectionCase{
		DebtorName:       "Jordan Miles",
		StateCode:        "CA",
		CreditorName:     "Apex Credit Union",
		OriginalCreditor: &original,
		AccountNumber:    &account,
		PrincipalAmount:  1200,
		InterestAmount:   80.50,
		FeesAmount:       19.50,
		DebtOriginDate:   time.Date(2023, time.May, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildLetterPrompt(t *testing.T) {
	s := NewLetterService()
	c := promptCase()
	blocks := s.disclosures.RequiredDisclosures(ComplianceContext(c))
	require.NotEmpty(t, blocks)

	prompt := s.buildLetterPrompt(c, blocks, nil, nil)

	t.Run("carries the case facts with exact amounts", func(t *testing.T) {
		assert.Contains(t, prompt, "Debtor: Jordan Miles")
		assert.Contains(t, prompt, "Current Creditor: Apex Credit Union")
		assert.Contains(t, prompt, "Original Creditor: First National Bank")
		assert.Contains(t, prompt, "Principal: $1200.00")
		assert.Contains(t, prompt, "Total Owed: $1300.00")
		assert.Contains(t, prompt, "Debt Origin Date: May 10, 2023")
	})

	t.Run("embeds every required disclosure verbatim", func(t *testing.T) {
		for _, block := range blocks {
			assert.Contains(t, prompt, block.Content)
			assert.Contains(t, prompt, block.Citation)
		}
	})

	t.Run("no refinement section on a first draft", func(t *testing.T) {
		assert.NotContains(t, prompt, "COMPLIANCE REVIEW OF PRIOR DRAFT")
		assert.NotContains(t, prompt, "ATTORNEY INSTRUCTIONS")
	})
}

func TestBuildLetterPrompt_RefinementPass(t *testing.T) {
	s := NewLetterService()
	c := promptCase()
	blocks := s.disclosures.RequiredDisclosures(ComplianceContext(c))

	report := &compliance.Result{
		Score:               60,
		MissingRequirements: []string{"Validation Notice"},
		Suggestions:         []string{"Add the 30-day dispute window language."},
	}
	instructions := "Soften the closing paragraph."

	prompt := s.buildLetterPrompt(c, blocks, &instructions, report)

	assert.Contains(t, prompt, "COMPLIANCE REVIEW OF PRIOR DRAFT")
	assert.Contains(t, prompt, "score 60.0")
	assert.Contains(t, prompt, "Missing: Validation Notice")
	assert.Contains(t, prompt, "Add the 30-day dispute window language.")
	assert.Contains(t, prompt, "ATTORNEY INSTRUCTIONS")
	assert.Contains(t, prompt, "Soften the closing paragraph.")
}

func TestInitializeSteps(t *testing.T) {
	s := NewLetterService()

	steps := s.initializeSteps()

	names := make([]string, 0, len(steps))
	for _, step := range steps {
		assert.Equal(t, "pending", step.Status)
		names = append(names, step.Name)
	}
	assert.Equal(t, []string{
		stepAssembleDisclosures,
		stepDraftLetter,
		stepValidateCompliance,
		stepRefineLetter,
		stepSaveLetter,
	}, names)
}

func TestNewLetterService_Defaults(t *testing.T) {
	s := NewLetterService()

	assert.Equal(t, 100.0, s.reviewThreshold)
	assert.NotNil(t, s.validator)
	assert.NotNil(t, s.disclosures)

	custom := NewLetterService(LetterWithReviewThreshold(80))
	assert.Equal(t, 80.0, custom.reviewThreshold)
}

func TestGenerateLetterBody_RequiresClient(t *testing.T) {
	s := NewLetterService()
	c := promptCase()

	_, err := s.generateLetterBody(t.Context(), c, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "gemini client not set"))
}
