package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"debtdraft-backend/compliance"
	"debtdraft-backend/models"
	"debtdraft-backend/repository"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LetterService handles demand-letter generation and compliance logic
type LetterService struct {
	caseRepo   *repository.CaseRepository
	letterRepo *repository.LetterRepository
	jobRepo    *repository.GenerationJobRepository
	db         *pgxpool.Pool

	geminiClient *genai.Client
	validator    *compliance.Validator
	disclosures  *compliance.DisclosureGenerator

	// Minimum compliance score a letter needs before it can enter review.
	reviewThreshold float64
}

// LetterServiceOption is a functional option for LetterService
type LetterServiceOption func(*LetterService)

// LetterWithCaseRepository sets the case repository
func LetterWithCaseRepository(repo *repository.CaseRepository) LetterServiceOption {
	return func(s *LetterService) {
		s.caseRepo = repo
	}
}

// LetterWithLetterRepository sets the letter repository
func LetterWithLetterRepository(repo *repository.LetterRepository) LetterServiceOption {
	return func(s *LetterService) {
		s.letterRepo = repo
	}
}

// LetterWithGenerationJobRepository sets the generation job repository
func LetterWithGenerationJobRepository(repo *repository.GenerationJobRepository) LetterServiceOption {
	return func(s *LetterService) {
		s.jobRepo = repo
	}
}

// LetterWithDatabase sets the database pool
func LetterWithDatabase(db *pgxpool.Pool) LetterServiceOption {
	return func(s *LetterService) {
		s.db = db
	}
}

// LetterWithGeminiClient sets the Gemini client
func LetterWithGeminiClient(client *genai.Client) LetterServiceOption {
	return func(s *LetterService) {
		s.geminiClient = client
	}
}

// LetterWithReviewThreshold overrides the minimum score required to submit
// a letter for attorney review
func LetterWithReviewThreshold(threshold float64) LetterServiceOption {
	return func(s *LetterService) {
		s.reviewThreshold = threshold
	}
}

// NewLetterService creates a new letter service
func NewLetterService(opts ...LetterServiceOption) *LetterService {
	rules := compliance.NewStateRuleTable()
	s := &LetterService{
		validator:       compliance.NewValidator(rules),
		disclosures:     compliance.NewDisclosureGenerator(rules),
		reviewThreshold: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrLetterNotFound      = errors.New("demand letter not found")
	ErrJobCreationFailed   = errors.New("failed to create generation job")
	ErrGenerationFailed    = errors.New("failed to generate letter content")
	ErrJobNotFound         = errors.New("generation job not found")
	ErrBelowThreshold      = errors.New("compliance score below review threshold")
	ErrNotReviewable       = errors.New("letter is not pending review")
	ErrInvalidReviewAction = errors.New("review action must be approve or reject")
)

const (
	generationAPI  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-3-pro-preview:generateContent"
	maxRetries     = 3
	initialBackoff = time.Second
)

// GenerateLetterRequest represents a request to generate a demand letter
type GenerateLetterRequest struct {
	CaseID             uuid.UUID
	RefineInstructions *string // Optional, for regeneration
}

// GenerateLetterResult represents the result of creating a generation job
type GenerateLetterResult struct {
	JobID uuid.UUID
}

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.GenerationJob
}

// GenerateLetter creates a generation job and returns immediately
// This method must complete in <100ms to avoid HTTP timeouts
func (s *LetterService) GenerateLetter(
	ctx context.Context,
	req GenerateLetterRequest,
) (*GenerateLetterResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}
	if s.jobRepo == nil {
		return nil, errors.New("generation job repository not set")
	}

	// 1. Validate the case exists and carries enough data to draft from
	c, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, ErrCaseNotFound
	}

	if c.DebtorName == "" || c.CreditorName == "" || strings.TrimSpace(c.StateCode) == "" {
		return nil, ErrInvalidCaseData
	}

	// 2. Create generation job with initial steps
	job := &models.GenerationJob{
		ID:     uuid.New(),
		CaseID: req.CaseID,
		Status: models.JobStatusPending,
		Steps:  s.initializeSteps(),
	}

	err = s.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, ErrJobCreationFailed
	}

	return &GenerateLetterResult{
		JobID: job.ID,
	}, nil
}

// GetJobStatus retrieves the status of a generation job
func (s *LetterService) GetJobStatus(
	ctx context.Context,
	req GetJobStatusRequest,
) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("generation job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{
		Job: job,
	}, nil
}

const (
	stepAssembleDisclosures = "Assembling Required Disclosures"
	stepDraftLetter         = "Drafting Demand Letter"
	stepValidateCompliance  = "Running Compliance Validation"
	stepRefineLetter        = "Refining Non-Compliant Sections"
	stepSaveLetter          = "Saving Letter Version"
)

// initializeSteps creates the fixed step list for the letter pipeline
func (s *LetterService) initializeSteps() models.GenerationSteps {
	names := []string{
		stepAssembleDisclosures,
		stepDraftLetter,
		stepValidateCompliance,
		stepRefineLetter,
		stepSaveLetter,
	}

	steps := make(models.GenerationSteps, 0, len(names))
	for _, name := range names {
		steps = append(steps, models.GenerationStep{
			Name:   name,
			Status: "pending",
		})
	}
	return steps
}

// ProcessLetter performs the actual generation work in the background.
// This method runs in a goroutine and can take 30-90 seconds.
func (s *LetterService) ProcessLetter(
	ctx context.Context,
	jobID uuid.UUID,
	refineInstructions *string,
) error {
	if s.jobRepo == nil {
		return errors.New("generation job repository not set")
	}
	if s.caseRepo == nil {
		return errors.New("case repository not set")
	}
	if s.letterRepo == nil {
		return errors.New("letter repository not set")
	}

	// 1. Load job and case
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load generation job: %w", err)
	}

	c, err := s.caseRepo.GetByID(ctx, job.CaseID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load case: "+err.Error())
		return err
	}

	err = s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	complianceCtx := ComplianceContext(c)

	// 2. Assemble the disclosures the letter is legally required to contain
	if err := s.updateStepStatus(ctx, jobID, stepAssembleDisclosures, "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}
	required := s.disclosures.RequiredDisclosures(complianceCtx)
	if err := s.updateStepStatus(ctx, jobID, stepAssembleDisclosures, "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// 3. Draft the letter
	if err := s.updateStepStatus(ctx, jobID, stepDraftLetter, "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	body, err := s.generateLetterBody(ctx, c, required, refineInstructions, nil)
	if err != nil {
		s.markJobFailed(ctx, jobID, fmt.Sprintf("failed to generate letter: %v", err))
		return fmt.Errorf("failed to generate letter: %w", err)
	}

	if err := s.updateStepStatus(ctx, jobID, stepDraftLetter, "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// 4. Validate the draft
	if err := s.updateStepStatus(ctx, jobID, stepValidateCompliance, "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}
	report := s.validator.Validate(body, complianceCtx)
	if err := s.updateStepStatus(ctx, jobID, stepValidateCompliance, "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// 5. One refinement pass if the draft came back non-compliant
	if err := s.updateStepStatus(ctx, jobID, stepRefineLetter, "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}
	if !report.IsCompliant {
		refined, refineErr := s.generateLetterBody(ctx, c, required, refineInstructions, &report)
		if refineErr != nil {
			// Keep the original draft; the stored report tells the attorney
			// what is still missing.
			log.Printf("Warning: refinement pass failed for job %s: %v", jobID, refineErr)
		} else {
			refinedReport := s.validator.Validate(refined, complianceCtx)
			// Only adopt the refined draft if it actually improved.
			if refinedReport.Score >= report.Score {
				body = refined
				report = refinedReport
			}
		}
	}
	if err := s.updateStepStatus(ctx, jobID, stepRefineLetter, "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// 6. Persist the new letter version with its compliance report
	if err := s.updateStepStatus(ctx, jobID, stepSaveLetter, "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	score := report.Score
	storedReport := models.ComplianceReport(report)
	letter := &models.DemandLetter{
		CaseID:             c.ID,
		Status:             models.LetterStatusDraft,
		Body:               body,
		RefineInstructions: refineInstructions,
		ComplianceScore:    &score,
		ComplianceReport:   &storedReport,
	}

	if err := s.letterRepo.Create(ctx, letter); err != nil {
		s.markJobFailed(ctx, jobID, "failed to store letter: "+err.Error())
		return err
	}

	if err := s.jobRepo.AttachLetter(ctx, jobID, letter.ID); err != nil {
		s.markJobFailed(ctx, jobID, "failed to attach letter to job: "+err.Error())
		return err
	}

	if err := s.updateStepStatus(ctx, jobID, stepSaveLetter, "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// 7. Mark job as completed
	err = s.jobRepo.Complete(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// updateStepStatus updates the status of a specific step in the generation job
func (s *LetterService) updateStepStatus(ctx context.Context, jobID uuid.UUID, stepName, status string) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	steps := job.Steps
	var currentStep string
	if job.CurrentStep != nil {
		currentStep = *job.CurrentStep
	}

	for i := range steps {
		if steps[i].Name == stepName {
			steps[i].Status = status
			if status == "in_progress" {
				currentStep = stepName
			}
			break
		}
	}

	return s.jobRepo.UpdateProgress(ctx, jobID, currentStep, steps)
}

// markJobFailed marks a job as failed with an error message
func (s *LetterService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	err := s.jobRepo.Fail(ctx, jobID, errorMessage)
	if err != nil {
		log.Printf("Warning: failed to mark job %s as failed: %v", jobID, err)
	}
}

// generateLetterBody drafts the letter text via the Gemini HTTP API. When a
// prior compliance report is supplied the prompt becomes a refinement pass
// that feeds the validator's suggestions back to the model.
func (s *LetterService) generateLetterBody(
	ctx context.Context,
	c *models.CollectionCase,
	required []compliance.DisclosureBlock,
	refineInstructions *string,
	priorReport *compliance.Result,
) (string, error) {
	if s.geminiClient == nil {
		return "", errors.New("gemini client not set")
	}

	prompt := s.buildLetterPrompt(c, required, refineInstructions, priorReport)

	var content string
	var err error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		content, err = s.callGenerationAPI(ctx, prompt, 0.2)
		if err != nil {
			if attempt == maxRetries-1 {
				return "", fmt.Errorf("failed to generate content after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if content != "" {
			break
		}

		if attempt == maxRetries-1 {
			return "", ErrGenerationFailed
		}
	}

	if content == "" {
		return "", ErrGenerationFailed
	}

	return content, nil
}

// buildLetterPrompt assembles the drafting prompt from the case facts and
// the exact disclosure text the letter must carry
func (s *LetterService) buildLetterPrompt(
	c *models.CollectionCase,
	required []compliance.DisclosureBlock,
	refineInstructions *string,
	priorReport *compliance.Result,
) string {
	var facts strings.Builder
	facts.WriteString(fmt.Sprintf("Debtor: %s\n", c.DebtorName))
	if c.DebtorAddress != nil && *c.DebtorAddress != "" {
		facts.WriteString(fmt.Sprintf("Debtor Address: %s\n", *c.DebtorAddress))
	}
	facts.WriteString(fmt.Sprintf("State: %s\n", c.StateCode))
	facts.WriteString(fmt.Sprintf("Current Creditor: %s\n", c.CreditorName))
	if c.OriginalCreditor != nil && *c.OriginalCreditor != "" {
		facts.WriteString(fmt.Sprintf("Original Creditor: %s\n", *c.OriginalCreditor))
	}
	if c.AccountNumber != nil && *c.AccountNumber != "" {
		facts.WriteString(fmt.Sprintf("Account Number: %s\n", *c.AccountNumber))
	}
	facts.WriteString(fmt.Sprintf("Principal: $%.2f\n", c.PrincipalAmount))
	facts.WriteString(fmt.Sprintf("Interest: $%.2f\n", c.InterestAmount))
	facts.WriteString(fmt.Sprintf("Fees: $%.2f\n", c.FeesAmount))
	facts.WriteString(fmt.Sprintf("Total Owed: $%.2f\n", c.TotalOwed()))
	facts.WriteString(fmt.Sprintf("Debt Origin Date: %s\n", c.DebtOriginDate.Format("January 2, 2006")))

	var disclosureText strings.Builder
	for _, block := range required {
		disclosureText.WriteString(fmt.Sprintf("[%s] (%s)\n%s\n\n", block.Name, block.Citation, block.Content))
	}

	prompt := fmt.Sprintf(`You are an attorney at a debt-collection law firm drafting an initial demand letter to a consumer debtor.

CASE FACTS:
%s
MANDATORY DISCLOSURES:
Each block below is legally required. Include the disclosure text VERBATIM in the letter body; you may place the blocks where they read naturally, but do not paraphrase, shorten, or merge them.

%s
TASK:
Write the complete demand letter:

1. Open with the firm letterhead placeholder, date, and the debtor's name and address
2. Identify the debt: current creditor, original creditor if different, account number, and the total amount owed with itemization
3. Include every mandatory disclosure block verbatim
4. Close with payment instructions and a signature block

OUTPUT REQUIREMENTS:
- Plain text only, no markdown formatting
- Use formal but plain language a consumer can understand
- CRITICAL: Use EXACT dollar amounts from CASE FACTS. Do NOT estimate, round, or aggregate amounts.
- Do NOT threaten litigation, arrest, or wage garnishment
- Do NOT state or imply a deadline shorter than the 30-day validation period

TONE CONSTRAINTS (CRITICAL):
- No harassment, intimidation, or shaming language
- No false urgency ("final notice", "last chance") on an initial letter
- Professional and factual throughout`,
		facts.String(),
		disclosureText.String(),
	)

	if priorReport != nil {
		var fixes strings.Builder
		for _, missing := range priorReport.MissingRequirements {
			fixes.WriteString(fmt.Sprintf("- Missing: %s\n", missing))
		}
		for _, suggestion := range priorReport.Suggestions {
			fixes.WriteString(fmt.Sprintf("- %s\n", suggestion))
		}
		prompt += fmt.Sprintf(`

COMPLIANCE REVIEW OF PRIOR DRAFT:
The previous draft failed automated compliance validation (score %.1f). Fix every item below while keeping the rest of the letter intact:
%s`, priorReport.Score, fixes.String())
	}

	if refineInstructions != nil && *refineInstructions != "" {
		prompt += fmt.Sprintf(`

ATTORNEY INSTRUCTIONS:
%s`, *refineInstructions)
	}

	return prompt
}

// ValidateLetterRequest represents a request to validate a letter body
type ValidateLetterRequest struct {
	LetterID uuid.UUID
	// Body overrides the stored letter body when non-nil, so attorneys can
	// check edits before saving them.
	Body *string
}

// ValidateLetterResult represents the result of a validation run
type ValidateLetterResult struct {
	Report compliance.Result
}

// ValidateLetter runs the compliance validator against a stored letter and
// persists the refreshed report
func (s *LetterService) ValidateLetter(ctx context.Context, req ValidateLetterRequest) (*ValidateLetterResult, error) {
	if s.letterRepo == nil {
		return nil, errors.New("letter repository not set")
	}
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	letter, err := s.letterRepo.GetByID(ctx, req.LetterID)
	if err != nil {
		return nil, ErrLetterNotFound
	}

	c, err := s.caseRepo.GetByID(ctx, letter.CaseID)
	if err != nil {
		return nil, ErrCaseNotFound
	}

	body := letter.Body
	if req.Body != nil {
		body = *req.Body
	}

	report := s.validator.Validate(body, ComplianceContext(c))

	// Persist only when validating the stored body; ad-hoc checks of edited
	// text must not clobber the saved report.
	if req.Body == nil {
		score := report.Score
		storedReport := models.ComplianceReport(report)
		letter.ComplianceScore = &score
		letter.ComplianceReport = &storedReport
		if err := s.letterRepo.Update(ctx, letter); err != nil {
			return nil, err
		}
	}

	return &ValidateLetterResult{Report: report}, nil
}

// UpdateLetterRequest represents a request to update a letter body
type UpdateLetterRequest struct {
	LetterID uuid.UUID
	Body     string
}

// UpdateLetterResult represents the result of updating a letter
type UpdateLetterResult struct {
	Letter *models.DemandLetter
	Report compliance.Result
}

// UpdateLetter saves an edited letter body and revalidates it in the same
// operation, so the stored report never goes stale
func (s *LetterService) UpdateLetter(ctx context.Context, req UpdateLetterRequest) (*UpdateLetterResult, error) {
	if s.letterRepo == nil {
		return nil, errors.New("letter repository not set")
	}
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	letter, err := s.letterRepo.GetByID(ctx, req.LetterID)
	if err != nil {
		return nil, ErrLetterNotFound
	}

	c, err := s.caseRepo.GetByID(ctx, letter.CaseID)
	if err != nil {
		return nil, ErrCaseNotFound
	}

	report := s.validator.Validate(req.Body, ComplianceContext(c))

	score := report.Score
	storedReport := models.ComplianceReport(report)
	letter.Body = req.Body
	letter.Status = models.LetterStatusDraft
	letter.ComplianceScore = &score
	letter.ComplianceReport = &storedReport

	if err := s.letterRepo.Update(ctx, letter); err != nil {
		return nil, err
	}

	return &UpdateLetterResult{Letter: letter, Report: report}, nil
}

// GetLetterRequest represents a request to get a letter
type GetLetterRequest struct {
	LetterID uuid.UUID
}

// GetLetterResult represents the result of getting a letter
type GetLetterResult struct {
	Letter *models.DemandLetter
}

// GetLetter retrieves a demand letter by ID
func (s *LetterService) GetLetter(ctx context.Context, req GetLetterRequest) (*GetLetterResult, error) {
	if s.letterRepo == nil {
		return nil, errors.New("letter repository not set")
	}

	letter, err := s.letterRepo.GetByID(ctx, req.LetterID)
	if err != nil {
		return nil, ErrLetterNotFound
	}

	return &GetLetterResult{Letter: letter}, nil
}

// ListLettersRequest represents a request to list letter versions for a case
type ListLettersRequest struct {
	CaseID uuid.UUID
}

// ListLettersResult represents the result of listing letters
type ListLettersResult struct {
	Letters []*models.DemandLetter
}

// ListLetters lists all letter versions for a case, newest first
func (s *LetterService) ListLetters(ctx context.Context, req ListLettersRequest) (*ListLettersResult, error) {
	if s.letterRepo == nil {
		return nil, errors.New("letter repository not set")
	}

	letters, err := s.letterRepo.ListByCaseID(ctx, req.CaseID)
	if err != nil {
		return nil, err
	}

	return &ListLettersResult{Letters: letters}, nil
}

// SubmitForReviewRequest represents a request to submit a letter for review
type SubmitForReviewRequest struct {
	LetterID uuid.UUID
}

// SubmitForReviewResult represents the result of submitting a letter
type SubmitForReviewResult struct {
	Letter *models.DemandLetter
	Report compliance.Result
}

// SubmitForReview revalidates a letter and moves it to pending_review when
// its score meets the threshold. A stale stored report is never trusted for
// this gate.
func (s *LetterService) SubmitForReview(ctx context.Context, req SubmitForReviewRequest) (*SubmitForReviewResult, error) {
	if s.letterRepo == nil {
		return nil, errors.New("letter repository not set")
	}
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	letter, err := s.letterRepo.GetByID(ctx, req.LetterID)
	if err != nil {
		return nil, ErrLetterNotFound
	}

	c, err := s.caseRepo.GetByID(ctx, letter.CaseID)
	if err != nil {
		return nil, ErrCaseNotFound
	}

	report := s.validator.Validate(letter.Body, ComplianceContext(c))

	score := report.Score
	storedReport := models.ComplianceReport(report)
	letter.ComplianceScore = &score
	letter.ComplianceReport = &storedReport

	if report.Score < s.reviewThreshold {
		// Persist the refreshed report even on rejection so the attorney
		// sees why the gate closed.
		if updateErr := s.letterRepo.Update(ctx, letter); updateErr != nil {
			return nil, updateErr
		}
		return &SubmitForReviewResult{Letter: letter, Report: report}, ErrBelowThreshold
	}

	letter.Status = models.LetterStatusPendingReview
	if err := s.letterRepo.Update(ctx, letter); err != nil {
		return nil, err
	}

	return &SubmitForReviewResult{Letter: letter, Report: report}, nil
}

// ReviewAction is an attorney's decision on a pending letter
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

// ReviewLetterRequest represents an attorney's review decision
type ReviewLetterRequest struct {
	LetterID   uuid.UUID
	ReviewerID uuid.UUID
	Action     ReviewAction
	Comment    *string
}

// ReviewLetterResult represents the result of recording a review
type ReviewLetterResult struct {
	Letter *models.DemandLetter
}

// ReviewLetter records an approve/reject decision on a pending letter
func (s *LetterService) ReviewLetter(ctx context.Context, req ReviewLetterRequest) (*ReviewLetterResult, error) {
	if s.letterRepo == nil {
		return nil, errors.New("letter repository not set")
	}

	letter, err := s.letterRepo.GetByID(ctx, req.LetterID)
	if err != nil {
		return nil, ErrLetterNotFound
	}

	if letter.Status != models.LetterStatusPendingReview {
		return nil, ErrNotReviewable
	}

	var status models.LetterStatus
	switch req.Action {
	case ReviewApprove:
		status = models.LetterStatusApproved
	case ReviewReject:
		status = models.LetterStatusRejected
	default:
		return nil, ErrInvalidReviewAction
	}

	if err := s.letterRepo.RecordReview(ctx, req.LetterID, status, req.ReviewerID, req.Comment); err != nil {
		return nil, err
	}

	letter, err = s.letterRepo.GetByID(ctx, req.LetterID)
	if err != nil {
		return nil, ErrLetterNotFound
	}

	return &ReviewLetterResult{Letter: letter}, nil
}

// RequiredDisclosuresRequest represents a request for a case's disclosures
type RequiredDisclosuresRequest struct {
	CaseID uuid.UUID
}

// RequiredDisclosuresResult represents the disclosure set for a case
type RequiredDisclosuresResult struct {
	Disclosures []compliance.DisclosureBlock
	Complete    string
}

// RequiredDisclosures returns the disclosure blocks a letter for this case
// must contain, plus the assembled boilerplate text
func (s *LetterService) RequiredDisclosures(ctx context.Context, req RequiredDisclosuresRequest) (*RequiredDisclosuresResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	c, err := s.caseRepo.GetByID(ctx, req.CaseID)
	if err != nil {
		return nil, ErrCaseNotFound
	}

	complianceCtx := ComplianceContext(c)
	return &RequiredDisclosuresResult{
		Disclosures: s.disclosures.RequiredDisclosures(complianceCtx),
		Complete:    s.disclosures.CompleteDisclosure(complianceCtx),
	}, nil
}

// callGenerationAPI calls the Gemini generation API directly via HTTP
func (s *LetterService) callGenerationAPI(ctx context.Context, prompt string, temperature float64) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	// Truncate prompt if too long to avoid context limits
	if len(prompt) > 30000 {
		prompt = prompt[:30000] + "\n\n[Content truncated due to length...]"
		log.Printf("Warning: Prompt too long, truncating to 30000 chars")
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": temperature,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", generationAPI, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Printf("Gemini API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason,omitempty"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason,omitempty"`
		} `json:"promptFeedback,omitempty"`
		Error struct {
			Code    int    `json:"code,omitempty"`
			Message string `json:"message,omitempty"`
		} `json:"error,omitempty"`
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		log.Printf("Failed to decode response. Body: %s", string(bodyBytes))
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error.Message != "" {
		return "", fmt.Errorf("API error: %s (code: %d)", apiResp.Error.Message, apiResp.Error.Code)
	}

	if apiResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("API blocked prompt: %s", apiResp.PromptFeedback.BlockReason)
	}

	if len(apiResp.Candidates) == 0 {
		log.Printf("API returned no candidates. Full response: %s", string(bodyBytes))
		return "", fmt.Errorf("API returned no candidates")
	}

	var responseText strings.Builder
	for i, candidate := range apiResp.Candidates {
		if candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			log.Printf("Warning: Candidate %d finished with reason: %s", i, candidate.FinishReason)
		}

		if len(candidate.Content.Parts) == 0 {
			log.Printf("Error: Candidate %d has no parts (finish reason: %s)", i, candidate.FinishReason)
			return "", fmt.Errorf("API candidate has no parts (finish reason: %s)", candidate.FinishReason)
		}

		for j, part := range candidate.Content.Parts {
			if part.Text == "" {
				log.Printf("Warning: Candidate %d, part %d has empty text", i, j)
				continue
			}
			responseText.WriteString(part.Text)
		}
	}

	result := responseText.String()
	if result == "" {
		return "", fmt.Errorf("API returned empty content")
	}

	return result, nil
}
