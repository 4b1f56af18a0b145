package service

import (
	"context"
	"errors"
	"strings"

	"debtdraft-backend/compliance"
	"debtdraft-backend/models"
	"debtdraft-backend/repository"

	"github.com/google/uuid"
)

// CaseService handles business logic for collection cases
type CaseService struct {
	caseRepo *repository.CaseRepository
	rules    *compliance.StateRuleTable
}

// CaseServiceOption is a functional option for CaseService
type CaseServiceOption func(*CaseService)

// WithCaseRepository sets the case repository
func WithCaseRepository(repo *repository.CaseRepository) CaseServiceOption {
	return func(s *CaseService) {
		s.caseRepo = repo
	}
}

// WithStateRules sets the state rule table
func WithStateRules(rules *compliance.StateRuleTable) CaseServiceOption {
	return func(s *CaseService) {
		s.rules = rules
	}
}

// NewCaseService creates a new case service
func NewCaseService(opts ...CaseServiceOption) *CaseService {
	s := &CaseService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rules == nil {
		s.rules = compliance.NewStateRuleTable()
	}
	return s
}

var (
	ErrCaseNotFound     = errors.New("collection case not found")
	ErrInvalidCaseData  = errors.New("case missing required debtor or creditor data")
	ErrNegativeAmount   = errors.New("debt amounts must not be negative")
	ErrUnknownStateCode = errors.New("unrecognized state code")
)

// CreateCaseRequest represents a request to create a collection case
type CreateCaseRequest struct {
	UserID uuid.UUID
	Case   *models.CollectionCase
}

// CreateCaseResult represents the result of creating a case
type CreateCaseResult struct {
	Case *models.CollectionCase
}

// CreateCase creates a new collection case after validating the intake data
func (s *CaseService) CreateCase(ctx context.Context, req CreateCaseRequest) (*CreateCaseResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	c := req.Case
	c.UserID = req.UserID
	if c.Status == "" {
		c.Status = models.CaseStatusOpen
	}

	if err := s.validateCase(c); err != nil {
		return nil, err
	}
	c.StateCode = strings.ToUpper(strings.TrimSpace(c.StateCode))

	err := s.caseRepo.Create(ctx, c)
	if err != nil {
		return nil, err
	}

	return &CreateCaseResult{Case: c}, nil
}

// GetCaseRequest represents a request to get a case
type GetCaseRequest struct {
	ID uuid.UUID
}

// GetCaseResult represents the result of getting a case
type GetCaseResult struct {
	Case *models.CollectionCase
}

// GetCase retrieves a collection case by ID
func (s *CaseService) GetCase(ctx context.Context, req GetCaseRequest) (*GetCaseResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	c, err := s.caseRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, ErrCaseNotFound
	}

	return &GetCaseResult{Case: c}, nil
}

// UpdateCaseRequest represents a request to update a case
type UpdateCaseRequest struct {
	Case *models.CollectionCase
}

// UpdateCaseResult represents the result of updating a case
type UpdateCaseResult struct {
	Case *models.CollectionCase
}

// UpdateCase updates a collection case
func (s *CaseService) UpdateCase(ctx context.Context, req UpdateCaseRequest) (*UpdateCaseResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	if err := s.validateCase(req.Case); err != nil {
		return nil, err
	}
	req.Case.StateCode = strings.ToUpper(strings.TrimSpace(req.Case.StateCode))

	err := s.caseRepo.Update(ctx, req.Case)
	if err != nil {
		return nil, err
	}

	return &UpdateCaseResult{Case: req.Case}, nil
}

// ListCasesRequest represents a request to list cases
type ListCasesRequest struct {
	UserID uuid.UUID
	Status *models.CaseStatus
	Limit  int
	Offset int
}

// ListCasesResult represents the result of listing cases
type ListCasesResult struct {
	Cases []*models.CollectionCase
}

// ListCases lists collection cases for a user
func (s *CaseService) ListCases(ctx context.Context, req ListCasesRequest) (*ListCasesResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	cases, err := s.caseRepo.ListByUserID(ctx, req.UserID, req.Status, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &ListCasesResult{Cases: cases}, nil
}

// CloseCaseRequest represents a request to close a case
type CloseCaseRequest struct {
	ID uuid.UUID
}

// CloseCaseResult represents the result of closing a case
type CloseCaseResult struct{}

// CloseCase marks a collection case as closed
func (s *CaseService) CloseCase(ctx context.Context, req CloseCaseRequest) (*CloseCaseResult, error) {
	if s.caseRepo == nil {
		return nil, errors.New("case repository not set")
	}

	if _, err := s.caseRepo.GetByID(ctx, req.ID); err != nil {
		return nil, ErrCaseNotFound
	}

	err := s.caseRepo.Close(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &CloseCaseResult{}, nil
}

// validateCase checks intake data before it reaches the database. An
// unrecognized state code is allowed through: the compliance engine falls
// back to conservative defaults, and firms do take out-of-table matters.
func (s *CaseService) validateCase(c *models.CollectionCase) error {
	if c.DebtorName == "" || c.CreditorName == "" {
		return ErrInvalidCaseData
	}
	if strings.TrimSpace(c.StateCode) == "" {
		return ErrInvalidCaseData
	}
	if c.PrincipalAmount < 0 || c.InterestAmount < 0 || c.FeesAmount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// ComplianceContext builds the validation context for a case. All letter
// validation and disclosure generation for the case flows through this one
// mapping.
func ComplianceContext(c *models.CollectionCase) compliance.Context {
	ctx := compliance.Context{
		StateCode: c.StateCode,
		Debt: compliance.DebtDetails{
			Principal:    c.PrincipalAmount,
			Interest:     c.InterestAmount,
			Fees:         c.FeesAmount,
			OriginDate:   c.DebtOriginDate,
			CreditorName: c.CreditorName,
		},
	}
	if c.OriginalCreditor != nil {
		ctx.Debt.OriginalCreditor = *c.OriginalCreditor
	}
	if c.AccountNumber != nil {
		ctx.Debt.AccountNumber = *c.AccountNumber
	}
	return ctx
}
