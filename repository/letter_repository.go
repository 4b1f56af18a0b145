package repository

import (
	"context"

	"debtdraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LetterRepository handles database operations for demand letters
type LetterRepository struct {
	db *pgxpool.Pool
}

// NewLetterRepository creates a new letter repository
func NewLetterRepository(db *pgxpool.Pool) *LetterRepository {
	return &LetterRepository{db: db}
}

// Create creates a new demand letter. The version is assigned from the count
// of existing letters on the same case.
func (r *LetterRepository) Create(ctx context.Context, letter *models.DemandLetter) error {
	query := `
		INSERT INTO demand_letters (
			case_id, version, status, body, refine_instructions,
			compliance_score, compliance_report
		) VALUES (
			$1,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM demand_letters WHERE case_id = $1),
			$2, $3, $4, $5, $6
		) RETURNING id, version, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		letter.CaseID,
		letter.Status,
		letter.Body,
		letter.RefineInstructions,
		letter.ComplianceScore,
		letter.ComplianceReport,
	).Scan(&letter.ID, &letter.Version, &letter.CreatedAt, &letter.UpdatedAt)

	return err
}

// GetByID retrieves a demand letter by ID
func (r *LetterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DemandLetter, error) {
	letter := &models.DemandLetter{}
	query := `
		SELECT id, case_id, version, status, body, refine_instructions,
			compliance_score, compliance_report, reviewed_by, review_comment,
			created_at, updated_at, reviewed_at
		FROM demand_letters
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&letter.ID,
		&letter.CaseID,
		&letter.Version,
		&letter.Status,
		&letter.Body,
		&letter.RefineInstructions,
		&letter.ComplianceScore,
		&letter.ComplianceReport,
		&letter.ReviewedBy,
		&letter.ReviewComment,
		&letter.CreatedAt,
		&letter.UpdatedAt,
		&letter.ReviewedAt,
	)

	if err != nil {
		return nil, err
	}

	return letter, nil
}

// GetLatestByCaseID retrieves the most recent letter version for a case
func (r *LetterRepository) GetLatestByCaseID(ctx context.Context, caseID uuid.UUID) (*models.DemandLetter, error) {
	letter := &models.DemandLetter{}
	query := `
		SELECT id, case_id, version, status, body, refine_instructions,
			compliance_score, compliance_report, reviewed_by, review_comment,
			created_at, updated_at, reviewed_at
		FROM demand_letters
		WHERE case_id = $1
		ORDER BY version DESC
		LIMIT 1`

	err := r.db.QueryRow(ctx, query, caseID).Scan(
		&letter.ID,
		&letter.CaseID,
		&letter.Version,
		&letter.Status,
		&letter.Body,
		&letter.RefineInstructions,
		&letter.ComplianceScore,
		&letter.ComplianceReport,
		&letter.ReviewedBy,
		&letter.ReviewComment,
		&letter.CreatedAt,
		&letter.UpdatedAt,
		&letter.ReviewedAt,
	)

	if err != nil {
		return nil, err
	}

	return letter, nil
}

// ListByCaseID retrieves all letter versions for a case, newest first
func (r *LetterRepository) ListByCaseID(ctx context.Context, caseID uuid.UUID) ([]*models.DemandLetter, error) {
	query := `
		SELECT id, case_id, version, status, body, refine_instructions,
			compliance_score, compliance_report, reviewed_by, review_comment,
			created_at, updated_at, reviewed_at
		FROM demand_letters
		WHERE case_id = $1
		ORDER BY version DESC`

	rows, err := r.db.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var letters []*models.DemandLetter
	for rows.Next() {
		letter := &models.DemandLetter{}
		err := rows.Scan(
			&letter.ID,
			&letter.CaseID,
			&letter.Version,
			&letter.Status,
			&letter.Body,
			&letter.RefineInstructions,
			&letter.ComplianceScore,
			&letter.ComplianceReport,
			&letter.ReviewedBy,
			&letter.ReviewComment,
			&letter.CreatedAt,
			&letter.UpdatedAt,
			&letter.ReviewedAt,
		)
		if err != nil {
			return nil, err
		}
		letters = append(letters, letter)
	}

	return letters, rows.Err()
}

// Update updates a demand letter's body, status and compliance fields
func (r *LetterRepository) Update(ctx context.Context, letter *models.DemandLetter) error {
	query := `
		UPDATE demand_letters SET
			status = $2,
			body = $3,
			refine_instructions = $4,
			compliance_score = $5,
			compliance_report = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		letter.ID,
		letter.Status,
		letter.Body,
		letter.RefineInstructions,
		letter.ComplianceScore,
		letter.ComplianceReport,
	).Scan(&letter.UpdatedAt)

	return err
}

// UpdateStatus updates only the workflow status of a letter
func (r *LetterRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.LetterStatus) error {
	query := `
		UPDATE demand_letters SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// RecordReview stores the reviewer's decision on a letter
func (r *LetterRepository) RecordReview(ctx context.Context, id uuid.UUID, status models.LetterStatus, reviewerID uuid.UUID, comment *string) error {
	query := `
		UPDATE demand_letters SET
			status = $2,
			reviewed_by = $3,
			review_comment = $4,
			reviewed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status, reviewerID, comment)
	return err
}

// Delete deletes a demand letter
func (r *LetterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM demand_letters WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
