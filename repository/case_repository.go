package repository

import (
	"context"
	"fmt"

	"debtdraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseRepository handles database operations for collection cases
type CaseRepository struct {
	db *pgxpool.Pool
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{db: db}
}

// Create creates a new collection case
func (r *CaseRepository) Create(ctx context.Context, c *models.CollectionCase) error {
	query := `
		INSERT INTO collection_cases (
			user_id, status, debtor_name, debtor_address, state_code,
			creditor_name, original_creditor, account_number,
			principal_amount, interest_amount, fees_amount, debt_origin_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		c.UserID,
		c.Status,
		c.DebtorName,
		c.DebtorAddress,
		c.StateCode,
		c.CreditorName,
		c.OriginalCreditor,
		c.AccountNumber,
		c.PrincipalAmount,
		c.InterestAmount,
		c.FeesAmount,
		c.DebtOriginDate,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	return err
}

// GetByID retrieves a collection case by ID
func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CollectionCase, error) {
	c := &models.CollectionCase{}
	query := `
		SELECT id, user_id, status, debtor_name, debtor_address, state_code,
			creditor_name, original_creditor, account_number,
			principal_amount, interest_amount, fees_amount, debt_origin_date,
			created_at, updated_at, closed_at
		FROM collection_cases
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.UserID,
		&c.Status,
		&c.DebtorName,
		&c.DebtorAddress,
		&c.StateCode,
		&c.CreditorName,
		&c.OriginalCreditor,
		&c.AccountNumber,
		&c.PrincipalAmount,
		&c.InterestAmount,
		&c.FeesAmount,
		&c.DebtOriginDate,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.ClosedAt,
	)

	if err != nil {
		return nil, err
	}

	return c, nil
}

// Update updates a collection case
func (r *CaseRepository) Update(ctx context.Context, c *models.CollectionCase) error {
	query := `
		UPDATE collection_cases SET
			status = $2,
			debtor_name = $3,
			debtor_address = $4,
			state_code = $5,
			creditor_name = $6,
			original_creditor = $7,
			account_number = $8,
			principal_amount = $9,
			interest_amount = $10,
			fees_amount = $11,
			debt_origin_date = $12,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		c.ID,
		c.Status,
		c.DebtorName,
		c.DebtorAddress,
		c.StateCode,
		c.CreditorName,
		c.OriginalCreditor,
		c.AccountNumber,
		c.PrincipalAmount,
		c.InterestAmount,
		c.FeesAmount,
		c.DebtOriginDate,
	).Scan(&c.UpdatedAt)

	return err
}

// ListByUserID retrieves all collection cases for a user
func (r *CaseRepository) ListByUserID(ctx context.Context, userID uuid.UUID, status *models.CaseStatus, limit, offset int) ([]*models.CollectionCase, error) {
	query := `
		SELECT id, user_id, status, debtor_name, debtor_address, state_code,
			creditor_name, original_creditor, account_number,
			principal_amount, interest_amount, fees_amount, debt_origin_date,
			created_at, updated_at, closed_at
		FROM collection_cases
		WHERE user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*models.CollectionCase
	for rows.Next() {
		c := &models.CollectionCase{}
		err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Status,
			&c.DebtorName,
			&c.DebtorAddress,
			&c.StateCode,
			&c.CreditorName,
			&c.OriginalCreditor,
			&c.AccountNumber,
			&c.PrincipalAmount,
			&c.InterestAmount,
			&c.FeesAmount,
			&c.DebtOriginDate,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.ClosedAt,
		)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}

	return cases, rows.Err()
}

// Close marks a collection case as closed
func (r *CaseRepository) Close(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE collection_cases SET
			status = $2,
			closed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.CaseStatusClosed)
	return err
}

// Delete deletes a collection case
func (r *CaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM collection_cases WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
