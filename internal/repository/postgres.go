package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobvault-systems/leads-backend/internal/models"
)

const submissionColumns = `
	id, name, email, company, properties, status, submitted_at, source,
	form_source, notes, url, user_agent, ip_address,
	utm_source, utm_medium, utm_campaign, device_type,
	last_contacted_at, assigned_to, updated_at
`

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

// Create inserts a new submission row. The id is assigned here when the
// caller did not provide one.
func (r *PostgresRepository) Create(ctx context.Context, sub *models.Submission) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if sub.ID == "" {
		idUUID, _ := uuid.NewV7()
		sub.ID = idUUID.String()
	}

	query := `
		INSERT INTO submissions
		(id, name, email, company, properties, status, submitted_at, source,
		 form_source, notes, url, user_agent, ip_address,
		 utm_source, utm_medium, utm_campaign, device_type, assigned_to, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.Name,
		sub.Email,
		sub.Company,
		sub.Properties,
		sub.Status,
		sub.SubmittedAt,
		sub.Source,
		sub.FormSource,
		sub.Notes,
		sub.URL,
		sub.UserAgent,
		sub.IPAddress,
		sub.UTMSource,
		sub.UTMMedium,
		sub.UTMCampaign,
		sub.DeviceType,
		sub.AssignedTo,
	)

	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	sub, err := scanSubmission(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return sub, nil
}

// List retrieves submissions matching the filter, ordered by submitted_at.
// All filter fields compose with AND.
func (r *PostgresRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	where := "WHERE 1=1"
	args := []interface{}{}
	argCount := 0

	if filter.Search != "" {
		argCount++
		where += fmt.Sprintf(
			" AND (name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)",
			argCount, argCount, argCount,
		)
		args = append(args, "%"+filter.Search+"%")
	}

	if filter.Status != "" && filter.Status != "all" {
		argCount++
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
	}

	if filter.FormSource != "" && filter.FormSource != "all" {
		argCount++
		where += fmt.Sprintf(" AND form_source = $%d", argCount)
		args = append(args, filter.FormSource)
	}

	if filter.StartDate != nil {
		argCount++
		where += fmt.Sprintf(" AND submitted_at >= $%d", argCount)
		args = append(args, *filter.StartDate)
	}

	if filter.EndDate != nil {
		argCount++
		where += fmt.Sprintf(" AND submitted_at <= $%d", argCount)
		args = append(args, *filter.EndDate)
	}

	order := "DESC"
	if filter.Ascending {
		order = "ASC"
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions ` + where +
		` ORDER BY submitted_at ` + order

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// UpdateStatus sets a submission's triage status. Moving to "contacted"
// stamps last_contacted_at with the transition time; moving to any other
// status clears it.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		UPDATE submissions
		SET status = $2,
		    last_contacted_at = CASE WHEN $2 = 'contacted' THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + submissionColumns

	sub, err := scanSubmission(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return sub, nil
}

func (r *PostgresRepository) UpdateNotes(ctx context.Context, id, notes string) (*models.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		UPDATE submissions
		SET notes = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + submissionColumns

	sub, err := scanSubmission(r.pool.QueryRow(ctx, query, id, notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to update notes: %w", err)
	}

	return sub, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrSubmissionNotFound
	}

	return nil
}

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var sub models.Submission
	err := row.Scan(
		&sub.ID,
		&sub.Name,
		&sub.Email,
		&sub.Company,
		&sub.Properties,
		&sub.Status,
		&sub.SubmittedAt,
		&sub.Source,
		&sub.FormSource,
		&sub.Notes,
		&sub.URL,
		&sub.UserAgent,
		&sub.IPAddress,
		&sub.UTMSource,
		&sub.UTMMedium,
		&sub.UTMCampaign,
		&sub.DeviceType,
		&sub.LastContactedAt,
		&sub.AssignedTo,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
