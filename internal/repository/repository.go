package repository

import (
	"context"
	"errors"

	"github.com/jobvault-systems/leads-backend/internal/models"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
)

// Repository is the Submission Record Store: one row per lead, source of
// truth for all lead state.
type Repository interface {
	Create(ctx context.Context, sub *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Submission, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Submission, error)
	UpdateNotes(ctx context.Context, id, notes string) (*models.Submission, error)
	Delete(ctx context.Context, id string) error
	Close()
}
