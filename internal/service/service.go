package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jobvault-systems/leads-backend/internal/metrics"
	"github.com/jobvault-systems/leads-backend/internal/models"
	"github.com/jobvault-systems/leads-backend/internal/repository"
)

// ErrValidation marks input errors that should surface as 400s.
type ErrValidation struct {
	msg string
}

func (e *ErrValidation) Error() string { return e.msg }

func validationError(format string, args ...interface{}) error {
	return &ErrValidation{msg: fmt.Sprintf(format, args...)}
}

// Service implements the lead triage operations over the submission store.
type Service struct {
	repo  repository.Repository
	table string
}

func NewService(repo repository.Repository, table string) *Service {
	return &Service{repo: repo, table: table}
}

// Table returns the logical submission table name (used in export filenames
// and the CSV "Table" column).
func (s *Service) Table() string {
	return s.table
}

// Ingest normalizes a raw capture payload into a Submission and stores it.
// The row is created with status=pending; submitted_at honors the client
// timestamp when parseable and falls back to now.
func (s *Service) Ingest(ctx context.Context, payload *models.CapturePayload) (*models.Submission, error) {
	if strings.TrimSpace(payload.Email) == "" {
		return nil, validationError("email is required")
	}
	if strings.TrimSpace(payload.Source) == "" {
		return nil, validationError("source is required")
	}

	submittedAt := time.Now().UTC()
	if payload.SubmittedAt != "" {
		if t, err := time.Parse(time.RFC3339, payload.SubmittedAt); err == nil {
			submittedAt = t.UTC()
		}
	}

	sub := &models.Submission{
		Email:       strings.TrimSpace(payload.Email),
		Status:      models.StatusPending,
		SubmittedAt: submittedAt,
		Source:      payload.Source,
		Name:        optional(payload.Name),
		Company:     optional(payload.Company),
		Properties:  optional(payload.Properties),
		FormSource:  optional(payload.FormSource),
		URL:         optional(payload.URL),
		UserAgent:   optional(payload.UserAgent),
		IPAddress:   optional(payload.IP),
		UTMSource:   optional(payload.UTMSource),
		UTMMedium:   optional(payload.UTMMedium),
		UTMCampaign: optional(payload.UTMCampaign),
		DeviceType:  optional(payload.DeviceType),
	}

	start := time.Now()
	if err := s.repo.Create(ctx, sub); err != nil {
		metrics.StoreErrors.Inc()
		metrics.SubmissionsTotal.WithLabelValues(sub.Source, "error").Inc()
		return nil, fmt.Errorf("store submission: %w", err)
	}
	metrics.StoreDuration.Observe(time.Since(start).Seconds())
	metrics.SubmissionsTotal.WithLabelValues(sub.Source, "stored").Inc()

	return sub, nil
}

// List retrieves submissions matching the filter along with board stats.
// Stats are computed over the filtered view the way the dashboard shows them.
func (s *Service) List(ctx context.Context, filter models.ListFilter) (*models.ListResponse, error) {
	subs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := models.Stats{Total: len(subs)}
	for _, sub := range subs {
		if sub.Status == models.StatusPending {
			stats.Pending++
		}
		if sub.Processed() {
			stats.Processed++
		}
	}

	if subs == nil {
		subs = []*models.Submission{}
	}

	return &models.ListResponse{Submissions: subs, Stats: stats}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Submission, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus applies a triage status change. Transitions are deliberately
// unconstrained (any status to any other); the only rule is that moving to
// "contacted" stamps last_contacted_at and every other move clears it. That
// rule lives in the repository so it holds no matter who writes.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*models.Submission, error) {
	if !models.ValidStatus(status) {
		return nil, validationError("invalid status %q", status)
	}

	sub, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	metrics.StatusChangesTotal.WithLabelValues(status).Inc()
	return sub, nil
}

func (s *Service) UpdateNotes(ctx context.Context, id, notes string) (*models.Submission, error) {
	return s.repo.UpdateNotes(ctx, id, notes)
}

// Delete removes a submission permanently. Confirmation is a client concern.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.DeletionsTotal.Inc()
	return nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
