package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jobvault-systems/leads-backend/internal/models"
)

// InMemoryRepository is a map-backed Repository used in tests and local
// development. Filtering and ordering match the Postgres implementation.
type InMemoryRepository struct {
	submissions map[string]*models.Submission
	mu          sync.RWMutex
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		submissions: make(map[string]*models.Submission),
	}
}

func (r *InMemoryRepository) Create(_ context.Context, sub *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub.ID == "" {
		idUUID, _ := uuid.NewV7()
		sub.ID = idUUID.String()
	}
	sub.UpdatedAt = time.Now().UTC()

	cp := *sub
	r.submissions[sub.ID] = &cp
	return nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, exists := r.submissions[id]
	if !exists {
		return nil, ErrSubmissionNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *InMemoryRepository) List(_ context.Context, filter models.ListFilter) ([]*models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var subs []*models.Submission
	for _, sub := range r.submissions {
		if !matches(sub, filter) {
			continue
		}
		cp := *sub
		subs = append(subs, &cp)
	}

	sort.Slice(subs, func(i, j int) bool {
		if filter.Ascending {
			return subs[i].SubmittedAt.Before(subs[j].SubmittedAt)
		}
		return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
	})

	return subs, nil
}

func (r *InMemoryRepository) UpdateStatus(_ context.Context, id, status string) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.submissions[id]
	if !exists {
		return nil, ErrSubmissionNotFound
	}

	now := time.Now().UTC()
	sub.Status = status
	if status == models.StatusContacted {
		sub.LastContactedAt = &now
	} else {
		sub.LastContactedAt = nil
	}
	sub.UpdatedAt = now

	cp := *sub
	return &cp, nil
}

func (r *InMemoryRepository) UpdateNotes(_ context.Context, id, notes string) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, exists := r.submissions[id]
	if !exists {
		return nil, ErrSubmissionNotFound
	}

	sub.Notes = &notes
	sub.UpdatedAt = time.Now().UTC()

	cp := *sub
	return &cp, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.submissions[id]; !exists {
		return ErrSubmissionNotFound
	}
	delete(r.submissions, id)
	return nil
}

func (r *InMemoryRepository) Close() {}

func matches(sub *models.Submission, filter models.ListFilter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !containsFold(sub.Name, needle) &&
			!strings.Contains(strings.ToLower(sub.Email), needle) &&
			!containsFold(sub.Company, needle) {
			return false
		}
	}

	if filter.Status != "" && filter.Status != "all" && sub.Status != filter.Status {
		return false
	}

	if filter.FormSource != "" && filter.FormSource != "all" {
		if sub.FormSource == nil || *sub.FormSource != filter.FormSource {
			return false
		}
	}

	if filter.StartDate != nil && sub.SubmittedAt.Before(*filter.StartDate) {
		return false
	}

	if filter.EndDate != nil && sub.SubmittedAt.After(*filter.EndDate) {
		return false
	}

	return true
}

func containsFold(s *string, needle string) bool {
	if s == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*s), needle)
}
