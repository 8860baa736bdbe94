package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jobvault-systems/leads-backend/internal/httputil"
	"github.com/jobvault-systems/leads-backend/internal/models"
	"github.com/jobvault-systems/leads-backend/internal/repository"
	"github.com/jobvault-systems/leads-backend/internal/service"
)

// parseListFilter extracts the triage filter from query parameters.
// All filters compose with AND; the end date is inclusive of the whole day.
func parseListFilter(r *http.Request) models.ListFilter {
	q := r.URL.Query()

	filter := models.ListFilter{
		Search:     q.Get("search"),
		Status:     q.Get("status"),
		FormSource: q.Get("form_source"),
		Ascending:  q.Get("sort") == "asc",
	}

	if v := q.Get("start_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartDate = &t
		}
	}
	if v := q.Get("end_date"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			filter.EndDate = &end
		}
	}

	return filter
}

// ListSubmissions handles GET /submissions.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.List(r.Context(), parseListFilter(r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list submissions", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to list submissions")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// GetSubmission handles GET /submissions/{id}.
func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request, id string) {
	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "Submission not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to get submission", "submission_id", id, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to get submission")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, sub)
}

// UpdateStatus handles PUT /submissions/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	sub, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		var ve *service.ErrValidation
		switch {
		case errors.As(err, &ve):
			httputil.WriteError(w, http.StatusBadRequest, ve.Error())
		case errors.Is(err, repository.ErrSubmissionNotFound):
			httputil.WriteError(w, http.StatusNotFound, "Submission not found")
		default:
			h.logger.ErrorContext(r.Context(), "failed to update status", "submission_id", id, "error", err)
			httputil.WriteError(w, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}

	h.logger.InfoContext(r.Context(), "status updated",
		"submission_id", id,
		"status", req.Status,
	)

	httputil.WriteJSON(w, http.StatusOK, sub)
}

// UpdateNotes handles PUT /submissions/{id}/notes.
func (h *Handler) UpdateNotes(w http.ResponseWriter, r *http.Request, id string) {
	var req models.UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	sub, err := h.service.UpdateNotes(r.Context(), id, req.Notes)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "Submission not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to update notes", "submission_id", id, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to update notes")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, sub)
}

// DeleteSubmission handles DELETE /submissions/{id}. Irreversible.
func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "Submission not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to delete submission", "submission_id", id, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to delete submission")
		return
	}

	h.logger.InfoContext(r.Context(), "submission deleted", "submission_id", id)

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ExportSubmissions handles GET /submissions/export, streaming the filtered
// view as a CSV download.
func (h *Handler) ExportSubmissions(w http.ResponseWriter, r *http.Request) {
	filename := h.service.ExportFilename(time.Now())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	rows, err := h.service.ExportCSV(r.Context(), parseListFilter(r), w)
	if err != nil {
		// Headers are already out; all we can do is log.
		h.logger.ErrorContext(r.Context(), "csv export failed", "error", err)
		return
	}

	h.logger.InfoContext(r.Context(), "csv export served", "rows", rows, "filename", filename)
}
