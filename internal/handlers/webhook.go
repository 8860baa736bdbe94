package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jobvault-systems/leads-backend/internal/httputil"
	"github.com/jobvault-systems/leads-backend/internal/models"
	"github.com/jobvault-systems/leads-backend/internal/service"
)

// HandleWebhook handles POST /webhook: the capture-form ingestion endpoint.
// It normalizes the raw payload into a Submission, stores it, and fires the
// notification channels in the background. Notification failures never
// affect the response: the capture forms redirect the visitor regardless of
// outcome, and the backend honors the same best-effort contract.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var payload models.CapturePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	defer r.Body.Close()

	// The forms report the client context they observed; fall back to what
	// the server saw when a field is missing.
	if payload.IP == "" {
		payload.IP = httputil.GetClientIP(r)
	}
	if payload.UserAgent == "" {
		payload.UserAgent = r.Header.Get("User-Agent")
	}
	if payload.DeviceType == "" && payload.UserAgent != "" {
		if httputil.IsMobileUserAgent(payload.UserAgent) {
			payload.DeviceType = "mobile"
		} else {
			payload.DeviceType = "desktop"
		}
	}

	sub, err := h.service.Ingest(r.Context(), &payload)
	if err != nil {
		var ve *service.ErrValidation
		if errors.As(err, &ve) {
			httputil.WriteError(w, http.StatusBadRequest, ve.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to store submission", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Failed to process submission")
		return
	}

	h.logger.InfoContext(r.Context(), "submission stored",
		"submission_id", sub.ID,
		"source", sub.Source,
	)

	if h.channel != nil {
		go func(sub *models.Submission) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.channel.Send(ctx, sub); err != nil {
				h.logger.Error("lead notification failed", "submission_id", sub.ID, "error", err)
			}
		}(sub)
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"id":      sub.ID,
	})
}
