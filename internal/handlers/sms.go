package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jobvault-systems/leads-backend/internal/httputil"
	"github.com/jobvault-systems/leads-backend/internal/models"
	"github.com/jobvault-systems/leads-backend/internal/sms"
)

// HandleSendSMS handles POST /sms: the demo-request dispatch endpoint.
// Missing or too-short numbers are rejected with 400 before any provider
// call; provider failures come back as 500 with the provider's error code.
func (h *Handler) HandleSendSMS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.SendSMSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	defer r.Body.Close()

	if req.PhoneNumber == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Phone number is required")
		return
	}

	sid, err := h.dispatcher.SendDemoRequest(r.Context(), req.PhoneNumber)
	if err != nil {
		if errors.Is(err, sms.ErrInvalidPhoneNumber) {
			httputil.WriteError(w, http.StatusBadRequest, "Invalid phone number")
			return
		}

		var pe *sms.ProviderError
		if errors.As(err, &pe) {
			httputil.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error":   "Failed to send SMS",
				"details": pe.Message,
				"code":    pe.Code,
			})
			return
		}

		h.logger.ErrorContext(r.Context(), "sms dispatch failed", "error", err)
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "Failed to send SMS",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.SendSMSResponse{
		Success:    true,
		MessageSID: sid,
		Message:    "SMS sent successfully",
	})
}
