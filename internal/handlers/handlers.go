package handlers

import (
	"net/http"

	"github.com/jobvault-systems/leads-backend/internal/httputil"
	"github.com/jobvault-systems/leads-backend/internal/logging"
	"github.com/jobvault-systems/leads-backend/internal/notification"
	"github.com/jobvault-systems/leads-backend/internal/service"
	"github.com/jobvault-systems/leads-backend/internal/sms"
)

type Handler struct {
	service    *service.Service
	dispatcher *sms.Dispatcher
	channel    notification.Channel
	logger     *logging.Logger
}

func NewHandler(svc *service.Service, dispatcher *sms.Dispatcher, channel notification.Channel, logger *logging.Logger) *Handler {
	return &Handler{
		service:    svc,
		dispatcher: dispatcher,
		channel:    channel,
		logger:     logger,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
