package server

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jobvault-systems/leads-backend/internal/auth"
	"github.com/jobvault-systems/leads-backend/internal/handlers"
	"github.com/jobvault-systems/leads-backend/internal/middleware"
)

// NewRouter constructs a ServeMux with the capture, triage, and SMS routes
// registered. The admin triage API sits behind the auth guard; the capture
// webhook and SMS endpoint stay public since the marketing site calls them
// anonymously.
func NewRouter(h *handlers.Handler, guard *auth.Guard, cors middleware.CORSConfig) http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("/healthz", h.HealthCheck)
	mux.Handle("/metrics", promhttp.Handler())

	// Capture surface endpoints
	mux.HandleFunc("/webhook", h.HandleWebhook)
	mux.HandleFunc("/sms", h.HandleSendSMS)

	// Admin triage API
	admin := http.NewServeMux()

	admin.HandleFunc("/submissions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			h.ListSubmissions(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	admin.HandleFunc("/submissions/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/submissions/")

		// GET /submissions/export
		if path == "export" {
			if r.Method == http.MethodGet {
				h.ExportSubmissions(w, r)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		// PUT /submissions/:id/status
		if id, ok := strings.CutSuffix(path, "/status"); ok {
			if r.Method == http.MethodPut {
				h.UpdateStatus(w, r, id)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		// PUT /submissions/:id/notes
		if id, ok := strings.CutSuffix(path, "/notes"); ok {
			if r.Method == http.MethodPut {
				h.UpdateNotes(w, r, id)
			} else {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		switch r.Method {
		case http.MethodGet:
			h.GetSubmission(w, r, path)
		case http.MethodDelete:
			h.DeleteSubmission(w, r, path)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.Handle("/submissions", guard.Protect(admin))
	mux.Handle("/submissions/", guard.Protect(admin))

	var handler http.Handler = mux
	handler = middleware.CORS(cors)(handler)
	return middleware.RequestID(handler)
}
