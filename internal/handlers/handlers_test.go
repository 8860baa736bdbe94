package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobvault-systems/leads-backend/internal/logging"
	"github.com/jobvault-systems/leads-backend/internal/models"
	"github.com/jobvault-systems/leads-backend/internal/repository"
	"github.com/jobvault-systems/leads-backend/internal/service"
	"github.com/jobvault-systems/leads-backend/internal/sms"
)

func newTestHandler(t *testing.T) (*Handler, *repository.InMemoryRepository) {
	t.Helper()
	repo := repository.NewInMemoryRepository()
	svc := service.NewService(repo, "jv_pm")
	logger := logging.New(slog.LevelError, "text")
	dispatcher := sms.NewDispatcher("", "", "", logger)
	return NewHandler(svc, dispatcher, nil, logger), repo
}

func TestHealthCheck(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestHandleWebhook(t *testing.T) {
	t.Run("valid payload stored", func(t *testing.T) {
		h, repo := newTestHandler(t)

		body := `{"name":"Jane Doe","email":"jane@acme.com","company":"Acme","properties":"11-50","source":"get-started","formSource":"get-started"}`
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.HandleWebhook(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success bool   `json:"success"`
			ID      string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.NotEmpty(t, resp.ID)

		sub, err := repo.GetByID(req.Context(), resp.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, sub.Status)
		assert.Equal(t, "jane@acme.com", sub.Email)
	})

	t.Run("missing email is a 400", func(t *testing.T) {
		h, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"source":"hero"}`))
		rec := httptest.NewRecorder()
		h.HandleWebhook(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "email is required")
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		h, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"email":`))
		rec := httptest.NewRecorder()
		h.HandleWebhook(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("GET is rejected", func(t *testing.T) {
		h, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
		rec := httptest.NewRecorder()
		h.HandleWebhook(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("client context falls back to request headers", func(t *testing.T) {
		h, repo := newTestHandler(t)

		body := `{"email":"jane@acme.com","source":"hero"}`
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)")
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		h.HandleWebhook(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		sub, err := repo.GetByID(req.Context(), resp.ID)
		require.NoError(t, err)
		require.NotNil(t, sub.IPAddress)
		assert.Equal(t, "203.0.113.9", *sub.IPAddress)
		require.NotNil(t, sub.DeviceType)
		assert.Equal(t, "mobile", *sub.DeviceType)
	})
}

func TestAdminHandlers(t *testing.T) {
	h, repo := newTestHandler(t)

	// Seed through the webhook so timestamps and defaults are realistic.
	seed := func(email, name string) string {
		body := fmt.Sprintf(`{"name":%q,"email":%q,"source":"get-started","formSource":"get-started"}`, name, email)
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.HandleWebhook(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.ID
	}

	id := seed("jane@acme.com", "Jane Doe")
	seed("bob@beta.io", "Bob Burns")

	t.Run("list returns submissions with stats", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/submissions", nil)
		rec := httptest.NewRecorder()
		h.ListSubmissions(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.ListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Submissions, 2)
		assert.Equal(t, 2, resp.Stats.Total)
		assert.Equal(t, 2, resp.Stats.Pending)
		assert.Equal(t, 0, resp.Stats.Processed)
	})

	t.Run("search narrows the list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/submissions?search=jane", nil)
		rec := httptest.NewRecorder()
		h.ListSubmissions(rec, req)

		var resp models.ListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Submissions, 1)
		assert.Equal(t, "jane@acme.com", resp.Submissions[0].Email)
	})

	t.Run("get single submission", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/submissions/"+id, nil)
		rec := httptest.NewRecorder()
		h.GetSubmission(rec, req, id)

		require.Equal(t, http.StatusOK, rec.Code)
		var sub models.Submission
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.Equal(t, "jane@acme.com", sub.Email)
	})

	t.Run("get missing submission is a 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/submissions/ghost", nil)
		rec := httptest.NewRecorder()
		h.GetSubmission(rec, req, "ghost")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("status change to contacted stamps last_contacted_at", func(t *testing.T) {
		body := `{"status":"contacted"}`
		req := httptest.NewRequest(http.MethodPut, "/submissions/"+id+"/status", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.UpdateStatus(rec, req, id)

		require.Equal(t, http.StatusOK, rec.Code)
		var sub models.Submission
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.Equal(t, models.StatusContacted, sub.Status)
		assert.NotNil(t, sub.LastContactedAt)
	})

	t.Run("status change away from contacted clears it", func(t *testing.T) {
		body := `{"status":"qualified"}`
		req := httptest.NewRequest(http.MethodPut, "/submissions/"+id+"/status", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.UpdateStatus(rec, req, id)

		require.Equal(t, http.StatusOK, rec.Code)
		var sub models.Submission
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.Equal(t, models.StatusQualified, sub.Status)
		assert.Nil(t, sub.LastContactedAt)
	})

	t.Run("unknown status is a 400", func(t *testing.T) {
		body := `{"status":"archived"}`
		req := httptest.NewRequest(http.MethodPut, "/submissions/"+id+"/status", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.UpdateStatus(rec, req, id)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("notes update", func(t *testing.T) {
		body := `{"notes":"left voicemail, call back Monday"}`
		req := httptest.NewRequest(http.MethodPut, "/submissions/"+id+"/notes", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.UpdateNotes(rec, req, id)

		require.Equal(t, http.StatusOK, rec.Code)
		var sub models.Submission
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		require.NotNil(t, sub.Notes)
		assert.Equal(t, "left voicemail, call back Monday", *sub.Notes)
	})

	t.Run("export streams csv with attachment headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/submissions/export", nil)
		rec := httptest.NewRecorder()
		h.ExportSubmissions(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "jobvault-jv_pm-")

		records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, 3) // header + 2 rows
	})

	t.Run("delete removes the row", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/submissions/"+id, nil)
		rec := httptest.NewRecorder()
		h.DeleteSubmission(rec, req, id)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)

		_, err := repo.GetByID(req.Context(), id)
		assert.ErrorIs(t, err, repository.ErrSubmissionNotFound)
	})

	t.Run("delete missing is a 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/submissions/"+id, nil)
		rec := httptest.NewRecorder()
		h.DeleteSubmission(rec, req, id)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleSendSMS(t *testing.T) {
	newSMSHandler := func(t *testing.T, provider http.HandlerFunc) *Handler {
		t.Helper()
		logger := logging.New(slog.LevelError, "text")
		repo := repository.NewInMemoryRepository()
		svc := service.NewService(repo, "jv_pm")
		dispatcher := sms.NewDispatcher("AC123", "token", "+12625018982", logger)
		if provider != nil {
			srv := httptest.NewServer(provider)
			t.Cleanup(srv.Close)
			dispatcher.SetBaseURL(srv.URL)
		}
		return NewHandler(svc, dispatcher, nil, logger)
	}

	t.Run("missing phone number", func(t *testing.T) {
		h := newSMSHandler(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		h.HandleSendSMS(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Phone number is required")
	})

	t.Run("too short phone number", func(t *testing.T) {
		h := newSMSHandler(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(`{"phoneNumber":"1234"}`))
		rec := httptest.NewRecorder()
		h.HandleSendSMS(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid phone number")
	})

	t.Run("provider error surfaces as 500 with code", func(t *testing.T) {
		h := newSMSHandler(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code": 21608, "message": "unverified number", "status": 400}`))
		})

		req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(`{"phoneNumber":"5551234567"}`))
		rec := httptest.NewRecorder()
		h.HandleSendSMS(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to send SMS")
		assert.Contains(t, rec.Body.String(), "21608")
	})

	t.Run("successful dispatch", func(t *testing.T) {
		h := newSMSHandler(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"sid":"SM42"}`))
		})

		req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(`{"phoneNumber":"(555) 123-4567"}`))
		rec := httptest.NewRecorder()
		h.HandleSendSMS(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.SendSMSResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "SM42", resp.MessageSID)
	})
}
