package client

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobvault-systems/leads-backend/internal/models"
)

func TestListFilterQuery(t *testing.T) {
	assert.Equal(t, "", ListFilter{}.query())
	assert.Equal(t, "?status=pending", ListFilter{Status: "pending"}.query())

	q := ListFilter{Search: "acme", Ascending: true}.query()
	assert.Contains(t, q, "search=acme")
	assert.Contains(t, q, "sort=asc")
}

func TestListSubmissions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submissions", r.URL.Path)
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Write([]byte(`{"submissions":[{"id":"id-1","email":"jane@acme.com","status":"pending"}],"stats":{"total":1,"pending":1,"processed":0}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	resp, err := c.ListSubmissions(ListFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, resp.Submissions, 1)
	assert.Equal(t, "jane@acme.com", resp.Submissions[0].Email)
	assert.Equal(t, 1, resp.Stats.Total)
}

func TestUpdateStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/submissions/id-1/status", r.URL.Path)
		w.Write([]byte(`{"id":"id-1","email":"jane@acme.com","status":"contacted"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	sub, err := c.UpdateStatus("id-1", "contacted")
	require.NoError(t, err)
	assert.Equal(t, "contacted", sub.Status)
}

func TestErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Submission not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.UpdateStatus("ghost", "contacted")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Submission not found")
	assert.Contains(t, err.Error(), "404")
}

func TestExportCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submissions/export", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte("ID,Name\nid-1,Jane Doe\n"))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	var buf bytes.Buffer
	require.NoError(t, c.ExportCSV(ListFilter{}, &buf))
	assert.Contains(t, buf.String(), "Jane Doe")
}

func TestSubmitLead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/webhook", r.URL.Path)
		w.Write([]byte(`{"success":true,"id":"id-1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	err := c.SubmitLead(&models.CapturePayload{Email: "jane@acme.com", Source: "hero"})
	assert.NoError(t, err)
}
