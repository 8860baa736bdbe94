package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jobvault-systems/leads-backend/internal/models"
)

// LeadsClient talks to the leads backend admin API.
type LeadsClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func New(baseURL, token string) *LeadsClient {
	return &LeadsClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ListFilter mirrors the admin API query parameters.
type ListFilter struct {
	Search     string
	Status     string
	FormSource string
	StartDate  string
	EndDate    string
	Ascending  bool
}

func (f ListFilter) query() string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.FormSource != "" {
		q.Set("form_source", f.FormSource)
	}
	if f.StartDate != "" {
		q.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("end_date", f.EndDate)
	}
	if f.Ascending {
		q.Set("sort", "asc")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *LeadsClient) doRequest(method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(bodyBytes)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.client.Do(req)
}

func decodeError(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}

// ListSubmissions fetches the filtered triage board.
func (c *LeadsClient) ListSubmissions(filter ListFilter) (*models.ListResponse, error) {
	resp, err := c.doRequest(http.MethodGet, "/submissions"+filter.query(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var out models.ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// UpdateStatus moves a submission to a new triage status.
func (c *LeadsClient) UpdateStatus(id, status string) (*models.Submission, error) {
	resp, err := c.doRequest(http.MethodPut, "/submissions/"+id+"/status", models.UpdateStatusRequest{Status: status})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var out models.Submission
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// ExportCSV streams the filtered board as CSV into w.
func (c *LeadsClient) ExportCSV(filter ListFilter, w io.Writer) error {
	resp, err := c.doRequest(http.MethodGet, "/submissions/export"+filter.query(), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}

// SubmitLead posts a capture payload to the public webhook. Used by seed.
func (c *LeadsClient) SubmitLead(payload *models.CapturePayload) error {
	resp, err := c.doRequest(http.MethodPost, "/webhook", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}
