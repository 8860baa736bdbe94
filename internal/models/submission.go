package models

import "time"

// Submission statuses. These are labels, not workflow gates: the triage UI
// may move a submission from any status to any other at any time.
const (
	StatusPending   = "pending"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
)

// Capture surfaces that produce submissions.
const (
	SourceHero       = "hero"
	SourceGetStarted = "get-started"
	SourceHomepage   = "homepage"
)

// PropertyBuckets are the allowed values for the properties field.
var PropertyBuckets = []string{"1-10", "11-50", "51-200", "200+"}

// ValidStatus reports whether s is a recognized triage status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusContacted, StatusQualified, StatusConverted:
		return true
	}
	return false
}

// Submission is one lead-capture event, persisted as a single row.
// Created exactly once by the webhook normalizer, mutated only by triage
// actions (status change, notes edit) and destroyed only by explicit
// triage deletion.
type Submission struct {
	ID              string     `json:"id"`
	Name            *string    `json:"name,omitempty"`
	Email           string     `json:"email"`
	Company         *string    `json:"company,omitempty"`
	Properties      *string    `json:"properties,omitempty"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	Source          string     `json:"source"`
	FormSource      *string    `json:"form_source,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	URL             *string    `json:"url,omitempty"`
	UserAgent       *string    `json:"user_agent,omitempty"`
	IPAddress       *string    `json:"ip_address,omitempty"`
	UTMSource       *string    `json:"utm_source,omitempty"`
	UTMMedium       *string    `json:"utm_medium,omitempty"`
	UTMCampaign     *string    `json:"utm_campaign,omitempty"`
	DeviceType      *string    `json:"device_type,omitempty"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	AssignedTo      *string    `json:"assigned_to,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Processed reports whether a submission has moved past triage intake.
func (s *Submission) Processed() bool {
	return s.Status == StatusContacted || s.Status == StatusQualified || s.Status == StatusConverted
}

// CapturePayload is the raw form payload posted by the capture surfaces
// (hero, get-started, homepage CTA). Only email and source are required;
// everything else is best-effort client context.
type CapturePayload struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	Company     string `json:"company,omitempty"`
	Properties  string `json:"properties,omitempty"`
	Source      string `json:"source"`
	FormSource  string `json:"formSource,omitempty"`
	SubmittedAt string `json:"submittedAt,omitempty"`
	URL         string `json:"url,omitempty"`
	UserAgent   string `json:"userAgent,omitempty"`
	IP          string `json:"ip,omitempty"`
	UTMSource   string `json:"utmSource,omitempty"`
	UTMMedium   string `json:"utmMedium,omitempty"`
	UTMCampaign string `json:"utmCampaign,omitempty"`
	DeviceType  string `json:"deviceType,omitempty"`
}

// ListFilter narrows a submission listing. All set fields compose with
// logical AND. Zero values mean "no constraint".
type ListFilter struct {
	Search     string     // case-insensitive substring over name/email/company
	Status     string     // exact status, "" or "all" disables
	FormSource string     // exact form_source, "" or "all" disables
	StartDate  *time.Time // inclusive lower bound on submitted_at
	EndDate    *time.Time // inclusive upper bound on submitted_at
	Ascending  bool       // sort by submitted_at ascending instead of descending
}

// Stats summarizes the triage board.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Processed int `json:"processed"`
}

// ListResponse is the admin listing payload.
type ListResponse struct {
	Submissions []*Submission `json:"submissions"`
	Stats       Stats         `json:"stats"`
}

// UpdateStatusRequest is the body of PUT /submissions/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateNotesRequest is the body of PUT /submissions/{id}/notes.
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// SendSMSRequest is the body of POST /sms.
type SendSMSRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// SendSMSResponse is the success payload of POST /sms.
type SendSMSResponse struct {
	Success    bool   `json:"success"`
	MessageSID string `json:"messageSid"`
	Message    string `json:"message"`
}
