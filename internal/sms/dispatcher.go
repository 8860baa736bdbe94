package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jobvault-systems/leads-backend/internal/logging"
	"github.com/jobvault-systems/leads-backend/internal/metrics"
)

// demoMessageBody is the fixed A2P-compliant demo request template.
const demoMessageBody = "JobVault: Demo requested. Our team will call you within 24hrs to discuss property expense management solutions. Reply STOP to opt out."

// minPhoneDigits is the minimum digit count accepted before dialing out.
const minPhoneDigits = 10

const defaultProviderBaseURL = "https://api.twilio.com"

// ErrInvalidPhoneNumber is returned for inputs rejected before any provider
// call (too few digits).
var ErrInvalidPhoneNumber = errors.New("invalid phone number")

// ErrNotConfigured is returned when provider credentials were absent at
// startup. Missing credentials are a logged configuration error, not a
// startup failure; they surface here on first use.
var ErrNotConfigured = errors.New("messaging provider not configured")

// ProviderError carries the error code and message reported by the
// messaging provider.
type ProviderError struct {
	Code    int
	Message string
	Status  int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// Dispatcher sends the fixed demo-request SMS through the Twilio Messages
// API. One attempt per call: no retry, no deduplication.
type Dispatcher struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	client     *http.Client
	logger     *logging.Logger
}

func NewDispatcher(accountSID, authToken, fromNumber string, logger *logging.Logger) *Dispatcher {
	if accountSID == "" || authToken == "" || fromNumber == "" {
		logger.Error("missing messaging provider configuration",
			"account_sid_set", accountSID != "",
			"auth_token_set", authToken != "",
			"from_number_set", fromNumber != "",
		)
	}

	return &Dispatcher{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		baseURL:    defaultProviderBaseURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// SetBaseURL overrides the provider endpoint. Used by tests.
func (d *Dispatcher) SetBaseURL(u string) {
	d.baseURL = u
}

// Normalize converts a free-form phone input to canonical E.164 dialable
// form: all non-digits stripped, a single +1 country code prefixed. An
// eleven-digit number already carrying the country code is accepted as-is.
// Inputs with fewer than 10 digits are rejected.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}

	if len(digits) < minPhoneDigits {
		return "", fmt.Errorf("%w: need at least %d digits, got %d", ErrInvalidPhoneNumber, minPhoneDigits, len(digits))
	}

	return "+1" + digits, nil
}

type providerResponse struct {
	SID     string `json:"sid"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// SendDemoRequest normalizes the phone number and asks the provider to send
// the fixed demo-request message. Returns the provider-assigned message SID
// on success. Invalid input never reaches the provider.
func (d *Dispatcher) SendDemoRequest(ctx context.Context, phoneNumber string) (string, error) {
	to, err := Normalize(phoneNumber)
	if err != nil {
		metrics.SMSDispatchTotal.WithLabelValues("rejected").Inc()
		return "", err
	}

	if d.accountSID == "" || d.authToken == "" || d.fromNumber == "" {
		metrics.SMSDispatchTotal.WithLabelValues("unconfigured").Inc()
		return "", ErrNotConfigured
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", d.fromNumber)
	form.Set("Body", demoMessageBody)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", d.baseURL, d.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(d.accountSID, d.authToken)

	d.logger.InfoContext(ctx, "dispatching demo sms", "to", to)

	resp, err := d.client.Do(req)
	if err != nil {
		metrics.SMSDispatchTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	var pr providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		metrics.SMSDispatchTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("decode provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.SMSDispatchTotal.WithLabelValues("provider_error").Inc()
		d.logger.ErrorContext(ctx, "provider rejected sms",
			"http_status", resp.StatusCode,
			"code", pr.Code,
			"message", pr.Message,
		)
		return "", &ProviderError{Code: pr.Code, Message: pr.Message, Status: resp.StatusCode}
	}

	metrics.SMSDispatchTotal.WithLabelValues("sent").Inc()
	d.logger.InfoContext(ctx, "sms sent", "message_sid", pr.SID)

	return pr.SID, nil
}
