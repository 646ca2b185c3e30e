package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/benefitbuddy/go-leads-backend/internal/config"
)

// SMSResult reports the outcome of one SMS send. Failures are recorded on
// the owning record, never surfaced to the caller of the HTTP API.
type SMSResult struct {
	Success bool
	SID     string
	Error   string
}

// SMSSender sends a text message to an E.164 number.
type SMSSender interface {
	Send(ctx context.Context, to, body string) SMSResult
}

// TwilioSMS sends messages through the Twilio REST API. When credentials or
// the from-number are missing, sends degrade to a recorded failure so the
// rest of the flow keeps working in development.
type TwilioSMS struct {
	cfg    config.TwilioConfig
	client *http.Client
}

// NewTwilioSMS builds an SMS sender from Twilio configuration.
func NewTwilioSMS(cfg config.TwilioConfig) *TwilioSMS {
	return &TwilioSMS{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one message to the Twilio Messages endpoint.
func (t *TwilioSMS) Send(ctx context.Context, to, body string) SMSResult {
	if strings.TrimSpace(to) == "" {
		return SMSResult{Error: ErrNoRecipient.Error()}
	}
	if t.cfg.AccountSID == "" || t.cfg.AuthToken == "" {
		return SMSResult{Error: "twilio not configured"}
	}
	if t.cfg.FromNumber == "" {
		return SMSResult{Error: "twilio phone number not configured"}
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", t.cfg.AccountSID)
	form := url.Values{
		"To":   {NormalizeUS(to)},
		"From": {t.cfg.FromNumber},
		"Body": {body},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return SMSResult{Error: err.Error()}
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("to", to).Msg("sms send failed")
		return SMSResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := twilioErrorMessage(raw, resp.StatusCode)
		log.Warn().Int("status", resp.StatusCode).Str("to", to).Msg("sms rejected")
		return SMSResult{Error: msg}
	}

	var out struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return SMSResult{Success: true}
	}
	log.Info().Str("sid", out.SID).Msg("sms sent")
	return SMSResult{Success: true, SID: out.SID}
}

func twilioErrorMessage(raw []byte, status int) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("twilio status %d", status)
}

// NormalizeUS converts a free-form US number to E.164. Numbers already
// carrying a leading country code keep it; bare 10-digit numbers get +1.
func NormalizeUS(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	digits := digitsOnly(phone)
	if strings.HasPrefix(digits, "1") && len(digits) == 11 {
		return "+" + digits
	}
	return "+1" + digits
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ErrNoRecipient is returned by callers when a send target is missing.
var ErrNoRecipient = errors.New("no recipient phone number")
