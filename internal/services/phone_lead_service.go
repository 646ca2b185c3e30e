// Package services – PhoneLeadService
//
// This file implements the voice IVR flow state: one PhoneLead row per call
// SID, updated step by step as the caller answers prompts. Input parsing
// (service type keywords, urgency detection) lives here as pure functions;
// the HTTP layer only renders TwiML around the decisions made in this file.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/notify"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
)

// Service types callers can select in the IVR.
const (
	ServicePlumbing = "plumbing"
	ServiceFunding  = "funding"
	ServiceCarHelp  = "car_help"
	ServiceGeneral  = "general"
)

// urgentKeywords flag a caller's speech as a hot lead.
var urgentKeywords = []string{
	"urgent", "emergency", "asap", "right now", "immediately", "today", "help now",
}

// ParseServiceType maps DTMF digits or recognized speech to a service type.
// Returns "" when the input matches nothing.
func ParseServiceType(input string) string {
	n := strings.ToLower(strings.TrimSpace(input))
	if n == "" {
		return ""
	}
	switch n {
	case "1", "plumbing":
		return ServicePlumbing
	case "2", "funding":
		return ServiceFunding
	case "3", "car", "car help":
		return ServiceCarHelp
	}
	switch {
	case strings.Contains(n, "plumb"), strings.Contains(n, "pipe"), strings.Contains(n, "leak"), strings.Contains(n, "one"):
		return ServicePlumbing
	case strings.Contains(n, "fund"), strings.Contains(n, "money"), strings.Contains(n, "loan"), strings.Contains(n, "two"):
		return ServiceFunding
	case strings.Contains(n, "car"), strings.Contains(n, "auto"), strings.Contains(n, "vehicle"), strings.Contains(n, "three"):
		return ServiceCarHelp
	}
	return ""
}

// IsHotLead reports whether the caller's speech contains urgency keywords.
func IsHotLead(speech string) bool {
	if speech == "" {
		return false
	}
	n := strings.ToLower(speech)
	for _, k := range urgentKeywords {
		if strings.Contains(n, k) {
			return true
		}
	}
	return false
}

// ServiceSpokenName is the phrasing used in voice prompts.
func ServiceSpokenName(serviceType string) string {
	switch serviceType {
	case ServicePlumbing:
		return "plumbing services"
	case ServiceFunding:
		return "funding assistance"
	case ServiceCarHelp:
		return "car help services"
	}
	return serviceType
}

var serviceTitleCaser = cases.Title(language.AmericanEnglish)

// ServiceDisplayName is the human-readable name used in SMS alerts
// ("car_help" becomes "Car Help").
func ServiceDisplayName(serviceType string) string {
	if serviceType == "" {
		return "N/A"
	}
	return serviceTitleCaser.String(strings.ReplaceAll(serviceType, "_", " "))
}

// PhoneLeadService persists IVR call state and sends the admin alert.
type PhoneLeadService struct {
	DB         *gorm.DB
	SMS        notify.SMSSender
	AdminPhone string
}

// StartCall ensures a PhoneLead row exists for the call SID. Twilio retries
// webhooks, so an existing row is left untouched.
func (s *PhoneLeadService) StartCall(ctx context.Context, callSID, from, to string) error {
	tr := otel.Tracer("services/PhoneLeadService")
	ctx, span := tr.Start(ctx, "StartCall",
		trace.WithAttributes(attribute.String("call.sid", callSID)),
	)
	defer span.End()

	_, err := repo.GetPhoneLeadByCallSID(ctx, s.DB, callSID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	return repo.CreatePhoneLead(ctx, s.DB, &domain.PhoneLead{
		CallSID:          callSID,
		Phone:            from,
		ToNumber:         to,
		SpeechTranscript: []domain.TranscriptEntry{},
	})
}

// RecordZip stores a validated 5-digit ZIP and appends the transcript entry.
func (s *PhoneLeadService) RecordZip(ctx context.Context, callSID, rawInput, zip string) error {
	err := repo.AppendTranscript(ctx, s.DB, callSID,
		domain.TranscriptEntry{Step: "zip_code", Input: rawInput, Parsed: zip},
		map[string]any{"zip_code": zip},
	)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCallNotFound
	}
	return err
}

// RecordService stores the parsed service type and hot flag with the
// transcript entry.
func (s *PhoneLeadService) RecordService(ctx context.Context, callSID, rawInput, serviceType string, isHot bool) error {
	err := repo.AppendTranscript(ctx, s.DB, callSID,
		domain.TranscriptEntry{Step: "service_type", Input: rawInput, Parsed: serviceType},
		map[string]any{"service_type": serviceType, "is_hot": isHot},
	)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCallNotFound
	}
	return err
}

// DefaultService marks the call as a general request after repeated invalid
// selections, without a transcript entry.
func (s *PhoneLeadService) DefaultService(ctx context.Context, callSID string) error {
	err := repo.UpdatePhoneLead(ctx, s.DB, callSID, map[string]any{"service_type": ServiceGeneral})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCallNotFound
	}
	return err
}

// CompleteCallback stores the final callback number, marks the call
// completed, sends the admin SMS alert, and returns the updated lead.
// The alert outcome is recorded on the row and never fails the step.
func (s *PhoneLeadService) CompleteCallback(ctx context.Context, callSID, rawInput, callback string) (*domain.PhoneLead, error) {
	tr := otel.Tracer("services/PhoneLeadService")
	ctx, span := tr.Start(ctx, "CompleteCallback",
		trace.WithAttributes(attribute.String("call.sid", callSID)),
	)
	defer span.End()

	err := repo.AppendTranscript(ctx, s.DB, callSID,
		domain.TranscriptEntry{Step: "callback_number", Input: rawInput, Parsed: callback},
		map[string]any{
			"callback_number": callback,
			"call_status":     domain.CallStatusCompleted,
		},
	)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCallNotFound
	}
	if err != nil {
		return nil, err
	}

	lead, err := repo.GetPhoneLeadByCallSID(ctx, s.DB, callSID)
	if err != nil {
		return nil, err
	}

	if s.AdminPhone != "" && s.SMS != nil {
		res := s.SMS.Send(ctx, s.AdminPhone, s.alertMessage(lead))
		cols := map[string]any{
			"sms_alert_sent":  res.Success,
			"sms_alert_sid":   res.SID,
			"sms_alert_error": res.Error,
		}
		if uerr := repo.UpdatePhoneLead(ctx, s.DB, callSID, cols); uerr != nil {
			log.Warn().Err(uerr).Str("call_sid", callSID).Msg("sms alert status write failed")
		}
		lead.SMSAlertSent = res.Success
		lead.SMSAlertSID = res.SID
		lead.SMSAlertError = res.Error
	}
	return lead, nil
}

// MarkTransferred records that the caller is being bridged to the admin.
func (s *PhoneLeadService) MarkTransferred(ctx context.Context, callSID, to string) error {
	return repo.UpdatePhoneLead(ctx, s.DB, callSID, map[string]any{
		"transferred":    true,
		"transferred_to": to,
	})
}

// RecordTransferOutcome stores the bridge result reported by the telephony
// provider after the Dial completes.
func (s *PhoneLeadService) RecordTransferOutcome(ctx context.Context, callSID, status string, duration int) error {
	err := repo.UpdatePhoneLead(ctx, s.DB, callSID, map[string]any{
		"transfer_status":   status,
		"transfer_duration": duration,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCallNotFound
	}
	return err
}

// Get returns the phone lead for a call SID.
func (s *PhoneLeadService) Get(ctx context.Context, callSID string) (*domain.PhoneLead, error) {
	lead, err := repo.GetPhoneLeadByCallSID(ctx, s.DB, callSID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCallNotFound
	}
	return lead, err
}

func (s *PhoneLeadService) alertMessage(lead *domain.PhoneLead) string {
	hot := ""
	if lead.IsHot {
		hot = "HOT LEAD - URGENT!\n"
	}
	callback := lead.CallbackNumber
	if callback == "" {
		callback = "N/A"
	}
	zip := lead.ZipCode
	if zip == "" {
		zip = "N/A"
	}
	return fmt.Sprintf(
		"NEW PHONE LEAD!\n\nPhone: %s\nZIP: %s\nService: %s\nCallback: %s\n%sTime: %s",
		lead.Phone, zip, ServiceDisplayName(lead.ServiceType), callback, hot,
		time.Now().UTC().Format(time.RFC1123),
	)
}
