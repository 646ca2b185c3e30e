// Package services – AdvisorService
//
// This file implements the phone-callback flow: a caller leaves their name,
// number, and ZIP; the service stores the request, picks the best advisor
// by ZIP prefix (falling back to the default advisor, then any active one),
// and notifies both sides by SMS. SMS outcomes are recorded on the row and
// never fail the request.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/notify"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
)

// AdvisorService owns advisor records and the callback-request flow.
type AdvisorService struct {
	DB  *gorm.DB
	SMS notify.SMSSender
}

// CreateLead validates and stores a callback request, assigns an advisor,
// and sends the two notification texts. The returned record reflects the
// final assignment and SMS statuses.
func (s *AdvisorService) CreateLead(ctx context.Context, in AdvisorLeadInput) (*domain.AdvisorLead, *domain.Advisor, error) {
	tr := otel.Tracer("services/AdvisorService")
	ctx, span := tr.Start(ctx, "CreateLead")
	defer span.End()

	if err := ValidateAdvisorLead(in); err != nil {
		return nil, nil, err
	}

	phoneDigits := digits(in.Phone)
	lead := &domain.AdvisorLead{
		FirstName:       strings.TrimSpace(in.FirstName),
		Phone:           in.Phone,
		PhoneNormalized: "+1" + phoneDigits[len(phoneDigits)-10:],
		Zip:             in.Zip,
		Consent:         true,
		Answers:         in.Answers,
	}
	if lead.Answers == nil {
		lead.Answers = map[string]string{}
	}
	if err := repo.CreateAdvisorLead(ctx, s.DB, lead); err != nil {
		return nil, nil, err
	}

	advisor, err := s.Match(ctx, in.Zip)
	if err != nil {
		return nil, nil, err
	}
	if advisor == nil {
		return lead, nil, nil
	}
	span.SetAttributes(attribute.String("advisor.id", advisor.ID))

	id := advisor.ID
	lead.AssignedAdvisorID = &id
	lead.Status = "assigned"
	if err := repo.UpdateAdvisorLead(ctx, s.DB, lead.ID, map[string]any{
		"assigned_advisor_id": id,
		"status":              "assigned",
	}); err != nil {
		return nil, nil, err
	}

	advisorRes := s.smsToAdvisor(ctx, advisor, lead)
	leadRes := s.smsToLead(ctx, lead)

	cols := map[string]any{
		"advisor_sms_status": smsStatus(advisorRes),
		"advisor_sms_error":  advisorRes.Error,
		"advisor_sms_sid":    advisorRes.SID,
		"lead_sms_status":    smsStatus(leadRes),
		"lead_sms_error":     leadRes.Error,
		"lead_sms_sid":       leadRes.SID,
	}
	if err := repo.UpdateAdvisorLead(ctx, s.DB, lead.ID, cols); err != nil {
		log.Warn().Err(err).Str("lead_id", lead.ID).Msg("sms status write failed")
	}
	lead.AdvisorSMSStatus = smsStatus(advisorRes)
	lead.AdvisorSMSError = advisorRes.Error
	lead.AdvisorSMSSID = advisorRes.SID
	lead.LeadSMSStatus = smsStatus(leadRes)
	lead.LeadSMSError = leadRes.Error
	lead.LeadSMSSID = leadRes.SID

	return lead, advisor, nil
}

// Match picks the advisor for a ZIP: first an active advisor whose prefixes
// contain the 2-digit prefix, 3-digit prefix, or exact ZIP; then the active
// default advisor; then any active advisor. Returns (nil, nil) when no
// active advisor exists at all.
func (s *AdvisorService) Match(ctx context.Context, zip string) (*domain.Advisor, error) {
	tr := otel.Tracer("services/AdvisorService")
	ctx, span := tr.Start(ctx, "Match",
		trace.WithAttributes(attribute.String("zip", zip)),
	)
	defer span.End()

	active, err := repo.ListActiveAdvisors(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}

	wanted := []string{zip[:2], zip[:3], zip}
	for i := range active {
		for _, p := range active[i].ZipPrefixes {
			for _, w := range wanted {
				if p == w {
					return &active[i], nil
				}
			}
		}
	}
	for i := range active {
		if active[i].IsDefault {
			return &active[i], nil
		}
	}
	return &active[0], nil
}

func (s *AdvisorService) smsToAdvisor(ctx context.Context, advisor *domain.Advisor, lead *domain.AdvisorLead) notify.SMSResult {
	if s.SMS == nil {
		return notify.SMSResult{Error: "twilio not configured"}
	}
	if advisor.Phone == "" {
		return notify.SMSResult{Error: "advisor has no phone number"}
	}
	msg := fmt.Sprintf(
		"BenefitBuddy Lead!\n\nName: %s\nZIP: %s\nPhone: %s\nLead ID: %s...\n\nPlease contact them soon!",
		lead.FirstName, lead.Zip, lead.Phone, lead.ID[:8],
	)
	return s.SMS.Send(ctx, advisor.Phone, msg)
}

func (s *AdvisorService) smsToLead(ctx context.Context, lead *domain.AdvisorLead) notify.SMSResult {
	if s.SMS == nil {
		return notify.SMSResult{Error: "twilio not configured"}
	}
	msg := fmt.Sprintf(
		"BenefitBuddy: We received your request, %s! A licensed advisor may contact you soon to help with your benefits. This is a free service with no obligation. Reply STOP to opt out.",
		lead.FirstName,
	)
	return s.SMS.Send(ctx, lead.PhoneNormalized, msg)
}

func smsStatus(r notify.SMSResult) string {
	if r.Success {
		return "sent"
	}
	return "failed"
}

// --- advisor record management ---

// CreateAdvisor stores a new advisor record.
func (s *AdvisorService) CreateAdvisor(ctx context.Context, a *domain.Advisor) error {
	return repo.CreateAdvisor(ctx, s.DB, a)
}

// ListAdvisors returns every advisor.
func (s *AdvisorService) ListAdvisors(ctx context.Context) ([]domain.Advisor, error) {
	return repo.ListAdvisors(ctx, s.DB)
}

// UpdateAdvisor applies a column map to an advisor record.
func (s *AdvisorService) UpdateAdvisor(ctx context.Context, id string, cols map[string]any) error {
	err := repo.UpdateAdvisor(ctx, s.DB, id, cols)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAdvisorNotFound
	}
	return err
}

// DeleteAdvisor removes an advisor record.
func (s *AdvisorService) DeleteAdvisor(ctx context.Context, id string) error {
	err := repo.DeleteAdvisor(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAdvisorNotFound
	}
	return err
}
