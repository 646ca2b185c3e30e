// Package services – LeadService
//
// This file implements LeadService, which owns the Medicare lead lifecycle:
// validation, priority derivation, hot-lead agent assignment, persistence,
// and handoff to the delivery notifier. Priority and the agent snapshot are
// computed exactly once at creation and never recomputed afterwards.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
	"github.com/benefitbuddy/go-leads-backend/internal/utils"
)

// Prioritize derives the lead temperature bucket. Wanting a call today wins
// over every other signal; Medicare proximity signals make a warm lead;
// everything else is cold.
func Prioritize(wantsCallToday, turning65Soon, hasMedicareNow bool) string {
	switch {
	case wantsCallToday:
		return domain.PriorityHot
	case turning65Soon || hasMedicareNow:
		return domain.PriorityWarm
	default:
		return domain.PriorityCold
	}
}

// HashIP returns the SHA-256 hex of a client IP, or "unknown" when the
// address is missing. Only the hash is ever persisted.
func HashIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// LeadService coordinates Medicare lead creation and admin management.
type LeadService struct {
	DB       *gorm.DB
	Delivery *DeliveryService
}

// Create validates the payload, derives priority, assigns a covering agent
// for hot leads, persists the lead, and triggers best-effort delivery on
// both channels. Delivery failures are recorded on the lead and never
// returned to the caller.
func (s *LeadService) Create(ctx context.Context, in LeadInput, ip string) (*domain.Lead, error) {
	tr := otel.Tracer("services/LeadService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	if err := ValidateLead(in); err != nil {
		return nil, err
	}

	priority := Prioritize(in.WantsCallToday, in.Turning65Soon, in.HasMedicareNow)
	span.SetAttributes(attribute.String("lead.priority", priority))

	source := in.Source
	if source == "" {
		source = "medicare_cta"
	}
	matched := in.MatchedPrograms
	if matched == nil {
		matched = []string{}
	}

	lead := &domain.Lead{
		FullName:         strings.TrimSpace(in.FullName),
		Phone:            utils.DigitsOnly(in.Phone),
		PhoneDisplay:     in.Phone,
		Email:            strings.TrimSpace(in.Email),
		ZipCode:          in.ZipCode,
		State:            in.State,
		WantsCallToday:   in.WantsCallToday,
		Turning65Soon:    in.Turning65Soon,
		HasMedicareNow:   in.HasMedicareNow,
		LeadPriority:     priority,
		Consent:          in.Consent,
		ConsentTimestamp: time.Now().UTC(),
		Source:           source,
		MatchedPrograms:  matched,
		IPHash:           HashIP(ip),
	}

	// Hot leads get an agent snapshot before the row is written; the
	// snapshot is immutable afterwards.
	if priority == domain.PriorityHot {
		agent, err := repo.FindCoveringAgent(ctx, s.DB, lead.ZipCode)
		if err != nil {
			return nil, err
		}
		if agent != nil {
			id := agent.ID
			lead.AssignedAgentID = &id
			lead.AssignedAgentName = agent.Name
			lead.AssignedAgentPhone = agent.Phone
			lead.AssignedAgentEmail = agent.Email
		}
	}

	if err := repo.CreateLead(ctx, s.DB, lead); err != nil {
		return nil, err
	}

	// The assignment counter is bumped after the lead write, outside any
	// transaction with it.
	if lead.AssignedAgentID != nil {
		if err := repo.IncrementLeadsAssigned(ctx, s.DB, *lead.AssignedAgentID); err != nil {
			log.Warn().Err(err).Str("agent_id", *lead.AssignedAgentID).Msg("leads_assigned bump failed")
		}
	}

	if s.Delivery != nil {
		s.Delivery.DeliverNew(ctx, lead)
	}
	return lead, nil
}

// Get returns one lead by ID.
func (s *LeadService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	lead, err := repo.GetLead(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrLeadNotFound
	}
	return lead, err
}

// ListPage returns a page of leads matching the admin filters.
func (s *LeadService) ListPage(ctx context.Context, status, priority string, page, pageSize int) ([]domain.Lead, int64, error) {
	tr := otel.Tracer("services/LeadService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(attribute.Int("page", page), attribute.Int("page_size", pageSize)),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := repo.CountLeads(ctx, s.DB, status, priority)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListLeadsPage(ctx, s.DB, status, priority, (page-1)*pageSize, pageSize)
	return items, total, err
}

// UpdateStatus transitions a lead's admin workflow status.
func (s *LeadService) UpdateStatus(ctx context.Context, id, status string) error {
	switch status {
	case domain.LeadStatusNew, domain.LeadStatusContacted, domain.LeadStatusConverted,
		domain.LeadStatusLost, domain.LeadStatusOnHold:
	default:
		return ErrInvalidStatus
	}
	err := repo.UpdateLeadStatus(ctx, s.DB, id, status)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrLeadNotFound
	}
	return err
}

// Delete removes a lead.
func (s *LeadService) Delete(ctx context.Context, id string) error {
	err := repo.DeleteLead(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrLeadNotFound
	}
	return err
}
