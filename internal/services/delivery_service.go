// Package services – DeliveryService
//
// This file implements the outbound delivery notifier for Medicare leads.
// Each lead has two independent delivery channels: the general pipeline
// webhook and, for hot leads with an assigned agent, the agent's own
// webhook. Every attempt updates the channel's attempt counter and outcome
// on the lead row; attempts are capped, and a channel that has been sent is
// never re-sent unless an admin explicitly resets it.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/benefitbuddy/go-leads-backend/internal/config"
	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/notify"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
	"github.com/benefitbuddy/go-leads-backend/internal/token"
)

// DeliveryService posts lead events to webhooks and records per-channel
// outcomes on the lead row.
type DeliveryService struct {
	DB            *gorm.DB
	Webhook       notify.WebhookSender
	Receipt       *token.Receipt
	Cfg           config.WebhookConfig
	PublicBaseURL string

	// Observe, when set, is called once per attempt with the channel name
	// and whether the send succeeded. The HTTP layer uses it to feed the
	// delivery counters.
	Observe func(channel string, sent bool)
}

// DeliverNew runs the initial best-effort delivery for a freshly created
// lead: the pipeline channel always, the agent channel when the lead is hot
// and its assigned agent has a webhook URL. Failures are recorded, never
// returned.
func (d *DeliveryService) DeliverNew(ctx context.Context, lead *domain.Lead) {
	if err := d.Deliver(ctx, lead, repo.ChannelPipeline); err != nil {
		log.Warn().Err(err).Str("lead_id", lead.ID).Msg("pipeline delivery failed")
	}
	if lead.LeadPriority == domain.PriorityHot && lead.AssignedAgentID != nil {
		if err := d.Deliver(ctx, lead, repo.ChannelAgent); err != nil {
			log.Warn().Err(err).Str("lead_id", lead.ID).Msg("agent delivery failed")
		}
	}
}

// Deliver runs one delivery attempt on a channel, respecting the sent flag
// and the attempt cap, and persists the resulting channel state. The error
// return describes why no successful send happened; callers decide whether
// that is worth surfacing.
func (d *DeliveryService) Deliver(ctx context.Context, lead *domain.Lead, channel string) error {
	tr := otel.Tracer("services/DeliveryService")
	ctx, span := tr.Start(ctx, "Deliver",
		trace.WithAttributes(
			attribute.String("lead.id", lead.ID),
			attribute.String("delivery.channel", channel),
		),
	)
	defer span.End()

	state, err := d.channelState(lead, channel)
	if err != nil {
		return err
	}
	if state.Sent {
		return ErrDeliveryAlreadySent
	}
	if state.AttemptCount >= d.maxAttempts() {
		return ErrDeliveryExhausted
	}

	url, payload, err := d.destination(ctx, lead, channel, state)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	state.AttemptCount++
	state.LastAttemptAt = &now
	if state.WebhookID == "" {
		state.WebhookID = uuid.NewString()
	}

	sendErr := d.Webhook.Post(ctx, url, payload)
	if sendErr != nil {
		state.LastError = sendErr.Error()
	} else {
		state.Sent = true
		state.LastError = ""
	}
	if d.Observe != nil {
		d.Observe(channel, sendErr == nil)
	}

	if err := repo.SaveDeliveryState(ctx, d.DB, lead.ID, channel, *state); err != nil {
		log.Error().Err(err).Str("lead_id", lead.ID).Str("channel", channel).Msg("delivery state write failed")
	}
	d.applyState(lead, channel, *state)
	return sendErr
}

// Retry resets a channel's attempt counter and re-runs delivery. A channel
// that has already been sent returns ErrDeliveryAlreadySent without touching
// its counters.
func (d *DeliveryService) Retry(ctx context.Context, leadID, channel string) (*domain.Lead, error) {
	lead, err := repo.GetLead(ctx, d.DB, leadID)
	if err != nil {
		return nil, ErrLeadNotFound
	}
	state, err := d.channelState(lead, channel)
	if err != nil {
		return nil, err
	}
	if state.Sent {
		return nil, ErrDeliveryAlreadySent
	}

	state.AttemptCount = 0
	state.LastError = ""
	d.applyState(lead, channel, *state)

	if err := d.Deliver(ctx, lead, channel); err != nil {
		return lead, err
	}
	return lead, nil
}

func (d *DeliveryService) maxAttempts() int {
	if d.Cfg.MaxAttempts > 0 {
		return d.Cfg.MaxAttempts
	}
	return 3
}

func (d *DeliveryService) channelState(lead *domain.Lead, channel string) (*domain.DeliveryState, error) {
	switch channel {
	case repo.ChannelPipeline:
		st := lead.Pipeline
		return &st, nil
	case repo.ChannelAgent:
		st := lead.AgentDelivery
		return &st, nil
	}
	return nil, ErrUnknownChannel
}

func (d *DeliveryService) applyState(lead *domain.Lead, channel string, st domain.DeliveryState) {
	switch channel {
	case repo.ChannelPipeline:
		lead.Pipeline = st
	case repo.ChannelAgent:
		lead.AgentDelivery = st
	}
}

// destination resolves the channel's URL and payload. The pipeline channel
// receives the standard lead event; the agent channel additionally carries
// the HMAC receipt link that lets the agent open the lead.
func (d *DeliveryService) destination(ctx context.Context, lead *domain.Lead, channel string, st *domain.DeliveryState) (string, any, error) {
	snapshot := map[string]any{
		"id":               lead.ID,
		"full_name":        lead.FullName,
		"phone":            lead.PhoneDisplay,
		"zip_code":         lead.ZipCode,
		"state":            lead.State,
		"matched_programs": lead.MatchedPrograms,
		"created_at":       lead.CreatedAt,
	}
	webhookID := st.WebhookID
	if webhookID == "" {
		webhookID = uuid.NewString()
		st.WebhookID = webhookID
	}

	switch channel {
	case repo.ChannelPipeline:
		if d.Cfg.LeadsURL == "" {
			return "", nil, ErrNoDestination
		}
		return d.Cfg.LeadsURL, map[string]any{
			"source":              "benefitbuddy_leads",
			"type":                "medicare_lead",
			"lead_id":             lead.ID,
			"delivery_webhook_id": webhookID,
			"lead":                snapshot,
		}, nil

	case repo.ChannelAgent:
		if lead.AssignedAgentID == nil {
			return "", nil, ErrNoDestination
		}
		agent, err := repo.GetAgent(ctx, d.DB, *lead.AssignedAgentID)
		if err != nil || agent.WebhookURL == "" {
			return "", nil, ErrNoDestination
		}
		payload := map[string]any{
			"source":              "benefitbuddy_leads",
			"type":                "hot_lead_assignment",
			"lead_id":             lead.ID,
			"delivery_webhook_id": webhookID,
			"lead":                snapshot,
			"agent": map[string]any{
				"id":   agent.ID,
				"name": agent.Name,
			},
		}
		if d.Receipt != nil {
			payload["receipt_url"] = d.Receipt.URL(d.PublicBaseURL, lead.ID, agent.ID, lead.CreatedAt)
		}
		return agent.WebhookURL, payload, nil
	}
	return "", nil, ErrUnknownChannel
}
