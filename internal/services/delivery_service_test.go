package services

import (
	"context"
	"errors"
	"testing"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
)

func seedLead(t *testing.T, svc *LeadService, hot bool) *domain.Lead {
	t.Helper()
	in := validLeadInput()
	in.WantsCallToday = hot
	lead, err := svc.Create(context.Background(), in, "ip")
	if err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	return lead
}

func TestDelivery_SuccessMarksSent(t *testing.T) {
	db := newTestDB(t)
	wh := &fakeWebhook{}
	d := newDeliverySvc(db, wh)
	lead := seedLead(t, &LeadService{DB: db, Delivery: d}, false)

	got, err := repo.GetLead(context.Background(), db, lead.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.Pipeline.Sent {
		t.Fatalf("pipeline not sent: %+v", got.Pipeline)
	}
	if got.Pipeline.AttemptCount != 1 {
		t.Fatalf("attempt_count = %d, want 1", got.Pipeline.AttemptCount)
	}
	if got.Pipeline.LastAttemptAt == nil || got.Pipeline.WebhookID == "" {
		t.Fatalf("delivery metadata missing: %+v", got.Pipeline)
	}
}

func TestDelivery_FailureRecordsErrorWithoutFailingCreate(t *testing.T) {
	db := newTestDB(t)
	wh := &fakeWebhook{err: errors.New("connection refused")}
	d := newDeliverySvc(db, wh)

	lead := seedLead(t, &LeadService{DB: db, Delivery: d}, false)

	got, err := repo.GetLead(context.Background(), db, lead.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Pipeline.Sent {
		t.Fatal("failed delivery must not be marked sent")
	}
	if got.Pipeline.AttemptCount != 1 || got.Pipeline.LastError == "" {
		t.Fatalf("outcome not recorded: %+v", got.Pipeline)
	}
}

func TestDelivery_AttemptCapStopsFurtherSends(t *testing.T) {
	db := newTestDB(t)
	wh := &fakeWebhook{err: errors.New("boom")}
	d := newDeliverySvc(db, wh)
	lead := seedLead(t, &LeadService{DB: db, Delivery: d}, false)

	for i := 0; i < 2; i++ {
		fresh, _ := repo.GetLead(context.Background(), db, lead.ID)
		if err := d.Deliver(context.Background(), fresh, repo.ChannelPipeline); err == nil {
			t.Fatal("expected failure")
		}
	}

	fresh, _ := repo.GetLead(context.Background(), db, lead.ID)
	if fresh.Pipeline.AttemptCount != 3 {
		t.Fatalf("attempt_count = %d, want 3", fresh.Pipeline.AttemptCount)
	}
	if err := d.Deliver(context.Background(), fresh, repo.ChannelPipeline); !errors.Is(err, ErrDeliveryExhausted) {
		t.Fatalf("expected ErrDeliveryExhausted, got %v", err)
	}
	if wh.count() != 3 {
		t.Fatalf("webhook calls = %d, want 3", wh.count())
	}
}

func TestDelivery_RetryOnSentChannelIsRejected(t *testing.T) {
	db := newTestDB(t)
	wh := &fakeWebhook{}
	d := newDeliverySvc(db, wh)
	lead := seedLead(t, &LeadService{DB: db, Delivery: d}, false)

	before, _ := repo.GetLead(context.Background(), db, lead.ID)
	if !before.Pipeline.Sent {
		t.Fatalf("precondition: pipeline should be sent")
	}

	_, err := d.Retry(context.Background(), lead.ID, repo.ChannelPipeline)
	if !errors.Is(err, ErrDeliveryAlreadySent) {
		t.Fatalf("expected ErrDeliveryAlreadySent, got %v", err)
	}

	after, _ := repo.GetLead(context.Background(), db, lead.ID)
	if after.Pipeline.AttemptCount != before.Pipeline.AttemptCount {
		t.Fatalf("attempt_count changed: %d -> %d", before.Pipeline.AttemptCount, after.Pipeline.AttemptCount)
	}
}

func TestDelivery_RetryResetsCounterAndResends(t *testing.T) {
	db := newTestDB(t)
	wh := &fakeWebhook{err: errors.New("boom")}
	d := newDeliverySvc(db, wh)
	lead := seedLead(t, &LeadService{DB: db, Delivery: d}, false)

	// Exhaust the budget.
	for i := 0; i < 2; i++ {
		fresh, _ := repo.GetLead(context.Background(), db, lead.ID)
		d.Deliver(context.Background(), fresh, repo.ChannelPipeline)
	}

	// Destination recovers; admin retries.
	wh.err = nil
	got, err := d.Retry(context.Background(), lead.ID, repo.ChannelPipeline)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !got.Pipeline.Sent || got.Pipeline.AttemptCount != 1 {
		t.Fatalf("retry outcome: %+v", got.Pipeline)
	}
}

func TestDelivery_AgentChannelCarriesReceiptURL(t *testing.T) {
	db := newTestDB(t)
	agent := &domain.Agent{
		Name:        "Ada",
		WebhookURL:  "https://agent.example/hook",
		CoveredZips: []string{"30301"},
		IsActive:    true,
	}
	if err := repo.CreateAgent(context.Background(), db, agent); err != nil {
		t.Fatal(err)
	}

	wh := &fakeWebhook{}
	d := newDeliverySvc(db, wh)
	lead := seedLead(t, &LeadService{DB: db, Delivery: d}, true)

	if lead.AssignedAgentID == nil {
		t.Fatal("precondition: lead should be assigned")
	}
	if wh.count() != 2 {
		t.Fatalf("webhook calls = %d, want 2 (pipeline + agent)", wh.count())
	}

	agentCall := wh.calls[1]
	if agentCall.URL != "https://agent.example/hook" {
		t.Fatalf("agent url = %q", agentCall.URL)
	}
	payload, ok := agentCall.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type %T", agentCall.Payload)
	}
	url, _ := payload["receipt_url"].(string)
	want := d.Receipt.URL("https://app.example", lead.ID, agent.ID, lead.CreatedAt)
	if url != want {
		t.Fatalf("receipt_url = %q, want %q", url, want)
	}
}

func TestDelivery_UnknownChannel(t *testing.T) {
	db := newTestDB(t)
	d := newDeliverySvc(db, &fakeWebhook{})
	if _, err := d.Retry(context.Background(), "nope", "fax"); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound for missing lead, got %v", err)
	}

	lead := seedLead(t, &LeadService{DB: db, Delivery: d}, false)
	if _, err := d.Retry(context.Background(), lead.ID, "fax"); !errors.Is(err, ErrUnknownChannel) {
		t.Fatalf("expected ErrUnknownChannel, got %v", err)
	}
}
