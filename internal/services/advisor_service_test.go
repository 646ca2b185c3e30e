package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/notify"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
)

// fakeSMS records sends and returns a scripted result.
type fakeSMS struct {
	mu    sync.Mutex
	sends []struct{ To, Body string }
	res   notify.SMSResult
}

func (f *fakeSMS) Send(_ context.Context, to, body string) notify.SMSResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, struct{ To, Body string }{to, body})
	return f.res
}

func TestAdvisor_Match_PrefixBeatsDefault(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	def := &domain.Advisor{Name: "Default", Phone: "5550000000", IsDefault: true, Active: true}
	if err := repo.CreateAdvisor(ctx, db, def); err != nil {
		t.Fatal(err)
	}
	pref := &domain.Advisor{Name: "Prefix", Phone: "5550000001", ZipPrefixes: []string{"303"}, Active: true}
	if err := repo.CreateAdvisor(ctx, db, pref); err != nil {
		t.Fatal(err)
	}

	svc := &AdvisorService{DB: db}
	got, err := svc.Match(ctx, "30301")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if got == nil || got.Name != "Prefix" {
		t.Fatalf("got %+v, want prefix advisor", got)
	}
}

func TestAdvisor_Match_FallsBackToDefaultThenAny(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	any1 := &domain.Advisor{Name: "Plain", Phone: "5550000002", Active: true}
	if err := repo.CreateAdvisor(ctx, db, any1); err != nil {
		t.Fatal(err)
	}
	def := &domain.Advisor{Name: "Default", Phone: "5550000003", IsDefault: true, Active: true}
	if err := repo.CreateAdvisor(ctx, db, def); err != nil {
		t.Fatal(err)
	}

	svc := &AdvisorService{DB: db}
	got, err := svc.Match(ctx, "99999")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "Default" {
		t.Fatalf("got %+v, want default advisor", got)
	}

	// Deactivate the default: any active advisor wins.
	if err := repo.UpdateAdvisor(ctx, db, def.ID, map[string]any{"active": false}); err != nil {
		t.Fatal(err)
	}
	got, err = svc.Match(ctx, "99999")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "Plain" {
		t.Fatalf("got %+v, want any active advisor", got)
	}
}

func TestAdvisor_Match_ExactZipAndTwoDigitPrefix(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	exact := &domain.Advisor{Name: "Exact", Phone: "5550000004", ZipPrefixes: []string{"30301"}, Active: true}
	if err := repo.CreateAdvisor(ctx, db, exact); err != nil {
		t.Fatal(err)
	}
	two := &domain.Advisor{Name: "Two", Phone: "5550000005", ZipPrefixes: []string{"90"}, Active: true}
	if err := repo.CreateAdvisor(ctx, db, two); err != nil {
		t.Fatal(err)
	}

	svc := &AdvisorService{DB: db}
	if got, _ := svc.Match(ctx, "30301"); got == nil || got.Name != "Exact" {
		t.Fatalf("exact match failed: %+v", got)
	}
	if got, _ := svc.Match(ctx, "90210"); got == nil || got.Name != "Two" {
		t.Fatalf("2-digit prefix match failed: %+v", got)
	}
}

func TestAdvisor_CreateLead_AssignsAndRecordsSMS(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	adv := &domain.Advisor{Name: "Ada", Phone: "404-555-0100", ZipPrefixes: []string{"30"}, Active: true}
	if err := repo.CreateAdvisor(ctx, db, adv); err != nil {
		t.Fatal(err)
	}

	sms := &fakeSMS{res: notify.SMSResult{Success: true, SID: "SM123"}}
	svc := &AdvisorService{DB: db, SMS: sms}

	lead, assigned, err := svc.CreateLead(ctx, AdvisorLeadInput{
		FirstName: "Sam",
		Phone:     "(555) 123-4567",
		Zip:       "30301",
		Consent:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if assigned == nil || assigned.ID != adv.ID {
		t.Fatalf("assigned = %+v", assigned)
	}
	if lead.PhoneNormalized != "+15551234567" {
		t.Fatalf("phone_normalized = %q", lead.PhoneNormalized)
	}
	if lead.Status != "assigned" {
		t.Fatalf("status = %q", lead.Status)
	}
	if lead.AdvisorSMSStatus != "sent" || lead.LeadSMSStatus != "sent" {
		t.Fatalf("sms statuses: %q / %q", lead.AdvisorSMSStatus, lead.LeadSMSStatus)
	}
	if len(sms.sends) != 2 {
		t.Fatalf("sends = %d, want 2", len(sms.sends))
	}
	if !strings.Contains(sms.sends[0].Body, "Sam") || !strings.Contains(sms.sends[0].Body, "30301") {
		t.Fatalf("advisor sms body: %q", sms.sends[0].Body)
	}
	if sms.sends[1].To != "+15551234567" {
		t.Fatalf("lead sms to = %q", sms.sends[1].To)
	}
}

func TestAdvisor_CreateLead_SMSFailureIsRecordedNotFatal(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	if err := repo.CreateAdvisor(ctx, db, &domain.Advisor{Name: "Ada", Phone: "5550000006", IsDefault: true, Active: true}); err != nil {
		t.Fatal(err)
	}

	sms := &fakeSMS{res: notify.SMSResult{Error: "twilio not configured"}}
	svc := &AdvisorService{DB: db, SMS: sms}

	lead, _, err := svc.CreateLead(ctx, AdvisorLeadInput{
		FirstName: "Sam", Phone: "5551234567", Zip: "30301", Consent: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if lead.AdvisorSMSStatus != "failed" || lead.LeadSMSStatus != "failed" {
		t.Fatalf("sms statuses: %q / %q", lead.AdvisorSMSStatus, lead.LeadSMSStatus)
	}
	if lead.AdvisorSMSError == "" {
		t.Fatal("expected recorded error")
	}
}

func TestAdvisor_CreateLead_NoActiveAdvisorLeavesNew(t *testing.T) {
	db := newTestDB(t)
	svc := &AdvisorService{DB: db, SMS: &fakeSMS{}}

	lead, assigned, err := svc.CreateLead(context.Background(), AdvisorLeadInput{
		FirstName: "Sam", Phone: "5551234567", Zip: "30301", Consent: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if assigned != nil {
		t.Fatalf("assigned = %+v", assigned)
	}
	if lead.Status != "new" || lead.AssignedAdvisorID != nil {
		t.Fatalf("lead = %+v", lead)
	}
}

func TestAdvisor_DefaultFlagIsExclusive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	first := &domain.Advisor{Name: "A", Phone: "1", IsDefault: true, Active: true}
	if err := repo.CreateAdvisor(ctx, db, first); err != nil {
		t.Fatal(err)
	}
	second := &domain.Advisor{Name: "B", Phone: "2", IsDefault: true, Active: true}
	if err := repo.CreateAdvisor(ctx, db, second); err != nil {
		t.Fatal(err)
	}

	all, err := repo.ListAdvisors(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	defaults := 0
	for _, a := range all {
		if a.IsDefault {
			defaults++
			if a.ID != second.ID {
				t.Fatalf("wrong default: %s", a.Name)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("defaults = %d, want 1", defaults)
	}
}
