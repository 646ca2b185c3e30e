package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
)

func validSubmissionInput() SubmissionInput {
	return SubmissionInput{
		FullName:           "Pat Doe",
		Email:              "pat@example.com",
		AgeRange:           "65_plus",
		ZipCode:            "30301",
		HouseholdSize:      "2",
		MonthlyIncomeRange: "1000_2000",
		EmploymentStatus:   "retired",
		Veteran:            "no",
		Disability:         "no",
		Student:            "no",
		PregnantOrChildren: "no",
		HousingStatus:      "rent",
		HasHealthInsurance: "yes",
	}
}

func TestSubmission_Create_PersistsMatches(t *testing.T) {
	db := newTestDB(t)
	svc := &SubmissionService{DB: db}

	sub, err := svc.Create(context.Background(), validSubmissionInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// 65_plus + 1000_2000 + rent: snap, medicaid, medicare_savings, liheap,
	// housing_assistance, ssi.
	want := []string{"snap", "medicaid", "medicare_savings", "liheap", "housing_assistance", "ssi"}
	if !reflect.DeepEqual(sub.MatchedBenefits, want) {
		t.Fatalf("matched = %v, want %v", sub.MatchedBenefits, want)
	}
	if sub.Status != domain.SubmissionStatusNew {
		t.Fatalf("status = %q", sub.Status)
	}

	got, err := repo.GetSubmission(context.Background(), db, sub.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(got.MatchedBenefits, want) {
		t.Fatalf("persisted matches = %v", got.MatchedBenefits)
	}
}

func TestSubmission_Create_ValidationCollectsAllFields(t *testing.T) {
	db := newTestDB(t)
	svc := &SubmissionService{DB: db}

	in := validSubmissionInput()
	in.AgeRange = "young"
	in.Veteran = "maybe"
	in.ZipCode = "303"
	_, err := svc.Create(context.Background(), in)
	ve, ok := AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	for _, f := range []string{"age_range", "veteran", "zip_code"} {
		if !fields[f] {
			t.Errorf("missing field error for %s: %+v", f, ve.Fields)
		}
	}
}

func TestSubmission_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := &SubmissionService{DB: db}
	sub, err := svc.Create(context.Background(), validSubmissionInput())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.UpdateStatus(context.Background(), sub.ID, "contacted"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), sub.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), "missing", "closed"); !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestSubmission_ListPage_Filters(t *testing.T) {
	db := newTestDB(t)
	svc := &SubmissionService{DB: db}

	a := validSubmissionInput()
	a.FullName = "Alice Smith"
	b := validSubmissionInput()
	b.FullName = "Bob Jones"
	if _, err := svc.Create(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	sub, err := svc.Create(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateStatus(context.Background(), sub.ID, "contacted"); err != nil {
		t.Fatal(err)
	}

	items, total, err := svc.ListPage(context.Background(), "alice", "", 1, 20)
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("search: items=%d total=%d err=%v", len(items), total, err)
	}
	items, total, err = svc.ListPage(context.Background(), "", "contacted", 1, 20)
	if err != nil || total != 1 || items[0].FullName != "Bob Jones" {
		t.Fatalf("status filter: %v total=%d err=%v", items, total, err)
	}
}
