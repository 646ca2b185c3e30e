// Package services – SubmissionService
//
// This file implements SubmissionService, the application-level component
// that owns the screening pipeline: validate the questionnaire, run the
// rules-based benefit matcher, persist the submission, and forward a
// privacy-reduced event to the configured webhook. The webhook call is fire
// and forget; its outcome never affects the caller.
//
// Observability: public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/benefitbuddy/go-leads-backend/internal/benefits"
	"github.com/benefitbuddy/go-leads-backend/internal/domain"
	"github.com/benefitbuddy/go-leads-backend/internal/notify"
	"github.com/benefitbuddy/go-leads-backend/internal/repo"
)

// SubmissionService coordinates screening persistence and benefit matching.
type SubmissionService struct {
	DB         *gorm.DB
	Webhook    notify.WebhookSender
	WebhookURL string
}

// Create validates the questionnaire, matches benefits, persists the
// submission, and forwards a non-PII event to the pipeline webhook in the
// background. The returned submission carries the matched program IDs.
func (s *SubmissionService) Create(ctx context.Context, in SubmissionInput) (*domain.Submission, error) {
	tr := otel.Tracer("services/SubmissionService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	if err := ValidateSubmission(in); err != nil {
		return nil, err
	}

	matched := benefits.MatchIDs(benefits.Answers{
		AgeRange:           in.AgeRange,
		MonthlyIncomeRange: in.MonthlyIncomeRange,
		EmploymentStatus:   in.EmploymentStatus,
		Veteran:            in.Veteran,
		Disability:         in.Disability,
		PregnantOrChildren: in.PregnantOrChildren,
		HasHealthInsurance: in.HasHealthInsurance,
		HousingStatus:      in.HousingStatus,
	})
	span.SetAttributes(attribute.Int("benefits.matched", len(matched)))

	sub := &domain.Submission{
		FullName:           strings.TrimSpace(in.FullName),
		Email:              strings.TrimSpace(in.Email),
		Phone:              strings.TrimSpace(in.Phone),
		AgeRange:           in.AgeRange,
		ZipCode:            in.ZipCode,
		HouseholdSize:      in.HouseholdSize,
		MonthlyIncomeRange: in.MonthlyIncomeRange,
		EmploymentStatus:   in.EmploymentStatus,
		Veteran:            in.Veteran,
		Disability:         in.Disability,
		Student:            in.Student,
		PregnantOrChildren: in.PregnantOrChildren,
		HasHealthInsurance: in.HasHealthInsurance,
		HousingStatus:      in.HousingStatus,
		MatchedBenefits:    matched,
	}
	if err := repo.CreateSubmission(ctx, s.DB, sub); err != nil {
		return nil, err
	}

	s.forward(sub)
	return sub, nil
}

// forward posts the privacy-reduced submission event in the background.
// Contact fields never leave the database through this path.
func (s *SubmissionService) forward(sub *domain.Submission) {
	if s.Webhook == nil || s.WebhookURL == "" {
		return
	}
	payload := map[string]any{
		"source": "benefitbuddy",
		"submission": map[string]any{
			"id":               sub.ID,
			"age_range":        sub.AgeRange,
			"zip_code":         sub.ZipCode,
			"matched_benefits": sub.MatchedBenefits,
			"created_at":       sub.CreatedAt,
		},
	}
	go func() {
		ctx, span := otel.Tracer("services/SubmissionService").Start(
			context.Background(), "forward",
			trace.WithAttributes(attribute.String("submission.id", sub.ID)),
		)
		defer span.End()
		if err := s.Webhook.Post(ctx, s.WebhookURL, payload); err != nil {
			log.Warn().Err(err).Str("submission_id", sub.ID).Msg("submission webhook failed")
		}
	}()
}

// Get returns one submission by ID.
func (s *SubmissionService) Get(ctx context.Context, id string) (*domain.Submission, error) {
	sub, err := repo.GetSubmission(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrSubmissionNotFound
	}
	return sub, err
}

// ListPage returns a page of submissions matching the admin filters.
func (s *SubmissionService) ListPage(ctx context.Context, search, status string, page, pageSize int) ([]domain.Submission, int64, error) {
	tr := otel.Tracer("services/SubmissionService")
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
	total, err := repo.CountSubmissions(ctx, s.DB, search, status)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListSubmissionsPage(ctx, s.DB, search, status, (page-1)*pageSize, pageSize)
	return items, total, err
}

// UpdateStatus transitions a submission's admin workflow status.
func (s *SubmissionService) UpdateStatus(ctx context.Context, id, status string) error {
	switch status {
	case domain.SubmissionStatusNew, domain.SubmissionStatusContacted, domain.SubmissionStatusClosed:
	default:
		return ErrInvalidStatus
	}
	err := repo.UpdateSubmissionStatus(ctx, s.DB, id, status)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrSubmissionNotFound
	}
	return err
}

// Delete removes a submission.
func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	err := repo.DeleteSubmission(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrSubmissionNotFound
	}
	return err
}
