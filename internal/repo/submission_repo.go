// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Submission
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a submission is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSubmission inserts a new Submission row. The caller supplies a fully
// validated model; this function assigns the UUID primary key, the UTC
// creation timestamp, and the initial "new" status.
func CreateSubmission(ctx context.Context, db *gorm.DB, s *domain.Submission) error {
	s.ID = uuid.NewString()
	s.Status = domain.SubmissionStatusNew
	s.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(s).Error
}

// submissionQuery composes the shared filter for list/count: an optional
// status filter plus a case-insensitive search over name, email, and ZIP.
func submissionQuery(db *gorm.DB, search, status string) *gorm.DB {
	q := db.Model(&domain.Submission{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("full_name LIKE ? OR email LIKE ? OR zip_code LIKE ?", like, like, like)
	}
	return q
}

// CountSubmissions returns the number of submissions matching the filters.
func CountSubmissions(ctx context.Context, db *gorm.DB, search, status string) (int64, error) {
	var total int64
	err := submissionQuery(db.WithContext(ctx), search, status).Count(&total).Error
	return total, err
}

// ListSubmissionsPage returns a paginated slice of submissions matching the
// filters, most recent first. Use CountSubmissions for pagination metadata.
func ListSubmissionsPage(ctx context.Context, db *gorm.DB, search, status string, offset, limit int) ([]domain.Submission, error) {
	var out []domain.Submission
	err := submissionQuery(db.WithContext(ctx), search, status).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListAllSubmissions returns every submission, most recent first. Used by
// the CSV export.
func ListAllSubmissions(ctx context.Context, db *gorm.DB) ([]domain.Submission, error) {
	var out []domain.Submission
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetSubmission fetches a single submission by ID, or ErrNotFound.
func GetSubmission(ctx context.Context, db *gorm.DB, id string) (*domain.Submission, error) {
	var s domain.Submission
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSubmissionStatus sets the admin workflow status of a submission.
// Returns ErrNotFound when no row matches.
func UpdateSubmissionStatus(ctx context.Context, db *gorm.DB, id, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteSubmission soft-deletes a submission. Returns ErrNotFound when no
// row matches.
func DeleteSubmission(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Submission{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
