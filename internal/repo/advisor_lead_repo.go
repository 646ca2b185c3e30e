// Repository functions for the AdvisorLead model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
)

// CreateAdvisorLead inserts a new AdvisorLead row with a UUID primary key.
func CreateAdvisorLead(ctx context.Context, db *gorm.DB, l *domain.AdvisorLead) error {
	l.ID = uuid.NewString()
	if l.Status == "" {
		l.Status = "new"
	}
	if l.Source == "" {
		l.Source = "benefitbuddy"
	}
	l.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(l).Error
}

// GetAdvisorLead fetches a single advisor lead by ID, or ErrNotFound.
func GetAdvisorLead(ctx context.Context, db *gorm.DB, id string) (*domain.AdvisorLead, error) {
	var l domain.AdvisorLead
	if err := db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// ListAdvisorLeads returns the most recent advisor leads, capped at limit.
func ListAdvisorLeads(ctx context.Context, db *gorm.DB, limit int) ([]domain.AdvisorLead, error) {
	var out []domain.AdvisorLead
	err := db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateAdvisorLead applies a column map to an advisor lead. Returns
// ErrNotFound when no row matches.
func UpdateAdvisorLead(ctx context.Context, db *gorm.DB, id string, cols map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.AdvisorLead{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
