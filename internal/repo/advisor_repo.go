// Repository functions for the Advisor model. At most one advisor carries
// the default flag; setting it on one row unsets it everywhere else.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
)

// CreateAdvisor inserts a new Advisor row with a UUID primary key. When the
// advisor is marked default, every other default flag is cleared first.
func CreateAdvisor(ctx context.Context, db *gorm.DB, a *domain.Advisor) error {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := clearDefaultAdvisors(tx, ""); err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	})
}

// ListAdvisors returns all advisors in insertion order.
func ListAdvisors(ctx context.Context, db *gorm.DB) ([]domain.Advisor, error) {
	var out []domain.Advisor
	err := db.WithContext(ctx).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// ListActiveAdvisors returns active advisors in insertion order.
func ListActiveAdvisors(ctx context.Context, db *gorm.DB) ([]domain.Advisor, error) {
	var out []domain.Advisor
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// GetAdvisor fetches a single advisor by ID, or ErrNotFound.
func GetAdvisor(ctx context.Context, db *gorm.DB, id string) (*domain.Advisor, error) {
	var a domain.Advisor
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAdvisor applies a column map to an advisor. When the map sets
// is_default to true, every other default flag is cleared in the same
// transaction. Returns ErrNotFound when no row matches.
func UpdateAdvisor(ctx context.Context, db *gorm.DB, id string, cols map[string]any) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if v, ok := cols["is_default"]; ok {
			if b, _ := v.(bool); b {
				if err := clearDefaultAdvisors(tx, id); err != nil {
					return err
				}
			}
		}
		res := tx.Model(&domain.Advisor{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeleteAdvisor soft-deletes an advisor. Returns ErrNotFound when no row
// matches.
func DeleteAdvisor(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Advisor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func clearDefaultAdvisors(tx *gorm.DB, exceptID string) error {
	q := tx.Model(&domain.Advisor{}).Where("is_default = ?", true)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("is_default", false).Error
}
