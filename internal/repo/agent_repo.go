// Repository functions for the Agent model. Coverage lookup scans active
// agents in primary key order, matching the first-row semantics of the
// assignment rule; counters are bumped with atomic UPDATE expressions,
// independent of the lead row write.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
)

// CreateAgent inserts a new Agent row with a UUID primary key.
func CreateAgent(ctx context.Context, db *gorm.DB, a *domain.Agent) error {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(a).Error
}

// ListAgents returns all agents in insertion order.
func ListAgents(ctx context.Context, db *gorm.DB) ([]domain.Agent, error) {
	var out []domain.Agent
	err := db.WithContext(ctx).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// GetAgent fetches a single agent by ID, or ErrNotFound.
func GetAgent(ctx context.Context, db *gorm.DB, id string) (*domain.Agent, error) {
	var a domain.Agent
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAgent applies a column map to an agent. Returns ErrNotFound when no
// row matches.
func UpdateAgent(ctx context.Context, db *gorm.DB, id string, cols map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Agent{}).
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

// DeleteAgent soft-deletes an agent. Returns ErrNotFound when no row matches.
func DeleteAgent(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Agent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindCoveringAgent returns the first active agent whose covered ZIP list
// contains zip, scanning in insertion order. The ZIP list is a JSON column,
// so membership is evaluated here rather than in SQL. Returns (nil, nil)
// when no active agent covers the ZIP.
func FindCoveringAgent(ctx context.Context, db *gorm.DB, zip string) (*domain.Agent, error) {
	var agents []domain.Agent
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at asc, id asc").
		Find(&agents).Error
	if err != nil {
		return nil, err
	}
	for i := range agents {
		for _, z := range agents[i].CoveredZips {
			if z == zip {
				return &agents[i], nil
			}
		}
	}
	return nil, nil
}

// IncrementLeadsAssigned bumps the assignment counter with a server-side
// expression. The update is atomic on its own but deliberately not part of
// any transaction with the lead write.
func IncrementLeadsAssigned(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Model(&domain.Agent{}).
		Where("id = ?", id).
		Update("leads_assigned", gorm.Expr("leads_assigned + 1")).Error
}

// SetCredits overwrites an agent's remaining credits, flooring at zero, and
// stamps credits_updated_at. Returns ErrNotFound when no row matches.
func SetCredits(ctx context.Context, db *gorm.DB, id string, credits int) error {
	if credits < 0 {
		credits = 0
	}
	now := time.Now().UTC()
	return UpdateAgent(ctx, db, id, map[string]any{
		"credits_remaining":  credits,
		"credits_updated_at": &now,
	})
}

// AdjustCredits applies a signed delta to an agent's remaining credits,
// flooring at zero, and stamps credits_updated_at. The read and write are
// two statements, consistent with the other non-transactional counters.
func AdjustCredits(ctx context.Context, db *gorm.DB, id string, delta int) (int, error) {
	a, err := GetAgent(ctx, db, id)
	if err != nil {
		return 0, err
	}
	next := a.CreditsRemaining + delta
	if next < 0 {
		next = 0
	}
	if err := SetCredits(ctx, db, id, next); err != nil {
		return 0, err
	}
	return next, nil
}
