// Repository functions for the Lead model. Delivery state is persisted as
// flattened per-channel columns; SaveDeliveryState writes one channel without
// touching the other.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
)

// Lead delivery channel names, used as column prefixes and API parameters.
const (
	ChannelPipeline = "pipeline"
	ChannelAgent    = "agent_delivery"
)

// CreateLead inserts a new Lead row, assigning the UUID primary key and UTC
// timestamps. Priority and the agent snapshot are set by the caller.
func CreateLead(ctx context.Context, db *gorm.DB, l *domain.Lead) error {
	l.ID = uuid.NewString()
	if l.Status == "" {
		l.Status = domain.LeadStatusNew
	}
	l.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(l).Error
}

func leadQuery(db *gorm.DB, status, priority string) *gorm.DB {
	q := db.Model(&domain.Lead{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if priority != "" {
		q = q.Where("lead_priority = ?", priority)
	}
	return q
}

// CountLeads returns the number of leads matching the filters.
func CountLeads(ctx context.Context, db *gorm.DB, status, priority string) (int64, error) {
	var total int64
	err := leadQuery(db.WithContext(ctx), status, priority).Count(&total).Error
	return total, err
}

// ListLeadsPage returns a paginated slice of leads matching the filters,
// most recent first.
func ListLeadsPage(ctx context.Context, db *gorm.DB, status, priority string, offset, limit int) ([]domain.Lead, error) {
	var out []domain.Lead
	err := leadQuery(db.WithContext(ctx), status, priority).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetLead fetches a single lead by ID, or ErrNotFound.
func GetLead(ctx context.Context, db *gorm.DB, id string) (*domain.Lead, error) {
	var l domain.Lead
	if err := db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateLeadStatus sets the admin workflow status of a lead. Returns
// ErrNotFound when no row matches.
func UpdateLeadStatus(ctx context.Context, db *gorm.DB, id, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.Lead{}).
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

// DeleteLead soft-deletes a lead. Returns ErrNotFound when no row matches.
func DeleteLead(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Lead{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveDeliveryState persists one delivery channel of a lead. The channel
// must be ChannelPipeline or ChannelAgent; columns of the other channel are
// left untouched. Returns ErrNotFound when no row matches.
func SaveDeliveryState(ctx context.Context, db *gorm.DB, leadID, channel string, st domain.DeliveryState) error {
	cols := map[string]any{
		channel + "_sent":            st.Sent,
		channel + "_attempt_count":   st.AttemptCount,
		channel + "_last_attempt_at": st.LastAttemptAt,
		channel + "_last_error":      st.LastError,
		channel + "_webhook_id":      st.WebhookID,
	}
	res := db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("id = ?", leadID).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
