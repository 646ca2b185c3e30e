// Repository functions for the PhoneLead model. Rows are keyed by the
// telephony call SID; each IVR step updates columns in place and appends to
// the transcript.
package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/benefitbuddy/go-leads-backend/internal/domain"
)

// CreatePhoneLead inserts a new PhoneLead row keyed by its call SID.
func CreatePhoneLead(ctx context.Context, db *gorm.DB, p *domain.PhoneLead) error {
	p.ID = uuid.NewString()
	if p.CallStatus == "" {
		p.CallStatus = domain.CallStatusInitiated
	}
	if p.Source == "" {
		p.Source = "phone"
	}
	p.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(p).Error
}

// GetPhoneLeadByCallSID fetches the phone lead for a call, or ErrNotFound.
func GetPhoneLeadByCallSID(ctx context.Context, db *gorm.DB, callSID string) (*domain.PhoneLead, error) {
	var p domain.PhoneLead
	if err := db.WithContext(ctx).Where("call_sid = ?", callSID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePhoneLead applies a column map to the phone lead for a call.
// Returns ErrNotFound when no row matches.
func UpdatePhoneLead(ctx context.Context, db *gorm.DB, callSID string, cols map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.PhoneLead{}).
		Where("call_sid = ?", callSID).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AppendTranscript loads the phone lead for a call, appends one transcript
// entry, and saves the serialized list together with any extra columns.
// The transcript is append-only; entries are never rewritten.
func AppendTranscript(ctx context.Context, db *gorm.DB, callSID string, entry domain.TranscriptEntry, cols map[string]any) error {
	p, err := GetPhoneLeadByCallSID(ctx, db, callSID)
	if err != nil {
		return err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	p.SpeechTranscript = append(p.SpeechTranscript, entry)

	// Map-based Updates bypass the model's json serializer, so marshal here.
	transcript, err := json.Marshal(p.SpeechTranscript)
	if err != nil {
		return err
	}

	updates := map[string]any{"speech_transcript": string(transcript)}
	for k, v := range cols {
		updates[k] = v
	}
	return db.WithContext(ctx).
		Model(&domain.PhoneLead{}).
		Where("call_sid = ?", callSID).
		Updates(updates).Error
}
