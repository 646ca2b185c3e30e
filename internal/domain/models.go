// Package domain defines the persistence models for benefit screening
// submissions, Medicare leads, licensed agents, benefit advisors, and
// phone-call leads. These types are mapped with GORM and form the core
// data layer of the lead-generation backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Lead priority buckets, derived once at creation and never recomputed.
const (
	PriorityCold = "cold"
	PriorityWarm = "warm"
	PriorityHot  = "hot"
)

// Submission statuses used by the admin workflow.
const (
	SubmissionStatusNew       = "new"
	SubmissionStatusContacted = "contacted"
	SubmissionStatusClosed    = "closed"
)

// Lead statuses used by the admin workflow.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
	LeadStatusOnHold    = "on_hold_no_credits"
)

// Phone call lifecycle statuses.
const (
	CallStatusInitiated = "initiated"
	CallStatusCompleted = "completed"
)

// Submission represents one completed benefit screening questionnaire.
// Contact fields are optional; the screening answers are validated against
// fixed enumerations before a row is created. MatchedBenefits stores the
// program IDs produced by the matcher at creation time.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - FullName / Email / Phone: optional contact details.
//   - AgeRange .. HousingStatus: screening answers (enumerated values).
//   - MatchedBenefits: program IDs, JSON-serialized, in catalog order.
//   - Status: admin workflow state (new, contacted, closed).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Submission struct {
	ID       string `json:"id"         gorm:"type:char(36);primaryKey"`
	FullName string `json:"full_name"  gorm:"type:varchar(120)"`
	Email    string `json:"email"      gorm:"type:varchar(254)"`
	Phone    string `json:"phone"      gorm:"type:varchar(32)"`

	AgeRange           string `json:"age_range"            gorm:"type:varchar(16);not null"`
	ZipCode            string `json:"zip_code"             gorm:"type:varchar(10);not null"`
	HouseholdSize      string `json:"household_size"       gorm:"type:varchar(8);not null"`
	MonthlyIncomeRange string `json:"monthly_income_range" gorm:"type:varchar(16);not null"`
	EmploymentStatus   string `json:"employment_status"    gorm:"type:varchar(16);not null"`
	Veteran            string `json:"veteran"              gorm:"type:varchar(3);not null;check:veteran IN ('yes','no')"`
	Disability         string `json:"disability"           gorm:"type:varchar(3);not null;check:disability IN ('yes','no')"`
	Student            string `json:"student"              gorm:"type:varchar(3);not null;check:student IN ('yes','no')"`
	PregnantOrChildren string `json:"pregnant_or_children" gorm:"type:varchar(3);not null;check:pregnant_or_children IN ('yes','no')"`
	HasHealthInsurance string `json:"has_health_insurance" gorm:"type:varchar(3);not null;check:has_health_insurance IN ('yes','no')"`
	HousingStatus      string `json:"housing_status"       gorm:"type:varchar(16);not null"`

	MatchedBenefits []string `json:"matched_benefits" gorm:"serializer:json;type:text"`
	Status          string   `json:"status"           gorm:"type:varchar(16);not null;default:'new';index"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Submission.
func (Submission) TableName() string { return "submissions" }

// DeliveryState tracks one outbound webhook channel for a lead. Attempts are
// capped by configuration; a sent channel is never re-sent unless an admin
// resets it through the retry endpoint.
type DeliveryState struct {
	Sent          bool       `json:"sent"`
	AttemptCount  int        `json:"attempt_count"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	LastError     string     `json:"last_error,omitempty" gorm:"type:text"`
	WebhookID     string     `json:"webhook_id,omitempty" gorm:"type:char(36)"`
}

// Lead represents a Medicare call-request lead captured from the landing
// page. Priority and the assigned-agent snapshot are computed exactly once
// at creation; delivery state is recorded per channel and never fails the
// originating request.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - FullName / Phone / PhoneDisplay / Email / ZipCode / State: contact data.
//     Phone holds digits only; PhoneDisplay preserves the submitted form.
//   - WantsCallToday / Turning65Soon / HasMedicareNow: qualification answers.
//   - LeadPriority: cold, warm, or hot (see services.Prioritize).
//   - Consent / ConsentTimestamp: TCPA consent record.
//   - Source: acquisition channel, defaults to "medicare_cta".
//   - MatchedPrograms: program IDs carried over from a prior screening.
//   - IPHash: SHA-256 of the client IP, stored instead of the raw address.
//   - AssignedAgent*: snapshot of the agent chosen at creation (hot only).
//   - Pipeline / AgentDelivery: per-channel webhook delivery state.
type Lead struct {
	ID           string `json:"id"            gorm:"type:char(36);primaryKey"`
	FullName     string `json:"full_name"     gorm:"type:varchar(120);not null"`
	Phone        string `json:"phone"         gorm:"type:varchar(20);not null;index"`
	PhoneDisplay string `json:"phone_display" gorm:"type:varchar(32)"`
	Email        string `json:"email"         gorm:"type:varchar(254)"`
	ZipCode      string `json:"zip_code"      gorm:"type:varchar(10);not null;index"`
	State        string `json:"state"         gorm:"type:varchar(32)"`

	WantsCallToday bool   `json:"wants_call_today"`
	Turning65Soon  bool   `json:"turning_65_soon"`
	HasMedicareNow bool   `json:"has_medicare_now"`
	LeadPriority   string `json:"lead_priority" gorm:"type:varchar(8);not null;index;check:lead_priority IN ('cold','warm','hot')"`

	Consent          bool      `json:"consent"           gorm:"not null"`
	ConsentTimestamp time.Time `json:"consent_timestamp"`
	Source           string    `json:"source"            gorm:"type:varchar(32);not null;default:'medicare_cta'"`
	MatchedPrograms  []string  `json:"matched_programs"  gorm:"serializer:json;type:text"`
	IPHash           string    `json:"-"                 gorm:"type:char(64)"`

	Status string `json:"status" gorm:"type:varchar(24);not null;default:'new';index"`

	// Assigned-agent snapshot. Written at most once, at creation.
	AssignedAgentID    *string `json:"assigned_agent_id,omitempty"    gorm:"type:char(36);index"`
	AssignedAgentName  string  `json:"assigned_agent_name,omitempty"  gorm:"type:varchar(120)"`
	AssignedAgentPhone string  `json:"assigned_agent_phone,omitempty" gorm:"type:varchar(32)"`
	AssignedAgentEmail string  `json:"assigned_agent_email,omitempty" gorm:"type:varchar(254)"`

	Pipeline      DeliveryState `json:"pipeline"       gorm:"embedded;embeddedPrefix:pipeline_"`
	AgentDelivery DeliveryState `json:"agent_delivery" gorm:"embedded;embeddedPrefix:agent_delivery_"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Lead.
func (Lead) TableName() string { return "leads" }

// Agent represents a licensed insurance agent who buys hot Medicare leads.
// Coverage is expressed as a list of 5-digit ZIP codes; counters are bumped
// with atomic UPDATE expressions, independent of the lead write.
type Agent struct {
	ID          string   `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string   `json:"name"        gorm:"type:varchar(120);not null"`
	Phone       string   `json:"phone"       gorm:"type:varchar(32)"`
	Email       string   `json:"email"       gorm:"type:varchar(254)"`
	WebhookURL  string   `json:"webhook_url" gorm:"type:varchar(2048)"`
	State       string   `json:"state"       gorm:"type:varchar(32)"`
	CoveredZips []string `json:"covered_zips" gorm:"serializer:json;type:text"`

	IsActive         bool       `json:"is_active"          gorm:"not null;default:true;index"`
	LeadsAssigned    int        `json:"leads_assigned"     gorm:"not null;default:0"`
	LeadsConverted   int        `json:"leads_converted"    gorm:"not null;default:0"`
	CreditsRemaining int        `json:"credits_remaining"  gorm:"not null;default:0"`
	CreditsUpdatedAt *time.Time `json:"credits_updated_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Agent.
func (Agent) TableName() string { return "agents" }

// Advisor represents a benefits advisor reachable by SMS for phone leads.
// Coverage is by ZIP prefix (2 or 3 digits) or exact ZIP; at most one advisor
// carries the default flag at a time.
type Advisor struct {
	ID          string   `json:"id"           gorm:"type:char(36);primaryKey"`
	Name        string   `json:"name"         gorm:"type:varchar(120);not null"`
	Phone       string   `json:"phone"        gorm:"type:varchar(32);not null"`
	Email       string   `json:"email"        gorm:"type:varchar(254)"`
	ZipPrefixes []string `json:"zip_prefixes" gorm:"serializer:json;type:text"`
	IsDefault   bool     `json:"is_default"   gorm:"not null;default:false;index"`
	Active      bool     `json:"active"       gorm:"not null;default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Advisor.
func (Advisor) TableName() string { return "advisors" }

// AdvisorLead represents a phone-callback request routed to a benefits
// advisor. Distinct from Lead: this flow notifies a human advisor by SMS
// instead of posting to a webhook pipeline.
type AdvisorLead struct {
	ID              string `json:"id"               gorm:"type:char(36);primaryKey"`
	FirstName       string `json:"first_name"       gorm:"type:varchar(120);not null"`
	Phone           string `json:"phone"            gorm:"type:varchar(32);not null"`
	PhoneNormalized string `json:"phone_normalized" gorm:"type:varchar(16);not null"`
	Zip             string `json:"zip"              gorm:"type:varchar(10);not null"`
	Consent         bool   `json:"consent"          gorm:"not null"`
	Source          string `json:"source"           gorm:"type:varchar(32);not null;default:'benefitbuddy'"`

	Answers map[string]string `json:"answers" gorm:"serializer:json;type:text"`

	AssignedAdvisorID *string `json:"assigned_advisor_id,omitempty" gorm:"type:char(36);index"`
	Status            string  `json:"status" gorm:"type:varchar(16);not null;default:'new';check:status IN ('new','assigned')"`

	AdvisorSMSStatus string `json:"advisor_sms_status,omitempty" gorm:"type:varchar(8)"`
	AdvisorSMSError  string `json:"advisor_sms_error,omitempty"  gorm:"type:text"`
	AdvisorSMSSID    string `json:"advisor_sms_sid,omitempty"    gorm:"column:advisor_sms_sid;type:varchar(64)"`
	LeadSMSStatus    string `json:"lead_sms_status,omitempty"    gorm:"type:varchar(8)"`
	LeadSMSError     string `json:"lead_sms_error,omitempty"     gorm:"type:text"`
	LeadSMSSID       string `json:"lead_sms_sid,omitempty"       gorm:"column:lead_sms_sid;type:varchar(64)"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for AdvisorLead.
func (AdvisorLead) TableName() string { return "advisor_leads" }

// TranscriptEntry is one step of an IVR conversation: the raw caller input
// at a given step plus the parsed value the flow derived from it.
type TranscriptEntry struct {
	Step      string    `json:"step"`
	Input     string    `json:"input"`
	Parsed    string    `json:"parsed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PhoneLead represents a lead captured through the voice IVR flow. Rows are
// keyed by the telephony call SID and updated in place as the caller moves
// through the gather steps; the transcript is append-only.
type PhoneLead struct {
	ID       string `json:"id"        gorm:"type:char(36);primaryKey"`
	CallSID  string `json:"call_sid"  gorm:"column:call_sid;type:varchar(64);not null;uniqueIndex"`
	Phone    string `json:"phone"     gorm:"type:varchar(32);not null"`
	ToNumber string `json:"to_number" gorm:"type:varchar(32)"`

	ZipCode        string `json:"zip_code"        gorm:"type:varchar(10)"`
	ServiceType    string `json:"service_type"    gorm:"type:varchar(32)"`
	CallbackNumber string `json:"callback_number" gorm:"type:varchar(32)"`
	IsHot          bool   `json:"is_hot"          gorm:"index"`

	SpeechTranscript []TranscriptEntry `json:"speech_transcript" gorm:"serializer:json;type:text"`

	CallStatus string `json:"call_status" gorm:"type:varchar(16);not null;default:'initiated';check:call_status IN ('initiated','completed')"`

	Transferred      bool   `json:"transferred"`
	TransferredTo    string `json:"transferred_to,omitempty"    gorm:"type:varchar(32)"`
	TransferStatus   string `json:"transfer_status,omitempty"   gorm:"type:varchar(24)"`
	TransferDuration int    `json:"transfer_duration,omitempty"`

	SMSAlertSent  bool   `json:"sms_alert_sent"`
	SMSAlertSID   string `json:"sms_alert_sid,omitempty"   gorm:"column:sms_alert_sid;type:varchar(64)"`
	SMSAlertError string `json:"sms_alert_error,omitempty" gorm:"type:text"`

	Source string `json:"source" gorm:"type:varchar(16);not null;default:'phone'"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for PhoneLead.
func (PhoneLead) TableName() string { return "phone_leads" }
