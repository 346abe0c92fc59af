package models

import (
	"time"

	"github.com/google/uuid"
)

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // track, checkin, accommodation, anonymize, filter
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// PrivacySettings carries a caller's per-domain privacy levels. Empty or
// unrecognized values resolve to "high".
type PrivacySettings struct {
	SymptomPrivacy       string `json:"symptom_privacy,omitempty"`
	AccommodationPrivacy string `json:"accommodation_privacy,omitempty"`
	WellbeingPrivacy     string `json:"wellbeing_privacy,omitempty"`
}

// AggregateResult is a k-anonymous per-domain aggregate. No category in
// Counts is supported by fewer records than the configured group size.
type AggregateResult struct {
	Counts       map[string]int     `json:"counts"`
	Averages     map[string]float64 `json:"averages"`
	StatusCounts map[string]int     `json:"status_counts,omitempty"`
	AverageScore float64            `json:"average_score,omitempty"`
	Total        int                `json:"total"`
	Skipped      int                `json:"skipped,omitempty"`
}

// AnonymizedBatch pairs the anonymized records with their aggregate view.
type AnonymizedBatch struct {
	Records    []map[string]interface{} `json:"records"`
	Aggregated AggregateResult          `json:"aggregated"`
}

// Anonymization API
type AnonymizeRequest struct {
	Records         []map[string]interface{} `json:"records"`
	PrivacySettings PrivacySettings          `json:"privacy_settings"`
}

type AnonymizeResponse struct {
	PersonalData []map[string]interface{} `json:"personal_data"`
	Anonymized   AnonymizedBatch          `json:"anonymized"`
}

// Role filter API
type FilterRequest struct {
	Role    string                 `json:"role"`
	Context map[string]interface{} `json:"context"`
}

type FilterResponse struct {
	Role    string                 `json:"role"`
	Context map[string]interface{} `json:"context"`
}

// Profiles & auth
type Profile struct {
	ID             uuid.UUID       `json:"id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Role           string          `json:"role"` // employee, hr_manager, employer
	Department     string          `json:"department,omitempty"`
	Settings       PrivacySettings `json:"privacy_settings"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CreateProfileRequest struct {
	OrganizationID uuid.UUID       `json:"organization_id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Role           string          `json:"role"`
	Department     string          `json:"department,omitempty"`
	Password       string          `json:"password"`
	Settings       PrivacySettings `json:"privacy_settings"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// Wellness record API
type TrackSymptomRequest struct {
	ProfileID     uuid.UUID `json:"profile_id"`
	SymptomType   string    `json:"symptom_type"`
	SeverityLevel float64   `json:"severity_level"` // 1-10
	Notes         string    `json:"notes,omitempty"`
	PrivacyLevel  string    `json:"privacy_level,omitempty"` // private, anonymous_only, shareable
	LoggedAt      time.Time `json:"logged_at,omitempty"`
}

type CheckinRequest struct {
	ProfileID        uuid.UUID `json:"profile_id"`
	OverallWellbeing string    `json:"overall_wellbeing"` // great, good, okay, struggling, poor
	EmojiMood        string    `json:"emoji_mood,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CheckedInAt      time.Time `json:"checked_in_at,omitempty"`
}

type AccommodationInput struct {
	ProfileID      uuid.UUID  `json:"profile_id"`
	Type           string     `json:"type"`
	Status         string     `json:"status,omitempty"` // pending, approved, denied
	AnonymityLevel string     `json:"anonymity_level,omitempty"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

type RecordAck struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Requester identifies who is asking for data, so read paths can decide
// between the personal copy and the anonymized view.
type Requester struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Role      string    `json:"role"`
}

// Insights API
type HistoryResponse struct {
	ProfileID  uuid.UUID                `json:"profile_id,omitempty"`
	Personal   []map[string]interface{} `json:"personal,omitempty"`
	Anonymized *AnonymizedBatch         `json:"anonymized,omitempty"`
}

type MetricsResponse struct {
	OrganizationID uuid.UUID       `json:"organization_id"`
	Domain         string          `json:"domain"`
	WindowStart    time.Time       `json:"window_start"`
	WindowEnd      time.Time       `json:"window_end"`
	EmployeeCount  int             `json:"employee_count"`
	Aggregated     AggregateResult `json:"aggregated"`
}

type DepartmentStatsResponse struct {
	OrganizationID uuid.UUID              `json:"organization_id"`
	Role           string                 `json:"role"`
	Context        map[string]interface{} `json:"context"`
}
