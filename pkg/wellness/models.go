package wellness

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SymptomLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProfileID      uuid.UUID `gorm:"type:uuid;index"`
	OrganizationID uuid.UUID `gorm:"type:uuid;index"`
	Department     string    `gorm:"index"`
	SymptomType    string    `gorm:"index"`
	SeverityLevel  float64
	SharingLevel   string // private, anonymous_only, shareable
	Notes          string
	Payload        datatypes.JSONMap `gorm:"type:jsonb"`
	LoggedAt       time.Time         `gorm:"index"`
	CreatedAt      time.Time
}

func (SymptomLog) TableName() string {
	return "symptom_logs"
}

type AccommodationPlan struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProfileID      uuid.UUID `gorm:"type:uuid;index"`
	OrganizationID uuid.UUID `gorm:"type:uuid;index"`
	Type           string    `gorm:"index"`
	Status         string    `gorm:"index"` // pending, approved, denied
	AnonymityLevel string
	StartDate      time.Time
	EndDate        *time.Time
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (AccommodationPlan) TableName() string {
	return "accommodation_plans"
}

type WellbeingCheckin struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProfileID        uuid.UUID `gorm:"type:uuid;index"`
	OrganizationID   uuid.UUID `gorm:"type:uuid;index"`
	Department       string    `gorm:"index"`
	OverallWellbeing string    // great, good, okay, struggling, poor
	EmojiMood        string
	Notes            string
	Payload          datatypes.JSONMap `gorm:"type:jsonb"`
	CheckedInAt      time.Time         `gorm:"index"`
	CreatedAt        time.Time
}

func (WellbeingCheckin) TableName() string {
	return "wellbeing_checkins"
}

// AccessAudit records every role-filtered or anonymized read for compliance
// review. It never stores the data itself, only who asked for what.
type AccessAudit struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ActorID   string            `gorm:"index"`
	ActorRole string            `gorm:"index"`
	Action    string            `gorm:"index"`
	Detail    datatypes.JSONMap `gorm:"type:jsonb"`
	RequestID string
	CreatedAt time.Time `gorm:"index"`
}

func (AccessAudit) TableName() string {
	return "access_audits"
}
