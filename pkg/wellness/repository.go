package wellness

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&SymptomLog{}, &AccommodationPlan{}, &WellbeingCheckin{}, &AccessAudit{})
}

func (r *Repository) CreateSymptomLog(ctx context.Context, log *SymptomLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *Repository) CreateAccommodation(ctx context.Context, plan *AccommodationPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *Repository) CreateCheckin(ctx context.Context, checkin *WellbeingCheckin) error {
	return r.db.WithContext(ctx).Create(checkin).Error
}

func (r *Repository) SymptomsByProfile(ctx context.Context, profileID uuid.UUID, since time.Time) ([]SymptomLog, error) {
	var logs []SymptomLog
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND logged_at >= ?", profileID, since).
		Order("logged_at DESC").
		Find(&logs).Error
	return logs, err
}

func (r *Repository) SymptomsByOrganization(ctx context.Context, organizationID uuid.UUID, since, until time.Time) ([]SymptomLog, error) {
	var logs []SymptomLog
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND logged_at >= ? AND logged_at < ? AND sharing_level <> ?", organizationID, since, until, "private").
		Order("logged_at DESC").
		Find(&logs).Error
	return logs, err
}

func (r *Repository) AccommodationsByProfile(ctx context.Context, profileID uuid.UUID) ([]AccommodationPlan, error) {
	var plans []AccommodationPlan
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (r *Repository) AccommodationsByOrganization(ctx context.Context, organizationID uuid.UUID, since, until time.Time) ([]AccommodationPlan, error) {
	var plans []AccommodationPlan
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND created_at >= ? AND created_at < ?", organizationID, since, until).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

func (r *Repository) CheckinsByProfile(ctx context.Context, profileID uuid.UUID, since time.Time) ([]WellbeingCheckin, error) {
	var checkins []WellbeingCheckin
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND checked_in_at >= ?", profileID, since).
		Order("checked_in_at DESC").
		Find(&checkins).Error
	return checkins, err
}

func (r *Repository) CheckinsByOrganization(ctx context.Context, organizationID uuid.UUID, since, until time.Time) ([]WellbeingCheckin, error) {
	var checkins []WellbeingCheckin
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND checked_in_at >= ? AND checked_in_at < ?", organizationID, since, until).
		Order("checked_in_at DESC").
		Find(&checkins).Error
	return checkins, err
}

// DistinctProfileCount reports how many distinct owners contributed symptom
// records in the window, which gates organization-level aggregation.
func (r *Repository) DistinctProfileCount(ctx context.Context, organizationID uuid.UUID, since time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SymptomLog{}).
		Where("organization_id = ? AND logged_at >= ?", organizationID, since).
		Distinct("profile_id").
		Count(&count).Error
	return int(count), err
}

func (r *Repository) SaveAudit(ctx context.Context, audit *AccessAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}
