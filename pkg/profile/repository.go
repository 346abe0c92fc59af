package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wellnesshub/platform/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type ProfileModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;index"`
	Email          string    `gorm:"uniqueIndex"`
	Name           string
	Role           string `gorm:"index"`
	Department     string `gorm:"index"`
	PasswordHash   string
	Settings       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ProfileModel) TableName() string {
	return "profiles"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ProfileModel{})
}

type CreateProfileInput struct {
	OrganizationID uuid.UUID
	Email          string
	Name           string
	Role           string
	Department     string
	PasswordHash   string
	Settings       models.PrivacySettings
}

func (r *Repository) CreateProfile(ctx context.Context, input CreateProfileInput) (models.Profile, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(input.Email))

	var existing int64
	if err := r.db.WithContext(ctx).Model(&ProfileModel{}).Where("email = ?", normalizedEmail).Count(&existing).Error; err != nil {
		return models.Profile{}, err
	}
	if existing > 0 {
		return models.Profile{}, ErrEmailAlreadyExists
	}

	record := ProfileModel{
		ID:             uuid.New(),
		OrganizationID: input.OrganizationID,
		Email:          normalizedEmail,
		Name:           input.Name,
		Role:           input.Role,
		Department:     input.Department,
		PasswordHash:   input.PasswordHash,
		Settings:       settingsToJSON(input.Settings),
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return models.Profile{}, err
	}

	return mapProfileModel(record), nil
}

func (r *Repository) GetProfileByID(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	var record ProfileModel
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Profile{}, ErrProfileNotFound
		}
		return models.Profile{}, err
	}
	return mapProfileModel(record), nil
}

func (r *Repository) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	var record ProfileModel
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).First(&record, "email = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Profile{}, ErrProfileNotFound
		}
		return models.Profile{}, err
	}
	return mapProfileModel(record), nil
}

func (r *Repository) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	var record ProfileModel
	if err := r.db.WithContext(ctx).Select("password_hash").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	return record.PasswordHash, nil
}

func (r *Repository) UpdateSettings(ctx context.Context, id uuid.UUID, settings models.PrivacySettings) error {
	result := r.db.WithContext(ctx).Model(&ProfileModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"settings":   settingsToJSON(settings),
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *Repository) CountByOrganization(ctx context.Context, organizationID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ProfileModel{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error
	return int(count), err
}

type DepartmentCount struct {
	Department string
	Count      int
}

func (r *Repository) CountByDepartment(ctx context.Context, organizationID uuid.UUID) ([]DepartmentCount, error) {
	var rows []DepartmentCount
	err := r.db.WithContext(ctx).Model(&ProfileModel{}).
		Select("department, count(*) as count").
		Where("organization_id = ?", organizationID).
		Group("department").
		Scan(&rows).Error
	return rows, err
}

func settingsToJSON(settings models.PrivacySettings) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	if settings.SymptomPrivacy != "" {
		out["symptom_privacy"] = settings.SymptomPrivacy
	}
	if settings.AccommodationPrivacy != "" {
		out["accommodation_privacy"] = settings.AccommodationPrivacy
	}
	if settings.WellbeingPrivacy != "" {
		out["wellbeing_privacy"] = settings.WellbeingPrivacy
	}
	return out
}

func settingsFromJSON(raw datatypes.JSONMap) models.PrivacySettings {
	settings := models.PrivacySettings{}
	if v, ok := raw["symptom_privacy"].(string); ok {
		settings.SymptomPrivacy = v
	}
	if v, ok := raw["accommodation_privacy"].(string); ok {
		settings.AccommodationPrivacy = v
	}
	if v, ok := raw["wellbeing_privacy"].(string); ok {
		settings.WellbeingPrivacy = v
	}
	return settings
}

func mapProfileModel(record ProfileModel) models.Profile {
	return models.Profile{
		ID:             record.ID,
		OrganizationID: record.OrganizationID,
		Email:          record.Email,
		Name:           record.Name,
		Role:           record.Role,
		Department:     record.Department,
		Settings:       settingsFromJSON(record.Settings),
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}
