package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wellnesshub/platform/pkg/common/models"
	"github.com/wellnesshub/platform/pkg/privacy"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo  *Repository
	cache *SettingsCache
}

func NewService(repo *Repository, cache *SettingsCache) *Service {
	return &Service{repo: repo, cache: cache}
}

func (s *Service) CreateProfile(ctx context.Context, req models.CreateProfileRequest) (models.Profile, error) {
	if req.Email == "" || req.Password == "" {
		return models.Profile{}, fmt.Errorf("email and password required")
	}
	if req.OrganizationID == uuid.Nil {
		return models.Profile{}, fmt.Errorf("organization id required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Profile{}, err
	}

	role := string(privacy.ParseRole(req.Role))
	if strings.TrimSpace(req.Role) == "" {
		role = string(privacy.RoleEmployee)
	}

	return s.repo.CreateProfile(ctx, CreateProfileInput{
		OrganizationID: req.OrganizationID,
		Email:          req.Email,
		Name:           req.Name,
		Role:           role,
		Department:     req.Department,
		PasswordHash:   string(hash),
		Settings:       req.Settings,
	})
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (models.Profile, error) {
	prof, err := s.repo.GetProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return models.Profile{}, ErrInvalidCredentials
		}
		return models.Profile{}, err
	}
	if password == "" {
		return models.Profile{}, ErrInvalidCredentials
	}

	hash, err := s.repo.GetPasswordHash(ctx, prof.ID)
	if err != nil {
		return models.Profile{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.Profile{}, ErrInvalidCredentials
	}

	return prof, nil
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	return s.repo.GetProfileByID(ctx, id)
}

// GetPrivacySettings resolves a profile's privacy settings, cache first.
// A missing profile yields empty settings, which downstream resolves to the
// most conservative level, rather than an error.
func (s *Service) GetPrivacySettings(ctx context.Context, profileID uuid.UUID) (models.PrivacySettings, error) {
	if settings, ok := s.cache.Get(ctx, profileID); ok {
		return settings, nil
	}

	prof, err := s.repo.GetProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return models.PrivacySettings{}, nil
		}
		return models.PrivacySettings{}, err
	}

	s.cache.Set(ctx, profileID, prof.Settings)
	return prof.Settings, nil
}

func (s *Service) UpdatePrivacySettings(ctx context.Context, profileID uuid.UUID, settings models.PrivacySettings) error {
	if err := s.repo.UpdateSettings(ctx, profileID, settings); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, profileID)
	return nil
}
