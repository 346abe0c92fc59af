package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wellnesshub/platform/pkg/common/models"
)

func testProfile() models.Profile {
	return models.Profile{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Email:          "jane@example.com",
		Role:           "hr_manager",
		Department:     "people",
	}
}

func TestIssueAndValidateToken(t *testing.T) {
	manager, err := NewJWTManager("unit-test-secret-key", "wellnesshub", "wellnesshub-api", time.Hour)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	prof := testProfile()
	token, err := manager.IssueToken(prof)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	claims, err := manager.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.ProfileID != prof.ID {
		t.Fatalf("expected profile id %s, got %s", prof.ID, claims.ProfileID)
	}
	if claims.Role != "hr_manager" || claims.Department != "people" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	manager, err := NewJWTManager("unit-test-secret-key", "wellnesshub", "wellnesshub-api", time.Hour)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	token, err := manager.IssueToken(testProfile())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	if _, err := manager.ValidateToken(context.Background(), tampered); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager, err := NewJWTManager("unit-test-secret-key", "wellnesshub", "wellnesshub-api", time.Minute)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	manager.nowFunc = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := manager.IssueToken(testProfile())
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	manager.nowFunc = time.Now
	if _, err := manager.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestNewJWTManagerRejectsShortSecret(t *testing.T) {
	if _, err := NewJWTManager("short", "wellnesshub", "wellnesshub-api", time.Hour); err == nil {
		t.Fatal("expected error for short secret")
	}
}
