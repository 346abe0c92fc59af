package privacy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPolicyEmptyPathUsesDefaults(t *testing.T) {
	policy, err := LoadPolicy("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if policy != DefaultPolicy() {
		t.Fatalf("expected default policy, got %+v", policy)
	}
}

func TestLoadPolicyFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	content := "anonymous_token: redacted-owner\nmin_employee_count: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write policy file: %v", err)
	}

	policy, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if policy.AnonymousToken != "redacted-owner" {
		t.Fatalf("expected configured token, got %q", policy.AnonymousToken)
	}
	if policy.MinEmployeeCount != 10 {
		t.Fatalf("expected configured threshold, got %d", policy.MinEmployeeCount)
	}
	if policy.RedactionText != DefaultPolicy().RedactionText {
		t.Fatalf("expected default redaction text, got %q", policy.RedactionText)
	}
	if policy.ShareableLevel != DefaultPolicy().ShareableLevel {
		t.Fatalf("expected default shareable level, got %q", policy.ShareableLevel)
	}
}

func TestLoadPolicyRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
		t.Fatalf("failed to write policy file: %v", err)
	}

	if _, err := LoadPolicy(path); err == nil {
		t.Fatal("expected error for empty policy file")
	}
}
