package privacy

import "testing"

func TestParsePrivacyLevelDefaultsToHigh(t *testing.T) {
	cases := map[string]PrivacyLevel{
		"high":    PrivacyLevelHigh,
		"medium":  PrivacyLevelMedium,
		"low":     PrivacyLevelLow,
		"MEDIUM":  PrivacyLevelMedium,
		"":        PrivacyLevelHigh,
		"bananas": PrivacyLevelHigh,
	}
	for input, want := range cases {
		if got := ParsePrivacyLevel(input); got != want {
			t.Fatalf("ParsePrivacyLevel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseRoleDefaultsToEmployer(t *testing.T) {
	cases := map[string]Role{
		"employee":   RoleEmployee,
		"hr_manager": RoleHRManager,
		"hr":         RoleHRManager,
		"hr-manager": RoleHRManager,
		"employer":   RoleEmployer,
		"":           RoleEmployer,
		"contractor": RoleEmployer,
	}
	for input, want := range cases {
		if got := ParseRole(input); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", input, got, want)
		}
	}
}
