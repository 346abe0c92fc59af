// Package privacy implements the anonymization and role-based filtering
// engine for wellness records. It is pure and synchronous: every entry point
// deep-copies its input, returns freshly allocated output and performs no
// I/O, so a single instance is safe for concurrent use once constructed.
package privacy

import (
	"fmt"
	"strings"
	"time"
)

// PrivacyLevel controls how aggressively fields are generalized or removed
// before a record leaves the owner's view.
type PrivacyLevel string

const (
	PrivacyLevelHigh   PrivacyLevel = "high"
	PrivacyLevelMedium PrivacyLevel = "medium"
	PrivacyLevelLow    PrivacyLevel = "low"
)

// ParsePrivacyLevel maps a caller-supplied string to a PrivacyLevel.
// Unknown or empty values resolve to the most conservative level.
func ParsePrivacyLevel(s string) PrivacyLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "medium":
		return PrivacyLevelMedium
	case "low":
		return PrivacyLevelLow
	default:
		return PrivacyLevelHigh
	}
}

// Role identifies the requesting party for role-based filtering.
type Role string

const (
	RoleEmployee  Role = "employee"
	RoleHRManager Role = "hr_manager"
	RoleEmployer  Role = "employer"
)

// ParseRole maps a caller-supplied string to a Role. Unknown values resolve
// to the employer role, which carries the most restrictive filter policy.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "employee":
		return RoleEmployee
	case "hr", "hr_manager", "hr-manager":
		return RoleHRManager
	default:
		return RoleEmployer
	}
}

func deepCopyMap(src map[string]interface{}) map[string]interface{} {
	if src == nil {
		return nil
	}
	dst := make(map[string]interface{}, len(src))
	for key, value := range src {
		dst[key] = deepCopyValue(value)
	}
	return dst
}

func deepCopyValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return deepCopyMap(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, nested := range v {
			out[i] = deepCopyValue(nested)
		}
		return out
	case []map[string]interface{}:
		out := make([]map[string]interface{}, len(v))
		for i, nested := range v {
			out[i] = deepCopyMap(nested)
		}
		return out
	default:
		return value
	}
}

func deepCopyRecords(records []map[string]interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, len(records))
	for i, record := range records {
		out[i] = deepCopyMap(record)
	}
	return out
}

func getString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return ""
	}
}

func getNumber(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

// parseTimestamp accepts the timestamp shapes that show up in stored records
// and JSON payloads: time.Time, RFC 3339 strings and bare dates.
func parseTimestamp(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// startOfWeek truncates to the preceding Monday, keeping the time zone.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}
