package privacy

import (
	"math"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

var accommodationDateFields = []string{"request_date", "start_date", "end_date"}

// Generalizer reduces the precision of granular fields according to the
// requested privacy level. It is stateless: every call evaluates the rule
// table fresh against a copy of the record, so the caller's record is never
// touched.
type Generalizer struct {
	redaction string
}

// NewGeneralizer builds a generalizer using the policy's redaction text.
func NewGeneralizer(policy PolicyConfig) *Generalizer {
	redaction := policy.RedactionText
	if redaction == "" {
		redaction = DefaultPolicy().RedactionText
	}
	return &Generalizer{redaction: redaction}
}

// Symptom generalizes a symptom record. At high privacy the numeric severity
// collapses into a low/medium/high category and the date into its week; at
// medium the severity is rounded and the date kept at day resolution; at low
// only the time is truncated to the hour.
func (g *Generalizer) Symptom(record map[string]interface{}, level PrivacyLevel) map[string]interface{} {
	out := deepCopyMap(record)
	g.applyNotes(out, level)

	switch level {
	case PrivacyLevelMedium:
		if severity, ok := getNumber(out["severity_level"]); ok {
			out["severity_level"] = math.Round(severity)
		}
		truncateToDay(out, "date")
	case PrivacyLevelLow:
		truncateToHour(out, "date")
	default:
		if severity, ok := getNumber(out["severity_level"]); ok {
			out["severity_category"] = SeverityCategory(severity)
			delete(out, "severity_level")
		}
		truncateToWeek(out, "date")
	}
	return out
}

// Accommodation generalizes an accommodation request. Dates collapse to the
// month at high privacy and to the day at medium; request type and status
// are never altered here.
func (g *Generalizer) Accommodation(record map[string]interface{}, level PrivacyLevel) map[string]interface{} {
	out := deepCopyMap(record)
	g.applyNotes(out, level)

	switch level {
	case PrivacyLevelMedium:
		for _, field := range accommodationDateFields {
			truncateToDay(out, field)
		}
	case PrivacyLevelLow:
		// Accommodation dates carry no time component worth hiding.
	default:
		for _, field := range accommodationDateFields {
			truncateToMonth(out, field)
		}
	}
	return out
}

// Wellbeing generalizes a check-in record. At high privacy the five-point
// wellbeing label collapses into a tri-state category, emoji reactions are
// dropped and the timestamp moves to week resolution.
func (g *Generalizer) Wellbeing(record map[string]interface{}, level PrivacyLevel) map[string]interface{} {
	out := deepCopyMap(record)
	g.applyNotes(out, level)

	switch level {
	case PrivacyLevelMedium:
		if _, ok := out["timestamp"]; ok {
			truncateToDay(out, "timestamp")
			out["date"] = out["timestamp"]
			delete(out, "timestamp")
		}
	case PrivacyLevelLow:
		truncateToHour(out, "timestamp")
	default:
		if mood := getString(out["overall_wellbeing"]); mood != "" {
			out["wellbeing_category"] = WellbeingCategory(mood)
			delete(out, "overall_wellbeing")
		}
		delete(out, "emoji_mood")
		truncateToWeek(out, "timestamp")
	}
	return out
}

func (g *Generalizer) applyNotes(record map[string]interface{}, level PrivacyLevel) {
	if _, ok := record["notes"]; !ok {
		return
	}
	switch level {
	case PrivacyLevelHigh:
		delete(record, "notes")
	case PrivacyLevelMedium:
		record["notes"] = g.redaction
	}
}

// SeverityCategory buckets a 1-10 severity into low (=<3), medium (4-7) and
// high (>=8).
func SeverityCategory(severity float64) string {
	switch {
	case severity <= 3:
		return "low"
	case severity <= 7:
		return "medium"
	default:
		return "high"
	}
}

// WellbeingCategory collapses the five-point check-in scale into a tri-state.
func WellbeingCategory(mood string) string {
	switch mood {
	case "great", "good":
		return "high"
	case "okay":
		return "medium"
	default:
		return "low"
	}
}

func truncateToWeek(record map[string]interface{}, field string) {
	value, ok := record[field]
	if !ok {
		return
	}
	if ts, ok := parseTimestamp(value); ok {
		record["week"] = startOfWeek(ts).Format(dayLayout)
		delete(record, field)
	}
}

func truncateToDay(record map[string]interface{}, field string) {
	value, ok := record[field]
	if !ok || value == nil {
		return
	}
	if ts, ok := parseTimestamp(value); ok {
		record[field] = ts.Format(dayLayout)
	}
}

func truncateToMonth(record map[string]interface{}, field string) {
	value, ok := record[field]
	if !ok || value == nil {
		return
	}
	if ts, ok := parseTimestamp(value); ok {
		record[field] = ts.Format(monthLayout)
	}
}

func truncateToHour(record map[string]interface{}, field string) {
	value, ok := record[field]
	if !ok {
		return
	}
	if ts, ok := parseTimestamp(value); ok {
		record[field] = time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), 0, 0, 0, ts.Location()).Format(time.RFC3339)
	}
}
