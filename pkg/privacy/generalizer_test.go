package privacy

import "testing"

func symptomRecord() map[string]interface{} {
	return map[string]interface{}{
		"user_id":        "user-1",
		"symptom_type":   "headache",
		"severity_level": 6.0,
		"notes":          "started after lunch",
		"date":           "2024-03-14T10:30:00Z",
	}
}

func TestSymptomHighPrivacy(t *testing.T) {
	g := NewGeneralizer(DefaultPolicy())
	out := g.Symptom(symptomRecord(), PrivacyLevelHigh)

	if _, ok := out["notes"]; ok {
		t.Fatal("expected notes removed at high privacy")
	}
	if _, ok := out["severity_level"]; ok {
		t.Fatal("expected numeric severity removed at high privacy")
	}
	if out["severity_category"] != "medium" {
		t.Fatalf("expected severity category medium, got %v", out["severity_category"])
	}
	if _, ok := out["date"]; ok {
		t.Fatal("expected exact date removed at high privacy")
	}
	if out["week"] != "2024-03-11" {
		t.Fatalf("expected week of the preceding Monday, got %v", out["week"])
	}
}

func TestSymptomMediumPrivacy(t *testing.T) {
	g := NewGeneralizer(DefaultPolicy())
	record := symptomRecord()
	record["severity_level"] = 6.4
	out := g.Symptom(record, PrivacyLevelMedium)

	if out["notes"] != DefaultPolicy().RedactionText {
		t.Fatalf("expected redacted notes, got %v", out["notes"])
	}
	if sev, _ := out["severity_level"].(float64); sev != 6 {
		t.Fatalf("expected severity rounded to 6, got %v", out["severity_level"])
	}
	if out["date"] != "2024-03-14" {
		t.Fatalf("expected day resolution date, got %v", out["date"])
	}
}

func TestSymptomLowPrivacy(t *testing.T) {
	g := NewGeneralizer(DefaultPolicy())
	out := g.Symptom(symptomRecord(), PrivacyLevelLow)

	if out["notes"] != "started after lunch" {
		t.Fatalf("expected notes untouched at low privacy, got %v", out["notes"])
	}
	if sev, _ := out["severity_level"].(float64); sev != 6 {
		t.Fatalf("expected severity untouched, got %v", out["severity_level"])
	}
	if out["date"] != "2024-03-14T10:00:00Z" {
		t.Fatalf("expected hour resolution date, got %v", out["date"])
	}
}

func TestLowPrivacyIdempotentOnHourAlignedRecords(t *testing.T) {
	g := NewGeneralizer(DefaultPolicy())
	record := map[string]interface{}{
		"user_id":        "user-1",
		"symptom_type":   "headache",
		"severity_level": 6.0,
		"notes":          "started after lunch",
		"date":           "2024-03-14T10:00:00Z",
	}

	out := g.Symptom(record, PrivacyLevelLow)
	for key, want := range record {
		if out[key] != want {
			t.Fatalf("field %s changed at low privacy: %v != %v", key, out[key], want)
		}
	}
	if len(out) != len(record) {
		t.Fatalf("field set changed at low privacy: %v", out)
	}
}

func TestUnknownLevelTreatedAsHigh(t *testing.T) {
	g := NewGeneralizer(DefaultPolicy())
	out := g.Symptom(symptomRecord(), ParsePrivacyLevel("whatever"))

	if _, ok := out["notes"]; ok {
		t.Fatal("expected unknown level to apply high privacy")
	}
	if _, ok := out["severity_level"]; ok {
		t.Fatal("expected unknown level to bucket severity")
	}
}

func TestGeneralizeDoesNotMutateInput(t *testing.T) {
	g := NewGeneralizer(DefaultPolicy())
	record := symptomRecord()
	g.Symptom(record, PrivacyLevelHigh)

	if record["notes"] != "started after lunch" {
		t.Fatal("input record was mutated")
	}
	if record["date"] != "2024-03-14T10:30:00Z" {
		t.Fatal("input date was mutated")
	}
}

func TestAccommodationHighPrivacy(t *testing.T) {
	g := NewGeneralizer(DefaultPolicy())
	out := g.Accommodation(map[string]interface{}{
		"type":       "remote_work",
		"status":     "approved",
		"start_date": "2024-03-14",
		"end_date":   "2024-06-01",
		"notes":      "needs quiet space",
	}, PrivacyLevelHigh)

	if out["start_date"] != "2024-03" || out["end_date"] != "2024-06" {
		t.Fatalf("expected month resolution dates, got %v / %v", out["start_date"], out["end_date"])
	}
	if out["type"] != "remote_work" || out["status"] != "approved" {
		t.Fatal("type and status must never be altered")
	}
	if _, ok := out["notes"]; ok {
		t.Fatal("expected notes removed at high privacy")
	}
}

func TestAccommodationLowPrivacyKeepsDates(t *testing.T) {
	g := NewGeneralizer(DefaultPolicy())
	out := g.Accommodation(map[string]interface{}{
		"type":         "equipment",
		"status":       "pending",
		"request_date": "2024-03-14",
		"start_date":   "2024-04-01",
		"notes":        "standing desk",
	}, PrivacyLevelLow)

	// Date-only fields have nothing below day resolution to hide.
	if out["request_date"] != "2024-03-14" || out["start_date"] != "2024-04-01" {
		t.Fatalf("expected dates untouched at low privacy, got %v / %v", out["request_date"], out["start_date"])
	}
	if out["notes"] != "standing desk" {
		t.Fatalf("expected notes kept at low privacy, got %v", out["notes"])
	}
}

func TestWellbeingHighPrivacy(t *testing.T) {
	g := NewGeneralizer(DefaultPolicy())
	out := g.Wellbeing(map[string]interface{}{
		"overall_wellbeing": "good",
		"emoji_mood":        "slightly_smiling",
		"timestamp":         "2024-03-14T10:30:00Z",
	}, PrivacyLevelHigh)

	if _, ok := out["overall_wellbeing"]; ok {
		t.Fatal("expected five-point label removed at high privacy")
	}
	if out["wellbeing_category"] != "high" {
		t.Fatalf("expected tri-state category high, got %v", out["wellbeing_category"])
	}
	if _, ok := out["emoji_mood"]; ok {
		t.Fatal("expected emoji mood removed at high privacy")
	}
	if out["week"] != "2024-03-11" {
		t.Fatalf("expected week resolution, got %v", out["week"])
	}
}

func TestWellbeingMediumPrivacy(t *testing.T) {
	g := NewGeneralizer(DefaultPolicy())
	out := g.Wellbeing(map[string]interface{}{
		"overall_wellbeing": "okay",
		"timestamp":         "2024-03-14T10:30:00Z",
	}, PrivacyLevelMedium)

	if out["overall_wellbeing"] != "okay" {
		t.Fatalf("expected label kept at medium privacy, got %v", out["overall_wellbeing"])
	}
	if out["date"] != "2024-03-14" {
		t.Fatalf("expected day resolution date, got %v", out["date"])
	}
	if _, ok := out["timestamp"]; ok {
		t.Fatal("expected timestamp replaced by date at medium privacy")
	}
}

func TestSeverityCategoryBoundaries(t *testing.T) {
	cases := map[float64]string{1: "low", 3: "low", 4: "medium", 7: "medium", 8: "high", 10: "high"}
	for severity, want := range cases {
		if got := SeverityCategory(severity); got != want {
			t.Fatalf("severity %v: expected %q, got %q", severity, want, got)
		}
	}
}
