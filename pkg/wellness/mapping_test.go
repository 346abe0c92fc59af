package wellness

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSymptomRecordMapOmitsEmptyOptionals(t *testing.T) {
	log := SymptomLog{
		ID:            uuid.New(),
		ProfileID:     uuid.New(),
		SymptomType:   "headache",
		SeverityLevel: 6,
		LoggedAt:      time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC),
	}

	record := symptomRecordMap(log)

	if record["profile_id"] != log.ProfileID.String() {
		t.Fatalf("expected profile id, got %v", record["profile_id"])
	}
	if _, ok := record["notes"]; ok {
		t.Fatal("expected empty notes omitted")
	}
	if _, ok := record["department"]; ok {
		t.Fatal("expected empty department omitted")
	}
}

func TestSymptomRecordMapMergesPayloadWithoutOverwriting(t *testing.T) {
	log := SymptomLog{
		ProfileID:     uuid.New(),
		SymptomType:   "headache",
		SeverityLevel: 6,
		LoggedAt:      time.Now().UTC(),
		Payload: map[string]interface{}{
			"trigger":      "screen time",
			"symptom_type": "spoofed",
		},
	}

	record := symptomRecordMap(log)

	if record["trigger"] != "screen time" {
		t.Fatalf("expected payload field merged, got %v", record["trigger"])
	}
	if record["symptom_type"] != "headache" {
		t.Fatalf("payload must not overwrite core fields, got %v", record["symptom_type"])
	}
}

func TestAccommodationRecordMapEndDate(t *testing.T) {
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	plan := AccommodationPlan{
		ProfileID:      uuid.New(),
		Type:           "remote_work",
		Status:         "pending",
		AnonymityLevel: "private",
		StartDate:      time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		EndDate:        &end,
		CreatedAt:      time.Now().UTC(),
	}

	record := accommodationRecordMap(plan)
	if record["end_date"] != end {
		t.Fatalf("expected end date set, got %v", record["end_date"])
	}

	plan.EndDate = nil
	record = accommodationRecordMap(plan)
	if _, ok := record["end_date"]; ok {
		t.Fatal("expected open-ended plan to omit end date")
	}
}
