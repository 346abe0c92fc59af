package privacy

import "testing"

func sampleContext() map[string]interface{} {
	return map[string]interface{}{
		"user_id":                "user-1",
		KeyOrganizationData:      map[string]interface{}{"size": 120},
		KeyDepartmentData:        map[string]interface{}{"name": "engineering"},
		KeyEmployeeHealthData:    map[string]interface{}{"user-1": "raw"},
		KeySymptomData:           []interface{}{map[string]interface{}{"user_id": "user-1", "symptom_type": "headache"}},
		KeyAnonymizedSymptomData: map[string]interface{}{"counts": map[string]interface{}{"headache": 6.0}},
		KeyAccommodationRequests: []map[string]interface{}{
			{"user_id": "user-1", "type": "remote_work", "anonymity_level": "private", "notes": "personal detail"},
			{"user_id": "user-2", "type": "equipment", "anonymity_level": "shareable", "notes": "standing desk"},
			{"user_id": "user-3", "type": "schedule", "anonymity_level": "private", "notes": "care duties"},
		},
		KeyOrganizationalMetrics: map[string]interface{}{
			"department_metrics": map[string]interface{}{
				"engineering": map[string]interface{}{"employee_count": 12.0},
				"legal":       map[string]interface{}{"employee_count": 3.0},
			},
			"report_date": "2024-03-14",
		},
		"unrelated": "kept",
	}
}

func TestFilterForEmployee(t *testing.T) {
	f := NewRoleFilter(DefaultPolicy())
	out := f.Filter(sampleContext(), RoleEmployee)

	if _, ok := out[KeyOrganizationData]; ok {
		t.Fatal("expected organization data removed for employees")
	}
	dept, ok := out[KeyDepartmentData].(map[string]interface{})
	if !ok || dept["aggregated_only"] != true {
		t.Fatalf("expected aggregated-only department stub, got %v", out[KeyDepartmentData])
	}

	requests, ok := out[KeyAccommodationRequests].([]interface{})
	if !ok || len(requests) != 1 {
		t.Fatalf("expected exactly the employee's own request, got %v", out[KeyAccommodationRequests])
	}
	own := requests[0].(map[string]interface{})
	if own["user_id"] != "user-1" || own["notes"] != "personal detail" {
		t.Fatalf("expected the owner's request intact, got %v", own)
	}
	if out["unrelated"] != "kept" {
		t.Fatal("expected unrecognized keys to pass through")
	}
}

func TestFilterForEmployeeWithoutIdentityDropsAllRequests(t *testing.T) {
	f := NewRoleFilter(DefaultPolicy())
	in := sampleContext()
	delete(in, "user_id")

	out := f.Filter(in, RoleEmployee)

	// Without a caller identity nothing can be proven owned, so nothing
	// is released.
	requests, ok := out[KeyAccommodationRequests].([]interface{})
	if !ok || len(requests) != 0 {
		t.Fatalf("expected no requests without a caller identity, got %v", out[KeyAccommodationRequests])
	}
}

func TestFilterForHRManager(t *testing.T) {
	f := NewRoleFilter(DefaultPolicy())
	out := f.Filter(sampleContext(), RoleHRManager)

	if _, ok := out[KeyEmployeeHealthData]; ok {
		t.Fatal("expected employee health data removed for HR")
	}
	symptoms, ok := out[KeySymptomData].(map[string]interface{})
	if !ok {
		t.Fatalf("expected symptom data swapped for the anonymized view, got %v", out[KeySymptomData])
	}
	if _, ok := symptoms["counts"]; !ok {
		t.Fatalf("expected anonymized counts, got %v", symptoms)
	}

	requests := out[KeyAccommodationRequests].([]map[string]interface{})
	if len(requests) != 3 {
		t.Fatalf("expected all requests visible to HR, got %d", len(requests))
	}
	private := requests[0]
	if private["user_id"] != "anonymous" {
		t.Fatalf("expected private request owner anonymized, got %v", private["user_id"])
	}
	if private["notes"] != DefaultPolicy().RedactionText {
		t.Fatalf("expected private request notes redacted, got %v", private["notes"])
	}
	shareable := requests[1]
	if shareable["user_id"] != "user-2" || shareable["notes"] != "standing desk" {
		t.Fatalf("expected shareable request untouched, got %v", shareable)
	}
}

func TestFilterForHRManagerDropsSymptomDataWithoutAnonymizedView(t *testing.T) {
	f := NewRoleFilter(DefaultPolicy())
	context := sampleContext()
	delete(context, KeyAnonymizedSymptomData)

	out := f.Filter(context, RoleHRManager)
	if _, ok := out[KeySymptomData]; ok {
		t.Fatal("expected symptom data removed when no anonymized view exists")
	}
}

func TestFilterForEmployer(t *testing.T) {
	f := NewRoleFilter(DefaultPolicy())
	out := f.Filter(sampleContext(), RoleEmployer)

	for _, key := range []string{KeyEmployeeHealthData, KeySymptomData, KeyAccommodationRequests} {
		if _, ok := out[key]; ok {
			t.Fatalf("expected %s removed for employers", key)
		}
	}

	metrics := out[KeyOrganizationalMetrics].(map[string]interface{})
	departments := metrics["department_metrics"].(map[string]interface{})
	if _, ok := departments["engineering"]; !ok {
		t.Fatal("expected large department kept")
	}
	if _, ok := departments["legal"]; ok {
		t.Fatal("expected small department suppressed")
	}
	if metrics["report_date"] != "2024-03-14" {
		t.Fatal("expected non-metric entries kept")
	}
}

func TestUnknownRoleGetsEmployerFilter(t *testing.T) {
	f := NewRoleFilter(DefaultPolicy())
	out := f.Filter(sampleContext(), ParseRole("contractor"))

	if _, ok := out[KeyEmployeeHealthData]; ok {
		t.Fatal("expected unknown role to receive the employer filter")
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	f := NewRoleFilter(DefaultPolicy())
	context := sampleContext()
	f.Filter(context, RoleHRManager)

	requests := context[KeyAccommodationRequests].([]map[string]interface{})
	if requests[0]["user_id"] != "user-1" || requests[0]["notes"] != "personal detail" {
		t.Fatalf("input context was mutated: %v", requests[0])
	}
	if _, ok := context[KeyEmployeeHealthData]; !ok {
		t.Fatal("input context was mutated")
	}
}
