package privacy

import "strings"

// Reserved context keys recognized by the role filter. Anything else passes
// through untouched.
const (
	KeyOrganizationData      = "organization_data"
	KeyDepartmentData        = "department_data"
	KeyAccommodationRequests = "accommodation_requests"
	KeyEmployeeHealthData    = "employee_health_data"
	KeySymptomData           = "symptom_data"
	KeyAnonymizedSymptomData = "anonymized_symptom_data"
	KeyOrganizationalMetrics = "organizational_metrics"
)

// RoleFilter strips or coarsens response-context fields the requesting role
// must not see. Each call works on a deep copy; the caller's context is
// never mutated. Calls are independent of each other, there is no state
// carried between them.
type RoleFilter struct {
	policy PolicyConfig
}

// NewRoleFilter builds a filter from the given policy configuration.
func NewRoleFilter(policy PolicyConfig) *RoleFilter {
	defaults := DefaultPolicy()
	if policy.AnonymousToken == "" {
		policy.AnonymousToken = defaults.AnonymousToken
	}
	if policy.RedactionText == "" {
		policy.RedactionText = defaults.RedactionText
	}
	if policy.ShareableLevel == "" {
		policy.ShareableLevel = defaults.ShareableLevel
	}
	if policy.MinEmployeeCount <= 0 {
		policy.MinEmployeeCount = defaults.MinEmployeeCount
	}
	return &RoleFilter{policy: policy}
}

// Filter applies the policy for role to a copy of context and returns it.
// Unknown roles receive the employer policy, the most restrictive one.
func (f *RoleFilter) Filter(context map[string]interface{}, role Role) map[string]interface{} {
	filtered := deepCopyMap(context)
	if filtered == nil {
		return map[string]interface{}{}
	}

	switch role {
	case RoleEmployee:
		f.filterForEmployee(filtered)
	case RoleHRManager:
		f.filterForHRManager(filtered)
	default:
		f.filterForEmployer(filtered)
	}
	return filtered
}

// Employees see their own records only: no organization-wide data, a
// flag-only department stub, and accommodation requests trimmed to the ones
// they own.
func (f *RoleFilter) filterForEmployee(context map[string]interface{}) {
	delete(context, KeyOrganizationData)

	if _, ok := context[KeyDepartmentData]; ok {
		context[KeyDepartmentData] = map[string]interface{}{"aggregated_only": true}
	}

	requests, ok := contextRequests(context)
	if !ok {
		return
	}
	ownerID := getString(context["user_id"])
	own := make([]interface{}, 0, len(requests))
	for _, request := range requests {
		if getString(request["user_id"]) == ownerID {
			own = append(own, request)
		}
	}
	context[KeyAccommodationRequests] = own
}

// HR managers see anonymized views: individual health data is removed,
// symptom data is swapped for its pre-computed anonymized counterpart, and
// non-shareable accommodation requests lose owner identity and notes.
func (f *RoleFilter) filterForHRManager(context map[string]interface{}) {
	delete(context, KeyEmployeeHealthData)

	if _, ok := context[KeySymptomData]; ok {
		if anonymized, ok := context[KeyAnonymizedSymptomData]; ok {
			context[KeySymptomData] = anonymized
		} else {
			delete(context, KeySymptomData)
		}
	}

	requests, ok := contextRequests(context)
	if !ok {
		return
	}
	for _, request := range requests {
		if getString(request["anonymity_level"]) == f.policy.ShareableLevel {
			continue
		}
		if _, ok := request["user_id"]; ok {
			request["user_id"] = f.policy.AnonymousToken
		}
		if _, ok := request["profile_id"]; ok {
			request["profile_id"] = f.policy.AnonymousToken
		}
		if _, ok := request["notes"]; ok {
			request["notes"] = f.policy.RedactionText
		}
	}
}

// Employers see organizational aggregates only. Every individual-level key
// is removed unconditionally and metric sub-maps drop entries below the
// minimum disclosure group.
func (f *RoleFilter) filterForEmployer(context map[string]interface{}) {
	delete(context, KeyEmployeeHealthData)
	delete(context, KeySymptomData)
	delete(context, KeyAccommodationRequests)

	metrics, ok := context[KeyOrganizationalMetrics].(map[string]interface{})
	if !ok {
		return
	}
	for key, value := range metrics {
		if !strings.HasSuffix(key, "_metrics") {
			continue
		}
		subMap, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		kept := make(map[string]interface{}, len(subMap))
		for name, entry := range subMap {
			entryMap, ok := entry.(map[string]interface{})
			if !ok {
				kept[name] = entry
				continue
			}
			if count, ok := getNumber(entryMap["employee_count"]); ok && int(count) >= f.policy.MinEmployeeCount {
				kept[name] = entry
			}
		}
		metrics[key] = kept
	}
}

// contextRequests normalizes the accommodation_requests value, which arrives
// either as []map[string]interface{} from Go callers or []interface{} after
// a JSON round trip. The returned maps alias the context copy so edits stick.
func contextRequests(context map[string]interface{}) ([]map[string]interface{}, bool) {
	switch value := context[KeyAccommodationRequests].(type) {
	case []map[string]interface{}:
		return value, true
	case []interface{}:
		requests := make([]map[string]interface{}, 0, len(value))
		for _, entry := range value {
			if request, ok := entry.(map[string]interface{}); ok {
				requests = append(requests, request)
			}
		}
		return requests, true
	default:
		return nil, false
	}
}
