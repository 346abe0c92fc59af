package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/wellnesshub/platform/pkg/common/models"
)

// Event types carried on the wellness and metrics topics.
const (
	EventTrack         = "track"
	EventCheckin       = "checkin"
	EventAccommodation = "accommodation"
	EventAnonymize     = "anonymize"
)

// RecordEnvelope is the payload contract between the wellness producer and
// the privacy consumer: freshly stored records plus the owner's privacy
// settings, keyed by domain. The anonymizer never sees anything outside it.
type RecordEnvelope struct {
	Domain          string                   `json:"domain"`
	OrganizationID  string                   `json:"organization_id"`
	RecordID        string                   `json:"record_id"`
	Records         []map[string]interface{} `json:"records"`
	PrivacySettings models.PrivacySettings   `json:"privacy_settings"`
}

func (e RecordEnvelope) asData() map[string]interface{} {
	return map[string]interface{}{
		"domain":           e.Domain,
		"organization_id":  e.OrganizationID,
		"record_id":        e.RecordID,
		"records":          e.Records,
		"privacy_settings": e.PrivacySettings,
	}
}

// ParseRecordEnvelope rebuilds the typed envelope from a decoded event
// payload. Domain and records are required; privacy settings default to
// zero values, which the anonymizer treats as the most restrictive.
func ParseRecordEnvelope(data map[string]interface{}) (RecordEnvelope, error) {
	var env RecordEnvelope

	env.Domain, _ = data["domain"].(string)
	if env.Domain == "" {
		return RecordEnvelope{}, fmt.Errorf("record envelope: domain missing")
	}
	env.OrganizationID, _ = data["organization_id"].(string)
	env.RecordID, _ = data["record_id"].(string)

	rawRecords, ok := data["records"].([]interface{})
	if !ok {
		return RecordEnvelope{}, fmt.Errorf("record envelope: records missing")
	}
	env.Records = make([]map[string]interface{}, 0, len(rawRecords))
	for _, raw := range rawRecords {
		if m, ok := raw.(map[string]interface{}); ok {
			env.Records = append(env.Records, m)
		}
	}

	if settingsMap, ok := data["privacy_settings"].(map[string]interface{}); ok {
		settingsBytes, err := json.Marshal(settingsMap)
		if err != nil {
			return RecordEnvelope{}, fmt.Errorf("record envelope: %w", err)
		}
		if err := json.Unmarshal(settingsBytes, &env.PrivacySettings); err != nil {
			return RecordEnvelope{}, fmt.Errorf("record envelope: %w", err)
		}
	}

	return env, nil
}
