package wellness

// Conversions from stored rows to the open record shape the privacy engine
// consumes. Optional fields are omitted rather than set to zero values, so
// generalization and redaction only touch what was actually recorded.

func symptomRecordMap(log SymptomLog) map[string]interface{} {
	record := map[string]interface{}{
		"profile_id":     log.ProfileID.String(),
		"date":           log.LoggedAt,
		"symptom_type":   log.SymptomType,
		"severity_level": log.SeverityLevel,
	}
	if log.Notes != "" {
		record["notes"] = log.Notes
	}
	if log.Department != "" {
		record["department"] = log.Department
	}
	for key, value := range log.Payload {
		if _, taken := record[key]; !taken {
			record[key] = value
		}
	}
	return record
}

func accommodationRecordMap(plan AccommodationPlan) map[string]interface{} {
	record := map[string]interface{}{
		"profile_id":   plan.ProfileID.String(),
		"type":         plan.Type,
		"status":       plan.Status,
		"request_date": plan.CreatedAt,
		"start_date":   plan.StartDate,
	}
	if plan.AnonymityLevel != "" {
		record["anonymity_level"] = plan.AnonymityLevel
	}
	if plan.EndDate != nil {
		record["end_date"] = *plan.EndDate
	}
	if plan.Notes != "" {
		record["notes"] = plan.Notes
	}
	return record
}

func checkinRecordMap(checkin WellbeingCheckin) map[string]interface{} {
	record := map[string]interface{}{
		"profile_id":        checkin.ProfileID.String(),
		"timestamp":         checkin.CheckedInAt,
		"overall_wellbeing": checkin.OverallWellbeing,
	}
	if checkin.EmojiMood != "" {
		record["emoji_mood"] = checkin.EmojiMood
	}
	if checkin.Notes != "" {
		record["notes"] = checkin.Notes
	}
	if checkin.Department != "" {
		record["department"] = checkin.Department
	}
	return record
}

func symptomRecordMaps(logs []SymptomLog) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(logs))
	for _, log := range logs {
		records = append(records, symptomRecordMap(log))
	}
	return records
}

func accommodationRecordMaps(plans []AccommodationPlan) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(plans))
	for _, plan := range plans {
		records = append(records, accommodationRecordMap(plan))
	}
	return records
}

func checkinRecordMaps(checkins []WellbeingCheckin) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(checkins))
	for _, checkin := range checkins {
		records = append(records, checkinRecordMap(checkin))
	}
	return records
}
