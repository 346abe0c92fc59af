package privacy

import (
	"errors"
	"fmt"

	"github.com/wellnesshub/platform/pkg/common/models"
)

// Domains accepted by the generic anonymization entry point.
const (
	DomainSymptoms       = "symptoms"
	DomainAccommodations = "accommodations"
	DomainWellbeing      = "wellbeing"
)

// ErrUnsupportedDomain is returned when a dispatching entry point receives a
// domain name it does not know.
var ErrUnsupportedDomain = errors.New("unsupported domain")

// Anonymizer composes the hasher, generalizer and aggregator into the
// per-domain pipelines: copy input, hash identifiers, generalize fields per
// the resolved privacy level, aggregate the generalized set, and return both
// the untouched personal copy and the anonymized view.
type Anonymizer struct {
	hasher      *Hasher
	generalizer *Generalizer
	aggregator  *Aggregator
}

// NewAnonymizer wires a facade from its parts. The aggregator carries the
// disclosure threshold; the hasher carries the salt. Both must be treated as
// immutable after construction.
func NewAnonymizer(hasher *Hasher, generalizer *Generalizer, aggregator *Aggregator) *Anonymizer {
	return &Anonymizer{hasher: hasher, generalizer: generalizer, aggregator: aggregator}
}

// AnonymizeSymptomData anonymizes symptom records under the caller's symptom
// privacy level and aggregates the result.
func (a *Anonymizer) AnonymizeSymptomData(records []map[string]interface{}, settings models.PrivacySettings) ([]map[string]interface{}, models.AnonymizedBatch) {
	personal := deepCopyRecords(records)
	level := ParsePrivacyLevel(settings.SymptomPrivacy)

	anonymized := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		anon := a.generalizer.Symptom(record, level)
		a.hashIdentifiers(anon)
		anonymized = append(anonymized, anon)
	}

	return personal, models.AnonymizedBatch{
		Records:    anonymized,
		Aggregated: a.aggregator.AggregateSymptoms(anonymized),
	}
}

// AnonymizeAccommodationData anonymizes accommodation requests under the
// caller's accommodation privacy level and aggregates the result.
func (a *Anonymizer) AnonymizeAccommodationData(records []map[string]interface{}, settings models.PrivacySettings) ([]map[string]interface{}, models.AnonymizedBatch) {
	personal := deepCopyRecords(records)
	level := ParsePrivacyLevel(settings.AccommodationPrivacy)

	anonymized := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		anon := a.generalizer.Accommodation(record, level)
		a.hashIdentifiers(anon)
		anonymized = append(anonymized, anon)
	}

	return personal, models.AnonymizedBatch{
		Records:    anonymized,
		Aggregated: a.aggregator.AggregateAccommodations(anonymized),
	}
}

// AnonymizeWellbeingData anonymizes check-in records under the caller's
// wellbeing privacy level and aggregates the result.
func (a *Anonymizer) AnonymizeWellbeingData(records []map[string]interface{}, settings models.PrivacySettings) ([]map[string]interface{}, models.AnonymizedBatch) {
	personal := deepCopyRecords(records)
	level := ParsePrivacyLevel(settings.WellbeingPrivacy)

	anonymized := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		anon := a.generalizer.Wellbeing(record, level)
		a.hashIdentifiers(anon)
		anonymized = append(anonymized, anon)
	}

	return personal, models.AnonymizedBatch{
		Records:    anonymized,
		Aggregated: a.aggregator.AggregateWellbeing(anonymized),
	}
}

// AnonymizeForDomain dispatches on a domain tag. Unknown domains fail with
// ErrUnsupportedDomain rather than silently returning an empty result.
func (a *Anonymizer) AnonymizeForDomain(domain string, records []map[string]interface{}, settings models.PrivacySettings) ([]map[string]interface{}, models.AnonymizedBatch, error) {
	switch domain {
	case DomainSymptoms:
		personal, batch := a.AnonymizeSymptomData(records, settings)
		return personal, batch, nil
	case DomainAccommodations:
		personal, batch := a.AnonymizeAccommodationData(records, settings)
		return personal, batch, nil
	case DomainWellbeing:
		personal, batch := a.AnonymizeWellbeingData(records, settings)
		return personal, batch, nil
	default:
		return nil, models.AnonymizedBatch{}, fmt.Errorf("%w: %q", ErrUnsupportedDomain, domain)
	}
}

// hashIdentifiers replaces owner identifiers in place on an already-copied
// record. Keys that are present but empty are hashed like any other value.
func (a *Anonymizer) hashIdentifiers(record map[string]interface{}) {
	for _, key := range []string{"user_id", "profile_id"} {
		if value, ok := record[key]; ok {
			record[key] = a.hasher.Hash(getString(value))
		}
	}
}
