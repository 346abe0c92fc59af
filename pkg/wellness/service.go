package wellness

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wellnesshub/platform/pkg/common/kafka"
	"github.com/wellnesshub/platform/pkg/common/logger"
	"github.com/wellnesshub/platform/pkg/common/models"
	"github.com/wellnesshub/platform/pkg/privacy"
	"github.com/wellnesshub/platform/pkg/profile"
	"github.com/wellnesshub/platform/pkg/scrub"
	"gorm.io/datatypes"
)

var validMoods = map[string]struct{}{
	"great": {}, "good": {}, "okay": {}, "struggling": {}, "poor": {},
}

// EventPublisher is the slice of the kafka producer the service needs.
type EventPublisher interface {
	PublishRecords(ctx context.Context, eventType, source string, env kafka.RecordEnvelope) error
}

const serviceName = "wellness-service"

// Service owns the wellness record lifecycle. Writes validate and persist;
// reads for anyone but the record owner run through the anonymization
// pipeline before anything leaves the service.
type Service struct {
	repo       *Repository
	profiles   *profile.Service
	anonymizer *privacy.Anonymizer
	producer   EventPublisher
	scrubber   *scrub.Scrubber
}

func NewService(repo *Repository, profiles *profile.Service, anonymizer *privacy.Anonymizer, producer EventPublisher, scrubber *scrub.Scrubber) *Service {
	return &Service{repo: repo, profiles: profiles, anonymizer: anonymizer, producer: producer, scrubber: scrubber}
}

func (s *Service) TrackSymptom(ctx context.Context, req models.TrackSymptomRequest) (models.RecordAck, error) {
	if req.ProfileID == uuid.Nil {
		return models.RecordAck{}, fmt.Errorf("profile id required")
	}
	if req.SymptomType == "" {
		return models.RecordAck{}, fmt.Errorf("symptom type required")
	}
	if req.SeverityLevel < 1 || req.SeverityLevel > 10 {
		return models.RecordAck{}, fmt.Errorf("severity must be between 1 and 10")
	}

	owner, err := s.profiles.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return models.RecordAck{}, err
	}

	loggedAt := req.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now().UTC()
	}
	sharing := req.PrivacyLevel
	if sharing == "" {
		sharing = "private"
	}

	log := &SymptomLog{
		ID:             uuid.New(),
		ProfileID:      owner.ID,
		OrganizationID: owner.OrganizationID,
		Department:     owner.Department,
		SymptomType:    req.SymptomType,
		SeverityLevel:  req.SeverityLevel,
		SharingLevel:   sharing,
		Notes:          s.scrubber.Clean(req.Notes),
		LoggedAt:       loggedAt,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.CreateSymptomLog(ctx, log); err != nil {
		return models.RecordAck{}, err
	}

	s.publishRecord(ctx, kafka.EventTrack, privacy.DomainSymptoms, owner.OrganizationID, log.ID, symptomRecordMap(*log))

	return models.RecordAck{ID: log.ID, Status: "logged", Timestamp: log.CreatedAt}, nil
}

func (s *Service) QuickCheckin(ctx context.Context, req models.CheckinRequest) (models.RecordAck, error) {
	if req.ProfileID == uuid.Nil {
		return models.RecordAck{}, fmt.Errorf("profile id required")
	}
	if _, ok := validMoods[req.OverallWellbeing]; !ok {
		return models.RecordAck{}, fmt.Errorf("unknown wellbeing value %q", req.OverallWellbeing)
	}

	owner, err := s.profiles.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return models.RecordAck{}, err
	}

	checkedInAt := req.CheckedInAt
	if checkedInAt.IsZero() {
		checkedInAt = time.Now().UTC()
	}

	checkin := &WellbeingCheckin{
		ID:               uuid.New(),
		ProfileID:        owner.ID,
		OrganizationID:   owner.OrganizationID,
		Department:       owner.Department,
		OverallWellbeing: req.OverallWellbeing,
		EmojiMood:        req.EmojiMood,
		Notes:            s.scrubber.Clean(req.Notes),
		CheckedInAt:      checkedInAt,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.CreateCheckin(ctx, checkin); err != nil {
		return models.RecordAck{}, err
	}

	s.publishRecord(ctx, kafka.EventCheckin, privacy.DomainWellbeing, owner.OrganizationID, checkin.ID, checkinRecordMap(*checkin))

	return models.RecordAck{ID: checkin.ID, Status: "recorded", Timestamp: checkin.CreatedAt}, nil
}

func (s *Service) RequestAccommodation(ctx context.Context, req models.AccommodationInput) (models.RecordAck, error) {
	if req.ProfileID == uuid.Nil {
		return models.RecordAck{}, fmt.Errorf("profile id required")
	}
	if req.Type == "" {
		return models.RecordAck{}, fmt.Errorf("accommodation type required")
	}

	owner, err := s.profiles.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return models.RecordAck{}, err
	}

	status := req.Status
	if status == "" {
		status = "pending"
	}
	anonymity := req.AnonymityLevel
	if anonymity == "" {
		anonymity = "private"
	}

	plan := &AccommodationPlan{
		ID:             uuid.New(),
		ProfileID:      owner.ID,
		OrganizationID: owner.OrganizationID,
		Type:           req.Type,
		Status:         status,
		AnonymityLevel: anonymity,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Notes:          s.scrubber.Clean(req.Notes),
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := s.repo.CreateAccommodation(ctx, plan); err != nil {
		return models.RecordAck{}, err
	}

	s.publishRecord(ctx, kafka.EventAccommodation, privacy.DomainAccommodations, owner.OrganizationID, plan.ID, accommodationRecordMap(*plan))

	return models.RecordAck{ID: plan.ID, Status: status, Timestamp: plan.CreatedAt}, nil
}

// History returns a profile's records for one domain. The owner receives the
// personal copy; any other requester receives the anonymized view built with
// the owner's privacy settings. Every non-owner read is audited.
func (s *Service) History(ctx context.Context, domain string, profileID uuid.UUID, since time.Time, requester models.Requester) (models.HistoryResponse, error) {
	records, err := s.fetchDomainRecords(ctx, domain, profileID, since)
	if err != nil {
		return models.HistoryResponse{}, err
	}

	if requester.ProfileID == profileID {
		return models.HistoryResponse{ProfileID: profileID, Personal: records}, nil
	}

	settings, err := s.profiles.GetPrivacySettings(ctx, profileID)
	if err != nil {
		return models.HistoryResponse{}, err
	}

	_, batch, err := s.anonymizer.AnonymizeForDomain(domain, records, settings)
	if err != nil {
		return models.HistoryResponse{}, err
	}

	s.audit(ctx, requester, "history:"+domain, map[string]interface{}{
		"subject_profile_id": profileID.String(),
		"records":            len(records),
	})

	return models.HistoryResponse{Anonymized: &batch}, nil
}

// OrganizationRecords returns the anonymized, aggregated view of one domain
// across an organization. There is no personal copy on this path; raw
// records never leave the service.
func (s *Service) OrganizationRecords(ctx context.Context, domain string, organizationID uuid.UUID, since, until time.Time, requester models.Requester) (models.AnonymizedBatch, error) {
	var records []map[string]interface{}
	var err error

	switch domain {
	case privacy.DomainSymptoms:
		var logs []SymptomLog
		logs, err = s.repo.SymptomsByOrganization(ctx, organizationID, since, until)
		records = symptomRecordMaps(logs)
	case privacy.DomainAccommodations:
		var plans []AccommodationPlan
		plans, err = s.repo.AccommodationsByOrganization(ctx, organizationID, since, until)
		records = accommodationRecordMaps(plans)
	case privacy.DomainWellbeing:
		var checkins []WellbeingCheckin
		checkins, err = s.repo.CheckinsByOrganization(ctx, organizationID, since, until)
		records = checkinRecordMaps(checkins)
	default:
		return models.AnonymizedBatch{}, fmt.Errorf("%w: %q", privacy.ErrUnsupportedDomain, domain)
	}
	if err != nil {
		return models.AnonymizedBatch{}, err
	}

	// Organization-wide reads always use the conservative default settings;
	// individual opt-ins only loosen a member's own history view.
	_, batch, err := s.anonymizer.AnonymizeForDomain(domain, records, models.PrivacySettings{})
	if err != nil {
		return models.AnonymizedBatch{}, err
	}

	s.audit(ctx, requester, "organization:"+domain, map[string]interface{}{
		"organization_id": organizationID.String(),
		"records":         len(records),
	})

	return batch, nil
}

func (s *Service) fetchDomainRecords(ctx context.Context, domain string, profileID uuid.UUID, since time.Time) ([]map[string]interface{}, error) {
	switch domain {
	case privacy.DomainSymptoms:
		logs, err := s.repo.SymptomsByProfile(ctx, profileID, since)
		if err != nil {
			return nil, err
		}
		return symptomRecordMaps(logs), nil
	case privacy.DomainAccommodations:
		plans, err := s.repo.AccommodationsByProfile(ctx, profileID)
		if err != nil {
			return nil, err
		}
		return accommodationRecordMaps(plans), nil
	case privacy.DomainWellbeing:
		checkins, err := s.repo.CheckinsByProfile(ctx, profileID, since)
		if err != nil {
			return nil, err
		}
		return checkinRecordMaps(checkins), nil
	default:
		return nil, fmt.Errorf("%w: %q", privacy.ErrUnsupportedDomain, domain)
	}
}

// publishRecord ships a freshly stored record downstream along with the
// owner's privacy settings, so the privacy service can anonymize it without
// a callback. Publish failures are logged, never surfaced to the caller.
func (s *Service) publishRecord(ctx context.Context, eventType, domain string, organizationID, recordID uuid.UUID, record map[string]interface{}) {
	if s.producer == nil {
		return
	}

	settings, err := s.profiles.GetPrivacySettings(ctx, s.recordOwner(record))
	if err != nil {
		logger.Log.WithError(err).Warn("failed to resolve privacy settings for event")
		settings = models.PrivacySettings{}
	}

	env := kafka.RecordEnvelope{
		Domain:          domain,
		OrganizationID:  organizationID.String(),
		RecordID:        recordID.String(),
		Records:         []map[string]interface{}{record},
		PrivacySettings: settings,
	}
	if err := s.producer.PublishRecords(ctx, eventType, serviceName, env); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("failed to publish wellness event")
	}
}

func (s *Service) recordOwner(record map[string]interface{}) uuid.UUID {
	raw, _ := record["profile_id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (s *Service) audit(ctx context.Context, requester models.Requester, action string, detail map[string]interface{}) {
	audit := &AccessAudit{
		ID:        uuid.New(),
		ActorID:   requester.ProfileID.String(),
		ActorRole: string(privacy.ParseRole(requester.Role)),
		Action:    action,
		Detail:    datatypes.JSONMap(detail),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.SaveAudit(ctx, audit); err != nil {
		logger.Log.WithError(err).WithField("action", action).Warn("failed to write access audit")
	}
}
