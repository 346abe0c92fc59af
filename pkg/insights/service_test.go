package insights

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wellnesshub/platform/pkg/common/models"
	"github.com/wellnesshub/platform/pkg/privacy"
	"github.com/wellnesshub/platform/pkg/profile"
)

type stubRecords struct {
	batch models.AnonymizedBatch
	// recordTimes simulates dated records; each fetch counts only the ones
	// inside [since, until).
	recordTimes []time.Time
	calls       int
}

func (s *stubRecords) OrganizationRecords(ctx context.Context, domain string, organizationID uuid.UUID, since, until time.Time, requester models.Requester) (models.AnonymizedBatch, error) {
	s.calls++
	if s.recordTimes == nil {
		return s.batch, nil
	}
	total := 0
	for _, ts := range s.recordTimes {
		if !ts.Before(since) && ts.Before(until) {
			total++
		}
	}
	return models.AnonymizedBatch{
		Aggregated: models.AggregateResult{Counts: map[string]int{"good": total}, Total: total},
	}, nil
}

type stubPopulation struct {
	count       int
	departments []profile.DepartmentCount
}

func (s *stubPopulation) CountByOrganization(ctx context.Context, organizationID uuid.UUID) (int, error) {
	return s.count, nil
}

func (s *stubPopulation) CountByDepartment(ctx context.Context, organizationID uuid.UUID) ([]profile.DepartmentCount, error) {
	return s.departments, nil
}

func TestMetricsRejectsSmallOrganizations(t *testing.T) {
	service := NewService(&stubRecords{}, &stubPopulation{count: 3}, privacy.NewRoleFilter(privacy.DefaultPolicy()), 5)

	_, err := service.Metrics(context.Background(), privacy.DomainSymptoms, uuid.New(), 3, models.Requester{Role: "employer"})
	if err != ErrInsufficientData {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestMetricsReturnsAggregate(t *testing.T) {
	records := &stubRecords{batch: models.AnonymizedBatch{
		Aggregated: models.AggregateResult{Counts: map[string]int{"headache": 6}, Total: 6},
	}}
	service := NewService(records, &stubPopulation{count: 20}, privacy.NewRoleFilter(privacy.DefaultPolicy()), 5)

	orgID := uuid.New()
	metrics, err := service.Metrics(context.Background(), privacy.DomainSymptoms, orgID, 3, models.Requester{Role: "hr_manager"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.EmployeeCount != 20 {
		t.Fatalf("expected employee count 20, got %d", metrics.EmployeeCount)
	}
	if metrics.Aggregated.Counts["headache"] != 6 {
		t.Fatalf("expected aggregate passed through, got %v", metrics.Aggregated)
	}
}

func TestTrendReturnsOneWindowPerMonth(t *testing.T) {
	records := &stubRecords{}
	service := NewService(records, &stubPopulation{count: 20}, privacy.NewRoleFilter(privacy.DefaultPolicy()), 5)

	trend, err := service.Trend(context.Background(), privacy.DomainWellbeing, uuid.New(), 4, models.Requester{Role: "employer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trend) != 4 || records.calls != 4 {
		t.Fatalf("expected four monthly windows, got %d (%d fetches)", len(trend), records.calls)
	}
	if !trend[0].WindowStart.Before(trend[3].WindowStart) {
		t.Fatal("expected windows ordered oldest first")
	}
}

func TestTrendBucketsDoNotOverlap(t *testing.T) {
	// One record an hour ago must count only in the most recent window, not
	// in every earlier one.
	records := &stubRecords{recordTimes: []time.Time{
		time.Now().UTC().Add(-time.Hour),
		time.Now().UTC().AddDate(0, -2, -5),
	}}
	service := NewService(records, &stubPopulation{count: 20}, privacy.NewRoleFilter(privacy.DefaultPolicy()), 5)

	trend, err := service.Trend(context.Background(), privacy.DomainWellbeing, uuid.New(), 4, models.Requester{Role: "employer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trend) != 4 {
		t.Fatalf("expected four monthly windows, got %d", len(trend))
	}

	totals := make([]int, len(trend))
	for i, window := range trend {
		totals[i] = window.Aggregated.Total
	}
	if totals[3] != 1 {
		t.Fatalf("expected the recent record in the newest window only, got totals %v", totals)
	}
	if totals[1] != 1 {
		t.Fatalf("expected the older record in its own window, got totals %v", totals)
	}
	if totals[0] != 0 || totals[2] != 0 {
		t.Fatalf("expected empty windows to stay empty, got totals %v", totals)
	}
}

func TestDepartmentStatsFiltersSmallDepartments(t *testing.T) {
	population := &stubPopulation{departments: []profile.DepartmentCount{
		{Department: "engineering", Count: 12},
		{Department: "legal", Count: 2},
	}}
	service := NewService(&stubRecords{}, population, privacy.NewRoleFilter(privacy.DefaultPolicy()), 5)

	stats, err := service.DepartmentStats(context.Background(), uuid.New(), models.Requester{Role: "employer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	metrics := stats.Context[privacy.KeyOrganizationalMetrics].(map[string]interface{})
	departments := metrics["department_metrics"].(map[string]interface{})
	if _, ok := departments["engineering"]; !ok {
		t.Fatal("expected large department kept")
	}
	if _, ok := departments["legal"]; ok {
		t.Fatal("expected small department suppressed for employers")
	}
}
