package insights

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wellnesshub/platform/pkg/common/models"
	"github.com/wellnesshub/platform/pkg/privacy"
	"github.com/wellnesshub/platform/pkg/profile"
)

// ErrInsufficientData is returned when an organization is too small for any
// privacy-preserving analysis at all.
var ErrInsufficientData = errors.New("not enough data for privacy-preserving analysis")

// RecordSource supplies anonymized, aggregated domain records. Implemented
// by the wellness service; raw records never cross this boundary.
type RecordSource interface {
	OrganizationRecords(ctx context.Context, domain string, organizationID uuid.UUID, since, until time.Time, requester models.Requester) (models.AnonymizedBatch, error)
}

// PopulationSource supplies employee headcounts. Implemented by the profile
// repository.
type PopulationSource interface {
	CountByOrganization(ctx context.Context, organizationID uuid.UUID) (int, error)
	CountByDepartment(ctx context.Context, organizationID uuid.UUID) ([]profile.DepartmentCount, error)
}

type Service struct {
	records          RecordSource
	population       PopulationSource
	roleFilter       *privacy.RoleFilter
	minEmployeeCount int
}

func NewService(records RecordSource, population PopulationSource, roleFilter *privacy.RoleFilter, minEmployeeCount int) *Service {
	if minEmployeeCount <= 0 {
		minEmployeeCount = privacy.DefaultMinGroupSize
	}
	return &Service{
		records:          records,
		population:       population,
		roleFilter:       roleFilter,
		minEmployeeCount: minEmployeeCount,
	}
}

// Metrics returns the anonymized aggregate for one domain over a lookback
// window. Organizations below the minimum employee count get an explicit
// error instead of a thin aggregate that could identify individuals.
func (s *Service) Metrics(ctx context.Context, domain string, organizationID uuid.UUID, months int, requester models.Requester) (models.MetricsResponse, error) {
	if months <= 0 {
		months = 3
	}

	employeeCount, err := s.population.CountByOrganization(ctx, organizationID)
	if err != nil {
		return models.MetricsResponse{}, err
	}
	if employeeCount < s.minEmployeeCount {
		return models.MetricsResponse{}, ErrInsufficientData
	}

	end := time.Now().UTC()
	start := end.AddDate(0, -months, 0)

	batch, err := s.records.OrganizationRecords(ctx, domain, organizationID, start, end, requester)
	if err != nil {
		return models.MetricsResponse{}, err
	}

	return models.MetricsResponse{
		OrganizationID: organizationID,
		Domain:         domain,
		WindowStart:    start,
		WindowEnd:      end,
		EmployeeCount:  employeeCount,
		Aggregated:     batch.Aggregated,
	}, nil
}

// Trend returns one aggregate per month, oldest first, for plotting.
func (s *Service) Trend(ctx context.Context, domain string, organizationID uuid.UUID, months int, requester models.Requester) ([]models.MetricsResponse, error) {
	if months <= 0 {
		months = 6
	}

	employeeCount, err := s.population.CountByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if employeeCount < s.minEmployeeCount {
		return nil, ErrInsufficientData
	}

	now := time.Now().UTC()
	trend := make([]models.MetricsResponse, 0, months)
	for i := months; i > 0; i-- {
		start := now.AddDate(0, -i, 0)
		end := now.AddDate(0, -i+1, 0)

		batch, err := s.records.OrganizationRecords(ctx, domain, organizationID, start, end, requester)
		if err != nil {
			return nil, err
		}

		trend = append(trend, models.MetricsResponse{
			OrganizationID: organizationID,
			Domain:         domain,
			WindowStart:    start,
			WindowEnd:      end,
			EmployeeCount:  employeeCount,
			Aggregated:     batch.Aggregated,
		})
	}
	return trend, nil
}

// DepartmentStats builds the organizational-metrics context from department
// headcounts and passes it through the role filter, so under-threshold
// departments disappear for employer-level requesters.
func (s *Service) DepartmentStats(ctx context.Context, organizationID uuid.UUID, requester models.Requester) (models.DepartmentStatsResponse, error) {
	counts, err := s.population.CountByDepartment(ctx, organizationID)
	if err != nil {
		return models.DepartmentStatsResponse{}, err
	}

	departmentMetrics := make(map[string]interface{}, len(counts))
	for _, row := range counts {
		name := row.Department
		if name == "" {
			name = "unassigned"
		}
		departmentMetrics[name] = map[string]interface{}{
			"employee_count": row.Count,
		}
	}

	role := privacy.ParseRole(requester.Role)
	filtered := s.roleFilter.Filter(map[string]interface{}{
		privacy.KeyOrganizationalMetrics: map[string]interface{}{
			"department_metrics": departmentMetrics,
		},
	}, role)

	return models.DepartmentStatsResponse{
		OrganizationID: organizationID,
		Role:           string(role),
		Context:        filtered,
	}, nil
}
