package health

import (
	"context"

	"github.com/Sergio973-web/buscador-mega/internal/version"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates that no catalog can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Version string
	Checks  map[string]CheckResult
	Items   map[string]int
}

// Service coordinates health checks.
type Service struct {
	catalogs []CatalogChecker
	redis    Pinger
	provider ProviderChecker
}

// New creates a Service. redis and provider can be nil.
func New(catalogs []CatalogChecker, redis Pinger, provider ProviderChecker) *Service {
	return &Service{catalogs: catalogs, redis: redis, provider: provider}
}

// Check runs health checks against all components.
// The report is unhealthy only when every catalog fails.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	counts := make(map[string]int)

	failedCatalogs := 0
	for _, c := range s.catalogs {
		key := "catalog:" + c.Name()
		items, err := c.Items(ctx)
		if err != nil {
			checks[key] = CheckError
			failedCatalogs++
			continue
		}
		checks[key] = CheckOK
		counts[c.Name()] = len(items)
	}

	if s.redis != nil {
		checks["redis"] = result(s.redis.Ping(ctx))
	}
	if s.provider != nil {
		checks["openai"] = result(s.provider.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if len(s.catalogs) > 0 && failedCatalogs == len(s.catalogs) {
		status = Unhealthy
	}

	return Report{Status: status, Version: version.String(), Checks: checks, Items: counts}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
