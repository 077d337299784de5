package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure; recommendations are still served.
	Degraded Status = "degraded"
	// Unhealthy indicates no index is published.
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
	Status     Status
	Checks     map[string]CheckResult
	Items      int
	SnapshotID string
}

// Service coordinates health checks.
type Service struct {
	indexes IndexReader
	source  SourcePinger
	encoder EncoderChecker
}

// New creates a Service. source and encoder can be nil.
func New(indexes IndexReader, source SourcePinger, encoder EncoderChecker) *Service {
	return &Service{indexes: indexes, source: source, encoder: encoder}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	var r Report

	if idx := s.indexes.Current(); idx != nil {
		checks["catalog"] = CheckOK
		r.Items = idx.Size()
		r.SnapshotID = idx.SnapshotID()
	} else {
		checks["catalog"] = CheckError
	}

	if s.source != nil {
		if err := s.source.Ping(ctx); err != nil {
			checks["source"] = CheckError
		} else {
			checks["source"] = CheckOK
		}
	}

	if s.encoder != nil {
		if err := s.encoder.HealthCheck(ctx); err != nil {
			checks["encoder"] = CheckError
		} else {
			checks["encoder"] = CheckOK
		}
	}

	r.Status = Healthy
	for _, v := range checks {
		if v == CheckError {
			r.Status = Degraded
			break
		}
	}
	if checks["catalog"] == CheckError {
		r.Status = Unhealthy
	}
	r.Checks = checks

	return r
}
