package health

import (
	"context"
	"errors"
	"time"

	"btoolme/internal/shared/telemetry"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"

	StateConnected = "connected"
	StateError     = "error"
)

var ErrNoChecks = errors.New("no email check configured")

// Checker probes one dependency.
type Checker func(ctx context.Context) error

// Report is the health-check body.
type Report struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// Service encapsulates health-related checks. The email check is required;
// database is reported only when one is wired.
type Service struct {
	Email    Checker
	Database Checker
	Timeout  time.Duration
	Now      func() time.Time
}

// NewService constructs a new health service.
func NewService(email, database Checker) *Service {
	return &Service{Email: email, Database: database, Timeout: 10 * time.Second}
}

// Status runs every configured check. A failing dependency makes the report
// unhealthy; only a missing email check is an error.
func (s *Service) Status(ctx context.Context) (Report, error) {
	ts := s.now().UTC().Format(time.RFC3339)
	if s.Email == nil {
		return Report{Status: StatusUnhealthy, Error: ErrNoChecks.Error(), Timestamp: ts}, ErrNoChecks
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	report := Report{Status: StatusHealthy, Services: map[string]string{}, Timestamp: ts}
	report.Services["email"] = s.probe(ctx, "email", s.Email)
	if s.Database != nil {
		report.Services["database"] = s.probe(ctx, "database", s.Database)
	}
	for _, state := range report.Services {
		if state != StateConnected {
			report.Status = StatusUnhealthy
		}
	}
	return report, nil
}

func (s *Service) probe(ctx context.Context, name string, check Checker) string {
	if err := check(ctx); err != nil {
		telemetry.Warn("health.check_failed", map[string]any{
			"service": name,
			"error":   err.Error(),
		})
		return StateError
	}
	return StateConnected
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
