package kiln

import (
	"context"
	"fmt"
	"time"

	"github.com/danpasecinic/kiln/events"
	"github.com/danpasecinic/kiln/internal/reflect"
)

type HealthStatus string

const (
	HealthStatusUp   HealthStatus = "up"
	HealthStatusDown HealthStatus = "down"
)

type HealthReport struct {
	ID      string
	Status  HealthStatus
	Error   error
	Latency time.Duration
}

func (r HealthReport) Healthy() bool {
	return r.Status == HealthStatusUp
}

// Health resolves every registration without a scope, in registration
// order, and asks instances implementing HealthChecker for their status.
// A service that fails to resolve is reported down with the resolution
// error; scoped services therefore always report down here. A panicking
// HealthCheck reports down with the recovered value as its error.
func (c *Container) Health(ctx context.Context) []HealthReport {
	ids := c.RegisteredServices()
	reports := make([]HealthReport, 0, len(ids))

	for i, id := range ids {
		c.internal.ReportProgress(events.Progress{
			Operation: "healthCheck",
			ServiceID: id,
			Current:   i + 1,
			Total:     len(ids),
			Message:   "checking service health",
		})

		start := time.Now()
		report := HealthReport{ID: id, Status: HealthStatusUp}

		instance, err := c.internal.Resolve(ctx, id, "")
		if err != nil {
			report.Status = HealthStatusDown
			report.Error = err
		} else if checker, ok := instance.(HealthChecker); ok && !reflect.IsNil(instance) {
			healthy, err := safeHealthCheck(ctx, checker)
			if err != nil {
				report.Error = fmt.Errorf("health check %s: %w", id, err)
			}
			if !healthy {
				report.Status = HealthStatusDown
			}
		}

		report.Latency = time.Since(start)
		reports = append(reports, report)
	}

	return reports
}

func safeHealthCheck(ctx context.Context, checker HealthChecker) (healthy bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			healthy, err = false, fmt.Errorf("panic: %v", r)
		}
	}()
	return checker.HealthCheck(ctx), nil
}

// HealthCheckAll maps every registered identifier to its health. It never
// fails.
func (c *Container) HealthCheckAll(ctx context.Context) map[string]bool {
	reports := c.Health(ctx)
	result := make(map[string]bool, len(reports))
	for _, r := range reports {
		result[r.ID] = r.Healthy()
	}
	return result
}
