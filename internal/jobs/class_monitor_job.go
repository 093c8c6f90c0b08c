package jobs

import (
	"context"
	"errors"
	"time"

	"showgrounds/paddock/internal/logging"
	"showgrounds/paddock/internal/models/dtos/responses"
	"showgrounds/paddock/internal/services"
)

// ClassMonitorFlow is the part of services.ClassMonitoringService the job drives
type ClassMonitorFlow interface {
	Run(ctx context.Context, tenant services.Tenant, dateOverride string) (*responses.ClassMonitorResponse, error)
}

// ClassMonitorJob polls live class state for the configured tenant
type ClassMonitorJob struct {
	runGuard
	flow   ClassMonitorFlow
	tenant services.Tenant
}

func NewClassMonitorJob(flow ClassMonitorFlow, tenant services.Tenant) *ClassMonitorJob {
	return &ClassMonitorJob{flow: flow, tenant: tenant}
}

// Run executes one monitoring cycle, or returns ErrAlreadyRunning when a
// cycle is still in progress.
func (j *ClassMonitorJob) Run(ctx context.Context, date string) (*responses.ClassMonitorResponse, error) {
	if !j.acquire() {
		logging.Warn("[ClassMonitorJob] Skipped, previous cycle still in progress")
		return nil, ErrAlreadyRunning
	}
	defer j.release()

	return j.flow.Run(ctx, j.tenant, date)
}

// RunScheduled runs a cycle every interval until ctx is cancelled. Each
// cycle is bounded by the interval so a stuck provider cannot pile up work.
func (j *ClassMonitorJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.Info("[ClassMonitorJob] Scheduled", "interval", interval.String(), "farm", j.tenant.FarmName)

	for {
		select {
		case <-ticker.C:
			j.tick(ctx, interval)
		case <-ctx.Done():
			logging.Info("[ClassMonitorJob] Shutting down scheduled monitoring")
			return
		}
	}
}

func (j *ClassMonitorJob) tick(ctx context.Context, timeout time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := j.Run(runCtx, "")
	switch {
	case errors.Is(err, ErrAlreadyRunning):
		return
	case err != nil:
		logging.Error("[ClassMonitorJob] Scheduled cycle failed", "error", err)
		return
	}
	if resp.Summary.TotalChanges > 0 {
		logging.Info("[ClassMonitorJob] Cycle produced changes",
			"total_changes", resp.Summary.TotalChanges,
			"total_alerts", resp.Summary.TotalAlerts,
		)
	}
}
