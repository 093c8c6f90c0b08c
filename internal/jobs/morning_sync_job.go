package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/logging"
	"showgrounds/paddock/internal/models/dtos/responses"
	"showgrounds/paddock/internal/services"
)

// ErrAlreadyRunning is returned when a run of the same flow is in progress
var ErrAlreadyRunning = errors.New("run already in progress")

// MorningSyncFlow is the part of services.MorningSyncService the job drives
type MorningSyncFlow interface {
	Run(ctx context.Context, tenant services.Tenant, dateOverride string, trigger string) (*responses.MorningSyncResponse, error)
}

// MorningSyncJob runs the morning sync for the configured tenant, once per
// day from cron and on demand from the API or CLI. Only one run at a time.
type MorningSyncJob struct {
	runGuard
	flow   MorningSyncFlow
	tenant services.Tenant
}

func NewMorningSyncJob(flow MorningSyncFlow, tenant services.Tenant) *MorningSyncJob {
	return &MorningSyncJob{flow: flow, tenant: tenant}
}

// Run executes one sync. It returns ErrAlreadyRunning instead of waiting
// when another run holds the job.
func (j *MorningSyncJob) Run(ctx context.Context, date string, trigger string) (*responses.MorningSyncResponse, error) {
	if !j.acquire() {
		logging.Warn("[MorningSyncJob] Skipped, previous run still in progress", "trigger", trigger)
		return nil, ErrAlreadyRunning
	}
	defer j.release()

	return j.flow.Run(ctx, j.tenant, date, trigger)
}

// Schedule registers the daily run on c. spec is a standard five-field cron
// expression evaluated in c's location.
func (j *MorningSyncJob) Schedule(ctx context.Context, c *cron.Cron, spec string, timeout time.Duration) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		logging.Info("[MorningSyncJob] Starting scheduled sync", "farm", j.tenant.FarmName)
		resp, err := j.Run(runCtx, "", constants.TriggerDaily)
		if err != nil {
			if !errors.Is(err, ErrAlreadyRunning) {
				logging.Error("[MorningSyncJob] Scheduled sync failed", "error", err)
			}
			return
		}
		logging.Info("[MorningSyncJob] Scheduled sync completed",
			"show", resp.Summary.ShowName,
			"duration", time.Since(start).Truncate(time.Millisecond).String(),
		)
	})
	if err != nil {
		return 0, fmt.Errorf("invalid morning sync schedule %q: %w", spec, err)
	}
	return id, nil
}
