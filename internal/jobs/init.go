package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"showgrounds/paddock/internal/config"
	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/logging"
)

// morningSyncTimeout bounds one scheduled morning sync
const morningSyncTimeout = 15 * time.Minute

// Jobs holds the background jobs. Handlers trigger runs through the same
// values so manual and scheduled runs never overlap.
type Jobs struct {
	MorningSync  *MorningSyncJob
	ClassMonitor *ClassMonitorJob

	cron *cron.Cron
}

// Running reports whether the job owning a sync history event is mid-run
func (j *Jobs) Running(event string) bool {
	switch event {
	case constants.SyncEventMorningSync:
		return j.MorningSync.Running()
	case constants.SyncEventClassMonitoring:
		return j.ClassMonitor.Running()
	}
	return false
}

// Stop halts the cron scheduler and waits for a running sync to return
func (j *Jobs) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}

// NewJobs pairs the two jobs. Nothing runs until Start.
func NewJobs(morning *MorningSyncJob, monitor *ClassMonitorJob) *Jobs {
	return &Jobs{MorningSync: morning, ClassMonitor: monitor}
}

// Start launches the cron morning sync in venue time and the class monitor
// ticker. A disabled config starts nothing; manual runs still work.
func (j *Jobs) Start(ctx context.Context, cfg config.JobsConfig, venue *time.Location) error {
	if !cfg.Enabled {
		logging.Info("Background jobs disabled")
		return nil
	}

	c := cron.New(
		cron.WithLocation(venue),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := j.MorningSync.Schedule(ctx, c, cfg.MorningSyncCron, morningSyncTimeout); err != nil {
		return fmt.Errorf("schedule morning sync: %w", err)
	}
	j.cron = c
	c.Start()

	go j.ClassMonitor.RunScheduled(ctx, cfg.ClassMonitorInterval)

	logging.Info("Background jobs started",
		"morning_sync_cron", cfg.MorningSyncCron,
		"venue_timezone", venue.String(),
		"class_monitor_interval", cfg.ClassMonitorInterval.String(),
	)
	return nil
}
