package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showgrounds/paddock/internal/config"
	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/models/dtos/responses"
	"showgrounds/paddock/internal/services"
)

var tenant = services.Tenant{FarmName: "Hollow Creek Farm", CustomerID: "15"}

type fakeMorningSync struct {
	RunFn func(ctx context.Context, tenant services.Tenant, date, trigger string) (*responses.MorningSyncResponse, error)
}

func (f *fakeMorningSync) Run(ctx context.Context, tenant services.Tenant, date, trigger string) (*responses.MorningSyncResponse, error) {
	return f.RunFn(ctx, tenant, date, trigger)
}

type fakeClassMonitor struct {
	mu    sync.Mutex
	calls int
	RunFn func(ctx context.Context, tenant services.Tenant, date string) (*responses.ClassMonitorResponse, error)
}

func (f *fakeClassMonitor) Run(ctx context.Context, tenant services.Tenant, date string) (*responses.ClassMonitorResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.RunFn(ctx, tenant, date)
}

func (f *fakeClassMonitor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestMorningSyncJob_PassesTenantAndTrigger(t *testing.T) {
	var gotTenant services.Tenant
	var gotDate, gotTrigger string
	job := NewMorningSyncJob(&fakeMorningSync{
		RunFn: func(ctx context.Context, tn services.Tenant, date, trigger string) (*responses.MorningSyncResponse, error) {
			gotTenant, gotDate, gotTrigger = tn, date, trigger
			return &responses.MorningSyncResponse{Task: constants.TaskCompleted, Trigger: trigger}, nil
		},
	}, tenant)

	resp, err := job.Run(context.Background(), "2026-02-19", constants.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, constants.TriggerManual, resp.Trigger)
	assert.Equal(t, tenant, gotTenant)
	assert.Equal(t, "2026-02-19", gotDate)
	assert.Equal(t, constants.TriggerManual, gotTrigger)
	assert.False(t, job.Running())
}

func TestMorningSyncJob_RejectsOverlap(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	job := NewMorningSyncJob(&fakeMorningSync{
		RunFn: func(ctx context.Context, tn services.Tenant, date, trigger string) (*responses.MorningSyncResponse, error) {
			close(entered)
			<-unblock
			return &responses.MorningSyncResponse{}, nil
		},
	}, tenant)

	done := make(chan error, 1)
	go func() {
		_, err := job.Run(context.Background(), "", constants.TriggerDaily)
		done <- err
	}()
	<-entered

	assert.True(t, job.Running())
	_, err := job.Run(context.Background(), "", constants.TriggerManual)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(unblock)
	require.NoError(t, <-done)
	assert.False(t, job.Running())
}

func TestMorningSyncJob_ReleasesAfterError(t *testing.T) {
	boom := errors.New("provider down")
	job := NewMorningSyncJob(&fakeMorningSync{
		RunFn: func(ctx context.Context, tn services.Tenant, date, trigger string) (*responses.MorningSyncResponse, error) {
			return nil, boom
		},
	}, tenant)

	_, err := job.Run(context.Background(), "", constants.TriggerManual)
	assert.ErrorIs(t, err, boom)
	_, err = job.Run(context.Background(), "", constants.TriggerManual)
	assert.ErrorIs(t, err, boom, "a failed run must not leave the job locked")
}

func TestMorningSyncJob_ScheduleRejectsBadSpec(t *testing.T) {
	job := NewMorningSyncJob(&fakeMorningSync{}, tenant)
	_, err := job.Schedule(context.Background(), cron.New(), "every morning", time.Minute)
	assert.Error(t, err)
}

func TestMorningSyncJob_ScheduleUsesCronLocation(t *testing.T) {
	venue := time.FixedZone("EST", -5*3600)
	c := cron.New(cron.WithLocation(venue))
	job := NewMorningSyncJob(&fakeMorningSync{}, tenant)

	id, err := job.Schedule(context.Background(), c, "0 7 * * *", time.Minute)
	require.NoError(t, err)

	from := time.Date(2026, 2, 19, 11, 0, 0, 0, time.UTC) // 06:00 EST
	next := c.Entry(id).Schedule.Next(from.In(venue))
	assert.Equal(t, time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC), next.UTC())
}

func TestClassMonitorJob_RunScheduledTicksUntilCancelled(t *testing.T) {
	flow := &fakeClassMonitor{
		RunFn: func(ctx context.Context, tn services.Tenant, date string) (*responses.ClassMonitorResponse, error) {
			return &responses.ClassMonitorResponse{}, nil
		},
	}
	job := NewClassMonitorJob(flow, tenant)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		job.RunScheduled(ctx, 10*time.Millisecond)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return flow.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("RunScheduled did not return after cancel")
	}
}

func TestJobs_RunningByEvent(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	monitor := NewClassMonitorJob(&fakeClassMonitor{
		RunFn: func(ctx context.Context, tn services.Tenant, date string) (*responses.ClassMonitorResponse, error) {
			close(entered)
			<-unblock
			return &responses.ClassMonitorResponse{}, nil
		},
	}, tenant)
	morning := NewMorningSyncJob(&fakeMorningSync{}, tenant)

	j := NewJobs(morning, monitor)
	require.NoError(t, j.Start(context.Background(), config.JobsConfig{Enabled: false}, time.UTC))
	defer j.Stop()

	go func() { _, _ = monitor.Run(context.Background(), "") }()
	<-entered

	assert.True(t, j.Running(constants.SyncEventClassMonitoring))
	assert.False(t, j.Running(constants.SyncEventMorningSync))
	assert.False(t, j.Running("something_else"))
	close(unblock)
}

func TestJobsStart_RejectsBadCron(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	j := NewJobs(NewMorningSyncJob(&fakeMorningSync{}, tenant), NewClassMonitorJob(&fakeClassMonitor{}, tenant))
	err := j.Start(ctx, config.JobsConfig{
		Enabled:              true,
		MorningSyncCron:      "not a cron",
		ClassMonitorInterval: time.Minute,
	}, time.UTC)
	assert.Error(t, err)
	j.Stop()
}
