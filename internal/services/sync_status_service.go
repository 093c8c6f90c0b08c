package services

import (
	"context"
	"encoding/json"
	"time"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/db/repositories"
	"showgrounds/paddock/internal/models/dtos/responses"
)

// RunningFunc reports whether a flow is executing in this process
type RunningFunc func(event string) bool

// SyncStatusService reports the last recorded run of each flow
type SyncStatusService struct {
	store   *repositories.Store
	display *time.Location
}

func NewSyncStatusService(store *repositories.Store, display *time.Location) *SyncStatusService {
	if display == nil {
		display = time.UTC
	}
	return &SyncStatusService{store: store, display: display}
}

func (s *SyncStatusService) Status(ctx context.Context, tenant Tenant, running RunningFunc) (*responses.JobsStatusResponse, error) {
	out := &responses.JobsStatusResponse{Jobs: []responses.JobStatus{}}

	farm, err := s.store.Farms.Find(ctx, tenant.FarmName, tenant.CustomerIDValue())
	if err != nil {
		return nil, err
	}
	if farm != nil {
		out.FarmID = farm.ID
	}

	for _, event := range []string{constants.SyncEventMorningSync, constants.SyncEventClassMonitoring} {
		job := responses.JobStatus{Event: event}
		if running != nil {
			job.Running = running(event)
		}
		if farm != nil {
			last, err := s.store.SyncHistory.GetLast(ctx, farm.ID, event)
			if err != nil {
				return nil, err
			}
			if last != nil && last.LastSyncAt != nil {
				at := last.LastSyncAt.UTC()
				display := at.In(s.display).Format(constants.LastRunLayout)
				job.LastRunAt = &at
				job.LastRunFmt = &display
				if len(last.Summary) > 0 {
					job.Summary = json.RawMessage(last.Summary)
				}
			}
		}
		out.Jobs = append(out.Jobs, job)
	}
	return out, nil
}
