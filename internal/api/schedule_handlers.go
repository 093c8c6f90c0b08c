package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/jobs"
	"showgrounds/paddock/internal/logging"
	"showgrounds/paddock/internal/middleware"
	"showgrounds/paddock/internal/models/dtos/responses"
	"showgrounds/paddock/internal/providers"
	"showgrounds/paddock/internal/services"
)

// MorningSyncTrigger runs the morning sync; *jobs.MorningSyncJob satisfies it
type MorningSyncTrigger interface {
	Run(ctx context.Context, date string, trigger string) (*responses.MorningSyncResponse, error)
}

// ClassMonitorTrigger runs one monitoring cycle; *jobs.ClassMonitorJob satisfies it
type ClassMonitorTrigger interface {
	Run(ctx context.Context, date string) (*responses.ClassMonitorResponse, error)
}

type ScheduleViewer interface {
	View(ctx context.Context, tenant services.Tenant, f services.ScheduleViewFilter) (*responses.ScheduleViewResponse, error)
}

// DailyScheduleHandler handles GET /api/v1/schedule/daily
//
// Runs the morning sync for ?date (YYYY-MM-DD, default today). An invalid
// date falls back to today.
func DailyScheduleHandler(sync MorningSyncTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := sync.Run(r.Context(), r.URL.Query().Get("date"), constants.TriggerDaily)
		if err != nil {
			respondWithFlowError(w, r, err, constants.MsgSyncFailed)
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// ClassMonitorHandler handles GET /api/v1/schedule/class-monitor
func ClassMonitorHandler(monitor ClassMonitorTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := monitor.Run(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			respondWithFlowError(w, r, err, constants.MsgMonitorFailed)
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

// ScheduleViewHandler handles GET /api/v1/schedule/view
func ScheduleViewHandler(viewer ScheduleViewer, tenant services.Tenant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		view, err := viewer.View(r.Context(), tenant, services.ScheduleViewFilter{
			Date:      q.Get("date"),
			HorseName: q.Get("horse_name"),
			ClassName: q.Get("class_name"),
		})
		if err != nil {
			respondWithFlowError(w, r, err, constants.MsgScheduleRead)
			return
		}
		respondWithSuccess(w, http.StatusOK, view)
	}
}

// respondWithFlowError maps a flow error onto a status code. Provider
// failures are the upstream's fault and answer 502.
func respondWithFlowError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	log := logging.WithRequest(middleware.RequestIDFrom(r.Context()), r.URL.Path)

	switch {
	case errors.Is(err, jobs.ErrAlreadyRunning):
		respondWithError(w, http.StatusConflict, constants.MsgRunInProgress)
	case errors.Is(err, services.ErrInvalidQuery):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case providers.ErrorCode(err) != "":
		code := providers.ErrorCode(err)
		log.Warnw("Upstream failure", "code", code, "error", err)
		respondWithError(w, http.StatusBadGateway,
			fmt.Sprintf("%s: %s", constants.MsgUpstreamFailure, constants.GetErrorMessage(code)))
	case errors.Is(err, context.DeadlineExceeded):
		log.Warnw("Request timed out", "error", err)
		respondWithError(w, http.StatusGatewayTimeout, fallback)
	default:
		log.Errorw(fallback, "error", err)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
