package api

import (
	"context"
	"net/http"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/models/dtos/responses"
	"showgrounds/paddock/internal/services"
)

type JobsStatusReader interface {
	Status(ctx context.Context, tenant services.Tenant, running services.RunningFunc) (*responses.JobsStatusResponse, error)
}

// JobsStatusHandler handles GET /api/v1/jobs/status: last recorded run of
// each flow and whether one is in progress right now.
func JobsStatusHandler(reader JobsStatusReader, tenant services.Tenant, running services.RunningFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := reader.Status(r.Context(), tenant, running)
		if err != nil {
			respondWithFlowError(w, r, err, constants.MsgJobsStatus)
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}
