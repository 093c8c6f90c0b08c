package api

import (
	"context"
	"net/http"
	"strconv"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/models/dtos/requests"
	"showgrounds/paddock/internal/models/dtos/responses"
	"showgrounds/paddock/internal/services"
)

type NotificationLister interface {
	List(ctx context.Context, tenant services.Tenant, q requests.NotificationQuery) (*responses.NotificationListResponse, error)
}

// NotificationsHandler handles GET /api/v1/schedule/notifications
//
// Query: limit (1..500, default 50), offset, source, notification_type (or
// type), date, horse_name, class_name.
func NotificationsHandler(lister NotificationLister, tenant services.Tenant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := parseNotificationQuery(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, constants.MsgInvalidQuery)
			return
		}

		resp, err := lister.List(r.Context(), tenant, q)
		if err != nil {
			respondWithFlowError(w, r, err, constants.MsgNotificationRead)
			return
		}
		respondWithSuccess(w, http.StatusOK, resp)
	}
}

func parseNotificationQuery(r *http.Request) (requests.NotificationQuery, bool) {
	v := r.URL.Query()
	q := requests.NotificationQuery{
		Source:    v.Get("source"),
		Type:      v.Get("notification_type"),
		Date:      v.Get("date"),
		HorseName: v.Get("horse_name"),
		ClassName: v.Get("class_name"),
	}
	if q.Type == "" {
		q.Type = v.Get("type")
	}

	var err error
	if raw := v.Get("limit"); raw != "" {
		if q.Limit, err = strconv.Atoi(raw); err != nil {
			return q, false
		}
		if q.Limit == 0 {
			// zero means "default" to the service; an explicit 0 is out of range
			q.Limit = -1
		}
	}
	if raw := v.Get("offset"); raw != "" {
		if q.Offset, err = strconv.Atoi(raw); err != nil {
			return q, false
		}
	}
	return q, true
}
