package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/db/repositories"
	"showgrounds/paddock/internal/models/dtos/requests"
	"showgrounds/paddock/internal/models/dtos/responses"
)

const defaultNotificationLimit = 50

// ErrInvalidQuery marks a request rejected by validation
var ErrInvalidQuery = errors.New("invalid query")

// QueryError lists the fields that failed validation
type QueryError struct {
	Fields []string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query: %s", strings.Join(e.Fields, ", "))
}

func (e *QueryError) Unwrap() error { return ErrInvalidQuery }

func newQueryError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &QueryError{Fields: []string{err.Error()}}
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return &QueryError{Fields: fields}
}

// NotificationService serves ledger reads for a tenant
type NotificationService struct {
	farms    *repositories.FarmRepo
	query    *repositories.NotificationQueryRepo
	validate *validator.Validate
}

func NewNotificationService(farms *repositories.FarmRepo, query *repositories.NotificationQueryRepo) *NotificationService {
	return &NotificationService{
		farms:    farms,
		query:    query,
		validate: validator.New(),
	}
}

// List validates q and returns the matching ledger rows newest first. A
// tenant that has never synced has an empty ledger.
func (s *NotificationService) List(ctx context.Context, tenant Tenant, q requests.NotificationQuery) (*responses.NotificationListResponse, error) {
	if q.Limit == 0 {
		q.Limit = defaultNotificationLimit
	}
	if err := s.validate.Struct(q); err != nil {
		return nil, newQueryError(err)
	}

	out := &responses.NotificationListResponse{
		Items:  []responses.NotificationView{},
		Limit:  q.Limit,
		Offset: q.Offset,
	}

	farm, err := s.farms.Find(ctx, tenant.FarmName, tenant.CustomerIDValue())
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return out, nil
	}

	filter := repositories.NotificationFilter{
		Limit:     q.Limit,
		Offset:    q.Offset,
		Source:    q.Source,
		Type:      q.Type,
		HorseName: strings.TrimSpace(q.HorseName),
		ClassName: strings.TrimSpace(q.ClassName),
	}
	if q.Date != "" {
		d, err := time.Parse(constants.DateLayout, q.Date)
		if err != nil {
			return nil, newQueryError(err)
		}
		filter.Date = &d
	}

	rows, err := s.query.QueryRecent(ctx, farm.ID, filter)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		payload := json.RawMessage(r.Payload)
		if len(payload) == 0 {
			payload = json.RawMessage("null")
		}
		out.Items = append(out.Items, responses.NotificationView{
			ID:               r.ID,
			Source:           r.Source,
			NotificationType: r.NotificationType,
			Message:          r.Message,
			Payload:          payload,
			EntryID:          r.EntryID,
			CreatedAt:        r.CreatedAt,
		})
	}
	out.Count = len(out.Items)
	return out, nil
}
