package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"showgrounds/paddock/internal/common"
	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/db"
	"showgrounds/paddock/internal/db/repositories"
	"showgrounds/paddock/internal/logging"
	"showgrounds/paddock/internal/metrics"
	"showgrounds/paddock/internal/models/dtos"
	"showgrounds/paddock/internal/models/dtos/responses"
	"showgrounds/paddock/internal/models/gorm"
	"showgrounds/paddock/internal/providers"
)

const liveStringLimit = 50

// ClassMonitoringService polls live class state for today's open classes,
// diffs it against the stored entries and records change events.
type ClassMonitoringService struct {
	store        *repositories.Store
	source       ShowDataSource
	tokens       TokenSource
	availability *AvailabilityService
	alerts       *common.AlertStream
	metrics      *metrics.MetricsRegistry
	display      *time.Location
	now          Clock
}

func NewClassMonitoringService(
	store *repositories.Store,
	source ShowDataSource,
	tokens TokenSource,
	availability *AvailabilityService,
	alerts *common.AlertStream,
	metricsReg *metrics.MetricsRegistry,
	display *time.Location,
) *ClassMonitoringService {
	if display == nil {
		display = time.UTC
	}
	return &ClassMonitoringService{
		store:        store,
		source:       source,
		tokens:       tokens,
		availability: availability,
		alerts:       alerts,
		metrics:      metricsReg,
		display:      display,
		now:          systemClock,
	}
}

// WithClock replaces the time source
func (s *ClassMonitoringService) WithClock(c Clock) *ClassMonitoringService {
	s.now = c
	return s
}

// classGroup is one live class and our entries in it
type classGroup struct {
	apiClassID int
	apiShowID  int
	entries    []gorm.Entry
}

// groupByClass groups entries by (api_class_id, show_id) in load order.
// Entries whose show has no provider id cannot be polled and are skipped.
func groupByClass(entries []gorm.Entry) []*classGroup {
	type key struct {
		classID int
		showID  string
	}
	index := make(map[key]*classGroup)
	seen := make(map[[2]int]struct{})
	var groups []*classGroup

	for _, e := range entries {
		if e.APIClassID == nil || e.ShowID == nil || e.Show == nil || e.Show.APIShowID == nil {
			continue
		}
		k := key{classID: *e.APIClassID, showID: *e.ShowID}
		if g, ok := index[k]; ok {
			g.entries = append(g.entries, e)
			continue
		}
		apiKey := [2]int{*e.APIClassID, *e.Show.APIShowID}
		if _, dup := seen[apiKey]; dup {
			continue
		}
		seen[apiKey] = struct{}{}
		g := &classGroup{apiClassID: *e.APIClassID, apiShowID: *e.Show.APIShowID, entries: []gorm.Entry{e}}
		index[k] = g
		groups = append(groups, g)
	}
	return groups
}

// clone copies the entries so a retried transaction starts from the
// loaded baseline
func (g *classGroup) clone() *classGroup {
	c := *g
	c.entries = append([]gorm.Entry(nil), g.entries...)
	return &c
}

// monitorRun accumulates the output of one run
type monitorRun struct {
	farmID       string
	day          time.Time
	changes      []map[string]interface{}
	alerts       []responses.Alert
	availability []map[string]interface{}
	updated      int
}

// Run executes one class monitoring cycle for tenant
func (s *ClassMonitoringService) Run(ctx context.Context, tenant Tenant, dateOverride string) (*responses.ClassMonitorResponse, error) {
	started := time.Now()
	day := ResolveRunDate(dateOverride, s.now())
	log := logging.ForFlow(constants.SyncEventClassMonitoring, tenant.FarmName, day.Format(constants.DateLayout))

	resp, err := s.run(ctx, log, tenant, day)
	s.observe(started, err)
	if err != nil {
		log.Errorw("[ClassMonitor] Failed", "error", err)
		return nil, err
	}
	log.Infow("[ClassMonitor] Done",
		"classes_checked", resp.Summary.ClassesChecked,
		"classes_failed", resp.Summary.ClassesFailed,
		"entries_updated", resp.Summary.EntriesUpdated,
		"changes", resp.Summary.TotalChanges,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return resp, nil
}

func (s *ClassMonitoringService) run(ctx context.Context, log *zap.SugaredLogger, tenant Tenant, day time.Time) (*responses.ClassMonitorResponse, error) {
	// the morning sync creates the farm; until then there is nothing to watch
	farm, err := s.store.Farms.Find(ctx, tenant.FarmName, tenant.CustomerIDValue())
	if err != nil {
		return nil, fmt.Errorf("find farm: %w", err)
	}
	if farm == nil {
		log.Infow("[ClassMonitor] Farm not synced yet")
		return s.response(day, 0, 0, &monitorRun{day: day}), nil
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		if providers.IsAuthError(err) {
			s.tokens.Invalidate()
		}
		return nil, fmt.Errorf("provider login: %w", err)
	}

	entries, err := s.store.Entries.ListMonitorable(ctx, farm.ID, day)
	if err != nil {
		return nil, err
	}
	groups := groupByClass(entries)
	log.Infow("[ClassMonitor] Open classes loaded", "entries", len(entries), "classes", len(groups))

	states, failed := s.fetchStates(ctx, log, token, tenant, groups)

	run := &monitorRun{farmID: farm.ID, day: day}
	err = db.WithRetry(ctx, flowTxAttempts, func() error {
		*run = monitorRun{farmID: farm.ID, day: day}
		return s.store.Transaction(ctx, func(tx *repositories.Store) error {
			for i, g := range groups {
				if states[i] == nil {
					continue
				}
				if err := s.processClass(ctx, tx, run, g.clone(), states[i]); err != nil {
					return fmt.Errorf("class %d: %w", g.apiClassID, err)
				}
			}
			summary := map[string]interface{}{
				"classes_checked": len(groups),
				"classes_failed":  failed,
				"entries_updated": run.updated,
				"total_changes":   len(run.changes),
			}
			return tx.SyncHistory.RecordSync(ctx, farm.ID, constants.SyncEventClassMonitoring, s.now(), summary)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("class monitoring write: %w", err)
	}

	s.publish(ctx, log, farm.ID, run.alerts)

	return s.response(day, len(groups), failed, run), nil
}

func (s *ClassMonitoringService) response(day time.Time, checked, failed int, run *monitorRun) *responses.ClassMonitorResponse {
	if run.changes == nil {
		run.changes = []map[string]interface{}{}
	}
	if run.alerts == nil {
		run.alerts = []responses.Alert{}
	}
	if run.availability == nil {
		run.availability = []map[string]interface{}{}
	}
	return &responses.ClassMonitorResponse{
		Summary: responses.ClassMonitorSummary{
			Date:           day.Format(constants.DateLayout),
			ClassesChecked: checked,
			ClassesFailed:  failed,
			EntriesUpdated: run.updated,
			TotalChanges:   len(run.changes),
			TotalAlerts:    len(run.alerts),
			LastRunAt:      s.now().In(s.display).Format(constants.LastRunLayout),
		},
		Changes:      run.changes,
		Alerts:       run.alerts,
		Availability: run.availability,
	}
}

// fetchStates polls every class concurrently. A failed class leaves a nil
// slot and is skipped for this cycle.
func (s *ClassMonitoringService) fetchStates(ctx context.Context, log *zap.SugaredLogger, token string, tenant Tenant, groups []*classGroup) ([]*dtos.ClassStateResponse, int) {
	states := make([]*dtos.ClassStateResponse, len(groups))
	errs := make([]error, len(groups))

	var g errgroup.Group
	for i, grp := range groups {
		i, grp := i, grp
		g.Go(func() error {
			state, _, err := s.source.GetClass(ctx, token, grp.apiClassID, grp.apiShowID, tenant.CustomerID)
			if err != nil {
				errs[i] = err
				return nil
			}
			states[i] = state
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	authFailed := false
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		authFailed = authFailed || providers.IsAuthError(err)
		log.Warnw("[ClassMonitor] Class fetch failed",
			"api_class_id", groups[i].apiClassID,
			"api_show_id", groups[i].apiShowID,
			"code", providers.ErrorCode(err),
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.ClassFetchFailures.Inc()
		}
	}
	if authFailed {
		s.tokens.Invalidate()
	}
	return states, failed
}

func (s *ClassMonitoringService) emit(
	ctx context.Context,
	tx *repositories.Store,
	run *monitorRun,
	notificationType constants.NotificationType,
	payload map[string]interface{},
	msg string,
	entryID string,
) error {
	payload["type"] = string(notificationType)
	if _, err := tx.Notifications.Append(ctx, run.farmID, constants.SourceClassMonitoring, notificationType, msg, payload, &entryID); err != nil {
		return err
	}
	run.changes = append(run.changes, payload)
	run.alerts = append(run.alerts, responses.Alert{Type: string(notificationType), Message: msg})
	if s.metrics != nil {
		s.metrics.ChangeEventsTotal.WithLabelValues(string(notificationType)).Inc()
	}
	return nil
}

// processClass diffs one class against its stored entries and writes the
// new live state. The first entry carries the stored class-level baseline.
func (s *ClassMonitoringService) processClass(ctx context.Context, tx *repositories.Store, run *monitorRun, g *classGroup, state *dtos.ClassStateResponse) error {
	first := &g.entries[0]
	className := constants.UnknownClass
	if first.Class != nil && first.Class.Name != "" {
		className = first.Class.Name
	}
	ringName := constants.UnknownRing
	if first.Event != nil && first.Event.Name != "" {
		ringName = first.Event.Name
	}

	crd := state.ClassRelatedData
	apiStatus := trimmedLimit(crd.Status.Trimmed(), liveStringLimit)
	apiEstimated := crd.EstimatedTime.Trimmed()
	apiActual := crd.ActualTime.Trimmed()
	apiTotal := crd.TotalTrips.Ptr()
	apiCompleted := crd.CompletedTrips.Ptr()
	apiRemaining := crd.RemainingTrips.Ptr()

	trips := make(map[int]*dtos.Trip, len(state.Trips))
	for i := range state.Trips {
		t := &state.Trips[i]
		if t.EntryID.Valid {
			if _, ok := trips[t.EntryID.Value]; !ok {
				trips[t.EntryID.Value] = t
			}
		}
	}
	tripFor := func(e *gorm.Entry) *dtos.Trip {
		if e.APIEntryID == nil {
			return nil
		}
		return trips[*e.APIEntryID]
	}

	// class level
	statusChanged := !sameString(apiStatus, first.ClassStatus)
	if statusChanged && !(apiStatus != nil && *apiStatus == constants.ClassStatusNotStarted) {
		newStatus := strOr(apiStatus, "")
		var startedLines []StartedLine
		var completedLines []CompletedLine
		for i := range g.entries {
			e := &g.entries[i]
			horse := horseName(e)
			trip := tripFor(e)
			sl := StartedLine{Horse: horse}
			cl := CompletedLine{Horse: horse}
			if trip != nil {
				sl.OrderOfGo = trip.OrderOfGo.Ptr()
				cl.Matched = true
				cl.Placing = trip.Placing.Ptr()
				cl.Prize = trip.TotalPrizeMoney.NullDecimal
			}
			startedLines = append(startedLines, sl)
			completedLines = append(completedLines, cl)
		}
		payload := map[string]interface{}{
			"old":        first.ClassStatus,
			"new":        apiStatus,
			"class_name": className,
		}
		msg := FormatStatusChange(newStatus, className, ringName, startedLines, completedLines)
		if err := s.emit(ctx, tx, run, constants.NotificationStatusChange, payload, msg, first.ID); err != nil {
			return err
		}
	}

	if apiEstimated != nil && normalizeClockTime(first.EstimatedStart) != normalizeClockTime(apiEstimated) {
		old := strOr(first.EstimatedStart, constants.NoValue)
		payload := map[string]interface{}{
			"old":        old,
			"new":        *apiEstimated,
			"class_name": className,
		}
		msg := FormatTimeChange(className, ringName, old, *apiEstimated)
		if err := s.emit(ctx, tx, run, constants.NotificationTimeChange, payload, msg, first.ID); err != nil {
			return err
		}
	}

	if apiCompleted != nil && !sameInt(apiCompleted, first.CompletedTrips) {
		total := 0
		if apiTotal != nil {
			total = *apiTotal
		}
		payload := map[string]interface{}{
			"completed":  *apiCompleted,
			"total":      total,
			"class_name": className,
		}
		msg := FormatProgress(className, ringName, *apiCompleted, total)
		if err := s.emit(ctx, tx, run, constants.NotificationProgressUpdate, payload, msg, first.ID); err != nil {
			return err
		}
	}

	// entry level
	now := s.now()
	for i := range g.entries {
		e := &g.entries[i]
		horse := horseName(e)
		trip := tripFor(e)

		if trip != nil {
			placing := trip.Placing.Ptr()
			if placing != nil && !sameInt(placing, e.Placing) && isRealPlacing(placing) {
				payload := map[string]interface{}{
					"horse":       horse,
					"placing":     *placing,
					"prize_money": decimalValue(trip.TotalPrizeMoney.NullDecimal),
					"class_name":  className,
				}
				msg := FormatResult(horse, className, *placing, trip.TotalPrizeMoney.NullDecimal)
				if err := s.emit(ctx, tx, run, constants.NotificationResult, payload, msg, e.ID); err != nil {
					return err
				}
			}

			if trip.GoneIn.Is(1) && !e.GoneIn {
				payload := map[string]interface{}{
					"horse":      horse,
					"horse_id":   e.HorseID,
					"class_name": className,
				}
				msg := FormatTripCompleted(horse, className, trip.FaultsOne.NullDecimal, trip.TimeOne.NullDecimal)
				if err := s.emit(ctx, tx, run, constants.NotificationHorseCompleted, payload, msg, e.ID); err != nil {
					return err
				}
				s.runAvailability(ctx, tx, run, CompletedTrip{
					FarmID:    run.farmID,
					Entry:     e,
					HorseName: horse,
					ClassName: className,
					RingName:  ringName,
				})
			}

			if trip.ScratchTrip.Is(1) && !e.ScratchTrip {
				payload := map[string]interface{}{
					"horse":      horse,
					"class_name": className,
				}
				msg := FormatScratched(horse, className)
				if err := s.emit(ctx, tx, run, constants.NotificationScratched, payload, msg, e.ID); err != nil {
					return err
				}
			}
		}

		e.ClassStatus = apiStatus
		e.EstimatedStart = apiEstimated
		e.ActualStart = apiActual
		e.TotalTrips = apiTotal
		e.OrderTotal = apiTotal
		e.CompletedTrips = apiCompleted
		e.RemainingTrips = apiRemaining
		if trip != nil {
			applyTrip(e, trip)
		}
		e.UpdatedAt = now
		if err := tx.Entries.UpdateLiveState(ctx, e); err != nil {
			return fmt.Errorf("update entry %s: %w", e.ID, err)
		}
		run.updated++
	}
	return nil
}

// runAvailability runs the availability calculation in a savepoint. Its
// failure is logged and never fails the monitoring run.
func (s *ClassMonitoringService) runAvailability(ctx context.Context, tx *repositories.Store, run *monitorRun, done CompletedTrip) {
	if s.availability == nil {
		return
	}
	var result map[string]interface{}
	err := tx.Transaction(ctx, func(sp *repositories.Store) error {
		var err error
		result, err = s.availability.Calculate(ctx, sp, done, run.day)
		return err
	})
	if err != nil {
		logging.Warn("[ClassMonitor] Availability failed",
			"horse_id", done.Entry.HorseID,
			"entry_id", done.Entry.ID,
			"error", err,
		)
		return
	}
	run.availability = append(run.availability, result)
}

// applyTrip copies every per-trip live field onto e
func applyTrip(e *gorm.Entry, t *dtos.Trip) {
	e.APITripID = t.TripID.Ptr()
	e.OrderOfGo = t.OrderOfGo.Ptr()
	e.Placing = t.Placing.Ptr()
	e.FaultsOne = t.FaultsOne.NullDecimal
	e.TimeOne = t.TimeOne.NullDecimal
	e.TimeFaultOne = t.TimeFaultOne.NullDecimal
	e.FaultsTwo = t.FaultsTwo.NullDecimal
	e.TimeTwo = t.TimeTwo.NullDecimal
	e.TimeFaultTwo = t.TimeFaultTwo.NullDecimal
	e.TotalPrizeMoney = t.TotalPrizeMoney.NullDecimal
	e.PointsEarned = t.PointsEarned.NullDecimal
	e.GoneIn = t.GoneIn.Is(1)
	e.ScratchTrip = t.ScratchTrip.Is(1)
	e.DisqualifyStatusOne = trimmedLimit(t.DisqualifyStatusOne.Trimmed(), liveStringLimit)
	e.DisqualifyStatusTwo = trimmedLimit(t.DisqualifyStatusTwo.Trimmed(), liveStringLimit)
	e.Score1 = t.Score1.NullDecimal
	e.Score2 = t.Score2.NullDecimal
	e.Score3 = t.Score3.NullDecimal
	e.Score4 = t.Score4.NullDecimal
	e.Score5 = t.Score5.NullDecimal
	e.Score6 = t.Score6.NullDecimal
	e.Status = constants.DeriveEntryStatus(e.ScratchTrip, e.GoneIn)
}

func (s *ClassMonitoringService) publish(ctx context.Context, log *zap.SugaredLogger, farmID string, alerts []responses.Alert) {
	if s.alerts == nil || len(alerts) == 0 {
		return
	}
	at := s.now().Format(time.RFC3339)
	out := make([]common.StreamAlert, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, common.StreamAlert{FarmID: farmID, Type: a.Type, Message: a.Message, At: at})
	}
	if err := s.alerts.Publish(ctx, out); err != nil {
		log.Warnw("[ClassMonitor] Alert publish failed", "alerts", len(out), "error", err)
		if s.metrics != nil {
			s.metrics.AlertPublishFailures.Inc()
		}
	}
}

func (s *ClassMonitoringService) observe(started time.Time, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	s.metrics.FlowRunsTotal.WithLabelValues(constants.SyncEventClassMonitoring, outcome).Inc()
	s.metrics.FlowRunDuration.WithLabelValues(constants.SyncEventClassMonitoring).Observe(time.Since(started).Seconds())
}

func horseName(e *gorm.Entry) string {
	if e.Horse != nil && e.Horse.Name != "" {
		return e.Horse.Name
	}
	return constants.UnknownHorse
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// decimalValue gives a JSON number for d, or nil
func decimalValue(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}
