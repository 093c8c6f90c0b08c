package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

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

const (
	entryDetailBatchSize = 10
	flowTxAttempts       = 3
)

// MorningSyncService runs the daily reconciliation of the provider's
// schedule and entries into the identity store.
type MorningSyncService struct {
	store   *repositories.Store
	source  ShowDataSource
	tokens  TokenSource
	metrics *metrics.MetricsRegistry
	now     Clock
}

func NewMorningSyncService(store *repositories.Store, source ShowDataSource, tokens TokenSource, metricsReg *metrics.MetricsRegistry) *MorningSyncService {
	return &MorningSyncService{
		store:   store,
		source:  source,
		tokens:  tokens,
		metrics: metricsReg,
		now:     systemClock,
	}
}

// WithClock replaces the time source
func (s *MorningSyncService) WithClock(c Clock) *MorningSyncService {
	s.now = c
	return s
}

// fetched is everything the network phase collected for one run
type fetched struct {
	schedule *dtos.ScheduleResponse
	showID   int
	entries  int
	details  []*dtos.EntryDetailResponse
}

// plannedEntry is an entry row waiting for its horse, rider, class and
// event ids to be resolved inside the transaction.
type plannedEntry struct {
	row       gorm.Entry
	horseName string
	riderName string
	classKey  *repositories.ClassKey
	ringNum   *int
}

type timedRing struct {
	time string
	ring string
}

// syncPlan is the pure projection of the fetched payloads onto rows
type syncPlan struct {
	showName  string
	startDate *datatypes.Date
	endDate   *datatypes.Date
	rings     []repositories.Ring
	classes   []gorm.ShowClass
	entryKeys []repositories.ClassKey
	entries   []plannedEntry
	horses    []string
	riders    []string
	timeRings []timedRing
}

// Run executes one morning sync for tenant. Every provider call happens
// before the write transaction opens; any failure aborts the run with
// nothing written.
func (s *MorningSyncService) Run(ctx context.Context, tenant Tenant, dateOverride string, trigger string) (*responses.MorningSyncResponse, error) {
	started := time.Now()
	day := ResolveRunDate(dateOverride, s.now())
	dayStr := day.Format(constants.DateLayout)
	log := logging.ForFlow(constants.SyncEventMorningSync, tenant.FarmName, dayStr)
	log.Infow("[MorningSync] Started", "trigger", trigger)

	resp, err := s.run(ctx, log, tenant, day, trigger)
	s.observe(started, err)
	if err != nil {
		log.Errorw("[MorningSync] Failed", "error", err)
		return nil, err
	}
	log.Infow("[MorningSync] Done",
		"show", resp.Summary.ShowName,
		"classes", resp.Summary.UniqueClassCount,
		"entries", resp.Summary.TotalSyncedEntries,
		"horses", resp.Summary.UniqueHorseCount,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return resp, nil
}

func (s *MorningSyncService) run(ctx context.Context, log *zap.SugaredLogger, tenant Tenant, day time.Time, trigger string) (*responses.MorningSyncResponse, error) {
	data, err := s.fetch(ctx, tenant, day)
	if err != nil {
		if providers.IsAuthError(err) {
			s.tokens.Invalidate()
		}
		return nil, err
	}
	log.Infow("[MorningSync] Provider data fetched",
		"api_show_id", data.showID,
		"rings", len(data.schedule.Rings),
		"entries", data.entries,
		"entry_details", len(data.details),
	)

	plan := buildSyncPlan(data, day)

	var summary responses.MorningSyncSummary
	err = db.WithRetry(ctx, flowTxAttempts, func() error {
		return s.store.Transaction(ctx, func(tx *repositories.Store) error {
			var txErr error
			summary, txErr = s.write(ctx, tx, tenant, day, data, plan)
			return txErr
		})
	})
	if err != nil {
		return nil, fmt.Errorf("morning sync write: %w", err)
	}

	if s.metrics != nil {
		s.metrics.EntriesSyncedTotal.WithLabelValues("inserted").Add(float64(summary.Counts.Entries.Inserted))
		s.metrics.EntriesSyncedTotal.WithLabelValues("updated").Add(float64(summary.Counts.Entries.Updated))
		s.metrics.EntriesSyncedTotal.WithLabelValues("pruned").Add(float64(summary.Counts.Entries.Pruned))
	}

	return &responses.MorningSyncResponse{
		Task:    constants.TaskCompleted,
		Trigger: trigger,
		Summary: summary,
	}, nil
}

func (s *MorningSyncService) observe(started time.Time, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	s.metrics.FlowRunsTotal.WithLabelValues(constants.SyncEventMorningSync, outcome).Inc()
	s.metrics.FlowRunDuration.WithLabelValues(constants.SyncEventMorningSync).Observe(time.Since(started).Seconds())
}

// fetch runs the whole network phase: token, schedule, entry list and entry
// details in waves of entryDetailBatchSize.
func (s *MorningSyncService) fetch(ctx context.Context, tenant Tenant, day time.Time) (*fetched, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("provider login: %w", err)
	}

	schedule, _, err := s.source.GetSchedule(ctx, token, day, tenant.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	if !schedule.Show.ShowID.Valid || schedule.Show.ShowID.Value == 0 {
		return nil, &providers.ProviderError{
			Code:    constants.ErrCodeMissingShowID,
			Message: constants.GetErrorMessage(constants.ErrCodeMissingShowID),
		}
	}
	showID := schedule.Show.ShowID.Value

	mine, _, err := s.source.GetMyEntries(ctx, token, showID, tenant.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}

	var ids []int
	for _, e := range mine.Entries {
		if e.EntryID.Valid && e.EntryID.Value > 0 {
			ids = append(ids, e.EntryID.Value)
		}
	}

	details := make([]*dtos.EntryDetailResponse, len(ids))
	for start := 0; start < len(ids); start += entryDetailBatchSize {
		end := start + entryDetailBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				detail, _, err := s.source.GetEntryDetail(gctx, token, ids[i], showID, tenant.CustomerID)
				if err != nil {
					return fmt.Errorf("fetch entry %d: %w", ids[i], err)
				}
				details[i] = detail
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return &fetched{
		schedule: schedule,
		showID:   showID,
		entries:  len(mine.Entries),
		details:  details,
	}, nil
}

// buildSyncPlan projects provider payloads onto rows. It touches no state.
func buildSyncPlan(data *fetched, day time.Time) *syncPlan {
	sched := data.schedule
	plan := &syncPlan{
		showName: strOr(sched.Show.ShowName.Trimmed(), constants.UnknownShow),
	}
	if s := sched.Show.StartDate.Trimmed(); s != nil {
		if d, ok := parseProviderDate(*s); ok {
			dd := datatypes.Date(d)
			plan.startDate = &dd
		}
	}
	if s := sched.Show.EndDate.Trimmed(); s != nil {
		if d, ok := parseProviderDate(*s); ok {
			dd := datatypes.Date(d)
			plan.endDate = &dd
		}
	}

	ringNames := make(map[int]string)
	for _, ring := range sched.Rings {
		name := ""
		if n := ring.RingName.Trimmed(); n != nil {
			name = *n
		}
		plan.rings = append(plan.rings, repositories.Ring{Name: name, Number: ring.RingNumber.Ptr()})
		if ring.RingNumber.Valid {
			ringNames[ring.RingNumber.Value] = name
		}
	}

	// schedule classes: first valid occurrence of each provider class id
	seen := make(map[int]struct{})
	for _, ring := range sched.Rings {
		for _, c := range ring.Classes {
			if !c.ClassID.Valid {
				continue
			}
			if _, ok := seen[c.ClassID.Value]; ok {
				continue
			}
			name := c.ClassName.Trimmed()
			if name == nil || !c.TotalTrips.Valid || c.TotalTrips.Value <= 0 {
				continue
			}
			seen[c.ClassID.Value] = struct{}{}
			plan.classes = append(plan.classes, gorm.ShowClass{
				Name:        *name,
				ClassNumber: c.ClassNumber.Trimmed(),
				Sponsor:     c.Sponsor.Trimmed(),
				PrizeMoney:  c.PrizeMoney.NullDecimal,
				ClassType:   c.ClassType.Trimmed(),
			})
		}
	}

	horses := make(map[string]struct{})
	riders := make(map[string]struct{})
	keys := make(map[repositories.ClassKey]struct{})
	syncDay := repositories.Day(day)

	for _, detail := range data.details {
		if detail == nil {
			continue
		}
		info := detail.Entry
		horseName := strOr(info.Horse.Trimmed(), "")
		if horseName != "" {
			horses[horseName] = struct{}{}
		}

		for _, r := range detail.EntryRiders {
			if n := r.RiderName.Trimmed(); n != nil {
				riders[*n] = struct{}{}
			}
		}
		defaultRider := ""
		var defaultRiderID *int
		if len(detail.EntryRiders) > 0 {
			defaultRider = strOr(detail.EntryRiders[0].RiderName.Trimmed(), "")
			defaultRiderID = detail.EntryRiders[0].RiderID.Ptr()
		}

		base := gorm.Entry{
			APIEntryID:   info.EntryID.Ptr(),
			APIHorseID:   info.HorseID.Ptr(),
			APITrainerID: info.TrainerID.Ptr(),
			BackNumber:   info.Number.Trimmed(),
		}

		for _, cl := range detail.Classes {
			riderName := strOr(cl.RiderName.Trimmed(), "")
			if riderName != "" {
				riders[riderName] = struct{}{}
			}

			start := estimatedStart(cl.ScheduledDate.Trimmed(), cl.ScheduleStartTime.Trimmed())
			if start != nil && cl.Ring.Valid {
				if ringName := ringNames[cl.Ring.Value]; ringName != "" {
					plan.timeRings = append(plan.timeRings, timedRing{time: *start, ring: ringName})
				}
			}

			className := cl.Name.Trimmed()
			if className == nil {
				continue
			}
			key := repositories.ClassKey{Name: *className, Number: strOr(cl.ClassNumber.Trimmed(), "")}
			keys[key] = struct{}{}

			row := base
			row.APIRiderID = cl.RiderID.Ptr()
			row.APIClassID = cl.ClassID.Ptr()
			row.APIRingID = cl.Ring.Ptr()
			row.EstimatedStart = start
			row.Status = constants.EntryStatusActive
			if sd := cl.ScheduledDate.Trimmed(); sd != nil {
				if d, ok := parseProviderDate(*sd); ok {
					dd := datatypes.Date(d)
					row.ScheduledDate = &dd
				}
			}
			if riderName == "" {
				riderName = defaultRider
			}

			k := key
			plan.entries = append(plan.entries, plannedEntry{
				row:       row,
				horseName: horseName,
				riderName: riderName,
				classKey:  &k,
				ringNum:   cl.Ring.Ptr(),
			})
		}

		// no classes: keep the horse visible for the day
		if len(detail.Classes) == 0 && horseName != "" {
			row := base
			row.APIRiderID = defaultRiderID
			row.Status = constants.EntryStatusInactive
			sd := syncDay
			row.ScheduledDate = &sd

			plan.entries = append(plan.entries, plannedEntry{
				row:       row,
				horseName: horseName,
				riderName: defaultRider,
			})
		}
	}

	plan.horses = sortedKeys(horses)
	plan.riders = sortedKeys(riders)
	for k := range keys {
		plan.entryKeys = append(plan.entryKeys, k)
	}
	sort.Slice(plan.entryKeys, func(i, j int) bool {
		if plan.entryKeys[i].Name != plan.entryKeys[j].Name {
			return plan.entryKeys[i].Name < plan.entryKeys[j].Name
		}
		return plan.entryKeys[i].Number < plan.entryKeys[j].Number
	})
	return plan
}

// write applies the plan inside one transaction
func (s *MorningSyncService) write(ctx context.Context, tx *repositories.Store, tenant Tenant, day time.Time, data *fetched, plan *syncPlan) (responses.MorningSyncSummary, error) {
	var summary responses.MorningSyncSummary

	farm, err := tx.Farms.GetOrCreate(ctx, tenant.FarmName, tenant.CustomerIDValue())
	if err != nil {
		return summary, fmt.Errorf("ensure farm: %w", err)
	}

	showID := data.showID
	show := gorm.Show{
		FarmID:    farm.ID,
		APIShowID: &showID,
		Name:      plan.showName,
		StartDate: plan.startDate,
		EndDate:   plan.endDate,
		IsActive:  true,
	}
	showInserted, err := tx.Shows.Upsert(ctx, &show)
	if err != nil {
		return summary, err
	}

	ringsInserted, err := tx.Events.UpsertRings(ctx, farm.ID, plan.rings)
	if err != nil {
		return summary, err
	}
	ringMap, err := tx.Events.RingNumberMap(ctx, farm.ID, plan.rings)
	if err != nil {
		return summary, err
	}

	classesInserted, classesUpdated, err := tx.Classes.UpsertMany(ctx, farm.ID, plan.classes)
	if err != nil {
		return summary, err
	}

	// entry details may name classes the schedule did not list
	extra, err := tx.Classes.InsertMissing(ctx, farm.ID, plan.entryKeys)
	if err != nil {
		return summary, err
	}
	classMap, err := tx.Classes.ResolveKeys(ctx, farm.ID, plan.entryKeys)
	if err != nil {
		return summary, err
	}

	horsesInserted, err := tx.Horses.UpsertNames(ctx, farm.ID, plan.horses)
	if err != nil {
		return summary, err
	}
	horseMap, err := tx.Horses.ResolveByNames(ctx, farm.ID, plan.horses)
	if err != nil {
		return summary, err
	}
	ridersInserted, err := tx.Riders.UpsertNames(ctx, farm.ID, plan.riders)
	if err != nil {
		return summary, err
	}
	riderMap, err := tx.Riders.ResolveByNames(ctx, farm.ID, plan.riders)
	if err != nil {
		return summary, err
	}

	rows := make([]gorm.Entry, 0, len(plan.entries))
	unresolved := 0
	for _, p := range plan.entries {
		horseID, ok := horseMap[p.horseName]
		if !ok {
			unresolved++
			continue
		}
		row := p.row
		row.HorseID = horseID
		row.ShowID = &show.ID
		if riderID, ok := riderMap[p.riderName]; ok && p.riderName != "" {
			row.RiderID = &riderID
		}
		if p.classKey != nil {
			classID, ok := classMap[*p.classKey]
			if !ok {
				continue
			}
			row.ClassID = &classID
		}
		if p.ringNum != nil {
			if eventID, ok := ringMap[*p.ringNum]; ok {
				row.EventID = &eventID
			}
		}
		rows = append(rows, row)
	}
	if unresolved > 0 {
		logging.Warn("[MorningSync] Dropped entry rows with unresolved horse", "count", unresolved)
	}

	entriesInserted, entriesUpdated, err := tx.Entries.UpsertMany(ctx, rows)
	if err != nil {
		return summary, err
	}

	keep := make(map[repositories.EntryKey]struct{}, len(rows))
	days := map[time.Time]struct{}{day: {}}
	for i := range rows {
		keep[repositories.EntryKeyOf(&rows[i])] = struct{}{}
		if rows[i].ScheduledDate != nil {
			days[time.Time(*rows[i].ScheduledDate)] = struct{}{}
		}
	}
	dayList := make([]time.Time, 0, len(days))
	for d := range days {
		dayList = append(dayList, d)
	}
	pruned, err := tx.Entries.Prune(ctx, show.ID, dayList, keep)
	if err != nil {
		return summary, err
	}

	summary = buildSyncSummary(day, plan, len(classMap), len(rows))
	summary.Counts = responses.SyncCounts{
		Show: responses.ShowCounts{
			Name:     plan.showName,
			Inserted: boolToInt(showInserted),
			Updated:  boolToInt(!showInserted),
		},
		Rings: responses.EntityCounts{
			FromAPI:  len(plan.rings),
			Inserted: int(ringsInserted),
		},
		Classes: responses.EntityCounts{
			FromAPI:  len(plan.classes),
			Inserted: classesInserted + extra,
			Updated:  classesUpdated,
		},
		Horses: responses.EntityCounts{
			FromAPI:  len(plan.horses),
			Inserted: int(horsesInserted),
		},
		Riders: responses.EntityCounts{
			FromAPI:  len(plan.riders),
			Inserted: int(ridersInserted),
		},
		Entries: responses.EntryCounts{
			FromAPI:             data.entries,
			EntryDetailsFetched: len(data.details),
			EntryRowsBuilt:      len(plan.entries),
			Inserted:            entriesInserted,
			Updated:             entriesUpdated,
			Pruned:              pruned,
			UnresolvedHorses:    unresolved,
		},
	}

	if err := tx.SyncHistory.RecordSync(ctx, farm.ID, constants.SyncEventMorningSync, s.now(), summary); err != nil {
		return summary, fmt.Errorf("record sync history: %w", err)
	}
	return summary, nil
}

func buildSyncSummary(day time.Time, plan *syncPlan, classCount, entryCount int) responses.MorningSyncSummary {
	summary := responses.MorningSyncSummary{
		Date:               day.Format(constants.DateLayout),
		ShowName:           plan.showName,
		UniqueHorseCount:   len(plan.horses),
		UniqueClassCount:   classCount,
		TotalSyncedEntries: entryCount,
		TotalClassEntries:  entryCount,
	}

	ringSet := make(map[string]struct{})
	for _, tr := range plan.timeRings {
		ringSet[tr.ring] = struct{}{}
	}
	summary.UniqueRingCount = len(ringSet)

	if len(plan.timeRings) > 0 {
		sorted := append([]timedRing(nil), plan.timeRings...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].time < sorted[j].time })
		first, last := sorted[0], sorted[len(sorted)-1]
		summary.FirstClass = &responses.ClassSlot{Time: first.time, RingName: first.ring}
		summary.LastClass = &responses.ClassSlot{Time: last.time, RingName: last.ring}
	}
	return summary
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		if strings.TrimSpace(k) != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
