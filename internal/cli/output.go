package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"showgrounds/paddock/internal/constants"
	"showgrounds/paddock/internal/models/dtos/responses"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSyncSummary(w io.Writer, r *responses.MorningSyncResponse) error {
	s := r.Summary
	c := s.Counts
	fmt.Fprintf(w, "Morning sync %s (%s) for %s\n", r.Task, r.Trigger, s.Date)
	fmt.Fprintf(w, "  show:     %s\n", s.ShowName)
	fmt.Fprintf(w, "  horses:   %d\n", s.UniqueHorseCount)
	fmt.Fprintf(w, "  classes:  %d in %d rings\n", s.UniqueClassCount, s.UniqueRingCount)
	fmt.Fprintf(w, "  entries:  %d synced, %d class entries (+%d / ~%d / -%d)\n",
		s.TotalSyncedEntries, s.TotalClassEntries, c.Entries.Inserted, c.Entries.Updated, c.Entries.Pruned)
	if c.Entries.UnresolvedHorses > 0 {
		fmt.Fprintf(w, "  skipped:  %d rows with unresolved horses\n", c.Entries.UnresolvedHorses)
	}
	if s.FirstClass != nil {
		fmt.Fprintf(w, "  first:    %s, %s\n", s.FirstClass.Time, s.FirstClass.RingName)
	}
	if s.LastClass != nil {
		fmt.Fprintf(w, "  last:     %s, %s\n", s.LastClass.Time, s.LastClass.RingName)
	}
	return nil
}

func writeMonitorSummary(w io.Writer, r *responses.ClassMonitorResponse) error {
	s := r.Summary
	fmt.Fprintf(w, "Class monitoring for %s at %s\n", s.Date, s.LastRunAt)
	fmt.Fprintf(w, "  classes:  %d checked, %d failed\n", s.ClassesChecked, s.ClassesFailed)
	fmt.Fprintf(w, "  entries:  %d updated\n", s.EntriesUpdated)
	fmt.Fprintf(w, "  changes:  %d, alerts: %d\n", s.TotalChanges, s.TotalAlerts)
	for _, a := range r.Alerts {
		fmt.Fprintf(w, "\n[%s]\n%s\n", a.Type, a.Message)
	}
	return nil
}

func writeNotifications(w io.Writer, r *responses.NotificationListResponse) error {
	if r.Count == 0 {
		fmt.Fprintln(w, "No notifications.")
		return nil
	}
	for _, n := range r.Items {
		fmt.Fprintf(w, "%s  %-18s %-15s %s\n",
			n.CreatedAt.UTC().Format(constants.DateTimeLayout),
			n.Source,
			n.NotificationType,
			firstLine(n.Message),
		)
	}
	fmt.Fprintf(w, "(%d shown, offset %d)\n", r.Count, r.Offset)
	return nil
}

func writeStatus(w io.Writer, r *responses.JobsStatusResponse) error {
	for _, j := range r.Jobs {
		last := constants.NoValue
		if j.LastRunFmt != nil {
			last = *j.LastRunFmt
		}
		state := "idle"
		if j.Running {
			state = "running"
		}
		fmt.Fprintf(w, "%-18s %-8s last run: %s\n", j.Event, state, last)
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
