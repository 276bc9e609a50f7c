package dashboard

import (
	"sort"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
)

// UpcomingLimit caps the overview's upcoming list
const UpcomingLimit = 5

// Stats are the overview counters. Statuses outside the four tracked ones
// count toward Total only.
type Stats struct {
	Total     int
	Pending   int
	Confirmed int
	Completed int
}

// ComputeStats counts appointments by status
func ComputeStats(appointments []api.Appointment) Stats {
	s := Stats{Total: len(appointments)}
	for _, a := range appointments {
		switch a.Status {
		case api.StatusPending:
			s.Pending++
		case api.StatusConfirmed:
			s.Confirmed++
		case api.StatusCompleted:
			s.Completed++
		}
	}
	return s
}

// Upcoming drops cancelled and completed appointments, orders the rest by
// date ascending and keeps at most limit. Dates that do not parse sort last.
// The input is not modified.
func Upcoming(appointments []api.Appointment, limit int) []api.Appointment {
	out := make([]api.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.Status == api.StatusCancelled || a.Status == api.StatusCompleted {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, okI := parseDate(out[i].AppointmentDate)
		dj, okJ := parseDate(out[j].AppointmentDate)
		if okI != okJ {
			return okI
		}
		return di.Before(dj)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CanTransition reports whether a doctor may move an appointment from one
// status to another
func CanTransition(from, to api.AppointmentStatus) bool {
	switch from {
	case api.StatusPending:
		return to == api.StatusConfirmed || to == api.StatusCancelled
	case api.StatusConfirmed:
		return to == api.StatusCompleted
	}
	return false
}

// FormatDate renders a YYYY-MM-DD date as "Jan 2, 2006"
func FormatDate(date string) string {
	t, ok := parseDate(date)
	if !ok {
		return date
	}
	return t.Format("Jan 2, 2006")
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
