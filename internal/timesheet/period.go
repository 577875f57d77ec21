package timesheet

import (
	"context"
	"errors"
	"time"
)

// ErrPeriodNotFound is returned when no reporting period covers the
// requested date. A run must abort rather than scan an undefined range.
var ErrPeriodNotFound = errors.New("no reporting period covers the requested date")

// Period is one reporting period from the time-period table.
type Period struct {
	ID    int       `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Back returns the period weeks reporting periods before p. With weeks == 0
// the period is returned unchanged; otherwise both bounds step back seven
// days per week.
func (p Period) Back(weeks int) Period {
	if weeks <= 0 {
		return p
	}
	days := -7 * weeks
	return Period{
		ID:    p.ID - weeks,
		Start: p.Start.AddDate(0, 0, days),
		End:   p.End.AddDate(0, 0, days),
	}
}

// PeriodStore resolves reporting periods from the time-period table.
type PeriodStore interface {
	// CurrentPeriod returns the period containing now, or ErrPeriodNotFound.
	CurrentPeriod(ctx context.Context, now time.Time) (Period, error)
}

// EntryStore fetches time entries for a date range.
type EntryStore interface {
	// EntriesBetween returns all entries whose start falls within
	// [start, end], ordered by member then start time, with ties broken by
	// primary key so output is reproducible.
	EntriesBetween(ctx context.Context, start, end time.Time) ([]TimeEntry, error)
}
