package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/txsgcode/connectwise-manage/internal/report"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RunIDGenerator generates unique IDs for audit runs.
type RunIDGenerator interface {
	Generate() string
}

type defaultClock struct{}

func (defaultClock) Now() time.Time {
	return time.Now()
}

type defaultRunID struct{}

func (defaultRunID) Generate() string {
	return uuid.NewString()
}

// Service runs timesheet audits: it resolves the reporting period, fetches
// the period's entries, scans each member's entries independently and
// assembles the flagged rows into a report.
type Service struct {
	periods PeriodStore
	entries EntryStore
	loc     *time.Location
	clock   Clock
	runID   RunIDGenerator
}

// NewService creates a Service with the default clock and run ID generator.
// A nil loc means the system local timezone.
func NewService(periods PeriodStore, entries EntryStore, loc *time.Location) *Service {
	return NewServiceWithDeps(periods, entries, loc, defaultClock{}, defaultRunID{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing.
func NewServiceWithDeps(periods PeriodStore, entries EntryStore, loc *time.Location, clock Clock, runID RunIDGenerator) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		periods: periods,
		entries: entries,
		loc:     loc,
		clock:   clock,
		runID:   runID,
	}
}

// Run audits the reporting period weeksAgo periods before the one containing
// now. A non-empty member restricts the audit to that member's entries.
func (s *Service) Run(ctx context.Context, weeksAgo int, member string) (*report.Report, error) {
	if weeksAgo < 0 {
		return nil, fmt.Errorf("weeks ago must be non-negative, got %d", weeksAgo)
	}

	now := s.clock.Now()
	period, err := s.periods.CurrentPeriod(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("resolving reporting period: %w", err)
	}
	period = period.Back(weeksAgo)

	slog.Info("auditing reporting period",
		"period", period.ID,
		"start", period.Start,
		"end", period.End,
	)

	entries, err := s.entries.EntriesBetween(ctx, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("fetching time entries: %w", err)
	}

	rep := &report.Report{
		RunID:       s.runID.Generate(),
		PeriodID:    period.ID,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		GeneratedAt: now,
		Rows:        []report.Row{},
	}

	for _, group := range groupByMember(entries) {
		if member != "" && group[0].MemberID != member {
			continue
		}
		for _, f := range Scan(group, s.loc) {
			rep.Rows = append(rep.Rows, toRow(f))
		}
	}

	slog.Info("audit complete",
		"run_id", rep.RunID,
		"entries", len(entries),
		"flagged", len(rep.Rows),
	)
	return rep, nil
}

// groupByMember splits entries into per-member groups, preserving the source
// order inside each group. Input is already ordered by member then start.
func groupByMember(entries []TimeEntry) [][]TimeEntry {
	var groups [][]TimeEntry
	start := 0
	for i := 1; i <= len(entries); i++ {
		if i == len(entries) || entries[i].MemberID != entries[start].MemberID {
			groups = append(groups, entries[start:i])
			start = i
		}
	}
	return groups
}

func toRow(f Flagged) report.Row {
	return report.Row{
		Member:        f.MemberID,
		Start:         f.Start,
		End:           f.End,
		ComputedHours: f.ComputedHours,
		PrevDeduction: f.PrevDeduction,
		ActualHours:   f.ActualHours,
		WorkType:      f.WorkType,
		ChargeCode:    f.ChargeCode,
		Kind:          string(f.Kind),
	}
}
