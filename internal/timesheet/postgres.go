package timesheet

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Store implements PeriodStore and EntryStore against the time-tracking
// database. It only ever reads; the audit never mutates source data.
type Store struct {
	db *sql.DB
}

// Open connects to the database with a lib/pq connection string and verifies
// the connection before returning.
func Open(ctx context.Context, connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const currentPeriodQuery = `
SELECT time_period_id, period_start, period_end
FROM time_period
WHERE $1 BETWEEN period_start AND period_end
ORDER BY time_period_id
LIMIT 1`

// CurrentPeriod returns the reporting period containing now, or
// ErrPeriodNotFound when the time-period table has no covering row.
func (s *Store) CurrentPeriod(ctx context.Context, now time.Time) (Period, error) {
	var p Period
	err := s.db.QueryRowContext(ctx, currentPeriodQuery, now).Scan(&p.ID, &p.Start, &p.End)
	if err == sql.ErrNoRows {
		return Period{}, fmt.Errorf("period for %s: %w", now.Format("2006-01-02"), ErrPeriodNotFound)
	}
	if err != nil {
		return Period{}, fmt.Errorf("querying time period: %w", err)
	}
	return p, nil
}

// Nullable text columns are read as empty strings so a missing value never
// aborts the scan; the audit rules treat absent fields permissively.
const entriesQuery = `
SELECT member_id, time_start_utc, time_end_utc, hours_actual,
       COALESCE(work_type, ''), COALESCE(charge_code, ''), COALESCE(notes, '')
FROM time_entry
WHERE time_start_utc >= $1 AND time_start_utc <= $2
ORDER BY member_id, time_start_utc, time_entry_id`

// EntriesBetween returns all entries whose start falls within [start, end],
// ordered by member then start time then primary key.
func (s *Store) EntriesBetween(ctx context.Context, start, end time.Time) ([]TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, entriesQuery, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying time entries: %w", err)
	}
	defer rows.Close()

	entries := make([]TimeEntry, 0)
	for rows.Next() {
		var (
			e     TimeEntry
			hours string
		)
		if err := rows.Scan(&e.MemberID, &e.StartUTC, &e.EndUTC, &hours,
			&e.WorkType, &e.ChargeCode, &e.Notes); err != nil {
			return nil, fmt.Errorf("scanning time entry: %w", err)
		}
		e.ActualHours, err = decimal.NewFromString(hours)
		if err != nil {
			return nil, fmt.Errorf("parsing hours_actual %q: %w", hours, err)
		}
		e.StartUTC = e.StartUTC.UTC()
		e.EndUTC = e.EndUTC.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading time entries: %w", err)
	}
	return entries, nil
}
