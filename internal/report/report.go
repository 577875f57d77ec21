package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// timeLayout is the display form for entry timestamps, already converted to
// the report's local timezone.
const timeLayout = "2006-01-02 15:04"

// Report is one audit run over a single reporting period.
type Report struct {
	RunID       string    `json:"run_id"`
	PeriodID    int       `json:"period_id"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	GeneratedAt time.Time `json:"generated_at"`
	Rows        []Row     `json:"rows"`
}

// Row is a single flagged time entry in display form. One source entry can
// appear in several rows, once per rule it tripped.
type Row struct {
	Member        string          `json:"member"`
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	ComputedHours decimal.Decimal `json:"computed_hours"`
	PrevDeduction decimal.Decimal `json:"prev_deduction"`
	ActualHours   decimal.Decimal `json:"actual_hours"`
	WorkType      string          `json:"work_type"`
	ChargeCode    string          `json:"charge_code"`
	Kind          string          `json:"kind"`
}

// Title returns the report heading, e.g.
// "Timesheet Errors, period 412 (2026-08-10 to 2026-08-16)".
func (r *Report) Title() string {
	return fmt.Sprintf("Timesheet Errors, period %d (%s to %s)",
		r.PeriodID,
		r.PeriodStart.Format("2006-01-02"),
		r.PeriodEnd.Format("2006-01-02"))
}

// header is the column order shared by every output format.
var header = []string{
	"Member", "Start", "End", "Computed Hrs", "Prev Deduction",
	"Actual Hrs", "Work Type", "Charge Code", "Error",
}

// strings returns the row's cells formatted for tabular output.
func (row Row) strings() []string {
	return []string{
		row.Member,
		row.Start.Format(timeLayout),
		row.End.Format(timeLayout),
		row.ComputedHours.StringFixed(2),
		row.PrevDeduction.StringFixed(2),
		row.ActualHours.StringFixed(2),
		row.WorkType,
		row.ChargeCode,
		row.Kind,
	}
}
