package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Well-known work types and charge codes from the time-tracking database.
const (
	WorkTypeClockInOut = "Clock In/Out"
	WorkTypeTravelTo   = "Travel To"
	WorkTypeTravelFrom = "Travel From"
	WorkTypeOnsite     = "Onsite"

	ChargeCodeNoCharge = "NC"
)

// TimeEntry is a single time-tracking record as stored in the database.
// Timestamps are UTC; ActualHours is the decimal hour count the employee
// recorded, which may legitimately differ from the elapsed wall-clock time.
type TimeEntry struct {
	MemberID    string          `json:"member_id"`
	StartUTC    time.Time       `json:"start_utc"`
	EndUTC      time.Time       `json:"end_utc"`
	ActualHours decimal.Decimal `json:"actual_hours"`
	WorkType    string          `json:"work_type"`
	ChargeCode  string          `json:"charge_code"`
	Notes       string          `json:"notes"`
}

// FlagKind identifies which audit rule an entry tripped.
type FlagKind string

const (
	// KindOverlap marks an entry whose span intersects an earlier entry
	// (directly, or through a chain tracked by the high-water mark).
	KindOverlap FlagKind = "Possible Overlap"

	// KindDeducted marks an overlap the employee already accounted for by
	// shorting the earlier entry's actual hours. Recorded in scan state and
	// debug logs only; never emitted as a report row.
	KindDeducted FlagKind = "Deducted"

	// KindBlank marks an entry with no notes.
	KindBlank FlagKind = "Blank"

	// KindNoCharge marks a Travel From entry not classified as no-charge.
	KindNoCharge FlagKind = "No Charge"

	// KindOnsite marks an entry that follows a Travel To entry but is not
	// classified as Onsite.
	KindOnsite FlagKind = "Onsite"
)

// Flagged is a TimeEntry that tripped an audit rule, projected into display
// form. Start and End are in the report's local timezone. An entry that trips
// several rules appears once per rule, each with its own Kind.
type Flagged struct {
	MemberID      string          `json:"member_id"`
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	ComputedHours decimal.Decimal `json:"computed_hours"`
	Deduction     decimal.Decimal `json:"deduction"`
	PrevDeduction decimal.Decimal `json:"prev_deduction"`
	ActualHours   decimal.Decimal `json:"actual_hours"`
	WorkType      string          `json:"work_type"`
	ChargeCode    string          `json:"charge_code"`
	Notes         string          `json:"notes"`
	Kind          FlagKind        `json:"kind"`
}
