package timesheet

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// scanned is a TimeEntry plus the values derived for it during a scan. The
// previous scanned entry is carried forward so the overlap and onsite rules
// can compare row to row.
type scanned struct {
	entry      TimeEntry
	localStart time.Time
	localEnd   time.Time
	deduction  decimal.Decimal
}

// scanState is the per-member running state, threaded through each step.
// highWater is the latest local end time seen so far, used to catch chains
// of overlapping entries beyond the immediately preceding one.
type scanState struct {
	prev      *scanned
	highWater time.Time
	inOverlap bool
}

// Scan walks one member's time entries, ordered ascending by start time, and
// returns a row for every audit rule each entry trips. Entries that trip no
// rule produce nothing; an entry may produce several rows, one per rule.
// A nil loc means the system local timezone.
func Scan(entries []TimeEntry, loc *time.Location) []Flagged {
	if loc == nil {
		loc = time.Local
	}

	var out []Flagged
	var st scanState
	for _, e := range entries {
		var flags []Flagged
		flags, st = step(e, st, loc)
		out = append(out, flags...)
	}
	return out
}

// step processes a single entry against the running state and returns the
// rows it produced plus the advanced state.
func step(e TimeEntry, st scanState, loc *time.Location) ([]Flagged, scanState) {
	cur := scanned{
		entry:      e,
		localStart: e.StartUTC.In(loc),
		localEnd:   e.EndUTC.In(loc),
	}
	computed := decimal.NewFromFloat(cur.localEnd.Sub(cur.localStart).Hours()).Round(2)
	cur.deduction = computed.Sub(e.ActualHours)

	flag := func(kind FlagKind) Flagged {
		f := Flagged{
			MemberID:      e.MemberID,
			Start:         cur.localStart,
			End:           cur.localEnd,
			ComputedHours: computed,
			Deduction:     cur.deduction,
			ActualHours:   e.ActualHours,
			WorkType:      e.WorkType,
			ChargeCode:    e.ChargeCode,
			Notes:         e.Notes,
			Kind:          kind,
		}
		if st.prev != nil {
			f.PrevDeduction = st.prev.deduction
		}
		return f
	}

	var out []Flagged

	// Clock In/Out rows and rows with no recorded hours never trip a rule,
	// but they still advance prev and the high-water mark below.
	if e.WorkType != WorkTypeClockInOut && !e.ActualHours.IsZero() {
		if st.prev != nil && cur.localStart.Before(st.prev.localEnd) {
			if st.prev.deduction.Equal(e.ActualHours) {
				// The earlier entry was shorted by exactly this entry's
				// hours: the employee already deducted the overlap.
				slog.Debug("overlap already deducted",
					"member", e.MemberID,
					"start", cur.localStart,
					"kind", KindDeducted,
				)
				st.inOverlap = false
			} else {
				out = append(out, flag(KindOverlap))
				st.inOverlap = true
			}
		} else if st.inOverlap && cur.localStart.Before(st.highWater) {
			out = append(out, flag(KindOverlap))
		}

		if e.Notes == "" {
			out = append(out, flag(KindBlank))
		}

		if e.WorkType == WorkTypeTravelFrom && e.ChargeCode != ChargeCodeNoCharge {
			out = append(out, flag(KindNoCharge))
		}

		if st.prev != nil && st.prev.entry.WorkType == WorkTypeTravelTo && e.WorkType != WorkTypeOnsite {
			out = append(out, flag(KindOnsite))
		}
	}

	if cur.localEnd.After(st.highWater) {
		st.highWater = cur.localEnd
	}
	st.prev = &cur

	return out, st
}
