package timesheet

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

// entry builds a TimeEntry for scanner tests. Times are "15:04" on a fixed
// day, interpreted as UTC; scans run with time.UTC so local times equal the
// input times.
func entry(start, end string, hours, workType, charge, notes string) TimeEntry {
	return TimeEntry{
		MemberID:    "alice",
		StartUTC:    clockTime(start),
		EndUTC:      clockTime(end),
		ActualHours: decimal.RequireFromString(hours),
		WorkType:    workType,
		ChargeCode:  charge,
		Notes:       notes,
	}
}

func clockTime(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2026-08-12 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

var _ = Describe("Scan", func() {
	When("there are no entries", func() {
		It("returns an empty result", func() {
			Expect(Scan(nil, time.UTC)).To(BeEmpty())
		})
	})

	When("an entry starts before the previous entry ends", func() {
		var flagged []Flagged

		BeforeEach(func() {
			flagged = Scan([]TimeEntry{
				entry("09:00", "10:00", "1.00", "Project", "B", "setup"),
				entry("09:30", "10:30", "1.00", "Project", "B", "config"),
			}, time.UTC)
		})

		It("flags the second entry as a possible overlap", func() {
			Expect(flagged).To(HaveLen(1))
			Expect(flagged[0].Kind).To(Equal(KindOverlap))
			Expect(flagged[0].Start).To(Equal(clockTime("09:30")))
		})

		It("carries the previous entry's deduction", func() {
			Expect(flagged[0].PrevDeduction.String()).To(Equal("0"))
		})

		It("computes elapsed hours for the flagged entry", func() {
			Expect(flagged[0].ComputedHours.StringFixed(2)).To(Equal("1.00"))
		})
	})

	When("the previous entry was shorted by exactly the overlapping hours", func() {
		It("treats the overlap as already deducted and reports nothing", func() {
			// First entry ran 3.00 elapsed but 2.50 recorded: the missing
			// 0.50 matches the second entry's hours.
			flagged := Scan([]TimeEntry{
				entry("09:00", "12:00", "2.50", "Project", "B", "install"),
				entry("10:30", "11:00", "0.50", "Project", "B", "call"),
			}, time.UTC)
			Expect(flagged).To(BeEmpty())
		})

		It("clears the overlap chain for later entries", func() {
			// The third entry starts after the second ends but still under
			// the first entry's end. With the overlap resolved, it must not
			// be flagged.
			flagged := Scan([]TimeEntry{
				entry("09:00", "12:00", "2.50", "Project", "B", "install"),
				entry("10:30", "11:00", "0.50", "Project", "B", "call"),
				entry("11:30", "11:45", "0.25", "Project", "B", "email"),
			}, time.UTC)
			Expect(flagged).To(BeEmpty())
		})
	})

	When("a chain of entries overlaps one long entry", func() {
		It("flags entries past the immediate predecessor via the high-water mark", func() {
			flagged := Scan([]TimeEntry{
				entry("09:00", "12:00", "3.00", "Project", "B", "install"),
				entry("09:30", "10:00", "0.50", "Project", "B", "call"),
				entry("10:15", "10:45", "0.50", "Project", "B", "triage"),
			}, time.UTC)

			Expect(flagged).To(HaveLen(2))
			Expect(flagged[0].Kind).To(Equal(KindOverlap))
			Expect(flagged[0].Start).To(Equal(clockTime("09:30")))
			Expect(flagged[1].Kind).To(Equal(KindOverlap))
			Expect(flagged[1].Start).To(Equal(clockTime("10:15")))
		})
	})

	When("an entry has no notes", func() {
		It("flags it as blank", func() {
			flagged := Scan([]TimeEntry{
				entry("09:00", "10:00", "1.00", "Project", "B", ""),
			}, time.UTC)
			Expect(flagged).To(HaveLen(1))
			Expect(flagged[0].Kind).To(Equal(KindBlank))
		})
	})

	When("a Travel From entry is not marked no-charge", func() {
		It("flags it", func() {
			flagged := Scan([]TimeEntry{
				entry("09:00", "10:00", "1.00", WorkTypeTravelFrom, "C", "drive back"),
			}, time.UTC)
			Expect(flagged).To(HaveLen(1))
			Expect(flagged[0].Kind).To(Equal(KindNoCharge))
		})

		It("does not flag Travel From entries marked NC", func() {
			flagged := Scan([]TimeEntry{
				entry("09:00", "10:00", "1.00", WorkTypeTravelFrom, ChargeCodeNoCharge, "drive back"),
			}, time.UTC)
			Expect(flagged).To(BeEmpty())
		})
	})

	When("a Travel To entry is not followed by an Onsite entry", func() {
		It("flags the following entry", func() {
			flagged := Scan([]TimeEntry{
				entry("09:00", "10:00", "1.00", WorkTypeTravelTo, ChargeCodeNoCharge, "drive out"),
				entry("10:00", "11:00", "1.00", "Training", "B", "class"),
			}, time.UTC)
			Expect(flagged).To(HaveLen(1))
			Expect(flagged[0].Kind).To(Equal(KindOnsite))
			Expect(flagged[0].WorkType).To(Equal("Training"))
		})

		It("does not flag an Onsite entry after Travel To", func() {
			flagged := Scan([]TimeEntry{
				entry("09:00", "10:00", "1.00", WorkTypeTravelTo, ChargeCodeNoCharge, "drive out"),
				entry("10:00", "11:00", "1.00", WorkTypeOnsite, "B", "rack work"),
			}, time.UTC)
			Expect(flagged).To(BeEmpty())
		})
	})

	When("an entry is Clock In/Out or has zero recorded hours", func() {
		It("never flags it, even with blank notes", func() {
			flagged := Scan([]TimeEntry{
				entry("09:00", "10:00", "1.00", WorkTypeClockInOut, "", ""),
				entry("10:00", "11:00", "0", "Project", "B", ""),
			}, time.UTC)
			Expect(flagged).To(BeEmpty())
		})

		It("still advances the previous-entry state", func() {
			// The Clock In/Out row sits between Travel To and Training, so
			// the onsite rule compares Training against the clock row and
			// does not fire.
			flagged := Scan([]TimeEntry{
				entry("09:00", "10:00", "1.00", WorkTypeTravelTo, ChargeCodeNoCharge, "drive out"),
				entry("10:00", "10:00", "1.00", WorkTypeClockInOut, "", "punch"),
				entry("10:00", "11:00", "1.00", "Training", "B", "class"),
			}, time.UTC)
			Expect(flagged).To(BeEmpty())
		})

		It("still participates in overlap detection as the previous entry", func() {
			flagged := Scan([]TimeEntry{
				entry("09:00", "13:00", "0", "Project", "B", "forgot hours"),
				entry("10:00", "10:30", "0.50", "Project", "B", "call"),
			}, time.UTC)
			Expect(flagged).To(HaveLen(1))
			Expect(flagged[0].Kind).To(Equal(KindOverlap))
			Expect(flagged[0].PrevDeduction.StringFixed(2)).To(Equal("4.00"))
		})
	})

	When("an entry trips several rules", func() {
		It("emits one row per rule", func() {
			flagged := Scan([]TimeEntry{
				entry("09:00", "10:00", "1.00", "Project", "B", "setup"),
				entry("09:30", "10:30", "1.00", WorkTypeTravelFrom, "C", ""),
			}, time.UTC)

			Expect(flagged).To(HaveLen(3))
			kinds := []FlagKind{flagged[0].Kind, flagged[1].Kind, flagged[2].Kind}
			Expect(kinds).To(ConsistOf(KindOverlap, KindBlank, KindNoCharge))
			for _, f := range flagged {
				Expect(f.Start).To(Equal(clockTime("09:30")))
			}
		})
	})

	When("run twice over the same input", func() {
		It("produces identical output", func() {
			entries := []TimeEntry{
				entry("09:00", "12:00", "3.00", "Project", "B", "install"),
				entry("09:30", "10:00", "0.50", WorkTypeTravelFrom, "C", ""),
				entry("10:15", "10:45", "0.50", "Training", "B", "class"),
			}
			first := Scan(entries, time.UTC)
			second := Scan(entries, time.UTC)
			Expect(second).To(Equal(first))
		})
	})

	When("elapsed time does not divide evenly into hours", func() {
		It("rounds computed hours to two decimal places", func() {
			flagged := Scan([]TimeEntry{
				entry("09:00", "09:20", "0.25", "Project", "B", ""),
			}, time.UTC)
			Expect(flagged).To(HaveLen(1))
			Expect(flagged[0].ComputedHours.StringFixed(2)).To(Equal("0.33"))
			Expect(flagged[0].Deduction.StringFixed(2)).To(Equal("0.08"))
		})
	})

	When("an entry ends before it starts", func() {
		It("surfaces a negative computed duration instead of failing", func() {
			flagged := Scan([]TimeEntry{
				entry("10:00", "09:00", "1.00", "Project", "B", ""),
			}, time.UTC)
			Expect(flagged).To(HaveLen(1))
			Expect(flagged[0].Kind).To(Equal(KindBlank))
			Expect(flagged[0].ComputedHours.StringFixed(2)).To(Equal("-1.00"))
		})
	})
})
