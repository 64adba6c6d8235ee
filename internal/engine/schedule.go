package engine

import (
	"sort"
	"time"

	"github.com/segyhp/rent-billing/internal/domain"
	customError "github.com/segyhp/rent-billing/pkg/errors"

	"github.com/shopspring/decimal"
)

// RateEntry is one rate in the penalty schedule.
type RateEntry struct {
	Rate          decimal.Decimal
	EffectiveFrom time.Time
}

// RateSchedule is the penalty rate history as a single sequence sorted by
// effective date. The rate on a date is the entry with the greatest
// EffectiveFrom on or before it.
type RateSchedule struct {
	entries []RateEntry
}

// NewRateSchedule merges the history log with the master row. The master is
// only used when it is newer than every history entry. Two history rows
// taking effect on the same day leave the rate for that day undefined and
// are rejected.
func NewRateSchedule(history []domain.PenaltyInterestHistory, master *domain.PenaltyInterestMaster) (RateSchedule, error) {
	entries := make([]RateEntry, 0, len(history)+1)
	for _, h := range history {
		entries = append(entries, RateEntry{Rate: h.InterestRate, EffectiveFrom: domain.Date(h.EffectiveFrom)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EffectiveFrom.Before(entries[j].EffectiveFrom)
	})
	for i := 1; i < len(entries); i++ {
		if entries[i].EffectiveFrom.Equal(entries[i-1].EffectiveFrom) {
			return RateSchedule{}, &customError.RateScheduleGapError{
				Date:   entries[i].EffectiveFrom,
				Reason: "more than one rate takes effect",
			}
		}
	}

	if master != nil {
		from := domain.Date(master.EffectiveFrom)
		if len(entries) == 0 || from.After(entries[len(entries)-1].EffectiveFrom) {
			entries = append(entries, RateEntry{Rate: master.InterestRate, EffectiveFrom: from})
		}
	}

	return RateSchedule{entries: entries}, nil
}

// FlatRate returns a schedule where rate applies to every date.
func FlatRate(rate decimal.Decimal) RateSchedule {
	return RateSchedule{entries: []RateEntry{{Rate: rate}}}
}

func (s RateSchedule) Empty() bool { return len(s.entries) == 0 }

func (s RateSchedule) Entries() []RateEntry {
	out := make([]RateEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// RateAt returns the rate effective on d. Penalties were not configured
// before the first entry, so those dates yield zero like an empty schedule.
func (s RateSchedule) RateAt(d time.Time) decimal.Decimal {
	d = domain.Date(d)
	idx := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].EffectiveFrom.After(d)
	})
	if idx == 0 {
		return decimal.Zero
	}
	return s.entries[idx-1].Rate
}

// Current returns the entry in force on now, or nil if none is.
func (s RateSchedule) Current(now time.Time) *RateEntry {
	now = domain.Date(now)
	for i := len(s.entries) - 1; i >= 0; i-- {
		if !s.entries[i].EffectiveFrom.After(now) {
			e := s.entries[i]
			return &e
		}
	}
	return nil
}

// Latest returns the entry with the greatest effective date, or nil.
func (s RateSchedule) Latest() *RateEntry {
	if len(s.entries) == 0 {
		return nil
	}
	e := s.entries[len(s.entries)-1]
	return &e
}

// WithChange returns a hypothetical schedule where rate takes over from
// effectiveFrom. Entries on or after that date are replaced. A nil
// effectiveFrom applies rate to the whole timeline.
func (s RateSchedule) WithChange(rate decimal.Decimal, effectiveFrom *time.Time) RateSchedule {
	if effectiveFrom == nil {
		return FlatRate(rate)
	}
	from := domain.Date(*effectiveFrom)
	entries := make([]RateEntry, 0, len(s.entries)+1)
	for _, e := range s.entries {
		if e.EffectiveFrom.Before(from) {
			entries = append(entries, e)
		}
	}
	entries = append(entries, RateEntry{Rate: rate, EffectiveFrom: from})
	return RateSchedule{entries: entries}
}
