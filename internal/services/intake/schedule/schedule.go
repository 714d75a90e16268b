// Package schedule generates bookable appointment slots and re-validates
// client-chosen slots against the same rule set. Generation and validation
// are two views of one set of predicates; a slot emitted by Generate always
// passes ValidateSlot for the same clock and config
package schedule

import (
	"time"

	ptime "intake/internal/platform/time"
)

// Config are the booking window parameters, all in UTC
type Config struct {
	SlotMinutes    int
	LookaheadDays  int
	MinLeadMinutes int
	StartHour      int
	EndHour        int
	Workdays       map[time.Weekday]bool
}

// Slot is a bookable interval. Value type; derived, never persisted
type Slot struct {
	Start time.Time
	End   time.Time
}

// StartString returns the wire form of the slot start
func (s Slot) StartString() string { return ptime.FormatInstant(s.Start) }

// EndString returns the wire form of the slot end
func (s Slot) EndString() string { return ptime.FormatInstant(s.End) }

// Generate emits the bookable slots for each requested day offset, in
// chronological order. Days outside the workday set or beyond the lookahead
// horizon produce nothing; ticks inside the lead window are skipped
func Generate(startDate time.Time, days int, now time.Time, cfg Config) []Slot {
	var out []Slot
	day := ptime.Midnight(startDate)
	for offset := 0; offset < days; offset++ {
		d := day.AddDate(0, 0, offset)
		if !cfg.Workdays[d.Weekday()] || !withinHorizon(d, now, cfg) {
			continue
		}
		for tick := cfg.StartHour * 60; tick+cfg.SlotMinutes <= cfg.EndHour*60; tick += cfg.SlotMinutes {
			start := d.Add(time.Duration(tick) * time.Minute)
			if !pastLead(start, now, cfg) {
				continue
			}
			out = append(out, Slot{Start: start, End: start.Add(time.Duration(cfg.SlotMinutes) * time.Minute)})
		}
	}
	return out
}

// ValidateSlot re-derives legality for a client-supplied slot start. It
// returns the parsed slot and an empty reason on success, or a
// human-readable reason naming the first violated rule. Client slot values
// are never trusted; everything is recomputed from the raw timestamp
func ValidateSlot(raw string, now time.Time, cfg Config) (Slot, string) {
	start, ok := ptime.ParseInstant(raw)
	if !ok {
		return Slot{}, "Please pick a valid appointment slot."
	}
	if !pastLead(start, now, cfg) {
		return Slot{}, "That slot is no longer available. Please pick a later time."
	}
	if !withinHorizon(ptime.Midnight(start), now, cfg) {
		return Slot{}, "That slot is too far in the future."
	}
	if !cfg.Workdays[start.Weekday()] {
		return Slot{}, "That day is not available for bookings."
	}
	if !onGrid(start, cfg) {
		return Slot{}, "That time is not available for bookings."
	}
	return Slot{Start: start, End: start.Add(time.Duration(cfg.SlotMinutes) * time.Minute)}, ""
}

// pastLead reports whether start respects the minimum lead time from now
func pastLead(start, now time.Time, cfg Config) bool {
	return !start.Before(now.Add(time.Duration(cfg.MinLeadMinutes) * time.Minute))
}

// withinHorizon reports whether the slot's UTC day is within the lookahead
// window: day offsets 0..LookaheadDays-1 counted from today
func withinHorizon(day, now time.Time, cfg Config) bool {
	today := ptime.Midnight(now)
	offset := int(day.Sub(today) / (24 * time.Hour))
	return offset >= 0 && offset < cfg.LookaheadDays
}

// onGrid reports whether the time of day sits on the slot grid: inside
// [StartHour, EndHour), a whole multiple of the slot duration from the
// start hour, and second-aligned
func onGrid(start time.Time, cfg Config) bool {
	if start.Second() != 0 || start.Nanosecond() != 0 {
		return false
	}
	minutes := start.Hour()*60 + start.Minute()
	from := cfg.StartHour * 60
	if minutes < from || minutes+cfg.SlotMinutes > cfg.EndHour*60 {
		return false
	}
	return (minutes-from)%cfg.SlotMinutes == 0
}
