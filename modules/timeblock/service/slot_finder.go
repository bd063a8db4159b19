package service

import (
	"time"

	"planner-api/modules/timeblock/entity"
)

// SlotSearch describes one open-slot query. Hours are integer hours of day
// in the search window's timezone; all other bounds are timestamp-precise.
type SlotSearch struct {
	SearchStart        time.Time
	SearchEnd          time.Time
	PreferredStartHour int
	PreferredEndHour   int
	Duration           time.Duration
}

// SlotFinder scans a user's busy intervals for the first open gap of a
// requested duration. It is deliberately greedy: earliest day wins, earliest
// time within a day wins, and the first sufficient gap is taken without any
// attempt to minimize fragmentation.
type SlotFinder struct{}

func NewSlotFinder() *SlotFinder {
	return &SlotFinder{}
}

// FindFirstOpenSlot walks calendar days from the day containing SearchStart
// through the day containing SearchEnd. For each day it clamps the preferred
// window [preferredStartHour, preferredEndHour) by the search bounds, then
// advances a cursor across the busy slots that overlap the window, returning
// as soon as a gap of at least Duration appears.
//
// busy must be pre-filtered to one user's non-cancelled blocks and sorted
// ascending by start time; that is the caller's responsibility.
func (sf *SlotFinder) FindFirstOpenSlot(busy []entity.TimeSlot, search SlotSearch) (entity.TimeSlot, bool) {
	if search.Duration <= 0 || !search.SearchEnd.After(search.SearchStart) {
		return entity.TimeSlot{}, false
	}

	loc := search.SearchStart.Location()
	day := startOfDay(search.SearchStart.In(loc))
	lastDay := startOfDay(search.SearchEnd.In(loc))

	for !day.After(lastDay) {
		windowStart := day.Add(time.Duration(search.PreferredStartHour) * time.Hour)
		windowEnd := day.Add(time.Duration(search.PreferredEndHour) * time.Hour)

		if windowStart.Before(search.SearchStart) {
			windowStart = search.SearchStart
		}
		if windowEnd.After(search.SearchEnd) {
			windowEnd = search.SearchEnd
		}

		if slot, ok := sf.scanWindow(busy, windowStart, windowEnd, search.Duration); ok {
			return slot, true
		}

		day = day.AddDate(0, 0, 1)
	}

	return entity.TimeSlot{}, false
}

// scanWindow runs the first-fit cursor walk over one day's preferred window.
func (sf *SlotFinder) scanWindow(busy []entity.TimeSlot, windowStart, windowEnd time.Time, duration time.Duration) (entity.TimeSlot, bool) {
	if !windowEnd.After(windowStart) {
		return entity.TimeSlot{}, false
	}

	window := entity.TimeSlot{Start: windowStart, End: windowEnd}
	cursor := windowStart

	for _, b := range busy {
		if !b.Overlaps(window) {
			continue
		}
		if b.Start.Sub(cursor) >= duration {
			return entity.TimeSlot{Start: cursor, End: cursor.Add(duration)}, true
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}

	// Tail gap after the last relevant busy block.
	if windowEnd.Sub(cursor) >= duration {
		return entity.TimeSlot{Start: cursor, End: cursor.Add(duration)}, true
	}

	return entity.TimeSlot{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
