package service

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
)

const singleEventICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//planner//EN
BEGIN:VEVENT
UID:standup@example.com
DTSTART:20240506T090000Z
DTEND:20240506T091500Z
SUMMARY:Standup
DESCRIPTION:Standup notes in the team doc
LOCATION:Room 4
STATUS:CONFIRMED
END:VEVENT
END:VCALENDAR
`

const recurringEventICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//planner//EN
BEGIN:VEVENT
UID:weekly@example.com
DTSTART:20240506T100000Z
DTEND:20240506T110000Z
RRULE:FREQ=WEEKLY;COUNT=3
SUMMARY:Planning
END:VEVENT
END:VCALENDAR
`

const exdateEventICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//planner//EN
BEGIN:VEVENT
UID:daily@example.com
DTSTART:20240506T080000Z
DTEND:20240506T083000Z
RRULE:FREQ=DAILY;COUNT=4
EXDATE:20240507T080000Z
SUMMARY:Review
END:VEVENT
END:VCALENDAR
`

func parseFirstEvent(t *testing.T, ics string) *ical.VEvent {
	t.Helper()
	cal, err := ical.ParseCalendar(strings.NewReader(ics))
	if err != nil {
		t.Fatalf("parse ICS: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	return events[0]
}

func TestExpandVEventSingle(t *testing.T) {
	ve := parseFirstEvent(t, singleEventICS)
	windowStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	out := expandVEvent(ve, "https://cal.example.com/feed.ics", windowStart, windowEnd)
	if len(out) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(out))
	}

	ev := out[0]
	if ev.CalendarEventID != "standup@example.com" {
		t.Errorf("calendarEventId = %q", ev.CalendarEventID)
	}
	if ev.Title != "Standup" {
		t.Errorf("title = %q, want Standup", ev.Title)
	}
	if ev.Location == nil || *ev.Location != "Room 4" {
		t.Errorf("location = %v, want Room 4", ev.Location)
	}
	if ev.Notes == nil || *ev.Notes != "Standup notes in the team doc" {
		t.Errorf("notes = %v, want the DESCRIPTION value", ev.Notes)
	}
	wantStart := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	if !ev.StartAt.Equal(wantStart) {
		t.Errorf("startAt = %v, want %v", ev.StartAt, wantStart)
	}
	if got := ev.EndAt.Sub(ev.StartAt); got != 15*time.Minute {
		t.Errorf("duration = %v, want 15m", got)
	}
}

func TestExpandVEventOutsideWindow(t *testing.T) {
	ve := parseFirstEvent(t, singleEventICS)
	windowStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	if out := expandVEvent(ve, "feed", windowStart, windowEnd); len(out) != 0 {
		t.Errorf("got %d occurrences for an event outside the window, want 0", len(out))
	}
}

func TestExpandVEventRecurring(t *testing.T) {
	ve := parseFirstEvent(t, recurringEventICS)
	windowStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	out := expandVEvent(ve, "feed", windowStart, windowEnd)
	if len(out) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(out))
	}

	seen := map[string]bool{}
	for i, occ := range out {
		wantStart := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC).AddDate(0, 0, 7*i)
		if !occ.StartAt.Equal(wantStart) {
			t.Errorf("occurrence %d startAt = %v, want %v", i, occ.StartAt, wantStart)
		}
		if got := occ.EndAt.Sub(occ.StartAt); got != time.Hour {
			t.Errorf("occurrence %d duration = %v, want 1h", i, got)
		}
		if occ.RecurrenceRule == nil {
			t.Errorf("occurrence %d is missing the recurrence rule", i)
		}
		if seen[occ.CalendarEventID] {
			t.Errorf("duplicate per-instance id %q", occ.CalendarEventID)
		}
		seen[occ.CalendarEventID] = true
		if !strings.HasPrefix(occ.CalendarEventID, "weekly@example.com/") {
			t.Errorf("per-instance id %q not derived from the UID", occ.CalendarEventID)
		}
	}
}

func TestExpandVEventHonorsExdate(t *testing.T) {
	ve := parseFirstEvent(t, exdateEventICS)
	windowStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	out := expandVEvent(ve, "feed", windowStart, windowEnd)
	if len(out) != 3 {
		t.Fatalf("got %d occurrences, want 3 after one EXDATE", len(out))
	}
	excluded := time.Date(2024, 5, 7, 8, 0, 0, 0, time.UTC)
	for _, occ := range out {
		if occ.StartAt.Equal(excluded) {
			t.Errorf("excluded date %v still produced an occurrence", excluded)
		}
	}
}

func TestExpandVEventWindowClipsRecurrence(t *testing.T) {
	ve := parseFirstEvent(t, recurringEventICS)
	// Window covers only the second of the three weekly occurrences.
	windowStart := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC)

	out := expandVEvent(ve, "feed", windowStart, windowEnd)
	if len(out) != 1 {
		t.Fatalf("got %d occurrences, want 1 inside the narrow window", len(out))
	}
	wantStart := time.Date(2024, 5, 13, 10, 0, 0, 0, time.UTC)
	if !out[0].StartAt.Equal(wantStart) {
		t.Errorf("startAt = %v, want %v", out[0].StartAt, wantStart)
	}
}

func TestParseICSTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"20240506T080000Z", time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)},
		{"20240506T080000", time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)},
		{"20240506", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseICSTime(tt.in)
		if err != nil {
			t.Errorf("parseICSTime(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseICSTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
