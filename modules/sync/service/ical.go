package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"planner-api/core/constants"
	"planner-api/core/errors"
	"planner-api/core/logger"
	"planner-api/modules/sync/dto"
	"planner-api/modules/sync/entity"
	tbentity "planner-api/modules/timeblock/entity"

	"github.com/google/uuid"
)

// Cap on occurrences produced per recurring event so a runaway RRULE
// cannot flood the reconciler.
const maxOccurrencesPerEvent = 500

// ConnectICal validates that the feed is fetchable and parseable, then
// stores it as the user's ical integration.
func (s *SyncService) ConnectICal(ctx context.Context, userID uuid.UUID, feedURL string) (*dto.IntegrationResponse, *errors.AppError) {
	if !strings.HasPrefix(feedURL, "http://") && !strings.HasPrefix(feedURL, "https://") {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "icalUrl must be an http(s) URL", nil)
	}

	if _, err := fetchICSBody(ctx, feedURL); err != nil {
		logger.Error("SyncService:ConnectICal:Fetch", err, "user_id", userID.String())
		return nil, errors.NewAppError(errors.ErrInvalidInput, "could not fetch the ICS feed", err)
	}

	integration := &entity.CalendarIntegration{
		UserID:   userID,
		Provider: tbentity.ProviderICal,
		ICalURL:  &feedURL,
	}
	saved, err := s.integrations.Upsert(ctx, integration)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to save ical integration", err)
	}

	logger.Info("calendar_connected", "user_id", userID.String(), "provider", "ical")
	return dto.ToIntegrationResponse(saved, time.Now()), nil
}

// fetchICalEvents downloads the feed and expands its events, recurring ones
// included, into concrete occurrences within the window.
func (s *SyncService) fetchICalEvents(ctx context.Context, integration *entity.CalendarIntegration, windowStart, windowEnd time.Time) ([]entity.ExternalEvent, *errors.AppError) {
	if integration.ICalURL == nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "integration has no feed URL", nil)
	}

	body, err := fetchICSBody(ctx, *integration.ICalURL)
	if err != nil {
		logger.Error("SyncService:fetchICalEvents:Fetch", err, "user_id", integration.UserID.String())
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to fetch the ICS feed", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(body))
	if err != nil {
		logger.Error("SyncService:fetchICalEvents:Parse", err, "user_id", integration.UserID.String())
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to parse the ICS feed", err)
	}

	calendarID := *integration.ICalURL
	events := make([]entity.ExternalEvent, 0)
	for _, ve := range cal.Events() {
		events = append(events, expandVEvent(ve, calendarID, windowStart, windowEnd)...)
	}

	logger.Info("ics_feed_expanded",
		"user_id", integration.UserID.String(),
		"event_count", len(events))
	return events, nil
}

func fetchICSBody(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: constants.ICalFetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ICS feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// expandVEvent maps one VEVENT onto provider-neutral events. A recurring
// event yields one occurrence per instance inside the window, each with a
// stable per-instance event id derived from the UID and start time.
func expandVEvent(ve *ical.VEvent, calendarID string, windowStart, windowEnd time.Time) []entity.ExternalEvent {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return nil
	}
	uid := uidProp.Value

	start, err := ve.GetStartAt()
	if err != nil {
		return nil
	}
	end, err := ve.GetEndAt()
	if err != nil || !end.After(start) {
		end = start.Add(time.Hour)
	}

	base := entity.ExternalEvent{
		CalendarEventID: uid,
		CalendarID:      calendarID,
		StartAt:         start,
		EndAt:           end,
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		base.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil && p.Value != "" {
		location := p.Value
		base.Location = &location
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil && p.Value != "" {
		notes := p.Value
		base.Notes = &notes
	}
	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil {
		base.Status = p.Value
	}

	rruleProp := ve.GetProperty(ical.ComponentPropertyRrule)
	if rruleProp == nil || rruleProp.Value == "" {
		if base.StartAt.Before(windowEnd) && base.EndAt.After(windowStart) {
			return []entity.ExternalEvent{base}
		}
		return nil
	}

	rawRule := rruleProp.Value
	base.RecurrenceRule = &rawRule

	rule, err := rrule.StrToRRule(rawRule)
	if err != nil {
		logger.Error("SyncService:expandVEvent:RRule", err, "uid", uid)
		return nil
	}
	rule.DTStart(start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range exDates(ve) {
		set.ExDate(ex.In(start.Location()))
	}

	duration := end.Sub(start)
	occTimes := set.Between(windowStart.In(start.Location()), windowEnd.In(start.Location()), true)
	if len(occTimes) > maxOccurrencesPerEvent {
		occTimes = occTimes[:maxOccurrencesPerEvent]
	}

	out := make([]entity.ExternalEvent, 0, len(occTimes))
	for _, occStart := range occTimes {
		occ := base
		occ.CalendarEventID = uid + "/" + occStart.UTC().Format(time.RFC3339)
		occ.StartAt = occStart
		occ.EndAt = occStart.Add(duration)
		out = append(out, occ)
	}
	return out
}

func exDates(ve *ical.VEvent) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// parseICSTime handles the basic DATE-TIME and DATE forms EXDATE carries.
func parseICSTime(v string) (time.Time, error) {
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, time.UTC)
	}
	return time.ParseInLocation("20060102", v, time.UTC)
}
