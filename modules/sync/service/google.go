package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"planner-api/core/config"
	"planner-api/core/errors"
	"planner-api/core/logger"
	"planner-api/modules/sync/dto"
	"planner-api/modules/sync/entity"
	tbentity "planner-api/modules/timeblock/entity"
)

func googleOAuthConfig() (*oauth2.Config, error) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, fmt.Errorf("config not initialized")
	}
	return &oauth2.Config{
		ClientID:     cfg.GoogleOAuth.ClientID,
		ClientSecret: cfg.GoogleOAuth.ClientSecret,
		RedirectURL:  cfg.GoogleOAuth.RedirectURI,
		Scopes:       cfg.GoogleOAuth.Scopes,
		Endpoint:     google.Endpoint,
	}, nil
}

// GoogleConnectURL builds the consent URL the client redirects the user to.
// The user id rides along as the OAuth state parameter.
func (s *SyncService) GoogleConnectURL(userID uuid.UUID) (string, *errors.AppError) {
	oauthConfig, err := googleOAuthConfig()
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "google oauth not configured", err)
	}
	authURL := oauthConfig.AuthCodeURL(userID.String(),
		oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	return authURL, nil
}

// HandleGoogleCallback exchanges the authorization code and stores the
// resulting tokens as the user's google integration.
func (s *SyncService) HandleGoogleCallback(ctx context.Context, userID uuid.UUID, code string) (*dto.IntegrationResponse, *errors.AppError) {
	if code == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "authorization code is required", nil)
	}

	oauthConfig, err := googleOAuthConfig()
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "google oauth not configured", err)
	}

	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Error("SyncService:HandleGoogleCallback:Exchange", err, "user_id", userID.String())
		return nil, errors.NewAppError(errors.ErrUnauthorized, "failed to exchange authorization code", err)
	}

	integration := &entity.CalendarIntegration{
		UserID:      userID,
		Provider:    tbentity.ProviderGoogle,
		AccessToken: &token.AccessToken,
	}
	if token.RefreshToken != "" {
		refresh := token.RefreshToken
		integration.RefreshToken = &refresh
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		integration.TokenExpiresAt = &expiry
	}

	saved, err := s.integrations.Upsert(ctx, integration)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to save google integration", err)
	}

	logger.Info("calendar_connected", "user_id", userID.String(), "provider", "google")
	return dto.ToIntegrationResponse(saved, time.Now()), nil
}

// googleAccessToken returns a valid access token for the integration,
// refreshing and persisting it when expired.
func (s *SyncService) googleAccessToken(ctx context.Context, integration *entity.CalendarIntegration) (string, error) {
	if integration.AccessToken == nil {
		return "", fmt.Errorf("google token not found")
	}

	expired := integration.TokenExpiresAt != nil && time.Now().After(*integration.TokenExpiresAt)
	if !expired {
		return *integration.AccessToken, nil
	}
	if integration.RefreshToken == nil {
		return "", fmt.Errorf("google token expired and no refresh token available")
	}

	oauthConfig, err := googleOAuthConfig()
	if err != nil {
		return "", err
	}

	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: *integration.RefreshToken})
	newToken, err := tokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh google token: %w", err)
	}

	integration.AccessToken = &newToken.AccessToken
	if newToken.RefreshToken != "" {
		refresh := newToken.RefreshToken
		integration.RefreshToken = &refresh
	}
	if !newToken.Expiry.IsZero() {
		expiry := newToken.Expiry
		integration.TokenExpiresAt = &expiry
	}
	if _, err := s.integrations.Upsert(ctx, integration); err != nil {
		logger.Error("SyncService:googleAccessToken:Upsert", err)
		return "", fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	return newToken.AccessToken, nil
}

type googleEventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

type googleEvent struct {
	ID          string          `json:"id"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Location    string          `json:"location"`
	Start       googleEventTime `json:"start"`
	End         googleEventTime `json:"end"`
}

// fetchGoogleEvents pulls the primary-calendar events within the window and
// maps them onto the provider-neutral event shape.
func (s *SyncService) fetchGoogleEvents(ctx context.Context, integration *entity.CalendarIntegration, windowStart, windowEnd time.Time) ([]entity.ExternalEvent, *errors.AppError) {
	accessToken, err := s.googleAccessToken(ctx, integration)
	if err != nil {
		logger.Error("SyncService:fetchGoogleEvents:Token", err, "user_id", integration.UserID.String())
		return nil, errors.NewAppError(errors.ErrUnauthorized, "google token unavailable, reconnect the calendar", err)
	}

	apiURL := buildGoogleEventsURL(windowStart, windowEnd)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		logger.Error("SyncService:fetchGoogleEvents:DoRequest", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to fetch calendar events", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("SyncService:fetchGoogleEvents:APIError", fmt.Errorf("status %d", resp.StatusCode), "body", string(body))
		return nil, errors.NewAppError(errors.ErrInternalServer, fmt.Sprintf("Google Calendar API error: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to read response", err)
	}

	var eventsResponse struct {
		Items []googleEvent `json:"items"`
	}
	if err := json.Unmarshal(body, &eventsResponse); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to parse response", err)
	}

	events := make([]entity.ExternalEvent, 0, len(eventsResponse.Items))
	for _, item := range eventsResponse.Items {
		startAt, ok := parseGoogleTime(item.Start)
		if !ok {
			continue
		}
		endAt, ok := parseGoogleTime(item.End)
		if !ok {
			continue
		}

		ev := entity.ExternalEvent{
			CalendarEventID: item.ID,
			CalendarID:      "primary",
			Title:           item.Summary,
			StartAt:         startAt,
			EndAt:           endAt,
			Status:          item.Status,
		}
		if item.Location != "" {
			location := item.Location
			ev.Location = &location
		}
		if item.Description != "" {
			notes := item.Description
			ev.Notes = &notes
		}
		events = append(events, ev)
	}
	return events, nil
}

func buildGoogleEventsURL(windowStart, windowEnd time.Time) string {
	apiURL := "https://www.googleapis.com/calendar/v3/calendars/primary/events"
	query := url.Values{}
	query.Add("singleEvents", "true")
	query.Add("orderBy", "startTime")
	query.Add("timeMin", windowStart.Format(time.RFC3339))
	query.Add("timeMax", windowEnd.Format(time.RFC3339))
	return apiURL + "?" + query.Encode()
}

// parseGoogleTime accepts either a dateTime (timed event) or a date
// (all-day event, midnight UTC).
func parseGoogleTime(t googleEventTime) (time.Time, bool) {
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	if t.Date != "" {
		parsed, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}
