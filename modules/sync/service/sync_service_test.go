package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	coreentity "planner-api/core/entity"
	"planner-api/core/errors"
	channelentity "planner-api/modules/channel/entity"
	"planner-api/modules/sync/entity"
	tbentity "planner-api/modules/timeblock/entity"
)

// ===================== fakes =====================

type fakeIntegrationRepo struct {
	integrations map[string]*entity.CalendarIntegration
	savedStates  map[uuid.UUID]coreentity.JSONB
}

func newFakeIntegrationRepo() *fakeIntegrationRepo {
	return &fakeIntegrationRepo{
		integrations: map[string]*entity.CalendarIntegration{},
		savedStates:  map[uuid.UUID]coreentity.JSONB{},
	}
}

func integrationKey(userID uuid.UUID, provider tbentity.Provider) string {
	return userID.String() + "/" + string(provider)
}

func (f *fakeIntegrationRepo) add(i entity.CalendarIntegration) *entity.CalendarIntegration {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	f.integrations[integrationKey(i.UserID, i.Provider)] = &i
	return &i
}

func (f *fakeIntegrationRepo) GetByUserAndProvider(_ context.Context, userID uuid.UUID, provider tbentity.Provider) (*entity.CalendarIntegration, error) {
	i, ok := f.integrations[integrationKey(userID, provider)]
	if !ok {
		return nil, nil
	}
	copied := *i
	return &copied, nil
}

func (f *fakeIntegrationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]entity.CalendarIntegration, error) {
	out := []entity.CalendarIntegration{}
	for _, i := range f.integrations {
		if i.UserID == userID {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (f *fakeIntegrationRepo) ListAll(_ context.Context) ([]entity.CalendarIntegration, error) {
	out := []entity.CalendarIntegration{}
	for _, i := range f.integrations {
		out = append(out, *i)
	}
	return out, nil
}

func (f *fakeIntegrationRepo) Upsert(_ context.Context, integration *entity.CalendarIntegration) (*entity.CalendarIntegration, error) {
	saved := f.add(*integration)
	return saved, nil
}

func (f *fakeIntegrationRepo) UpdateSyncState(_ context.Context, id uuid.UUID, state coreentity.JSONB) error {
	f.savedStates[id] = state
	for _, i := range f.integrations {
		if i.ID == id {
			i.SyncState = state
		}
	}
	return nil
}

func (f *fakeIntegrationRepo) Delete(_ context.Context, userID uuid.UUID, provider tbentity.Provider) error {
	delete(f.integrations, integrationKey(userID, provider))
	return nil
}

type fakeChannelRepo struct {
	channels []channelentity.Channel
}

func (f *fakeChannelRepo) Create(_ context.Context, ch *channelentity.Channel) (*channelentity.Channel, error) {
	return ch, nil
}
func (f *fakeChannelRepo) GetByID(_ context.Context, _ uuid.UUID) (*channelentity.Channel, error) {
	return nil, nil
}
func (f *fakeChannelRepo) GetBySlug(_ context.Context, _ uuid.UUID, _ string) (*channelentity.Channel, error) {
	return nil, nil
}
func (f *fakeChannelRepo) GetByTargetCalendarID(_ context.Context, userID uuid.UUID, calendarID string) (*channelentity.Channel, error) {
	for i := range f.channels {
		ch := &f.channels[i]
		if ch.UserID == userID && ch.TargetCalendarID != nil && *ch.TargetCalendarID == calendarID {
			copied := *ch
			return &copied, nil
		}
	}
	return nil, nil
}
func (f *fakeChannelRepo) ListByUser(_ context.Context, _ uuid.UUID) ([]channelentity.Channel, error) {
	return f.channels, nil
}
func (f *fakeChannelRepo) Update(_ context.Context, ch *channelentity.Channel) (*channelentity.Channel, error) {
	return ch, nil
}
func (f *fakeChannelRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type fakeBlockRepo struct {
	blocks map[string]*tbentity.TimeBlock // keyed by userID/calendarEventID
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocks: map[string]*tbentity.TimeBlock{}}
}

func blockKey(userID uuid.UUID, eventID string) string {
	return userID.String() + "/" + eventID
}

func (f *fakeBlockRepo) Create(_ context.Context, b *tbentity.TimeBlock) (*tbentity.TimeBlock, error) {
	created := *b
	created.ID = uuid.New()
	if b.CalendarEventID != nil {
		f.blocks[blockKey(b.UserID, *b.CalendarEventID)] = &created
	}
	return &created, nil
}
func (f *fakeBlockRepo) GetByID(_ context.Context, _ uuid.UUID) (*tbentity.TimeBlock, error) {
	return nil, nil
}
func (f *fakeBlockRepo) ListByUser(_ context.Context, _ uuid.UUID, _ *tbentity.TimeBlockStatus, _ *uuid.UUID) ([]tbentity.TimeBlock, error) {
	return nil, nil
}
func (f *fakeBlockRepo) ListActiveOverlapping(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]tbentity.TimeBlock, error) {
	return nil, nil
}
func (f *fakeBlockRepo) Update(_ context.Context, _ *tbentity.TimeBlock) error { return nil }
func (f *fakeBlockRepo) Delete(_ context.Context, _ uuid.UUID) error           { return nil }

func (f *fakeBlockRepo) GetByCalendarEventID(_ context.Context, userID uuid.UUID, calendarEventID string) (*tbentity.TimeBlock, error) {
	b, ok := f.blocks[blockKey(userID, calendarEventID)]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBlockRepo) UpsertExternal(_ context.Context, b *tbentity.TimeBlock) (*tbentity.TimeBlock, error) {
	key := blockKey(b.UserID, *b.CalendarEventID)
	if existing, ok := f.blocks[key]; ok {
		id := existing.ID
		updated := *b
		updated.ID = id
		f.blocks[key] = &updated
		copied := updated
		return &copied, nil
	}
	created := *b
	created.ID = uuid.New()
	f.blocks[key] = &created
	copied := created
	return &copied, nil
}

// ===================== tests =====================

func testEvent(id string, day, startHour, endHour int) entity.ExternalEvent {
	return entity.ExternalEvent{
		CalendarEventID: id,
		CalendarID:      "primary",
		Title:           "Standup",
		StartAt:         time.Date(2024, 5, day, startHour, 0, 0, 0, time.UTC),
		EndAt:           time.Date(2024, 5, day, endHour, 0, 0, 0, time.UTC),
		Status:          "confirmed",
	}
}

func TestReconcileRequiresIntegration(t *testing.T) {
	svc := NewSyncService(newFakeIntegrationRepo(), &fakeChannelRepo{}, newFakeBlockRepo())

	_, appErr := svc.Reconcile(context.Background(), uuid.New(), tbentity.ProviderGoogle, nil, nil, nil)
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("expected not found for unconnected calendar, got %v", appErr)
	}
}

func TestReconcileUpsertsAndCounts(t *testing.T) {
	userID := uuid.New()
	integrations := newFakeIntegrationRepo()
	integrations.add(entity.CalendarIntegration{UserID: userID, Provider: tbentity.ProviderGoogle})
	blocks := newFakeBlockRepo()
	svc := NewSyncService(integrations, &fakeChannelRepo{}, blocks)
	ctx := context.Background()

	events := []entity.ExternalEvent{
		testEvent("ev-1", 1, 9, 10),
		testEvent("ev-2", 1, 11, 12),
	}

	summary, appErr := svc.Reconcile(ctx, userID, tbentity.ProviderGoogle, events, nil, nil)
	if appErr != nil {
		t.Fatalf("reconcile failed: %v", appErr)
	}
	if summary.Created != 2 || summary.Updated != 0 {
		t.Fatalf("created/updated = %d/%d, want 2/0", summary.Created, summary.Updated)
	}
	if summary.Synced != 2 {
		t.Errorf("syncedCount = %d, want 2", summary.Synced)
	}

	// Second pass with a moved event updates in place; the local id is stable.
	before, _ := blocks.GetByCalendarEventID(ctx, userID, "ev-1")
	events[0].StartAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	events[0].EndAt = time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)

	summary, appErr = svc.Reconcile(ctx, userID, tbentity.ProviderGoogle, events, nil, nil)
	if appErr != nil {
		t.Fatalf("second reconcile failed: %v", appErr)
	}
	if summary.Created != 0 || summary.Updated != 2 {
		t.Fatalf("created/updated = %d/%d, want 0/2", summary.Created, summary.Updated)
	}

	after, _ := blocks.GetByCalendarEventID(ctx, userID, "ev-1")
	if after.ID != before.ID {
		t.Error("upsert must preserve the local block id")
	}
	if !after.StartAt.Equal(events[0].StartAt) {
		t.Errorf("startAt = %v, want %v", after.StartAt, events[0].StartAt)
	}
}

func TestReconcileRoutesChannelByCalendarID(t *testing.T) {
	userID := uuid.New()
	calendarID := "work-calendar"
	channelID := uuid.New()

	integrations := newFakeIntegrationRepo()
	integrations.add(entity.CalendarIntegration{UserID: userID, Provider: tbentity.ProviderGoogle})
	channels := &fakeChannelRepo{channels: []channelentity.Channel{{
		ID:               channelID,
		UserID:           userID,
		Name:             "Work",
		TargetCalendarID: &calendarID,
	}}}
	blocks := newFakeBlockRepo()
	svc := NewSyncService(integrations, channels, blocks)
	ctx := context.Background()

	ev := testEvent("ev-1", 1, 9, 10)
	ev.CalendarID = calendarID
	if _, appErr := svc.Reconcile(ctx, userID, tbentity.ProviderGoogle, []entity.ExternalEvent{ev}, nil, nil); appErr != nil {
		t.Fatalf("reconcile failed: %v", appErr)
	}

	mirrored, _ := blocks.GetByCalendarEventID(ctx, userID, "ev-1")
	if mirrored.ChannelID == nil || *mirrored.ChannelID != channelID {
		t.Errorf("channelId = %v, want %v", mirrored.ChannelID, channelID)
	}
	if mirrored.Provider != tbentity.ProviderGoogle {
		t.Errorf("provider = %q, want google", mirrored.Provider)
	}
}

func TestReconcileSkipsInvalidEvents(t *testing.T) {
	userID := uuid.New()
	integrations := newFakeIntegrationRepo()
	integrations.add(entity.CalendarIntegration{UserID: userID, Provider: tbentity.ProviderGoogle})
	svc := NewSyncService(integrations, &fakeChannelRepo{}, newFakeBlockRepo())

	noID := testEvent("", 1, 9, 10)
	inverted := testEvent("ev-2", 1, 12, 11)

	summary, appErr := svc.Reconcile(context.Background(), userID, tbentity.ProviderGoogle, []entity.ExternalEvent{noID, inverted}, nil, nil)
	if appErr != nil {
		t.Fatalf("reconcile failed: %v", appErr)
	}
	if summary.Skipped != 2 || summary.Created != 0 {
		t.Errorf("skipped/created = %d/%d, want 2/0", summary.Skipped, summary.Created)
	}
}

func TestReconcileMergesSyncState(t *testing.T) {
	userID := uuid.New()
	integrations := newFakeIntegrationRepo()
	saved := integrations.add(entity.CalendarIntegration{
		UserID:    userID,
		Provider:  tbentity.ProviderGoogle,
		SyncState: coreentity.JSONB{"syncMode": "pull", "cursor": "stale", "calendarId": "old"},
	})
	svc := NewSyncService(integrations, &fakeChannelRepo{}, newFakeBlockRepo())

	cursor := "cursor-456"
	calendarID := "primary"
	ev := testEvent("ev-1", 1, 9, 10)
	if _, appErr := svc.Reconcile(context.Background(), userID, tbentity.ProviderGoogle,
		[]entity.ExternalEvent{ev}, &cursor, &calendarID); appErr != nil {
		t.Fatalf("reconcile failed: %v", appErr)
	}

	state := integrations.savedStates[saved.ID]
	if state == nil {
		t.Fatal("sync state was not persisted")
	}
	if state["syncMode"] != "pull" {
		t.Errorf("syncMode = %v; merge must preserve untouched keys", state["syncMode"])
	}
	if state["cursor"] != "cursor-456" {
		t.Errorf("cursor = %v, want the echoed request cursor", state["cursor"])
	}
	if state["calendarId"] != "primary" {
		t.Errorf("calendarId = %v, want primary", state["calendarId"])
	}
	if _, ok := state["lastSyncAt"].(string); !ok {
		t.Error("lastSyncAt must be stamped")
	}
}

func TestReconcileEchoesCursor(t *testing.T) {
	userID := uuid.New()
	integrations := newFakeIntegrationRepo()
	saved := integrations.add(entity.CalendarIntegration{UserID: userID, Provider: tbentity.ProviderGoogle})
	svc := NewSyncService(integrations, &fakeChannelRepo{}, newFakeBlockRepo())
	ctx := context.Background()

	cursor := "page-token-9"
	summary, appErr := svc.Reconcile(ctx, userID, tbentity.ProviderGoogle,
		[]entity.ExternalEvent{testEvent("ev-1", 1, 9, 10)}, &cursor, nil)
	if appErr != nil {
		t.Fatalf("reconcile failed: %v", appErr)
	}
	if summary.Cursor == nil || *summary.Cursor != cursor {
		t.Errorf("summary cursor = %v, want %q", summary.Cursor, cursor)
	}
	if got := integrations.savedStates[saved.ID]["cursor"]; got != cursor {
		t.Errorf("persisted cursor = %v, want %q", got, cursor)
	}

	// A cursorless pass writes the key back to null rather than keeping a
	// stale token around.
	summary, appErr = svc.Reconcile(ctx, userID, tbentity.ProviderGoogle, nil, nil, nil)
	if appErr != nil {
		t.Fatalf("second reconcile failed: %v", appErr)
	}
	if summary.Cursor != nil {
		t.Errorf("summary cursor = %v, want nil", summary.Cursor)
	}
	state := integrations.savedStates[saved.ID]
	if got, ok := state["cursor"]; !ok || got != nil {
		t.Errorf("persisted cursor = %v (present %v), want explicit null", got, ok)
	}
}

func TestReconcileReturnsSyncedBlocks(t *testing.T) {
	userID := uuid.New()
	integrations := newFakeIntegrationRepo()
	integrations.add(entity.CalendarIntegration{UserID: userID, Provider: tbentity.ProviderGoogle})
	blocks := newFakeBlockRepo()
	svc := NewSyncService(integrations, &fakeChannelRepo{}, blocks)
	ctx := context.Background()

	events := []entity.ExternalEvent{
		testEvent("ev-1", 1, 9, 10),
		testEvent("", 1, 10, 11), // skipped, must not appear in the output
		testEvent("ev-2", 1, 11, 12),
	}
	summary, appErr := svc.Reconcile(ctx, userID, tbentity.ProviderGoogle, events, nil, nil)
	if appErr != nil {
		t.Fatalf("reconcile failed: %v", appErr)
	}

	if len(summary.TimeBlocks) != 2 || summary.Synced != 2 {
		t.Fatalf("timeblocks/syncedCount = %d/%d, want 2/2", len(summary.TimeBlocks), summary.Synced)
	}
	for i, want := range []string{"ev-1", "ev-2"} {
		b := summary.TimeBlocks[i]
		if b.CalendarEventID == nil || *b.CalendarEventID != want {
			t.Errorf("block %d calendarEventId = %v, want %q", i, b.CalendarEventID, want)
		}
		if b.ID == uuid.Nil {
			t.Errorf("block %d must carry its persisted id", i)
		}
	}
}

func TestReconcileMapsNotes(t *testing.T) {
	userID := uuid.New()
	integrations := newFakeIntegrationRepo()
	integrations.add(entity.CalendarIntegration{UserID: userID, Provider: tbentity.ProviderGoogle})
	blocks := newFakeBlockRepo()
	svc := NewSyncService(integrations, &fakeChannelRepo{}, blocks)
	ctx := context.Background()

	notes := "bring the quarterly report"
	ev := testEvent("ev-1", 1, 9, 10)
	ev.Title = "Board meeting"
	ev.Notes = &notes
	if _, appErr := svc.Reconcile(ctx, userID, tbentity.ProviderGoogle, []entity.ExternalEvent{ev}, nil, nil); appErr != nil {
		t.Fatalf("reconcile failed: %v", appErr)
	}

	mirrored, _ := blocks.GetByCalendarEventID(ctx, userID, "ev-1")
	if mirrored.Notes == nil || *mirrored.Notes != notes {
		t.Errorf("notes = %v, want the event notes, not the title", mirrored.Notes)
	}

	// An event without notes clears them; the title never leaks in.
	ev.Notes = nil
	if _, appErr := svc.Reconcile(ctx, userID, tbentity.ProviderGoogle, []entity.ExternalEvent{ev}, nil, nil); appErr != nil {
		t.Fatalf("second reconcile failed: %v", appErr)
	}
	mirrored, _ = blocks.GetByCalendarEventID(ctx, userID, "ev-1")
	if mirrored.Notes != nil {
		t.Errorf("notes = %q, want nil after a notes-less re-sync", *mirrored.Notes)
	}
}

func TestReconcileMapsExternalStatus(t *testing.T) {
	userID := uuid.New()
	integrations := newFakeIntegrationRepo()
	integrations.add(entity.CalendarIntegration{UserID: userID, Provider: tbentity.ProviderGoogle})
	blocks := newFakeBlockRepo()
	svc := NewSyncService(integrations, &fakeChannelRepo{}, blocks)
	ctx := context.Background()

	cancelled := testEvent("ev-1", 1, 9, 10)
	cancelled.Status = "cancelled"
	tentative := testEvent("ev-2", 1, 11, 12)
	tentative.Status = "tentative"
	unknown := testEvent("ev-3", 1, 13, 14)
	unknown.Status = "someday"

	if _, appErr := svc.Reconcile(ctx, userID, tbentity.ProviderGoogle,
		[]entity.ExternalEvent{cancelled, tentative, unknown}, nil, nil); appErr != nil {
		t.Fatalf("reconcile failed: %v", appErr)
	}

	checks := map[string]tbentity.TimeBlockStatus{
		"ev-1": tbentity.StatusCancelled,
		"ev-2": tbentity.StatusTentative,
		"ev-3": tbentity.StatusConfirmed,
	}
	for id, want := range checks {
		b, _ := blocks.GetByCalendarEventID(ctx, userID, id)
		if b == nil || b.Status != want {
			t.Errorf("event %s: status = %v, want %v", id, b, want)
		}
	}
}
