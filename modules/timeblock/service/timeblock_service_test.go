package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"planner-api/core/audit"
	"planner-api/core/errors"
	"planner-api/modules/timeblock/dto"
	"planner-api/modules/timeblock/entity"
)

// fakeTimeBlockRepo is an in-memory TimeBlockRepositoryInterface.
type fakeTimeBlockRepo struct {
	blocks map[uuid.UUID]*entity.TimeBlock
}

func newFakeTimeBlockRepo() *fakeTimeBlockRepo {
	return &fakeTimeBlockRepo{blocks: map[uuid.UUID]*entity.TimeBlock{}}
}

func (f *fakeTimeBlockRepo) add(b entity.TimeBlock) *entity.TimeBlock {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.blocks[b.ID] = &b
	return &b
}

func (f *fakeTimeBlockRepo) Create(_ context.Context, block *entity.TimeBlock) (*entity.TimeBlock, error) {
	created := *block
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.blocks[created.ID] = &created
	return &created, nil
}

func (f *fakeTimeBlockRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.TimeBlock, error) {
	b, ok := f.blocks[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (f *fakeTimeBlockRepo) ListByUser(_ context.Context, userID uuid.UUID, status *entity.TimeBlockStatus, taskID *uuid.UUID) ([]entity.TimeBlock, error) {
	out := []entity.TimeBlock{}
	for _, b := range f.blocks {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		if taskID != nil && (b.TaskID == nil || *b.TaskID != *taskID) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeTimeBlockRepo) ListActiveOverlapping(_ context.Context, userID uuid.UUID, from, to time.Time) ([]entity.TimeBlock, error) {
	out := []entity.TimeBlock{}
	for _, b := range f.blocks {
		if b.UserID != userID || !b.IsActive() {
			continue
		}
		if b.StartAt.Before(to) && b.EndAt.After(from) {
			out = append(out, *b)
		}
	}
	// Sorted ascending by start, as the SQL does.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].StartAt.Before(out[j-1].StartAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeTimeBlockRepo) Update(_ context.Context, block *entity.TimeBlock) error {
	copied := *block
	f.blocks[block.ID] = &copied
	return nil
}

func (f *fakeTimeBlockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.blocks, id)
	return nil
}

func (f *fakeTimeBlockRepo) GetByCalendarEventID(_ context.Context, userID uuid.UUID, calendarEventID string) (*entity.TimeBlock, error) {
	for _, b := range f.blocks {
		if b.UserID == userID && b.CalendarEventID != nil && *b.CalendarEventID == calendarEventID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTimeBlockRepo) UpsertExternal(_ context.Context, block *entity.TimeBlock) (*entity.TimeBlock, error) {
	for _, b := range f.blocks {
		if b.UserID == block.UserID && b.CalendarEventID != nil &&
			block.CalendarEventID != nil && *b.CalendarEventID == *block.CalendarEventID {
			b.StartAt = block.StartAt
			b.EndAt = block.EndAt
			b.Status = block.Status
			b.ChannelID = block.ChannelID
			b.Location = block.Location
			b.Notes = block.Notes
			b.RecurrenceRule = block.RecurrenceRule
			copied := *b
			return &copied, nil
		}
	}
	return f.Create(context.Background(), block)
}

func newTestService(repo *fakeTimeBlockRepo) TimeBlockServiceInterface {
	return NewTimeBlockService(repo, audit.NopRecorder{})
}

func TestCheckConflict(t *testing.T) {
	userID := uuid.New()
	repo := newFakeTimeBlockRepo()
	booked := repo.add(entity.TimeBlock{
		UserID:  userID,
		StartAt: at(1, 10, 0),
		EndAt:   at(1, 11, 0),
		Status:  entity.StatusConfirmed,
	})
	repo.add(entity.TimeBlock{
		UserID:  userID,
		StartAt: at(1, 14, 0),
		EndAt:   at(1, 15, 0),
		Status:  entity.StatusCancelled,
	})
	svc := newTestService(repo)
	ctx := context.Background()

	if appErr := svc.CheckConflict(ctx, userID, at(1, 10, 30), at(1, 11, 30), nil); appErr == nil {
		t.Fatal("expected conflict with the confirmed block")
	} else if appErr.Code != errors.ErrConflict {
		t.Fatalf("code = %v, want %v", appErr.Code, errors.ErrConflict)
	}

	// Back-to-back is allowed; intervals are half-open.
	if appErr := svc.CheckConflict(ctx, userID, at(1, 11, 0), at(1, 12, 0), nil); appErr != nil {
		t.Fatalf("back-to-back should not conflict: %v", appErr)
	}

	// Cancelled blocks vacate their interval.
	if appErr := svc.CheckConflict(ctx, userID, at(1, 14, 0), at(1, 15, 0), nil); appErr != nil {
		t.Fatalf("cancelled block should not conflict: %v", appErr)
	}

	// A block never conflicts with itself when excluded.
	if appErr := svc.CheckConflict(ctx, userID, at(1, 10, 0), at(1, 11, 0), &booked.ID); appErr != nil {
		t.Fatalf("excluded block should not conflict: %v", appErr)
	}

	// Other users' blocks are invisible.
	if appErr := svc.CheckConflict(ctx, uuid.New(), at(1, 10, 0), at(1, 11, 0), nil); appErr != nil {
		t.Fatalf("another user's calendar should be empty: %v", appErr)
	}
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	userID := uuid.New()
	repo := newFakeTimeBlockRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, appErr := svc.Create(ctx, &dto.CreateTimeBlockRequest{
		UserID:  userID.String(),
		StartAt: at(1, 9, 0).Format(time.RFC3339),
		EndAt:   at(1, 10, 0).Format(time.RFC3339),
	})
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}
	if resp.Status != string(entity.StatusTentative) {
		t.Errorf("status = %q, want tentative", resp.Status)
	}
	if resp.Provider != string(entity.ProviderLocal) {
		t.Errorf("provider = %q, want local", resp.Provider)
	}

	// Inverted interval is rejected before any store access.
	_, appErr = svc.Create(ctx, &dto.CreateTimeBlockRequest{
		UserID:  userID.String(),
		StartAt: at(1, 10, 0).Format(time.RFC3339),
		EndAt:   at(1, 9, 0).Format(time.RFC3339),
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected invalid input, got %v", appErr)
	}

	// Overlapping create is rejected with conflict details.
	_, appErr = svc.Create(ctx, &dto.CreateTimeBlockRequest{
		UserID:  userID.String(),
		StartAt: at(1, 9, 30).Format(time.RFC3339),
		EndAt:   at(1, 10, 30).Format(time.RFC3339),
	})
	if appErr == nil || appErr.Code != errors.ErrConflict {
		t.Fatalf("expected conflict, got %v", appErr)
	}
	if appErr.Details == nil {
		t.Error("conflict should carry details about the conflicting block")
	}
}

func TestUpdateConflictExcludesSelf(t *testing.T) {
	userID := uuid.New()
	repo := newFakeTimeBlockRepo()
	block := repo.add(entity.TimeBlock{
		UserID:  userID,
		StartAt: at(1, 9, 0),
		EndAt:   at(1, 10, 0),
		Status:  entity.StatusConfirmed,
	})
	svc := newTestService(repo)
	ctx := context.Background()

	// Shifting within its own old interval must not self-conflict.
	req := &dto.UpdateTimeBlockRequest{}
	if err := req.StartAt.UnmarshalJSON([]byte(`"` + at(1, 9, 30).Format(time.RFC3339) + `"`)); err != nil {
		t.Fatal(err)
	}
	if err := req.EndAt.UnmarshalJSON([]byte(`"` + at(1, 10, 30).Format(time.RFC3339) + `"`)); err != nil {
		t.Fatal(err)
	}

	resp, appErr := svc.Update(ctx, block.ID, req)
	if appErr != nil {
		t.Fatalf("update failed: %v", appErr)
	}
	if !resp.StartAt.Equal(at(1, 9, 30)) {
		t.Errorf("startAt = %v, want %v", resp.StartAt, at(1, 9, 30))
	}
}

func TestUpdateProviderField(t *testing.T) {
	userID := uuid.New()
	repo := newFakeTimeBlockRepo()
	block := repo.add(entity.TimeBlock{
		UserID:   userID,
		StartAt:  at(1, 9, 0),
		EndAt:    at(1, 10, 0),
		Status:   entity.StatusConfirmed,
		Provider: entity.ProviderLocal,
	})
	svc := newTestService(repo)
	ctx := context.Background()

	req := &dto.UpdateTimeBlockRequest{}
	if err := req.Provider.UnmarshalJSON([]byte(`"google"`)); err != nil {
		t.Fatal(err)
	}
	resp, appErr := svc.Update(ctx, block.ID, req)
	if appErr != nil {
		t.Fatalf("update failed: %v", appErr)
	}
	if resp.Provider != string(entity.ProviderGoogle) {
		t.Errorf("provider = %q, want google", resp.Provider)
	}

	bad := &dto.UpdateTimeBlockRequest{}
	if err := bad.Provider.UnmarshalJSON([]byte(`"outlook"`)); err != nil {
		t.Fatal(err)
	}
	if _, appErr := svc.Update(ctx, block.ID, bad); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected invalid input for unknown provider, got %v", appErr)
	}

	// An absent provider leaves the stored one untouched.
	noop := &dto.UpdateTimeBlockRequest{}
	if err := noop.Notes.UnmarshalJSON([]byte(`"moved rooms"`)); err != nil {
		t.Fatal(err)
	}
	resp, appErr = svc.Update(ctx, block.ID, noop)
	if appErr != nil {
		t.Fatalf("update failed: %v", appErr)
	}
	if resp.Provider != string(entity.ProviderGoogle) {
		t.Errorf("provider = %q, want google to survive an unrelated patch", resp.Provider)
	}
}

func TestSuggestSlotBooksTentativeBlock(t *testing.T) {
	userID := uuid.New()
	repo := newFakeTimeBlockRepo()
	repo.add(entity.TimeBlock{
		UserID:  userID,
		StartAt: at(1, 10, 0),
		EndAt:   at(1, 11, 0),
		Status:  entity.StatusConfirmed,
	})
	svc := newTestService(repo)
	ctx := context.Background()

	windowStart := at(1, 8, 30).Format(time.RFC3339)
	windowEnd := at(8, 0, 0).Format(time.RFC3339)
	startHour, endHour := 9, 17
	resp, appErr := svc.SuggestSlot(ctx, &dto.SuggestSlotRequest{
		UserID:             userID.String(),
		DurationMinutes:    60,
		WindowStart:        &windowStart,
		WindowEnd:          &windowEnd,
		PreferredStartHour: &startHour,
		PreferredEndHour:   &endHour,
	})
	if appErr != nil {
		t.Fatalf("suggest failed: %v", appErr)
	}
	if !resp.StartAt.Equal(at(1, 9, 0)) || !resp.EndAt.Equal(at(1, 10, 0)) {
		t.Errorf("slot = [%v, %v), want [09:00, 10:00)", resp.StartAt, resp.EndAt)
	}
	if resp.Status != string(entity.StatusTentative) {
		t.Errorf("status = %q, want tentative", resp.Status)
	}

	// The booked slot is persisted and visible as busy.
	if appErr := svc.CheckConflict(ctx, userID, at(1, 9, 0), at(1, 10, 0), nil); appErr == nil {
		t.Error("suggested slot should now conflict")
	}
}

func TestSuggestSlotExhaustedWindow(t *testing.T) {
	userID := uuid.New()
	repo := newFakeTimeBlockRepo()
	repo.add(entity.TimeBlock{
		UserID:  userID,
		StartAt: at(1, 9, 0),
		EndAt:   at(1, 17, 0),
		Status:  entity.StatusConfirmed,
	})
	svc := newTestService(repo)

	windowStart := at(1, 0, 0).Format(time.RFC3339)
	windowEnd := at(1, 23, 0).Format(time.RFC3339)
	startHour, endHour := 9, 17
	_, appErr := svc.SuggestSlot(context.Background(), &dto.SuggestSlotRequest{
		UserID:             userID.String(),
		DurationMinutes:    60,
		WindowStart:        &windowStart,
		WindowEnd:          &windowEnd,
		PreferredStartHour: &startHour,
		PreferredEndHour:   &endHour,
	})
	if appErr == nil || appErr.Code != errors.ErrConflict {
		t.Fatalf("expected conflict for exhausted window, got %v", appErr)
	}
}

func TestSuggestSlotDurationBounds(t *testing.T) {
	svc := newTestService(newFakeTimeBlockRepo())

	for _, minutes := range []int{0, 14, 481} {
		_, appErr := svc.SuggestSlot(context.Background(), &dto.SuggestSlotRequest{
			UserID:          uuid.New().String(),
			DurationMinutes: minutes,
		})
		if appErr == nil || appErr.Code != errors.ErrInvalidInput {
			t.Errorf("durationMinutes=%d: expected invalid input, got %v", minutes, appErr)
		}
	}
}
