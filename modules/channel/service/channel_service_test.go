package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"planner-api/core/errors"
	"planner-api/core/params"
	"planner-api/modules/channel/dto"
	"planner-api/modules/channel/entity"
)

type fakeChannelRepo struct {
	channels map[uuid.UUID]*entity.Channel
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{channels: map[uuid.UUID]*entity.Channel{}}
}

func (f *fakeChannelRepo) Create(_ context.Context, ch *entity.Channel) (*entity.Channel, error) {
	created := *ch
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.channels[created.ID] = &created
	return &created, nil
}

func (f *fakeChannelRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Channel, error) {
	ch, ok := f.channels[id]
	if !ok {
		return nil, nil
	}
	copied := *ch
	return &copied, nil
}

func (f *fakeChannelRepo) GetBySlug(_ context.Context, userID uuid.UUID, slug string) (*entity.Channel, error) {
	for _, ch := range f.channels {
		if ch.UserID == userID && ch.Slug == slug {
			copied := *ch
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeChannelRepo) GetByTargetCalendarID(_ context.Context, userID uuid.UUID, calendarID string) (*entity.Channel, error) {
	for _, ch := range f.channels {
		if ch.UserID == userID && ch.TargetCalendarID != nil && *ch.TargetCalendarID == calendarID {
			copied := *ch
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeChannelRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]entity.Channel, error) {
	out := []entity.Channel{}
	for _, ch := range f.channels {
		if ch.UserID == userID {
			out = append(out, *ch)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) Update(_ context.Context, ch *entity.Channel) (*entity.Channel, error) {
	if _, ok := f.channels[ch.ID]; !ok {
		return nil, nil
	}
	copied := *ch
	f.channels[ch.ID] = &copied
	result := copied
	return &result, nil
}

func (f *fakeChannelRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.channels, id)
	return nil
}

func TestCreateChannelSlugsName(t *testing.T) {
	svc := NewChannelService(newFakeChannelRepo())

	resp, appErr := svc.Create(context.Background(), &dto.CreateChannelRequest{
		UserID: uuid.New().String(),
		Name:   "Deep Work / Mornings",
	})
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}
	if resp.Slug != "deep-work-mornings" {
		t.Errorf("slug = %q, want deep-work-mornings", resp.Slug)
	}
	if resp.Visibility != string(entity.VisibilityPrivate) {
		t.Errorf("visibility = %q, want private", resp.Visibility)
	}
}

func TestCreateChannelDuplicateName(t *testing.T) {
	svc := NewChannelService(newFakeChannelRepo())
	ctx := context.Background()
	userID := uuid.New().String()

	if _, appErr := svc.Create(ctx, &dto.CreateChannelRequest{UserID: userID, Name: "Work"}); appErr != nil {
		t.Fatalf("first create failed: %v", appErr)
	}
	_, appErr := svc.Create(ctx, &dto.CreateChannelRequest{UserID: userID, Name: "work"})
	if appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Fatalf("expected already exists for a colliding slug, got %v", appErr)
	}

	// The same name under another user is fine.
	if _, appErr := svc.Create(ctx, &dto.CreateChannelRequest{
		UserID: uuid.New().String(), Name: "Work",
	}); appErr != nil {
		t.Fatalf("create for another user failed: %v", appErr)
	}
}

func TestCreateChannelColorValidation(t *testing.T) {
	svc := NewChannelService(newFakeChannelRepo())
	ctx := context.Background()

	bad := "blue"
	_, appErr := svc.Create(ctx, &dto.CreateChannelRequest{
		UserID: uuid.New().String(), Name: "Errands", Color: &bad,
	})
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected invalid color error, got %v", appErr)
	}

	good := "#1a2b3c"
	resp, appErr := svc.Create(ctx, &dto.CreateChannelRequest{
		UserID: uuid.New().String(), Name: "Errands", Color: &good,
	})
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}
	if resp.Color == nil || *resp.Color != good {
		t.Errorf("color = %v, want %q", resp.Color, good)
	}
}

func TestUpdateChannelRename(t *testing.T) {
	repo := newFakeChannelRepo()
	svc := NewChannelService(repo)
	ctx := context.Background()
	userID := uuid.New().String()

	created, _ := svc.Create(ctx, &dto.CreateChannelRequest{UserID: userID, Name: "Side Projects"})
	svc.Create(ctx, &dto.CreateChannelRequest{UserID: userID, Name: "Work"})
	id, _ := uuid.Parse(created.ID)

	// Renaming onto an existing slug is rejected.
	req := &dto.UpdateChannelRequest{Name: params.SetTo("Work")}
	if _, appErr := svc.Update(ctx, id, req); appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Fatalf("expected already exists, got %v", appErr)
	}

	// A fresh name re-slugs.
	resp, appErr := svc.Update(ctx, id, &dto.UpdateChannelRequest{Name: params.SetTo("Open Source")})
	if appErr != nil {
		t.Fatalf("update failed: %v", appErr)
	}
	if resp.Slug != "open-source" {
		t.Errorf("slug = %q, want open-source", resp.Slug)
	}

	// Clearing the calendar binding via explicit null.
	calendarID := "work@group.calendar.google.com"
	resp, appErr = svc.Update(ctx, id, &dto.UpdateChannelRequest{TargetCalendarID: params.SetTo(calendarID)})
	if appErr != nil {
		t.Fatalf("update failed: %v", appErr)
	}
	if resp.TargetCalendarID == nil || *resp.TargetCalendarID != calendarID {
		t.Errorf("targetCalendarId = %v, want %q", resp.TargetCalendarID, calendarID)
	}
	resp, appErr = svc.Update(ctx, id, &dto.UpdateChannelRequest{TargetCalendarID: params.SetNull[string]()})
	if appErr != nil {
		t.Fatalf("update failed: %v", appErr)
	}
	if resp.TargetCalendarID != nil {
		t.Errorf("targetCalendarId = %v, want nil after explicit null", *resp.TargetCalendarID)
	}
}

func TestDeleteChannelNotFound(t *testing.T) {
	svc := NewChannelService(newFakeChannelRepo())

	appErr := svc.Delete(context.Background(), uuid.New())
	if appErr == nil || appErr.Code != errors.ErrNotFound {
		t.Fatalf("expected not found, got %v", appErr)
	}
}
