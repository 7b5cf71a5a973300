package service

import (
	"context"
	"strings"
	"testing"

	"giftwell/internal/cache"
	"giftwell/internal/models"
	"giftwell/internal/repository"
	"giftwell/internal/status"
	"giftwell/internal/storage"
	"giftwell/pkg/logger"
)

type fakeProfileRepo struct {
	profiles map[string]*models.Profile
	deleted  []string
}

func (f *fakeProfileRepo) Get(ctx context.Context, userID string) (*models.Profile, error) {
	return f.profiles[userID], nil
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	f.profiles[p.UserID] = p
	return p, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	f.profiles[p.UserID] = p
	return p, nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, userID string) error {
	delete(f.profiles, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

type fakeGroupRepo struct {
	repository.GroupRepository

	ownedCount int
}

func (f *fakeGroupRepo) CountOwnedBy(ctx context.Context, userID string) (int, error) {
	return f.ownedCount, nil
}

type fakeNotificationRepo struct {
	repository.NotificationRepository

	undelivered []*models.Notification
	delivered   []string
}

func (f *fakeNotificationRepo) GetUndelivered(ctx context.Context) ([]*models.Notification, error) {
	return f.undelivered, nil
}

func (f *fakeNotificationRepo) MarkDelivered(ctx context.Context, id string) error {
	f.delivered = append(f.delivered, id)
	return nil
}

func newProfileTestService(profiles *fakeProfileRepo, groups *fakeGroupRepo, notifications *fakeNotificationRepo) *Service {
	l := logger.New("error")
	return New(l,
		cache.NewStore(),
		storage.NewResolver(""),
		status.NewReconciler(nil, nil, l),
		profiles, nil, nil, nil, groups, notifications,
	)
}

func TestDeleteAccountGuardedByGroupOwnership(t *testing.T) {
	profiles := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"u1": {UserID: "u1", Email: "a@b.c"},
	}}
	groups := &fakeGroupRepo{ownedCount: 2}
	svc := newProfileTestService(profiles, groups, nil)

	err := svc.DeleteAccount(context.Background(), "u1")
	if err == nil {
		t.Fatal("expected error while user still owns groups")
	}
	if !strings.Contains(err.Error(), "owns") {
		t.Errorf("unexpected error: %v", err)
	}
	if len(profiles.deleted) != 0 {
		t.Error("profile deleted despite owned groups")
	}

	groups.ownedCount = 0
	if err := svc.DeleteAccount(context.Background(), "u1"); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}
	if len(profiles.deleted) != 1 || profiles.deleted[0] != "u1" {
		t.Errorf("deleted = %v, want [u1]", profiles.deleted)
	}
}

func TestDeliverNotifications(t *testing.T) {
	chatID := int64(42)
	profiles := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"with-chat": {UserID: "with-chat", NotifyChatID: &chatID},
		"no-chat":   {UserID: "no-chat"},
	}}
	notifications := &fakeNotificationRepo{undelivered: []*models.Notification{
		{ID: "n1", UserID: "with-chat", Title: "Group invite", Body: "hello"},
		{ID: "n2", UserID: "no-chat", Title: "Group invite", Body: "hello"},
	}}
	svc := newProfileTestService(profiles, &fakeGroupRepo{}, notifications)

	var sent []int64
	svc.deliverNotifications(context.Background(), func(chatID int64, text string) {
		sent = append(sent, chatID)
		if !strings.Contains(text, "Group invite") {
			t.Errorf("message text missing title: %q", text)
		}
	})

	if len(sent) != 1 || sent[0] != 42 {
		t.Errorf("sent to chats %v, want [42]", sent)
	}
	// Both are marked delivered so users without a chat don't accumulate a
	// backlog.
	if len(notifications.delivered) != 2 {
		t.Errorf("delivered = %v, want both notifications", notifications.delivered)
	}
}
