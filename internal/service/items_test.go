package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"giftwell/internal/cache"
	"giftwell/internal/models"
	"giftwell/internal/repository"
	"giftwell/internal/status"
	"giftwell/internal/storage"
	"giftwell/pkg/logger"
)

// fakeItemRepo serves canned member-view results.
type fakeItemRepo struct {
	repository.ItemRepository

	memberItems []models.MemberItem
	refreshed   *models.MemberItem
	claimed     []models.MemberItem
	shopping    []models.MemberItem
	byID        map[string]*models.Item
}

func (f *fakeItemRepo) MemberItems(ctx context.Context, q repository.MemberItemsQuery) ([]models.MemberItem, error) {
	return append([]models.MemberItem(nil), f.memberItems...), nil
}

func (f *fakeItemRepo) RefreshItem(ctx context.Context, q repository.MemberItemsQuery, itemID string) (*models.MemberItem, error) {
	if f.refreshed == nil {
		return nil, nil
	}
	item := *f.refreshed
	return &item, nil
}

func (f *fakeItemRepo) ClaimedItems(ctx context.Context, viewerID string) ([]models.MemberItem, error) {
	return append([]models.MemberItem(nil), f.claimed...), nil
}

func (f *fakeItemRepo) ShoppingItems(ctx context.Context, viewerID string) ([]models.MemberItem, error) {
	return append([]models.MemberItem(nil), f.shopping...), nil
}

func (f *fakeItemRepo) GetByID(ctx context.Context, id string) (*models.Item, error) {
	return f.byID[id], nil
}

type fakeStatusRepo struct {
	rows    map[string]models.ItemStatus
	failErr error
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{rows: make(map[string]models.ItemStatus)}
}

func (f *fakeStatusRepo) Upsert(ctx context.Context, st *models.ItemStatus) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.rows[st.ItemID+"/"+st.UserID] = *st
	return nil
}

func (f *fakeStatusRepo) Delete(ctx context.Context, itemID, userID string) error {
	if f.failErr != nil {
		return f.failErr
	}
	delete(f.rows, itemID+"/"+userID)
	return nil
}

func (f *fakeStatusRepo) Get(ctx context.Context, itemID, userID string) (*models.ItemStatus, error) {
	st, ok := f.rows[itemID+"/"+userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func newTestService(items *fakeItemRepo, statuses repository.StatusRepository) *Service {
	l := logger.New("error")
	return New(l,
		cache.NewStore(),
		storage.NewResolver("https://example.supabase.co"),
		status.NewReconciler(statuses, nil, l),
		nil, items, statuses, nil, nil, nil,
	)
}

func memberItem(id, ownerID string, st *models.ItemStatus) models.MemberItem {
	return models.MemberItem{
		Item:   models.Item{ID: id, UserID: ownerID, Name: "Item " + id},
		Status: st,
	}
}

func TestMemberItemsHidesOwnStatuses(t *testing.T) {
	st := models.ItemStatus{ItemID: "a", UserID: "other", Status: models.StatusPlanned}
	items := &fakeItemRepo{memberItems: []models.MemberItem{
		memberItem("a", "viewer", &st),
		memberItem("b", "target", &st),
	}}
	svc := newTestService(items, newFakeStatusRepo())

	q := repository.MemberItemsQuery{GroupID: "g1", UserID: "target", ViewerID: "viewer"}
	got, err := svc.MemberItems(context.Background(), q)
	if err != nil {
		t.Fatalf("MemberItems() error = %v", err)
	}

	if got[0].Status != nil {
		t.Error("viewer's own item still carries a claim status")
	}
	if got[1].Status == nil {
		t.Error("another member's item lost its claim status")
	}

	cached, ok := svc.Cache().Get(cache.MemberViewKey("g1", "target", nil))
	if !ok {
		t.Fatal("member view was not cached")
	}
	if diff := cmp.Diff(got, cached); diff != "" {
		t.Errorf("cache differs from returned result (-want +got):\n%s", diff)
	}
}

func TestRefreshItemMergesInPlace(t *testing.T) {
	refreshed := memberItem("b", "target", nil)
	refreshed.Name = "Updated"
	items := &fakeItemRepo{
		memberItems: []models.MemberItem{
			memberItem("a", "target", nil),
			memberItem("b", "target", nil),
			memberItem("c", "target", nil),
		},
		refreshed: &refreshed,
	}
	svc := newTestService(items, newFakeStatusRepo())

	q := repository.MemberItemsQuery{GroupID: "g1", UserID: "target", ViewerID: "viewer"}
	if _, err := svc.MemberItems(context.Background(), q); err != nil {
		t.Fatal(err)
	}

	got, err := svc.RefreshItem(context.Background(), q, "b")
	if err != nil {
		t.Fatalf("RefreshItem() error = %v", err)
	}
	if got == nil || got.Name != "Updated" {
		t.Fatalf("RefreshItem() = %+v, want updated item", got)
	}

	cached, _ := svc.Cache().Get(cache.MemberViewKey("g1", "target", nil))
	if len(cached) != 3 {
		t.Fatalf("cached collection length = %d, want 3", len(cached))
	}
	if cached[1].ID != "b" || cached[1].Name != "Updated" {
		t.Errorf("item b not replaced in place: %+v", cached[1])
	}
}

func TestRefreshItemStripsOwnStatus(t *testing.T) {
	st := models.ItemStatus{ItemID: "a", UserID: "other", Status: models.StatusUnavailable}
	refreshed := memberItem("a", "viewer", &st)
	items := &fakeItemRepo{refreshed: &refreshed}
	svc := newTestService(items, newFakeStatusRepo())

	q := repository.MemberItemsQuery{GroupID: "g1", UserID: "viewer", ViewerID: "viewer"}
	got, err := svc.RefreshItem(context.Background(), q, "a")
	if err != nil {
		t.Fatalf("RefreshItem() error = %v", err)
	}
	if got.Status != nil {
		t.Error("owner received a claim status for their own item")
	}
}

func TestUpdateItemStatus(t *testing.T) {
	t.Run("rejects unknown status value", func(t *testing.T) {
		svc := newTestService(&fakeItemRepo{}, newFakeStatusRepo())

		_, err := svc.UpdateItemStatus(context.Background(), nil, models.ItemStatus{
			ItemID: "a", UserID: "viewer", Status: "bogus",
		}, false)
		if err == nil {
			t.Fatal("expected error for invalid status value")
		}
	})

	t.Run("patches originating scope on success", func(t *testing.T) {
		items := &fakeItemRepo{memberItems: []models.MemberItem{memberItem("a", "target", nil)}}
		svc := newTestService(items, newFakeStatusRepo())

		q := repository.MemberItemsQuery{GroupID: "g1", UserID: "target", ViewerID: "viewer"}
		if _, err := svc.MemberItems(context.Background(), q); err != nil {
			t.Fatal(err)
		}

		scope := &StatusScope{GroupID: "g1", UserID: "target"}
		result, err := svc.UpdateItemStatus(context.Background(), scope, models.ItemStatus{
			ItemID: "a", UserID: "viewer", Status: models.StatusPlanned,
		}, false)
		if err != nil {
			t.Fatalf("UpdateItemStatus() error = %v", err)
		}
		if result.Status != models.StatusPlanned {
			t.Errorf("result status = %q", result.Status)
		}

		cached, _ := svc.Cache().Get(cache.MemberViewKey("g1", "target", nil))
		if cached[0].Status == nil || cached[0].Status.Status != models.StatusPlanned {
			t.Errorf("cache not patched: %+v", cached[0].Status)
		}
	})

	t.Run("leaves cache untouched on gateway failure", func(t *testing.T) {
		items := &fakeItemRepo{memberItems: []models.MemberItem{memberItem("a", "target", nil)}}
		statuses := newFakeStatusRepo()
		svc := newTestService(items, statuses)

		q := repository.MemberItemsQuery{GroupID: "g1", UserID: "target", ViewerID: "viewer"}
		if _, err := svc.MemberItems(context.Background(), q); err != nil {
			t.Fatal(err)
		}

		statuses.failErr = errors.New("gateway down")
		scope := &StatusScope{GroupID: "g1", UserID: "target"}
		_, err := svc.UpdateItemStatus(context.Background(), scope, models.ItemStatus{
			ItemID: "a", UserID: "viewer", Status: models.StatusUnavailable,
		}, false)
		if err == nil {
			t.Fatal("expected gateway error")
		}

		cached, _ := svc.Cache().Get(cache.MemberViewKey("g1", "target", nil))
		if cached[0].Status != nil {
			t.Errorf("cache patched despite failure: %+v", cached[0].Status)
		}
	})
}

func TestClaimedItemsConcatenatesSources(t *testing.T) {
	token := int64(42)
	claimed := memberItem("a", "friend", &models.ItemStatus{ItemID: "a", UserID: "viewer", Status: models.StatusPlanned})
	claimed.ImageToken = &token
	shopping := memberItem("b", "viewer", nil)

	items := &fakeItemRepo{
		claimed:  []models.MemberItem{claimed},
		shopping: []models.MemberItem{shopping},
	}
	svc := newTestService(items, newFakeStatusRepo())

	got, err := svc.ClaimedItems(context.Background(), "viewer")
	if err != nil {
		t.Fatalf("ClaimedItems() error = %v", err)
	}

	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected order or length: %v", got)
	}
	if got[0].Image != "https://example.supabase.co/storage/v1/object/public/items/a?42" {
		t.Errorf("image URL not resolved: %q", got[0].Image)
	}

	cached, ok := svc.Cache().Get(cache.ClaimedItemsKey)
	if !ok || len(cached) != 2 {
		t.Error("claimed items not cached under the global scope")
	}
}

func TestUpdateItemRequiresOwnership(t *testing.T) {
	items := &fakeItemRepo{byID: map[string]*models.Item{
		"a": {ID: "a", UserID: "someone-else"},
	}}
	svc := newTestService(items, newFakeStatusRepo())

	_, err := svc.UpdateItem(context.Background(), "viewer", &models.Item{ID: "a"}, nil)
	if err == nil {
		t.Fatal("expected ownership error")
	}
}
