package cache

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"giftwell/internal/models"
)

func memberItem(id, name string) models.MemberItem {
	return models.MemberItem{Item: models.Item{ID: id, Name: name}}
}

func ids(items []models.MemberItem) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func TestMemberViewKey(t *testing.T) {
	listID := "list-1"

	tests := []struct {
		name     string
		listID   *string
		expected Key
	}{
		{"without list", nil, Key("groups/g1/u1/items")},
		{"with list", &listID, Key("groups/g1/u1/items/list-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MemberViewKey("g1", "u1", tt.listID); got != tt.expected {
				t.Errorf("MemberViewKey() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStorePutGet(t *testing.T) {
	s := NewStore()
	key := MemberViewKey("g1", "u1", nil)

	if _, ok := s.Get(key); ok {
		t.Fatal("expected empty store to report scope as unpopulated")
	}

	items := []models.MemberItem{memberItem("a", "Book"), memberItem("b", "Socks")}
	s.Put(key, items)

	got, ok := s.Get(key)
	if !ok {
		t.Fatal("expected scope to be populated after Put")
	}
	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}

	// Mutating the returned slice must not affect the stored collection.
	got[0].Name = "changed"
	again, _ := s.Get(key)
	if again[0].Name != "Book" {
		t.Error("Get() returned a slice aliasing the stored collection")
	}
}

func TestStoreMergeItem(t *testing.T) {
	key := MemberViewKey("g1", "u1", nil)

	t.Run("replaces in place preserving position", func(t *testing.T) {
		s := NewStore()
		s.Put(key, []models.MemberItem{
			memberItem("a", "Book"),
			memberItem("b", "Socks"),
			memberItem("c", "Mug"),
		})

		s.MergeItem(key, memberItem("b", "Wool socks"))

		got, _ := s.Get(key)
		if diff := cmp.Diff([]string{"a", "b", "c"}, ids(got)); diff != "" {
			t.Errorf("order changed (-want +got):\n%s", diff)
		}
		if got[1].Name != "Wool socks" {
			t.Errorf("item b not replaced, got name %q", got[1].Name)
		}
	})

	t.Run("appends unknown item at the end", func(t *testing.T) {
		s := NewStore()
		s.Put(key, []models.MemberItem{memberItem("a", "Book")})

		s.MergeItem(key, memberItem("z", "New"))

		got, _ := s.Get(key)
		if diff := cmp.Diff([]string{"a", "z"}, ids(got)); diff != "" {
			t.Errorf("unexpected order (-want +got):\n%s", diff)
		}
	})

	t.Run("no-op on unpopulated scope", func(t *testing.T) {
		s := NewStore()

		s.MergeItem(key, memberItem("a", "Book"))

		if _, ok := s.Get(key); ok {
			t.Error("merging into an unpopulated scope must not create it")
		}
	})
}

func TestStoreApplyStatus(t *testing.T) {
	key := MemberViewKey("g1", "u1", nil)
	planned := models.ItemStatus{ItemID: "b", UserID: "viewer", Status: models.StatusPlanned}

	seed := func() *Store {
		s := NewStore()
		s.Put(key, []models.MemberItem{
			memberItem("a", "Book"),
			{Item: models.Item{ID: "b", Name: "Socks"}, Status: &planned},
		})
		return s
	}

	t.Run("sets status on matching item", func(t *testing.T) {
		s := seed()

		s.ApplyStatus(key, models.ItemStatus{ItemID: "a", UserID: "viewer", Status: models.StatusUnavailable})

		got, _ := s.Get(key)
		if got[0].Status == nil || got[0].Status.Status != models.StatusUnavailable {
			t.Errorf("status not applied, got %+v", got[0].Status)
		}
	})

	t.Run("available clears the status", func(t *testing.T) {
		s := seed()

		s.ApplyStatus(key, models.ItemStatus{ItemID: "b", UserID: "viewer", Status: models.StatusAvailable})

		got, _ := s.Get(key)
		if got[1].Status != nil {
			t.Errorf("expected cleared status, got %+v", got[1].Status)
		}
	})

	t.Run("absent item is discarded, length invariant holds", func(t *testing.T) {
		s := seed()

		s.ApplyStatus(key, models.ItemStatus{ItemID: "missing", UserID: "viewer", Status: models.StatusPlanned})

		got, _ := s.Get(key)
		if len(got) != 2 {
			t.Errorf("collection length changed to %d, want 2", len(got))
		}
	})

	t.Run("no-op on unpopulated scope", func(t *testing.T) {
		s := NewStore()

		s.ApplyStatus(key, planned)

		if _, ok := s.Get(key); ok {
			t.Error("patching an unpopulated scope must not create it")
		}
	})
}

func TestStoreDrop(t *testing.T) {
	s := NewStore()
	s.Put(ClaimedItemsKey, []models.MemberItem{memberItem("a", "Book")})

	s.Drop(ClaimedItemsKey)

	if _, ok := s.Get(ClaimedItemsKey); ok {
		t.Error("expected scope to be gone after Drop")
	}
}
