// Package cache holds the mutation-driven collection cache. Read queries
// always go to the gateway (freshness over request volume); only confirmed
// mutation results are patched in here, so the cached state never shows a
// value the backend rejected.
package cache

import (
	"strings"
	"sync"

	"giftwell/internal/models"
)

// Key identifies a cached collection scope. Each (key -> collection) pair is
// owned independently; patches never cross scopes.
type Key string

// ClaimedItemsKey is the single global scope for the items the current
// viewer has claimed across all groups.
const ClaimedItemsKey Key = "claimed_items"

// MemberViewKey builds the scope key for the items a target user presents to
// a group, optionally narrowed to one list.
func MemberViewKey(groupID, userID string, listID *string) Key {
	parts := []string{"groups", groupID, userID, "items"}
	if listID != nil {
		parts = append(parts, *listID)
	}
	return Key(strings.Join(parts, "/"))
}

// Store is a keyed in-memory cache of item collections.
type Store struct {
	mu          sync.RWMutex
	collections map[Key][]models.MemberItem
}

// NewStore creates an empty cache store.
func NewStore() *Store {
	return &Store{collections: make(map[Key][]models.MemberItem)}
}

// Put replaces the collection for a scope with a fresh query result.
func (s *Store) Put(key Key, items []models.MemberItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[key] = append([]models.MemberItem(nil), items...)
}

// Get returns a copy of the collection for a scope, and whether the scope is
// populated.
func (s *Store) Get(key Key) ([]models.MemberItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.collections[key]
	if !ok {
		return nil, false
	}
	return append([]models.MemberItem(nil), items...), true
}

// Drop removes a scope, typically when its view goes away.
func (s *Store) Drop(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, key)
}

// MergeItem patches a single re-fetched item into a scope: if an item with
// the same ID is present it is replaced in place, preserving its position;
// otherwise the item is appended. Other entries are left untouched and no
// refetch of the collection happens. Patching a scope that is not populated
// is a no-op.
func (s *Store) MergeItem(key Key, item models.MemberItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.collections[key]
	if !ok {
		return
	}

	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			return
		}
	}
	s.collections[key] = append(items, item)
}

// ApplyStatus patches the claim status of an item already present in a
// scope. A status of "available" clears the status field entirely, mirroring
// the gateway's delete-means-available rule. A status mutation carries no
// full item payload, so if the item is absent the result is discarded rather
// than inserted; the collection length is invariant across this call.
func (s *Store) ApplyStatus(key Key, status models.ItemStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.collections[key]
	if !ok {
		return
	}

	for i := range items {
		if items[i].ID != status.ItemID {
			continue
		}
		if status.Status == models.StatusAvailable {
			items[i].Status = nil
		} else {
			st := status
			items[i].Status = &st
		}
		return
	}
}
