package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sportstock/backend/internal/inventory"
	"github.com/sportstock/backend/internal/models"
)

// InventoryStore is the document-store boundary: one document per user, read
// whole, replaced whole. A user without a document loads as an empty one.
type InventoryStore interface {
	Load(ctx context.Context, userID string) (models.InventoryDocument, error)
	Save(ctx context.Context, userID string, doc models.InventoryDocument) error
}

// InventoryWatcher is implemented by stores that can push remote document
// changes (the Firestore snapshot listener). Stores without it still work; the
// stream then only carries changes made through this process.
type InventoryWatcher interface {
	Watch(ctx context.Context, userID string) (<-chan models.InventoryDocument, error)
}

// SyncService is the sync gateway: it holds the optimistic in-memory copy of
// each user's list, persists the full document on every mutation and fans out
// the current list to subscribers. Persistence is last-write-wins with no
// conflict detection; a remote update overwrites the local copy even if a
// local change has not round-tripped yet. Persist failures are logged and
// reported as an unsynced write, never retried or rolled back.
type SyncService struct {
	store InventoryStore

	mu      sync.Mutex
	lists   map[string][]models.InventoryItem
	loaded  map[string]bool
	subs    map[string]map[chan []models.InventoryItem]struct{}
	watched map[string]bool
}

func NewSyncService(store InventoryStore) *SyncService {
	return &SyncService{
		store:   store,
		lists:   make(map[string][]models.InventoryItem),
		loaded:  make(map[string]bool),
		subs:    make(map[string]map[chan []models.InventoryItem]struct{}),
		watched: make(map[string]bool),
	}
}

// List returns the user's current item list, loading it from the store on
// first access.
func (s *SyncService) List(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	s.mu.Lock()
	if s.loaded[userID] {
		items := cloneList(s.lists[userID])
		s.mu.Unlock()
		return items, nil
	}
	s.mu.Unlock()

	doc, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded[userID] {
		s.lists[userID] = cloneList(doc.Items)
		s.loaded[userID] = true
	}
	return cloneList(s.lists[userID]), nil
}

// Replace installs a new full list. The in-memory copy and the subscribers are
// updated first; the store write happens after, so a failed persist leaves the
// UI and the remote copy diverged until the next successful write. The return
// value reports whether the write made it to the store.
func (s *SyncService) Replace(ctx context.Context, userID, userEmail string, items []models.InventoryItem) bool {
	s.mu.Lock()
	s.lists[userID] = cloneList(items)
	s.loaded[userID] = true
	s.broadcastLocked(userID)
	s.mu.Unlock()

	doc := models.InventoryDocument{
		Items:       items,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		UserEmail:   userEmail,
	}
	if err := s.store.Save(ctx, userID, doc); err != nil {
		log.Printf("[Sync] persist failed for user %s: %v", userID, err)
		return false
	}
	return true
}

// AddItem runs the add-or-merge mutation and persists the result.
func (s *SyncService) AddItem(ctx context.Context, userID, userEmail string, req *models.AddItemRequest) ([]models.InventoryItem, bool, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	updated := inventory.AddOrMerge(items, req.Name, req.Category, req.Size, req.Quantity, time.Now().UTC())
	synced := s.Replace(ctx, userID, userEmail, updated)
	return updated, synced, nil
}

// AdjustItem applies a quantity adjustment. Invalid amounts and unknown item
// ids are silent no-ops: the current list comes back unchanged and nothing is
// persisted.
func (s *SyncService) AdjustItem(ctx context.Context, userID, userEmail, itemID string, increase bool, rawAmount string) ([]models.InventoryItem, bool, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	updated, applied := inventory.Adjust(items, itemID, increase, rawAmount, time.Now().UTC())
	if !applied {
		return items, true, nil
	}
	synced := s.Replace(ctx, userID, userEmail, updated)
	return updated, synced, nil
}

// RemoveItem deletes one size-record. The second return value distinguishes a
// missing id from a persisted delete.
func (s *SyncService) RemoveItem(ctx context.Context, userID, userEmail, itemID string) ([]models.InventoryItem, bool, bool, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, false, false, err
	}

	updated, found := inventory.Remove(items, itemID)
	if !found {
		return items, false, true, nil
	}
	synced := s.Replace(ctx, userID, userEmail, updated)
	return updated, true, synced, nil
}

// Subscribe registers a listener for the user's list. The current list is
// delivered immediately; every subsequent change (local mutation or remote
// overwrite) is delivered after. The returned cancel func must be called when
// the listener goes away. Slow listeners miss intermediate states rather than
// blocking mutations.
func (s *SyncService) Subscribe(ctx context.Context, userID string) (<-chan []models.InventoryItem, func(), error) {
	current, err := s.List(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan []models.InventoryItem, 8)
	ch <- current

	s.mu.Lock()
	if s.subs[userID] == nil {
		s.subs[userID] = make(map[chan []models.InventoryItem]struct{})
	}
	s.subs[userID][ch] = struct{}{}
	s.mu.Unlock()

	s.ensureWatch(userID)

	cancel := func() {
		s.mu.Lock()
		delete(s.subs[userID], ch)
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

// ensureWatch starts forwarding remote snapshot changes for this user when the
// store supports watching. Remote documents overwrite the local list
// unconditionally.
func (s *SyncService) ensureWatch(userID string) {
	watcher, ok := s.store.(InventoryWatcher)
	if !ok {
		return
	}

	s.mu.Lock()
	if s.watched[userID] {
		s.mu.Unlock()
		return
	}
	s.watched[userID] = true
	s.mu.Unlock()

	updates, err := watcher.Watch(context.Background(), userID)
	if err != nil {
		log.Printf("[Sync] watch failed for user %s: %v", userID, err)
		s.mu.Lock()
		s.watched[userID] = false
		s.mu.Unlock()
		return
	}

	go func() {
		for doc := range updates {
			s.applyRemote(userID, doc.Items)
		}
		s.mu.Lock()
		s.watched[userID] = false
		s.mu.Unlock()
	}()
}

func (s *SyncService) applyRemote(userID string, items []models.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[userID] = cloneList(items)
	s.loaded[userID] = true
	s.broadcastLocked(userID)
}

func (s *SyncService) broadcastLocked(userID string) {
	items := s.lists[userID]
	for ch := range s.subs[userID] {
		select {
		case ch <- cloneList(items):
		default:
		}
	}
}

func cloneList(items []models.InventoryItem) []models.InventoryItem {
	cloned := make([]models.InventoryItem, len(items))
	copy(cloned, items)
	return cloned
}
