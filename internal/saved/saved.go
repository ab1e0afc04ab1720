// Package saved persists the user-curated list of recommendation results
// across sessions. The collection holds at most one entry per policy id;
// corruption of the underlying storage is absorbed, never surfaced.
package saved

import (
	"encoding/json"
	"sync"
	"time"

	"youthpolicy/internal/logger"
	"youthpolicy/internal/models"
)

// envelopeVersion is bumped when the persisted shape changes. Version 0
// (a bare JSON array, the shape shipped before versioning) is still decoded.
const envelopeVersion = 1

type envelope struct {
	Version int                `json:"version"`
	Items   []models.SavedItem `json:"items"`
}

// Store is the saved-items store. Every mutation is a read-modify-write
// transaction under one mutex, so concurrent savers in the same process
// never observe a partial write or lose an update.
type Store struct {
	mu      sync.Mutex
	storage Storage
	now     func() time.Time
}

// NewStore creates a store over the given storage substrate.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage, now: time.Now}
}

// Load returns the persisted list, oldest saves last. Missing, corrupt, or
// unparsable storage yields an empty list; the corruption is logged and
// swallowed so a bad blob can never brick the saved view.
func (s *Store) Load() []models.SavedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() []models.SavedItem {
	data, err := s.storage.Get()
	if err != nil {
		if err != ErrNoValue {
			logger.Warn("saved: storage read failed, treating as empty", map[string]interface{}{"error": err.Error()})
		}
		return []models.SavedItem{}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Version >= envelopeVersion {
		if env.Items == nil {
			return []models.SavedItem{}
		}
		return env.Items
	}

	// Legacy shape: a bare array without envelope.
	var legacy []models.SavedItem
	if err := json.Unmarshal(data, &legacy); err == nil {
		return legacy
	}

	logger.Warn("saved: corrupt storage, treating as empty", nil)
	return []models.SavedItem{}
}

func (s *Store) write(items []models.SavedItem) error {
	data, err := json.Marshal(envelope{Version: envelopeVersion, Items: items})
	if err != nil {
		return err
	}
	return s.storage.Set(data)
}

// SaveBatch merges items into the persisted list. Ids already present are
// left untouched, neither duplicated nor overwritten, and genuinely new
// items are prepended in their given order. Calling it twice with the same
// batch is a no-op the second time.
func (s *Store) SaveBatch(items []models.RecommendationItem) ([]models.SavedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.load()
	seen := make(map[string]bool, len(existing))
	for _, it := range existing {
		seen[it.ID] = true
	}

	var fresh []models.SavedItem
	now := s.now()
	for _, item := range items {
		if item.ID == "" || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		fresh = append(fresh, models.SavedItem{RecommendationItem: item, SavedAt: now})
	}

	merged := append(fresh, existing...)
	if err := s.write(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Remove deletes exactly the entry with the given id and rewrites the list.
// Relative order of the remaining entries is unchanged. Removing an unknown
// id reports false and writes nothing.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.load()
	out := existing[:0:0]
	removed := false
	for _, it := range existing {
		if it.ID == id {
			removed = true
			continue
		}
		out = append(out, it)
	}
	if !removed {
		return false, nil
	}
	return true, s.write(out)
}

// Clear wipes the persisted collection entirely.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Remove()
}
