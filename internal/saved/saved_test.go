package saved

import (
	"encoding/json"
	"testing"

	"youthpolicy/internal/models"
)

func item(id, title string) models.RecommendationItem {
	return models.RecommendationItem{
		ID: id, Title: title,
		MatchReasons: []string{}, Tags: []string{},
	}
}

func ids(items []models.SavedItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestLoad_EmptyStorage(t *testing.T) {
	store := NewStore(&MemStorage{})
	items := store.Load()
	if items == nil || len(items) != 0 {
		t.Errorf("empty storage should load as empty list, got %v", items)
	}
}

func TestLoad_CorruptStorage(t *testing.T) {
	storage := &MemStorage{}
	storage.Set([]byte(`{invalid json!!`))
	store := NewStore(storage)

	items := store.Load()
	if len(items) != 0 {
		t.Errorf("corrupt storage should load as empty list, got %v", items)
	}
}

func TestLoad_LegacyBareArray(t *testing.T) {
	// Persisted before the versioned envelope existed.
	legacy := []models.SavedItem{{RecommendationItem: item("p1", "청년 월세 지원")}}
	data, _ := json.Marshal(legacy)
	storage := &MemStorage{}
	storage.Set(data)

	store := NewStore(storage)
	items := store.Load()
	if len(items) != 1 || items[0].ID != "p1" {
		t.Errorf("legacy array should still decode, got %v", items)
	}
}

func TestSaveBatch_Idempotent(t *testing.T) {
	store := NewStore(&MemStorage{})
	batch := []models.RecommendationItem{item("p1", "정책 1"), item("p2", "정책 2")}

	first, err := store.SaveBatch(batch)
	if err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	second, err := store.SaveBatch(batch)
	if err != nil {
		t.Fatalf("SaveBatch (repeat): %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Errorf("lengths = %d then %d, want 2 and 2", len(first), len(second))
	}
	loaded := store.Load()
	if len(loaded) != 2 {
		t.Errorf("persisted %d items, want 2", len(loaded))
	}
}

func TestSaveBatch_PrependsNewKeepsExisting(t *testing.T) {
	store := NewStore(&MemStorage{})
	store.SaveBatch([]models.RecommendationItem{item("old1", "기존 1"), item("old2", "기존 2")})

	// Second batch re-sends old1 plus two new items.
	store.SaveBatch([]models.RecommendationItem{item("new1", "신규 1"), item("old1", "덮어쓰기 시도"), item("new2", "신규 2")})

	got := ids(store.Load())
	want := []string{"new1", "new2", "old1", "old2"}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}

	// old1 was not overwritten by the re-send.
	for _, it := range store.Load() {
		if it.ID == "old1" && it.Title != "기존 1" {
			t.Errorf("old1 title = %q, existing entries must not be overwritten", it.Title)
		}
	}
}

func TestRemove_RoundTrip(t *testing.T) {
	store := NewStore(&MemStorage{})
	store.SaveBatch([]models.RecommendationItem{item("p1", "정책 1"), item("p2", "정책 2"), item("p3", "정책 3")})

	removed, err := store.Remove("p2")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Fatal("Remove should report true for a present id")
	}

	got := ids(store.Load())
	want := []string{"p1", "p3"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ids after remove = %v, want %v (relative order preserved)", got, want)
	}
}

func TestRemove_UnknownID(t *testing.T) {
	store := NewStore(&MemStorage{})
	store.SaveBatch([]models.RecommendationItem{item("p1", "정책 1")})

	removed, err := store.Remove("ghost")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed {
		t.Error("Remove should report false for an unknown id")
	}
	if len(store.Load()) != 1 {
		t.Error("unknown-id remove must not change the list")
	}
}

func TestSaveBatch_SkipsEmptyIDs(t *testing.T) {
	store := NewStore(&MemStorage{})
	store.SaveBatch([]models.RecommendationItem{item("", "아이디 없음"), item("p1", "정책 1")})
	if got := ids(store.Load()); len(got) != 1 || got[0] != "p1" {
		t.Errorf("ids = %v, want [p1]", got)
	}
}

func TestClear(t *testing.T) {
	store := NewStore(&MemStorage{})
	store.SaveBatch([]models.RecommendationItem{item("p1", "정책 1")})
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(store.Load()) != 0 {
		t.Error("Clear should wipe the collection")
	}
}
