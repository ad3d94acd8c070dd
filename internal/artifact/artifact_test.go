package artifact

import (
	"path/filepath"
	"testing"
	"time"
)

func TestWriteJSONAndReadJSON(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	type payload struct {
		Value int `json:"value"`
	}
	path, err := WriteJSON(dir, 2, "orbital_propagation", payload{Value: 42}, ts)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if filepath.Base(path) != "orbital_propagation_20260102_030405.json" {
		t.Errorf("unexpected filename: %s", filepath.Base(path))
	}

	var got payload
	if err := ReadJSON(path, &got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Value != 42 {
		t.Errorf("expected value=42, got %d", got.Value)
	}
}

func TestLatestOutput_PicksMostRecent(t *testing.T) {
	dir := t.TempDir()
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	if _, err := WriteJSON(dir, 3, "coordinate_transformation", map[string]int{"a": 1}, older); err != nil {
		t.Fatalf("WriteJSON older: %v", err)
	}
	if _, err := WriteJSON(dir, 3, "coordinate_transformation", map[string]int{"a": 2}, newer); err != nil {
		t.Fatalf("WriteJSON newer: %v", err)
	}

	latest, err := LatestOutput(dir, 3, "coordinate_transformation")
	if err != nil {
		t.Fatalf("LatestOutput: %v", err)
	}
	var got map[string]int
	if err := ReadJSON(latest, &got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got["a"] != 2 {
		t.Errorf("expected latest output to have a=2, got %v", got)
	}
}

func TestLatestOutput_NoneFound(t *testing.T) {
	dir := t.TempDir()
	if _, err := LatestOutput(dir, 2, "nonexistent"); err == nil {
		t.Error("expected error when no output dir exists")
	}
}

func TestTensorStore_PutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenTensorStore(filepath.Join(dir, "cache.h5"))
	if err != nil {
		t.Fatalf("OpenTensorStore: %v", err)
	}
	defer store.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	type tensor struct {
		Values []float64 `json:"values"`
	}
	hash, err := store.Put(tensor{Values: []float64{1.1, 2.2, 3.3}}, now)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	has, err := store.Has(hash)
	if err != nil || !has {
		t.Fatalf("Has: expected true, got %v (err=%v)", has, err)
	}

	var got tensor
	if err := store.Get(hash, &got, now); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Values) != 3 || got.Values[1] != 2.2 {
		t.Errorf("unexpected round-tripped tensor: %+v", got)
	}
}

func TestTensorStore_PutIsContentAddressedAndIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenTensorStore(filepath.Join(dir, "cache.h5"))
	if err != nil {
		t.Fatalf("OpenTensorStore: %v", err)
	}
	defer store.Close()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	type tensor struct {
		Values []float64 `json:"values"`
	}
	h1, err := store.Put(tensor{Values: []float64{9, 8, 7}}, now)
	if err != nil {
		t.Fatalf("Put 1: %v", err)
	}
	h2, err := store.Put(tensor{Values: []float64{9, 8, 7}}, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Put 2: %v", err)
	}
	if h1 != h2 {
		t.Errorf("expected identical content to hash the same: %s != %s", h1, h2)
	}
}

func TestTensorStore_EvictLRUOverMinAge(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenTensorStore(filepath.Join(dir, "cache.h5"))
	if err != nil {
		t.Fatalf("OpenTensorStore: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Two old, evictable blobs; one recent, protected blob.
	h1, _ := store.Put(map[string]string{"a": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}, base)
	h2, _ := store.Put(map[string]string{"b": "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"}, base.Add(time.Minute))
	h3, _ := store.Put(map[string]string{"c": "cccccccccccccccccccccccccccccccc"}, base.Add(48*time.Hour))

	now := base.Add(49 * time.Hour)
	evicted, freed, err := store.EvictLRUOverMinAge(1, 24*time.Hour, now)
	if err != nil {
		t.Fatalf("EvictLRUOverMinAge: %v", err)
	}
	if evicted == 0 || freed == 0 {
		t.Errorf("expected some eviction, got evicted=%d freed=%d", evicted, freed)
	}

	hasRecent, _ := store.Has(h3)
	if !hasRecent {
		t.Error("recent blob younger than min age should never be evicted")
	}

	_ = h1
	_ = h2
}
