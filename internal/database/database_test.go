package database

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"etalase/internal/models"

	"github.com/philippgille/gokv"
)

var dbNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestDatabase(t *testing.T, store gokv.Store) *KVDatabase {
	t.Helper()
	db := NewDatabase(store, Options{Now: func() time.Time { return dbNow }})
	t.Cleanup(func() { db.Close() })
	return db
}

func storedCatalog(t *testing.T, store gokv.Store) (string, bool) {
	t.Helper()
	var raw string
	found, err := store.Get("etalase_products", &raw)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return raw, found
}

func assertSeed(t *testing.T, products []models.Product) {
	t.Helper()
	want := models.DefaultProducts()
	if len(products) != len(want) {
		t.Fatalf("got %d products, want %d seeds", len(products), len(want))
	}
	for i := range want {
		if products[i].ID != want[i].ID || products[i].OldPrice != want[i].OldPrice {
			t.Fatalf("product %d = %+v, want %+v", i, products[i], want[i])
		}
	}
}

func TestLoadMissingKeyReturnsSeed(t *testing.T) {
	store := NewMemoryStore()
	db := newTestDatabase(t, store)

	assertSeed(t, db.Load())
	if _, found := storedCatalog(t, store); found {
		t.Fatal("Load must not write the seed back")
	}
}

func TestLoadCorruptValueClearsKey(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Set("etalase_products", "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	db := newTestDatabase(t, store)

	assertSeed(t, db.Load())
	if _, found := storedCatalog(t, store); found {
		t.Fatal("corrupt value was not cleared")
	}
}

func TestLoadNoValidEntriesClearsKey(t *testing.T) {
	store := NewMemoryStore()
	store.Set("etalase_products", `[{"id":1},{"name":"x"}]`)
	db := newTestDatabase(t, store)

	assertSeed(t, db.Load())
	if _, found := storedCatalog(t, store); found {
		t.Fatal("value without valid entries was not cleared")
	}
}

func TestLoadSkipsInvalidAndDuplicateEntries(t *testing.T) {
	store := NewMemoryStore()
	store.Set("etalase_products", `[
		{"id":"a","name":"A","oldPrice":100,"newPrice":100,"discount":0},
		{"id":"b","name":"B","oldPrice":"100","newPrice":100,"discount":0},
		{"id":"a","name":"A2","oldPrice":200,"newPrice":200,"discount":0},
		{"id":"c","name":"C","oldPrice":300,"newPrice":150,"discount":50,"timerEnd":"2026-10-19T11:59:00Z"}
	]`)
	db := newTestDatabase(t, store)

	products := db.Load()
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2: %+v", len(products), products)
	}
	if products[0].ID != "a" || products[0].Name != "A" {
		t.Fatalf("first entry = %+v, want the first a", products[0])
	}
	if products[1].ID != "c" || products[1].NewPrice != 300 || products[1].Discount != 0 || products[1].TimerEnd != nil {
		t.Fatalf("expired entry not reverted: %+v", products[1])
	}
	if _, found := storedCatalog(t, store); !found {
		t.Fatal("partially valid value must be kept")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	db := newTestDatabase(t, store)

	end := dbNow.Add(90 * time.Second)
	in := []models.Product{
		{ID: "p1", Name: "A", OldPrice: 22000, NewPrice: 11000, Discount: 50, TimerEnd: &end, ButtonText: "BELI"},
		{ID: "p7", Name: "B", OldPrice: 5000, NewPrice: 5000, ButtonText: models.DefaultButtonText},
	}
	db.Save(in)

	out := db.Load()
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0].TimerEnd == nil || !out[0].TimerEnd.Equal(end) {
		t.Fatalf("timer lost: %+v", out[0])
	}
	if out[0].NewPrice != 11000 || out[0].ButtonText != "BELI" || out[1].ID != "p7" {
		t.Fatalf("round trip mismatch: %+v", out)
	}

	raw, _ := storedCatalog(t, store)
	var generic []map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		t.Fatalf("stored value is not a JSON array: %v", err)
	}
	if generic[1]["timerEnd"] != nil {
		t.Fatalf("timerEnd without a timer = %v, want null", generic[1]["timerEnd"])
	}
}

func TestSaveEmptyCatalogStoresEmptyArray(t *testing.T) {
	store := NewMemoryStore()
	db := newTestDatabase(t, store)

	db.Save(nil)
	raw, found := storedCatalog(t, store)
	if !found || raw != "[]" {
		t.Fatalf("stored %q (found=%v), want []", raw, found)
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	db := newTestDatabase(t, store)

	if got := db.LoadOffset(); got != 0 {
		t.Fatalf("missing offset = %d, want 0", got)
	}
	db.SaveOffset(-90)
	if got := db.LoadOffset(); got != -90 {
		t.Fatalf("offset = %d, want -90", got)
	}

	store.Set("etalase_offset", "sepuluh")
	if got := db.LoadOffset(); got != 0 {
		t.Fatalf("junk offset = %d, want 0", got)
	}
}

type failingStore struct {
	gokv.Store
	deleted []string
}

func (s *failingStore) Get(k string, v any) (bool, error) {
	return false, errors.New("backend down")
}

func (s *failingStore) Set(k string, v any) error {
	return errors.New("backend down")
}

func (s *failingStore) Delete(k string) error {
	s.deleted = append(s.deleted, k)
	return nil
}

func (s *failingStore) Close() error { return nil }

func TestStorageFailuresAreSwallowed(t *testing.T) {
	store := &failingStore{}
	db := newTestDatabase(t, store)

	assertSeed(t, db.Load())
	if len(store.deleted) != 1 || store.deleted[0] != "etalase_products" {
		t.Fatalf("deleted = %v, want the catalog key", store.deleted)
	}

	db.Save(models.DefaultProducts())
	db.SaveOffset(5)
	if got := db.LoadOffset(); got != 0 {
		t.Fatalf("offset after read failure = %d, want 0", got)
	}
}
