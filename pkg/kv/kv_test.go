package kv_test

import (
	"testing"
	"time"

	"github.com/citizenjaivik/jaivik/pkg/kv"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemory_SetGetRoundTrip(t *testing.T) {
	store := kv.NewMemory()

	if err := store.Set("cart:guest", doc{Name: "Spinach", Count: 2}, 0); err != nil {
		t.Fatalf("Set returned unexpected error: %v", err)
	}

	var got doc
	if !store.Get("cart:guest", &got) {
		t.Fatal("expected a hit for an existing key")
	}
	if got.Name != "Spinach" || got.Count != 2 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestMemory_MissOnAbsentKey(t *testing.T) {
	store := kv.NewMemory()

	var got doc
	if store.Get("nope", &got) {
		t.Error("expected a miss for an absent key")
	}
}

func TestMemory_MalformedValueIsAMiss(t *testing.T) {
	store := kv.NewMemory()
	store.SetRaw("cart:guest", []byte("{not json"))

	var got doc
	if store.Get("cart:guest", &got) {
		t.Error("expected a miss for a malformed stored value")
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	store := kv.NewMemory()

	if err := store.Set("otp:9876543210", "123456", 10*time.Millisecond); err != nil {
		t.Fatalf("Set returned unexpected error: %v", err)
	}

	var code string
	if !store.Get("otp:9876543210", &code) {
		t.Fatal("expected a hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	if store.Get("otp:9876543210", &code) {
		t.Error("expected a miss after expiry")
	}
}

func TestMemory_Del(t *testing.T) {
	store := kv.NewMemory()

	_ = store.Set("a", 1, 0)
	_ = store.Set("b", 2, 0)

	if err := store.Del("a", "b", "missing"); err != nil {
		t.Fatalf("Del returned unexpected error: %v", err)
	}

	var n int
	if store.Get("a", &n) || store.Get("b", &n) {
		t.Error("expected deleted keys to miss")
	}
}

func TestDefault_Swap(t *testing.T) {
	original := kv.Default()
	defer kv.SetDefault(original)

	mem := kv.NewMemory()
	kv.SetDefault(mem)

	if err := kv.Set("k", "v", 0); err != nil {
		t.Fatalf("Set returned unexpected error: %v", err)
	}

	var got string
	if !mem.Get("k", &got) || got != "v" {
		t.Errorf("default store write did not land in the swapped store, got %q", got)
	}
}
