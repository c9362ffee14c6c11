package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStore_GetSet(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "hibp:missing"); err != nil || ok {
		t.Fatalf("miss: got ok=%v err=%v; want miss without error", ok, err)
	}

	if err := s.Set(ctx, "hibp:abc", []byte(`{"status":"pending"}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := s.Get(ctx, "hibp:abc")
	if err != nil || !ok {
		t.Fatalf("hit: got ok=%v err=%v", ok, err)
	}
	if string(data) != `{"status":"pending"}` {
		t.Fatalf("value = %s", data)
	}
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "token:t1", []byte("DIGEST"), 30*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	if _, ok, err := s.Get(ctx, "token:t1"); err != nil || ok {
		t.Fatalf("after TTL: got ok=%v err=%v; want expired miss", ok, err)
	}
}

func TestRedisStore_SetNX(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	won, err := s.SetNX(ctx, "hibp:x", []byte("pending"), 30*time.Second)
	if err != nil || !won {
		t.Fatalf("first setnx: won=%v err=%v", won, err)
	}
	won, err = s.SetNX(ctx, "hibp:x", []byte("pending"), 30*time.Second)
	if err != nil || won {
		t.Fatalf("second setnx: won=%v err=%v; want lost without error", won, err)
	}

	mr.FastForward(31 * time.Second)
	won, err = s.SetNX(ctx, "hibp:x", []byte("pending"), 30*time.Second)
	if err != nil || !won {
		t.Fatalf("setnx after expiry: won=%v err=%v", won, err)
	}
}

func TestMemoryStore_SetNX(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if won, _ := s.SetNX(ctx, "k", []byte("a"), time.Minute); !won {
		t.Fatalf("first setnx lost")
	}
	if won, _ := s.SetNX(ctx, "k", []byte("b"), time.Minute); won {
		t.Fatalf("second setnx won over a live entry")
	}
	if data, _, _ := s.Get(ctx, "k"); string(data) != "a" {
		t.Fatalf("losing setnx overwrote value: %q", data)
	}

	now = now.Add(2 * time.Minute)
	if won, _ := s.SetNX(ctx, "k", []byte("c"), time.Minute); !won {
		t.Fatalf("setnx after expiry lost")
	}
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.Set(ctx, "hibp:abc", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "hibp:abc"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	now = now.Add(61 * time.Second)
	if _, ok, _ := s.Get(ctx, "hibp:abc"); ok {
		t.Fatalf("expected miss after expiry")
	}
	if s.Len() != 0 {
		t.Fatalf("expired entry not reaped, len = %d", s.Len())
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	val := []byte("original")
	if err := s.Set(ctx, "k", val, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val[0] = 'X'

	got, ok, _ := s.Get(ctx, "k")
	if !ok || string(got) != "original" {
		t.Fatalf("stored value aliased caller slice: %q", got)
	}
}

func TestTieredStore_FallsBackWhenPrimaryDown(t *testing.T) {
	primary, mr := newRedisStore(t)
	fallback := NewMemoryStore()
	tiered := NewTieredStore(primary, fallback, zerolog.Nop())
	ctx := context.Background()

	// Healthy primary serves reads and writes.
	if err := tiered.Set(ctx, "hibp:a", []byte("1"), time.Minute); err != nil {
		t.Fatalf("set via primary: %v", err)
	}
	if _, ok, err := tiered.Get(ctx, "hibp:a"); err != nil || !ok {
		t.Fatalf("get via primary: ok=%v err=%v", ok, err)
	}

	// Kill the backend: operations must degrade, never error.
	mr.Close()

	if err := tiered.Set(ctx, "hibp:b", []byte("2"), time.Minute); err != nil {
		t.Fatalf("set should fall back, got %v", err)
	}
	data, ok, err := tiered.Get(ctx, "hibp:b")
	if err != nil || !ok || string(data) != "2" {
		t.Fatalf("fallback get = %q ok=%v err=%v", data, ok, err)
	}
}

func TestTieredStore_NilPrimary(t *testing.T) {
	tiered := NewTieredStore(nil, NewMemoryStore(), zerolog.Nop())
	ctx := context.Background()

	if err := tiered.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := tiered.Get(ctx, "k")
	if err != nil || !ok || string(data) != "v" {
		t.Fatalf("get = %q ok=%v err=%v", data, ok, err)
	}
}

func TestKeyPrefix(t *testing.T) {
	if got := keyPrefix("hibp:DA39"); got != "hibp" {
		t.Errorf("keyPrefix(hibp:DA39) = %q", got)
	}
	if got := keyPrefix("noprefix"); got != "noprefix" {
		t.Errorf("keyPrefix(noprefix) = %q", got)
	}
}
