package cache

import (
	"errors"
	"testing"
	"time"
)

func TestKey_Deterministic(t *testing.T) {
	k1 := Key("search", []any{"queen", 5}, nil)
	k2 := Key("search", []any{"queen", 5}, nil)
	if k1 != k2 {
		t.Error("identical arguments should produce identical keys")
	}
}

func TestKey_ArgumentOrderMatters(t *testing.T) {
	k1 := Key("search", []any{"queen", 5}, nil)
	k2 := Key("search", []any{5, "queen"}, nil)
	if k1 == k2 {
		t.Error("positional argument order should change the key")
	}
}

func TestKey_KwargsSorted(t *testing.T) {
	k1 := Key("recs", nil, map[string]any{"mood": "chill", "limit": 5})
	k2 := Key("recs", nil, map[string]any{"limit": 5, "mood": "chill"})
	if k1 != k2 {
		t.Error("named argument map order should not change the key")
	}

	k3 := Key("recs", nil, map[string]any{"mood": "happy", "limit": 5})
	if k1 == k3 {
		t.Error("different named argument values should change the key")
	}
}

func TestMemoize_HitShortCircuits(t *testing.T) {
	c, _ := newTestCache(5*time.Minute, 100)

	calls := 0
	compute := func() (string, error) {
		calls++
		return "result", nil
	}

	key := Key("op", []any{"x"}, nil)
	for i := 0; i < 3; i++ {
		got, err := Memoize(c, key, time.Minute, compute)
		if err != nil {
			t.Fatalf("Memoize() error = %v", err)
		}
		if got != "result" {
			t.Errorf("Memoize() = %q", got)
		}
	}

	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
}

func TestMemoize_ErrorNotCached(t *testing.T) {
	c, _ := newTestCache(5*time.Minute, 100)

	calls := 0
	compute := func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("transient failure")
		}
		return "recovered", nil
	}

	key := Key("op", nil, nil)
	if _, err := Memoize(c, key, time.Minute, compute); err == nil {
		t.Fatal("expected error from first compute")
	}

	got, err := Memoize(c, key, time.Minute, compute)
	if err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if got != "recovered" {
		t.Errorf("Memoize() = %q, want 'recovered'", got)
	}
	if calls != 2 {
		t.Errorf("compute ran %d times, want 2", calls)
	}
}

func TestMemoize_ExpiredRecomputes(t *testing.T) {
	c, clock := newTestCache(5*time.Minute, 100)

	calls := 0
	compute := func() ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	key := Key("op", nil, nil)
	if _, err := Memoize(c, key, 10*time.Second, compute); err != nil {
		t.Fatal(err)
	}

	clock.Advance(time.Minute)

	if _, err := Memoize(c, key, 10*time.Second, compute); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("compute ran %d times after expiry, want 2", calls)
	}
}
