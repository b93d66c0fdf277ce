package cache

import (
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()
	c := New(true)

	etag := c.Set("stats:all", []byte(`[{"player_name":"Vinicius Jr"}]`), time.Minute)
	if etag == "" {
		t.Fatal("empty etag")
	}

	data, got, ok := c.Get("stats:all")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != etag {
		t.Errorf("etag mismatch: %q vs %q", got, etag)
	}
	if string(data) != `[{"player_name":"Vinicius Jr"}]` {
		t.Errorf("data = %s", data)
	}

	if !CheckETagMatch(etag, etag) {
		t.Error("CheckETagMatch(same) = false")
	}
	if CheckETagMatch("", etag) {
		t.Error("CheckETagMatch(empty) = true")
	}
}

func TestCacheExpiry(t *testing.T) {
	t.Parallel()
	c := New(true)

	c.Set("k", []byte("v"), -time.Second)
	if _, _, ok := c.Get("k"); ok {
		t.Error("expired entry served")
	}
}

func TestCacheClear(t *testing.T) {
	t.Parallel()
	c := New(true)

	c.Set("k", []byte("v"), time.Minute)
	c.Clear()
	if _, _, ok := c.Get("k"); ok {
		t.Error("entry survived Clear")
	}
	if s := c.Stats(); s["active_keys"] != 0 {
		t.Errorf("stats = %v", s)
	}
}

// A disabled cache never serves hits but still produces stable ETags.
func TestCacheDisabled(t *testing.T) {
	t.Parallel()
	c := New(false)

	etag1 := c.Set("k", []byte("v"), time.Minute)
	etag2 := c.Set("k", []byte("v"), time.Minute)
	if etag1 == "" || etag1 != etag2 {
		t.Errorf("etags: %q vs %q", etag1, etag2)
	}
	if _, _, ok := c.Get("k"); ok {
		t.Error("disabled cache served a hit")
	}
}
