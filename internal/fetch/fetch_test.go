package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFetchCachesBody(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("<html>contenu</html>"))
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(t.TempDir(), 600, nil)
	ctx := context.Background()

	body, err := f.Fetch(ctx, srv.URL+"/page", true)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "<html>contenu</html>" {
		t.Errorf("body = %q", body)
	}

	// Second call with the cache on must not hit the network.
	if _, err := f.Fetch(ctx, srv.URL+"/page", true); err != nil {
		t.Fatalf("cached Fetch: %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}

	// Bypassing the cache re-fetches.
	if _, err := f.Fetch(ctx, srv.URL+"/page", false); err != nil {
		t.Fatalf("uncached Fetch: %v", err)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Errorf("server hit %d times, want 2", hits)
	}
}

// 404 is a terminal condition: empty body, no error, no retries.
func TestFetchNotFound(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(t.TempDir(), 600, nil)
	body, err := f.Fetch(context.Background(), srv.URL+"/disparu", false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "" {
		t.Errorf("body = %q, want empty", body)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("enfin"))
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(t.TempDir(), 6000, nil)
	body, err := f.Fetch(context.Background(), srv.URL+"/instable", false)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "enfin" {
		t.Errorf("body = %q", body)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Errorf("server hit %d times, want 3", hits)
	}
}
