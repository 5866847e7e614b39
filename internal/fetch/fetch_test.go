package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testGateway(client *http.Client) *Gateway {
	return New(Config{
		RetryDelay:     time.Millisecond,
		AttemptTimeout: time.Second,
		HTTPClient:     client,
	})
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pdf bytes"))
	}))
	defer srv.Close()

	g := testGateway(srv.Client())
	data, err := g.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("got %q, want %q", data, "pdf bytes")
	}
	if g.CacheLen() != 1 {
		t.Errorf("cache len: got %d, want 1", g.CacheLen())
	}
}

func TestFetch_RepeatServedFromCache(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("doc"))
	}))
	defer srv.Close()

	g := testGateway(srv.Client())
	for i := 0; i < 3; i++ {
		if _, err := g.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("server hits: got %d, want 1", got)
	}
}

func TestFetch_ConcurrentCallersShareOneDownload(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte("doc"))
	}))
	defer srv.Close()

	g := testGateway(srv.Client())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Fetch(context.Background(), srv.URL); err != nil {
				t.Errorf("Fetch failed: %v", err)
			}
		}()
	}

	// Give the goroutines time to pile up on the singleflight group, then
	// let the one in-flight request finish.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := hits.Load(); got != 1 {
		t.Errorf("server hits: got %d, want 1", got)
	}
}

func TestFetch_RetriesThenExhausted(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := testGateway(srv.Client())
	_, err := g.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if got := hits.Load(); got != DefaultAttempts {
		t.Errorf("attempts: got %d, want %d", got, DefaultAttempts)
	}
	if g.CacheLen() != 0 {
		t.Errorf("failed fetch must not populate cache, got len %d", g.CacheLen())
	}
}

func TestFetch_RecoversOnLaterAttempt(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("finally"))
	}))
	defer srv.Close()

	g := testGateway(srv.Client())
	data, err := g.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "finally" {
		t.Errorf("got %q, want %q", data, "finally")
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("attempts: got %d, want 3", got)
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := testGateway(srv.Client())
	if _, err := g.Fetch(ctx, srv.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
