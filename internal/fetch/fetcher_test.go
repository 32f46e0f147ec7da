package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// discardLogger returns a logger that swallows all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestBackoff tests the backoff schedule.
func TestBackoff(t *testing.T) {
	t.Parallel()

	t.Run("doubles per retry", func(t *testing.T) {
		t.Parallel()

		base := 30 * time.Second
		want := []time.Duration{30 * time.Second, 60 * time.Second, 120 * time.Second, 240 * time.Second}
		for k := 1; k <= len(want); k++ {
			if got := Backoff(base, k); got != want[k-1] {
				t.Errorf("Backoff(base, %d) = %s, want %s", k, got, want[k-1])
			}
		}
	})

	t.Run("strictly increasing", func(t *testing.T) {
		t.Parallel()

		base := 5 * time.Millisecond
		prev := time.Duration(0)
		for k := 1; k <= 6; k++ {
			d := Backoff(base, k)
			if d <= prev {
				t.Errorf("expected Backoff(%d)=%s > Backoff(%d)=%s", k, d, k-1, prev)
			}
			prev = d
		}
	})
}

// TestFetch tests the retry policy end to end against an HTTP server.
func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("succeeds on a healthy server", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>ok</body></html>"))
		}))
		defer srv.Close()

		f := New(srv.Client(), WithLogger(discardLogger()), WithBaseDelay(time.Millisecond))
		page, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}

		if page.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", page.StatusCode)
		}
		if string(page.Raw) != "<html><body>ok</body></html>" {
			t.Errorf("unexpected body %q", page.Raw)
		}
		if page.Hash == "" {
			t.Error("expected content hash to be computed")
		}
		if page.ContentType != "text/html" {
			t.Errorf("expected text/html, got %q", page.ContentType)
		}
	})

	t.Run("recovers after four failures within a budget of five", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if hits.Add(1) <= 4 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("finally"))
		}))
		defer srv.Close()

		f := New(srv.Client(),
			WithLogger(discardLogger()),
			WithMaxAttempts(5),
			WithBaseDelay(time.Millisecond),
		)

		page, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("expected success on fifth attempt, got %v", err)
		}
		if string(page.Raw) != "finally" {
			t.Errorf("unexpected body %q", page.Raw)
		}
		if got := hits.Load(); got != 5 {
			t.Errorf("expected 5 requests, got %d", got)
		}
	})

	t.Run("exhausts the attempt budget on persistent failure", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		f := New(srv.Client(),
			WithLogger(discardLogger()),
			WithMaxAttempts(5),
			WithBaseDelay(time.Millisecond),
		)

		_, err := f.Fetch(context.Background(), srv.URL)
		if !errors.Is(err, ErrExhausted) {
			t.Fatalf("expected ErrExhausted, got %v", err)
		}
		if got := hits.Load(); got != 5 {
			t.Errorf("expected exactly 5 attempts, got %d", got)
		}

		var fe *Error
		if !errors.As(err, &fe) {
			t.Fatal("expected wrapped *Error with the last failure")
		}
		if fe.Kind != KindHTTPStatus || fe.StatusCode != http.StatusTooManyRequests {
			t.Errorf("unexpected last failure %v", fe)
		}
	})

	t.Run("classifies connection refusal as rate limiting", func(t *testing.T) {
		t.Parallel()

		// Grab a port that is guaranteed closed by listening and
		// immediately releasing it.
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}
		addr := l.Addr().String()
		_ = l.Close()

		f := New(&http.Client{},
			WithLogger(discardLogger()),
			WithMaxAttempts(1),
		)

		_, err = f.Fetch(context.Background(), "http://"+addr+"/")
		if err == nil {
			t.Fatal("expected error dialing closed port")
		}

		var fe *Error
		if !errors.As(err, &fe) {
			t.Fatalf("expected *Error, got %v", err)
		}
		if fe.Kind != KindRateLimited {
			t.Errorf("expected KindRateLimited, got %s", fe.Kind)
		}
	})

	t.Run("cancellation stops retries", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := New(srv.Client(),
			WithLogger(discardLogger()),
			WithMaxAttempts(5),
			WithBaseDelay(time.Hour), // must never actually wait
		)

		_, err := f.Fetch(ctx, srv.URL)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("caps oversized bodies", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			for range 100 {
				_, _ = w.Write(make([]byte, 1024))
			}
		}))
		defer srv.Close()

		f := New(srv.Client(),
			WithLogger(discardLogger()),
			WithMaxBodySize(2048),
			WithBaseDelay(time.Millisecond),
		)

		page, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if len(page.Raw) != 2048 {
			t.Errorf("expected 2048 bytes, got %d", len(page.Raw))
		}
	})
}
