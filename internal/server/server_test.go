package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := New(handler, ln.Addr().String(), time.Second, time.Second, time.Second, newTestLogger())

	var mu sync.Mutex
	var order []string
	srv.OnShutdown("first", func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "first")
		return nil
	})
	srv.OnShutdown("second", func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "second")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", resp.StatusCode)
	}
	if srv.Addr() != ln.Addr().String() {
		t.Errorf("Addr() = %s, want %s", srv.Addr(), ln.Addr())
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("expected LIFO shutdown order, got %v", order)
	}
}

func TestServer_ShutdownErrorsJoined(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := New(http.NotFoundHandler(), ln.Addr().String(), time.Second, time.Second, time.Second, newTestLogger())

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	srv.OnShutdown("a", func(context.Context) error { return errA })
	srv.OnShutdown("b", func(context.Context) error { return errB })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = srv.Serve(ctx, ln)
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("expected both shutdown errors, got %v", err)
	}
}

func TestServer_RunBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	// The address is taken, so Run must fail without serving.
	srv := New(http.NotFoundHandler(), ln.Addr().String(), time.Second, time.Second, time.Second, newTestLogger())

	err = srv.Run(context.Background())
	if err == nil {
		t.Fatal("expected bind error, got nil")
	}
}

func TestServer_AddrBeforeServe(t *testing.T) {
	srv := New(http.NotFoundHandler(), "[::1]:3000", time.Second, time.Second, time.Second, newTestLogger())
	if srv.Addr() != "[::1]:3000" {
		t.Errorf("Addr() = %s, want [::1]:3000", srv.Addr())
	}
}
