package practicum

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	logx "homeworkbot/pkg/logx"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := New(Config{Token: "secret", Endpoint: endpoint}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestStatusesSendsAuthAndCursor(t *testing.T) {
	t.Parallel()
	var gotAuth, gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from_date")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"homeworks": [], "current_date": 42}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	payload, err := c.Statuses(context.Background(), 1700000000)
	if err != nil {
		t.Fatalf("Statuses error: %v", err)
	}
	if gotAuth != "OAuth secret" {
		t.Fatalf("Authorization = %q, want %q", gotAuth, "OAuth secret")
	}
	if gotFrom != "1700000000" {
		t.Fatalf("from_date = %q, want %q", gotFrom, "1700000000")
	}
	if _, ok := payload["homeworks"]; !ok {
		t.Fatal("payload missing homeworks key")
	}
}

func TestStatusesNonOK(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Statuses(context.Background(), 0)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusUnauthorized {
		t.Fatalf("Code = %d, want %d", statusErr.Code, http.StatusUnauthorized)
	}
}

func TestStatusesMalformedBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"homeworks": [`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Statuses(context.Background(), 0)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
}

func TestStatusesNonObjectBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1, 2, 3]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Statuses(context.Background(), 0)
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("err = %v, want *ShapeError", err)
	}
}

func TestStatusesTransportFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	c := newTestClient(t, srv.URL)
	_, err := c.Statuses(context.Background(), 0)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
}

func TestNewRequiresToken(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{Token: "  "}, logx.Nop()); err == nil {
		t.Fatal("expected error for empty token")
	}
}
