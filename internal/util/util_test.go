package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithRequestIDGeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))
	if seen == "" {
		t.Fatalf("expected generated request id")
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("header %q does not match context id %q", got, seen)
	}
}

func TestWithRequestIDKeepsIncomingID(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("X-Request-Id", "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "req-42" {
		t.Fatalf("expected incoming id to win, got %q", seen)
	}
}

func TestWithSecurityHeaders(t *testing.T) {
	handler := WithSecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("missing nosniff header, got %q", got)
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be set for plain HTTP")
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatalf("expected HSTS for forwarded HTTPS")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:4312"
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")

	if got := ClientIP(req, false); got != "203.0.113.7" {
		t.Fatalf("expected direct peer when proxies are untrusted, got %q", got)
	}
	if got := ClientIP(req, true); got != "198.51.100.1" {
		t.Fatalf("expected forwarded address when trusted, got %q", got)
	}
}

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == "" || a == b {
		t.Fatalf("expected distinct ids, got %q and %q", a, b)
	}
}
