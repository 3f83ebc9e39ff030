package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giygas/statcan-api/config"
)

func TestRealIPMiddleware(t *testing.T) {
	var seenAddr string
	handler := RealIPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAddr = r.RemoteAddr
	}))

	testCases := []struct {
		name     string
		realIP   string
		xff      string
		expected string
	}{
		{"x-real-ip wins", "203.0.113.7", "198.51.100.1, 10.0.0.1", "203.0.113.7"},
		{"first forwarded entry", "", "198.51.100.1, 10.0.0.1", "198.51.100.1"},
		{"no proxy headers", "", "", "192.0.2.1:1234"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tables", nil)
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}

			handler.ServeHTTP(httptest.NewRecorder(), req)
			if seenAddr != tc.expected {
				t.Errorf("Expected RemoteAddr %s, got %s", tc.expected, seenAddr)
			}
		})
	}
}

func TestRequestSizeMiddleware(t *testing.T) {
	cfg := &config.Config{
		MaxRequestBody: 100,
		MaxHeaderSize:  1024,
	}

	var called bool
	handler := RequestSizeMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	// A small request passes through
	called = false
	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called || rec.Code != http.StatusOK {
		t.Errorf("Expected small request to pass, called=%v code=%d", called, rec.Code)
	}

	// A declared oversized body is rejected
	called = false
	req = httptest.NewRequest(http.MethodGet, "/tables", nil)
	req.Header.Set("Content-Length", "101")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if called {
		t.Error("Expected oversized request to be rejected before the handler")
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Expected JSON error body, got content type %s", ct)
	}

	// Oversized headers are rejected
	called = false
	req = httptest.NewRequest(http.MethodGet, "/tables", nil)
	req.Header.Set("X-Padding", strings.Repeat("a", 2048))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if called {
		t.Error("Expected oversized headers to be rejected before the handler")
	}
	if rec.Code != http.StatusRequestHeaderFieldsTooLarge {
		t.Errorf("Expected status 431, got %d", rec.Code)
	}
}
