package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoRequestSingleAttemptByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{Timeout: time.Second})
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)

	_, err := client.DoRequest(context.Background(), req)
	if !IsStatus(err, http.StatusServiceUnavailable) {
		t.Fatalf("DoRequest() error = %v, want 503 status error", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server called %d times, want 1", got)
	}
}

func TestDoRequestRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var retries int
	client := NewClient(ClientOptions{
		Timeout:    time.Second,
		MaxRetries: 3,
		OnRetry:    func(error, time.Duration) { retries++ },
	})
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)

	resp, err := client.DoRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("DoRequest() error = %v", err)
	}
	resp.Body.Close()

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
	if retries != 2 {
		t.Errorf("OnRetry called %d times, want 2", retries)
	}
}

func TestDoRequestClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{Timeout: time.Second, MaxRetries: 5})
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)

	_, err := client.DoRequest(context.Background(), req)
	if !IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("DoRequest() error = %v, want 400 status error", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server called %d times, want 1", got)
	}
}

func TestDoRequestKeepsErrorBody(t *testing.T) {
	long := strings.Repeat("x", 2*maxErrorBody)
	tests := []struct {
		name     string
		body     string
		contains string
		maxLen   int
	}{
		{
			name:     "short message kept whole",
			body:     `{"error_code":400,"error_message":"Bad Request. The value for variable api_key is not registered."}`,
			contains: "api_key is not registered",
		},
		{
			name:     "long body truncated",
			body:     long,
			contains: "...",
			maxLen:   maxErrorBody + len("..."),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(ClientOptions{Timeout: time.Second})
			req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)

			_, err := client.DoRequest(context.Background(), req)
			var statusErr *HTTPStatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("DoRequest() error = %v, want *HTTPStatusError", err)
			}
			if !strings.Contains(statusErr.Error(), tt.contains) {
				t.Errorf("Error() = %q, want it to contain %q", statusErr.Error(), tt.contains)
			}
			if tt.maxLen > 0 && len(statusErr.Body) > tt.maxLen {
				t.Errorf("Body length = %d, want at most %d", len(statusErr.Body), tt.maxLen)
			}
		})
	}
}
