package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cnslab/cipherform-go/internal/apierrors"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("")
	if !errors.Is(err, apierrors.ErrMissingBaseURL) {
		t.Errorf("New() error = %v, want ErrMissingBaseURL", err)
	}
}

func TestNew_DefaultValues(t *testing.T) {
	client, err := New("https://example.com/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.httpClient == nil {
		t.Fatal("httpClient is nil")
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
	if client.BaseURL() != "https://example.com" {
		t.Errorf("BaseURL() = %s, want trailing slash trimmed", client.BaseURL())
	}
	if client.logger == nil {
		t.Error("logger is nil")
	}
}

func TestNew_WithOptions(t *testing.T) {
	client, err := New("https://example.com", WithTimeout(5*time.Second), WithLogger(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", client.httpClient.Timeout)
	}
	if client.logger == nil {
		t.Error("WithLogger(nil) should keep the default logger")
	}
}

func TestSetHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: 60 * time.Second}

	client, _ := New("https://example.com", WithTimeout(5*time.Second))
	client.SetHTTPClient(custom)

	if client.httpClient != custom {
		t.Error("SetHTTPClient not applied")
	}
	if custom.Timeout != 60*time.Second {
		t.Errorf("custom client timeout changed to %v", custom.Timeout)
	}
}

func TestClientDo_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %s, want application/json", r.Header.Get("Accept"))
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("X-Request-ID header missing")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer server.Close()

	client, _ := New(server.URL)

	var result struct{ OK bool }
	if _, err := client.do(context.Background(), "GET", "/test", nil, &result); err != nil {
		t.Fatalf("do() error = %v", err)
	}
	if !result.OK {
		t.Error("result.OK = false, want true")
	}
}

func TestClientDo_WithBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Name string }
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if body.Name != "test" {
			t.Errorf("body.Name = %s, want test", body.Name)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"received": body.Name})
	}))
	defer server.Close()

	client, _ := New(server.URL)

	request := struct{ Name string }{Name: "test"}
	var result struct{ Received string }

	if _, err := client.do(context.Background(), "POST", "/test", request, &result); err != nil {
		t.Fatalf("do() error = %v", err)
	}
	if result.Received != "test" {
		t.Errorf("result.Received = %s, want test", result.Received)
	}
}

func TestClientDo_EmptyBodyIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := New(server.URL)

	var result struct{ OK bool }
	if _, err := client.do(context.Background(), "POST", "/test", nil, &result); err != nil {
		t.Fatalf("do() error = %v", err)
	}
}

func TestClientDo_InvalidSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client, _ := New(server.URL)

	var result struct{ OK bool }
	_, err := client.do(context.Background(), "POST", "/test", nil, &result)
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("do() error = %v, want *APIError", err)
	}
	if apiErr.Reason() != invalidBodyReason {
		t.Errorf("Reason() = %q, want %q", apiErr.Reason(), invalidBodyReason)
	}
}

func TestClientDo_NoRetry(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, _ := New(server.URL)

	_, err := client.do(context.Background(), "POST", "/test", nil, nil)
	if !errors.Is(err, apierrors.ErrServer) {
		t.Fatalf("do() error = %v, want ErrServer", err)
	}
	if atomic.LoadInt32(&attempts) != 1 {
		t.Errorf("attempts = %d, want 1 (no retry)", attempts)
	}
}

func TestClientDo_ErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason string
		wantReqID  string
	}{
		{"error field", 500, `{"error":"boom"}`, "boom", ""},
		{"error field with request id", 400, `{"error":"Invalid key","request_id":"srv-1"}`, "Invalid key", "srv-1"},
		{"no error field", 500, `{"detail":"x"}`, "Error: 500", ""},
		{"not json", 502, `Bad Gateway`, "Error: 502", ""},
		{"empty body", 404, ``, "Error: 404", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, _ := New(server.URL)
			_, err := client.do(context.Background(), "POST", "/encrypt", nil, nil)

			var apiErr *apierrors.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("do() error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Reason() != tt.wantReason {
				t.Errorf("Reason() = %q, want %q", apiErr.Reason(), tt.wantReason)
			}
			if tt.wantReqID != "" && apiErr.RequestID != tt.wantReqID {
				t.Errorf("RequestID = %q, want %q", apiErr.RequestID, tt.wantReqID)
			}
			if apiErr.RequestID == "" {
				t.Error("RequestID is empty")
			}
		})
	}
}

func TestClientDo_EchoedRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(RequestIDHeader, "edge-42")
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client, _ := New(server.URL)
	_, err := client.do(context.Background(), "POST", "/encrypt", nil, nil)

	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("do() error = %v, want *APIError", err)
	}
	if apiErr.RequestID != "edge-42" {
		t.Errorf("RequestID = %q, want edge-42", apiErr.RequestID)
	}
}

func TestClientDo_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, _ := New(url)
	_, err := client.do(context.Background(), "POST", "/encrypt", nil, nil)

	var netErr *apierrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("do() error = %v, want *NetworkError", err)
	}
	if netErr.URL != url+"/encrypt" {
		t.Errorf("URL = %s, want %s/encrypt", netErr.URL, url)
	}
	if netErr.Reason() != apierrors.GenericReason {
		t.Errorf("Reason() = %q", netErr.Reason())
	}
}

func TestClientDo_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	client, _ := New(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.do(ctx, "POST", "/encrypt", nil, nil)
	if !errors.Is(err, apierrors.ErrTransport) {
		t.Fatalf("do() error = %v, want ErrTransport", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("do() error = %v, want wrapped DeadlineExceeded", err)
	}
}

func TestClientDo_LogsRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	core, logs := observer.New(zap.DebugLevel)
	client, _ := New(server.URL, WithLogger(zap.New(core)))

	if _, err := client.do(context.Background(), "POST", "/encrypt", nil, nil); err != nil {
		t.Fatalf("do() error = %v", err)
	}

	entries := logs.FilterMessage("backend request").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/encrypt" {
		t.Errorf("path = %v, want /encrypt", fields["path"])
	}
	if fields["status"] != int64(200) {
		t.Errorf("status = %v, want 200", fields["status"])
	}
}
