package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	macroerrors "github.com/matzehuels/macroscout/pkg/errors"
	"github.com/matzehuels/macroscout/pkg/observability"
)

func TestNewClient(t *testing.T) {
	headers := map[string]string{"User-Agent": "test/1.0"}
	client := NewClient(nil, headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.http.Timeout, DefaultTimeout)
	}
	if client.headers["User-Agent"] != "test/1.0" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilHeaders(t *testing.T) {
	client := NewClient(NewHTTPClient(0), nil)

	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
	if client.http.Timeout != 0 {
		t.Errorf("timeout = %v, want 0", client.http.Timeout)
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("User-Agent"); got != "macroscout-test" {
			t.Errorf("User-Agent = %q", got)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(server.Client(), map[string]string{"User-Agent": "macroscout-test"})

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	var v map[string]any
	err := NewClient(server.Client(), nil).Get(context.Background(), server.URL, &v)
	if err == nil {
		t.Fatal("expected decode error")
	}
	var re *macroerrors.RegistryError
	if errors.As(err, &re) {
		t.Error("decode errors must not be reported as registry errors")
	}
}

func TestClientOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("raw bytes"))
	}))
	defer server.Close()

	body, err := NewClient(server.Client(), nil).Open(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer body.Close()

	data, _ := io.ReadAll(body)
	if string(data) != "raw bytes" {
		t.Errorf("body = %q", data)
	}
}

func TestClientStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"forbidden", http.StatusForbidden},
		{"rate limited", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
		{"not modified", http.StatusNotModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			var v any
			err := NewClient(server.Client(), nil).Get(context.Background(), server.URL+"/crates/x", &v)

			var re *macroerrors.RegistryError
			if !errors.As(err, &re) {
				t.Fatalf("got %v, want *RegistryError", err)
			}
			if re.Status != tt.status {
				t.Errorf("Status = %d, want %d", re.Status, tt.status)
			}
			if re.URL != server.URL+"/crates/x" {
				t.Errorf("URL = %q", re.URL)
			}
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var v any
	err := NewClient(nil, nil).Get(context.Background(), url, &v)
	if !macroerrors.Is(err, macroerrors.ErrCodeNetwork) {
		t.Errorf("got %v, want NETWORK_ERROR", err)
	}
}

func TestClientContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var v any
	err := NewClient(server.Client(), nil).Get(ctx, server.URL, &v)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled in chain", err)
	}
}

type recordingHooks struct {
	mu        sync.Mutex
	requests  []string
	responses []int
	errors    int
}

func (h *recordingHooks) OnRequest(_ context.Context, _, _, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, path)
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func (h *recordingHooks) OnError(context.Context, string, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors++
}

func TestClientReportsHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil)
	var v any
	_ = client.Get(context.Background(), server.URL+"/ok", &v)
	_ = client.Get(context.Background(), server.URL+"/missing", &v)

	if len(hooks.requests) != 2 || hooks.requests[0] != "/ok" || hooks.requests[1] != "/missing" {
		t.Errorf("requests = %v", hooks.requests)
	}
	if len(hooks.responses) != 2 || hooks.responses[0] != 200 || hooks.responses[1] != 404 {
		t.Errorf("responses = %v", hooks.responses)
	}
	if hooks.errors != 0 {
		t.Errorf("errors = %d, want 0", hooks.errors)
	}
}
