package google

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

	"github.com/kitbuilder587/lead-radar/internal/search"
)

func errorBody(code int, reason, message string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
			"errors":  []map[string]string{{"reason": reason, "message": message}},
		},
	}
}

func TestClient_Search(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		response   interface{}
		statusCode int
		wantErr    error
		wantItems  int
	}{
		{
			name: "successful search",
			response: map[string]interface{}{
				"items": []map[string]string{
					{"title": "Jane Doe - CTO", "link": "https://example.com/jane", "snippet": "jane@example.com"},
					{"title": "John Roe", "link": "https://example.com/john", "snippet": "CEO"},
				},
				"searchInformation": map[string]string{"totalResults": "1200"},
			},
			statusCode: http.StatusOK,
			wantItems:  2,
		},
		{
			name:       "no items is not an error",
			response:   map[string]interface{}{"searchInformation": map[string]string{"totalResults": "0"}},
			statusCode: http.StatusOK,
			wantItems:  0,
		},
		{
			name:       "bad request",
			response:   errorBody(400, "invalid", "Invalid Value"),
			statusCode: http.StatusBadRequest,
			wantErr:    search.ErrInvalidRequest,
		},
		{
			name:       "bad key",
			response:   errorBody(400, "keyInvalid", "API key not valid"),
			statusCode: http.StatusUnauthorized,
			wantErr:    search.ErrUnauthorized,
		},
		{
			name:       "daily quota",
			response:   errorBody(403, "dailyLimitExceeded", "Daily Limit Exceeded"),
			statusCode: http.StatusForbidden,
			wantErr:    search.ErrQuotaExceeded,
		},
		{
			name:       "forbidden without quota reason",
			response:   errorBody(403, "accessNotConfigured", "API not enabled"),
			statusCode: http.StatusForbidden,
			wantErr:    search.ErrUnauthorized,
		},
		{
			name:       "too many requests",
			response:   errorBody(429, "", "slow down"),
			statusCode: http.StatusTooManyRequests,
			wantErr:    search.ErrRateLimit,
		},
		{
			name:       "server error",
			response:   map[string]string{"oops": "x"},
			statusCode: http.StatusBadGateway,
			wantErr:    search.ErrSearchFailed,
		},
		{
			name:       "error body with 200",
			response:   errorBody(403, "quotaExceeded", "Quota exceeded"),
			statusCode: http.StatusOK,
			wantErr:    search.ErrQuotaExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				json.NewEncoder(w).Encode(tt.response)
			}))
			defer server.Close()

			client := New(Config{
				APIKey:  "test-key",
				CX:      "test-cx",
				BaseURL: server.URL,
				Timeout: 5 * time.Second,
			}, logger)

			resp, err := client.Search(context.Background(), search.SearchRequest{Query: "test query", Start: 1})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Search() error = %v, wantErr %v", err, tt.wantErr)
				}
				var pe *search.ProviderError
				if errors.As(err, &pe) && pe.Message == "" {
					t.Error("provider error without message")
				}
				return
			}

			if err != nil {
				t.Fatalf("Search() unexpected error = %v", err)
			}
			if len(resp.Results) != tt.wantItems {
				t.Errorf("got %d results, want %d", len(resp.Results), tt.wantItems)
			}
		})
	}
}

func TestClient_Search_ProviderErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(errorBody(403, "dailyLimitExceeded", "Daily Limit Exceeded"))
	}))
	defer server.Close()

	client := New(Config{APIKey: "k", CX: "c", BaseURL: server.URL}, zap.NewNop())
	_, err := client.Search(context.Background(), search.SearchRequest{Query: "q"})

	if search.StatusCode(err) != http.StatusForbidden {
		t.Errorf("StatusCode() = %d, want 403", search.StatusCode(err))
	}
	if err.Error() != "google: status 403: Daily Limit Exceeded" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestClient_Search_QueryParams(t *testing.T) {
	var got map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customsearch/v1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		got = map[string]string{
			"key":          q.Get("key"),
			"cx":           q.Get("cx"),
			"q":            q.Get("q"),
			"num":          q.Get("num"),
			"start":        q.Get("start"),
			"dateRestrict": q.Get("dateRestrict"),
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer server.Close()

	client := New(Config{APIKey: "k", CX: "engine", BaseURL: server.URL}, zap.NewNop())
	_, err := client.Search(context.Background(), search.SearchRequest{
		Query:        `site:linkedin.com/in Technology "Pune"`,
		Start:        search.StartForPage(2, search.DefaultPageSize),
		DateRestrict: "w1",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := map[string]string{
		"key":          "k",
		"cx":           "engine",
		"q":            `site:linkedin.com/in Technology "Pune"`,
		"num":          "10",
		"start":        "21",
		"dateRestrict": "w1",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("param %s = %q, want %q", k, got[k], v)
		}
	}
}

func TestClient_Search_MissingCredentials(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	tests := []Config{
		{CX: "c", BaseURL: server.URL},
		{APIKey: "k", BaseURL: server.URL},
	}
	for _, cfg := range tests {
		client := New(cfg, zap.NewNop())
		_, err := client.Search(context.Background(), search.SearchRequest{Query: "q"})
		if !errors.Is(err, search.ErrMissingCredentials) {
			t.Errorf("error = %v, want ErrMissingCredentials", err)
		}
		if !search.IsConfigError(err) {
			t.Error("expected config error")
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("network was called %d times", calls)
	}
}

func TestClient_Search_BeyondResultWindow(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := New(Config{APIKey: "k", CX: "c", BaseURL: server.URL}, zap.NewNop())
	resp, err := client.Search(context.Background(), search.SearchRequest{Query: "q", Start: 95})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 0 || atomic.LoadInt32(&calls) != 0 {
		t.Errorf("expected empty response without a call")
	}
}

func TestClient_Search_NoRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(Config{APIKey: "k", CX: "c", BaseURL: server.URL}, zap.NewNop())
	_, err := client.Search(context.Background(), search.SearchRequest{Query: "q"})
	if !errors.Is(err, search.ErrSearchFailed) {
		t.Errorf("error = %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestClient_Search_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := New(Config{
		APIKey:  "k",
		CX:      "c",
		BaseURL: server.URL,
		Timeout: 100 * time.Millisecond,
	}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if _, err := client.Search(ctx, search.SearchRequest{Query: "test"}); err == nil {
		t.Error("Search() expected timeout error")
	}
}
