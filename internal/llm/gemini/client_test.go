package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/llm"
)

func TestClient_CompleteWithSystem(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		response   string
		statusCode int
		want       string
		wantErr    error
	}{
		{
			name:       "successful completion",
			response:   `{"candidates":[{"content":{"parts":[{"text":"{\"company\":\"Acme\"}"}]}}]}`,
			statusCode: http.StatusOK,
			want:       `{"company":"Acme"}`,
		},
		{
			name:       "unauthorized",
			response:   `{"error":{"code":401,"message":"bad key"}}`,
			statusCode: http.StatusUnauthorized,
			wantErr:    llm.ErrAuthFailed,
		},
		{
			name:       "rate limit",
			response:   `{"error":{"code":429,"message":"slow down"}}`,
			statusCode: http.StatusTooManyRequests,
			wantErr:    llm.ErrRateLimit,
		},
		{
			name:       "blocked prompt",
			response:   `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			statusCode: http.StatusOK,
			wantErr:    llm.ErrEmptyResponse,
		},
		{
			name:       "error body with 200",
			response:   `{"error":{"message":"model not found"}}`,
			statusCode: http.StatusOK,
			wantErr:    llm.ErrRequestFailed,
		},
		{
			name:       "server error",
			response:   `oops`,
			statusCode: http.StatusInternalServerError,
			wantErr:    llm.ErrRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("x-goog-api-key") != "test-key" {
					t.Error("missing api key header")
				}
				if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
					t.Errorf("unexpected path %s", r.URL.Path)
				}

				body, _ := io.ReadAll(r.Body)
				var req generateRequest
				if err := json.Unmarshal(body, &req); err != nil {
					t.Errorf("bad request body: %v", err)
				}
				if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "system" {
					t.Error("system instruction not sent")
				}

				w.WriteHeader(tt.statusCode)
				io.WriteString(w, tt.response)
			}))
			defer server.Close()

			client := New(Config{
				APIKey:  "test-key",
				Model:   "gemini-test",
				BaseURL: server.URL,
				Timeout: 5 * time.Second,
			}, logger)

			got, err := client.CompleteWithSystem(context.Background(), "system", "prompt")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CompleteWithSystem() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CompleteWithSystem() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CompleteWithSystem() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_MissingKey(t *testing.T) {
	client := New(Config{BaseURL: "http://127.0.0.1:0"}, zap.NewNop())
	if _, err := client.CompleteWithSystem(context.Background(), "", "x"); !errors.Is(err, llm.ErrAuthFailed) {
		t.Errorf("error = %v, want ErrAuthFailed", err)
	}
}
