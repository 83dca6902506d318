package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testResponse(text string) messageResponse {
	return messageResponse{
		Content: []contentBlock{{Type: "text", Text: text}},
	}
}

func newTestClient(url string) *Client {
	return NewClient("test-key",
		WithBaseURL(url),
		WithRetryDelay(time.Millisecond),
	)
}

func TestGenerate(t *testing.T) {
	var gotReq messageRequest
	var gotVersion, gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q, want /v1/messages", r.URL.Path)
		}
		gotVersion = r.Header.Get("anthropic-version")
		gotKey = r.Header.Get("x-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(testResponse("MOOD: chill\nANALYSIS: Mellow day."))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	text, err := client.Generate(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "MOOD: chill\nANALYSIS: Mellow day." {
		t.Errorf("text = %q", text)
	}

	if gotVersion != apiVersion {
		t.Errorf("anthropic-version = %q, want %q", gotVersion, apiVersion)
	}
	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotReq.Model != defaultModel {
		t.Errorf("model = %q, want %q", gotReq.Model, defaultModel)
	}
	if gotReq.MaxTokens != maxTokens {
		t.Errorf("max_tokens = %d, want %d", gotReq.MaxTokens, maxTokens)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "analyze this" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(testResponse("recovered"))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "recovered" {
		t.Errorf("text = %q", text)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGenerateRateLimited(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(messageResponse{
			Error: &apiError{Type: "rate_limit_error", Message: "slow down"},
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if calls.Load() != retryAttempts {
		t.Errorf("calls = %d, want %d retries", calls.Load(), retryAttempts)
	}
}

func TestGenerateInvalidAPIKey(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(messageResponse{
			Error: &apiError{Type: "authentication_error", Message: "invalid x-api-key"},
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("err = %v, want ErrInvalidAPIKey", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, auth errors should not be retried", calls.Load())
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(messageResponse{Content: []contentBlock{}})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestGenerateSkipsNonTextBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(messageResponse{
			Content: []contentBlock{
				{Type: "thinking", Text: "hmm"},
				{Type: "text", Text: "the answer"},
			},
		})
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "the answer" {
		t.Errorf("text = %q", text)
	}
}
