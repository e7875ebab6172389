package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func candidateBody(text string) string {
	resp := Response{Candidates: []Candidate{{Content: Content{Parts: []Part{{Text: text}}}}}}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestClientGenerate(t *testing.T) {
	var gotKey string
	var gotReq Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(candidateBody(`{"score_global": 85.5}`)))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", 5*time.Second)
	text, err := c.Generate(context.Background(), "analyze this", MaxTokensQuestion)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != `{"score_global": 85.5}` {
		t.Errorf("text = %q", text)
	}
	if gotKey != "test-key" {
		t.Errorf("x-goog-api-key = %q, want test-key", gotKey)
	}
	if len(gotReq.Contents) != 1 || gotReq.Contents[0].Parts[0].Text != "analyze this" {
		t.Errorf("request contents = %+v", gotReq.Contents)
	}
	gc := gotReq.GenerationConfig
	if gc.Temperature != 0.2 || gc.TopK != 40 || gc.TopP != 0.95 {
		t.Errorf("generation config = %+v", gc)
	}
	if gc.MaxOutputTokens != MaxTokensQuestion {
		t.Errorf("maxOutputTokens = %d, want %d", gc.MaxOutputTokens, MaxTokensQuestion)
	}
	if gc.ResponseMimeType != "application/json" {
		t.Errorf("responseMimeType = %q", gc.ResponseMimeType)
	}
}

func TestClientGenerateNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "quota"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", 5*time.Second)
	_, err := c.Generate(context.Background(), "p", MaxTokensQuestion)
	if err == nil {
		t.Fatal("expected error for 429")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", statusErr.StatusCode)
	}
}

func TestClientGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", 5*time.Second)
	_, err := c.Generate(context.Background(), "p", MaxTokensQuestion)
	if err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Errorf("error = %v, want no candidates error", err)
	}
}

func TestClientGenerateContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, "k", 5*time.Second)
	if _, err := c.Generate(ctx, "p", MaxTokensQuestion); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
