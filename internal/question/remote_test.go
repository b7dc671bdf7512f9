package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"wisdom-spin/internal/domain"
)

func TestRemoteDirectRequestShape(t *testing.T) {
	client := &stubHTTPClient{resp: jsonResponse(200, `{"question":"Q","answer":"A"}`)}
	s := NewRemoteStrategy(RemoteConfig{Endpoint: "https://questions.example/generate", APIKey: "key"}, client)

	history := make([]string, 15)
	for i := range history {
		history[i] = fmt.Sprintf("q%d", i)
	}
	q, err := s.Fetch(context.Background(), Request{
		Category:   domain.CategoryHistory,
		Difficulty: domain.DifficultyEasy,
		Language:   domain.LanguageEnglish,
		History:    history,
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if q.Question != "Q" || q.Answer != "A" || q.Origin != domain.OriginRemote {
		t.Fatalf("unexpected question %+v", q)
	}
	if client.req.Header.Get("Authorization") != "Bearer key" {
		t.Fatalf("expected Authorization header")
	}

	var sent struct {
		Category   string   `json:"category"`
		Difficulty string   `json:"difficulty"`
		Language   string   `json:"language"`
		History    []string `json:"history"`
	}
	if err := json.Unmarshal(client.body, &sent); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if sent.Category != "history" || sent.Difficulty != "easy" || sent.Language != "en" {
		t.Fatalf("unexpected request %+v", sent)
	}
	if len(sent.History) != domain.HistoryWindow || sent.History[0] != "q5" || sent.History[9] != "q14" {
		t.Fatalf("expected the last %d history entries, got %v", domain.HistoryWindow, sent.History)
	}
}

func TestRemoteOpenAIProtocol(t *testing.T) {
	content := "```json\n{\"question\":\"What is 2+2?\",\"answer\":\"4\",\"explanation\":\"math\"}\n```"
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"content": content}}},
	})
	client := &stubHTTPClient{resp: jsonResponse(200, string(body))}
	s := NewRemoteStrategy(RemoteConfig{Endpoint: "https://api.openai.com", Protocol: ProtocolOpenAI, APIKey: "k"}, client)

	q, err := s.Fetch(context.Background(), Request{Category: domain.CategoryScience, Difficulty: domain.DifficultyHard, Language: domain.LanguageArabic, History: []string{"old question"}})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if q.Question != "What is 2+2?" || q.Answer != "4" || q.Explanation != "math" {
		t.Fatalf("unexpected question %+v", q)
	}
	if got := client.req.URL.String(); got != "https://api.openai.com/v1/chat/completions" {
		t.Fatalf("unexpected endpoint %s", got)
	}
	if !strings.Contains(string(client.body), "old question") || !strings.Contains(string(client.body), "Arabic") {
		t.Fatalf("prompt should carry history and language, got %s", client.body)
	}
}

func TestRemoteRejectsUnusablePayloads(t *testing.T) {
	cases := map[string]string{
		"not-json":      `<html>`,
		"no-question":   `{"answer":"A"}`,
		"blank":         `{"question":"   "}`,
		"empty-choices": `{"choices":[]}`,
	}
	for name, body := range cases {
		protocol := ProtocolDirect
		if name == "empty-choices" {
			protocol = ProtocolOpenAI
		}
		s := NewRemoteStrategy(RemoteConfig{Endpoint: "https://q.example", Protocol: protocol}, &stubHTTPClient{resp: jsonResponse(200, body)})
		if _, err := s.Fetch(context.Background(), Request{}); !errors.Is(err, domain.ErrMalformedPayload) {
			t.Fatalf("%s: expected malformed payload error, got %v", name, err)
		}
	}
}

func TestRemoteRateLimit(t *testing.T) {
	client := &stubHTTPClient{resp: jsonResponse(200, `{"question":"Q","answer":"A"}`)}
	s := NewRemoteStrategy(RemoteConfig{Endpoint: "https://q.example", RatePerMinute: 1}, client)
	if _, err := s.Fetch(context.Background(), Request{}); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := s.Fetch(context.Background(), Request{}); !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("rate limited fetch must not reach the network, calls=%d", client.calls)
	}
}

func TestRemoteUnconfigured(t *testing.T) {
	s := NewRemoteStrategy(RemoteConfig{}, nil)
	if s.Configured() {
		t.Fatalf("expected unconfigured strategy")
	}
	if _, err := s.Fetch(context.Background(), Request{}); !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
