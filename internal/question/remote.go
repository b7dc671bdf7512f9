package question

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"wisdom-spin/internal/domain"
)

// Protocol selects the wire format spoken to the generator.
type Protocol string

const (
	// ProtocolDirect posts the request fields and expects the question object back.
	ProtocolDirect Protocol = "direct"
	// ProtocolOpenAI speaks chat-completions and reads the question object from the first choice.
	ProtocolOpenAI Protocol = "openai"
)

const defaultModel = "gpt-4o-mini"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RemoteConfig configures RemoteStrategy.
type RemoteConfig struct {
	Endpoint      string
	Protocol      Protocol
	APIKey        string
	Model         string
	RatePerMinute int
}

// RemoteStrategy asks a generative service for a fresh question. Answers may
// come back empty; the caller backfills them.
type RemoteStrategy struct {
	cfg     RemoteConfig
	client  HTTPClient
	limiter *rate.Limiter
}

func NewRemoteStrategy(cfg RemoteConfig, client HTTPClient) *RemoteStrategy {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Protocol == "" {
		cfg.Protocol = ProtocolDirect
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), cfg.RatePerMinute)
	}
	return &RemoteStrategy{cfg: cfg, client: client, limiter: limiter}
}

// Configured reports whether an endpoint has been set.
func (s *RemoteStrategy) Configured() bool {
	return s != nil && strings.TrimSpace(s.cfg.Endpoint) != ""
}

type remotePayload struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
}

func (s *RemoteStrategy) Fetch(ctx context.Context, req Request) (domain.QuestionData, error) {
	if !s.Configured() {
		return domain.QuestionData{}, domain.ErrRemoteUnavailable
	}
	if !s.limiter.Allow() {
		return domain.QuestionData{}, fmt.Errorf("%w: rate limit reached", domain.ErrRemoteUnavailable)
	}

	body, err := s.requestBody(req)
	if err != nil {
		return domain.QuestionData{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(), bytes.NewReader(body))
	if err != nil {
		return domain.QuestionData{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return domain.QuestionData{}, fmt.Errorf("question request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.QuestionData{}, fmt.Errorf("question request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	p, err := s.decode(resp.Body)
	if err != nil {
		return domain.QuestionData{}, err
	}
	return domain.QuestionData{
		Question:    strings.TrimSpace(p.Question),
		Answer:      strings.TrimSpace(p.Answer),
		Explanation: strings.TrimSpace(p.Explanation),
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		Origin:      domain.OriginRemote,
	}, nil
}

func (s *RemoteStrategy) requestBody(req Request) ([]byte, error) {
	if s.cfg.Protocol == ProtocolOpenAI {
		return json.Marshal(map[string]any{
			"model":       s.cfg.Model,
			"temperature": 0.9,
			"messages": []map[string]string{
				{"role": "system", "content": systemPrompt},
				{"role": "user", "content": userPrompt(req)},
			},
			"response_format": map[string]string{"type": "json_object"},
		})
	}
	return json.Marshal(map[string]any{
		"category":   req.Category,
		"difficulty": req.Difficulty,
		"language":   req.Language,
		"history":    nonNil(req.RecentHistory()),
	})
}

func (s *RemoteStrategy) decode(r io.Reader) (remotePayload, error) {
	var p remotePayload
	if s.cfg.Protocol == ProtocolOpenAI {
		var cc struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.NewDecoder(r).Decode(&cc); err != nil {
			return p, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
		}
		if len(cc.Choices) == 0 || strings.TrimSpace(cc.Choices[0].Message.Content) == "" {
			return p, fmt.Errorf("%w: empty response", domain.ErrMalformedPayload)
		}
		if err := json.Unmarshal([]byte(stripFence(cc.Choices[0].Message.Content)), &p); err != nil {
			return p, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
		}
	} else if err := json.NewDecoder(r).Decode(&p); err != nil {
		return p, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if strings.TrimSpace(p.Question) == "" {
		return p, fmt.Errorf("%w: missing question", domain.ErrMalformedPayload)
	}
	return p, nil
}

func (s *RemoteStrategy) endpoint() string {
	endpoint := strings.TrimRight(strings.TrimSpace(s.cfg.Endpoint), "/")
	if s.cfg.Protocol != ProtocolOpenAI {
		return endpoint
	}
	switch {
	case strings.HasSuffix(endpoint, "/chat/completions"):
		return endpoint
	case strings.HasSuffix(endpoint, "/v1"):
		return endpoint + "/chat/completions"
	default:
		return endpoint + "/v1/chat/completions"
	}
}

const systemPrompt = "You are a professional quiz master for an educational party game called 'Wisdom Spin'. Reply with strict JSON only: an object with string fields question, answer, explanation, category, difficulty."

func userPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Task: Generate ONE unique, high-quality trivia question.\n")
	fmt.Fprintf(&b, "Category: %s\n", req.Category.Label(domain.LanguageEnglish))
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Language: %s\n", req.Language.Name())
	if recent := req.RecentHistory(); len(recent) > 0 {
		fmt.Fprintf(&b, "Constraint: Must be different from: %s.\n", strings.Join(recent, ", "))
	}
	b.WriteString("Format: Strict JSON only.")
	return b.String()
}

// stripFence removes a surrounding ``` block some models add around JSON.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
