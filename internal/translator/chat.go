package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"submend/internal/postprocess"
)

// DefaultChatBaseURL is the x.ai OpenAI-compatible endpoint the original
// workflow targets. Any /chat/completions-compatible server works.
const DefaultChatBaseURL = "https://api.x.ai/v1"

// ChatService translates through an OpenAI-compatible chat-completions
// endpoint: a system message carries the translation instructions, a user
// message carries the cue text.
type ChatService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewChatService(apiKey, baseURL string) *ChatService {
	if baseURL == "" {
		baseURL = DefaultChatBaseURL
	}
	return &ChatService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *ChatService) Name() string {
	return "chat"
}

func (s *ChatService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	apiKey := s.apiKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		return result, fmt.Errorf("API key required")
	}

	systemPrompt := req.SystemPrompt
	if req.Context != "" {
		systemPrompt += fmt.Sprintf("\n\nCONTEXT (previous subtitle text for continuity, do NOT translate this):\n...%s", req.Context)
	}

	chatReq := map[string]interface{}{
		"model": cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": req.Text},
		},
		"temperature": cfg.Temperature,
	}

	jsonData, err := json.Marshal(chatReq)
	if err != nil {
		return result, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", s.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", apiKey))

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return result, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return result, &APIError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return result, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return result, fmt.Errorf("empty response from API")
	}

	result.TranslatedText = postprocess.Clean(chatResp.Choices[0].Message.Content)
	return result, nil
}

// parseRetryAfter reads a Retry-After header value in delay-seconds form.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
