package annotate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SpacyAnnotator annotates text through a spaCy-compatible sidecar service.
// The sidecar accepts POST {"text": "..."} on /annotate and returns the full
// token annotation, including a real dependency parse, which makes it the
// higher-fidelity alternative to the in-process tagger.
type SpacyAnnotator struct {
	baseURL string
	client  *http.Client
}

func NewSpacyAnnotator(baseURL string) *SpacyAnnotator {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &SpacyAnnotator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *SpacyAnnotator) Annotate(text string) ([]Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := a.client.Post(a.baseURL+"/annotate", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("annotation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("annotator returned status %d", resp.StatusCode)
	}

	var spacyResp struct {
		Tokens []struct {
			Text string `json:"text"`
			POS  string `json:"pos"`
			Tag  string `json:"tag"`
			Dep  string `json:"dep"`
			Head int    `json:"head"`
			I    int    `json:"i"`
		} `json:"tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&spacyResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	tokens := make([]Token, 0, len(spacyResp.Tokens))
	for _, t := range spacyResp.Tokens {
		tokens = append(tokens, Token{
			Text:  t.Text,
			POS:   t.POS,
			Tag:   t.Tag,
			Dep:   t.Dep,
			Head:  t.Head,
			Index: t.I,
		})
	}
	return tokens, nil
}

// IsAvailable checks that the sidecar is reachable.
func (a *SpacyAnnotator) IsAvailable() error {
	resp, err := a.client.Get(a.baseURL + "/health")
	if err != nil {
		return fmt.Errorf("annotator not available: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("annotator returned status %d", resp.StatusCode)
	}
	return nil
}
