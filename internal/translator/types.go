package translator

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ServiceConfig carries the per-run settings shared by all backends.
type ServiceConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Credentials string // Google Cloud credentials file, google backend only
	TargetLang  string // google backend only; the chat backend's target is set by the prompt
}

// TranslateRequest is one cue's worth of work.
type TranslateRequest struct {
	Text         string
	SystemPrompt string
	Context      string // trailing words of the preceding source text, may be empty
}

// ServiceResult is the outcome of a single translation call.
type ServiceResult struct {
	ServiceName    string
	TranslatedText string
	Latency        time.Duration
}

// TranslationService is one remote translation backend.
type TranslationService interface {
	Name() string
	Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error)
}

// APIError is a non-success HTTP response from a backend. RetryAfter is the
// server-supplied wait hint, zero when the response carried none.
type APIError struct {
	StatusCode int
	RetryAfter time.Duration
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("API returned status %d", e.StatusCode)
}

// RateLimited reports whether the response was a rate-limit rejection.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
