package translator

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// scriptedService fails or succeeds per a canned list of responses.
type scriptedService struct {
	responses []error // nil means success
	calls     int
}

func (s *scriptedService) Name() string { return "scripted" }

func (s *scriptedService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	i := s.calls
	s.calls++
	if i >= len(s.responses) {
		return nil, errors.New("unexpected extra call")
	}
	if err := s.responses[i]; err != nil {
		return nil, err
	}
	return &ServiceResult{ServiceName: s.Name(), TranslatedText: "translated"}, nil
}

func rateLimit(hint time.Duration) error {
	return &APIError{StatusCode: http.StatusTooManyRequests, RetryAfter: hint}
}

// newTestRetrier records sleeps instead of performing them.
func newTestRetrier(svc TranslationService, maxAttempts int, initial time.Duration) (*Retrier, *[]time.Duration) {
	r := NewRetrier(svc, maxAttempts, initial)
	var waits []time.Duration
	r.sleep = func(d time.Duration) { waits = append(waits, d) }
	return r, &waits
}

func TestRetrier_SucceedsAfterRateLimits(t *testing.T) {
	svc := &scriptedService{responses: []error{
		rateLimit(3 * time.Second), // server hint, used verbatim
		rateLimit(0),               // no hint: current backoff (1s), then doubles
		rateLimit(0),               // no hint: 2s
		nil,
	}}
	r, waits := newTestRetrier(svc, 5, time.Second)

	res := r.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "original"})

	if res.TranslatedText != "translated" {
		t.Errorf("expected success payload, got %q", res.TranslatedText)
	}
	if svc.calls != 4 {
		t.Errorf("expected 4 calls, got %d", svc.calls)
	}
	want := []time.Duration{3 * time.Second, time.Second, 2 * time.Second}
	if len(*waits) != len(want) {
		t.Fatalf("expected %d waits, got %v", len(want), *waits)
	}
	for i, w := range want {
		if (*waits)[i] != w {
			t.Errorf("wait %d: got %v, want %v", i, (*waits)[i], w)
		}
	}
}

func TestRetrier_HintDoesNotAdvanceBackoff(t *testing.T) {
	svc := &scriptedService{responses: []error{
		rateLimit(10 * time.Second),
		rateLimit(0),
		nil,
	}}
	r, waits := newTestRetrier(svc, 5, time.Second)

	r.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "x"})

	// The hinted wait leaves the backoff at its initial 1s.
	if len(*waits) != 2 || (*waits)[1] != time.Second {
		t.Errorf("expected second wait of 1s, got %v", *waits)
	}
}

func TestRetrier_ExhaustionReturnsOriginal(t *testing.T) {
	svc := &scriptedService{responses: []error{
		errors.New("transport down"),
		errors.New("transport down"),
	}}
	r, waits := newTestRetrier(svc, 2, time.Second)

	res := r.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "keep me"})

	if res.TranslatedText != "keep me" {
		t.Errorf("expected original text back, got %q", res.TranslatedText)
	}
	if svc.calls != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", svc.calls)
	}
	if len(*waits) != 1 {
		t.Errorf("expected a single wait between the two attempts, got %v", *waits)
	}
}

func TestRetrier_BackoffDoublesOnGenericErrors(t *testing.T) {
	svc := &scriptedService{responses: []error{
		&APIError{StatusCode: http.StatusInternalServerError},
		errors.New("connection reset"),
		&APIError{StatusCode: http.StatusBadGateway},
		nil,
	}}
	r, waits := newTestRetrier(svc, 5, 500*time.Millisecond)

	res := r.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "x"})

	if res.TranslatedText != "translated" {
		t.Errorf("expected success, got %q", res.TranslatedText)
	}
	want := []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}
	for i, w := range want {
		if (*waits)[i] != w {
			t.Errorf("wait %d: got %v, want %v", i, (*waits)[i], w)
		}
	}
}

func TestRetrier_FirstTrySuccessNoWaits(t *testing.T) {
	svc := &scriptedService{responses: []error{nil}}
	r, waits := newTestRetrier(svc, 5, time.Second)

	res := r.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "x"})

	if res.TranslatedText != "translated" {
		t.Errorf("expected success, got %q", res.TranslatedText)
	}
	if len(*waits) != 0 {
		t.Errorf("expected no waits, got %v", *waits)
	}
}

func TestRetrier_SingleAttemptBudget(t *testing.T) {
	svc := &scriptedService{responses: []error{rateLimit(5 * time.Second)}}
	r, waits := newTestRetrier(svc, 1, time.Second)

	res := r.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "fallback"})

	if res.TranslatedText != "fallback" {
		t.Errorf("expected fallback, got %q", res.TranslatedText)
	}
	if svc.calls != 1 {
		t.Errorf("expected 1 call, got %d", svc.calls)
	}
	if len(*waits) != 0 {
		t.Errorf("no waits expected when the budget is spent, got %v", *waits)
	}
}
