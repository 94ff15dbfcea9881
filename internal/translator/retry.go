package translator

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// retryState is the resilient client's explicit state. The wrapper cycles
// between attempting and waiting until it either succeeds or exhausts its
// attempt budget.
type retryState int

const (
	stateAttempting retryState = iota
	stateWaiting
	stateSucceeded
	stateExhausted
)

// DefaultMaxAttempts is the hard ceiling on calls per cue, the first attempt
// included.
const DefaultMaxAttempts = 5

// Retrier wraps a TranslationService with rate-limit-aware retry and
// exponential backoff. It never fails past its boundary: once the attempt
// budget is spent it degrades to returning the untranslated input, so a
// caller cannot distinguish a degraded fallback from a translation that
// happens to equal its input.
type Retrier struct {
	svc          TranslationService
	maxAttempts  int
	initialDelay time.Duration

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

func NewRetrier(svc TranslationService, maxAttempts int, initialDelay time.Duration) *Retrier {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if initialDelay <= 0 {
		initialDelay = time.Second
	}
	return &Retrier{
		svc:          svc,
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		sleep:        time.Sleep,
	}
}

func (r *Retrier) Name() string {
	return r.svc.Name()
}

// Translate runs the retry state machine for one request. The backoff delay
// starts at the configured initial delay and doubles on every retry not
// driven by a server wait hint; a Retry-After hint is honored verbatim for
// that single wait and leaves the backoff delay untouched.
func (r *Retrier) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) *ServiceResult {
	delay := r.initialDelay
	attempt := 1

	var (
		result *ServiceResult
		wait   time.Duration
		state  = stateAttempting
	)

	for {
		switch state {
		case stateAttempting:
			res, err := r.svc.Translate(ctx, cfg, req)
			if err == nil {
				result = res
				state = stateSucceeded
				break
			}
			if attempt >= r.maxAttempts {
				log.Warn("translation failed, keeping original text",
					"attempts", attempt, "error", err)
				state = stateExhausted
				break
			}
			wait, delay = nextWait(err, delay)
			logAttemptFailure(err, wait, attempt, r.maxAttempts)
			state = stateWaiting

		case stateWaiting:
			r.sleep(wait)
			attempt++
			state = stateAttempting

		case stateSucceeded:
			return result

		case stateExhausted:
			return &ServiceResult{
				ServiceName:    r.svc.Name(),
				TranslatedText: req.Text,
			}
		}
	}
}

// nextWait computes the coming wait and the backoff delay for the cycle
// after it. A rate-limit response carrying a server hint is used verbatim
// and does not advance the backoff; everything else waits the current delay
// and doubles it.
func nextWait(err error, delay time.Duration) (wait, next time.Duration) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RateLimited() && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter, delay
	}
	return delay, delay * 2
}

func logAttemptFailure(err error, wait time.Duration, attempt, max int) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RateLimited() {
		log.Warn("rate limit reached, waiting before retry",
			"wait", wait, "attempt", attempt, "max", max)
		return
	}
	log.Warn("translation attempt failed, waiting before retry",
		"wait", wait, "attempt", attempt, "max", max, "error", err)
}
