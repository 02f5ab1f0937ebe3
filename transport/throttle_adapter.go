package transport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tracking/core"
)

const KindThrottled = "throttled"

// ThrottledError reports a call short-circuited because the remote API
// asked us to back off and the window has not elapsed yet.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e ThrottledError) Error() string {
	return fmt.Sprintf("transport: throttled for %s", e.RetryAfter)
}

// ThrottleAdapter wraps another adapter and honors rate-limit feedback from
// the remote API. A 429 response passes through untouched so the caller
// still classifies it, but subsequent calls fail locally until the
// Retry-After window (or an exponential fallback) elapses.
type ThrottleAdapter struct {
	next core.TransportAdapter

	nowFn          func() time.Time
	initialBackoff time.Duration
	maxBackoff     time.Duration

	mu             sync.Mutex
	attempts       int
	throttledUntil time.Time
}

func NewThrottleAdapter(next core.TransportAdapter) *ThrottleAdapter {
	return &ThrottleAdapter{
		next:           next,
		nowFn:          func() time.Time { return time.Now().UTC() },
		initialBackoff: time.Second,
		maxBackoff:     time.Minute,
	}
}

func (a *ThrottleAdapter) Kind() string {
	return KindThrottled
}

func (a *ThrottleAdapter) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if a == nil || a.next == nil {
		return core.TransportResponse{}, transportError(
			"transport: throttle adapter requires a next adapter",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			map[string]any{"adapter": KindThrottled},
		)
	}

	now := a.now()
	a.mu.Lock()
	if now.Before(a.throttledUntil) {
		retryAfter := a.throttledUntil.Sub(now)
		a.mu.Unlock()
		throttled := ThrottledError{RetryAfter: retryAfter}
		return core.TransportResponse{}, transportWrapError(
			throttled,
			goerrors.CategoryRateLimit,
			"transport: request suppressed by rate limit",
			http.StatusTooManyRequests,
			map[string]any{
				"adapter":        KindThrottled,
				"retry_after_ms": retryAfter.Milliseconds(),
			},
		)
	}
	a.mu.Unlock()

	res, err := a.next.Do(ctx, req)
	if err != nil {
		return res, err
	}

	a.observe(res)
	return res, nil
}

func (a *ThrottleAdapter) observe(res core.TransportResponse) {
	now := a.now()
	a.mu.Lock()
	defer a.mu.Unlock()

	if res.StatusCode != http.StatusTooManyRequests {
		a.attempts = 0
		a.throttledUntil = time.Time{}
		return
	}

	a.attempts++
	delay, ok := parseRetryAfter(res.Headers, now)
	if !ok {
		delay = a.nextBackoff(a.attempts)
	}
	a.throttledUntil = now.Add(delay)
}

func (a *ThrottleAdapter) now() time.Time {
	if a != nil && a.nowFn != nil {
		return a.nowFn().UTC()
	}
	return time.Now().UTC()
}

func (a *ThrottleAdapter) nextBackoff(attempt int) time.Duration {
	initial := a.initialBackoff
	if initial <= 0 {
		initial = time.Second
	}
	maximum := a.maxBackoff
	if maximum <= 0 {
		maximum = time.Minute
	}
	delay := initial
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maximum {
			return maximum
		}
	}
	return delay
}

func parseRetryAfter(headers map[string]string, now time.Time) (time.Duration, bool) {
	raw := headerValue(headers, "retry-after")
	if raw == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		if seconds <= 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if retryAt, err := httpDate(raw); err == nil && retryAt.After(now) {
		return retryAt.Sub(now), true
	}
	return 0, false
}

func httpDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("transport: empty date")
	}
	if parsed, err := time.Parse(time.RFC1123, value); err == nil {
		return parsed.UTC(), nil
	}
	if parsed, err := time.Parse(time.RFC1123Z, value); err == nil {
		return parsed.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("transport: invalid http date")
}

func headerValue(headers map[string]string, key string) string {
	if len(headers) == 0 {
		return ""
	}
	for existing, value := range headers {
		if strings.EqualFold(strings.TrimSpace(existing), strings.TrimSpace(key)) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

var _ core.TransportAdapter = (*ThrottleAdapter)(nil)
