package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Policy controls how [Retry] repeats a failed request.
type Policy struct {
	Attempts int           // total tries, at least one
	Delay    time.Duration // first backoff, doubled after each retry
	// MaxDelay caps the backoff and any server-requested wait. Zero means no cap.
	MaxDelay time.Duration
	// OnRetry is called before each wait with the 1-based attempt that failed.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// RetryableError marks a failure that [Retry] should attempt again.
// After, when positive, replaces the backoff delay for the next wait.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// StatusError is a non-2xx HTTP response.
type StatusError struct{ Code int }

func (e *StatusError) Error() string { return fmt.Sprintf("status %d", e.Code) }

// Retryable reports whether a response status is worth retrying:
// 429 and every 5xx.
func Retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// CheckResponse returns nil for 2xx responses and a [*StatusError]
// otherwise. Retryable statuses come wrapped in a [RetryableError]; for
// 429 the Retry-After header sets its wait.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	err := &StatusError{Code: resp.StatusCode}
	if !Retryable(resp.StatusCode) {
		return err
	}
	re := &RetryableError{Err: err}
	if resp.StatusCode == http.StatusTooManyRequests {
		re.After = RetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	return re
}

// RetryAfter parses a Retry-After value given as delay seconds or as an
// HTTP date. Missing, malformed or past values yield zero.
func RetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if s, err := strconv.Atoi(v); err == nil {
		return time.Duration(max(s, 0)) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil && t.After(now) {
		return t.Sub(now)
	}
	return 0
}

// Retry runs fn until it succeeds, returns an error that is not a
// [RetryableError], or p.Attempts is used up. It returns the last error,
// or ctx.Err() if ctx ends while waiting.
func Retry(ctx context.Context, p Policy, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := delay
		if re.After > 0 {
			wait = re.After
		}
		if p.MaxDelay > 0 {
			wait = min(wait, p.MaxDelay)
		}
		if p.OnRetry != nil {
			p.OnRetry(i+1, wait, err)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return lastErr
}
