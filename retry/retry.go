// Package retry implements the retry policy applied to source-control host
// and language-model calls. Only errors marked transient are retried; every
// other error is returned after the first attempt.
package retry

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrTransient marks errors that are worth retrying.
var ErrTransient = errors.New("transient error")

// Policy describes an exponential backoff schedule.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first one.
	MaxAttempts int `yaml:"max_attempts"`
	// InitialInterval is the wait before the second attempt.
	InitialInterval time.Duration `yaml:"initial_interval"`
	// MaxInterval caps a single wait.
	MaxInterval time.Duration `yaml:"max_interval"`
	// Multiplier grows the interval after each attempt.
	Multiplier float64 `yaml:"multiplier"`
	// Jitter randomizes each interval by ±Jitter (0..1).
	Jitter float64 `yaml:"jitter"`
}

// DefaultPolicy returns three attempts with 500ms doubling up to 5s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2,
		Jitter:          0.2,
	}
}

// NoRetry returns a single-attempt policy.
func NoRetry() Policy {
	return Policy{MaxAttempts: 1}
}

// Delays returns the wait before each retry when no jitter is applied. It
// is the schedule Do follows and exists so callers can inspect a policy.
func (p Policy) Delays() []time.Duration {
	p = p.normalized()

	out := make([]time.Duration, 0, p.MaxAttempts-1)
	d := p.InitialInterval

	for i := 1; i < p.MaxAttempts; i++ {
		out = append(out, min(d, p.MaxInterval))
		d = time.Duration(float64(d) * p.Multiplier)
	}

	return out
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	if p.InitialInterval <= 0 {
		p.InitialInterval = 500 * time.Millisecond
	}

	if p.MaxInterval < p.InitialInterval {
		p.MaxInterval = p.InitialInterval
	}

	if p.Multiplier < 1 {
		p.Multiplier = 1
	}

	if p.Jitter < 0 || p.Jitter > 1 {
		p.Jitter = 0
	}

	return p
}

func (p Policy) backOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = p.Jitter
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1)), ctx)
}

// Do runs op until it succeeds, returns a non-transient error, the attempts
// are exhausted or ctx is done. onRetry, when non-nil, is called before each
// wait with the failed attempt number and its error.
func Do(ctx context.Context, p Policy, op func() error, onRetry func(attempt int, err error, wait time.Duration)) error {
	p = p.normalized()
	attempt := 0

	operation := func() error {
		attempt++

		err := op()
		if err == nil {
			return nil
		}

		if !IsTransient(err) {
			return backoff.Permanent(err)
		}

		return err
	}

	var notify backoff.Notify
	if onRetry != nil {
		notify = func(err error, wait time.Duration) { onRetry(attempt, err, wait) }
	}

	return backoff.RetryNotify(operation, p.backOff(ctx), notify)
}

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() []error { return []error{ErrTransient, e.err} }

// Transient marks err as retryable. A nil err stays nil.
func Transient(err error) error {
	if err == nil || errors.Is(err, ErrTransient) {
		return err
	}

	return &transientError{err: err}
}

// IsTransient reports whether err was marked transient or is a network
// timeout. Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, ErrTransient) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsTransientStatus reports whether an HTTP status code should be retried.
func IsTransientStatus(code int) bool {
	return code == 429 || code >= 500
}
