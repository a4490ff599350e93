package resilience

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/venturelens/upstream/provider"
)

// FailureClass buckets a provider failure for retry and fallback decisions.
type FailureClass int

const (
	// ClassRateLimit means the provider signaled throttling (429).
	ClassRateLimit FailureClass = iota
	// ClassServerError means a provider-side 5xx/408/504-class failure.
	ClassServerError
	// ClassTransient means a network-level failure such as a timeout or
	// connection reset, detected by message pattern.
	ClassTransient
	// ClassFatalAuth means the provider rejected credentials (401/403).
	// Retrying with the same bad credentials cannot succeed.
	ClassFatalAuth
	// ClassFatal is everything else. Not retried.
	ClassFatal
)

// String returns the string representation of the class.
func (c FailureClass) String() string {
	switch c {
	case ClassRateLimit:
		return "rate-limit"
	case ClassServerError:
		return "server-error"
	case ClassTransient:
		return "transient"
	case ClassFatalAuth:
		return "fatal-auth"
	default:
		return "fatal"
	}
}

// Retryable reports whether failures of this class may be retried.
func (c FailureClass) Retryable() bool {
	switch c {
	case ClassRateLimit, ClassServerError, ClassTransient:
		return true
	default:
		return false
	}
}

// DefaultRateLimitWait is slept before retrying a rate-limit failure that
// carried no explicit retry-after hint.
const DefaultRateLimitWait = time.Second

var transientPattern = regexp.MustCompile(
	`(?i)(timed? ?out|deadline exceeded|connection (reset|refused|closed)|broken pipe|no such host|network is unreachable|unexpected EOF|temporarily unavailable)`)

// Classify buckets err into a FailureClass. It is a pure function over
// the normalized provider error shape (status code, message) plus the
// context and timeout sentinels; classification of a given error never
// changes between calls.
func Classify(err error) FailureClass {
	if err == nil {
		return ClassFatal
	}

	if errors.Is(err, ErrAttemptTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient
	}

	var api *provider.APIError
	if errors.As(err, &api) {
		switch {
		case api.StatusCode == http.StatusTooManyRequests:
			return ClassRateLimit
		case api.StatusCode == http.StatusUnauthorized, api.StatusCode == http.StatusForbidden:
			return ClassFatalAuth
		case api.StatusCode == http.StatusRequestTimeout, api.StatusCode == http.StatusGatewayTimeout:
			return ClassServerError
		case api.StatusCode >= 500 && api.StatusCode <= 599:
			return ClassServerError
		}
		if transientPattern.MatchString(api.Message) {
			return ClassTransient
		}
		return ClassFatal
	}

	if transientPattern.MatchString(err.Error()) {
		return ClassTransient
	}
	return ClassFatal
}

// RetryAfterHint returns the provider-supplied wait hint, if any.
func RetryAfterHint(err error) (time.Duration, bool) {
	var api *provider.APIError
	if errors.As(err, &api) && api.RetryAfter > 0 {
		return api.RetryAfter, true
	}
	return 0, false
}

// triggersFallback reports whether err should bypass remaining retries and
// hand off to the fallback path: provider internal errors (5xx).
func triggersFallback(err error) bool {
	var api *provider.APIError
	return errors.As(err, &api) && api.StatusCode >= 500 && api.StatusCode <= 599
}
