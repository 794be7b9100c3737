package retry

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// transientMarkers are substrings that identify an upstream failure as
// likely to succeed on retry: rate limiting, quota exhaustion, or a
// temporarily overloaded service.
var transientMarkers = []string{
	"503",
	"overloaded",
	"unavailable",
	"429",
	"resource exhausted",
	"quota",
	"rate limit",
}

// IsTransientUpstream reports whether the error message carries one of the
// known transient markers. It is the default classifier for Do.
func IsTransientUpstream(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

// TransientError marks an upstream failure as retryable and suggests how
// long the caller should wait before trying again.
type TransientError struct {
	Err           error
	SuggestedWait time.Duration
}

func (e *TransientError) Error() string {
	if e.SuggestedWait > 0 {
		return fmt.Sprintf("%v (retry after %s)", e.Err, e.SuggestedWait)
	}
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }
