package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrLimitExceeded is returned once transient overload retries are exhausted.
var ErrLimitExceeded = errors.New("rate limit exceeded, please try again later")

// APIError is a non-2xx answer from the model provider.
type APIError struct {
	StatusCode int
	Status     string // provider status, e.g. RESOURCE_EXHAUSTED
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("llm api error (status %d %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("llm api error (status %d): %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether err is the provider's transient-overload signal.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
}
