package service

import (
	"errors"
	"fmt"
)

// UpstreamResolverError means the completion endpoint could not be reached or
// answered with a non-success status (timeouts included). It is always
// recovered inside the assistant service; the end user never sees it.
type UpstreamResolverError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamResolverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream resolver failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream resolver failed with status %d", e.StatusCode)
}

func (e *UpstreamResolverError) Unwrap() error { return e.Err }

// ErrInvalidResolverPayload means the model's response body could not be
// coerced to a JSON object by any extraction strategy. Recovered locally the
// same way as an upstream failure.
var ErrInvalidResolverPayload = errors.New("invalid resolver payload")
