package weather

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRateLimited marks a ProviderError caused by the provider throttling us.
	ErrRateLimited = errors.New("provider rate limit exceeded")
	// ErrDecode is wrapped by every malformed payload error.
	ErrDecode = errors.New("malformed provider payload")
	// ErrEmptyInput is returned when summarizing zero readings.
	ErrEmptyInput = errors.New("no readings to summarize")
	// ErrNotFound is returned by stores when no reading matches a lookup.
	ErrNotFound = errors.New("no weather data for location")
)

// ProviderError reports a failed call to the upstream provider. StatusCode is
// zero when the request never got a response.
type ProviderError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return fmt.Sprintf("%s: %v, try again later", e.Op, ErrRateLimited)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: provider responded with status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: error connecting to provider: %v", e.Op, e.Err)
	}
}

// Unwrap exposes the cause and, for HTTP 429, ErrRateLimited.
func (e *ProviderError) Unwrap() []error {
	var errs []error
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.StatusCode == http.StatusTooManyRequests {
		errs = append(errs, ErrRateLimited)
	}
	return errs
}

// IsRateLimited reports whether err signals the caller should back off.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
