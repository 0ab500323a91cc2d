package gitlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/abdidvp/repoprobe/internal/adapters/outbound/throttle"
	"github.com/abdidvp/repoprobe/internal/domain"
	gl "gitlab.com/gitlab-org/api/client-go"
)

// errRateLimited marks a 429 or 503 answer.
var errRateLimited = errors.New("rate limited by server")

// statusCode extracts the HTTP status of a failed call, or 0 when the
// request never got an answer.
func statusCode(resp *gl.Response, err error) int {
	var apiErr *gl.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		return apiErr.Response.StatusCode
	}
	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}
	return 0
}

// mapError tags a client error with the sentinel matching its status.
func mapError(resp *gl.Response, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	code := statusCode(resp, err)
	switch {
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %w", errRateLimited, err)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	case code == 0:
		// no response: connection reset, timeout, DNS
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	default:
		return err
	}
}

// Classify tells the retry policy how to treat an error returned by mapError.
func Classify(err error) throttle.ErrorClass {
	switch {
	case errors.Is(err, errRateLimited):
		return throttle.RateLimited
	case errors.Is(err, domain.ErrTransient):
		return throttle.Transient
	default:
		return throttle.Permanent
	}
}
