package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"google.golang.org/api/googleapi"

	"github.com/capitolstream/hearings-cli/pkg/congress"
)

// IsTransient returns true if the error (or any error in its chain)
// indicates a condition that is safe to retry: throttling or 5xx
// responses from Congress.gov or the YouTube Data API, network timeouts,
// connection resets, DNS failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var congressErr *congress.APIError
	if errors.As(err, &congressErr) {
		return IsTransientHTTPStatus(congressErr.StatusCode)
	}

	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return IsTransientHTTPStatus(googleErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// String-based heuristics for wrapped errors from HTTP clients.
	msg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	}
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// IsTransientHTTPStatus returns true if the HTTP status code indicates a
// transient server-side issue that is safe to retry.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}
