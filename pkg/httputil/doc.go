// Package httputil provides shared HTTP plumbing for external API clients.
//
// It contains the retry policy used by every outbound client and the
// default http.Client construction. Transient failures (network errors,
// 5xx responses) are wrapped in [RetryableError] by callers; anything else
// fails immediately. This keeps retry decisions at the point where the
// failure is classified, not inside the retry loop.
package httputil

import (
	"net/http"
	"time"
)

// NewHTTPClient creates an http.Client with sane timeouts for metadata
// API calls. Open Library can be slow on cold ISBNs, so the overall
// timeout is generous while individual dials stay bounded by the default
// transport.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 20 * time.Second,
	}
}
