package fetch

import (
	"context"
	"net/http"
	"time"
)

// HTTP fetches sources over HTTP.
type HTTP struct {
	Client    *http.Client
	MaxBytes  int64 // 0 means no limit
	UserAgent string
}

// NewHTTP creates an HTTP fetcher with a client timeout and a body limit.
func NewHTTP(timeout time.Duration, maxBytes int64) *HTTP {
	return &HTTP{
		Client:    &http.Client{Timeout: timeout},
		MaxBytes:  maxBytes,
		UserAgent: "statboard",
	}
}

// Fetch implements Fetcher. Non-2xx responses fail with the status code.
func (h *HTTP) Fetch(ctx context.Context, source string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", &Error{Source: source, Err: err}
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{Source: source, Status: resp.StatusCode}
	}

	return readLimited(source, resp.Body, h.MaxBytes)
}
