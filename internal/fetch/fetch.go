// Package fetch resolves board sources to CSV text.
//
// Sources are either http(s) URLs or paths below a data directory. Every
// failure comes back as an *Error naming the source; nothing is retried.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/statboard/internal/core"
)

// Fetcher resolves a source to text. It has the same method set as
// core.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (string, error)
}

// ErrBodyTooLarge is wrapped by Error when a source exceeds its size limit.
var ErrBodyTooLarge = errors.New("body too large")

// Error describes a failed fetch. Status is the HTTP status for
// unsuccessful responses, 404 for missing files, and 0 otherwise.
type Error struct {
	Source string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports whether the source does not exist.
func (e *Error) NotFound() bool {
	return e.Status == 404
}

// readLimited reads at most max bytes (0 for no limit) and returns cleaned text.
func readLimited(source string, r io.Reader, max int64) (string, error) {
	if max > 0 {
		r = io.LimitReader(r, max+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &Error{Source: source, Err: err}
	}
	if max > 0 && int64(len(data)) > max {
		return "", &Error{Source: source, Err: fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, max)}
	}
	return core.CleanText(data), nil
}

// Mux routes http and https URLs to Remote and everything else to Local.
type Mux struct {
	Remote Fetcher
	Local  Fetcher
}

// Fetch implements Fetcher.
func (m Mux) Fetch(ctx context.Context, source string) (string, error) {
	target := m.Local
	if IsURL(source) {
		target = m.Remote
	}
	if target == nil {
		return "", &Error{Source: source, Err: errors.New("no fetcher configured for source")}
	}
	return target.Fetch(ctx, source)
}

// IsURL reports whether source is an http or https URL.
func IsURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
