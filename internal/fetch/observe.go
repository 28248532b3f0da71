package fetch

import (
	"context"
	"time"
)

// Observer receives the outcome of every fetch.
type Observer interface {
	ObserveFetch(source string, err error, elapsed time.Duration)
}

type observed struct {
	inner Fetcher
	obs   Observer
}

// Observe wraps inner so that obs sees each call. A nil obs returns inner.
func Observe(inner Fetcher, obs Observer) Fetcher {
	if obs == nil {
		return inner
	}
	return observed{inner: inner, obs: obs}
}

func (o observed) Fetch(ctx context.Context, source string) (string, error) {
	start := time.Now()
	text, err := o.inner.Fetch(ctx, source)
	o.obs.ObserveFetch(source, err, time.Since(start))
	return text, err
}
