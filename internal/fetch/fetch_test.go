package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls   atomic.Int64
	text    string
	err     error
	release chan struct{} // when non-nil, Fetch blocks until closed
}

func (c *countingFetcher) Fetch(ctx context.Context, _ string) (string, error) {
	c.calls.Add(1)
	if c.release != nil {
		select {
		case <-c.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return c.text, c.err
}

func TestHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/scores.csv":
			assert.Equal(t, "statboard", r.Header.Get("User-Agent"))
			w.Write([]byte("\xEF\xBB\xBFName,MSR\nA,25\n"))
		case "/big.csv":
			w.Write(make([]byte, 64))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	h := NewHTTP(time.Second, 32)
	ctx := context.Background()

	text, err := h.Fetch(ctx, srv.URL+"/scores.csv")
	require.NoError(t, err)
	assert.Equal(t, "Name,MSR\nA,25\n", text, "BOM stripped")

	_, err = h.Fetch(ctx, srv.URL+"/missing.csv")
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.True(t, fe.NotFound())
	assert.Contains(t, err.Error(), "status 404")

	_, err = h.Fetch(ctx, srv.URL+"/big.csv")
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestHTTP_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTP(time.Second, 0).Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDir(t *testing.T) {
	d := &Dir{FS: fstest.MapFS{
		"boards/a.csv": {Data: []byte("Name\nA\n")},
		"big.csv":      {Data: make([]byte, 16)},
	}, MaxBytes: 8}
	ctx := context.Background()

	text, err := d.Fetch(ctx, "/boards/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "Name\nA\n", text)

	_, err = d.Fetch(ctx, "nope.csv")
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.True(t, fe.NotFound())

	_, err = d.Fetch(ctx, "../etc/passwd")
	require.ErrorAs(t, err, &fe)
	assert.False(t, fe.NotFound())

	_, err = d.Fetch(ctx, "big.csv")
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestMux(t *testing.T) {
	remote := &countingFetcher{text: "remote"}
	local := &countingFetcher{text: "local"}
	m := Mux{Remote: remote, Local: local}
	ctx := context.Background()

	got, err := m.Fetch(ctx, "HTTPS://example.com/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "remote", got)

	got, err = m.Fetch(ctx, "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "local", got)

	_, err = Mux{Local: local}.Fetch(ctx, "http://example.com")
	assert.Error(t, err)
}

func TestCached(t *testing.T) {
	inner := &countingFetcher{text: "data"}
	c := NewCached(inner, time.Minute)
	now := time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for range 3 {
		got, err := c.Fetch(ctx, "a.csv")
		require.NoError(t, err)
		assert.Equal(t, "data", got)
	}
	assert.Equal(t, int64(1), inner.calls.Load())
	assert.Equal(t, 1, c.Len())

	now = now.Add(time.Minute)
	_, err := c.Fetch(ctx, "a.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(2), inner.calls.Load(), "stale entry refetched")

	c.Invalidate("a.csv")
	assert.Equal(t, 0, c.Len())
	_, err = c.Fetch(ctx, "a.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(3), inner.calls.Load())
}

func TestCached_FailuresNotCached(t *testing.T) {
	inner := &countingFetcher{err: errors.New("boom")}
	c := NewCached(inner, time.Minute)

	for range 2 {
		_, err := c.Fetch(context.Background(), "a.csv")
		assert.Error(t, err)
	}
	assert.Equal(t, int64(2), inner.calls.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCached_CollapsesConcurrentFetches(t *testing.T) {
	inner := &countingFetcher{text: "data", release: make(chan struct{})}
	c := NewCached(inner, 0)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Fetch(context.Background(), "a.csv")
			assert.NoError(t, err)
			assert.Equal(t, "data", got)
		}()
	}

	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	assert.Equal(t, int64(1), inner.calls.Load())
	assert.Equal(t, 0, c.Len(), "zero ttl keeps nothing")
}

func TestCached_CallerCancelDoesNotFailOthers(t *testing.T) {
	inner := &countingFetcher{text: "data", release: make(chan struct{})}
	c := NewCached(inner, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, "a.csv")
		first <- err
	}()
	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)

	second := make(chan string, 1)
	go func() {
		got, err := c.Fetch(context.Background(), "a.csv")
		assert.NoError(t, err)
		second <- got
	}()

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(inner.release)
	assert.Equal(t, "data", <-second)
	assert.Equal(t, int64(1), inner.calls.Load())
	assert.Equal(t, 1, c.Len(), "shared result cached after the first caller left")
}

func TestCached_SharedTimeout(t *testing.T) {
	inner := &countingFetcher{release: make(chan struct{})}
	c := NewCached(inner, time.Minute)
	c.timeout = 10 * time.Millisecond

	_, err := c.Fetch(context.Background(), "a.csv")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, c.Len())
}

func TestLimiter(t *testing.T) {
	inner := &countingFetcher{text: "data", release: make(chan struct{})}
	l := NewLimiter(inner, 1, 20*time.Millisecond)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := l.Fetch(ctx, "a.csv")
		done <- err
	}()
	require.Eventually(t, func() bool { return l.Active() == 1 }, time.Second, time.Millisecond)

	_, err := l.Fetch(ctx, "b.csv")
	assert.ErrorIs(t, err, ErrTooManyFetches)

	drainCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.WaitForDrain(drainCtx), context.DeadlineExceeded)

	close(inner.release)
	require.NoError(t, <-done)
	require.NoError(t, l.WaitForDrain(ctx))
	assert.Equal(t, 0, l.Active())
}

func TestLimiter_Defaults(t *testing.T) {
	l := NewLimiter(&countingFetcher{}, 0, 0)
	assert.Equal(t, DefaultMaxConcurrent, cap(l.semaphore))
	assert.Equal(t, DefaultMaxWait, l.maxWait)
}

type recordingObserver struct {
	sources []string
	errs    []error
}

func (r *recordingObserver) ObserveFetch(source string, err error, _ time.Duration) {
	r.sources = append(r.sources, source)
	r.errs = append(r.errs, err)
}

func TestObserve(t *testing.T) {
	inner := &countingFetcher{text: "data"}
	assert.Same(t, Fetcher(inner), Observe(inner, nil))

	obs := &recordingObserver{}
	f := Observe(inner, obs)
	_, err := f.Fetch(context.Background(), "a.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.csv"}, obs.sources)
	assert.Equal(t, []error{nil}, obs.errs)
}
