package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestFetcher(retries int) *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		UserAgent:   "test-agent",
		Timeout:     5 * time.Second,
		MaxRetries:  retries,
		Rate:        rate.Inf,
		BackoffBase: time.Millisecond,
	})
}

func TestHTTPFetcher_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte("Item,Sales\nWidget,5\n")) //nolint:errcheck
	}))
	defer srv.Close()

	body, err := newTestFetcher(3).Download(context.Background(), srv.URL+"/sales.csv")
	require.NoError(t, err)
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "Item,Sales\nWidget,5\n", string(data))
}

func TestHTTPFetcher_DownloadToFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("file content here")) //nolint:errcheck
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.csv")
	n, err := newTestFetcher(3).DownloadToFile(context.Background(), srv.URL+"/file", path)
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file content here", string(data))
}

func TestHTTPFetcher_RetryThenSucceed(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"too many requests", http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if attempts.Add(1) < 3 {
					w.WriteHeader(tt.status)
					return
				}
				w.Write([]byte("success")) //nolint:errcheck
			}))
			defer srv.Close()

			body, err := newTestFetcher(3).Download(context.Background(), srv.URL)
			require.NoError(t, err)
			defer body.Close() //nolint:errcheck

			data, err := io.ReadAll(body)
			require.NoError(t, err)
			assert.Equal(t, "success", string(data))
			assert.Equal(t, int32(3), attempts.Load())
		})
	}
}

func TestHTTPFetcher_RetryExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestFetcher(2).Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all retries exhausted")
}

func TestHTTPFetcher_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher(3).Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestHTTPFetcher_RateLimited(t *testing.T) {
	var mu sync.Mutex
	var times []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		mu.Unlock()
		w.Write([]byte("ok")) //nolint:errcheck
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Rate: 4, MaxRetries: 1})
	for range 3 {
		body, err := f.Download(context.Background(), srv.URL)
		require.NoError(t, err)
		body.Close() //nolint:errcheck
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, times, 3)
	assert.GreaterOrEqual(t, times[2].Sub(times[0]), 400*time.Millisecond)
}

func TestHTTPFetcher_Defaults(t *testing.T) {
	f := NewHTTPFetcher(HTTPOptions{})
	assert.Equal(t, 30*time.Second, f.opts.Timeout)
	assert.Equal(t, 3, f.opts.MaxRetries)
	assert.Equal(t, rate.Limit(5), f.opts.Rate)
	assert.Equal(t, "sales-insights/1.0", f.opts.UserAgent)
}
