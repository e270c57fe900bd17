package providers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONRetries(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		failures   int32
		wantCalls  int32
		wantErr    error
	}{
		{name: "single attempt by default", maxRetries: 0, failures: 1, wantCalls: 1, wantErr: errServerError},
		{name: "retry recovers", maxRetries: 2, failures: 2, wantCalls: 3},
		{name: "retries exhausted", maxRetries: 1, failures: 5, wantCalls: 2, wantErr: errServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) <= tt.failures {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				_, _ = w.Write([]byte(`{"ok":true}`))
			}))
			defer srv.Close()

			cfg := testHTTPConfig(srv.Client())
			cfg.Backoff.MaxRetries = tt.maxRetries

			var out struct {
				OK bool `json:"ok"`
			}
			err := getJSON(context.Background(), cfg, newCircuitBreaker(tt.name), srv.URL, &out)

			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, out.OK)
		})
	}
}

func TestGetJSONInvalidConfig(t *testing.T) {
	err := getJSON(context.Background(), HTTPClientConfig{}, newCircuitBreaker("none"), "http://127.0.0.1", nil)
	assert.ErrorIs(t, err, errNoHTTPClient)

	cfg := DefaultHTTPConfig(http.DefaultClient)
	cfg.Backoff.InitialInterval = 0
	err = getJSON(context.Background(), cfg, newCircuitBreaker("bad"), "http://127.0.0.1", nil)
	assert.ErrorIs(t, err, errInvalidConfig)
}

func TestGetJSONCircuitOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testHTTPConfig(srv.Client())
	cb := newCircuitBreaker("trip")

	var err error
	for i := 0; i < 7; i++ {
		err = getJSON(context.Background(), cfg, cb, srv.URL, &struct{}{})
	}
	assert.ErrorIs(t, err, errCircuitOpen)
}

func TestGetJSONHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testHTTPConfig(srv.Client())
	cfg.Backoff.MaxRetries = 3
	cfg.Backoff.InitialInterval = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := getJSON(ctx, cfg, newCircuitBreaker("ctx"), srv.URL, &struct{}{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type trackingBody struct {
	io.Reader
	closed bool
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"ok", http.StatusOK, nil},
		{"no content", http.StatusNoContent, nil},
		{"rate limited", http.StatusTooManyRequests, errRateLimited},
		{"server error", http.StatusBadGateway, errServerError},
		{"not found", http.StatusNotFound, errUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &trackingBody{Reader: strings.NewReader("payload")}
			err := checkStatus(&http.Response{StatusCode: tt.status, Body: body})

			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.False(t, body.closed, "a successful body stays open for the caller")
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, body.closed)
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	b := BackoffConfig{InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second}

	assert.Equal(t, 100*time.Millisecond, backoffDelay(b, 0))
	assert.Equal(t, 400*time.Millisecond, backoffDelay(b, 2))
	assert.Equal(t, time.Second, backoffDelay(b, 5))

	b.MaxInterval = 0
	assert.Equal(t, 3200*time.Millisecond, backoffDelay(b, 5))
}
