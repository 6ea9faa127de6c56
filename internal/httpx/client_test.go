package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)

	_, err = NewClient("localhost")
	require.Error(t, err)

	c, err := NewClient("http://localhost:2818")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:2818", c.BaseURL())
}

func TestDoSetsRequestIDAndHeaders(t *testing.T) {
	var gotID, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(HeaderRequestID)
		gotCustom = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithHeaders(http.Header{"X-Custom": {"yes"}}))
	require.NoError(t, err)

	_, err = c.GetJSON(context.Background(), "/ping")
	require.NoError(t, err)
	assert.NotEmpty(t, gotID)
	assert.Equal(t, "yes", gotCustom)
}

func TestDoDoesNotRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"success":false,"error_msg":"busy"}`)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.PostJSON(context.Background(), "/transfer_units", map[string]any{"units": 1})
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "busy", httpErr.Message())
	assert.True(t, httpErr.Retryable())
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestDoRetriesWithPolicyAndReplaysBody(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithRetryPolicy(RetryPolicy{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}))
	require.NoError(t, err)

	data, err := c.PostJSON(context.Background(), "echo", map[string]string{"a": "<b>"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"<b>"}`, string(data))
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestDoHonoursCancelledContext(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.GetJSON(ctx, "/anything")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildURLPreservesEscapedSegments(t *testing.T) {
	c, err := NewClient("http://localhost:2818")
	require.NoError(t, err)

	got, err := c.buildURL("/get_user_account/a%2Fb/p%20w/key", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:2818/get_user_account/a%2Fb/p%20w/key", got)
}

func TestBackoffBounds(t *testing.T) {
	b := NewBackoff(10*time.Millisecond, 40*time.Millisecond, 0)
	assert.Equal(t, 10*time.Millisecond, b.ForAttempt(0))
	assert.Equal(t, 20*time.Millisecond, b.ForAttempt(1))
	assert.Equal(t, 40*time.Millisecond, b.ForAttempt(2))
	assert.Equal(t, 40*time.Millisecond, b.ForAttempt(10))
	assert.Equal(t, 40*time.Millisecond, b.ForAttempt(64))

	jittered := NewBackoff(100*time.Millisecond, time.Second, 0.5)
	for i := 0; i < 20; i++ {
		d := jittered.ForAttempt(0)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}
