package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stallingServer sends the headers and the first bytes of a longer body,
// then stops sending until the client goes away.
func stallingServer(t *testing.T) *httptest.Server {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		_, _ = w.Write([]byte("0123456789"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	return srv
}

func TestNewClientBoundsStalledBody(t *testing.T) {
	srv := stallingServer(t)
	opts := Options{Timeout: 200 * time.Millisecond}
	client := NewClient(opts)

	req, err := NewRequest(context.Background(), http.MethodGet, mustURL(t, srv.URL), nil, opts, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	type readResult struct {
		data []byte
		err  error
	}
	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(resp.Body)
		done <- readResult{data, err}
	}()

	select {
	case res := <-done:
		assert.ErrorIs(t, res.err, ErrIdleTimeout)
		assert.Equal(t, "0123456789", string(res.data))
	case <-time.After(5 * time.Second):
		t.Fatal("body read still blocked after the read timeout")
	}
}

func TestIdleBodyOnlyCountsBlockedReads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	opts := Options{Timeout: 100 * time.Millisecond}
	req, err := NewRequest(context.Background(), http.MethodGet, mustURL(t, srv.URL), nil, opts, nil)
	require.NoError(t, err)
	resp, err := NewClient(opts).Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	// a slow consumer between reads is not a stalled peer
	time.Sleep(300 * time.Millisecond)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}
