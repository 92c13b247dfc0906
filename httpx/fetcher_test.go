package httpx_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docdex/docdex/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	t.Parallel()

	t.Run("returns body, status, and content type", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, "<p>hello</p>")
		}))
		t.Cleanup(srv.Close)

		resp, err := httpx.NewClient().Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "<p>hello</p>", resp.Body)
		assert.True(t, resp.IsHTML())
	})

	t.Run("HTTP errors are responses, not errors", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		t.Cleanup(srv.Close)

		resp, err := httpx.NewClient().Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		t.Parallel()

		var ua string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua = r.Header.Get("User-Agent")
		}))
		t.Cleanup(srv.Close)

		_, err := httpx.NewClient(httpx.WithUserAgent("custom/2.0")).Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "custom/2.0", ua)
	})
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns the body of a 2xx response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "content")
		}))
		t.Cleanup(srv.Close)

		body, err := httpx.NewClient().Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "content", body)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(srv.Close)

		_, err := httpx.NewClient().Fetch(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
	})
}

func TestResponse_IsHTML(t *testing.T) {
	t.Parallel()

	html := &httpx.Response{ContentType: "text/html; charset=utf-8"}
	assert.True(t, html.IsHTML())

	xhtml := &httpx.Response{ContentType: "application/xhtml+xml"}
	assert.True(t, xhtml.IsHTML())

	js := &httpx.Response{ContentType: "application/json"}
	assert.False(t, js.IsHTML())
}
