package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/squadcap/squadcap/pkg/ratelimit"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddlewareEnforcesCapacity(t *testing.T) {
	handler := Chain(okHandler(),
		RateLimitMiddleware(
			ratelimit.NewLocalWindow(),
			"test.echo",
			RateLimitConfig{Capacity: 2, Window: time.Minute},
			IPKeyExtractor,
		),
	)

	for i := range 2 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		req.RemoteAddr = "10.1.2.3:4567"
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitMiddlewareScopesByActor(t *testing.T) {
	handler := Chain(okHandler(),
		RateLimitMiddleware(
			ratelimit.NewLocalWindow(),
			"test.echo",
			RateLimitConfig{Capacity: 1, Window: time.Minute},
			IPKeyExtractor,
		),
	)

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.3:1"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		req.RemoteAddr = addr
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "addr %s", addr)
	}
}

func TestIPKeyExtractorHonorsProxyHeaders(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.9:31337"
	require.Equal(t, "192.0.2.9", IPKeyExtractor(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	require.Equal(t, "198.51.100.7", IPKeyExtractor(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.4, 198.51.100.7")
	require.Equal(t, "203.0.113.4", IPKeyExtractor(req))
}

func TestFormFieldKeyExtractorReadsJSONBody(t *testing.T) {
	t.Parallel()

	extract := FormFieldKeyExtractor("email")

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":" Login@Example.COM ","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")

	require.Equal(t, "login@example.com", extract(req))

	// The body must survive the peek so the handler can still decode it.
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "hunter2")
}

func TestFormFieldKeyExtractorReadsFormField(t *testing.T) {
	t.Parallel()

	extract := FormFieldKeyExtractor("email")

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader("email=user%40example.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	require.Equal(t, "user@example.com", extract(req))
}

func TestCompositeKeyExtractorSkipsEmptyParts(t *testing.T) {
	t.Parallel()

	extract := CompositeKeyExtractor(":",
		func(*http.Request) string { return "" },
		func(*http.Request) string { return "a" },
		func(*http.Request) string { return "b" },
	)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, "a:b", extract(req))
}
