package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/squadcap/squadcap/pkg/ratelimit"
	"github.com/squadcap/squadcap/pkg/slogx"
)

// RateLimitConfig defines the capacity allowed within a time window.
type RateLimitConfig struct {
	Capacity int
	Window   time.Duration
}

// Common rate limit profiles. Overridable via environment variables, e.g.
// RATELIMIT_STRICT_CAPACITY / RATELIMIT_STRICT_WINDOW_SEC.
var (
	// StrictLimit for unauthenticated or credential-bearing endpoints
	// (login, invitation redemption).
	StrictLimit = RateLimitConfig{Capacity: 5, Window: time.Minute}

	// ModerateLimit for authenticated mutating operations.
	ModerateLimit = RateLimitConfig{Capacity: 20, Window: time.Minute}

	// LenientLimit for authenticated read operations.
	LenientLimit = RateLimitConfig{Capacity: 100, Window: time.Minute}

	// PublicLimit for health and documentation endpoints.
	PublicLimit = RateLimitConfig{Capacity: 1000, Window: time.Minute}
)

func init() {
	StrictLimit = ParseRateLimitFromEnv("STRICT", StrictLimit)
	ModerateLimit = ParseRateLimitFromEnv("MODERATE", ModerateLimit)
	LenientLimit = ParseRateLimitFromEnv("LENIENT", LenientLimit)
	PublicLimit = ParseRateLimitFromEnv("PUBLIC", PublicLimit)
}

// ParseRateLimitFromEnv reads overrides of the form
// RATELIMIT_{prefix}_CAPACITY and RATELIMIT_{prefix}_WINDOW_SEC.
func ParseRateLimitFromEnv(prefix string, defaultConfig RateLimitConfig) RateLimitConfig {
	config := defaultConfig

	if val := os.Getenv("RATELIMIT_" + prefix + "_CAPACITY"); val != "" {
		if capacity, err := strconv.Atoi(val); err == nil && capacity > 0 {
			config.Capacity = capacity
		}
	}
	if val := os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC"); val != "" {
		if windowSec, err := strconv.Atoi(val); err == nil && windowSec > 0 {
			config.Window = time.Duration(windowSec) * time.Second
		}
	}

	return config
}

// KeyExtractor derives the per-actor part of a rate-limit key from a request
// (IP address, account id, form field, ...).
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address, honoring X-Forwarded-For
// and X-Real-IP for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// UserKeyExtractor extracts the authenticated account id from the request
// context. Returns empty when the request is unauthenticated.
func UserKeyExtractor(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

// FormFieldKeyExtractor extracts a key from the submitted request: a JSON
// body field, a form field, or a URL parameter. Useful for keying login
// attempts by IP plus submitted email. The body is restored after peeking so
// the handler can still decode it.
func FormFieldKeyExtractor(fieldName string) KeyExtractor {
	return func(r *http.Request) string {
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxKeyPeekBytes))
			if err != nil {
				return ""
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			var fields map[string]any
			if err := json.Unmarshal(body, &fields); err != nil {
				return ""
			}
			if value, ok := fields[fieldName].(string); ok {
				return strings.ToLower(strings.TrimSpace(value))
			}
			return ""
		}

		if err := r.ParseForm(); err == nil {
			return r.FormValue(fieldName)
		}
		return ""
	}
}

// maxKeyPeekBytes bounds how much of a request body the key extractor will
// buffer.
const maxKeyPeekBytes = 1 << 20

// CompositeKeyExtractor joins multiple extractors' non-empty results.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// RateLimitMiddleware throttles requests through the given limiter. The full
// key is "{action}:{extracted actor key}", so budgets are scoped per action
// and per actor. A limiter error never blocks the request: the limiter stack
// already degrades distributed-to-local internally, and if even that fails
// the request is allowed and the failure logged.
func RateLimitMiddleware(
	limiter ratelimit.Limiter,
	action string,
	config RateLimitConfig,
	keyExtractor KeyExtractor,
) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			actorKey := keyExtractor(r)
			if actorKey == "" {
				log.Warn("rate limit: unable to extract key, allowing request", "action", action)
				next.ServeHTTP(w, r)
				return
			}
			key := action + ":" + actorKey

			decision, err := limiter.Check(ctx, key, config.Capacity, config.Window)
			if err != nil {
				log.Error("rate limit check failed, allowing request",
					"action", action,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Capacity))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				retryAfter := max(int(config.Window.Seconds())/max(config.Capacity, 1), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				log.Warn("rate limit exceeded",
					"action", action,
					"key", key,
					"endpoint", r.URL.Path,
				)

				WriteJSON(w, http.StatusTooManyRequests, ErrorResponse{
					Error:            "rate_limit_exceeded",
					ErrorDescription: "Too many requests. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
