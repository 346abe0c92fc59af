package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wellnesshub/platform/pkg/common/logger"
	"github.com/wellnesshub/platform/pkg/common/models"
	"github.com/wellnesshub/platform/pkg/gateway/auth"
)

type contextKey string

const claimsContextKey contextKey = "claims"

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		// Ensure a request ID exists
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		// Propagate request ID downstream
		r.Header.Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)

		logger.Log.WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"remote_addr": r.RemoteAddr,
			"request_id":  reqID,
			"duration":    time.Since(start).Milliseconds(),
		}).Info("HTTP request")
	})
}

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Log.WithField("error", err).Error("Panic recovered")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// BodyLimit caps request body size; oversized writes fail on read with a
// request-entity error instead of buffering unbounded input.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit caps a route group with one shared token bucket. It guards the
// unauthenticated register and login endpoints against credential stuffing;
// authenticated routes are not limited here.
func RateLimit(rps int, burst int) func(http.Handler) http.Handler {
	bucket := &struct {
		tokens int
		last   time.Time
		mu     sync.Mutex
	}{tokens: burst, last: time.Now()}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bucket.mu.Lock()
			now := time.Now()
			elapsed := now.Sub(bucket.last).Seconds()
			if add := int(elapsed * float64(rps)); add > 0 {
				bucket.tokens += add
				if bucket.tokens > burst {
					bucket.tokens = burst
				}
				bucket.last = now
			}
			if bucket.tokens <= 0 {
				bucket.mu.Unlock()
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			bucket.tokens--
			bucket.mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}

// TokenValidator is implemented by the JWT manager and by any OIDC-backed
// validator a deployment plugs in.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Extract Bearer token
			if len(token) > 7 && token[:7] == "Bearer " {
				token = token[7:]
			}

			claims, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}

// RequesterFromContext folds the claims down to the requester identity the
// wellness and insights services consume. Unauthenticated contexts produce
// an empty requester, which parses to the most restrictive role downstream.
func RequesterFromContext(ctx context.Context) models.Requester {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return models.Requester{}
	}
	return models.Requester{ProfileID: claims.ProfileID, Role: claims.Role}
}
