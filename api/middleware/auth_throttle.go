package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MuzPas1/fleety-mobile/api/responses"
	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
	pkgredis "github.com/MuzPas1/fleety-mobile/pkg/redis"
)

// ThrottlePolicy caps attempts against one auth surface inside a fixed
// window. A zero window or both limits at zero disables the policy.
type ThrottlePolicy struct {
	surface  string
	window   time.Duration
	perIP    int
	perEmail int
}

// NewThrottlePolicy builds a policy for the named surface.
func NewThrottlePolicy(surface string, window time.Duration, perIP, perEmail int) ThrottlePolicy {
	name := strings.ToLower(strings.TrimSpace(surface))
	if name == "" {
		name = "auth"
	}
	return ThrottlePolicy{
		surface:  name,
		window:   window,
		perIP:    perIP,
		perEmail: perEmail,
	}
}

func (p ThrottlePolicy) enabled() bool {
	return p.window > 0 && (p.perIP > 0 || p.perEmail > 0)
}

func (p ThrottlePolicy) key(scope, subject string) string {
	return fmt.Sprintf("rl:%s:%s:%s", scope, p.surface, subject)
}

// AuthThrottle enforces per-IP and per-email counters on an auth endpoint.
// A counter failure rejects the request rather than letting it through.
func AuthThrottle(policy ThrottlePolicy, store pkgredis.RateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.perIP > 0 {
				if ip := clientIP(r); ip != "" {
					blocked, err := overLimit(ctx, store, policy.key("ip", ip), policy.window, policy.perIP)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if blocked {
						rejectThrottled(ctx, logg, w, policy, "ip")
						return
					}
				}
			}

			if policy.perEmail > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := emailFromBody(body); email != "" {
					blocked, err := overLimit(ctx, store, policy.key("email", hashSubject(email)), policy.window, policy.perEmail)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if blocked {
						rejectThrottled(ctx, logg, w, policy, "email")
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func overLimit(ctx context.Context, store pkgredis.RateLimitStore, key string, window time.Duration, limit int) (bool, error) {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, err
	}
	return count > int64(limit), nil
}

func rejectThrottled(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy ThrottlePolicy, scope string) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"surface":        policy.surface,
			"scope":          scope,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "auth throttle blocked request")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, part := range strings.Split(forwarded, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func emailFromBody(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

// hashSubject keeps raw emails out of redis keys.
func hashSubject(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
