package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"runtrack/internal/policy"
)

type contextKey string

const actorKey contextKey = "actor"

// actorFromContext returns the authenticated actor, if any.
func actorFromContext(ctx context.Context) (policy.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(policy.Actor)
	return actor, ok
}

// authenticate extracts and verifies the bearer token, storing the actor in
// the request context. Requests without a valid token are rejected.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeErrorMessage(w, http.StatusUnauthorized, "authorization required")
			return
		}
		actor, err := parseToken(s.jwtSecret, strings.TrimPrefix(header, "Bearer "), s.clock.Now)
		if err != nil {
			writeErrorMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
	})
}

// requirePolicy rejects requests whose actor fails the (resource, action)
// policy check.
func (s *Server) requirePolicy(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := actorFromContext(r.Context())
			if !ok || !policy.Allow(actor, resource, action) {
				writeErrorMessage(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireSelfOrPolicy admits the owner identified by the {id} route
// parameter; everyone else falls back to the role policy.
func (s *Server) requireSelfOrPolicy(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := actorFromContext(r.Context())
			ownerID, _ := idParam(r)
			if !ok || !policy.AllowSelf(actor, ownerID, resource, action) {
				writeErrorMessage(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// localeFromRequest picks the locale for operator feedback: explicit query
// parameter first, then the first Accept-Language tag.
func localeFromRequest(r *http.Request) string {
	if locale := r.URL.Query().Get("locale"); locale != "" {
		return locale
	}
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	tag := strings.Split(header, ",")[0]
	tag = strings.SplitN(tag, ";", 2)[0]
	return strings.TrimSpace(tag)
}
