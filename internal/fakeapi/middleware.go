package fakeapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/weddingwise/weddingwise-client/internal/auth"
	"github.com/weddingwise/weddingwise-client/internal/http/response"
)

type contextKey string

const contextKeyUserID contextKey = "user_id"

// requireAuth validates the bearer token and attaches the user ID.
// An authentic but expired token gets the renewal signal; anything else is
// a plain 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "No token, authorization denied", s.logger)
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		claims, err := s.tokens.VerifyAccessToken(tokenString)
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			response.TokenExpired(w, s.logger)
			return
		case err != nil:
			response.Unauthorized(w, "Token is not valid", s.logger)
			return
		}

		if _, ok := s.lookupUser(claims.UserID); !ok {
			response.Unauthorized(w, "Token is not valid", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getUserID returns the authenticated user ID, or "" outside requireAuth.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// rateLimit rejects clients that exceed their per-IP budget with 429.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := clientIP(r)
		if ok, retryAfter := s.limiter.Check(key); !ok {
			s.logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path, "retry_after", retryAfter)
			response.TooManyRequests(w, retryAfter, s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the request's remote host. middleware.RealIP has already
// folded X-Forwarded-For and X-Real-IP into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
