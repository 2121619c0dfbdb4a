package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"site-functions/internal/common/errors"
	commonhttp "site-functions/internal/common/http"
	"site-functions/internal/common/metrics"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// requestID keeps an incoming X-Request-ID or assigns a new one, and makes
// it available through middleware.GetReqID.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(middleware.RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			})
		}()

		next.ServeHTTP(ww, r)
	})
}

// corsMiddleware answers preflight requests. With no configured origins any
// origin is allowed.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		allowed, ok := s.allowedOrigin(origin)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", allowed)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowedOrigin(origin string) (string, bool) {
	if len(s.cfg.AllowedOrigins) == 0 {
		return "*", true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return origin, true
		}
	}
	return "", false
}

// rateLimit counts every request against its path. Limiter failures let the
// request through.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path

		result, err := s.deps.Limiter.Allow(r.Context(), key)
		if err != nil {
			metrics.RateLimitErrors.Inc()
			s.logger.Warn("Rate limiter unavailable, allowing request", map[string]interface{}{
				"path":       key,
				"error":      err.Error(),
				"request_id": middleware.GetReqID(r.Context()),
			})
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			metrics.RateLimitRejections.WithLabelValues(key).Inc()
			s.logger.Warn("Rate limit exceeded", map[string]interface{}{
				"path":  key,
				"count": result.Count,
				"limit": result.Limit,
			})
			commonhttp.WriteError(w, errors.NewRateLimitError(key, result.ResetAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}
