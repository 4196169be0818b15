package api

import (
	"context"
	"errors"
	"github.com/IlyasAtabaev731/finboard/internal/lib/jwt"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const requestIDHeader = "X-Request-ID"

type ctxKey int

const claimsKey ctxKey = iota

func claimsFrom(ctx context.Context) (jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(jwt.Claims)
	return claims, ok
}

// authenticate admits requests carrying a valid bearer token. A missing token
// is 401, a token that fails verification is 403.
func (s *APIServer) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenHeader := r.Header.Get("Authorization")

		_, tokenStr, _ := strings.Cut(strings.TrimSpace(tokenHeader), " ")
		tokenStr = strings.TrimSpace(tokenStr)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := jwt.ParseToken(tokenStr, string(s.jwtSecret))
		if err != nil {
			s.logger.Debug("Rejected token", "error", err)
			writeError(w, http.StatusForbidden, "Invalid token")
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
		next(w, r)
	}
}

func (s *APIServer) withTimeout(next http.Handler) http.Handler {
	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		next.ServeHTTP(w, r.WithContext(ctx))

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			s.logger.Warn("Request deadline exceeded", slog.String("path", r.URL.Path), slog.Duration("timeout", timeout))
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *APIServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		switch {
		case rec.status >= http.StatusInternalServerError:
			level = slog.LevelError
		case rec.status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		s.logger.Log(r.Context(), level, "Request handled",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func (s *APIServer) cors(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
	}).Handler(next)
}
