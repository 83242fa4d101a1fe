package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"skinanalyze/internal/models"
)

type ctxKey int

const claimsKey ctxKey = iota

func claimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logRequests echoes X-Request-ID (or assigns one) and logs every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", reqID,
			"duration", time.Since(start))
	})
}

// requireAuth rejects requests without a valid bearer token.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if h == "" {
			writeError(w, http.StatusUnauthorized, CodeMissingToken, "Authentication required")
			return
		}
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, CodeInvalidToken, "Authorization header must use the Bearer scheme")
			return
		}
		claims, err := s.tokens.Verify(raw)
		if err != nil {
			s.logger.Debug("token rejected", "error", err)
			writeError(w, http.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

// requireRole authenticates and then checks the token role.
func (s *Server) requireRole(role models.Role, next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		if claimsFrom(r.Context()).Role != role {
			writeError(w, http.StatusForbidden, CodeForbidden, "This resource is only available to "+role.String()+"s")
			return
		}
		next(w, r)
	})
}
