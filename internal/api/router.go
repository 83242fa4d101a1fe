// Package api is a development backend serving the skin analysis REST
// surface from a local JSON store. It returns canned analyses.
package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"skinanalyze/internal/files"
	"skinanalyze/internal/models"
	"skinanalyze/internal/utils"
)

const DefaultMaxUploadBytes = 10 << 20

type Server struct {
	db        *files.DB
	tokens    *Tokens
	logger    *utils.Logger
	maxUpload int64
}

type Option func(*Server)

func WithLogger(l *utils.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

func NewServer(db *files.DB, tokens *Tokens, opts ...Option) *Server {
	s := &Server{db: db, tokens: tokens, logger: utils.Discard(), maxUpload: DefaultMaxUploadBytes}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprintln(w, "OK"); err != nil {
			s.logger.Warn("health write failed", "error", err)
		}
	}).Methods(http.MethodGet)

	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", s.requireAuth(s.handleLogout)).Methods(http.MethodPost)

	r.HandleFunc("/analyze", s.requireAuth(s.handleAnalyze)).Methods(http.MethodPost)
	r.HandleFunc("/symptoms", s.requireAuth(s.handleSymptoms)).Methods(http.MethodPost)

	r.HandleFunc("/reports", s.requireAuth(s.handleListReports)).Methods(http.MethodGet)
	r.HandleFunc("/reports/{id}", s.requireAuth(s.handleGetReport)).Methods(http.MethodGet)

	// The listing method is not settled between clients, so both are served.
	r.HandleFunc("/patients", s.requireRole(models.RoleDoctor, s.handleListPatients)).
		Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/patients/{id}", s.requireRole(models.RoleDoctor, s.handleUpdatePatient)).
		Methods(http.MethodPut)

	r.HandleFunc("/profile", s.requireAuth(s.handleGetProfile)).Methods(http.MethodGet)
	r.HandleFunc("/profile", s.requireAuth(s.handleUpdateProfile)).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "No such endpoint")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "Method not allowed")
	})
	return r
}
