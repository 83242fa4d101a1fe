// Package session holds the authentication token and role of the current
// user. It is the only state that survives between CLI invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"skinanalyze/internal/crypto"
	"skinanalyze/internal/files"
	"skinanalyze/internal/models"
	"skinanalyze/internal/utils"
)

const (
	keyFile      = "store.key"
	sessionFile  = "session.json.enc"
	analysisFile = "analysis.json.enc"
)

var (
	aadSession  = []byte("skinanalyze/session")
	aadAnalysis = []byte("skinanalyze/analysis")
)

var (
	ErrEmptyToken = errors.New("session token is empty")
	ErrNoSession  = errors.New("no active session")
)

// TokenSource yields the bearer token to attach to outgoing requests.
type TokenSource interface {
	Token() (string, bool)
}

// Store persists exactly one token+role record plus the last analysis result.
// It is safe for concurrent use.
type Store struct {
	dir    string
	key    []byte
	logger *utils.Logger

	mu      sync.RWMutex
	current models.Session
	active  bool
}

type Option func(*Store)

func WithLogger(l *utils.Logger) Option {
	return func(s *Store) { s.logger = l }
}

type openConfig struct {
	deviceFP string
}

// Open loads or creates the store key under dir and restores any persisted
// session. A record that cannot be decrypted or parsed is discarded.
func Open(dir string, opts ...Option) (*Store, error) {
	return open(dir, openConfig{deviceFP: utils.GetDeviceFingerprint()}, opts...)
}

func open(dir string, oc openConfig, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.New("session: state dir is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("session: create state dir: %w", err)
	}
	profileKey, err := files.ReadOrCreateKey(filepath.Join(dir, keyFile))
	if err != nil {
		return nil, fmt.Errorf("session: store key: %w", err)
	}
	key, err := crypto.DeriveStoreKey(profileKey, oc.deviceFP, crypto.InfoSessionStore)
	if err != nil {
		return nil, fmt.Errorf("session: derive key: %w", err)
	}
	s := &Store{dir: dir, key: key, logger: utils.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.restore()
	return s, nil
}

func (s *Store) restore() {
	var sess models.Session
	err := s.readSealed(sessionFile, aadSession, &sess)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return
	case err != nil:
		s.logger.Warn("discarding unreadable session", "error", err)
		s.removeFile(sessionFile)
		return
	case !sess.Valid():
		s.logger.Warn("discarding invalid session record")
		s.removeFile(sessionFile)
		return
	}
	s.current = sess
	s.active = true
	s.logger.Debug("session restored", "role", sess.Role.String())
}

// Set persists token and role and makes them current.
func (s *Store) Set(token string, role models.Role) error {
	if token == "" {
		return ErrEmptyToken
	}
	if !role.Valid() {
		return fmt.Errorf("session: %w", models.ErrInvalidRole)
	}
	sess := models.Session{Token: token, Role: role}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeSealed(sessionFile, aadSession, sess); err != nil {
		return fmt.Errorf("session: persist: %w", err)
	}
	s.current = sess
	s.active = true
	s.logger.Info("session stored", "role", role.String())
	return nil
}

// Token returns the current bearer token. The second result is false when
// there is no session.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return "", false
	}
	return s.current.Token, true
}

func (s *Store) Role() (models.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return 0, false
	}
	return s.current.Role, true
}

func (s *Store) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.active
}

// Clear removes the persisted session and the analysis handoff record.
// Clearing an empty store is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = models.Session{}
	s.active = false
	err := errors.Join(s.removeFile(sessionFile), s.removeFile(analysisFile))
	if err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	s.logger.Info("session cleared")
	return nil
}

// SaveAnalysis keeps the result of the last upload for the analysis view.
func (s *Store) SaveAnalysis(res models.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSealed(analysisFile, aadAnalysis, res)
}

// LoadAnalysis returns the last upload result, if one is recorded.
func (s *Store) LoadAnalysis() (models.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res models.AnalysisResult
	if err := s.readSealed(analysisFile, aadAnalysis, &res); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("ignoring unreadable analysis record", "error", err)
		}
		return models.AnalysisResult{}, false
	}
	return res, true
}

func (s *Store) ClearAnalysis() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeFile(analysisFile)
}

// Dir is the directory holding the persisted records.
func (s *Store) Dir() string { return s.dir }

func (s *Store) writeSealed(name string, aad []byte, v any) error {
	plain, err := json.Marshal(v)
	if err != nil {
		return err
	}
	blob, err := crypto.EncryptAESGCM(s.key, plain, aad)
	if err != nil {
		return err
	}
	return files.WriteFileAtomic(filepath.Join(s.dir, name), blob, 0600)
}

func (s *Store) readSealed(name string, aad []byte, v any) error {
	blob, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	plain, err := crypto.DecryptAESGCM(s.key, blob, aad)
	if err != nil {
		return err
	}
	return json.Unmarshal(plain, v)
}

func (s *Store) removeFile(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

var _ TokenSource = (*Store)(nil)
