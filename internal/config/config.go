// Package config loads client settings from defaults, an optional YAML file
// and SKINANALYZE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"skinanalyze/internal/utils"
)

const (
	DefaultServer         = "http://localhost:5000"
	DefaultMaxUploadBytes = 10 << 20
	FileName              = "config.yaml"
)

// Environment variables that override file values.
const (
	EnvServer         = "SKINANALYZE_SERVER"
	EnvStateDir       = "SKINANALYZE_STATE_DIR"
	EnvLogLevel       = "SKINANALYZE_LOG_LEVEL"
	EnvLogFile        = "SKINANALYZE_LOG_FILE"
	EnvPatientsMethod = "SKINANALYZE_PATIENTS_METHOD"
	EnvCACertDir      = "SKINANALYZE_CA_CERT_DIR"
	EnvMaxUploadBytes = "SKINANALYZE_MAX_UPLOAD_BYTES"
)

type Config struct {
	// Server is the fixed backend origin, e.g. https://api.example.com.
	Server   string `yaml:"server"`
	StateDir string `yaml:"state_dir"`
	// CACertDir holds extra PEM roots for self-hosted backends.
	CACertDir string `yaml:"ca_cert_dir"`
	// PatientsMethod is GET or POST; the backend contract for /patients is
	// not settled.
	PatientsMethod string `yaml:"patients_method"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	LogLevel       string `yaml:"log_level"`
	LogFile        string `yaml:"log_file"`
}

func Default() Config {
	return Config{
		Server:         DefaultServer,
		StateDir:       utils.GetStateDir(),
		PatientsMethod: http.MethodGet,
		MaxUploadBytes: DefaultMaxUploadBytes,
		LogLevel:       "warn",
	}
}

// DefaultPath is config.yaml inside the default state dir.
func DefaultPath() string {
	return filepath.Join(utils.GetStateDir(), FileName)
}

// Load reads path (a missing file is fine when path is the default), applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	setString(EnvServer, &c.Server)
	setString(EnvStateDir, &c.StateDir)
	setString(EnvLogLevel, &c.LogLevel)
	setString(EnvLogFile, &c.LogFile)
	setString(EnvPatientsMethod, &c.PatientsMethod)
	setString(EnvCACertDir, &c.CACertDir)
	if v := os.Getenv(EnvMaxUploadBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxUploadBytes, err)
		}
		c.MaxUploadBytes = n
	}
	return nil
}

func (c *Config) normalize() {
	c.Server = strings.TrimRight(strings.TrimSpace(c.Server), "/")
	c.PatientsMethod = strings.ToUpper(strings.TrimSpace(c.PatientsMethod))
	if c.PatientsMethod == "" {
		c.PatientsMethod = http.MethodGet
	}
}

// WithServer returns a copy with the server overridden, as done for the
// --server flag.
func (c Config) WithServer(server string) (Config, error) {
	if server == "" {
		return c, nil
	}
	c.Server = server
	c.normalize()
	return c, c.Validate()
}

func (c Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.Server)
	switch {
	case c.Server == "":
		errs = append(errs, errors.New("server is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("server: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("server must be http or https, got %q", c.Server))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("server %q has no host", c.Server))
	}
	if c.StateDir == "" {
		errs = append(errs, errors.New("state_dir is required"))
	}
	if c.PatientsMethod != http.MethodGet && c.PatientsMethod != http.MethodPost {
		errs = append(errs, fmt.Errorf("patients_method must be GET or POST, got %q", c.PatientsMethod))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}
	if _, err := utils.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
