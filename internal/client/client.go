// Package client is a thin wrapper over the skin analysis REST API. Each
// method is one network round trip: no retries, no batching, no caching.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"skinanalyze/internal/certs"
	"skinanalyze/internal/config"
	"skinanalyze/internal/utils"
)

const (
	HeaderRequestID = "X-Request-ID"
	maxErrorBody    = 64 << 10
)

// TokenSource yields the bearer token for outgoing requests.
type TokenSource interface {
	Token() (string, bool)
}

type Client struct {
	baseURL        *url.URL
	tokens         TokenSource
	http           *http.Client
	logger         *utils.Logger
	patientsMethod string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *utils.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for cfg.Server. tokens may be nil, in which case every
// request is unauthenticated. When cfg.CACertDir is set its certificates are
// trusted in addition to the system roots.
func New(cfg config.Config, tokens TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.Server, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", cfg.Server)
	}
	method := strings.ToUpper(cfg.PatientsMethod)
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return nil, fmt.Errorf("unsupported patients method %q", cfg.PatientsMethod)
	}
	c := &Client{
		baseURL:        u,
		tokens:         tokens,
		http:           &http.Client{},
		logger:         utils.Discard(),
		patientsMethod: method,
	}
	if cfg.CACertDir != "" {
		pool, err := certs.NewCertManager(cfg.CACertDir).Pool(time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to load CA certificates: %w", err)
		}
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
		c.http = &http.Client{Transport: tr}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string { return c.baseURL.String() }

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func (c *Client) jsonRequest(method, path string, payload any) (request, error) {
	r := request{method: method, path: path}
	if payload == nil {
		return r, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return r, fmt.Errorf("encode %s %s body: %w", method, path, err)
	}
	r.body = bytes.NewReader(b)
	r.contentType = "application/json"
	return r, nil
}

// do performs r and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	target := c.baseURL.String() + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", r.method, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, reqID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if c.tokens != nil {
		if tok, ok := c.tokens.Token(); ok && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	log := c.logger.With("method", r.method, "path", r.path, "request_id", reqID)
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", "error", err, "duration", time.Since(start))
		return &TransportError{Method: r.method, Path: r.path, Err: err}
	}
	defer resp.Body.Close()
	log.Debug("response", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		he := newHTTPError(r.method, r.path, resp, body)
		log.Info("request rejected", "status", resp.StatusCode, "code", he.Code)
		return he
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}
