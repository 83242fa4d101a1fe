package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTransport matches every failure that happened before an HTTP
	// response was received.
	ErrTransport = errors.New("transport error")
	ErrNoToken   = errors.New("login response carried no token")
)

type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// HTTPError is a non-2xx response. Code and Message are filled when the body
// is a JSON error envelope.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Code       string
	Message    string
	Body       []byte
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(string(e.Body))
	}
	if msg == "" {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Status, msg)
}

// IsUnauthorized reports a 401 response. Callers only use it for logging;
// the user-facing handling is the same as any other failure.
func IsUnauthorized(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusUnauthorized
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func newHTTPError(method, path string, resp *http.Response, body []byte) *HTTPError {
	he := &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
	}
	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil {
		he.Code = env.Code
		he.Message = env.Message
		if he.Message == "" {
			he.Message = env.Error
		}
	}
	return he
}
