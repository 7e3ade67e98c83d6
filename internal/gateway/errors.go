package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
)

// ExpiredTokenMessage is the body message the remote API sends with a 401 when
// the bearer credential has expired. Any other 401 is a plain authorization failure.
const ExpiredTokenMessage = "Token has expired"

// FailureDetails is attached to REMOTE_FAILURE (and other status-derived) errors.
type FailureDetails struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"msg,omitempty"`
}

// errorBody is the error shape returned by the remote API. Some endpoints use
// message or error instead of msg.
type errorBody struct {
	Msg     string `json:"msg"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	for _, s := range []string{b.Msg, b.Message, b.Error} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// serverMessage extracts the human-readable message from an error response body.
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.text()
}

// statusError converts a non-2xx response into a domain error.
func statusError(method, path string, status int, body []byte) error {
	msg := serverMessage(body)
	details := FailureDetails{Method: method, Path: path, Status: status, Message: msg}

	switch {
	case status == http.StatusUnauthorized && msg == ExpiredTokenMessage:
		return domainerrors.TokenExpired(ExpiredTokenMessage).WithDetails(details)
	case status == http.StatusUnauthorized:
		return domainerrors.Unauthorized(orDefault(msg, "unauthorized")).WithDetails(details)
	case status == http.StatusNotFound:
		return domainerrors.NotFound(orDefault(msg, "not found")).WithDetails(details)
	case status == http.StatusConflict:
		return domainerrors.Conflict(orDefault(msg, "conflict")).WithDetails(details)
	default:
		return domainerrors.RemoteFailuref("%s %s: status %d", method, path, status).WithDetails(details)
	}
}

// isExpired reports whether err is the credential-expired signal.
func isExpired(err error) bool {
	return errors.Is(err, domainerrors.ErrTokenExpired)
}

// Status returns the HTTP status carried by a gateway error, or 0 when the
// failure never produced a response.
func Status(err error) int {
	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		return 0
	}
	if d, ok := domainErr.Details.(FailureDetails); ok {
		return d.Status
	}
	return 0
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
