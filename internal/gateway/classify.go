package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// DefaultErrorEndpoint is the service's error-reporting route.
const DefaultErrorEndpoint = "/error"

// authCodes are structured 401 codes that invalidate the session.
var authCodes = map[string]struct{}{
	"TOKEN_EXPIRED": {},
	"TOKEN_INVALID": {},
	"UNAUTHORIZED":  {},
	"INVALID_TOKEN": {},
	"EXPIRED_TOKEN": {},
}

// authKeywords are matched against the lower-cased 401 message when the
// response carries no structured code.
var authKeywords = []string{"token", "expired", "unauthorized"}

// Verdict is the classification of a single response.
type Verdict struct {
	// Kind is nil for success statuses
	Kind error

	// Passthrough marks preflight and error-endpoint responses; they never
	// affect the session
	Passthrough bool

	// SessionInvalid marks a 401 that must tear down the session
	SessionInvalid bool

	// Code and Message are read from the body, if it is a JSON object
	Code    string
	Message string
}

// Classifier classifies responses. The zero value uses DefaultErrorEndpoint.
type Classifier struct {
	ErrorEndpoint string
}

// Classify classifies a response with the default error endpoint.
func Classify(status int, method, path string, body []byte) Verdict {
	return Classifier{}.Classify(status, method, path, body)
}

// Classify maps status, method, request path and body to a Verdict.
// It is pure: no I/O, no session access.
func (c Classifier) Classify(status int, method, path string, body []byte) Verdict {
	if status < http.StatusBadRequest {
		return Verdict{}
	}

	code, message := errorDetails(body)
	v := Verdict{Code: code, Message: message}

	endpoint := c.ErrorEndpoint
	if endpoint == "" {
		endpoint = DefaultErrorEndpoint
	}
	if strings.EqualFold(method, http.MethodOptions) || strings.Contains(path, endpoint) {
		v.Passthrough = true
	}

	switch {
	case status >= http.StatusInternalServerError:
		v.Kind = domain.ErrTransportFault
	case status == http.StatusForbidden:
		v.Kind = domain.ErrPermissionFault
	case status == http.StatusUnauthorized:
		if !v.Passthrough && isSessionFault(code, message, path) {
			v.Kind = domain.ErrAuthFault
			v.SessionInvalid = true
		} else {
			v.Kind = domain.ErrValidationFault
		}
	case status == http.StatusNotFound:
		v.Kind = domain.ErrNotFoundFault
	default:
		v.Kind = domain.ErrValidationFault
	}
	return v
}

// isSessionFault prefers a structured code and falls back to keyword
// matching on the message and the request path.
func isSessionFault(code, message, path string) bool {
	if code != "" {
		_, ok := authCodes[strings.ToUpper(code)]
		return ok
	}
	msg := strings.ToLower(message)
	for _, kw := range authKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return strings.Contains(path, "/auth")
}

// errorDetails reads code and message from a JSON error body. Plain-text
// bodies become the message.
func errorDetails(body []byte) (code, message string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", ""
	}

	var payload struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		var text string
		switch {
		case json.Unmarshal([]byte(trimmed), &text) == nil:
			return "", text
		case strings.HasPrefix(trimmed, "{"), strings.HasPrefix(trimmed, "["):
			return "", ""
		}
		return "", trimmed
	}

	if s, ok := payload.Code.(string); ok {
		code = strings.TrimSpace(s)
	}
	message = payload.Message
	if message == "" {
		message = payload.Error
	}
	return code, message
}
