// Package redact removes credentials and personal data from strings before
// they are logged. The gateway logs request URLs, response bodies and
// transport errors, any of which can echo a bearer token, a JWT, a password
// from a login payload or a user's email address.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order; the JWT rule must run before the generic key rule so
// that "token: eyJ..." keeps its more specific placeholder.
var rules = []rule{
	{
		// "Authorization: Bearer xyz" and bare "Bearer xyz"
		pattern:     regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.~+/=]+`),
		replacement: "Bearer " + RedactedCredentialPlaceholder,
	},
	{
		// Three-part base64url JWT
		pattern:     regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]*`),
		replacement: RedactedJWTPlaceholder,
	},
	{
		// JSON password members: "password":"secret"
		pattern:     regexp.MustCompile(`(?i)("pass(?:word|wd)?"\s*:\s*)"[^"]*"`),
		replacement: `${1}"` + RedactedCredentialPlaceholder + `"`,
	},
	{
		// password=secret, pwd: secret
		pattern:     regexp.MustCompile(`(?i)\b(password|passwd|pwd)(\s*[=:]\s*)[^"&\s,}]{1,}`),
		replacement: "${1}${2}" + RedactedCredentialPlaceholder,
	},
	{
		// token=..., api_key: ..., secret=...
		pattern:     regexp.MustCompile(`(?i)\b(api[_-]?key|token|secret)(['"]?\s*[=:]\s*['"]?)[A-Za-z0-9_\-.~+/]{8,}`),
		replacement: "${1}${2}" + RedactedKeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: RedactedEmailPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
