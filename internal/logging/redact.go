package logging

import "regexp"

const redacted = "***REDACTED***"

var (
	bearerPattern = regexp.MustCompile(`(?i)(Bearer\s+)([A-Za-z0-9\-_.=+/]{8,})`)

	// jsonSecretPattern matches a whole JSON string value, escaped quotes included.
	jsonSecretPattern = regexp.MustCompile(`(?i)("(?:password|access_token|jwt_token|client_api_key)"\s*:\s*")((?:[^"\\]|\\.)*)"`)

	// kvSecretPattern matches key=value and key: value forms up to the next whitespace.
	kvSecretPattern = regexp.MustCompile(`(?i)\b((?:password|access_token|jwt_token|client_api_key)\s*[=:]\s*)([^\s]+)`)
)

// Redact masks bearer tokens, passwords, and API keys in s.
func Redact(s string) string {
	if s == "" {
		return s
	}
	s = bearerPattern.ReplaceAllString(s, `${1}`+redacted)
	s = jsonSecretPattern.ReplaceAllString(s, `${1}`+redacted+`"`)
	s = kvSecretPattern.ReplaceAllString(s, `${1}`+redacted)
	return s
}
