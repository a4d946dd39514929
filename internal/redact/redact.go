// Package redact removes credentials, tokens, personal data and query text
// from strings before they are logged.
package redact

import (
	"regexp"
)

// Placeholders substituted for redacted content.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// Rules run in order; earlier rules may remove text later rules would match.
var rules = []rule{
	{
		re:          regexp.MustCompile(`(?i)\b(postgres(?:ql)?|amqps?|mysql|mongodb)://[^@\s/]+@`),
		replacement: "${1}://" + RedactedCredentialPlaceholder + "@",
	},
	{
		re:          regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		replacement: RedactedJWTPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?i)\b(bearer)\s+[A-Za-z0-9\-._~+/]+=*`),
		replacement: "${1} " + RedactedTokenPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret)(\s*[=:]\s*)['"]?[^'"&\s]+['"]?`),
		replacement: "${1}${2}" + RedactionPlaceholder,
	},
	{
		re:          regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: RedactedEmailPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?is)\b(?:SELECT\s.+?\sFROM|INSERT\s+INTO|UPDATE\s+\w+\s+SET|DELETE\s+FROM)\b[^;]*`),
		replacement: RedactedSQLPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?:/[\w.-]+){3,}`),
		replacement: RedactedPathPlaceholder,
	},
}

// String returns input with sensitive content replaced by placeholders.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts err.Error(). It returns "" for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
