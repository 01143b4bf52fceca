// Package logging provides credential and sensitive data redaction utilities.
package logging

import (
	"regexp"
	"strings"
)

// sensitiveKeyPatterns contains patterns that indicate a key holds sensitive data.
var sensitiveKeyPatterns = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"credential",
	"api_key",
	"apikey",
	"api-key",
	"auth",
	"private_key",
	"privatekey",
	"access_key",
	"accesskey",
}

// sensitiveAssignment matches NAME=value words whose name looks sensitive.
var sensitiveAssignment = regexp.MustCompile(`(?i)\b([A-Z0-9_]*(?:password|passwd|token|secret|key|credential|auth)[A-Z0-9_]*)=\S+`)

// IsSensitiveKey returns true if the key name matches known sensitive patterns.
// The check is case-insensitive.
func IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(lowerKey, pattern) {
			return true
		}
	}
	return false
}

// RedactEnv returns a copy of KEY=VALUE assignments with the value of every
// sensitive key replaced by "***". Entries without "=" are kept as-is.
func RedactEnv(assignments []string) []string {
	redacted := make([]string, len(assignments))
	for i, assignment := range assignments {
		key, _, found := strings.Cut(assignment, "=")
		if found && IsSensitiveKey(key) {
			redacted[i] = key + "=***"
			continue
		}
		redacted[i] = assignment
	}
	return redacted
}

// RedactSensitivePatterns redacts sensitive NAME=value words inside a
// command line. For example: "GITHUB_TOKEN=abc cargo build" -> "GITHUB_TOKEN=*** cargo build"
func RedactSensitivePatterns(input string) string {
	return sensitiveAssignment.ReplaceAllStringFunc(input, func(match string) string {
		name, _, _ := strings.Cut(match, "=")
		return name + "=***"
	})
}
