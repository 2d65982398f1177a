package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateBinary validates the configured engine executable.
// It may be a bare name resolved through PATH or a path; both are passed to
// the OS unchanged, so only values that can never name a file are rejected.
//
// Validation rules:
//   - No empty values
//   - No control characters or null bytes
//   - No leading dash (it would be read as a flag by some shells and wrappers)
//   - Maximum length of 4096 characters
func ValidateBinary(binary string) error {
	if strings.TrimSpace(binary) == "" {
		return New(ErrCodeInvalidConfig, "engine binary cannot be empty")
	}

	if len(binary) > 4096 {
		return New(ErrCodeInvalidConfig, "engine binary path too long (max 4096 characters)")
	}

	for _, r := range binary {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "engine binary contains invalid control characters")
		}
	}

	if strings.HasPrefix(binary, "-") {
		return New(ErrCodeInvalidConfig, "engine binary cannot start with '-': %q", binary)
	}

	return nil
}

// outputFormatRegex matches Graphviz output format names such as "dot",
// "xdot", "xdot1.4" or "dot:core".
var outputFormatRegex = regexp.MustCompile(`^[a-z][a-z0-9._]*(:[a-z0-9._]+)*$`)

// ValidateFormat validates the output format requested with -T.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidConfig, "output format cannot be empty")
	}
	if !outputFormatRegex.MatchString(format) {
		return New(ErrCodeInvalidConfig, "invalid output format: %q", format)
	}
	return nil
}

// ValidateRedisURL validates a Redis connection URL.
// It ensures the URL has a scheme go-redis understands.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}

	for _, scheme := range []string{"redis://", "rediss://", "unix://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "redis URL must use redis, rediss or unix scheme")
}
