package errors

import (
	"net/url"
	"strings"
	"unicode"
)

const maxCoordinatePartLength = 256

// ValidateCoordinatePart validates a groupId or artifactId for safety.
// Both end up as path segments of the metadata URL, so anything that
// could escape the segment is rejected:
//   - No empty values
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
//
// Whether the coordinate exists is left to the resolver.
func ValidateCoordinatePart(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidCoordinate, "the %s may not be empty", kind)
	}

	if len(value) > maxCoordinatePartLength {
		return New(ErrCodeInvalidCoordinate, "the %s is too long (max %d characters)", kind, maxCoordinatePartLength)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCoordinate, "the %s %q contains invalid control characters", kind, value)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory / empty group segment
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidCoordinate, "the %s %q contains invalid characters: %q", kind, value, pattern)
		}
	}

	if strings.HasPrefix(value, ".") || strings.HasSuffix(value, ".") {
		return New(ErrCodeInvalidCoordinate, "the %s %q may not start or end with a period", kind, value)
	}

	return nil
}

// ValidateURL validates a resolver URL.
// It must be absolute, use http or https, and name a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidResolver, "the resolver URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidResolver, err, "the resolver %s is an invalid URL", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidResolver, "the resolver %s must use the http or https scheme", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidResolver, "the resolver %s has no host", rawURL)
	}

	return nil
}
