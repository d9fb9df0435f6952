package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds identifiers that end up in file names.
const maxNameLength = 256

// ValidatePathComponent validates a value that is interpolated into a file
// path as a single component (game, map, site code, mode label).
//
// The rules are conservative:
//   - No empty values
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidatePathComponent(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}

	if len(value) > maxNameLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", kind, maxNameLength)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", kind)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidInput, "%s %q contains invalid characters: %q", kind, value, pattern)
		}
	}

	return nil
}

// ValidateDir validates a directory argument such as the web root.
// Unlike path components it may be absolute and contain separators.
func ValidateDir(kind, path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid characters", kind)
		}
	}

	return nil
}
