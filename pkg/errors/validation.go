package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePersonID validates a person identifier for safety and
// correctness. IDs flow into connection identifiers, cache keys, and
// store documents, so the rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
func ValidatePersonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPerson, "person ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidPerson, "person ID too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPerson, "person ID contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidPerson, "person ID contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// graphNameRegex matches valid stored-graph names. Names appear in
// URL paths and as store keys, so the charset is deliberately narrow.
var graphNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidateGraphName validates the name a graph is stored under.
func ValidateGraphName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidGraph, "graph name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidGraph, "graph name too long (max 128 characters)")
	}

	if !graphNameRegex.MatchString(name) {
		return New(ErrCodeInvalidGraph, "invalid graph name: %q (lowercase letters, digits, '.', '_', '-')", name)
	}

	return nil
}
