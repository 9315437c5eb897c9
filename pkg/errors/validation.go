package errors

import (
	"strings"
	"unicode"
)

const maxIDLength = 128

// ValidateID validates a block or asset identifier.
//
// Identifiers travel through JSON, URLs and cache keys, so the rules are
// conservative:
//   - No empty ids
//   - Maximum length of 128 characters
//   - No control characters or whitespace
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid characters: %q", kind, id)
		}
	}
	return nil
}

// ValidateDocumentID validates a document identifier for use as a storage key
// and file name. On top of [ValidateID] it rejects path separators and
// traversal sequences.
func ValidateDocumentID(id string) error {
	if err := ValidateID("document", id); err != nil {
		return err
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "document id contains invalid characters: %q", pattern)
		}
	}

	if strings.HasPrefix(id, ".") {
		return New(ErrCodeInvalidInput, "document id cannot start with a dot")
	}
	return nil
}

// ValidateURI validates an asset URI. Only http, https and file URIs and
// bare relative paths are accepted; script-capable schemes are rejected
// because previews embed the URI verbatim.
func ValidateURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "asset uri cannot be empty")
	}
	lower := strings.ToLower(uri)
	for _, scheme := range []string{"javascript:", "data:", "vbscript:"} {
		if strings.HasPrefix(lower, scheme) {
			return New(ErrCodeInvalidInput, "asset uri scheme not allowed: %q", scheme)
		}
	}
	for _, r := range uri {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "asset uri contains control characters")
		}
	}
	return nil
}
