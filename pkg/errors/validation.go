package errors

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Idea length limits, counted in characters after whitespace is collapsed.
const (
	MinIdeaLength = 10
	MaxIdeaLength = 2000
)

// codeRequestPatterns match ideas that ask for source code instead of a
// project plan. Blueprints describe projects; they never contain code.
var codeRequestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bgenerate\s+(the\s+)?code\b`),
	regexp.MustCompile(`(?i)\bwrite\s+(the\s+|me\s+)?code\b`),
	regexp.MustCompile(`(?i)\bcreate\s+(the\s+)?code\b`),
	regexp.MustCompile(`(?i)\bgive\s+me\s+(the\s+)?code\b`),
	regexp.MustCompile(`(?i)\bshow\s+me\s+(the\s+)?code\b`),
	regexp.MustCompile(`(?i)\bcode\s+for\b`),
	regexp.MustCompile(`(?i)\bsource\s+code\b`),
	regexp.MustCompile(`(?i)\bimplementation\s+code\b`),
	regexp.MustCompile(`(?i)\bprogramming\s+code\b`),
	regexp.MustCompile(`(?i)\b(html|css|javascript|python|java)\s+code\b`),
	regexp.MustCompile(`(?i)\bsql\s+quer(y|ies)\b`),
	regexp.MustCompile(`(?i)\bwrite\s+.*\b(function|class|script)\b`),
	regexp.MustCompile(`(?i)\b(download|export)\s+.*\bcode\b`),
	regexp.MustCompile(`(?i)\bgenerate\s+.*\bscript\b`),
}

// NormalizeIdea collapses every run of whitespace to a single space and
// trims the ends.
func NormalizeIdea(idea string) string {
	return strings.Join(strings.Fields(idea), " ")
}

// ValidateIdea validates a raw project idea and returns its normalized form.
//
// The validation rules:
//   - Between 10 and 2000 characters after whitespace normalization
//   - No control characters
//   - Not a request for source code
func ValidateIdea(idea string) (string, error) {
	normalized := NormalizeIdea(idea)
	n := len([]rune(normalized))
	if n == 0 {
		return "", New(ErrCodeInvalidIdea, "idea cannot be empty")
	}
	if n < MinIdeaLength {
		return "", New(ErrCodeInvalidIdea, "idea too short (min %d characters, got %d)", MinIdeaLength, n)
	}
	if n > MaxIdeaLength {
		return "", New(ErrCodeInvalidIdea, "idea too long (max %d characters, got %d)", MaxIdeaLength, n)
	}
	for _, r := range normalized {
		if unicode.IsControl(r) {
			return "", New(ErrCodeInvalidIdea, "idea contains invalid control characters")
		}
	}
	if IsCodeRequest(normalized) {
		return "", New(ErrCodeInvalidIdea, "code generation is not supported: describe the project you want to plan instead")
	}
	return normalized, nil
}

// IsCodeRequest reports whether text asks for source code.
func IsCodeRequest(text string) bool {
	for _, re := range codeRequestPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ValidateNodeID validates a diagram node id.
// Node ids are used as DOM ids, DOT identifiers and map keys.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidGraph, "node id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id %q contains invalid control characters", id)
		}
	}
	return nil
}

// ValidateProjectID validates a stored project id (a UUID).
func ValidateProjectID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "project id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidID, err, "invalid project id %q", id)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
