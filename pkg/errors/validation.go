package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength bounds block names and flow step labels, in runes.
const MaxNameLength = 64

// ValidateBlockName validates a block name before it is placed in a slot.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters (a newline would corrupt the label wrap)
//   - Maximum length of [MaxNameLength] runes
func ValidateBlockName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "block name cannot be empty")
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return New(ErrCodeInvalidName, "block name too long (max %d characters)", MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "block name contains invalid control characters")
		}
	}

	return nil
}

// ValidateStepLabel validates the start or end label of a flow step.
// Labels may be longer than block names since Graphviz sizes nodes to fit.
func ValidateStepLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidStep, "step label cannot be empty")
	}
	if strings.ContainsRune(label, '\x00') {
		return New(ErrCodeInvalidStep, "step label contains null bytes")
	}
	return nil
}

// ValidatePath validates an output path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
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

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateURI validates a connection URI against a set of allowed schemes.
func ValidateURI(rawURI string, schemes ...string) error {
	if rawURI == "" {
		return New(ErrCodeInvalidInput, "URI cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURI, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URI must use one of the schemes: %s", strings.Join(schemes, ", "))
}
