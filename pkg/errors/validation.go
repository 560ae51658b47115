package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds element IDs, collection names and property keys.
const maxNameLength = 128

// nameRegex matches element IDs and collection names. Colons and commas are
// reserved by the reference syntax ("collection:ticks", "element:a,b").
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-/]*$`)

// ValidateName validates an element ID or collection name.
//
// The rules are:
//   - No empty names
//   - No control characters or whitespace
//   - No ':' or ',' (reserved by scene references)
//   - Maximum length of 128 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "name %q contains whitespace or control characters", name)
		}
	}

	if strings.ContainsAny(name, ":,") {
		return New(ErrCodeInvalidInput, "name %q contains reserved characters (':' or ',')", name)
	}

	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid name: %q", name)
	}

	return nil
}

// propertyKeyRegex matches dotted lower-case property keys such as
// "font.size" or "tick.pad".
var propertyKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z0-9_]+)*$`)

// ValidatePropertyKey validates a named engine property key.
func ValidatePropertyKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "property key cannot be empty")
	}

	if len(key) > maxNameLength {
		return New(ErrCodeInvalidInput, "property key too long (max %d characters)", maxNameLength)
	}

	if !propertyKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid property key: %q (want dotted lower-case, e.g. font.size)", key)
	}

	return nil
}
