package errors

import (
	"strings"
	"unicode"
)

// maxCrateNameLen is the longest crate name crates.io accepts.
const maxCrateNameLen = 64

// ValidateCrateName validates a crate name before it is interpolated into
// registry URLs.
//
// The rules follow crates.io's publishing constraints:
//   - No empty names
//   - Maximum length of 64 characters
//   - ASCII letters, digits, '-' and '_' only
//   - Must start with a letter
func ValidateCrateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "crate name cannot be empty")
	}
	if len(name) > maxCrateNameLen {
		return New(ErrCodeInvalidPackage, "crate name too long (max %d characters)", maxCrateNameLen)
	}

	for i, r := range name {
		if r > unicode.MaxASCII {
			return New(ErrCodeInvalidPackage, "crate name %q contains non-ASCII characters", name)
		}
		if i == 0 && !unicode.IsLetter(r) {
			return New(ErrCodeInvalidPackage, "crate name %q must start with a letter", name)
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("-_", r) {
			return New(ErrCodeInvalidPackage, "crate name %q contains invalid character %q", name, r)
		}
	}
	return nil
}
