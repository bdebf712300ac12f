package errors

import (
	"strings"
	"unicode"
)

// ValidatePackageName validates an installed package name read from a package
// database. pacman names are restricted to a conservative character set, and
// anything else points at a corrupt or foreign database entry.
//
// The validation rules:
//   - No empty names
//   - No whitespace or control characters
//   - No path separators (names double as directory components)
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", name)
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPackage, "package name contains path separators: %q", name)
	}

	return nil
}
