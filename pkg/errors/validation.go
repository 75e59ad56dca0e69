package errors

import (
	"strings"
	"unicode"
)

// ValidateItemID validates an item identifier used in layout computation.
// IDs are opaque but must be non-empty, printable, and of reasonable length
// so they can safely appear in cache keys, JSON output, and SVG attributes.
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidItem, "item id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidItem, "item id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidItem, "item id contains invalid control characters")
		}
	}

	return nil
}

// NormalizeISBN strips hyphens and spaces from an ISBN string and upper-cases
// a trailing check character. It performs no validation; pair with
// [ValidateISBN].
func NormalizeISBN(isbn string) string {
	var b strings.Builder
	for _, r := range isbn {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteByte('X')
		case r == '-' || r == ' ':
			// separator, dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateISBN validates an ISBN-10 or ISBN-13, including the check digit.
// The input may contain hyphens or spaces; these are ignored.
func ValidateISBN(isbn string) error {
	s := NormalizeISBN(isbn)
	switch len(s) {
	case 10:
		return validateISBN10(s)
	case 13:
		return validateISBN13(s)
	default:
		return New(ErrCodeInvalidISBN, "ISBN must have 10 or 13 digits, got %d", len(s))
	}
}

func validateISBN10(s string) error {
	sum := 0
	for i, r := range s {
		var v int
		switch {
		case r >= '0' && r <= '9':
			v = int(r - '0')
		case r == 'X' && i == 9:
			v = 10
		default:
			return New(ErrCodeInvalidISBN, "invalid character %q in ISBN-10", r)
		}
		sum += (10 - i) * v
	}
	if sum%11 != 0 {
		return New(ErrCodeInvalidISBN, "ISBN-10 check digit mismatch")
	}
	return nil
}

func validateISBN13(s string) error {
	sum := 0
	for i, r := range s {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidISBN, "invalid character %q in ISBN-13", r)
		}
		v := int(r - '0')
		if i%2 == 1 {
			v *= 3
		}
		sum += v
	}
	if sum%10 != 0 {
		return New(ErrCodeInvalidISBN, "ISBN-13 check digit mismatch")
	}
	return nil
}

// ValidatePath validates a file path for safety before reading or writing.
// It prevents path traversal and ensures reasonable path length.
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
