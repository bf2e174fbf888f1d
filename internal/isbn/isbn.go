// Package isbn validates and normalizes ISBN-10 and ISBN-13 identifiers.
package isbn

import "strings"

// Normalize strips hyphens and spaces from an ISBN string.
func Normalize(raw string) string {
	normalized := strings.ReplaceAll(raw, "-", "")
	normalized = strings.ReplaceAll(normalized, " ", "")
	return strings.TrimSpace(normalized)
}

// Check returns the normalized ISBN if raw is a checksum-valid ISBN-10 or
// ISBN-13, and "" otherwise.
func Check(raw string) string {
	isbn := Normalize(raw)
	switch len(isbn) {
	case 10:
		if validISBN10(isbn) {
			return isbn
		}
	case 13:
		if validISBN13(isbn) {
			return isbn
		}
	}
	return ""
}

// Valid reports whether raw is a checksum-valid ISBN-10 or ISBN-13.
func Valid(raw string) bool {
	return Check(raw) != ""
}

func validISBN10(isbn string) bool {
	sum := 0
	for i, r := range isbn {
		var digit int
		switch {
		case r >= '0' && r <= '9':
			digit = int(r - '0')
		case r == 'X' && i == 9:
			digit = 10
		default:
			return false
		}
		sum += (10 - i) * digit
	}
	return sum%11 == 0
}

func validISBN13(isbn string) bool {
	sum := 0
	for i, r := range isbn {
		if r < '0' || r > '9' {
			return false
		}
		digit := int(r - '0')
		if i%2 == 1 {
			digit *= 3
		}
		sum += digit
	}
	return sum%10 == 0
}
