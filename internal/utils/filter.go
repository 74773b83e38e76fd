package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// IsLetters reports whether s is non-empty and made of letters only
func IsLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// HasUpper reports whether s contains an uppercase letter
func HasUpper(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

// FormatWithCommas renders n with thousands separators
func FormatWithCommas(n int) string {
	return printer.Sprintf("%d", n)
}
