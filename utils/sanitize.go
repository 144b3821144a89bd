package utils

import "github.com/microcosm-cc/bluemonday"

var (
	ugcSanitizer   = bluemonday.UGCPolicy()
	plainSanitizer = bluemonday.StrictPolicy()
)

// Sanitize cleans user-generated HTML content, keeping safe markup.
func Sanitize(input string) string {
	return ugcSanitizer.Sanitize(input)
}

// SanitizePlain strips all markup. Used for fields rendered as plain text,
// like group titles.
func SanitizePlain(input string) string {
	return plainSanitizer.Sanitize(input)
}
