package sanitization

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// htmlReplacer escapes the characters that are significant inside HTML text
// and attribute values. Already-escaped entities are escaped again
// ("&amp;" becomes "&amp;amp;"); callers must sanitize raw input exactly once.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML neutralizes markup-significant characters so the result can be
// embedded verbatim into an HTML email body.
func EscapeHTML(input string) string {
	return htmlReplacer.Replace(input)
}

// SanitizeField trims surrounding whitespace and escapes HTML.
func SanitizeField(input string) string {
	return EscapeHTML(strings.TrimSpace(input))
}

// SanitizeName escapes HTML and collapses every run of whitespace to a single
// space, so the result is safe for both a body and a single-line header.
func SanitizeName(input string) string {
	return EscapeHTML(strings.TrimSpace(whitespaceRegex.ReplaceAllString(input, " ")))
}

// SanitizeEmail prepares an email address for display in an HTML body.
// The address is echoed as typed, so no case folding happens here.
func SanitizeEmail(input string) string {
	return EscapeHTML(strings.TrimSpace(input))
}
