package sanitization

import "strings"

// containsMarkup reports whether s still has a raw markup-significant
// character in it.
func containsMarkup(s string) bool {
	return strings.ContainsAny(s, `<>"'`) || hasBareAmpersand(s)
}

// hasBareAmpersand reports whether s contains an '&' that does not start one
// of the entities EscapeHTML produces.
func hasBareAmpersand(s string) bool {
	for i := strings.IndexByte(s, '&'); i >= 0; {
		rest := s[i:]
		if !(strings.HasPrefix(rest, "&amp;") || strings.HasPrefix(rest, "&lt;") ||
			strings.HasPrefix(rest, "&gt;") || strings.HasPrefix(rest, "&quot;") ||
			strings.HasPrefix(rest, "&#39;")) {
			return true
		}
		next := strings.IndexByte(s[i+1:], '&')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return false
}
