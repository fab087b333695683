package rendering

import "strings"

// EscapeAngles replaces literal angle brackets with their HTML entities so
// user text can never open or close markup. Other characters pass through.
func EscapeAngles(text string) string {
	if !strings.ContainsAny(text, "<>") {
		return text
	}

	var result strings.Builder
	result.Grow(len(text) + 8)

	for _, r := range text {
		switch r {
		case '<':
			result.WriteString("&lt;")
		case '>':
			result.WriteString("&gt;")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
