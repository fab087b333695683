package jobpost

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinContentLength is the shortest extracted text accepted from a static
// page before falling back to a browser.
const MinContentLength = 500

var (
	spaceRun     = regexp.MustCompile(`[ \t\p{Zs}]+`)
	blankLineRun = regexp.MustCompile(`\n{3,}`)
)

// bulletPrefixes are normalized to "- " so the scorer and the model see one
// list syntax.
var bulletPrefixes = []string{"- ", "* ", "• ", "· "}

// Clean normalizes job description text: line endings become LF, runs of
// spaces collapse, bullets are unified and at most one blank line separates
// paragraphs.
func Clean(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLineRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(line, prefix) {
			return "- " + strings.TrimSpace(line[len(prefix):])
		}
	}
	return line
}

// needsRendering reports whether extracted text is too short to be a real
// description, which usually means the page is rendered by scripts.
func needsRendering(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) < MinContentLength
}
