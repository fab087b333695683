package rendering

import (
	"html/template"
	"regexp"
	"strings"
	"unicode"
)

// bulletMarkers are the line prefixes that turn a line into a bullet.
var bulletMarkers = []string{"* ", "- ", "• "}

// boldPattern pairs double-asterisk delimiters left to right, shortest match
// first, so "**a** and **b**" yields two spans.
var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// Segment is a run of text inside a line, either plain or bold.
type Segment struct {
	Text string
	Bold bool
}

// Line is one display line of rich text.
type Line struct {
	Bullet   bool
	Content  string
	Segments []Segment
}

// Blank reports whether the line has no content. Blank lines are rendered
// as spacers.
func (l Line) Blank() bool {
	return strings.TrimSpace(l.Content) == ""
}

// HTML returns the line content with angle brackets escaped and bold
// segments wrapped in <strong>.
func (l Line) HTML() template.HTML {
	var b strings.Builder
	for _, s := range l.Segments {
		if s.Bold {
			b.WriteString("<strong>")
			b.WriteString(EscapeAngles(s.Text))
			b.WriteString("</strong>")
			continue
		}
		b.WriteString(EscapeAngles(s.Text))
	}
	//nolint:gosec // angle brackets are escaped above; <strong> is the only markup emitted
	return template.HTML(b.String())
}

// ParseRichText splits text into display lines. It understands exactly two
// constructs: a leading bullet marker ("* ", "- " or "• ") and **bold**
// spans. Everything else is literal text. Empty input yields no lines.
func ParseRichText(text string) []Line {
	if text == "" {
		return nil
	}

	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, parseLine(line))
	}
	return lines
}

func parseLine(line string) Line {
	// Detection runs on the line without leading whitespace. A trailing
	// space after a lone marker still counts, so "- " is an empty bullet.
	left := strings.TrimLeftFunc(line, unicode.IsSpace)
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(left, marker) {
			content := strings.TrimRightFunc(left[len(marker):], unicode.IsSpace)
			return Line{Bullet: true, Content: content, Segments: parseBold(content)}
		}
	}
	return Line{Content: line, Segments: parseBold(line)}
}

// parseBold splits content into plain and bold segments. Escaping happens
// when the segment is written out; it never changes where '*' sits, so the
// pairing is identical to pairing the escaped string.
func parseBold(content string) []Segment {
	if content == "" {
		return nil
	}

	matches := boldPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return []Segment{{Text: content}}
	}

	segments := make([]Segment, 0, len(matches)*2+1)
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			segments = append(segments, Segment{Text: content[pos:m[0]]})
		}
		segments = append(segments, Segment{Text: content[m[2]:m[3]], Bold: true})
		pos = m[1]
	}
	if pos < len(content) {
		segments = append(segments, Segment{Text: content[pos:]})
	}
	return segments
}

// RichTextHTML renders text as the HTML fragment used inside templates.
func RichTextHTML(text string) template.HTML {
	lines := ParseRichText(text)
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	for _, line := range lines {
		switch {
		case line.Bullet:
			b.WriteString(`<div class="rt-bullet"><span class="rt-dot">•</span><span>`)
			b.WriteString(string(line.HTML()))
			b.WriteString(`</span></div>`)
		case line.Blank():
			b.WriteString(`<div class="rt-line rt-spacer"></div>`)
		default:
			b.WriteString(`<div class="rt-line">`)
			b.WriteString(string(line.HTML()))
			b.WriteString(`</div>`)
		}
	}
	//nolint:gosec // built only from Line.HTML and fixed markup
	return template.HTML(b.String())
}
