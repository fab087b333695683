package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/jonathan/resume-studio/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// LayoutID identifies one of the resume layouts.
type LayoutID string

const (
	// Primary has the main column on the left and a coloured sidebar on the right.
	Primary LayoutID = "primary"
	// Secondary has a coloured sidebar on the left.
	Secondary LayoutID = "secondary"
	// Tertiary has a full-width header band above two columns.
	Tertiary LayoutID = "tertiary"
)

// coverLetterTemplate is the template set name of the cover letter document.
const coverLetterTemplate = "cover_letter"

var layoutAliases = map[string]LayoutID{
	"modern":  Primary,
	"sidebar": Secondary,
	"classic": Tertiary,
}

var accentPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

var urlSchemePattern = regexp.MustCompile(`^https?://(www\.)?`)

// Layout is a named resume layout backed by an embedded template.
type Layout struct {
	ID            LayoutID `json:"id"`
	Name          string   `json:"name"`
	Aliases       []string `json:"aliases,omitempty"`
	DefaultAccent string   `json:"defaultAccent"`
}

var layouts = []*Layout{
	{ID: Primary, Name: "Modern", Aliases: []string{"modern"}, DefaultAccent: "#0e5f5f"},
	{ID: Secondary, Name: "Sidebar", Aliases: []string{"sidebar"}, DefaultAccent: "#2c3e50"},
	{ID: Tertiary, Name: "Classic", Aliases: []string{"classic"}, DefaultAccent: "#1e3a8a"},
}

const coverLetterAccent = "#1e3a8a"

var (
	parseOnce sync.Once
	parsed    map[string]*template.Template
	parseErr  error
)

// TemplateData is the value every layout template executes against.
type TemplateData struct {
	Resume      types.ResumeData
	Title       string
	Accent      template.CSS
	Photo       template.URL
	Skills      types.SkillSet
	CoverLetter string
}

// HasContact reports whether any contact line would be rendered.
func (d *TemplateData) HasContact() bool {
	r := d.Resume
	return r.Phone != "" || r.Email != "" || r.Location != "" ||
		r.Linkedin != "" || r.Github != "" || r.Website != ""
}

// sectionData carries a layout-specific heading into a shared section partial.
type sectionData struct {
	*TemplateData
	Heading string
}

// ResolveLayout maps a layout id or alias to a known LayoutID.
func ResolveLayout(id string) (LayoutID, bool) {
	key := strings.ToLower(strings.TrimSpace(id))
	for _, l := range layouts {
		if string(l.ID) == key {
			return l.ID, true
		}
	}
	if alias, ok := layoutAliases[key]; ok {
		return alias, true
	}
	return Primary, false
}

// Select returns the layout for id. Unknown or empty ids select the primary layout.
func Select(id string) *Layout {
	resolved, _ := ResolveLayout(id)
	for _, l := range layouts {
		if l.ID == resolved {
			return l
		}
	}
	return layouts[0]
}

// Layouts lists the available layouts in display order.
func Layouts() []*Layout {
	out := make([]*Layout, len(layouts))
	copy(out, layouts)
	return out
}

// Render writes the complete HTML document for r.
func (l *Layout) Render(w io.Writer, r types.ResumeData) error {
	tmpl, err := lookupTemplate(string(l.ID))
	if err != nil {
		return err
	}

	data := newTemplateData(r, l.DefaultAccent)
	if err := tmpl.ExecuteTemplate(w, "document", data); err != nil {
		return &RenderError{
			Layout:  l.ID,
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return nil
}

// RenderString renders r with the layout selected by id.
func RenderString(id string, r types.ResumeData) (string, error) {
	var buf bytes.Buffer
	if err := Select(id).Render(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderCoverLetter writes a cover letter document headed with the resume's
// contact details.
func RenderCoverLetter(w io.Writer, r types.ResumeData, letter string) error {
	tmpl, err := lookupTemplate(coverLetterTemplate)
	if err != nil {
		return err
	}

	data := newTemplateData(r, coverLetterAccent)
	data.Title = coverLetterTitle(r)
	data.CoverLetter = letter
	if err := tmpl.ExecuteTemplate(w, "document", data); err != nil {
		return &RenderError{
			Layout:  coverLetterTemplate,
			Message: "failed to execute cover letter template",
			Cause:   err,
		}
	}
	return nil
}

func coverLetterTitle(r types.ResumeData) string {
	return strings.TrimSuffix(r.DocumentTitle(), "Resume") + "Cover_Letter"
}

func newTemplateData(r types.ResumeData, defaultAccent string) *TemplateData {
	return &TemplateData{
		Resume: r,
		Title:  r.DocumentTitle(),
		Accent: accentColor(r.ThemeColor, defaultAccent),
		Photo:  photoURL(r.ProfileImage),
		Skills: r.SkillSet(),
	}
}

// accentColor accepts only hex colours; anything else falls back to the
// layout default.
func accentColor(theme, fallback string) template.CSS {
	theme = strings.TrimSpace(theme)
	if accentPattern.MatchString(theme) {
		return template.CSS(theme)
	}
	return template.CSS(fallback)
}

// photoURL trusts inline image data and plain http(s) links only.
func photoURL(src string) template.URL {
	src = strings.TrimSpace(src)
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, "data:image/"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"):
		return template.URL(src)
	default:
		return ""
	}
}

// DateRange formats an experience period. A missing end date reads "Present".
func DateRange(start, end string) string {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if end == "" {
		end = "Present"
	}
	if start == "" {
		return end
	}
	return start + " - " + end
}

func hrefURL(link string) string {
	link = strings.TrimSpace(link)
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return "https://" + link
}

func displayURL(link string) string {
	return strings.TrimSuffix(urlSchemePattern.ReplaceAllString(strings.TrimSpace(link), ""), "/")
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"richtext":   RichTextHTML,
		"dateRange":  DateRange,
		"hrefURL":    hrefURL,
		"displayURL": displayURL,
		"join":       strings.Join,
		"section": func(d *TemplateData, heading string) sectionData {
			return sectionData{TemplateData: d, Heading: heading}
		},
	}
}

func lookupTemplate(name string) (*template.Template, error) {
	parseOnce.Do(func() {
		parsed, parseErr = parseTemplates()
	})
	if parseErr != nil {
		return nil, parseErr
	}
	tmpl, ok := parsed[name]
	if !ok {
		return nil, &TemplateError{Name: name, Message: "template not registered"}
	}
	return tmpl, nil
}

// parseTemplates builds one template set per document, each combining the
// shared partials with the document's own file.
func parseTemplates() (map[string]*template.Template, error) {
	names := make([]string, 0, len(layouts)+1)
	for _, l := range layouts {
		names = append(names, string(l.ID))
	}
	names = append(names, coverLetterTemplate)

	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.New(name).Funcs(templateFuncs()).ParseFS(templateFS,
			"templates/partials.html",
			fmt.Sprintf("templates/%s.html", name),
		)
		if err != nil {
			return nil, &TemplateError{
				Name:    name,
				Message: "failed to parse template",
				Cause:   err,
			}
		}
		out[name] = tmpl
	}
	return out, nil
}
