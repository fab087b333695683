// Package types provides the resume data model and the result shapes exchanged with the backend.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
)

// Experience is a single work history entry. Dates are free-form strings.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description"`
}

// Education is a single degree entry.
type Education struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	GraduationDate string `json:"graduationDate,omitempty"`
}

// Project is a portfolio entry with its technology tags.
type Project struct {
	Title       string   `json:"title"`
	Date        string   `json:"date,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack,omitempty"`
}

// Certificate is a certification entry.
type Certificate struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	Link   string `json:"link,omitempty"`
}

// SkillGroup is a labelled, ordered list of skills.
type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Achievement is a highlighted accomplishment.
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Language is a spoken language with a free-text proficiency label.
type Language struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// ResumeData is the canonical resume held by a session.
//
// Skills and SkillGroups are two representations of the same concept and are
// never merged; renderers resolve them through SkillSet.
type ResumeData struct {
	FullName string `json:"fullName"`
	JobTitle string `json:"jobTitle,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
	Github   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Summary  string `json:"summary,omitempty"`

	ThemeColor   string `json:"themeColor,omitempty"`
	TemplateID   string `json:"templateId,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`

	Experience   []Experience  `json:"experience"`
	Projects     []Project     `json:"projects,omitempty"`
	Certificates []Certificate `json:"certificates,omitempty"`
	Education    []Education   `json:"education"`
	Skills       []string      `json:"skills"`
	SkillGroups  []SkillGroup  `json:"skillGroups,omitempty"`
	Languages    []Language    `json:"languages,omitempty"`
	Achievements []Achievement `json:"achievements,omitempty"`
}

// NewResume returns the empty resume a session starts with.
func NewResume() ResumeData {
	return ResumeData{
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
	}
}

// Clone returns a deep copy of the resume.
func (r ResumeData) Clone() ResumeData {
	out := r
	out.Experience = cloneSlice(r.Experience)
	out.Education = cloneSlice(r.Education)
	out.Certificates = cloneSlice(r.Certificates)
	out.Languages = cloneSlice(r.Languages)
	out.Achievements = cloneSlice(r.Achievements)
	out.Skills = cloneSlice(r.Skills)

	if r.Projects != nil {
		out.Projects = make([]Project, len(r.Projects))
		for i, p := range r.Projects {
			p.TechStack = cloneSlice(p.TechStack)
			out.Projects[i] = p
		}
	}
	if r.SkillGroups != nil {
		out.SkillGroups = make([]SkillGroup, len(r.SkillGroups))
		for i, g := range r.SkillGroups {
			g.Items = cloneSlice(g.Items)
			out.SkillGroups[i] = g
		}
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// SkillKind tells a renderer which skill representation to use.
type SkillKind int

const (
	// SkillsNone means neither representation has entries.
	SkillsNone SkillKind = iota
	// SkillsGrouped means SkillGroups are rendered.
	SkillsGrouped
	// SkillsFlat means the legacy flat list is rendered.
	SkillsFlat
)

// SkillSet is the render-time resolution of Skills vs SkillGroups.
type SkillSet struct {
	Kind   SkillKind
	Groups []SkillGroup
	Flat   []string
}

// Empty reports whether there is nothing to render.
func (s SkillSet) Empty() bool { return s.Kind == SkillsNone }

// Grouped reports whether groups are rendered.
func (s SkillSet) Grouped() bool { return s.Kind == SkillsGrouped }

// SkillSet prefers skill groups and falls back to the flat list only when no
// groups exist.
func (r ResumeData) SkillSet() SkillSet {
	if len(r.SkillGroups) > 0 {
		return SkillSet{Kind: SkillsGrouped, Groups: r.SkillGroups}
	}
	if len(r.Skills) > 0 {
		return SkillSet{Kind: SkillsFlat, Flat: r.Skills}
	}
	return SkillSet{Kind: SkillsNone}
}

// DocumentTitle is the title used for exported documents.
func (r ResumeData) DocumentTitle() string {
	name := strings.Join(strings.Fields(r.FullName), "_")
	if name == "" {
		return "Resume"
	}
	return name + "_Resume"
}

// PlainText flattens the textual content of the resume, one field per line.
func (r ResumeData) PlainText() string {
	var parts []string
	add := func(s ...string) {
		for _, v := range s {
			if v != "" {
				parts = append(parts, v)
			}
		}
	}

	add(r.FullName, r.JobTitle, r.Email, r.Location, r.Summary)
	add(r.Skills...)
	for _, g := range r.SkillGroups {
		add(g.Category)
		add(g.Items...)
	}
	for _, e := range r.Experience {
		add(e.Title, e.Company, e.Description)
	}
	for _, p := range r.Projects {
		add(p.Title, p.Description)
		add(p.TechStack...)
	}
	for _, e := range r.Education {
		add(e.Degree, e.Institution)
	}
	for _, c := range r.Certificates {
		add(c.Name, c.Issuer)
	}
	for _, a := range r.Achievements {
		add(a.Title, a.Description)
	}
	for _, l := range r.Languages {
		add(l.Language)
	}
	return strings.Join(parts, "\n")
}
