package contract

import (
	"github.com/jonathan/resume-studio/internal/types"
)

// Narrow maps r to exactly the fields version v declares. Empty optional
// strings become nil. themeColor and templateId are never sent.
func Narrow(r types.ResumeData, v SchemaVersion) ResumeInput {
	if v != V1 {
		v = V2
	}

	in := ResumeInput{
		Version:    v,
		FullName:   r.FullName,
		Email:      r.Email,
		Phone:      optional(r.Phone),
		Summary:    optional(r.Summary),
		Skills:     copyStrings(r.Skills),
		Experience: make([]ExperienceInput, 0, len(r.Experience)),
		Education:  make([]EducationInput, 0, len(r.Education)),
	}
	for _, e := range r.Experience {
		in.Experience = append(in.Experience, ExperienceInput{
			Title:       e.Title,
			Company:     e.Company,
			StartDate:   optional(e.StartDate),
			EndDate:     optional(e.EndDate),
			Description: optional(e.Description),
		})
	}
	for _, e := range r.Education {
		in.Education = append(in.Education, EducationInput{
			Degree:         e.Degree,
			Institution:    e.Institution,
			GraduationDate: optional(e.GraduationDate),
		})
	}

	if v == V1 {
		return in
	}

	in.JobTitle = optional(r.JobTitle)
	in.Location = optional(r.Location)
	in.Linkedin = optional(r.Linkedin)
	in.Github = optional(r.Github)
	in.Website = optional(r.Website)
	in.ProfileImage = optional(r.ProfileImage)

	in.Projects = make([]ProjectInput, 0, len(r.Projects))
	for _, p := range r.Projects {
		in.Projects = append(in.Projects, ProjectInput{
			Title:       p.Title,
			Description: p.Description,
			TechStack:   copyStrings(p.TechStack),
			Date:        optional(p.Date),
			Location:    optional(p.Location),
		})
	}
	in.Certificates = make([]CertificateInput, 0, len(r.Certificates))
	for _, c := range r.Certificates {
		in.Certificates = append(in.Certificates, CertificateInput{
			Name:   c.Name,
			Issuer: c.Issuer,
			Date:   optional(c.Date),
			Link:   optional(c.Link),
		})
	}
	in.SkillGroups = make([]SkillGroupInput, 0, len(r.SkillGroups))
	for _, g := range r.SkillGroups {
		in.SkillGroups = append(in.SkillGroups, SkillGroupInput{
			Category: g.Category,
			Items:    copyStrings(g.Items),
		})
	}
	in.Languages = make([]LanguageInput, 0, len(r.Languages))
	for _, l := range r.Languages {
		in.Languages = append(in.Languages, LanguageInput(l))
	}
	in.Achievements = make([]AchievementInput, 0, len(r.Achievements))
	for _, a := range r.Achievements {
		in.Achievements = append(in.Achievements, AchievementInput(a))
	}
	return in
}

// Resume widens the input back into the local model. Only contract fields
// are set.
func (in ResumeInput) Resume() types.ResumeData {
	r := types.NewResume()
	r.FullName = in.FullName
	r.Email = in.Email
	r.Phone = value(in.Phone)
	r.Summary = value(in.Summary)
	r.Skills = copyStrings(in.Skills)
	for _, e := range in.Experience {
		r.Experience = append(r.Experience, types.Experience{
			Title:       e.Title,
			Company:     e.Company,
			StartDate:   value(e.StartDate),
			EndDate:     value(e.EndDate),
			Description: value(e.Description),
		})
	}
	for _, e := range in.Education {
		r.Education = append(r.Education, types.Education{
			Degree:         e.Degree,
			Institution:    e.Institution,
			GraduationDate: value(e.GraduationDate),
		})
	}

	r.JobTitle = value(in.JobTitle)
	r.Location = value(in.Location)
	r.Linkedin = value(in.Linkedin)
	r.Github = value(in.Github)
	r.Website = value(in.Website)
	r.ProfileImage = value(in.ProfileImage)
	for _, p := range in.Projects {
		r.Projects = append(r.Projects, types.Project{
			Title:       p.Title,
			Description: p.Description,
			TechStack:   copyStrings(p.TechStack),
			Date:        value(p.Date),
			Location:    value(p.Location),
		})
	}
	for _, c := range in.Certificates {
		r.Certificates = append(r.Certificates, types.Certificate{
			Name:   c.Name,
			Issuer: c.Issuer,
			Date:   value(c.Date),
			Link:   value(c.Link),
		})
	}
	for _, g := range in.SkillGroups {
		r.SkillGroups = append(r.SkillGroups, types.SkillGroup{
			Category: g.Category,
			Items:    copyStrings(g.Items),
		})
	}
	for _, l := range in.Languages {
		r.Languages = append(r.Languages, types.Language(l))
	}
	for _, a := range in.Achievements {
		r.Achievements = append(r.Achievements, types.Achievement(a))
	}
	return r
}

// Merge applies a tailoring override on top of base. Each top-level field the
// override sets replaces the base value wholesale; everything else is kept.
// base is not modified.
func Merge(base types.ResumeData, override types.TailoredResume) types.ResumeData {
	out := base.Clone()
	if override.Summary != nil {
		out.Summary = *override.Summary
	}
	if override.Skills != nil {
		out.Skills = copyStrings(override.Skills)
	}
	if override.Experience != nil {
		out.Experience = make([]types.Experience, len(override.Experience))
		copy(out.Experience, override.Experience)
	}
	return out
}

// Reattach restores the fields a round trip through the backend cannot carry.
// Styling always comes from local; fields outside the version's allow-list
// come from local too. A v2 profile image survives from remote when present.
func Reattach(local, remote types.ResumeData, v SchemaVersion) types.ResumeData {
	out := remote.Clone()
	src := local.Clone()

	out.ThemeColor = src.ThemeColor
	out.TemplateID = src.TemplateID

	if v != V1 {
		if out.ProfileImage == "" {
			out.ProfileImage = src.ProfileImage
		}
		return out
	}

	out.JobTitle = src.JobTitle
	out.Location = src.Location
	out.Linkedin = src.Linkedin
	out.Github = src.Github
	out.Website = src.Website
	out.ProfileImage = src.ProfileImage
	out.Projects = src.Projects
	out.Certificates = src.Certificates
	out.SkillGroups = src.SkillGroups
	out.Languages = src.Languages
	out.Achievements = src.Achievements
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// copyStrings copies a list, never returning nil.
func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
