// Package contract reconciles the local resume model with the shapes the
// remote backend accepts.
package contract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaVersion selects which allow-list Narrow applies.
type SchemaVersion string

const (
	// V1 is the original schema: identity, summary, flat skills, experience and education.
	V1 SchemaVersion = "v1"
	// V2 adds projects, certificates, profile links, the profile image and structured sections.
	V2 SchemaVersion = "v2"
)

// ParseSchemaVersion validates a configured schema version.
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	switch SchemaVersion(strings.ToLower(strings.TrimSpace(s))) {
	case V1:
		return V1, nil
	case V2, "":
		return V2, nil
	default:
		return "", fmt.Errorf("unknown schema version %q (want v1 or v2)", s)
	}
}

// ExperienceInput is the outbound shape of an experience entry.
type ExperienceInput struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Description *string `json:"description"`
}

// EducationInput is the outbound shape of an education entry.
type EducationInput struct {
	Degree         string  `json:"degree"`
	Institution    string  `json:"institution"`
	GraduationDate *string `json:"graduationDate"`
}

// ProjectInput is the outbound shape of a project entry.
type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	Date        *string  `json:"date"`
	Location    *string  `json:"location"`
}

// CertificateInput is the outbound shape of a certificate entry.
type CertificateInput struct {
	Name   string  `json:"name"`
	Issuer string  `json:"issuer"`
	Date   *string `json:"date"`
	Link   *string `json:"link"`
}

// SkillGroupInput is the outbound shape of a skill group.
type SkillGroupInput struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// LanguageInput is the outbound shape of a language entry.
type LanguageInput struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// AchievementInput is the outbound shape of an achievement.
type AchievementInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ResumeInput is a resume narrowed to the fields a schema version declares.
// Optional strings are nil when absent and marshal as JSON null.
type ResumeInput struct {
	Version SchemaVersion `json:"-"`

	FullName   string            `json:"fullName"`
	Email      string            `json:"email"`
	Phone      *string           `json:"phone"`
	Summary    *string           `json:"summary"`
	Skills     []string          `json:"skills"`
	Experience []ExperienceInput `json:"experience"`
	Education  []EducationInput  `json:"education"`

	Projects     []ProjectInput     `json:"projects"`
	Certificates []CertificateInput `json:"certificates"`
	JobTitle     *string            `json:"jobTitle"`
	Location     *string            `json:"location"`
	Linkedin     *string            `json:"linkedin"`
	Github       *string            `json:"github"`
	Website      *string            `json:"website"`
	ProfileImage *string            `json:"profileImage"`
	SkillGroups  []SkillGroupInput  `json:"skillGroups"`
	Languages    []LanguageInput    `json:"languages"`
	Achievements []AchievementInput `json:"achievements"`
}

// v1Input lists the only fields a v1 backend accepts.
type v1Input struct {
	FullName   string            `json:"fullName"`
	Email      string            `json:"email"`
	Phone      *string           `json:"phone"`
	Summary    *string           `json:"summary"`
	Skills     []string          `json:"skills"`
	Experience []ExperienceInput `json:"experience"`
	Education  []EducationInput  `json:"education"`
}

// MarshalJSON writes only the fields of the input's schema version.
func (in ResumeInput) MarshalJSON() ([]byte, error) {
	if in.Version == V1 {
		return json.Marshal(v1Input{
			FullName:   in.FullName,
			Email:      in.Email,
			Phone:      in.Phone,
			Summary:    in.Summary,
			Skills:     in.Skills,
			Experience: in.Experience,
			Education:  in.Education,
		})
	}
	type plain ResumeInput
	return json.Marshal(plain(in))
}
