package types

import "time"

// ATSScore is the result of analysing a resume against a job description.
type ATSScore struct {
	Score           int      `json:"score"`
	MissingKeywords []string `json:"missingKeywords"`
	Feedback        []string `json:"feedback"`
	Reasoning       string   `json:"reasoning,omitempty"`
}

// TailoredResume is the partial override returned by tailoring. A nil field
// means "not specified" and leaves the local value in place.
type TailoredResume struct {
	Summary    *string      `json:"summary,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
}

// TailorResponse is the result of a tailoring request.
type TailorResponse struct {
	TailoredResume TailoredResume `json:"tailoredResume"`
	CoverLetter    string         `json:"coverLetter,omitempty"`
}

// SaveResult is returned when a resume version is persisted.
type SaveResult struct {
	ID        string    `json:"id"`
	Version   string    `json:"version"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// SavedResume is a persisted resume version.
type SavedResume struct {
	ID        string     `json:"id"`
	Resume    ResumeData `json:"resume"`
	Tags      []string   `json:"tags"`
	Version   string     `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ListFilter narrows ListResumes to resumes carrying any of the tags.
type ListFilter struct {
	Tags []string `json:"tags"`
}
