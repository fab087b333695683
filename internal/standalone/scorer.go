package standalone

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-studio/internal/types"
)

// Feedback messages by score band.
const (
	FeedbackLow    = "Resume is missing many critical keywords. Consider rewriting."
	FeedbackMedium = "Good match, but could be improved by adding specific technical terms."
	FeedbackHigh   = "Excellent match! High probability of passing ATS."
)

var stopWords = map[string]bool{
	"and":  true,
	"the":  true,
	"for":  true,
	"with": true,
	"this": true,
	"that": true,
}

// Keywords extracts the scoring keywords from a job description: words of
// more than three letters that are not stop words, in order of first
// appearance. Duplicates are detected case-insensitively and the first
// spelling is kept.
func Keywords(jobDescription string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, word := range words(jobDescription) {
		key := strings.ToLower(word)
		if utf8.RuneCountInString(word) <= 3 || stopWords[key] || seen[key] {
			continue
		}
		seen[key] = true
		keywords = append(keywords, word)
	}
	return keywords
}

// Score rates resume text by the share of job description keywords it
// contains. A job description without keywords scores 0.
func Score(resumeText, jobDescription string) *types.ATSScore {
	keywords := Keywords(jobDescription)

	present := make(map[string]bool)
	for _, word := range words(resumeText) {
		present[strings.ToLower(word)] = true
	}

	matched := 0
	missing := []string{}
	for _, kw := range keywords {
		if present[strings.ToLower(kw)] {
			matched++
		} else {
			missing = append(missing, kw)
		}
	}

	score := 0
	if len(keywords) > 0 {
		score = matched * 100 / len(keywords)
	}

	return &types.ATSScore{
		Score:           score,
		MissingKeywords: missing,
		Feedback:        []string{feedback(score)},
	}
}

func feedback(score int) string {
	switch {
	case score < 50:
		return FeedbackLow
	case score < 80:
		return FeedbackMedium
	default:
		return FeedbackHigh
	}
}

func words(text string) []string {
	return strings.FieldsFunc(text, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c)
	})
}
