package db

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidID is returned when a saved resume id is not a UUID.
var ErrInvalidID = errors.New("invalid resume id")

// SavedResume is a row of saved_resumes. Resume holds the JSON document
// exactly as it was submitted.
type SavedResume struct {
	ID        uuid.UUID       `json:"id"`
	Resume    json.RawMessage `json:"resume"`
	Tags      []string        `json:"tags"`
	Version   string          `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NormalizeTags trims, drops empty entries, de-duplicates and sorts tags so
// that the same set always matches on upsert. The result is never nil.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// ParseID parses a saved resume id.
func ParseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidID, err)
	}
	return parsed, nil
}
