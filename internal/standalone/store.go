package standalone

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-studio/internal/db"
)

// Store persists saved resume versions. *db.DB implements it.
type Store interface {
	SaveResume(ctx context.Context, resume json.RawMessage, tags []string, version string) (*db.SavedResume, error)
	ListResumes(ctx context.Context, tags []string) ([]db.SavedResume, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.SavedResume, error)
	DeleteResume(ctx context.Context, id uuid.UUID) (bool, error)
}

var (
	_ Store = (*db.DB)(nil)
	_ Store = (*MemoryStore)(nil)
)

// MemoryStore is a process-local Store with the same upsert and listing
// rules as the database.
type MemoryStore struct {
	mu   sync.Mutex
	rows []db.SavedResume
	now  func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// SaveResume implements Store.
func (m *MemoryStore) SaveResume(_ context.Context, resume json.RawMessage, tags []string, version string) (*db.SavedResume, error) {
	tags = db.NormalizeTags(tags)
	data := append(json.RawMessage(nil), resume...)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for i := range m.rows {
		if m.rows[i].Version == version && equalTags(m.rows[i].Tags, tags) {
			m.rows[i].Resume = data
			m.rows[i].UpdatedAt = now
			saved := m.rows[i]
			return &saved, nil
		}
	}

	saved := db.SavedResume{
		ID:        uuid.New(),
		Resume:    data,
		Tags:      tags,
		Version:   version,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.rows = append(m.rows, saved)
	return &saved, nil
}

// ListResumes implements Store.
func (m *MemoryStore) ListResumes(_ context.Context, tags []string) ([]db.SavedResume, error) {
	tags = db.NormalizeTags(tags)

	m.mu.Lock()
	defer m.mu.Unlock()

	out := []db.SavedResume{}
	for _, row := range m.rows {
		if len(tags) == 0 || overlaps(row.Tags, tags) {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetResume implements Store.
func (m *MemoryStore) GetResume(_ context.Context, id uuid.UUID) (*db.SavedResume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.rows {
		if row.ID == id {
			return &row, nil
		}
	}
	return nil, nil
}

// DeleteResume implements Store.
func (m *MemoryStore) DeleteResume(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, row := range m.rows {
		if row.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
