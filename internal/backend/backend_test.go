package backend

import (
	"context"
	"testing"

	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listOnlyBackend serves saved resumes through ListResumes only.
type listOnlyBackend struct {
	resumes []types.SavedResume
	lists   int
}

func (b *listOnlyBackend) ValidateResume(context.Context, contract.ResumeInput, string) (*types.ATSScore, error) {
	return nil, nil
}

func (b *listOnlyBackend) TailorResume(context.Context, contract.ResumeInput, string) (*types.TailorResponse, error) {
	return nil, nil
}

func (b *listOnlyBackend) SaveResume(context.Context, contract.ResumeInput, []string, string) (*types.SaveResult, error) {
	return nil, nil
}

func (b *listOnlyBackend) ListResumes(context.Context, *types.ListFilter) ([]types.SavedResume, error) {
	b.lists++
	return b.resumes, nil
}

func (b *listOnlyBackend) DeleteResume(context.Context, string) (bool, error) {
	return false, nil
}

// getterBackend adds GetResume on top of listOnlyBackend.
type getterBackend struct {
	listOnlyBackend
	gets []string
}

func (b *getterBackend) GetResume(_ context.Context, id string) (*types.SavedResume, error) {
	b.gets = append(b.gets, id)
	for i := range b.resumes {
		if b.resumes[i].ID == id {
			return &b.resumes[i], nil
		}
	}
	return nil, nil
}

func TestFindResume_ScansList(t *testing.T) {
	b := &listOnlyBackend{resumes: []types.SavedResume{{ID: "r1"}, {ID: "r2", Version: "2.0"}}}

	got, err := FindResume(context.Background(), b, "r2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2.0", got.Version)

	got, err = FindResume(context.Background(), b, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 2, b.lists)
}

func TestFindResume_PrefersGetter(t *testing.T) {
	b := &getterBackend{listOnlyBackend: listOnlyBackend{resumes: []types.SavedResume{{ID: "r1"}}}}

	got, err := FindResume(context.Background(), b, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"r1"}, b.gets)
	assert.Zero(t, b.lists)
}
