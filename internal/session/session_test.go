package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a scriptable backend.Contract.
type fakeBackend struct {
	validate func(ctx context.Context, in contract.ResumeInput, jd string) (*types.ATSScore, error)
	tailor   func(ctx context.Context, in contract.ResumeInput, jd string) (*types.TailorResponse, error)
	save     func(ctx context.Context, in contract.ResumeInput, tags []string, version string) (*types.SaveResult, error)
	list     func(ctx context.Context, filter *types.ListFilter) ([]types.SavedResume, error)
}

func (f *fakeBackend) ValidateResume(ctx context.Context, in contract.ResumeInput, jd string) (*types.ATSScore, error) {
	return f.validate(ctx, in, jd)
}

func (f *fakeBackend) TailorResume(ctx context.Context, in contract.ResumeInput, jd string) (*types.TailorResponse, error) {
	return f.tailor(ctx, in, jd)
}

func (f *fakeBackend) SaveResume(ctx context.Context, in contract.ResumeInput, tags []string, version string) (*types.SaveResult, error) {
	return f.save(ctx, in, tags, version)
}

func (f *fakeBackend) ListResumes(ctx context.Context, filter *types.ListFilter) ([]types.SavedResume, error) {
	return f.list(ctx, filter)
}

func (f *fakeBackend) DeleteResume(context.Context, string) (bool, error) {
	return true, nil
}

func strPtr(s string) *string { return &s }

func adaResume() types.ResumeData {
	r := types.NewResume()
	r.FullName = "Ada Lovelace"
	r.Email = "ada@x.com"
	r.Skills = []string{"C"}
	return r
}

func TestState_DisplayedWithoutTailoring(t *testing.T) {
	st := State{Resume: adaResume()}
	assert.Equal(t, st.Resume, st.Displayed())
}

func TestSession_EditsKeepResults(t *testing.T) {
	fb := &fakeBackend{
		validate: func(context.Context, contract.ResumeInput, string) (*types.ATSScore, error) {
			return &types.ATSScore{Score: 40}, nil
		},
	}
	s := New("s1", fb, contract.V2)

	_, err := s.Analyze(context.Background())
	require.NoError(t, err)

	s.SetResume(adaResume())
	st := s.SetJobDescription("new jd")

	require.NotNil(t, st.Analysis)
	assert.Equal(t, 40, st.Analysis.Score)
	assert.Equal(t, "new jd", st.JobDescription)
	assert.Equal(t, "Ada Lovelace", st.Resume.FullName)
}

func TestSession_SetResumeCopiesInput(t *testing.T) {
	s := New("s1", &fakeBackend{}, contract.V2)
	r := adaResume()
	s.SetResume(r)

	r.Skills[0] = "mutated"
	assert.Equal(t, []string{"C"}, s.Snapshot().Resume.Skills)
}

func TestSession_SnapshotIsIsolated(t *testing.T) {
	s := New("s1", &fakeBackend{}, contract.V2)
	s.SetResume(adaResume())

	snap := s.Snapshot()
	snap.Resume.Skills[0] = "mutated"
	snap.Resume.FullName = "Someone"

	assert.Equal(t, "Ada Lovelace", s.Snapshot().Resume.FullName)
	assert.Equal(t, []string{"C"}, s.Snapshot().Resume.Skills)
}

func TestSession_AnalyzeSendsNarrowedResume(t *testing.T) {
	var got contract.ResumeInput
	var gotJD string
	fb := &fakeBackend{
		validate: func(_ context.Context, in contract.ResumeInput, jd string) (*types.ATSScore, error) {
			got = in
			gotJD = jd
			return &types.ATSScore{Score: 0, MissingKeywords: []string{"Python"}}, nil
		},
	}
	s := New("s1", fb, contract.V1)
	s.SetResume(adaResume())
	s.SetJobDescription("Seeking a Python engineer")

	score, err := s.Analyze(context.Background())
	require.NoError(t, err)
	assert.Contains(t, score.MissingKeywords, "Python")
	assert.Equal(t, contract.V1, got.Version)
	assert.Nil(t, got.Phone)
	assert.Equal(t, "Seeking a Python engineer", gotJD)
	assert.Equal(t, score, s.Snapshot().Analysis)
}

func TestSession_FailureLeavesStateUntouched(t *testing.T) {
	calls := 0
	fb := &fakeBackend{
		validate: func(context.Context, contract.ResumeInput, string) (*types.ATSScore, error) {
			calls++
			if calls == 1 {
				return &types.ATSScore{Score: 55}, nil
			}
			return nil, errors.New("backend down")
		},
	}
	s := New("s1", fb, contract.V2)
	s.SetResume(adaResume())

	_, err := s.Analyze(context.Background())
	require.NoError(t, err)
	before := s.Snapshot()

	_, err = s.Analyze(context.Background())
	require.EqualError(t, err, "backend down")

	after := s.Snapshot()
	assert.Equal(t, before.Resume, after.Resume)
	assert.Equal(t, before.Analysis, after.Analysis)
	assert.Contains(t, after.Notice, "backend down")
	assert.Equal(t, 2, calls)

	assert.Empty(t, s.DismissNotice().Notice)
}

func TestSession_SuccessClearsNotice(t *testing.T) {
	calls := 0
	fb := &fakeBackend{
		validate: func(context.Context, contract.ResumeInput, string) (*types.ATSScore, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("boom")
			}
			return &types.ATSScore{Score: 70}, nil
		},
	}
	s := New("s1", fb, contract.V2)
	s.SetResume(adaResume())

	_, err := s.Analyze(context.Background())
	require.Error(t, err)
	require.NotEmpty(t, s.Snapshot().Notice)

	_, err = s.Analyze(context.Background())
	require.NoError(t, err)

	st := s.Snapshot()
	assert.Empty(t, st.Notice)
	require.NotNil(t, st.Analysis)
	assert.Equal(t, 70, st.Analysis.Score)
}

func TestSession_EmptyResponseKeepsPreviousResults(t *testing.T) {
	calls := 0
	fb := &fakeBackend{
		validate: func(context.Context, contract.ResumeInput, string) (*types.ATSScore, error) {
			calls++
			if calls == 1 {
				return &types.ATSScore{Score: 55}, nil
			}
			return nil, nil
		},
		tailor: func(context.Context, contract.ResumeInput, string) (*types.TailorResponse, error) {
			return nil, nil
		},
		save: func(context.Context, contract.ResumeInput, []string, string) (*types.SaveResult, error) {
			return nil, nil
		},
	}
	s := New("s1", fb, contract.V2)
	s.SetResume(adaResume())

	_, err := s.Analyze(context.Background())
	require.NoError(t, err)

	_, err = s.Analyze(context.Background())
	assert.ErrorIs(t, err, ErrEmptyResponse)
	st := s.Snapshot()
	require.NotNil(t, st.Analysis)
	assert.Equal(t, 55, st.Analysis.Score)
	assert.NotEmpty(t, st.Notice)

	_, err = s.Tailor(context.Background())
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Nil(t, s.Snapshot().Tailoring)

	_, err = s.Save(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestSession_TailorScenario(t *testing.T) {
	fb := &fakeBackend{
		tailor: func(context.Context, contract.ResumeInput, string) (*types.TailorResponse, error) {
			return &types.TailorResponse{
				TailoredResume: types.TailoredResume{
					Summary: strPtr("New summary"),
					Skills:  []string{"Python", "SQL"},
				},
				CoverLetter: "Dear team",
			}, nil
		},
	}
	s := New("s1", fb, contract.V2)
	r := adaResume()
	r.SkillGroups = []types.SkillGroup{{Category: "Core", Items: []string{"C"}}}
	r.ProfileImage = "data:image/png;base64,AAAA"
	s.SetResume(r)

	_, err := s.Tailor(context.Background())
	require.NoError(t, err)

	st := s.Snapshot()
	displayed := st.Displayed()
	assert.Equal(t, []string{"Python", "SQL"}, displayed.Skills)
	assert.Equal(t, []types.SkillGroup{{Category: "Core", Items: []string{"C"}}}, displayed.SkillGroups)
	assert.Equal(t, "New summary", displayed.Summary)
	assert.Equal(t, r.ProfileImage, displayed.ProfileImage)
	assert.Equal(t, []string{"C"}, st.Resume.Skills)
}

func TestSession_ApplyAndDiscardTailoring(t *testing.T) {
	fb := &fakeBackend{
		tailor: func(context.Context, contract.ResumeInput, string) (*types.TailorResponse, error) {
			return &types.TailorResponse{
				TailoredResume: types.TailoredResume{Skills: []string{"Go"}},
				CoverLetter:    "Letter",
			}, nil
		},
	}
	s := New("s1", fb, contract.V2)
	s.SetResume(adaResume())

	_, err := s.ApplyTailoring()
	assert.ErrorIs(t, err, ErrNoTailoring)

	_, err = s.Tailor(context.Background())
	require.NoError(t, err)

	st, err := s.ApplyTailoring()
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, st.Resume.Skills)
	require.NotNil(t, st.Tailoring)
	assert.Equal(t, "Letter", st.Tailoring.CoverLetter)
	assert.Equal(t, st.Resume, st.Displayed())

	st = s.DiscardTailoring()
	assert.Nil(t, st.Tailoring)
	assert.Equal(t, []string{"Go"}, st.Resume.Skills)
}

func TestSession_StaleResponseDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fb := &fakeBackend{
		validate: func(_ context.Context, _ contract.ResumeInput, jd string) (*types.ATSScore, error) {
			if jd == "slow" {
				close(started)
				<-release
				return &types.ATSScore{Score: 10}, nil
			}
			return &types.ATSScore{Score: 90}, nil
		},
	}
	s := New("s1", fb, contract.V2)
	s.SetJobDescription("slow")

	slowErr := make(chan error, 1)
	go func() {
		_, err := s.Analyze(context.Background())
		slowErr <- err
	}()
	<-started

	s.SetJobDescription("fast")
	score, err := s.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 90, score.Score)

	close(release)
	select {
	case err := <-slowErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("slow request did not finish")
	}

	require.NotNil(t, s.Snapshot().Analysis)
	assert.Equal(t, 90, s.Snapshot().Analysis.Score)
}

func TestSession_StaleFailureDoesNotSetNotice(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fb := &fakeBackend{
		tailor: func(_ context.Context, _ contract.ResumeInput, jd string) (*types.TailorResponse, error) {
			if jd == "slow" {
				close(started)
				<-release
				return nil, errors.New("timeout")
			}
			return &types.TailorResponse{CoverLetter: "fresh"}, nil
		},
	}
	s := New("s1", fb, contract.V2)
	s.SetJobDescription("slow")

	slowErr := make(chan error, 1)
	go func() {
		_, err := s.Tailor(context.Background())
		slowErr <- err
	}()
	<-started

	s.SetJobDescription("fast")
	_, err := s.Tailor(context.Background())
	require.NoError(t, err)

	close(release)
	assert.ErrorIs(t, <-slowErr, ErrSuperseded)

	st := s.Snapshot()
	assert.Empty(t, st.Notice)
	require.NotNil(t, st.Tailoring)
	assert.Equal(t, "fresh", st.Tailoring.CoverLetter)
}

func TestSession_SaveNarrowsEditedResume(t *testing.T) {
	var gotTags []string
	var gotVersion string
	var gotInput contract.ResumeInput
	fb := &fakeBackend{
		save: func(_ context.Context, in contract.ResumeInput, tags []string, version string) (*types.SaveResult, error) {
			gotInput, gotTags, gotVersion = in, tags, version
			return &types.SaveResult{ID: "r1", Version: version, Tags: tags}, nil
		},
	}
	s := New("s1", fb, contract.V2)
	r := adaResume()
	r.ThemeColor = "#123456"
	s.SetResume(r)

	res, err := s.Save(context.Background(), []string{"go"}, "1.0")
	require.NoError(t, err)
	assert.Equal(t, "r1", res.ID)
	assert.Equal(t, []string{"go"}, gotTags)
	assert.Equal(t, "1.0", gotVersion)
	assert.Equal(t, "Ada Lovelace", gotInput.FullName)
}

func TestSession_LoadSavedReattachesLocalFields(t *testing.T) {
	saved := types.NewResume()
	saved.FullName = "Saved Ada"
	fb := &fakeBackend{
		list: func(context.Context, *types.ListFilter) ([]types.SavedResume, error) {
			return []types.SavedResume{{ID: "r1", Resume: saved}}, nil
		},
	}
	s := New("s1", fb, contract.V2)
	local := adaResume()
	local.ThemeColor = "#abcdef"
	local.TemplateID = "secondary"
	s.SetResume(local)

	st, err := s.LoadSaved(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Saved Ada", st.Resume.FullName)
	assert.Equal(t, "#abcdef", st.Resume.ThemeColor)
	assert.Equal(t, "secondary", st.Resume.TemplateID)

	_, err = s.LoadSaved(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSavedResumeNotFound)
	assert.Contains(t, s.Snapshot().Notice, "missing")
	assert.Equal(t, "Saved Ada", s.Snapshot().Resume.FullName)
}

// getterBackend answers single lookups without listing.
type getterBackend struct {
	fakeBackend
	gets []string
}

func (g *getterBackend) GetResume(_ context.Context, id string) (*types.SavedResume, error) {
	g.gets = append(g.gets, id)
	if id != "r1" {
		return nil, nil
	}
	saved := types.NewResume()
	saved.FullName = "Fetched Ada"
	return &types.SavedResume{ID: id, Resume: saved}, nil
}

func TestSession_LoadSavedPrefersDirectLookup(t *testing.T) {
	gb := &getterBackend{}
	gb.list = func(context.Context, *types.ListFilter) ([]types.SavedResume, error) {
		t.Fatal("list should not be called")
		return nil, nil
	}
	s := New("s1", gb, contract.V2)
	s.SetResume(adaResume())

	st, err := s.LoadSaved(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Fetched Ada", st.Resume.FullName)

	_, err = s.LoadSaved(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrSavedResumeNotFound)
	assert.Equal(t, []string{"r1", "gone"}, gb.gets)
}

func TestSession_SetTemplateAndPhoto(t *testing.T) {
	s := New("s1", &fakeBackend{}, contract.V2)
	s.SetTemplate("tertiary")
	st := s.SetProfileImage("data:image/png;base64,AAAA")

	assert.Equal(t, "tertiary", st.Resume.TemplateID)
	assert.Equal(t, "data:image/png;base64,AAAA", st.Resume.ProfileImage)
}
