package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/standalone"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJobDescription = "COBOL compilers Kubernetes"

// useLocalBackend points config.Load at an in-memory backend without a model.
func useLocalBackend(t *testing.T) {
	t.Helper()
	t.Setenv("BACKEND_MODE", config.BackendLocal)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_API_KEY", "")

	prev := configPath
	configPath = ""
	t.Cleanup(func() { configPath = prev })
}

func writeJobDescription(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleJobDescription), 0o644))
	return path
}

func TestJobFlags_LoadFile(t *testing.T) {
	f := jobFlags{file: writeJobDescription(t)}
	cfg := config.Default()

	jd, err := f.load(context.Background(), &cfg)
	require.NoError(t, err)
	assert.Equal(t, sampleJobDescription, jd)
}

func TestJobFlags_LoadURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>Engineer</h1><div class="job-description"><p>Write COBOL.</p></div></body></html>`))
	}))
	defer ts.Close()

	f := jobFlags{url: ts.URL}
	cfg := config.Default()

	jd, err := f.load(context.Background(), &cfg)
	require.NoError(t, err)
	assert.Equal(t, "Write COBOL.", jd)
}

func TestRunAnalyze(t *testing.T) {
	useLocalBackend(t)

	analyzeInputFile = writeSampleResume(t)
	analyzeJob = jobFlags{file: writeJobDescription(t)}
	analyzeJSON = true
	defer func() { analyzeJSON = false }()

	var out bytes.Buffer
	analyzeCmd.SetOut(&out)
	analyzeCmd.SetContext(context.Background())

	require.NoError(t, runAnalyze(analyzeCmd, nil))

	var score types.ATSScore
	require.NoError(t, json.Unmarshal(out.Bytes(), &score))
	assert.Equal(t, 33, score.Score)
	assert.Equal(t, []string{"compilers", "Kubernetes"}, score.MissingKeywords)
	assert.Equal(t, []string{standalone.FeedbackLow}, score.Feedback)
}

func TestRunAnalyze_Printed(t *testing.T) {
	useLocalBackend(t)

	analyzeInputFile = writeSampleResume(t)
	analyzeJob = jobFlags{file: writeJobDescription(t)}

	var out bytes.Buffer
	analyzeCmd.SetOut(&out)
	analyzeCmd.SetContext(context.Background())

	require.NoError(t, runAnalyze(analyzeCmd, nil))
	assert.Contains(t, out.String(), "ATS SCORE")
	assert.Contains(t, out.String(), "Score: 33/100")
	assert.Contains(t, out.String(), "Kubernetes")
}

func TestRunTailor_NoModel(t *testing.T) {
	useLocalBackend(t)

	tailorInputFile = writeSampleResume(t)
	tailorJob = jobFlags{file: writeJobDescription(t)}

	tailorCmd.SetOut(&bytes.Buffer{})
	tailorCmd.SetContext(context.Background())

	err := runTailor(tailorCmd, nil)
	assert.ErrorIs(t, err, standalone.ErrNoModel)
}

func TestRunResumesList_Empty(t *testing.T) {
	useLocalBackend(t)

	var out bytes.Buffer
	resumesListCmd.SetOut(&out)
	resumesListCmd.SetContext(context.Background())

	require.NoError(t, runResumesList(resumesListCmd, nil))
	assert.Contains(t, out.String(), "SAVED RESUMES (0)")
}

func TestRunResumesDelete_NotFound(t *testing.T) {
	useLocalBackend(t)

	resumesDeleteCmd.SetOut(&bytes.Buffer{})
	resumesDeleteCmd.SetContext(context.Background())

	err := runResumesDelete(resumesDeleteCmd, []string{"6f1c2b9e-3a57-4c1e-9d52-1b4a1f0e7c11"})
	assert.Error(t, err)
}

func TestWriteResumeFile(t *testing.T) {
	resume, err := readResume(writeSampleResume(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeResumeFile(path, resume))

	back, err := readResume(path)
	require.NoError(t, err)
	assert.Equal(t, resume, back)
}
