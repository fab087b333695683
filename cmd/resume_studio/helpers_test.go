package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// getBinaryPath returns the path to the resume_studio binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "resume_studio"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/resume_studio ./cmd/resume_studio'", binaryPath)
	}

	return binaryPath
}

const sampleResumeJSON = `{
  "fullName": "Grace Hopper",
  "jobTitle": "Rear Admiral",
  "email": "grace@example.com",
  "summary": "Compiler pioneer.\n* **COBOL** co-designer",
  "templateId": "sidebar",
  "experience": [
    {"title": "Engineer", "company": "Navy", "startDate": "1943", "description": "Programmed the Mark I"}
  ],
  "education": [
    {"degree": "PhD Mathematics", "institution": "Yale", "graduationDate": "1934"}
  ],
  "skills": ["COBOL", "FLOW-MATIC"]
}`

func writeSampleResume(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleResumeJSON), 0o644))
	return path
}
