package export

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChromeExporter_Defaults(t *testing.T) {
	e := NewChromeExporter()
	assert.Equal(t, DefaultTimeout, e.timeout)
	assert.Empty(t, e.execPath)
}

func TestNewChromeExporter_Options(t *testing.T) {
	base := len(NewChromeExporter().allocatorOptions())

	e := NewChromeExporter(WithExecPath("/usr/bin/chromium"), WithTimeout(5*time.Second))
	assert.Equal(t, "/usr/bin/chromium", e.execPath)
	assert.Equal(t, 5*time.Second, e.timeout)
	assert.Len(t, e.allocatorOptions(), base+1)
}

func TestWithTimeout_IgnoresNonPositive(t *testing.T) {
	e := NewChromeExporter(WithTimeout(0))
	assert.Equal(t, DefaultTimeout, e.timeout)
}

func TestExportPDF_EmptyDocument(t *testing.T) {
	_, err := NewChromeExporter().ExportPDF(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Ada_Lovelace_Resume.pdf", Filename("Ada_Lovelace_Resume"))
	assert.Equal(t, "Resume.pdf", Filename(""))
}

func TestExportPDF_Chrome(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	path := os.Getenv("CHROME_PATH")
	if path == "" {
		for _, name := range []string{"chromium", "chromium-browser", "google-chrome"} {
			if p, err := exec.LookPath(name); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		t.Skip("Skipping: no Chrome binary found")
	}

	e := NewChromeExporter(WithExecPath(path), WithTimeout(30*time.Second))
	pdf, err := e.ExportPDF(context.Background(), "<!DOCTYPE html><html><body><h1>Ada</h1></body></html>")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
