// Package extract converts input documents into plain-text artifacts for the
// cover-letter crew. Each request gets its own workspace directory so
// concurrent generations never write over each other's files.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

const (
	resumeFileName         = "resume.txt"
	jobDescriptionFileName = "job_description.txt"
)

// Workspace is a per-request working directory holding extracted text artifacts.
type Workspace struct {
	dir string
}

// NewWorkspace creates a unique workspace directory under dataDir.
func NewWorkspace(dataDir string) (*Workspace, error) {
	dir := filepath.Join(dataDir, "requests", uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// ResumePath returns the path of the extracted resume artifact.
func (w *Workspace) ResumePath() string {
	return filepath.Join(w.dir, resumeFileName)
}

// JobDescriptionPath returns the path of the pasted job-description artifact.
func (w *Workspace) JobDescriptionPath() string {
	return filepath.Join(w.dir, jobDescriptionFileName)
}

// ExtractResume extracts the text of every page of the PDF at pdfPath and
// writes it to resume.txt in the workspace. Returns the artifact path.
func (w *Workspace) ExtractResume(pdfPath string) (string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()

	text, err := PDFToText(f)
	if err != nil {
		return "", fmt.Errorf("extract resume text: %w", err)
	}

	path := w.ResumePath()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write resume artifact: %w", err)
	}
	return path, nil
}

// WriteJobDescription writes pasted job-description text verbatim to
// job_description.txt in the workspace. Returns the artifact path.
func (w *Workspace) WriteJobDescription(text string) (string, error) {
	path := w.JobDescriptionPath()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write job description artifact: %w", err)
	}
	return path, nil
}

// Cleanup removes the workspace directory and its artifacts.
func (w *Workspace) Cleanup() error {
	return os.RemoveAll(w.dir)
}

// PDFToText reads the entire content of r and extracts plain text from the PDF.
// Returns empty string and nil error if the PDF has no extractable text.
func PDFToText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", nil
	}
	readerAt := bytes.NewReader(b)
	pdfReader, err := pdf.NewReader(readerAt, int64(len(b)))
	if err != nil {
		return "", err
	}
	plainReader, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(plainReader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
