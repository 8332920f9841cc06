package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeResume(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func validInput(t *testing.T) FormInput {
	t.Helper()
	return FormInput{
		ResumePath: writeResume(t, "resume.pdf"),
		JobURL:     "https://example.com/jobs/1",
		Writeup:    "I build backend services in Go and enjoy mentoring.",
	}
}

func TestValidateAccepted(t *testing.T) {
	if msg := Validate(validInput(t)); msg != "" {
		t.Errorf("expected valid input, got %q", msg)
	}

	// Pasted description instead of URL is also valid.
	in := validInput(t)
	in.JobURL = ""
	in.JobDescription = "We are hiring a Go engineer."
	if msg := Validate(in); msg != "" {
		t.Errorf("expected valid pasted input, got %q", msg)
	}
}

func TestValidateFirstRuleWins(t *testing.T) {
	// Everything is wrong; the resume rule must be reported first.
	in := FormInput{Writeup: "short"}
	if msg := Validate(in); !strings.Contains(msg, "resume file") {
		t.Errorf("expected resume message first, got %q", msg)
	}
}

func TestValidateResumeRules(t *testing.T) {
	in := validInput(t)

	in.ResumePath = "   "
	if msg := Validate(in); msg != "Please select a resume file (mandatory field)" {
		t.Errorf("empty path: got %q", msg)
	}

	in.ResumePath = filepath.Join(t.TempDir(), "missing.pdf")
	if msg := Validate(in); msg != "Resume file does not exist" {
		t.Errorf("missing file: got %q", msg)
	}

	in.ResumePath = writeResume(t, "resume.txt")
	if msg := Validate(in); msg != "Resume file must be in PDF format" {
		t.Errorf("wrong extension: got %q", msg)
	}

	// Extension check is case-insensitive.
	in.ResumePath = writeResume(t, "resume.PDF")
	if msg := Validate(in); msg != "" {
		t.Errorf("uppercase extension should pass, got %q", msg)
	}
}

func TestValidateJobSourceRules(t *testing.T) {
	in := validInput(t)

	in.JobURL = ""
	in.JobDescription = "  "
	if msg := Validate(in); msg != "Please provide either a job posting URL or paste a job description" {
		t.Errorf("both empty: got %q", msg)
	}

	in.JobURL = "https://example.com/jobs/1"
	in.JobDescription = "pasted text"
	if msg := Validate(in); !strings.Contains(msg, "not both") {
		t.Errorf("both set: got %q", msg)
	}

	in.JobDescription = ""
	in.JobURL = "example.com/jobs/1"
	if msg := Validate(in); msg != "Job URL must start with http:// or https://" {
		t.Errorf("bad scheme: got %q", msg)
	}

	in.JobURL = "http://example.com/jobs/1"
	if msg := Validate(in); msg != "" {
		t.Errorf("plain http should pass, got %q", msg)
	}
}

func TestValidateWriteupRules(t *testing.T) {
	in := validInput(t)

	in.Writeup = "   \n "
	if msg := Validate(in); msg != "Please enter a personal description (mandatory field)" {
		t.Errorf("empty writeup: got %q", msg)
	}

	in.Writeup = "too short"
	if msg := Validate(in); msg != "Personal description is too short (minimum 20 characters)" {
		t.Errorf("short writeup: got %q", msg)
	}

	// Exactly 20 characters after trimming passes.
	in.Writeup = " " + strings.Repeat("a", 20) + " "
	if msg := Validate(in); msg != "" {
		t.Errorf("20-char writeup should pass, got %q", msg)
	}
}

func TestValidateIgnoresCredentials(t *testing.T) {
	// Credentials are not part of FormInput at all; this documents that the
	// form never rejects a generation for a missing or malformed key.
	if msg := Validate(validInput(t)); msg != "" {
		t.Errorf("expected valid input without credentials, got %q", msg)
	}
}
