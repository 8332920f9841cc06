package tui

import (
	"os"
	"strings"
)

// FormInput is the raw state of the generation form.
type FormInput struct {
	ResumePath     string
	JobURL         string
	JobDescription string
	Writeup        string
}

// Validate checks the form and returns the first violated rule as a message,
// or "" when the input is valid. API credentials are intentionally not
// validated.
func Validate(in FormInput) string {
	resumePath := strings.TrimSpace(in.ResumePath)
	if resumePath == "" {
		return "Please select a resume file (mandatory field)"
	}
	if _, err := os.Stat(resumePath); err != nil {
		return "Resume file does not exist"
	}
	if !strings.HasSuffix(strings.ToLower(resumePath), ".pdf") {
		return "Resume file must be in PDF format"
	}

	jobURL := strings.TrimSpace(in.JobURL)
	jobDescription := strings.TrimSpace(in.JobDescription)
	if jobURL == "" && jobDescription == "" {
		return "Please provide either a job posting URL or paste a job description"
	}
	if jobURL != "" && jobDescription != "" {
		return "Provide either a job posting URL or a job description, not both"
	}
	if jobURL != "" && !strings.HasPrefix(jobURL, "http://") && !strings.HasPrefix(jobURL, "https://") {
		return "Job URL must start with http:// or https://"
	}

	writeup := strings.TrimSpace(in.Writeup)
	if writeup == "" {
		return "Please enter a personal description (mandatory field)"
	}
	if len(writeup) < 20 {
		return "Personal description is too short (minimum 20 characters)"
	}

	return ""
}
