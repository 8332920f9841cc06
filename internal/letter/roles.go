// Package letter assembles the cover-letter crew: a job analyst, a personal
// profiler, and a writer, wired to scraping and document-search tools.
package letter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RoleSpec describes one agent's persona.
type RoleSpec struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// Roles holds the personas for the three cover-letter agents.
type Roles struct {
	Researcher RoleSpec `yaml:"researcher"`
	Profiler   RoleSpec `yaml:"profiler"`
	Writer     RoleSpec `yaml:"writer"`
}

// DefaultRoles returns the built-in agent personas.
func DefaultRoles() Roles {
	return Roles{
		Researcher: RoleSpec{
			Role: "Tech Job Analyst",
			Goal: "Analyze job descriptions to identify key requirements and skills",
			Backstory: "As a Job Analyst, your expertise in navigating and extracting critical " +
				"information from job postings is unmatched. Your skills help pinpoint and highlight " +
				"the necessary qualifications and skills sought by employers, forming the foundation " +
				"for effective application tailoring.",
		},
		Profiler: RoleSpec{
			Role: "Personal Profiler for Engineers",
			Goal: "Analyze job applicants' resumes to help them stand out in the job market and " +
				"write a personal profile for the applicant.",
			Backstory: "Equipped with analytical expertise, you dissect and synthesize information " +
				"from diverse sources, including resumes to craft comprehensive personal and " +
				"professional profiles of job applicants laying the groundwork for personalized " +
				"cover letter writing.",
		},
		Writer: RoleSpec{
			Role: "Cover Letter Writer for Engineers",
			Goal: "Write an outstanding cover letter for a given candidate applying to a given " +
				"job position.",
			Backstory: "With a strategic mind and an eye for detail, you excel at writing cover " +
				"letters to highlight the most relevant skills and experiences of a candidate, " +
				"ensuring they resonate perfectly with the job's requirements.",
		},
	}
}

// LoadRoles reads persona overrides from a YAML file. A missing file returns
// the defaults; fields left empty in the file keep their default values.
func LoadRoles(path string) (Roles, error) {
	roles := DefaultRoles()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return roles, nil
		}
		return roles, fmt.Errorf("reading roles file: %w", err)
	}

	var override Roles
	if err := yaml.Unmarshal(data, &override); err != nil {
		return roles, fmt.Errorf("parsing roles file %s: %w", path, err)
	}

	merge(&roles.Researcher, override.Researcher)
	merge(&roles.Profiler, override.Profiler)
	merge(&roles.Writer, override.Writer)
	return roles, nil
}

func merge(dst *RoleSpec, src RoleSpec) {
	if src.Role != "" {
		dst.Role = src.Role
	}
	if src.Goal != "" {
		dst.Goal = src.Goal
	}
	if src.Backstory != "" {
		dst.Backstory = src.Backstory
	}
}
