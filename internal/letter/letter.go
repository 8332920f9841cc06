package letter

import (
	"context"
	"fmt"
	"time"

	"lettersmith/internal/crew"
	"lettersmith/internal/llm"
	"lettersmith/internal/tools"
)

// Request carries everything needed to generate one cover letter. Exactly one
// of JobPostingURL and JobPostingPath must be set; when both are set the URL
// takes precedence.
type Request struct {
	// ResumePath is the extracted plain-text resume.
	ResumePath string
	// JobPostingURL points at a live posting to scrape.
	JobPostingURL string
	// JobPostingPath is a file holding pasted posting text.
	JobPostingPath string
	// PersonalWriteup is the applicant's free-form self description.
	PersonalWriteup string
}

// Generator builds and runs the cover-letter crew.
type Generator struct {
	backend       llm.Backend
	embedder      llm.Embedder
	roles         Roles
	scrapeTimeout time.Duration
	onEvent       func(crew.Event)
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithEmbedder enables semantic search over documents. Without one the
// search tools fall back to keyword scoring.
func WithEmbedder(e llm.Embedder) GeneratorOption {
	return func(g *Generator) { g.embedder = e }
}

// WithRoles overrides the default agent personas.
func WithRoles(r Roles) GeneratorOption {
	return func(g *Generator) { g.roles = r }
}

// WithScrapeTimeout sets the HTTP timeout for the posting scraper.
func WithScrapeTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		if d > 0 {
			g.scrapeTimeout = d
		}
	}
}

// WithEvents forwards crew progress events, for example to a TUI.
func WithEvents(fn func(crew.Event)) GeneratorOption {
	return func(g *Generator) { g.onEvent = fn }
}

// NewGenerator creates a generator backed by the given model backend.
func NewGenerator(backend llm.Backend, opts ...GeneratorOption) *Generator {
	g := &Generator{
		backend:       backend,
		roles:         DefaultRoles(),
		scrapeTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the three-agent crew and returns the finished cover letter.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if req.ResumePath == "" {
		return "", fmt.Errorf("resume path is required")
	}
	if req.PersonalWriteup == "" {
		return "", fmt.Errorf("personal writeup is required")
	}
	if req.JobPostingURL == "" && req.JobPostingPath == "" {
		return "", fmt.Errorf("a job posting URL or pasted description is required")
	}

	tasks := g.buildTasks(req)

	inputs := map[string]string{
		"personal_writeup": req.PersonalWriteup,
	}
	if req.JobPostingURL != "" {
		inputs["job_posting_url"] = req.JobPostingURL
	}

	c := crew.New(g.backend, tasks, crew.WithEventHandler(g.onEvent))
	return c.Kickoff(ctx, inputs)
}

// buildTasks wires the agents, tools, and tasks for one request.
func (g *Generator) buildTasks(req Request) []*crew.Task {
	researcher := &crew.Agent{
		Role:      g.roles.Researcher.Role,
		Goal:      g.roles.Researcher.Goal,
		Backstory: g.roles.Researcher.Backstory,
		Tools:     []tools.Tool{tools.NewScrapeTool(g.scrapeTimeout)},
	}
	profiler := &crew.Agent{
		Role:      g.roles.Profiler.Role,
		Goal:      g.roles.Profiler.Goal,
		Backstory: g.roles.Profiler.Backstory,
		Tools: []tools.Tool{
			tools.NewFileReadTool("read_resume", "Read the applicant's full resume text", req.ResumePath),
			tools.NewTextSearchTool("search_resume", "Semantic search over the applicant's resume", req.ResumePath, g.embedder),
		},
	}
	writer := &crew.Agent{
		Role:      g.roles.Writer.Role,
		Goal:      g.roles.Writer.Goal,
		Backstory: g.roles.Writer.Backstory,
	}

	research := &crew.Task{
		Name:  "research",
		Agent: researcher,
		Async: true,
		ExpectedOutput: "A comprehensive profile document that includes the job description, " +
			"mandatory and optional requirements, skills, qualifications, and experiences.",
	}
	if req.JobPostingURL != "" {
		research.Description = "Analyze the job posting URL ({job_posting_url}) to extract and " +
			"synthesize key skills, experiences, and qualifications required. Use the tools to " +
			"gather content and identify and categorize the requirements."
	} else {
		// Pasted description: the researcher reads the saved posting file
		// instead of scraping.
		research.Description = "Analyze the job posting using tools to extract and synthesize " +
			"key skills, experiences, and qualifications required. Use the tools to gather " +
			"content and identify and categorize the requirements."
		research.Tools = []tools.Tool{
			tools.NewFileReadTool("read_job_posting", "Read the full job posting text", req.JobPostingPath),
			tools.NewTextSearchTool("search_job_posting", "Semantic search over the job posting", req.JobPostingPath, g.embedder),
		}
	}

	profile := &crew.Task{
		Name:  "profile",
		Agent: profiler,
		Async: true,
		Description: "Compile a detailed personal and professional profile using tools to extract " +
			"and synthesize information from the applicant resume and also emphasize the " +
			"candidate's personality and personal characteristic extracted from the personal " +
			"writeup ({personal_writeup}) of the candidate.",
		ExpectedOutput: "A comprehensive profile document that includes skills, project " +
			"experiences, contributions, interests, and communication style about the applicant.",
	}

	write := &crew.Task{
		Name:    "write",
		Agent:   writer,
		Context: []*crew.Task{research, profile},
		Description: "Using the profile description and job requirements obtained from previous " +
			"tasks, write the cover letter to highlight the most relevant areas of the applicant. " +
			"Adjust and enhance the cover letter content according to the applicants resume. Make " +
			"sure this is the best cover letter ever but don't make up any information. Match the " +
			"characteristics of the applicant with the job requirements and highlight how the " +
			"candidate's profile aligns with the job requirements, both on a professional and " +
			"personal side.",
		ExpectedOutput: "A cover letter document written on the basis to the job requirements and " +
			"the profile of the applicant that effectively highlights the candidate's " +
			"qualifications and experiences that match the job requirements.",
	}

	return []*crew.Task{research, profile, write}
}
