package main

import (
	"context"
	"fmt"
	"strings"

	"lettersmith/internal/config"
	"lettersmith/internal/crew"
	"lettersmith/internal/extract"
	"lettersmith/internal/history"
	"lettersmith/internal/letter"
	"lettersmith/internal/llm"
	"lettersmith/internal/logging"
	"lettersmith/internal/tui"
)

// runGeneration is the full pipeline behind one form submission: extract the
// resume into a fresh workspace, select the backend, run the crew, and record
// the letter in history. Shared by the TUI and the generate subcommand.
// log may be nil.
func runGeneration(ctx context.Context, cfg *config.Config, req tui.GenerateRequest, events func(crew.Event), log *logging.Logger) (string, error) {
	opts := backendOptions(cfg, req.APIKey, req.Model)
	backend, err := llm.NewBackend(opts)
	if err != nil {
		return "", fmt.Errorf("creating backend: %w", err)
	}
	log.Printf("generation started: model=%s resume=%s", backend.Model(), req.ResumePath)

	workspace, err := extract.NewWorkspace(cfg.ResolveDataDir())
	if err != nil {
		return "", fmt.Errorf("creating workspace: %w", err)
	}
	defer workspace.Cleanup()

	resumePath, err := workspace.ExtractResume(req.ResumePath)
	if err != nil {
		log.Printf("generation failed: %v", err)
		return "", fmt.Errorf("extracting resume: %w", err)
	}

	genReq := letter.Request{
		ResumePath:      resumePath,
		PersonalWriteup: strings.TrimSpace(req.Writeup),
	}
	jobURL := strings.TrimSpace(req.JobURL)
	if jobURL != "" {
		genReq.JobPostingURL = jobURL
	} else {
		postingPath, err := workspace.WriteJobDescription(strings.TrimSpace(req.JobDescription))
		if err != nil {
			return "", fmt.Errorf("writing job description: %w", err)
		}
		genReq.JobPostingPath = postingPath
	}

	roles, err := letter.LoadRoles(config.GetAgentsPath())
	if err != nil {
		return "", fmt.Errorf("loading agent roles: %w", err)
	}

	genOpts := []letter.GeneratorOption{
		letter.WithRoles(roles),
		letter.WithScrapeTimeout(cfg.Scraper.Timeout),
	}
	// Semantic search needs a local embedding model; the hosted backend has
	// no embeddings endpoint, so keyword search is used there.
	if opts.APIKey == "" && !opts.UseBedrock {
		genOpts = append(genOpts,
			letter.WithEmbedder(llm.NewOpenAIEmbedder(cfg.Ollama.BaseURL, cfg.Embedder.Model, "")))
	}
	if events != nil {
		genOpts = append(genOpts, letter.WithEvents(events))
	}

	text, err := letter.NewGenerator(backend, genOpts...).Generate(ctx, genReq)
	if err != nil {
		log.Printf("generation failed: %v", err)
		return "", err
	}
	tokensIn, tokensOut := backend.Tracker().Total()
	log.Printf("generation finished: %d characters, tokens in=%d out=%d", len(text), tokensIn, tokensOut)

	recordLetter(cfg, jobURL, backend.Model(), text)
	return text, nil
}

// backendOptions merges config with per-request credential overrides.
func backendOptions(cfg *config.Config, apiKey, model string) llm.Options {
	opts := llm.Options{
		APIKey:        cfg.Anthropic.APIKey,
		Model:         cfg.Anthropic.Model,
		UseBedrock:    cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
		OllamaBaseURL: cfg.Ollama.BaseURL,
		OllamaModel:   cfg.Ollama.Model,
	}
	if apiKey != "" {
		opts.APIKey = apiKey
	}
	if model != "" {
		opts.Model = model
		opts.OllamaModel = model
	}
	return opts
}

// recordLetter stores a generated letter. History failures don't fail the
// generation; the letter is already in hand.
func recordLetter(cfg *config.Config, jobURL, model, text string) {
	source := jobURL
	if source == "" {
		source = "pasted description"
	}

	store, err := history.Open(history.DBPath(cfg.ResolveDataDir()))
	if err != nil {
		return
	}
	defer store.Close()
	store.Add(source, model, text)
}
