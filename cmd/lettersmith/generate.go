package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lettersmith/internal/config"
	"lettersmith/internal/crew"
	"lettersmith/internal/logging"
	"lettersmith/internal/tui"
	"lettersmith/internal/writeup"
)

var (
	generateResume          string
	generateURL             string
	generateDescriptionFile string
	generateWriteup         string
	generateWriteupFile     string
	generateAPIKey          string
	generateModel           string
	generateSaveWriteup     bool
	generateQuiet           bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a cover letter without the interactive form",
	Long: `Generate a cover letter from flags and print it to stdout.

The same inputs as the interactive form: a resume PDF, either a job posting
URL or a file with the pasted description, and a personal writeup (inline or
from a file; falls back to the saved writeup when neither is given).

Examples:
  lettersmith generate --resume cv.pdf --url https://example.com/jobs/42 \
      --writeup "I build data pipelines and love teaching."
  lettersmith generate --resume cv.pdf --description posting.txt \
      --writeup-file about_me.txt`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateResume, "resume", "", "Path to the resume PDF (required)")
	generateCmd.Flags().StringVar(&generateURL, "url", "", "Job posting URL")
	generateCmd.Flags().StringVar(&generateDescriptionFile, "description", "", "File containing the pasted job description")
	generateCmd.Flags().StringVar(&generateWriteup, "writeup", "", "Personal writeup text")
	generateCmd.Flags().StringVar(&generateWriteupFile, "writeup-file", "", "File containing the personal writeup")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "Anthropic API key (overrides config)")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "Model name (overrides config)")
	generateCmd.Flags().BoolVar(&generateSaveWriteup, "save-writeup", false, "Save the writeup for future runs")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Print only the letter")
	generateCmd.MarkFlagRequired("resume")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store := writeup.NewStore(cfg.ResolveDataDir())

	writeupText, err := resolveWriteup(store)
	if err != nil {
		return err
	}

	var description string
	if generateDescriptionFile != "" {
		data, err := os.ReadFile(generateDescriptionFile)
		if err != nil {
			return fmt.Errorf("reading job description file: %w", err)
		}
		description = string(data)
	}

	req := tui.GenerateRequest{
		FormInput: tui.FormInput{
			ResumePath:     generateResume,
			JobURL:         generateURL,
			JobDescription: description,
			Writeup:        writeupText,
		},
		APIKey: generateAPIKey,
		Model:  generateModel,
	}

	if msg := tui.Validate(req.FormInput); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	if generateSaveWriteup {
		if err := store.Save(strings.TrimSpace(writeupText)); err != nil {
			fmt.Fprintf(os.Stderr, "%s saving writeup: %v\n", color.YellowString("⚠"), err)
		}
	}

	var events func(crew.Event)
	if !generateQuiet {
		events = func(e crew.Event) {
			switch e.Type {
			case "task_start":
				fmt.Fprintf(os.Stderr, "%s %s task started\n", color.CyanString("→"), e.Task)
			case "tool_use":
				fmt.Fprintf(os.Stderr, "  %s using %s\n", color.HiBlackString("·"), e.Detail)
			case "task_done":
				fmt.Fprintf(os.Stderr, "%s %s task finished\n", color.GreenString("✓"), e.Task)
			}
		}
	}

	log, _ := logging.New(cfg.ResolveDataDir())
	defer log.Close()

	letter, err := runGeneration(cmd.Context(), cfg, req, events, log)
	if err != nil {
		return fmt.Errorf("generating cover letter: %w", err)
	}

	if !generateQuiet {
		fmt.Fprintf(os.Stderr, "\n%s Cover letter generated\n\n", color.GreenString("✓"))
	}
	fmt.Println(letter)
	return nil
}

// resolveWriteup picks the writeup from flags, falling back to the saved one.
func resolveWriteup(store *writeup.Store) (string, error) {
	if generateWriteup != "" {
		return generateWriteup, nil
	}
	if generateWriteupFile != "" {
		data, err := os.ReadFile(generateWriteupFile)
		if err != nil {
			return "", fmt.Errorf("reading writeup file: %w", err)
		}
		return string(data), nil
	}
	text, found, err := store.Load()
	if err != nil {
		return "", fmt.Errorf("loading saved writeup: %w", err)
	}
	if !found {
		return "", fmt.Errorf("no writeup given: use --writeup, --writeup-file, or save one first")
	}
	return text, nil
}
