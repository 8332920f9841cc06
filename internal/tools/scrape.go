package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"lettersmith/internal/llm"
)

var collapseWhitespace = regexp.MustCompile(`[ \t]+`)
var collapseBlankLines = regexp.MustCompile(`\n{3,}`)

// ScrapeTool fetches a web page and returns its visible text. It is handed
// to the researcher agent so it can read job postings from a URL.
type ScrapeTool struct {
	httpClient *http.Client
}

// NewScrapeTool creates a scrape tool with the given request timeout.
func NewScrapeTool(timeout time.Duration) *ScrapeTool {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ScrapeTool{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Definition implements Tool.
func (t *ScrapeTool) Definition() llm.ToolDef {
	return llm.ToolDef{
		Name:        "scrape_website",
		Description: "Fetch a web page and return its visible text content. Use this to read the job posting at the given URL.",
		Properties: map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The http(s) URL of the page to fetch",
			},
		},
		Required: []string{"url"},
	}
}

// Run implements Tool.
func (t *ScrapeTool) Run(ctx context.Context, input json.RawMessage) (string, error) {
	var params struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(input, &params); err != nil {
		return "", fmt.Errorf("invalid scrape parameters: %w", err)
	}
	if !strings.HasPrefix(params.URL, "http://") && !strings.HasPrefix(params.URL, "https://") {
		return "", fmt.Errorf("url must start with http:// or https://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, params.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build scrape request: %w", err)
	}
	req.Header.Set("User-Agent", "lettersmith/1.0")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", params.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: status %d", params.URL, resp.StatusCode)
	}

	text, err := htmlToText(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", params.URL, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no visible text at %s", params.URL)
	}

	return truncate(text), nil
}

// htmlToText reduces an HTML document to its visible text, one block
// element per line.
func htmlToText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, nav, header, footer").Remove()

	var b strings.Builder
	doc.Find("title, h1, h2, h3, h4, h5, h6, p, li, td, th, dt, dd, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		line := strings.TrimSpace(s.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
	})

	text := b.String()
	if strings.TrimSpace(text) == "" {
		// Fall back to the whole body for pages without block markup.
		text = doc.Find("body").Text()
	}

	text = collapseWhitespace.ReplaceAllString(text, " ")
	text = collapseBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}
