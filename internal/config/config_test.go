package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Anthropic.APIKey != "" {
		t.Errorf("expected empty default api key, got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Anthropic.Model != DefaultAnthropicModel {
		t.Errorf("expected default model %q, got %q", DefaultAnthropicModel, cfg.Anthropic.Model)
	}

	if cfg.Ollama.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("expected default ollama base url, got %q", cfg.Ollama.BaseURL)
	}

	if cfg.Ollama.Model != "qwen3:latest" {
		t.Errorf("expected default ollama model 'qwen3:latest', got %q", cfg.Ollama.Model)
	}

	if cfg.Embedder.Model != "mxbai-embed-large:latest" {
		t.Errorf("expected default embedder model, got %q", cfg.Embedder.Model)
	}

	if cfg.Scraper.Timeout != 30*time.Second {
		t.Errorf("expected scraper timeout 30s, got %v", cfg.Scraper.Timeout)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-haiku-4-5-20251001
  use_bedrock: true
  aws_region: us-west-2
ollama:
  base_url: http://10.0.0.5:11434/v1
  model: llama3
embedder:
  model: nomic-embed-text
scraper:
  timeout: 45s
data_dir: /tmp/lettersmith-test
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Anthropic.Model != "claude-haiku-4-5-20251001" {
		t.Errorf("expected model 'claude-haiku-4-5-20251001', got %q", cfg.Anthropic.Model)
	}

	if !cfg.Anthropic.UseBedrock {
		t.Error("expected use_bedrock to be true")
	}

	if cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("expected aws_region 'us-west-2', got %q", cfg.Anthropic.AWSRegion)
	}

	if cfg.Ollama.BaseURL != "http://10.0.0.5:11434/v1" {
		t.Errorf("expected ollama base url override, got %q", cfg.Ollama.BaseURL)
	}

	if cfg.Embedder.Model != "nomic-embed-text" {
		t.Errorf("expected embedder model 'nomic-embed-text', got %q", cfg.Embedder.Model)
	}

	if cfg.Scraper.Timeout != 45*time.Second {
		t.Errorf("expected scraper timeout 45s, got %v", cfg.Scraper.Timeout)
	}

	if cfg.DataDir != "/tmp/lettersmith-test" {
		t.Errorf("expected data_dir '/tmp/lettersmith-test', got %q", cfg.DataDir)
	}
}

func TestExpandEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "expanded-value")
	defer os.Unsetenv("TEST_VAR")

	result := expandEnv("${TEST_VAR}")
	if result != "expanded-value" {
		t.Errorf("expected 'expanded-value', got %q", result)
	}

	result = expandEnv("prefix-${TEST_VAR}-suffix")
	if result != "prefix-expanded-value-suffix" {
		t.Errorf("expected 'prefix-expanded-value-suffix', got %q", result)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	defer os.Unsetenv("XDG_CONFIG_HOME")

	dir := getUserConfigDir()
	expected := "/custom/config/lettersmith"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestResolveDataDir(t *testing.T) {
	cfg := Default()

	cfg.DataDir = "/explicit/path"
	if got := cfg.ResolveDataDir(); got != "/explicit/path" {
		t.Errorf("expected explicit data dir, got %q", got)
	}

	cfg.DataDir = ""
	os.Setenv("XDG_DATA_HOME", "/custom/data")
	defer os.Unsetenv("XDG_DATA_HOME")
	if got := cfg.ResolveDataDir(); got != "/custom/data/lettersmith" {
		t.Errorf("expected XDG data dir, got %q", got)
	}
}

func TestResolveDataDirExpandsEnv(t *testing.T) {
	os.Setenv("LS_TEST_BASE", "/base")
	defer os.Unsetenv("LS_TEST_BASE")

	cfg := Default()
	cfg.DataDir = "${LS_TEST_BASE}/letters"
	if got := cfg.ResolveDataDir(); got != "/base/letters" {
		t.Errorf("expected '/base/letters', got %q", got)
	}
}
