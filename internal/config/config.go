package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"go4example/internal/format"
	"go4example/internal/git"
	"go4example/pkg/example"
)

// DefaultFiles are looked up in the working directory when no config file is given.
var DefaultFiles = []string{"go4example.yaml", "go4example.yml", "go4example.toml"}

// Environment variables overriding the config file.
const (
	EnvRepoURL     = "GO4EXAMPLE_REPO_URL"
	EnvBranch      = "GO4EXAMPLE_BRANCH"
	EnvSourcePaths = "GO4EXAMPLE_SOURCE_PATHS"
	EnvLineLength  = "GO4EXAMPLE_LINE_LENGTH"
)

type Config struct {
	Repository struct {
		URL         string   `yaml:"url" toml:"url"`
		Branch      string   `yaml:"branch" toml:"branch"`
		SourcePaths []string `yaml:"source_paths" toml:"source_paths"`
		ModulePath  string   `yaml:"module_path" toml:"module_path"`
	} `yaml:"repository" toml:"repository"`
	Format struct {
		LineLength  int  `yaml:"line_length" toml:"line_length"`
		IndentWidth int  `yaml:"indent_width" toml:"indent_width"`
		TabWidth    int  `yaml:"tab_width" toml:"tab_width"`
		TokenAware  bool `yaml:"token_aware" toml:"token_aware"`
	} `yaml:"format" toml:"format"`
	Output struct {
		Dir string `yaml:"dir" toml:"dir"`
	} `yaml:"output" toml:"output"`
	Log struct {
		Level string `yaml:"level" toml:"level"`
	} `yaml:"log" toml:"log"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-" toml:"-"`
}

// LoadConfig reads path, or the first of DefaultFiles that exists when path
// is empty, and applies environment overrides. Without any file the defaults
// are used.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML or TOML config
	cfg := &Config{}
	if path == "" {
		path = findDefault()
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func findDefault() string {
	for _, name := range DefaultFiles {
		if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
			return name
		}
	}
	return ""
}

func (c *Config) readFile(path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	unmarshal := yaml.Unmarshal
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		unmarshal = toml.Unmarshal
	}

	var doc any
	if err := unmarshal(file, &doc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validateDocument(doc); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.Source = path
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvRepoURL); v != "" {
		c.Repository.URL = v
	}
	if v := os.Getenv(EnvBranch); v != "" {
		c.Repository.Branch = v
	}
	if v := os.Getenv(EnvSourcePaths); v != "" {
		var paths []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		c.Repository.SourcePaths = paths
	}
	if v := os.Getenv(EnvLineLength); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive number, got %q", EnvLineLength, v)
		}
		c.Format.LineLength = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Repository.SourcePaths) == 0 {
		c.Repository.SourcePaths = []string{"."}
	}
	if c.Format.LineLength == 0 {
		c.Format.LineLength = format.DefaultLineLength
	}
	if c.Format.IndentWidth == 0 {
		c.Format.IndentWidth = format.DefaultIndentWidth
	}
	if c.Format.TabWidth == 0 {
		c.Format.TabWidth = format.DefaultTabWidth
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

// FillFromGit sets the repository URL and branch, when they are not
// configured, from the git repository enclosing dir.
func (c *Config) FillFromGit(dir string) error {
	if c.Repository.URL != "" && c.Repository.Branch != "" {
		return nil
	}
	info, err := git.Discover(dir)
	if err != nil {
		return err
	}
	if c.Repository.URL == "" {
		c.Repository.URL = info.RemoteURL
	}
	if c.Repository.Branch == "" {
		c.Repository.Branch = info.Branch
	}
	return nil
}

// Repo returns the repository settings for building documents.
func (c *Config) Repo() example.Repository {
	return example.Repository{
		RepoURL:     c.Repository.URL,
		Branch:      c.Repository.Branch,
		SourcePaths: c.Repository.SourcePaths,
		ModulePath:  c.Repository.ModulePath,
	}
}

// BlockOptions returns the code block options matching the format settings.
func (c *Config) BlockOptions() []example.Option {
	return []example.Option{
		example.LineLength(c.Format.LineLength),
		example.IndentWidth(c.Format.IndentWidth),
	}
}

// FormatOptions returns the formatter settings.
func (c *Config) FormatOptions() format.Options {
	opts := format.DefaultOptions()
	opts.LineLength = c.Format.LineLength
	opts.IndentWidth = c.Format.IndentWidth
	opts.TabWidth = c.Format.TabWidth
	return opts
}

// DocOptions returns the document options matching the format settings.
func (c *Config) DocOptions() []example.DocOption {
	if c.Format.TokenAware {
		return []example.DocOption{example.WithTokenAwareExtraction()}
	}
	return nil
}
