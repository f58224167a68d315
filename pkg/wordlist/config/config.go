// Package config holds the pipeline's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/internalerr"
	"github.com/xianyudd/wordlist-pipeline/pkg/wordlist/overlap"
)

// Config is the complete pipeline configuration.
type Config struct {
	Paths PathsConfig `yaml:"paths"`
	Plot  PlotConfig  `yaml:"plot"`
	Fetch FetchConfig `yaml:"fetch"`
	Crawl CrawlConfig `yaml:"crawl"`
}

// PathsConfig locates the registry and the stage directories.
type PathsConfig struct {
	SourcesFile   string `yaml:"sources_file"`
	RawDir        string `yaml:"raw_dir"`
	ExtractedDir  string `yaml:"extracted_dir"`
	NormalizedDir string `yaml:"normalized_dir"`
	FilteredDir   string `yaml:"filtered_dir"`
	OutDir        string `yaml:"out_dir"`
}

// PlotConfig sets plot defaults.
type PlotConfig struct {
	// MaxIntersections caps the shown UpSet combinations; 0 shows all.
	MaxIntersections int    `yaml:"max_intersections"`
	Metric           string `yaml:"metric"`
	Mode             string `yaml:"mode"`
}

// FetchConfig tunes raw source downloads.
type FetchConfig struct {
	Retries     int           `yaml:"retries"`
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
}

// CrawlConfig tunes the paginated dictionary crawler.
type CrawlConfig struct {
	Start    int           `yaml:"start"`
	End      int           `yaml:"end"`
	DelayMin time.Duration `yaml:"delay_min"`
	DelayMax time.Duration `yaml:"delay_max"`
	Retries  int           `yaml:"retries"`
}

// DefaultUserAgent identifies the fetcher and crawler.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"

// DefaultConfig returns the layout of a checkout run from its root.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			SourcesFile:   "sources/sources.txt",
			RawDir:        "data/raw",
			ExtractedDir:  "data/stage1_extracted",
			NormalizedDir: "data/stage2_normalized",
			FilteredDir:   "data/stage3_filtered",
			OutDir:        "out",
		},
		Plot: PlotConfig{
			MaxIntersections: overlap.DefaultMaxIntersections,
			Metric:           string(overlap.Jaccard),
			Mode:             string(overlap.ModeUpset),
		},
		Fetch: FetchConfig{
			Retries:     3,
			Concurrency: 4,
			Timeout:     10 * time.Minute,
			UserAgent:   DefaultUserAgent,
		},
		Crawl: CrawlConfig{
			Start:    1,
			End:      50,
			DelayMin: 150 * time.Millisecond,
			DelayMax: 350 * time.Millisecond,
			Retries:  4,
		},
	}
}

// Validate checks the configuration for values no command can run with.
func (c *Config) Validate() error {
	if c.Paths.SourcesFile == "" {
		return fmt.Errorf("%w: paths.sources_file is required", internalerr.ErrInvalidConfig)
	}
	if c.Paths.FilteredDir == "" {
		return fmt.Errorf("%w: paths.filtered_dir is required", internalerr.ErrInvalidConfig)
	}
	if c.Plot.MaxIntersections < 0 {
		return fmt.Errorf("%w: plot.max_intersections must be >= 0", internalerr.ErrInvalidConfig)
	}
	if _, err := overlap.ParseMetric(c.Plot.Metric); err != nil {
		return fmt.Errorf("%w: plot.metric: %v", internalerr.ErrInvalidConfig, err)
	}
	if _, err := overlap.ParseMode(c.Plot.Mode); err != nil {
		return fmt.Errorf("%w: plot.mode: %v", internalerr.ErrInvalidConfig, err)
	}
	if c.Fetch.Retries < 1 {
		return fmt.Errorf("%w: fetch.retries must be >= 1", internalerr.ErrInvalidConfig)
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("%w: fetch.concurrency must be >= 1", internalerr.ErrInvalidConfig)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("%w: fetch.timeout must be positive", internalerr.ErrInvalidConfig)
	}
	if c.Crawl.Start < 1 || c.Crawl.End < c.Crawl.Start {
		return fmt.Errorf("%w: crawl pages must satisfy 1 <= start <= end", internalerr.ErrInvalidConfig)
	}
	if c.Crawl.DelayMin < 0 || c.Crawl.DelayMax < c.Crawl.DelayMin {
		return fmt.Errorf("%w: crawl delays must satisfy 0 <= delay_min <= delay_max", internalerr.ErrInvalidConfig)
	}
	if c.Crawl.Retries < 1 {
		return fmt.Errorf("%w: crawl.retries must be >= 1", internalerr.ErrInvalidConfig)
	}
	return nil
}

// LoadFromFile overlays a YAML file on DefaultConfig and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load returns DefaultConfig when path is empty, otherwise LoadFromFile.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFromFile(path)
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
