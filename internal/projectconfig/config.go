// Package projectconfig provides the ProjectConfig struct and loader for
// .prxdash.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/prxlab/prxdash/internal/models"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".prxdash.yaml"

// Default values for project configuration. These are the single source of
// truth: New() references them and no other code should duplicate them.
const (
	DefaultSourceKind = SourceDir
	DefaultSourceRoot = "data/"

	DefaultPercentile    = 0.9
	DefaultBaselineStyle = models.BaselineStyle
	DefaultTopN          = 5
	DefaultConcurrency   = 8

	DefaultServerPort = 3000

	DefaultHTTPTimeout = 30
)

// ErrUnknownDataset is returned by Dataset when no dataset matches.
var ErrUnknownDataset = errors.New("unknown dataset")

// Source kinds.
const (
	SourceDir    = "dir"
	SourceHTTP   = "http"
	SourceAzBlob = "azblob"
)

// SourceConfig says where score files are fetched from.
type SourceConfig struct {
	Kind string `yaml:"kind,omitempty"`
	// Root is the local directory for kind "dir".
	Root string `yaml:"root,omitempty"`
	// URL is the base URL for kind "http".
	URL string `yaml:"url,omitempty"`
	// AccountURL, Container and Prefix address blobs for kind "azblob".
	AccountURL string `yaml:"account_url,omitempty"`
	Container  string `yaml:"container,omitempty"`
	Prefix     string `yaml:"prefix,omitempty"`
	// Anonymous skips Azure credential lookup (public containers, SAS URLs).
	Anonymous *bool `yaml:"anonymous,omitempty"`
	// Timeout in seconds for HTTP fetches.
	Timeout int `yaml:"timeout,omitempty"`
}

// DatasetConfig names one evaluated dataset and the models scored on it.
type DatasetConfig struct {
	Name string `yaml:"name"`
	// Base is the path of the dataset under the source root. Defaults to Name.
	Base   string   `yaml:"base,omitempty"`
	Models []string `yaml:"models,omitempty"`
	// Categories, when set, split each model's scores into one file per category.
	Categories []string `yaml:"categories,omitempty"`
	// Instructions names the instruction file under Base, used by "top".
	Instructions string `yaml:"instructions,omitempty"`
}

// Path returns the dataset's base path.
func (d DatasetConfig) Path() string {
	if d.Base != "" {
		return d.Base
	}
	return d.Name
}

// MetricsConfig holds the metric vector layout.
type MetricsConfig struct {
	Names []string `yaml:"names,omitempty"`
}

// HighlightConfig holds highlight settings.
type HighlightConfig struct {
	// Percentile is a pointer so an explicit 0 survives merging.
	Percentile *float64 `yaml:"percentile,omitempty"`
}

// BaselineConfig holds the style all others are compared against.
type BaselineConfig struct {
	Style string `yaml:"style,omitempty"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Port           int      `yaml:"port,omitempty"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// TopConfig holds ranking sizes.
type TopConfig struct {
	// N <= 0 ranks everything. A pointer so an explicit 0 survives merging.
	N *int `yaml:"n,omitempty"`
}

// LoaderConfig bounds concurrent fetches.
type LoaderConfig struct {
	Concurrency int `yaml:"concurrency,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .prxdash.yaml.
type ProjectConfig struct {
	Source       SourceConfig    `yaml:"source,omitempty"`
	Datasets     []DatasetConfig `yaml:"datasets,omitempty"`
	Metrics      MetricsConfig   `yaml:"metrics,omitempty"`
	FamiliesFile string          `yaml:"families_file,omitempty"`
	Highlight    HighlightConfig `yaml:"highlight,omitempty"`
	Baseline     BaselineConfig  `yaml:"baseline,omitempty"`
	Server       ServerConfig    `yaml:"server,omitempty"`
	Top          TopConfig       `yaml:"top,omitempty"`
	Loader       LoaderConfig    `yaml:"loader,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Source: SourceConfig{
			Kind:      DefaultSourceKind,
			Root:      DefaultSourceRoot,
			Anonymous: boolPtr(false),
			Timeout:   DefaultHTTPTimeout,
		},
		Metrics: MetricsConfig{
			Names: append([]string(nil), models.DefaultMetricNames...),
		},
		Highlight: HighlightConfig{Percentile: floatPtr(DefaultPercentile)},
		Baseline:  BaselineConfig{Style: DefaultBaselineStyle},
		Server:    ServerConfig{Port: DefaultServerPort},
		Top:       TopConfig{N: intPtr(DefaultTopN)},
		Loader:    LoaderConfig{Concurrency: DefaultConcurrency},
	}
}

// MetricCount is the length of every score vector.
func (c *ProjectConfig) MetricCount() int {
	return len(c.Metrics.Names)
}

// Percentile returns the highlight percentile, or the default when unset.
func (c *ProjectConfig) Percentile() float64 {
	if c.Highlight.Percentile == nil {
		return DefaultPercentile
	}
	return *c.Highlight.Percentile
}

// TopN returns the ranking size, or the default when unset.
func (c *ProjectConfig) TopN() int {
	if c.Top.N == nil {
		return DefaultTopN
	}
	return *c.Top.N
}

// Dataset returns the dataset with the given name. An empty name selects the
// first configured dataset.
func (c *ProjectConfig) Dataset(name string) (DatasetConfig, error) {
	if len(c.Datasets) == 0 {
		return DatasetConfig{}, fmt.Errorf("%w: no datasets configured", ErrUnknownDataset)
	}
	if name == "" {
		return c.Datasets[0], nil
	}
	for _, d := range c.Datasets {
		if d.Name == name {
			return d, nil
		}
	}
	return DatasetConfig{}, fmt.Errorf("%w %q", ErrUnknownDataset, name)
}

// Validate checks the config for values that would make loading impossible.
func (c *ProjectConfig) Validate() error {
	var errs []error
	switch c.Source.Kind {
	case SourceDir:
		if c.Source.Root == "" {
			errs = append(errs, errors.New("source.root is required for kind dir"))
		}
	case SourceHTTP:
		if c.Source.URL == "" {
			errs = append(errs, errors.New("source.url is required for kind http"))
		}
	case SourceAzBlob:
		if c.Source.AccountURL == "" || c.Source.Container == "" {
			errs = append(errs, errors.New("source.account_url and source.container are required for kind azblob"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind %q is not one of dir, http, azblob", c.Source.Kind))
	}
	if c.MetricCount() == 0 {
		errs = append(errs, errors.New("metrics.names must not be empty"))
	}
	if p := c.Percentile(); math.IsNaN(p) || p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("highlight.percentile %v is outside [0, 1]", p))
	}
	seen := map[string]bool{}
	for i, d := range c.Datasets {
		if strings.TrimSpace(d.Name) == "" {
			errs = append(errs, fmt.Errorf("datasets[%d]: name is required", i))
			continue
		}
		if seen[d.Name] {
			errs = append(errs, fmt.Errorf("datasets[%d]: duplicate name %q", i, d.Name))
		}
		seen[d.Name] = true
		if len(d.Models) == 0 {
			errs = append(errs, fmt.Errorf("dataset %q: no models listed", d.Name))
		}
	}
	return errors.Join(errs...)
}

// Load finds .prxdash.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg, _, err := LoadWithPath(startDir)
	return cfg, err
}

// LoadWithPath is Load that also reports the file that was read, or "" when
// defaults were used.
func LoadWithPath(startDir string) (*ProjectConfig, string, error) {
	cfg := New()

	data, path, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, "", nil // no file found → return defaults
		}
		return nil, "", fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	if cfg.FamiliesFile != "" && !filepath.IsAbs(cfg.FamiliesFile) {
		cfg.FamiliesFile = filepath.Join(filepath.Dir(path), cfg.FamiliesFile)
	}
	if cfg.Source.Kind == SourceDir && !filepath.IsAbs(cfg.Source.Root) {
		cfg.Source.Root = filepath.Join(filepath.Dir(path), cfg.Source.Root)
	}
	return cfg, path, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// findConfigFile walks up from dir looking for .prxdash.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, string, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, "", os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Source
	if src.Source.Kind != "" {
		dst.Source.Kind = src.Source.Kind
	}
	if src.Source.Root != "" {
		dst.Source.Root = src.Source.Root
	}
	if src.Source.URL != "" {
		dst.Source.URL = src.Source.URL
	}
	if src.Source.AccountURL != "" {
		dst.Source.AccountURL = src.Source.AccountURL
	}
	if src.Source.Container != "" {
		dst.Source.Container = src.Source.Container
	}
	if src.Source.Prefix != "" {
		dst.Source.Prefix = src.Source.Prefix
	}
	if src.Source.Anonymous != nil {
		dst.Source.Anonymous = src.Source.Anonymous
	}
	if src.Source.Timeout != 0 {
		dst.Source.Timeout = src.Source.Timeout
	}

	if len(src.Datasets) > 0 {
		dst.Datasets = src.Datasets
	}
	if len(src.Metrics.Names) > 0 {
		dst.Metrics.Names = src.Metrics.Names
	}
	if src.FamiliesFile != "" {
		dst.FamiliesFile = src.FamiliesFile
	}
	if src.Highlight.Percentile != nil {
		dst.Highlight.Percentile = src.Highlight.Percentile
	}
	if src.Baseline.Style != "" {
		dst.Baseline.Style = src.Baseline.Style
	}

	// Server
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if len(src.Server.AllowedOrigins) > 0 {
		dst.Server.AllowedOrigins = src.Server.AllowedOrigins
	}

	if src.Top.N != nil {
		dst.Top.N = src.Top.N
	}
	if src.Loader.Concurrency != 0 {
		dst.Loader.Concurrency = src.Loader.Concurrency
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func floatPtr(f float64) *float64 {
	return &f
}

func intPtr(n int) *int {
	return &n
}
