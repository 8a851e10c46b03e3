// Package config defines the run configuration for the crawl simulator.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FrontierPolicy identifies which frontier implementation a run uses.
type FrontierPolicy string

const (
	PolicyRandom         FrontierPolicy = "random"
	PolicyBFS            FrontierPolicy = "bfs"
	PolicyDFS            FrontierPolicy = "dfs"
	PolicyQuality        FrontierPolicy = "oracle-quality"
	PolicyQualityUpdates FrontierPolicy = "oracle-quality-updates"
)

// IsQuality reports whether the policy requires qscores to be parsed.
func (p FrontierPolicy) IsQuality() bool {
	return p == PolicyQuality || p == PolicyQualityUpdates
}

// UpdatesEnabled reports whether the policy accepts priority updates for
// URLs already tracked by the frontier.
func (p FrontierPolicy) UpdatesEnabled() bool {
	return p == PolicyQualityUpdates
}

// SeenSetVariant identifies which SeenSet implementation a run uses.
type SeenSetVariant string

const (
	SeenSetHashed SeenSetVariant = "set"
	SeenSetBitmap SeenSetVariant = "bitarray"
)

// SeedsStrategy identifies how seed URLs are generated.
type SeedsStrategy string

const (
	SeedsRandom SeedsStrategy = "random"
	SeedsList   SeedsStrategy = "list"
)

// CorpusPaths locates the on-disk artifacts of one corpus collection.
type CorpusPaths struct {
	// URL2DocIDPath points at the zlib-compressed URL->DocId mapping file
	// consumed by internal/corpus.
	URL2DocIDPath string `yaml:"url2docid_path"`

	// OutlinksDir and InlinksDir are shard roots consumed by internal/shard,
	// laid out as DIR/<subdir>/<subdir>-<file_seq>.json.gz (+ .offset).
	OutlinksDir string `yaml:"outlinks_dir"`
	InlinksDir  string `yaml:"inlinks_dir"`

	// QScoreCachePath points at the gob-encoded (docids, scores) cache
	// consumed by internal/qscore.
	QScoreCachePath string `yaml:"qscore_cache_path"`

	// SeedsPath is a one-URL-per-line file used when SeedsStrategy = list.
	SeedsPath string `yaml:"seeds_path"`
}

// RunConfig is the full, YAML-loaded configuration of a crawl run. It is
// loaded once at process start and never mutated afterward.
type RunConfig struct {
	Collection string      `yaml:"collection"`
	Corpus     CorpusPaths `yaml:"corpus"`

	FrontierPolicy FrontierPolicy `yaml:"frontier_policy"`
	SeenSetVariant SeenSetVariant `yaml:"seenset_variant"`
	SeedsStrategy  SeedsStrategy  `yaml:"seeds_strategy"`

	NumSeedURLs     int `yaml:"num_seed_urls"`
	MaxPages        int `yaml:"max_pages"`
	SaveEveryNPages int `yaml:"save_every_n_pages"`

	RandomSeed int64 `yaml:"random_seed"`

	ExperimentName string `yaml:"experiment_name"`

	Paths  PathsConfig  `yaml:"paths"`
	Ledger LedgerConfig `yaml:"ledger"`
	Report ReportConfig `yaml:"report"`

	Verbose bool `yaml:"verbose"`
}

// PathsConfig groups the output locations a run writes to.
type PathsConfig struct {
	DownloadedPagesDir    string `yaml:"downloaded_pages_dir"`
	DownloadedPagesPrefix string `yaml:"downloaded_pages_prefix"`
	SeedsOutputPath       string `yaml:"seeds_output_path"`
}

// LedgerConfig controls the optional SQLite crawl-history sidecar.
type LedgerConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// ReportConfig controls the optional end-of-run XLSX summary.
type ReportConfig struct {
	Enabled bool   `yaml:"enabled"`
	XLSXPath string `yaml:"xlsx_path"`
}

// Default returns a RunConfig with conservative defaults.
func Default() *RunConfig {
	return &RunConfig{
		FrontierPolicy:  PolicyBFS,
		SeenSetVariant:  SeenSetHashed,
		SeedsStrategy:   SeedsRandom,
		NumSeedURLs:     10,
		MaxPages:        0,
		SaveEveryNPages: 1000,
		RandomSeed:      42,
		ExperimentName:  "exp_0",
		Paths: PathsConfig{
			DownloadedPagesDir:    "./downloads",
			DownloadedPagesPrefix: "downloaded",
			SeedsOutputPath:       "./seeds.txt",
		},
	}
}

// Load reads and parses a YAML run configuration file.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that a loaded configuration is internally consistent
// enough to construct an Orchestrator.
func (c *RunConfig) Validate() error {
	switch c.FrontierPolicy {
	case PolicyRandom, PolicyBFS, PolicyDFS, PolicyQuality, PolicyQualityUpdates:
	default:
		return fmt.Errorf("unknown frontier_policy %q", c.FrontierPolicy)
	}

	switch c.SeenSetVariant {
	case SeenSetHashed, SeenSetBitmap:
	default:
		return fmt.Errorf("unknown seenset_variant %q", c.SeenSetVariant)
	}

	if c.Corpus.URL2DocIDPath == "" {
		return fmt.Errorf("corpus.url2docid_path is required")
	}
	if c.SaveEveryNPages <= 0 {
		return fmt.Errorf("save_every_n_pages must be positive")
	}

	return nil
}
