// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Database    DatabaseConfig     `toml:"database"`
	Log         LogConfig          `toml:"log"`
	Datasources []DatasourceConfig `toml:"datasources"`
	Scanner     ScannerConfig      `toml:"scanner"`
	Scraper     ScraperConfig      `toml:"scraper"`
	NFO         NFOConfig          `toml:"nfo"`
	Artwork     ArtworkConfig      `toml:"artwork"`
	Trailer     TrailerConfig      `toml:"trailer"`
	Watcher     WatcherConfig      `toml:"watcher"`
	Schedule    ScheduleConfig     `toml:"schedule"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`        // empty: stdout only
	MaxSizeMB  int    `toml:"max_size_mb"` // rotation threshold
	MaxBackups int    `toml:"max_backups"`
}

// DatasourceConfig is one configured filesystem root.
type DatasourceConfig struct {
	Name string `toml:"name"`
	Root string `toml:"root"`
}

type ScannerConfig struct {
	DetectMultiDir bool     `toml:"detect_multi_dir"`
	SkipFolders    []string `toml:"skip_folders"`
	Workers        int      `toml:"workers"`
}

type ScraperConfig struct {
	Provider  string      `toml:"provider"`
	Language  string      `toml:"language"`
	Country   string      `toml:"country"`
	Threshold float64     `toml:"threshold"`
	Fallback  bool        `toml:"fallback"`
	TrustIDs  bool        `toml:"trust_ids"` // reuse stored ids instead of searching
	Workers   int         `toml:"workers"`
	TMDB      *TMDBConfig `toml:"tmdb"`
}

type TMDBConfig struct {
	APIKey string `toml:"api_key"`
}

// NFOConfig gates which field groups a scrape pass writes.
type NFOConfig struct {
	Title      bool `toml:"title"`
	Plot       bool `toml:"plot"`
	Rating     bool `toml:"rating"`
	Cast       bool `toml:"cast"`
	Genres     bool `toml:"genres"`
	Collection bool `toml:"collection"`
	Artwork    bool `toml:"artwork"`
	Trailer    bool `toml:"trailer"`
}

type ArtworkConfig struct {
	PosterSize     int `toml:"poster_size"`
	FanartSize     int `toml:"fanart_size"`
	MaxExtraThumbs int `toml:"max_extra_thumbs"`
	MaxExtraFanart int `toml:"max_extra_fanart"`
}

type TrailerConfig struct {
	Quality string `toml:"quality"` // e.g. "1080p"
	Source  string `toml:"source"`  // e.g. "youtube"
}

type WatcherConfig struct {
	Enabled    bool `toml:"enabled"`
	DebounceMS int  `toml:"debounce_ms"`
}

type ScheduleConfig struct {
	Rescan string `toml:"rescan"` // cron spec, empty disables
}

// DefaultSkipFolders are never descended into during a scan.
var DefaultSkipFolders = []string{
	"@eadir", ".appledouble", "$recycle.bin", "recycler",
	"system volume information", "lost+found", "extrafanart", "extrathumbs",
}

// Load reads and parses the configuration file, substituting ${ENV_VAR}
// references and applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = "./data/mediarr.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 20
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if len(c.Scanner.SkipFolders) == 0 {
		c.Scanner.SkipFolders = DefaultSkipFolders
	}
	if c.Scanner.Workers == 0 {
		c.Scanner.Workers = 4
	}
	if c.Scraper.Language == "" {
		c.Scraper.Language = "en"
	}
	if c.Scraper.Country == "" {
		c.Scraper.Country = "US"
	}
	if c.Scraper.Threshold == 0 {
		c.Scraper.Threshold = 0.75
	}
	if c.Scraper.Workers == 0 {
		c.Scraper.Workers = 3
	}
	if c.Artwork.PosterSize == 0 {
		c.Artwork.PosterSize = 1000
	}
	if c.Artwork.FanartSize == 0 {
		c.Artwork.FanartSize = 1920
	}
	if c.Artwork.MaxExtraThumbs == 0 {
		c.Artwork.MaxExtraThumbs = 5
	}
	if c.Artwork.MaxExtraFanart == 0 {
		c.Artwork.MaxExtraFanart = 5
	}
	if c.Trailer.Quality == "" {
		c.Trailer.Quality = "1080p"
	}
	if c.Watcher.DebounceMS == 0 {
		c.Watcher.DebounceMS = 2000
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match
	})
}
