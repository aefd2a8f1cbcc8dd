package config

import (
	"fmt"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if len(c.Datasources) == 0 {
		errs = append(errs, "datasources: at least one datasource must be configured")
	}
	seen := map[string]bool{}
	for i, ds := range c.Datasources {
		if ds.Root == "" {
			errs = append(errs, fmt.Sprintf("datasources[%d].root: required", i))
			continue
		}
		if seen[ds.Root] {
			errs = append(errs, fmt.Sprintf("datasources[%d].root: duplicate root %q", i, ds.Root))
		}
		seen[ds.Root] = true
		if _, err := os.Stat(ds.Root); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("datasources[%d].root: warning: directory %q does not exist", i, ds.Root))
		}
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.Scraper.Threshold < 0 || c.Scraper.Threshold > 1 {
		errs = append(errs, fmt.Sprintf("scraper.threshold: must be in [0,1], got %v", c.Scraper.Threshold))
	}
	if c.Scraper.Workers < 1 {
		errs = append(errs, fmt.Sprintf("scraper.workers: must be at least 1, got %d", c.Scraper.Workers))
	}
	if c.Scanner.Workers < 1 {
		errs = append(errs, fmt.Sprintf("scanner.workers: must be at least 1, got %d", c.Scanner.Workers))
	}
	if c.Scraper.Provider == "tmdb" && (c.Scraper.TMDB == nil || c.Scraper.TMDB.APIKey == "") {
		errs = append(errs, "scraper.tmdb.api_key: required when provider is tmdb")
	}

	return errs
}
