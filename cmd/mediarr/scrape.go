package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mediarr/mediarr/internal/catalog"
	"github.com/mediarr/mediarr/internal/config"
	"github.com/mediarr/mediarr/internal/provider"
	"github.com/mediarr/mediarr/internal/scrape"
	"github.com/mediarr/mediarr/internal/tmdb"
)

func init() {
	scrapeCmd := &cobra.Command{
		Use:   "scrape [unit-id...]",
		Short: "Fetch metadata for media units",
		Long: `Resolves each unit against the configured metadata provider, applies
the fetched metadata, and writes the NFO sidecar. Without arguments,
every unscraped unit is processed; unit ids restrict the batch.`,
		RunE: runScrape,
	}
	scrapeCmd.Flags().Bool("all", false, "Scrape every unit, including already scraped ones")
	rootCmd.AddCommand(scrapeCmd)
}

// buildRegistry wires the configured metadata providers.
func buildRegistry(cfg *config.Config) (*provider.Registry, error) {
	reg := provider.NewRegistry()
	if cfg.Scraper.TMDB == nil || cfg.Scraper.TMDB.APIKey == "" {
		return nil, fmt.Errorf("no metadata provider configured (set scraper.tmdb.api_key)")
	}
	client := tmdb.NewClient(cfg.Scraper.TMDB.APIKey, tmdb.WithLanguage(cfg.Scraper.Language))
	if err := reg.Register(tmdb.NewProvider(client, cfg.Scraper.Country)); err != nil {
		return nil, err
	}
	return reg, nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")

	log := newLogger()
	cat, closeDB, err := openCatalog(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	units, err := unitsToScrape(cat, args, all)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		fmt.Println("Nothing to scrape.")
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := scrape.OptionsFromConfig(cfg)
	coord := scrape.NewCoordinator(cat, reg, opts, nil, nil, log)

	fmt.Printf("Scraping %d units via %s\n", len(units), opts.Provider)
	progress := func(current, total int, label string) {
		fmt.Printf("\r  [%d/%d] %-60.60s", current, total, label)
	}
	sum, err := coord.ScrapeAll(ctx, units, progress)
	fmt.Println()
	if err != nil {
		return err
	}

	fmt.Printf("  %d scraped, %d rejected, %d failed\n", sum.Scraped, sum.Rejected, sum.Failed)
	if sum.Cancelled {
		fmt.Println("  batch cancelled")
	}
	return nil
}

func unitsToScrape(cat *catalog.Catalog, args []string, all bool) ([]*catalog.Unit, error) {
	if len(args) > 0 {
		var units []*catalog.Unit
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid unit id: %s", arg)
			}
			u, err := cat.LookupByID(id)
			if err != nil {
				return nil, fmt.Errorf("unit %d: %w", id, err)
			}
			units = append(units, u)
		}
		return units, nil
	}

	filter := catalog.UnitFilter{}
	if !all {
		scraped := false
		filter.Scraped = &scraped
	}
	units, _, err := cat.Store().ListUnits(filter)
	return units, err
}
