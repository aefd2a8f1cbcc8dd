package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mediarr/mediarr/internal/catalog"
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged media units",
		RunE:  runList,
	}
	listCmd.Flags().StringP("search", "s", "", "Fuzzy title search")
	listCmd.Flags().Bool("new", false, "Only units found by the most recent scan")
	listCmd.Flags().Bool("unscraped", false, "Only units without metadata")
	listCmd.Flags().IntP("limit", "l", 50, "Maximum number of units to list")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	search, _ := cmd.Flags().GetString("search")
	newOnly, _ := cmd.Flags().GetBool("new")
	unscraped, _ := cmd.Flags().GetBool("unscraped")
	limit, _ := cmd.Flags().GetInt("limit")

	log := newLogger()
	cat, closeDB, err := openCatalog(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	if search != "" {
		matches, err := cat.SearchTitles(search)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		units := make([]*catalog.Unit, 0, len(matches))
		for _, m := range matches {
			units = append(units, m.Unit)
		}
		printUnits(units, len(units))
		return nil
	}

	filter := catalog.UnitFilter{Limit: limit}
	if newOnly {
		v := true
		filter.NewlyAdded = &v
	}
	if unscraped {
		v := false
		filter.Scraped = &v
	}
	units, total, err := cat.Store().ListUnits(filter)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		fmt.Println("Catalog is empty.")
		return nil
	}
	printUnits(units, total)
	return nil
}

func printUnits(units []*catalog.Unit, total int) {
	fmt.Printf("Catalog (%d units):\n\n", total)
	fmt.Printf("  %-5s %-42s %-6s %-8s %-6s %s\n", "ID", "TITLE", "YEAR", "SCRAPED", "FILES", "PATH")
	fmt.Println("  " + strings.Repeat("-", 100))

	for _, u := range units {
		title := u.Title
		if len(title) > 42 {
			title = title[:39] + "..."
		}
		scraped := "no"
		if u.IsScraped() {
			scraped = "yes"
		}
		fmt.Printf("  %-5d %-42s %-6d %-8s %-6d %s\n",
			u.ID, title, u.Year, scraped, len(u.Files), u.Path)
	}

	if total > len(units) {
		fmt.Printf("\n  Showing %d of %d units. Use --limit to see more.\n", len(units), total)
	}
}
