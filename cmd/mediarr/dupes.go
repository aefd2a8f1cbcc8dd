package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	dupesCmd := &cobra.Command{
		Use:   "dupes",
		Short: "Find units sharing external ids",
		Long: `Scans the whole catalog for pairs of units that share a non-empty
external id (per provider namespace). Units without external ids are
never flagged.`,
		RunE: runDupes,
	}
	rootCmd.AddCommand(dupesCmd)
}

func runDupes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger()
	cat, closeDB, err := openCatalog(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	groups, err := cat.SearchDuplicates()
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Println("No duplicates found.")
		return nil
	}

	fmt.Printf("Duplicates (%d groups):\n\n", len(groups))
	for _, g := range groups {
		fmt.Printf("  %s:%s\n", g.Provider, g.ExtID)
		for _, id := range g.UnitIDs {
			u, err := cat.LookupByID(id)
			if err != nil {
				fmt.Printf("    [%d] (unreadable: %v)\n", id, err)
				continue
			}
			fmt.Printf("    [%d] %s (%d) - %s\n", u.ID, u.Title, u.Year, u.Path)
		}
		fmt.Println()
	}
	return nil
}
