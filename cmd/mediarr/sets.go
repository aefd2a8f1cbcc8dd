package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	setsCmd := &cobra.Command{
		Use:   "sets",
		Short: "List movie collections",
		RunE:  runSets,
	}
	rootCmd.AddCommand(setsCmd)
}

func runSets(cmd *cobra.Command, args []string) error {
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

	sets, err := cat.Store().ListSets()
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Println("No collections in catalog.")
		return nil
	}

	fmt.Printf("Collections (%d):\n\n", len(sets))
	for _, set := range sets {
		members, err := cat.Store().SetMembers(set.ID)
		if err != nil {
			return err
		}
		fmt.Printf("  %s (%d members)\n", set.Title, len(members))
		for _, u := range members {
			fmt.Printf("    [%d] %s (%d)\n", u.ID, u.Title, u.Year)
		}
		fmt.Println()
	}
	return nil
}
