package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mediarr/mediarr/internal/scanner"
)

func init() {
	scanCmd := &cobra.Command{
		Use:   "scan [datasource]",
		Short: "Scan datasources for media units",
		Long: `Walks the configured datasource roots, discovers movies (single
directories, multi-movie directories, disc structures), and reconciles
the catalog against what is on disk. With a datasource name, only that
datasource is scanned.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	datasources, err := datasourcesFor(cfg, name)
	if err != nil {
		return err
	}
	if len(datasources) == 0 {
		return fmt.Errorf("no datasources configured")
	}

	log := newLogger()
	cat, closeDB, err := openCatalog(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scanner.New(cat, cfg.Scanner, nil, nil, nil, log)
	progress := func(current, total int, label string) {
		fmt.Printf("\r  [%d/%d] %-60.60s", current, total, label)
	}

	for _, ds := range datasources {
		fmt.Printf("Scanning %s (%s)\n", ds.Name, ds.Root)
		sum, err := s.Scan(ctx, ds, progress)
		fmt.Println()
		if err != nil {
			fmt.Fprintf(os.Stderr, "  scan failed: %v\n", err)
			continue
		}
		fmt.Printf("  %d units found, %d new, %d removed\n",
			sum.UnitsFound, sum.UnitsNew, sum.Removed)
	}
	return nil
}
