package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tunedex/internal/browser"
	"tunedex/internal/discovery"
	"tunedex/internal/store"
	"tunedex/utils"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <queries.txt>",
	Short: "Search YouTube for each query and append new records to the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	queries, err := utils.ReadQueryLines(args[0])
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("query file %s contains no queries", args[0])
	}

	st := store.New(cfg.Store.Path)
	log.Infow("starting discovery", "queries", len(queries), "store", st.Path())

	session, err := browser.NewSession(cfg.Browser, "", log)
	if err != nil {
		return fmt.Errorf("starting browser session: %w", err)
	}
	defer session.Close()
	session.SetResultWait(cfg.Search.ResultWait())

	pipeline := discovery.New(st, session, cfg.Search, log, os.Stdout)
	summary, duplicates, err := pipeline.Run(queries)
	if err != nil {
		return err
	}

	fmt.Println("\n=== SUMMARY ===")
	fmt.Printf("Total time: %s\n", summary.Elapsed.Round(time.Second))
	fmt.Printf("Queries processed: %d/%d\n", summary.Processed, len(queries))
	fmt.Printf("New entries added: %d\n", summary.New)
	fmt.Printf("Duplicates detected: %d\n", summary.Duplicates)
	if summary.Processed > 0 {
		fmt.Printf("Average time per query: %s\n", summary.AveragePerQuery().Round(time.Millisecond))
	}

	if len(duplicates) > 0 {
		fmt.Println("\nDuplicates detected:")
		for _, dup := range duplicates {
			fmt.Printf("  - %q already exists as %q\n", dup.Query, dup.Existing.Title)
			if dup.Existing.DownloadPath != "" {
				fmt.Printf("    Path: %s\n", dup.Existing.DownloadPath)
			}
			if dup.Existing.Project != "" {
				fmt.Printf("    Project: %s\n", dup.Existing.Project)
			}
		}
	}

	fmt.Printf("\nStore updated: %s (%d entries)\n", st.Path(), len(st.Load()))
	return nil
}
