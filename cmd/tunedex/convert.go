package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tunedex/internal/browser"
	"tunedex/internal/converter"
	"tunedex/internal/store"
)

var convertCmd = &cobra.Command{
	Use:   "convert <download-dir>",
	Short: "Convert and download every record not yet done",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	st := store.New(cfg.Store.Path)
	if !st.Exists() {
		return fmt.Errorf("store file %s does not exist", st.Path())
	}

	downloadDir := args[0]
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return fmt.Errorf("creating download directory %s: %w", downloadDir, err)
	}
	log.Infow("starting conversion", "store", st.Path(), "download_dir", downloadDir)

	session, err := browser.NewSession(cfg.Browser, downloadDir, log)
	if err != nil {
		return fmt.Errorf("starting browser session: %w", err)
	}
	defer session.Close()

	pipeline := converter.New(st, session, cfg.Converter, downloadDir, log, os.Stdout)
	summary, err := pipeline.Run()
	if err != nil {
		return err
	}

	fmt.Println("\n=== FINAL SUMMARY ===")
	fmt.Printf("Total time: %s\n", summary.Elapsed.Round(time.Second))
	fmt.Printf("Entries processed: %d (already done: %d)\n", summary.Processed, summary.AlreadyDone)
	fmt.Printf("Successful downloads: %d\n", summary.Succeeded)
	if summary.Processed > 0 {
		fmt.Printf("Success rate: %.1f%%\n", summary.SuccessRate())
		fmt.Printf("Average time per entry: %s\n", summary.AveragePerEntry().Round(time.Millisecond))
	}
	return nil
}
