package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"tunedex/internal/inspector"
	"tunedex/internal/store"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect and curate the record store",
}

var inspectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, err := newInspector()
		if err != nil {
			return err
		}
		insp.List()
		return nil
	},
}

var inspectStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, err := newInspector()
		if err != nil {
			return err
		}
		insp.Stats()
		return nil
	},
}

var inspectSetProjectCmd = &cobra.Command{
	Use:   "set-project <position> <project>",
	Short: "Tag the record at the given position with a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		position, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("position must be a number: %w", err)
		}
		insp, err := newInspector()
		if err != nil {
			return err
		}
		return insp.SetProject(position, args[1])
	},
}

var inspectFindCmd = &cobra.Command{
	Use:   "find <project>",
	Short: "List records whose project matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, err := newInspector()
		if err != nil {
			return err
		}
		insp.FindByProject(args[0])
		return nil
	},
}

func init() {
	inspectCmd.AddCommand(inspectListCmd)
	inspectCmd.AddCommand(inspectStatsCmd)
	inspectCmd.AddCommand(inspectSetProjectCmd)
	inspectCmd.AddCommand(inspectFindCmd)
}

func newInspector() (*inspector.Inspector, error) {
	cfg, _, err := setup()
	if err != nil {
		return nil, err
	}
	return inspector.New(store.New(cfg.Store.Path), os.Stdout), nil
}
