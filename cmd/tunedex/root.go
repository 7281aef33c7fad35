// Command tunedex automates building and downloading a song collection:
// discover records from YouTube searches, convert them to MP3 through a
// web converter, inspect and curate the shared store.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tunedex/internal/logger"
	"tunedex/pkg/config"
)

var (
	cfgFile string
	debug   bool

	rootCmd = &cobra.Command{
		Use:           "tunedex",
		Short:         "Song discovery and MP3 conversion automation",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(inspectCmd)
}

// setup loads the config and builds the logger shared by all commands.
func setup() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, log, nil
}
