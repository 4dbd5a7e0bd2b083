// Package main provides the interactive front end of ibb-album.
//
// Usage:
//
//	ibb-album-tui [--config ibb-album.json5]
package main

import (
	"fmt"
	"os"

	"github.com/handiism/ibb-album/internal/config"
	"github.com/handiism/ibb-album/internal/tui"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the ibb-album-tui command.
func NewRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "ibb-album-tui",
		Short:         "Interactive Imgbb album link extractor",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := config.DefaultSettings()
			if configPath != "" {
				var err error
				settings, err = config.Load(configPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
			}
			return tui.Run(settings)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a JSON5 settings file")
	return cmd
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
