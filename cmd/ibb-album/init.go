package main

import (
	"fmt"
	"os"

	"github.com/handiism/ibb-album/internal/config"
	"github.com/spf13/cobra"
)

// configFileName is the default settings file name.
const configFileName = "ibb-album.json5"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the default values",
		Long: `Init writes every setting with its default value, ready to edit.

Settings files are read as JSON5, so comments and trailing commas are
allowed once edited. A sibling "<name>.local.<ext>" file is merged on top
when loading, which keeps machine-specific paths out of shared files.

Examples:
  # Create ibb-album.json5 in the current directory
  ibb-album init

  # Create the file at a specific path
  ibb-album init -o ~/.config/ibb-album.json5

  # Force overwrite an existing file
  ibb-album init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName, "Output file path for the settings")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing settings file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("settings file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	if err := config.DefaultSettings().Save(outputPath); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Created %s\n", outputPath)
	return nil
}
