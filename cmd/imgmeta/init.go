package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/imgmeta/internal/config"
)

//go:embed templates/imgmeta.yaml
var configTemplate embed.FS

// templatePath is the location of the configuration template in configTemplate.
const templatePath = "templates/imgmeta.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an imgmeta configuration file",
		Long: `Init writes a commented .imgmeta configuration file.

The generated file documents every option:
- Default GPS redaction, decoder fallback and file size limit
- Per-path overrides using glob patterns
- Batch size, default filter and report format
- History database settings

Examples:
  # Create .imgmeta in the current directory
  imgmeta init

  # Create the config file at a specific path
  imgmeta init -o ~/.config/imgmeta/config.yaml

  # Overwrite an existing file
  imgmeta init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure:")
	fmt.Fprintln(out, "  - GPS redaction and decoder fallback per path")
	fmt.Fprintln(out, "  - The default report format and filter")
	fmt.Fprintln(out, "  - Where the extraction history is stored")
	return nil
}
