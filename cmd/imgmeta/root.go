package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for imgmeta.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imgmeta",
		Short: "Inspect image properties and EXIF metadata",
		Long: `imgmeta reads the basic properties and embedded EXIF tags of image files
and prints them grouped by category: image properties, camera information,
date and time, camera settings, GPS and other details.

Every report ends with a privacy summary of the metadata that discloses a
location, a device or a person. Reports are kept in a local history database
so later runs can be compared with earlier ones.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
