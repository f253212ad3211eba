package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arbor/internal/project"
)

// loadManifest returns the manifest named by --config, or the nearest
// arbor.toml above the working directory. Without one the defaults apply
// with the working directory as root.
func loadManifest(cmd *cobra.Command) (*project.Manifest, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return project.LoadManifestFile(path)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	m, _, err := project.LoadManifest(cwd)
	return m, err
}
