package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"arbor/internal/project"
)

var modulesCmd = &cobra.Command{
	Use:         "modules [dir]",
	Short:       "List the modules of the project with their content digests",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{needsProject: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := manifest.SourcesDir()
		if len(args) == 1 {
			dir = args[0]
		}
		return renderModules(cmd.OutOrStdout(), cmd.ErrOrStderr(), dir)
	},
}

// renderModules prints one line per module. Files that do not name a valid
// module are reported on errw without failing the listing.
func renderModules(w, errw io.Writer, dir string) error {
	files, err := project.DiscoverModules(dir)
	if files == nil && err != nil {
		return err
	}
	if err != nil {
		fmt.Fprintf(errw, "warning: %v\n", err)
	}
	for _, f := range files {
		content, readErr := os.ReadFile(f.Path)
		if readErr != nil {
			fmt.Fprintf(errw, "warning: %v\n", readErr)
			continue
		}
		rel, relErr := filepath.Rel(dir, f.Path)
		if relErr != nil {
			rel = f.Path
		}
		fmt.Fprintf(w, "%s  %-32s %s\n", project.HashContent(content).Short(), f.Module, filepath.ToSlash(rel))
	}
	return nil
}
