package main

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"arbor/internal/project"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Print the effective project configuration",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{needsProject: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderConfig(cmd.OutOrStdout(), manifest)
	},
}

func renderConfig(w io.Writer, m *project.Manifest) error {
	if m.Path != "" {
		fmt.Fprintf(w, "# %s\n", m.Path)
	} else {
		fmt.Fprintf(w, "# no %s found, defaults for %s\n", project.ManifestName, m.Root)
	}
	return toml.NewEncoder(w).Encode(m.Config)
}
