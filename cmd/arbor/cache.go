package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"arbor/internal/depcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clean the dependency cache",
}

var cacheListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List cached dependency entries",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{needsProject: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		return renderCacheList(cmd.OutOrStdout(), c)
	},
}

var cacheShowCmd = &cobra.Command{
	Use:         "show <key-prefix>",
	Short:       "Show the imports stored in one entry",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{needsProject: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		return renderCacheEntry(cmd.OutOrStdout(), c, args[0])
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:         "clean",
	Short:       "Remove every cached entry",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{needsProject: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		n, err := c.Clean()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries from %s\n", n, c.Dir())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd, cacheShowCmd, cacheCleanCmd)
}

func openCache() (*depcache.Cache, error) {
	if manifest == nil {
		return nil, errors.New("no project configuration loaded")
	}
	if manifest.Config.Cache.Disabled {
		return nil, errors.New("dependency cache is disabled in [cache]")
	}
	return depcache.Open(manifest.CacheDir())
}

func renderCacheList(w io.Writer, c *depcache.Cache) error {
	list, err := c.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "cache is empty")
		return err
	}
	bad := color.New(color.FgRed)
	for _, l := range list {
		if l.Err != nil {
			fmt.Fprintf(w, "%s  %s\n", l.Key.Short(), bad.Sprint(l.Err))
			continue
		}
		e := l.Entry
		fmt.Fprintf(w, "%s  %-24s %-10s %d imports  %s\n",
			l.Key.Short(), e.Module, e.Target, len(e.Dependencies), e.Created.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// renderCacheEntry prints the entry whose key starts with prefix. Ambiguous
// prefixes are rejected.
func renderCacheEntry(w io.Writer, c *depcache.Cache, prefix string) error {
	list, err := c.List()
	if err != nil {
		return err
	}
	var match *depcache.Listing
	for i := range list {
		if !strings.HasPrefix(list[i].Key.String(), strings.ToLower(prefix)) {
			continue
		}
		if match != nil {
			return fmt.Errorf("key prefix %q is ambiguous", prefix)
		}
		match = &list[i]
	}
	if match == nil {
		return fmt.Errorf("%q: %w", prefix, depcache.ErrEntryNotFound)
	}
	if match.Err != nil {
		return match.Err
	}
	e := match.Entry
	fmt.Fprintf(w, "key:     %s\n", match.Key)
	fmt.Fprintf(w, "module:  %s\n", e.Module)
	fmt.Fprintf(w, "target:  %s\n", e.Target)
	fmt.Fprintf(w, "content: %s\n", e.ContentHash)
	for _, d := range e.Dependencies {
		fmt.Fprintf(w, "  import %s @%d..%d\n", d.Module, d.Start, d.End)
	}
	return nil
}
