package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"arbor/internal/prof"
	"arbor/internal/project"
	"arbor/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "arbor",
	Short:         "Syntax tree toolkit for the arbor compiler",
	Long:          `arbor inspects projects, module graphs and the dependency cache of the compiler front end`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupColor(cmd); err != nil {
			return err
		}
		m, err := loadManifest(cmd)
		if err != nil && cmd.Annotations[needsProject] != "" {
			return err
		}
		manifest = m
		cleanup, err := setupTracing(cmd, m)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		profiles, err = startProfiles(cmd)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return finish()
	},
}

// finish stops profiling and flushes the tracer. It runs once.
func finish() error {
	err := profiles.Stop()
	profiles = nil
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	return err
}

var (
	manifest     *project.Manifest
	traceCleanup func()
	profiles     *prof.Session
)

// needsProject marks commands that fail on an unreadable arbor.toml instead
// of falling back to defaults.
const needsProject = "needs-project"

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(opsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(modulesCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to arbor.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "", "trace level (off|error|phase|detail|debug), overrides [trace] level")
	rootCmd.PersistentFlags().String("trace-mode", "", "trace storage (stream|ring|both), overrides [trace] mode")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		_ = finish()
		os.Exit(1)
	}
}

// setupColor applies --color to fatih/color's global switch.
func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func startProfiles(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	for name, dst := range map[string]*string{
		"cpu-profile":   &opts.CPU,
		"mem-profile":   &opts.Mem,
		"runtime-trace": &opts.Trace,
	} {
		v, err := flags.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}
