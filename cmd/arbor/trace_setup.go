package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arbor/internal/project"
	"arbor/internal/trace"
)

// setupTracing merges the [trace] section of m with the trace flags and
// attaches the tracer to the command context. It returns a cleanup function.
func setupTracing(cmd *cobra.Command, m *project.Manifest) (func(), error) {
	root := cmd.Root()

	cfg := trace.Config{Level: trace.LevelOff}
	if m != nil {
		cfg = m.TracerConfig()
	}

	// Read trace configuration from flags
	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}

	if traceOutput != "" {
		cfg.OutputPath = traceOutput
		if cfg.Level == trace.LevelOff {
			cfg.Level = trace.LevelPhase
		}
	}
	if levelStr != "" {
		if cfg.Level, err = trace.ParseLevel(levelStr); err != nil {
			return nil, err
		}
	}
	if modeStr != "" {
		if cfg.Mode, err = trace.ParseMode(modeStr); err != nil {
			return nil, err
		}
	}

	if cfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	// Attach tracer to context
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	heartbeat := trace.StartHeartbeat(tracer, cfg.Heartbeat)

	cleanup := func() {
		// Stop heartbeat first
		heartbeat.Stop()

		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
