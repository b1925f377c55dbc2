package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"phs/internal/project"
	"phs/internal/trace"
)

// setupTracing builds the tracer from the manifest's [trace] section with
// flags taking precedence. The cleanup flushes and closes it; in ring mode
// the buffered events are dumped to stderr first.
func setupTracing(cmd *cobra.Command, m *project.Manifest) (trace.Tracer, func(), error) {
	cfg := project.DefaultConfig()
	if m != nil {
		cfg = m.Config
	}
	flags := cmd.Root().PersistentFlags()
	for name, dst := range map[string]*string{
		"trace":       &cfg.Trace.Output,
		"trace-level": &cfg.Trace.Level,
		"trace-mode":  &cfg.Trace.Mode,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return nil, nil, err
		}
		*dst = v
	}
	// --trace alone means "trace something".
	if flags.Changed("trace") && !flags.Changed("trace-level") && cfg.Trace.Level == "off" {
		cfg.Trace.Level = "phase"
	}

	tc, err := cfg.TracerConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace config: %w", err)
	}
	if tc.Level == trace.LevelOff {
		return trace.Nop, func() {}, nil
	}
	format, err := flags.GetString("trace-format")
	if err != nil {
		return nil, nil, err
	}
	if tc.Format, err = trace.ParseFormat(format); err != nil {
		return nil, nil, err
	}
	if tc.RingSize, err = flags.GetInt("trace-ring-size"); err != nil {
		return nil, nil, err
	}

	tracer, err := trace.New(tc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if rt := ringOf(tracer); rt != nil {
			if err := rt.Dump(os.Stderr, tc.Format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

func ringOf(t trace.Tracer) *trace.RingTracer {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t
	case *trace.MultiTracer:
		return t.Ring()
	}
	return nil
}
