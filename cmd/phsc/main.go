package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"phs/internal/prof"
	"phs/internal/version"
)

// errFailed is returned when diagnostics were already printed.
var errFailed = errors.New("check failed")

var rootCmd = &cobra.Command{
	Use:           "phsc",
	Short:         "Semantic checker for phs units",
	Long:          `phsc resolves names, folds constants and reports diagnostics for parsed phs units (.phsa files).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		mode, err := cmd.Flags().GetString("color")
		if err != nil {
			return err
		}
		switch mode {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		case "auto":
			color.NoColor = !isTerminal(os.Stdout)
		default:
			return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
		}
		return startProfiles(cmd)
	},
}

// stopProfiles is set once profiling started; main calls it on exit.
var stopProfiles = func() error { return nil }

func startProfiles(cmd *cobra.Command) error {
	var o prof.Options
	var err error
	flags := cmd.Root().PersistentFlags()
	if o.CPU, err = flags.GetString("cpuprofile"); err != nil {
		return err
	}
	if o.Mem, err = flags.GetString("memprofile"); err != nil {
		return err
	}
	if o.Trace, err = flags.GetString("exectrace"); err != nil {
		return err
	}
	if !o.Enabled() {
		return nil
	}
	stop, err := prof.Start(o)
	if err != nil {
		return fmt.Errorf("profiling: %w", err)
	}
	stopProfiles = stop
	return nil
}

// main registers subcommands and flags and runs the root command.
// Any error exits with status 1.
func main() {
	rootCmd.Version = version.String()

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "report pass timings")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to keep (0: manifest or 100)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "text", "trace format (text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer size for --trace-mode ring|both")
	rootCmd.PersistentFlags().String("cpuprofile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("memprofile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("exectrace", "", "write a Go execution trace to file")

	err := rootCmd.Execute()
	if perr := stopProfiles(); perr != nil {
		fmt.Fprintf(os.Stderr, "phsc: profiling: %v\n", perr)
	}
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "phsc: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
}
