package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"phs/internal/diagfmt"
	"phs/internal/driver"
	"phs/internal/project"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.phsa|dir>...",
	Short: "Resolve units and report diagnostics",
	Long: `Check decodes the given interchange files (directories are searched
recursively), runs collection, desugaring, validation and resolution over
them and prints the diagnostics. Required units are followed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	addCheckFlags(checkCmd)
}

func addCheckFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("format", "pretty", "output format (pretty|json)")
	f.Bool("strict", false, "abort on the first warning")
	f.String("ui", "off", "progress view (auto|on|off)")
	f.Bool("no-requires", false, "do not load required units")
	f.StringSlice("lib", nil, "extra directories searched for required units")
	f.String("root", "", "directory absolute require paths start from (default: manifest root)")
	f.Bool("cache", false, "reuse results of identical earlier runs")
	f.Int("jobs", 0, "parallel decoders (0: manifest or GOMAXPROCS)")
	f.String("path-mode", "auto", "how paths are shown (auto|absolute|relative|basename)")
	f.Int8("context", 0, "source lines shown around each diagnostic")
	f.Bool("notes", true, "show notes")
}

type checkFlags struct {
	format     string
	strict     bool
	ui         string
	noRequires bool
	libs       []string
	root       string
	cache      bool
	jobs       int
	pathMode   string
	context    int8
	notes      bool
	quiet      bool
	timings    bool
	maxDiags   int
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var cf checkFlags
	var errs []error
	get := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	f := cmd.Flags()
	var err error
	cf.format, err = f.GetString("format")
	get(err)
	cf.strict, err = f.GetBool("strict")
	get(err)
	cf.ui, err = f.GetString("ui")
	get(err)
	cf.noRequires, err = f.GetBool("no-requires")
	get(err)
	cf.libs, err = f.GetStringSlice("lib")
	get(err)
	cf.root, err = f.GetString("root")
	get(err)
	cf.cache, err = f.GetBool("cache")
	get(err)
	cf.jobs, err = f.GetInt("jobs")
	get(err)
	cf.pathMode, err = f.GetString("path-mode")
	get(err)
	cf.context, err = f.GetInt8("context")
	get(err)
	cf.notes, err = f.GetBool("notes")
	get(err)
	cf.quiet, err = f.GetBool("quiet")
	get(err)
	cf.timings, err = f.GetBool("timings")
	get(err)
	cf.maxDiags, err = f.GetInt("max-diagnostics")
	get(err)
	if len(errs) > 0 {
		return cf, errs[0]
	}
	return cf, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cf, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	if cf.format != "pretty" && cf.format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", cf.format)
	}
	pathMode, ok := diagfmt.ParsePathMode(cf.pathMode)
	if !ok {
		return fmt.Errorf("invalid --path-mode value %q", cf.pathMode)
	}
	mode, err := readUIMode(cf.ui)
	if err != nil {
		return err
	}

	manifest, _, err := project.LoadManifest(manifestDir(args[0]))
	if err != nil {
		return err
	}
	opts, err := checkOptions(cmd, cf, manifest)
	if err != nil {
		return err
	}
	tracer, cleanup, err := setupTracing(cmd, manifest)
	if err != nil {
		return err
	}
	defer cleanup()
	opts.Tracer = tracer

	var res *driver.Result
	if cf.format == "pretty" && shouldUseTUI(mode) {
		units, err := driver.ListUnits(args)
		if err != nil {
			return err
		}
		res, err = runCheckWithUI(cmd.Context(), "phsc check", units, opts)
		if err != nil {
			return err
		}
	} else {
		res, err = driver.Check(cmd.Context(), args, opts)
		if err != nil {
			return err
		}
	}

	base := opts.Root
	if base == "" {
		base, _ = os.Getwd()
	}
	out := cmd.OutOrStdout()
	switch cf.format {
	case "json":
		err = diagfmt.JSON(out, res.Bag, res.Session.Files, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			BaseDir:          base,
			IncludeNotes:     cf.notes,
			IncludeFixes:     true,
		})
		if err != nil {
			return err
		}
	default:
		printPretty(out, res, cf, pathMode, base)
	}
	if res.HasErrors() {
		return errFailed
	}
	return nil
}

func printPretty(out io.Writer, res *driver.Result, cf checkFlags, pathMode diagfmt.PathMode, base string) {
	diagfmt.Pretty(out, res.Bag, res.Session.Files, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		Context:   cf.context,
		PathMode:  pathMode,
		BaseDir:   base,
		ShowNotes: cf.notes,
		ShowFixes: true,
	})
	if cf.quiet {
		return
	}
	if res.Bag.Len() > 0 {
		fmt.Fprintln(out)
	}
	diagfmt.Summary(out, res.Bag, !color.NoColor)
	skipped := 0
	for _, u := range res.Units {
		if u.Skipped {
			skipped++
		}
	}
	line := fmt.Sprintf("checked %d %s", len(res.Units)-skipped, plural(len(res.Units)-skipped, "unit"))
	if skipped > 0 {
		line += fmt.Sprintf(", skipped %d after the first error", skipped)
	}
	if res.Cached {
		line += " (cached)"
	}
	fmt.Fprintln(out, line)
}

// checkOptions merges the manifest with flags; flags set on the command
// line win.
func checkOptions(cmd *cobra.Command, cf checkFlags, m *project.Manifest) (driver.Options, error) {
	cfg := project.DefaultConfig()
	if m != nil {
		cfg = m.Config
	}
	flags := cmd.Flags()
	opts := driver.Options{
		Jobs:           cfg.Compiler.Jobs,
		MaxDiagnostics: cfg.Compiler.MaxDiagnostics,
		Strict:         cfg.Compiler.Strict || cf.strict,
		NoRequires:     cf.noRequires,
		Timings:        cf.timings,
	}
	if flags.Changed("jobs") {
		opts.Jobs = cf.jobs
	}
	if flags.Changed("max-diagnostics") {
		opts.MaxDiagnostics = cf.maxDiags
	}

	libs, err := m.LibDirs()
	if err != nil {
		return opts, err
	}
	for _, l := range cf.libs {
		abs, err := filepath.Abs(l)
		if err != nil {
			return opts, err
		}
		libs = append(libs, abs)
	}
	opts.LibDirs = libs

	switch {
	case cf.root != "":
		if opts.Root, err = filepath.Abs(cf.root); err != nil {
			return opts, err
		}
	case m != nil:
		opts.Root = m.Root
	}

	if cf.cache || cfg.Compiler.Cache {
		cache, err := driver.OpenDiskCache("phsc")
		if err != nil {
			return opts, fmt.Errorf("cache: %w", err)
		}
		opts.Cache = cache
	}
	return opts, nil
}

// manifestDir is where the manifest search starts for input.
func manifestDir(input string) string {
	if st, err := os.Stat(input); err == nil && st.IsDir() {
		return input
	}
	return filepath.Dir(input)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
