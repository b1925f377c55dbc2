package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"phs/internal/ast"
	"phs/internal/astcodec"
	"phs/internal/driver"
	"phs/internal/source"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <file.phsa>",
	Short: "Print a decoded unit",
	Long: `Dump prints the node tree of an interchange file. With --symbols the
unit is checked on its own and its scope tree is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().Bool("symbols", false, "print the scope tree after resolution")
	dumpCmd.Flags().Bool("header", false, "print only the file header")
}

func runDump(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := args[0]
	if hdrOnly, _ := cmd.Flags().GetBool("header"); hdrOnly {
		hdr, err := astcodec.ReadHeader(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "magic:   %s\nversion: %d\nsource:  %s (%d bytes)\n", hdr.Magic, hdr.Version, hdr.Path, len(hdr.Source))
		return nil
	}
	if syms, _ := cmd.Flags().GetBool("symbols"); syms {
		res, err := driver.Check(cmd.Context(), []string{path}, driver.Options{NoRequires: true})
		if err != nil {
			return err
		}
		for _, u := range res.Units {
			if u.AST == nil || u.Skipped {
				continue
			}
			if err := res.Table.Dump(out, u.Scope); err != nil {
				return err
			}
		}
		if res.Bag.Len() > 0 {
			fmt.Fprintf(out, "(%d diagnostics, run `phsc check` to see them)\n", res.Bag.Len())
		}
		return nil
	}
	unit, _, err := astcodec.ReadFile(path, source.NewFileSet())
	if err != nil {
		return err
	}
	return ast.Fprint(out, unit)
}
