package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"phs/internal/diag"
	"phs/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := printer{w: w, fs: fs, opts: opts}
	p.paint(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		p.diagnostic(d)
	}
}

// Summary prints the closing `N errors, M warnings` line.
func Summary(w io.Writer, bag *diag.Bag, useColor bool) {
	errs := bag.Count(diag.SevError)
	warns := bag.Count(diag.SevWarning) - errs
	if errs == 0 && warns == 0 {
		return
	}
	line := fmt.Sprintf("%d %s, %d %s", errs, plural(errs, "error"), warns, plural(warns, "warning"))
	c := color.New(color.Bold)
	if errs > 0 {
		c.Add(color.FgRed)
	} else {
		c.Add(color.FgYellow)
	}
	if !useColor {
		c.DisableColor()
	}
	fmt.Fprintln(w, c.Sprint(line))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts

	errC, warnC, infoC, pathC, gutterC, caretC, noteC *color.Color
}

func (p *printer) paint(on bool) {
	p.errC = color.New(color.FgRed, color.Bold)
	p.warnC = color.New(color.FgYellow, color.Bold)
	p.infoC = color.New(color.FgCyan, color.Bold)
	p.pathC = color.New(color.Bold)
	p.gutterC = color.New(color.FgBlue)
	p.caretC = color.New(color.FgRed)
	p.noteC = color.New(color.FgGreen)
	if on {
		return
	}
	for _, c := range []*color.Color{p.errC, p.warnC, p.infoC, p.pathC, p.gutterC, p.caretC, p.noteC} {
		c.DisableColor()
	}
}

func (p *printer) sevColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.errC
	case diag.SevWarning:
		return p.warnC
	}
	return p.infoC
}

func (p *printer) diagnostic(d diag.Diagnostic) {
	head := fmt.Sprintf("%s %s: %s", p.sevColor(d.Severity).Sprint(d.Severity), d.Code.ID(), d.Message)
	if !located(d, p.fs) {
		fmt.Fprintln(p.w, head)
	} else {
		fmt.Fprintf(p.w, "%s: %s\n", p.pathC.Sprint(p.position(d.Primary)), head)
		p.excerpt(d.Primary, p.caretC)
	}
	if p.opts.ShowNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			label := p.noteC.Sprint("note")
			if d.Code != diag.ObsTimings && p.fs.Has(n.Span.File) && n.Span != (source.Span{}) {
				fmt.Fprintf(p.w, "  %s: %s: %s\n", label, p.position(n.Span), n.Msg)
				p.excerpt(n.Span, p.noteC)
				continue
			}
			fmt.Fprintf(p.w, "  %s: %s\n", label, n.Msg)
		}
	}
	if p.opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(p.w, "  %s: %s\n", p.noteC.Sprint("fix"), f.Title)
			for _, e := range f.Edits {
				fmt.Fprintf(p.w, "    %s -> %q\n", p.position(e.Span), e.NewText)
			}
		}
	}
}

func (p *printer) position(sp source.Span) string {
	f := p.fs.Get(sp.File)
	start, _ := p.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, p.opts.PathMode, p.opts.BaseDir), start.Line, start.Col)
}

// excerpt prints the lines around sp with the span underlined on its first
// line. Files without text (units decoded without source) print nothing.
func (p *printer) excerpt(sp source.Span, caret *color.Color) {
	f := p.fs.Get(sp.File)
	if len(f.Content) == 0 {
		return
	}
	start, end := p.fs.Resolve(sp)
	ctx := uint32(max(p.opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	width := len(fmt.Sprint(last))
	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		if ln != start.Line && text == "" {
			continue
		}
		text = strings.ReplaceAll(text, "\t", "    ")
		if p.opts.Width > 0 {
			text = runewidth.Truncate(text, int(p.opts.Width), "...")
		}
		fmt.Fprintf(p.w, " %s %s\n", p.gutterC.Sprintf("%*d |", width, ln), text)
		if ln != start.Line {
			continue
		}
		line := f.GetLine(ln)
		col := int(start.Col) - 1
		n := 1
		if end.Line == start.Line && end.Col > start.Col {
			n = int(end.Col - start.Col)
		} else if end.Line > start.Line {
			n = max(len(line)-col, 1)
		}
		pad := runewidth.StringWidth(strings.ReplaceAll(prefix(line, col), "\t", "    "))
		under := "^" + strings.Repeat("~", max(n-1, 0))
		fmt.Fprintf(p.w, " %s %s%s\n", p.gutterC.Sprintf("%*s |", width, ""), strings.Repeat(" ", pad), caret.Sprint(under))
	}
}

func prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n > len(s) {
		return s
	}
	return s[:n]
}
