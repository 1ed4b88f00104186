package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/source"
)

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.loc, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty печатает диагностики в порядке bag.Items() (обычно после bag.Sort()):
//
//	path:line:col: ERROR SYN2001: expected ';', got END
//	   3 |   x := 1
//	     |         ^~~
//
// затем заметки в том же формате.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		header := fmt.Sprintf("%s: %s %s: %s",
			p.loc.Sprint(location(fs, d.Primary, opts.PathMode)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(), d.Message)
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		if err := excerpt(w, fs, d.Primary, opts.Context, p); err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"),
				location(fs, n.Span, opts.PathMode), n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, sp.File, mode), sp.Start.Line, sp.Start.Column)
}

// excerpt prints the primary line with context and a caret run under the span.
func excerpt(w io.Writer, fs *source.FileSet, sp source.Span, context int, p palette) error {
	if fs == nil || !sp.Start.IsValid() {
		return nil
	}
	f := fs.Get(sp.File)
	if f == nil {
		return nil
	}
	first := max(1, sp.Start.Line-context)
	last := sp.Start.Line + context
	gutterWidth := len(fmt.Sprint(last))
	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		if ln > sp.Start.Line && text == "" {
			break
		}
		text = expandTabs(text)
		if _, err := fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), text); err != nil {
			return err
		}
		if ln != sp.Start.Line {
			continue
		}
		pad, width := caretRange(f.GetLine(ln), sp)
		marker := "^" + strings.Repeat("~", max(0, width-1))
		if _, err := fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""),
			strings.Repeat(" ", pad), p.caret.Sprint(marker)); err != nil {
			return err
		}
	}
	return nil
}

// caretRange returns the display column of the span start and the display
// width of the spanned text on its first line. Columns are byte based; wide
// runes take two cells.
func caretRange(line string, sp source.Span) (pad, width int) {
	col := min(max(sp.Start.Column-1, 0), len(line))
	end := len(line)
	if sp.End.Line == sp.Start.Line {
		end = min(max(sp.End.Column-1, col), len(line))
	}
	pad = runewidth.StringWidth(expandTabs(line[:col]))
	width = max(1, runewidth.StringWidth(expandTabs(line[col:end])))
	return pad, width
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
