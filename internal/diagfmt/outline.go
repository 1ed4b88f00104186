package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"plsqldoc/internal/outline"
)

// FormatOutlineJSON writes the outlines as one JSON array.
func FormatOutlineJSON(w io.Writer, outlines []*outline.Outline) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outlines)
}

// FormatOutlineYAML writes one YAML document per file.
func FormatOutlineYAML(w io.Writer, outlines []*outline.Outline) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, o := range outlines {
		if err := enc.Encode(o); err != nil {
			return err
		}
	}
	return enc.Close()
}

// FormatOutlinePretty prints a compact listing:
//
//	api.pks
//	  PACKAGE EMP_API                              5:1
//	    function   GET(p_id IN NUMBER) RETURN T_EMP
//	               Reads one employee.
func FormatOutlinePretty(w io.Writer, outlines []*outline.Outline, useColor bool) error {
	head := color.New(color.Bold)
	kind := color.New(color.FgCyan)
	dep := color.New(color.FgYellow)
	for _, c := range []*color.Color{head, kind, dep} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	const width = 48
	var sb strings.Builder
	for _, o := range outlines {
		sb.WriteString(head.Sprint(o.File))
		if o.Errors > 0 {
			fmt.Fprintf(&sb, "  (%d unreadable units)", o.Errors)
		}
		sb.WriteByte('\n')
		for _, u := range o.Units {
			title := u.Kind + " " + u.Name
			if u.Signature != "" {
				title = u.Kind + " " + u.Signature
			}
			fmt.Fprintf(&sb, "  %s %d:%d\n", runewidth.FillRight(title, width), u.Pos.Line, u.Pos.Column)
			writeDoc(&sb, u.Doc, "    ")
			for _, m := range u.Members {
				label := m.Name
				switch {
				case m.Signature != "":
					label = m.Signature
				case m.Type != "":
					label += " " + m.Type
				}
				fmt.Fprintf(&sb, "    %s %s", kind.Sprint(runewidth.FillRight(m.Kind, 11)), label)
				if msg, ok := m.Deprecated(); ok {
					sb.WriteString(dep.Sprintf("  [deprecated: %s]", msg))
				}
				for _, a := range m.Annotations {
					if a.ErrorID != "" {
						fmt.Fprintf(&sb, "  [%s]", a.ErrorID)
					}
				}
				sb.WriteByte('\n')
				writeDoc(&sb, m.Doc, "                ")
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeDoc(sb *strings.Builder, d *outline.Doc, indent string) {
	if d == nil || d.Summary == "" {
		return
	}
	sb.WriteString(indent + runewidth.Truncate(d.Summary, 72, "…") + "\n")
}
