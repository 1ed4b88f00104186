// Package testkit checks structural invariants of parsed scripts. The
// checks are shared by parser, driver and fuzz tests.
package testkit

import (
	"fmt"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
)

// CheckSpanInvariants walks the tree of script and checks:
// 1) every non-empty node lies in sf and within its content;
// 2) positions agree with the file's line index;
// 3) each child lies inside its parent;
// 4) siblings are ordered and do not overlap.
func CheckSpanInvariants(script *ast.Script, sf *source.File) error {
	if script == nil || sf == nil {
		return fmt.Errorf("nil script or file")
	}
	return checkNode(script, sf)
}

func checkNode(s ast.Syntax, sf *source.File) error {
	n := s.Base()
	sp := n.Span()
	if n.FirstToken() != nil {
		if err := checkSpan(n.Kind().String(), sp, sf); err != nil {
			return err
		}
	}
	var prev *source.Span
	for _, c := range n.Children() {
		cb := c.Base()
		if cb.FirstToken() == nil {
			continue
		}
		csp := cb.Span()
		if !sp.Contains(csp) {
			return fmt.Errorf("%s %s is outside its parent %s %s", cb.Kind(), csp, n.Kind(), sp)
		}
		if prev != nil && !prev.Before(csp) {
			return fmt.Errorf("%s %s overlaps the previous sibling %s", cb.Kind(), csp, *prev)
		}
		prev = &csp
		if err := checkNode(c, sf); err != nil {
			return err
		}
	}
	return nil
}

func checkSpan(what string, sp source.Span, sf *source.File) error {
	if sp.File != sf.ID {
		return fmt.Errorf("%s span points to file %d, want %d", what, sp.File, sf.ID)
	}
	if sp.Start.Offset < 0 || sp.End.Offset < sp.Start.Offset || sp.End.Offset > len(sf.Content) {
		return fmt.Errorf("%s span %s is out of bounds (content %d bytes)", what, sp, len(sf.Content))
	}
	for _, p := range []source.Position{sp.Start, sp.End} {
		if want := sf.PositionAt(p.Offset); want != p {
			return fmt.Errorf("%s: position %s at offset %d, line index says %s", what, p, p.Offset, want)
		}
	}
	return nil
}

// CheckRoundTrip checks that the tree reproduces the file byte for byte.
func CheckRoundTrip(script *ast.Script, sf *source.File) error {
	if script == nil || sf == nil {
		return fmt.Errorf("nil script or file")
	}
	got, want := script.String(), string(sf.Content)
	if got == want {
		return nil
	}
	i := 0
	for i < len(got) && i < len(want) && got[i] == want[i] {
		i++
	}
	return fmt.Errorf("round-trip differs at offset %d (%s): got %q, want %q",
		i, sf.PositionAt(min(i, len(want))), excerpt(got, i), excerpt(want, i))
}

func excerpt(s string, at int) string {
	end := min(at+20, len(s))
	if at > end {
		return ""
	}
	return s[at:end]
}

// CheckTokenOwnership checks that the significant tokens of toks are owned
// by exactly one tree element each, in order.
func CheckTokenOwnership(script *ast.Script, toks []token.Token) error {
	if script == nil {
		return fmt.Errorf("nil script")
	}
	owned := script.Tokens()
	if len(owned) != len(toks) {
		return fmt.Errorf("tree owns %d tokens, stream has %d", len(owned), len(toks))
	}
	for i := range toks {
		if owned[i].Kind != toks[i].Kind || owned[i].Span != toks[i].Span {
			return fmt.Errorf("token %d: tree has %s at %s, stream has %s at %s",
				i, owned[i].Kind, owned[i].Span, toks[i].Kind, toks[i].Span)
		}
	}
	return nil
}
