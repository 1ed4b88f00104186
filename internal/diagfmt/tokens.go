package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"plsqldoc/internal/token"
)

// TokenOutput is the JSON form of a token.
type TokenOutput struct {
	Kind     string   `json:"kind"`
	Text     string   `json:"text,omitempty"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Offset   int      `json:"offset"`
	Error    string   `json:"error,omitempty"`
	Leading  []string `json:"leading,omitempty"`
	Trailing []string `json:"trailing,omitempty"`
}

func triviaKinds(ts []token.Token) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.Kind.String())
	}
	return out
}

// FormatTokensPretty выводит токены по одному в строке:
//
//	1: Keyword         "CREATE" at 1:1-1:7 (leading: DocComment, Newline)
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(&sb, " %q", tok.Text)
		}
		fmt.Fprintf(&sb, " at %s-%s", tok.Span.Start, tok.Span.End)
		if leading := triviaKinds(tok.Leading); len(leading) > 0 {
			fmt.Fprintf(&sb, " (leading: %s)", strings.Join(leading, ", "))
		}
		if trailing := triviaKinds(tok.Trailing); len(trailing) > 0 {
			fmt.Fprintf(&sb, " (trailing: %s)", strings.Join(trailing, ", "))
		}
		if tok.Err != "" {
			fmt.Fprintf(&sb, " !%s", tok.Err)
		}
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
			Line:     tok.Span.Start.Line,
			Column:   tok.Span.Start.Column,
			Offset:   tok.Span.Start.Offset,
			Error:    tok.Err,
			Leading:  triviaKinds(tok.Leading),
			Trailing: triviaKinds(tok.Trailing),
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
