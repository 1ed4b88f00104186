package outline

import (
	"strings"

	"plsqldoc/internal/ast"
)

// Doc is the documentation attached to a declaration. Tags are only filled
// when a CommentParser ran; otherwise Text is the cleaned comment body.
type Doc struct {
	Text    string       `json:"text" yaml:"text" msgpack:"text"`
	Summary string       `json:"summary,omitempty" yaml:"summary,omitempty" msgpack:"summary"`
	Tags    []ast.DocTag `json:"tags,omitempty" yaml:"tags,omitempty" msgpack:"tags"`
}

func docOf(d ast.Decl) *Doc {
	if c := d.Comment(); c != nil {
		return &Doc{Text: c.Full, Summary: c.Summary, Tags: c.Tags}
	}
	tok := d.Doc()
	if tok == nil {
		return nil
	}
	text := CleanComment(tok.Trimmed)
	if text == "" {
		return nil
	}
	return &Doc{Text: text, Summary: firstSentence(text)}
}

// CleanComment strips the comment frame: the leading " * " of every line
// and blank lines around the text.
func CleanComment(body string) string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if strings.HasPrefix(l, "*") {
			l = strings.TrimPrefix(strings.TrimPrefix(l, "*"), " ")
		}
		lines[i] = strings.TrimRight(l, " \t")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// firstSentence: up to the first period followed by white space, or the
// first blank line.
func firstSentence(text string) string {
	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	for i := 0; i+1 < len(text); i++ {
		if text[i] == '.' && (text[i+1] == ' ' || text[i+1] == '\n' || text[i+1] == '\t') {
			text = text[:i+1]
			break
		}
	}
	return strings.Join(strings.Fields(text), " ")
}
