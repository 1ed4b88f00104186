package fuzztests

import (
	"strings"
	"testing"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/lexer"
	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
)

// FuzzLexerRoundTrip checks that raw tokens tile the input exactly and that
// grouping trivia loses nothing.
func FuzzLexerRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.sql", clamp(input, maxFuzzInput)))
		content := string(file.Content)

		bag := diag.NewBag(64)
		raw := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}}).All()
		if len(raw) == 0 || raw[len(raw)-1].Kind != token.EOF {
			t.Fatalf("stream does not end with EOF")
		}

		var sb strings.Builder
		off := 0
		for _, tok := range raw {
			if tok.Span.Start.Offset != off {
				t.Fatalf("gap before %s at %d, expected offset %d", tok.Kind, tok.Span.Start.Offset, off)
			}
			off = tok.Span.End.Offset
			sb.WriteString(tok.Text)
		}
		if sb.String() != content {
			t.Fatalf("raw tokens do not reproduce the input")
		}

		sb.Reset()
		for _, tok := range token.AttachTrivia(raw) {
			sb.WriteString(tok.FullText())
		}
		if sb.String() != content {
			t.Fatalf("grouped tokens do not reproduce the input")
		}
	})
}
