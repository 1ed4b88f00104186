package fuzztests

import (
	"context"
	"testing"
	"time"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/lexer"
	"plsqldoc/internal/parser"
	"plsqldoc/internal/source"
	"plsqldoc/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

// FuzzParserRoundTrip parses arbitrary input and checks the tree against
// the file: exact text, spans and token ownership. Errors are fine; a
// panic, a hang or a lost byte is not.
func FuzzParserRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.sql", input))
			bag := diag.NewBag(128)
			reporter := diag.BagReporter{Bag: bag}
			toks := lexer.Tokenize(file, lexer.Options{Reporter: reporter})
			script, _ := parser.ParseScript(toks, parser.Options{Reporter: reporter, MaxErrors: 128})

			err := testkit.CheckRoundTrip(script, file)
			if err == nil {
				err = testkit.CheckSpanInvariants(script, file)
			}
			if err == nil {
				err = testkit.CheckTokenOwnership(script, toks)
			}
			done <- err
		}()

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("%v\ninput (%d bytes): %q", err, len(input), truncateForLog(input, 200))
			}
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
