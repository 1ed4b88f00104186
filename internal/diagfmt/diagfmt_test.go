package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/lexer"
	"plsqldoc/internal/parser"
	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
)

func fixture(t *testing.T, content string) (*source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("/home/user/project/src/test.sql", []byte(content))
	fs.SetBaseDir("/home/user/project")
	return fs, id
}

func spanOf(fs *source.FileSet, id source.FileID, start, end int) source.Span {
	f := fs.Get(id)
	return source.Span{File: id, Start: f.PositionAt(start), End: f.PositionAt(end)}
}

func TestPathModes(t *testing.T) {
	fs, id := fixture(t, "x := 'unterminated\n")
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.LexUnterminatedString, spanOf(fs, id, 5, 18), "unterminated string literal"))

	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAbsolute, "/home/user/project/src/test.sql:1:6:"},
		{PathModeRelative, "src/test.sql:1:6:"},
		{PathModeBasename, "test.sql:1:6:"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(buf.String(), tt.want) {
			t.Errorf("mode %d: got %q", tt.mode, buf.String())
		}
	}
}

func TestPrettyExcerpt(t *testing.T) {
	fs, id := fixture(t, "BEGIN\n  x := ;\nEND;\n")
	bag := diag.NewBag(10)
	d := diag.NewError(diag.SynUnexpectedToken, spanOf(fs, id, 13, 14), "expected expression, got ';'").
		WithNote(spanOf(fs, id, 0, 5), "block starts here")
	bag.Add(d)

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1, ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"test.sql:2:8: ERROR SYN2001: expected expression, got ';'",
		" 1 | BEGIN",
		" 2 |   x := ;",
		"   |        ^",
		" 3 | END;",
		"  note: test.sql:1:1: block starts here",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("pretty output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCaretWidth(t *testing.T) {
	line := "x := '日本';"
	sp := source.Span{
		Start: source.Position{Line: 1, Column: 6},
		End:   source.Position{Line: 1, Column: 14},
	}
	pad, width := caretRange(line, sp)
	if pad != 5 || width != 6 {
		t.Errorf("caretRange = %d, %d; want 5, 6", pad, width)
	}
}

func TestJSONDiagnostics(t *testing.T) {
	fs, id := fixture(t, "PRAGMA foo;\n")
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevInfo, diag.SemaUnknownPragma, spanOf(fs, id, 7, 10), "unknown PRAGMA FOO is ignored"))
	bag.Add(diag.New(diag.SevWarning, diag.SemaDanglingPragma, spanOf(fs, id, 0, 11), "dangling"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeRelative, Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 1 {
		t.Fatalf("count=%d items=%d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "ANN3001" || d.Severity != "INFO" || d.Location.File != "src/test.sql" ||
		d.Location.StartCol != 8 || d.Location.EndByte != 10 {
		t.Errorf("diagnostic = %+v", d)
	}
}

func lexSrc(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	return lexer.Tokenize(fs.Get(fs.AddVirtual("t.sql", []byte(src))), lexer.Options{})
}

func TestTokenDumps(t *testing.T) {
	toks := lexSrc(t, "/** d */\nx := 1;")
	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks); err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(pretty.String(), "\n", 2)[0]
	if !strings.Contains(first, `"x" at 2:1-2:2`) || !strings.Contains(first, "leading: DocComment, Newline") {
		t.Errorf("first line = %q", first)
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 5 || out[len(out)-1].Kind != "EOF" || out[1].Text != ":=" {
		t.Errorf("tokens = %+v", out)
	}
}

func TestTreeDump(t *testing.T) {
	src := "CREATE PACKAGE p IS\n  x NUMBER;\nEND;\n/\n"
	script, err := parser.ParseScript(lexSrc(t, src), parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := FormatTree(&buf, script); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Script (1:1-",
		"└─ PackageSpec P (1:1-4:2)\n",
		"   ├─ CreatePrefix (1:1-1:7)\n",
		"VariableDecl X (2:3-2:12)",
		"NamedType [NUMBER] (2:5-2:11)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}

	var yml bytes.Buffer
	if err := FormatTreeYAML(&yml, script); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(yml.String(), "kind: Script\n") {
		t.Errorf("yaml = %q", yml.String())
	}
}
