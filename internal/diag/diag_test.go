package diag

import (
	"errors"
	"fmt"
	"testing"

	"plsqldoc/internal/source"
)

func span(line, col, off, length int) source.Span {
	start := source.Position{Offset: off, Line: line, Column: col}
	end := start
	end.Offset += length
	end.Column += length
	return source.Span{Start: start, End: end}
}

func TestDedupReporterDropsRepeats(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})

	r.Report(SemaUnknownPragma, SevWarning, span(1, 1, 0, 6), "unknown pragma FOO", nil)
	r.Report(SemaUnknownPragma, SevWarning, span(1, 1, 0, 6), "unknown pragma FOO", nil)
	r.Report(SemaUnknownPragma, SevWarning, span(2, 1, 10, 6), "unknown pragma FOO", nil)

	if bag.Len() != 2 {
		t.Fatalf("bag has %d items, want 2", bag.Len())
	}
}

func TestDedupReporterOnce(t *testing.T) {
	r := NewDedupReporter(nil)
	if !r.Once("opaque:TRIGGER") {
		t.Fatal("first Once must be true")
	}
	if r.Once("opaque:TRIGGER") {
		t.Fatal("second Once must be false")
	}
	if !r.Once("opaque:VIEW") {
		t.Fatal("distinct key must be true")
	}

	other := NewDedupReporter(nil)
	if !other.Once("opaque:TRIGGER") {
		t.Fatal("sessions must not share the seen set")
	}
}

func TestBagLimitSortAndFilter(t *testing.T) {
	bag := NewBag(3)
	bag.Add(NewError(SynUnexpectedToken, span(3, 1, 30, 1), "c"))
	bag.Add(New(SevWarning, SemaDanglingPragma, span(1, 1, 0, 1), "a"))
	bag.Add(New(SevInfo, SynOpaqueUnit, span(2, 1, 10, 1), "b"))
	if bag.Add(NewError(SynUnexpectedToken, span(4, 1, 40, 1), "d")) {
		t.Fatal("bag must refuse items over its limit")
	}

	bag.Sort()
	var got string
	for _, d := range bag.Items() {
		got += d.Message
	}
	if got != "abc" {
		t.Errorf("sorted order = %q", got)
	}
	if n := len(bag.Filter(SevWarning)); n != 2 {
		t.Errorf("Filter(SevWarning) = %d items", n)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Errorf("HasErrors/HasWarnings mismatch")
	}
}

func TestStructuredErrors(t *testing.T) {
	se := &SyntaxError{Span: span(4, 7, 50, 3), Expected: "';'", Got: "END"}
	wrapped := fmt.Errorf("unit: %w", se)

	if !errors.Is(wrapped, ErrSyntax) || errors.Is(wrapped, ErrUnexpectedEOF) {
		t.Errorf("errors.Is mismatch for %v", wrapped)
	}
	if se.Error() != "4:7: expected ';', got END" {
		t.Errorf("Error() = %q", se.Error())
	}
	if CodeOf(wrapped) != SynUnexpectedToken {
		t.Errorf("CodeOf = %v", CodeOf(wrapped))
	}
	if sp, ok := SpanOf(wrapped); !ok || sp != se.Span {
		t.Errorf("SpanOf = %v, %v", sp, ok)
	}

	eof := &SyntaxError{Expected: "END", AtEOF: true}
	if !errors.Is(eof, ErrUnexpectedEOF) || CodeOf(eof) != SynUnexpectedEOF {
		t.Errorf("eof error not classified")
	}

	ni := &NotImplementedError{Construct: "VARRAY"}
	if !errors.Is(ni, ErrNotImplemented) || CodeOf(ni) != SynNotImplemented {
		t.Errorf("not implemented error not classified")
	}
	ia := InvalidArgument("names take 1..3 parts, got %d", 4)
	if !errors.Is(ia, ErrInvalidArgument) || ia.Error() != "invalid argument: names take 1..3 parts, got 4" {
		t.Errorf("invalid argument = %q", ia.Error())
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/work")
	id := fs.Add("/work/src/pkg.pks", []byte("a\nb\n"), 0)

	sp := span(2, 1, 2, 1)
	sp.File = id
	diags := []Diagnostic{
		NewError(SynUnexpectedToken, sp, "expected ';'\ngot END").WithNote(sp, "unit starts here"),
	}
	want := "error SYN2001 src/pkg.pks:2:1 expected ';' got END\n" +
		"note SYN2001 src/pkg.pks:2:1 unit starts here"
	if got := FormatShortDiagnostics(diags, fs, true); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:     "LEX1001",
		SynUnexpectedToken: "SYN2001",
		SemaDanglingPragma: "ANN3002",
		IOLoadFileError:    "IO4001",
		Code(9999):         "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %s, want %s", code, got, want)
		}
	}
}
