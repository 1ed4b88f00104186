package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/observ"
	"plsqldoc/internal/source"
	"plsqldoc/internal/testkit"
	"plsqldoc/internal/trace"
)

const (
	goodPkg = "CREATE PACKAGE p IS\n  x NUMBER;\nEND;\n/\n"
	badBlk  = "BEGIN\n  x := ;\nEND;\n/\n"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) OnEvent(ev Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) last(file string) Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out Event
	for _, ev := range l.events {
		if ev.File == file {
			out = ev
		}
	}
	return out
}

func TestParseSource(t *testing.T) {
	res := ParseSource(context.Background(), "mem.sql", []byte(goodPkg+badBlk), Options{})
	if len(res.Script.Units) != 2 {
		t.Fatalf("units = %d", len(res.Script.Units))
	}
	if !errors.Is(res.Err, diag.ErrSyntax) {
		t.Errorf("Err = %v", res.Err)
	}
	if !res.Bag.HasErrors() {
		t.Errorf("bag has no errors")
	}
	if got := res.Script.String(); got != goodPkg+badBlk {
		t.Errorf("round-trip: %q", got)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(context.Background(), filepath.Join(t.TempDir(), "nope.sql"), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}

func TestListFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.pkb":           goodPkg,
		"a.PKS":           goodPkg,
		"notes.txt":       "x",
		"sub/c.sql":       goodPkg,
		".git/HEAD.sql":   goodPkg,
		"sub/.hidden.pks": goodPkg,
	})
	files, err := ListFiles(root, DefaultExtensions)
	if err != nil {
		t.Fatal(err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(root, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := "a.PKS b.pkb sub/.hidden.pks sub/c.sql"
	if got := strings.Join(rel, " "); got != want {
		t.Errorf("files = %q, want %q", got, want)
	}

	single, err := ListFiles(filepath.Join(root, "notes.txt"), DefaultExtensions)
	if err != nil || len(single) != 1 {
		t.Errorf("file root: %v, %v", single, err)
	}
}

func TestParseDir(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.pks":     goodPkg,
		"b.sql":     badBlk,
		"sub/c.pkb": goodPkg + goodPkg,
	})
	log := &eventLog{}
	timer := observ.NewTimer()
	fs, results, err := ParseDir(context.Background(), root, Options{Jobs: 2, Progress: log, Timer: timer})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	units := []int{1, 1, 2}
	for i, r := range results {
		if r.Script == nil || len(r.Script.Units) != units[i] {
			t.Errorf("%s: units mismatch", r.Path)
		}
		if fs.Get(r.File.ID) != r.File {
			t.Errorf("%s: file not in set", r.Path)
		}
		if err := testkit.CheckSpanInvariants(r.Script, r.File); err != nil {
			t.Errorf("%s: %v", r.Path, err)
		}
		if err := testkit.CheckRoundTrip(r.Script, r.File); err != nil {
			t.Errorf("%s: %v", r.Path, err)
		}
	}
	if results[0].Bag.HasErrors() || !results[1].Bag.HasErrors() {
		t.Errorf("error placement wrong")
	}
	if ev := log.last(results[0].Path); ev.Status != StatusDone || ev.Stage != StageParse {
		t.Errorf("a.pks last event = %+v", ev)
	}
	if ev := log.last(results[1].Path); ev.Status != StatusError {
		t.Errorf("b.sql last event = %+v", ev)
	}
	var parsed int
	for _, p := range timer.Report().Phases {
		if p.Name == "parse" {
			parsed = p.Count
		}
	}
	if parsed != 3 {
		t.Errorf("parse phase count = %d", parsed)
	}
}

func TestTokenizeDir(t *testing.T) {
	root := writeTree(t, map[string]string{"a.sql": "BEGIN NULL; END;\n/\n"})
	_, results, err := TokenizeDir(context.Background(), root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d", len(results))
	}
	// BEGIN NULL ; END ; / EOF
	if n := len(results[0].Tokens); n != 7 {
		t.Errorf("tokens = %d", n)
	}
}

func TestParseDirCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.sql": goodPkg, "b.sql": goodPkg})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ParseDir(ctx, root, Options{Jobs: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestTraceSpans(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	ParseSource(ctx, "mem.sql", []byte(goodPkg), Options{})

	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Kind.String()+" "+ev.Name)
	}
	got := strings.Join(names, "|")
	if !strings.Contains(got, "file:mem.sql") || !strings.Contains(got, "unit:PackageSpec") {
		t.Errorf("events = %s", got)
	}
	if len(names) != 3 {
		t.Errorf("want begin, point, end; got %s", got)
	}
}

func TestAppendTimings(t *testing.T) {
	timer := observ.NewTimer()
	timer.Add("parse", 0)
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{}, "x"))
	AppendTimings(bag, "", "dir", timer)
	if bag.Len() != 2 {
		t.Fatalf("bag len = %d", bag.Len())
	}
	d := bag.Items()[1]
	if d.Code != diag.ObsTimings || !strings.HasPrefix(d.Message, "timings (pipeline): total") {
		t.Errorf("diagnostic = %+v", d)
	}
	if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, `"name":"parse"`) {
		t.Errorf("notes = %+v", d.Notes)
	}
}
