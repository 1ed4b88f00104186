package ui

import (
	"errors"
	"strings"
	"testing"

	"plsqldoc/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	files := []string{"a.pks", "b.pkb", "c.sql"}
	m := NewProgressModel("parse", files, nil).(*progressModel)

	steps := []driver.Event{
		{File: "a.pks", Stage: driver.StageParse, Status: driver.StatusWorking},
		{File: "a.pks", Stage: driver.StageParse, Status: driver.StatusDone},
		{File: "b.pkb", Stage: driver.StageOutline, Status: driver.StatusCached},
		{File: "c.sql", Stage: driver.StageParse, Status: driver.StatusError},
		{File: "c.sql", Stage: driver.StageParse, Status: driver.StatusWorking},
		{File: "unknown.sql", Stage: driver.StageParse, Status: driver.StatusDone},
	}
	for _, ev := range steps {
		m.applyEvent(ev)
	}

	tests := []struct {
		file, status string
	}{
		{"a.pks", "done"},
		{"b.pkb", "cached"},
		{"c.sql", "error"},
	}
	for i, tt := range tests {
		if got := m.items[i].status; got != tt.status {
			t.Errorf("%s: status %q, want %q", tt.file, got, tt.status)
		}
	}
	if m.finished() != 3 || m.percent() != 1.0 {
		t.Errorf("finished=%d percent=%v", m.finished(), m.percent())
	}
	view := m.View()
	for _, want := range []string{"parse (3/3)", "1 with errors", "1 cached", "a.pks", "c.sql"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestPercentByStage(t *testing.T) {
	m := NewProgressModel("x", []string{"a", "b"}, nil).(*progressModel)
	m.applyEvent(driver.Event{File: "a", Stage: driver.StageParse, Status: driver.StatusWorking})
	if got := m.percent(); got != 0.2 {
		t.Errorf("percent = %v, want 0.2", got)
	}
	if m.items[0].status != "parsing" || m.items[1].status != "queued" {
		t.Errorf("statuses %q %q", m.items[0].status, m.items[1].status)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.sql", 20, "short.sql"},
		{"very/long/path/name.sql", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"日本語.sql", 5, "日..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRunReturnsWorkError(t *testing.T) {
	boom := errors.New("boom")
	var out strings.Builder
	err := Run(&out, "parse", []string{"a.sql"}, func(sink driver.ProgressSink) error {
		sink.OnEvent(driver.Event{File: "a.sql", Stage: driver.StageParse, Status: driver.StatusError})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}
