package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/outline"
)

func TestCacheKeyDependsOnSalt(t *testing.T) {
	var content Digest
	content[0] = 1
	a := (&DiskCache{salt: "0.1.0"}).Key(content)
	b := (&DiskCache{salt: "0.2.0"}).Key(content)
	if a == b {
		t.Errorf("salt ignored")
	}
	if a != (&DiskCache{salt: "0.1.0"}).Key(content) {
		t.Errorf("key not deterministic")
	}
}

func TestCachePutGet(t *testing.T) {
	c, err := OpenDiskCache(t.TempDir(), "test")
	if err != nil {
		t.Fatal(err)
	}
	var key Digest
	key[0] = 7
	var miss CachePayload
	if ok, err := c.Get(key, &miss); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	in := &CachePayload{Content: key, Outline: &outline.Outline{File: "a.sql", Errors: 1}}
	if err := c.Put(key, in); err != nil {
		t.Fatal(err)
	}
	var out CachePayload
	ok, err := c.Get(key, &out)
	if !ok || err != nil {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if out.Outline == nil || out.Outline.File != "a.sql" || out.Outline.Errors != 1 || out.Schema != cacheSchemaVersion {
		t.Errorf("payload = %+v", out)
	}

	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Get(key, &out); ok {
		t.Errorf("entry survived DropAll")
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("cache dir gone: %v", err)
	}
}

func TestNilCache(t *testing.T) {
	var c *DiskCache
	var out CachePayload
	if ok, err := c.Get(Digest{}, &out); ok || err != nil {
		t.Errorf("nil Get: %v %v", ok, err)
	}
	if err := c.Put(Digest{}, &out); err != nil {
		t.Errorf("nil Put: %v", err)
	}
}

func TestOutlineDirUsesCache(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.pks": goodPkg,
		"b.sql": badBlk,
	})
	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"), "test")
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache}

	_, first, err := OutlineDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	log := &eventLog{}
	opts.Progress = log
	_, second, err := OutlineDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}

	for i := range first {
		if first[i].Cached || !second[i].Cached {
			t.Errorf("%s: cached first=%v second=%v", first[i].Path, first[i].Cached, second[i].Cached)
		}
		if first[i].Outline.File != second[i].Outline.File {
			t.Errorf("file name %q vs %q", first[i].Outline.File, second[i].Outline.File)
		}
	}
	if u := second[0].Outline.Units; len(u) != 1 || u[0].Name != "P" {
		t.Errorf("cached units = %+v", u)
	}
	if second[0].Outline.File != "a.pks" {
		t.Errorf("outline file = %q", second[0].Outline.File)
	}
	if ev := log.last(second[0].Path); ev.Status != StatusCached {
		t.Errorf("a.pks status = %v", ev.Status)
	}

	// диагностики восстанавливаются с теми же позициями
	was, now := first[1].Bag.Items(), second[1].Bag.Items()
	if len(was) == 0 || len(was) != len(now) {
		t.Fatalf("diagnostics %d vs %d", len(was), len(now))
	}
	for i := range was {
		if was[i].Code != now[i].Code || was[i].Primary != now[i].Primary || was[i].Message != now[i].Message {
			t.Errorf("diagnostic %d: %+v vs %+v", i, was[i], now[i])
		}
	}
	if !second[1].Bag.HasErrors() || second[1].Outline.Errors != 1 {
		t.Errorf("cached error file lost its errors")
	}
}

func TestOutlineCacheMissOnEdit(t *testing.T) {
	root := writeTree(t, map[string]string{"a.pks": goodPkg})
	cache, err := OpenDiskCache(t.TempDir(), "test")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, "a.pks")
	if _, _, err := OutlineFile(context.Background(), path, Options{Cache: cache}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("CREATE PACKAGE q IS\n  y NUMBER;\nEND;\n/\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, res, err := OutlineFile(context.Background(), path, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached || res.Outline.Units[0].Name != "Q" {
		t.Errorf("stale outline: cached=%v units=%+v", res.Cached, res.Outline.Units)
	}
	for _, d := range res.Bag.Items() {
		if d.Code == diag.IOCacheError {
			t.Errorf("cache warning: %s", d.Message)
		}
	}
}
