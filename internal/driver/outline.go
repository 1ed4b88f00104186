package driver

import (
	"context"
	"fmt"
	"time"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/outline"
	"plsqldoc/internal/source"
	"plsqldoc/internal/trace"
)

type OutlineResult struct {
	Path    string
	File    *source.File
	Outline *outline.Outline
	Bag     *diag.Bag
	// Cached is set when the outline came from the disk cache without parsing.
	Cached bool
}

// OutlineDir extracts the outline of every script under root. With
// Options.Cache set, unchanged files are served from the cache.
func OutlineDir(ctx context.Context, root string, opts Options) (*source.FileSet, []OutlineResult, error) {
	b, err := loadBatch(root, &opts)
	if err != nil {
		return nil, nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopePhase, "outline")
	defer span.End("")

	results := make([]OutlineResult, len(b.paths))
	err = b.run(ctx, &opts, func(ctx context.Context, i int, path string) error {
		file, failed := b.file(path, &opts)
		if failed != nil {
			results[i] = OutlineResult{Path: path, Bag: failed}
			emit(opts.Progress, path, StageLoad, StatusError, nil, 0)
			return nil
		}
		start := time.Now()
		emit(opts.Progress, path, StageOutline, StatusWorking, nil, 0)
		res := outlineLoaded(ctx, b.fs, file, b.display(file), &opts)
		res.Path = path
		results[i] = *res
		status := finalStatus(res.Bag)
		if res.Cached && status == StatusDone {
			status = StatusCached
		}
		emit(opts.Progress, path, StageOutline, status, nil, time.Since(start))
		return nil
	})
	return b.fs, results, err
}

// OutlineFile extracts the outline of one script.
func OutlineFile(ctx context.Context, path string, opts Options) (*source.FileSet, *OutlineResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	file := fs.Get(fileID)
	res := outlineLoaded(ctx, fs, file, path, &opts)
	res.Path = path
	return fs, res, nil
}

func outlineLoaded(ctx context.Context, fs *source.FileSet, file *source.File, display string, opts *Options) *OutlineResult {
	content := Digest(file.Hash)
	key := opts.Cache.Key(content)
	var cacheErr error

	if opts.Cache != nil {
		var payload CachePayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			cacheErr = err
		case hit && payload.Content == content && payload.Outline != nil:
			bag := diag.NewBag(opts.MaxDiagnostics)
			payload.restore(file, bag)
			payload.Outline.File = display
			trace.Point(ctx, trace.ScopeFile, "cache hit", file.Path)
			return &OutlineResult{File: file, Outline: payload.Outline, Bag: bag, Cached: true}
		}
	}

	res := parseLoaded(ctx, fs, file, opts)
	done := opts.track("outline")
	o := outline.Build(display, res.Script)
	done()

	if opts.Cache != nil && cacheErr == nil {
		cacheErr = opts.Cache.Put(key, toPayload(content, o, res.Bag))
	}
	if cacheErr != nil {
		res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{}, "outline cache: "+cacheErr.Error()))
	}
	return &OutlineResult{File: file, Outline: o, Bag: res.Bag}
}
