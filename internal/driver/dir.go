package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"plsqldoc/internal/ast"
	"plsqldoc/internal/diag"
	"plsqldoc/internal/source"
	"plsqldoc/internal/token"
	"plsqldoc/internal/trace"
)

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path   string
	File   *source.File // nil, если файл не загрузился
	Tokens []token.Token
	Bag    *diag.Bag
}

// ParseDirResult содержит результат парсинга одного файла
type ParseDirResult struct {
	Path   string
	File   *source.File
	Script *ast.Script
	Bag    *diag.Bag
	Err    error
}

// ListFiles returns the scripts under root in sorted order. A root that is a
// file is returned as is, whatever its extension.
func ListFiles(root string, exts []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if hasExtension(path, exts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// batch is a set of preloaded files. Loading is sequential; the FileSet is
// only read afterwards.
type batch struct {
	fs     *source.FileSet
	paths  []string
	ids    map[string]source.FileID
	errors map[string]error
}

func loadBatch(root string, opts *Options) (*batch, error) {
	paths, err := ListFiles(root, opts.extensions())
	if err != nil {
		return nil, err
	}
	base := root
	if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
		base = filepath.Dir(root)
	}
	b := &batch{
		fs:     source.NewFileSetWithBase(base),
		paths:  paths,
		ids:    make(map[string]source.FileID, len(paths)),
		errors: make(map[string]error),
	}
	for _, path := range paths {
		id, loadErr := b.fs.Load(path)
		if loadErr != nil {
			// ошибку загрузки отдаём как диагностику этого файла
			b.errors[path] = loadErr
			continue
		}
		b.ids[path] = id
	}
	return b, nil
}

// file returns the loaded file, or a bag holding the load failure.
func (b *batch) file(path string, opts *Options) (*source.File, *diag.Bag) {
	if loadErr, failed := b.errors[path]; failed {
		bag := diag.NewBag(opts.MaxDiagnostics)
		bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
		return nil, bag
	}
	return b.fs.Get(b.ids[path]), nil
}

func (b *batch) display(file *source.File) string {
	return file.FormatPath("relative", b.fs.BaseDir())
}

func (b *batch) run(ctx context.Context, opts *Options, fn func(ctx context.Context, i int, path string) error) error {
	for _, path := range b.paths {
		emit(opts.Progress, path, StageLoad, StatusQueued, nil, 0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs(len(b.paths)))
	for i, path := range b.paths {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, i, path)
		})
	}
	return g.Wait()
}

// TokenizeDir токенизирует все скрипты под root параллельно.
func TokenizeDir(ctx context.Context, root string, opts Options) (*source.FileSet, []TokenizeDirResult, error) {
	b, err := loadBatch(root, &opts)
	if err != nil {
		return nil, nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopePhase, "tokenize")
	defer span.End("")

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]TokenizeDirResult, len(b.paths))
	err = b.run(ctx, &opts, func(_ context.Context, i int, path string) error {
		file, failed := b.file(path, &opts)
		if failed != nil {
			results[i] = TokenizeDirResult{Path: path, Bag: failed}
			emit(opts.Progress, path, StageLoad, StatusError, nil, 0)
			return nil
		}
		start := time.Now()
		emit(opts.Progress, path, StageLex, StatusWorking, nil, 0)
		bag := diag.NewBag(opts.MaxDiagnostics)
		results[i] = TokenizeDirResult{Path: path, File: file, Tokens: tokenizeFile(file, bag, &opts), Bag: bag}
		emit(opts.Progress, path, StageLex, finalStatus(bag), nil, time.Since(start))
		return nil
	})
	return b.fs, results, err
}

// ParseDir парсит все скрипты под root параллельно, по сессии на файл.
func ParseDir(ctx context.Context, root string, opts Options) (*source.FileSet, []ParseDirResult, error) {
	b, err := loadBatch(root, &opts)
	if err != nil {
		return nil, nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopePhase, "parse")
	defer span.End("")

	results := make([]ParseDirResult, len(b.paths))
	err = b.run(ctx, &opts, func(ctx context.Context, i int, path string) error {
		file, failed := b.file(path, &opts)
		if failed != nil {
			results[i] = ParseDirResult{Path: path, Bag: failed}
			emit(opts.Progress, path, StageLoad, StatusError, nil, 0)
			return nil
		}
		start := time.Now()
		emit(opts.Progress, path, StageParse, StatusWorking, nil, 0)
		res := parseLoaded(ctx, b.fs, file, &opts)
		results[i] = ParseDirResult{Path: path, File: file, Script: res.Script, Bag: res.Bag, Err: res.Err}
		emit(opts.Progress, path, StageParse, finalStatus(res.Bag), res.Err, time.Since(start))
		return nil
	})
	return b.fs, results, err
}

func finalStatus(bag *diag.Bag) Status {
	if bag.HasErrors() {
		return StatusError
	}
	return StatusDone
}
