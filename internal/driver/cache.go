package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"plsqldoc/internal/diag"
	"plsqldoc/internal/outline"
	"plsqldoc/internal/source"
)

// Current schema version - increment when CachePayload format changes
const cacheSchemaVersion uint16 = 1

// Digest is a SHA-256 value.
type Digest [32]byte

// DiskCache stores outlines by content digest on disk.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu   sync.RWMutex
	dir  string
	salt string
}

// CachePayload is what one cached script keeps: its outline and the
// diagnostics the parse produced, so a hit reports the same findings.
type CachePayload struct {
	Schema      uint16
	Content     Digest
	Outline     *outline.Outline
	Diagnostics []cachedDiagnostic
}

type cachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Located  bool
	Start    int
	End      int
	Notes    []cachedNote
}

type cachedNote struct {
	Located bool
	Start   int
	End     int
	Msg     string
}

// OpenDiskCache opens (creating if needed) a cache in dir. salt is mixed
// into every key; pass the tool version so a new build starts clean.
func OpenDiskCache(dir, salt string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir, salt: salt}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Key combines the content hash with the schema version and the salt.
func (c *DiskCache) Key(content Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], cacheSchemaVersion)
	_, _ = h.Write(schema[:])
	if c != nil {
		_, _ = h.Write([]byte(c.salt))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// раскладываем по подкаталогам, чтобы не плодить тысячи файлов в одном
	return filepath.Join(c.dir, "outlines", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload.
func (c *DiskCache) Put(key Digest, payload *CachePayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = cacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or one written by another schema is
// a miss, not an error.
func (c *DiskCache) Get(key Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == cacheSchemaVersion, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func toPayload(content Digest, o *outline.Outline, bag *diag.Bag) *CachePayload {
	payload := &CachePayload{Content: content, Outline: o}
	for _, d := range bag.Items() {
		cd := cachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Located:  d.Primary.Start.IsValid(),
			Start:    d.Primary.Start.Offset,
			End:      d.Primary.End.Offset,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{
				Located: n.Span.Start.IsValid(),
				Start:   n.Span.Start.Offset,
				End:     n.Span.End.Offset,
				Msg:     n.Msg,
			})
		}
		payload.Diagnostics = append(payload.Diagnostics, cd)
	}
	return payload
}

// restore rebuilds the diagnostics against the freshly loaded file; spans
// are kept as offsets only.
func (p *CachePayload) restore(file *source.File, bag *diag.Bag) {
	span := func(located bool, start, end int) source.Span {
		if !located {
			return source.Span{}
		}
		return source.Span{File: file.ID, Start: file.PositionAt(start), End: file.PositionAt(end)}
	}
	for _, cd := range p.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), span(cd.Located, cd.Start, cd.End), cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(span(n.Located, n.Start, n.End), n.Msg)
		}
		bag.Add(d)
	}
}
