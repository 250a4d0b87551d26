package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"easyhue/compiler-go/pkg/ast"
	"easyhue/compiler-go/pkg/parser"
)

// SourceKind records how a program was read.
type SourceKind int

const (
	SourceText SourceKind = iota
	SourceDocument
)

func (k SourceKind) String() string {
	switch k {
	case SourceText:
		return "source"
	case SourceDocument:
		return "document"
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

// Program is a loaded compilation unit.
type Program struct {
	Path string
	Kind SourceKind
	AST  *ast.Program
}

// DefaultCacheSize bounds the number of parsed programs a Loader retains.
const DefaultCacheSize = 64

// Loader reads programs from disk. Parsed trees are cached by absolute path
// and reused while the file's size and modification time are unchanged.
// A Loader is safe for concurrent use.
type Loader struct {
	cache *lru.Cache
}

type cacheEntry struct {
	size    int64
	modTime time.Time
	program *Program
}

// NewLoader constructs a loader retaining up to size parsed programs. A size
// of zero selects DefaultCacheSize.
func NewLoader(size int) (*Loader, error) {
	if size == 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	return &Loader{cache: cache}, nil
}

// Close drops cached programs.
func (l *Loader) Close() {
	if l == nil || l.cache == nil {
		return
	}
	l.cache.Purge()
	l.cache = nil
}

// Cached reports the number of programs currently held.
func (l *Loader) Cached() int {
	if l == nil || l.cache == nil {
		return 0
	}
	return l.cache.Len()
}

// Load reads the program at path. Files ending in .json, .yaml or .yml are
// decoded as AST documents; everything else is parsed as EasyHue source.
func (l *Loader) Load(path string) (*Program, error) {
	if l == nil || l.cache == nil {
		return nil, fmt.Errorf("loader: closed")
	}
	if path == "" {
		return nil, fmt.Errorf("loader: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("loader: stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("loader: %s is a directory", abs)
	}

	if cached, ok := l.cache.Get(abs); ok {
		entry := cached.(*cacheEntry)
		if entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
			return entry.program, nil
		}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", abs, err)
	}
	program, err := LoadBytes(abs, data)
	if err != nil {
		return nil, err
	}
	l.cache.Add(abs, &cacheEntry{size: info.Size(), modTime: info.ModTime(), program: program})
	return program, nil
}

// LoadBytes builds a program from in-memory contents; path selects the
// decoder and labels errors.
func LoadBytes(path string, data []byte) (*Program, error) {
	if IsDocumentPath(path) {
		tree, err := DecodeDocument(data)
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w", path, err)
		}
		return &Program{Path: path, Kind: SourceDocument, AST: tree}, nil
	}
	tree, err := parser.ParseProgram(data)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	return &Program{Path: path, Kind: SourceText, AST: tree}, nil
}

// IsDocumentPath reports whether path names an AST document.
func IsDocumentPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
