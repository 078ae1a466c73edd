package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// BackupSuffix is appended to a collection file that failed to parse.
const BackupSuffix = ".bak"

var (
	locksMu sync.Mutex
	locks   = map[string]*sync.Mutex{}
)

// pathLock returns the process-wide lock for a file path, so two Collection
// values opened on the same file never interleave their writes.
func pathLock(path string) *sync.Mutex {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	locksMu.Lock()
	defer locksMu.Unlock()
	mu, ok := locks[key]
	if !ok {
		mu = &sync.Mutex{}
		locks[key] = mu
	}
	return mu
}

// RecoverFunc is called after a corrupt collection file was moved aside.
type RecoverFunc func(path, backup string, parseErr error)

// Collection is an ordered list of records stored as one JSON array in a file.
// A missing file reads as an empty collection. A file that does not parse is
// renamed to <path>.bak and also reads as empty. Writes replace the whole
// file through a temporary sibling and a rename, so readers only ever see a
// complete array.
//
// The lock only covers this process.
type Collection[T any] struct {
	name      string
	path      string
	mu        *sync.Mutex
	log       *zap.Logger
	onRecover RecoverFunc
}

type Option func(*options)

type options struct {
	log       *zap.Logger
	onRecover RecoverFunc
}

func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

func WithRecoverHook(f RecoverFunc) Option { return func(o *options) { o.onRecover = f } }

func NewCollection[T any](name, path string, opts ...Option) *Collection[T] {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return &Collection[T]{
		name:      name,
		path:      path,
		mu:        pathLock(path),
		log:       o.log.With(zap.String("collection", name), zap.String("path", path)),
		onRecover: o.onRecover,
	}
}

func (c *Collection[T]) Name() string { return c.name }
func (c *Collection[T]) Path() string { return c.path }

// Load returns all records in file order.
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadUnlocked()
}

// Append adds one record at the end and rewrites the file.
func (c *Collection[T]) Append(rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.loadUnlocked()
	if err != nil {
		return err
	}
	items = append(items, rec)
	return c.saveUnlocked(items)
}

// Count returns the number of stored records.
func (c *Collection[T]) Count() (int, error) {
	items, err := c.Load()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (c *Collection[T]) loadUnlocked() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.recoverCorrupt(err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) recoverCorrupt(parseErr error) {
	backup := c.path + BackupSuffix
	if err := os.Rename(c.path, backup); err != nil {
		c.log.Error("corrupt collection file could not be moved aside",
			zap.NamedError("parse_error", parseErr), zap.Error(err))
		return
	}
	c.log.Warn("corrupt collection file moved aside, starting empty",
		zap.String("backup", backup), zap.NamedError("parse_error", parseErr))
	if c.onRecover != nil {
		c.onRecover(c.path, backup, parseErr)
	}
}

func (c *Collection[T]) saveUnlocked(items []T) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	return nil
}
