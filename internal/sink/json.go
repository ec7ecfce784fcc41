package sink

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gofrs/flock"

	"cadence/internal/catalog"
	"cadence/internal/fileutil"
)

const lockRetryDelay = 50 * time.Millisecond

// JSON writes the collection as an indented JSON array.
type JSON struct {
	path   string
	indent int
}

// NewJSON returns a JSON sink.
func NewJSON(path string, indent int) *JSON {
	return &JSON{path: path, indent: indent}
}

// Path returns the output file.
func (s *JSON) Path() string {
	return s.path
}

// LockPath returns the advisory lock file guarding the output.
func (s *JSON) LockPath() string {
	return s.path + ".lock"
}

// Write replaces the output file with entries. Concurrent writers to the same
// path are serialized through the lock file; ctx bounds the wait.
func (s *JSON) Write(ctx context.Context, entries []catalog.Entry) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return fileutil.WriteAtomic(s.path, 0o644, func(w io.Writer) error {
		return catalog.Encode(w, entries, s.indent)
	})
}

// Read loads the collection back.
func (s *JSON) Read(ctx context.Context) ([]catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return catalog.Load(s.path)
}

func (s *JSON) lock(ctx context.Context) (func(), error) {
	if err := ensureParent(s.path); err != nil {
		return nil, err
	}
	lock := flock.New(s.LockPath())
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire output lock: %s is held by another process", s.LockPath())
	}
	return func() { _ = lock.Unlock() }, nil
}
