package indexengine

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/peniel-r/cortex/internal/cerr"
)

// syncLock provides process-level exclusion around a sync run (spec.md
// section 5: "a sync may not run concurrently with another sync or with
// a query"). It never blocks: a sync already in flight makes a second
// one fail fast rather than queue.
type syncLock struct {
	fl *flock.Flock
}

func newSyncLock(path string) *syncLock {
	return &syncLock{fl: flock.New(path)}
}

// TryLock acquires the lock without blocking, creating the parent
// directory if absent. ok is false if another process already holds it.
func (l *syncLock) TryLock() (ok bool, err error) {
	if err := os.MkdirAll(filepath.Dir(l.fl.Path()), 0o755); err != nil {
		return false, cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	acquired, err := l.fl.TryLock()
	if err != nil {
		return false, cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	return acquired, nil
}

func (l *syncLock) Unlock() error {
	return l.fl.Unlock()
}
