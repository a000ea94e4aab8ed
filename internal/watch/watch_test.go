package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidDir_Errors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "does-not-exist"), time.Millisecond, func() {}, nil)
	assert.Error(t, err)
}

func TestWatcher_FileWrite_TriggersCallback(t *testing.T) {
	dir := t.TempDir()

	var calls int32
	done := make(chan struct{}, 1)
	w, err := New(dir, 20*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
		select {
		case done <- struct{}{}:
		default:
		}
	}, nil)
	require.NoError(t, err)

	go w.Run()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "n-1.md"), []byte("---\nid: n-1\n---\n"), 0o644))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger was not called within timeout")
	}

	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestWatcher_BurstOfEvents_DebouncesToSingleTrigger(t *testing.T) {
	dir := t.TempDir()

	var calls int32
	w, err := New(dir, 100*time.Millisecond, func() {
		atomic.AddInt32(&calls, 1)
	}, nil)
	require.NoError(t, err)

	go w.Run()
	defer w.Stop()

	path := filepath.Join(dir, "n-1.md")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("burst"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStop_IdempotentAndStopsRunLoop(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, time.Millisecond, func() {}, nil)
	require.NoError(t, err)

	go w.Run()

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
