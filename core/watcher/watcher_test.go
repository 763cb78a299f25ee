package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingInvalidator) InvalidateFile(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recordingInvalidator) invalidated() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func newWatcher(t *testing.T, root string, excludes []string, engine Invalidator) *FileWatcher {
	t.Helper()
	fw, err := New(root, excludes, engine, 20*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { fw.Close() })
	return fw
}

func TestShouldExcludePath(t *testing.T) {
	root := t.TempDir()
	fw := newWatcher(t, root, []string{"dist"}, &recordingInvalidator{})

	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "node_modules/pkg/index.js")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, ".git/HEAD")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "dist")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "dist/app.js")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "src/app.tsx")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "distro/app.ts")))
}

func TestIsSourceFile(t *testing.T) {
	assert.True(t, isSourceFile("a.ts"))
	assert.True(t, isSourceFile("a.tsx"))
	assert.True(t, isSourceFile("tsconfig.json"))
	assert.False(t, isSourceFile("a.css"))
	assert.False(t, isSourceFile("a.md"))
}

func TestWatchInvalidatesOnWrite(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	path := filepath.Join(src, "app.tsx")
	require.NoError(t, os.WriteFile(path, []byte("export {};"), 0o644))

	engine := &recordingInvalidator{}
	fw := newWatcher(t, root, nil, engine)

	done := make(chan struct{})
	fw.OnChange = func() error {
		close(done)
		return nil
	}
	go fw.Watch()

	// Give the recursive watch registration a moment.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("export const x = 1;"), 0o644))

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
	assert.Contains(t, engine.invalidated(), path)
}

func TestWatchIgnoresExcludedDirs(t *testing.T) {
	root := t.TempDir()
	nm := filepath.Join(root, "node_modules")
	require.NoError(t, os.MkdirAll(nm, 0o755))

	engine := &recordingInvalidator{}
	fw := newWatcher(t, root, nil, engine)
	go fw.Watch()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(nm, "dep.js"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)

	assert.Empty(t, engine.invalidated())
}
