package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("export {};"), 0o644))
	return path
}

func TestFilesFindsSources(t *testing.T) {
	root := t.TempDir()
	app := writeFile(t, root, "src/app.tsx")
	util := writeFile(t, root, "src/lib/util.ts")
	writeFile(t, root, "src/styles.css")
	writeFile(t, root, "README.md")

	files, err := Files(root)
	require.NoError(t, err)
	assert.Equal(t, []string{app, util}, files)
}

func TestFilesSkipsGeneratedAndTestFiles(t *testing.T) {
	root := t.TempDir()
	app := writeFile(t, root, "src/app.tsx")
	writeFile(t, root, "node_modules/pkg/index.ts")
	writeFile(t, root, "dist/app.js")
	writeFile(t, root, ".next/page.tsx")
	writeFile(t, root, "src/__tests__/app.ts")
	writeFile(t, root, "src/app.test.tsx")
	writeFile(t, root, "src/app.spec.ts")
	writeFile(t, root, "src/card.stories.tsx")
	writeFile(t, root, "src/.hidden.ts")

	files, err := Files(root)
	require.NoError(t, err)
	assert.Equal(t, []string{app}, files)
}

func TestFilesHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	app := writeFile(t, root, "src/app.tsx")
	writeFile(t, root, "src/generated/api.ts")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("src/generated/\n"), 0o644))

	files, err := Files(root)
	require.NoError(t, err)
	assert.Equal(t, []string{app}, files)
}

func TestFilesEmptyProject(t *testing.T) {
	files, err := Files(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}
