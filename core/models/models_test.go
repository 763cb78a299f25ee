package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependencyGraph(t *testing.T) {
	g := NewDependencyGraph("/app.tsx")
	assert.Equal(t, 0, g.Size())
	assert.False(t, g.Contains("/b.ts"))

	g.AllDependencies["/b.ts"] = struct{}{}
	g.AllDependencies["/a.ts"] = struct{}{}

	assert.True(t, g.Contains("/b.ts"))
	assert.Equal(t, 2, g.Size())
	assert.Equal(t, []string{"/a.ts", "/b.ts"}, g.Sorted())
}

func TestLibraryUsageInfoLibraries(t *testing.T) {
	info := NewLibraryUsageInfo()
	assert.Empty(t, info.Libraries())

	info.Library = "material-ui"
	info.AddInternal("ant-design")
	info.AddInternal("material-ui")
	info.AddInternal("")

	assert.Equal(t, []string{"ant-design", "material-ui"}, info.Libraries())
}

func TestImportedNameLocal(t *testing.T) {
	assert.Equal(t, "Button", ImportedName{Name: "Button"}.Local())
	assert.Equal(t, "BaseCard", ImportedName{Name: "Card", Alias: "BaseCard"}.Local())
}

func TestFileCategoryWeightDefault(t *testing.T) {
	assert.Equal(t, 0.5, FileCategory("mystery").Weight())
}
