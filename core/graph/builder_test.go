package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uilens/core/parser"
	"uilens/core/resolver"
)

type parsingProvider struct {
	parser *parser.Parser
}

func (pp *parsingProvider) SourceFile(path string) *parser.SourceFile {
	sf, err := pp.parser.ParseFile(path)
	if err != nil {
		return nil
	}
	return sf
}

func newBuilder(root string) *Builder {
	return New(&parsingProvider{parser: parser.New()}, resolver.New(root))
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildClosure(t *testing.T) {
	root := t.TempDir()
	util := writeFile(t, root, "src/util.ts", `export const fmt = (s: string) => s;`)
	card := writeFile(t, root, "src/card.tsx", `
import { fmt } from "./util";
export const Card = () => <div>{fmt("x")}</div>;
`)
	app := writeFile(t, root, "src/app.tsx", `
import { Card } from "./card";
export const App = () => <Card />;
`)

	g := newBuilder(root).Build(app, root)
	assert.Equal(t, app, g.Root)
	assert.ElementsMatch(t, []string{card, util}, g.Sorted())
	assert.Equal(t, 2, g.Size())
}

func TestBuildExcludesEntryFromOwnClosure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/b.ts", `
import { a } from "./a";
export const b = a + 1;
`)
	a := writeFile(t, root, "src/a.ts", `
import { b } from "./b";
export const a = 1;
`)

	g := newBuilder(root).Build(a, root)
	assert.False(t, g.Contains(a))
}

func TestBuildTwoFileCycle(t *testing.T) {
	root := t.TempDir()
	b := writeFile(t, root, "src/b.ts", `
import { a } from "./a";
export const b = 1;
`)
	a := writeFile(t, root, "src/a.ts", `
import { b } from "./b";
export const a = 1;
`)

	builder := newBuilder(root)
	fromA := builder.Build(a, root)
	assert.ElementsMatch(t, []string{b}, fromA.Sorted())

	fromB := builder.Build(b, root)
	assert.ElementsMatch(t, []string{a}, fromB.Sorted())
}

func TestBuildSkipsExternalImports(t *testing.T) {
	root := t.TempDir()
	util := writeFile(t, root, "src/util.ts", `export const x = 1;`)
	app := writeFile(t, root, "src/app.tsx", `
import React from "react";
import { Button } from "@mui/material";
import { x } from "./util";
export const App = () => <Button>{x}</Button>;
`)

	g := newBuilder(root).Build(app, root)
	assert.ElementsMatch(t, []string{util}, g.Sorted())
}

func TestBuildSkipsFilesOutsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "project")
	writeFile(t, parent, "outside.ts", `export const o = 1;`)
	app := writeFile(t, root, "src/app.ts", `import { o } from "../../outside";`)

	g := newBuilder(root).Build(app, root)
	assert.Equal(t, 0, g.Size())
}

func TestBuildFollowsReexportEdges(t *testing.T) {
	root := t.TempDir()
	button := writeFile(t, root, "src/ui/button.tsx", `export const Button = () => <button />;`)
	index := writeFile(t, root, "src/ui/index.ts", `export { Button } from "./button";`)
	app := writeFile(t, root, "src/app.tsx", `
import { Button } from "./ui";
export const App = () => <Button />;
`)

	g := newBuilder(root).Build(app, root)
	assert.ElementsMatch(t, []string{index, button}, g.Sorted())
}

func TestBuildMissingEntryIsEmpty(t *testing.T) {
	root := t.TempDir()
	g := newBuilder(root).Build(filepath.Join(root, "absent.ts"), root)
	require.NotNil(t, g)
	assert.Equal(t, 0, g.Size())
}

func TestBuildReturnsCachedGraph(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/util.ts", `export const x = 1;`)
	app := writeFile(t, root, "src/app.ts", `import { x } from "./util";`)

	builder := newBuilder(root)
	first := builder.Build(app, root)
	second := builder.Build(app, root)
	assert.Same(t, first, second)
	assert.Equal(t, 1, builder.Stats().Size)
}

func TestInvalidateFileCascades(t *testing.T) {
	root := t.TempDir()
	util := writeFile(t, root, "src/util.ts", `export const x = 1;`)
	app := writeFile(t, root, "src/app.ts", `import { x } from "./util";`)
	other := writeFile(t, root, "src/other.ts", `export const y = 2;`)

	builder := newBuilder(root)
	builder.Build(app, root)
	builder.Build(other, root)
	require.Equal(t, 2, builder.Stats().Size)

	// util is a member of app's closure but not other's.
	builder.InvalidateFile(util)
	stats := builder.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, []string{other}, stats.Entries)
}

func TestClear(t *testing.T) {
	root := t.TempDir()
	app := writeFile(t, root, "src/app.ts", `export const a = 1;`)

	builder := newBuilder(root)
	builder.Build(app, root)
	require.Equal(t, 1, builder.Stats().Size)

	builder.Clear()
	assert.Equal(t, 0, builder.Stats().Size)
}
