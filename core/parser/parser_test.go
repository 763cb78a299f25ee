package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uilens/core/models"
)

func parseFixture(t *testing.T, name, content string) *SourceFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sf, err := New().ParseFile(path)
	require.NoError(t, err)
	require.NotNil(t, sf)
	return sf
}

func TestParseNamedImports(t *testing.T) {
	sf := parseFixture(t, "app.ts", `
import { Button, Card as BaseCard } from "./components";
import React from "react";
import * as utils from "./utils";
import type { Props } from "./types";
`)

	require.Len(t, sf.Imports, 4)

	named := sf.Imports[0]
	assert.Equal(t, "./components", named.Specifier)
	require.Len(t, named.Names, 2)
	assert.Equal(t, "Button", named.Names[0].Name)
	assert.Equal(t, "Button", named.Names[0].Local())
	assert.Equal(t, "Card", named.Names[1].Name)
	assert.Equal(t, "BaseCard", named.Names[1].Local())

	assert.Equal(t, "React", sf.Imports[1].Default)
	assert.Equal(t, "utils", sf.Imports[2].Namespace)
	assert.True(t, sf.Imports[3].IsTypeOnly)
}

func TestParseDynamicImportAndRequire(t *testing.T) {
	sf := parseFixture(t, "lazy.ts", `
const config = require("./config");
export function load() {
  return import("./heavy");
}
`)

	specs := sf.Specifiers()
	assert.Contains(t, specs, "./config")
	assert.Contains(t, specs, "./heavy")

	var dynamic, req bool
	for _, imp := range sf.Imports {
		if imp.Specifier == "./heavy" {
			dynamic = imp.IsDynamic
		}
		if imp.Specifier == "./config" {
			req = imp.IsRequire
		}
	}
	assert.True(t, dynamic)
	assert.True(t, req)
}

func TestParseExportedDeclarations(t *testing.T) {
	sf := parseFixture(t, "shapes.ts", `
export function area(r: number): number { return 3.14 * r * r; }
export class Circle {}
export const PI = 3.14;
export const double = (n: number) => n * 2;
export interface Shape { area(): number; }
export type Radius = number;
export enum Kind { Circle, Square }
`)

	kinds := map[string]models.ExportKind{}
	for _, exp := range sf.Exports {
		kinds[exp.Name] = exp.Kind
	}

	assert.Equal(t, models.ExportFunction, kinds["area"])
	assert.Equal(t, models.ExportClass, kinds["Circle"])
	assert.Equal(t, models.ExportConst, kinds["PI"])
	assert.Equal(t, models.ExportFunction, kinds["double"])
	assert.Equal(t, models.ExportInterface, kinds["Shape"])
	assert.Equal(t, models.ExportType, kinds["Radius"])
	assert.Equal(t, models.ExportEnum, kinds["Kind"])
}

func TestParseReexports(t *testing.T) {
	sf := parseFixture(t, "index.ts", `
export { Button, Card as BaseCard } from "./button";
export * from "./helpers";
export { local };
const local = 1;
`)

	byName := map[string]models.Export{}
	var wildcards []models.Export
	for _, exp := range sf.Exports {
		if exp.IsWildcard {
			wildcards = append(wildcards, exp)
			continue
		}
		byName[exp.Name] = exp
	}

	button := byName["Button"]
	assert.Equal(t, "./button", button.Source)
	assert.Equal(t, "Button", button.LocalName)

	card := byName["BaseCard"]
	assert.Equal(t, "Card", card.LocalName)
	assert.Equal(t, "./button", card.Source)

	local := byName["local"]
	assert.Empty(t, local.Source)

	require.Len(t, wildcards, 1)
	assert.Equal(t, "./helpers", wildcards[0].Source)
}

func TestParseDefaultExports(t *testing.T) {
	named := parseFixture(t, "named.ts", `export default function App() { return 1; }`)
	require.Len(t, named.Exports, 1)
	assert.Equal(t, "default", named.Exports[0].Name)
	assert.Equal(t, "App", named.Exports[0].LocalName)
	assert.Equal(t, models.ExportDefault, named.Exports[0].Kind)

	ident := parseFixture(t, "ident.ts", `
const App = () => 1;
export default App;
`)
	var def *models.Export
	for i := range ident.Exports {
		if ident.Exports[i].Name == "default" {
			def = &ident.Exports[i]
		}
	}
	require.NotNil(t, def)
	assert.Equal(t, "App", def.LocalName)
}

func TestParseJSXComponent(t *testing.T) {
	sf := parseFixture(t, "card.tsx", `
import { Button } from "@mui/material";
import * as Dropdown from "./dropdown";

export function Card() {
  return (
    <div className="p-4 rounded">
      <Button>Go</Button>
      <Dropdown.Item label="x" />
    </div>
  );
}
`)

	assert.True(t, sf.HasJSX)

	body, ok := sf.Components["Card"]
	require.True(t, ok)
	assert.Contains(t, body.Elements, "Button")
	require.Len(t, body.MemberElements, 1)
	assert.Equal(t, "Dropdown", body.MemberElements[0].Root)
	assert.Equal(t, "Item", body.MemberElements[0].Member)
	assert.Contains(t, body.StyleTokens, "p-4")
	assert.Contains(t, body.StyleTokens, "rounded")
}

func TestParseClassMergeHelperTokens(t *testing.T) {
	sf := parseFixture(t, "badge.tsx", `
import { cn } from "./lib/utils";

export const Badge = ({ active }: { active: boolean }) => (
  <span className={cn("inline-flex items-center", active && "bg-green-100")}>ok</span>
);
`)

	body, ok := sf.Components["Badge"]
	require.True(t, ok)
	assert.Contains(t, body.StyleTokens, "inline-flex")
	assert.Contains(t, body.StyleTokens, "items-center")
	assert.Contains(t, body.StyleTokens, "bg-green-100")
}

func TestParseMissingFile(t *testing.T) {
	_, err := New().ParseFile(filepath.Join(t.TempDir(), "absent.ts"))
	assert.Error(t, err)
}

func TestParseSyntaxErrorsDegrade(t *testing.T) {
	sf := parseFixture(t, "broken.ts", `
import { ok } from "./ok";
function broken( {
`)
	assert.True(t, sf.HasErrors)
	require.NotEmpty(t, sf.Imports)
	assert.Equal(t, "./ok", sf.Imports[0].Specifier)
}

func TestImportFor(t *testing.T) {
	sf := parseFixture(t, "lookup.ts", `
import Default from "./default";
import { One, Two as Alias } from "./named";
import * as NS from "./ns";
`)

	imp, ok := sf.ImportFor("Default")
	require.True(t, ok)
	assert.Equal(t, "./default", imp.Specifier)

	imp, ok = sf.ImportFor("Alias")
	require.True(t, ok)
	assert.Equal(t, "./named", imp.Specifier)

	_, ok = sf.ImportFor("Two")
	assert.False(t, ok)

	imp, ok = sf.ImportFor("NS")
	require.True(t, ok)
	assert.Equal(t, "./ns", imp.Specifier)

	_, ok = sf.ImportFor("Unknown")
	assert.False(t, ok)
}
