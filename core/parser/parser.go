package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"uilens/core/logger"
	"uilens/core/models"
)

// DefaultMaxFileSize caps how large a source file the parser accepts.
const DefaultMaxFileSize = 10 * 1024 * 1024

// SourceFile is the parsed shape of one TypeScript/TSX file: its import
// edges, its export map, and the component bodies needed by the library
// usage analyzer. All extraction happens eagerly at parse time so the
// tree-sitter tree can be released immediately.
type SourceFile struct {
	Path       string
	Imports    []models.Import
	Exports    []models.Export
	HasJSX     bool
	Components map[string]*ComponentBody
	HasErrors  bool
}

// ImportFor returns the import that binds the given local name, if any.
// Default, namespace, and named (possibly aliased) imports all count.
func (sf *SourceFile) ImportFor(localName string) (models.Import, bool) {
	for _, imp := range sf.Imports {
		if imp.Default == localName || imp.Namespace == localName {
			return imp, true
		}
		for _, n := range imp.Names {
			if n.Local() == localName {
				return imp, true
			}
		}
	}
	return models.Import{}, false
}

// Specifiers returns every module specifier the file references:
// imports (static, dynamic, require) and re-export sources.
func (sf *SourceFile) Specifiers() []string {
	seen := make(map[string]struct{})
	var specs []string
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		specs = append(specs, s)
	}
	for _, imp := range sf.Imports {
		add(imp.Specifier)
	}
	for _, exp := range sf.Exports {
		add(exp.Source)
	}
	return specs
}

// Parser turns TypeScript/TSX source text into SourceFile records using
// tree-sitter. A fresh tree-sitter parser is created per call, so a
// Parser is safe for concurrent use.
type Parser struct {
	maxFileSize int64
}

func New() *Parser {
	return &Parser{maxFileSize: DefaultMaxFileSize}
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(path string) (*SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return p.Parse(content, path)
}

// Parse parses source content. Syntax errors do not abort extraction:
// tree-sitter produces a partial tree and the result carries whatever
// imports and exports were recoverable, with HasErrors set.
func (p *Parser) Parse(content []byte, path string) (*SourceFile, error) {
	sf := &SourceFile{
		Path:       path,
		Components: make(map[string]*ComponentBody),
	}

	if int64(len(content)) > p.maxFileSize {
		return sf, fmt.Errorf("file %s exceeds size limit (%d bytes)", path, p.maxFileSize)
	}

	parser := sitter.NewParser()
	if strings.HasSuffix(path, ".tsx") || strings.HasSuffix(path, ".jsx") {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(typescript.GetLanguage())
	}

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return sf, fmt.Errorf("tree-sitter parse failed for %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		sf.HasErrors = true
		return sf, nil
	}
	if root.HasError() {
		sf.HasErrors = true
		logger.Debug("Parser: %s contains syntax errors, extracting best-effort", path)
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "import_statement":
			p.processImport(child, content, sf)
		case "export_statement":
			p.processExport(child, content, sf)
		case "function_declaration", "generator_function_declaration":
			if name := fieldText(child, "name", content); name != "" {
				sf.registerComponent(name, child, content)
			}
		case "class_declaration", "abstract_class_declaration":
			if name := fieldText(child, "name", content); name != "" {
				sf.registerComponent(name, child, content)
			}
		case "lexical_declaration", "variable_declaration":
			p.processRequire(child, content, sf)
			p.registerDeclarators(child, content, sf)
		}
	}

	p.scanExpressions(root, content, sf)
	return sf, nil
}

// processImport handles ES module import statements.
func (p *Parser) processImport(node *sitter.Node, content []byte, sf *SourceFile) {
	imp := models.Import{Line: int(node.StartPoint().Row) + 1}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type":
			imp.IsTypeOnly = true
		case "import_clause":
			p.processImportClause(child, content, &imp)
		case "string":
			imp.Specifier = stringContent(child, content)
		}
	}

	if imp.Specifier == "" {
		return
	}
	sf.Imports = append(sf.Imports, imp)
}

// processImportClause extracts default, namespace, and named imports.
func (p *Parser) processImportClause(node *sitter.Node, content []byte, imp *models.Import) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			imp.Default = nodeText(child, content)
		case "namespace_import":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() == "identifier" {
					imp.Namespace = nodeText(gc, content)
				}
			}
		case "named_imports":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() != "import_specifier" {
					continue
				}
				name := fieldText(gc, "name", content)
				if name == "" {
					continue
				}
				imp.Names = append(imp.Names, models.ImportedName{
					Name:  name,
					Alias: fieldText(gc, "alias", content),
				})
			}
		}
	}
}

// processRequire handles `const foo = require('bar')` declarations.
func (p *Parser) processRequire(node *sitter.Node, content []byte, sf *SourceFile) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "variable_declarator" {
			continue
		}

		name := fieldText(child, "name", content)
		value := child.ChildByFieldName("value")
		if name == "" || value == nil || value.Type() != "call_expression" {
			continue
		}

		fn := value.ChildByFieldName("function")
		if fn == nil || nodeText(fn, content) != "require" {
			continue
		}

		spec := firstStringArgument(value, content)
		if spec == "" {
			continue
		}
		sf.Imports = append(sf.Imports, models.Import{
			Specifier: spec,
			Default:   name,
			IsRequire: true,
			Line:      int(node.StartPoint().Row) + 1,
		})
	}
}

// processExport handles export statements: exported declarations,
// brace-list exports with optional re-export sources, wildcard
// re-exports, and default exports.
func (p *Parser) processExport(node *sitter.Node, content []byte, sf *SourceFile) {
	line := int(node.StartPoint().Row) + 1
	isDefault := false
	isTypeOnly := false
	var clause []models.Export
	var wildcard *models.Export

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "default":
			isDefault = true
		case "type":
			isTypeOnly = true
		case "function_declaration", "generator_function_declaration":
			name := fieldText(child, "name", content)
			sf.addDeclarationExport(name, models.ExportFunction, isDefault, line)
			sf.registerComponent(name, child, content)
		case "class_declaration", "abstract_class_declaration":
			name := fieldText(child, "name", content)
			sf.addDeclarationExport(name, models.ExportClass, isDefault, line)
			sf.registerComponent(name, child, content)
		case "interface_declaration":
			sf.addDeclarationExport(fieldText(child, "name", content), models.ExportInterface, false, line)
		case "type_alias_declaration":
			sf.addDeclarationExport(fieldText(child, "name", content), models.ExportType, false, line)
		case "enum_declaration":
			sf.addDeclarationExport(fieldText(child, "name", content), models.ExportEnum, false, line)
		case "lexical_declaration", "variable_declaration":
			p.processExportedDeclarators(child, content, sf, line)
		case "export_clause":
			clause = append(clause, p.processExportClause(child, content, isTypeOnly, line)...)
		case "*":
			wildcard = &models.Export{IsWildcard: true, Line: line}
		case "namespace_export":
			// export * as ns from "..."
			name := ""
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() == "identifier" {
					name = nodeText(gc, content)
				}
			}
			wildcard = &models.Export{Name: name, IsWildcard: true, Line: line}
		case "string":
			source := stringContent(child, content)
			for j := range clause {
				clause[j].Source = source
			}
			if wildcard != nil {
				wildcard.Source = source
			}
		case "identifier":
			if isDefault {
				sf.Exports = append(sf.Exports, models.Export{
					Name:      "default",
					LocalName: nodeText(child, content),
					Kind:      models.ExportDefault,
					Line:      line,
				})
			}
		case "call_expression", "object", "arrow_function", "function_expression",
			"parenthesized_expression", "jsx_element", "jsx_self_closing_element":
			if isDefault {
				// export default <expression> with no reusable local name
				sf.Exports = append(sf.Exports, models.Export{
					Name: "default",
					Kind: models.ExportDefault,
					Line: line,
				})
			}
		}
	}

	sf.Exports = append(sf.Exports, clause...)
	if wildcard != nil {
		sf.Exports = append(sf.Exports, *wildcard)
	}
}

// processExportClause extracts `export { a, b as c }` specifiers.
func (p *Parser) processExportClause(node *sitter.Node, content []byte, typeOnly bool, line int) []models.Export {
	var exports []models.Export
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "export_specifier" {
			continue
		}
		local := fieldText(child, "name", content)
		if local == "" {
			continue
		}
		exported := fieldText(child, "alias", content)
		if exported == "" {
			exported = local
		}
		kind := models.ExportUnknown
		if typeOnly {
			kind = models.ExportType
		}
		exports = append(exports, models.Export{
			Name:      exported,
			LocalName: local,
			Kind:      kind,
			Line:      line,
		})
	}
	return exports
}

// processExportedDeclarators records exports for `export const a = ...`.
func (p *Parser) processExportedDeclarators(node *sitter.Node, content []byte, sf *SourceFile, line int) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		name := fieldText(child, "name", content)
		if name == "" {
			continue
		}
		kind := models.ExportConst
		if value := child.ChildByFieldName("value"); value != nil {
			switch value.Type() {
			case "arrow_function", "function", "function_expression", "generator_function":
				kind = models.ExportFunction
			case "class":
				kind = models.ExportClass
			}
		}
		sf.Exports = append(sf.Exports, models.Export{
			Name:      name,
			LocalName: name,
			Kind:      kind,
			Line:      line,
		})
		sf.registerComponent(name, child, content)
	}
}

// registerDeclarators captures non-exported top-level declarations so
// locally defined components are scannable by name.
func (p *Parser) registerDeclarators(node *sitter.Node, content []byte, sf *SourceFile) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		if name := fieldText(child, "name", content); name != "" {
			sf.registerComponent(name, child, content)
		}
	}
}

func (sf *SourceFile) addDeclarationExport(name string, kind models.ExportKind, isDefault bool, line int) {
	if name == "" && !isDefault {
		return
	}
	exported := name
	if isDefault {
		exported = "default"
		kind = models.ExportDefault
	}
	sf.Exports = append(sf.Exports, models.Export{
		Name:      exported,
		LocalName: name,
		Kind:      kind,
		Line:      line,
	})
}

// scanExpressions walks the whole tree once for constructs that can
// appear at any depth: dynamic import() expressions and JSX presence.
func (p *Parser) scanExpressions(node *sitter.Node, content []byte, sf *SourceFile) {
	switch node.Type() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		sf.HasJSX = true
	case "call_expression":
		fn := node.ChildByFieldName("function")
		if fn != nil && fn.Type() == "import" {
			if spec := firstStringArgument(node, content); spec != "" {
				sf.Imports = append(sf.Imports, models.Import{
					Specifier: spec,
					IsDynamic: true,
					Line:      int(node.StartPoint().Row) + 1,
				})
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		p.scanExpressions(node.Child(i), content, sf)
	}
}

func nodeText(node *sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}

func fieldText(node *sitter.Node, field string, content []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return nodeText(child, content)
}

// stringContent returns the unquoted content of a string literal node.
func stringContent(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "string_fragment" {
			return nodeText(child, content)
		}
	}
	return strings.Trim(nodeText(node, content), `"'`)
}

// firstStringArgument returns the first string literal argument of a
// call expression, or "".
func firstStringArgument(call *sitter.Node, content []byte) string {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return ""
	}
	for i := 0; i < int(args.ChildCount()); i++ {
		arg := args.Child(i)
		if arg.Type() == "string" {
			return stringContent(arg, content)
		}
	}
	return ""
}
