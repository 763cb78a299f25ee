package parser

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// MemberTag is a member-style markup tag like <Dropdown.Item/>. Root is
// the identifier the importing file binds, Member the accessed field.
type MemberTag struct {
	Root   string
	Member string
}

// ComponentBody is the markup-relevant content of one component
// declaration: the capitalized element tags it renders, member-style
// tags, and the style tokens found in class attributes and class-merge
// helper calls. Tokens are collected for the style-consistency
// collaborators; the library analyzer only reads the tags.
type ComponentBody struct {
	Name           string
	Elements       []string
	MemberElements []MemberTag
	StyleTokens    []string
}

// classMergeHelpers are the call names whose string arguments carry
// class tokens the same way a class attribute does.
var classMergeHelpers = map[string]struct{}{
	"cn":         {},
	"clsx":       {},
	"classnames": {},
	"classNames": {},
	"cx":         {},
	"twMerge":    {},
	"cva":        {},
}

// registerComponent scans the subtree of a named top-level declaration
// and records its component body. Declarations without any markup still
// get a body so callers can distinguish "known name, no JSX" from
// "unknown name".
func (sf *SourceFile) registerComponent(name string, node *sitter.Node, content []byte) {
	if name == "" || node == nil {
		return
	}
	if _, exists := sf.Components[name]; exists {
		return
	}
	body := &ComponentBody{Name: name}
	scanComponentNode(node, content, body)
	sf.Components[name] = body
}

func scanComponentNode(node *sitter.Node, content []byte, body *ComponentBody) {
	switch node.Type() {
	case "jsx_opening_element", "jsx_self_closing_element":
		recordTag(node, content, body)
	case "jsx_attribute":
		scanClassAttribute(node, content, body)
	case "call_expression":
		scanHelperCall(node, content, body)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		scanComponentNode(node.Child(i), content, body)
	}
}

// recordTag captures the element name of a JSX tag. Lowercase tags are
// intrinsic elements (div, span) and never resolve to an import, so
// only capitalized identifiers and member tags are kept.
func recordTag(node *sitter.Node, content []byte, body *ComponentBody) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	text := nodeText(nameNode, content)

	if idx := strings.Index(text, "."); idx > 0 {
		root := text[:idx]
		member := text[strings.LastIndex(text, ".")+1:]
		if isCapitalized(root) {
			body.MemberElements = append(body.MemberElements, MemberTag{Root: root, Member: member})
		}
		return
	}
	if isCapitalized(text) {
		body.Elements = appendUnique(body.Elements, text)
	}
}

// scanClassAttribute tokenizes className/class attribute values:
// string literals directly, and strings, template-literal segments, and
// helper-call arguments inside expression values.
func scanClassAttribute(node *sitter.Node, content []byte, body *ComponentBody) {
	var attrName string
	var value *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "property_identifier":
			attrName = nodeText(child, content)
		case "string", "jsx_expression":
			value = child
		}
	}
	if attrName != "className" && attrName != "class" || value == nil {
		return
	}
	collectClassTokens(value, content, body)
}

// scanHelperCall tokenizes string arguments of class-merge helpers
// (cn, clsx, twMerge, ...) wherever they appear in the body.
func scanHelperCall(node *sitter.Node, content []byte, body *ComponentBody) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return
	}
	if _, ok := classMergeHelpers[nodeText(fn, content)]; !ok {
		return
	}
	if args := node.ChildByFieldName("arguments"); args != nil {
		collectClassTokens(args, content, body)
	}
}

// collectClassTokens walks a value subtree picking up string literals
// and the literal segments of template strings, splitting each on
// whitespace into individual style tokens. Nested helper calls are
// reached by the recursion.
func collectClassTokens(node *sitter.Node, content []byte, body *ComponentBody) {
	switch node.Type() {
	case "string":
		addTokens(stringContent(node, content), body)
		return
	case "string_fragment":
		addTokens(nodeText(node, content), body)
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectClassTokens(node.Child(i), content, body)
	}
}

func addTokens(raw string, body *ComponentBody) {
	for _, token := range strings.Fields(raw) {
		body.StyleTokens = appendUnique(body.StyleTokens, token)
	}
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}

func isCapitalized(s string) bool {
	if s == "" {
		return false
	}
	return unicode.IsUpper(rune(s[0]))
}
