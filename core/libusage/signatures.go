package libusage

import (
	"strings"

	"uilens/core/config"
)

// Signature identifies a third-party UI component library from the
// shape of a module specifier.
type Signature struct {
	Name       string
	Prefixes   []string
	Substrings []string
}

func (s Signature) matches(specifier string) bool {
	for _, prefix := range s.Prefixes {
		if strings.HasPrefix(specifier, prefix) {
			return true
		}
	}
	for _, sub := range s.Substrings {
		if strings.Contains(specifier, sub) {
			return true
		}
	}
	return false
}

// builtinSignatures covers the component libraries the analyzer knows
// out of the box. Projects add their own through config.
var builtinSignatures = []Signature{
	{Name: "material-ui", Prefixes: []string{"@mui/"}},
	{Name: "ant-design", Prefixes: []string{"antd", "@ant-design/"}},
	{Name: "chakra-ui", Prefixes: []string{"@chakra-ui/"}},
	{Name: "radix-ui", Prefixes: []string{"@radix-ui/"}},
	{Name: "headless-ui", Prefixes: []string{"@headlessui/"}},
	{Name: "mantine", Prefixes: []string{"@mantine/"}},
	{Name: "nextui", Prefixes: []string{"@nextui-org/", "@heroui/"}},
	{Name: "react-bootstrap", Prefixes: []string{"react-bootstrap"}},
	{Name: "primereact", Prefixes: []string{"primereact"}},
	{Name: "fluent-ui", Prefixes: []string{"@fluentui/"}},
	{Name: "shadcn-ui", Substrings: []string{"components/ui/", "components/ui\\"}},
}

// SignatureTable resolves specifiers against the known signatures in a
// fixed order: built-ins first, then config additions.
type SignatureTable struct {
	signatures []Signature
}

// NewSignatureTable builds the table, appending any user-configured
// library signatures to the built-in set.
func NewSignatureTable(extra []config.Library) *SignatureTable {
	table := &SignatureTable{signatures: append([]Signature(nil), builtinSignatures...)}
	for _, lib := range extra {
		if lib.Name == "" {
			continue
		}
		table.signatures = append(table.signatures, Signature{
			Name:       lib.Name,
			Prefixes:   lib.Prefixes,
			Substrings: lib.Substrings,
		})
	}
	return table
}

// Match returns the library a specifier belongs to, if any.
func (t *SignatureTable) Match(specifier string) (string, bool) {
	if specifier == "" {
		return "", false
	}
	for _, sig := range t.signatures {
		if sig.matches(specifier) {
			return sig.Name, true
		}
	}
	return "", false
}
