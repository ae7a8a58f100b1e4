package common

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Node is the decoder's untyped view of one parenthesised region of a dump.
// Nodes are built once by the decoder and only read afterwards.
type Node struct {
	Name                 string            `json:"name"`                 // Catalog name, e.g. "Call Expression"
	StandaloneAttributes []string          `json:"standalone,omitempty"` // Attributes without a key, in order
	KeyValueAttributes   map[string]string `json:"attributes,omitempty"` // Keyed attributes
	Children             []*Node           `json:"children,omitempty"`   // Child nodes
}

const KeyType = "type"
const KeyInterfaceType = "interface type"
const KeyDecl = "decl"
const KeyRange = "range"
const KeyLocation = "location"
const KeyValue = "value"
const KeyNames = "names"
const KeyElements = "elements"
const KeyVariadicSources = "variadic_sources"
const KeyInherits = "inherits"
const KeyWrittenType = "writtenType"
const KeyTypeRepr = "typerepr"
const KeyAPIName = "apiName"
const KeyKind = "kind"
const KeyField = "field"
const KeyGetFor = "get_for"
const KeySetFor = "set_for"

const ValueImplicit = "implicit"
const ValueStatic = "static"
const ValueMutating = "mutating"
const ValueLet = "let"
const ValueDefault = "default"
const ValueNegative = "negative"

// NewNode builds a node with empty, non-nil attribute containers.
func NewNode(name string) *Node {
	return &Node{
		Name:                 name,
		StandaloneAttributes: []string{},
		KeyValueAttributes:   map[string]string{},
		Children:             []*Node{},
	}
}

// Value returns the keyed attribute and whether it was present.
func (n *Node) Value(key string) (string, bool) {
	if n == nil || n.KeyValueAttributes == nil {
		return "", false
	}
	value, ok := n.KeyValueAttributes[key]
	return value, ok
}

// Standalone returns the i-th standalone attribute, or "" when out of range.
func (n *Node) Standalone(i int) string {
	if n == nil || i < 0 || i >= len(n.StandaloneAttributes) {
		return ""
	}
	return n.StandaloneAttributes[i]
}

// HasStandalone reports whether the flag appears among the standalone attributes.
func (n *Node) HasStandalone(flag string) bool {
	if n == nil {
		return false
	}
	for _, attribute := range n.StandaloneAttributes {
		if attribute == flag {
			return true
		}
	}
	return false
}

// IsImplicit reports whether the compiler synthesised this node.
func (n *Node) IsImplicit() bool {
	return n.HasStandalone(ValueImplicit)
}

// Child returns the first direct child with the given name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// ChildAt returns the i-th child; negative indexes count from the end.
func (n *Node) ChildAt(i int) *Node {
	if n == nil {
		return nil
	}
	if i < 0 {
		i += len(n.Children)
	}
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// ChildrenNamed returns every direct child with the given name, in order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var result []*Node
	if n == nil {
		return result
	}
	for _, child := range n.Children {
		if child.Name == name {
			result = append(result, child)
		}
	}
	return result
}

// Find searches depth first for the first node with the given name, the node
// itself included.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Range returns the node's own source range, if it carries one.
func (n *Node) Range() (SourceRange, bool) {
	value, ok := n.Value(KeyRange)
	if !ok {
		return SourceRange{}, false
	}
	return ParseSourceRange(value)
}

// RangeRecursively returns the node's range or, failing that, the range
// spanning every descendant that has one.
func (n *Node) RangeRecursively() (SourceRange, bool) {
	if n == nil {
		return SourceRange{}, false
	}
	if r, ok := n.Range(); ok {
		return r, true
	}
	var merged *SourceRange
	for _, child := range n.Children {
		r, ok := child.RangeRecursively()
		if !ok {
			continue
		}
		if merged == nil {
			merged = &r
			continue
		}
		span := merged.MergeRange(&r)
		merged = &span
	}
	if merged == nil {
		return SourceRange{}, false
	}
	return *merged, true
}

func (n *Node) sortedKeys() []string {
	keys := make([]string, 0, len(n.KeyValueAttributes))
	for key := range n.KeyValueAttributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (n *Node) TreeDescription() string {
	return n.Name
}

// PrintableSubtrees lists standalone attributes, then keyed attributes in key
// order, then the children.
func (n *Node) PrintableSubtrees() []PrintableTree {
	var result []PrintableTree
	for _, attribute := range n.StandaloneAttributes {
		result = append(result, PrintableLeaf(attribute))
	}
	for _, key := range n.sortedKeys() {
		result = append(result, PrintableLeaf(key+" → "+n.KeyValueAttributes[key]))
	}
	for _, child := range n.Children {
		result = append(result, child)
	}
	return result
}

// PrintFunc writes a raw node tree in one of the dump formats.
type PrintFunc func(*Node, io.Writer, *PrintOptions) error

// PickPrintFunc selects the writer for a format name.
func PickPrintFunc(format string) (PrintFunc, error) {
	switch strings.ToUpper(format) {
	case FormatTree, "":
		return PrintASTTree, nil
	case FormatJSON:
		return PrintASTJSON, nil
	case FormatAsciiTree:
		return PrintASTAsciiTree, nil
	case FormatDOT:
		return PrintASTDOT, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// PrintASTTree writes the box-drawing dump of a raw node tree.
func PrintASTTree(root *Node, output io.Writer, options *PrintOptions) error {
	return PrettyPrint(root, output, options.HorizontalLimit)
}
