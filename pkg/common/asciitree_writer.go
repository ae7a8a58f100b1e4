package common

import (
	"fmt"
	"io"

	asciitree "github.com/thediveo/go-asciitree"
)

type AsciiNode struct {
	Label    string      `asciitree:"label"`
	Props    []string    `asciitree:"properties"`
	Children []AsciiNode `asciitree:"children"`
}

// convertToTree maps a raw node onto the asciitree struct layout; attributes
// become properties so only nodes appear as branches.
func convertToTree(n *Node, options *PrintOptions) AsciiNode {
	var props []string
	props = append(props, n.StandaloneAttributes...)
	for _, key := range n.sortedKeys() {
		props = append(props, fmt.Sprintf("%s: %s", key, TrimValue(n.KeyValueAttributes[key], options.TrimValue)))
	}

	var children []AsciiNode
	for _, child := range n.Children {
		children = append(children, convertToTree(child, options))
	}
	return AsciiNode{
		Label:    n.Name,
		Props:    props,
		Children: children,
	}
}

// ConvertPrintable maps any printable tree onto the asciitree layout.
func ConvertPrintable(tree PrintableTree) AsciiNode {
	var children []AsciiNode
	for _, subtree := range tree.PrintableSubtrees() {
		if subtree != nil {
			children = append(children, ConvertPrintable(subtree))
		}
	}
	return AsciiNode{Label: tree.TreeDescription(), Children: children}
}

func PrintASTAsciiTree(root *Node, output io.Writer, options *PrintOptions) error {
	_, err := fmt.Fprintln(output, asciitree.RenderFancy(convertToTree(root, options)))
	return err
}

// PrintPrintableAsciiTree renders any printable tree with the fancy asciitree style.
func PrintPrintableAsciiTree(tree PrintableTree, output io.Writer) error {
	_, err := fmt.Fprintln(output, asciitree.RenderFancy(ConvertPrintable(tree)))
	return err
}
