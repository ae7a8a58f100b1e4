package common

import (
	"io"
	"strings"
)

// PrintableTree is anything that can be drawn by PrettyPrint.
type PrintableTree interface {
	TreeDescription() string
	PrintableSubtrees() []PrintableTree
}

// PrintableLeaf is a tree with a label and no subtrees.
type PrintableLeaf string

func (l PrintableLeaf) TreeDescription() string { return string(l) }

func (l PrintableLeaf) PrintableSubtrees() []PrintableTree { return nil }

// PrintableBranch is a labelled list of subtrees; nil subtrees are skipped.
type PrintableBranch struct {
	Label    string
	Subtrees []PrintableTree
}

func NewBranch(label string, subtrees ...PrintableTree) *PrintableBranch {
	return &PrintableBranch{Label: label, Subtrees: subtrees}
}

func (b *PrintableBranch) TreeDescription() string { return b.Label }

func (b *PrintableBranch) PrintableSubtrees() []PrintableTree {
	result := make([]PrintableTree, 0, len(b.Subtrees))
	for _, subtree := range b.Subtrees {
		if subtree != nil {
			result = append(result, subtree)
		}
	}
	return result
}

// PrettyPrint draws the tree one node per line with box-drawing prefixes.
// Lines longer than horizontalLimit runes keep limit-1 runes and end in "…".
func PrettyPrint(tree PrintableTree, output io.Writer, horizontalLimit int) error {
	var builder strings.Builder
	writeTree(&builder, tree, "", "", horizontalLimit)
	_, err := io.WriteString(output, builder.String())
	return err
}

// PrettyString is PrettyPrint into a string.
func PrettyString(tree PrintableTree, horizontalLimit int) string {
	var builder strings.Builder
	writeTree(&builder, tree, "", "", horizontalLimit)
	return builder.String()
}

func writeTree(builder *strings.Builder, tree PrintableTree, prefix string, childIndent string, horizontalLimit int) {
	line := prefix + escapeLabel(tree.TreeDescription())
	builder.WriteString(truncateLine(line, horizontalLimit))
	builder.WriteString("\n")

	subtrees := tree.PrintableSubtrees()
	for i, subtree := range subtrees {
		if subtree == nil {
			continue
		}
		if i == len(subtrees)-1 {
			writeTree(builder, subtree, childIndent+" └─ ", childIndent+"    ", horizontalLimit)
		} else {
			writeTree(builder, subtree, childIndent+" ├─ ", childIndent+" │  ", horizontalLimit)
		}
	}
}

func escapeLabel(label string) string {
	label = strings.ReplaceAll(label, "\n", "\\n")
	return strings.ReplaceAll(label, "\t", "\\t")
}

func truncateLine(line string, horizontalLimit int) string {
	if horizontalLimit <= 0 {
		return line
	}
	runes := []rune(line)
	if len(runes) <= horizontalLimit {
		return line
	}
	return string(runes[:horizontalLimit-1]) + "…"
}
