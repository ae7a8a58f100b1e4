package common

import (
	"fmt"
	"io"
	"strings"
)

func PrintASTDOT(root *Node, output io.Writer, options *PrintOptions) error {
	var builder strings.Builder
	builder.WriteString("digraph G {\n")
	builder.WriteString("  bgcolor=\"transparent\";\n")
	builder.WriteString("  node [shape=\"box\", style=\"filled\", fontname=\"Ubuntu Mono\"];\n")

	counter := 0
	printNodeDOT(&builder, root, "", &counter, options)

	builder.WriteString("}\n")
	_, err := io.WriteString(output, builder.String())
	return err
}

func printNodeDOT(builder *strings.Builder, node *Node, parentID string, counter *int, options *PrintOptions) {
	nodeID := fmt.Sprintf("node_%d", *counter)
	*counter++

	// Label with the most telling attribute, if any.
	label := node.Name
	for _, key := range []string{KeyDecl, KeyValue, KeyType} {
		if value, ok := node.Value(key); ok {
			label = fmt.Sprintf("%s: %s", node.Name, TrimValue(value, options.TrimValue))
			break
		}
	}

	fmt.Fprintf(builder, "  \"%s\" [label=\"%s\", shape=\"box\", fillcolor=\"%s\"];\n", nodeID, escapeDOTValue(label), fillColor(node.Name))
	if parentID != "" {
		fmt.Fprintf(builder, "  \"%s\" -> \"%s\";\n", parentID, nodeID)
	}
	for _, child := range node.Children {
		printNodeDOT(builder, child, nodeID, counter, options)
	}
}

func escapeDOTValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `"`, `\"`)
}

// fillColor colours nodes by the family suffix of their catalog name.
func fillColor(name string) string {
	for suffix, colour := range familyColors {
		if strings.HasSuffix(name, suffix) {
			return colour
		}
	}
	return "lightgray"
}

var familyColors = map[string]string{
	"Declaration": "lightpink",
	"Statement":   "PaleTurquoise",
	"Expression":  "lightgreen",
	"Pattern":     "lightgoldenrodyellow",
}
