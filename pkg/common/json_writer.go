package common

import (
	"encoding/json"
	"fmt"
	"io"
)

// PrintASTJSON writes a raw node tree as one JSON document. Attribute values
// are written in full; options only matter to the graphical writers.
func PrintASTJSON(root *Node, output io.Writer, _ *PrintOptions) error {
	encoder := json.NewEncoder(output)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(root); err != nil {
		return fmt.Errorf("encoding node tree: %w", err)
	}
	return nil
}

// ReadASTJSON reads back a tree written by PrintASTJSON.
func ReadASTJSON(input io.Reader) (*Node, error) {
	var root Node
	if err := json.NewDecoder(input).Decode(&root); err != nil {
		return nil, fmt.Errorf("decoding node tree: %w", err)
	}
	return &root, nil
}
