package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spicery/swift2kt/pkg/common"
)

// ErrStopped is wrapped by errors returned from Record when the sink is set to
// stop at the first error.
var ErrStopped = errors.New("stopped at first error")

// DecodeError reports a token the decoder expected but did not find at the
// cursor. It is fatal for the dump being decoded.
type DecodeError struct {
	Message   string
	Remaining string // A snippet of the unread buffer
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding dump: %s (remaining: %q)", e.Message, e.Remaining)
}

// StructuralError reports a node that did not have the shape its handler
// expected. It is recorded and translation carries on unless the sink stops
// at the first error.
type StructuralError struct {
	Path    string               // Source file, may be empty
	Range   *common.SourceRange  // Location in the source, may be nil
	Message string               // Human readable description
	Node    common.PrintableTree // The offending node, may be nil
}

func (e *StructuralError) Error() string {
	return e.Location() + "error: " + e.Message
}

// Location renders the "path:line:col: " prefix, or "" when unknown.
func (e *StructuralError) Location() string {
	return location(e.Path, e.Range)
}

// NodeDump draws the offending node, if any.
func (e *StructuralError) NodeDump(horizontalLimit int) string {
	if e.Node == nil {
		return ""
	}
	return common.PrettyString(e.Node, horizontalLimit)
}

// FatalError is a structural error that always aborts the file, used for
// constructs whose meaning cannot be recovered.
type FatalError struct {
	StructuralError
}

func (e *FatalError) Error() string {
	return e.Location() + "fatal: " + e.Message
}

func (e *FatalError) Unwrap() error {
	return &e.StructuralError
}

type Warning struct {
	Path    string
	Range   *common.SourceRange
	Message string
}

func (w *Warning) String() string {
	return location(w.Path, w.Range) + "warning: " + w.Message
}

func location(path string, r *common.SourceRange) string {
	switch {
	case path != "" && r != nil:
		return fmt.Sprintf("%s:%d:%d: ", path, r.LineStart, r.ColumnStart)
	case path != "":
		return path + ": "
	case r != nil:
		return fmt.Sprintf("%d:%d: ", r.LineStart, r.ColumnStart)
	default:
		return ""
	}
}

// Underline renders the source line followed by a caret under the start
// column and tildes through the last column of the range on that line.
func Underline(line string, r *common.SourceRange) string {
	if r == nil || r.ColumnStart < 1 {
		return line
	}
	runes := []rune(strings.ReplaceAll(line, "\t", " "))
	start := r.ColumnStart - 1
	if start > len(runes) {
		start = len(runes)
	}
	end := len(runes)
	if r.LineEnd == r.LineStart && r.ColumnEnd < end {
		end = r.ColumnEnd
	}
	var builder strings.Builder
	builder.WriteString(string(runes))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat(" ", start))
	builder.WriteString("^")
	if end > start+1 {
		builder.WriteString(strings.Repeat("~", end-start-1))
	}
	return builder.String()
}
