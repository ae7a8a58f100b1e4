package source

import (
	"fmt"
	"os"
	"strings"
)

// CommentKey names the reserved comments that splice text into the output.
type CommentKey string

const (
	CommentInsert      CommentKey = "insert"
	CommentDeclaration CommentKey = "declaration"
	CommentAnnotation  CommentKey = "annotation"
)

// Comment is a reserved "// key: value" comment found on a source line.
type Comment struct {
	Key   CommentKey
	Value string
}

// SourceFile is a line-indexed, read-only view of an original source file.
type SourceFile struct {
	Path  string
	lines []string
}

func New(path string, contents string) *SourceFile {
	return &SourceFile{Path: path, lines: strings.Split(contents, "\n")}
}

func Load(path string) (*SourceFile, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", path, err)
	}
	return New(path, string(contents)), nil
}

// LineCount includes a trailing empty line when the file ends in a newline.
func (f *SourceFile) LineCount() int {
	return len(f.lines)
}

// Line returns the 1-based line n.
func (f *SourceFile) Line(n int) (string, bool) {
	if n < 1 || n > len(f.lines) {
		return "", false
	}
	return f.lines[n-1], true
}

// CommentOnLine returns the reserved comment on line n, if the line is
// nothing but such a comment.
func (f *SourceFile) CommentOnLine(n int) (Comment, bool) {
	line, ok := f.Line(n)
	if !ok {
		return Comment{}, false
	}
	text := strings.TrimSpace(line)
	if !strings.HasPrefix(text, "//") {
		return Comment{}, false
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, "//"))
	for _, key := range []CommentKey{CommentInsert, CommentDeclaration, CommentAnnotation} {
		prefix := string(key) + ":"
		if strings.HasPrefix(text, prefix) {
			return Comment{Key: key, Value: strings.TrimSpace(strings.TrimPrefix(text, prefix))}, true
		}
	}
	return Comment{}, false
}

// CommentsBetween returns the reserved comments on lines strictly between
// after and before, in line order, paired with their line numbers.
func (f *SourceFile) CommentsBetween(after int, before int) []LineComment {
	var result []LineComment
	for n := after + 1; n < before; n++ {
		if comment, ok := f.CommentOnLine(n); ok {
			result = append(result, LineComment{Line: n, Comment: comment})
		}
	}
	return result
}

// AnnotationBefore returns the annotation comment on the line just above
// line n, e.g. "// annotation: pure".
func (f *SourceFile) AnnotationBefore(n int) (string, bool) {
	comment, ok := f.CommentOnLine(n - 1)
	if !ok || comment.Key != CommentAnnotation {
		return "", false
	}
	return comment.Value, true
}

type LineComment struct {
	Line int
	Comment
}
