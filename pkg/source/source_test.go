package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicery/swift2kt/pkg/source"
)

const sample = `let x = 1
// insert: println("hello")

    // declaration: fun helper() = 42
// just a comment
print(x)
`

func TestLineLookup(t *testing.T) {
	t.Parallel()

	file := source.New("a.swift", sample)

	assert.Equal(t, 7, file.LineCount())
	line, ok := file.Line(1)
	require.True(t, ok)
	assert.Equal(t, "let x = 1", line)

	line, ok = file.Line(3)
	require.True(t, ok)
	assert.Empty(t, line)

	_, ok = file.Line(0)
	assert.False(t, ok)
	_, ok = file.Line(8)
	assert.False(t, ok)
}

func TestCommentOnLine(t *testing.T) {
	t.Parallel()

	file := source.New("a.swift", sample)

	comment, ok := file.CommentOnLine(2)
	require.True(t, ok)
	assert.Equal(t, source.CommentInsert, comment.Key)
	assert.Equal(t, `println("hello")`, comment.Value)

	comment, ok = file.CommentOnLine(4)
	require.True(t, ok)
	assert.Equal(t, source.CommentDeclaration, comment.Key)
	assert.Equal(t, "fun helper() = 42", comment.Value)

	_, ok = file.CommentOnLine(5)
	assert.False(t, ok)
	_, ok = file.CommentOnLine(1)
	assert.False(t, ok)
}

func TestCommentsBetween(t *testing.T) {
	t.Parallel()

	file := source.New("a.swift", sample)

	comments := file.CommentsBetween(1, 6)
	require.Len(t, comments, 2)
	assert.Equal(t, 2, comments[0].Line)
	assert.Equal(t, 4, comments[1].Line)

	assert.Empty(t, file.CommentsBetween(2, 4))
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "b.swift")
	require.NoError(t, os.WriteFile(path, []byte("a\nb"), 0o600))

	file, err := source.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, file.Path)
	assert.Equal(t, 2, file.LineCount())

	_, err = source.Load(filepath.Join(t.TempDir(), "missing.swift"))
	assert.Error(t, err)
}

func TestAnnotationBefore(t *testing.T) {
	t.Parallel()

	file := source.New("c.swift", "// annotation: pure\nfunc f() {}\n// insert: x\nfunc g() {}")

	value, ok := file.AnnotationBefore(2)
	require.True(t, ok)
	assert.Equal(t, "pure", value)

	_, ok = file.AnnotationBefore(4)
	assert.False(t, ok)

	_, ok = file.AnnotationBefore(1)
	assert.False(t, ok)
}
