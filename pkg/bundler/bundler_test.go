package bundler_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicery/swift2kt/pkg/bundler"
	"github.com/spicery/swift2kt/pkg/pipeline"
)

const functionDump = `(source_file "/tmp/a.swift"
  (func_decl range=[/tmp/a.swift:1:1 - line:3:1] "one()" interface type='() -> Int' access=internal
    (parameter_list range=[/tmp/a.swift:1:9 - line:1:10])
    (brace_stmt range=[/tmp/a.swift:1:18 - line:3:1]
      (return_stmt range=[/tmp/a.swift:2:3 - line:2:10]
        (integer_literal_expr type='Int' value=1)))))`

const unknownDump = `(source_file "/tmp/b.swift"
  (mystery_decl range=[/tmp/b.swift:4:3 - line:4:5]))`

func openBundle(t *testing.T) *bundler.Bundler {
	t.Helper()
	b, err := bundler.NewBundler(filepath.Join(t.TempDir(), "bundle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	b := openBundle(t)
	upToDate, err := b.CheckMigration()
	require.NoError(t, err)
	assert.False(t, upToDate)

	require.NoError(t, b.Migrate())
	upToDate, err = b.CheckMigration()
	require.NoError(t, err)
	assert.True(t, upToDate)

	require.NoError(t, b.Migrate())
}

func TestRecordResult(t *testing.T) {
	t.Parallel()

	inputs := []pipeline.Input{
		{Path: "a.swift", Dump: functionDump, Source: "func one() -> Int {\n  return 1\n}\n", IsMainFile: true},
		{Path: "b.swift", Dump: unknownDump},
	}
	result, err := pipeline.Run(context.Background(), inputs, pipeline.Options{Workers: 1})
	require.NoError(t, err)

	b := openBundle(t)
	require.NoError(t, b.Migrate())
	require.NoError(t, b.RecordResult(result))

	units, err := b.Units()
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "a.swift", units[0].FileName)
	assert.Equal(t, "fun one(): Int {\n\treturn 1\n}\n", units[0].Kotlin)
	assert.Contains(t, units[0].RawTree, "Source File")
	assert.Empty(t, units[0].Failure)

	declarations, err := b.Declarations("a.swift")
	require.NoError(t, err)
	assert.Equal(t, []bundler.Declaration{{Name: "one", Kind: "function", FileName: "a.swift"}}, declarations)

	diagnostics, err := b.Diagnostics("b.swift")
	require.NoError(t, err)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "error", diagnostics[0].Severity)
	assert.Equal(t, 4, diagnostics[0].Line)
	assert.Equal(t, 3, diagnostics[0].Column)

	none, err := b.Diagnostics("a.swift")
	require.NoError(t, err)
	assert.Empty(t, none)
}
