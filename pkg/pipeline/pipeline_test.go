package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicery/swift2kt/pkg/diag"
	"github.com/spicery/swift2kt/pkg/pipeline"
)

func TestEndToEnd(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"operators"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			input, err := pipeline.LoadInput(filepath.Join("testdata", name+pipeline.DumpExtension), true)
			require.NoError(t, err)
			assert.NotEmpty(t, input.Source)

			expected, err := os.ReadFile(filepath.Join("testdata", name+".kt"))
			require.NoError(t, err)

			result, err := pipeline.Run(context.Background(), []pipeline.Input{input}, pipeline.Options{Workers: 1})
			require.NoError(t, err)
			require.Len(t, result.Outputs, 1)

			output := result.Outputs[0]
			require.NoError(t, output.Err)
			assert.Empty(t, output.Errors)
			if diff := pipeline.LineDiff(string(expected), output.Kotlin); diff != "" {
				t.Errorf("generated Kotlin differs from %s.kt:\n%s", name, diff)
			}
		})
	}
}

const goodDump = `(source_file "/tmp/a.swift"
  (top_level_code_decl range=[/tmp/a.swift:1:1 - line:1:7]
    (brace_stmt implicit range=[/tmp/a.swift:1:1 - line:1:7]
      (while_stmt range=[/tmp/a.swift:1:1 - line:1:7]
        (boolean_literal_expr type='Bool' value=true)
        (brace_stmt range=[/tmp/a.swift:1:1 - line:1:7]
          (break_stmt))))))`

const unknownDump = `(source_file "/tmp/b.swift"
  (mystery_decl range=[/tmp/b.swift:1:1 - line:1:5]))`

func TestFailuresAreConfinedToTheirFile(t *testing.T) {
	t.Parallel()

	inputs := []pipeline.Input{
		{Path: "good.swift", Dump: goodDump, IsMainFile: true},
		{Path: "bad.swift", Dump: unknownDump},
		{Path: "broken.swift", Dump: "(source_file"},
	}
	result, err := pipeline.Run(context.Background(), inputs, pipeline.Options{Workers: 2, StopAtFirstError: true})
	require.NoError(t, err)
	require.Len(t, result.Outputs, 3)
	assert.Equal(t, 2, result.Failed())

	good := result.Outputs[0]
	require.NoError(t, good.Err)
	assert.Equal(t, "fun main(args: Array<String>) {\n\twhile (true) {\n\t\tbreak\n\t}\n}\n", good.Kotlin)

	bad := result.Outputs[1]
	require.Error(t, bad.Err)
	assert.ErrorIs(t, bad.Err, diag.ErrStopped)
	assert.Len(t, bad.Errors, 1)

	broken := result.Outputs[2]
	var decodeError *diag.DecodeError
	assert.ErrorAs(t, broken.Err, &decodeError)
}

func TestRecordedErrorsDoNotAbandonTheFile(t *testing.T) {
	t.Parallel()

	inputs := []pipeline.Input{{Path: "bad.swift", Dump: unknownDump}}
	result, err := pipeline.Run(context.Background(), inputs, pipeline.Options{})
	require.NoError(t, err)
	require.NoError(t, result.Outputs[0].Err)
	assert.Len(t, result.Outputs[0].Errors, 1)
	assert.True(t, result.Sink.HasErrors())
}

func TestRunNeedsInputs(t *testing.T) {
	t.Parallel()

	_, err := pipeline.Run(context.Background(), nil, pipeline.Options{})
	assert.ErrorIs(t, err, pipeline.ErrNoInputs)
}

func TestCancelledRun(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inputs := []pipeline.Input{{Path: "good.swift", Dump: goodDump, IsMainFile: true}}
	_, err := pipeline.Run(ctx, inputs, pipeline.Options{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLineDiff(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pipeline.LineDiff("a\nb\n", "a\nb\n"))
	assert.Equal(t, "  a\n- b\n+ c\n", pipeline.LineDiff("a\nb\n", "a\nc\n"))
}
