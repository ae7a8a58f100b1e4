package diag_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicery/swift2kt/pkg/common"
	"github.com/spicery/swift2kt/pkg/diag"
)

func TestSinkRecordsAndContinues(t *testing.T) {
	t.Parallel()

	sink := diag.NewSink(false)
	err := sink.Record(&diag.StructuralError{Path: "a.swift", Message: "unknown node"})

	require.NoError(t, err)
	assert.True(t, sink.HasErrors())
	assert.Len(t, sink.ErrorsFor("a.swift"), 1)
	assert.Empty(t, sink.ErrorsFor("b.swift"))
}

func TestSinkStopsAtFirstError(t *testing.T) {
	t.Parallel()

	sink := diag.NewSink(true)
	err := sink.Record(&diag.StructuralError{Message: "unknown node"})

	require.Error(t, err)
	assert.ErrorIs(t, err, diag.ErrStopped)
	assert.True(t, diag.IsFatal(err))

	var structural *diag.StructuralError
	assert.True(t, errors.As(err, &structural))
	assert.Equal(t, "unknown node", structural.Message)
}

func TestSinkIsSafeForConcurrentUse(t *testing.T) {
	t.Parallel()

	sink := diag.NewSink(false)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sink.Record(&diag.StructuralError{Message: "x"})
			sink.Warn(&diag.Warning{Message: "y"})
		}()
	}
	wg.Wait()

	assert.Len(t, sink.Errors(), 50)
	assert.Len(t, sink.Warnings(), 50)
}

func TestFatalErrorAlwaysPropagates(t *testing.T) {
	t.Parallel()

	sink := diag.NewSink(false)
	err := sink.RecordFatal(&diag.FatalError{StructuralError: diag.StructuralError{Message: "comparison in switch"}})

	require.Error(t, err)
	assert.True(t, diag.IsFatal(err))
	assert.Contains(t, err.Error(), "fatal: comparison in switch")
	assert.Len(t, sink.Errors(), 1)
}

func TestErrorLocation(t *testing.T) {
	t.Parallel()

	r := &common.SourceRange{LineStart: 3, ColumnStart: 7, LineEnd: 3, ColumnEnd: 9}
	err := &diag.StructuralError{Path: "x.swift", Range: r, Message: "bad"}

	assert.Equal(t, "x.swift:3:7: error: bad", err.Error())
}

func TestUnderline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    *common.SourceRange
		want string
	}{
		{"range", &common.SourceRange{LineStart: 1, ColumnStart: 5, LineEnd: 1, ColumnEnd: 9}, "let x = 10\n    ^~~~~"},
		{"single column", &common.SourceRange{LineStart: 1, ColumnStart: 5, LineEnd: 1, ColumnEnd: 5}, "let x = 10\n    ^"},
		{"last column", &common.SourceRange{LineStart: 1, ColumnStart: 9, LineEnd: 1, ColumnEnd: 10}, "let x = 10\n        ^~"},
		{"past the line", &common.SourceRange{LineStart: 1, ColumnStart: 9, LineEnd: 1, ColumnEnd: 40}, "let x = 10\n        ^~"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, diag.Underline("let x = 10", tt.r), tt.name)
	}

	multiLine := &common.SourceRange{LineStart: 1, ColumnStart: 9, LineEnd: 2, ColumnEnd: 1}
	assert.Equal(t, "let x = 10\n        ^~", diag.Underline("let x = 10", multiLine))
}
