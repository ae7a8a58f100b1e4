package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spicery/swift2kt/pkg/common"
)

func TestParseSourceRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  common.SourceRange
		ok    bool
	}{
		{"full", "/tmp/a.swift:1:5 - line:3:2", common.SourceRange{LineStart: 1, ColumnStart: 5, LineEnd: 3, ColumnEnd: 2}, true},
		{"bracketed", "[/tmp/a.swift:2:1 - line:2:9]", common.SourceRange{LineStart: 2, ColumnStart: 1, LineEnd: 2, ColumnEnd: 9}, true},
		{"missing separator", "/tmp/a.swift:2:1", common.SourceRange{}, false},
		{"not numbers", "a:b:c - line:x:y", common.SourceRange{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := common.ParseSourceRange(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeRange(t *testing.T) {
	t.Parallel()

	a := common.SourceRange{LineStart: 2, ColumnStart: 4, LineEnd: 2, ColumnEnd: 10}
	b := common.SourceRange{LineStart: 1, ColumnStart: 1, LineEnd: 2, ColumnEnd: 5}

	assert.Equal(t, common.SourceRange{LineStart: 1, ColumnStart: 1, LineEnd: 2, ColumnEnd: 10}, a.MergeRange(&b))
}
