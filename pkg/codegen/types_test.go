package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicery/swift2kt/pkg/config"
	"github.com/spicery/swift2kt/pkg/diag"
	"github.com/spicery/swift2kt/pkg/registry"
)

func TestTypeName(t *testing.T) {
	t.Parallel()

	substitutions, err := config.LoadSubstitutionsFromString(config.DefaultSubstitutions)
	require.NoError(t, err)
	reg := registry.New()
	substitutions.Seed(reg)
	reg.AddSealedClass("Shape")
	g := &fileGenerator{CodeGenerator: NewCodeGenerator(reg, diag.NewSink(false), "", 0)}

	tests := []struct {
		swift string
		want  string
	}{
		{"Int", "Int"},
		{"Bool", "Boolean"},
		{"[Int]", "MutableList<Int>"},
		{"[String : [Bool]]", "MutableMap<String, MutableList<Boolean>>"},
		{"Int?", "Int?"},
		{"String!", "String?"},
		{"(Int, String)", "Pair<Int, String>"},
		{"(x: Int, y: Int)", "Pair<Int, Int>"},
		{"()", "Unit"},
		{"(Int) -> Bool", "(Int) -> Boolean"},
		{"@escaping (Int, Int) -> ()", "(Int, Int) -> Unit"},
		{"Set<Character>", "Set<Char>"},
		{"ArrayClass<Int>", "MutableList<Int>"},
		{"Shape.circle", "Shape.Circle"},
		{"Int...", "Int"},
		{"inout Double", "Double"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.typeName(tt.swift), tt.swift)
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NORTH", constantName("north"))
	assert.Equal(t, "SOUTH_WEST", constantName("southWest"))
	assert.Equal(t, "HTTP2_OK", constantName("HTTP2Ok"))
	assert.Equal(t, "Circle", capitalize("circle"))
	assert.Equal(t, "foo", functionPrefix("foo(x:y:)"))
	assert.Equal(t, []string{"_", "to"}, argumentLabels("add(_:to:)"))
	assert.Nil(t, argumentLabels("count"))
	assert.True(t, isVoid("()"))
	assert.False(t, isVoid("Int"))
}
