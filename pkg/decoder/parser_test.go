package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		want      string
		remaining string
	}{
		{"embedded parentheses", "foo(baz)bar)", "foo(baz)bar", ")"},
		{"bare newline is dropped", "foo\nbar)", "foobar", ")"},
		{"indented newline ends the token", "foo\n  bar)", "foo", "bar)"},
		{"space ends the token", "implicit type='Int')", "implicit", "type='Int')"},
		{"space inside parentheses is kept", "init(a b) x", "init(a b)", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewParser(tt.input)
			got, err := p.readIdentifier()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.remaining, p.Remaining())
		})
	}
}

func TestReadIdentifierRejectsDelimiters(t *testing.T) {
	t.Parallel()

	for _, input := range []string{")", "\"x\"", "'x'", "[x]", ""} {
		p := NewParser(input)
		_, err := p.readIdentifier()
		assert.Error(t, err, input)
		assert.Equal(t, input, p.Remaining())
	}
}

func TestReadDeclarationLocation(t *testing.T) {
	t.Parallel()

	p := NewParser("a.b.c@/p/q.swift:5:16  )")
	got, ok := p.readDeclarationLocation()
	require.True(t, ok)
	assert.Equal(t, "a.b.c@/p/q.swift:5:16", got)
	assert.Equal(t, ")", p.Remaining())

	p = NewParser("a.b.c@/p/q.swift 5:16  )")
	_, ok = p.readDeclarationLocation()
	assert.False(t, ok)
	assert.Equal(t, "a.b.c@/p/q.swift 5:16  )", p.Remaining())

	p = NewParser("a.b.c@/p/q.swift:5:16 function_ref=single)")
	_, ok = p.readDeclarationLocation()
	assert.False(t, ok, "a location not closing the node is not matched")
	assert.Equal(t, "a.b.c@/p/q.swift:5:16 function_ref=single)", p.Remaining())
}

func TestReadDeclaration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		want      string
		remaining string
	}{
		{"plain", "Swift.(file).print(_:separator:terminator:) function_ref=single)", "Swift.(file).print(_:separator:terminator:)", "function_ref=single)"},
		{"extension component", "Swift.(file).Int extension.+ function_ref=unapplied)", "Swift.(file).Int extension.+", "function_ref=unapplied)"},
		{"wrapped line", "main.(file).foo(\nbar:))", "main.(file).foo(bar:)", ")"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewParser(tt.input)
			got, err := p.readDeclaration()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.remaining, p.Remaining())
		})
	}
}

func TestReadStrings(t *testing.T) {
	t.Parallel()

	p := NewParser(`"a \"b\" c" 'Int' [x [y] z] <null> {k} rest`)

	s, err := p.readDoubleQuotedString()
	require.NoError(t, err)
	assert.Equal(t, `a \"b\" c`, s)

	s, err = p.readSingleQuotedString()
	require.NoError(t, err)
	assert.Equal(t, "Int", s)

	s, err = p.readStringInBrackets()
	require.NoError(t, err)
	assert.Equal(t, "x [y] z", s)

	s, err = p.readStringInAngleBrackets()
	require.NoError(t, err)
	assert.Equal(t, "null", s)

	s, err = p.readStringInBraces()
	require.NoError(t, err)
	assert.Equal(t, "k", s)

	assert.Equal(t, "rest", p.Remaining())
}

func TestReadDelimiters(t *testing.T) {
	t.Parallel()

	p := NewParser("( [ { } ] )")
	require.NoError(t, p.readOpeningParenthesis())
	require.NoError(t, p.readOpeningBracket())
	require.NoError(t, p.readOpeningBrace())
	require.NoError(t, p.readClosingBrace())
	require.NoError(t, p.readClosingBracket())
	require.NoError(t, p.readClosingParenthesis())
	assert.True(t, p.atEnd())

	err := NewParser("x").readClosingParenthesis()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected ')'")
}

func TestReadKey(t *testing.T) {
	t.Parallel()

	p := NewParser("interface type='Int'")
	key, ok := p.readKey()
	require.True(t, ok)
	assert.Equal(t, "interface type", key)
	assert.Equal(t, "'Int'", p.Remaining())

	p = NewParser("implicit type='Int'")
	_, ok = p.readKey()
	assert.False(t, ok)
	assert.Equal(t, "implicit type='Int'", p.Remaining())
}
