package decoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicery/swift2kt/pkg/decoder"
	"github.com/spicery/swift2kt/pkg/diag"
)

const sampleDump = `(source_file "/tmp/a.swift"
  (top_level_code_decl range=[/tmp/a.swift:1:1 - line:1:9]
    (brace_stmt implicit range=[/tmp/a.swift:1:1 - line:1:9]
      (pattern_binding_decl range=[/tmp/a.swift:1:1 - line:1:9]
        (pattern_named type='Int' 'x')
        (integer_literal_expr type='Int' location=/tmp/a.swift:1:9 range=[/tmp/a.swift:1:9 - line:1:9] value=1 builtin_initializer=Swift.(file).Int.init(_builtinIntegerLiteral:) initializer=**NULL**))
))
  (var_decl range=[/tmp/a.swift:1:5 - line:1:5] "x" type='Int' interface type='Int' access=internal readImpl=stored))`

func TestDecodeSample(t *testing.T) {
	t.Parallel()

	root, err := decoder.Decode(sampleDump)
	require.NoError(t, err)

	assert.Equal(t, "Source File", root.Name)
	assert.Equal(t, []string{"/tmp/a.swift"}, root.StandaloneAttributes)
	require.Len(t, root.Children, 2)

	binding := root.Children[0].Children[0].Children[0]
	assert.Equal(t, "Pattern Binding Declaration", binding.Name)
	require.Len(t, binding.Children, 2)

	named := binding.Children[0]
	assert.Equal(t, "Pattern Named", named.Name)
	assert.Equal(t, []string{"x"}, named.StandaloneAttributes)
	typeName, _ := named.Value("type")
	assert.Equal(t, "Int", typeName)

	literal := binding.Children[1]
	assert.Equal(t, "Integer Literal Expression", literal.Name)
	value, _ := literal.Value("value")
	assert.Equal(t, "1", value)
	initializer, _ := literal.Value("builtin_initializer")
	assert.Equal(t, "Swift.(file).Int.init(_builtinIntegerLiteral:)", initializer)
	r, ok := literal.Range()
	require.True(t, ok)
	assert.Equal(t, 9, r.ColumnStart)

	variable := root.Children[1]
	assert.Equal(t, "Variable Declaration", variable.Name)
	interfaceType, ok := variable.Value("interface type")
	require.True(t, ok)
	assert.Equal(t, "Int", interfaceType)
	access, _ := variable.Value("access")
	assert.Equal(t, "internal", access)
}

func TestDecodeDeclarationWithLocation(t *testing.T) {
	t.Parallel()

	root, err := decoder.Decode("(declref_expr type='Int' decl=main.(file).x@/tmp/a.swift:1:5 )")
	require.NoError(t, err)
	decl, _ := root.Value("decl")
	assert.Equal(t, "main.(file).x@/tmp/a.swift:1:5", decl)

	root, err = decoder.Decode("(declref_expr decl=main.(file).x@/tmp/a.swift:1:5 function_ref=unapplied)")
	require.NoError(t, err)
	decl, _ = root.Value("decl")
	assert.Equal(t, "main.(file).x@/tmp/a.swift:1:5", decl)
	ref, _ := root.Value("function_ref")
	assert.Equal(t, "unapplied", ref)
}

func TestDecodeEmptyValueAndBrackets(t *testing.T) {
	t.Parallel()

	root, err := decoder.Decode("(tuple_shuffle_expr implicit arg_labels= elements=[-2, -1, 0] variadic_sources=[0])")
	require.NoError(t, err)
	labels, ok := root.Value("arg_labels")
	assert.True(t, ok)
	assert.Equal(t, "", labels)
	elements, _ := root.Value("elements")
	assert.Equal(t, "-2, -1, 0", elements)
	sources, _ := root.Value("variadic_sources")
	assert.Equal(t, "0", sources)
	assert.True(t, root.IsImplicit())
}

func TestDecodeAllConsumesEveryNode(t *testing.T) {
	t.Parallel()

	nodes, err := decoder.DecodeAll("(a x) \n(b (c 'y'))\n")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "A", nodes[0].Name)
	assert.Equal(t, "C", nodes[1].Children[0].Name)

	_, err = decoder.DecodeAll("(a) )")
	var decodeErr *diag.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"no opening parenthesis", "source_file)"},
		{"unterminated node", "(source_file (brace_stmt)"},
		{"unterminated string", `(string_literal_expr value="abc)`},
		{"missing closing parenthesis", "(a"},
		{"extra closing parenthesis", "(a))"},
		{"text after the root node", "(a) x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := decoder.Decode(tt.input)
			require.Error(t, err)
			var decodeErr *diag.DecodeError
			assert.ErrorAs(t, err, &decodeErr)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"pattern_binding_decl":          "Pattern Binding Declaration",
		"declref_expr":                  "Declaration Reference Expression",
		"paren_expr":                    "Parentheses Expression",
		"func_decl":                     "Function Declaration",
		"constructor_ref_call_expr":     "Constructor Reference Call Expression",
		"top_level_code_decl":           "Top Level Code Declaration",
		"brace_stmt":                    "Brace Statement",
		"parameter":                     "Parameter",
		"Call Expression":               "Call Expression",
		"magic_identifier_literal_expr": "Magic Identifier Literal Expression",
	}
	for raw, want := range tests {
		assert.Equal(t, want, decoder.NormalizeName(raw), raw)
	}
}

func TestDecodeInheritanceList(t *testing.T) {
	t.Parallel()

	root, err := decoder.Decode("(class_decl \"A\" interface type='A.Type' access=internal inherits: B, P, Q\n  (var_decl \"x\"))")
	require.NoError(t, err)
	inherits, ok := root.Value("inherits")
	require.True(t, ok)
	assert.Equal(t, "B, P, Q", inherits)
	assert.Equal(t, []string{"A"}, root.StandaloneAttributes)
	require.Len(t, root.Children, 1)
}
