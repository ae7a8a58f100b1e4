package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/codegen"
	"github.com/spicery/swift2kt/pkg/config"
	"github.com/spicery/swift2kt/pkg/diag"
	"github.com/spicery/swift2kt/pkg/registry"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	substitutions, err := config.LoadSubstitutionsFromString(config.DefaultSubstitutions)
	require.NoError(t, err)
	reg := registry.New()
	substitutions.Seed(reg)
	reg.AddEnumClass("Direction")
	reg.AddSealedClass("Shape")
	return reg
}

func reference(identifier string, typeName string) *ast.DeclarationReferenceExpression {
	return &ast.DeclarationReferenceExpression{Identifier: identifier, TypeName: typeName}
}

func integer(value int64) *ast.LiteralIntExpression {
	return &ast.LiteralIntExpression{Value: value}
}

func printCall(argument ast.Expression) ast.Statement {
	return &ast.ExpressionStatement{Expression: &ast.CallExpression{
		Function: reference("print(_:separator:terminator:)", "(Any..., String, String) -> ()"),
		Parameters: &ast.TupleShuffleExpression{
			Labels:      []string{""},
			Indices:     []ast.TupleShuffleIndex{ast.Variadic(1)},
			Expressions: []ast.Expression{argument},
		},
		TypeName: "()",
	}}
}

// render generates a one-statement main and returns the statement's line.
func render(t *testing.T, reg *registry.Registry, expression ast.Expression) string {
	t.Helper()
	generator := codegen.NewCodeGenerator(reg, diag.NewSink(false), "\t", 0)
	text, err := generator.Generate(&ast.Module{Statements: []ast.Statement{
		&ast.ExpressionStatement{Expression: expression},
	}})
	require.NoError(t, err)
	text = strings.TrimPrefix(text, "fun main(args: Array<String>) {\n\t")
	return strings.TrimSuffix(text, "\n}\n")
}

func TestBlankLinesBetweenUnrelatedStatements(t *testing.T) {
	t.Parallel()

	module := &ast.Module{Statements: []ast.Statement{
		&ast.VariableDeclaration{Data: ast.VariableDeclarationData{
			Identifier: "x", TypeName: "Int", Expression: integer(1), IsLet: true,
		}},
		&ast.VariableDeclaration{Data: ast.VariableDeclarationData{
			Identifier: "y", TypeName: "Int", Expression: integer(2),
		}},
		printCall(reference("x", "Int")),
		printCall(reference("y", "Int")),
		&ast.AssignmentStatement{LeftHand: reference("y", "Int"), RightHand: integer(3)},
	}}

	generator := codegen.NewCodeGenerator(newRegistry(t), diag.NewSink(false), "\t", 0)
	text, err := generator.Generate(module)
	require.NoError(t, err)
	assert.Equal(t, `fun main(args: Array<String>) {
	val x: Int = 1
	var y: Int = 2

	println(x)
	println(y)

	y = 3
}
`, text)
}

func TestEnumClassesAndSealedClasses(t *testing.T) {
	t.Parallel()

	module := &ast.Module{
		Declarations: []ast.Statement{
			&ast.EnumDeclaration{EnumName: "Direction", Elements: []*ast.EnumElement{
				{Name: "north"},
				{Name: "southWest"},
			}},
			&ast.EnumDeclaration{EnumName: "Shape", Elements: []*ast.EnumElement{
				{Name: "circle", AssociatedValues: []ast.LabeledType{{Label: "radius", TypeName: "Double"}}},
				{Name: "empty"},
			}},
		},
		Statements: []ast.Statement{
			&ast.SwitchStatement{
				Expression: reference("d", "Direction"),
				Cases: []ast.SwitchCase{
					{
						Expressions: []ast.Expression{&ast.BinaryOperatorExpression{
							LeftExpression:  reference("d", "Direction"),
							RightExpression: &ast.TypeExpression{TypeName: "Direction.north"},
							OperatorSymbol:  "is",
							TypeName:        "Bool",
						}},
						Statements: []ast.Statement{
							&ast.AssignmentStatement{LeftHand: reference("n", "Int"), RightHand: integer(1)},
						},
					},
					{Statements: []ast.Statement{&ast.BreakStatement{}}},
				},
			},
			&ast.SwitchStatement{
				Expression: reference("s", "Shape"),
				Cases: []ast.SwitchCase{
					{
						Expressions: []ast.Expression{&ast.BinaryOperatorExpression{
							LeftExpression:  reference("s", "Shape"),
							RightExpression: &ast.TypeExpression{TypeName: "Shape.circle"},
							OperatorSymbol:  "is",
							TypeName:        "Bool",
						}},
						Statements: []ast.Statement{
							&ast.AssignmentStatement{LeftHand: reference("n", "Int"), RightHand: integer(2)},
						},
					},
				},
			},
		},
	}

	generator := codegen.NewCodeGenerator(newRegistry(t), diag.NewSink(false), "\t", 0)
	text, err := generator.Generate(module)
	require.NoError(t, err)
	assert.Equal(t, `enum class Direction {
	NORTH,
	SOUTH_WEST
}

sealed class Shape {
	class Circle(val radius: Double): Shape()
	class Empty: Shape()
}

fun main(args: Array<String>) {
	when (d) {
		Direction.NORTH -> n = 1
		else -> {}
	}

	when (s) {
		is Shape.Circle -> n = 2
	}
}
`, text)
}

func TestRawValueEnumGetsFactory(t *testing.T) {
	t.Parallel()

	module := &ast.Module{Declarations: []ast.Statement{
		&ast.EnumDeclaration{EnumName: "Code", Elements: []*ast.EnumElement{
			{Name: "ok", RawValue: integer(200)},
			{Name: "notFound", RawValue: integer(404)},
		}},
	}}

	reg := newRegistry(t)
	reg.AddEnumClass("Code")
	generator := codegen.NewCodeGenerator(reg, diag.NewSink(false), "\t", 0)
	text, err := generator.Generate(module)
	require.NoError(t, err)
	assert.Equal(t, `enum class Code(val rawValue: Int) {
	OK(200),
	NOT_FOUND(404);

	companion object {
		operator fun invoke(rawValue: Int): Code? {
			return values().firstOrNull { it.rawValue == rawValue }
		}
	}
}
`, text)
}

func TestLongDeclarationsBreakPerParameter(t *testing.T) {
	t.Parallel()

	module := &ast.Module{Declarations: []ast.Statement{
		&ast.FunctionDeclaration{Data: ast.FunctionDeclarationData{
			Prefix: "configure",
			Parameters: []ast.FunctionParameter{
				{Label: "a", TypeName: "Int"},
				{Label: "b", TypeName: "String"},
				{Label: "c", TypeName: "Double"},
			},
			ReturnType: "Bool",
			Statements: []ast.Statement{&ast.ReturnStatement{Expression: &ast.LiteralBoolExpression{Value: true}}},
		}},
	}}

	generator := codegen.NewCodeGenerator(newRegistry(t), diag.NewSink(false), "\t", 40)
	text, err := generator.Generate(module)
	require.NoError(t, err)
	assert.Equal(t, `fun configure(
	a: Int,
	b: String,
	c: Double
): Boolean {
	return true
}
`, text)

	wide := codegen.NewCodeGenerator(newRegistry(t), diag.NewSink(false), "\t", 0)
	text, err = wide.Generate(module)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "fun configure(a: Int, b: String, c: Double): Boolean {\n"))
}

func TestGuardAndIfLet(t *testing.T) {
	t.Parallel()

	binding := &ast.ConditionDeclaration{Data: ast.VariableDeclarationData{
		Identifier: "value", TypeName: "Int", Expression: reference("maybe", "Int?"), IsLet: true,
	}}
	module := &ast.Module{Statements: []ast.Statement{
		&ast.IfStatement{Data: ast.IfStatementData{
			Conditions: []ast.IfCondition{binding},
			Statements: []ast.Statement{printCall(reference("value", "Int"))},
			ElseStatement: &ast.IfStatementData{
				Statements: []ast.Statement{&ast.ReturnStatement{}},
			},
		}},
		&ast.IfStatement{Data: ast.IfStatementData{
			Conditions: []ast.IfCondition{&ast.ConditionExpression{Expression: &ast.BinaryOperatorExpression{
				LeftExpression: reference("n", "Int"), RightExpression: integer(0), OperatorSymbol: ">", TypeName: "Bool",
			}}},
			Statements: []ast.Statement{&ast.ReturnStatement{}},
			IsGuard:    true,
		}},
	}}

	generator := codegen.NewCodeGenerator(newRegistry(t), diag.NewSink(false), "\t", 0)
	text, err := generator.Generate(module)
	require.NoError(t, err)
	assert.Equal(t, `fun main(args: Array<String>) {
	val value: Int? = maybe
	if (value != null) {
		println(value)
	} else {
		return
	}

	if (!(n > 0)) {
		return
	}
}
`, text)
}

func TestDeferWrapsTheRestOfTheBlock(t *testing.T) {
	t.Parallel()

	module := &ast.Module{Statements: []ast.Statement{
		&ast.DeferStatement{Statements: []ast.Statement{printCall(&ast.LiteralStringExpression{Value: "done"})}},
		printCall(&ast.LiteralStringExpression{Value: "working"}),
	}}

	generator := codegen.NewCodeGenerator(newRegistry(t), diag.NewSink(false), "\t", 0)
	text, err := generator.Generate(module)
	require.NoError(t, err)
	assert.Equal(t, `fun main(args: Array<String>) {
	try {
		println("working")
	} finally {
		println("done")
	}
}
`, text)
}

func TestExpressions(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t)
	reg.AddTemplate(registry.Template{
		Expression: &ast.DotExpression{LeftExpression: reference("_array", "[Int]"), RightExpression: reference("count", "")},
		String:     "_array.size",
	})

	tests := []struct {
		name       string
		expression ast.Expression
		want       string
	}{
		{
			name:       "closed range",
			expression: &ast.BinaryOperatorExpression{LeftExpression: integer(1), RightExpression: integer(5), OperatorSymbol: "..."},
			want:       "1..5",
		},
		{
			name: "half open range",
			expression: &ast.BinaryOperatorExpression{
				LeftExpression: integer(0), RightExpression: reference("n", "Int"), OperatorSymbol: "..<",
			},
			want: "0 until n",
		},
		{
			name:       "dollar in string",
			expression: &ast.LiteralStringExpression{Value: "cost $5"},
			want:       `"cost \$5"`,
		},
		{
			name: "interpolation",
			expression: &ast.InterpolatedStringLiteralExpression{Expressions: []ast.Expression{
				&ast.LiteralStringExpression{Value: "x = "},
				reference("x", "Int"),
				&ast.LiteralStringExpression{Value: ""},
			}},
			want: `"x = ${x}"`,
		},
		{
			name:       "force unwrap",
			expression: &ast.ForceValueExpression{Expression: reference("x", "Int?")},
			want:       "x!!",
		},
		{
			name:       "empty array",
			expression: &ast.ArrayExpression{TypeName: "[Int]"},
			want:       "mutableListOf<Int>()",
		},
		{
			name: "dictionary",
			expression: &ast.DictionaryExpression{
				Keys:     []ast.Expression{&ast.LiteralStringExpression{Value: "a"}},
				Values:   []ast.Expression{integer(1)},
				TypeName: "[String : Int]",
			},
			want: `mutableMapOf("a" to 1)`,
		},
		{
			name: "tuple",
			expression: &ast.TupleExpression{Pairs: []ast.LabeledExpression{
				{Expression: integer(1)}, {Expression: integer(2)},
			}},
			want: "Pair(1, 2)",
		},
		{
			name: "closure with implicit parameter",
			expression: &ast.ClosureExpression{
				Parameters: []ast.LabeledType{{Label: "it", TypeName: "Int"}},
				Statements: []ast.Statement{&ast.ReturnStatement{Expression: &ast.BinaryOperatorExpression{
					LeftExpression: reference("it", "Int"), RightExpression: integer(2), OperatorSymbol: "*",
				}}},
			},
			want: "{ it * 2 }",
		},
		{
			name: "closure with named parameters",
			expression: &ast.ClosureExpression{
				Parameters: []ast.LabeledType{{Label: "a", TypeName: "Int"}, {Label: "b", TypeName: "Int"}},
				Statements: []ast.Statement{&ast.ReturnStatement{Expression: &ast.BinaryOperatorExpression{
					LeftExpression: reference("a", "Int"), RightExpression: reference("b", "Int"), OperatorSymbol: "+",
				}}},
			},
			want: "{ a, b -> a + b }",
		},
		{
			name:       "unsigned literal",
			expression: &ast.LiteralUIntExpression{Value: 3},
			want:       "3u",
		},
		{
			name:       "float literal",
			expression: &ast.LiteralFloatExpression{Value: 1.5},
			want:       "1.5f",
		},
		{
			name: "enum class case test",
			expression: &ast.BinaryOperatorExpression{
				LeftExpression:  reference("d", "Direction"),
				RightExpression: &ast.TypeExpression{TypeName: "Direction.north"},
				OperatorSymbol:  "is",
			},
			want: "d == Direction.NORTH",
		},
		{
			name: "conditional cast",
			expression: &ast.BinaryOperatorExpression{
				LeftExpression:  reference("x", "Any"),
				RightExpression: &ast.TypeExpression{TypeName: "[Int]"},
				OperatorSymbol:  "as?",
			},
			want: "x as? MutableList<Int>",
		},
		{
			name: "sealed case without values",
			expression: &ast.DotExpression{
				LeftExpression:  &ast.TypeExpression{TypeName: "Shape"},
				RightExpression: reference("empty", "Shape"),
			},
			want: "Shape.Empty()",
		},
		{
			name: "sealed case with values",
			expression: &ast.CallExpression{
				Function: &ast.DotExpression{
					LeftExpression:  &ast.TypeExpression{TypeName: "Shape"},
					RightExpression: reference("circle(radius:)", "(Double) -> Shape"),
				},
				Parameters: &ast.TupleExpression{Pairs: []ast.LabeledExpression{
					{Label: "radius", Expression: &ast.LiteralDoubleExpression{Value: 1}},
				}},
				TypeName: "Shape",
			},
			want: "Shape.Circle(radius = 1.0)",
		},
		{
			name: "ternary",
			expression: &ast.IfExpression{
				Condition:       reference("c", "Bool"),
				TrueExpression:  integer(1),
				FalseExpression: integer(2),
			},
			want: "if (c) 1 else 2",
		},
		{
			name: "template",
			expression: &ast.DotExpression{
				LeftExpression:  reference("xs", "[Int]"),
				RightExpression: reference("count", "Int"),
			},
			want: "xs.size",
		},
		{
			name:       "nil",
			expression: &ast.NilLiteralExpression{},
			want:       "null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, render(t, reg, tt.expression))
		})
	}
}

func TestTupleShuffleWithMismatchedLabels(t *testing.T) {
	t.Parallel()

	call := &ast.CallExpression{
		Function: reference("f(a:b:)", "(Int, Int) -> ()"),
		Parameters: &ast.TupleShuffleExpression{
			Labels:      []string{"a"},
			Indices:     []ast.TupleShuffleIndex{ast.Present(), ast.Present()},
			Expressions: []ast.Expression{integer(1), integer(2)},
		},
	}
	module := &ast.Module{Path: "f.swift", Statements: []ast.Statement{&ast.ExpressionStatement{Expression: call}}}

	sink := diag.NewSink(false)
	text, err := codegen.NewCodeGenerator(newRegistry(t), sink, "\t", 0).Generate(module)
	require.NoError(t, err)
	assert.Contains(t, text, "f(<<Error>>)")
	require.Len(t, sink.Errors(), 1)
	assert.Contains(t, sink.Errors()[0].Message, "1 labels but 2 indices")

	stopping := diag.NewSink(true)
	_, err = codegen.NewCodeGenerator(newRegistry(t), stopping, "\t", 0).Generate(module)
	require.Error(t, err)
}

func TestTupleShuffleExpandsVariadicArguments(t *testing.T) {
	t.Parallel()

	call := &ast.CallExpression{
		Function: reference("sum(_:scale:)", "(Int..., Int) -> Int"),
		Parameters: &ast.TupleShuffleExpression{
			Labels:      []string{"", "scale"},
			Indices:     []ast.TupleShuffleIndex{ast.Variadic(3), ast.Present()},
			Expressions: []ast.Expression{integer(1), integer(2), integer(3), integer(10)},
		},
	}
	assert.Equal(t, "sum(1, 2, 3, scale = 10)", render(t, newRegistry(t), call))
}

func TestWrappedCallRecordsArgumentErrorsOnce(t *testing.T) {
	t.Parallel()

	broken := func() ast.Expression {
		return &ast.CallExpression{
			Function: reference("f(a:b:)", "(Int, Int) -> ()"),
			Parameters: &ast.TupleShuffleExpression{
				Labels:      []string{"a"},
				Indices:     []ast.TupleShuffleIndex{ast.Present(), ast.Present()},
				Expressions: []ast.Expression{integer(1), integer(2)},
			},
		}
	}

	tests := map[string]ast.Expression{
		"own arguments": broken(),
		"nested argument": &ast.CallExpression{
			Function: reference("g(_:_:)", "(Int, Int) -> ()"),
			Parameters: &ast.TupleExpression{Pairs: []ast.LabeledExpression{
				{Expression: broken()},
				{Expression: integer(123456789)},
			}},
		},
	}

	for name, call := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			module := &ast.Module{Path: "f.swift", Statements: []ast.Statement{&ast.ExpressionStatement{Expression: call}}}
			sink := diag.NewSink(false)
			text, err := codegen.NewCodeGenerator(newRegistry(t), sink, "\t", 12).Generate(module)
			require.NoError(t, err)
			assert.Contains(t, text, "f(<<Error>>)")
			assert.Len(t, sink.Errors(), 1)
		})
	}
}
