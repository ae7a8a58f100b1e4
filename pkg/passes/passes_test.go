package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/config"
	"github.com/spicery/swift2kt/pkg/diag"
	"github.com/spicery/swift2kt/pkg/passes"
	"github.com/spicery/swift2kt/pkg/registry"
)

func newContext(t *testing.T) *passes.Context {
	t.Helper()
	substitutions, err := config.LoadSubstitutionsFromString(config.DefaultSubstitutions)
	require.NoError(t, err)
	reg := registry.New()
	substitutions.Seed(reg)
	return passes.NewContext(reg, diag.NewSink(false), substitutions, nil)
}

// runPass runs one pass of either stage, found by name.
func runPass(t *testing.T, ctx *passes.Context, name string, module *ast.Module) *ast.Module {
	t.Helper()
	for _, pass := range append(passes.FirstStage(), passes.SecondStage()...) {
		if pass.Name == name {
			result, err := pass.Run(ctx, module)
			require.NoError(t, err)
			return result
		}
	}
	require.Failf(t, "no such pass", "%q", name)
	return nil
}

func reference(identifier string, typeName string) *ast.DeclarationReferenceExpression {
	return &ast.DeclarationReferenceExpression{Identifier: identifier, TypeName: typeName}
}

func statements(module *ast.Module) []ast.Statement {
	return module.Statements
}

func TestRenameNilCoalescing(t *testing.T) {
	t.Parallel()

	module := &ast.Module{Statements: []ast.Statement{
		&ast.ExpressionStatement{Expression: &ast.BinaryOperatorExpression{
			LeftExpression:  reference("x", "Int?"),
			RightExpression: &ast.LiteralIntExpression{Value: 0},
			OperatorSymbol:  "??",
			TypeName:        "Int",
		}},
	}}

	result := runPass(t, newContext(t), "rename nil coalescing", module)

	binary := statements(result)[0].(*ast.ExpressionStatement).Expression.(*ast.BinaryOperatorExpression)
	assert.Equal(t, "?:", binary.OperatorSymbol)
	original := module.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.BinaryOperatorExpression)
	assert.Equal(t, "??", original.OperatorSymbol, "the input tree is left untouched")
}

func TestRemoveRedundantParentheses(t *testing.T) {
	t.Parallel()

	sum := &ast.BinaryOperatorExpression{
		LeftExpression:  reference("x", "Int"),
		RightExpression: &ast.LiteralIntExpression{Value: 2},
		OperatorSymbol:  "+",
		TypeName:        "Int",
	}
	product := &ast.BinaryOperatorExpression{
		LeftExpression:  &ast.ParenthesesExpression{Expression: sum},
		RightExpression: &ast.LiteralIntExpression{Value: 3},
		OperatorSymbol:  "*",
		TypeName:        "Int",
	}
	call := &ast.CallExpression{
		Function: reference("print(_:separator:terminator:)", "(Any..., String, String) -> ()"),
		Parameters: &ast.TupleShuffleExpression{
			Labels:      []string{"_", "separator", "terminator"},
			Indices:     []ast.TupleShuffleIndex{ast.Variadic(1), ast.Absent(), ast.Absent()},
			Expressions: []ast.Expression{&ast.ParenthesesExpression{Expression: product}},
		},
	}
	module := &ast.Module{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: call}}}

	ctx := newContext(t)
	result := runPass(t, ctx, "remove redundant parentheses", module)

	shuffle := statements(result)[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression).Parameters.(*ast.TupleShuffleExpression)
	kept, ok := shuffle.Expressions[0].(*ast.BinaryOperatorExpression)
	require.True(t, ok, "parentheses directly inside the arguments are dropped")
	_, ok = kept.LeftExpression.(*ast.ParenthesesExpression)
	assert.True(t, ok, "parentheses inside an operator are kept")

	again := runPass(t, ctx, "remove redundant parentheses", result)
	assert.Equal(t, ast.Dump(result, 0), ast.Dump(again, 0))
}

func TestRemoveImplicitDeclarations(t *testing.T) {
	t.Parallel()

	module := &ast.Module{Declarations: []ast.Statement{
		&ast.StructDeclaration{StructName: "Point", Members: []ast.Statement{
			&ast.VariableDeclaration{Data: ast.VariableDeclarationData{Identifier: "x", TypeName: "Int"}},
			&ast.FunctionDeclaration{Data: ast.FunctionDeclarationData{Prefix: "init", IsImplicit: true}},
		}},
		&ast.TypealiasDeclaration{Identifier: "RawValue", TypeName: "Int", IsImplicit: true},
	}}

	ctx := newContext(t)
	result := runPass(t, ctx, "remove implicit declarations", module)

	require.Len(t, result.Declarations, 1)
	point := result.Declarations[0].(*ast.StructDeclaration)
	assert.Len(t, point.Members, 1)

	again := runPass(t, ctx, "remove implicit declarations", result)
	assert.Equal(t, ast.Dump(result, 0), ast.Dump(again, 0))
}

func TestFailableInitializerBecomesFactory(t *testing.T) {
	t.Parallel()

	body := []ast.Statement{
		&ast.IfStatement{Data: ast.IfStatementData{
			Conditions: []ast.IfCondition{&ast.ConditionExpression{Expression: &ast.LiteralBoolExpression{Value: true}}},
			Statements: []ast.Statement{
				&ast.AssignmentStatement{
					LeftHand:  reference("self", "Code"),
					RightHand: reference("ok", "Code"),
				},
				&ast.ReturnStatement{},
			},
		}},
		&ast.ReturnStatement{Expression: &ast.NilLiteralExpression{}},
	}
	module := &ast.Module{Declarations: []ast.Statement{
		&ast.EnumDeclaration{EnumName: "Code", Members: []ast.Statement{
			&ast.FunctionDeclaration{Data: ast.FunctionDeclarationData{
				Prefix:     "init",
				ReturnType: "Code?",
				Parameters: []ast.FunctionParameter{{Label: "value", TypeName: "Int"}},
				Statements: body,
			}},
		}},
	}}

	result := runPass(t, newContext(t), "failable initializers", module)

	enum := result.Declarations[0].(*ast.EnumDeclaration)
	factory := enum.Members[0].(*ast.FunctionDeclaration).Data
	assert.Equal(t, passes.FactoryPrefix, factory.Prefix)
	assert.True(t, factory.IsStatic)

	inner := factory.Statements[0].(*ast.IfStatement).Data.Statements
	require.Len(t, inner, 1, "the return after the former assignment is dropped")
	returned := inner[0].(*ast.ReturnStatement).Expression.(*ast.DeclarationReferenceExpression)
	assert.Equal(t, "ok", returned.Identifier)
}

func TestHoistStaticMembers(t *testing.T) {
	t.Parallel()

	module := &ast.Module{Declarations: []ast.Statement{
		&ast.ClassDeclaration{ClassName: "Counter", Members: []ast.Statement{
			&ast.VariableDeclaration{Data: ast.VariableDeclarationData{Identifier: "count", TypeName: "Int", IsStatic: true}},
			&ast.VariableDeclaration{Data: ast.VariableDeclarationData{Identifier: "value", TypeName: "Int"}},
			&ast.FunctionDeclaration{Data: ast.FunctionDeclarationData{Prefix: "make", IsStatic: true, Statements: []ast.Statement{}}},
		}},
	}}

	ctx := newContext(t)
	result := runPass(t, ctx, "companion objects", module)

	class := result.Declarations[0].(*ast.ClassDeclaration)
	require.Len(t, class.Members, 2)
	companion, ok := class.Members[1].(*ast.CompanionObject)
	require.True(t, ok)
	assert.Len(t, companion.Members, 2)

	again := runPass(t, ctx, "companion objects", result)
	assert.Equal(t, ast.Dump(result, 0), ast.Dump(again, 0))
}

func TestCleanInheritancesAndTypePrefixes(t *testing.T) {
	t.Parallel()

	module := &ast.Module{Declarations: []ast.Statement{
		&ast.EnumDeclaration{EnumName: "Shape", Inherits: []string{"Int", "Equatable", "Drawable"}, Members: []ast.Statement{
			&ast.FunctionDeclaration{Data: ast.FunctionDeclarationData{
				Prefix:     "kind",
				ReturnType: "Shape.Kind",
				Parameters: []ast.FunctionParameter{{Label: "other", TypeName: "[Shape.Kind]"}},
				Statements: []ast.Statement{},
			}},
		}},
	}}

	ctx := newContext(t)
	result := runPass(t, ctx, "clean inheritances", module)
	result = runPass(t, ctx, "remove type prefixes", result)

	enum := result.Declarations[0].(*ast.EnumDeclaration)
	assert.Equal(t, []string{"Drawable"}, enum.Inherits)
	function := enum.Members[0].(*ast.FunctionDeclaration).Data
	assert.Equal(t, "Kind", function.ReturnType)
	assert.Equal(t, "[Kind]", function.Parameters[0].TypeName)
}

func TestRenameSelf(t *testing.T) {
	t.Parallel()

	implicitSelf := &ast.DeclarationReferenceExpression{Identifier: "self", TypeName: "A", IsImplicit: true}
	module := &ast.Module{Statements: []ast.Statement{
		&ast.AssignmentStatement{
			LeftHand:  &ast.DotExpression{LeftExpression: reference("self", "A"), RightExpression: reference("x", "Int")},
			RightHand: &ast.DotExpression{LeftExpression: implicitSelf, RightExpression: reference("y", "Int")},
		},
	}}

	result := runPass(t, newContext(t), "self to this", module)

	assignment := statements(result)[0].(*ast.AssignmentStatement)
	left := assignment.LeftHand.(*ast.DotExpression)
	assert.Equal(t, "this", left.LeftExpression.(*ast.DeclarationReferenceExpression).Identifier)
	right := assignment.RightHand.(*ast.DeclarationReferenceExpression)
	assert.Equal(t, "y", right.Identifier, "an implicit receiver disappears")
}

func TestRenameClosureParameters(t *testing.T) {
	t.Parallel()

	closure := &ast.ClosureExpression{
		Parameters: []ast.LabeledType{{Label: "$0", TypeName: "Int"}},
		Statements: []ast.Statement{&ast.ExpressionStatement{Expression: &ast.BinaryOperatorExpression{
			LeftExpression:  reference("$0", "Int"),
			RightExpression: &ast.LiteralIntExpression{Value: 1},
			OperatorSymbol:  "+",
		}}},
		TypeName: "(Int) -> Int",
	}
	module := &ast.Module{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: closure}}}

	result := runPass(t, newContext(t), "closure parameters", module)

	renamed := statements(result)[0].(*ast.ExpressionStatement).Expression.(*ast.ClosureExpression)
	assert.Equal(t, passes.ClosureParameter, renamed.Parameters[0].Label)
	sum := renamed.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.BinaryOperatorExpression)
	assert.Equal(t, "it", sum.LeftExpression.(*ast.DeclarationReferenceExpression).Identifier)
	assert.Equal(t, "$0", closure.Parameters[0].Label, "the input closure keeps its parameter")
}

func TestRetargetArrayWrappers(t *testing.T) {
	t.Parallel()

	module := &ast.Module{Statements: []ast.Statement{
		&ast.ExpressionStatement{Expression: &ast.CallExpression{
			Function:   &ast.TypeExpression{TypeName: "ArrayClass<Int>"},
			Parameters: &ast.TupleExpression{Pairs: []ast.LabeledExpression{{Expression: reference("numbers", "[Int]")}}},
			TypeName:   "ArrayClass<Int>",
		}},
		&ast.ExpressionStatement{Expression: &ast.BinaryOperatorExpression{
			LeftExpression:  reference("any", "Any"),
			RightExpression: &ast.TypeExpression{TypeName: "ArrayClass<Int>"},
			OperatorSymbol:  "as?",
			TypeName:        "ArrayClass<Int>?",
		}},
	}}

	result := runPass(t, newContext(t), "array wrappers", module)

	construction := statements(result)[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	dot := construction.Function.(*ast.DotExpression)
	assert.Equal(t, "numbers", dot.LeftExpression.(*ast.DeclarationReferenceExpression).Identifier)
	assert.Equal(t, "toMutableList", dot.RightExpression.(*ast.DeclarationReferenceExpression).Identifier)

	cast := statements(result)[1].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	optional := cast.Function.(*ast.DotExpression).LeftExpression.(*ast.OptionalExpression)
	binary := optional.Expression.(*ast.ParenthesesExpression).Expression.(*ast.BinaryOperatorExpression)
	assert.Equal(t, "List<Int>", binary.RightExpression.(*ast.TypeExpression).TypeName)
}

func TestSubstitutions(t *testing.T) {
	t.Parallel()

	ctx := newContext(t)
	ctx.Substitutions.Identifiers = map[string]string{"legacyName": "modernName"}
	ctx.Substitutions.Operators = map[string]string{"&+": "+"}

	module := &ast.Module{Statements: []ast.Statement{
		&ast.ExpressionStatement{Expression: &ast.BinaryOperatorExpression{
			LeftExpression:  reference("legacyName", "Int"),
			RightExpression: &ast.LiteralIntExpression{Value: 1},
			OperatorSymbol:  "&+",
		}},
	}}

	result := runPass(t, ctx, "substitutions", module)

	binary := statements(result)[0].(*ast.ExpressionStatement).Expression.(*ast.BinaryOperatorExpression)
	assert.Equal(t, "+", binary.OperatorSymbol)
	assert.Equal(t, "modernName", binary.LeftExpression.(*ast.DeclarationReferenceExpression).Identifier)
}

func TestRecordTemplates(t *testing.T) {
	t.Parallel()

	count := &ast.DotExpression{
		LeftExpression:  reference("_array", "[Any]"),
		RightExpression: reference("count", "Int"),
	}
	module := &ast.Module{Declarations: []ast.Statement{
		&ast.FunctionDeclaration{Data: ast.FunctionDeclarationData{
			Prefix: passes.TemplatesFunction,
			Statements: []ast.Statement{
				&ast.VariableDeclaration{Data: ast.VariableDeclarationData{Identifier: "_array", TypeName: "[Any]"}},
				&ast.ExpressionStatement{Expression: count},
				&ast.ExpressionStatement{Expression: &ast.BinaryOperatorExpression{
					LeftExpression:  &ast.LiteralStringExpression{Value: "_array"},
					RightExpression: &ast.LiteralStringExpression{Value: ".size"},
					OperatorSymbol:  "+",
				}},
			},
		}},
		&ast.FunctionDeclaration{Data: ast.FunctionDeclarationData{Prefix: "other", Statements: []ast.Statement{}}},
	}}

	ctx := newContext(t)
	result := runPass(t, ctx, "record templates", module)

	require.Len(t, result.Declarations, 1, "the templates function is deleted")
	templates := ctx.Registry.Templates()
	require.Len(t, templates, 1)
	assert.Equal(t, "_array.size", templates[0].String)
	assert.Same(t, count, templates[0].Expression)
}

func TestRecordTemplatesReportsNonLiteralText(t *testing.T) {
	t.Parallel()

	module := &ast.Module{Path: "/tmp/t.swift", Declarations: []ast.Statement{
		&ast.FunctionDeclaration{Data: ast.FunctionDeclarationData{
			Prefix: passes.TemplatesFunction,
			Statements: []ast.Statement{
				&ast.ExpressionStatement{Expression: reference("_x", "Int")},
				&ast.ExpressionStatement{Expression: reference("y", "String")},
			},
		}},
	}}

	ctx := newContext(t)
	runPass(t, ctx, "record templates", module)

	assert.Empty(t, ctx.Registry.Templates())
	errs := ctx.Sink.ErrorsFor("/tmp/t.swift")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "string literal")
}

func TestRecordEnumsAndFunctionTranslations(t *testing.T) {
	t.Parallel()

	module := &ast.Module{Declarations: []ast.Statement{
		&ast.EnumDeclaration{EnumName: "Direction", Elements: []*ast.EnumElement{{Name: "north"}, {Name: "south"}}},
		&ast.EnumDeclaration{EnumName: "Shape", Elements: []*ast.EnumElement{
			{Name: "circle", AssociatedValues: []ast.LabeledType{{Label: "radius", TypeName: "Double"}}},
			{Name: "empty"},
		}},
		&ast.ProtocolDeclaration{ProtocolName: "Drawable"},
		&ast.FunctionDeclaration{Data: ast.FunctionDeclarationData{
			Prefix: "add",
			IsPure: true,
			Parameters: []ast.FunctionParameter{
				{Label: "a", APILabel: "_", TypeName: "Int"},
				{Label: "b", APILabel: "to", TypeName: "Int"},
			},
			Statements: []ast.Statement{},
		}},
	}}

	ctx := newContext(t)
	_, err := passes.RunFirstStage(ctx, module)
	require.NoError(t, err)

	assert.True(t, ctx.Registry.IsEnumClass("Direction"))
	assert.True(t, ctx.Registry.IsSealedClass("Shape"))
	assert.True(t, ctx.Registry.IsProtocol("Drawable"))
	assert.True(t, ctx.Registry.IsPureFunction("add"))

	translation, ok := ctx.Registry.FunctionTranslation("add(_:to:)", "(Int, Int) -> Int")
	require.True(t, ok)
	assert.Equal(t, "add", translation.Prefix)
	assert.Equal(t, []string{"_", "b"}, translation.Parameters)
}

func TestSecondStageIsIdempotent(t *testing.T) {
	t.Parallel()

	module := &ast.Module{
		Declarations: []ast.Statement{
			&ast.StructDeclaration{StructName: "Box", Inherits: []string{"Equatable"}, Members: []ast.Statement{
				&ast.VariableDeclaration{Data: ast.VariableDeclarationData{Identifier: "shared", TypeName: "Box.Kind", IsStatic: true}},
				&ast.VariableDeclaration{Data: ast.VariableDeclarationData{Identifier: "value", TypeName: "Int"}},
				&ast.FunctionDeclaration{Data: ast.FunctionDeclarationData{Prefix: "init", IsImplicit: true}},
			}},
		},
		Statements: []ast.Statement{
			&ast.ExpressionStatement{Expression: &ast.IfExpression{
				Condition:       reference("flag", "Bool"),
				TrueExpression:  &ast.ParenthesesExpression{Expression: &ast.LiteralIntExpression{Value: 1}},
				FalseExpression: &ast.ParenthesesExpression{Expression: reference("fallback", "Int")},
			}},
		},
	}

	ctx := newContext(t)
	once, err := passes.RunSecondStage(ctx, module)
	require.NoError(t, err)
	twice, err := passes.RunSecondStage(ctx, once)
	require.NoError(t, err)

	assert.Equal(t, ast.Dump(once, 0), ast.Dump(twice, 0))
	box := once.Declarations[0].(*ast.StructDeclaration)
	assert.Empty(t, box.Inherits)
	require.Len(t, box.Members, 2)
	companion := box.Members[1].(*ast.CompanionObject)
	assert.Equal(t, "Kind", companion.Members[0].(*ast.VariableDeclaration).Data.TypeName)
}
