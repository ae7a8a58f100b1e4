package passes

import (
	"strings"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/diag"
	"github.com/spicery/swift2kt/pkg/registry"
)

// TemplatesFunction is the name of the zero-argument function whose body
// pairs Swift expressions with the Kotlin text that replaces them:
//
//	_ = _array.count
//	_ = "_array.size"
const TemplatesFunction = "kotlinTemplates"

func isTemplatesFunction(statement ast.Statement) (*ast.FunctionDeclaration, bool) {
	function, ok := statement.(*ast.FunctionDeclaration)
	if !ok {
		return nil, false
	}
	return function, function.Data.Prefix == TemplatesFunction && len(function.Data.Parameters) == 0
}

// recordTemplates harvests the templates function into the registry and
// deletes it.
func recordTemplates(ctx *Context, module *ast.Module) (*ast.Module, error) {
	for _, statement := range append(append([]ast.Statement(nil), module.Declarations...), module.Statements...) {
		function, ok := isTemplatesFunction(statement)
		if !ok {
			continue
		}
		if err := harvestTemplates(ctx, module.Path, function.Data.Statements); err != nil {
			return nil, err
		}
	}

	replacer := &Replacer{
		OnStatement: func(_ *Replacer, statement ast.Statement, _ *Path) ([]ast.Statement, bool) {
			if _, ok := isTemplatesFunction(statement); ok {
				return nil, true
			}
			return nil, false
		},
	}
	return replacer.ReplaceModule(module), nil
}

// harvestTemplates reads consecutive pairs of expression statements; the
// second of each pair must fold to a string literal. Placeholder
// declarations in between are skipped.
func harvestTemplates(ctx *Context, path string, statements []ast.Statement) error {
	var pending ast.Expression
	for _, statement := range statements {
		expressionStatement, ok := statement.(*ast.ExpressionStatement)
		if !ok {
			continue
		}
		if pending == nil {
			pending = expressionStatement.Expression
			continue
		}
		text, ok := foldStrings(expressionStatement.Expression)
		if !ok {
			err := ctx.Sink.Record(&diag.StructuralError{
				Path:    path,
				Message: "expected a string literal after a template expression",
				Node:    expressionStatement,
			})
			if err != nil {
				return err
			}
			pending = nil
			continue
		}
		ctx.Registry.AddTemplate(registry.Template{Expression: pending, String: text})
		pending = nil
	}
	return nil
}

// foldStrings evaluates a string literal or a "+" chain of them.
func foldStrings(expression ast.Expression) (string, bool) {
	switch e := expression.(type) {
	case *ast.LiteralStringExpression:
		return e.Value, true
	case *ast.ParenthesesExpression:
		return foldStrings(e.Expression)
	case *ast.BinaryOperatorExpression:
		if e.OperatorSymbol != "+" {
			return "", false
		}
		left, ok := foldStrings(e.LeftExpression)
		if !ok {
			return "", false
		}
		right, ok := foldStrings(e.RightExpression)
		if !ok {
			return "", false
		}
		return left + right, true
	}
	return "", false
}

// visit calls f on every statement of the module, nested ones included.
func visit(module *ast.Module, f func(ast.Statement)) {
	replacer := &Replacer{
		OnStatement: func(_ *Replacer, statement ast.Statement, _ *Path) ([]ast.Statement, bool) {
			f(statement)
			return nil, false
		},
	}
	replacer.ReplaceModule(module)
}

// recordEnums sorts enums into those rendered as enum classes, whose cases
// carry no associated values, and those rendered as sealed classes.
func recordEnums(ctx *Context, module *ast.Module) (*ast.Module, error) {
	visit(module, func(statement ast.Statement) {
		enum, ok := statement.(*ast.EnumDeclaration)
		if !ok {
			return
		}
		if isPureEnum(enum) {
			ctx.Registry.AddEnumClass(enum.EnumName)
		} else {
			ctx.Registry.AddSealedClass(enum.EnumName)
		}
	})
	return module, nil
}

func isPureEnum(enum *ast.EnumDeclaration) bool {
	for _, element := range enum.Elements {
		if len(element.AssociatedValues) > 0 {
			return false
		}
	}
	return true
}

func recordProtocols(ctx *Context, module *ast.Module) (*ast.Module, error) {
	visit(module, func(statement ast.Statement) {
		if protocol, ok := statement.(*ast.ProtocolDeclaration); ok {
			ctx.Registry.AddProtocol(protocol.ProtocolName)
		}
	})
	return module, nil
}

func recordPureFunctions(ctx *Context, module *ast.Module) (*ast.Module, error) {
	visit(module, func(statement ast.Statement) {
		if function, ok := statement.(*ast.FunctionDeclaration); ok && function.Data.IsPure {
			ctx.Registry.AddPureFunction(function.Data.Prefix)
		}
	})
	return module, nil
}

// recordFunctionTranslations records the functions whose Swift argument
// labels differ from their parameter names, since Kotlin names arguments
// by parameter.
func recordFunctionTranslations(ctx *Context, module *ast.Module) (*ast.Module, error) {
	visit(module, func(statement ast.Statement) {
		function, ok := statement.(*ast.FunctionDeclaration)
		if !ok || function.Data.IsImplicit {
			return
		}
		if translation, ok := functionTranslation(function.Data); ok {
			ctx.Registry.AddFunctionTranslation(translation)
		}
	})
	return module, nil
}

func functionTranslation(data ast.FunctionDeclarationData) (registry.FunctionTranslation, bool) {
	relabeled := false
	apiLabels := make([]string, 0, len(data.Parameters))
	parameters := make([]string, 0, len(data.Parameters))
	for _, parameter := range data.Parameters {
		switch parameter.APILabel {
		case "":
			apiLabels = append(apiLabels, parameter.Label)
			parameters = append(parameters, parameter.Label)
		case "_":
			relabeled = true
			apiLabels = append(apiLabels, "_")
			parameters = append(parameters, "_")
		default:
			relabeled = true
			apiLabels = append(apiLabels, parameter.APILabel)
			parameters = append(parameters, parameter.Label)
		}
	}
	if !relabeled {
		return registry.FunctionTranslation{}, false
	}

	prefix := data.Prefix
	if prefix == "init" {
		return registry.FunctionTranslation{}, false
	}
	var builder strings.Builder
	builder.WriteString(prefix)
	builder.WriteString("(")
	for _, label := range apiLabels {
		builder.WriteString(label)
		builder.WriteString(":")
	}
	builder.WriteString(")")
	return registry.FunctionTranslation{
		SwiftAPIName: builder.String(),
		Prefix:       prefix,
		Parameters:   parameters,
	}, true
}
