// Package passes rewrites the intermediate tree between translation and
// code generation. Every pass is a total structural transform built on a
// Replacer; they run once each, in a fixed order, in two stages. The first
// stage records what later files need into the shared registry; the second
// normalises the tree for the Kotlin generator.
package passes

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/config"
	"github.com/spicery/swift2kt/pkg/diag"
	"github.com/spicery/swift2kt/pkg/registry"
)

// Context carries the run-wide state a pass may consult or record into.
type Context struct {
	Registry      *registry.Registry
	Sink          *diag.Sink
	Substitutions *config.Substitutions // may be nil
	Logger        *slog.Logger
}

func NewContext(reg *registry.Registry, sink *diag.Sink, substitutions *config.Substitutions, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Context{Registry: reg, Sink: sink, Substitutions: substitutions, Logger: logger}
}

type Pass struct {
	Name string
	Run  func(ctx *Context, module *ast.Module) (*ast.Module, error)
}

// FirstStage lists the passes run on each file before any file enters the
// second stage.
func FirstStage() []Pass {
	return []Pass{
		{Name: "record templates", Run: recordTemplates},
		{Name: "record enums", Run: recordEnums},
		{Name: "record protocols", Run: recordProtocols},
		{Name: "record pure functions", Run: recordPureFunctions},
		{Name: "record function translations", Run: recordFunctionTranslations},
	}
}

// SecondStage lists the rewrites in the order they must run; later passes
// rely on the shapes earlier ones leave behind.
func SecondStage() []Pass {
	return []Pass{
		{Name: "rename nil coalescing", Run: rewriteOnly(renameNilCoalescing)},
		{Name: "remove redundant parentheses", Run: rewriteOnly(removeRedundantParentheses)},
		{Name: "remove implicit declarations", Run: rewriteOnly(removeImplicitDeclarations)},
		{Name: "failable initializers", Run: rewriteOnly(replaceFailableInitializers)},
		{Name: "companion objects", Run: rewriteOnly(hoistStaticMembers)},
		{Name: "clean inheritances", Run: cleanInheritances},
		{Name: "remove type prefixes", Run: rewriteOnly(removeTypePrefixes)},
		{Name: "self to this", Run: rewriteOnly(renameSelf)},
		{Name: "closure parameters", Run: rewriteOnly(renameClosureParameters)},
		{Name: "array wrappers", Run: rewriteOnly(retargetArrayWrappers)},
		{Name: "substitutions", Run: applySubstitutions},
	}
}

func rewriteOnly(rewrite func(*ast.Module) *ast.Module) func(*Context, *ast.Module) (*ast.Module, error) {
	return func(_ *Context, module *ast.Module) (*ast.Module, error) {
		return rewrite(module), nil
	}
}

func RunFirstStage(ctx *Context, module *ast.Module) (*ast.Module, error) {
	return run(ctx, "first", FirstStage(), module)
}

func RunSecondStage(ctx *Context, module *ast.Module) (*ast.Module, error) {
	return run(ctx, "second", SecondStage(), module)
}

func run(ctx *Context, stage string, passes []Pass, module *ast.Module) (*ast.Module, error) {
	for _, pass := range passes {
		ctx.Logger.Debug("running pass",
			slog.String("file", module.Path),
			slog.String("stage", stage),
			slog.String("pass", pass.Name))
		result, err := pass.Run(ctx, module)
		if err != nil {
			return nil, fmt.Errorf("%s pass: %w", pass.Name, err)
		}
		module = result
	}
	return module, nil
}
