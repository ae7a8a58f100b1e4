// Package codegen renders the rewritten intermediate tree as Kotlin source.
package codegen

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/common"
	"github.com/spicery/swift2kt/pkg/diag"
	"github.com/spicery/swift2kt/pkg/registry"
)

// DefaultLineLimit is the column past which declarations and calls are
// broken one parameter per line.
const DefaultLineLimit = 100

// tabWidth is the number of columns a tab counts for when measuring lines.
const tabWidth = 4

// CodeGenerator holds what is shared by every file of a run. It is safe for
// concurrent use; each Generate call keeps its own state.
type CodeGenerator struct {
	registry   *registry.Registry
	sink       *diag.Sink
	indentUnit string
	lineLimit  int
}

// NewCodeGenerator creates a generator. An empty indent unit means a tab and
// a non-positive line limit means DefaultLineLimit.
func NewCodeGenerator(reg *registry.Registry, sink *diag.Sink, indentUnit string, lineLimit int) *CodeGenerator {
	if indentUnit == "" {
		indentUnit = "\t"
	}
	if lineLimit <= 0 {
		lineLimit = DefaultLineLimit
	}
	return &CodeGenerator{registry: reg, sink: sink, indentUnit: indentUnit, lineLimit: lineLimit}
}

// fileGenerator is the state of rendering one module. The first error that
// must abandon the file is kept and returned by Generate.
type fileGenerator struct {
	*CodeGenerator
	path string
	err  error

	// quiet suppresses reports while text is rendered a second time.
	quiet int
}

// Generate renders the declarations of a module followed, when it has
// top-level statements, by a main function running them.
func (cg *CodeGenerator) Generate(module *ast.Module) (string, error) {
	g := &fileGenerator{CodeGenerator: cg, path: module.Path}

	var builder strings.Builder
	builder.WriteString(g.statements(module.Declarations, ""))
	if len(module.Statements) > 0 {
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("fun main(args: Array<String>) {\n")
		builder.WriteString(g.statements(module.Statements, cg.indentUnit))
		builder.WriteString("}\n")
	}
	if g.err != nil {
		return "", g.err
	}
	return builder.String(), nil
}

// report records a structural error against the file.
func (g *fileGenerator) report(node common.PrintableTree, message string) {
	if g.quiet > 0 {
		return
	}
	err := g.sink.Record(&diag.StructuralError{Path: g.path, Message: message, Node: node})
	if err != nil && g.err == nil {
		g.err = err
	}
}

// fits reports whether text, placed after indent, stays within the line
// limit.
func (g *fileGenerator) fits(indent string, text string) bool {
	width := 0
	for _, c := range indent {
		if c == '\t' {
			width += tabWidth
		} else {
			width++
		}
	}
	if newline := strings.IndexByte(text, '\n'); newline >= 0 {
		text = text[:newline]
	}
	return width+runewidth.StringWidth(text) <= g.lineLimit
}

// glueKind names the statements that sit together without a blank line
// between them, or "" for statements that always get one.
func glueKind(statement ast.Statement) string {
	switch s := statement.(type) {
	case *ast.VariableDeclaration:
		return "variable"
	case *ast.AssignmentStatement:
		return "assignment"
	case *ast.TypealiasDeclaration:
		return "typealias"
	case *ast.ExpressionStatement:
		switch e := s.Expression.(type) {
		case *ast.CallExpression:
			return "call"
		case *ast.TemplateExpression:
			return "template"
		case *ast.LiteralCodeExpression, *ast.LiteralDeclarationExpression:
			return "literal"
		case *ast.BinaryOperatorExpression:
			if isCompoundAssignment(e.OperatorSymbol) {
				return "assignment"
			}
		}
	}
	return ""
}

func isCompoundAssignment(operator string) bool {
	switch operator {
	case "==", "!=", "<=", ">=", "===", "!==":
		return false
	}
	return strings.HasSuffix(operator, "=")
}

// glued reports whether two adjacent statements are printed without a
// blank line between them.
func glued(previous ast.Statement, next ast.Statement) bool {
	switch previous.(type) {
	case *ast.DoStatement, *ast.CatchStatement:
		_, isCatch := next.(*ast.CatchStatement)
		return isCatch
	}
	kind := glueKind(previous)
	return kind != "" && kind == glueKind(next)
}
