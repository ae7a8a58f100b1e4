package codegen

import (
	"fmt"
	"strings"

	"github.com/spicery/swift2kt/pkg/ast"
)

// statements renders a statement list, one blank line between statements
// unless they glue together. A defer wraps the rest of the list.
func (g *fileGenerator) statements(statements []ast.Statement, indent string) string {
	var builder strings.Builder
	var previous ast.Statement
	for i, statement := range statements {
		if deferred, ok := statement.(*ast.DeferStatement); ok {
			if previous != nil {
				builder.WriteString("\n")
			}
			builder.WriteString(g.deferBlock(deferred, statements[i+1:], indent))
			break
		}
		var next ast.Statement
		if i+1 < len(statements) {
			next = statements[i+1]
		}
		text := g.statement(statement, next, indent)
		if text == "" {
			continue
		}
		if previous != nil && !glued(previous, statement) {
			builder.WriteString("\n")
		}
		builder.WriteString(text)
		previous = statement
	}
	return builder.String()
}

// block renders "head {", the statements one level in and the closing brace.
func (g *fileGenerator) block(head string, statements []ast.Statement, indent string) string {
	return indent + head + " {\n" + g.statements(statements, indent+g.indentUnit) + indent + "}\n"
}

func (g *fileGenerator) deferBlock(deferred *ast.DeferStatement, rest []ast.Statement, indent string) string {
	inner := indent + g.indentUnit
	return indent + "try {\n" + g.statements(rest, inner) +
		indent + "} finally {\n" + g.statements(deferred.Statements, inner) + indent + "}\n"
}

func (g *fileGenerator) statement(statement ast.Statement, next ast.Statement, indent string) string {
	switch s := statement.(type) {
	case *ast.ImportDeclaration:
		return ""
	case *ast.ExpressionStatement:
		return indent + g.expression(s.Expression, indent) + "\n"
	case *ast.VariableDeclaration:
		return g.variable(s.Data, indent)
	case *ast.FunctionDeclaration:
		return g.function(s.Data, indent)
	case *ast.ClassDeclaration:
		return g.class(s, indent)
	case *ast.StructDeclaration:
		return g.structure(s, indent)
	case *ast.EnumDeclaration:
		return g.enum(s, indent)
	case *ast.ProtocolDeclaration:
		return g.block("interface "+s.ProtocolName, s.Members, indent)
	case *ast.CompanionObject:
		return g.block("companion object", s.Members, indent)
	case *ast.TypealiasDeclaration:
		return indent + "typealias " + s.Identifier + " = " + g.typeName(s.TypeName) + "\n"
	case *ast.AssignmentStatement:
		return indent + g.expression(s.LeftHand, indent) + " = " + g.expression(s.RightHand, indent) + "\n"
	case *ast.ReturnStatement:
		if s.Expression == nil {
			return indent + "return\n"
		}
		return indent + "return " + g.expression(s.Expression, indent) + "\n"
	case *ast.ThrowStatement:
		return indent + "throw " + g.expression(s.Expression, indent) + "\n"
	case *ast.BreakStatement:
		return indent + "break\n"
	case *ast.ContinueStatement:
		return indent + "continue\n"
	case *ast.IfStatement:
		return g.ifStatement(&s.Data, indent)
	case *ast.SwitchStatement:
		return g.switchStatement(s, indent)
	case *ast.ForEachStatement:
		return g.block("for ("+g.loopVariable(s.Variable, indent)+" in "+g.expression(s.Collection, indent)+")",
			s.Statements, indent)
	case *ast.WhileStatement:
		return g.block("while ("+g.expression(s.Expression, indent)+")", s.Statements, indent)
	case *ast.DoStatement:
		if _, ok := next.(*ast.CatchStatement); ok {
			return g.block("try", s.Statements, indent)
		}
		return g.block("run", s.Statements, indent)
	case *ast.CatchStatement:
		return g.block("catch ("+g.catchVariable(s.Variable)+")", s.Statements, indent)
	case *ast.DeferStatement:
		return g.deferBlock(s, nil, indent)
	case *ast.ErrorStatement:
		return indent + errorText + "\n"
	}
	g.report(statement, fmt.Sprintf("cannot generate code for %s", statement.TreeDescription()))
	return indent + errorText + "\n"
}

func (g *fileGenerator) loopVariable(variable ast.Expression, indent string) string {
	if tuple, ok := variable.(*ast.TupleExpression); ok {
		names := make([]string, 0, len(tuple.Pairs))
		for _, pair := range tuple.Pairs {
			names = append(names, g.expression(pair.Expression, indent))
		}
		return "(" + strings.Join(names, ", ") + ")"
	}
	return g.expression(variable, indent)
}

func (g *fileGenerator) catchVariable(variable *ast.VariableDeclarationData) string {
	if variable == nil {
		return "_error: Exception"
	}
	typeName := g.typeName(variable.TypeName)
	if typeName == "" {
		typeName = "Exception"
	}
	return variable.Identifier + ": " + typeName
}

// ifStatement renders an if chain. Optional bindings are declared before the
// if and tested against null; enum bindings open the body. A guard negates
// its conditions and keeps its bindings after the if.
func (g *fileGenerator) ifStatement(data *ast.IfStatementData, indent string) string {
	var builder strings.Builder
	builder.WriteString(g.conditionDeclarations(data, indent))
	builder.WriteString(indent)
	builder.WriteString(g.ifClause(data, indent))

	if data.IsGuard {
		for _, declaration := range data.Declarations {
			builder.WriteString(g.variable(declaration, indent))
		}
	}
	return builder.String()
}

// ifClause renders from "if (" to the closing brace of the chain, without
// leading indentation.
func (g *fileGenerator) ifClause(data *ast.IfStatementData, indent string) string {
	var builder strings.Builder
	builder.WriteString("if (" + g.condition(data, indent) + ") {\n")
	inner := indent + g.indentUnit
	if !data.IsGuard {
		for _, declaration := range data.Declarations {
			builder.WriteString(g.variable(declaration, inner))
		}
		if len(data.Declarations) > 0 && len(data.Statements) > 0 {
			builder.WriteString("\n")
		}
	}
	builder.WriteString(g.statements(data.Statements, inner))
	builder.WriteString(indent + "}")

	if otherwise := data.ElseStatement; otherwise != nil {
		switch {
		case len(otherwise.Conditions) == 0:
			builder.WriteString(" else {\n")
			builder.WriteString(g.statements(otherwise.Statements, inner))
			builder.WriteString(indent + "}")
		case !hasConditionDeclarations(otherwise):
			builder.WriteString(" else ")
			builder.WriteString(strings.TrimSuffix(g.ifClause(otherwise, indent), "\n"))
		default:
			builder.WriteString(" else {\n")
			builder.WriteString(g.ifStatement(otherwise, inner))
			builder.WriteString(indent + "}")
		}
	}
	builder.WriteString("\n")
	return builder.String()
}

func hasConditionDeclarations(data *ast.IfStatementData) bool {
	for _, condition := range data.Conditions {
		if _, ok := condition.(*ast.ConditionDeclaration); ok {
			return true
		}
	}
	return false
}

func (g *fileGenerator) conditionDeclarations(data *ast.IfStatementData, indent string) string {
	var builder strings.Builder
	for _, condition := range data.Conditions {
		if declaration, ok := condition.(*ast.ConditionDeclaration); ok {
			binding := declaration.Data
			if binding.TypeName != "" && !ast.IsOptionalType(binding.TypeName) {
				binding.TypeName += "?"
			}
			builder.WriteString(g.variable(binding, indent))
		}
	}
	return builder.String()
}

func (g *fileGenerator) condition(data *ast.IfStatementData, indent string) string {
	parts := make([]string, 0, len(data.Conditions))
	for _, condition := range data.Conditions {
		switch c := condition.(type) {
		case *ast.ConditionDeclaration:
			if data.IsGuard {
				parts = append(parts, c.Data.Identifier+" == null")
			} else {
				parts = append(parts, c.Data.Identifier+" != null")
			}
		case *ast.ConditionExpression:
			text := g.expression(c.Expression, indent)
			if data.IsGuard {
				text = negate(c.Expression, text)
			}
			parts = append(parts, text)
		}
	}
	if data.IsGuard {
		return strings.Join(parts, " || ")
	}
	return strings.Join(parts, " && ")
}

func negate(expression ast.Expression, text string) string {
	switch expression.(type) {
	case *ast.DeclarationReferenceExpression, *ast.ParenthesesExpression, *ast.CallExpression,
		*ast.DotExpression, *ast.LiteralBoolExpression:
		return "!" + text
	}
	return "!(" + text + ")"
}

// switchStatement renders a when. A case with a single one-line statement
// keeps it after the arrow; a case that only breaks gets an empty block.
func (g *fileGenerator) switchStatement(s *ast.SwitchStatement, indent string) string {
	var builder strings.Builder
	subject := g.expression(s.Expression, indent)
	builder.WriteString(indent + "when (" + subject + ") {\n")
	inner := indent + g.indentUnit
	for _, switchCase := range s.Cases {
		var head string
		if switchCase.Expressions == nil {
			head = "else"
		} else {
			labels := make([]string, 0, len(switchCase.Expressions))
			for _, expression := range switchCase.Expressions {
				labels = append(labels, g.caseLabel(expression, inner))
			}
			head = strings.Join(labels, ", ")
		}

		statements := switchCase.Statements
		if n := len(statements); n > 0 {
			if _, ok := statements[n-1].(*ast.BreakStatement); ok {
				statements = statements[:n-1]
			}
		}
		switch {
		case len(statements) == 0:
			builder.WriteString(inner + head + " -> {}\n")
		case len(statements) == 1 && isSimple(statements[0]):
			body := strings.TrimPrefix(g.statement(statements[0], nil, inner), inner)
			if strings.Count(body, "\n") == 1 {
				builder.WriteString(inner + head + " -> " + body)
				continue
			}
			fallthrough
		default:
			builder.WriteString(inner + head + " -> {\n")
			builder.WriteString(g.statements(statements, inner+g.indentUnit))
			builder.WriteString(inner + "}\n")
		}
	}
	builder.WriteString(indent + "}\n")
	return builder.String()
}

func isSimple(statement ast.Statement) bool {
	switch statement.(type) {
	case *ast.ExpressionStatement, *ast.AssignmentStatement, *ast.ReturnStatement,
		*ast.ThrowStatement, *ast.BreakStatement, *ast.ContinueStatement:
		return true
	}
	return false
}

// caseLabel renders one value of a case: a type test, an enum constant, a
// range membership or a plain value.
func (g *fileGenerator) caseLabel(expression ast.Expression, indent string) string {
	binary, ok := expression.(*ast.BinaryOperatorExpression)
	if !ok {
		return g.expression(expression, indent)
	}
	switch binary.OperatorSymbol {
	case "is":
		if typeExpression, ok := binary.RightExpression.(*ast.TypeExpression); ok {
			if constant, ok := g.enumConstant(typeExpression.TypeName); ok {
				return constant
			}
			return "is " + g.typeName(typeExpression.TypeName)
		}
	case "...", "..<":
		return "in " + g.expression(binary, indent)
	}
	return g.expression(expression, indent)
}
