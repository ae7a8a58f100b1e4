package passes

import (
	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/common"
)

// Path is the chain of ancestors of the node being replaced, nearest first.
type Path struct {
	Parent common.PrintableTree
	Others *Path
}

func (p *Path) push(node common.PrintableTree) *Path {
	return &Path{Parent: node, Others: p}
}

// Immediate returns the nearest ancestor, or nil at the root.
func (p *Path) Immediate() common.PrintableTree {
	if p == nil {
		return nil
	}
	return p.Parent
}

// EnclosingTypes returns the names of the type declarations around the
// current node, innermost first.
func (p *Path) EnclosingTypes() []string {
	var names []string
	for q := p; q != nil; q = q.Others {
		switch node := q.Parent.(type) {
		case *ast.ClassDeclaration:
			names = append(names, node.ClassName)
		case *ast.StructDeclaration:
			names = append(names, node.StructName)
		case *ast.EnumDeclaration:
			names = append(names, node.EnumName)
		case *ast.ProtocolDeclaration:
			names = append(names, node.ProtocolName)
		}
	}
	return names
}

// Replacer rebuilds a tree, giving its hooks the first say on every
// statement and expression. A hook returns false to fall back on the
// structural recursion, which copies the node and replaces its children.
// The input tree is never modified, so hooks must copy before changing a
// node they were given.
type Replacer struct {
	OnStatement  func(r *Replacer, statement ast.Statement, path *Path) ([]ast.Statement, bool)
	OnExpression func(r *Replacer, expression ast.Expression, path *Path) (ast.Expression, bool)
	// AfterStatements sees every rebuilt statement list.
	AfterStatements func(r *Replacer, statements []ast.Statement, path *Path) []ast.Statement
}

func (r *Replacer) ReplaceModule(module *ast.Module) *ast.Module {
	result := *module
	path := (*Path)(nil).push(module)
	result.Declarations = r.ReplaceStatements(module.Declarations, path)
	result.Statements = r.ReplaceStatements(module.Statements, path)
	return &result
}

// ReplaceStatements keeps nil lists nil, since a nil body means a
// declaration without one.
func (r *Replacer) ReplaceStatements(statements []ast.Statement, path *Path) []ast.Statement {
	if statements == nil {
		return nil
	}
	result := make([]ast.Statement, 0, len(statements))
	for _, statement := range statements {
		result = append(result, r.ReplaceStatement(statement, path)...)
	}
	if r.AfterStatements != nil {
		result = r.AfterStatements(r, result, path)
	}
	return result
}

// ReplaceStatement may return no statements, deleting the input, or
// several.
func (r *Replacer) ReplaceStatement(statement ast.Statement, path *Path) []ast.Statement {
	if statement == nil {
		return nil
	}
	if r.OnStatement != nil {
		if result, ok := r.OnStatement(r, statement, path); ok {
			return result
		}
	}
	return r.DefaultStatement(statement, path)
}

func (r *Replacer) ReplaceExpression(expression ast.Expression, path *Path) ast.Expression {
	if expression == nil {
		return nil
	}
	if r.OnExpression != nil {
		if result, ok := r.OnExpression(r, expression, path); ok {
			return result
		}
	}
	return r.DefaultExpression(expression, path)
}

func (r *Replacer) replaceExpressions(expressions []ast.Expression, path *Path) []ast.Expression {
	if expressions == nil {
		return nil
	}
	result := make([]ast.Expression, 0, len(expressions))
	for _, expression := range expressions {
		result = append(result, r.ReplaceExpression(expression, path))
	}
	return result
}

// DefaultStatement copies the statement with its children replaced.
func (r *Replacer) DefaultStatement(statement ast.Statement, path *Path) []ast.Statement {
	inner := path.push(statement)
	switch s := statement.(type) {
	case *ast.ClassDeclaration:
		c := *s
		c.Members = r.ReplaceStatements(s.Members, inner)
		return []ast.Statement{&c}
	case *ast.StructDeclaration:
		c := *s
		c.Members = r.ReplaceStatements(s.Members, inner)
		return []ast.Statement{&c}
	case *ast.CompanionObject:
		return []ast.Statement{&ast.CompanionObject{Members: r.ReplaceStatements(s.Members, inner)}}
	case *ast.ProtocolDeclaration:
		c := *s
		c.Members = r.ReplaceStatements(s.Members, inner)
		return []ast.Statement{&c}
	case *ast.EnumDeclaration:
		c := *s
		c.Elements = make([]*ast.EnumElement, 0, len(s.Elements))
		for _, element := range s.Elements {
			e := *element
			e.RawValue = r.ReplaceExpression(element.RawValue, inner)
			c.Elements = append(c.Elements, &e)
		}
		c.Members = r.ReplaceStatements(s.Members, inner)
		return []ast.Statement{&c}
	case *ast.FunctionDeclaration:
		return []ast.Statement{&ast.FunctionDeclaration{Data: r.ReplaceFunctionData(s.Data, inner)}}
	case *ast.VariableDeclaration:
		return []ast.Statement{&ast.VariableDeclaration{Data: r.ReplaceVariableData(s.Data, inner)}}
	case *ast.DoStatement:
		return []ast.Statement{&ast.DoStatement{Statements: r.ReplaceStatements(s.Statements, inner)}}
	case *ast.CatchStatement:
		c := &ast.CatchStatement{Statements: r.ReplaceStatements(s.Statements, inner)}
		if s.Variable != nil {
			variable := r.ReplaceVariableData(*s.Variable, inner)
			c.Variable = &variable
		}
		return []ast.Statement{c}
	case *ast.ForEachStatement:
		return []ast.Statement{&ast.ForEachStatement{
			Collection: r.ReplaceExpression(s.Collection, inner),
			Variable:   r.ReplaceExpression(s.Variable, inner),
			Statements: r.ReplaceStatements(s.Statements, inner),
		}}
	case *ast.WhileStatement:
		return []ast.Statement{&ast.WhileStatement{
			Expression: r.ReplaceExpression(s.Expression, inner),
			Statements: r.ReplaceStatements(s.Statements, inner),
		}}
	case *ast.IfStatement:
		return []ast.Statement{&ast.IfStatement{Data: *r.ReplaceIfData(&s.Data, inner)}}
	case *ast.SwitchStatement:
		c := &ast.SwitchStatement{
			Expression: r.ReplaceExpression(s.Expression, inner),
			Cases:      make([]ast.SwitchCase, 0, len(s.Cases)),
		}
		for _, switchCase := range s.Cases {
			c.Cases = append(c.Cases, ast.SwitchCase{
				Expressions: r.replaceExpressions(switchCase.Expressions, inner),
				Statements:  r.ReplaceStatements(switchCase.Statements, inner),
			})
		}
		return []ast.Statement{c}
	case *ast.DeferStatement:
		return []ast.Statement{&ast.DeferStatement{Statements: r.ReplaceStatements(s.Statements, inner)}}
	case *ast.ThrowStatement:
		return []ast.Statement{&ast.ThrowStatement{Expression: r.ReplaceExpression(s.Expression, inner)}}
	case *ast.ReturnStatement:
		return []ast.Statement{&ast.ReturnStatement{Expression: r.ReplaceExpression(s.Expression, inner)}}
	case *ast.AssignmentStatement:
		return []ast.Statement{&ast.AssignmentStatement{
			LeftHand:  r.ReplaceExpression(s.LeftHand, inner),
			RightHand: r.ReplaceExpression(s.RightHand, inner),
		}}
	case *ast.ExpressionStatement:
		return []ast.Statement{&ast.ExpressionStatement{Expression: r.ReplaceExpression(s.Expression, inner)}}
	default:
		// Imports, typealiases, break, continue and errors have no children.
		return []ast.Statement{statement}
	}
}

func (r *Replacer) ReplaceFunctionData(data ast.FunctionDeclarationData, path *Path) ast.FunctionDeclarationData {
	parameters := data.CopyParameters()
	for i := range parameters {
		parameters[i].Value = r.ReplaceExpression(parameters[i].Value, path)
	}
	data.Parameters = parameters
	data.Statements = r.ReplaceStatements(data.Statements, path)
	return data
}

func (r *Replacer) ReplaceVariableData(data ast.VariableDeclarationData, path *Path) ast.VariableDeclarationData {
	data.Expression = r.ReplaceExpression(data.Expression, path)
	var getter, setter *ast.FunctionDeclarationData
	if data.Getter != nil {
		g := r.ReplaceFunctionData(*data.Getter, path)
		getter = &g
	}
	if data.Setter != nil {
		s := r.ReplaceFunctionData(*data.Setter, path)
		setter = &s
	}
	return data.WithAccessors(getter, setter)
}

func (r *Replacer) ReplaceIfData(data *ast.IfStatementData, path *Path) *ast.IfStatementData {
	result := &ast.IfStatementData{IsGuard: data.IsGuard}
	if data.Conditions != nil {
		result.Conditions = make([]ast.IfCondition, 0, len(data.Conditions))
	}
	for _, condition := range data.Conditions {
		switch c := condition.(type) {
		case *ast.ConditionExpression:
			result.Conditions = append(result.Conditions, &ast.ConditionExpression{
				Expression: r.ReplaceExpression(c.Expression, path.push(c)),
			})
		case *ast.ConditionDeclaration:
			result.Conditions = append(result.Conditions, &ast.ConditionDeclaration{
				Data: r.ReplaceVariableData(c.Data, path.push(c)),
			})
		}
	}
	for _, declaration := range data.Declarations {
		result.Declarations = append(result.Declarations, r.ReplaceVariableData(declaration, path))
	}
	result.Statements = r.ReplaceStatements(data.Statements, path)
	if data.ElseStatement != nil {
		result.ElseStatement = r.ReplaceIfData(data.ElseStatement, path)
	}
	return result
}

// DefaultExpression copies the expression with its children replaced.
func (r *Replacer) DefaultExpression(expression ast.Expression, path *Path) ast.Expression {
	inner := path.push(expression)
	switch e := expression.(type) {
	case *ast.TemplateExpression:
		matches := make(map[string]ast.Expression, len(e.Matches))
		for key, match := range e.Matches {
			matches[key] = r.ReplaceExpression(match, inner)
		}
		return &ast.TemplateExpression{Pattern: e.Pattern, Matches: matches}
	case *ast.ParenthesesExpression:
		return &ast.ParenthesesExpression{Expression: r.ReplaceExpression(e.Expression, inner)}
	case *ast.ForceValueExpression:
		return &ast.ForceValueExpression{Expression: r.ReplaceExpression(e.Expression, inner)}
	case *ast.OptionalExpression:
		return &ast.OptionalExpression{Expression: r.ReplaceExpression(e.Expression, inner)}
	case *ast.SubscriptExpression:
		return &ast.SubscriptExpression{
			SubscriptedExpression: r.ReplaceExpression(e.SubscriptedExpression, inner),
			IndexExpression:       r.ReplaceExpression(e.IndexExpression, inner),
			TypeName:              e.TypeName,
		}
	case *ast.ArrayExpression:
		return &ast.ArrayExpression{Elements: r.replaceExpressions(e.Elements, inner), TypeName: e.TypeName}
	case *ast.DictionaryExpression:
		return &ast.DictionaryExpression{
			Keys:     r.replaceExpressions(e.Keys, inner),
			Values:   r.replaceExpressions(e.Values, inner),
			TypeName: e.TypeName,
		}
	case *ast.DotExpression:
		return &ast.DotExpression{
			LeftExpression:  r.ReplaceExpression(e.LeftExpression, inner),
			RightExpression: r.ReplaceExpression(e.RightExpression, inner),
		}
	case *ast.BinaryOperatorExpression:
		c := *e
		c.LeftExpression = r.ReplaceExpression(e.LeftExpression, inner)
		c.RightExpression = r.ReplaceExpression(e.RightExpression, inner)
		return &c
	case *ast.PrefixUnaryExpression:
		c := *e
		c.SubExpression = r.ReplaceExpression(e.SubExpression, inner)
		return &c
	case *ast.PostfixUnaryExpression:
		c := *e
		c.SubExpression = r.ReplaceExpression(e.SubExpression, inner)
		return &c
	case *ast.IfExpression:
		return &ast.IfExpression{
			Condition:       r.ReplaceExpression(e.Condition, inner),
			TrueExpression:  r.ReplaceExpression(e.TrueExpression, inner),
			FalseExpression: r.ReplaceExpression(e.FalseExpression, inner),
		}
	case *ast.CallExpression:
		c := *e
		c.Function = r.ReplaceExpression(e.Function, inner)
		c.Parameters = r.ReplaceExpression(e.Parameters, inner)
		return &c
	case *ast.ClosureExpression:
		c := *e
		c.Parameters = append([]ast.LabeledType(nil), e.Parameters...)
		c.Statements = r.ReplaceStatements(e.Statements, inner)
		return &c
	case *ast.InterpolatedStringLiteralExpression:
		return &ast.InterpolatedStringLiteralExpression{Expressions: r.replaceExpressions(e.Expressions, inner)}
	case *ast.TupleExpression:
		pairs := make([]ast.LabeledExpression, 0, len(e.Pairs))
		for _, pair := range e.Pairs {
			pairs = append(pairs, ast.LabeledExpression{Label: pair.Label, Expression: r.ReplaceExpression(pair.Expression, inner)})
		}
		return &ast.TupleExpression{Pairs: pairs}
	case *ast.TupleShuffleExpression:
		return &ast.TupleShuffleExpression{
			Labels:      append([]string(nil), e.Labels...),
			Indices:     append([]ast.TupleShuffleIndex(nil), e.Indices...),
			Expressions: r.replaceExpressions(e.Expressions, inner),
		}
	default:
		// References, types, literals and error sentinels are leaves.
		return expression
	}
}
