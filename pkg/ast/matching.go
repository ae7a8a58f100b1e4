package ast

import "strings"

// IsPlaceholder reports whether an identifier in a template expression
// stands for any expression.
func IsPlaceholder(identifier string) bool {
	return len(identifier) > 1 && identifier[0] == '_'
}

// Match compares a template expression with an expression. Placeholders in
// the template bind the subexpressions they cover; parentheses are ignored
// on both sides. The bindings are returned keyed by placeholder name.
func Match(template Expression, expression Expression) (map[string]Expression, bool) {
	matches := map[string]Expression{}
	if !match(template, expression, matches) {
		return nil, false
	}
	return matches, true
}

func stripParentheses(expression Expression) Expression {
	for {
		p, ok := expression.(*ParenthesesExpression)
		if !ok {
			return expression
		}
		expression = p.Expression
	}
}

func match(template Expression, expression Expression, matches map[string]Expression) bool {
	template = stripParentheses(template)
	expression = stripParentheses(expression)
	if template == nil || expression == nil {
		return template == nil && expression == nil
	}

	if reference, ok := template.(*DeclarationReferenceExpression); ok && IsPlaceholder(reference.Identifier) {
		if !TypesMatch(reference.TypeName, TypeOf(expression)) {
			return false
		}
		if previous, bound := matches[reference.Identifier]; bound {
			return match(previous, expression, map[string]Expression{})
		}
		matches[reference.Identifier] = expression
		return true
	}

	switch t := template.(type) {
	case *DeclarationReferenceExpression:
		e, ok := expression.(*DeclarationReferenceExpression)
		return ok && t.Identifier == e.Identifier
	case *TypeExpression:
		e, ok := expression.(*TypeExpression)
		return ok && t.TypeName == e.TypeName
	case *DotExpression:
		e, ok := expression.(*DotExpression)
		return ok && match(t.LeftExpression, e.LeftExpression, matches) &&
			match(t.RightExpression, e.RightExpression, matches)
	case *CallExpression:
		e, ok := expression.(*CallExpression)
		return ok && match(t.Function, e.Function, matches) &&
			match(t.Parameters, e.Parameters, matches)
	case *TupleExpression:
		e, ok := expression.(*TupleExpression)
		if !ok || len(t.Pairs) != len(e.Pairs) {
			return false
		}
		for i := range t.Pairs {
			if t.Pairs[i].Label != e.Pairs[i].Label || !match(t.Pairs[i].Expression, e.Pairs[i].Expression, matches) {
				return false
			}
		}
		return true
	case *TupleShuffleExpression:
		e, ok := expression.(*TupleShuffleExpression)
		if !ok || !equalStrings(t.Labels, e.Labels) || len(t.Indices) != len(e.Indices) {
			return false
		}
		for i := range t.Indices {
			if t.Indices[i] != e.Indices[i] {
				return false
			}
		}
		return matchAll(t.Expressions, e.Expressions, matches)
	case *BinaryOperatorExpression:
		e, ok := expression.(*BinaryOperatorExpression)
		return ok && t.OperatorSymbol == e.OperatorSymbol &&
			match(t.LeftExpression, e.LeftExpression, matches) &&
			match(t.RightExpression, e.RightExpression, matches)
	case *PrefixUnaryExpression:
		e, ok := expression.(*PrefixUnaryExpression)
		return ok && t.OperatorSymbol == e.OperatorSymbol && match(t.SubExpression, e.SubExpression, matches)
	case *PostfixUnaryExpression:
		e, ok := expression.(*PostfixUnaryExpression)
		return ok && t.OperatorSymbol == e.OperatorSymbol && match(t.SubExpression, e.SubExpression, matches)
	case *SubscriptExpression:
		e, ok := expression.(*SubscriptExpression)
		return ok && match(t.SubscriptedExpression, e.SubscriptedExpression, matches) &&
			match(t.IndexExpression, e.IndexExpression, matches)
	case *ForceValueExpression:
		e, ok := expression.(*ForceValueExpression)
		return ok && match(t.Expression, e.Expression, matches)
	case *OptionalExpression:
		e, ok := expression.(*OptionalExpression)
		return ok && match(t.Expression, e.Expression, matches)
	case *ArrayExpression:
		e, ok := expression.(*ArrayExpression)
		return ok && matchAll(t.Elements, e.Elements, matches)
	case *LiteralIntExpression:
		e, ok := expression.(*LiteralIntExpression)
		return ok && t.Value == e.Value
	case *LiteralUIntExpression:
		e, ok := expression.(*LiteralUIntExpression)
		return ok && t.Value == e.Value
	case *LiteralDoubleExpression:
		e, ok := expression.(*LiteralDoubleExpression)
		return ok && t.Value == e.Value
	case *LiteralFloatExpression:
		e, ok := expression.(*LiteralFloatExpression)
		return ok && t.Value == e.Value
	case *LiteralBoolExpression:
		e, ok := expression.(*LiteralBoolExpression)
		return ok && t.Value == e.Value
	case *LiteralStringExpression:
		e, ok := expression.(*LiteralStringExpression)
		return ok && t.Value == e.Value
	case *LiteralCharacterExpression:
		e, ok := expression.(*LiteralCharacterExpression)
		return ok && t.Value == e.Value
	case *NilLiteralExpression:
		_, ok := expression.(*NilLiteralExpression)
		return ok
	}
	return false
}

func matchAll(templates []Expression, expressions []Expression, matches map[string]Expression) bool {
	if len(templates) != len(expressions) {
		return false
	}
	for i := range templates {
		if !match(templates[i], expressions[i], matches) {
			return false
		}
	}
	return true
}

func equalStrings(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TypesMatch reports whether an expression of type actual may stand in for
// a placeholder declared with type expected. Unknown types match anything,
// "Any" matches every type and optionality is ignored.
func TypesMatch(expected string, actual string) bool {
	expected = strings.TrimSuffix(strings.TrimSpace(expected), "?")
	actual = strings.TrimSuffix(strings.TrimSpace(actual), "?")
	if expected == "" || actual == "" || expected == "Any" || expected == actual {
		return true
	}
	if isBracketed(expected) && isBracketed(actual) {
		expectedParts := SplitTopLevel(expected[1:len(expected)-1], ':')
		actualParts := SplitTopLevel(actual[1:len(actual)-1], ':')
		if len(expectedParts) != len(actualParts) {
			return false
		}
		for i := range expectedParts {
			if !TypesMatch(expectedParts[i], actualParts[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func isBracketed(typeName string) bool {
	return strings.HasPrefix(typeName, "[") && strings.HasSuffix(typeName, "]")
}
