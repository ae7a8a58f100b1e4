package ast

import "strings"

// TypeOf returns the source type name carried by an expression, or "" when
// the expression does not record one.
func TypeOf(expression Expression) string {
	switch e := expression.(type) {
	case *DeclarationReferenceExpression:
		return e.TypeName
	case *TypeExpression:
		return e.TypeName
	case *CallExpression:
		return e.TypeName
	case *BinaryOperatorExpression:
		return e.TypeName
	case *PrefixUnaryExpression:
		return e.TypeName
	case *PostfixUnaryExpression:
		return e.TypeName
	case *SubscriptExpression:
		return e.TypeName
	case *ArrayExpression:
		return e.TypeName
	case *DictionaryExpression:
		return e.TypeName
	case *ClosureExpression:
		return e.TypeName
	case *ParenthesesExpression:
		return TypeOf(e.Expression)
	case *ForceValueExpression:
		return strings.TrimSuffix(TypeOf(e.Expression), "?")
	case *OptionalExpression:
		return strings.TrimSuffix(TypeOf(e.Expression), "?")
	case *DotExpression:
		return TypeOf(e.RightExpression)
	case *IfExpression:
		return TypeOf(e.TrueExpression)
	case *LiteralIntExpression:
		return "Int"
	case *LiteralUIntExpression:
		return "UInt"
	case *LiteralDoubleExpression:
		return "Double"
	case *LiteralFloatExpression:
		return "Float"
	case *LiteralBoolExpression:
		return "Bool"
	case *LiteralStringExpression, *InterpolatedStringLiteralExpression:
		return "String"
	case *LiteralCharacterExpression:
		return "Character"
	default:
		return ""
	}
}

// SplitTopLevel splits text on sep wherever sep is not nested inside
// parentheses, brackets or angle brackets.
func SplitTopLevel(text string, sep byte) []string {
	var result []string
	level := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '<':
			level++
		case ')', ']', '>':
			if i > 0 && text[i] == '>' && text[i-1] == '-' {
				continue
			}
			level--
		case sep:
			if level == 0 {
				result = append(result, text[start:i])
				start = i + 1
			}
		}
	}
	return append(result, text[start:])
}

// StripOuterParentheses removes one pair of parentheses that encloses the
// whole text.
func StripOuterParentheses(text string) string {
	if len(text) < 2 || text[0] != '(' || text[len(text)-1] != ')' {
		return text
	}
	level := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			level++
		case ')':
			level--
			if level == 0 && i != len(text)-1 {
				return text
			}
		}
	}
	return text[1 : len(text)-1]
}

// IsOptionalType reports whether the type name ends in "?".
func IsOptionalType(typeName string) bool {
	return strings.HasSuffix(typeName, "?")
}
