package codegen

import (
	"strings"
	"unicode"

	"github.com/spicery/swift2kt/pkg/ast"
)

// typeName maps a source type name to its Kotlin spelling.
func (g *fileGenerator) typeName(swift string) string {
	swift = strings.TrimSpace(swift)
	swift = strings.TrimPrefix(swift, "inout ")
	swift = strings.TrimPrefix(swift, "@escaping ")
	if swift == "" {
		return ""
	}
	if mapped, ok := g.registry.TypeMapping(swift); ok {
		return mapped
	}

	switch {
	case strings.HasSuffix(swift, "?"), strings.HasSuffix(swift, "!"):
		return g.typeName(swift[:len(swift)-1]) + "?"
	case strings.HasSuffix(swift, "..."):
		return g.typeName(strings.TrimSuffix(swift, "..."))
	}

	if components := arrowComponents(swift); len(components) > 1 {
		parameters := strings.TrimSpace(strings.TrimSuffix(components[0], " throws"))
		parameters = ast.StripOuterParentheses(parameters)
		var mapped []string
		if strings.TrimSpace(parameters) != "" {
			for _, parameter := range ast.SplitTopLevel(parameters, ',') {
				mapped = append(mapped, g.typeName(parameter))
			}
		}
		result := g.typeName(strings.Join(components[1:], " -> "))
		return "(" + strings.Join(mapped, ", ") + ") -> " + result
	}

	if strings.HasPrefix(swift, "[") && strings.HasSuffix(swift, "]") {
		parts := ast.SplitTopLevel(swift[1:len(swift)-1], ':')
		if len(parts) == 2 {
			return "MutableMap<" + g.typeName(parts[0]) + ", " + g.typeName(parts[1]) + ">"
		}
		return "MutableList<" + g.typeName(parts[0]) + ">"
	}

	if strings.HasPrefix(swift, "(") {
		inner := ast.StripOuterParentheses(swift)
		if inner != swift {
			elements := ast.SplitTopLevel(inner, ',')
			switch {
			case strings.TrimSpace(inner) == "":
				return "Unit"
			case len(elements) == 1:
				return g.typeName(inner)
			case len(elements) == 2:
				return "Pair<" + g.tupleElementType(elements[0]) + ", " + g.tupleElementType(elements[1]) + ">"
			case len(elements) == 3:
				return "Triple<" + g.tupleElementType(elements[0]) + ", " +
					g.tupleElementType(elements[1]) + ", " + g.tupleElementType(elements[2]) + ">"
			}
		}
	}

	if open := strings.Index(swift, "<"); open > 0 && strings.HasSuffix(swift, ">") {
		base := g.typeName(swift[:open])
		var arguments []string
		for _, argument := range ast.SplitTopLevel(swift[open+1:len(swift)-1], ',') {
			arguments = append(arguments, g.typeName(argument))
		}
		return base + "<" + strings.Join(arguments, ", ") + ">"
	}

	if dot := strings.LastIndex(swift, "."); dot > 0 {
		owner := swift[:dot]
		if g.registry.IsSealedClass(owner) {
			return g.typeName(owner) + "." + capitalize(swift[dot+1:])
		}
	}
	return swift
}

// tupleElementType drops the label of a "name: Type" tuple element.
func (g *fileGenerator) tupleElementType(element string) string {
	parts := ast.SplitTopLevel(element, ':')
	return g.typeName(parts[len(parts)-1])
}

// arrowComponents splits a function type at its top-level arrows.
func arrowComponents(typeName string) []string {
	var components []string
	level := 0
	start := 0
	for i := 0; i < len(typeName); i++ {
		switch typeName[i] {
		case '(', '[', '<':
			level++
		case ')', ']':
			level--
		case '>':
			if i > 0 && typeName[i-1] == '-' {
				if level == 0 {
					components = append(components, strings.TrimSpace(typeName[start:i-1]))
					start = i + 1
				}
				continue
			}
			level--
		}
	}
	return append(components, strings.TrimSpace(typeName[start:]))
}

func isVoid(typeName string) bool {
	switch strings.TrimSpace(typeName) {
	case "", "()", "Void", "Unit":
		return true
	}
	return false
}

// functionPrefix returns "foo" for "foo(x:y:)".
func functionPrefix(name string) string {
	if i := strings.Index(name, "("); i > 0 {
		return name[:i]
	}
	return name
}

// argumentLabels returns ["x", "_"] for "foo(x:_:)".
func argumentLabels(name string) []string {
	open := strings.Index(name, "(")
	if open < 0 || !strings.HasSuffix(name, ")") {
		return nil
	}
	inside := strings.TrimSuffix(name[open+1:len(name)-1], ":")
	if inside == "" {
		return nil
	}
	return strings.Split(inside, ":")
}

func capitalize(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return name
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// constantName returns "SOME_CASE" for "someCase".
func constantName(name string) string {
	var builder strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
			builder.WriteByte('_')
		}
		builder.WriteRune(unicode.ToUpper(r))
	}
	return builder.String()
}

// enumConstant renders "Direction.north" as "Direction.NORTH" when Direction
// is an enum class.
func (g *fileGenerator) enumConstant(qualified string) (string, bool) {
	dot := strings.LastIndex(qualified, ".")
	if dot <= 0 {
		return "", false
	}
	owner := qualified[:dot]
	if !g.registry.IsEnumClass(owner) {
		return "", false
	}
	return g.typeName(owner) + "." + constantName(functionPrefix(qualified[dot+1:])), true
}
