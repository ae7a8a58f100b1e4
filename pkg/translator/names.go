package translator

import (
	"strings"
	"unicode"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/common"
)

// cleanType drops the storage qualifiers the dump prints on types.
func cleanType(typeName string) string {
	for _, prefix := range []string{"@lvalue ", "inout ", "__owned ", "__shared ", "@escaping "} {
		typeName = strings.TrimPrefix(typeName, prefix)
	}
	return strings.TrimSpace(typeName)
}

// typeOf reads the node's type attribute, preferring "type" over
// "interface type".
func typeOf(node *common.Node) string {
	if value, ok := node.Value(common.KeyType); ok {
		return cleanType(value)
	}
	if value, ok := node.Value(common.KeyInterfaceType); ok {
		return cleanType(value)
	}
	return ""
}

func isOperatorCharacter(c byte) bool {
	return strings.IndexByte("/=-+!*%<>&|^~?.", c) >= 0
}

// declarationIdentifier extracts the referenced name from a decl attribute
// such as "main.(file).A.foo(x:)@/tmp/a.swift:3:7" or
// "Swift.(file).Int extension.+". Argument labels stay on function names.
func declarationIdentifier(decl string) string {
	if at := strings.Index(decl, "@"); at >= 0 {
		decl = decl[:at]
	}
	decl = strings.TrimSpace(decl)

	base, arguments := decl, ""
	if open := strings.LastIndex(decl, "("); open > 0 && isArgumentList(decl[open:]) {
		base, arguments = decl[:open], decl[open:]
	}

	i := len(base)
	for i > 0 && isOperatorCharacter(base[i-1]) {
		i--
	}
	if suffix := base[i:]; suffix != "" && suffix != "." {
		if strings.HasPrefix(suffix, ".") && len(suffix) > 1 {
			suffix = suffix[1:]
		}
		return suffix + arguments
	}

	components := ast.SplitTopLevel(base, '.')
	return strings.TrimSpace(components[len(components)-1]) + arguments
}

// isArgumentList matches "()", "(_:)" and "(x:y:)".
func isArgumentList(text string) bool {
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return false
	}
	inner := text[1 : len(text)-1]
	if inner == "" {
		return true
	}
	if !strings.HasSuffix(inner, ":") {
		return false
	}
	for _, c := range inner {
		if c != ':' && c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

// isStandardLibrary reports whether a decl attribute names a Swift
// standard library symbol.
func isStandardLibrary(decl string) bool {
	return strings.HasPrefix(decl, "Swift.")
}

// functionPrefix returns "foo" for "foo(x:y:)".
func functionPrefix(name string) string {
	if i := strings.Index(name, "("); i >= 0 {
		return name[:i]
	}
	return name
}

// argumentLabels returns ["x", "_"] for "foo(x:_:)" and nil for "foo".
func argumentLabels(name string) []string {
	open := strings.Index(name, "(")
	if open < 0 || !strings.HasSuffix(name, ")") {
		return nil
	}
	inside := name[open+1 : len(name)-1]
	if inside == "" {
		return nil
	}
	labels := strings.Split(strings.TrimSuffix(inside, ":"), ":")
	return labels
}

// operatorName returns the operator of a declaration identifier: "==" for
// "==(_:_:)" and "+" for "+".
func operatorName(identifier string) string {
	return functionPrefix(identifier)
}

// functionTypeComponents splits "(A) -> (B) -> C" at the top-level arrows.
// A leading generic clause is dropped.
func functionTypeComponents(typeName string) []string {
	typeName = strings.TrimSpace(typeName)
	if strings.HasPrefix(typeName, "<") {
		if end := closingAngle(typeName); end > 0 {
			typeName = strings.TrimSpace(typeName[end+1:])
		}
	}

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
				continue
			}
			level--
		case ' ':
			if level == 0 && strings.HasPrefix(typeName[i:], " -> ") {
				components = append(components, strings.TrimSpace(typeName[start:i]))
				start = i + len(" -> ")
				i = start - 1
			}
		}
	}
	return append(components, strings.TrimSpace(typeName[start:]))
}

// closingAngle returns the index of the '>' closing the generic clause
// that opens text, or -1.
func closingAngle(text string) int {
	level := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '<':
			level++
		case '>':
			level--
			if level == 0 {
				return i
			}
		}
	}
	return -1
}

// genericTypes returns ["T", "U"] for a type starting "<T, U where ...>".
func genericTypes(typeName string) []string {
	typeName = strings.TrimSpace(typeName)
	if !strings.HasPrefix(typeName, "<") {
		return nil
	}
	end := closingAngle(typeName)
	if end < 0 {
		return nil
	}
	clause := typeName[1:end]
	if where := strings.Index(clause, " where "); where >= 0 {
		clause = clause[:where]
	}
	var result []string
	for _, name := range ast.SplitTopLevel(clause, ',') {
		name, _, _ = strings.Cut(strings.TrimSpace(name), ":")
		if name = strings.TrimSpace(name); name != "" {
			result = append(result, name)
		}
	}
	return result
}

// returnType is the last component of a function type.
func returnType(functionType string) string {
	components := functionTypeComponents(functionType)
	return components[len(components)-1]
}

// tupleElements splits "(x: Int, String)" into its element strings.
func tupleElements(typeName string) []string {
	inner := strings.TrimSpace(ast.StripOuterParentheses(strings.TrimSpace(typeName)))
	if inner == "" {
		return nil
	}
	parts := ast.SplitTopLevel(inner, ',')
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// labeledElement splits "x: Int" into its label and type. Unlabeled
// elements return an empty label.
func labeledElement(element string) (string, string) {
	parts := ast.SplitTopLevel(element, ':')
	if len(parts) < 2 {
		return "", strings.TrimSpace(element)
	}
	label := strings.TrimSpace(parts[0])
	if strings.ContainsAny(label, " <>[]()") {
		return "", strings.TrimSpace(element)
	}
	if label == "_" {
		label = ""
	}
	return label, strings.TrimSpace(strings.Join(parts[1:], ":"))
}

// inheritanceList splits the decoder's "inherits" attribute.
func inheritanceList(node *common.Node) []string {
	value, ok := node.Value(common.KeyInherits)
	if !ok || value == "" {
		return nil
	}
	var result []string
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			result = append(result, name)
		}
	}
	return result
}

// leadingFlags are the standalone attributes the dump prints before a
// declaration's name.
var leadingFlags = map[string]bool{
	common.ValueImplicit: true,
	"trailing_semi":      true,
}

// nameOf returns the declared name: the first standalone attribute that is
// not a leading flag.
func nameOf(node *common.Node) string {
	for _, attribute := range node.StandaloneAttributes {
		if !leadingFlags[attribute] {
			return attribute
		}
	}
	return ""
}
