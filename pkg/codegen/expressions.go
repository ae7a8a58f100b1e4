package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/registry"
)

func (g *fileGenerator) expression(expression ast.Expression, indent string) string {
	if text, ok := g.applyTemplate(expression, indent); ok {
		return text
	}

	switch e := expression.(type) {
	case *ast.LiteralCodeExpression:
		return e.String
	case *ast.LiteralDeclarationExpression:
		return e.String
	case *ast.TemplateExpression:
		return g.template(e.Pattern, e.Matches, indent)
	case *ast.ParenthesesExpression:
		return "(" + g.expression(e.Expression, indent) + ")"
	case *ast.ForceValueExpression:
		return g.expression(e.Expression, indent) + "!!"
	case *ast.OptionalExpression:
		return g.expression(e.Expression, indent) + "?"
	case *ast.DeclarationReferenceExpression:
		return functionPrefix(e.Identifier)
	case *ast.TypeExpression:
		return g.typeName(e.TypeName)
	case *ast.SubscriptExpression:
		return g.expression(e.SubscriptedExpression, indent) + "[" + g.subscriptIndex(e.IndexExpression, indent) + "]"
	case *ast.ArrayExpression:
		return g.array(e, indent)
	case *ast.DictionaryExpression:
		return g.dictionary(e, indent)
	case *ast.DotExpression:
		return g.dot(e, false, indent)
	case *ast.BinaryOperatorExpression:
		return g.binary(e, indent)
	case *ast.PrefixUnaryExpression:
		return e.OperatorSymbol + g.expression(e.SubExpression, indent)
	case *ast.PostfixUnaryExpression:
		return g.expression(e.SubExpression, indent) + e.OperatorSymbol
	case *ast.IfExpression:
		return "if (" + g.expression(e.Condition, indent) + ") " + g.expression(e.TrueExpression, indent) +
			" else " + g.expression(e.FalseExpression, indent)
	case *ast.CallExpression:
		return g.call(e, indent)
	case *ast.ClosureExpression:
		return g.closure(e, indent)
	case *ast.LiteralIntExpression:
		return strconv.FormatInt(e.Value, 10)
	case *ast.LiteralUIntExpression:
		return strconv.FormatUint(e.Value, 10) + g.registry.LiteralSuffix("uint")
	case *ast.LiteralDoubleExpression:
		return ast.FormatDouble(e.Value)
	case *ast.LiteralFloatExpression:
		return ast.FormatFloat(e.Value) + g.registry.LiteralSuffix("float")
	case *ast.LiteralBoolExpression:
		return strconv.FormatBool(e.Value)
	case *ast.LiteralStringExpression:
		return `"` + escapeDollars(e.Value) + `"`
	case *ast.LiteralCharacterExpression:
		return "'" + e.Value + "'"
	case *ast.NilLiteralExpression:
		return "null"
	case *ast.InterpolatedStringLiteralExpression:
		return g.interpolation(e, indent)
	case *ast.TupleExpression:
		return g.tuple(e, indent)
	case *ast.TupleShuffleExpression:
		return strings.Join(g.arguments(e, nil, indent), ", ")
	case *ast.ErrorExpression:
		return errorText
	}
	g.report(expression, fmt.Sprintf("cannot generate code for %s", expression.TreeDescription()))
	return errorText
}

const errorText = "<<Error>>"

// applyTemplate renders expression through the first recorded template that
// matches it.
func (g *fileGenerator) applyTemplate(expression ast.Expression, indent string) (string, bool) {
	switch expression.(type) {
	case *ast.CallExpression, *ast.DotExpression, *ast.DeclarationReferenceExpression,
		*ast.BinaryOperatorExpression, *ast.SubscriptExpression, *ast.PrefixUnaryExpression:
	default:
		return "", false
	}
	for _, template := range g.registry.Templates() {
		if reference, ok := template.Expression.(*ast.DeclarationReferenceExpression); ok && ast.IsPlaceholder(reference.Identifier) {
			continue
		}
		matches, ok := ast.Match(template.Expression, expression)
		if !ok {
			continue
		}
		return g.template(template.String, matches, indent), true
	}
	return "", false
}

// template replaces each placeholder in pattern by the rendering of its
// match. Longer placeholders are replaced first so "_ab" is not mistaken
// for "_a".
func (g *fileGenerator) template(pattern string, matches map[string]ast.Expression, indent string) string {
	keys := make([]string, 0, len(matches))
	for key := range matches {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, key, g.expression(matches[key], indent))
	}
	return strings.NewReplacer(pairs...).Replace(pattern)
}

func (g *fileGenerator) subscriptIndex(index ast.Expression, indent string) string {
	switch e := index.(type) {
	case *ast.TupleExpression:
		return strings.Join(g.arguments(e, nil, indent), ", ")
	case *ast.ParenthesesExpression:
		return g.expression(e.Expression, indent)
	}
	return g.expression(index, indent)
}

func (g *fileGenerator) array(e *ast.ArrayExpression, indent string) string {
	if len(e.Elements) == 0 {
		return "mutableListOf<" + g.elementType(e.TypeName) + ">()"
	}
	elements := make([]string, 0, len(e.Elements))
	for _, element := range e.Elements {
		elements = append(elements, g.expression(element, indent))
	}
	return "mutableListOf(" + strings.Join(elements, ", ") + ")"
}

func (g *fileGenerator) dictionary(e *ast.DictionaryExpression, indent string) string {
	if len(e.Keys) == 0 {
		return "mutableMapOf<" + g.elementType(e.TypeName) + ">()"
	}
	entries := make([]string, 0, len(e.Keys))
	for i, key := range e.Keys {
		var value string
		if i < len(e.Values) {
			value = g.expression(e.Values[i], indent)
		}
		entries = append(entries, g.expression(key, indent)+" to "+value)
	}
	return "mutableMapOf(" + strings.Join(entries, ", ") + ")"
}

// elementType returns the type arguments of a collection type: "Int" for
// "[Int]" and "String, Int" for "[String : Int]".
func (g *fileGenerator) elementType(collection string) string {
	collection = strings.TrimSuffix(strings.TrimSpace(collection), "?")
	if !strings.HasPrefix(collection, "[") || !strings.HasSuffix(collection, "]") {
		return "Any"
	}
	parts := ast.SplitTopLevel(collection[1:len(collection)-1], ':')
	mapped := make([]string, 0, len(parts))
	for _, part := range parts {
		mapped = append(mapped, g.typeName(part))
	}
	return strings.Join(mapped, ", ")
}

// dot renders a member access. Cases of enum classes become constants and
// cases of sealed classes become subclass instances; a callee leaves the
// instantiation to its call.
func (g *fileGenerator) dot(e *ast.DotExpression, callee bool, indent string) string {
	if typeExpression, ok := e.LeftExpression.(*ast.TypeExpression); ok {
		if reference, ok := e.RightExpression.(*ast.DeclarationReferenceExpression); ok {
			member := functionPrefix(reference.Identifier)
			switch {
			case g.registry.IsEnumClass(typeExpression.TypeName):
				return g.typeName(typeExpression.TypeName) + "." + constantName(member)
			case g.registry.IsSealedClass(typeExpression.TypeName):
				text := g.typeName(typeExpression.TypeName) + "." + capitalize(member)
				if !callee {
					text += "()"
				}
				return text
			}
		}
	}
	return g.expression(e.LeftExpression, indent) + "." + g.expression(e.RightExpression, indent)
}

func (g *fileGenerator) binary(e *ast.BinaryOperatorExpression, indent string) string {
	left := g.expression(e.LeftExpression, indent)
	switch e.OperatorSymbol {
	case "...":
		return left + ".." + g.expression(e.RightExpression, indent)
	case "..<":
		return left + " until " + g.expression(e.RightExpression, indent)
	case "is", "as", "as?", "as!":
		operator := e.OperatorSymbol
		if operator == "as!" {
			operator = "as"
		}
		typeExpression, ok := e.RightExpression.(*ast.TypeExpression)
		if !ok {
			return left + " " + operator + " " + g.expression(e.RightExpression, indent)
		}
		if operator == "is" {
			if constant, ok := g.enumConstant(typeExpression.TypeName); ok {
				return left + " == " + constant
			}
		}
		return left + " " + operator + " " + g.typeName(typeExpression.TypeName)
	}
	return left + " " + e.OperatorSymbol + " " + g.expression(e.RightExpression, indent)
}

// call renders a call on one line when it fits, otherwise with one argument
// per line.
func (g *fileGenerator) call(e *ast.CallExpression, indent string) string {
	var function string
	var translation *registry.FunctionTranslation
	switch f := e.Function.(type) {
	case *ast.DeclarationReferenceExpression:
		if found, ok := g.registry.FunctionTranslation(f.Identifier, f.TypeName); ok {
			translation = &found
			function = found.Prefix
		} else {
			function = functionPrefix(f.Identifier)
		}
	case *ast.DotExpression:
		if reference, ok := f.RightExpression.(*ast.DeclarationReferenceExpression); ok {
			if found, ok := g.registry.FunctionTranslation(reference.Identifier, reference.TypeName); ok {
				translation = &found
				function = g.expression(f.LeftExpression, indent) + "." + found.Prefix
				break
			}
		}
		function = g.dot(f, true, indent)
	default:
		function = g.expression(e.Function, indent)
	}

	items, ok := g.labeledArguments(e.Parameters, translation)
	if !ok {
		return function + "(" + errorText + ")"
	}
	arguments := g.renderArguments(items, indent)
	single := function + "(" + strings.Join(arguments, ", ") + ")"
	if len(arguments) == 0 || g.fits(indent, single) {
		return single
	}
	inner := indent + g.indentUnit
	// Diagnostics from the arguments were recorded by the first rendering.
	g.quiet++
	arguments = g.renderArguments(items, inner)
	g.quiet--
	return function + "(\n" + inner + strings.Join(arguments, ",\n"+inner) + ")"
}

type argument struct {
	label      string
	expression ast.Expression
}

// arguments renders a call's argument list.
func (g *fileGenerator) arguments(parameters ast.Expression, translation *registry.FunctionTranslation, indent string) []string {
	items, ok := g.labeledArguments(parameters, translation)
	if !ok {
		return []string{errorText}
	}
	return g.renderArguments(items, indent)
}

// labeledArguments lists the arguments with their Kotlin labels. A
// translation renames labels: each call-site label is looked up among the
// translated function's source labels and replaced by the target label in
// the same position.
func (g *fileGenerator) labeledArguments(parameters ast.Expression, translation *registry.FunctionTranslation) ([]argument, bool) {
	items, ok := g.argumentItems(parameters)
	if !ok {
		return nil, false
	}

	var sourceLabels []string
	used := map[int]bool{}
	if translation != nil {
		sourceLabels = argumentLabels(translation.SwiftAPIName)
	}

	result := make([]argument, 0, len(items))
	for _, item := range items {
		label := item.label
		if translation != nil {
			wanted := label
			if wanted == "" {
				wanted = "_"
			}
			for i, source := range sourceLabels {
				if used[i] || source != wanted || i >= len(translation.Parameters) {
					continue
				}
				used[i] = true
				label = translation.Parameters[i]
				break
			}
		}
		result = append(result, argument{label: label, expression: item.expression})
	}
	return result, true
}

func (g *fileGenerator) renderArguments(items []argument, indent string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		text := g.expression(item.expression, indent)
		if item.label != "" && item.label != "_" {
			text = item.label + " = " + text
		}
		result = append(result, text)
	}
	return result
}

func (g *fileGenerator) argumentItems(parameters ast.Expression) ([]argument, bool) {
	switch p := parameters.(type) {
	case nil:
		return nil, true
	case *ast.TupleExpression:
		items := make([]argument, 0, len(p.Pairs))
		for _, pair := range p.Pairs {
			items = append(items, argument{label: pair.Label, expression: pair.Expression})
		}
		return items, true
	case *ast.TupleShuffleExpression:
		return g.shuffleItems(p)
	case *ast.ParenthesesExpression:
		return []argument{{expression: p.Expression}}, true
	}
	return []argument{{expression: parameters}}, true
}

// shuffleItems expands a tuple shuffle: present positions take the next
// expression and variadic ones the next Count, unlabeled.
func (g *fileGenerator) shuffleItems(p *ast.TupleShuffleExpression) ([]argument, bool) {
	if len(p.Labels) != len(p.Indices) {
		g.report(p, fmt.Sprintf("tuple shuffle has %d labels but %d indices", len(p.Labels), len(p.Indices)))
		return nil, false
	}
	var items []argument
	next := 0
	take := func(label string) bool {
		if next >= len(p.Expressions) {
			g.report(p, "tuple shuffle has fewer expressions than its indices require")
			return false
		}
		items = append(items, argument{label: label, expression: p.Expressions[next]})
		next++
		return true
	}
	for i, index := range p.Indices {
		switch index.Kind {
		case ast.IndexPresent:
			if !take(p.Labels[i]) {
				return nil, false
			}
		case ast.IndexVariadic:
			for k := 0; k < index.Count; k++ {
				if !take("") {
					return nil, false
				}
			}
		case ast.IndexAbsent:
			g.report(p, "tuple shuffle with an absent index")
			return nil, false
		}
	}
	return items, true
}

// tuple renders a tuple outside of a call as a Pair or Triple.
func (g *fileGenerator) tuple(e *ast.TupleExpression, indent string) string {
	elements := make([]string, 0, len(e.Pairs))
	for _, pair := range e.Pairs {
		elements = append(elements, g.expression(pair.Expression, indent))
	}
	switch len(elements) {
	case 0:
		return "Unit"
	case 1:
		return elements[0]
	case 2:
		return "Pair(" + strings.Join(elements, ", ") + ")"
	case 3:
		return "Triple(" + strings.Join(elements, ", ") + ")"
	}
	return "listOf(" + strings.Join(elements, ", ") + ")"
}

func (g *fileGenerator) interpolation(e *ast.InterpolatedStringLiteralExpression, indent string) string {
	var builder strings.Builder
	builder.WriteString(`"`)
	for _, expression := range e.Expressions {
		if literal, ok := expression.(*ast.LiteralStringExpression); ok {
			builder.WriteString(escapeDollars(literal.Value))
			continue
		}
		builder.WriteString("${")
		builder.WriteString(g.expression(expression, indent))
		builder.WriteString("}")
	}
	builder.WriteString(`"`)
	return builder.String()
}

func escapeDollars(text string) string {
	return strings.ReplaceAll(text, "$", `\$`)
}

// closure renders a lambda. A single expression body stays on one line and
// a final return becomes the lambda's value.
func (g *fileGenerator) closure(e *ast.ClosureExpression, indent string) string {
	var names []string
	for _, parameter := range e.Parameters {
		if parameter.Label == "it" {
			names = nil
			break
		}
		names = append(names, parameter.Label)
	}
	head := "{"
	if len(names) > 0 {
		head += " " + strings.Join(names, ", ") + " ->"
	}

	statements := e.Statements
	if n := len(statements); n > 0 {
		if last, ok := statements[n-1].(*ast.ReturnStatement); ok && last.Expression != nil {
			statements = append(append([]ast.Statement(nil), statements[:n-1]...),
				&ast.ExpressionStatement{Expression: last.Expression})
		}
	}
	if len(statements) == 1 {
		if single, ok := statements[0].(*ast.ExpressionStatement); ok {
			body := g.expression(single.Expression, indent)
			if !strings.Contains(body, "\n") {
				return head + " " + body + " }"
			}
		}
	}
	if len(statements) == 0 {
		return head + " }"
	}
	return head + "\n" + g.statements(statements, indent+g.indentUnit) + indent + "}"
}
