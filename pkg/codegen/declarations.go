package codegen

import (
	"strings"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/passes"
)

func accessModifier(access string) string {
	switch access {
	case "private", "fileprivate":
		return "private "
	case "open":
		return "open "
	}
	return ""
}

func annotationsPrefix(annotations string) string {
	if annotations == "" {
		return ""
	}
	return annotations + " "
}

// variable renders a val or var. Accessors with bodies become get and set
// blocks; an extension variable is declared on the extended type.
func (g *fileGenerator) variable(data ast.VariableDeclarationData, indent string) string {
	keyword := "var"
	if data.IsLet || (data.Getter != nil && data.Setter == nil) {
		keyword = "val"
	}
	name := data.Identifier
	if data.ExtendsType != "" {
		name = g.typeName(data.ExtendsType) + "." + name
	}

	var builder strings.Builder
	builder.WriteString(indent + annotationsPrefix(data.Annotations) + keyword + " " + name)
	if data.TypeName != "" {
		builder.WriteString(": " + g.typeName(data.TypeName))
	}
	if data.Expression != nil {
		builder.WriteString(" = " + g.expression(data.Expression, indent))
	}
	builder.WriteString("\n")

	inner := indent + g.indentUnit
	if data.Getter != nil && data.Getter.Statements != nil {
		builder.WriteString(g.block("get()", data.Getter.Statements, inner))
	}
	if data.Setter != nil && data.Setter.Statements != nil {
		builder.WriteString(g.block("set(newValue)", data.Setter.Statements, inner))
	}
	return builder.String()
}

func (g *fileGenerator) parameter(parameter ast.FunctionParameter, indent string) string {
	var text string
	if strings.HasSuffix(parameter.TypeName, "...") {
		text = "vararg " + parameter.Label + ": " + g.typeName(parameter.TypeName)
	} else {
		text = parameter.Label + ": " + g.typeName(parameter.TypeName)
	}
	if parameter.Value != nil {
		text += " = " + g.expression(parameter.Value, indent)
	}
	return text
}

// function renders a function, an initializer as a constructor or a factory
// as an invoke operator. A declaration too long for one line gets one
// parameter per line.
func (g *fileGenerator) function(data ast.FunctionDeclarationData, indent string) string {
	var head strings.Builder
	head.WriteString(annotationsPrefix(data.Annotations))
	head.WriteString(accessModifier(data.Access))
	isConstructor := data.Prefix == "init"
	if isConstructor {
		head.WriteString("constructor")
	} else {
		if data.Prefix == passes.FactoryPrefix {
			head.WriteString("operator ")
		}
		head.WriteString("fun ")
		if len(data.GenericTypes) > 0 {
			head.WriteString("<" + strings.Join(data.GenericTypes, ", ") + "> ")
		}
		if data.ExtendsType != "" {
			head.WriteString(g.typeName(data.ExtendsType) + ".")
		}
		head.WriteString(data.Prefix)
	}

	var result string
	if !isConstructor && !isVoid(data.ReturnType) {
		result = ": " + g.typeName(data.ReturnType)
	}
	opening := ""
	if data.Statements != nil {
		opening = " {"
	}

	parameters := make([]string, 0, len(data.Parameters))
	for _, parameter := range data.Parameters {
		parameters = append(parameters, g.parameter(parameter, indent))
	}
	line := head.String() + "(" + strings.Join(parameters, ", ") + ")" + result + opening
	if len(parameters) > 0 && !g.fits(indent, line) {
		inner := indent + g.indentUnit
		line = head.String() + "(\n" + inner + strings.Join(parameters, ",\n"+inner) + "\n" +
			indent + ")" + result + opening
	}

	if data.Statements == nil {
		return indent + line + "\n"
	}
	return indent + line + "\n" + g.statements(data.Statements, indent+g.indentUnit) + indent + "}\n"
}

// inheritance renders the supertypes, calling the constructor of anything
// that is not an interface.
func (g *fileGenerator) inheritance(inherits []string) string {
	if len(inherits) == 0 {
		return ""
	}
	supertypes := make([]string, 0, len(inherits))
	for _, inherited := range inherits {
		if g.registry.IsProtocol(inherited) || g.registry.IsBuiltinProtocol(inherited) {
			supertypes = append(supertypes, g.typeName(inherited))
		} else {
			supertypes = append(supertypes, g.typeName(inherited)+"()")
		}
	}
	return ": " + strings.Join(supertypes, ", ")
}

func (g *fileGenerator) class(class *ast.ClassDeclaration, indent string) string {
	return g.block("open class "+class.ClassName+g.inheritance(class.Inherits), class.Members, indent)
}

// structure renders a data class whose constructor declares the stored
// properties; the remaining members go in its body.
func (g *fileGenerator) structure(structure *ast.StructDeclaration, indent string) string {
	var stored []ast.VariableDeclarationData
	var members []ast.Statement
	for _, member := range structure.Members {
		if variable, ok := member.(*ast.VariableDeclaration); ok && isStored(variable.Data) {
			stored = append(stored, variable.Data)
			continue
		}
		members = append(members, member)
	}

	head := annotationsPrefix(structure.Annotations)
	if len(stored) == 0 {
		return g.block(head+"class "+structure.StructName+g.inheritance(structure.Inherits), members, indent)
	}

	properties := make([]string, 0, len(stored))
	for _, property := range stored {
		keyword := "var"
		if property.IsLet {
			keyword = "val"
		}
		text := keyword + " " + property.Identifier + ": " + g.typeName(property.TypeName)
		if property.Expression != nil {
			text += " = " + g.expression(property.Expression, indent)
		}
		properties = append(properties, text)
	}
	suffix := g.inheritance(structure.Inherits)
	opening := ""
	if len(members) > 0 {
		opening = " {"
	}
	line := head + "data class " + structure.StructName + "(" + strings.Join(properties, ", ") + ")" + suffix + opening
	if !g.fits(indent, line) {
		inner := indent + g.indentUnit
		line = head + "data class " + structure.StructName + "(\n" + inner +
			strings.Join(properties, ",\n"+inner) + "\n" + indent + ")" + suffix + opening
	}
	if len(members) == 0 {
		return indent + line + "\n"
	}
	return indent + line + "\n" + g.statements(members, indent+g.indentUnit) + indent + "}\n"
}

func isStored(data ast.VariableDeclarationData) bool {
	return !data.IsStatic && data.Getter == nil && data.Setter == nil && data.ExtendsType == ""
}

// enum renders an enum class when no case carries associated values and a
// sealed class otherwise.
func (g *fileGenerator) enum(enum *ast.EnumDeclaration, indent string) string {
	if g.registry.IsSealedClass(enum.EnumName) {
		return g.sealedClass(enum, indent)
	}
	return g.enumClass(enum, indent)
}

func (g *fileGenerator) enumClass(enum *ast.EnumDeclaration, indent string) string {
	inner := indent + g.indentUnit
	members := enum.Members

	var rawType string
	if len(enum.Elements) > 0 && enum.Elements[0].RawValue != nil {
		rawType = g.typeName(ast.TypeOf(enum.Elements[0].RawValue))
		members = withRawValueFactory(members, enum.EnumName, rawType)
	}

	var inherits []string
	for _, inherited := range enum.Inherits {
		if !isRawValueType(inherited, enum) {
			inherits = append(inherits, inherited)
		}
	}

	head := accessModifier(enum.Access) + "enum class " + enum.EnumName
	if rawType != "" {
		head += "(val rawValue: " + rawType + ")"
	}
	head += g.inheritance(inherits)

	var builder strings.Builder
	builder.WriteString(indent + head + " {\n")
	entries := make([]string, 0, len(enum.Elements))
	for _, element := range enum.Elements {
		entry := inner + annotationsPrefix(element.Annotations) + constantName(element.Name)
		if element.RawValue != nil {
			entry += "(" + g.expression(element.RawValue, inner) + ")"
		}
		entries = append(entries, entry)
	}
	builder.WriteString(strings.Join(entries, ",\n"))
	if len(members) > 0 {
		builder.WriteString(";\n\n")
		builder.WriteString(g.statements(members, inner))
	} else if len(entries) > 0 {
		builder.WriteString("\n")
	}
	builder.WriteString(indent + "}\n")
	return builder.String()
}

// isRawValueType reports whether inherited is the raw value type of the
// enum rather than a supertype.
func isRawValueType(inherited string, enum *ast.EnumDeclaration) bool {
	if len(enum.Elements) == 0 || enum.Elements[0].RawValue == nil {
		return false
	}
	return inherited == ast.TypeOf(enum.Elements[0].RawValue)
}

// withRawValueFactory adds an invoke operator building the enum from its raw
// value to the companion object, creating the companion when needed.
func withRawValueFactory(members []ast.Statement, enumName string, rawType string) []ast.Statement {
	factory := &ast.FunctionDeclaration{Data: ast.FunctionDeclarationData{
		Prefix:     passes.FactoryPrefix,
		Parameters: []ast.FunctionParameter{{Label: "rawValue", TypeName: rawType}},
		ReturnType: enumName + "?",
		IsStatic:   true,
		Statements: []ast.Statement{&ast.ReturnStatement{
			Expression: &ast.LiteralCodeExpression{String: "values().firstOrNull { it.rawValue == rawValue }"},
		}},
	}}

	result := make([]ast.Statement, 0, len(members)+1)
	merged := false
	for _, member := range members {
		if companion, ok := member.(*ast.CompanionObject); ok && !merged {
			for _, existing := range companion.Members {
				if function, ok := existing.(*ast.FunctionDeclaration); ok && function.Data.Prefix == passes.FactoryPrefix {
					return members
				}
			}
			companionMembers := append(append([]ast.Statement(nil), companion.Members...), factory)
			result = append(result, &ast.CompanionObject{Members: companionMembers})
			merged = true
			continue
		}
		result = append(result, member)
	}
	if !merged {
		result = append(result, &ast.CompanionObject{Members: []ast.Statement{factory}})
	}
	return result
}

// sealedClass renders each case as a nested subclass whose constructor holds
// the associated values.
func (g *fileGenerator) sealedClass(enum *ast.EnumDeclaration, indent string) string {
	inner := indent + g.indentUnit
	var builder strings.Builder
	builder.WriteString(indent + accessModifier(enum.Access) + "sealed class " + enum.EnumName +
		g.inheritance(enum.Inherits) + " {\n")
	for _, element := range enum.Elements {
		builder.WriteString(inner + annotationsPrefix(element.Annotations) + "class " + capitalize(element.Name))
		if len(element.AssociatedValues) > 0 {
			values := make([]string, 0, len(element.AssociatedValues))
			for _, value := range element.AssociatedValues {
				values = append(values, "val "+value.Label+": "+g.typeName(value.TypeName))
			}
			builder.WriteString("(" + strings.Join(values, ", ") + ")")
		}
		builder.WriteString(": " + enum.EnumName + "()\n")
	}
	if len(enum.Members) > 0 {
		builder.WriteString("\n")
		builder.WriteString(g.statements(enum.Members, inner))
	}
	builder.WriteString(indent + "}\n")
	return builder.String()
}
