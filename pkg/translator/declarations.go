package translator

import (
	"fmt"
	"strings"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/common"
)

const (
	pureAnnotation = "pure"
	selfParameter  = "self"
)

// scopeLines returns the line span of a declaration's own range.
func scopeLines(node *common.Node) (int, int) {
	if r, ok := node.Range(); ok {
		return r.LineStart, r.LineEnd
	}
	return 0, 0
}

// translateMembers translates the members of a type declaration, leaving
// out the children skip selects.
func (t *Translator) translateMembers(node *common.Node, skip func(*common.Node) bool) ([]ast.Statement, error) {
	children := make([]*common.Node, 0, len(node.Children))
	for _, child := range node.Children {
		if skip == nil || !skip(child) {
			children = append(children, child)
		}
	}
	start, end := scopeLines(node)
	members, err := t.translateSubtrees(children, start, end)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []ast.Statement{}
	}
	return members, nil
}

// annotations reads the annotation comment above a declaration and reports
// whether it marks the declaration pure.
func (t *Translator) annotations(node *common.Node) (string, bool) {
	if t.file == nil {
		return "", false
	}
	r, ok := node.Range()
	if !ok {
		return "", false
	}
	value, ok := t.file.AnnotationBefore(r.LineStart)
	if !ok {
		return "", false
	}
	var kept []string
	isPure := false
	for _, word := range strings.Fields(value) {
		if word == pureAnnotation {
			isPure = true
		} else {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " "), isPure
}

func (t *Translator) translateTypealias(node *common.Node) ([]ast.Statement, error) {
	typeName, ok := node.Value(common.KeyType)
	if !ok {
		interfaceType, _ := node.Value(common.KeyInterfaceType)
		typeName = strings.TrimSuffix(interfaceType, ".Type")
	}
	return []ast.Statement{&ast.TypealiasDeclaration{
		Identifier: nameOf(node),
		TypeName:   cleanType(typeName),
		IsImplicit: node.IsImplicit(),
	}}, nil
}

func (t *Translator) translateClassDeclaration(node *common.Node) ([]ast.Statement, error) {
	members, err := t.translateMembers(node, nil)
	if err != nil {
		return nil, err
	}
	return []ast.Statement{&ast.ClassDeclaration{
		ClassName: nameOf(node),
		Inherits:  inheritanceList(node),
		Members:   members,
	}}, nil
}

func (t *Translator) translateStructDeclaration(node *common.Node) ([]ast.Statement, error) {
	members, err := t.translateMembers(node, nil)
	if err != nil {
		return nil, err
	}
	annotations, _ := t.annotations(node)
	return []ast.Statement{&ast.StructDeclaration{
		Annotations: annotations,
		StructName:  nameOf(node),
		Inherits:    inheritanceList(node),
		Members:     members,
	}}, nil
}

func (t *Translator) translateProtocolDeclaration(node *common.Node) ([]ast.Statement, error) {
	members, err := t.translateMembers(node, nil)
	if err != nil {
		return nil, err
	}
	return []ast.Statement{&ast.ProtocolDeclaration{
		ProtocolName: nameOf(node),
		Members:      members,
	}}, nil
}

// translateExtensionDeclaration flattens an extension into its members,
// each tagged with the extended type.
func (t *Translator) translateExtensionDeclaration(node *common.Node) ([]ast.Statement, error) {
	extendedType := nameOf(node)
	members, err := t.translateMembers(node, nil)
	if err != nil {
		return nil, err
	}
	for i, member := range members {
		switch m := member.(type) {
		case *ast.FunctionDeclaration:
			data := m.Data
			data.ExtendsType = extendedType
			members[i] = &ast.FunctionDeclaration{Data: data}
		case *ast.VariableDeclaration:
			data := m.Data
			data.ExtendsType = extendedType
			members[i] = &ast.VariableDeclaration{Data: data}
		}
	}
	return members, nil
}

func (t *Translator) translateEnumDeclaration(node *common.Node) ([]ast.Statement, error) {
	isElement := func(child *common.Node) bool {
		return child.Name == "Enum Element Declaration"
	}
	members, err := t.translateMembers(node, isElement)
	if err != nil {
		return nil, err
	}

	var elements []*ast.EnumElement
	for _, child := range node.ChildrenNamed("Enum Element Declaration") {
		element, err := t.translateEnumElement(child)
		if err != nil {
			return nil, err
		}
		elements = append(elements, element)
	}
	if err := t.assignRawValues(node, elements); err != nil {
		return nil, err
	}

	access, _ := node.Value("access")
	return []ast.Statement{&ast.EnumDeclaration{
		Access:     access,
		EnumName:   nameOf(node),
		Inherits:   inheritanceList(node),
		Elements:   elements,
		Members:    members,
		IsImplicit: node.IsImplicit(),
	}}, nil
}

// translateEnumElement reads an element such as "b(x:_:)" whose interface
// type is "(E.Type) -> (Int, String) -> E".
func (t *Translator) translateEnumElement(node *common.Node) (*ast.EnumElement, error) {
	name := nameOf(node)
	element := &ast.EnumElement{Name: functionPrefix(name)}
	element.Annotations, _ = t.annotations(node)

	labels := argumentLabels(name)
	if labels != nil {
		interfaceType, _ := node.Value(common.KeyInterfaceType)
		components := functionTypeComponents(interfaceType)
		if len(components) < 3 {
			if err := t.unexpected(node, fmt.Sprintf("unexpected associated value type %q", interfaceType)); err != nil {
				return nil, err
			}
			return element, nil
		}
		types := tupleElements(components[1])
		unlabeled := 0
		for i, typeElement := range types {
			typeLabel, typeName := labeledElement(typeElement)
			label := ""
			if i < len(labels) && labels[i] != "_" {
				label = labels[i]
			} else if typeLabel != "" {
				label = typeLabel
			}
			if label == "" {
				unlabeled++
				label = "value"
				if unlabeled > 1 {
					label = fmt.Sprintf("value%d", unlabeled)
				}
			}
			element.AssociatedValues = append(element.AssociatedValues, ast.LabeledType{Label: label, TypeName: typeName})
		}
	}

	for _, child := range node.Children {
		if strings.HasSuffix(child.Name, "Expression") {
			rawValue, err := t.translateExpression(child)
			if err != nil {
				return nil, err
			}
			element.RawValue = rawValue
			break
		}
	}
	return element, nil
}

// assignRawValues fills in raw values the elements did not declare, reading
// them from the synthesized init(rawValue:) in element order.
func (t *Translator) assignRawValues(node *common.Node, elements []*ast.EnumElement) error {
	var constructor *common.Node
	for _, child := range node.ChildrenNamed("Constructor Declaration") {
		if child.IsImplicit() && nameOf(child) == "init(rawValue:)" {
			constructor = child
			break
		}
	}
	if constructor == nil {
		return nil
	}

	var literals []*common.Node
	if array := constructor.Find("Array Expression"); array != nil {
		literals = array.Children
	} else {
		for _, pattern := range findAll(constructor, "Pattern Expression") {
			if literal := findLiteral(pattern); literal != nil {
				literals = append(literals, literal)
			}
		}
	}

	for i, element := range elements {
		if element.RawValue != nil || i >= len(literals) {
			continue
		}
		rawValue, err := t.translateExpression(literals[i])
		if err != nil {
			return err
		}
		element.RawValue = rawValue
	}
	return nil
}

// findAll collects the descendants named name in depth-first order.
func findAll(node *common.Node, name string) []*common.Node {
	var result []*common.Node
	var walk func(*common.Node)
	walk = func(n *common.Node) {
		if n.Name == name {
			result = append(result, n)
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(node)
	return result
}

// findLiteral returns the first literal expression under node.
func findLiteral(node *common.Node) *common.Node {
	if strings.HasSuffix(node.Name, "Literal Expression") {
		return node
	}
	for _, child := range node.Children {
		if found := findLiteral(child); found != nil {
			return found
		}
	}
	return nil
}

func (t *Translator) translateFunctionDeclaration(node *common.Node) ([]ast.Statement, error) {
	data, err := t.functionData(node)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return []ast.Statement{&ast.FunctionDeclaration{Data: *data}}, nil
}

// functionData reads functions, initializers and accessors. Accessors are
// skipped here; their variable declaration collects them.
func (t *Translator) functionData(node *common.Node) (*ast.FunctionDeclarationData, error) {
	if isAccessor(node) {
		return nil, nil
	}

	name := nameOf(node)
	interfaceType, _ := node.Value(common.KeyInterfaceType)
	access, _ := node.Value("access")
	data := &ast.FunctionDeclarationData{
		Prefix:       functionPrefix(name),
		FunctionType: interfaceType,
		ReturnType:   returnType(interfaceType),
		GenericTypes: genericTypes(interfaceType),
		IsImplicit:   node.IsImplicit(),
		IsMutating:   node.HasStandalone(common.ValueMutating),
		Access:       access,
	}
	data.Annotations, data.IsPure = t.annotations(node)

	components := functionTypeComponents(interfaceType)
	isMetatypeFunction := len(components) >= 3 && strings.HasSuffix(components[0], ".Type)")
	if node.Name == "Constructor Declaration" {
		data.Prefix = "init"
		data.IsStatic = ast.IsOptionalType(data.ReturnType)
	} else {
		data.IsStatic = node.HasStandalone(common.ValueStatic) || node.HasStandalone("class") || isMetatypeFunction
	}

	parameters, err := t.translateParameters(node)
	if err != nil {
		return nil, err
	}
	data.Parameters = parameters

	if brace := node.Child("Brace Statement"); brace != nil && !data.IsImplicit {
		statements, err := t.translateBraceStatement(brace)
		if err != nil {
			return nil, err
		}
		data.Statements = statements
	}
	return data, nil
}

func isAccessor(node *common.Node) bool {
	for _, key := range []string{common.KeyGetFor, common.KeySetFor, "getter_for", "setter_for"} {
		if _, ok := node.Value(key); ok {
			return true
		}
	}
	return node.Name == "Accessor Declaration"
}

// translateParameters reads the last parameter list, which holds the
// declared parameters of methods as well as of free functions.
func (t *Translator) translateParameters(node *common.Node) ([]ast.FunctionParameter, error) {
	lists := node.ChildrenNamed("Parameter List")
	if len(lists) == 0 {
		return nil, nil
	}
	var parameters []ast.FunctionParameter
	for _, parameter := range lists[len(lists)-1].ChildrenNamed("Parameter") {
		label := nameOf(parameter)
		if label == selfParameter {
			continue
		}
		apiLabel := "_"
		if apiName, ok := parameter.Value(common.KeyAPIName); ok {
			apiLabel = apiName
			if apiName == label {
				apiLabel = ""
			}
		}
		translated := ast.FunctionParameter{
			Label:    label,
			APILabel: apiLabel,
			TypeName: parameterType(parameter),
		}
		for _, child := range parameter.Children {
			if strings.HasSuffix(child.Name, "Expression") {
				value, err := t.translateExpression(child)
				if err != nil {
					return nil, err
				}
				translated.Value = value
				break
			}
		}
		parameters = append(parameters, translated)
	}
	return parameters, nil
}

func parameterType(parameter *common.Node) string {
	if value, ok := parameter.Value(common.KeyInterfaceType); ok {
		return cleanType(value)
	}
	return typeOf(parameter)
}

// processPatternBindingDeclaration queues each pattern's initializer for the
// variable declaration that follows. A pattern is followed by its
// initializer expressions; when there are several the last one wins.
func (t *Translator) processPatternBindingDeclaration(node *common.Node) error {
	var pattern *common.Node
	var initializer *common.Node

	flush := func() error {
		if pattern == nil {
			return nil
		}
		var expression ast.Expression
		if initializer != nil {
			translated, err := t.translateExpression(initializer)
			if err != nil {
				return err
			}
			expression = translated
		}

		named, typeName := namedPattern(pattern)
		if named == nil {
			if err := t.unexpected(pattern, "unsupported pattern in binding"); err != nil {
				return err
			}
			t.danglingBindings.Add(danglingBinding{Identifier: errorIdentifier, Expression: expression})
		} else {
			t.danglingBindings.Add(danglingBinding{
				Identifier: nameOf(named),
				TypeName:   typeName,
				Expression: expression,
			})
		}
		pattern, initializer = nil, nil
		return nil
	}

	for _, child := range node.Children {
		if strings.HasPrefix(child.Name, "Pattern") {
			if err := flush(); err != nil {
				return err
			}
			pattern = child
		} else if pattern != nil && strings.HasSuffix(child.Name, "Expression") {
			initializer = child
		}
	}
	return flush()
}

// namedPattern unwraps a typed pattern down to its named pattern.
func namedPattern(pattern *common.Node) (*common.Node, string) {
	switch pattern.Name {
	case "Pattern Named":
		return pattern, typeOf(pattern)
	case "Pattern Typed":
		inner := pattern.Child("Pattern Named")
		if inner == nil {
			return nil, ""
		}
		typeName := typeOf(pattern)
		if typeName == "" {
			typeName = typeOf(inner)
		}
		return inner, typeName
	default:
		return nil, ""
	}
}

func (t *Translator) translateVariableDeclaration(node *common.Node) ([]ast.Statement, error) {
	data, err := t.variableData(node)
	if err != nil {
		return nil, err
	}
	return []ast.Statement{&ast.VariableDeclaration{Data: data}}, nil
}

func (t *Translator) variableData(node *common.Node) (ast.VariableDeclarationData, error) {
	identifier := nameOf(node)
	typeName := typeOf(node)
	if interfaceType, ok := node.Value(common.KeyInterfaceType); ok {
		typeName = cleanType(interfaceType)
	}

	data := ast.VariableDeclarationData{
		Identifier: identifier,
		TypeName:   typeName,
		IsLet:      node.HasStandalone(common.ValueLet),
		IsImplicit: node.IsImplicit(),
		IsStatic:   node.HasStandalone(common.ValueStatic),
	}
	data.Annotations, _ = t.annotations(node)

	binding, found := t.danglingBindings.RemoveFirst(func(b danglingBinding) bool {
		if b.Identifier == errorIdentifier {
			return true
		}
		return b.Identifier == identifier && (b.TypeName == "" || b.TypeName == typeName)
	})
	if found {
		data.Expression = binding.Expression
	}

	for _, child := range node.Children {
		if child.IsImplicit() {
			continue
		}
		getter, setter := isGetter(child), isSetter(child)
		if !getter && !setter {
			continue
		}
		accessor, err := t.accessorData(child, getter, typeName)
		if err != nil {
			return data, err
		}
		if getter {
			data.Getter = accessor
		} else {
			data.Setter = accessor
		}
	}
	return data, nil
}

func isGetter(node *common.Node) bool {
	if _, ok := node.Value(common.KeyGetFor); ok {
		return true
	}
	_, ok := node.Value("getter_for")
	return ok
}

func isSetter(node *common.Node) bool {
	if _, ok := node.Value(common.KeySetFor); ok {
		return true
	}
	_, ok := node.Value("setter_for")
	return ok
}

func (t *Translator) accessorData(node *common.Node, isGetter bool, typeName string) (*ast.FunctionDeclarationData, error) {
	data := &ast.FunctionDeclarationData{
		Prefix:     "set",
		ReturnType: "()",
		IsImplicit: node.IsImplicit(),
		IsMutating: node.HasStandalone(common.ValueMutating),
		Parameters: []ast.FunctionParameter{{Label: "newValue", TypeName: typeName}},
	}
	if isGetter {
		data.Prefix = "get"
		data.ReturnType = typeName
		data.Parameters = nil
	}
	data.FunctionType, _ = node.Value(common.KeyInterfaceType)

	if brace := node.Child("Brace Statement"); brace != nil {
		statements, err := t.translateBraceStatement(brace)
		if err != nil {
			return nil, err
		}
		data.Statements = statements
	} else {
		data.Statements = []ast.Statement{}
	}
	return data, nil
}
