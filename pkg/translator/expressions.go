package translator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/common"
)

// transparentExpressions are conversions the dump makes explicit but the
// output leaves implicit; each translates to its last child.
var transparentExpressions = map[string]bool{
	"Load Expression":                          true,
	"Inject Into Optional":                     true,
	"Inject Into Optional Expression":          true,
	"Erasure Expression":                       true,
	"Function Conversion Expression":           true,
	"Derived To Base Expression":               true,
	"Inout Expression":                         true,
	"Autoclosure Expression":                   true,
	"Coerce Expression":                        true,
	"Dot Self Expression":                      true,
	"Rebind Self In Constructor Expression":    true,
	"Optional Evaluation Expression":           true,
	"Make Temporarily Escapable Expression":    true,
	"Covariant Return Conversion Expression":   true,
	"Covariant Function Conversion Expression": true,
	"Underlying To Opaque Expression":          true,
	"Pointer To Pointer Expression":            true,
	"Metatype Conversion Expression":           true,
	"Any Hashable Erasure Expression":          true,
	"Identity Expression":                      true,
	"Lazy Initializer Expression":              true,
	"Abi Safe Conversion Expression":           true,
}

var tupleElementNames = []string{"first", "second", "third"}

func (t *Translator) translateExpression(node *common.Node) (ast.Expression, error) {
	if transparentExpressions[node.Name] {
		if len(node.Children) == 0 {
			return t.errorExpression(node, "conversion without an operand")
		}
		return t.translateExpression(node.ChildAt(-1))
	}

	switch node.Name {
	case "Call Expression":
		return t.translateCallExpression(node)
	case "Constructor Reference Call Expression":
		if len(node.Children) < 2 {
			return t.errorExpression(node, "constructor reference without a type")
		}
		return t.translateExpression(node.Children[1])
	case "Dot Syntax Call Expression":
		return t.translateDotSyntaxCallExpression(node)
	case "Member Reference Expression":
		return t.translateMemberReferenceExpression(node)
	case "Declaration Reference Expression", "Other Constructor Reference Expression":
		return t.declarationReference(node), nil
	case "Super Reference Expression":
		return &ast.DeclarationReferenceExpression{Identifier: "super", TypeName: typeOf(node), IsImplicit: node.IsImplicit()}, nil
	case "Type Expression":
		return t.translateTypeExpression(node), nil
	case "Tuple Expression":
		return t.translateTupleExpression(node)
	case "Tuple Shuffle Expression":
		return t.translateTupleShuffleExpression(node)
	case "Parentheses Expression":
		if len(node.Children) == 0 {
			return t.errorExpression(node, "empty parentheses")
		}
		inner, err := t.translateExpression(node.Children[0])
		if err != nil {
			return nil, err
		}
		return &ast.ParenthesesExpression{Expression: inner}, nil
	case "Binary Expression":
		return t.translateBinaryExpression(node)
	case "Prefix Unary Expression", "Postfix Unary Expression":
		return t.translateUnaryExpression(node)
	case "If Expression", "Ternary Expression":
		return t.translateIfExpression(node)
	case "Integer Literal Expression":
		return t.translateIntegerLiteral(node)
	case "Float Literal Expression":
		return t.translateFloatLiteral(node)
	case "Boolean Literal Expression":
		value, _ := node.Value(common.KeyValue)
		return &ast.LiteralBoolExpression{Value: value == "true"}, nil
	case "String Literal Expression":
		value, _ := node.Value(common.KeyValue)
		if typeOf(node) == "Character" {
			return &ast.LiteralCharacterExpression{Value: value}, nil
		}
		return &ast.LiteralStringExpression{Value: value}, nil
	case "Nil Literal Expression":
		return &ast.NilLiteralExpression{}, nil
	case "Magic Identifier Literal Expression":
		return t.translateMagicIdentifier(node)
	case "Interpolated String Literal Expression":
		return t.translateInterpolatedString(node)
	case "Array Expression":
		return t.translateArrayExpression(node)
	case "Dictionary Expression":
		return t.translateDictionaryExpression(node)
	case "Subscript Expression":
		return t.translateSubscriptExpression(node)
	case "Force Value Expression":
		inner, err := t.translateOnlyChild(node)
		if err != nil {
			return nil, err
		}
		return &ast.ForceValueExpression{Expression: inner}, nil
	case "Bind Optional Expression":
		inner, err := t.translateOnlyChild(node)
		if err != nil {
			return nil, err
		}
		return &ast.OptionalExpression{Expression: inner}, nil
	case "Closure Expression":
		return t.translateClosureExpression(node)
	case "Conditional Checked Cast Expression":
		return t.translateCast(node, "as?")
	case "Forced Checked Cast Expression":
		return t.translateCast(node, "as")
	case "Is Subtype Expression":
		return t.translateCast(node, "is")
	case "Tuple Element Expression":
		return t.translateTupleElement(node)
	case "Open Existential Expression":
		return t.translateOpenExistential(node)
	case "Opaque Value Expression":
		if t.opaqueValue == nil {
			return t.errorExpression(node, "opaque value outside an opened existential")
		}
		return t.opaqueValue, nil
	case "Discard Assignment Expression":
		return &ast.DeclarationReferenceExpression{Identifier: "_", TypeName: typeOf(node)}, nil
	}
	return t.errorExpression(node, "unknown expression")
}

func (t *Translator) translateOnlyChild(node *common.Node) (ast.Expression, error) {
	if len(node.Children) == 0 {
		return t.errorExpression(node, "expected an operand")
	}
	return t.translateExpression(node.Children[0])
}

func nodeRange(node *common.Node) *common.SourceRange {
	if r, ok := node.Range(); ok {
		return &r
	}
	return nil
}

func (t *Translator) declarationReference(node *common.Node) *ast.DeclarationReferenceExpression {
	decl, _ := node.Value(common.KeyDecl)
	return &ast.DeclarationReferenceExpression{
		Identifier:        declarationIdentifier(decl),
		TypeName:          typeOf(node),
		IsStandardLibrary: isStandardLibrary(decl),
		IsImplicit:        node.IsImplicit(),
		Range:             nodeRange(node),
	}
}

func (t *Translator) translateTypeExpression(node *common.Node) *ast.TypeExpression {
	if typeRepr, ok := node.Value(common.KeyTypeRepr); ok && typeRepr != "" {
		return &ast.TypeExpression{TypeName: cleanType(typeRepr)}
	}
	return &ast.TypeExpression{TypeName: strings.TrimSuffix(typeOf(node), ".Type")}
}

// translateCallExpression reads the callee and its arguments; constructor
// calls turn into calls of the type.
func (t *Translator) translateCallExpression(node *common.Node) (ast.Expression, error) {
	if len(node.Children) < 2 {
		return t.errorExpression(node, "call without arguments")
	}
	function, err := t.translateExpression(node.Children[0])
	if err != nil {
		return nil, err
	}
	parameters, err := t.translateArguments(node.Children[1])
	if err != nil {
		return nil, err
	}
	return &ast.CallExpression{
		Function:   function,
		Parameters: parameters,
		TypeName:   typeOf(node),
		Range:      nodeRange(node),
	}, nil
}

// translateArguments normalises every argument shape to a tuple or a tuple
// shuffle.
func (t *Translator) translateArguments(node *common.Node) (ast.Expression, error) {
	switch node.Name {
	case "Parentheses Expression":
		if len(node.Children) == 0 {
			return &ast.TupleExpression{}, nil
		}
		inner, err := t.translateExpression(node.Children[0])
		if err != nil {
			return nil, err
		}
		return &ast.TupleExpression{Pairs: []ast.LabeledExpression{{Expression: inner}}}, nil
	case "Tuple Expression":
		return t.translateTupleExpression(node)
	case "Tuple Shuffle Expression":
		return t.translateTupleShuffleExpression(node)
	case "Argument List":
		return t.translateArgumentList(node)
	}
	expression, err := t.translateExpression(node)
	if err != nil {
		return nil, err
	}
	return &ast.TupleExpression{Pairs: []ast.LabeledExpression{{Expression: expression}}}, nil
}

// tupleLabels reads element labels from the tuple type, falling back to
// the names attribute. Unlabeled elements get "".
func tupleLabels(node *common.Node, count int) []string {
	labels := make([]string, count)
	elements := tupleElements(typeOf(node))
	if len(elements) == count {
		for i, element := range elements {
			labels[i], _ = labeledElement(element)
		}
		return labels
	}
	if names, ok := node.Value(common.KeyNames); ok {
		for i, name := range strings.Split(names, ",") {
			if i >= count {
				break
			}
			if name = strings.Trim(name, "' "); name != "_" {
				labels[i] = name
			}
		}
	}
	return labels
}

// translateTupleExpression builds a tuple. Elided default arguments are
// dropped; an expanded variadic run turns the tuple into a shuffle.
func (t *Translator) translateTupleExpression(node *common.Node) (ast.Expression, error) {
	labels := tupleLabels(node, len(node.Children))
	tuple := &ast.TupleExpression{Pairs: []ast.LabeledExpression{}}
	shuffle := &ast.TupleShuffleExpression{}
	isShuffle := false

	for i, child := range node.Children {
		switch child.Name {
		case "Default Argument Expression":
			continue
		case "Vararg Expansion Expression":
			isShuffle = true
			var elements []*common.Node
			if array := child.Find("Array Expression"); array != nil {
				elements = array.Children
			} else {
				elements = child.Children
			}
			shuffle.Labels = append(shuffle.Labels, labels[i])
			shuffle.Indices = append(shuffle.Indices, ast.Variadic(len(elements)))
			for _, element := range elements {
				expression, err := t.translateExpression(element)
				if err != nil {
					return nil, err
				}
				shuffle.Expressions = append(shuffle.Expressions, expression)
			}
			continue
		}

		expression, err := t.translateExpression(child)
		if err != nil {
			return nil, err
		}
		tuple.Pairs = append(tuple.Pairs, ast.LabeledExpression{Label: labels[i], Expression: expression})
		shuffle.Labels = append(shuffle.Labels, labels[i])
		shuffle.Indices = append(shuffle.Indices, ast.Present())
		shuffle.Expressions = append(shuffle.Expressions, expression)
	}
	if isShuffle {
		return shuffle, nil
	}
	return tuple, nil
}

func (t *Translator) translateArgumentList(node *common.Node) (ast.Expression, error) {
	tuple := &ast.TupleExpression{Pairs: []ast.LabeledExpression{}}
	for _, argument := range node.ChildrenNamed("Argument") {
		if len(argument.Children) == 0 {
			continue
		}
		expression, err := t.translateExpression(argument.Children[0])
		if err != nil {
			return nil, err
		}
		label, _ := argument.Value("label")
		tuple.Pairs = append(tuple.Pairs, ast.LabeledExpression{Label: label, Expression: expression})
	}
	return tuple, nil
}

// parseIndexList reads "[-2, -1, 0]".
func parseIndexList(text string) ([]int, error) {
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(text), "["), "]"))
	if text == "" {
		return nil, nil
	}
	var result []int
	for _, field := range strings.Split(text, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("bad index %q: %w", field, err)
		}
		result = append(result, n)
	}
	return result, nil
}

// translateTupleShuffleExpression reads the elements attribute: -2 marks
// the variadic run drawn from variadic_sources, other negative values an
// elided default, and the rest the source element supplying the position.
func (t *Translator) translateTupleShuffleExpression(node *common.Node) (ast.Expression, error) {
	elementsText, _ := node.Value(common.KeyElements)
	indices, err := parseIndexList(elementsText)
	if err != nil {
		return t.errorExpression(node, err.Error())
	}
	variadicText, _ := node.Value(common.KeyVariadicSources)
	variadicSources, err := parseIndexList(variadicText)
	if err != nil {
		return t.errorExpression(node, err.Error())
	}
	if len(node.Children) == 0 {
		return t.errorExpression(node, "tuple shuffle without a source")
	}

	source := node.Children[0]
	var sources []*common.Node
	isScalar := node.HasStandalone("source_is_scalar") || node.HasStandalone("scalar_to_tuple") ||
		source.Name != "Tuple Expression"
	if isScalar {
		sources = []*common.Node{source}
	} else {
		sources = source.Children
	}

	labels := tupleLabels(node, len(indices))
	shuffle := &ast.TupleShuffleExpression{}
	translate := func(i int) error {
		if i < 0 || i >= len(sources) {
			return t.unexpected(node, fmt.Sprintf("tuple shuffle source %d out of range", i))
		}
		expression, err := t.translateExpression(sources[i])
		if err != nil {
			return err
		}
		shuffle.Expressions = append(shuffle.Expressions, expression)
		return nil
	}

	for position, index := range indices {
		switch {
		case index == -2:
			shuffle.Labels = append(shuffle.Labels, labels[position])
			shuffle.Indices = append(shuffle.Indices, ast.Variadic(len(variadicSources)))
			for _, source := range variadicSources {
				if err := translate(source); err != nil {
					return nil, err
				}
			}
		case index < 0:
			continue
		default:
			shuffle.Labels = append(shuffle.Labels, labels[position])
			shuffle.Indices = append(shuffle.Indices, ast.Present())
			if err := translate(index); err != nil {
				return nil, err
			}
		}
	}
	return shuffle, nil
}

// translateDotSyntaxCallExpression reads "receiver.member" where the member
// comes first in the dump.
func (t *Translator) translateDotSyntaxCallExpression(node *common.Node) (ast.Expression, error) {
	if len(node.Children) < 2 {
		return t.errorExpression(node, "dot syntax call without a receiver")
	}
	member, err := t.translateExpression(node.Children[0])
	if err != nil {
		return nil, err
	}
	receiver, err := t.translateExpression(node.Children[1])
	if err != nil {
		return nil, err
	}
	return &ast.DotExpression{LeftExpression: receiver, RightExpression: member}, nil
}

func (t *Translator) translateMemberReferenceExpression(node *common.Node) (ast.Expression, error) {
	if len(node.Children) == 0 {
		return t.errorExpression(node, "member reference without a base")
	}
	base, err := t.translateExpression(node.Children[0])
	if err != nil {
		return nil, err
	}
	return &ast.DotExpression{LeftExpression: base, RightExpression: t.declarationReference(node)}, nil
}

// operatorOf reads the operator symbol from the function child of a binary
// or unary expression.
func operatorOf(node *common.Node) (string, bool) {
	reference := node
	if node.Name == "Dot Syntax Call Expression" {
		reference = node.ChildAt(0)
	}
	if reference == nil || reference.Name != "Declaration Reference Expression" {
		return "", false
	}
	decl, ok := reference.Value(common.KeyDecl)
	if !ok {
		return "", false
	}
	return operatorName(declarationIdentifier(decl)), true
}

// operands returns the two expressions of a binary operator's argument
// tuple.
func operands(node *common.Node) []*common.Node {
	switch node.Name {
	case "Tuple Expression", "Argument List":
		var result []*common.Node
		for _, child := range node.Children {
			if child.Name == "Argument" {
				child = child.ChildAt(0)
			}
			result = append(result, child)
		}
		return result
	}
	return nil
}

func (t *Translator) translateBinaryExpression(node *common.Node) (ast.Expression, error) {
	if len(node.Children) != 2 {
		return t.errorExpression(node, "binary expression without an operator and operands")
	}
	symbol, ok := operatorOf(node.Children[0])
	if !ok {
		return t.errorExpression(node, "unrecognised binary operator")
	}
	arguments := operands(node.Children[1])
	if len(arguments) != 2 || arguments[0] == nil || arguments[1] == nil {
		return t.errorExpression(node, "binary expression without two operands")
	}
	left, err := t.translateExpression(arguments[0])
	if err != nil {
		return nil, err
	}
	right, err := t.translateExpression(arguments[1])
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOperatorExpression{
		LeftExpression:  left,
		RightExpression: right,
		OperatorSymbol:  symbol,
		TypeName:        typeOf(node),
	}, nil
}

func (t *Translator) translateUnaryExpression(node *common.Node) (ast.Expression, error) {
	if len(node.Children) != 2 {
		return t.errorExpression(node, "unary expression without an operator and operand")
	}
	symbol, ok := operatorOf(node.Children[0])
	if !ok {
		return t.errorExpression(node, "unrecognised unary operator")
	}
	operand := node.Children[1]
	if operand.Name == "Argument List" && len(operand.Children) > 0 {
		operand = operand.Children[0].ChildAt(0)
	}
	sub, err := t.translateExpression(operand)
	if err != nil {
		return nil, err
	}
	if node.Name == "Prefix Unary Expression" {
		return &ast.PrefixUnaryExpression{SubExpression: sub, OperatorSymbol: symbol, TypeName: typeOf(node)}, nil
	}
	return &ast.PostfixUnaryExpression{SubExpression: sub, OperatorSymbol: symbol, TypeName: typeOf(node)}, nil
}

func (t *Translator) translateIfExpression(node *common.Node) (ast.Expression, error) {
	if len(node.Children) != 3 {
		return t.errorExpression(node, "conditional expression without three operands")
	}
	var parts [3]ast.Expression
	for i, child := range node.Children {
		expression, err := t.translateExpression(child)
		if err != nil {
			return nil, err
		}
		parts[i] = expression
	}
	return &ast.IfExpression{Condition: parts[0], TrueExpression: parts[1], FalseExpression: parts[2]}, nil
}

// translateIntegerLiteral follows the literal's type: integer literals may
// initialise floating point and unsigned values.
func (t *Translator) translateIntegerLiteral(node *common.Node) (ast.Expression, error) {
	value, _ := node.Value(common.KeyValue)
	value = strings.ReplaceAll(value, "_", "")
	if node.HasStandalone(common.ValueNegative) && !strings.HasPrefix(value, "-") {
		value = "-" + value
	}

	switch typeName := typeOf(node); {
	case typeName == "Double" || typeName == "Float64":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return t.errorExpression(node, fmt.Sprintf("bad double literal %q", value))
		}
		return &ast.LiteralDoubleExpression{Value: parsed}, nil
	case typeName == "Float" || typeName == "Float32":
		parsed, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return t.errorExpression(node, fmt.Sprintf("bad float literal %q", value))
		}
		return &ast.LiteralFloatExpression{Value: float32(parsed)}, nil
	case strings.HasPrefix(typeName, "UInt"):
		parsed, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return t.errorExpression(node, fmt.Sprintf("bad unsigned literal %q", value))
		}
		return &ast.LiteralUIntExpression{Value: parsed}, nil
	}

	parsed, err := strconv.ParseInt(value, 0, 64)
	if err != nil {
		return t.errorExpression(node, fmt.Sprintf("bad integer literal %q", value))
	}
	return &ast.LiteralIntExpression{Value: parsed}, nil
}

func (t *Translator) translateFloatLiteral(node *common.Node) (ast.Expression, error) {
	value, _ := node.Value(common.KeyValue)
	value = strings.ReplaceAll(value, "_", "")
	if node.HasStandalone(common.ValueNegative) && !strings.HasPrefix(value, "-") {
		value = "-" + value
	}
	if typeName := typeOf(node); typeName == "Float" || typeName == "Float32" {
		parsed, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return t.errorExpression(node, fmt.Sprintf("bad float literal %q", value))
		}
		return &ast.LiteralFloatExpression{Value: float32(parsed)}, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return t.errorExpression(node, fmt.Sprintf("bad double literal %q", value))
	}
	return &ast.LiteralDoubleExpression{Value: parsed}, nil
}

func (t *Translator) translateMagicIdentifier(node *common.Node) (ast.Expression, error) {
	kind, _ := node.Value(common.KeyKind)
	r, _ := node.Range()
	switch kind {
	case "#file", "#filePath", "#fileID":
		return &ast.LiteralStringExpression{Value: t.path()}, nil
	case "#line":
		return &ast.LiteralIntExpression{Value: int64(r.LineStart)}, nil
	case "#column":
		return &ast.LiteralIntExpression{Value: int64(r.ColumnStart)}, nil
	case "#function":
		return &ast.LiteralStringExpression{Value: ""}, nil
	}
	return t.errorExpression(node, fmt.Sprintf("unknown magic identifier %q", kind))
}

// translateInterpolatedString handles both dump layouts: segments as direct
// children, and appendLiteral/appendInterpolation calls inside a tap.
func (t *Translator) translateInterpolatedString(node *common.Node) (ast.Expression, error) {
	result := &ast.InterpolatedStringLiteralExpression{}

	if tap := node.Find("Tap Expression"); tap != nil {
		brace := tap.Child("Brace Statement")
		for _, call := range brace.ChildrenNamed("Call Expression") {
			function := call.ChildAt(0)
			decl := ""
			if function != nil {
				if reference := function.Find("Declaration Reference Expression"); reference != nil {
					decl, _ = reference.Value(common.KeyDecl)
				}
			}
			switch {
			case strings.Contains(decl, "appendLiteral"):
				literal := call.ChildAt(1).Find("String Literal Expression")
				if literal == nil {
					continue
				}
				value, _ := literal.Value(common.KeyValue)
				if value != "" {
					result.Expressions = append(result.Expressions, &ast.LiteralStringExpression{Value: value})
				}
			case strings.Contains(decl, "appendInterpolation"):
				arguments := call.ChildAt(1)
				if arguments == nil {
					continue
				}
				argument := arguments
				if len(arguments.Children) > 0 && (arguments.Name == "Parentheses Expression" || arguments.Name == "Tuple Expression" || arguments.Name == "Argument List") {
					argument = arguments.Children[0]
					if argument.Name == "Argument" {
						argument = argument.ChildAt(0)
					}
				}
				expression, err := t.translateExpression(argument)
				if err != nil {
					return nil, err
				}
				result.Expressions = append(result.Expressions, expression)
			}
		}
		return result, nil
	}

	for _, child := range node.Children {
		if child.Name == "Parentheses Expression" && len(child.Children) > 0 {
			child = child.Children[0]
		}
		expression, err := t.translateExpression(child)
		if err != nil {
			return nil, err
		}
		if literal, ok := expression.(*ast.LiteralStringExpression); ok && literal.Value == "" {
			continue
		}
		result.Expressions = append(result.Expressions, expression)
	}
	return result, nil
}

func (t *Translator) translateArrayExpression(node *common.Node) (ast.Expression, error) {
	array := &ast.ArrayExpression{Elements: []ast.Expression{}, TypeName: typeOf(node)}
	for _, child := range node.Children {
		if !strings.HasSuffix(child.Name, "Expression") {
			continue
		}
		element, err := t.translateExpression(child)
		if err != nil {
			return nil, err
		}
		array.Elements = append(array.Elements, element)
	}
	return array, nil
}

func (t *Translator) translateDictionaryExpression(node *common.Node) (ast.Expression, error) {
	dictionary := &ast.DictionaryExpression{Keys: []ast.Expression{}, Values: []ast.Expression{}, TypeName: typeOf(node)}
	for _, pair := range node.ChildrenNamed("Tuple Expression") {
		if len(pair.Children) != 2 {
			return t.errorExpression(pair, "dictionary entry without a key and a value")
		}
		key, err := t.translateExpression(pair.Children[0])
		if err != nil {
			return nil, err
		}
		value, err := t.translateExpression(pair.Children[1])
		if err != nil {
			return nil, err
		}
		dictionary.Keys = append(dictionary.Keys, key)
		dictionary.Values = append(dictionary.Values, value)
	}
	return dictionary, nil
}

func (t *Translator) translateSubscriptExpression(node *common.Node) (ast.Expression, error) {
	if len(node.Children) < 2 {
		return t.errorExpression(node, "subscript without an index")
	}
	subscripted, err := t.translateExpression(node.Children[0])
	if err != nil {
		return nil, err
	}
	indexNode := node.Children[1]
	if (indexNode.Name == "Parentheses Expression" || indexNode.Name == "Tuple Expression") && len(indexNode.Children) > 0 {
		indexNode = indexNode.Children[0]
	} else if indexNode.Name == "Argument List" && len(indexNode.Children) > 0 {
		indexNode = indexNode.Children[0].ChildAt(0)
	}
	index, err := t.translateExpression(indexNode)
	if err != nil {
		return nil, err
	}
	return &ast.SubscriptExpression{SubscriptedExpression: subscripted, IndexExpression: index, TypeName: typeOf(node)}, nil
}

// translateClosureExpression reads a closure's parameters and body. A
// single-expression closure becomes a body of one expression statement.
func (t *Translator) translateClosureExpression(node *common.Node) (ast.Expression, error) {
	closure := &ast.ClosureExpression{TypeName: typeOf(node)}
	if list := node.Child("Parameter List"); list != nil {
		for _, parameter := range list.ChildrenNamed("Parameter") {
			closure.Parameters = append(closure.Parameters, ast.LabeledType{
				Label:    nameOf(parameter),
				TypeName: parameterType(parameter),
			})
		}
	}

	body := node.ChildAt(-1)
	if body == nil {
		return t.errorExpression(node, "closure without a body")
	}
	if body.Name == "Brace Statement" {
		statements, err := t.translateBraceStatement(body)
		if err != nil {
			return nil, err
		}
		closure.Statements = statements
		return closure, nil
	}
	expression, err := t.translateExpression(body)
	if err != nil {
		return nil, err
	}
	closure.Statements = []ast.Statement{&ast.ExpressionStatement{Expression: expression}}
	return closure, nil
}

func (t *Translator) translateCast(node *common.Node, operator string) (ast.Expression, error) {
	if len(node.Children) == 0 {
		return t.errorExpression(node, "cast without an operand")
	}
	operand, err := t.translateExpression(node.ChildAt(-1))
	if err != nil {
		return nil, err
	}
	writtenType, ok := node.Value(common.KeyWrittenType)
	if !ok {
		writtenType = strings.TrimSuffix(typeOf(node), "?")
	}
	return &ast.BinaryOperatorExpression{
		LeftExpression:  operand,
		RightExpression: &ast.TypeExpression{TypeName: cleanType(writtenType)},
		OperatorSymbol:  operator,
		TypeName:        typeOf(node),
	}, nil
}

func (t *Translator) translateTupleElement(node *common.Node) (ast.Expression, error) {
	if len(node.Children) == 0 {
		return t.errorExpression(node, "tuple element without a tuple")
	}
	tuple, err := t.translateExpression(node.Children[0])
	if err != nil {
		return nil, err
	}
	field, _ := node.Value(common.KeyField)
	index, err := strconv.Atoi(field)
	if err != nil || index < 0 {
		return t.errorExpression(node, fmt.Sprintf("bad tuple field %q", field))
	}

	name := ""
	elements := tupleElements(typeOf(node.Children[0]))
	if index < len(elements) {
		name, _ = labeledElement(elements[index])
	}
	if name == "" {
		if index >= len(tupleElementNames) {
			return t.errorExpression(node, fmt.Sprintf("tuple field %d has no target name", index))
		}
		name = tupleElementNames[index]
	}
	return &ast.DotExpression{
		LeftExpression:  tuple,
		RightExpression: &ast.DeclarationReferenceExpression{Identifier: name, TypeName: typeOf(node)},
	}, nil
}

// translateOpenExistential binds the opened value for the body, which
// refers to it through opaque value expressions.
func (t *Translator) translateOpenExistential(node *common.Node) (ast.Expression, error) {
	if len(node.Children) < 2 {
		return t.errorExpression(node, "malformed open existential")
	}
	opened := node.Children[0]
	if opened.Name == "Opaque Value Expression" && len(node.Children) >= 3 {
		opened = node.Children[1]
	}
	value, err := t.translateExpression(opened)
	if err != nil {
		return nil, err
	}
	saved := t.opaqueValue
	t.opaqueValue = value
	defer func() { t.opaqueValue = saved }()
	return t.translateExpression(node.ChildAt(-1))
}
