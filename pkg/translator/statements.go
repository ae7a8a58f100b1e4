package translator

import (
	"strconv"
	"strings"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/common"
)

// enumPattern is the decomposition of an enum element pattern matched
// against subject: a type check, literal comparisons of associated values
// and bindings of the remaining ones.
type enumPattern struct {
	check        ast.Expression
	comparisons  []ast.Expression
	declarations []ast.VariableDeclarationData
}

func isPattern(node *common.Node) bool {
	return strings.HasPrefix(node.Name, "Pattern")
}

// unwrapLet strips "Pattern Let" and "Pattern Variable" wrappers.
func unwrapLet(pattern *common.Node) *common.Node {
	for pattern != nil && (pattern.Name == "Pattern Let" || pattern.Name == "Pattern Variable") && len(pattern.Children) > 0 {
		pattern = pattern.Children[0]
	}
	return pattern
}

// enumCaseType turns the standalone of an enum element pattern into the
// name of the case type, e.g. ".b" with type "E" into "E.b".
func enumCaseType(pattern *common.Node) (string, string) {
	caseName := ""
	for _, attribute := range pattern.StandaloneAttributes {
		if attribute != common.ValueImplicit {
			caseName = attribute
		}
	}
	typeName := strings.TrimSuffix(typeOf(pattern), "?")
	elementName := caseName
	if i := strings.LastIndex(caseName, "."); i >= 0 {
		elementName = caseName[i+1:]
	}
	elementName = functionPrefix(elementName)
	if typeName == "" {
		return strings.TrimPrefix(caseName, "."), elementName
	}
	return typeName + "." + elementName, elementName
}

// translateEnumPattern decomposes a "Pattern Enum Element".
func (t *Translator) translateEnumPattern(pattern *common.Node, subject ast.Expression) (*enumPattern, error) {
	caseType, _ := enumCaseType(pattern)
	result := &enumPattern{
		check: &ast.BinaryOperatorExpression{
			LeftExpression:  subject,
			RightExpression: &ast.TypeExpression{TypeName: caseType},
			OperatorSymbol:  "is",
			TypeName:        "Bool",
		},
	}
	if len(pattern.Children) == 0 {
		return result, nil
	}

	inner := unwrapLet(pattern.Children[0])
	var subpatterns []*common.Node
	var labels []string
	switch inner.Name {
	case "Pattern Tuple":
		subpatterns = inner.Children
		for _, element := range tupleElements(typeOf(inner)) {
			label, _ := labeledElement(element)
			labels = append(labels, label)
		}
	case "Pattern Parentheses":
		subpatterns = inner.Children
		label, _ := labeledElement(ast.StripOuterParentheses(typeOf(inner)))
		labels = []string{label}
	default:
		subpatterns = []*common.Node{inner}
	}

	unlabeled := 0
	for i, subpattern := range subpatterns {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		if label == "" {
			unlabeled++
			label = "value"
			if unlabeled > 1 {
				label = "value" + strconv.Itoa(unlabeled)
			}
		}
		subpattern = unwrapLet(subpattern)
		member := &ast.DotExpression{
			LeftExpression:  subject,
			RightExpression: &ast.DeclarationReferenceExpression{Identifier: label, TypeName: typeOf(subpattern)},
		}

		switch subpattern.Name {
		case "Pattern Named":
			result.declarations = append(result.declarations, ast.VariableDeclarationData{
				Identifier: nameOf(subpattern),
				TypeName:   typeOf(subpattern),
				Expression: member,
				IsLet:      true,
			})
		case "Pattern Expression":
			value, err := t.patternExpression(subpattern)
			if err != nil {
				return nil, err
			}
			result.comparisons = append(result.comparisons, &ast.BinaryOperatorExpression{
				LeftExpression:  member,
				RightExpression: value,
				OperatorSymbol:  "==",
				TypeName:        "Bool",
			})
		case "Pattern Any":
		default:
			if err := t.unexpected(subpattern, "unsupported associated value pattern"); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// patternExpression reads the value of a "Pattern Expression". Matches
// written with "~=" compare against the first operand.
func (t *Translator) patternExpression(pattern *common.Node) (ast.Expression, error) {
	if len(pattern.Children) == 0 {
		return t.errorExpression(pattern, "empty pattern expression")
	}
	child := pattern.Children[0]
	if child.Name == "Binary Expression" {
		expression, err := t.translateExpression(child)
		if err != nil {
			return nil, err
		}
		if binary, ok := expression.(*ast.BinaryOperatorExpression); ok && binary.OperatorSymbol == "~=" {
			return binary.LeftExpression, nil
		}
		return expression, nil
	}
	return t.translateExpression(child)
}

func (t *Translator) translateIfStatement(node *common.Node) ([]ast.Statement, error) {
	data, err := t.ifStatementData(node)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []ast.Statement{&ast.ErrorStatement{}}, nil
	}
	return []ast.Statement{&ast.IfStatement{Data: *data}}, nil
}

// ifStatementData reads conditions up to the first brace, then the body
// and an optional else branch. Guards keep their else body as Statements.
func (t *Translator) ifStatementData(node *common.Node) (*ast.IfStatementData, error) {
	if node.Name != "If Statement" && node.Name != "Guard Statement" {
		return nil, t.unexpected(node, "expected an if or guard statement")
	}
	data := &ast.IfStatementData{IsGuard: node.Name == "Guard Statement"}

	braceIndex := -1
	for i, child := range node.Children {
		if child.Name == "Brace Statement" {
			braceIndex = i
			break
		}
	}
	if braceIndex < 0 {
		if err := t.unexpected(node, "if statement without a body"); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var conditionNodes []*common.Node
	for _, child := range node.Children[:braceIndex] {
		if child.Name == "Statement Condition" {
			conditionNodes = append(conditionNodes, child.Children...)
		} else {
			conditionNodes = append(conditionNodes, child)
		}
	}
	for i := 0; i < len(conditionNodes); i++ {
		child := conditionNodes[i]
		if !isPattern(child) {
			expression, err := t.translateExpression(child)
			if err != nil {
				return nil, err
			}
			data.Conditions = append(data.Conditions, &ast.ConditionExpression{Expression: expression})
			continue
		}

		if i+1 >= len(conditionNodes) {
			if err := t.unexpected(child, "pattern condition without a subject"); err != nil {
				return nil, err
			}
			break
		}
		subject, err := t.translateExpression(conditionNodes[i+1])
		if err != nil {
			return nil, err
		}
		i++

		if enumElement := child.Find("Pattern Enum Element"); enumElement != nil {
			decomposed, err := t.translateEnumPattern(enumElement, subject)
			if err != nil {
				return nil, err
			}
			data.Conditions = append(data.Conditions, &ast.ConditionExpression{Expression: decomposed.check})
			for _, comparison := range decomposed.comparisons {
				data.Conditions = append(data.Conditions, &ast.ConditionExpression{Expression: comparison})
			}
			data.Declarations = append(data.Declarations, decomposed.declarations...)
			continue
		}

		if child.Find("Pattern Optional Some") != nil || unwrapLet(child).Name == "Pattern Named" {
			named := child.Find("Pattern Named")
			if named == nil {
				if err := t.unexpected(child, "optional binding without a name"); err != nil {
					return nil, err
				}
				continue
			}
			data.Conditions = append(data.Conditions, &ast.ConditionDeclaration{Data: ast.VariableDeclarationData{
				Identifier: nameOf(named),
				TypeName:   typeOf(named),
				Expression: subject,
				IsLet:      child.Find("Pattern Variable") == nil,
			}})
			continue
		}

		if unwrapLet(child).Name == "Pattern Expression" {
			value, err := t.patternExpression(unwrapLet(child))
			if err != nil {
				return nil, err
			}
			data.Conditions = append(data.Conditions, &ast.ConditionExpression{Expression: &ast.BinaryOperatorExpression{
				LeftExpression:  subject,
				RightExpression: value,
				OperatorSymbol:  "==",
				TypeName:        "Bool",
			}})
			continue
		}

		if err := t.unexpected(child, "unsupported pattern in condition"); err != nil {
			return nil, err
		}
	}

	statements, err := t.translateBraceStatement(node.Children[braceIndex])
	if err != nil {
		return nil, err
	}
	data.Statements = statements

	if braceIndex+1 < len(node.Children) && !data.IsGuard {
		elseNode := node.Children[braceIndex+1]
		switch elseNode.Name {
		case "Brace Statement":
			elseStatements, err := t.translateBraceStatement(elseNode)
			if err != nil {
				return nil, err
			}
			data.ElseStatement = &ast.IfStatementData{Statements: elseStatements}
		case "If Statement":
			elseData, err := t.ifStatementData(elseNode)
			if err != nil {
				return nil, err
			}
			data.ElseStatement = elseData
		default:
			if err := t.unexpected(elseNode, "unexpected else branch"); err != nil {
				return nil, err
			}
		}
	}
	return data, nil
}

func (t *Translator) translateSwitchStatement(node *common.Node) ([]ast.Statement, error) {
	if len(node.Children) == 0 {
		return t.errorStatement(node, "switch without a subject")
	}
	subject, err := t.translateExpression(node.Children[0])
	if err != nil {
		return nil, err
	}

	statement := &ast.SwitchStatement{Expression: subject}
	for _, caseNode := range node.ChildrenNamed("Case Statement") {
		switchCase, err := t.translateCase(caseNode, subject)
		if err != nil {
			return nil, err
		}
		statement.Cases = append(statement.Cases, switchCase)
	}
	return []ast.Statement{statement}, nil
}

// translateCase reads one case. Enum element patterns turn into type
// checks with their bindings prepended to the body; literal comparisons of
// associated values cannot be expressed and abandon the file.
func (t *Translator) translateCase(node *common.Node, subject ast.Expression) (ast.SwitchCase, error) {
	var result ast.SwitchCase
	var prelude []ast.Statement
	isDefault := node.HasStandalone(common.ValueDefault)

	for _, item := range node.ChildrenNamed("Case Label Item") {
		if item.HasStandalone(common.ValueDefault) || len(item.Children) == 0 {
			isDefault = true
			continue
		}
		pattern := unwrapLet(item.Children[0])
		switch {
		case pattern.Name == "Pattern Any":
			isDefault = true
		case pattern.Name == "Pattern Named":
			isDefault = true
			prelude = append(prelude, &ast.VariableDeclaration{Data: ast.VariableDeclarationData{
				Identifier: nameOf(pattern),
				TypeName:   typeOf(pattern),
				Expression: subject,
				IsLet:      true,
			}})
		case pattern.Name == "Pattern Expression":
			value, err := t.patternExpression(pattern)
			if err != nil {
				return result, err
			}
			result.Expressions = append(result.Expressions, value)
		case pattern.Name == "Pattern Is":
			castType := pattern.Standalone(len(pattern.StandaloneAttributes) - 1)
			result.Expressions = append(result.Expressions, &ast.BinaryOperatorExpression{
				LeftExpression:  subject,
				RightExpression: &ast.TypeExpression{TypeName: castType},
				OperatorSymbol:  "is",
				TypeName:        "Bool",
			})
		case pattern.Find("Pattern Enum Element") != nil:
			decomposed, err := t.translateEnumPattern(pattern.Find("Pattern Enum Element"), subject)
			if err != nil {
				return result, err
			}
			if len(decomposed.comparisons) > 0 {
				return result, t.fatal(pattern, "comparisons of associated values are not supported in switch cases")
			}
			result.Expressions = append(result.Expressions, decomposed.check)
			for _, declaration := range decomposed.declarations {
				prelude = append(prelude, &ast.VariableDeclaration{Data: declaration})
			}
		default:
			if err := t.unexpected(pattern, "unsupported pattern in case"); err != nil {
				return result, err
			}
			result.Expressions = append(result.Expressions, &ast.ErrorExpression{})
		}
	}
	if isDefault {
		result.Expressions = nil
	}

	body := node.Child("Brace Statement")
	statements := []ast.Statement{}
	if body != nil {
		translated, err := t.translateBraceStatement(body)
		if err != nil {
			return result, err
		}
		statements = translated
	}
	result.Statements = append(prelude, statements...)
	return result, nil
}

func (t *Translator) translateForEachStatement(node *common.Node) ([]ast.Statement, error) {
	var pattern, collection, body *common.Node
	for _, child := range node.Children {
		switch {
		case isPattern(child) && pattern == nil:
			pattern = child
		case child.Name == "Brace Statement":
			body = child
		case strings.HasSuffix(child.Name, "Expression") && collection == nil:
			collection = child
		}
	}
	if pattern == nil || collection == nil || body == nil {
		return t.errorStatement(node, "malformed for each statement")
	}

	variable, err := t.loopVariable(pattern)
	if err != nil {
		return nil, err
	}
	translatedCollection, err := t.translateExpression(collection)
	if err != nil {
		return nil, err
	}
	statements, err := t.translateBraceStatement(body)
	if err != nil {
		return nil, err
	}
	return []ast.Statement{&ast.ForEachStatement{
		Collection: translatedCollection,
		Variable:   variable,
		Statements: statements,
	}}, nil
}

func (t *Translator) loopVariable(pattern *common.Node) (ast.Expression, error) {
	pattern = unwrapLet(pattern)
	switch pattern.Name {
	case "Pattern Named":
		return &ast.DeclarationReferenceExpression{Identifier: nameOf(pattern), TypeName: typeOf(pattern)}, nil
	case "Pattern Any":
		return &ast.DeclarationReferenceExpression{Identifier: "_", TypeName: typeOf(pattern)}, nil
	case "Pattern Tuple":
		tuple := &ast.TupleExpression{}
		for _, element := range pattern.Children {
			variable, err := t.loopVariable(element)
			if err != nil {
				return nil, err
			}
			tuple.Pairs = append(tuple.Pairs, ast.LabeledExpression{Expression: variable})
		}
		return tuple, nil
	case "Pattern Typed":
		if len(pattern.Children) > 0 {
			return t.loopVariable(pattern.Children[0])
		}
	}
	return t.errorExpression(pattern, "unsupported loop pattern")
}

func (t *Translator) translateWhileStatement(node *common.Node) ([]ast.Statement, error) {
	if len(node.Children) < 2 {
		return t.errorStatement(node, "malformed while statement")
	}
	condition, err := t.translateExpression(node.Children[0])
	if err != nil {
		return nil, err
	}
	statements, err := t.translateBraceStatement(node.ChildAt(-1))
	if err != nil {
		return nil, err
	}
	return []ast.Statement{&ast.WhileStatement{Expression: condition, Statements: statements}}, nil
}

func (t *Translator) translateDoStatement(node *common.Node) ([]ast.Statement, error) {
	brace := node.Child("Brace Statement")
	if brace == nil {
		return t.errorStatement(node, "do statement without a body")
	}
	statements, err := t.translateBraceStatement(brace)
	if err != nil {
		return nil, err
	}
	return []ast.Statement{&ast.DoStatement{Statements: statements}}, nil
}

// translateDoCatchStatement emits the do block followed by one catch
// statement per clause.
func (t *Translator) translateDoCatchStatement(node *common.Node) ([]ast.Statement, error) {
	result, err := t.translateDoStatement(node)
	if err != nil {
		return nil, err
	}
	for _, catchNode := range node.ChildrenNamed("Catch Statement") {
		catch := &ast.CatchStatement{}
		for _, child := range catchNode.Children {
			if !isPattern(child) {
				continue
			}
			variable, err := t.catchVariable(child)
			if err != nil {
				return nil, err
			}
			catch.Variable = variable
			break
		}
		brace := catchNode.Child("Brace Statement")
		if brace == nil {
			return t.errorStatement(catchNode, "catch statement without a body")
		}
		statements, err := t.translateBraceStatement(brace)
		if err != nil {
			return nil, err
		}
		catch.Statements = statements
		result = append(result, catch)
	}
	return result, nil
}

func (t *Translator) catchVariable(pattern *common.Node) (*ast.VariableDeclarationData, error) {
	pattern = unwrapLet(pattern)
	switch pattern.Name {
	case "Pattern Named":
		return &ast.VariableDeclarationData{Identifier: nameOf(pattern), TypeName: "Error", IsLet: true}, nil
	case "Pattern Is":
		castType := pattern.Standalone(len(pattern.StandaloneAttributes) - 1)
		named := pattern.Find("Pattern Named")
		identifier := "_error"
		if named != nil {
			identifier = nameOf(named)
		}
		return &ast.VariableDeclarationData{Identifier: identifier, TypeName: castType, IsLet: true}, nil
	case "Pattern Any":
		return nil, nil
	}
	if err := t.unexpected(pattern, "unsupported catch pattern"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (t *Translator) translateDeferStatement(node *common.Node) ([]ast.Statement, error) {
	brace := node.Find("Brace Statement")
	if brace == nil {
		return t.errorStatement(node, "defer statement without a body")
	}
	statements, err := t.translateBraceStatement(brace)
	if err != nil {
		return nil, err
	}
	return []ast.Statement{&ast.DeferStatement{Statements: statements}}, nil
}

func (t *Translator) translateThrowStatement(node *common.Node) ([]ast.Statement, error) {
	if len(node.Children) == 0 {
		return t.errorStatement(node, "throw statement without an expression")
	}
	expression, err := t.translateExpression(node.ChildAt(-1))
	if err != nil {
		return nil, err
	}
	return []ast.Statement{&ast.ThrowStatement{Expression: expression}}, nil
}

func (t *Translator) translateReturnStatement(node *common.Node) ([]ast.Statement, error) {
	if len(node.Children) == 0 {
		return []ast.Statement{&ast.ReturnStatement{}}, nil
	}
	expression, err := t.translateExpression(node.ChildAt(-1))
	if err != nil {
		return nil, err
	}
	return []ast.Statement{&ast.ReturnStatement{Expression: expression}}, nil
}

// translateAssignExpression turns "_ = f()" into a plain expression
// statement.
func (t *Translator) translateAssignExpression(node *common.Node) ([]ast.Statement, error) {
	if len(node.Children) != 2 {
		return t.errorStatement(node, "assignment without two operands")
	}
	rightHand, err := t.translateExpression(node.Children[1])
	if err != nil {
		return nil, err
	}
	if node.Children[0].Name == "Discard Assignment Expression" {
		return []ast.Statement{&ast.ExpressionStatement{Expression: rightHand}}, nil
	}
	leftHand, err := t.translateExpression(node.Children[0])
	if err != nil {
		return nil, err
	}
	return []ast.Statement{&ast.AssignmentStatement{LeftHand: leftHand, RightHand: rightHand}}, nil
}
