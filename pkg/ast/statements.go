package ast

import (
	"strings"

	"github.com/spicery/swift2kt/pkg/common"
)

type ImportDeclaration struct {
	ModuleName string
}

type TypealiasDeclaration struct {
	Identifier string
	TypeName   string
	IsImplicit bool
}

type ClassDeclaration struct {
	ClassName string
	Inherits  []string
	Members   []Statement
}

type StructDeclaration struct {
	Annotations string
	StructName  string
	Inherits    []string
	Members     []Statement
}

// CompanionObject gathers the static members of a type.
type CompanionObject struct {
	Members []Statement
}

type EnumElement struct {
	Name             string
	AssociatedValues []LabeledType
	RawValue         Expression // may be nil
	Annotations      string
}

type EnumDeclaration struct {
	Access     string
	EnumName   string
	Inherits   []string
	Elements   []*EnumElement
	Members    []Statement
	IsImplicit bool
}

type ProtocolDeclaration struct {
	ProtocolName string
	Members      []Statement
}

type FunctionDeclaration struct {
	Data FunctionDeclarationData
}

type VariableDeclaration struct {
	Data VariableDeclarationData
}

type DoStatement struct {
	Statements []Statement
}

type CatchStatement struct {
	Variable   *VariableDeclarationData // may be nil for a bare catch
	Statements []Statement
}

type ForEachStatement struct {
	Collection Expression
	Variable   Expression
	Statements []Statement
}

type WhileStatement struct {
	Expression Expression
	Statements []Statement
}

type IfStatement struct {
	Data IfStatementData
}

// IfCondition is either a ConditionExpression or a ConditionDeclaration.
type IfCondition interface {
	common.PrintableTree
	isIfCondition()
}

type ConditionExpression struct {
	Expression Expression
}

// ConditionDeclaration binds a variable when an optional has a value.
type ConditionDeclaration struct {
	Data VariableDeclarationData
}

type IfStatementData struct {
	Conditions    []IfCondition
	Declarations  []VariableDeclarationData // Bound before the body runs
	Statements    []Statement
	ElseStatement *IfStatementData
	IsGuard       bool
}

// SwitchCase with no expressions is the default case.
type SwitchCase struct {
	Expressions []Expression
	Statements  []Statement
}

type SwitchStatement struct {
	Expression Expression
	Cases      []SwitchCase
}

type DeferStatement struct {
	Statements []Statement
}

type ThrowStatement struct {
	Expression Expression
}

type ReturnStatement struct {
	Expression Expression // may be nil
}

type BreakStatement struct{}

type ContinueStatement struct{}

type AssignmentStatement struct {
	LeftHand  Expression
	RightHand Expression
}

type ExpressionStatement struct {
	Expression Expression
}

// ErrorStatement stands in for a statement that could not be translated.
type ErrorStatement struct{}

func (*ImportDeclaration) isStatement()    {}
func (*TypealiasDeclaration) isStatement() {}
func (*ClassDeclaration) isStatement()     {}
func (*StructDeclaration) isStatement()    {}
func (*CompanionObject) isStatement()      {}
func (*EnumDeclaration) isStatement()      {}
func (*ProtocolDeclaration) isStatement()  {}
func (*FunctionDeclaration) isStatement()  {}
func (*VariableDeclaration) isStatement()  {}
func (*DoStatement) isStatement()          {}
func (*CatchStatement) isStatement()       {}
func (*ForEachStatement) isStatement()     {}
func (*WhileStatement) isStatement()       {}
func (*IfStatement) isStatement()          {}
func (*SwitchStatement) isStatement()      {}
func (*DeferStatement) isStatement()       {}
func (*ThrowStatement) isStatement()       {}
func (*ReturnStatement) isStatement()      {}
func (*BreakStatement) isStatement()       {}
func (*ContinueStatement) isStatement()    {}
func (*AssignmentStatement) isStatement()  {}
func (*ExpressionStatement) isStatement()  {}
func (*ErrorStatement) isStatement()       {}

func (*ConditionExpression) isIfCondition()  {}
func (*ConditionDeclaration) isIfCondition() {}

// Printing

func (s *ImportDeclaration) TreeDescription() string { return "Import Declaration" }
func (s *ImportDeclaration) PrintableSubtrees() []common.PrintableTree {
	return leaves(s.ModuleName)
}

func (s *TypealiasDeclaration) TreeDescription() string { return "Typealias Declaration" }
func (s *TypealiasDeclaration) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.PrintableLeaf(s.Identifier),
		common.PrintableLeaf(s.TypeName),
		flag(s.IsImplicit, "implicit"),
	)
}

func (s *ClassDeclaration) TreeDescription() string { return "Class Declaration" }
func (s *ClassDeclaration) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.PrintableLeaf(s.ClassName),
		stringsBranch("Inherits", s.Inherits),
		statementsBranch("Members", s.Members),
	)
}

func (s *StructDeclaration) TreeDescription() string { return "Struct Declaration" }
func (s *StructDeclaration) PrintableSubtrees() []common.PrintableTree {
	return compact(
		optionalLeaf("annotations", s.Annotations),
		common.PrintableLeaf(s.StructName),
		stringsBranch("Inherits", s.Inherits),
		statementsBranch("Members", s.Members),
	)
}

func (s *CompanionObject) TreeDescription() string { return "Companion Object" }
func (s *CompanionObject) PrintableSubtrees() []common.PrintableTree {
	return statementsBranch("Members", s.Members).PrintableSubtrees()
}

func (e *EnumElement) TreeDescription() string { return "Enum Element" }
func (e *EnumElement) PrintableSubtrees() []common.PrintableTree {
	values := make([]common.PrintableTree, 0, len(e.AssociatedValues))
	for _, value := range e.AssociatedValues {
		values = append(values, common.PrintableLeaf(value.Label+": "+value.TypeName))
	}
	var rawValue common.PrintableTree
	if e.RawValue != nil {
		rawValue = common.NewBranch("Raw Value", e.RawValue)
	}
	return compact(
		common.PrintableLeaf(e.Name),
		optionalBranch("Associated Values", values),
		rawValue,
		optionalLeaf("annotations", e.Annotations),
	)
}

func (s *EnumDeclaration) TreeDescription() string { return "Enum Declaration" }
func (s *EnumDeclaration) PrintableSubtrees() []common.PrintableTree {
	elements := make([]common.PrintableTree, 0, len(s.Elements))
	for _, element := range s.Elements {
		elements = append(elements, element)
	}
	return compact(
		optionalLeaf("access", s.Access),
		common.PrintableLeaf(s.EnumName),
		stringsBranch("Inherits", s.Inherits),
		common.NewBranch("Elements", elements...),
		statementsBranch("Members", s.Members),
		flag(s.IsImplicit, "implicit"),
	)
}

func (s *ProtocolDeclaration) TreeDescription() string { return "Protocol Declaration" }
func (s *ProtocolDeclaration) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.PrintableLeaf(s.ProtocolName),
		statementsBranch("Members", s.Members),
	)
}

func (s *FunctionDeclaration) TreeDescription() string { return "Function Declaration" }
func (s *FunctionDeclaration) PrintableSubtrees() []common.PrintableTree {
	return s.Data.PrintableSubtrees()
}

func (d FunctionDeclarationData) TreeDescription() string { return "Function Declaration" }
func (d FunctionDeclarationData) PrintableSubtrees() []common.PrintableTree {
	parameters := make([]common.PrintableTree, 0, len(d.Parameters))
	for _, parameter := range d.Parameters {
		label := parameter.Label
		if parameter.APILabel != "" && parameter.APILabel != parameter.Label {
			label = parameter.APILabel + " " + label
		}
		var value common.PrintableTree
		if parameter.Value != nil {
			value = parameter.Value
		}
		parameters = append(parameters, common.NewBranch(label+": "+parameter.TypeName, value))
	}
	var statements common.PrintableTree
	if d.Statements != nil {
		statements = statementsBranch("Statements", d.Statements)
	}
	return compact(
		optionalLeaf("extends type", d.ExtendsType),
		flag(d.IsImplicit, "implicit"),
		flag(d.IsStatic, "static"),
		flag(d.IsMutating, "mutating"),
		flag(d.IsPure, "pure"),
		optionalLeaf("access", d.Access),
		optionalLeaf("annotations", d.Annotations),
		optionalLeaf("generic types", strings.Join(d.GenericTypes, ", ")),
		common.PrintableLeaf(d.Prefix),
		common.NewBranch("Parameters", parameters...),
		common.PrintableLeaf(d.ReturnType),
		statements,
	)
}

func (s *VariableDeclaration) TreeDescription() string { return "Variable Declaration" }
func (s *VariableDeclaration) PrintableSubtrees() []common.PrintableTree {
	return s.Data.PrintableSubtrees()
}

func (d VariableDeclarationData) TreeDescription() string { return "Variable Declaration" }
func (d VariableDeclarationData) PrintableSubtrees() []common.PrintableTree {
	var expression, getter, setter common.PrintableTree
	if d.Expression != nil {
		expression = d.Expression
	}
	if d.Getter != nil {
		getter = common.NewBranch("Getter", d.Getter.PrintableSubtrees()...)
	}
	if d.Setter != nil {
		setter = common.NewBranch("Setter", d.Setter.PrintableSubtrees()...)
	}
	return compact(
		optionalLeaf("extends type", d.ExtendsType),
		flag(d.IsImplicit, "implicit"),
		flag(d.IsStatic, "static"),
		flag(d.IsLet, "let"),
		optionalLeaf("annotations", d.Annotations),
		common.PrintableLeaf(d.Identifier),
		common.PrintableLeaf(d.TypeName),
		expression,
		getter,
		setter,
	)
}

func (s *DoStatement) TreeDescription() string { return "Do Statement" }
func (s *DoStatement) PrintableSubtrees() []common.PrintableTree {
	return statementTrees(s.Statements)
}

func (s *CatchStatement) TreeDescription() string { return "Catch Statement" }
func (s *CatchStatement) PrintableSubtrees() []common.PrintableTree {
	var variable common.PrintableTree
	if s.Variable != nil {
		variable = common.NewBranch("Variable", s.Variable.PrintableSubtrees()...)
	}
	return compact(variable, statementsBranch("Statements", s.Statements))
}

func (s *ForEachStatement) TreeDescription() string { return "For Each Statement" }
func (s *ForEachStatement) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.NewBranch("Variable", s.Variable),
		common.NewBranch("Collection", s.Collection),
		statementsBranch("Statements", s.Statements),
	)
}

func (s *WhileStatement) TreeDescription() string { return "While Statement" }
func (s *WhileStatement) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.NewBranch("Expression", s.Expression),
		statementsBranch("Statements", s.Statements),
	)
}

func (s *IfStatement) TreeDescription() string { return s.Data.TreeDescription() }
func (s *IfStatement) PrintableSubtrees() []common.PrintableTree {
	return s.Data.PrintableSubtrees()
}

func (d *IfStatementData) TreeDescription() string {
	if d.IsGuard {
		return "Guard Statement"
	}
	return "If Statement"
}

func (d *IfStatementData) PrintableSubtrees() []common.PrintableTree {
	conditions := make([]common.PrintableTree, 0, len(d.Conditions))
	for _, condition := range d.Conditions {
		conditions = append(conditions, condition)
	}
	declarations := make([]common.PrintableTree, 0, len(d.Declarations))
	for _, declaration := range d.Declarations {
		declarations = append(declarations, declaration)
	}
	var elseStatement common.PrintableTree
	if d.ElseStatement != nil {
		elseStatement = common.NewBranch("Else", d.ElseStatement)
	}
	return compact(
		optionalBranch("Declarations", declarations),
		common.NewBranch("Conditions", conditions...),
		statementsBranch("Statements", d.Statements),
		elseStatement,
	)
}

func (c *ConditionExpression) TreeDescription() string { return "Condition" }
func (c *ConditionExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(c.Expression)
}

func (c *ConditionDeclaration) TreeDescription() string { return "Declaration" }
func (c *ConditionDeclaration) PrintableSubtrees() []common.PrintableTree {
	return c.Data.PrintableSubtrees()
}

func (s *SwitchStatement) TreeDescription() string { return "Switch Statement" }
func (s *SwitchStatement) PrintableSubtrees() []common.PrintableTree {
	cases := make([]common.PrintableTree, 0, len(s.Cases))
	for _, switchCase := range s.Cases {
		label := "Case"
		expressions := make([]common.PrintableTree, 0, len(switchCase.Expressions))
		for _, expression := range switchCase.Expressions {
			expressions = append(expressions, expression)
		}
		if len(expressions) == 0 {
			label = "Default"
		}
		cases = append(cases, common.NewBranch(label,
			optionalBranch("Expressions", expressions),
			statementsBranch("Statements", switchCase.Statements),
		))
	}
	return compact(
		common.NewBranch("Expression", s.Expression),
		common.NewBranch("Cases", cases...),
	)
}

func (s *DeferStatement) TreeDescription() string { return "Defer Statement" }
func (s *DeferStatement) PrintableSubtrees() []common.PrintableTree {
	return statementTrees(s.Statements)
}

func (s *ThrowStatement) TreeDescription() string { return "Throw Statement" }
func (s *ThrowStatement) PrintableSubtrees() []common.PrintableTree {
	return compact(s.Expression)
}

func (s *ReturnStatement) TreeDescription() string { return "Return Statement" }
func (s *ReturnStatement) PrintableSubtrees() []common.PrintableTree {
	if s.Expression == nil {
		return nil
	}
	return compact(s.Expression)
}

func (s *BreakStatement) TreeDescription() string                    { return "Break Statement" }
func (s *BreakStatement) PrintableSubtrees() []common.PrintableTree    { return nil }
func (s *ContinueStatement) TreeDescription() string                 { return "Continue Statement" }
func (s *ContinueStatement) PrintableSubtrees() []common.PrintableTree { return nil }
func (s *ErrorStatement) TreeDescription() string                    { return "Error" }
func (s *ErrorStatement) PrintableSubtrees() []common.PrintableTree    { return nil }

func (s *AssignmentStatement) TreeDescription() string { return "Assignment Statement" }
func (s *AssignmentStatement) PrintableSubtrees() []common.PrintableTree {
	return compact(s.LeftHand, s.RightHand)
}

func (s *ExpressionStatement) TreeDescription() string { return "Expression Statement" }
func (s *ExpressionStatement) PrintableSubtrees() []common.PrintableTree {
	return compact(s.Expression)
}
