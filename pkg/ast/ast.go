// Package ast holds the typed intermediate tree produced by the translator,
// rewritten by the passes and rendered by the code generator.
package ast

import "github.com/spicery/swift2kt/pkg/common"

// Statement is one of the statement or declaration variants below.
type Statement interface {
	common.PrintableTree
	isStatement()
}

// Expression is one of the expression variants below.
type Expression interface {
	common.PrintableTree
	isExpression()
}

// Module is the translation of one source file.
type Module struct {
	Path         string
	Declarations []Statement
	Statements   []Statement
	IsMainFile   bool
}

func (m *Module) TreeDescription() string { return "Source File" }

func (m *Module) PrintableSubtrees() []common.PrintableTree {
	return []common.PrintableTree{
		statementsBranch("Declarations", m.Declarations),
		statementsBranch("Statements", m.Statements),
	}
}

// LabeledType is a name paired with a type, used for associated values and
// closure parameters.
type LabeledType struct {
	Label    string
	TypeName string
}

// LabeledExpression is a possibly empty label paired with an expression.
type LabeledExpression struct {
	Label      string
	Expression Expression
}

// FunctionParameter is one declared parameter. APILabel is the external
// label when it differs from Label; "_" marks an unlabeled parameter.
type FunctionParameter struct {
	Label    string
	APILabel string
	TypeName string
	Value    Expression // Default value, may be nil
}

// FunctionDeclarationData describes functions, methods, initializers and
// accessors. Passes treat it as a value and rewrite copies of it.
type FunctionDeclarationData struct {
	Prefix       string
	Parameters   []FunctionParameter
	ReturnType   string
	FunctionType string
	GenericTypes []string
	IsImplicit   bool
	IsStatic     bool
	IsMutating   bool
	IsPure       bool
	ExtendsType  string      // Set for members of extensions
	Statements   []Statement // nil when the function has no body
	Access       string
	Annotations  string
}

// VariableDeclarationData describes stored and computed variables.
type VariableDeclarationData struct {
	Identifier  string
	TypeName    string
	Expression  Expression // Initializer, may be nil
	Getter      *FunctionDeclarationData
	Setter      *FunctionDeclarationData
	IsLet       bool
	IsImplicit  bool
	IsStatic    bool
	ExtendsType string
	Annotations string
}

// HasBody reports whether the function declares statements.
func (d FunctionDeclarationData) HasBody() bool {
	return d.Statements != nil
}

// WithStatements returns a copy with the body replaced.
func (d FunctionDeclarationData) WithStatements(statements []Statement) FunctionDeclarationData {
	d.Statements = statements
	return d
}

// WithAccessors returns a copy with the getter and setter replaced.
func (d VariableDeclarationData) WithAccessors(getter *FunctionDeclarationData, setter *FunctionDeclarationData) VariableDeclarationData {
	d.Getter = getter
	d.Setter = setter
	return d
}

// CopyParameters returns an independent copy of the parameter list.
func (d FunctionDeclarationData) CopyParameters() []FunctionParameter {
	return append([]FunctionParameter(nil), d.Parameters...)
}
