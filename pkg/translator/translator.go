// Package translator turns the decoder's raw node tree into the typed
// intermediate tree, dispatching on catalog names.
package translator

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spicery/swift2kt/pkg/ast"
	"github.com/spicery/swift2kt/pkg/common"
	"github.com/spicery/swift2kt/pkg/diag"
	"github.com/spicery/swift2kt/pkg/source"
)

// errorIdentifier marks a pattern binding whose pattern failed to translate;
// it is consumed by whichever variable declaration comes next.
const errorIdentifier = "<<Error>>"

// danglingBinding is an initializer waiting for its variable declaration.
type danglingBinding struct {
	Identifier string
	TypeName   string
	Expression ast.Expression
}

// Translator translates the dump of one source file. It is not safe for
// concurrent use; create one per file.
type Translator struct {
	sink             *diag.Sink
	file             *source.SourceFile
	logger           *slog.Logger
	danglingBindings common.List[danglingBinding]
	isMainFile       bool
	opaqueValue      ast.Expression // Bound while translating an opened existential
}

func New(sink *diag.Sink, file *source.SourceFile, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Translator{sink: sink, file: file, logger: logger}
}

// Translate converts a "Source File" node. Top-level code, and in the main
// file the file-level variables, become statements; the rest declarations.
// The returned error is non-nil only when the file must be abandoned.
func (t *Translator) Translate(root *common.Node, isMainFile bool) (*ast.Module, error) {
	t.isMainFile = isMainFile
	module := &ast.Module{Path: t.path(), IsMainFile: isMainFile}

	if root.Name != "Source File" {
		if err := t.unexpected(root, "expected a Source File node"); err != nil {
			return nil, err
		}
		return module, nil
	}

	lastLine := 0
	for _, child := range root.Children {
		start, end, hasRange := t.lineSpan(child)
		if hasRange {
			t.spliceComments(module, lastLine, start)
		}

		if child.Name == "Top Level Code Declaration" {
			statements, err := t.translateTopLevelCode(child)
			if err != nil {
				return nil, err
			}
			module.Statements = append(module.Statements, statements...)
		} else {
			statements, err := t.translateStatement(child)
			if err != nil {
				return nil, err
			}
			for _, statement := range statements {
				if t.isMainFile && isMainStatement(statement) {
					module.Statements = append(module.Statements, statement)
				} else {
					module.Declarations = append(module.Declarations, statement)
				}
			}
		}

		if hasRange && end > lastLine {
			lastLine = end
		}
	}
	if t.file != nil {
		t.spliceComments(module, lastLine, t.file.LineCount()+1)
	}

	t.logger.Debug("translated file",
		slog.String("file", module.Path),
		slog.Int("declarations", len(module.Declarations)),
		slog.Int("statements", len(module.Statements)))
	return module, nil
}

// isMainStatement is true for what runs inside the entry point.
func isMainStatement(statement ast.Statement) bool {
	switch s := statement.(type) {
	case *ast.ClassDeclaration, *ast.StructDeclaration, *ast.EnumDeclaration,
		*ast.ProtocolDeclaration, *ast.FunctionDeclaration, *ast.TypealiasDeclaration,
		*ast.ImportDeclaration, *ast.CompanionObject:
		return false
	case *ast.ExpressionStatement:
		_, isDeclaration := s.Expression.(*ast.LiteralDeclarationExpression)
		return !isDeclaration
	case *ast.VariableDeclaration:
		return s.Data.ExtendsType == ""
	default:
		return true
	}
}

func (t *Translator) spliceComments(module *ast.Module, after int, before int) {
	for _, statement := range t.commentStatements(after, before) {
		if t.isMainFile && isMainStatement(statement) {
			module.Statements = append(module.Statements, statement)
		} else {
			module.Declarations = append(module.Declarations, statement)
		}
	}
}

func (t *Translator) translateTopLevelCode(node *common.Node) ([]ast.Statement, error) {
	brace := node.Child("Brace Statement")
	if brace == nil {
		return nil, t.unexpected(node, "top level code without a brace statement")
	}
	return t.translateBraceStatement(brace)
}

func (t *Translator) path() string {
	if t.file == nil {
		return ""
	}
	return t.file.Path
}

// lineSpan returns the first and last source lines of a node.
func (t *Translator) lineSpan(node *common.Node) (int, int, bool) {
	r, ok := node.RangeRecursively()
	if !ok {
		return 0, 0, false
	}
	return r.LineStart, r.LineEnd, true
}

// commentStatements turns the reserved comments strictly between two lines
// into literal code and literal declaration statements.
func (t *Translator) commentStatements(after int, before int) []ast.Statement {
	if t.file == nil {
		return nil
	}
	var result []ast.Statement
	for _, comment := range t.file.CommentsBetween(after, before) {
		switch comment.Key {
		case source.CommentInsert:
			result = append(result, &ast.ExpressionStatement{Expression: &ast.LiteralCodeExpression{String: comment.Value}})
		case source.CommentDeclaration:
			result = append(result, &ast.ExpressionStatement{Expression: &ast.LiteralDeclarationExpression{String: comment.Value}})
		}
	}
	return result
}

// translateSubtrees translates a lexical scope's children in order and
// splices the reserved comments found in the gaps between them. scope is
// the line span of the enclosing braces.
func (t *Translator) translateSubtrees(children []*common.Node, scopeStart int, scopeEnd int) ([]ast.Statement, error) {
	var result []ast.Statement
	lastLine := scopeStart
	for _, child := range children {
		start, end, hasRange := t.lineSpan(child)
		if hasRange {
			result = append(result, t.commentStatements(lastLine, start)...)
		}
		statements, err := t.translateStatement(child)
		if err != nil {
			return nil, err
		}
		result = append(result, statements...)
		if hasRange && end > lastLine {
			lastLine = end
		}
	}
	if scopeEnd > 0 {
		result = append(result, t.commentStatements(lastLine, scopeEnd)...)
	}
	return result, nil
}

// translateBraceStatement translates the statements of a block.
func (t *Translator) translateBraceStatement(node *common.Node) ([]ast.Statement, error) {
	if node.Name != "Brace Statement" {
		return nil, t.unexpected(node, "expected a Brace Statement")
	}
	start, end := 0, 0
	if r, ok := node.Range(); ok {
		start, end = r.LineStart, r.LineEnd
	}
	statements, err := t.translateSubtrees(node.Children, start, end)
	if err != nil {
		return nil, err
	}
	if statements == nil {
		statements = []ast.Statement{}
	}
	return statements, nil
}

// unexpected records a structural error against node and returns the error
// only when the pipeline must stop.
func (t *Translator) unexpected(node *common.Node, message string) error {
	structural := &diag.StructuralError{Path: t.path(), Message: message, Node: node}
	if node != nil {
		if r, ok := node.RangeRecursively(); ok {
			structural.Range = &r
		}
		structural.Message = fmt.Sprintf("%s (in %s)", message, node.Name)
	}
	t.logger.Debug("unexpected structure", slog.String("file", t.path()), slog.String("message", structural.Message))
	return t.sink.Record(structural)
}

// fatal records an error that always abandons the file.
func (t *Translator) fatal(node *common.Node, message string) error {
	fatal := &diag.FatalError{StructuralError: diag.StructuralError{Path: t.path(), Message: message, Node: node}}
	if r, ok := node.RangeRecursively(); ok {
		fatal.Range = &r
	}
	return t.sink.RecordFatal(fatal)
}

// errorStatement records the error and returns the sentinel in its place.
func (t *Translator) errorStatement(node *common.Node, message string) ([]ast.Statement, error) {
	if err := t.unexpected(node, message); err != nil {
		return nil, err
	}
	return []ast.Statement{&ast.ErrorStatement{}}, nil
}

// errorExpression records the error and returns the sentinel in its place.
func (t *Translator) errorExpression(node *common.Node, message string) (ast.Expression, error) {
	if err := t.unexpected(node, message); err != nil {
		return nil, err
	}
	return &ast.ErrorExpression{}, nil
}

// translateStatement dispatches on the catalog name. A statement node may
// translate to zero, one or several statements.
func (t *Translator) translateStatement(node *common.Node) ([]ast.Statement, error) {
	switch node.Name {
	case "Top Level Code Declaration":
		return t.translateTopLevelCode(node)
	case "Import Declaration":
		return []ast.Statement{&ast.ImportDeclaration{ModuleName: nameOf(node)}}, nil
	case "Typealias":
		return t.translateTypealias(node)
	case "Class Declaration":
		return t.translateClassDeclaration(node)
	case "Struct Declaration":
		return t.translateStructDeclaration(node)
	case "Protocol", "Protocol Declaration":
		return t.translateProtocolDeclaration(node)
	case "Enum Declaration":
		return t.translateEnumDeclaration(node)
	case "Extension Declaration":
		return t.translateExtensionDeclaration(node)
	case "Function Declaration", "Constructor Declaration":
		return t.translateFunctionDeclaration(node)
	case "Destructor Declaration", "Enum Case Declaration", "Accessor Declaration",
		"Generic Type Parameter", "Associated Type Declaration", "Operator Declaration",
		"Precedence Group Declaration", "Infix Operator Declaration", "Prefix Operator Declaration",
		"Postfix Operator Declaration":
		return nil, nil
	case "Variable Declaration":
		return t.translateVariableDeclaration(node)
	case "Pattern Binding Declaration":
		return nil, t.processPatternBindingDeclaration(node)
	case "Brace Statement":
		return t.translateBraceStatement(node)
	case "If Statement", "Guard Statement":
		return t.translateIfStatement(node)
	case "Switch Statement":
		return t.translateSwitchStatement(node)
	case "For Each Statement":
		return t.translateForEachStatement(node)
	case "While Statement":
		return t.translateWhileStatement(node)
	case "Do Statement":
		return t.translateDoStatement(node)
	case "Do Catch Statement":
		return t.translateDoCatchStatement(node)
	case "Defer Statement":
		return t.translateDeferStatement(node)
	case "Throw Statement":
		return t.translateThrowStatement(node)
	case "Return Statement":
		return t.translateReturnStatement(node)
	case "Fail Statement":
		return []ast.Statement{&ast.ReturnStatement{Expression: &ast.NilLiteralExpression{}}}, nil
	case "Break Statement":
		return []ast.Statement{&ast.BreakStatement{}}, nil
	case "Continue Statement":
		return []ast.Statement{&ast.ContinueStatement{}}, nil
	case "Assign Expression":
		return t.translateAssignExpression(node)
	}

	if strings.HasSuffix(node.Name, "Expression") {
		expression, err := t.translateExpression(node)
		if err != nil {
			return nil, err
		}
		return []ast.Statement{&ast.ExpressionStatement{Expression: expression}}, nil
	}
	return t.errorStatement(node, "unknown statement")
}
