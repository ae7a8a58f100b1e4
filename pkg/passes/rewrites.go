package passes

import (
	"strings"

	"github.com/spicery/swift2kt/pkg/ast"
)

// renameNilCoalescing turns Swift's "??" into Kotlin's elvis operator.
func renameNilCoalescing(module *ast.Module) *ast.Module {
	replacer := &Replacer{
		OnExpression: func(r *Replacer, expression ast.Expression, path *Path) (ast.Expression, bool) {
			binary, ok := expression.(*ast.BinaryOperatorExpression)
			if !ok || binary.OperatorSymbol != "??" {
				return nil, false
			}
			result := r.DefaultExpression(binary, path).(*ast.BinaryOperatorExpression)
			result.OperatorSymbol = "?:"
			return result, true
		},
	}
	return replacer.ReplaceModule(module)
}

// removeRedundantParentheses drops parentheses whose parent already
// delimits them: tuple and shuffle elements, interpolated segments,
// conditions, and the branches of a ternary.
func removeRedundantParentheses(module *ast.Module) *ast.Module {
	replacer := &Replacer{
		OnExpression: func(r *Replacer, expression ast.Expression, path *Path) (ast.Expression, bool) {
			parentheses, ok := expression.(*ast.ParenthesesExpression)
			if !ok || !isRedundant(parentheses, path) {
				return nil, false
			}
			return r.ReplaceExpression(parentheses.Expression, path), true
		},
	}
	return replacer.ReplaceModule(module)
}

func isRedundant(parentheses *ast.ParenthesesExpression, path *Path) bool {
	switch parent := path.Immediate().(type) {
	case *ast.TupleExpression, *ast.TupleShuffleExpression,
		*ast.InterpolatedStringLiteralExpression, *ast.ConditionExpression:
		return true
	case *ast.IfExpression:
		return parent.TrueExpression == ast.Expression(parentheses) ||
			parent.FalseExpression == ast.Expression(parentheses)
	case *ast.WhileStatement:
		return parent.Expression == ast.Expression(parentheses)
	}
	return false
}

// removeImplicitDeclarations deletes what the compiler synthesised:
// memberwise and raw-value initializers, raw-value properties and the like.
func removeImplicitDeclarations(module *ast.Module) *ast.Module {
	replacer := &Replacer{
		OnStatement: func(_ *Replacer, statement ast.Statement, _ *Path) ([]ast.Statement, bool) {
			switch s := statement.(type) {
			case *ast.FunctionDeclaration:
				return nil, s.Data.IsImplicit
			case *ast.VariableDeclaration:
				return nil, s.Data.IsImplicit
			case *ast.TypealiasDeclaration:
				return nil, s.IsImplicit
			case *ast.EnumDeclaration:
				return nil, s.IsImplicit
			}
			return nil, false
		},
	}
	return replacer.ReplaceModule(module)
}

// FactoryPrefix names the companion function failable initializers become.
const FactoryPrefix = "invoke"

// replaceFailableInitializers turns "init?" into a static factory that
// returns the value "self = ..." used to assign.
func replaceFailableInitializers(module *ast.Module) *ast.Module {
	replacer := &Replacer{
		OnStatement: func(r *Replacer, statement ast.Statement, path *Path) ([]ast.Statement, bool) {
			function, ok := statement.(*ast.FunctionDeclaration)
			if !ok || function.Data.Prefix != "init" || !ast.IsOptionalType(function.Data.ReturnType) {
				return nil, false
			}
			data := r.ReplaceFunctionData(function.Data, path.push(function))
			data.Prefix = FactoryPrefix
			data.IsStatic = true
			data.Statements = selfAssignmentsToReturns(data.Statements)
			return []ast.Statement{&ast.FunctionDeclaration{Data: data}}, true
		},
	}
	return replacer.ReplaceModule(module)
}

func selfAssignmentsToReturns(statements []ast.Statement) []ast.Statement {
	replacer := &Replacer{
		OnStatement: func(r *Replacer, statement ast.Statement, path *Path) ([]ast.Statement, bool) {
			assignment, ok := statement.(*ast.AssignmentStatement)
			if !ok || !isSelfReference(assignment.LeftHand) {
				return nil, false
			}
			return []ast.Statement{&ast.ReturnStatement{Expression: r.ReplaceExpression(assignment.RightHand, path)}}, true
		},
		// Closures inside the body keep their own returns.
		OnExpression: func(_ *Replacer, expression ast.Expression, _ *Path) (ast.Expression, bool) {
			_, isClosure := expression.(*ast.ClosureExpression)
			return expression, isClosure
		},
		AfterStatements: func(_ *Replacer, statements []ast.Statement, _ *Path) []ast.Statement {
			return removeReturnsAfterReturns(statements)
		},
	}
	return replacer.ReplaceStatements(statements, nil)
}

func isSelfReference(expression ast.Expression) bool {
	reference, ok := expression.(*ast.DeclarationReferenceExpression)
	return ok && reference.Identifier == "self"
}

// removeReturnsAfterReturns drops a bare "return" that directly follows
// another return.
func removeReturnsAfterReturns(statements []ast.Statement) []ast.Statement {
	result := make([]ast.Statement, 0, len(statements))
	for _, statement := range statements {
		if ret, ok := statement.(*ast.ReturnStatement); ok && ret.Expression == nil && len(result) > 0 {
			if _, previous := result[len(result)-1].(*ast.ReturnStatement); previous {
				continue
			}
		}
		result = append(result, statement)
	}
	return result
}

// hoistStaticMembers moves the static members of a type into its companion
// object, creating one when needed.
func hoistStaticMembers(module *ast.Module) *ast.Module {
	replacer := &Replacer{
		OnStatement: func(r *Replacer, statement ast.Statement, path *Path) ([]ast.Statement, bool) {
			switch statement.(type) {
			case *ast.ClassDeclaration, *ast.StructDeclaration, *ast.EnumDeclaration:
			default:
				return nil, false
			}
			result := r.DefaultStatement(statement, path)
			switch s := result[0].(type) {
			case *ast.ClassDeclaration:
				s.Members = withCompanion(s.Members)
			case *ast.StructDeclaration:
				s.Members = withCompanion(s.Members)
			case *ast.EnumDeclaration:
				s.Members = withCompanion(s.Members)
			}
			return result, true
		},
	}
	return replacer.ReplaceModule(module)
}

func isStaticMember(statement ast.Statement) bool {
	switch s := statement.(type) {
	case *ast.FunctionDeclaration:
		return s.Data.IsStatic
	case *ast.VariableDeclaration:
		return s.Data.IsStatic
	}
	return false
}

func withCompanion(members []ast.Statement) []ast.Statement {
	var statics []ast.Statement
	var companion *ast.CompanionObject
	result := make([]ast.Statement, 0, len(members))
	for _, member := range members {
		switch {
		case isStaticMember(member):
			statics = append(statics, member)
		default:
			if existing, ok := member.(*ast.CompanionObject); ok && companion == nil {
				companion = existing
				continue
			}
			result = append(result, member)
		}
	}
	if len(statics) == 0 && companion == nil {
		return result
	}
	merged := &ast.CompanionObject{}
	if companion != nil {
		merged.Members = append(merged.Members, companion.Members...)
	}
	merged.Members = append(merged.Members, statics...)
	return append(result, merged)
}

// cleanInheritances drops inherited protocols and raw value types Kotlin
// has no use for.
func cleanInheritances(ctx *Context, module *ast.Module) (*ast.Module, error) {
	keep := func(inherits []string) []string {
		var result []string
		for _, name := range inherits {
			if !ctx.Registry.IsBuiltinProtocol(name) {
				result = append(result, name)
			}
		}
		return result
	}
	replacer := &Replacer{
		OnStatement: func(r *Replacer, statement ast.Statement, path *Path) ([]ast.Statement, bool) {
			switch statement.(type) {
			case *ast.ClassDeclaration, *ast.StructDeclaration, *ast.EnumDeclaration:
			default:
				return nil, false
			}
			result := r.DefaultStatement(statement, path)
			switch s := result[0].(type) {
			case *ast.ClassDeclaration:
				s.Inherits = keep(s.Inherits)
			case *ast.StructDeclaration:
				s.Inherits = keep(s.Inherits)
			case *ast.EnumDeclaration:
				s.Inherits = keep(s.Inherits)
			}
			return result, true
		},
	}
	return replacer.ReplaceModule(module), nil
}

// removeTypePrefixes shortens "Outer.Inner" to "Inner" in type names used
// inside Outer.
func removeTypePrefixes(module *ast.Module) *ast.Module {
	replacer := &Replacer{
		OnStatement: func(r *Replacer, statement ast.Statement, path *Path) ([]ast.Statement, bool) {
			enclosing := path.EnclosingTypes()
			if len(enclosing) == 0 {
				return nil, false
			}
			switch statement.(type) {
			case *ast.FunctionDeclaration, *ast.VariableDeclaration:
			default:
				return nil, false
			}
			result := r.DefaultStatement(statement, path)
			switch s := result[0].(type) {
			case *ast.FunctionDeclaration:
				s.Data.ReturnType = stripTypePrefixes(s.Data.ReturnType, enclosing)
				for i := range s.Data.Parameters {
					s.Data.Parameters[i].TypeName = stripTypePrefixes(s.Data.Parameters[i].TypeName, enclosing)
				}
			case *ast.VariableDeclaration:
				s.Data.TypeName = stripTypePrefixes(s.Data.TypeName, enclosing)
			}
			return result, true
		},
		OnExpression: func(_ *Replacer, expression ast.Expression, path *Path) (ast.Expression, bool) {
			typeExpression, ok := expression.(*ast.TypeExpression)
			if !ok {
				return nil, false
			}
			enclosing := path.EnclosingTypes()
			if len(enclosing) == 0 {
				return nil, false
			}
			return &ast.TypeExpression{TypeName: stripTypePrefixes(typeExpression.TypeName, enclosing)}, true
		},
	}
	return replacer.ReplaceModule(module)
}

// stripTypePrefixes removes every "Name." that starts a type component,
// for each of the given names.
func stripTypePrefixes(typeName string, names []string) string {
	for _, name := range names {
		prefix := name + "."
		var builder strings.Builder
		for i := 0; i < len(typeName); {
			if strings.HasPrefix(typeName[i:], prefix) && (i == 0 || !isIdentifierByte(typeName[i-1])) {
				i += len(prefix)
				continue
			}
			builder.WriteByte(typeName[i])
			i++
		}
		typeName = builder.String()
	}
	return typeName
}

func isIdentifierByte(c byte) bool {
	return c == '_' || c == '.' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// renameSelf turns "self" into "this", and drops it where Swift left the
// receiver implicit.
func renameSelf(module *ast.Module) *ast.Module {
	replacer := &Replacer{
		OnExpression: func(r *Replacer, expression ast.Expression, path *Path) (ast.Expression, bool) {
			switch e := expression.(type) {
			case *ast.DotExpression:
				left, ok := e.LeftExpression.(*ast.DeclarationReferenceExpression)
				if ok && left.Identifier == "self" && left.IsImplicit {
					return r.ReplaceExpression(e.RightExpression, path), true
				}
			case *ast.DeclarationReferenceExpression:
				if e.Identifier == "self" {
					c := *e
					c.Identifier = "this"
					return &c, true
				}
			}
			return nil, false
		},
	}
	return replacer.ReplaceModule(module)
}

// ClosureParameter is the name Kotlin gives the single parameter of a
// lambda that does not declare one.
const ClosureParameter = "it"

// renameClosureParameters renames Swift's anonymous "$0" to "it" in
// closures that take one parameter.
func renameClosureParameters(module *ast.Module) *ast.Module {
	replacer := &Replacer{
		OnExpression: func(r *Replacer, expression ast.Expression, path *Path) (ast.Expression, bool) {
			closure, ok := expression.(*ast.ClosureExpression)
			if !ok || len(closure.Parameters) != 1 || closure.Parameters[0].Label != "$0" {
				return nil, false
			}
			result := r.DefaultExpression(closure, path).(*ast.ClosureExpression)
			result.Parameters[0].Label = ClosureParameter
			result.Statements = renameReferences(result.Statements, "$0", ClosureParameter)
			return result, true
		},
	}
	return replacer.ReplaceModule(module)
}

// renameReferences renames a variable, leaving nested closures alone since
// their "$0" is their own.
func renameReferences(statements []ast.Statement, from string, to string) []ast.Statement {
	replacer := &Replacer{
		OnExpression: func(_ *Replacer, expression ast.Expression, _ *Path) (ast.Expression, bool) {
			switch e := expression.(type) {
			case *ast.ClosureExpression:
				return e, true
			case *ast.DeclarationReferenceExpression:
				if e.Identifier == from {
					c := *e
					c.Identifier = to
					return &c, true
				}
			}
			return nil, false
		},
	}
	return replacer.ReplaceStatements(statements, nil)
}

// ArrayWrapper is the Swift reference-semantics array class that maps onto
// Kotlin's MutableList.
const ArrayWrapper = "ArrayClass"

// retargetArrayWrappers rewrites "ArrayClass<T>(array)" as
// "array.toMutableList()" and "x as? ArrayClass<T>" as
// "(x as? List<T>)?.toMutableList()".
func retargetArrayWrappers(module *ast.Module) *ast.Module {
	replacer := &Replacer{
		OnExpression: func(r *Replacer, expression ast.Expression, path *Path) (ast.Expression, bool) {
			switch e := expression.(type) {
			case *ast.CallExpression:
				wrapper, ok := e.Function.(*ast.TypeExpression)
				if !ok || !isArrayWrapper(wrapper.TypeName) {
					return nil, false
				}
				tuple, ok := e.Parameters.(*ast.TupleExpression)
				if !ok || len(tuple.Pairs) != 1 {
					return nil, false
				}
				array := r.ReplaceExpression(tuple.Pairs[0].Expression, path.push(e))
				return toMutableList(array, e.TypeName), true
			case *ast.BinaryOperatorExpression:
				target, ok := e.RightExpression.(*ast.TypeExpression)
				if !ok || e.OperatorSymbol != "as?" || !isArrayWrapper(target.TypeName) {
					return nil, false
				}
				cast := &ast.BinaryOperatorExpression{
					LeftExpression:  r.ReplaceExpression(e.LeftExpression, path.push(e)),
					RightExpression: &ast.TypeExpression{TypeName: "List" + strings.TrimPrefix(target.TypeName, ArrayWrapper)},
					OperatorSymbol:  "as?",
					TypeName:        e.TypeName,
				}
				optional := &ast.OptionalExpression{Expression: &ast.ParenthesesExpression{Expression: cast}}
				return toMutableList(optional, e.TypeName), true
			}
			return nil, false
		},
	}
	return replacer.ReplaceModule(module)
}

func isArrayWrapper(typeName string) bool {
	return strings.HasPrefix(typeName, ArrayWrapper+"<")
}

func toMutableList(receiver ast.Expression, typeName string) ast.Expression {
	return &ast.CallExpression{
		Function: &ast.DotExpression{
			LeftExpression:  receiver,
			RightExpression: &ast.DeclarationReferenceExpression{Identifier: "toMutableList", TypeName: "() -> " + typeName},
		},
		Parameters: &ast.TupleExpression{},
		TypeName:   typeName,
	}
}

// applySubstitutions renames identifiers and operators listed in the
// substitution tables.
func applySubstitutions(ctx *Context, module *ast.Module) (*ast.Module, error) {
	if ctx.Substitutions == nil || len(ctx.Substitutions.Identifiers) == 0 && len(ctx.Substitutions.Operators) == 0 {
		return module, nil
	}
	identifiers := ctx.Substitutions.Identifiers
	operators := ctx.Substitutions.Operators
	replacer := &Replacer{
		OnExpression: func(r *Replacer, expression ast.Expression, path *Path) (ast.Expression, bool) {
			switch e := expression.(type) {
			case *ast.DeclarationReferenceExpression:
				if to, ok := identifiers[e.Identifier]; ok {
					c := *e
					c.Identifier = to
					return &c, true
				}
			case *ast.BinaryOperatorExpression:
				if to, ok := operators[e.OperatorSymbol]; ok {
					c := r.DefaultExpression(e, path).(*ast.BinaryOperatorExpression)
					c.OperatorSymbol = to
					return c, true
				}
			case *ast.PrefixUnaryExpression:
				if to, ok := operators[e.OperatorSymbol]; ok {
					c := r.DefaultExpression(e, path).(*ast.PrefixUnaryExpression)
					c.OperatorSymbol = to
					return c, true
				}
			case *ast.PostfixUnaryExpression:
				if to, ok := operators[e.OperatorSymbol]; ok {
					c := r.DefaultExpression(e, path).(*ast.PostfixUnaryExpression)
					c.OperatorSymbol = to
					return c, true
				}
			}
			return nil, false
		},
	}
	return replacer.ReplaceModule(module), nil
}
