package ast

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spicery/swift2kt/pkg/common"
)

// LiteralCodeExpression is target text spliced in verbatim.
type LiteralCodeExpression struct {
	String string
}

// LiteralDeclarationExpression is a target declaration spliced in verbatim.
type LiteralDeclarationExpression struct {
	String string
}

// TemplateExpression is target text whose placeholders are replaced by the
// rendering of the matched expressions.
type TemplateExpression struct {
	Pattern string
	Matches map[string]Expression
}

type ParenthesesExpression struct {
	Expression Expression
}

type ForceValueExpression struct {
	Expression Expression
}

type OptionalExpression struct {
	Expression Expression
}

type DeclarationReferenceExpression struct {
	Identifier        string
	TypeName          string
	IsStandardLibrary bool
	IsImplicit        bool
	Range             *common.SourceRange
}

type TypeExpression struct {
	TypeName string
}

type SubscriptExpression struct {
	SubscriptedExpression Expression
	IndexExpression       Expression
	TypeName              string
}

type ArrayExpression struct {
	Elements []Expression
	TypeName string
}

type DictionaryExpression struct {
	Keys     []Expression
	Values   []Expression
	TypeName string
}

type DotExpression struct {
	LeftExpression  Expression
	RightExpression Expression
}

type BinaryOperatorExpression struct {
	LeftExpression  Expression
	RightExpression Expression
	OperatorSymbol  string
	TypeName        string
}

type PrefixUnaryExpression struct {
	SubExpression  Expression
	OperatorSymbol string
	TypeName       string
}

type PostfixUnaryExpression struct {
	SubExpression  Expression
	OperatorSymbol string
	TypeName       string
}

// IfExpression is the ternary conditional.
type IfExpression struct {
	Condition       Expression
	TrueExpression  Expression
	FalseExpression Expression
}

// CallExpression's Parameters is a TupleExpression or TupleShuffleExpression.
type CallExpression struct {
	Function   Expression
	Parameters Expression
	TypeName   string
	Range      *common.SourceRange
}

type ClosureExpression struct {
	Parameters []LabeledType
	Statements []Statement
	TypeName   string
}

type LiteralIntExpression struct {
	Value int64
}

type LiteralUIntExpression struct {
	Value uint64
}

type LiteralDoubleExpression struct {
	Value float64
}

type LiteralFloatExpression struct {
	Value float32
}

type LiteralBoolExpression struct {
	Value bool
}

// LiteralStringExpression keeps escape sequences as written in the source.
type LiteralStringExpression struct {
	Value string
}

type LiteralCharacterExpression struct {
	Value string
}

type NilLiteralExpression struct{}

// InterpolatedStringLiteralExpression alternates literal segments and
// interpolated expressions.
type InterpolatedStringLiteralExpression struct {
	Expressions []Expression
}

type TupleExpression struct {
	Pairs []LabeledExpression
}

// IndexKind tags each position of a tuple shuffle.
type IndexKind int

const (
	IndexPresent IndexKind = iota
	IndexAbsent
	IndexVariadic
)

// TupleShuffleIndex says how a declared parameter is supplied: by the next
// expression, not at all, or by the next Count expressions.
type TupleShuffleIndex struct {
	Kind  IndexKind
	Count int
}

func Present() TupleShuffleIndex           { return TupleShuffleIndex{Kind: IndexPresent} }
func Absent() TupleShuffleIndex            { return TupleShuffleIndex{Kind: IndexAbsent} }
func Variadic(count int) TupleShuffleIndex { return TupleShuffleIndex{Kind: IndexVariadic, Count: count} }

func (i TupleShuffleIndex) String() string {
	switch i.Kind {
	case IndexAbsent:
		return "absent"
	case IndexVariadic:
		return "variadic (" + strconv.Itoa(i.Count) + ")"
	default:
		return "present"
	}
}

// TupleShuffleExpression is an argument list whose positions were reordered,
// elided or collapsed into a variadic run.
type TupleShuffleExpression struct {
	Labels      []string
	Indices     []TupleShuffleIndex
	Expressions []Expression
}

// ErrorExpression stands in for an expression that could not be translated.
type ErrorExpression struct{}

func (*LiteralCodeExpression) isExpression()               {}
func (*LiteralDeclarationExpression) isExpression()        {}
func (*TemplateExpression) isExpression()                  {}
func (*ParenthesesExpression) isExpression()               {}
func (*ForceValueExpression) isExpression()                {}
func (*OptionalExpression) isExpression()                  {}
func (*DeclarationReferenceExpression) isExpression()      {}
func (*TypeExpression) isExpression()                      {}
func (*SubscriptExpression) isExpression()                 {}
func (*ArrayExpression) isExpression()                     {}
func (*DictionaryExpression) isExpression()                {}
func (*DotExpression) isExpression()                       {}
func (*BinaryOperatorExpression) isExpression()            {}
func (*PrefixUnaryExpression) isExpression()               {}
func (*PostfixUnaryExpression) isExpression()              {}
func (*IfExpression) isExpression()                        {}
func (*CallExpression) isExpression()                      {}
func (*ClosureExpression) isExpression()                   {}
func (*LiteralIntExpression) isExpression()                {}
func (*LiteralUIntExpression) isExpression()               {}
func (*LiteralDoubleExpression) isExpression()             {}
func (*LiteralFloatExpression) isExpression()              {}
func (*LiteralBoolExpression) isExpression()               {}
func (*LiteralStringExpression) isExpression()             {}
func (*LiteralCharacterExpression) isExpression()          {}
func (*NilLiteralExpression) isExpression()                {}
func (*InterpolatedStringLiteralExpression) isExpression() {}
func (*TupleExpression) isExpression()                     {}
func (*TupleShuffleExpression) isExpression()              {}
func (*ErrorExpression) isExpression()                     {}

// Printing

func (e *LiteralCodeExpression) TreeDescription() string { return "Literal Code Expression" }
func (e *LiteralCodeExpression) PrintableSubtrees() []common.PrintableTree {
	return leaves(e.String)
}

func (e *LiteralDeclarationExpression) TreeDescription() string {
	return "Literal Declaration Expression"
}
func (e *LiteralDeclarationExpression) PrintableSubtrees() []common.PrintableTree {
	return leaves(e.String)
}

func (e *TemplateExpression) TreeDescription() string { return "Template Expression" }
func (e *TemplateExpression) PrintableSubtrees() []common.PrintableTree {
	keys := make([]string, 0, len(e.Matches))
	for key := range e.Matches {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	matches := make([]common.PrintableTree, 0, len(keys))
	for _, key := range keys {
		matches = append(matches, common.NewBranch(key, e.Matches[key]))
	}
	return compact(
		common.NewBranch("Pattern", common.PrintableLeaf(e.Pattern)),
		common.NewBranch("Matches", matches...),
	)
}

func (e *ParenthesesExpression) TreeDescription() string { return "Parentheses Expression" }
func (e *ParenthesesExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(e.Expression)
}

func (e *ForceValueExpression) TreeDescription() string { return "Force Value Expression" }
func (e *ForceValueExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(e.Expression)
}

func (e *OptionalExpression) TreeDescription() string { return "Optional Expression" }
func (e *OptionalExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(e.Expression)
}

func (e *DeclarationReferenceExpression) TreeDescription() string {
	return "Declaration Reference Expression"
}
func (e *DeclarationReferenceExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.PrintableLeaf(e.Identifier),
		common.PrintableLeaf(e.TypeName),
		flag(e.IsStandardLibrary, "isStandardLibrary"),
		flag(e.IsImplicit, "implicit"),
	)
}

func (e *TypeExpression) TreeDescription() string { return "Type Expression" }
func (e *TypeExpression) PrintableSubtrees() []common.PrintableTree {
	return leaves(e.TypeName)
}

func (e *SubscriptExpression) TreeDescription() string { return "Subscript Expression" }
func (e *SubscriptExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.PrintableLeaf("type "+e.TypeName),
		common.NewBranch("Subscripted Expression", e.SubscriptedExpression),
		common.NewBranch("Index Expression", e.IndexExpression),
	)
}

func (e *ArrayExpression) TreeDescription() string { return "Array Expression" }
func (e *ArrayExpression) PrintableSubtrees() []common.PrintableTree {
	return append(leaves("type "+e.TypeName), expressionTrees(e.Elements)...)
}

func (e *DictionaryExpression) TreeDescription() string { return "Dictionary Expression" }
func (e *DictionaryExpression) PrintableSubtrees() []common.PrintableTree {
	pairs := leaves("type " + e.TypeName)
	for i := range e.Keys {
		var value Expression
		if i < len(e.Values) {
			value = e.Values[i]
		}
		pairs = append(pairs, common.NewBranch("Pair", e.Keys[i], value))
	}
	return pairs
}

func (e *DotExpression) TreeDescription() string { return "Dot Expression" }
func (e *DotExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.NewBranch("Left", e.LeftExpression),
		common.NewBranch("Right", e.RightExpression),
	)
}

func (e *BinaryOperatorExpression) TreeDescription() string { return "Binary Operator Expression" }
func (e *BinaryOperatorExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.PrintableLeaf(e.TypeName),
		common.NewBranch("Left", e.LeftExpression),
		common.PrintableLeaf("Operator "+e.OperatorSymbol),
		common.NewBranch("Right", e.RightExpression),
	)
}

func (e *PrefixUnaryExpression) TreeDescription() string { return "Prefix Unary Expression" }
func (e *PrefixUnaryExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.PrintableLeaf("Operator "+e.OperatorSymbol),
		common.PrintableLeaf(e.TypeName),
		common.NewBranch("Expression", e.SubExpression),
	)
}

func (e *PostfixUnaryExpression) TreeDescription() string { return "Postfix Unary Expression" }
func (e *PostfixUnaryExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.PrintableLeaf("Operator "+e.OperatorSymbol),
		common.PrintableLeaf(e.TypeName),
		common.NewBranch("Expression", e.SubExpression),
	)
}

func (e *IfExpression) TreeDescription() string { return "If Expression" }
func (e *IfExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.NewBranch("Condition", e.Condition),
		common.NewBranch("True Expression", e.TrueExpression),
		common.NewBranch("False Expression", e.FalseExpression),
	)
}

func (e *CallExpression) TreeDescription() string { return "Call Expression" }
func (e *CallExpression) PrintableSubtrees() []common.PrintableTree {
	return compact(
		common.PrintableLeaf("type "+e.TypeName),
		common.NewBranch("Function", e.Function),
		common.NewBranch("Parameters", e.Parameters),
	)
}

func (e *ClosureExpression) TreeDescription() string { return "Closure Expression" }
func (e *ClosureExpression) PrintableSubtrees() []common.PrintableTree {
	parameters := make([]common.PrintableTree, 0, len(e.Parameters))
	for _, parameter := range e.Parameters {
		parameters = append(parameters, common.PrintableLeaf(parameter.Label+": "+parameter.TypeName))
	}
	return compact(
		common.NewBranch("Parameters", parameters...),
		statementsBranch("Statements", e.Statements),
	)
}

func (e *LiteralIntExpression) TreeDescription() string { return "Literal Int Expression" }
func (e *LiteralIntExpression) PrintableSubtrees() []common.PrintableTree {
	return leaves(strconv.FormatInt(e.Value, 10))
}

func (e *LiteralUIntExpression) TreeDescription() string { return "Literal UInt Expression" }
func (e *LiteralUIntExpression) PrintableSubtrees() []common.PrintableTree {
	return leaves(strconv.FormatUint(e.Value, 10))
}

func (e *LiteralDoubleExpression) TreeDescription() string { return "Literal Double Expression" }
func (e *LiteralDoubleExpression) PrintableSubtrees() []common.PrintableTree {
	return leaves(FormatDouble(e.Value))
}

func (e *LiteralFloatExpression) TreeDescription() string { return "Literal Float Expression" }
func (e *LiteralFloatExpression) PrintableSubtrees() []common.PrintableTree {
	return leaves(FormatFloat(e.Value))
}

func (e *LiteralBoolExpression) TreeDescription() string { return "Literal Bool Expression" }
func (e *LiteralBoolExpression) PrintableSubtrees() []common.PrintableTree {
	return leaves(strconv.FormatBool(e.Value))
}

func (e *LiteralStringExpression) TreeDescription() string { return "Literal String Expression" }
func (e *LiteralStringExpression) PrintableSubtrees() []common.PrintableTree {
	return leaves(e.Value)
}

func (e *LiteralCharacterExpression) TreeDescription() string {
	return "Literal Character Expression"
}
func (e *LiteralCharacterExpression) PrintableSubtrees() []common.PrintableTree {
	return leaves(e.Value)
}

func (e *NilLiteralExpression) TreeDescription() string                 { return "Nil Literal Expression" }
func (e *NilLiteralExpression) PrintableSubtrees() []common.PrintableTree { return nil }
func (e *ErrorExpression) TreeDescription() string                      { return "Error" }
func (e *ErrorExpression) PrintableSubtrees() []common.PrintableTree      { return nil }

func (e *InterpolatedStringLiteralExpression) TreeDescription() string {
	return "Interpolated String Literal Expression"
}
func (e *InterpolatedStringLiteralExpression) PrintableSubtrees() []common.PrintableTree {
	return expressionTrees(e.Expressions)
}

func (e *TupleExpression) TreeDescription() string { return "Tuple Expression" }
func (e *TupleExpression) PrintableSubtrees() []common.PrintableTree {
	pairs := make([]common.PrintableTree, 0, len(e.Pairs))
	for _, pair := range e.Pairs {
		label := pair.Label
		if label == "" {
			label = "_"
		}
		pairs = append(pairs, common.NewBranch(label, pair.Expression))
	}
	return pairs
}

func (e *TupleShuffleExpression) TreeDescription() string { return "Tuple Shuffle Expression" }
func (e *TupleShuffleExpression) PrintableSubtrees() []common.PrintableTree {
	indices := make([]common.PrintableTree, 0, len(e.Indices))
	for _, index := range e.Indices {
		indices = append(indices, common.PrintableLeaf(index.String()))
	}
	return compact(
		stringsBranch("Labels", e.Labels),
		common.NewBranch("Indices", indices...),
		common.NewBranch("Expressions", expressionTrees(e.Expressions)...),
	)
}

// FormatDouble prints a double the way a source literal would, always with a
// fractional part.
func FormatDouble(value float64) string {
	text := strconv.FormatFloat(value, 'g', -1, 64)
	return withFraction(text)
}

func FormatFloat(value float32) string {
	text := strconv.FormatFloat(float64(value), 'g', -1, 32)
	return withFraction(text)
}

func withFraction(text string) string {
	for _, c := range text {
		if c == '.' || c == 'e' || c == 'n' || c == 'I' {
			return text
		}
	}
	return fmt.Sprintf("%s.0", text)
}
